// Package dto holds the JSON shapes of the API and their mapping to and
// from the domain. Field names are Portuguese and form the wire contract.
package dto

import (
	"time"

	"gastos/internal/core"
	"gastos/internal/services"
)

// Envelope wraps every response body.
type Envelope struct {
	Success bool     `json:"success"`
	Errors  []string `json:"errors"`
	Data    any      `json:"data"`
}

func OkEnvelope(data any) Envelope {
	return Envelope{Success: true, Errors: []string{}, Data: data}
}

func FailEnvelope(errs ...string) Envelope {
	if errs == nil {
		errs = []string{}
	}
	return Envelope{Success: false, Errors: errs, Data: nil}
}

// FromResult maps a service result into an envelope, converting the data
// with fn on success.
func FromResult[T, U any](res services.Result[T], fn func(T) U) Envelope {
	if !res.Success {
		return FailEnvelope(res.Errors...)
	}
	return OkEnvelope(fn(res.Data))
}

type PagedResult[T any] struct {
	Items           []T  `json:"items"`
	CurrentPage     int  `json:"currentPage"`
	PageSize        int  `json:"pageSize"`
	TotalItems      int  `json:"totalItems"`
	TotalPages      int  `json:"totalPages"`
	HasPreviousPage bool `json:"hasPreviousPage"`
	HasNextPage     bool `json:"hasNextPage"`
}

// Paged maps a service page item by item.
func Paged[T, U any](p services.Page[T], fn func(T) U) PagedResult[U] {
	items := make([]U, len(p.Items))
	for i, it := range p.Items {
		items[i] = fn(it)
	}
	return PagedResult[U]{
		Items:           items,
		CurrentPage:     p.CurrentPage,
		PageSize:        p.Take,
		TotalItems:      p.TotalItems,
		TotalPages:      p.TotalPages,
		HasPreviousPage: p.HasPreviousPage,
		HasNextPage:     p.HasNextPage,
	}
}

// List maps a slice item by item, never returning nil.
func List[T, U any](in []T, fn func(T) U) []U {
	out := make([]U, len(in))
	for i, it := range in {
		out[i] = fn(it)
	}
	return out
}

type Totals struct {
	TotalReceitas Amount `json:"totalReceitas"`
	TotalDespesas Amount `json:"totalDespesas"`
	SaldoLiquido  Amount `json:"saldoLiquido"`
}

func FromTotals(t core.Totals) Totals {
	return Totals{
		TotalReceitas: NewAmount(t.Income),
		TotalDespesas: NewAmount(t.Expense),
		SaldoLiquido:  NewAmount(t.Balance),
	}
}

// Person

type PersonRequest struct {
	Nome           string `json:"nome" validate:"required,min=3,max=150,personname"`
	DataNascimento string `json:"dataNascimento" validate:"required"`
}

type PersonResponse struct {
	ID             int64  `json:"id"`
	Nome           string `json:"nome"`
	DataNascimento string `json:"dataNascimento"`
	Idade          string `json:"idade,omitempty"`
}

// ToDomain validates the request and builds a person without identity.
// Birth dates in the future are rejected.
func (r PersonRequest) ToDomain(today time.Time) (core.Person, []string) {
	if errs := Validate(r); len(errs) > 0 {
		return core.Person{}, errs
	}
	birth, err := core.ParseDate(r.DataNascimento)
	if err != nil {
		return core.Person{}, []string{"Data de nascimento inválida."}
	}
	if birth.After(core.DateOf(today).Time) {
		return core.Person{}, []string{"Data de nascimento não pode ser futura."}
	}
	return core.Person{Name: r.Nome, BirthDate: birth}, nil
}

func FromPerson(p core.Person, today time.Time) PersonResponse {
	return PersonResponse{
		ID:             p.ID,
		Nome:           p.Name,
		DataNascimento: p.BirthDate.String(),
		Idade:          core.FormattedAge(p.BirthDate.Time, today),
	}
}

type PersonTotals struct {
	ID             int64  `json:"id"`
	Nome           string `json:"nome"`
	DataNascimento string `json:"dataNascimento"`
	Idade          int    `json:"idade"`
	TotalReceitas  Amount `json:"totalReceitas"`
	TotalDespesas  Amount `json:"totalDespesas"`
	Saldo          Amount `json:"saldo"`
}

func FromPersonTotals(p services.PersonTotals) PersonTotals {
	return PersonTotals{
		ID:             p.Person.ID,
		Nome:           p.Person.Name,
		DataNascimento: p.Person.BirthDate.String(),
		Idade:          p.Age,
		TotalReceitas:  NewAmount(p.Totals.Income),
		TotalDespesas:  NewAmount(p.Totals.Expense),
		Saldo:          NewAmount(p.Totals.Balance),
	}
}

type PeopleTotalsResult struct {
	Pessoas       []PersonTotals `json:"pessoas"`
	TotalReceitas Amount         `json:"totalReceitas"`
	TotalDespesas Amount         `json:"totalDespesas"`
	Saldo         Amount         `json:"saldo"`
}

func FromPeopleTotals(r services.PeopleTotals) PeopleTotalsResult {
	return PeopleTotalsResult{
		Pessoas:       List(r.Page.Items, FromPersonTotals),
		TotalReceitas: NewAmount(r.Totals.Income),
		TotalDespesas: NewAmount(r.Totals.Expense),
		Saldo:         NewAmount(r.Totals.Balance),
	}
}

// Category

type CategoryRequest struct {
	Descricao  string `json:"descricao" validate:"required,min=3,max=150"`
	Finalidade int    `json:"finalidade" validate:"required,min=1,max=3"`
}

type CategoryResponse struct {
	ID         int64  `json:"id"`
	Descricao  string `json:"descricao"`
	Finalidade int    `json:"finalidade"`
}

func (r CategoryRequest) ToDomain() (core.Category, []string) {
	if errs := Validate(r); len(errs) > 0 {
		return core.Category{}, errs
	}
	return core.Category{Description: r.Descricao, Purpose: core.CategoryPurpose(r.Finalidade)}, nil
}

func FromCategory(c core.Category) CategoryResponse {
	return CategoryResponse{ID: c.ID, Descricao: c.Description, Finalidade: int(c.Purpose)}
}

type CategoryTotals struct {
	ID            int64  `json:"id"`
	Descricao     string `json:"descricao"`
	Finalidade    int    `json:"finalidade"`
	TotalReceitas Amount `json:"totalReceitas"`
	TotalDespesas Amount `json:"totalDespesas"`
	Saldo         Amount `json:"saldo"`
}

func FromCategoryTotals(c services.CategoryTotals) CategoryTotals {
	return CategoryTotals{
		ID:            c.Category.ID,
		Descricao:     c.Category.Description,
		Finalidade:    int(c.Category.Purpose),
		TotalReceitas: NewAmount(c.Totals.Income),
		TotalDespesas: NewAmount(c.Totals.Expense),
		Saldo:         NewAmount(c.Totals.Balance),
	}
}

type CategoriesTotalsResult struct {
	Categorias    []CategoryTotals `json:"categorias"`
	TotalReceitas Amount           `json:"totalReceitas"`
	TotalDespesas Amount           `json:"totalDespesas"`
	Saldo         Amount           `json:"saldo"`
}

func FromCategoriesTotals(r services.CategoriesTotals) CategoriesTotalsResult {
	return CategoriesTotalsResult{
		Categorias:    List(r.Page.Items, FromCategoryTotals),
		TotalReceitas: NewAmount(r.Totals.Income),
		TotalDespesas: NewAmount(r.Totals.Expense),
		Saldo:         NewAmount(r.Totals.Balance),
	}
}

// Transaction

type TransactionRequest struct {
	Descricao     string `json:"descricao" validate:"required,min=2,max=200"`
	Valor         Amount `json:"valor" validate:"gt=0"`
	Tipo          int    `json:"tipo" validate:"required,oneof=1 2"`
	DataTransacao string `json:"dataTransacao" validate:"required"`
	CategoriaID   int64  `json:"categoriaId" validate:"min=1"`
	PessoaID      int64  `json:"pessoaId" validate:"min=1"`
}

type TransactionResponse struct {
	ID            int64             `json:"id"`
	Descricao     string            `json:"descricao"`
	Valor         Amount            `json:"valor"`
	Tipo          int               `json:"tipo"`
	DataTransacao string            `json:"dataTransacao"`
	CategoriaID   int64             `json:"categoriaId"`
	PessoaID      int64             `json:"pessoaId"`
	Pessoa        *PersonResponse   `json:"pessoa"`
	Categoria     *CategoryResponse `json:"categoria"`
}

// ToDomain validates the request. The transaction date keeps its time of
// day when given as RFC3339 and is stored in UTC.
func (r TransactionRequest) ToDomain() (core.Transaction, []string) {
	if errs := Validate(r); len(errs) > 0 {
		return core.Transaction{}, errs
	}
	when, err := parseTimestamp(r.DataTransacao)
	if err != nil {
		return core.Transaction{}, []string{"Data da transação inválida."}
	}
	return core.Transaction{
		Description: r.Descricao,
		Amount:      r.Valor.Decimal,
		Type:        core.TransactionType(r.Tipo),
		Date:        when,
		CategoryID:  r.CategoriaID,
		PersonID:    r.PessoaID,
	}, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	d, err := core.ParseDate(s)
	if err != nil {
		return time.Time{}, err
	}
	return d.Time, nil
}

// FromTransaction maps a transaction and whichever references are loaded.
func FromTransaction(d services.TransactionDetail, today time.Time) TransactionResponse {
	t := d.Transaction
	out := TransactionResponse{
		ID:            t.ID,
		Descricao:     t.Description,
		Valor:         NewAmount(t.Amount),
		Tipo:          int(t.Type),
		DataTransacao: t.Date.UTC().Format(time.RFC3339),
		CategoriaID:   t.CategoryID,
		PessoaID:      t.PersonID,
	}
	if d.Person != nil {
		p := FromPerson(*d.Person, today)
		out.Pessoa = &p
	}
	if d.Category != nil {
		c := FromCategory(*d.Category)
		out.Categoria = &c
	}
	return out
}
