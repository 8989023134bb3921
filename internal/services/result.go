package services

import (
	"strings"

	"gastos/internal/core"
)

// Result is the uniform outcome of every service operation. Failures never
// surface as Go errors: Kind tells the transport how to answer and Errors
// carries the text shown to the caller.
type Result[T any] struct {
	Success bool
	Errors  []string
	Data    T
	Kind    core.ErrorKind
}

func Ok[T any](data T) Result[T] {
	return Result[T]{Success: true, Errors: []string{}, Data: data, Kind: core.KindNone}
}

// Fail builds a failed result. Messages are trimmed and blank ones dropped.
func Fail[T any](kind core.ErrorKind, msgs ...string) Result[T] {
	errs := make([]string, 0, len(msgs))
	for _, m := range msgs {
		if m = strings.TrimSpace(m); m != "" {
			errs = append(errs, m)
		}
	}
	return Result[T]{Success: false, Errors: errs, Kind: kind}
}

// Page is one window of a listing together with its metadata.
type Page[T any] struct {
	Items []T
	core.PageInfo
}

func newPage[T any](items []T, skip, take, total int) Page[T] {
	if items == nil {
		items = []T{}
	}
	return Page[T]{Items: items, PageInfo: core.Paginate(skip, take, total)}
}

// Messages returned to callers.
const (
	MsgPersonNotFound      = "Pessoa não encontrada"
	MsgCategoryNotFound    = "Categoria não encontrada"
	MsgTransactionNotFound = "Transação não encontrada"
	MsgCategoryInUse       = "Categoria possui transações vinculadas e não pode ser excluída"
	MsgAmountTooLarge      = "O valor excede o máximo permitido."

	MsgCreatePersonFailed = "Ocorreu um erro ao criar a pessoa"
	MsgUpdatePersonFailed = "Ocorreu um erro ao atualizar a pessoa"
	MsgGetPersonFailed    = "Ocorreu um erro ao buscar a pessoa"
	MsgDeletePersonFailed = "Ocorreu um erro ao excluir a pessoa"
	MsgListPeopleFailed   = "Ocorreu um erro ao listar pessoas"
	MsgPeopleTotalsFailed = "Ocorreu um erro ao obter totais por pessoa"

	MsgCreateCategoryFailed = "Ocorreu um erro ao criar a categoria"
	MsgUpdateCategoryFailed = "Ocorreu um erro ao atualizar a categoria"
	MsgGetCategoryFailed    = "Ocorreu um erro ao buscar a categoria"
	MsgDeleteCategoryFailed = "Ocorreu um erro ao excluir a categoria"
	MsgListCategoriesFailed = "Ocorreu um erro ao listar categorias"
	MsgCategoryTotalsFailed = "Ocorreu um erro ao obter totais por categoria"

	MsgCreateTransactionFailed = "Ocorreu um erro ao criar a transação"
	MsgUpdateTransactionFailed = "Ocorreu um erro ao atualizar a transação"
	MsgGetTransactionFailed    = "Ocorreu um erro ao buscar a transação"
	MsgDeleteTransactionFailed = "Ocorreu um erro ao excluir a transação"
	MsgListTransactionsFailed  = "Ocorreu um erro ao listar transações"
	MsgTotalsFailed            = "Ocorreu um erro ao obter totais gerais"
)
