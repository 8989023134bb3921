// Package seed fills an empty store with sample categories, people and
// transactions.
package seed

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

const (
	// DefaultPeople is the number of people created when none exist.
	DefaultPeople = 40
	// recentPeople receive generated transactions.
	recentPeople          = 10
	transactionsPerPerson = 5
	transactionWindow     = 60 * 24 * time.Hour
)

// Categories are the fixed categories created on first run.
var Categories = []core.Category{
	{Description: "Alimentação", Purpose: core.PurposeExpense},
	{Description: "Transporte", Purpose: core.PurposeExpense},
	{Description: "Moradia", Purpose: core.PurposeExpense},
	{Description: "Educação", Purpose: core.PurposeExpense},
	{Description: "Saúde", Purpose: core.PurposeExpense},
	{Description: "Lazer", Purpose: core.PurposeExpense},
	{Description: "Utilidades", Purpose: core.PurposeExpense},
	{Description: "Vestuário", Purpose: core.PurposeExpense},
	{Description: "Impostos", Purpose: core.PurposeExpense},
	{Description: "Combustível", Purpose: core.PurposeExpense},

	{Description: "Salário", Purpose: core.PurposeIncome},
	{Description: "Freelance", Purpose: core.PurposeIncome},
	{Description: "Investimentos", Purpose: core.PurposeIncome},
	{Description: "Aluguel Recebido", Purpose: core.PurposeIncome},
	{Description: "Vendas", Purpose: core.PurposeIncome},
	{Description: "Benefícios", Purpose: core.PurposeIncome},
	{Description: "Comissões", Purpose: core.PurposeIncome},
	{Description: "Presentes Recebidos", Purpose: core.PurposeIncome},

	{Description: "Transferências", Purpose: core.PurposeBoth},
	{Description: "Outros", Purpose: core.PurposeBoth},
}

var incomeDescriptions = []string{
	"Salário mensal",
	"Freelance",
	"Rendimento de investimentos",
	"Aluguel recebido",
	"Venda",
	"Comissão de vendas",
	"Auxílio e benefícios",
	"Presente recebido",
	"Reembolso",
	"Prêmio e bonificação",
}

var expenseTemplates = []string{
	"Compra no %s",
	"Pagamento de %s",
	"Conta de %s",
	"Serviço de %s",
	"Material de %s",
	"Refeição no %s",
	"Transporte - %s",
	"Medicamento - %s",
	"Manutenção - %s",
	"Taxa de %s",
}

var places = []string{
	"supermercado", "farmácia", "posto de gasolina", "restaurante", "loja",
	"oficina", "clínica", "academia", "cinema", "shopping",
}

// Report counts the rows each step created.
type Report struct {
	Categories   int
	People       int
	Transactions int
}

type Seeder struct {
	repos  storage.Repositories
	faker  *gofakeit.Faker
	now    func() time.Time
	logger *log.Logger
}

type Option func(*Seeder)

// WithSeed makes generation reproducible. Zero keeps a random seed.
func WithSeed(seed int64) Option {
	return func(s *Seeder) { s.faker = gofakeit.New(seed) }
}

func WithClock(now func() time.Time) Option {
	return func(s *Seeder) { s.now = now }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Seeder) { s.logger = l }
}

func New(repos storage.Repositories, opts ...Option) *Seeder {
	s := &Seeder{repos: repos, faker: gofakeit.New(0), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.logger == nil {
		s.logger = log.Discard()
	}
	s.logger = s.logger.WithComponent(log.ComponentSeed)
	return s
}

// Run seeds categories, then people, then transactions. Each step is
// skipped when its table already has rows.
func (s *Seeder) Run(ctx context.Context, people int) (Report, error) {
	var (
		r   Report
		err error
	)
	if r.Categories, err = s.SeedCategories(ctx); err != nil {
		return r, err
	}
	if r.People, err = s.SeedPeople(ctx, people); err != nil {
		return r, err
	}
	if r.Transactions, err = s.SeedTransactions(ctx); err != nil {
		return r, err
	}
	s.logger.InfoContext(ctx, "Seed finished",
		log.FieldOperation, log.OpSeed,
		"categories", r.Categories,
		"people", r.People,
		"transactions", r.Transactions)
	return r, nil
}

func (s *Seeder) SeedCategories(ctx context.Context) (int, error) {
	n, err := s.repos.Categories.Count(ctx, core.CategoryFilter{})
	if err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	if n > 0 {
		s.logger.DebugContext(ctx, "Categories present, skipping", log.FieldRows, n)
		return 0, nil
	}
	for _, c := range Categories {
		if err := s.repos.Categories.Add(ctx, &c); err != nil {
			return 0, fmt.Errorf("add category %q: %w", c.Description, err)
		}
	}
	return len(Categories), nil
}

// SeedPeople creates count people aged between one and eighty.
func (s *Seeder) SeedPeople(ctx context.Context, count int) (int, error) {
	n, err := s.repos.People.Count(ctx, core.PersonFilter{})
	if err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	if n > 0 {
		s.logger.DebugContext(ctx, "People present, skipping", log.FieldRows, n)
		return 0, nil
	}

	today := core.DateOf(s.now().UTC()).Time
	oldest, youngest := today.AddDate(-80, 0, 0), today.AddDate(-1, 0, 0)
	for i := range count {
		p := core.Person{
			Name:      s.name(),
			BirthDate: core.DateOf(s.faker.DateRange(oldest, youngest)),
		}
		if err := s.repos.People.Add(ctx, &p); err != nil {
			return i, fmt.Errorf("add person: %w", err)
		}
	}
	return count, nil
}

// name returns a full name made only of letters and spaces.
func (s *Seeder) name() string {
	for {
		name := strings.Join(strings.FieldsFunc(s.faker.Name(), func(r rune) bool {
			return !unicode.IsLetter(r)
		}), " ")
		if len(name) >= 3 {
			return name
		}
	}
}

// SeedTransactions gives each of the most recent people five transactions
// inside the last sixty days. Minors only get expenses; categories always
// accept the chosen type.
func (s *Seeder) SeedTransactions(ctx context.Context) (int, error) {
	n, err := s.repos.Transactions.Count(ctx, core.TransactionFilter{})
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	if n > 0 {
		s.logger.DebugContext(ctx, "Transactions present, skipping", log.FieldRows, n)
		return 0, nil
	}

	people, err := s.repos.People.Paginate(ctx, 0, recentPeople, core.PersonFilter{}, core.OrderNewestFirst)
	if err != nil {
		return 0, fmt.Errorf("load people: %w", err)
	}
	categories, err := s.repos.Categories.List(ctx, core.CategoryFilter{}, core.OrderByDesc)
	if err != nil {
		return 0, fmt.Errorf("load categories: %w", err)
	}

	var expense, income []core.Category
	for _, c := range categories {
		if c.Purpose.Accepts(core.Expense) {
			expense = append(expense, c)
		}
		if c.Purpose.Accepts(core.Income) {
			income = append(income, c)
		}
	}
	if len(people) == 0 || len(expense) == 0 {
		return 0, nil
	}

	now := s.now().UTC()
	created := 0
	for _, p := range people {
		adult := core.Age(p.BirthDate.Time, now) >= core.AdultAge
		for range transactionsPerPerson {
			t := s.expense(p, expense, now)
			if adult && len(income) > 0 && s.faker.Bool() {
				t = s.income(p, income, now)
			}
			if err := s.repos.Transactions.Add(ctx, &t); err != nil {
				return created, fmt.Errorf("add transaction: %w", err)
			}
			created++
		}
	}
	return created, nil
}

func (s *Seeder) expense(p core.Person, cats []core.Category, now time.Time) core.Transaction {
	desc := fmt.Sprintf(s.faker.RandomString(expenseTemplates), s.faker.RandomString(places))
	return s.transaction(p, cats, core.Expense, desc, 10, 500, now)
}

func (s *Seeder) income(p core.Person, cats []core.Category, now time.Time) core.Transaction {
	return s.transaction(p, cats, core.Income, s.faker.RandomString(incomeDescriptions), 500, 5000, now)
}

func (s *Seeder) transaction(p core.Person, cats []core.Category, tt core.TransactionType, desc string, lo, hi float64, now time.Time) core.Transaction {
	c := cats[s.faker.Number(0, len(cats)-1)]
	return core.Transaction{
		Description: desc,
		Amount:      core.RoundAmount(decimal.NewFromFloat(s.faker.Price(lo, hi))),
		Type:        tt,
		Date:        s.faker.DateRange(now.Add(-transactionWindow), now).UTC(),
		CategoryID:  c.ID,
		PersonID:    p.ID,
	}
}
