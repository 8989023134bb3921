package services

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/storage"
	"gastos/internal/storage/memory"
)

var today = time.Date(2026, 3, 10, 15, 0, 0, 0, time.UTC)

func fixedClock() time.Time { return today }

// spyTransactions wraps a real store, recording paging arguments and
// injecting failures.
type spyTransactions struct {
	storage.TransactionRepository

	mu       sync.Mutex
	pages    [][2]int
	addErr   error
	sumErr   error
	sumCalls atomic.Int32
}

func (s *spyTransactions) Add(ctx context.Context, t *core.Transaction) error {
	if s.addErr != nil {
		return s.addErr
	}
	return s.TransactionRepository.Add(ctx, t)
}

func (s *spyTransactions) Paginate(ctx context.Context, skip, take int, f core.TransactionFilter, o core.Order) ([]core.Transaction, error) {
	s.mu.Lock()
	s.pages = append(s.pages, [2]int{skip, take})
	s.mu.Unlock()
	return s.TransactionRepository.Paginate(ctx, skip, take, f, o)
}

func (s *spyTransactions) SumByType(ctx context.Context, t core.TransactionType, f core.TransactionFilter) (decimal.Decimal, error) {
	s.sumCalls.Add(1)
	if s.sumErr != nil {
		return decimal.Zero, s.sumErr
	}
	return s.TransactionRepository.SumByType(ctx, t, f)
}

type recordedEvent struct {
	event string
	tx    core.Transaction
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
	err    error
}

func (p *recordingPublisher) PublishTransaction(_ context.Context, event string, t core.Transaction) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{event: event, tx: t})
	return p.err
}

type fixture struct {
	repos     storage.Repositories
	spy       *spyTransactions
	events    *recordingPublisher
	totals    *TotalsEngine
	tx        *TransactionService
	people    *PersonService
	cats      *CategoryService
	adult     core.Person
	minor     core.Person
	food      core.Category
	salary    core.Category
	household core.Category
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()

	repos := memory.New().Repositories()
	spy := &spyTransactions{TransactionRepository: repos.Transactions}
	repos.Transactions = spy

	f := &fixture{repos: repos, spy: spy, events: &recordingPublisher{}}
	f.totals = NewTotalsEngine(repos.Transactions, 2, nil)
	f.tx = NewTransactionService(repos, f.totals, WithClock(fixedClock), WithEvents(f.events))
	f.people = NewPersonService(repos.People, f.totals, WithClock(fixedClock))
	f.cats = NewCategoryService(repos.Categories, f.totals)

	f.adult = core.Person{Name: "Carla Souza", BirthDate: core.NewDate(1990, 6, 1)}
	// Seventeen years old on the fixed date.
	f.minor = core.Person{Name: "Davi Souza", BirthDate: core.NewDate(2009, 1, 20)}
	require.NoError(t, repos.People.Add(ctx, &f.adult))
	require.NoError(t, repos.People.Add(ctx, &f.minor))

	f.food = core.Category{Description: "Alimentação", Purpose: core.PurposeExpense}
	f.salary = core.Category{Description: "Salário", Purpose: core.PurposeIncome}
	f.household = core.Category{Description: "Casa", Purpose: core.PurposeBoth}
	for _, c := range []*core.Category{&f.food, &f.salary, &f.household} {
		require.NoError(t, repos.Categories.Add(ctx, c))
	}
	return f
}

func (f *fixture) newTx(p core.Person, c core.Category, tt core.TransactionType, amount string) core.Transaction {
	return core.Transaction{
		Description: "Lançamento",
		Amount:      decimal.RequireFromString(amount),
		Type:        tt,
		Date:        time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		PersonID:    p.ID,
		CategoryID:  c.ID,
	}
}

func (f *fixture) mustCreate(t *testing.T, in core.Transaction) core.Transaction {
	t.Helper()
	res := f.tx.Create(context.Background(), in)
	require.True(t, res.Success, res.Errors)
	return res.Data.Transaction
}
