package seed

import (
	"context"
	"testing"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/storage/memory"
)

var fixedNow = time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)

func newSeeder(t *testing.T) (*Seeder, *memory.Store) {
	t.Helper()
	store := memory.New()
	s := New(store.Repositories(), WithSeed(42), WithClock(func() time.Time { return fixedNow }))
	return s, store
}

func TestRun_SeedsEmptyStore(t *testing.T) {
	ctx := context.Background()
	s, store := newSeeder(t)

	report, err := s.Run(ctx, 25)
	require.NoError(t, err)
	assert.Equal(t, Report{Categories: len(Categories), People: 25, Transactions: recentPeople * transactionsPerPerson}, report)

	repos := store.Repositories()
	n, err := repos.Transactions.Count(ctx, core.TransactionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, n)
}

func TestRun_IsIdempotent(t *testing.T) {
	ctx := context.Background()
	s, _ := newSeeder(t)

	_, err := s.Run(ctx, 12)
	require.NoError(t, err)

	again, err := s.Run(ctx, 12)
	require.NoError(t, err)
	assert.Equal(t, Report{}, again)
}

func TestSeedPeople_NamesAndBirthDates(t *testing.T) {
	ctx := context.Background()
	s, store := newSeeder(t)

	_, err := s.SeedPeople(ctx, 30)
	require.NoError(t, err)

	people, err := store.Repositories().People.List(ctx, core.PersonFilter{}, core.OrderByName)
	require.NoError(t, err)
	require.Len(t, people, 30)

	for _, p := range people {
		for _, r := range p.Name {
			assert.True(t, unicode.IsLetter(r) || r == ' ', "unexpected rune in %q", p.Name)
		}
		age := core.Age(p.BirthDate.Time, fixedNow)
		assert.GreaterOrEqual(t, age, 0)
		assert.LessOrEqual(t, age, 80)
	}
}

func TestSeedTransactions_RespectRules(t *testing.T) {
	ctx := context.Background()
	s, store := newSeeder(t)

	_, err := s.Run(ctx, 20)
	require.NoError(t, err)

	repos := store.Repositories()
	txs, err := repos.Transactions.List(ctx, core.TransactionFilter{}, core.OrderTransactions)
	require.NoError(t, err)
	require.NotEmpty(t, txs)

	for _, tx := range txs {
		p, err := repos.People.GetByID(ctx, tx.PersonID)
		require.NoError(t, err)
		c, err := repos.Categories.GetByID(ctx, tx.CategoryID)
		require.NoError(t, err)

		assert.NoError(t, core.ValidateTransactionRules(tx.Type, c.Purpose, p.BirthDate.Time, fixedNow))
		assert.True(t, c.Purpose.Accepts(tx.Type))
		assert.True(t, tx.Amount.IsPositive())
		assert.False(t, tx.Date.After(fixedNow))
		assert.False(t, tx.Date.Before(fixedNow.Add(-transactionWindow)))
		if tx.Type == core.Income {
			assert.True(t, tx.Amount.GreaterThanOrEqual(decimal.NewFromInt(500)), tx.Amount.String())
			assert.True(t, tx.Amount.LessThanOrEqual(decimal.NewFromInt(5000)), tx.Amount.String())
		}
	}
}

func TestSeedTransactions_NoPeople(t *testing.T) {
	ctx := context.Background()
	s, _ := newSeeder(t)

	_, err := s.SeedCategories(ctx)
	require.NoError(t, err)

	n, err := s.SeedTransactions(ctx)
	require.NoError(t, err)
	assert.Zero(t, n)
}
