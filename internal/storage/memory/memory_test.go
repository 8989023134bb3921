package memory

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/storage"
	"gastos/internal/storage/storagetest"
)

func TestMemoryRepositories(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) storage.Repositories {
		return New().Repositories()
	})
}

func TestTransactionRequiresExistingReferences(t *testing.T) {
	repos := New().Repositories()
	tx := core.Transaction{Description: "x", Type: core.Expense, PersonID: 1, CategoryID: 1}
	assert.ErrorIs(t, repos.Transactions.Add(context.Background(), &tx), storage.ErrNotFound)
}

func TestCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	repos := New().Repositories()
	p := core.Person{Name: "Ana", BirthDate: core.NewDate(1990, 1, 1)}
	require.ErrorIs(t, repos.People.Add(ctx, &p), context.Canceled)
	_, err := repos.People.List(ctx, core.PersonFilter{}, core.OrderByName)
	assert.ErrorIs(t, err, context.Canceled)
}
