package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/storage"
	"gastos/internal/storage/storagetest"
)

// TestPostgresRepositories runs against a disposable database named by
// GASTOS_TEST_DATABASE_URL. Every table is truncated between subtests.
func TestPostgresRepositories(t *testing.T) {
	url := os.Getenv("GASTOS_TEST_DATABASE_URL")
	if url == "" {
		t.Skip("GASTOS_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	db, err := Open(ctx, url)
	require.NoError(t, err)
	defer db.Close()

	storagetest.Run(t, func(t *testing.T) storage.Repositories {
		_, err := db.pool.Exec(ctx, `TRUNCATE transactions, categories, people RESTART IDENTITY CASCADE`)
		require.NoError(t, err)
		return db.Repositories()
	})
}

func TestOrderBy(t *testing.T) {
	assert.Equal(t, " ORDER BY id DESC", orderBy(core.OrderNewestFirst, categoryColumns))
	assert.Equal(t, " ORDER BY description ASC, id ASC", orderBy(core.OrderByDesc, categoryColumns))
	assert.Equal(t, " ORDER BY id ASC", orderBy(core.OrderByName, categoryColumns))
}

func TestTransactionArgs(t *testing.T) {
	from := core.NewDate(2025, 1, 1)
	person := int64(3)
	income := core.Income

	args := transactionArgs(core.TransactionFilter{From: &from, PersonID: &person, Type: &income})
	require.Len(t, args, 5)
	assert.Equal(t, from.Time, args[0])
	assert.Nil(t, args[1])
	assert.Equal(t, int64(3), args[2])
	assert.Nil(t, args[3])
	assert.Equal(t, 2, args[4])
}
