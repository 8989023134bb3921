// Package storagetest holds the behaviour every storage backend must share.
package storagetest

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
	"gastos/internal/storage"
)

// Factory returns empty repositories for one test.
type Factory func(t *testing.T) storage.Repositories

// Run exercises the repository contract against a backend.
func Run(t *testing.T, newRepos Factory) {
	t.Run("PersonCRUD", func(t *testing.T) { testPersonCRUD(t, newRepos(t)) })
	t.Run("CategoryFiltersAndOrder", func(t *testing.T) { testCategoryFilters(t, newRepos(t)) })
	t.Run("TransactionFilterAndPaging", func(t *testing.T) { testTransactionPaging(t, newRepos(t)) })
	t.Run("SumByType", func(t *testing.T) { testSumByType(t, newRepos(t)) })
	t.Run("DeleteRules", func(t *testing.T) { testDeleteRules(t, newRepos(t)) })
}

func amount(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func at(y, m, d, h int) time.Time {
	return time.Date(y, time.Month(m), d, h, 0, 0, 0, time.UTC)
}

func testPersonCRUD(t *testing.T, repos storage.Repositories) {
	ctx := context.Background()

	ana := core.Person{Name: "Ana", BirthDate: core.NewDate(1990, 5, 17)}
	require.NoError(t, repos.People.Add(ctx, &ana))
	require.NotZero(t, ana.ID)

	bruno := core.Person{Name: "Bruno Lima", BirthDate: core.NewDate(2012, 1, 2)}
	require.NoError(t, repos.People.Add(ctx, &bruno))
	assert.NotEqual(t, ana.ID, bruno.ID)

	got, err := repos.People.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana", got.Name)
	assert.Equal(t, "1990-05-17", got.BirthDate.String())

	got.Name = "Ana Paula"
	require.NoError(t, repos.People.Update(ctx, got))
	got, err = repos.People.GetByID(ctx, ana.ID)
	require.NoError(t, err)
	assert.Equal(t, "Ana Paula", got.Name)

	_, err = repos.People.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, storage.ErrNotFound)
	assert.ErrorIs(t, repos.People.Update(ctx, core.Person{ID: 9999, Name: "X", BirthDate: core.NewDate(2000, 1, 1)}), storage.ErrNotFound)

	byName, err := repos.People.List(ctx, core.PersonFilter{}, core.OrderByName)
	require.NoError(t, err)
	require.Len(t, byName, 2)
	assert.Equal(t, "Ana Paula", byName[0].Name)

	newest, err := repos.People.Paginate(ctx, 0, 1, core.PersonFilter{}, core.OrderNewestFirst)
	require.NoError(t, err)
	require.Len(t, newest, 1)
	assert.Equal(t, bruno.ID, newest[0].ID)

	n, err := repos.People.Count(ctx, core.PersonFilter{Search: "Lima"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	subset, err := repos.People.List(ctx, core.PersonFilter{IDs: []int64{bruno.ID}}, core.OrderByName)
	require.NoError(t, err)
	require.Len(t, subset, 1)
	assert.Equal(t, bruno.ID, subset[0].ID)
}

func testCategoryFilters(t *testing.T, repos storage.Repositories) {
	ctx := context.Background()
	for _, c := range []core.Category{
		{Description: "Salário", Purpose: core.PurposeIncome},
		{Description: "Alimentação", Purpose: core.PurposeExpense},
		{Description: "Transferências", Purpose: core.PurposeBoth},
		{Description: "Aluguel Recebido", Purpose: core.PurposeIncome},
	} {
		c := c
		require.NoError(t, repos.Categories.Add(ctx, &c))
	}

	income := core.PurposeIncome
	rows, err := repos.Categories.Paginate(ctx, 0, 10, core.CategoryFilter{Purpose: &income}, core.OrderNewestFirst)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Aluguel Recebido", rows[0].Description)
	assert.Equal(t, "Salário", rows[1].Description)

	rows, err = repos.Categories.List(ctx, core.CategoryFilter{Search: "Al"}, core.OrderByDesc)
	require.NoError(t, err)
	require.Len(t, rows, 2, "search is case sensitive")
	assert.Equal(t, "Alimentação", rows[0].Description)
	assert.Equal(t, "Aluguel Recebido", rows[1].Description)

	n, err := repos.Categories.Count(ctx, core.CategoryFilter{Search: "Al", Purpose: &income})
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	none, err := repos.Categories.Paginate(ctx, 50, 10, core.CategoryFilter{}, core.OrderNewestFirst)
	require.NoError(t, err)
	assert.Empty(t, none)
}

type fixture struct {
	adult, minor   core.Person
	food, salary   core.Category
	transactionIDs []int64
}

func seed(t *testing.T, repos storage.Repositories) fixture {
	t.Helper()
	ctx := context.Background()
	f := fixture{
		adult:  core.Person{Name: "Carla", BirthDate: core.NewDate(1985, 2, 3)},
		minor:  core.Person{Name: "Davi", BirthDate: core.NewDate(2015, 8, 9)},
		food:   core.Category{Description: "Alimentação", Purpose: core.PurposeExpense},
		salary: core.Category{Description: "Salário", Purpose: core.PurposeIncome},
	}
	require.NoError(t, repos.People.Add(ctx, &f.adult))
	require.NoError(t, repos.People.Add(ctx, &f.minor))
	require.NoError(t, repos.Categories.Add(ctx, &f.food))
	require.NoError(t, repos.Categories.Add(ctx, &f.salary))

	rows := []core.Transaction{
		{Description: "Salário março", Amount: amount("5000.00"), Type: core.Income, Date: at(2025, 3, 5, 9), PersonID: f.adult.ID, CategoryID: f.salary.ID},
		{Description: "Mercado", Amount: amount("250.40"), Type: core.Expense, Date: at(2025, 3, 10, 18), PersonID: f.adult.ID, CategoryID: f.food.ID},
		{Description: "Lanche", Amount: amount("12.35"), Type: core.Expense, Date: at(2025, 3, 31, 23), PersonID: f.minor.ID, CategoryID: f.food.ID},
		{Description: "Feira", Amount: amount("80.00"), Type: core.Expense, Date: at(2025, 4, 1, 7), PersonID: f.adult.ID, CategoryID: f.food.ID},
	}
	for i := range rows {
		require.NoError(t, repos.Transactions.Add(ctx, &rows[i]))
		f.transactionIDs = append(f.transactionIDs, rows[i].ID)
	}
	return f
}

func testTransactionPaging(t *testing.T, repos storage.Repositories) {
	ctx := context.Background()
	f := seed(t, repos)

	all, err := repos.Transactions.Paginate(ctx, 0, 10, core.TransactionFilter{}, core.OrderTransactions)
	require.NoError(t, err)
	require.Len(t, all, 4)
	assert.Equal(t, "Feira", all[0].Description)
	assert.Equal(t, "Salário março", all[3].Description)
	assert.True(t, amount("80").Equal(all[0].Amount))

	from, to := core.NewDate(2025, 3, 10), core.NewDate(2025, 3, 31)
	march, err := repos.Transactions.List(ctx, core.TransactionFilter{From: &from, To: &to}, core.OrderTransactions)
	require.NoError(t, err)
	require.Len(t, march, 2, "inclusive bounds compare calendar dates")
	assert.Equal(t, "Lanche", march[0].Description)

	n, err := repos.Transactions.Count(ctx, core.TransactionFilter{PersonID: &f.adult.ID})
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	second, err := repos.Transactions.Paginate(ctx, 1, 2, core.TransactionFilter{CategoryID: &f.food.ID}, core.OrderTransactions)
	require.NoError(t, err)
	require.Len(t, second, 2)
	assert.Equal(t, "Lanche", second[0].Description)
	assert.Equal(t, "Mercado", second[1].Description)

	tx, err := repos.Transactions.GetByID(ctx, f.transactionIDs[1])
	require.NoError(t, err)
	tx.Description = "Mercado grande"
	tx.Amount = amount("300.10")
	tx.Date = at(2025, 3, 11, 8)
	require.NoError(t, repos.Transactions.Update(ctx, tx))

	tx, err = repos.Transactions.GetByID(ctx, tx.ID)
	require.NoError(t, err)
	assert.Equal(t, "Mercado grande", tx.Description)
	assert.True(t, amount("300.10").Equal(tx.Amount))
	assert.True(t, at(2025, 3, 11, 8).Equal(tx.Date))
}

func testSumByType(t *testing.T, repos storage.Repositories) {
	ctx := context.Background()

	empty, err := repos.Transactions.SumByType(ctx, core.Income, core.TransactionFilter{})
	require.NoError(t, err)
	assert.True(t, empty.IsZero())

	f := seed(t, repos)

	income, err := repos.Transactions.SumByType(ctx, core.Income, core.TransactionFilter{})
	require.NoError(t, err)
	assert.True(t, amount("5000").Equal(income), income.String())

	expense, err := repos.Transactions.SumByType(ctx, core.Expense, core.TransactionFilter{})
	require.NoError(t, err)
	assert.True(t, amount("342.75").Equal(expense), expense.String())

	minorExpense, err := repos.Transactions.SumByType(ctx, core.Expense, core.TransactionFilter{PersonID: &f.minor.ID})
	require.NoError(t, err)
	assert.True(t, amount("12.35").Equal(minorExpense), minorExpense.String())

	// the type argument wins over the filter's type clause
	incomeType := core.Income
	overridden, err := repos.Transactions.SumByType(ctx, core.Expense, core.TransactionFilter{Type: &incomeType})
	require.NoError(t, err)
	assert.True(t, amount("342.75").Equal(overridden), overridden.String())

	april := core.NewDate(2025, 4, 1)
	fromApril, err := repos.Transactions.SumByType(ctx, core.Expense, core.TransactionFilter{From: &april})
	require.NoError(t, err)
	assert.True(t, amount("80").Equal(fromApril), fromApril.String())

	if grouped, ok := repos.Transactions.(storage.GroupedSummer); ok {
		byPerson, err := grouped.SumByPeople(ctx, []int64{f.adult.ID, f.minor.ID, 9999})
		require.NoError(t, err)
		assert.True(t, amount("5000").Equal(byPerson[f.adult.ID].Income))
		assert.True(t, amount("330.40").Equal(byPerson[f.adult.ID].Expense))
		assert.True(t, amount("4669.60").Equal(byPerson[f.adult.ID].Balance))
		assert.True(t, amount("-12.35").Equal(byPerson[f.minor.ID].Balance))
		_, present := byPerson[9999]
		assert.False(t, present)

		byCategory, err := grouped.SumByCategories(ctx, []int64{f.food.ID, f.salary.ID})
		require.NoError(t, err)
		assert.True(t, amount("342.75").Equal(byCategory[f.food.ID].Expense))
		assert.True(t, byCategory[f.food.ID].Income.IsZero())
		assert.True(t, amount("5000").Equal(byCategory[f.salary.ID].Income))
	}
}

func testDeleteRules(t *testing.T, repos storage.Repositories) {
	ctx := context.Background()
	f := seed(t, repos)

	assert.ErrorIs(t, repos.Categories.Delete(ctx, f.food.ID), storage.ErrInUse)
	_, err := repos.Categories.GetByID(ctx, f.food.ID)
	require.NoError(t, err, "restricted delete keeps the category")

	require.NoError(t, repos.People.Delete(ctx, f.minor.ID))
	n, err := repos.Transactions.Count(ctx, core.TransactionFilter{PersonID: &f.minor.ID})
	require.NoError(t, err)
	assert.Zero(t, n, "person delete cascades to transactions")

	require.NoError(t, repos.Transactions.Delete(ctx, f.transactionIDs[0]))
	assert.ErrorIs(t, repos.Transactions.Delete(ctx, f.transactionIDs[0]), storage.ErrNotFound)

	require.NoError(t, repos.Categories.Delete(ctx, f.salary.ID), "category without transactions can be deleted")
	assert.ErrorIs(t, repos.Categories.Delete(ctx, f.salary.ID), storage.ErrNotFound)
	assert.ErrorIs(t, repos.People.Delete(ctx, 9999), storage.ErrNotFound)
}
