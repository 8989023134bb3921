package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/core"
)

func TestCategoryService_CRUD(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	created := f.cats.Create(ctx, core.Category{Description: "Transporte", Purpose: core.PurposeExpense})
	require.True(t, created.Success, created.Errors)

	invalid := f.cats.Create(ctx, core.Category{Description: "Lazer", Purpose: 9})
	assert.Equal(t, core.KindValidation, invalid.Kind)
	assert.Equal(t, []string{"Finalidade deve ser Despesa, Receita ou Ambas."}, invalid.Errors)

	updated := f.cats.Update(ctx, created.Data.ID, core.Category{Description: "Transporte público", Purpose: core.PurposeBoth})
	require.True(t, updated.Success, updated.Errors)
	assert.Equal(t, core.PurposeBoth, updated.Data.Purpose)

	got := f.cats.GetByID(ctx, created.Data.ID)
	require.True(t, got.Success)
	assert.Equal(t, "Transporte público", got.Data.Description)

	missing := f.cats.GetByID(ctx, 999)
	assert.Equal(t, core.KindNotFound, missing.Kind)
	assert.Equal(t, []string{MsgCategoryNotFound}, missing.Errors)
	assert.Equal(t, core.KindNotFound, f.cats.Update(ctx, 999, core.Category{Description: "Nada", Purpose: core.PurposeBoth}).Kind)
}

func TestCategoryService_DeleteRestricted(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustCreate(t, f.newTx(f.adult, f.food, core.Expense, "10"))

	inUse := f.cats.Delete(ctx, f.food.ID)
	assert.False(t, inUse.Success)
	assert.Equal(t, core.KindValidation, inUse.Kind)
	assert.Equal(t, []string{MsgCategoryInUse}, inUse.Errors)

	free := f.cats.Delete(ctx, f.salary.ID)
	require.True(t, free.Success, free.Errors)

	gone := f.cats.Delete(ctx, f.salary.ID)
	assert.Equal(t, core.KindNotFound, gone.Kind)
}

func TestCategoryService_ListAndFilter(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)

	all := f.cats.List(ctx, CategoryQuery{})
	require.True(t, all.Success)
	require.Len(t, all.Data, 3)
	assert.Equal(t, "Alimentação", all.Data[0].Description)
	assert.Equal(t, "Casa", all.Data[1].Description)
	assert.Equal(t, "Salário", all.Data[2].Description)

	income := core.PurposeIncome
	byPurpose := f.cats.List(ctx, CategoryQuery{Purpose: &income})
	require.True(t, byPurpose.Success)
	require.Len(t, byPurpose.Data, 1)
	assert.Equal(t, f.salary.ID, byPurpose.Data[0].ID)

	paged := f.cats.ListPaged(ctx, 0, 2, CategoryQuery{Search: "a"})
	require.True(t, paged.Success)
	assert.Equal(t, 3, paged.Data.TotalItems)
	require.Len(t, paged.Data.Items, 2)
	assert.Equal(t, f.household.ID, paged.Data.Items[0].Category.ID, "newest first")
}

func TestCategoryService_ListWithTotals(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t)
	f.mustCreate(t, f.newTx(f.adult, f.food, core.Expense, "500"))
	f.mustCreate(t, f.newTx(f.adult, f.household, core.Income, "200"))

	res := f.cats.ListWithTotals(ctx, 0, 20, CategoryQuery{})
	require.True(t, res.Success, res.Errors)
	require.Len(t, res.Data.Page.Items, 3)

	byID := map[int64]core.Totals{}
	for _, it := range res.Data.Page.Items {
		byID[it.Category.ID] = it.Totals
	}
	assert.True(t, byID[f.food.ID].Income.IsZero())
	assert.Equal(t, "500", byID[f.food.ID].Expense.String())
	assert.Equal(t, "-500", byID[f.food.ID].Balance.String())
	assert.Equal(t, "200", byID[f.household.ID].Balance.String())
	assert.True(t, byID[f.salary.ID].Balance.IsZero())

	assert.Equal(t, "-300", res.Data.Totals.Balance.String())
}
