package core

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	cases := []struct {
		in   string
		want Date
		ok   bool
	}{
		{"2025-01-31", NewDate(2025, 1, 31), true},
		{" 2025-12-01 ", NewDate(2025, 12, 1), true},
		{"2025-06-10T23:59:00Z", NewDate(2025, 6, 10), true},
		{"", Date{}, false},
		{"31/01/2025", Date{}, false},
		{"2025-13-01", Date{}, false},
	}
	for _, tc := range cases {
		got, err := ParseDate(tc.in)
		if !tc.ok {
			assert.ErrorIs(t, err, ErrInvalidDate, tc.in)
			continue
		}
		require.NoError(t, err, tc.in)
		assert.True(t, tc.want.Equal(got.Time), "%q: got %s", tc.in, got)
	}
}

func TestDateOfDropsTimeOfDay(t *testing.T) {
	d := DateOf(time.Date(2025, 3, 4, 18, 30, 0, 0, time.UTC))
	assert.Equal(t, "2025-03-04", d.String())
	assert.Equal(t, "", Date{}.String())
}

func TestPurposeAccepts(t *testing.T) {
	cases := []struct {
		purpose CategoryPurpose
		tt      TransactionType
		want    bool
	}{
		{PurposeExpense, Expense, true},
		{PurposeExpense, Income, false},
		{PurposeIncome, Income, true},
		{PurposeIncome, Expense, false},
		{PurposeBoth, Expense, true},
		{PurposeBoth, Income, true},
		{CategoryPurpose(9), Expense, false},
	}
	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.purpose.Accepts(tc.tt), "%s/%s", tc.purpose, tc.tt)
	}
}

func TestEnumValid(t *testing.T) {
	assert.True(t, Expense.Valid())
	assert.True(t, Income.Valid())
	assert.False(t, TransactionType(0).Valid())
	assert.False(t, TransactionType(3).Valid())

	assert.True(t, PurposeBoth.Valid())
	assert.False(t, CategoryPurpose(0).Valid())
	assert.False(t, CategoryPurpose(4).Valid())
}

func TestTransactionValidate(t *testing.T) {
	good := Transaction{
		Description: "Mercado",
		Amount:      decimal.RequireFromString("10.50"),
		Type:        Expense,
		Date:        time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
		CategoryID:  1,
		PersonID:    1,
	}
	require.NoError(t, good.Validate())

	noDesc := good
	noDesc.Description = "  "
	assert.ErrorIs(t, noDesc.Validate(), ErrEmptyDescription)

	zero := good
	zero.Amount = decimal.Zero
	assert.ErrorIs(t, zero.Validate(), ErrInvalidAmount)

	atLimit := good
	atLimit.Amount = MaxAmount
	assert.NoError(t, atLimit.Validate())

	tooLarge := good
	tooLarge.Amount = decimal.RequireFromString("10000000000000000.00")
	assert.ErrorIs(t, tooLarge.Validate(), ErrAmountTooLarge)

	badType := good
	badType.Type = 0
	assert.ErrorIs(t, badType.Validate(), ErrInvalidType)

	noDate := good
	noDate.Date = time.Time{}
	assert.ErrorIs(t, noDate.Validate(), ErrInvalidDate)
}

func TestPersonAndCategoryValidate(t *testing.T) {
	assert.NoError(t, Person{Name: "Ana", BirthDate: NewDate(1990, 1, 1)}.Validate())
	assert.ErrorIs(t, Person{Name: " ", BirthDate: NewDate(1990, 1, 1)}.Validate(), ErrEmptyName)
	assert.ErrorIs(t, Person{Name: "Ana"}.Validate(), ErrInvalidDate)

	assert.NoError(t, Category{Description: "Lazer", Purpose: PurposeExpense}.Validate())
	assert.ErrorIs(t, Category{Description: "", Purpose: PurposeExpense}.Validate(), ErrEmptyDescription)
	assert.ErrorIs(t, Category{Description: "Lazer"}.Validate(), ErrInvalidPurpose)
}
