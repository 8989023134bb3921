package core

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleCode(t *testing.T, err error) RuleCode {
	t.Helper()
	var re *RuleError
	require.True(t, errors.As(err, &re), "expected *RuleError, got %v", err)
	return re.Code
}

func TestValidateTransactionRules(t *testing.T) {
	today := day(2026, 10, 14)
	adult := day(1990, 6, 1)
	minor := today.AddDate(-17, 0, 0)

	cases := []struct {
		name    string
		tt      TransactionType
		purpose CategoryPurpose
		birth   string
		code    RuleCode
		msg     string
	}{
		{"adult expense on expense category", Expense, PurposeExpense, "adult", "", ""},
		{"adult income on income category", Income, PurposeIncome, "adult", "", ""},
		{"adult expense on both", Expense, PurposeBoth, "adult", "", ""},
		{"adult income on both", Income, PurposeBoth, "adult", "", ""},
		{"minor expense on both", Expense, PurposeBoth, "minor", "", ""},
		{"minor income on income category", Income, PurposeIncome, "minor", MinorCannotRegisterIncome, MsgMinorCannotRegisterIncome},
		{"minor income on both", Income, PurposeBoth, "minor", MinorCannotRegisterIncome, MsgMinorCannotRegisterIncome},
		{"minor income on expense category checks age first", Income, PurposeExpense, "minor", MinorCannotRegisterIncome, MsgMinorCannotRegisterIncome},
		{"adult income on expense category", Income, PurposeExpense, "adult", CategoryPurposeMismatch, MsgExpenseCategoryForIncome},
		{"adult expense on income category", Expense, PurposeIncome, "adult", CategoryPurposeMismatch, MsgIncomeCategoryForExpense},
		{"minor expense on income category", Expense, PurposeIncome, "minor", CategoryPurposeMismatch, MsgIncomeCategoryForExpense},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			birth := adult
			if tc.birth == "minor" {
				birth = minor
			}
			err := ValidateTransactionRules(tc.tt, tc.purpose, birth, today)
			if tc.code == "" {
				assert.NoError(t, err)
				return
			}
			assert.Equal(t, tc.code, ruleCode(t, err))
			assert.Equal(t, tc.msg, err.Error())
		})
	}
}

func TestIncomeOnExpenseCategoryAlwaysFails(t *testing.T) {
	today := day(2026, 10, 14)
	for years := 0; years <= 90; years += 5 {
		err := ValidateTransactionRules(Income, PurposeExpense, today.AddDate(-years, 0, 0), today)
		assert.Error(t, err, "age %d", years)
	}
}

func TestAdultThresholdUsesInjectedToday(t *testing.T) {
	birth := day(2007, 12, 25)
	assert.Error(t, ValidateTransactionRules(Income, PurposeIncome, birth, day(2025, 12, 24)))
	assert.NoError(t, ValidateTransactionRules(Income, PurposeIncome, birth, day(2025, 12, 25)))
}
