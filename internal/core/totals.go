package core

import "github.com/shopspring/decimal"

// Totals is income, expense and their difference for a set of transactions.
type Totals struct {
	Income  decimal.Decimal
	Expense decimal.Decimal
	Balance decimal.Decimal
}

func NewTotals(income, expense decimal.Decimal) Totals {
	return Totals{
		Income:  income,
		Expense: expense,
		Balance: income.Sub(expense),
	}
}

// ZeroTotals is the summary of an empty set.
func ZeroTotals() Totals {
	return NewTotals(decimal.Zero, decimal.Zero)
}

// Add folds o into t, recomputing the balance.
func (t Totals) Add(o Totals) Totals {
	return NewTotals(t.Income.Add(o.Income), t.Expense.Add(o.Expense))
}

// Of returns the total for a single transaction type.
func (t Totals) Of(tt TransactionType) decimal.Decimal {
	if tt == Income {
		return t.Income
	}
	return t.Expense
}
