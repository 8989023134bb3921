package core

import "time"

// RuleCode identifies which business rule rejected a transaction.
type RuleCode string

const (
	MinorCannotRegisterIncome RuleCode = "minor_cannot_register_income"
	CategoryPurposeMismatch   RuleCode = "category_purpose_mismatch"
)

const (
	MsgMinorCannotRegisterIncome = "Menor de idade só pode registrar despesa"
	MsgIncomeCategoryForExpense  = "Categoria de receita não pode ser usada em despesa"
	MsgExpenseCategoryForIncome  = "Categoria de despesa não pode ser usada em receita"
)

// RuleError is returned by ValidateTransactionRules. Message is the text
// shown to the caller.
type RuleError struct {
	Code    RuleCode
	Message string
}

func (e *RuleError) Error() string {
	return e.Message
}

// ValidateTransactionRules checks the age restriction first and the
// category purpose second. It has no side effects: today must be supplied
// by the caller.
func ValidateTransactionRules(t TransactionType, purpose CategoryPurpose, birth, today time.Time) error {
	if t == Income && Age(birth, today) < AdultAge {
		return &RuleError{Code: MinorCannotRegisterIncome, Message: MsgMinorCannotRegisterIncome}
	}
	if t == Expense && purpose == PurposeIncome {
		return &RuleError{Code: CategoryPurposeMismatch, Message: MsgIncomeCategoryForExpense}
	}
	if t == Income && purpose == PurposeExpense {
		return &RuleError{Code: CategoryPurposeMismatch, Message: MsgExpenseCategoryForIncome}
	}
	return nil
}
