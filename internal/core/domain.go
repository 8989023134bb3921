package core

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// TransactionType values match the persisted integers.
const (
	Expense TransactionType = 1
	Income  TransactionType = 2
)

// CategoryPurpose values match the persisted integers.
const (
	PurposeExpense CategoryPurpose = 1
	PurposeIncome  CategoryPurpose = 2
	PurposeBoth    CategoryPurpose = 3
)

const DateLayout = "2006-01-02"

type (
	TransactionType int
	CategoryPurpose int

	// Date is a calendar date at UTC midnight.
	Date struct {
		time.Time
	}

	Person struct {
		ID        int64
		Name      string
		BirthDate Date
	}

	Category struct {
		ID          int64
		Description string
		Purpose     CategoryPurpose
	}

	Transaction struct {
		ID          int64
		Description string
		Amount      decimal.Decimal
		Type        TransactionType
		Date        time.Time
		CategoryID  int64
		PersonID    int64
	}
)

var (
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrAmountTooLarge   = errors.New("amount exceeds maximum")
	ErrInvalidDate      = errors.New("invalid date")
	ErrInvalidType      = errors.New("invalid transaction type")
	ErrInvalidPurpose   = errors.New("invalid category purpose")
	ErrEmptyName        = errors.New("empty name")
	ErrEmptyDescription = errors.New("empty description")
)

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

func (t TransactionType) String() string {
	switch t {
	case Expense:
		return "despesa"
	case Income:
		return "receita"
	default:
		return fmt.Sprintf("tipo(%d)", int(t))
	}
}

func (p CategoryPurpose) Valid() bool {
	return p >= PurposeExpense && p <= PurposeBoth
}

func (p CategoryPurpose) String() string {
	switch p {
	case PurposeExpense:
		return "despesa"
	case PurposeIncome:
		return "receita"
	case PurposeBoth:
		return "ambas"
	default:
		return fmt.Sprintf("finalidade(%d)", int(p))
	}
}

// Accepts reports whether a transaction of type t may use a category with this purpose.
func (p CategoryPurpose) Accepts(t TransactionType) bool {
	switch p {
	case PurposeBoth:
		return true
	case PurposeExpense:
		return t == Expense
	case PurposeIncome:
		return t == Income
	default:
		return false
	}
}

// NewDate creates a new Date from year, month, day
func NewDate(year, month, day int) Date {
	return Date{Time: time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)}
}

// DateOf drops the time of day from t, keeping its calendar date.
func DateOf(t time.Time) Date {
	return NewDate(t.Year(), int(t.Month()), t.Day())
}

// ParseDate accepts YYYY-MM-DD or a full RFC3339 timestamp.
func ParseDate(s string) (Date, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Date{}, ErrInvalidDate
	}
	if t, err := time.Parse(DateLayout, s); err == nil {
		return DateOf(t), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: %q", ErrInvalidDate, s)
	}
	return DateOf(t), nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

// IsEmpty returns true if the date is zero
func (d Date) IsEmpty() bool {
	return d.IsZero()
}

func (p Person) Validate() error {
	if strings.TrimSpace(p.Name) == "" {
		return ErrEmptyName
	}
	if p.BirthDate.IsZero() {
		return ErrInvalidDate
	}
	return nil
}

func (c Category) Validate() error {
	if strings.TrimSpace(c.Description) == "" {
		return ErrEmptyDescription
	}
	if !c.Purpose.Valid() {
		return ErrInvalidPurpose
	}
	return nil
}

func (t Transaction) Validate() error {
	if strings.TrimSpace(t.Description) == "" {
		return ErrEmptyDescription
	}
	if !t.Amount.IsPositive() {
		return ErrInvalidAmount
	}
	if t.Amount.GreaterThan(MaxAmount) {
		return ErrAmountTooLarge
	}
	if !t.Type.Valid() {
		return ErrInvalidType
	}
	if t.Date.IsZero() {
		return ErrInvalidDate
	}
	return nil
}
