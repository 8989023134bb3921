package core

import (
	"slices"
	"strings"
)

// TransactionFilter holds optional clauses combined with AND. A nil field
// matches every transaction. Date bounds are inclusive calendar dates.
type TransactionFilter struct {
	From       *Date
	To         *Date
	PersonID   *int64
	CategoryID *int64
	Type       *TransactionType
}

// Matches reports whether t satisfies every set clause.
func (f TransactionFilter) Matches(t Transaction) bool {
	day := DateOf(t.Date)
	if f.From != nil && day.Before(f.From.Time) {
		return false
	}
	if f.To != nil && day.After(f.To.Time) {
		return false
	}
	if f.PersonID != nil && t.PersonID != *f.PersonID {
		return false
	}
	if f.CategoryID != nil && t.CategoryID != *f.CategoryID {
		return false
	}
	if f.Type != nil && t.Type != *f.Type {
		return false
	}
	return true
}

// WithType returns a copy of f restricted to one transaction type.
func (f TransactionFilter) WithType(t TransactionType) TransactionFilter {
	f.Type = &t
	return f
}

// PersonFilter matches people whose name contains Search. A non-empty IDs
// restricts the match to those identities.
type PersonFilter struct {
	Search string
	IDs    []int64
}

func (f PersonFilter) Matches(p Person) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, p.ID) {
		return false
	}
	return f.Search == "" || strings.Contains(p.Name, f.Search)
}

// CategoryFilter matches categories by description substring and purpose.
type CategoryFilter struct {
	Search  string
	Purpose *CategoryPurpose
	IDs     []int64
}

func (f CategoryFilter) Matches(c Category) bool {
	if len(f.IDs) > 0 && !slices.Contains(f.IDs, c.ID) {
		return false
	}
	if f.Search != "" && !strings.Contains(c.Description, f.Search) {
		return false
	}
	if f.Purpose != nil && c.Purpose != *f.Purpose {
		return false
	}
	return true
}

// NormalizeSearch trims s; blank input means no search.
func NormalizeSearch(s string) string {
	return strings.TrimSpace(s)
}

type Direction int

const (
	Ascending Direction = iota
	Descending
)

// SortField names the columns listings can be ordered by.
type SortField string

const (
	SortByID          SortField = "id"
	SortByName        SortField = "name"
	SortByDescription SortField = "description"
	SortByDate        SortField = "date"
)

type Order struct {
	Field     SortField
	Direction Direction
}

var (
	// OrderTransactions is the default transaction listing order.
	OrderTransactions = Order{Field: SortByDate, Direction: Descending}
	// OrderNewestFirst is used by paginated person and category views.
	OrderNewestFirst = Order{Field: SortByID, Direction: Descending}
	OrderByName      = Order{Field: SortByName, Direction: Ascending}
	OrderByDesc      = Order{Field: SortByDescription, Direction: Ascending}
)
