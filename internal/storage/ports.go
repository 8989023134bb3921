// Package storage defines the persistence ports used by the services.
// Implementations live in the memory, sqlite and postgres subpackages.
package storage

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
)

var (
	// ErrNotFound is returned when no row has the requested identity.
	ErrNotFound = errors.New("record not found")
	// ErrInUse is returned when deleting a row still referenced elsewhere.
	ErrInUse = errors.New("record is referenced by other records")
)

// Repository is the generic store for one entity type T filtered by F.
// Add assigns the new identity to *T.
type Repository[T any, F any] interface {
	GetByID(ctx context.Context, id int64) (T, error)
	Add(ctx context.Context, v *T) error
	Update(ctx context.Context, v T) error
	Delete(ctx context.Context, id int64) error
	Count(ctx context.Context, f F) (int, error)
	Paginate(ctx context.Context, skip, take int, f F, o core.Order) ([]T, error)
	List(ctx context.Context, f F, o core.Order) ([]T, error)
}

// PersonRepository deletes cascade to the person's transactions.
type PersonRepository interface {
	Repository[core.Person, core.PersonFilter]
}

// CategoryRepository refuses to delete referenced categories with ErrInUse.
type CategoryRepository interface {
	Repository[core.Category, core.CategoryFilter]
}

type TransactionRepository interface {
	Repository[core.Transaction, core.TransactionFilter]
	// SumByType sums amounts of type t matching f, ignoring f.Type.
	// No matching rows sums to zero.
	SumByType(ctx context.Context, t core.TransactionType, f core.TransactionFilter) (decimal.Decimal, error)
}

// GroupedSummer is implemented by transaction stores able to compute totals
// for many people or categories in one query. Owners without rows are
// absent from the returned map.
type GroupedSummer interface {
	SumByPeople(ctx context.Context, ids []int64) (map[int64]core.Totals, error)
	SumByCategories(ctx context.Context, ids []int64) (map[int64]core.Totals, error)
}

// Repositories bundles the stores of one backend.
type Repositories struct {
	People       PersonRepository
	Categories   CategoryRepository
	Transactions TransactionRepository
}

// Pinger is implemented by backends able to report connectivity.
type Pinger interface {
	Ping(ctx context.Context) error
}
