// Package memory is a mutex-guarded in-process store used for development
// and tests. Rows are copied in and out so callers never share state.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/storage"
)

type Store struct {
	mu           sync.RWMutex
	people       map[int64]core.Person
	categories   map[int64]core.Category
	transactions map[int64]core.Transaction
	nextID       map[string]int64
}

func New() *Store {
	return &Store{
		people:       map[int64]core.Person{},
		categories:   map[int64]core.Category{},
		transactions: map[int64]core.Transaction{},
		nextID:       map[string]int64{},
	}
}

// Repositories exposes the store through the storage ports.
func (s *Store) Repositories() storage.Repositories {
	return storage.Repositories{
		People:       &People{s: s},
		Categories:   &Categories{s: s},
		Transactions: &Transactions{s: s},
	}
}

func (s *Store) Ping(ctx context.Context) error {
	return ctx.Err()
}

func (s *Store) allocID(table string) int64 {
	s.nextID[table]++
	return s.nextID[table]
}

// window applies skip/take to an already ordered slice.
func window[T any](rows []T, skip, take int) []T {
	skip, take = core.NormalizePage(skip, take)
	if skip >= len(rows) {
		return []T{}
	}
	end := min(skip+take, len(rows))
	return rows[skip:end]
}

func direction(o core.Order, c int) int {
	if o.Direction == core.Descending {
		return -c
	}
	return c
}

type People struct{ s *Store }

func (r *People) GetByID(ctx context.Context, id int64) (core.Person, error) {
	if err := ctx.Err(); err != nil {
		return core.Person{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.people[id]
	if !ok {
		return core.Person{}, storage.ErrNotFound
	}
	return p, nil
}

func (r *People) Add(ctx context.Context, p *core.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	p.ID = r.s.allocID("people")
	r.s.people[p.ID] = *p
	return nil
}

func (r *People) Update(ctx context.Context, p core.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.people[p.ID]; !ok {
		return storage.ErrNotFound
	}
	r.s.people[p.ID] = p
	return nil
}

// Delete removes the person together with every transaction they own.
func (r *People) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.people[id]; !ok {
		return storage.ErrNotFound
	}
	for tid, t := range r.s.transactions {
		if t.PersonID == id {
			delete(r.s.transactions, tid)
		}
	}
	delete(r.s.people, id)
	return nil
}

func (r *People) Count(ctx context.Context, f core.PersonFilter) (int, error) {
	rows, err := r.List(ctx, f, core.OrderNewestFirst)
	return len(rows), err
}

func (r *People) Paginate(ctx context.Context, skip, take int, f core.PersonFilter, o core.Order) ([]core.Person, error) {
	rows, err := r.List(ctx, f, o)
	if err != nil {
		return nil, err
	}
	return window(rows, skip, take), nil
}

func (r *People) List(ctx context.Context, f core.PersonFilter, o core.Order) ([]core.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]core.Person, 0, len(r.s.people))
	for _, p := range r.s.people {
		if f.Matches(p) {
			out = append(out, p)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(out, func(a, b core.Person) int {
		c := 0
		if o.Field == core.SortByName {
			c = cmp.Compare(a.Name, b.Name)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return direction(o, c)
	})
	return out, nil
}

type Categories struct{ s *Store }

func (r *Categories) GetByID(ctx context.Context, id int64) (core.Category, error) {
	if err := ctx.Err(); err != nil {
		return core.Category{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	c, ok := r.s.categories[id]
	if !ok {
		return core.Category{}, storage.ErrNotFound
	}
	return c, nil
}

func (r *Categories) Add(ctx context.Context, c *core.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c.ID = r.s.allocID("categories")
	r.s.categories[c.ID] = *c
	return nil
}

func (r *Categories) Update(ctx context.Context, c core.Category) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[c.ID]; !ok {
		return storage.ErrNotFound
	}
	r.s.categories[c.ID] = c
	return nil
}

// Delete fails with storage.ErrInUse while any transaction uses the category.
func (r *Categories) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.categories[id]; !ok {
		return storage.ErrNotFound
	}
	for _, t := range r.s.transactions {
		if t.CategoryID == id {
			return storage.ErrInUse
		}
	}
	delete(r.s.categories, id)
	return nil
}

func (r *Categories) Count(ctx context.Context, f core.CategoryFilter) (int, error) {
	rows, err := r.List(ctx, f, core.OrderNewestFirst)
	return len(rows), err
}

func (r *Categories) Paginate(ctx context.Context, skip, take int, f core.CategoryFilter, o core.Order) ([]core.Category, error) {
	rows, err := r.List(ctx, f, o)
	if err != nil {
		return nil, err
	}
	return window(rows, skip, take), nil
}

func (r *Categories) List(ctx context.Context, f core.CategoryFilter, o core.Order) ([]core.Category, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]core.Category, 0, len(r.s.categories))
	for _, c := range r.s.categories {
		if f.Matches(c) {
			out = append(out, c)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(out, func(a, b core.Category) int {
		c := 0
		if o.Field == core.SortByDescription {
			c = cmp.Compare(a.Description, b.Description)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return direction(o, c)
	})
	return out, nil
}

type Transactions struct{ s *Store }

func (r *Transactions) GetByID(ctx context.Context, id int64) (core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return core.Transaction{}, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	t, ok := r.s.transactions[id]
	if !ok {
		return core.Transaction{}, storage.ErrNotFound
	}
	return t, nil
}

func (r *Transactions) Add(ctx context.Context, t *core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.checkRefs(*t); err != nil {
		return err
	}
	t.ID = r.s.allocID("transactions")
	t.Amount = core.RoundAmount(t.Amount)
	r.s.transactions[t.ID] = *t
	return nil
}

func (r *Transactions) Update(ctx context.Context, t core.Transaction) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[t.ID]; !ok {
		return storage.ErrNotFound
	}
	if err := r.checkRefs(t); err != nil {
		return err
	}
	t.Amount = core.RoundAmount(t.Amount)
	r.s.transactions[t.ID] = t
	return nil
}

// checkRefs mirrors the foreign keys of the SQL schemas. Callers hold the lock.
func (r *Transactions) checkRefs(t core.Transaction) error {
	if _, ok := r.s.people[t.PersonID]; !ok {
		return fmt.Errorf("person %d: %w", t.PersonID, storage.ErrNotFound)
	}
	if _, ok := r.s.categories[t.CategoryID]; !ok {
		return fmt.Errorf("category %d: %w", t.CategoryID, storage.ErrNotFound)
	}
	return nil
}

func (r *Transactions) Delete(ctx context.Context, id int64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.transactions[id]; !ok {
		return storage.ErrNotFound
	}
	delete(r.s.transactions, id)
	return nil
}

func (r *Transactions) Count(ctx context.Context, f core.TransactionFilter) (int, error) {
	rows, err := r.List(ctx, f, core.OrderTransactions)
	return len(rows), err
}

func (r *Transactions) Paginate(ctx context.Context, skip, take int, f core.TransactionFilter, o core.Order) ([]core.Transaction, error) {
	rows, err := r.List(ctx, f, o)
	if err != nil {
		return nil, err
	}
	return window(rows, skip, take), nil
}

func (r *Transactions) List(ctx context.Context, f core.TransactionFilter, o core.Order) ([]core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]core.Transaction, 0, len(r.s.transactions))
	for _, t := range r.s.transactions {
		if f.Matches(t) {
			out = append(out, t)
		}
	}
	r.s.mu.RUnlock()

	slices.SortFunc(out, func(a, b core.Transaction) int {
		c := 0
		switch o.Field {
		case core.SortByDate:
			c = a.Date.Compare(b.Date)
		case core.SortByDescription:
			c = cmp.Compare(a.Description, b.Description)
		}
		if c == 0 {
			c = cmp.Compare(a.ID, b.ID)
		}
		return direction(o, c)
	})
	return out, nil
}

func (r *Transactions) SumByType(ctx context.Context, t core.TransactionType, f core.TransactionFilter) (decimal.Decimal, error) {
	rows, err := r.List(ctx, f.WithType(t), core.OrderTransactions)
	if err != nil {
		return decimal.Zero, err
	}
	sum := decimal.Zero
	for _, row := range rows {
		sum = sum.Add(row.Amount)
	}
	return sum, nil
}
