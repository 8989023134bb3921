package services

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"gastos/internal/core"
	"gastos/internal/log"
	"gastos/internal/storage"
)

// DefaultTotalsConcurrency bounds the per-row sums issued in parallel when
// the store cannot aggregate a page in one query.
const DefaultTotalsConcurrency = 4

// TotalsEngine computes income, expense and balance from the transaction
// store. Nothing is cached: every call reads the current rows.
type TotalsEngine struct {
	transactions storage.TransactionRepository
	grouped      storage.GroupedSummer
	limit        int
	logger       *log.Logger
}

func NewTotalsEngine(transactions storage.TransactionRepository, concurrency int, logger *log.Logger) *TotalsEngine {
	if concurrency < 1 {
		concurrency = DefaultTotalsConcurrency
	}
	if logger == nil {
		logger = log.Discard()
	}
	e := &TotalsEngine{
		transactions: transactions,
		limit:        concurrency,
		logger:       logger.WithComponent(log.ComponentTotals),
	}
	if g, ok := transactions.(storage.GroupedSummer); ok {
		e.grouped = g
	}
	return e
}

// Global sums every transaction matching f. With a type clause the other
// type is reported as zero instead of being queried.
func (e *TotalsEngine) Global(ctx context.Context, f core.TransactionFilter) (core.Totals, error) {
	if f.Type != nil {
		sum, err := e.transactions.SumByType(ctx, *f.Type, f)
		if err != nil {
			return core.Totals{}, fmt.Errorf("sum %s: %w", *f.Type, err)
		}
		if *f.Type == core.Income {
			return core.NewTotals(sum, decimal.Zero), nil
		}
		return core.NewTotals(decimal.Zero, sum), nil
	}

	income, err := e.transactions.SumByType(ctx, core.Income, f)
	if err != nil {
		return core.Totals{}, fmt.Errorf("sum income: %w", err)
	}
	expense, err := e.transactions.SumByType(ctx, core.Expense, f)
	if err != nil {
		return core.Totals{}, fmt.Errorf("sum expense: %w", err)
	}
	return core.NewTotals(income, expense), nil
}

// ForPeople returns the totals of each person id, in input order.
func (e *TotalsEngine) ForPeople(ctx context.Context, ids []int64) ([]core.Totals, error) {
	var batch func(context.Context, []int64) (map[int64]core.Totals, error)
	if e.grouped != nil {
		batch = e.grouped.SumByPeople
	}
	return e.forOwners(ctx, ids, batch, func(id int64) core.TransactionFilter {
		return core.TransactionFilter{PersonID: &id}
	})
}

// ForCategories returns the totals of each category id, in input order.
func (e *TotalsEngine) ForCategories(ctx context.Context, ids []int64) ([]core.Totals, error) {
	var batch func(context.Context, []int64) (map[int64]core.Totals, error)
	if e.grouped != nil {
		batch = e.grouped.SumByCategories
	}
	return e.forOwners(ctx, ids, batch, func(id int64) core.TransactionFilter {
		return core.TransactionFilter{CategoryID: &id}
	})
}

func (e *TotalsEngine) forOwners(
	ctx context.Context,
	ids []int64,
	batch func(context.Context, []int64) (map[int64]core.Totals, error),
	scope func(int64) core.TransactionFilter,
) ([]core.Totals, error) {
	out := make([]core.Totals, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	if batch != nil {
		sums, err := batch(ctx, ids)
		if err != nil {
			return nil, fmt.Errorf("grouped sums: %w", err)
		}
		for i, id := range ids {
			t, ok := sums[id]
			if !ok {
				t = core.ZeroTotals()
			}
			out[i] = t
		}
		e.logger.DebugContext(ctx, "Grouped totals computed", log.FieldRows, len(ids))
		return out, nil
	}

	// Two sums per row, at most e.limit rows in flight.
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.limit)
	for i, id := range ids {
		g.Go(func() error {
			f := scope(id)
			income, err := e.transactions.SumByType(gctx, core.Income, f)
			if err != nil {
				return fmt.Errorf("sum income of %d: %w", id, err)
			}
			expense, err := e.transactions.SumByType(gctx, core.Expense, f)
			if err != nil {
				return fmt.Errorf("sum expense of %d: %w", id, err)
			}
			out[i] = core.NewTotals(income, expense)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	e.logger.DebugContext(ctx, "Per-row totals computed", log.FieldRows, len(ids))
	return out, nil
}

// Sum folds a slice of totals into one.
func Sum(ts []core.Totals) core.Totals {
	total := core.ZeroTotals()
	for _, t := range ts {
		total = total.Add(t)
	}
	return total
}
