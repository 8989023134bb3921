package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/storage"
)

var transactionColumns = map[core.SortField]string{
	core.SortByID:          "id",
	core.SortByDate:        "date",
	core.SortByDescription: "description",
}

const transactionSelect = `SELECT id, description, amount::text, type, date, category_id, person_id FROM transactions`

// Dates compare as UTC calendar days so bounds are inclusive whole days.
const transactionWhere = `
WHERE ($1::date IS NULL OR (date AT TIME ZONE 'UTC')::date >= $1::date)
  AND ($2::date IS NULL OR (date AT TIME ZONE 'UTC')::date <= $2::date)
  AND ($3::bigint IS NULL OR person_id = $3::bigint)
  AND ($4::bigint IS NULL OR category_id = $4::bigint)
  AND ($5::int IS NULL OR type = $5::int)`

type Transactions struct {
	pool *pgxpool.Pool
}

func transactionArgs(f core.TransactionFilter) []any {
	var from, to, typ any
	if f.From != nil {
		from = f.From.Time
	}
	if f.To != nil {
		to = f.To.Time
	}
	if f.Type != nil {
		typ = int(*f.Type)
	}
	return []any{from, to, optional(f.PersonID), optional(f.CategoryID), typ}
}

func scanTransaction(row pgx.Row) (core.Transaction, error) {
	var (
		t      core.Transaction
		amount string
		typ    int
		when   time.Time
	)
	if err := row.Scan(&t.ID, &t.Description, &amount, &typ, &when, &t.CategoryID, &t.PersonID); err != nil {
		return core.Transaction{}, err
	}
	d, err := parseAmount(amount)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = d
	t.Type = core.TransactionType(typ)
	t.Date = when.UTC()
	return t, nil
}

func (r *Transactions) GetByID(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := scanTransaction(r.pool.QueryRow(ctx, transactionSelect+` WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Transaction{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *Transactions) Add(ctx context.Context, t *core.Transaction) error {
	t.Amount = core.RoundAmount(t.Amount)
	err := r.pool.QueryRow(ctx,
		`INSERT INTO transactions (description, amount, type, date, category_id, person_id)
		 VALUES ($1, $2::text::numeric, $3, $4, $5, $6) RETURNING id`,
		t.Description, t.Amount.StringFixed(core.AmountScale), int(t.Type), t.Date.UTC(), t.CategoryID, t.PersonID).Scan(&t.ID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	return nil
}

func (r *Transactions) Update(ctx context.Context, t core.Transaction) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE transactions
		    SET description = $1, amount = $2::text::numeric, type = $3, date = $4, category_id = $5, person_id = $6
		  WHERE id = $7`,
		t.Description, core.RoundAmount(t.Amount).StringFixed(core.AmountScale), int(t.Type), t.Date.UTC(),
		t.CategoryID, t.PersonID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	return affected(tag)
}

func (r *Transactions) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM transactions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return affected(tag)
}

func (r *Transactions) Count(ctx context.Context, f core.TransactionFilter) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM transactions`+transactionWhere, transactionArgs(f)...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *Transactions) Paginate(ctx context.Context, skip, take int, f core.TransactionFilter, o core.Order) ([]core.Transaction, error) {
	skip, take = core.NormalizePage(skip, take)
	q := transactionSelect + transactionWhere + orderBy(o, transactionColumns) + ` LIMIT $6 OFFSET $7`
	return r.query(ctx, q, append(transactionArgs(f), take, skip)...)
}

func (r *Transactions) List(ctx context.Context, f core.TransactionFilter, o core.Order) ([]core.Transaction, error) {
	return r.query(ctx, transactionSelect+transactionWhere+orderBy(o, transactionColumns), transactionArgs(f)...)
}

func (r *Transactions) query(ctx context.Context, q string, args ...any) ([]core.Transaction, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list transactions: %w", err)
	}
	defer rows.Close()

	out := []core.Transaction{}
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (r *Transactions) SumByType(ctx context.Context, t core.TransactionType, f core.TransactionFilter) (decimal.Decimal, error) {
	var sum string
	err := r.pool.QueryRow(ctx,
		`SELECT COALESCE(SUM(amount), 0)::text FROM transactions`+transactionWhere,
		transactionArgs(f.WithType(t))...).Scan(&sum)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s transactions: %w", t, err)
	}
	return parseAmount(sum)
}

// SumByPeople implements storage.GroupedSummer.
func (r *Transactions) SumByPeople(ctx context.Context, ids []int64) (map[int64]core.Totals, error) {
	return r.sumGrouped(ctx, "person_id", ids)
}

// SumByCategories implements storage.GroupedSummer.
func (r *Transactions) SumByCategories(ctx context.Context, ids []int64) (map[int64]core.Totals, error) {
	return r.sumGrouped(ctx, "category_id", ids)
}

func (r *Transactions) sumGrouped(ctx context.Context, column string, ids []int64) (map[int64]core.Totals, error) {
	out := map[int64]core.Totals{}
	if len(ids) == 0 {
		return out, nil
	}

	q := fmt.Sprintf(`SELECT %[1]s,
		       COALESCE(SUM(amount) FILTER (WHERE type = %[2]d), 0)::text,
		       COALESCE(SUM(amount) FILTER (WHERE type = %[3]d), 0)::text
		  FROM transactions
		 WHERE %[1]s = ANY($1::bigint[])
		 GROUP BY %[1]s`, column, int(core.Income), int(core.Expense))
	rows, err := r.pool.Query(ctx, q, ids)
	if err != nil {
		return nil, fmt.Errorf("sum transactions by %s: %w", column, err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			owner           int64
			income, expense string
		)
		if err := rows.Scan(&owner, &income, &expense); err != nil {
			return nil, fmt.Errorf("scan grouped sum: %w", err)
		}
		in, err := parseAmount(income)
		if err != nil {
			return nil, err
		}
		ex, err := parseAmount(expense)
		if err != nil {
			return nil, err
		}
		out[owner] = core.NewTotals(in, ex)
	}
	return out, rows.Err()
}
