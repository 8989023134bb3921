package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/storage"
)

var transactionColumns = map[core.SortField]string{
	core.SortByID:          "id",
	core.SortByDate:        "date",
	core.SortByDescription: "description",
}

const transactionSelect = `SELECT id, description, amount_cents, type, date, category_id, person_id FROM transactions`

// Dates compare on their YYYY-MM-DD prefix so bounds are whole days.
const transactionWhere = `
WHERE (? IS NULL OR substr(date, 1, 10) >= ?)
  AND (? IS NULL OR substr(date, 1, 10) <= ?)
  AND (? IS NULL OR person_id = ?)
  AND (? IS NULL OR category_id = ?)
  AND (? IS NULL OR type = ?)`

type Transactions struct {
	db *sql.DB
}

func transactionArgs(f core.TransactionFilter) []any {
	var from, to any
	if f.From != nil {
		from = f.From.Format(core.DateLayout)
	}
	if f.To != nil {
		to = f.To.Format(core.DateLayout)
	}
	person, category, typ := optional(f.PersonID), optional(f.CategoryID), optional(f.Type)
	return []any{from, from, to, to, person, person, category, category, typ, typ}
}

func scanTransaction(row scanner) (core.Transaction, error) {
	var (
		t     core.Transaction
		cents int64
		date  string
	)
	if err := row.Scan(&t.ID, &t.Description, &cents, &t.Type, &date, &t.CategoryID, &t.PersonID); err != nil {
		return core.Transaction{}, err
	}
	when, err := parseTime(timeLayout, date)
	if err != nil {
		return core.Transaction{}, err
	}
	t.Amount = core.DecimalFromCents(cents)
	t.Date = when
	return t, nil
}

func (r *Transactions) GetByID(ctx context.Context, id int64) (core.Transaction, error) {
	t, err := scanTransaction(r.db.QueryRowContext(ctx, transactionSelect+` WHERE id = ?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return core.Transaction{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Transaction{}, fmt.Errorf("get transaction %d: %w", id, err)
	}
	return t, nil
}

func (r *Transactions) Add(ctx context.Context, t *core.Transaction) error {
	cents, err := core.CentsFromDecimal(t.Amount)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO transactions (description, amount_cents, type, date, category_id, person_id)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		t.Description, cents, int(t.Type),
		t.Date.UTC().Format(timeLayout), t.CategoryID, t.PersonID)
	if err != nil {
		return fmt.Errorf("insert transaction: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert transaction id: %w", err)
	}
	t.ID = id
	t.Amount = core.RoundAmount(t.Amount)
	return nil
}

func (r *Transactions) Update(ctx context.Context, t core.Transaction) error {
	cents, err := core.CentsFromDecimal(t.Amount)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	res, err := r.db.ExecContext(ctx,
		`UPDATE transactions
		    SET description = ?, amount_cents = ?, type = ?, date = ?, category_id = ?, person_id = ?
		  WHERE id = ?`,
		t.Description, cents, int(t.Type),
		t.Date.UTC().Format(timeLayout), t.CategoryID, t.PersonID, t.ID)
	if err != nil {
		return fmt.Errorf("update transaction %d: %w", t.ID, err)
	}
	return affected(res)
}

func (r *Transactions) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %d: %w", id, err)
	}
	return affected(res)
}

func (r *Transactions) Count(ctx context.Context, f core.TransactionFilter) (int, error) {
	var n int
	err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM transactions`+transactionWhere, transactionArgs(f)...).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count transactions: %w", err)
	}
	return n, nil
}

func (r *Transactions) Paginate(ctx context.Context, skip, take int, f core.TransactionFilter, o core.Order) ([]core.Transaction, error) {
	skip, take = core.NormalizePage(skip, take)
	q := transactionSelect + transactionWhere + orderBy(o, transactionColumns) + ` LIMIT ? OFFSET ?`
	return r.query(ctx, q, append(transactionArgs(f), take, skip)...)
}

func (r *Transactions) List(ctx context.Context, f core.TransactionFilter, o core.Order) ([]core.Transaction, error) {
	return r.query(ctx, transactionSelect+transactionWhere+orderBy(o, transactionColumns), transactionArgs(f)...)
}

func (r *Transactions) query(ctx context.Context, q string, args ...any) ([]core.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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
	var cents int64
	err := r.db.QueryRowContext(ctx,
		`SELECT COALESCE(SUM(amount_cents), 0) FROM transactions`+transactionWhere,
		transactionArgs(f.WithType(t))...).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum %s transactions: %w", t, err)
	}
	return core.DecimalFromCents(cents), nil
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
	list, err := idList(ids)
	if err != nil {
		return nil, err
	}

	q := fmt.Sprintf(`SELECT %[1]s, type, COALESCE(SUM(amount_cents), 0)
		FROM transactions
		WHERE %[1]s IN (SELECT value FROM json_each(?))
		GROUP BY %[1]s, type`, column)
	rows, err := r.db.QueryContext(ctx, q, list)
	if err != nil {
		return nil, fmt.Errorf("sum transactions by %s: %w", column, err)
	}
	defer rows.Close()

	sums := map[int64][2]int64{}
	for rows.Next() {
		var (
			owner, cents int64
			typ          core.TransactionType
		)
		if err := rows.Scan(&owner, &typ, &cents); err != nil {
			return nil, fmt.Errorf("scan grouped sum: %w", err)
		}
		s := sums[owner]
		if typ == core.Income {
			s[0] += cents
		} else {
			s[1] += cents
		}
		sums[owner] = s
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for owner, s := range sums {
		out[owner] = core.NewTotals(core.DecimalFromCents(s[0]), core.DecimalFromCents(s[1]))
	}
	return out, nil
}
