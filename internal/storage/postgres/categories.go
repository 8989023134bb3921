package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"gastos/internal/core"
	"gastos/internal/storage"
)

var categoryColumns = map[core.SortField]string{
	core.SortByID:          "id",
	core.SortByDescription: "description",
}

const categoryWhere = `
WHERE ($1 = '' OR strpos(description, $1) > 0)
  AND ($2::int IS NULL OR purpose = $2::int)
  AND ($3::bigint[] IS NULL OR id = ANY($3::bigint[]))`

type Categories struct {
	pool *pgxpool.Pool
}

func categoryArgs(f core.CategoryFilter) []any {
	var purpose any
	if f.Purpose != nil {
		purpose = int(*f.Purpose)
	}
	return []any{f.Search, purpose, ids(f.IDs)}
}

func scanCategory(row pgx.Row) (core.Category, error) {
	var (
		c       core.Category
		purpose int
	)
	if err := row.Scan(&c.ID, &c.Description, &purpose); err != nil {
		return core.Category{}, err
	}
	c.Purpose = core.CategoryPurpose(purpose)
	return c, nil
}

func (r *Categories) GetByID(ctx context.Context, id int64) (core.Category, error) {
	c, err := scanCategory(r.pool.QueryRow(ctx, `SELECT id, description, purpose FROM categories WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Category{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (r *Categories) Add(ctx context.Context, c *core.Category) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO categories (description, purpose) VALUES ($1, $2) RETURNING id`,
		c.Description, int(c.Purpose)).Scan(&c.ID)
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	return nil
}

func (r *Categories) Update(ctx context.Context, c core.Category) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE categories SET description = $1, purpose = $2 WHERE id = $3`,
		c.Description, int(c.Purpose), c.ID)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return affected(tag)
}

// Delete maps the RESTRICT foreign key violation to storage.ErrInUse.
func (r *Categories) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if isForeignKeyViolation(err) {
		return storage.ErrInUse
	}
	if err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return affected(tag)
}

func (r *Categories) Count(ctx context.Context, f core.CategoryFilter) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM categories`+categoryWhere, categoryArgs(f)...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func (r *Categories) Paginate(ctx context.Context, skip, take int, f core.CategoryFilter, o core.Order) ([]core.Category, error) {
	skip, take = core.NormalizePage(skip, take)
	q := `SELECT id, description, purpose FROM categories` + categoryWhere + orderBy(o, categoryColumns) + ` LIMIT $4 OFFSET $5`
	return r.query(ctx, q, append(categoryArgs(f), take, skip)...)
}

func (r *Categories) List(ctx context.Context, f core.CategoryFilter, o core.Order) ([]core.Category, error) {
	q := `SELECT id, description, purpose FROM categories` + categoryWhere + orderBy(o, categoryColumns)
	return r.query(ctx, q, categoryArgs(f)...)
}

func (r *Categories) query(ctx context.Context, q string, args ...any) ([]core.Category, error) {
	rows, err := r.pool.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	out := []core.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
