package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gastos/internal/core"
	"gastos/internal/storage"
)

var categoryColumns = map[core.SortField]string{
	core.SortByID:          "id",
	core.SortByDescription: "description",
}

const categoryWhere = `
WHERE (? = '' OR instr(description, ?) > 0)
  AND (? IS NULL OR purpose = ?)
  AND (? IS NULL OR id IN (SELECT value FROM json_each(?)))`

type Categories struct {
	db *sql.DB
}

func categoryArgs(f core.CategoryFilter) ([]any, error) {
	ids, err := idList(f.IDs)
	if err != nil {
		return nil, err
	}
	purpose := optional(f.Purpose)
	return []any{f.Search, f.Search, purpose, purpose, ids, ids}, nil
}

func scanCategory(row scanner) (core.Category, error) {
	var c core.Category
	err := row.Scan(&c.ID, &c.Description, &c.Purpose)
	return c, err
}

func (r *Categories) GetByID(ctx context.Context, id int64) (core.Category, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, description, purpose FROM categories WHERE id = ?`, id)
	c, err := scanCategory(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Category{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Category{}, fmt.Errorf("get category %d: %w", id, err)
	}
	return c, nil
}

func (r *Categories) Add(ctx context.Context, c *core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO categories (description, purpose) VALUES (?, ?)`,
		c.Description, int(c.Purpose))
	if err != nil {
		return fmt.Errorf("insert category: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert category id: %w", err)
	}
	c.ID = id
	return nil
}

func (r *Categories) Update(ctx context.Context, c core.Category) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE categories SET description = ?, purpose = ? WHERE id = ?`,
		c.Description, int(c.Purpose), c.ID)
	if err != nil {
		return fmt.Errorf("update category %d: %w", c.ID, err)
	}
	return affected(res)
}

// Delete refuses with storage.ErrInUse while transactions reference the category.
func (r *Categories) Delete(ctx context.Context, id int64) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin delete category %d: %w", id, err)
	}
	defer tx.Rollback()

	var used bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM transactions WHERE category_id = ?)`, id).Scan(&used); err != nil {
		return fmt.Errorf("check category %d usage: %w", id, err)
	}
	var exists bool
	if err := tx.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM categories WHERE id = ?)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check category %d: %w", id, err)
	}
	if !exists {
		return storage.ErrNotFound
	}
	if used {
		return storage.ErrInUse
	}

	if _, err := tx.ExecContext(ctx, `DELETE FROM categories WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete category %d: %w", id, err)
	}
	return tx.Commit()
}

func (r *Categories) Count(ctx context.Context, f core.CategoryFilter) (int, error) {
	args, err := categoryArgs(f)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM categories`+categoryWhere, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return n, nil
}

func (r *Categories) Paginate(ctx context.Context, skip, take int, f core.CategoryFilter, o core.Order) ([]core.Category, error) {
	skip, take = core.NormalizePage(skip, take)
	args, err := categoryArgs(f)
	if err != nil {
		return nil, err
	}
	q := `SELECT id, description, purpose FROM categories` + categoryWhere + orderBy(o, categoryColumns) + ` LIMIT ? OFFSET ?`
	return r.query(ctx, q, append(args, take, skip)...)
}

func (r *Categories) List(ctx context.Context, f core.CategoryFilter, o core.Order) ([]core.Category, error) {
	args, err := categoryArgs(f)
	if err != nil {
		return nil, err
	}
	q := `SELECT id, description, purpose FROM categories` + categoryWhere + orderBy(o, categoryColumns)
	return r.query(ctx, q, args...)
}

func (r *Categories) query(ctx context.Context, q string, args ...any) ([]core.Category, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
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
