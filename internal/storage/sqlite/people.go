package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"gastos/internal/core"
	"gastos/internal/storage"
)

var personColumns = map[core.SortField]string{
	core.SortByID:   "id",
	core.SortByName: "name",
}

const personWhere = `
WHERE (? = '' OR instr(name, ?) > 0)
  AND (? IS NULL OR id IN (SELECT value FROM json_each(?)))`

type People struct {
	db *sql.DB
}

func personArgs(f core.PersonFilter) ([]any, error) {
	ids, err := idList(f.IDs)
	if err != nil {
		return nil, err
	}
	return []any{f.Search, f.Search, ids, ids}, nil
}

func scanPerson(row scanner) (core.Person, error) {
	var (
		p     core.Person
		birth string
	)
	if err := row.Scan(&p.ID, &p.Name, &birth); err != nil {
		return core.Person{}, err
	}
	t, err := parseTime(birthLayout, birth)
	if err != nil {
		return core.Person{}, err
	}
	p.BirthDate = core.DateOf(t)
	return p, nil
}

func (r *People) GetByID(ctx context.Context, id int64) (core.Person, error) {
	row := r.db.QueryRowContext(ctx, `SELECT id, name, birth_date FROM people WHERE id = ?`, id)
	p, err := scanPerson(row)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Person{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	return p, nil
}

func (r *People) Add(ctx context.Context, p *core.Person) error {
	res, err := r.db.ExecContext(ctx,
		`INSERT INTO people (name, birth_date) VALUES (?, ?)`,
		p.Name, p.BirthDate.Format(birthLayout))
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("insert person id: %w", err)
	}
	p.ID = id
	return nil
}

func (r *People) Update(ctx context.Context, p core.Person) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE people SET name = ?, birth_date = ? WHERE id = ?`,
		p.Name, p.BirthDate.Format(birthLayout), p.ID)
	if err != nil {
		return fmt.Errorf("update person %d: %w", p.ID, err)
	}
	return affected(res)
}

// Delete relies on ON DELETE CASCADE to remove the person's transactions.
func (r *People) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM people WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	return affected(res)
}

func (r *People) Count(ctx context.Context, f core.PersonFilter) (int, error) {
	args, err := personArgs(f)
	if err != nil {
		return 0, err
	}
	var n int
	if err := r.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM people`+personWhere, args...).Scan(&n); err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return n, nil
}

func (r *People) Paginate(ctx context.Context, skip, take int, f core.PersonFilter, o core.Order) ([]core.Person, error) {
	skip, take = core.NormalizePage(skip, take)
	args, err := personArgs(f)
	if err != nil {
		return nil, err
	}
	q := `SELECT id, name, birth_date FROM people` + personWhere + orderBy(o, personColumns) + ` LIMIT ? OFFSET ?`
	return r.query(ctx, q, append(args, take, skip)...)
}

func (r *People) List(ctx context.Context, f core.PersonFilter, o core.Order) ([]core.Person, error) {
	args, err := personArgs(f)
	if err != nil {
		return nil, err
	}
	q := `SELECT id, name, birth_date FROM people` + personWhere + orderBy(o, personColumns)
	return r.query(ctx, q, args...)
}

func (r *People) query(ctx context.Context, q string, args ...any) ([]core.Person, error) {
	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()

	out := []core.Person{}
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	return out, rows.Err()
}
