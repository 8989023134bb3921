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

var personColumns = map[core.SortField]string{
	core.SortByID:   "id",
	core.SortByName: "name",
}

const personWhere = `
WHERE ($1 = '' OR strpos(name, $1) > 0)
  AND ($2::bigint[] IS NULL OR id = ANY($2::bigint[]))`

type People struct {
	pool *pgxpool.Pool
}

func scanPerson(row pgx.Row) (core.Person, error) {
	var p core.Person
	if err := row.Scan(&p.ID, &p.Name, &p.BirthDate.Time); err != nil {
		return core.Person{}, err
	}
	p.BirthDate = core.DateOf(p.BirthDate.Time)
	return p, nil
}

func (r *People) GetByID(ctx context.Context, id int64) (core.Person, error) {
	p, err := scanPerson(r.pool.QueryRow(ctx, `SELECT id, name, birth_date FROM people WHERE id = $1`, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return core.Person{}, storage.ErrNotFound
	}
	if err != nil {
		return core.Person{}, fmt.Errorf("get person %d: %w", id, err)
	}
	return p, nil
}

func (r *People) Add(ctx context.Context, p *core.Person) error {
	err := r.pool.QueryRow(ctx,
		`INSERT INTO people (name, birth_date) VALUES ($1, $2) RETURNING id`,
		p.Name, p.BirthDate.Time).Scan(&p.ID)
	if err != nil {
		return fmt.Errorf("insert person: %w", err)
	}
	return nil
}

func (r *People) Update(ctx context.Context, p core.Person) error {
	tag, err := r.pool.Exec(ctx,
		`UPDATE people SET name = $1, birth_date = $2 WHERE id = $3`,
		p.Name, p.BirthDate.Time, p.ID)
	if err != nil {
		return fmt.Errorf("update person %d: %w", p.ID, err)
	}
	return affected(tag)
}

func (r *People) Delete(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM people WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete person %d: %w", id, err)
	}
	return affected(tag)
}

func (r *People) Count(ctx context.Context, f core.PersonFilter) (int, error) {
	var n int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM people`+personWhere, f.Search, ids(f.IDs)).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("count people: %w", err)
	}
	return n, nil
}

func (r *People) Paginate(ctx context.Context, skip, take int, f core.PersonFilter, o core.Order) ([]core.Person, error) {
	skip, take = core.NormalizePage(skip, take)
	q := `SELECT id, name, birth_date FROM people` + personWhere + orderBy(o, personColumns) + ` LIMIT $3 OFFSET $4`
	return r.query(ctx, q, f.Search, ids(f.IDs), take, skip)
}

func (r *People) List(ctx context.Context, f core.PersonFilter, o core.Order) ([]core.Person, error) {
	q := `SELECT id, name, birth_date FROM people` + personWhere + orderBy(o, personColumns)
	return r.query(ctx, q, f.Search, ids(f.IDs))
}

func (r *People) query(ctx context.Context, q string, args ...any) ([]core.Person, error) {
	rows, err := r.pool.Query(ctx, q, args...)
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
