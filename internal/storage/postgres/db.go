// Package postgres stores people, categories and transactions in
// PostgreSQL through a pgx connection pool. Amounts use NUMERIC(18,2).
package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"

	"gastos/internal/core"
	"gastos/internal/storage"
)

// foreignKeyViolation is the SQLSTATE raised by restricted deletes.
const foreignKeyViolation = "23503"

type DB struct {
	pool *pgxpool.Pool
}

// Open connects, verifies the connection and applies migrations.
func Open(ctx context.Context, url string) (*DB, error) {
	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create pgx pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(pool); err != nil {
		pool.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Debug("PostgreSQL database ready", "max_conns", pool.Config().MaxConns)
	return &DB{pool: pool}, nil
}

func (d *DB) Close() error {
	d.pool.Close()
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.pool.Ping(ctx)
}

func (d *DB) Repositories() storage.Repositories {
	return storage.Repositories{
		People:       &People{pool: d.pool},
		Categories:   &Categories{pool: d.pool},
		Transactions: &Transactions{pool: d.pool},
	}
}

func orderBy(o core.Order, columns map[core.SortField]string) string {
	dir := "ASC"
	if o.Direction == core.Descending {
		dir = "DESC"
	}
	col, ok := columns[o.Field]
	if !ok || col == "id" {
		return " ORDER BY id " + dir
	}
	return fmt.Sprintf(" ORDER BY %s %s, id %s", col, dir, dir)
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func ids(v []int64) any {
	if len(v) == 0 {
		return nil
	}
	return v
}

func parseAmount(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("parse stored amount %q: %w", s, err)
	}
	return d, nil
}

func affected(tag pgconn.CommandTag) error {
	if tag.RowsAffected() == 0 {
		return storage.ErrNotFound
	}
	return nil
}

func isForeignKeyViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == foreignKeyViolation
}
