// Package sqlite stores people, categories and transactions in a SQLite
// database through the pure Go modernc driver. Amounts are kept as integer
// cents and dates as UTC text so calendar comparisons work on prefixes.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"gastos/internal/core"
	"gastos/internal/storage"

	_ "modernc.org/sqlite"
)

const (
	birthLayout = core.DateLayout
	timeLayout  = "2006-01-02 15:04:05"
)

type DB struct {
	db *sql.DB
}

func dsn(path string) string {
	return "file:" + path + "?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// Open creates the database file if needed and applies migrations.
func Open(dbPath string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dsn(dbPath))
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	slog.Debug("SQLite database ready", "path", dbPath)
	return &DB{db: db}, nil
}

func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

func (d *DB) Ping(ctx context.Context) error {
	return d.db.PingContext(ctx)
}

func (d *DB) Repositories() storage.Repositories {
	return storage.Repositories{
		People:       &People{db: d.db},
		Categories:   &Categories{db: d.db},
		Transactions: &Transactions{db: d.db},
	}
}

// orderBy renders a whitelisted ORDER BY clause with id as tie breaker.
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

// idList encodes ids for json_each; nil means the clause is disabled.
func idList(ids []int64) (any, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	b, err := json.Marshal(ids)
	if err != nil {
		return nil, fmt.Errorf("encode id list: %w", err)
	}
	return string(b), nil
}

func optional[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}

func parseTime(layout, s string) (time.Time, error) {
	t, err := time.ParseInLocation(layout, s, time.UTC)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse stored time %q: %w", s, err)
	}
	return t, nil
}

func affected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return storage.ErrNotFound
	}
	return nil
}

type scanner interface {
	Scan(dest ...any) error
}
