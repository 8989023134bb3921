package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gastos/internal/config"
	"gastos/internal/core"
)

func TestFromAppConfig(t *testing.T) {
	cfg, err := FromAppConfig(&config.Config{DataBackend: "postgres", DatabaseURL: "postgres://x"})
	require.NoError(t, err)
	assert.Equal(t, PostgresBackend, cfg.Type)
	assert.Equal(t, "postgres://x", cfg.DatabaseURL)

	_, err = FromAppConfig(&config.Config{DataBackend: "sheets"})
	assert.Error(t, err)

	_, err = FromAppConfig(nil)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	assert.NoError(t, Config{Type: MemoryBackend}.Validate())
	assert.Error(t, Config{Type: SQLiteBackend}.Validate())
	assert.Error(t, Config{Type: PostgresBackend}.Validate())
	assert.Error(t, Config{Type: "sheets"}.Validate())
	assert.Equal(t, []string{"memory", "sqlite", "postgres"}, GetBackendTypeStrings())
}

func TestCreateBackend_Memory(t *testing.T) {
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: MemoryBackend})
	require.NoError(t, err)
	defer res.Close()

	require.NoError(t, res.Pinger.Ping(context.Background()))
	p := core.Person{Name: "Ana Lima", BirthDate: core.NewDate(1990, 1, 1)}
	require.NoError(t, res.Repositories.People.Add(context.Background(), &p))
	assert.NotZero(t, p.ID)
}

func TestCreateBackend_SQLite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "gastos.db")
	res, err := NewFactory(nil).CreateBackend(context.Background(), Config{Type: SQLiteBackend, SQLiteDBPath: path})
	require.NoError(t, err)
	defer res.Close()

	require.NoError(t, res.Pinger.Ping(context.Background()))
	n, err := res.Repositories.Categories.Count(context.Background(), core.CategoryFilter{})
	require.NoError(t, err)
	assert.Zero(t, n)
}

func TestCreatePublisher_Disabled(t *testing.T) {
	pub, cleanup := NewFactory(nil).CreatePublisher(context.Background(), &config.Config{})
	assert.Nil(t, pub)
	assert.Nil(t, cleanup)
}

func TestResultCloseNil(t *testing.T) {
	var r *Result
	assert.NoError(t, r.Close())
	assert.NoError(t, (&Result{}).Close())
}
