package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := SetupLogger(&buf, "warn")

	logger.Info("hidden")
	logger.Warn("shown")
	assert.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
	assert.Contains(t, buf.String(), "component=app")
}

func TestLoadEnvFileAndConfig(t *testing.T) {
	dir := t.TempDir()
	env := filepath.Join(dir, ".env")
	require.NoError(t, os.WriteFile(env, []byte("DATA_BACKEND=memory\nPORT=9191\n"), 0o600))

	t.Setenv("DATA_BACKEND", "")
	t.Setenv("PORT", "")
	os.Unsetenv("DATA_BACKEND")
	os.Unsetenv("PORT")

	LoadEnvFile(env)
	cfg, err := LoadAndValidateConfig()
	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.DataBackend)
	assert.Equal(t, "9191", cfg.Port)

	t.Setenv("TOTALS_CONCURRENCY", "0")
	_, err = LoadAndValidateConfig()
	assert.Error(t, err)
}

func TestLoadEnvFileMissingIsIgnored(t *testing.T) {
	assert.NotPanics(t, func() { LoadEnvFile(filepath.Join(t.TempDir(), "missing.env")) })
}
