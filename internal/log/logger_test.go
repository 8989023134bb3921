package log

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		" INFO ":  slog.LevelInfo,
		"warn":    slog.LevelWarn,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for in, want := range cases {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestComponentStampedOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelDebug, ComponentApp).WithComponent(ComponentTotals)
	logger.Info("computed", FieldRows, 3)

	line := buf.String()
	assert.Equal(t, 1, strings.Count(line, "component="), line)
	assert.Contains(t, line, "component=totals")
	assert.Contains(t, line, "rows=3")
}

func TestContextCarriesLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewText(&buf, slog.LevelInfo, ComponentHTTP).With(FieldRequestID, "req_1")

	got := FromContext(IntoContext(context.Background(), logger))
	got.Info("inside")

	assert.Equal(t, ComponentHTTP, got.Component())
	assert.Contains(t, buf.String(), "request_id=req_1")
}

func TestFromContextFallsBackToDefault(t *testing.T) {
	assert.Equal(t, "unknown", FromContext(context.Background()).Component())
}

func TestArgsKeepOrder(t *testing.T) {
	args := Args{FieldOperation, OpCreate}.Err(nil).Err(errors.New("disk full")).Add(FieldRows, 2)
	assert.Equal(t, []any{FieldOperation, OpCreate, FieldError, "disk full", FieldRows, 2}, []any(args))
}

func TestStructuredLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	sl := NewStructuredLogger(NewText(&buf, slog.LevelInfo, ComponentHTTP))
	r := httptest.NewRequest(http.MethodGet, "/api/pessoas?skip=0", nil)

	sl.LogHTTPStart(context.Background(), r, "req_2", "10.0.0.1")
	assert.Empty(t, buf.String(), "start records are debug")

	sl.LogHTTPEnd(context.Background(), r, "req_2", http.StatusOK, 3, "10.0.0.1")
	assert.Contains(t, buf.String(), "level=INFO")
	assert.Contains(t, buf.String(), "success=true")

	buf.Reset()
	sl.LogHTTPEnd(context.Background(), r, "req_2", http.StatusNotFound, 3, "10.0.0.1")
	assert.Contains(t, buf.String(), "level=WARN")

	buf.Reset()
	sl.LogHTTPEnd(context.Background(), r, "req_2", http.StatusInternalServerError, 3, "10.0.0.1")
	assert.Contains(t, buf.String(), "level=ERROR")

	buf.Reset()
	sl.LogTransactionSaved(context.Background(), OpCreate, 7, 1, 2, "despesa", "10.50")
	assert.Contains(t, buf.String(), "transaction_id=7")
	assert.Contains(t, buf.String(), "amount=10.50")
	assert.Contains(t, buf.String(), "operation=create")
}
