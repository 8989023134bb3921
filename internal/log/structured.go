package log

import (
	"context"
	"log/slog"
	"net/http"
)

// StructuredLogger writes the fixed-shape records for HTTP requests and
// saved transactions.
type StructuredLogger struct {
	logger *Logger
}

func NewStructuredLogger(logger *Logger) *StructuredLogger {
	return &StructuredLogger{logger: logger}
}

func (sl *StructuredLogger) LogHTTPStart(ctx context.Context, r *http.Request, requestID, clientIP string) {
	args := Args{FieldMethod, r.Method, FieldPath, r.URL.Path}.
		Add(FieldQuery, r.URL.RawQuery).
		Add(FieldUserAgent, r.UserAgent()).
		Request(requestID, clientIP)
	sl.logger.DebugContext(ctx, "HTTP request started", args...)
}

// LogHTTPEnd logs at warn for 4xx and error for 5xx.
func (sl *StructuredLogger) LogHTTPEnd(ctx context.Context, r *http.Request, requestID string, status int, durationMs int64, clientIP string) {
	level := slog.LevelInfo
	switch {
	case status >= 500:
		level = slog.LevelError
	case status >= 400:
		level = slog.LevelWarn
	}

	args := Args{FieldMethod, r.Method, FieldPath, r.URL.Path}.
		Add(FieldStatusCode, status).
		Add(FieldDuration, durationMs).
		Add(FieldSuccess, status < 400).
		Request(requestID, clientIP)
	sl.logger.Log(ctx, level, "HTTP request completed", args...)
}

func (sl *StructuredLogger) LogTransactionSaved(ctx context.Context, op string, id, personID, categoryID int64, txType, amount string) {
	args := Args{FieldOperation, op}.Transaction(id, personID, categoryID, txType, amount)
	sl.logger.InfoContext(ctx, "Transaction saved", args...)
}
