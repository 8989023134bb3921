package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type clock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *clock) now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *clock) advance(d time.Duration) {
	c.mu.Lock()
	c.t = c.t.Add(d)
	c.mu.Unlock()
}

func newTestLimiter(t *testing.T, perMinute int) (*Limiter, *clock) {
	t.Helper()
	c := &clock{t: time.Date(2026, 3, 10, 12, 0, 0, 0, time.UTC)}
	cfg := DefaultConfig()
	cfg.RequestsPerMinute = perMinute
	cfg.Now = c.now
	rl := NewLimiter(cfg)
	t.Cleanup(rl.Stop)
	return rl, c
}

func TestAllow_WindowResets(t *testing.T) {
	rl, c := newTestLimiter(t, 2)

	assert.True(t, rl.Allow("a"))
	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"), "keys are independent")

	c.advance(Window)
	assert.True(t, rl.Allow("a"))
	assert.Equal(t, int64(1), rl.GetMetrics().Rejected)
	assert.Equal(t, int64(2), rl.GetMetrics().ClientCount)
}

func TestCleanupRemovesStaleClients(t *testing.T) {
	rl, c := newTestLimiter(t, 5)
	rl.Allow("old")
	c.advance(11 * time.Minute)
	rl.Allow("fresh")

	rl.cleanupStaleEntries()
	assert.Equal(t, int64(1), rl.GetMetrics().ClientCount)
}

func TestMiddleware_OnlyMutatingMethods(t *testing.T) {
	rl, c := newTestLimiter(t, 1)
	h := rl.Middleware(func(*http.Request) string { return "1.2.3.4" }, nil)(
		http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) }))

	do := func(method string) *httptest.ResponseRecorder {
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, httptest.NewRequest(method, "/api/pessoas", nil))
		return rec
	}

	assert.Equal(t, http.StatusNoContent, do(http.MethodPost).Code)
	c.advance(20 * time.Second)
	rec := do(http.MethodPost)
	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	assert.Equal(t, "40", rec.Header().Get("Retry-After"))

	for range 5 {
		assert.Equal(t, http.StatusNoContent, do(http.MethodGet).Code)
	}
}

func TestStopIsIdempotent(t *testing.T) {
	rl := NewLimiter(Config{})
	rl.Stop()
	assert.NotPanics(t, rl.Stop)
}
