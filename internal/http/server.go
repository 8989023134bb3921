// Package http exposes the services as a JSON API on net/http.
package http

import (
	"context"
	"net/http"
	"sync"
	"time"

	"gastos/internal/log"
	"gastos/internal/middleware/ratelimit"
	"gastos/internal/middleware/security"
	"gastos/internal/middleware/trace"
	"gastos/internal/services"
	"gastos/internal/storage"
)

// Config tunes the server. Zero values fall back to defaults.
type Config struct {
	Addr               string
	RateLimitPerMinute int
	CORSAllowedOrigin  string
	Logger             *log.Logger
	Now                func() time.Time
}

// Deps are the collaborators behind the routes. Pinger may be nil.
type Deps struct {
	People       *services.PersonService
	Categories   *services.CategoryService
	Transactions *services.TransactionService
	Pinger       storage.Pinger
}

type Server struct {
	http.Server
	deps     Deps
	now      func() time.Time
	logger   *log.Logger
	limiter  *ratelimit.Limiter
	detector *security.Detector
	tracer   *trace.Middleware

	shutdownOnce sync.Once
}

func NewServer(cfg Config, deps Deps) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Discard()
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	logger := cfg.Logger.WithComponent(log.ComponentHTTP)

	limitCfg := ratelimit.DefaultConfig()
	limitCfg.RequestsPerMinute = cfg.RateLimitPerMinute

	s := &Server{
		deps:     deps,
		now:      func() time.Time { return cfg.Now().UTC() },
		logger:   logger,
		limiter:  ratelimit.NewLimiter(limitCfg),
		detector: security.NewDetector(),
	}
	s.tracer = trace.NewMiddleware(logger, s.detector.ExtractClientIP)

	mux := http.NewServeMux()
	s.routes(mux)

	var h http.Handler = mux
	h = s.limiter.Middleware(s.detector.ExtractClientIP, handleRateLimited)(h)
	h = s.detector.Middleware(logger)(h)
	h = security.CORS(security.DefaultCORSConfig(cfg.CORSAllowedOrigin))(h)
	h = security.NewHeadersMiddleware(security.DefaultHeadersConfig()).Middleware(h)
	h = s.tracer.Middleware(h)

	s.Server = http.Server{
		Addr:              cfg.Addr,
		Handler:           h,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       15 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	return s
}

func (s *Server) routes(mux *http.ServeMux) {
	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", s.handleReady)

	mux.HandleFunc("POST /api/pessoas", s.handleCreatePerson)
	mux.HandleFunc("GET /api/pessoas", s.handleListPeople)
	mux.HandleFunc("GET /api/pessoas/totais", s.handlePeopleTotals)
	mux.HandleFunc("GET /api/pessoas/{id}", s.handleGetPerson)
	mux.HandleFunc("PUT /api/pessoas/{id}", s.handleUpdatePerson)
	mux.HandleFunc("DELETE /api/pessoas/{id}", s.handleDeletePerson)

	mux.HandleFunc("POST /api/categorias", s.handleCreateCategory)
	mux.HandleFunc("GET /api/categorias", s.handleListCategories)
	mux.HandleFunc("GET /api/categorias/totais", s.handleCategoriesTotals)
	mux.HandleFunc("GET /api/categorias/{id}", s.handleGetCategory)
	mux.HandleFunc("PUT /api/categorias/{id}", s.handleUpdateCategory)
	mux.HandleFunc("DELETE /api/categorias/{id}", s.handleDeleteCategory)

	mux.HandleFunc("POST /api/transacoes", s.handleCreateTransaction)
	mux.HandleFunc("GET /api/transacoes", s.handleListTransactions)
	mux.HandleFunc("GET /api/transacoes/totais-gerais", s.handleTransactionTotals)
	mux.HandleFunc("GET /api/transacoes/{id}", s.handleGetTransaction)
	mux.HandleFunc("PUT /api/transacoes/{id}", s.handleUpdateTransaction)
	mux.HandleFunc("DELETE /api/transacoes/{id}", s.handleDeleteTransaction)
}

// Shutdown stops the limiter and drains the HTTP server. Only the first
// call has any effect.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		err = s.Server.Shutdown(ctx)
	})
	return err
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Pinger != nil {
		ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
		defer cancel()
		if err := s.deps.Pinger.Ping(ctx); err != nil {
			log.FromContext(r.Context()).WarnContext(ctx, "Readiness check failed", log.FieldError, err.Error())
			Fail(http.StatusServiceUnavailable, MsgStorageUnavailable).Write(w)
			return
		}
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}

func handleRateLimited(w http.ResponseWriter, r *http.Request) {
	Fail(http.StatusTooManyRequests, MsgRateLimited).Write(w)
}
