// Package http serves the JSON API over chi.
package http

import (
	"context"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"paytrack/internal/aggregate"
	"paytrack/internal/calendar"
	"paytrack/internal/core"
	"paytrack/internal/live"
	applog "paytrack/internal/log"
	"paytrack/internal/middleware/ratelimit"
	"paytrack/internal/middleware/security"
	"paytrack/internal/services"
)

// Service ports the handlers depend on.
type (
	Ledger interface {
		AddTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error)
		UpdateTransaction(ctx context.Context, userID string, tx core.Transaction) (core.Transaction, error)
		DeleteTransaction(ctx context.Context, userID, id string) error
		SaveRule(ctx context.Context, userID string, rule core.RecurringRule) (core.RecurringRule, error)
		DeleteRule(ctx context.Context, userID, id string) error
		UpdateSettings(ctx context.Context, userID string, next core.Settings) (core.Settings, error)
		SetIncome(ctx context.Context, userID string, date core.Date, amount core.Money) (core.Date, error)
	}

	Dashboard interface {
		Snapshot(ctx context.Context, userID string) (live.Snapshot, error)
		Summary(ctx context.Context, userID string, view core.View, date core.Date) (aggregate.Summary, error)
		Periods(ctx context.Context, userID string, date core.Date) ([]calendar.Option, error)
		History(ctx context.Context, userID string) (aggregate.HistoryReport, error)
		ExportCSV(ctx context.Context, w io.Writer, userID string, view core.View, date core.Date) error
	}

	Materializer interface {
		ProcessUser(ctx context.Context, userID string, today core.Date) (services.ProcessSummary, error)
	}

	Streamer interface {
		Subscribe(ctx context.Context, userID string) (<-chan live.Snapshot, func(), error)
	}
)

// Deps wires the server to its services.
type Deps struct {
	Ledger       Ledger
	Dashboard    Dashboard
	Materializer Materializer
	Streamer     Streamer

	// UserHeader names the header carrying the authenticated user id.
	UserHeader string
	// Location decides which calendar day "today" is.
	Location *time.Location
	// Ready reports whether the backing store is reachable; nil means always ready.
	Ready     func(ctx context.Context) error
	Logger    *applog.Logger
	RateLimit ratelimit.Config
}

type Server struct {
	http.Server
	deps    Deps
	limiter *ratelimit.Limiter
	now     func() time.Time

	shutdownOnce sync.Once
}

// NewServer configures routes, returning a ready-to-run http.Server.
func NewServer(addr string, deps Deps) *Server {
	if deps.UserHeader == "" {
		deps.UserHeader = "X-Forwarded-User"
	}
	if deps.Location == nil {
		deps.Location = time.UTC
	}
	if deps.Logger == nil {
		deps.Logger = applog.New(applog.DefaultConfig())
	}
	s := &Server{
		deps:    deps,
		limiter: ratelimit.NewLimiter(deps.RateLimit),
		now:     time.Now,
	}
	s.Server = http.Server{
		Addr:              addr,
		Handler:           s.routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
	return s
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(applog.Middleware(s.deps.Logger))
	r.Use(middleware.Recoverer)
	r.Use(security.Headers(security.DefaultHeadersConfig()))

	r.Get("/healthz", handleHealth)
	r.Get("/readyz", s.handleReady)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.requireUser)
		r.Use(applog.WithUserMiddleware(s.userID))
		r.Use(s.limiter.WritesOnly(s.userID, func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "rate limit exceeded"})
		}))

		r.Get("/summary", s.handleSummary)
		r.Get("/periods", s.handlePeriods)
		r.Get("/history", s.handleHistory)
		r.Get("/export.csv", s.handleExportCSV)
		r.Get("/stream", s.handleStream)

		r.Get("/transactions", s.handleListTransactions)
		r.Post("/transactions", s.handleCreateTransaction)
		r.Put("/transactions/{id}", s.handleUpdateTransaction)
		r.Delete("/transactions/{id}", s.handleDeleteTransaction)

		r.Get("/rules", s.handleListRules)
		r.Post("/rules", s.handleCreateRule)
		r.Put("/rules/{id}", s.handleUpdateRule)
		r.Delete("/rules/{id}", s.handleDeleteRule)

		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)

		r.Get("/income", s.handleGetIncome)
		r.Put("/income/{start}", s.handleSetIncome)

		r.Post("/materialize", s.handleMaterialize)
	})
	return r
}

// Shutdown stops the rate limiter and gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.limiter.Stop()
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func (s *Server) userID(r *http.Request) string {
	return strings.TrimSpace(r.Header.Get(s.deps.UserHeader))
}

func (s *Server) today() core.Date {
	return core.Today(s.now(), s.deps.Location)
}

// requireUser rejects requests that reach the API without an identity.
func (s *Server) requireUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if s.userID(r) == "" {
			writeJSON(w, http.StatusUnauthorized, errorBody{Error: "missing user identity"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	if s.deps.Ready != nil {
		if err := s.deps.Ready(r.Context()); err != nil {
			applog.FromContext(r.Context()).Warn("Readiness check failed", applog.FieldError, err)
			http.Error(w, "store unavailable", http.StatusServiceUnavailable)
			return
		}
	}
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
