package http

import (
	"context"
	"encoding/json"
	nethttp "net/http"
	"time"

	"go.uber.org/zap"

	"go-cobit-maturity-admin/internal/config"
	"go-cobit-maturity-admin/internal/connectors/auditlog"
	"go-cobit-maturity-admin/internal/connectors/supabase"
	"go-cobit-maturity-admin/internal/session"
)

// Server wraps the HTTP server, the Supabase connector, and the
// session manager behind the admin dashboard.
type Server struct {
	httpServer *nethttp.Server
	supabase   *supabase.Client
	sessions   *session.Manager
	audit      *auditlog.Store
	log        *zap.Logger
}

// NewServer creates a configured HTTP server with v1 endpoints.
func NewServer(cfg config.Config, log *zap.Logger) (*Server, error) {
	sb := supabase.NewClient(cfg.SupabaseURL, cfg.SupabaseAnonKey, cfg.SupabaseTimeout)
	sessions := session.NewManager(cfg.SessionTTL)

	var audit *auditlog.Store
	if cfg.AuditEnabled {
		createdStore, err := auditlog.NewSQLiteStore(cfg.AuditSQLitePath)
		if err != nil {
			return nil, err
		}
		audit = createdStore
	}

	mux := nethttp.NewServeMux()

	mux.HandleFunc("/", dashboardHandler)
	mux.HandleFunc("/favicon.ico", faviconHandler)
	mux.Handle("/metrics", metricsHandler())
	mux.HandleFunc("/health", healthHandler)
	mux.HandleFunc("/ready", readyHandler)

	mux.HandleFunc("/api/v1/session/login", loginHandler(sb, sessions, audit, log))
	mux.HandleFunc("/api/v1/session/logout", logoutHandler(sessions, log))
	mux.HandleFunc("/api/v1/responses/refresh", refreshHandler(sb, sessions, cfg.ResponseFetchLimit, log))
	mux.HandleFunc("/api/v1/responses/select", selectHandler(sessions))
	mux.HandleFunc("/api/v1/responses/clear", clearSelectionHandler(sessions))
	mux.HandleFunc("/api/v1/responses/", responseMutationRouter(sb, sessions, audit, cfg.ResponseFetchLimit, log))
	mux.HandleFunc("/api/v1/view", viewHandler(sessions))
	mux.HandleFunc("/api/v1/export/summary.csv", exportSummaryHandler(sessions))
	mux.HandleFunc("/api/v1/export/detail.csv", exportDetailHandler(sessions))
	mux.HandleFunc("/api/v1/audit", auditListHandler(sessions, audit))

	httpServer := &nethttp.Server{
		Addr:         cfg.ListenAddr,
		Handler:      loggingMiddleware(log, observabilityMiddleware(mux)),
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	}

	return &Server{
		httpServer: httpServer,
		supabase:   sb,
		sessions:   sessions,
		audit:      audit,
		log:        log,
	}, nil
}

// ListenAndServe starts the HTTP server.
func (s *Server) ListenAndServe() error {
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully stops the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.audit != nil {
		_ = s.audit.Close()
	}
	return s.httpServer.Shutdown(ctx)
}

func healthHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ok",
		"time":   time.Now().UTC(),
	})
}

func readyHandler(w nethttp.ResponseWriter, _ *nethttp.Request) {
	writeJSON(w, nethttp.StatusOK, map[string]any{
		"status": "ready",
	})
}

func loggingMiddleware(log *zap.Logger, next nethttp.Handler) nethttp.Handler {
	return nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: nethttp.StatusOK}
		next.ServeHTTP(rec, r)
		log.Info("request",
			zap.String("method", r.Method),
			zap.String("path", r.URL.Path),
			zap.Int("status", rec.status),
			zap.Duration("duration", time.Since(start)),
		)
	})
}

func writeJSON(w nethttp.ResponseWriter, code int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(payload)
}
