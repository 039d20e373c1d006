package http

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/yannesss/finreport/internal/cache"
	"github.com/yannesss/finreport/internal/core"
	"github.com/yannesss/finreport/internal/i18n"
	"github.com/yannesss/finreport/internal/ledger"
	"github.com/yannesss/finreport/internal/service"
	"github.com/yannesss/finreport/internal/smart"
)

type Server struct {
	http.Server

	svc         *service.LedgerService
	parser      smart.Parser
	defaultLang i18n.Lang
	rateLimiter *rateLimiter

	// Computed views are memoized per revision and filter parameters.
	viewCache    *cache.LRUCache[ledger.View]
	cacheManager *cache.Manager

	// The view defaults to the current month until an import clears it,
	// mirroring how the report opens on today's month.
	rangeMu         sync.Mutex
	useDefaultRange bool

	shutdownOnce sync.Once
}

// NewServer configures routes and middleware, returning a ready-to-run server.
func NewServer(addr string, svc *service.LedgerService, parser smart.Parser, defaultLang i18n.Lang) *Server {
	mux := http.NewServeMux()

	s := &Server{
		Server: http.Server{
			Addr:    addr,
			Handler: mux,
		},
		svc:             svc,
		parser:          parser,
		defaultLang:     defaultLang,
		rateLimiter:     newRateLimiter(),
		viewCache:       cache.NewLRUCache[ledger.View](100, 5*time.Minute), // Max 100 entries, 5min TTL
		cacheManager:    cache.NewManager(),
		useDefaultRange: true,
	}

	s.cacheManager.Register(s.viewCache)
	s.cacheManager.StartCleanup(10 * time.Minute)

	mux.HandleFunc("GET /healthz", handleHealth)
	mux.HandleFunc("GET /readyz", handleReady)

	mux.HandleFunc("GET /api/view", s.withMiddleware(s.handleView))
	mux.HandleFunc("GET /api/categories", s.withMiddleware(s.handleCategories))
	mux.HandleFunc("POST /api/transactions", s.withMiddleware(s.handleCreateTransaction))
	mux.HandleFunc("DELETE /api/transactions/{id}", s.withMiddleware(s.handleDeleteTransaction))
	mux.HandleFunc("POST /api/parse", s.withMiddleware(s.handleParse))
	mux.HandleFunc("GET /api/export/json", s.withMiddleware(s.handleExportJSON))
	mux.HandleFunc("GET /api/export/csv", s.withMiddleware(s.handleExportCSV))
	mux.HandleFunc("POST /api/import", s.withMiddleware(s.handleImport))

	return s
}

// withMiddleware adds security headers, rate limiting, and request logging.
func (s *Server) withMiddleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		clientIP := clientIP(r)
		requestID := generateRequestID()
		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		r = r.WithContext(ctx)

		slog.InfoContext(ctx, "Request started",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"client_ip", clientIP,
			"user_agent", r.Header.Get("User-Agent"))

		// Rate limit mutating requests only; reads are cache-backed and cheap
		if (r.Method == http.MethodPost || r.Method == http.MethodDelete) && !s.rateLimiter.allow(clientIP) {
			slog.WarnContext(ctx, "Rate limit exceeded", "client_ip", clientIP, "method", r.Method, "url", r.URL.Path)
			w.Header().Set("Retry-After", "60")
			http.Error(w, "Rate limit exceeded. Please try again later.", http.StatusTooManyRequests)
			return
		}

		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		next(rw, r)

		duration := time.Since(start)
		slog.InfoContext(ctx, "Request completed",
			"request_id", requestID,
			"method", r.Method,
			"url", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"client_ip", clientIP)
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

type requestIDKey struct{}

// defaultRange returns the open date range applied when the request names
// none. Zero dates mean "no restriction".
func (s *Server) defaultRange() (core.Date, core.Date) {
	s.rangeMu.Lock()
	defer s.rangeMu.Unlock()
	if !s.useDefaultRange {
		return core.Date{}, core.Date{}
	}
	today := core.Today()
	start := core.NewDate(today.Year(), int(today.Month()), 1)
	return start, start.AddDays(daysInMonth(today) - 1)
}

func (s *Server) clearDefaultRange() {
	s.rangeMu.Lock()
	s.useDefaultRange = false
	s.rangeMu.Unlock()
}

func daysInMonth(d core.Date) int {
	first := core.NewDate(d.Year(), int(d.Month()), 1)
	return first.AddDate(0, 1, -1).Day()
}

// Shutdown gracefully shuts down the server and cleanup routines
func (s *Server) Shutdown(ctx context.Context) error {
	var shutdownErr error
	s.shutdownOnce.Do(func() {
		s.cacheManager.Stop()
		if s.rateLimiter != nil {
			s.rateLimiter.stop()
		}
		shutdownErr = s.Server.Shutdown(ctx)
	})
	return shutdownErr
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func handleReady(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ready"))
}
