package http

import (
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yannesss/finreport/internal/core"
	"github.com/yannesss/finreport/internal/i18n"
	"github.com/yannesss/finreport/internal/ledger"
)

// clientIP extracts the client address, honoring proxy headers.
func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Forwarded-For"); ip != "" {
		return ip
	}
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}
	return r.RemoteAddr
}

// generateRequestID creates a unique request ID for tracing.
func generateRequestID() string {
	bytes := make([]byte, 8)
	if _, err := rand.Read(bytes); err != nil {
		return fmt.Sprintf("req_%d", time.Now().UnixNano())
	}
	return "req_" + hex.EncodeToString(bytes)
}

// parseFilterParams reads the view parameters from the query string. Bad
// dates surface as errors rather than being silently dropped.
func parseFilterParams(r *http.Request) (ledger.FilterParams, error) {
	var p ledger.FilterParams

	q := r.URL.Query()
	if v := strings.TrimSpace(q.Get("start")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return p, fmt.Errorf("start: %w", err)
		}
		p.Start = d
	}
	if v := strings.TrimSpace(q.Get("end")); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			return p, fmt.Errorf("end: %w", err)
		}
		p.End = d
	}
	p.Search = q.Get("q")
	if v := q.Get("sort"); v == string(ledger.SortAsc) {
		p.Sort = ledger.SortAsc
	} else {
		p.Sort = ledger.SortDesc
	}

	return p, nil
}

// requestLang picks the response language from the query string, falling
// back to the server default.
func (s *Server) requestLang(r *http.Request) i18n.Lang {
	if l := i18n.Lang(r.URL.Query().Get("lang")); l.IsValid() {
		return l
	}
	return s.defaultLang
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.ErrorContext(r.Context(), "Failed to encode response", "error", err, "url", r.URL.Path)
	}
}

func writeError(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, map[string]string{"error": msg})
}
