package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/yannesss/finreport/internal/core"
	"github.com/yannesss/finreport/internal/export"
	"github.com/yannesss/finreport/internal/i18n"
	"github.com/yannesss/finreport/internal/ledger"
	"github.com/yannesss/finreport/internal/service"
	"github.com/yannesss/finreport/internal/smart"
)

const maxImportBytes = 10 << 20

// resolveFilterParams applies the server default month range when the
// request names no explicit dates.
func (s *Server) resolveFilterParams(r *http.Request) (ledger.FilterParams, error) {
	p, err := parseFilterParams(r)
	if err != nil {
		return ledger.FilterParams{}, err
	}
	q := r.URL.Query()
	if !q.Has("start") && !q.Has("end") {
		p.Start, p.End = s.defaultRange()
	}
	return p, nil
}

func (s *Server) handleView(w http.ResponseWriter, r *http.Request) {
	p, err := s.resolveFilterParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}
	lang := s.requestLang(r)

	key := s.viewCacheKey(p, lang)
	if view, ok := s.viewCache.Get(key); ok {
		writeJSON(w, r, http.StatusOK, view)
		return
	}

	view := s.svc.View(p, i18n.For(lang).Others)
	s.viewCache.Set(key, view)
	writeJSON(w, r, http.StatusOK, view)
}

// The language is part of the key because the chart bucket label is
// localized.
func (s *Server) viewCacheKey(p ledger.FilterParams, lang i18n.Lang) string {
	return fmt.Sprintf("%d|%s|%s|%s|%s|%s",
		s.svc.Revision(), p.Start, p.End,
		strings.ToLower(strings.TrimSpace(p.Search)), p.Sort, lang)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, core.SuggestedCategories)
}

type createTransactionRequest struct {
	Date        string  `json:"date"`
	Category    string  `json:"category"`
	Description string  `json:"description"`
	Income      float64 `json:"income"`
	Expense     float64 `json:"expense"`
}

func (s *Server) handleCreateTransaction(w http.ResponseWriter, r *http.Request) {
	var req createTransactionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}

	tx := core.Transaction{
		Date:        core.Today(),
		Category:    strings.TrimSpace(req.Category),
		Description: strings.TrimSpace(req.Description),
		Income:      req.Income,
		Expense:     req.Expense,
	}
	if v := strings.TrimSpace(req.Date); v != "" {
		d, err := core.ParseDate(v)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		tx.Date = d
	}

	created, err := s.svc.Add(r.Context(), tx)
	if err != nil {
		if errors.Is(err, core.ErrBothSides) || errors.Is(err, core.ErrNoAmount) ||
			errors.Is(err, core.ErrEmptyCategory) || errors.Is(err, core.ErrNegativeAmount) {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		slog.ErrorContext(r.Context(), "Failed to create transaction", "error", err)
		writeError(w, r, http.StatusInternalServerError, "could not save transaction")
		return
	}

	writeJSON(w, r, http.StatusCreated, created)
}

func (s *Server) handleDeleteTransaction(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if err := s.svc.Delete(r.Context(), id); err != nil {
		if errors.Is(err, service.ErrNotFound) {
			writeError(w, r, http.StatusNotFound, "transaction not found")
			return
		}
		slog.ErrorContext(r.Context(), "Failed to delete transaction", "error", err, "id", id)
		writeError(w, r, http.StatusInternalServerError, "could not delete transaction")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type parseRequest struct {
	Text string `json:"text"`
}

func (s *Server) handleParse(w http.ResponseWriter, r *http.Request) {
	labels := i18n.For(s.requestLang(r))

	var req parseRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if strings.TrimSpace(req.Text) == "" {
		writeError(w, r, http.StatusUnprocessableEntity, labels.ErrSmartEntry)
		return
	}

	draft, err := s.parser.Parse(r.Context(), req.Text)
	if err != nil {
		if errors.Is(err, smart.ErrNoAmount) || errors.Is(err, smart.ErrUnavailable) {
			slog.InfoContext(r.Context(), "Smart entry rejected input", "error", err)
			writeError(w, r, http.StatusUnprocessableEntity, labels.ErrSmartEntry)
			return
		}
		slog.ErrorContext(r.Context(), "Smart entry failed", "error", err)
		writeError(w, r, http.StatusInternalServerError, "parse failed")
		return
	}

	writeJSON(w, r, http.StatusOK, draft)
}

func (s *Server) handleExportJSON(w http.ResponseWriter, r *http.Request) {
	data, err := export.JSON(s.svc.Snapshot())
	if err != nil {
		slog.ErrorContext(r.Context(), "Failed to export JSON", "error", err)
		writeError(w, r, http.StatusInternalServerError, "export failed")
		return
	}

	filename := fmt.Sprintf("finreport-backup-%s.json", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	p, err := s.resolveFilterParams(r)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	lang := s.requestLang(r)
	rows := s.svc.View(p, i18n.For(lang).Others).Transactions
	data := export.CSV(rows, lang)

	filename := fmt.Sprintf("finreport-%s.csv", time.Now().Format("2006-01-02"))
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	_, _ = w.Write(data)
}

func (s *Server) handleImport(w http.ResponseWriter, r *http.Request) {
	labels := i18n.For(s.requestLang(r))

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxImportBytes))
	if err != nil {
		writeError(w, r, http.StatusBadRequest, labels.ErrImport)
		return
	}

	list, err := export.ImportJSON(body)
	if err != nil {
		slog.InfoContext(r.Context(), "Import rejected", "error", err)
		writeError(w, r, http.StatusBadRequest, labels.ErrImport)
		return
	}

	if err := s.svc.ReplaceAll(r.Context(), list); err != nil {
		slog.ErrorContext(r.Context(), "Failed to import transactions", "error", err)
		writeError(w, r, http.StatusInternalServerError, "import failed")
		return
	}

	// A restored backup replaces the session: drop the month default and any
	// memoized views so the full dataset is visible immediately.
	s.clearDefaultRange()
	s.viewCache.Purge()

	writeJSON(w, r, http.StatusOK, map[string]any{
		"message": labels.ImportOK,
		"count":   len(list),
	})
}
