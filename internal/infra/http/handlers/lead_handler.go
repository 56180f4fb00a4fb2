package handlers

import (
	"encoding/csv"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type LeadHandler struct {
	UseCase *usecase.ManageLeadsUseCase
	Log     *zap.Logger
}

func NewLeadHandler(uc *usecase.ManageLeadsUseCase, log *zap.Logger) *LeadHandler {
	return &LeadHandler{UseCase: uc, Log: log}
}

func (h *LeadHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.UseCase.Create(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) Get(w http.ResponseWriter, r *http.Request) {
	lead, err := h.UseCase.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.LeadInput
	if !decodeJSON(w, r, &input) {
		return
	}

	lead, err := h.UseCase.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UseCase.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Lead removed"})
}

func (h *LeadHandler) List(w http.ResponseWriter, r *http.Request) {
	input, ok := h.listInput(w, r)
	if !ok {
		return
	}

	out, err := h.UseCase.List(r.Context(), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

// Export streams the filtered leads as CSV, or JSON with format=json.
func (h *LeadHandler) Export(w http.ResponseWriter, r *http.Request) {
	input, ok := h.listInput(w, r)
	if !ok {
		return
	}

	leads, err := h.UseCase.Export(r.Context(), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	if r.URL.Query().Get("format") == "json" {
		w.Header().Set("Content-Disposition", `attachment; filename="leads.json"`)
		writeJSON(w, http.StatusOK, leads)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="leads.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "name", "company", "email", "source", "status", "notes", "createdAt", "lastEmailSentAt"})
	for _, l := range leads {
		cw.Write([]string{
			l.ID, l.Name, l.Company, l.Email, l.Source, l.Status, l.Notes,
			l.CreatedAt.Format(time.RFC3339), formatTime(l.LastEmailSentAt),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("lead export: write failed", zap.Error(err))
	}
}

func (h *LeadHandler) listInput(w http.ResponseWriter, r *http.Request) (usecase.ListLeadsInput, bool) {
	q := r.URL.Query()

	input := usecase.ListLeadsInput{
		OwnerID:   middleware.UserID(r.Context()),
		Statuses:  splitParam(q.Get("status")),
		Sources:   splitParam(q.Get("source")),
		Query:     strings.TrimSpace(q.Get("q")),
		SortBy:    q.Get("sortBy"),
		SortOrder: q.Get("sortOrder"),
		Page:      atoiDefault(q.Get("page"), 1),
		Limit:     atoiDefault(q.Get("limit"), 0),
	}

	for _, s := range input.Statuses {
		if !entity.IsValidLeadStatus(s) {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILTER", fmt.Sprintf("invalid status %q", s))
			return input, false
		}
	}
	for _, s := range input.Sources {
		if !entity.IsValidLeadSource(s) {
			writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILTER", fmt.Sprintf("invalid source %q", s))
			return input, false
		}
	}

	var err error
	if input.LastEmailBefore, err = parseTimeParam(q.Get("lastEmailBefore")); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILTER", "lastEmailBefore must be a date")
		return input, false
	}
	if input.LastEmailAfter, err = parseTimeParam(q.Get("lastEmailAfter")); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_FILTER", "lastEmailAfter must be a date")
		return input, false
	}

	return input, true
}

func splitParam(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func atoiDefault(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

// parseTimeParam accepts RFC 3339 or a bare YYYY-MM-DD date.
func parseTimeParam(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

func formatTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}
