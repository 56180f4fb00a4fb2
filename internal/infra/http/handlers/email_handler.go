package handlers

import (
	"encoding/csv"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type EmailHandler struct {
	Send     *usecase.SendEmailUseCase
	Campaign *usecase.SendCampaignUseCase
	History  *usecase.ListHistoryUseCase
	Log      *zap.Logger
}

func NewEmailHandler(send *usecase.SendEmailUseCase, campaign *usecase.SendCampaignUseCase, history *usecase.ListHistoryUseCase, log *zap.Logger) *EmailHandler {
	return &EmailHandler{Send: send, Campaign: campaign, History: history, Log: log}
}

type CampaignResponse struct {
	Message string                  `json:"message"`
	Results *usecase.CampaignResult `json:"results"`
}

func (h *EmailHandler) SendOne(w http.ResponseWriter, r *http.Request) {
	var input usecase.SendOneInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.OwnerID = middleware.UserID(r.Context())
	input.BaseURL = requestBaseURL(r)

	out, err := h.Send.SendOne(r.Context(), input)
	if err != nil {
		if usecase.IsTechnicalError(err) {
			middleware.RecordEmailSent(entity.EmailStatusFailed)
		}
		writeError(w, h.Log, err)
		return
	}

	middleware.RecordEmailSent(entity.EmailStatusSent)
	writeJSON(w, http.StatusOK, out)
}

func (h *EmailHandler) SendCampaign(w http.ResponseWriter, r *http.Request) {
	var input usecase.CampaignInput
	if !decodeJSON(w, r, &input) {
		return
	}
	input.OwnerID = middleware.UserID(r.Context())
	input.BaseURL = requestBaseURL(r)

	result, err := h.Campaign.Execute(r.Context(), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	middleware.RecordCampaign(result.Sent, result.Failed)
	writeJSON(w, http.StatusOK, CampaignResponse{Message: "Campaign processed", Results: result})
}

func (h *EmailHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	out, err := h.History.Execute(r.Context(), usecase.ListHistoryInput{
		OwnerID: middleware.UserID(r.Context()),
		LeadID:  q.Get("leadId"),
		Status:  q.Get("status"),
		Page:    atoiDefault(q.Get("page"), 1),
		Limit:   atoiDefault(q.Get("limit"), 0),
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *EmailHandler) ExportHistory(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	records, err := h.History.Export(r.Context(), usecase.ListHistoryInput{
		OwnerID: middleware.UserID(r.Context()),
		LeadID:  q.Get("leadId"),
		Status:  q.Get("status"),
	})
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", `attachment; filename="email-history.csv"`)
	w.WriteHeader(http.StatusOK)

	cw := csv.NewWriter(w)
	cw.Write([]string{"id", "lead", "to", "subject", "status", "createdAt", "openedAt", "clickedAt"})
	for _, rec := range records {
		lead := ""
		if rec.LeadID != nil {
			lead = *rec.LeadID
		}
		cw.Write([]string{
			rec.ID, lead, rec.To, rec.Subject, rec.Status,
			rec.CreatedAt.UTC().Format(time.RFC3339), formatTime(rec.OpenedAt), formatTime(rec.ClickedAt),
		})
	}
	cw.Flush()
	if err := cw.Error(); err != nil {
		h.Log.Warn("history export: write failed", zap.Error(err))
	}
}

// requestBaseURL is the origin the client reached us on, used for tracking
// links.
func requestBaseURL(r *http.Request) string {
	if r.Host == "" {
		return ""
	}

	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
		scheme = strings.TrimSpace(strings.Split(proto, ",")[0])
	}

	return scheme + "://" + r.Host
}
