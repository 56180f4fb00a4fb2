package entity

import (
	"context"
	"time"

	"github.com/google/uuid"
)

const (
	EmailStatusSent    = "sent"
	EmailStatusFailed  = "failed"
	EmailStatusOpened  = "opened"
	EmailStatusClicked = "clicked"
)

// EmailHistory is the delivery record of a single send. TrackID is generated
// once and is the only key the tracking endpoints accept.
type EmailHistory struct {
	ID         string     `json:"id"`
	OwnerID    string     `json:"createdBy"`
	LeadID     *string    `json:"lead"`
	TemplateID *string    `json:"template"`
	To         string     `json:"to"`
	Subject    string     `json:"subject"`
	Body       string     `json:"body"`
	Status     string     `json:"status"`
	MessageID  string     `json:"messageId,omitempty"`
	TrackID    string     `json:"trackId"`
	OpenedAt   *time.Time `json:"openedAt"`
	ClickedAt  *time.Time `json:"clickedAt"`
	PreviewURL string     `json:"previewUrl,omitempty"`
	Error      string     `json:"error,omitempty"`
	CreatedAt  time.Time  `json:"createdAt"`
	UpdatedAt  time.Time  `json:"updatedAt"`
}

type HistoryFilter struct {
	OwnerID string
	LeadID  string
	Status  string
	Limit   int
	Offset  int
}

type EmailTotals struct {
	Total   int `json:"total"`
	Opened  int `json:"opened"`
	Clicked int `json:"clicked"`
}

type EmailHistoryRepositoryInterface interface {
	Create(ctx context.Context, h *EmailHistory) error
	Update(ctx context.Context, h *EmailHistory) error
	FindByTrackID(ctx context.Context, trackID string) (*EmailHistory, error)
	List(ctx context.Context, filter HistoryFilter) ([]*EmailHistory, int, error)
	CountPerDay(ctx context.Context, ownerID string, since time.Time) (map[string]int, error)
	Totals(ctx context.Context, ownerID string) (EmailTotals, error)
}

func NewEmailHistory(ownerID, to, subject, body string, leadID, templateID *string, trackID string) *EmailHistory {
	now := time.Now().UTC()
	return &EmailHistory{
		ID:         uuid.New().String(),
		OwnerID:    ownerID,
		LeadID:     leadID,
		TemplateID: templateID,
		To:         to,
		Subject:    subject,
		Body:       body,
		Status:     EmailStatusSent,
		TrackID:    trackID,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func (h *EmailHistory) MarkSent(messageID, previewURL string, at time.Time) {
	h.Status = EmailStatusSent
	h.MessageID = messageID
	h.PreviewURL = previewURL
	h.Error = ""
	h.UpdatedAt = at
}

func (h *EmailHistory) MarkFailed(reason string, at time.Time) {
	h.Status = EmailStatusFailed
	h.Error = reason
	h.UpdatedAt = at
}

// MarkOpened reports whether anything changed. A clicked record keeps its
// status and a failed one is never touched.
func (h *EmailHistory) MarkOpened(at time.Time) bool {
	if h.Status == EmailStatusFailed || h.OpenedAt != nil {
		return false
	}

	h.OpenedAt = &at
	if h.Status != EmailStatusClicked {
		h.Status = EmailStatusOpened
	}
	h.UpdatedAt = at
	return true
}

// MarkClicked keeps the first ClickedAt and backfills OpenedAt. It reports
// whether this was the first click.
func (h *EmailHistory) MarkClicked(at time.Time) bool {
	if h.Status == EmailStatusFailed {
		return false
	}

	first := h.ClickedAt == nil
	h.Status = EmailStatusClicked
	if first {
		h.ClickedAt = &at
	}
	if h.OpenedAt == nil {
		h.OpenedAt = &at
	}
	h.UpdatedAt = at
	return first
}
