package entity

import (
	"context"
	"errors"
	"net/mail"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	LeadSourceLinkedIn = "LinkedIn"
	LeadSourceWebsite  = "Website"
	LeadSourceReferral = "Referral"
	LeadSourceOther    = "Other"
)

const (
	LeadStatusNew       = "New"
	LeadStatusContacted = "Contacted"
	LeadStatusQualified = "Qualified"
	LeadStatusConverted = "Converted"
	LeadStatusLost      = "Lost"
)

var (
	LeadSources  = []string{LeadSourceLinkedIn, LeadSourceWebsite, LeadSourceReferral, LeadSourceOther}
	LeadStatuses = []string{LeadStatusNew, LeadStatusContacted, LeadStatusQualified, LeadStatusConverted, LeadStatusLost}
)

type Lead struct {
	ID              string     `json:"id"`
	OwnerID         string     `json:"createdBy"`
	Name            string     `json:"name"`
	Company         string     `json:"company,omitempty"`
	Email           string     `json:"email"`
	Source          string     `json:"source"`
	Status          string     `json:"status"`
	Notes           string     `json:"notes,omitempty"`
	LastEmailSentAt *time.Time `json:"lastEmailSentAt"`
	CreatedAt       time.Time  `json:"createdAt"`
	UpdatedAt       time.Time  `json:"updatedAt"`
}

// LeadFilter is always scoped to a single owner.
type LeadFilter struct {
	OwnerID         string
	IDs             []string
	Statuses        []string
	Sources         []string
	Query           string
	SearchNotes     bool
	LastEmailBefore *time.Time
	LastEmailAfter  *time.Time
	SortBy          string
	SortOrder       string
	Limit           int
	Offset          int
}

type LeadRepositoryInterface interface {
	Create(ctx context.Context, lead *Lead) error
	FindByID(ctx context.Context, ownerID, id string) (*Lead, error)
	Update(ctx context.Context, lead *Lead) error
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, filter LeadFilter) ([]*Lead, int, error)
	CountByStatus(ctx context.Context, ownerID string) (map[string]int, error)
	TouchLastEmailSent(ctx context.Context, ownerID, id string, at time.Time) error
}

func NewLead(ownerID, name, company, email, source, status, notes string) (*Lead, error) {
	now := time.Now().UTC()
	lead := &Lead{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		Company:   strings.TrimSpace(company),
		Email:     strings.TrimSpace(email),
		Source:    source,
		Status:    status,
		Notes:     notes,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if lead.Source == "" {
		lead.Source = LeadSourceOther
	}
	if lead.Status == "" {
		lead.Status = LeadStatusNew
	}

	if err := lead.Validate(); err != nil {
		return nil, err
	}

	return lead, nil
}

func (l *Lead) Validate() error {
	if l.OwnerID == "" {
		return errors.New("owner is required")
	}
	if l.Name == "" {
		return errors.New("name is required")
	}
	if l.Email != "" {
		if _, err := mail.ParseAddress(l.Email); err != nil {
			return errors.New("email is invalid")
		}
	}
	if !IsValidLeadSource(l.Source) {
		return errors.New("source must be one of LinkedIn, Website, Referral, Other")
	}
	if !IsValidLeadStatus(l.Status) {
		return errors.New("status must be one of New, Contacted, Qualified, Converted, Lost")
	}
	return nil
}

func IsValidLeadSource(s string) bool {
	return contains(LeadSources, s)
}

func IsValidLeadStatus(s string) bool {
	return contains(LeadStatuses, s)
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
