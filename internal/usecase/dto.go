package usecase

import (
	"time"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type RegisterInput struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginInput struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type AuthOutput struct {
	Token string       `json:"token"`
	User  *entity.User `json:"user"`
}

type LeadInput struct {
	Name    string `json:"name"`
	Company string `json:"company"`
	Email   string `json:"email"`
	Source  string `json:"source"`
	Status  string `json:"status"`
	Notes   string `json:"notes"`
}

type ListLeadsInput struct {
	OwnerID         string
	Statuses        []string
	Sources         []string
	Query           string
	LastEmailBefore *time.Time
	LastEmailAfter  *time.Time
	SortBy          string
	SortOrder       string
	Page            int
	Limit           int
}

type Pagination struct {
	Total       int `json:"total"`
	Pages       int `json:"pages"`
	CurrentPage int `json:"currentPage"`
	Limit       int `json:"limit"`
}

type LeadStats struct {
	TotalLeads int            `json:"totalLeads"`
	ByStatus   map[string]int `json:"byStatus"`
}

type ListLeadsOutput struct {
	Leads      []*entity.Lead `json:"leads"`
	Pagination Pagination     `json:"pagination"`
	Stats      LeadStats      `json:"stats"`
}

type TemplateInput struct {
	Name    string `json:"name"`
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// SendEmailInput is one fully resolved message. BaseURL is the public origin
// of the tracking endpoints, empty to use the configured one.
type SendEmailInput struct {
	OwnerID    string
	To         string
	Subject    string
	Body       string
	LeadID     *string
	TemplateID *string
	BaseURL    string
}

// SendOneInput is the body of POST /api/email/send.
type SendOneInput struct {
	OwnerID      string  `json:"-"`
	BaseURL      string  `json:"-"`
	LeadID       *string `json:"leadId"`
	TemplateID   *string `json:"templateId"`
	To           string  `json:"to"`
	Subject      string  `json:"subject"`
	Body         string  `json:"body"`
	OverrideBody string  `json:"overrideBody"`
}

type SendOneOutput struct {
	ID         string    `json:"id"`
	To         string    `json:"to"`
	Subject    string    `json:"subject"`
	Status     string    `json:"status"`
	CreatedAt  time.Time `json:"createdAt"`
	PreviewURL string    `json:"previewUrl,omitempty"`
}

type CampaignFilters struct {
	Status string `json:"status"`
	Source string `json:"source"`
	Q      string `json:"q"`
}

type CampaignInput struct {
	OwnerID      string          `json:"-"`
	BaseURL      string          `json:"-"`
	TemplateID   *string         `json:"templateId"`
	LeadIDs      []string        `json:"leadIds"`
	Filters      CampaignFilters `json:"filters"`
	Subject      string          `json:"subject"`
	BodyOverride string          `json:"bodyOverride"`
}

type CampaignError struct {
	Lead    string `json:"lead"`
	Message string `json:"message"`
}

type CampaignResult struct {
	Sent   int             `json:"sent"`
	Failed int             `json:"failed"`
	Errors []CampaignError `json:"errors"`
}

type ListHistoryInput struct {
	OwnerID string
	LeadID  string
	Status  string
	Page    int
	Limit   int
}

type ListHistoryOutput struct {
	Data  []*entity.EmailHistory `json:"data"`
	Total int                    `json:"total"`
}

type StatsOutput struct {
	LeadsByStatus map[string]int     `json:"leadsByStatus"`
	TotalLeads    int                `json:"totalLeads"`
	EmailsPerDay  map[string]int     `json:"emailsPerDay"`
	Totals        entity.EmailTotals `json:"totals"`
}
