package usecase

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/mail"
)

const maxCampaignLeads = 1000

type SendCampaignUseCase struct {
	Leads        entity.LeadRepositoryInterface
	Templates    entity.TemplateRepositoryInterface
	Sender       EmailSender
	Personalizer Personalizer
	Log          *zap.Logger
}

func NewSendCampaignUseCase(
	leads entity.LeadRepositoryInterface,
	templates entity.TemplateRepositoryInterface,
	sender EmailSender,
	personalizer Personalizer,
	log *zap.Logger,
) *SendCampaignUseCase {
	return &SendCampaignUseCase{
		Leads:        leads,
		Templates:    templates,
		Sender:       sender,
		Personalizer: personalizer,
		Log:          log,
	}
}

// Execute sends one message per selected lead, one at a time. A failure for
// one lead is recorded and the loop moves on.
func (uc *SendCampaignUseCase) Execute(ctx context.Context, input CampaignInput) (*CampaignResult, error) {
	var tpl *entity.EmailTemplate
	if input.TemplateID != nil && *input.TemplateID != "" {
		t, err := uc.Templates.FindByID(ctx, input.OwnerID, *input.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("find template %s: %w", *input.TemplateID, err)
		}
		tpl = t
	}

	leads, err := uc.selectLeads(ctx, input)
	if err != nil {
		return nil, err
	}
	if len(leads) == 0 {
		return nil, ErrNoLeadsFound
	}

	subject, body := input.Subject, ""
	if input.BodyOverride != "" {
		parsedSubject, parsedBody := mail.ParseSubject(input.BodyOverride)
		if parsedSubject != nil {
			subject = *parsedSubject
		}
		body = parsedBody
	}
	if subject == "" && tpl != nil {
		subject = tpl.Subject
	}
	if subject == "" {
		subject = defaultSubject
	}
	if body == "" && tpl != nil {
		body = tpl.Body
	}

	var templateID *string
	if tpl != nil {
		templateID = &tpl.ID
	}

	result := &CampaignResult{Errors: []CampaignError{}}
	for _, lead := range leads {
		if strings.TrimSpace(lead.Email) == "" {
			result.Failed++
			result.Errors = append(result.Errors, CampaignError{Lead: lead.ID, Message: "Missing email"})
			continue
		}

		vars := leadVars(lead)
		leadID := lead.ID
		_, err := uc.Sender.Execute(ctx, SendEmailInput{
			OwnerID:    input.OwnerID,
			To:         lead.Email,
			Subject:    uc.render(subject, vars),
			Body:       uc.render(body, vars),
			LeadID:     &leadID,
			TemplateID: templateID,
			BaseURL:    input.BaseURL,
		})
		if err != nil {
			result.Failed++
			result.Errors = append(result.Errors, CampaignError{Lead: lead.ID, Message: deliveryMessage(err)})
			continue
		}
		result.Sent++
	}

	uc.Log.Info("campaign processed",
		zap.String("owner_id", input.OwnerID),
		zap.Int("leads", len(leads)),
		zap.Int("sent", result.Sent),
		zap.Int("failed", result.Failed),
	)

	return result, nil
}

func (uc *SendCampaignUseCase) selectLeads(ctx context.Context, input CampaignInput) ([]*entity.Lead, error) {
	filter := entity.LeadFilter{OwnerID: input.OwnerID}

	if len(input.LeadIDs) > 0 {
		filter.IDs = input.LeadIDs
	} else {
		filter.Statuses = splitList(input.Filters.Status)
		filter.Sources = splitList(input.Filters.Source)
		filter.Query = strings.TrimSpace(input.Filters.Q)
		filter.Limit = maxCampaignLeads
	}

	leads, _, err := uc.Leads.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("select campaign leads: %w", err)
	}
	return leads, nil
}

func (uc *SendCampaignUseCase) render(text string, vars map[string]interface{}) string {
	if uc.Personalizer == nil {
		return text
	}
	return uc.Personalizer.Render(text, vars)
}

// splitList turns "a, b" into [a b], dropping blanks.
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
