package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/mail"
	"github.com/xavierca1/lead-outreach/internal/infra/queue"
	"github.com/xavierca1/lead-outreach/internal/logger"
)

const defaultSubject = "No Subject"

type SendEmailUseCase struct {
	History      entity.EmailHistoryRepositoryInterface
	Leads        entity.LeadRepositoryInterface
	Templates    entity.TemplateRepositoryInterface
	Resolver     TransportResolver
	Events       EventPublisher
	Personalizer Personalizer
	Log          *zap.Logger

	// From overrides the sender address. BackendURL and Port feed the
	// tracking base URL when the request carries none.
	From       string
	BackendURL string
	Port       string

	now        func() time.Time
	newTrackID func() string
}

func NewSendEmailUseCase(
	history entity.EmailHistoryRepositoryInterface,
	leads entity.LeadRepositoryInterface,
	templates entity.TemplateRepositoryInterface,
	resolver TransportResolver,
	events EventPublisher,
	personalizer Personalizer,
	log *zap.Logger,
	from, backendURL, port string,
) *SendEmailUseCase {
	return &SendEmailUseCase{
		History:      history,
		Leads:        leads,
		Templates:    templates,
		Resolver:     resolver,
		Events:       events,
		Personalizer: personalizer,
		Log:          log,
		From:         from,
		BackendURL:   backendURL,
		Port:         port,
		now:          func() time.Time { return time.Now().UTC() },
		newTrackID:   uuid.NewString,
	}
}

// Execute records, decorates and delivers one message. The history row is
// written before the transport is touched and always ends as sent or failed.
func (uc *SendEmailUseCase) Execute(ctx context.Context, input SendEmailInput) (*entity.EmailHistory, error) {
	baseURL := mail.ResolveBaseURL(input.BaseURL, uc.BackendURL, uc.Port)
	trackID := uc.newTrackID()
	body := mail.Decorate(input.Body, baseURL, trackID)

	record := entity.NewEmailHistory(input.OwnerID, input.To, input.Subject, body, input.LeadID, input.TemplateID, trackID)
	if err := uc.History.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("record email: %w", err)
	}

	transport := uc.Resolver.Transport(ctx)
	result, sendErr := transport.Send(ctx, mail.Message{
		From:    uc.sender(transport),
		To:      input.To,
		Subject: input.Subject,
		HTML:    body,
	})

	// The outcome is persisted even if the caller has gone away.
	finalizeCtx := context.WithoutCancel(ctx)
	if sendErr != nil {
		record.MarkFailed(sendErr.Error(), uc.now())
	} else {
		record.MarkSent(result.MessageID, result.PreviewURL, uc.now())
	}

	if err := uc.History.Update(finalizeCtx, record); err != nil {
		uc.Log.Error("send: failed to finalize history",
			zap.String("history_id", record.ID),
			zap.String("status", record.Status),
			zap.Error(err),
		)
	}

	if sendErr != nil {
		uc.Log.Warn("send: delivery failed",
			zap.String("to", logger.RedactEmail(input.To)),
			zap.String("transport", string(transport.Kind())),
			zap.Error(sendErr),
		)
		publish(finalizeCtx, uc.Events, uc.Log, queue.EventFailed, record, uc.now())
		return record, &TechnicalError{Code: "DELIVERY_FAILED", Message: "Failed to send email", Err: sendErr}
	}

	if input.LeadID != nil && *input.LeadID != "" {
		if err := uc.Leads.TouchLastEmailSent(finalizeCtx, input.OwnerID, *input.LeadID, record.UpdatedAt); err != nil {
			uc.Log.Warn("send: failed to update lead", zap.String("lead_id", *input.LeadID), zap.Error(err))
		}
	}

	uc.Log.Info("send: delivered",
		zap.String("history_id", record.ID),
		zap.String("to", logger.RedactEmail(input.To)),
		zap.String("transport", string(transport.Kind())),
	)
	publish(finalizeCtx, uc.Events, uc.Log, queue.EventSent, record, uc.now())

	return record, nil
}

// SendOne resolves recipient, subject and body from a lead, a template and
// the request, then delivers through Execute.
func (uc *SendEmailUseCase) SendOne(ctx context.Context, input SendOneInput) (*SendOneOutput, error) {
	var lead *entity.Lead
	if input.LeadID != nil && *input.LeadID != "" {
		l, err := uc.Leads.FindByID(ctx, input.OwnerID, *input.LeadID)
		if err != nil {
			return nil, fmt.Errorf("find lead %s: %w", *input.LeadID, err)
		}
		lead = l
	}

	var tpl *entity.EmailTemplate
	if input.TemplateID != nil && *input.TemplateID != "" {
		t, err := uc.Templates.FindByID(ctx, input.OwnerID, *input.TemplateID)
		if err != nil {
			return nil, fmt.Errorf("find template %s: %w", *input.TemplateID, err)
		}
		tpl = t
	}

	to := input.To
	if to == "" && lead != nil {
		to = lead.Email
	}
	if to == "" {
		return nil, ErrNoRecipient
	}

	subject := input.Subject
	if tpl != nil {
		subject = tpl.Subject
	}
	if subject == "" {
		subject = defaultSubject
	}

	body := input.Body
	if tpl != nil {
		body = tpl.Body
	}
	if input.OverrideBody != "" {
		parsedSubject, parsedBody := mail.ParseSubject(input.OverrideBody)
		if parsedSubject != nil {
			subject = *parsedSubject
		}
		body = parsedBody
	}

	if lead != nil {
		vars := leadVars(lead)
		subject = uc.render(subject, vars)
		body = uc.render(body, vars)
	}

	var leadID, templateID *string
	if lead != nil {
		leadID = &lead.ID
	}
	if tpl != nil {
		templateID = &tpl.ID
	}

	record, err := uc.Execute(ctx, SendEmailInput{
		OwnerID:    input.OwnerID,
		To:         to,
		Subject:    subject,
		Body:       body,
		LeadID:     leadID,
		TemplateID: templateID,
		BaseURL:    input.BaseURL,
	})
	if err != nil {
		return nil, err
	}

	return &SendOneOutput{
		ID:         record.ID,
		To:         record.To,
		Subject:    record.Subject,
		Status:     record.Status,
		CreatedAt:  record.CreatedAt,
		PreviewURL: record.PreviewURL,
	}, nil
}

func (uc *SendEmailUseCase) sender(t mail.Transport) string {
	if uc.From != "" {
		return uc.From
	}
	if from := t.From(); from != "" {
		return from
	}
	return mail.DefaultFrom
}

func (uc *SendEmailUseCase) render(text string, vars map[string]interface{}) string {
	if uc.Personalizer == nil {
		return text
	}
	return uc.Personalizer.Render(text, vars)
}

func leadVars(lead *entity.Lead) map[string]interface{} {
	return map[string]interface{}{
		"name":    lead.Name,
		"company": lead.Company,
		"email":   lead.Email,
		"status":  lead.Status,
		"source":  lead.Source,
	}
}

// publish is best-effort: a broker outage never fails the request.
func publish(ctx context.Context, events EventPublisher, log *zap.Logger, eventType string, h *entity.EmailHistory, at time.Time) {
	if events == nil {
		return
	}

	event := queue.EmailEvent{
		Type:       eventType,
		HistoryID:  h.ID,
		TrackID:    h.TrackID,
		OwnerID:    h.OwnerID,
		OccurredAt: at,
	}
	if h.LeadID != nil {
		event.LeadID = *h.LeadID
	}

	if err := events.Publish(ctx, event); err != nil {
		log.Warn("events: publish failed", zap.String("type", eventType), zap.Error(err))
	}
}

// deliveryMessage is the text reported for a failed campaign recipient.
func deliveryMessage(err error) string {
	var te *TechnicalError
	if errors.As(err, &te) && te.Err != nil {
		return te.Err.Error()
	}
	return err.Error()
}
