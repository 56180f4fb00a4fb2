package entity

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
)

type EmailTemplate struct {
	ID        string    `json:"id"`
	OwnerID   string    `json:"createdBy"`
	Name      string    `json:"name"`
	Subject   string    `json:"subject"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type TemplateRepositoryInterface interface {
	Create(ctx context.Context, t *EmailTemplate) error
	FindByID(ctx context.Context, ownerID, id string) (*EmailTemplate, error)
	Update(ctx context.Context, t *EmailTemplate) error
	Delete(ctx context.Context, ownerID, id string) error
	List(ctx context.Context, ownerID string) ([]*EmailTemplate, error)
}

func NewEmailTemplate(ownerID, name, subject, body string) (*EmailTemplate, error) {
	now := time.Now().UTC()
	t := &EmailTemplate{
		ID:        uuid.New().String(),
		OwnerID:   ownerID,
		Name:      strings.TrimSpace(name),
		Subject:   strings.TrimSpace(subject),
		Body:      body,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := t.Validate(); err != nil {
		return nil, err
	}

	return t, nil
}

func (t *EmailTemplate) Validate() error {
	if t.OwnerID == "" {
		return errors.New("owner is required")
	}
	if t.Name == "" {
		return errors.New("name is required")
	}
	if t.Subject == "" {
		return errors.New("subject is required")
	}
	if strings.TrimSpace(t.Body) == "" {
		return errors.New("body is required")
	}
	return nil
}
