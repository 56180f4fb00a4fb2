package usecase

import (
	"context"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/mail"
	"github.com/xavierca1/lead-outreach/internal/infra/queue"
)

type TransportResolver interface {
	Transport(ctx context.Context) mail.Transport
}

type EventPublisher interface {
	Publish(ctx context.Context, event queue.EmailEvent) error
}

type Personalizer interface {
	Render(text string, vars map[string]interface{}) string
}

type PasswordHasher interface {
	Hash(password string) (string, error)
	Check(password, hash string) bool
}

type TokenIssuer interface {
	Generate(userID string) (string, error)
}

type EmailSender interface {
	Execute(ctx context.Context, input SendEmailInput) (*entity.EmailHistory, error)
}
