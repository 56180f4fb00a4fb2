package mail

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gopkg.in/gomail.v2"

	"github.com/xavierca1/lead-outreach/internal/infra/integration/ethereal"
)

type dialer interface {
	DialAndSend(m ...*gomail.Message) error
}

// SMTPTransport sends through a gomail dialer. The same type backs both the
// configured relay and the disposable test account.
type SMTPTransport struct {
	settings    SMTPSettings
	kind        TransportKind
	previewBase string
	dialer      dialer
}

func NewSMTPTransport(settings SMTPSettings) *SMTPTransport {
	if settings.Port == 0 {
		settings.Port = 587
	}
	return &SMTPTransport{
		settings: settings,
		kind:     KindSMTP,
		dialer:   gomail.NewDialer(settings.Host, settings.Port, settings.User, settings.Password),
	}
}

func NewTestAccountTransport(account *ethereal.Account) *SMTPTransport {
	t := NewSMTPTransport(SMTPSettings{
		Host:     account.SMTP.Host,
		Port:     account.SMTP.Port,
		User:     account.User,
		Password: account.Pass,
	})
	t.kind = KindTest
	t.previewBase = strings.TrimRight(account.Web, "/")
	return t
}

func (t *SMTPTransport) Kind() TransportKind { return t.kind }

func (t *SMTPTransport) From() string { return t.settings.User }

func (t *SMTPTransport) Send(ctx context.Context, msg Message) (SendResult, error) {
	if err := ctx.Err(); err != nil {
		return SendResult{}, err
	}

	messageID := fmt.Sprintf("<%s@%s>", uuid.New().String(), domainOf(msg.From))

	m := gomail.NewMessage()
	m.SetHeader("From", msg.From)
	m.SetHeader("To", msg.To)
	m.SetHeader("Subject", msg.Subject)
	m.SetHeader("Message-ID", messageID)
	m.SetBody("text/html", msg.HTML)

	if err := t.dialer.DialAndSend(m); err != nil {
		return SendResult{}, fmt.Errorf("smtp send to %s:%d: %w", t.settings.Host, t.settings.Port, err)
	}

	result := SendResult{MessageID: messageID}
	if t.kind == KindTest && t.previewBase != "" {
		result.PreviewURL = t.previewBase + "/messages"
	}
	return result, nil
}

func domainOf(addr string) string {
	if at := strings.LastIndex(addr, "@"); at >= 0 && at < len(addr)-1 {
		return strings.Trim(addr[at+1:], "> ")
	}
	return "localhost"
}
