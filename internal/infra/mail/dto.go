package mail

import "context"

type TransportKind string

const (
	KindSMTP TransportKind = "smtp"
	KindTest TransportKind = "test"
	KindStub TransportKind = "stub"
)

const DefaultFrom = "no-reply@example.com"

type Message struct {
	From    string
	To      string
	Subject string
	HTML    string
}

type SendResult struct {
	MessageID  string
	PreviewURL string
}

type Transport interface {
	Send(ctx context.Context, msg Message) (SendResult, error)
	Kind() TransportKind
	// From is the account the transport authenticates as, if any.
	From() string
}

type SMTPSettings struct {
	Host     string
	Port     int
	User     string
	Password string
}

func (s SMTPSettings) Configured() bool {
	return s.Host != "" && s.User != "" && s.Password != ""
}
