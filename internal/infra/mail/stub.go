package mail

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/logger"
)

// StubTransport never delivers. It logs the intended send and returns a
// synthetic message id.
type StubTransport struct {
	log *zap.Logger
	now func() time.Time
}

func NewStubTransport(log *zap.Logger) *StubTransport {
	return &StubTransport{log: log, now: time.Now}
}

func (s *StubTransport) Kind() TransportKind { return KindStub }

func (s *StubTransport) From() string { return "" }

func (s *StubTransport) Send(_ context.Context, msg Message) (SendResult, error) {
	s.log.Info("stub transport: email not delivered",
		zap.String("to", logger.RedactEmail(msg.To)),
		zap.String("subject", msg.Subject),
		zap.Int("body_bytes", len(msg.HTML)),
	)
	return SendResult{MessageID: fmt.Sprintf("stub-%d", s.now().UnixMilli())}, nil
}
