package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/mail"
	"github.com/xavierca1/lead-outreach/internal/infra/queue"
)

type sendFixture struct {
	uc        *SendEmailUseCase
	history   *MockHistoryRepo
	leads     *MockLeadRepo
	templates *MockTemplateRepo
	transport *MockTransport
	events    *MockPublisher
}

func newSendFixture() *sendFixture {
	f := &sendFixture{
		history:   new(MockHistoryRepo),
		leads:     new(MockLeadRepo),
		templates: new(MockTemplateRepo),
		transport: &MockTransport{kind: mail.KindTest, from: "bot@ethereal.email"},
		events:    new(MockPublisher),
	}
	f.uc = NewSendEmailUseCase(f.history, f.leads, f.templates, staticResolver{f.transport}, f.events,
		mail.NewPersonalizer(zap.NewNop()), zap.NewNop(), "", "https://api.example.com", "5000")
	f.uc.now = func() time.Time { return fixedNow }
	f.uc.newTrackID = func() string { return "track-1" }
	return f
}

func TestSendEmailRecordsBeforeSending(t *testing.T) {
	f := newSendFixture()
	leadID := "lead-1"
	created := false

	f.history.On("Create", mock.Anything, mock.MatchedBy(func(h *entity.EmailHistory) bool {
		return h.Status == entity.EmailStatusSent && h.MessageID == "" && h.TrackID == "track-1"
	})).Run(func(mock.Arguments) { created = true }).Return(nil)

	f.transport.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return m.From == "bot@ethereal.email" && m.To == "ana@acme.com"
	})).Run(func(mock.Arguments) {
		assert.True(t, created, "history must exist before the transport is called")
	}).Return(mail.SendResult{MessageID: "<m-1@acme>", PreviewURL: "https://ethereal.email/messages"}, nil)

	f.history.On("Update", mock.Anything, mock.MatchedBy(func(h *entity.EmailHistory) bool {
		return h.Status == entity.EmailStatusSent && h.MessageID == "<m-1@acme>"
	})).Return(nil)
	f.leads.On("TouchLastEmailSent", mock.Anything, "owner-1", "lead-1", fixedNow).Return(nil)
	f.events.On("Publish", mock.Anything, mock.MatchedBy(func(e queue.EmailEvent) bool {
		return e.Type == queue.EventSent && e.LeadID == "lead-1" && e.TrackID == "track-1"
	})).Return(nil)

	record, err := f.uc.Execute(context.Background(), SendEmailInput{
		OwnerID: "owner-1",
		To:      "ana@acme.com",
		Subject: "Hello",
		Body:    `<p>See <a href="https://acme.com/pricing">pricing</a></p>`,
		LeadID:  &leadID,
	})
	require.NoError(t, err)

	assert.Equal(t, "https://ethereal.email/messages", record.PreviewURL)
	assert.Contains(t, record.Body, `href="https://api.example.com/track/click?hid=track-1&url=https%3A%2F%2Facme.com%2Fpricing"`)
	assert.Contains(t, record.Body, "https://api.example.com/track/open?hid=track-1")

	f.history.AssertExpectations(t)
	f.transport.AssertExpectations(t)
	f.leads.AssertExpectations(t)
	f.events.AssertExpectations(t)
}

func TestSendEmailMarksFailedAndReturnsWrappedError(t *testing.T) {
	f := newSendFixture()
	sendErr := errors.New("connection refused")
	leadID := "lead-1"

	f.history.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.transport.On("Send", mock.Anything, mock.Anything).Return(mail.SendResult{}, sendErr)
	f.history.On("Update", mock.Anything, mock.MatchedBy(func(h *entity.EmailHistory) bool {
		return h.Status == entity.EmailStatusFailed && h.Error == "connection refused"
	})).Return(nil)
	f.events.On("Publish", mock.Anything, mock.MatchedBy(func(e queue.EmailEvent) bool {
		return e.Type == queue.EventFailed
	})).Return(nil)

	record, err := f.uc.Execute(context.Background(), SendEmailInput{OwnerID: "owner-1", To: "ana@acme.com", Subject: "x", LeadID: &leadID})
	require.Error(t, err)

	assert.True(t, IsTechnicalError(err))
	assert.ErrorIs(t, err, sendErr)
	assert.Equal(t, entity.EmailStatusFailed, record.Status)
	f.leads.AssertNotCalled(t, "TouchLastEmailSent", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	f.history.AssertExpectations(t)
}

func TestSendEmailFinalizesAfterCallerCancels(t *testing.T) {
	f := newSendFixture()
	ctx, cancel := context.WithCancel(context.Background())

	f.history.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.transport.On("Send", mock.Anything, mock.Anything).
		Run(func(mock.Arguments) { cancel() }).
		Return(mail.SendResult{MessageID: "<m@x>"}, nil)
	f.history.On("Update", mock.MatchedBy(func(c context.Context) bool { return c.Err() == nil }), mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.Execute(ctx, SendEmailInput{OwnerID: "owner-1", To: "ana@acme.com", Subject: "x"})
	require.NoError(t, err)
	f.history.AssertExpectations(t)
}

func TestSendEmailDoesNotSendWhenRecordFails(t *testing.T) {
	f := newSendFixture()
	f.history.On("Create", mock.Anything, mock.Anything).Return(errors.New("db down"))

	_, err := f.uc.Execute(context.Background(), SendEmailInput{OwnerID: "owner-1", To: "ana@acme.com"})
	require.Error(t, err)
	f.transport.AssertNotCalled(t, "Send", mock.Anything, mock.Anything)
}

func TestSendEmailIgnoresPublishFailure(t *testing.T) {
	f := newSendFixture()
	f.history.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.transport.On("Send", mock.Anything, mock.Anything).Return(mail.SendResult{MessageID: "<m@x>"}, nil)
	f.history.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(errors.New("broker down"))

	_, err := f.uc.Execute(context.Background(), SendEmailInput{OwnerID: "owner-1", To: "ana@acme.com"})
	assert.NoError(t, err)
}

func TestSendEmailSenderAddress(t *testing.T) {
	cases := []struct {
		name          string
		configured    string
		transportFrom string
		want          string
	}{
		{"configured wins", "sales@acme.com", "bot@ethereal.email", "sales@acme.com"},
		{"transport account", "", "bot@ethereal.email", "bot@ethereal.email"},
		{"fallback", "", "", mail.DefaultFrom},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			f := newSendFixture()
			f.uc.From = tc.configured
			f.transport.from = tc.transportFrom

			f.history.On("Create", mock.Anything, mock.Anything).Return(nil)
			f.transport.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool { return m.From == tc.want })).
				Return(mail.SendResult{}, nil)
			f.history.On("Update", mock.Anything, mock.Anything).Return(nil)
			f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

			_, err := f.uc.Execute(context.Background(), SendEmailInput{OwnerID: "o", To: "a@b.com"})
			require.NoError(t, err)
			f.transport.AssertExpectations(t)
		})
	}
}

func TestSendOnePersonalisesTemplateForLead(t *testing.T) {
	f := newSendFixture()
	lead := &entity.Lead{ID: "lead-1", OwnerID: "owner-1", Name: "Ana", Company: "Acme", Email: "ana@acme.com"}
	tpl := &entity.EmailTemplate{ID: "tpl-1", OwnerID: "owner-1", Subject: "Hi {{name}}", Body: "<p>Hello {{company}}</p>"}

	f.leads.On("FindByID", mock.Anything, "owner-1", "lead-1").Return(lead, nil)
	f.templates.On("FindByID", mock.Anything, "owner-1", "tpl-1").Return(tpl, nil)
	f.history.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.transport.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return m.To == "ana@acme.com" && m.Subject == "Hi Ana" && strings.HasPrefix(m.HTML, "<p>Hello Acme</p>")
	})).Return(mail.SendResult{MessageID: "<m@x>"}, nil)
	f.history.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.leads.On("TouchLastEmailSent", mock.Anything, "owner-1", "lead-1", mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	out, err := f.uc.SendOne(context.Background(), SendOneInput{
		OwnerID:    "owner-1",
		LeadID:     strPtr("lead-1"),
		TemplateID: strPtr("tpl-1"),
		Subject:    "ignored when a template is used",
	})
	require.NoError(t, err)

	assert.Equal(t, "Hi Ana", out.Subject)
	assert.Equal(t, entity.EmailStatusSent, out.Status)
	f.transport.AssertExpectations(t)
}

func TestSendOneOverrideBodySubjectLine(t *testing.T) {
	f := newSendFixture()

	f.history.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.transport.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return m.Subject == "Quick question" && strings.HasPrefix(m.HTML, "Hello there")
	})).Return(mail.SendResult{}, nil)
	f.history.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.SendOne(context.Background(), SendOneInput{
		OwnerID:      "owner-1",
		To:           "bob@example.com",
		Subject:      "Original",
		OverrideBody: "Subject: Quick question\nHello there",
	})
	require.NoError(t, err)
	f.transport.AssertExpectations(t)
}

func TestSendOneDefaultsSubject(t *testing.T) {
	f := newSendFixture()

	f.history.On("Create", mock.Anything, mock.Anything).Return(nil)
	f.transport.On("Send", mock.Anything, mock.MatchedBy(func(m mail.Message) bool {
		return m.Subject == "No Subject"
	})).Return(mail.SendResult{}, nil)
	f.history.On("Update", mock.Anything, mock.Anything).Return(nil)
	f.events.On("Publish", mock.Anything, mock.Anything).Return(nil)

	_, err := f.uc.SendOne(context.Background(), SendOneInput{OwnerID: "owner-1", To: "bob@example.com", Body: "hi"})
	require.NoError(t, err)
	f.transport.AssertExpectations(t)
}

func TestSendOneWithoutRecipient(t *testing.T) {
	f := newSendFixture()
	f.leads.On("FindByID", mock.Anything, "owner-1", "lead-1").Return(&entity.Lead{ID: "lead-1", Name: "Ana"}, nil)

	_, err := f.uc.SendOne(context.Background(), SendOneInput{OwnerID: "owner-1", LeadID: strPtr("lead-1")})
	assert.ErrorIs(t, err, ErrNoRecipient)
	f.history.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestSendOneUnknownLead(t *testing.T) {
	f := newSendFixture()
	f.leads.On("FindByID", mock.Anything, "owner-1", "nope").Return(nil, entity.ErrNotFound)

	_, err := f.uc.SendOne(context.Background(), SendOneInput{OwnerID: "owner-1", LeadID: strPtr("nope"), To: "a@b.com"})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}
