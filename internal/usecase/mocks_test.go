package usecase

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/mail"
	"github.com/xavierca1/lead-outreach/internal/infra/queue"
)

type MockUserRepo struct{ mock.Mock }

func (m *MockUserRepo) Create(ctx context.Context, u *entity.User) error {
	return m.Called(ctx, u).Error(0)
}

func (m *MockUserRepo) FindByEmail(ctx context.Context, email string) (*entity.User, error) {
	args := m.Called(ctx, email)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

func (m *MockUserRepo) FindByID(ctx context.Context, id string) (*entity.User, error) {
	args := m.Called(ctx, id)
	u, _ := args.Get(0).(*entity.User)
	return u, args.Error(1)
}

type MockLeadRepo struct{ mock.Mock }

func (m *MockLeadRepo) Create(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepo) FindByID(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	args := m.Called(ctx, ownerID, id)
	l, _ := args.Get(0).(*entity.Lead)
	return l, args.Error(1)
}

func (m *MockLeadRepo) Update(ctx context.Context, lead *entity.Lead) error {
	return m.Called(ctx, lead).Error(0)
}

func (m *MockLeadRepo) Delete(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockLeadRepo) List(ctx context.Context, filter entity.LeadFilter) ([]*entity.Lead, int, error) {
	args := m.Called(ctx, filter)
	leads, _ := args.Get(0).([]*entity.Lead)
	return leads, args.Int(1), args.Error(2)
}

func (m *MockLeadRepo) CountByStatus(ctx context.Context, ownerID string) (map[string]int, error) {
	args := m.Called(ctx, ownerID)
	counts, _ := args.Get(0).(map[string]int)
	return counts, args.Error(1)
}

func (m *MockLeadRepo) TouchLastEmailSent(ctx context.Context, ownerID, id string, at time.Time) error {
	return m.Called(ctx, ownerID, id, at).Error(0)
}

type MockTemplateRepo struct{ mock.Mock }

func (m *MockTemplateRepo) Create(ctx context.Context, t *entity.EmailTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepo) FindByID(ctx context.Context, ownerID, id string) (*entity.EmailTemplate, error) {
	args := m.Called(ctx, ownerID, id)
	t, _ := args.Get(0).(*entity.EmailTemplate)
	return t, args.Error(1)
}

func (m *MockTemplateRepo) Update(ctx context.Context, t *entity.EmailTemplate) error {
	return m.Called(ctx, t).Error(0)
}

func (m *MockTemplateRepo) Delete(ctx context.Context, ownerID, id string) error {
	return m.Called(ctx, ownerID, id).Error(0)
}

func (m *MockTemplateRepo) List(ctx context.Context, ownerID string) ([]*entity.EmailTemplate, error) {
	args := m.Called(ctx, ownerID)
	list, _ := args.Get(0).([]*entity.EmailTemplate)
	return list, args.Error(1)
}

type MockHistoryRepo struct{ mock.Mock }

func (m *MockHistoryRepo) Create(ctx context.Context, h *entity.EmailHistory) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHistoryRepo) Update(ctx context.Context, h *entity.EmailHistory) error {
	return m.Called(ctx, h).Error(0)
}

func (m *MockHistoryRepo) FindByTrackID(ctx context.Context, trackID string) (*entity.EmailHistory, error) {
	args := m.Called(ctx, trackID)
	h, _ := args.Get(0).(*entity.EmailHistory)
	return h, args.Error(1)
}

func (m *MockHistoryRepo) List(ctx context.Context, filter entity.HistoryFilter) ([]*entity.EmailHistory, int, error) {
	args := m.Called(ctx, filter)
	list, _ := args.Get(0).([]*entity.EmailHistory)
	return list, args.Int(1), args.Error(2)
}

func (m *MockHistoryRepo) CountPerDay(ctx context.Context, ownerID string, since time.Time) (map[string]int, error) {
	args := m.Called(ctx, ownerID, since)
	counts, _ := args.Get(0).(map[string]int)
	return counts, args.Error(1)
}

func (m *MockHistoryRepo) Totals(ctx context.Context, ownerID string) (entity.EmailTotals, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).(entity.EmailTotals), args.Error(1)
}

type MockTransport struct {
	mock.Mock
	kind mail.TransportKind
	from string
}

func (m *MockTransport) Send(ctx context.Context, msg mail.Message) (mail.SendResult, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(mail.SendResult), args.Error(1)
}

func (m *MockTransport) Kind() mail.TransportKind { return m.kind }
func (m *MockTransport) From() string             { return m.from }

type staticResolver struct{ t mail.Transport }

func (r staticResolver) Transport(context.Context) mail.Transport { return r.t }

type MockPublisher struct{ mock.Mock }

func (m *MockPublisher) Publish(ctx context.Context, event queue.EmailEvent) error {
	return m.Called(ctx, event).Error(0)
}

type MockSender struct{ mock.Mock }

func (m *MockSender) Execute(ctx context.Context, input SendEmailInput) (*entity.EmailHistory, error) {
	args := m.Called(ctx, input)
	h, _ := args.Get(0).(*entity.EmailHistory)
	return h, args.Error(1)
}

type MockHasher struct{ mock.Mock }

func (m *MockHasher) Hash(password string) (string, error) {
	args := m.Called(password)
	return args.String(0), args.Error(1)
}

func (m *MockHasher) Check(password, hash string) bool {
	return m.Called(password, hash).Bool(0)
}

type MockTokens struct{ mock.Mock }

func (m *MockTokens) Generate(userID string) (string, error) {
	args := m.Called(userID)
	return args.String(0), args.Error(1)
}

func strPtr(s string) *string { return &s }

var fixedNow = time.Date(2024, 3, 10, 15, 30, 0, 0, time.UTC)
