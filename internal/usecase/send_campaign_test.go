package usecase

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/mail"
)

func newCampaignUseCase() (*SendCampaignUseCase, *MockLeadRepo, *MockTemplateRepo, *MockSender) {
	leads := new(MockLeadRepo)
	templates := new(MockTemplateRepo)
	sender := new(MockSender)
	uc := NewSendCampaignUseCase(leads, templates, sender, mail.NewPersonalizer(zap.NewNop()), zap.NewNop())
	return uc, leads, templates, sender
}

func TestCampaignContinuesPastFailures(t *testing.T) {
	uc, leads, templates, sender := newCampaignUseCase()

	tpl := &entity.EmailTemplate{ID: "tpl-1", OwnerID: "owner-1", Subject: "Hi {{name}}", Body: "<p>Hello {{name}}</p>"}
	selected := []*entity.Lead{
		{ID: "l1", Name: "Ana", Email: "ana@acme.com"},
		{ID: "l2", Name: "Bob", Email: ""},
		{ID: "l3", Name: "Cid", Email: "cid@acme.com"},
		{ID: "l4", Name: "Dee", Email: "dee@acme.com"},
	}

	templates.On("FindByID", mock.Anything, "owner-1", "tpl-1").Return(tpl, nil)
	leads.On("List", mock.Anything, mock.MatchedBy(func(f entity.LeadFilter) bool {
		return f.OwnerID == "owner-1" && len(f.IDs) == 4
	})).Return(selected, 4, nil)

	sender.On("Execute", mock.Anything, mock.MatchedBy(func(in SendEmailInput) bool { return in.To == "ana@acme.com" })).
		Return(&entity.EmailHistory{}, nil)
	sender.On("Execute", mock.Anything, mock.MatchedBy(func(in SendEmailInput) bool { return in.To == "cid@acme.com" })).
		Return(nil, &TechnicalError{Code: "DELIVERY_FAILED", Message: "Failed to send email", Err: errors.New("mailbox full")})
	sender.On("Execute", mock.Anything, mock.MatchedBy(func(in SendEmailInput) bool {
		return in.To == "dee@acme.com" && in.Subject == "Hi Dee" && in.Body == "<p>Hello Dee</p>" && *in.TemplateID == "tpl-1" && *in.LeadID == "l4"
	})).Return(&entity.EmailHistory{}, nil)

	result, err := uc.Execute(context.Background(), CampaignInput{
		OwnerID:    "owner-1",
		TemplateID: strPtr("tpl-1"),
		LeadIDs:    []string{"l1", "l2", "l3", "l4"},
	})
	require.NoError(t, err)

	assert.Equal(t, 2, result.Sent)
	assert.Equal(t, 2, result.Failed)
	assert.Equal(t, []CampaignError{
		{Lead: "l2", Message: "Missing email"},
		{Lead: "l3", Message: "mailbox full"},
	}, result.Errors)
	sender.AssertNumberOfCalls(t, "Execute", 3)
}

func TestCampaignNoLeads(t *testing.T) {
	uc, leads, _, sender := newCampaignUseCase()
	leads.On("List", mock.Anything, mock.Anything).Return([]*entity.Lead{}, 0, nil)

	_, err := uc.Execute(context.Background(), CampaignInput{OwnerID: "owner-1", Filters: CampaignFilters{Status: "Lost"}})
	assert.ErrorIs(t, err, ErrNoLeadsFound)
	sender.AssertNotCalled(t, "Execute", mock.Anything, mock.Anything)
}

func TestCampaignFilterSelection(t *testing.T) {
	uc, leads, _, sender := newCampaignUseCase()

	leads.On("List", mock.Anything, mock.MatchedBy(func(f entity.LeadFilter) bool {
		return f.OwnerID == "owner-1" &&
			assert.ObjectsAreEqual([]string{"New", "Contacted"}, f.Statuses) &&
			assert.ObjectsAreEqual([]string{"Website"}, f.Sources) &&
			f.Query == "acme" && !f.SearchNotes && f.Limit == maxCampaignLeads && f.IDs == nil
	})).Return([]*entity.Lead{{ID: "l1", Name: "Ana", Email: "ana@acme.com"}}, 1, nil)
	sender.On("Execute", mock.Anything, mock.MatchedBy(func(in SendEmailInput) bool {
		return in.Subject == "No Subject" && in.Body == "" && in.TemplateID == nil
	})).Return(&entity.EmailHistory{}, nil)

	result, err := uc.Execute(context.Background(), CampaignInput{
		OwnerID: "owner-1",
		Filters: CampaignFilters{Status: "New, Contacted", Source: "Website", Q: " acme "},
	})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Sent)
	leads.AssertExpectations(t)
	sender.AssertExpectations(t)
}

func TestCampaignBodyOverrideSubjectWins(t *testing.T) {
	uc, leads, templates, sender := newCampaignUseCase()

	templates.On("FindByID", mock.Anything, "owner-1", "tpl-1").
		Return(&entity.EmailTemplate{ID: "tpl-1", Subject: "Template subject", Body: "Template body"}, nil)
	leads.On("List", mock.Anything, mock.Anything).Return([]*entity.Lead{{ID: "l1", Name: "Ana", Email: "ana@acme.com"}}, 1, nil)
	sender.On("Execute", mock.Anything, mock.MatchedBy(func(in SendEmailInput) bool {
		return in.Subject == "Coffee, Ana?" && in.Body == "Short note"
	})).Return(&entity.EmailHistory{}, nil)

	_, err := uc.Execute(context.Background(), CampaignInput{
		OwnerID:      "owner-1",
		TemplateID:   strPtr("tpl-1"),
		LeadIDs:      []string{"l1"},
		Subject:      "Explicit subject",
		BodyOverride: "Subject: Coffee, {{name}}?\nShort note",
	})
	require.NoError(t, err)
	sender.AssertExpectations(t)
}

func TestCampaignUnknownTemplate(t *testing.T) {
	uc, _, templates, _ := newCampaignUseCase()
	templates.On("FindByID", mock.Anything, "owner-1", "missing").Return(nil, entity.ErrNotFound)

	_, err := uc.Execute(context.Background(), CampaignInput{OwnerID: "owner-1", TemplateID: strPtr("missing"), LeadIDs: []string{"l1"}})
	assert.ErrorIs(t, err, entity.ErrNotFound)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, splitList(" a, ,b "))
	assert.Nil(t, splitList(""))
}
