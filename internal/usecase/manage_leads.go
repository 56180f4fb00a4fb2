package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

const (
	defaultLeadPageSize = 10
	maxLeadPageSize     = 100
	maxExportLeads      = 10000
)

type ManageLeadsUseCase struct {
	Leads entity.LeadRepositoryInterface
}

func NewManageLeadsUseCase(leads entity.LeadRepositoryInterface) *ManageLeadsUseCase {
	return &ManageLeadsUseCase{Leads: leads}
}

func (uc *ManageLeadsUseCase) Create(ctx context.Context, ownerID string, input LeadInput) (*entity.Lead, error) {
	if err := validationFailed(ValidateLeadInput(input)); err != nil {
		return nil, err
	}

	lead, err := entity.NewLead(ownerID, input.Name, input.Company, input.Email, input.Source, input.Status, input.Notes)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	if err := uc.Leads.Create(ctx, lead); err != nil {
		return nil, fmt.Errorf("create lead: %w", err)
	}
	return lead, nil
}

func (uc *ManageLeadsUseCase) Get(ctx context.Context, ownerID, id string) (*entity.Lead, error) {
	lead, err := uc.Leads.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("find lead %s: %w", id, err)
	}
	return lead, nil
}

// Update replaces the editable fields. Empty source and status keep the
// current values.
func (uc *ManageLeadsUseCase) Update(ctx context.Context, ownerID, id string, input LeadInput) (*entity.Lead, error) {
	if err := validationFailed(ValidateLeadInput(input)); err != nil {
		return nil, err
	}

	lead, err := uc.Leads.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("find lead %s: %w", id, err)
	}

	lead.Name = strings.TrimSpace(input.Name)
	lead.Company = strings.TrimSpace(input.Company)
	lead.Email = strings.TrimSpace(input.Email)
	lead.Notes = input.Notes
	if input.Source != "" {
		lead.Source = input.Source
	}
	if input.Status != "" {
		lead.Status = input.Status
	}
	lead.UpdatedAt = time.Now().UTC()

	if err := lead.Validate(); err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	if err := uc.Leads.Update(ctx, lead); err != nil {
		return nil, fmt.Errorf("update lead %s: %w", id, err)
	}
	return lead, nil
}

func (uc *ManageLeadsUseCase) Delete(ctx context.Context, ownerID, id string) error {
	if err := uc.Leads.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete lead %s: %w", id, err)
	}
	return nil
}

func (uc *ManageLeadsUseCase) List(ctx context.Context, input ListLeadsInput) (*ListLeadsOutput, error) {
	page, limit, offset := pageWindow(input.Page, input.Limit, defaultLeadPageSize, maxLeadPageSize)

	filter := entity.LeadFilter{
		OwnerID:         input.OwnerID,
		Statuses:        input.Statuses,
		Sources:         input.Sources,
		Query:           input.Query,
		SearchNotes:     true,
		LastEmailBefore: input.LastEmailBefore,
		LastEmailAfter:  input.LastEmailAfter,
		SortBy:          input.SortBy,
		SortOrder:       input.SortOrder,
		Limit:           limit,
		Offset:          offset,
	}

	leads, total, err := uc.Leads.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list leads: %w", err)
	}

	byStatus, err := uc.Leads.CountByStatus(ctx, input.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}

	totalLeads := 0
	for _, n := range byStatus {
		totalLeads += n
	}

	pages := (total + limit - 1) / limit

	if leads == nil {
		leads = []*entity.Lead{}
	}

	return &ListLeadsOutput{
		Leads: leads,
		Pagination: Pagination{
			Total:       total,
			Pages:       pages,
			CurrentPage: page,
			Limit:       limit,
		},
		Stats: LeadStats{TotalLeads: totalLeads, ByStatus: byStatus},
	}, nil
}

// Export returns every lead matching the filters, ignoring pagination.
func (uc *ManageLeadsUseCase) Export(ctx context.Context, input ListLeadsInput) ([]*entity.Lead, error) {
	leads, _, err := uc.Leads.List(ctx, entity.LeadFilter{
		OwnerID:         input.OwnerID,
		Statuses:        input.Statuses,
		Sources:         input.Sources,
		Query:           input.Query,
		SearchNotes:     true,
		LastEmailBefore: input.LastEmailBefore,
		LastEmailAfter:  input.LastEmailAfter,
		SortBy:          input.SortBy,
		SortOrder:       input.SortOrder,
		Limit:           maxExportLeads,
	})
	if err != nil {
		return nil, fmt.Errorf("export leads: %w", err)
	}
	return leads, nil
}
