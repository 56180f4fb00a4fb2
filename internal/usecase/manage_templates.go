package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

type ManageTemplatesUseCase struct {
	Templates entity.TemplateRepositoryInterface
}

func NewManageTemplatesUseCase(templates entity.TemplateRepositoryInterface) *ManageTemplatesUseCase {
	return &ManageTemplatesUseCase{Templates: templates}
}

func (uc *ManageTemplatesUseCase) Create(ctx context.Context, ownerID string, input TemplateInput) (*entity.EmailTemplate, error) {
	if err := validationFailed(ValidateTemplateInput(input)); err != nil {
		return nil, err
	}

	tpl, err := entity.NewEmailTemplate(ownerID, input.Name, input.Subject, input.Body)
	if err != nil {
		return nil, &DomainError{Code: "VALIDATION_ERROR", Message: err.Error()}
	}

	if err := uc.Templates.Create(ctx, tpl); err != nil {
		return nil, fmt.Errorf("create template: %w", err)
	}
	return tpl, nil
}

func (uc *ManageTemplatesUseCase) Get(ctx context.Context, ownerID, id string) (*entity.EmailTemplate, error) {
	tpl, err := uc.Templates.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("find template %s: %w", id, err)
	}
	return tpl, nil
}

func (uc *ManageTemplatesUseCase) Update(ctx context.Context, ownerID, id string, input TemplateInput) (*entity.EmailTemplate, error) {
	if err := validationFailed(ValidateTemplateInput(input)); err != nil {
		return nil, err
	}

	tpl, err := uc.Templates.FindByID(ctx, ownerID, id)
	if err != nil {
		return nil, fmt.Errorf("find template %s: %w", id, err)
	}

	tpl.Name = strings.TrimSpace(input.Name)
	tpl.Subject = strings.TrimSpace(input.Subject)
	tpl.Body = input.Body
	tpl.UpdatedAt = time.Now().UTC()

	if err := uc.Templates.Update(ctx, tpl); err != nil {
		return nil, fmt.Errorf("update template %s: %w", id, err)
	}
	return tpl, nil
}

func (uc *ManageTemplatesUseCase) Delete(ctx context.Context, ownerID, id string) error {
	if err := uc.Templates.Delete(ctx, ownerID, id); err != nil {
		return fmt.Errorf("delete template %s: %w", id, err)
	}
	return nil
}

func (uc *ManageTemplatesUseCase) List(ctx context.Context, ownerID string) ([]*entity.EmailTemplate, error) {
	list, err := uc.Templates.List(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list templates: %w", err)
	}
	if list == nil {
		list = []*entity.EmailTemplate{}
	}
	return list, nil
}
