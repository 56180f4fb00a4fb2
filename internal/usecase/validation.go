package usecase

import (
	"fmt"
	"net/mail"
	"strings"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

const minPasswordLength = 6

type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func ValidateRegisterInput(input RegisterInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	} else if len(input.Name) > 200 {
		errs = append(errs, ValidationError{"name", "must not exceed 200 characters"})
	}

	errs = append(errs, validateEmail(input.Email)...)

	if len(input.Password) < minPasswordLength {
		errs = append(errs, ValidationError{"password", fmt.Sprintf("must have at least %d characters", minPasswordLength)})
	}

	return errs
}

func ValidateLoginInput(input LoginInput) []ValidationError {
	errs := validateEmail(input.Email)
	if input.Password == "" {
		errs = append(errs, ValidationError{"password", "is required"})
	}
	return errs
}

func ValidateLeadInput(input LeadInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}
	if input.Email != "" {
		if _, err := mail.ParseAddress(input.Email); err != nil {
			errs = append(errs, ValidationError{"email", "is invalid"})
		}
	}
	if input.Source != "" && !entity.IsValidLeadSource(input.Source) {
		errs = append(errs, ValidationError{"source", "must be one of " + strings.Join(entity.LeadSources, ", ")})
	}
	if input.Status != "" && !entity.IsValidLeadStatus(input.Status) {
		errs = append(errs, ValidationError{"status", "must be one of " + strings.Join(entity.LeadStatuses, ", ")})
	}

	return errs
}

func ValidateTemplateInput(input TemplateInput) []ValidationError {
	var errs []ValidationError

	if strings.TrimSpace(input.Name) == "" {
		errs = append(errs, ValidationError{"name", "is required"})
	}
	if strings.TrimSpace(input.Subject) == "" {
		errs = append(errs, ValidationError{"subject", "is required"})
	}
	if strings.TrimSpace(input.Body) == "" {
		errs = append(errs, ValidationError{"body", "is required"})
	}

	return errs
}

func validateEmail(email string) []ValidationError {
	if strings.TrimSpace(email) == "" {
		return []ValidationError{{"email", "is required"}}
	}
	if _, err := mail.ParseAddress(email); err != nil {
		return []ValidationError{{"email", "is invalid"}}
	}
	return nil
}

// validationFailed folds field errors into a single DomainError, nil when
// there are none.
func validationFailed(errs []ValidationError) error {
	if len(errs) == 0 {
		return nil
	}

	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Field+" "+e.Message)
	}
	return &DomainError{
		Code:    "VALIDATION_ERROR",
		Message: "validation failed: " + strings.Join(parts, ", "),
	}
}

// pageWindow clamps page/limit and returns the matching offset.
func pageWindow(page, limit, defaultLimit, maxLimit int) (int, int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	return page, limit, (page - 1) * limit
}
