package usecase

import (
	"errors"
	"net/http"
)

// DomainError is a failure the caller can fix. Status is the HTTP status the
// handlers answer with; zero means 400.
type DomainError struct {
	Code    string
	Message string
	Status  int
}

func (e *DomainError) Error() string {
	return e.Message
}

func (e *DomainError) HTTPStatus() int {
	if e.Status == 0 {
		return http.StatusBadRequest
	}
	return e.Status
}

func IsDomainError(err error) bool {
	var de *DomainError
	return errors.As(err, &de)
}

var (
	ErrNoRecipient        = &DomainError{Code: "NO_RECIPIENT", Message: "No recipient specified"}
	ErrNoLeadsFound       = &DomainError{Code: "NO_LEADS", Message: "No leads found for campaign"}
	ErrMissingTrackingID  = &DomainError{Code: "MISSING_TRACKING_ID", Message: "Missing tracking id"}
	ErrMissingDestination = &DomainError{Code: "MISSING_PARAMETERS", Message: "Missing parameters"}
	ErrInvalidURLProtocol = &DomainError{Code: "INVALID_URL_PROTOCOL", Message: "Invalid URL protocol"}
	ErrEmailTaken         = &DomainError{Code: "EMAIL_TAKEN", Message: "User already exists"}
	ErrInvalidCredentials = &DomainError{Code: "INVALID_CREDENTIALS", Message: "Invalid credentials", Status: http.StatusUnauthorized}
)

// TechnicalError wraps an infrastructure failure the caller cannot fix.
type TechnicalError struct {
	Code    string
	Message string
	Err     error
}

func (e *TechnicalError) Error() string {
	if e.Err == nil {
		return e.Message
	}
	return e.Message + ": " + e.Err.Error()
}

func (e *TechnicalError) Unwrap() error {
	return e.Err
}

func IsTechnicalError(err error) bool {
	var te *TechnicalError
	return errors.As(err, &te)
}
