package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeErrorResponse(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: message, Code: code})
}

// decodeJSON writes a 400 and returns false when the body is not valid JSON.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeErrorResponse(w, http.StatusBadRequest, "INVALID_JSON", "invalid JSON: "+err.Error())
		return false
	}
	return true
}

// writeError maps use case errors onto HTTP statuses. Unknown errors are
// logged and reported without detail.
func writeError(w http.ResponseWriter, log *zap.Logger, err error) {
	var de *usecase.DomainError
	if errors.As(err, &de) {
		writeErrorResponse(w, de.HTTPStatus(), de.Code, de.Message)
		return
	}

	if errors.Is(err, entity.ErrNotFound) {
		writeErrorResponse(w, http.StatusNotFound, "NOT_FOUND", "Not found")
		return
	}

	var te *usecase.TechnicalError
	if errors.As(err, &te) {
		log.Error("request failed", zap.String("code", te.Code), zap.Error(err))
		resp := ErrorResponse{Error: te.Message, Code: te.Code}
		if te.Err != nil {
			resp.Details = te.Err.Error()
		}
		writeJSON(w, http.StatusInternalServerError, resp)
		return
	}

	log.Error("request failed", zap.Error(err))
	writeErrorResponse(w, http.StatusInternalServerError, "INTERNAL_ERROR", "internal server error")
}
