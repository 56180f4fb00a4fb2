package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type AuthHandler struct {
	UseCase *usecase.AuthUseCase
	Log     *zap.Logger
}

func NewAuthHandler(uc *usecase.AuthUseCase, log *zap.Logger) *AuthHandler {
	return &AuthHandler{UseCase: uc, Log: log}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input usecase.RegisterInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UseCase.Register(r.Context(), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, out)
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input usecase.LoginInput
	if !decodeJSON(w, r, &input) {
		return
	}

	out, err := h.UseCase.Login(r.Context(), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.UseCase.Me(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
