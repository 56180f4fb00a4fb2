package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type TemplateHandler struct {
	UseCase *usecase.ManageTemplatesUseCase
	Log     *zap.Logger
}

func NewTemplateHandler(uc *usecase.ManageTemplatesUseCase, log *zap.Logger) *TemplateHandler {
	return &TemplateHandler{UseCase: uc, Log: log}
}

func (h *TemplateHandler) Create(w http.ResponseWriter, r *http.Request) {
	var input usecase.TemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	tpl, err := h.UseCase.Create(r.Context(), middleware.UserID(r.Context()), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusCreated, tpl)
}

func (h *TemplateHandler) Get(w http.ResponseWriter, r *http.Request) {
	tpl, err := h.UseCase.Get(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) Update(w http.ResponseWriter, r *http.Request) {
	var input usecase.TemplateInput
	if !decodeJSON(w, r, &input) {
		return
	}

	tpl, err := h.UseCase.Update(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id"), input)
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, tpl)
}

func (h *TemplateHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.UseCase.Delete(r.Context(), middleware.UserID(r.Context()), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Template removed"})
}

func (h *TemplateHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.UseCase.List(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, list)
}
