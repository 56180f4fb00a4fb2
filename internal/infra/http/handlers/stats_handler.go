package handlers

import (
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

type StatsHandler struct {
	UseCase *usecase.StatsUseCase
	Log     *zap.Logger
}

func NewStatsHandler(uc *usecase.StatsUseCase, log *zap.Logger) *StatsHandler {
	return &StatsHandler{UseCase: uc, Log: log}
}

func (h *StatsHandler) Get(w http.ResponseWriter, r *http.Request) {
	out, err := h.UseCase.Execute(r.Context(), middleware.UserID(r.Context()))
	if err != nil {
		writeError(w, h.Log, err)
		return
	}

	writeJSON(w, http.StatusOK, out)
}
