package handlers

import (
	"errors"
	"net/http"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/infra/http/middleware"
	"github.com/xavierca1/lead-outreach/internal/usecase"
)

// 1x1 transparent GIF.
var trackingPixel = []byte{
	0x47, 0x49, 0x46, 0x38, 0x39, 0x61, 0x01, 0x00, 0x01, 0x00,
	0x80, 0x00, 0x00, 0xff, 0xff, 0xff, 0x00, 0x00, 0x00, 0x2c,
	0x00, 0x00, 0x00, 0x00, 0x01, 0x00, 0x01, 0x00, 0x00, 0x02,
	0x02, 0x44, 0x01, 0x00, 0x3b,
}

type TrackingHandler struct {
	UseCase *usecase.TrackEmailUseCase
	Log     *zap.Logger
}

func NewTrackingHandler(uc *usecase.TrackEmailUseCase, log *zap.Logger) *TrackingHandler {
	return &TrackingHandler{UseCase: uc, Log: log}
}

// Open always answers with the pixel so mail clients never show a broken
// image.
func (h *TrackingHandler) Open(w http.ResponseWriter, r *http.Request) {
	hid := r.URL.Query().Get("hid")

	if err := h.UseCase.TrackOpen(r.Context(), hid); err != nil {
		if !errors.Is(err, usecase.ErrMissingTrackingID) {
			h.Log.Warn("track open failed", zap.String("hid", hid), zap.Error(err))
		}
	} else {
		middleware.RecordTrackingEvent("open")
	}

	noCache(w)
	w.Header().Set("Content-Type", "image/gif")
	w.WriteHeader(http.StatusOK)
	w.Write(trackingPixel)
}

func (h *TrackingHandler) Click(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	hid := q.Get("hid")

	dest, err := h.UseCase.TrackClick(r.Context(), hid, q.Get("url"))
	if err != nil {
		var de *usecase.DomainError
		if errors.As(err, &de) {
			writeErrorResponse(w, de.HTTPStatus(), de.Code, de.Message)
			return
		}
		h.Log.Warn("track click failed, redirecting anyway", zap.String("hid", hid), zap.Error(err))
	} else {
		middleware.RecordTrackingEvent("click")
	}

	noCache(w)
	http.Redirect(w, r, dest, http.StatusFound)
}

func noCache(w http.ResponseWriter) {
	w.Header().Set("Cache-Control", "no-store, no-cache, must-revalidate, private")
	w.Header().Set("Pragma", "no-cache")
	w.Header().Set("Expires", "0")
}
