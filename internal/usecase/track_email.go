package usecase

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/xavierca1/lead-outreach/internal/entity"
	"github.com/xavierca1/lead-outreach/internal/infra/queue"
)

type TrackEmailUseCase struct {
	History entity.EmailHistoryRepositoryInterface
	Events  EventPublisher
	Log     *zap.Logger

	now func() time.Time
}

func NewTrackEmailUseCase(history entity.EmailHistoryRepositoryInterface, events EventPublisher, log *zap.Logger) *TrackEmailUseCase {
	return &TrackEmailUseCase{
		History: history,
		Events:  events,
		Log:     log,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// TrackOpen stamps the first open. Repeat opens are not written.
func (uc *TrackEmailUseCase) TrackOpen(ctx context.Context, trackID string) error {
	if trackID == "" {
		return ErrMissingTrackingID
	}

	h, err := uc.History.FindByTrackID(ctx, trackID)
	if err != nil {
		return fmt.Errorf("find history by track id: %w", err)
	}

	now := uc.now()
	if !h.MarkOpened(now) {
		return nil
	}

	if err := uc.History.Update(ctx, h); err != nil {
		return fmt.Errorf("save open: %w", err)
	}

	publish(ctx, uc.Events, uc.Log, queue.EventOpened, h, now)
	return nil
}

// TrackClick validates the destination, then stamps the click. The returned
// destination is valid whenever err is not a DomainError, so the caller can
// still redirect after a storage failure.
func (uc *TrackEmailUseCase) TrackClick(ctx context.Context, trackID, rawURL string) (string, error) {
	if trackID == "" || rawURL == "" {
		return "", ErrMissingDestination
	}

	dest, err := ParseDestination(rawURL)
	if err != nil {
		return "", err
	}

	h, err := uc.History.FindByTrackID(ctx, trackID)
	if err != nil {
		return dest, fmt.Errorf("find history by track id: %w", err)
	}

	now := uc.now()
	if !h.MarkClicked(now) {
		return dest, nil
	}

	if err := uc.History.Update(ctx, h); err != nil {
		return dest, fmt.Errorf("save click: %w", err)
	}

	publish(ctx, uc.Events, uc.Log, queue.EventClicked, h, now)
	return dest, nil
}

// ParseDestination undoes one extra layer of percent-encoding and accepts
// only absolute http(s) targets.
func ParseDestination(raw string) (string, error) {
	dest, err := url.PathUnescape(raw)
	if err != nil {
		dest = raw
	}

	lower := strings.ToLower(dest)
	if !strings.HasPrefix(lower, "http://") && !strings.HasPrefix(lower, "https://") {
		return "", ErrInvalidURLProtocol
	}
	return dest, nil
}
