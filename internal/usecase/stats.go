package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

const statsWindowDays = 14

type StatsUseCase struct {
	Leads   entity.LeadRepositoryInterface
	History entity.EmailHistoryRepositoryInterface

	now func() time.Time
}

func NewStatsUseCase(leads entity.LeadRepositoryInterface, history entity.EmailHistoryRepositoryInterface) *StatsUseCase {
	return &StatsUseCase{
		Leads:   leads,
		History: history,
		now:     func() time.Time { return time.Now().UTC() },
	}
}

// Execute reports lead counts and email activity. Days in the window with
// no sends are present with a zero count.
func (uc *StatsUseCase) Execute(ctx context.Context, ownerID string) (*StatsOutput, error) {
	byStatus, err := uc.Leads.CountByStatus(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("count leads by status: %w", err)
	}

	total := 0
	for _, n := range byStatus {
		total += n
	}

	now := uc.now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	since := today.AddDate(0, 0, -(statsWindowDays - 1))

	counted, err := uc.History.CountPerDay(ctx, ownerID, since)
	if err != nil {
		return nil, fmt.Errorf("count emails per day: %w", err)
	}

	perDay := make(map[string]int, statsWindowDays)
	for d := since; !d.After(today); d = d.AddDate(0, 0, 1) {
		day := d.Format("2006-01-02")
		perDay[day] = counted[day]
	}

	totals, err := uc.History.Totals(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("email totals: %w", err)
	}

	return &StatsOutput{
		LeadsByStatus: byStatus,
		TotalLeads:    total,
		EmailsPerDay:  perDay,
		Totals:        totals,
	}, nil
}
