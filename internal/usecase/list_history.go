package usecase

import (
	"context"
	"fmt"

	"github.com/xavierca1/lead-outreach/internal/entity"
)

const (
	defaultHistoryPageSize = 100
	maxHistoryPageSize     = 500
	maxHistoryExport       = 10000
)

type ListHistoryUseCase struct {
	History entity.EmailHistoryRepositoryInterface
}

func NewListHistoryUseCase(history entity.EmailHistoryRepositoryInterface) *ListHistoryUseCase {
	return &ListHistoryUseCase{History: history}
}

func (uc *ListHistoryUseCase) Execute(ctx context.Context, input ListHistoryInput) (*ListHistoryOutput, error) {
	_, limit, offset := pageWindow(input.Page, input.Limit, defaultHistoryPageSize, maxHistoryPageSize)

	data, total, err := uc.History.List(ctx, entity.HistoryFilter{
		OwnerID: input.OwnerID,
		LeadID:  input.LeadID,
		Status:  input.Status,
		Limit:   limit,
		Offset:  offset,
	})
	if err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	if data == nil {
		data = []*entity.EmailHistory{}
	}

	return &ListHistoryOutput{Data: data, Total: total}, nil
}

func (uc *ListHistoryUseCase) Export(ctx context.Context, input ListHistoryInput) ([]*entity.EmailHistory, error) {
	data, _, err := uc.History.List(ctx, entity.HistoryFilter{
		OwnerID: input.OwnerID,
		LeadID:  input.LeadID,
		Status:  input.Status,
		Limit:   maxHistoryExport,
	})
	if err != nil {
		return nil, fmt.Errorf("export history: %w", err)
	}
	return data, nil
}
