package usecases

import (
	"context"
	"errors"

	"github.com/disgoorg/snowflake/v2"
	"github.com/sglre6355/friendboat/internal/modules/music_player/application/scheduler"
	"github.com/sglre6355/friendboat/internal/modules/music_player/domain"
)

const DefaultPageSize = 10

// UpNextInput contains the input for the UpNext use case.
type UpNextInput struct {
	GuildID  snowflake.ID
	Page     int // 0-indexed page number, clamped to the available pages
	PageSize int // Items per page (optional, defaults to DefaultPageSize)
}

// UpNextOutput contains the result of the UpNext use case.
type UpNextOutput struct {
	Items      []*domain.QueueItem
	TotalItems int
	Page       int
	TotalPages int
}

// QueueService handles queue operations.
type QueueService struct {
	registry *scheduler.Registry
}

// NewQueueService creates a new QueueService.
func NewQueueService(registry *scheduler.Registry) *QueueService {
	return &QueueService{
		registry: registry,
	}
}

// UpNext returns one page of the items waiting to be played.
func (q *QueueService) UpNext(ctx context.Context, input UpNextInput) (*UpNextOutput, error) {
	s, ok := q.registry.Get(input.GuildID)
	if !ok {
		return nil, ErrNothingQueued
	}

	items, err := s.QueueSnapshot(ctx)
	if errors.Is(err, scheduler.ErrSchedulerClosed) {
		return nil, ErrNothingQueued
	}
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, ErrNothingQueued
	}

	pageSize := input.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	totalPages := (len(items) + pageSize - 1) / pageSize
	page := min(max(input.Page, 0), totalPages-1)

	start := page * pageSize
	end := min(start+pageSize, len(items))

	return &UpNextOutput{
		Items:      items[start:end],
		TotalItems: len(items),
		Page:       page,
		TotalPages: totalPages,
	}, nil
}
