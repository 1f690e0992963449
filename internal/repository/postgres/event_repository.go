package postgres

import (
	"context"
	"fmt"

	"stayRank/domain"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type EventRepository struct {
	DB *gorm.DB
}

func NewEventRepository(db *gorm.DB) *EventRepository {
	return &EventRepository{DB: db}
}

// Record appends one audit event. Keep tags short, single words.
func (r *EventRepository) Record(ctx context.Context, event string, detail map[string]any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	row := domain.Event{Event: event}
	if detail != nil {
		row.Detail = datatypes.JSONMap(detail)
	}

	if err := r.DB.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("failed to record event: %w", err)
	}

	return nil
}
