package postgres

import (
	"context"
	"fmt"
	"time"

	"stayRank/domain"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type DatasetRepository struct {
	DB *gorm.DB
}

func NewDatasetRepository(db *gorm.DB) *DatasetRepository {
	return &DatasetRepository{DB: db}
}

// Append records which results a training run consumed. Entries are
// append-only; re-recording an existing (task, result) pair is ignored.
func (r *DatasetRepository) Append(ctx context.Context, taskID string, resultIDs []uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(resultIDs) == 0 {
		return nil
	}

	now := time.Now()
	entries := make([]domain.DatasetEntry, len(resultIDs))
	for i, id := range resultIDs {
		entries[i] = domain.DatasetEntry{
			TaskID:    taskID,
			ResultID:  id,
			CreatedAt: now,
		}
	}

	if err := r.DB.WithContext(ctx).Clauses(
		clause.OnConflict{DoNothing: true},
	).CreateInBatches(entries, 500).Error; err != nil {
		return fmt.Errorf("failed to append dataset entries: %w", err)
	}

	return nil
}

func (r *DatasetRepository) FindByTask(ctx context.Context, taskID string) ([]domain.DatasetEntry, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var entries []domain.DatasetEntry
	if err := r.DB.WithContext(ctx).
		Where("task_id = ?", taskID).
		Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("failed to find dataset entries: %w", err)
	}

	return entries, nil
}
