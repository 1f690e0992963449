package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayRank/domain"

	"gorm.io/gorm"
)

type InferenceRepository struct {
	DB *gorm.DB
}

func NewInferenceRepository(db *gorm.DB) *InferenceRepository {
	return &InferenceRepository{DB: db}
}

func (r *InferenceRepository) Create(ctx context.Context, job *domain.InferenceJob) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(job).Error; err != nil {
		return fmt.Errorf("failed to create inference job: %w", err)
	}

	return nil
}

func (r *InferenceRepository) FindByTaskID(ctx context.Context, taskID string) (domain.InferenceJob, error) {
	if err := ctx.Err(); err != nil {
		return domain.InferenceJob{}, fmt.Errorf("context error: %w", err)
	}

	var job domain.InferenceJob

	err := r.DB.WithContext(ctx).First(&job, "task_id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.InferenceJob{}, domain.ErrJobNotFound
		}
		return domain.InferenceJob{}, fmt.Errorf("failed to find inference job: %w", err)
	}

	return job, nil
}

// UpdateStatus records a status transition made by the worker that owns the
// job.
func (r *InferenceRepository) UpdateStatus(ctx context.Context, taskID, status string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := time.Now()
	result := r.DB.WithContext(ctx).Model(&domain.InferenceJob{}).
		Where("task_id = ?", taskID).
		Updates(map[string]any{"status": status, "updated_at": now})

	if result.Error != nil {
		return fmt.Errorf("failed to update inference job: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrJobNotFound
	}

	return nil
}

// TouchPolled records when a client last polled the job's status.
func (r *InferenceRepository) TouchPolled(ctx context.Context, taskID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	now := time.Now()
	if err := r.DB.WithContext(ctx).Model(&domain.InferenceJob{}).
		Where("task_id = ?", taskID).
		Update("polled_at", now).Error; err != nil {
		return fmt.Errorf("failed to touch inference job: %w", err)
	}

	return nil
}
