package postgres

import (
	"context"
	"errors"
	"fmt"

	"stayRank/domain"

	"gorm.io/gorm"
)

type ModelRepository struct {
	DB *gorm.DB
}

func NewModelRepository(db *gorm.DB) *ModelRepository {
	return &ModelRepository{DB: db}
}

func (r *ModelRepository) Create(ctx context.Context, m *domain.Model) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if err := r.DB.WithContext(ctx).Create(m).Error; err != nil {
		return fmt.Errorf("failed to create model: %w", err)
	}

	return nil
}

func (r *ModelRepository) FindByTaskID(ctx context.Context, taskID string) (domain.Model, error) {
	if err := ctx.Err(); err != nil {
		return domain.Model{}, fmt.Errorf("context error: %w", err)
	}

	var m domain.Model

	err := r.DB.WithContext(ctx).First(&m, "task_id = ?", taskID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Model{}, domain.ErrModelNotFound
		}
		return domain.Model{}, fmt.Errorf("failed to find model: %w", err)
	}

	return m, nil
}

// FindActive returns a model with usage weight > 0. If several qualify an
// arbitrary one is returned; the registry keeps that situation from arising.
func (r *ModelRepository) FindActive(ctx context.Context) (domain.Model, error) {
	if err := ctx.Err(); err != nil {
		return domain.Model{}, fmt.Errorf("context error: %w", err)
	}

	var m domain.Model

	err := r.DB.WithContext(ctx).First(&m, "usage_weight > 0").Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Model{}, domain.ErrNoActiveModel
		}
		return domain.Model{}, fmt.Errorf("failed to find active model: %w", err)
	}

	return m, nil
}

// Update applies the given column values to one model row.
func (r *ModelRepository) Update(ctx context.Context, taskID string, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(fields) == 0 {
		return nil
	}

	result := r.DB.WithContext(ctx).Model(&domain.Model{}).
		Where("task_id = ?", taskID).
		Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("failed to update model: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return domain.ErrModelNotFound
	}

	return nil
}

// Promote makes one model the single active one: inside one transaction the
// winner's usage weight is set to 1.0 and every other model is benched.
func (r *ModelRepository) Promote(ctx context.Context, taskID string) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Model(&domain.Model{}).
			Where("task_id <> ? AND usage_weight > 0", taskID).
			Update("usage_weight", 0.0).Error; err != nil {
			return err
		}

		result := tx.Model(&domain.Model{}).
			Where("task_id = ?", taskID).
			Update("usage_weight", 1.0)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return domain.ErrModelNotFound
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to promote model: %w", err)
	}

	return nil
}

func (r *ModelRepository) FindAll(ctx context.Context) ([]domain.Model, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var models []domain.Model
	if err := r.DB.WithContext(ctx).Order("created_at DESC").Find(&models).Error; err != nil {
		return nil, fmt.Errorf("failed to find models: %w", err)
	}

	return models, nil
}

func (r *ModelRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var n int64
	if err := r.DB.WithContext(ctx).Model(&domain.Model{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count models: %w", err)
	}

	return n, nil
}
