package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"stayRank/domain"

	"gorm.io/gorm"
)

type ResultRepository struct {
	DB *gorm.DB
}

func NewResultRepository(db *gorm.DB) *ResultRepository {
	return &ResultRepository{DB: db}
}

// CompleteJob persists all of a job's results and flips the job to succeeded
// in a single transaction, so readers never observe a finished job with a
// partial result set.
func (r *ResultRepository) CompleteJob(ctx context.Context, taskID string, results []domain.Result) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if len(results) > 0 {
			if err := tx.CreateInBatches(results, 500).Error; err != nil {
				return err
			}
		}

		now := time.Now()
		res := tx.Model(&domain.InferenceJob{}).
			Where("task_id = ?", taskID).
			Updates(map[string]any{"status": domain.JobStatusSucceeded, "updated_at": now})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrJobNotFound
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to complete inference job: %w", err)
	}

	return nil
}

// RankedByTask returns a job's results ordered by score descending, joined
// with their location attributes, truncated to limit.
func (r *ResultRepository) RankedByTask(ctx context.Context, taskID string, limit int) ([]domain.RankedLocation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var rows []domain.RankedLocation

	err := r.DB.WithContext(ctx).
		Table("results").
		Select("results.location_id, results.score, locations.children, locations.breakfast, " +
			"locations.lunch, locations.dinner, locations.price, locations.has_pool, " +
			"locations.has_spa, locations.animals, locations.near_lake, locations.near_mountains, " +
			"locations.has_sport, locations.family_rating, locations.outdoor_rating, " +
			"locations.food_rating, locations.leisure_rating, locations.service_rating, " +
			"locations.user_score").
		Joins("JOIN locations ON locations.id = results.location_id").
		Where("results.task_id = ?", taskID).
		Order("results.score DESC").
		Limit(limit).
		Scan(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to query ranked results: %w", err)
	}

	return rows, nil
}

// MarkShown flags the given (task, location) pairs as surfaced. Re-marking
// already-shown rows is a no-op, so the call is idempotent.
func (r *ResultRepository) MarkShown(ctx context.Context, taskID string, locationIDs []uint) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(locationIDs) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).Model(&domain.Result{}).
		Where("task_id = ? AND location_id IN ?", taskID, locationIDs).
		Update("shown", true).Error; err != nil {
		return fmt.Errorf("failed to mark results shown: %w", err)
	}

	return nil
}

// SetLabel flips the label of one (task, location) result to 1. The label is
// monotonic: repeating the call leaves it at 1.
func (r *ResultRepository) SetLabel(ctx context.Context, taskID string, locationID uint) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, fmt.Errorf("context error: %w", err)
	}

	var result domain.Result

	err := r.DB.WithContext(ctx).
		First(&result, "task_id = ? AND location_id = ?", taskID, locationID).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Result{}, domain.ErrResultNotFound
		}
		return domain.Result{}, fmt.Errorf("failed to find result: %w", err)
	}

	if result.Label == 1 {
		return result, nil
	}

	if err := r.DB.WithContext(ctx).Model(&result).Update("label", 1).Error; err != nil {
		return domain.Result{}, fmt.Errorf("failed to update result label: %w", err)
	}

	result.Label = 1
	return result, nil
}

func (r *ResultRepository) FindByID(ctx context.Context, id uint) (domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return domain.Result{}, fmt.Errorf("context error: %w", err)
	}

	var result domain.Result

	err := r.DB.WithContext(ctx).First(&result, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Result{}, domain.ErrResultNotFound
		}
		return domain.Result{}, fmt.Errorf("failed to find result: %w", err)
	}

	return result, nil
}

func (r *ResultRepository) FindByTask(ctx context.Context, taskID string) ([]domain.Result, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var results []domain.Result
	if err := r.DB.WithContext(ctx).
		Where("task_id = ?", taskID).
		Order("id").
		Find(&results).Error; err != nil {
		return nil, fmt.Errorf("failed to find results: %w", err)
	}

	return results, nil
}

// PullCurated returns up to limit curated rows, newest first.
func (r *ResultRepository) PullCurated(ctx context.Context, limit int) ([]domain.CuratedResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var results []domain.Result
	err := r.DB.WithContext(ctx).
		Preload("User").
		Preload("Location").
		Where("shown = ?", true).
		Order("id DESC").
		Limit(limit).
		Find(&results).Error
	if err != nil {
		return nil, fmt.Errorf("failed to pull curated results: %w", err)
	}

	rows := make([]domain.CuratedResult, 0, len(results))
	for _, res := range results {
		if res.User == nil || res.Location == nil {
			return nil, fmt.Errorf("curated result %d has dangling user or location", res.ID)
		}
		rows = append(rows, domain.CuratedResult{
			ResultID: res.ID,
			Label:    res.Label,
			User:     *res.User,
			Location: *res.Location,
		})
	}

	return rows, nil
}
