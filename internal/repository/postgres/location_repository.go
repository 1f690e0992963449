package postgres

import (
	"context"
	"errors"
	"fmt"

	"stayRank/domain"

	"gorm.io/gorm"
)

type LocationRepository struct {
	DB *gorm.DB
}

func NewLocationRepository(db *gorm.DB) *LocationRepository {
	return &LocationRepository{DB: db}
}

func (r *LocationRepository) FindByID(ctx context.Context, id uint) (domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return domain.Location{}, fmt.Errorf("context error: %w", err)
	}

	var loc domain.Location

	err := r.DB.WithContext(ctx).First(&loc, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.Location{}, domain.ErrLocationNotFound
		}
		return domain.Location{}, fmt.Errorf("failed to find location: %w", err)
	}

	return loc, nil
}

func (r *LocationRepository) FindAll(ctx context.Context) ([]domain.Location, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("context error: %w", err)
	}

	var locs []domain.Location
	if err := r.DB.WithContext(ctx).Order("id").Find(&locs).Error; err != nil {
		return nil, fmt.Errorf("failed to find locations: %w", err)
	}

	return locs, nil
}

func (r *LocationRepository) Count(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, fmt.Errorf("context error: %w", err)
	}

	var n int64
	if err := r.DB.WithContext(ctx).Model(&domain.Location{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count locations: %w", err)
	}

	return n, nil
}

func (r *LocationRepository) BulkCreate(ctx context.Context, locs []domain.Location) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("context error: %w", err)
	}

	if len(locs) == 0 {
		return nil
	}

	if err := r.DB.WithContext(ctx).CreateInBatches(locs, 500).Error; err != nil {
		return fmt.Errorf("failed to bulk create locations: %w", err)
	}

	return nil
}
