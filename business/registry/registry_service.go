package registry

import (
	"context"

	"stayRank/domain"
)

type ModelRepository interface {
	Create(ctx context.Context, m *domain.Model) error
	FindByTaskID(ctx context.Context, taskID string) (domain.Model, error)
	FindActive(ctx context.Context) (domain.Model, error)
	Update(ctx context.Context, taskID string, fields map[string]any) error
	Promote(ctx context.Context, taskID string) error
	FindAll(ctx context.Context) ([]domain.Model, error)
	Count(ctx context.Context) (int64, error)
}

// RegistryService owns the model catalog: registration, status transitions
// and the single-active-model promotion rule.
type RegistryService struct {
	modelRepo ModelRepository
}

func NewRegistryService(modelRepo ModelRepository) *RegistryService {
	return &RegistryService{modelRepo: modelRepo}
}

// ActiveModel returns the model currently serving traffic, or
// domain.ErrNoActiveModel when every model is benched.
func (s *RegistryService) ActiveModel(ctx context.Context) (domain.Model, error) {
	return s.modelRepo.FindActive(ctx)
}

func (s *RegistryService) Register(ctx context.Context, m *domain.Model) error {
	return s.modelRepo.Create(ctx, m)
}

func (s *RegistryService) Get(ctx context.Context, taskID string) (domain.Model, error) {
	return s.modelRepo.FindByTaskID(ctx, taskID)
}

func (s *RegistryService) Update(ctx context.Context, taskID string, fields map[string]any) error {
	return s.modelRepo.Update(ctx, taskID, fields)
}

// Promote makes taskID the single active model. Every other model is benched
// in the same transaction, so two active models are never observable.
func (s *RegistryService) Promote(ctx context.Context, taskID string) error {
	return s.modelRepo.Promote(ctx, taskID)
}

func (s *RegistryService) List(ctx context.Context) ([]domain.Model, error) {
	return s.modelRepo.FindAll(ctx)
}

func (s *RegistryService) Count(ctx context.Context) (int64, error) {
	return s.modelRepo.Count(ctx)
}
