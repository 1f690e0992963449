package curation

import (
	"context"

	"stayRank/domain"
	"stayRank/pkg/logger"
)

type ResultRepository interface {
	RankedByTask(ctx context.Context, taskID string, limit int) ([]domain.RankedLocation, error)
	MarkShown(ctx context.Context, taskID string, locationIDs []uint) error
	SetLabel(ctx context.Context, taskID string, locationID uint) (domain.Result, error)
	FindByID(ctx context.Context, id uint) (domain.Result, error)
	FindByTask(ctx context.Context, taskID string) ([]domain.Result, error)
}

type LocationRepository interface {
	FindByID(ctx context.Context, id uint) (domain.Location, error)
	FindAll(ctx context.Context) ([]domain.Location, error)
	Count(ctx context.Context) (int64, error)
}

type UserRepository interface {
	FindByID(ctx context.Context, id uint) (domain.User, error)
	FindAll(ctx context.Context) ([]domain.User, error)
	Count(ctx context.Context) (int64, error)
}

type EventRecorder interface {
	Record(ctx context.Context, event string, detail map[string]any) error
}

// CurationService surfaces ranked results to callers and turns their
// selections into training labels.
type CurationService struct {
	resultRepo ResultRepository
	locRepo    LocationRepository
	userRepo   UserRepository
	events     EventRecorder
}

func NewCurationService(
	resultRepo ResultRepository,
	locRepo LocationRepository,
	userRepo UserRepository,
	events EventRecorder,
) *CurationService {
	return &CurationService{
		resultRepo: resultRepo,
		locRepo:    locRepo,
		userRepo:   userRepo,
		events:     events,
	}
}

// RankedResults returns the job's top results by score and marks them as
// shown. Only shown rows qualify for future training datasets, so surfacing
// and marking happen together. Repeating the call re-marks the same rows,
// which is a no-op.
func (s *CurationService) RankedResults(ctx context.Context, taskID string, limit int) ([]domain.RankedLocation, error) {
	rows, err := s.resultRepo.RankedByTask(ctx, taskID, limit)
	if err != nil {
		return nil, err
	}

	ids := make([]uint, len(rows))
	for i, row := range rows {
		ids[i] = row.LocationID
	}

	if err := s.resultRepo.MarkShown(ctx, taskID, ids); err != nil {
		return nil, err
	}

	return rows, nil
}

// RecordFeedback registers the caller's selection for a job. The sentinel
// domain.FeedbackNone means "nothing selected": it is audit-logged and no
// label changes. Selecting the same location twice leaves the label at 1.
func (s *CurationService) RecordFeedback(ctx context.Context, taskID string, locationID int) error {
	if locationID == domain.FeedbackNone {
		if err := s.events.Record(ctx, "feedback_none", map[string]any{
			"task_id": taskID,
		}); err != nil {
			logger.Warn("failed to record event", "error", err)
		}
		return nil
	}

	result, err := s.resultRepo.SetLabel(ctx, taskID, uint(locationID))
	if err != nil {
		return err
	}

	if err := s.events.Record(ctx, "feedback_selected", map[string]any{
		"task_id":     taskID,
		"location_id": result.LocationID,
		"result_id":   result.ID,
	}); err != nil {
		logger.Warn("failed to record event", "error", err)
	}

	return nil
}

func (s *CurationService) Result(ctx context.Context, id uint) (domain.Result, error) {
	return s.resultRepo.FindByID(ctx, id)
}

func (s *CurationService) ResultsByTask(ctx context.Context, taskID string) ([]domain.Result, error) {
	return s.resultRepo.FindByTask(ctx, taskID)
}

func (s *CurationService) Location(ctx context.Context, id uint) (domain.Location, error) {
	return s.locRepo.FindByID(ctx, id)
}

func (s *CurationService) Locations(ctx context.Context) ([]domain.Location, error) {
	return s.locRepo.FindAll(ctx)
}

func (s *CurationService) User(ctx context.Context, id uint) (domain.User, error) {
	return s.userRepo.FindByID(ctx, id)
}

func (s *CurationService) Users(ctx context.Context) ([]domain.User, error) {
	return s.userRepo.FindAll(ctx)
}

// Info reports catalog and traffic volumes for the info endpoint.
type Info struct {
	Users     int64 `json:"users"`
	Locations int64 `json:"locations"`
}

func (s *CurationService) Info(ctx context.Context) (Info, error) {
	users, err := s.userRepo.Count(ctx)
	if err != nil {
		return Info{}, err
	}

	locs, err := s.locRepo.Count(ctx)
	if err != nil {
		return Info{}, err
	}

	return Info{Users: users, Locations: locs}, nil
}
