package inference

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"stayRank/business/model"
	"stayRank/domain"
	"stayRank/pkg/logger"
	"stayRank/pkg/metrics"

	"github.com/google/uuid"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	FindByID(ctx context.Context, id uint) (domain.User, error)
}

type LocationRepository interface {
	FindAll(ctx context.Context) ([]domain.Location, error)
}

type JobRepository interface {
	Create(ctx context.Context, job *domain.InferenceJob) error
	FindByTaskID(ctx context.Context, taskID string) (domain.InferenceJob, error)
	UpdateStatus(ctx context.Context, taskID, status string) error
	TouchPolled(ctx context.Context, taskID string) error
}

type ResultRepository interface {
	CompleteJob(ctx context.Context, taskID string, results []domain.Result) error
}

// ActiveModelProvider resolves the model currently serving traffic.
type ActiveModelProvider interface {
	ActiveModel(ctx context.Context) (domain.Model, error)
}

// StatusStore mirrors terminal job statuses for cheap polling.
type StatusStore interface {
	SetStatus(ctx context.Context, taskID, status string) error
	GetStatus(ctx context.Context, taskID string) (string, error)
}

// TaskQueue hands jobs to the background worker.
type TaskQueue interface {
	SubmitInference(ctx context.Context, taskID string) error
}

type EventRecorder interface {
	Record(ctx context.Context, event string, detail map[string]any) error
}

// SubmitInput is one inference request. Party size and age statistics are
// derived from PeopleAges, not supplied by the caller.
type SubmitInput struct {
	Name        string
	PeopleAges  []int
	ChildrenNum int
	Budget      float64
	Nights      int
	TimeArrival time.Time
	Pool        bool
	Spa         bool
	PetFriendly bool
	Lake        bool
	Mountain    bool
	Sport       bool
}

type InferenceService struct {
	userRepo   UserRepository
	locRepo    LocationRepository
	jobRepo    JobRepository
	resultRepo ResultRepository
	models     ActiveModelProvider
	cache      *model.Cache
	statuses   StatusStore
	queue      TaskQueue
	events     EventRecorder
}

func NewInferenceService(
	userRepo UserRepository,
	locRepo LocationRepository,
	jobRepo JobRepository,
	resultRepo ResultRepository,
	models ActiveModelProvider,
	cache *model.Cache,
	statuses StatusStore,
	queue TaskQueue,
	events EventRecorder,
) *InferenceService {
	return &InferenceService{
		userRepo:   userRepo,
		locRepo:    locRepo,
		jobRepo:    jobRepo,
		resultRepo: resultRepo,
		models:     models,
		cache:      cache,
		statuses:   statuses,
		queue:      queue,
		events:     events,
	}
}

// Submit snapshots the request as a user row, schedules a scoring task and
// returns the task id the caller polls with.
func (s *InferenceService) Submit(ctx context.Context, in SubmitInput) (string, error) {
	if len(in.PeopleAges) == 0 {
		return "", errors.New("people ages must not be empty")
	}

	avg, std, min, max := ageStats(in.PeopleAges)

	user := domain.User{
		Name:        in.Name,
		PeopleNum:   len(in.PeopleAges),
		ChildrenNum: in.ChildrenNum,
		AgeAvg:      avg,
		AgeStd:      std,
		AgeMin:      min,
		AgeMax:      max,
		Budget:      in.Budget,
		Nights:      in.Nights,
		TimeArrival: in.TimeArrival,
		Pool:        in.Pool,
		Spa:         in.Spa,
		PetFriendly: in.PetFriendly,
		Lake:        in.Lake,
		Mountain:    in.Mountain,
		Sport:       in.Sport,
	}
	if err := s.userRepo.Create(ctx, &user); err != nil {
		return "", err
	}

	taskID := uuid.NewString()

	job := domain.InferenceJob{
		TaskID: taskID,
		UserID: user.ID,
		Status: domain.JobStatusQueued,
	}
	if err := s.jobRepo.Create(ctx, &job); err != nil {
		return "", err
	}

	if err := s.queue.SubmitInference(ctx, taskID); err != nil {
		// The job row stays behind as failed so the caller's poll terminates.
		if uerr := s.jobRepo.UpdateStatus(ctx, taskID, domain.JobStatusFailed); uerr != nil {
			logger.Error("failed to fail unqueued job", uerr, "task_id", taskID)
		}
		return "", fmt.Errorf("failed to enqueue inference: %w", err)
	}

	if err := s.events.Record(ctx, "inference_submitted", map[string]any{
		"task_id": taskID,
		"user_id": user.ID,
	}); err != nil {
		logger.Warn("failed to record event", "error", err)
	}

	return taskID, nil
}

// Run executes one scheduled job: score every catalog location for the job's
// user with the active model and persist the full result set atomically.
// Called from the worker, never from a request handler.
func (s *InferenceService) Run(ctx context.Context, taskID string) error {
	metrics.InferenceActive.Inc()
	defer metrics.InferenceActive.Dec()

	if err := s.jobRepo.UpdateStatus(ctx, taskID, domain.JobStatusRunning); err != nil {
		return err
	}

	results, err := s.score(ctx, taskID)
	if err != nil {
		logger.Error("inference failed", err, "task_id", taskID)
		if uerr := s.jobRepo.UpdateStatus(ctx, taskID, domain.JobStatusFailed); uerr != nil {
			logger.Error("failed to mark job failed", uerr, "task_id", taskID)
		}
		s.mirror(ctx, taskID, domain.JobStatusFailed)
		return err
	}

	if err := s.resultRepo.CompleteJob(ctx, taskID, results); err != nil {
		s.mirror(ctx, taskID, domain.JobStatusFailed)
		return err
	}
	s.mirror(ctx, taskID, domain.JobStatusSucceeded)
	metrics.InferenceResults.Add(float64(len(results)))

	logger.Info("inference succeeded", "task_id", taskID, "results", len(results))

	return nil
}

func (s *InferenceService) score(ctx context.Context, taskID string) ([]domain.Result, error) {
	job, err := s.jobRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return nil, err
	}

	active, err := s.models.ActiveModel(ctx)
	if err != nil {
		return nil, err
	}

	pipeline, err := s.cache.Pipeline(active)
	if err != nil {
		return nil, err
	}

	user, err := s.userRepo.FindByID(ctx, job.UserID)
	if err != nil {
		return nil, err
	}

	locs, err := s.locRepo.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(locs) == 0 {
		return nil, errors.New("location catalog is empty")
	}

	X, err := model.Matrix(user, locs, pipeline.Meta.Features)
	if err != nil {
		return nil, err
	}

	scores, err := pipeline.Score(X)
	if err != nil {
		return nil, err
	}

	results := make([]domain.Result, len(locs))
	for i, loc := range locs {
		results[i] = domain.Result{
			TaskID:     taskID,
			UserID:     user.ID,
			LocationID: loc.ID,
			Score:      scores[i],
		}
	}

	return results, nil
}

// Status returns the job's current status, preferring the redis mirror and
// falling back to the database. Each DB poll stamps polled_at.
func (s *InferenceService) Status(ctx context.Context, taskID string) (string, error) {
	if status, err := s.statuses.GetStatus(ctx, taskID); err == nil && status != "" {
		return status, nil
	} else if err != nil {
		logger.Warn("status mirror unavailable", "error", err)
	}

	job, err := s.jobRepo.FindByTaskID(ctx, taskID)
	if err != nil {
		return "", err
	}

	if err := s.jobRepo.TouchPolled(ctx, taskID); err != nil {
		logger.Warn("failed to stamp poll time", "error", err, "task_id", taskID)
	}

	return job.Status, nil
}

func (s *InferenceService) mirror(ctx context.Context, taskID, status string) {
	if err := s.statuses.SetStatus(ctx, taskID, status); err != nil {
		logger.Warn("failed to mirror job status", "error", err, "task_id", taskID)
	}
}

func ageStats(ages []int) (avg, std, min, max float64) {
	min = math.Inf(1)
	max = math.Inf(-1)

	var sum float64
	for _, a := range ages {
		v := float64(a)
		sum += v
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
	}
	avg = sum / float64(len(ages))

	var ss float64
	for _, a := range ages {
		d := float64(a) - avg
		ss += d * d
	}
	std = math.Sqrt(ss / float64(len(ages)))

	return avg, std, min, max
}
