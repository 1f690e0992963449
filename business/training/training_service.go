package training

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"stayRank/business/model"
	"stayRank/domain"
	"stayRank/pkg/logger"
	"stayRank/pkg/metrics"

	"github.com/google/uuid"
)

type ModelRegistry interface {
	ActiveModel(ctx context.Context) (domain.Model, error)
	Register(ctx context.Context, m *domain.Model) error
	Get(ctx context.Context, taskID string) (domain.Model, error)
	Update(ctx context.Context, taskID string, fields map[string]any) error
	Promote(ctx context.Context, taskID string) error
}

type CuratedSource interface {
	PullCurated(ctx context.Context, limit int) ([]domain.CuratedResult, error)
}

type DatasetRepository interface {
	Append(ctx context.Context, taskID string, resultIDs []uint) error
}

type TaskQueue interface {
	SubmitTraining(ctx context.Context, taskID string, params Params) error
}

type EventRecorder interface {
	Record(ctx context.Context, event string, detail map[string]any) error
}

// Params are the per-run hyperparameter overrides. Zero values fall back to
// the configured defaults.
type Params struct {
	Epochs           int     `json:"epochs,omitempty"`
	BatchSize        int     `json:"batch_size,omitempty"`
	PositiveFraction float64 `json:"positive_fraction,omitempty"`
	KBest            int     `json:"k_best,omitempty"`
	HeldOutSize      int     `json:"held_out_size,omitempty"`
	Seed             int64   `json:"seed,omitempty"`
}

// Defaults are the configured training hyperparameters a run starts from
// before per-call overrides.
type Defaults struct {
	ArtifactRoot     string
	Epochs           int
	BatchSize        int
	PositiveFraction float64
	KBest            int
	HeldOutSize      int
	Seed             int64
}

// TrainingService drives the challenger lifecycle: pull the curated dataset,
// fit a challenger next to the champion, compare both on the same held-out
// slice and promote the challenger only when it strictly wins on ROC-AUC.
type TrainingService struct {
	registry ModelRegistry
	curated  CuratedSource
	dataset  DatasetRepository
	queue    TaskQueue
	events   EventRecorder
	defaults Defaults
}

func NewTrainingService(
	registry ModelRegistry,
	curated CuratedSource,
	dataset DatasetRepository,
	queue TaskQueue,
	events EventRecorder,
	defaults Defaults,
) *TrainingService {
	return &TrainingService{
		registry: registry,
		curated:  curated,
		dataset:  dataset,
		queue:    queue,
		events:   events,
		defaults: defaults,
	}
}

// Start registers a challenger in setup state and schedules the training run.
// The artifact directory name mixes timestamp and task id so concurrent
// submissions never collide.
func (s *TrainingService) Start(ctx context.Context, params Params) (string, error) {
	taskID := uuid.NewString()
	dir := filepath.Join(
		s.defaults.ArtifactRoot,
		fmt.Sprintf("model.%d.%s", time.Now().Unix(), taskID[:8]),
	)

	m := domain.Model{
		TaskID: taskID,
		Status: domain.ModelStatusSetup,
		Path:   dir,
	}
	if err := s.registry.Register(ctx, &m); err != nil {
		return "", err
	}

	if err := s.queue.SubmitTraining(ctx, taskID, params); err != nil {
		if uerr := s.registry.Update(ctx, taskID, map[string]any{
			"status": domain.ModelStatusFailed,
		}); uerr != nil {
			logger.Error("failed to fail unqueued training run", uerr, "task_id", taskID)
		}
		return "", fmt.Errorf("failed to enqueue training: %w", err)
	}

	if err := s.events.Record(ctx, "training_submitted", map[string]any{
		"task_id": taskID,
		"path":    dir,
	}); err != nil {
		logger.Warn("failed to record event", "error", err)
	}

	return taskID, nil
}

// Run executes one training run end to end. Called from the worker's
// training queue, which is consumed with concurrency 1 so runs never overlap.
// Any error marks the model row failed before returning.
func (s *TrainingService) Run(ctx context.Context, taskID string, params Params) error {
	if err := s.run(ctx, taskID, params); err != nil {
		logger.Error("training failed", err, "task_id", taskID)
		metrics.TrainingRuns.WithLabelValues("failed").Inc()

		if uerr := s.registry.Update(ctx, taskID, map[string]any{
			"status": domain.ModelStatusFailed,
		}); uerr != nil {
			logger.Error("failed to mark training run failed", uerr, "task_id", taskID)
		}

		return err
	}

	metrics.TrainingRuns.WithLabelValues("succeeded").Inc()
	return nil
}

func (s *TrainingService) run(ctx context.Context, taskID string, params Params) error {
	m, err := s.registry.Get(ctx, taskID)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(m.Path, 0o755); err != nil {
		return fmt.Errorf("failed to create artifact directory: %w", err)
	}

	champion, err := s.registry.ActiveModel(ctx)
	if err != nil {
		return err
	}
	championPipe, err := model.LoadPipeline(champion.Path)
	if err != nil {
		return err
	}

	heldOut := params.HeldOutSize
	if heldOut <= 0 {
		heldOut = s.defaults.HeldOutSize
	}
	batchSize := params.BatchSize
	if batchSize <= 0 {
		batchSize = s.defaults.BatchSize
	}

	// The challenger trains on as many rows as the champion last saw, plus
	// the held-out slice both models are judged on.
	limit := championPipe.Meta.NRecords + heldOut

	if err := s.registry.Update(ctx, taskID, map[string]any{
		"status": domain.ModelStatusTraining,
	}); err != nil {
		return err
	}

	rows, err := s.curated.PullCurated(ctx, limit)
	if err != nil {
		return err
	}

	if len(rows) < heldOut+batchSize {
		return fmt.Errorf("%w: have %d curated rows, need at least %d",
			model.ErrDatasetTooSmall, len(rows), heldOut+batchSize)
	}

	resultIDs := make([]uint, len(rows))
	for i, row := range rows {
		resultIDs[i] = row.ResultID
	}
	if err := s.dataset.Append(ctx, taskID, resultIDs); err != nil {
		return err
	}

	trainRows := rows[:len(rows)-heldOut]
	testRows := rows[len(rows)-heldOut:]

	features := championPipe.Meta.Features

	trainX, trainY, err := featurize(trainRows, features)
	if err != nil {
		return err
	}
	testX, testY, err := featurize(testRows, features)
	if err != nil {
		return err
	}

	trainMetrics, err := model.Train(trainX, trainY, features, m.Path, model.TrainOptions{
		Epochs:           orInt(params.Epochs, s.defaults.Epochs),
		BatchSize:        batchSize,
		PositiveFraction: orFloat(params.PositiveFraction, s.defaults.PositiveFraction),
		KBest:            orInt(params.KBest, s.defaults.KBest),
		Seed:             orInt64(params.Seed, s.defaults.Seed),
	})
	if err != nil {
		return err
	}

	challengerPipe, err := model.LoadPipeline(m.Path)
	if err != nil {
		return err
	}

	challengerScores, err := challengerPipe.Score(testX)
	if err != nil {
		return err
	}
	challengerTest, err := model.Evaluate(testY, challengerScores)
	if err != nil {
		return err
	}

	championScores, err := championPipe.Score(testX)
	if err != nil {
		return err
	}
	championTest, err := model.Evaluate(testY, championScores)
	if err != nil {
		return err
	}

	promoted := challengerTest.AUC > championTest.AUC

	fields := map[string]any{
		"status":    domain.ModelStatusSucceeded,
		"train_acc": trainMetrics.Accuracy,
		"train_auc": trainMetrics.AUC,
		"train_pre": trainMetrics.Precision,
		"train_rec": trainMetrics.Recall,
		"train_f1":  trainMetrics.F1,
		"test_acc":  challengerTest.Accuracy,
		"test_auc":  challengerTest.AUC,
		"test_pre":  challengerTest.Precision,
		"test_rec":  challengerTest.Recall,
		"test_f1":   challengerTest.F1,
	}
	if err := s.registry.Update(ctx, taskID, fields); err != nil {
		return err
	}

	if promoted {
		if err := s.registry.Promote(ctx, taskID); err != nil {
			return err
		}
	} else if err := s.registry.Update(ctx, taskID, map[string]any{
		"usage_weight": 0.0,
	}); err != nil {
		return err
	}

	logger.Info("training run finished",
		"task_id", taskID,
		"promoted", promoted,
		"challenger_auc", challengerTest.AUC,
		"champion_auc", championTest.AUC,
		"rows", len(rows),
	)

	if err := s.events.Record(ctx, "training_finished", map[string]any{
		"task_id":        taskID,
		"promoted":       promoted,
		"challenger_auc": challengerTest.AUC,
		"champion_auc":   championTest.AUC,
	}); err != nil {
		logger.Warn("failed to record event", "error", err)
	}

	return nil
}

func featurize(rows []domain.CuratedResult, features []string) ([][]float64, []int, error) {
	X := make([][]float64, len(rows))
	y := make([]int, len(rows))

	for i, row := range rows {
		vec, err := model.Vector(row.User, row.Location, features)
		if err != nil {
			return nil, nil, err
		}
		X[i] = vec
		y[i] = row.Label
	}

	return X, y, nil
}

func orInt(v, fallback int) int {
	if v > 0 {
		return v
	}
	return fallback
}

func orInt64(v, fallback int64) int64 {
	if v > 0 {
		return v
	}
	return fallback
}

func orFloat(v, fallback float64) float64 {
	if v > 0 {
		return v
	}
	return fallback
}
