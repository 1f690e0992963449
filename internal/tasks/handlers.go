package tasks

import (
	"context"
	"encoding/json"
	"fmt"

	"stayRank/business/inference"
	"stayRank/business/training"

	"github.com/hibiken/asynq"
)

// Handlers binds queue tasks to the services that execute them.
type Handlers struct {
	inference *inference.InferenceService
	training  *training.TrainingService
}

func NewHandlers(inf *inference.InferenceService, tr *training.TrainingService) *Handlers {
	return &Handlers{inference: inf, training: tr}
}

func (h *Handlers) Register(mux *asynq.ServeMux) {
	mux.HandleFunc(TypeInferenceRun, h.HandleInferenceRun)
	mux.HandleFunc(TypeTrainingRun, h.HandleTrainingRun)
}

func (h *Handlers) HandleInferenceRun(ctx context.Context, t *asynq.Task) error {
	var payload InferencePayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal inference payload: %v: %w", err, asynq.SkipRetry)
	}

	return h.inference.Run(ctx, payload.TaskID)
}

func (h *Handlers) HandleTrainingRun(ctx context.Context, t *asynq.Task) error {
	var payload TrainingPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("failed to unmarshal training payload: %v: %w", err, asynq.SkipRetry)
	}

	return h.training.Run(ctx, payload.TaskID, payload.Params)
}
