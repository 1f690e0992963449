package tasks

import (
	"encoding/json"
	"fmt"

	"stayRank/business/training"

	"github.com/hibiken/asynq"
)

// Task types and the queues they run on. Inference tasks fan out across the
// worker's inference concurrency; training tasks run on a dedicated queue
// consumed with concurrency 1.
const (
	TypeInferenceRun = "inference:run"
	TypeTrainingRun  = "training:run"

	QueueInference = "inference"
	QueueTraining  = "training"
)

type InferencePayload struct {
	TaskID string `json:"task_id"`
}

type TrainingPayload struct {
	TaskID string          `json:"task_id"`
	Params training.Params `json:"params"`
}

func NewInferenceTask(taskID string) (*asynq.Task, error) {
	payload, err := json.Marshal(InferencePayload{TaskID: taskID})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal inference payload: %w", err)
	}

	return asynq.NewTask(TypeInferenceRun, payload), nil
}

func NewTrainingTask(taskID string, params training.Params) (*asynq.Task, error) {
	payload, err := json.Marshal(TrainingPayload{TaskID: taskID, Params: params})
	if err != nil {
		return nil, fmt.Errorf("failed to marshal training payload: %w", err)
	}

	return asynq.NewTask(TypeTrainingRun, payload), nil
}
