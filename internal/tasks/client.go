package tasks

import (
	"context"
	"fmt"

	"stayRank/business/training"
	"stayRank/pkg/config"

	"github.com/hibiken/asynq"
)

// Client enqueues background tasks. The queue task id reuses the job's own
// task id, so a duplicate submission is rejected by the broker instead of
// running twice. Tasks are never retried: both task kinds persist a failed
// status themselves and a blind rerun could double-write results.
type Client struct {
	client *asynq.Client
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		client: asynq.NewClient(asynq.RedisClientOpt{
			Addr:     fmt.Sprintf("%s:%s", cfg.Redis.RedisHost, cfg.Redis.RedisPort),
			Password: cfg.Redis.RedisPassword,
			DB:       cfg.Redis.RedisDB,
		}),
	}
}

func (c *Client) SubmitInference(ctx context.Context, taskID string) error {
	task, err := NewInferenceTask(taskID)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.TaskID(taskID),
		asynq.Queue(QueueInference),
		asynq.MaxRetry(0),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue inference task: %w", err)
	}

	return nil
}

func (c *Client) SubmitTraining(ctx context.Context, taskID string, params training.Params) error {
	task, err := NewTrainingTask(taskID, params)
	if err != nil {
		return err
	}

	_, err = c.client.EnqueueContext(ctx, task,
		asynq.TaskID(taskID),
		asynq.Queue(QueueTraining),
		asynq.MaxRetry(0),
	)
	if err != nil {
		return fmt.Errorf("failed to enqueue training task: %w", err)
	}

	return nil
}

func (c *Client) Close() error {
	return c.client.Close()
}
