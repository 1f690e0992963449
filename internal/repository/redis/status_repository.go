package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Terminal job statuses are mirrored into redis so status polling does not
// hit postgres for every call. Entries expire after an hour, matching the
// queue's own result retention.
const statusTTL = time.Hour

type StatusRepository struct {
	client *redis.Client
}

func NewStatusRepository(client *redis.Client) *StatusRepository {
	return &StatusRepository{client: client}
}

func statusKey(taskID string) string {
	return fmt.Sprintf("job:status:%s", taskID)
}

func (r *StatusRepository) SetStatus(ctx context.Context, taskID, status string) error {
	if err := r.client.Set(ctx, statusKey(taskID), status, statusTTL).Err(); err != nil {
		return fmt.Errorf("failed to store job status: %w", err)
	}

	return nil
}

// GetStatus returns the mirrored status, or ("", nil) when the entry is
// missing or expired and the caller must fall back to the database.
func (r *StatusRepository) GetStatus(ctx context.Context, taskID string) (string, error) {
	status, err := r.client.Get(ctx, statusKey(taskID)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", nil
		}
		return "", fmt.Errorf("failed to get job status: %w", err)
	}

	return status, nil
}
