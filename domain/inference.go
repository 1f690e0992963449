package domain

import (
	"time"
)

// Job statuses shared by inference jobs and training runs.
const (
	JobStatusQueued    = "queued"
	JobStatusRunning   = "running"
	JobStatusSucceeded = "succeeded"
	JobStatusFailed    = "failed"
)

// InferenceJob tracks one scheduled inference. The task id doubles as the
// queue task id; only the worker that owns the job mutates its status.
type InferenceJob struct {
	TaskID    string     `gorm:"column:task_id;primaryKey" json:"task_id"`
	CreatedAt time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	PolledAt  *time.Time `gorm:"column:polled_at" json:"polled_at,omitempty"`
	UpdatedAt *time.Time `gorm:"column:updated_at" json:"updated_at,omitempty"`
	UserID    uint       `gorm:"column:user_id;not null" json:"user_id"`
	Status    string     `gorm:"column:status;default:''" json:"status"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (InferenceJob) TableName() string {
	return "inference_jobs"
}
