package domain

import (
	"time"
)

// DatasetEntry links a training run to one result it consumed. Entries are
// write-once and kept for audit and reproducibility only.
type DatasetEntry struct {
	TaskID    string    `gorm:"column:task_id;primaryKey" json:"task_id"`
	ResultID  uint      `gorm:"column:result_id;primaryKey" json:"result_id"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`

	Result *Result `gorm:"foreignKey:ResultID" json:"-"`
}

func (DatasetEntry) TableName() string {
	return "dataset_entries"
}
