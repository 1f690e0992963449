package domain

import (
	"time"

	"gorm.io/datatypes"
)

// Event is an application audit record: one short tag plus an optional
// structured detail payload.
type Event struct {
	ID        uint              `gorm:"primaryKey;autoIncrement" json:"event_id"`
	Event     string            `gorm:"column:event;default:''" json:"event"`
	Detail    datatypes.JSONMap `gorm:"column:detail;type:jsonb" json:"detail,omitempty"`
	CreatedAt time.Time         `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (Event) TableName() string {
	return "events"
}
