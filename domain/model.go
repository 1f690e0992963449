package domain

import (
	"time"
)

// Model lifecycle statuses. A model row is created when a training run is
// submitted and walks setup -> training -> succeeded | failed.
const (
	ModelStatusSetup     = "setup"
	ModelStatusTraining  = "training"
	ModelStatusSucceeded = "succeeded"
	ModelStatusFailed    = "failed"
)

// Model is a registry entry for one trained artifact. The training task id
// doubles as the model id. UsageWeight > 0 means the model serves live
// traffic; the registry keeps at most one model active.
type Model struct {
	TaskID      string    `gorm:"column:task_id;primaryKey" json:"task_id"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	Status      string    `gorm:"column:status;default:''" json:"status"`
	Path        string    `gorm:"column:path" json:"path"`
	UsageWeight float64   `gorm:"column:usage_weight;default:0" json:"usage_weight"`
	TrainAcc    float64   `gorm:"column:train_acc;default:0" json:"train_acc"`
	TrainAUC    float64   `gorm:"column:train_auc;default:0" json:"train_auc"`
	TrainPre    float64   `gorm:"column:train_pre;default:0" json:"train_pre"`
	TrainRec    float64   `gorm:"column:train_rec;default:0" json:"train_rec"`
	TrainF1     float64   `gorm:"column:train_f1;default:0" json:"train_f1"`
	TestAcc     float64   `gorm:"column:test_acc;default:0" json:"test_acc"`
	TestAUC     float64   `gorm:"column:test_auc;default:0" json:"test_auc"`
	TestPre     float64   `gorm:"column:test_pre;default:0" json:"test_pre"`
	TestRec     float64   `gorm:"column:test_rec;default:0" json:"test_rec"`
	TestF1      float64   `gorm:"column:test_f1;default:0" json:"test_f1"`
}

func (Model) TableName() string {
	return "models"
}
