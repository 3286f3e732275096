package jobs

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	RunStatusRunning   = "running"
	RunStatusSucceeded = "succeeded"
	RunStatusFailed    = "failed"
)

// EtlRun records one invocation of a pipeline entry point.
type EtlRun struct {
	ID         uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	Entity     string         `gorm:"column:entity;not null;index" json:"entity"`
	Status     string         `gorm:"column:status;not null;index" json:"status"`
	Processed  int            `gorm:"column:processed;not null;default:0" json:"processed"`
	Inserted   int            `gorm:"column:inserted;not null;default:0" json:"inserted"`
	Skipped    int            `gorm:"column:skipped;not null;default:0" json:"skipped"`
	Failed     int            `gorm:"column:failed;not null;default:0" json:"failed"`
	Error      string         `gorm:"column:error" json:"error,omitempty"`
	Params     datatypes.JSON `gorm:"column:params" json:"params"`
	Result     datatypes.JSON `gorm:"column:result" json:"result,omitempty"`
	StartedAt  time.Time      `gorm:"column:started_at;not null;index" json:"started_at"`
	FinishedAt *time.Time     `gorm:"column:finished_at" json:"finished_at,omitempty"`
	CreatedAt  time.Time      `gorm:"not null;index" json:"created_at"`
	UpdatedAt  time.Time      `gorm:"not null" json:"updated_at"`
}

func (EtlRun) TableName() string { return "etl_run" }

func (r *EtlRun) BeforeCreate(*gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}
