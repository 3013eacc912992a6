package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// LoadRun is the audit row persisted for every load invocation so the
// orchestrator can reconcile sink outcomes after the fact.
type LoadRun struct {
	RunID     uuid.UUID      `json:"run_id" gorm:"column:run_id;type:uuid;primaryKey"`
	BatchID   string         `json:"batch_id" gorm:"column:batch_id;type:varchar(255);not null;index:idx_load_runs_batch_id"`
	Status    string         `json:"status" gorm:"type:varchar(20);not null"`
	Report    datatypes.JSON `json:"report" gorm:"type:jsonb"`
	CreatedAt time.Time      `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (LoadRun) TableName() string {
	return "load_runs"
}
