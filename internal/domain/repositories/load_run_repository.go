package repositories

import (
	"context"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// LoadRunRepository defines data access for the load_runs audit table.
type LoadRunRepository interface {
	// Create persists the audit row for one load invocation.
	Create(ctx context.Context, run *entities.LoadRun) error
}
