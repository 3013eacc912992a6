package repositories

import (
	"context"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// MeetingRepository defines data access for the meetings fact table.
type MeetingRepository interface {
	// ExistingIDs returns which of the given meeting IDs are already stored.
	ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error)

	// UpsertChunk writes a chunk of meetings, overwriting all mutable fields
	// on a meeting_id conflict. The loader also calls this with one-element
	// chunks as its row-at-a-time fallback.
	UpsertChunk(ctx context.Context, meetings []*entities.Meeting) error
}
