package repositories

import (
	"context"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// SummaryRepository defines data access for the summaries collection.
type SummaryRepository interface {
	// ReplaceChunk upserts a chunk of summary documents keyed by meeting_id,
	// replacing payloads wholesale on conflict.
	ReplaceChunk(ctx context.Context, docs []*entities.SummaryDocument) (entities.BulkWriteResult, error)
}
