package repositories

import (
	"context"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// TranscriptRepository defines data access for the transcripts collection.
type TranscriptRepository interface {
	// ReplaceChunk upserts a chunk of transcript documents keyed by
	// meeting_id, replacing payloads wholesale on conflict.
	ReplaceChunk(ctx context.Context, docs []*entities.TranscriptDocument) (entities.BulkWriteResult, error)
}
