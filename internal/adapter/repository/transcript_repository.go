package repository

import (
	"context"
	"errors"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
	"github.com/ashok-rai/meetingbank-pipeline/internal/infrastructure/database"
)

// TranscriptRepository handles transcript document operations
type TranscriptRepository struct {
	coll *mongo.Collection
}

// NewTranscriptRepository creates a new transcript repository
func NewTranscriptRepository(db *database.MongoDB) *TranscriptRepository {
	return &TranscriptRepository{coll: db.Transcripts()}
}

// ReplaceChunk upserts a chunk of transcript documents keyed by meeting_id.
// Payloads are replaced wholesale on conflict; writes are unordered so one
// bad document does not block the rest of the chunk.
func (r *TranscriptRepository) ReplaceChunk(ctx context.Context, docs []*entities.TranscriptDocument) (entities.BulkWriteResult, error) {
	var out entities.BulkWriteResult
	if len(docs) == 0 {
		return out, nil
	}

	models := make([]mongo.WriteModel, 0, len(docs))
	for _, doc := range docs {
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.M{"meeting_id": doc.MeetingID}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	res, err := r.coll.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		var bulkErr mongo.BulkWriteException
		if !errors.As(err, &bulkErr) {
			// Command or connection level failure, nothing was classified.
			return out, err
		}
		for _, writeErr := range bulkErr.WriteErrors {
			identifier := ""
			if writeErr.Index >= 0 && writeErr.Index < len(docs) {
				identifier = docs[writeErr.Index].MeetingID
			}
			out.Failed = append(out.Failed, entities.Failure{
				Entity:     "transcript",
				Identifier: identifier,
				Reason:     writeErr.Message,
			})
		}
	}

	if res != nil {
		out.Inserted = int(res.UpsertedCount)
		out.Updated = int(res.MatchedCount)
	}
	return out, nil
}
