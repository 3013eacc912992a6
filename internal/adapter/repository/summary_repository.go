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

// SummaryRepository handles summary document operations
type SummaryRepository struct {
	coll *mongo.Collection
}

// NewSummaryRepository creates a new summary repository
func NewSummaryRepository(db *database.MongoDB) *SummaryRepository {
	return &SummaryRepository{coll: db.Summaries()}
}

// ReplaceChunk upserts a chunk of summary documents keyed by meeting_id,
// replacing payloads wholesale on conflict.
func (r *SummaryRepository) ReplaceChunk(ctx context.Context, docs []*entities.SummaryDocument) (entities.BulkWriteResult, error) {
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
			return out, err
		}
		for _, writeErr := range bulkErr.WriteErrors {
			identifier := ""
			if writeErr.Index >= 0 && writeErr.Index < len(docs) {
				identifier = docs[writeErr.Index].MeetingID
			}
			out.Failed = append(out.Failed, entities.Failure{
				Entity:     "summary",
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
