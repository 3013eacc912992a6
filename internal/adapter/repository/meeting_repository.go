package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// meetingUpdateColumns are the fields overwritten when a meeting_id already
// exists. created_at is deliberately left alone.
var meetingUpdateColumns = []string{
	"city_id",
	"meeting_date",
	"title",
	"duration_min",
	"speaker_count",
	"transcript_word_count",
	"summary_word_count",
}

// MeetingRepository handles meeting fact data operations
type MeetingRepository struct {
	db *gorm.DB
}

// NewMeetingRepository creates a new meeting repository
func NewMeetingRepository(db *gorm.DB) *MeetingRepository {
	return &MeetingRepository{db: db}
}

// ExistingIDs returns which of the given meeting IDs are already stored
func (r *MeetingRepository) ExistingIDs(ctx context.Context, ids []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{}, len(ids))
	if len(ids) == 0 {
		return existing, nil
	}

	var found []string
	if err := r.db.WithContext(ctx).
		Model(&entities.Meeting{}).
		Where("meeting_id IN ?", ids).
		Pluck("meeting_id", &found).Error; err != nil {
		return nil, err
	}

	for _, id := range found {
		existing[id] = struct{}{}
	}
	return existing, nil
}

// UpsertChunk writes a chunk of meetings, overwriting mutable fields on a
// meeting_id conflict
func (r *MeetingRepository) UpsertChunk(ctx context.Context, meetings []*entities.Meeting) error {
	if len(meetings) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}},
			DoUpdates: clause.AssignmentColumns(meetingUpdateColumns),
		}).
		Create(&meetings).Error
}
