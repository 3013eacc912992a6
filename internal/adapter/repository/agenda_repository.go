package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// AgendaRepository handles agenda detail data operations
type AgendaRepository struct {
	db *gorm.DB
}

// NewAgendaRepository creates a new agenda repository
func NewAgendaRepository(db *gorm.DB) *AgendaRepository {
	return &AgendaRepository{db: db}
}

// ExistingKeys returns the (meeting_id, item_number) pairs already stored for
// the given meetings, keyed by entities.AgendaKey
func (r *AgendaRepository) ExistingKeys(ctx context.Context, meetingIDs []string) (map[string]struct{}, error) {
	existing := make(map[string]struct{})
	if len(meetingIDs) == 0 {
		return existing, nil
	}

	var rows []entities.Agenda
	if err := r.db.WithContext(ctx).
		Select("meeting_id", "item_number").
		Where("meeting_id IN ?", meetingIDs).
		Find(&rows).Error; err != nil {
		return nil, err
	}

	for _, row := range rows {
		existing[entities.AgendaKey(row.MeetingID, row.ItemNumber)] = struct{}{}
	}
	return existing, nil
}

// UpsertChunk writes a chunk of agendas, updating topic and description in
// place on a (meeting_id, item_number) conflict
func (r *AgendaRepository) UpsertChunk(ctx context.Context, agendas []*entities.Agenda) error {
	if len(agendas) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "meeting_id"}, {Name: "item_number"}},
			DoUpdates: clause.AssignmentColumns([]string{"topic", "description"}),
		}).
		Create(&agendas).Error
}
