package repositories

import (
	"context"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// AgendaRepository defines data access for the agendas detail table.
type AgendaRepository interface {
	// ExistingKeys returns which (meeting_id, item_number) pairs already
	// exist, keyed by entities.AgendaKey.
	ExistingKeys(ctx context.Context, meetingIDs []string) (map[string]struct{}, error)

	// UpsertChunk writes a chunk of agendas, updating topic and description
	// in place on a (meeting_id, item_number) conflict.
	UpsertChunk(ctx context.Context, agendas []*entities.Agenda) error
}
