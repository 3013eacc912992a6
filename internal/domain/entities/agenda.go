package entities

import (
	"fmt"
	"time"
)

// Agenda is a detail row under a meeting. Rows are keyed by the generated
// agenda_id, with a unique constraint on (meeting_id, item_number) so that
// re-loading a batch updates agenda items in place instead of accumulating
// duplicates.
type Agenda struct {
	AgendaID    uint64    `json:"agenda_id" gorm:"column:agenda_id;primaryKey;autoIncrement"`
	MeetingID   string    `json:"meeting_id" gorm:"column:meeting_id;type:varchar(255);not null;index:idx_agendas_meeting_id;uniqueIndex:uq_agendas_meeting_item,priority:1"`
	ItemNumber  int       `json:"item_number" gorm:"uniqueIndex:uq_agendas_meeting_item,priority:2"`
	Topic       string    `json:"topic" gorm:"type:varchar(500)"`
	Description string    `json:"description" gorm:"type:text"`
	CreatedAt   time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Agenda) TableName() string {
	return "agendas"
}

// Key identifies an agenda row within load results, e.g. "M1:3".
func (a *Agenda) Key() string {
	return AgendaKey(a.MeetingID, a.ItemNumber)
}

// AgendaKey builds the composite identifier used in failure reports.
func AgendaKey(meetingID string, itemNumber int) string {
	return fmt.Sprintf("%s:%d", meetingID, itemNumber)
}
