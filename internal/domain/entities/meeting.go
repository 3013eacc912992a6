package entities

import (
	"fmt"
	"time"
)

// Meeting is the fact row for a single council meeting. The meeting_id is the
// stable identifier assigned by the source system, so re-loading the same id
// overwrites the row in place.
type Meeting struct {
	MeetingID           string    `json:"meeting_id" gorm:"column:meeting_id;type:varchar(255);primaryKey"`
	CityID              uint      `json:"city_id" gorm:"column:city_id;not null;index:idx_meetings_city_id;index:idx_meetings_city_date,priority:1"`
	MeetingDate         time.Time `json:"meeting_date" gorm:"column:meeting_date;type:date;not null;index:idx_meetings_meeting_date;index:idx_meetings_city_date,priority:2"`
	Title               string    `json:"title" gorm:"type:text"`
	DurationMin         int       `json:"duration_min"`
	SpeakerCount        int       `json:"speaker_count"`
	TranscriptWordCount int       `json:"transcript_word_count"`
	SummaryWordCount    int       `json:"summary_word_count"`
	CreatedAt           time.Time `json:"created_at" gorm:"autoCreateTime"`
}

// TableName specifies the table name for GORM
func (Meeting) TableName() string {
	return "meetings"
}

// meetingDateFormats are the date layouts accepted from the transform stage,
// matching the upstream cleaning rules.
var meetingDateFormats = []string{"2006-01-02", "01/02/2006", "02-01-2006"}

// ParseMeetingDate parses a transform-stage date string.
func ParseMeetingDate(value string) (time.Time, error) {
	for _, layout := range meetingDateFormats {
		if t, err := time.Parse(layout, value); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid meeting date %q", value)
}
