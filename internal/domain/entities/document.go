package entities

import (
	"time"
)

// TranscriptPayload is the nested transcript text block stored wholesale in
// the document store.
type TranscriptPayload struct {
	FullText  string `json:"full_text" bson:"full_text"`
	WordCount int    `json:"word_count,omitempty" bson:"word_count,omitempty"`
}

// TranscriptDocument is the document-store record for a meeting transcript,
// keyed uniquely by meeting_id. Fields the transform stage adds beyond the
// known set are preserved in Metadata instead of being merged into typed
// fields.
type TranscriptDocument struct {
	MeetingID   string                 `json:"meeting_id" bson:"meeting_id"`
	CityName    string                 `json:"city_name" bson:"city_name"`
	MeetingDate string                 `json:"meeting_date" bson:"meeting_date"`
	Transcript  TranscriptPayload      `json:"transcript" bson:"transcript"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	IndexedAt   time.Time              `json:"indexed_at" bson:"indexed_at"`
}

// SummaryPayload is the nested summary text block: the full generated summary
// plus its short preview form.
type SummaryPayload struct {
	Full      string `json:"full" bson:"full"`
	Short     string `json:"short" bson:"short"`
	WordCount int    `json:"word_count,omitempty" bson:"word_count,omitempty"`
}

// SummaryDocument is the document-store record for a meeting summary, keyed
// uniquely by meeting_id.
type SummaryDocument struct {
	MeetingID   string                 `json:"meeting_id" bson:"meeting_id"`
	CityName    string                 `json:"city_name" bson:"city_name"`
	MeetingDate string                 `json:"meeting_date" bson:"meeting_date"`
	Summary     SummaryPayload         `json:"summary" bson:"summary"`
	AgendaItems []string               `json:"agenda" bson:"agenda"`
	Metadata    map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"`
	IndexedAt   time.Time              `json:"indexed_at" bson:"indexed_at"`
}
