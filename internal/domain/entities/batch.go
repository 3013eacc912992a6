package entities

// CityRecord is a transform-stage city reference before it is assigned a
// city_id.
type CityRecord struct {
	CityName string `json:"city_name"`
	State    string `json:"state"`
}

// MeetingRecord is a transform-stage meeting row. The city is referenced by
// natural name and resolved to a city_id during loading; the date stays a
// string until the loader validates it.
type MeetingRecord struct {
	MeetingID           string `json:"meeting_id"`
	CityName            string `json:"city_name"`
	MeetingDate         string `json:"meeting_date"`
	Title               string `json:"title"`
	DurationMin         int    `json:"duration_min"`
	SpeakerCount        int    `json:"speaker_count"`
	TranscriptWordCount int    `json:"transcript_word_count"`
	SummaryWordCount    int    `json:"summary_word_count"`
}

// AgendaRecord is a transform-stage agenda item.
type AgendaRecord struct {
	MeetingID   string `json:"meeting_id"`
	ItemNumber  int    `json:"item_number"`
	Topic       string `json:"topic"`
	Description string `json:"description"`
}

// Batch is one heterogeneous unit of orchestrated work: everything the
// transform stage produced for a single pipeline run. BatchID is assigned by
// the caller and used to detect redelivery of an already-loaded batch.
type Batch struct {
	BatchID     string                `json:"batch_id"`
	Cities      []CityRecord          `json:"cities"`
	Meetings    []MeetingRecord       `json:"meetings"`
	Agendas     []AgendaRecord        `json:"agendas"`
	Transcripts []*TranscriptDocument `json:"transcripts"`
	Summaries   []*SummaryDocument    `json:"summaries"`
}

// Size returns the total number of records across all entity kinds.
func (b *Batch) Size() int {
	return len(b.Cities) + len(b.Meetings) + len(b.Agendas) + len(b.Transcripts) + len(b.Summaries)
}
