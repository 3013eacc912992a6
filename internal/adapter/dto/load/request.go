package load

import (
	"encoding/json"
	"fmt"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// LoadBatchRequest is one transform-stage output submitted for loading.
// Per-record contract checks (missing IDs, bad dates) happen inside the
// loader so one bad record rejects itself, not the whole batch; request
// validation only guards the envelope.
type LoadBatchRequest struct {
	BatchID     string                      `json:"batch_id" validate:"required,max=255"`
	Cities      []CityPayload               `json:"cities" validate:"dive"`
	Meetings    []MeetingPayload            `json:"meetings" validate:"dive"`
	Agendas     []AgendaPayload             `json:"agendas" validate:"dive"`
	Transcripts []TranscriptDocumentPayload `json:"transcripts"`
	Summaries   []SummaryDocumentPayload    `json:"summaries"`
}

// CityPayload represents a city reference in a batch
type CityPayload struct {
	CityName string `json:"city_name" validate:"omitempty,max=255"`
	State    string `json:"state" validate:"omitempty,max=100"`
}

// MeetingPayload represents a meeting row in a batch
type MeetingPayload struct {
	MeetingID           string `json:"meeting_id" validate:"omitempty,max=255"`
	CityName            string `json:"city_name" validate:"omitempty,max=255"`
	MeetingDate         string `json:"meeting_date"`
	Title               string `json:"title"`
	DurationMin         int    `json:"duration_min"`
	SpeakerCount        int    `json:"speaker_count"`
	TranscriptWordCount int    `json:"transcript_word_count"`
	SummaryWordCount    int    `json:"summary_word_count"`
}

// AgendaPayload represents an agenda item in a batch
type AgendaPayload struct {
	MeetingID   string `json:"meeting_id" validate:"omitempty,max=255"`
	ItemNumber  int    `json:"item_number"`
	Topic       string `json:"topic" validate:"omitempty,max=500"`
	Description string `json:"description"`
}

// TranscriptTextPayload is the nested transcript text block
type TranscriptTextPayload struct {
	FullText  string `json:"full_text"`
	WordCount int    `json:"word_count,omitempty"`
}

// TranscriptDocumentPayload represents a transcript document in a batch
type TranscriptDocumentPayload struct {
	MeetingID   string                 `json:"meeting_id"`
	CityName    string                 `json:"city_name"`
	MeetingDate string                 `json:"meeting_date"`
	Transcript  TranscriptTextPayload  `json:"transcript"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// SummaryTextPayload is the nested summary text block
type SummaryTextPayload struct {
	Full      string `json:"full"`
	Short     string `json:"short"`
	WordCount int    `json:"word_count,omitempty"`
}

// SummaryDocumentPayload represents a summary document in a batch
type SummaryDocumentPayload struct {
	MeetingID   string                 `json:"meeting_id"`
	CityName    string                 `json:"city_name"`
	MeetingDate string                 `json:"meeting_date"`
	Summary     SummaryTextPayload     `json:"summary"`
	Agenda      []string               `json:"agenda"`
	Metadata    map[string]interface{} `json:"metadata,omitempty"`
}

// LoadFileRequest asks the loader to fetch a staged batch itself, either from
// a local path or from the staging bucket.
type LoadFileRequest struct {
	Path   string `json:"path" validate:"required_without=Object"`
	Object string `json:"object" validate:"required_without=Path"`
}

// ToBatch converts the request into the domain batch
func (r *LoadBatchRequest) ToBatch() *entities.Batch {
	batch := &entities.Batch{BatchID: r.BatchID}

	for _, c := range r.Cities {
		batch.Cities = append(batch.Cities, entities.CityRecord{
			CityName: c.CityName,
			State:    c.State,
		})
	}
	for _, m := range r.Meetings {
		batch.Meetings = append(batch.Meetings, entities.MeetingRecord{
			MeetingID:           m.MeetingID,
			CityName:            m.CityName,
			MeetingDate:         m.MeetingDate,
			Title:               m.Title,
			DurationMin:         m.DurationMin,
			SpeakerCount:        m.SpeakerCount,
			TranscriptWordCount: m.TranscriptWordCount,
			SummaryWordCount:    m.SummaryWordCount,
		})
	}
	for _, a := range r.Agendas {
		batch.Agendas = append(batch.Agendas, entities.AgendaRecord{
			MeetingID:   a.MeetingID,
			ItemNumber:  a.ItemNumber,
			Topic:       a.Topic,
			Description: a.Description,
		})
	}
	for _, t := range r.Transcripts {
		batch.Transcripts = append(batch.Transcripts, &entities.TranscriptDocument{
			MeetingID:   t.MeetingID,
			CityName:    t.CityName,
			MeetingDate: t.MeetingDate,
			Transcript: entities.TranscriptPayload{
				FullText:  t.Transcript.FullText,
				WordCount: t.Transcript.WordCount,
			},
			Metadata: t.Metadata,
		})
	}
	for _, s := range r.Summaries {
		batch.Summaries = append(batch.Summaries, &entities.SummaryDocument{
			MeetingID:   s.MeetingID,
			CityName:    s.CityName,
			MeetingDate: s.MeetingDate,
			Summary: entities.SummaryPayload{
				Full:      s.Summary.Full,
				Short:     s.Summary.Short,
				WordCount: s.Summary.WordCount,
			},
			AgendaItems: s.Agenda,
			Metadata:    s.Metadata,
		})
	}
	return batch
}

// ParseBatch decodes a staged batch file into a request
func ParseBatch(raw []byte) (*LoadBatchRequest, error) {
	var req LoadBatchRequest
	if err := json.Unmarshal(raw, &req); err != nil {
		return nil, fmt.Errorf("decoding batch file: %w", err)
	}
	return &req, nil
}
