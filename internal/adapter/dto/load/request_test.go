package load

import (
	"testing"
)

var sampleBatch = []byte(`{
  "batch_id": "2023-05-01-run-42",
  "cities": [{"city_name": "Seattle", "state": "WA"}],
  "meetings": [{
    "meeting_id": "M1",
    "city_name": "Seattle",
    "meeting_date": "2023-05-01",
    "title": "Budget session",
    "duration_min": 90,
    "speaker_count": 5,
    "transcript_word_count": 1200,
    "summary_word_count": 150
  }],
  "agendas": [{"meeting_id": "M1", "item_number": 1, "topic": "Opening remarks"}],
  "transcripts": [{
    "meeting_id": "M1",
    "city_name": "Seattle",
    "meeting_date": "2023-05-01",
    "transcript": {"full_text": "call to order", "word_count": 3},
    "metadata": {"word_count": 3}
  }],
  "summaries": [{
    "meeting_id": "M1",
    "city_name": "Seattle",
    "meeting_date": "2023-05-01",
    "summary": {"full": "budget approved", "short": "budget", "word_count": 2},
    "agenda": ["Opening remarks"]
  }]
}`)

func TestParseBatch(t *testing.T) {
	req, err := ParseBatch(sampleBatch)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if req.BatchID != "2023-05-01-run-42" {
		t.Fatalf("unexpected batch id %q", req.BatchID)
	}
	if len(req.Cities) != 1 || len(req.Meetings) != 1 || len(req.Agendas) != 1 {
		t.Fatalf("unexpected record counts: %+v", req)
	}
	if len(req.Transcripts) != 1 || len(req.Summaries) != 1 {
		t.Fatalf("unexpected document counts: %+v", req)
	}
}

func TestParseBatchRejectsGarbage(t *testing.T) {
	if _, err := ParseBatch([]byte(`{"batch_id": `)); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestToBatch(t *testing.T) {
	req, err := ParseBatch(sampleBatch)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	batch := req.ToBatch()

	if batch.BatchID != req.BatchID {
		t.Fatalf("batch id not carried over: %q", batch.BatchID)
	}
	if batch.Size() != 5 {
		t.Fatalf("unexpected batch size %d", batch.Size())
	}

	m := batch.Meetings[0]
	if m.MeetingID != "M1" || m.CityName != "Seattle" || m.MeetingDate != "2023-05-01" {
		t.Fatalf("meeting not mapped: %+v", m)
	}
	if m.DurationMin != 90 || m.TranscriptWordCount != 1200 {
		t.Fatalf("meeting metrics not mapped: %+v", m)
	}

	tr := batch.Transcripts[0]
	if tr.Transcript.FullText != "call to order" || tr.Transcript.WordCount != 3 {
		t.Fatalf("transcript payload not mapped: %+v", tr)
	}
	if tr.Metadata["word_count"] == nil {
		t.Fatalf("metadata dropped: %+v", tr.Metadata)
	}
	if !tr.IndexedAt.IsZero() {
		t.Fatalf("indexed_at must be left for the loader to stamp: %v", tr.IndexedAt)
	}

	s := batch.Summaries[0]
	if s.Summary.Full != "budget approved" || s.Summary.Short != "budget" {
		t.Fatalf("summary payload not mapped: %+v", s)
	}
	if len(s.AgendaItems) != 1 || s.AgendaItems[0] != "Opening remarks" {
		t.Fatalf("agenda list not mapped: %+v", s.AgendaItems)
	}
}
