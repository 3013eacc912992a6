package load

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

type fakeTranscriptRepo struct {
	mu      sync.Mutex
	rows    map[string]*entities.TranscriptDocument
	connErr error
	badID   string
	calls   int
}

func newFakeTranscriptRepo() *fakeTranscriptRepo {
	return &fakeTranscriptRepo{rows: make(map[string]*entities.TranscriptDocument)}
}

func (f *fakeTranscriptRepo) ReplaceChunk(ctx context.Context, docs []*entities.TranscriptDocument) (entities.BulkWriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	var out entities.BulkWriteResult
	if f.connErr != nil {
		return out, f.connErr
	}
	for _, doc := range docs {
		if doc.MeetingID == f.badID {
			out.Failed = append(out.Failed, entities.Failure{
				Entity: "transcript", Identifier: doc.MeetingID, Reason: "document too large",
			})
			continue
		}
		if _, ok := f.rows[doc.MeetingID]; ok {
			out.Updated++
		} else {
			out.Inserted++
		}
		f.rows[doc.MeetingID] = doc
	}
	return out, nil
}

type fakeSummaryRepo struct {
	mu      sync.Mutex
	rows    map[string]*entities.SummaryDocument
	connErr error
}

func newFakeSummaryRepo() *fakeSummaryRepo {
	return &fakeSummaryRepo{rows: make(map[string]*entities.SummaryDocument)}
}

func (f *fakeSummaryRepo) ReplaceChunk(ctx context.Context, docs []*entities.SummaryDocument) (entities.BulkWriteResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out entities.BulkWriteResult
	if f.connErr != nil {
		return out, f.connErr
	}
	for _, doc := range docs {
		if _, ok := f.rows[doc.MeetingID]; ok {
			out.Updated++
		} else {
			out.Inserted++
		}
		f.rows[doc.MeetingID] = doc
	}
	return out, nil
}

func docBatch() *entities.Batch {
	return &entities.Batch{
		BatchID: "batch-1",
		Transcripts: []*entities.TranscriptDocument{
			{MeetingID: "M1", CityName: "Seattle", MeetingDate: "2023-05-01", Transcript: entities.TranscriptPayload{FullText: "call to order", WordCount: 3}},
			{MeetingID: "M2", CityName: "Denver", MeetingDate: "2023-05-02", Transcript: entities.TranscriptPayload{FullText: "roll call", WordCount: 2}},
		},
		Summaries: []*entities.SummaryDocument{
			{MeetingID: "M1", CityName: "Seattle", MeetingDate: "2023-05-01", Summary: entities.SummaryPayload{Full: "budget approved", Short: "budget", WordCount: 2}},
		},
	}
}

func TestDocumentLoaderFreshBatch(t *testing.T) {
	transcripts := newFakeTranscriptRepo()
	summaries := newFakeSummaryRepo()
	loader := NewDocumentLoader(transcripts, summaries, 2, testPolicy(), nil)

	res := loader.Load(context.Background(), docBatch())
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Transcripts.Inserted != 2 || res.Summaries.Inserted != 1 {
		t.Fatalf("unexpected counts: transcripts=%+v summaries=%+v", res.Transcripts, res.Summaries)
	}
	if transcripts.rows["M1"].IndexedAt.IsZero() {
		t.Fatal("indexed_at must be stamped on write")
	}
}

func TestDocumentLoaderSecondLoadReplaces(t *testing.T) {
	transcripts := newFakeTranscriptRepo()
	summaries := newFakeSummaryRepo()
	loader := NewDocumentLoader(transcripts, summaries, 2, testPolicy(), nil)

	if res := loader.Load(context.Background(), docBatch()); res.Err != nil {
		t.Fatalf("first load failed: %v", res.Err)
	}
	res := loader.Load(context.Background(), docBatch())
	if res.Err != nil {
		t.Fatalf("second load failed: %v", res.Err)
	}
	if res.Transcripts.Inserted != 0 || res.Transcripts.Updated != 2 {
		t.Fatalf("expected transcripts replaced in place, got %+v", res.Transcripts)
	}
	if len(transcripts.rows) != 2 {
		t.Fatalf("transcripts accumulated duplicates: %d rows", len(transcripts.rows))
	}
}

func TestDocumentLoaderRejectsMissingMeetingID(t *testing.T) {
	transcripts := newFakeTranscriptRepo()
	summaries := newFakeSummaryRepo()
	loader := NewDocumentLoader(transcripts, summaries, 2, testPolicy(), nil)

	batch := docBatch()
	batch.Transcripts = append(batch.Transcripts, &entities.TranscriptDocument{CityName: "Nowhere"})

	res := loader.Load(context.Background(), batch)
	if res.Err != nil {
		t.Fatalf("unexpected error: %v", res.Err)
	}
	if res.Transcripts.Rejected != 1 || res.Transcripts.Inserted != 2 {
		t.Fatalf("unexpected counts: %+v", res.Transcripts)
	}
}

func TestDocumentLoaderPerDocumentFailure(t *testing.T) {
	transcripts := newFakeTranscriptRepo()
	transcripts.badID = "M2"
	summaries := newFakeSummaryRepo()
	loader := NewDocumentLoader(transcripts, summaries, 2, testPolicy(), nil)

	res := loader.Load(context.Background(), docBatch())
	if res.Err != nil {
		t.Fatalf("per-document failures must not abort the load: %v", res.Err)
	}
	if res.Transcripts.Inserted != 1 || res.Transcripts.Failed != 1 {
		t.Fatalf("unexpected counts: %+v", res.Transcripts)
	}
	if res.Summaries.Inserted != 1 {
		t.Fatalf("summaries must still load, got %+v", res.Summaries)
	}
}

func TestDocumentLoaderConnectionErrorAborts(t *testing.T) {
	transcripts := newFakeTranscriptRepo()
	transcripts.connErr = errors.New("server selection timeout")
	summaries := newFakeSummaryRepo()
	loader := NewDocumentLoader(transcripts, summaries, 2, testPolicy(), nil)

	res := loader.Load(context.Background(), docBatch())
	if res.Err == nil {
		t.Fatal("expected infrastructure error")
	}
	if transcripts.calls != 3 {
		t.Fatalf("expected 3 write attempts, got %d", transcripts.calls)
	}
	if len(summaries.rows) != 0 {
		t.Fatal("summaries must not load after the transcript stage aborts")
	}
}
