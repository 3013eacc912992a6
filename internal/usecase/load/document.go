package load

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/repositories"
)

// DocumentLoader loads transcripts and summaries into the document store.
// Documents are replaced wholesale by meeting_id, so redelivering a batch
// converges on the same state instead of accumulating duplicates.
type DocumentLoader struct {
	transcripts repositories.TranscriptRepository
	summaries   repositories.SummaryRepository
	chunkSize   int
	retry       RetryPolicy
	logger      *zap.Logger
}

// NewDocumentLoader creates a new document loader
func NewDocumentLoader(
	transcripts repositories.TranscriptRepository,
	summaries repositories.SummaryRepository,
	chunkSize int,
	retry RetryPolicy,
	logger *zap.Logger,
) *DocumentLoader {
	if chunkSize <= 0 {
		chunkSize = DefaultChunkSize
	}
	return &DocumentLoader{
		transcripts: transcripts,
		summaries:   summaries,
		chunkSize:   chunkSize,
		retry:       retry,
		logger:      logger,
	}
}

// Load writes the document portion of the batch. Transcripts and summaries
// are independent collections; a transcript failure does not stop summaries.
// Err is set only for connection-level failures.
func (l *DocumentLoader) Load(ctx context.Context, batch *entities.Batch) entities.DocumentResult {
	var res entities.DocumentResult
	stamp := time.Now().UTC()

	if err := l.loadTranscripts(ctx, batch.Transcripts, stamp, &res.Transcripts); err != nil {
		res.Err = err
		return res
	}
	if err := l.loadSummaries(ctx, batch.Summaries, stamp, &res.Summaries); err != nil {
		res.Err = err
	}

	if l.logger != nil {
		l.logger.Info("document load complete",
			zap.String("batch_id", batch.BatchID),
			zap.Int("transcripts_inserted", res.Transcripts.Inserted),
			zap.Int("transcripts_updated", res.Transcripts.Updated),
			zap.Int("summaries_inserted", res.Summaries.Inserted),
			zap.Int("summaries_updated", res.Summaries.Updated),
			zap.Int("failed", res.Transcripts.Failed+res.Summaries.Failed),
		)
	}
	return res
}

func (l *DocumentLoader) loadTranscripts(ctx context.Context, docs []*entities.TranscriptDocument, stamp time.Time, out *entities.EntityResult) error {
	var rows []*entities.TranscriptDocument
	index := make(map[string]int)
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if doc.MeetingID == "" {
			out.Reject("transcript", "", "missing meeting_id")
			continue
		}
		if doc.IndexedAt.IsZero() {
			doc.IndexedAt = stamp
		}
		if at, dup := index[doc.MeetingID]; dup {
			rows[at] = doc
			out.Skipped++
			continue
		}
		index[doc.MeetingID] = len(rows)
		rows = append(rows, doc)
	}

	for start := 0; start < len(rows); start += l.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := rows[start:min(start+l.chunkSize, len(rows))]

		var bw entities.BulkWriteResult
		if err := retryConnection(ctx, l.retry, func() error {
			var err error
			bw, err = l.transcripts.ReplaceChunk(ctx, chunk)
			return err
		}); err != nil {
			return fmt.Errorf("writing transcripts: %w", err)
		}
		out.Inserted += bw.Inserted
		out.Updated += bw.Updated
		for _, f := range bw.Failed {
			out.Fail(f.Entity, f.Identifier, f.Reason)
		}
	}
	return nil
}

func (l *DocumentLoader) loadSummaries(ctx context.Context, docs []*entities.SummaryDocument, stamp time.Time, out *entities.EntityResult) error {
	var rows []*entities.SummaryDocument
	index := make(map[string]int)
	for _, doc := range docs {
		if doc == nil {
			continue
		}
		if doc.MeetingID == "" {
			out.Reject("summary", "", "missing meeting_id")
			continue
		}
		if doc.IndexedAt.IsZero() {
			doc.IndexedAt = stamp
		}
		if at, dup := index[doc.MeetingID]; dup {
			rows[at] = doc
			out.Skipped++
			continue
		}
		index[doc.MeetingID] = len(rows)
		rows = append(rows, doc)
	}

	for start := 0; start < len(rows); start += l.chunkSize {
		if err := ctx.Err(); err != nil {
			return err
		}
		chunk := rows[start:min(start+l.chunkSize, len(rows))]

		var bw entities.BulkWriteResult
		if err := retryConnection(ctx, l.retry, func() error {
			var err error
			bw, err = l.summaries.ReplaceChunk(ctx, chunk)
			return err
		}); err != nil {
			return fmt.Errorf("writing summaries: %w", err)
		}
		out.Inserted += bw.Inserted
		out.Updated += bw.Updated
		for _, f := range bw.Failed {
			out.Fail(f.Entity, f.Identifier, f.Reason)
		}
	}
	return nil
}
