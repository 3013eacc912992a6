package load

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	apperrors "github.com/ashok-rai/meetingbank-pipeline/errors"
	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/repositories"
)

// RelationalSink is the relational half of a batch load.
type RelationalSink interface {
	Load(ctx context.Context, batch *entities.Batch) entities.RelationalResult
}

// DocumentSink is the document-store half of a batch load.
type DocumentSink interface {
	Load(ctx context.Context, batch *entities.Batch) entities.DocumentResult
}

// Ledger remembers batch outcomes so a redelivered batch that already loaded
// successfully is skipped instead of rewritten.
type Ledger interface {
	LastStatus(ctx context.Context, batchID string) (string, bool, error)
	Record(ctx context.Context, batchID, status string, ttl time.Duration) error
}

// Coordinator runs both sinks for a batch and assembles the outcome report.
// The sinks are isolated from each other: a document-store outage does not
// stop the relational load, and vice versa.
type Coordinator struct {
	relational RelationalSink
	document   DocumentSink
	ledger     Ledger
	runs       repositories.LoadRunRepository
	ledgerTTL  time.Duration
	logger     *zap.Logger
}

// NewCoordinator creates a new load coordinator. ledger and runs are
// optional; without them dedupe and run auditing are disabled.
func NewCoordinator(
	relational RelationalSink,
	document DocumentSink,
	ledger Ledger,
	runs repositories.LoadRunRepository,
	ledgerTTL time.Duration,
	logger *zap.Logger,
) *Coordinator {
	return &Coordinator{
		relational: relational,
		document:   document,
		ledger:     ledger,
		runs:       runs,
		ledgerTTL:  ledgerTTL,
		logger:     logger,
	}
}

// LoadBatch loads one batch into both stores and returns its report. The
// error return covers only caller contract violations; load failures are
// reported through the report's status, never as an error.
func (c *Coordinator) LoadBatch(ctx context.Context, batch *entities.Batch) (Report, error) {
	if batch == nil {
		return Report{}, apperrors.ErrBatchInvalid(errors.New("batch cannot be nil"))
	}
	if batch.BatchID == "" {
		return Report{}, apperrors.ErrBatchInvalid(errors.New("batch_id is required"))
	}

	runID := uuid.New().String()
	startedAt := time.Now().UTC()

	if c.ledger != nil {
		status, found, err := c.ledger.LastStatus(ctx, batch.BatchID)
		if err != nil {
			if c.logger != nil {
				c.logger.Warn("ledger lookup failed, loading anyway",
					zap.String("batch_id", batch.BatchID),
					zap.Error(err),
				)
			}
		} else if found && status == string(entities.BatchStatusSuccess) {
			if c.logger != nil {
				c.logger.Info("batch already loaded, skipping",
					zap.String("batch_id", batch.BatchID),
					zap.String("run_id", runID),
				)
			}
			report := SkippedReport(runID, batch.BatchID, startedAt)
			c.recordRun(ctx, report)
			return report, nil
		}
	}

	if c.logger != nil {
		c.logger.Info("loading batch",
			zap.String("batch_id", batch.BatchID),
			zap.String("run_id", runID),
			zap.Int("records", batch.Size()),
		)
	}

	var (
		wg  sync.WaitGroup
		rel entities.RelationalResult
		doc entities.DocumentResult
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				rel.Err = fmt.Errorf("relational sink panic: %v", r)
			}
		}()
		rel = c.relational.Load(ctx, batch)
	}()
	go func() {
		defer wg.Done()
		defer func() {
			if r := recover(); r != nil {
				doc.Err = fmt.Errorf("document sink panic: %v", r)
			}
		}()
		doc = c.document.Load(ctx, batch)
	}()
	wg.Wait()

	report := BuildReport(runID, batch.BatchID, rel, doc, startedAt, time.Now().UTC())

	if c.ledger != nil {
		if err := c.ledger.Record(ctx, batch.BatchID, string(report.Status), c.ledgerTTL); err != nil && c.logger != nil {
			c.logger.Warn("ledger record failed",
				zap.String("batch_id", batch.BatchID),
				zap.Error(err),
			)
		}
	}
	c.recordRun(ctx, report)

	if c.logger != nil {
		c.logger.Info("batch load complete",
			zap.String("batch_id", batch.BatchID),
			zap.String("run_id", runID),
			zap.String("status", string(report.Status)),
			zap.Int64("duration_ms", report.DurationMS),
			zap.Int("errors", len(report.Errors)),
		)
	}
	return report, nil
}

// recordRun persists the audit row. Audit failures are logged, never allowed
// to change the batch outcome.
func (c *Coordinator) recordRun(ctx context.Context, report Report) {
	if c.runs == nil {
		return
	}
	runID, err := uuid.Parse(report.RunID)
	if err != nil {
		runID = uuid.New()
	}
	raw, err := json.Marshal(report)
	if err != nil {
		if c.logger != nil {
			c.logger.Warn("marshaling run report failed", zap.Error(err))
		}
		return
	}
	run := &entities.LoadRun{
		RunID:   runID,
		BatchID: report.BatchID,
		Status:  string(report.Status),
		Report:  datatypes.JSON(raw),
	}
	if err := c.runs.Create(ctx, run); err != nil && c.logger != nil {
		c.logger.Warn("persisting run audit row failed",
			zap.String("batch_id", report.BatchID),
			zap.Error(err),
		)
	}
}
