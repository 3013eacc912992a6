package load

import (
	"context"
	"errors"
	"time"

	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
)

// Report is the structured outcome of one load invocation: exactly one is
// produced per batch regardless of how loading went.
type Report struct {
	RunID      string               `json:"run_id"`
	BatchID    string               `json:"batch_id"`
	Status     entities.BatchStatus `json:"status"`
	Relational RelationalReport     `json:"relational"`
	Document   DocumentReport       `json:"document"`
	Errors     []entities.Failure   `json:"errors,omitempty"`
	StartedAt  time.Time            `json:"started_at"`
	DurationMS int64                `json:"duration_ms"`
}

// RelationalReport summarizes the relational sink's outcome.
type RelationalReport struct {
	Status   entities.BatchStatus  `json:"status"`
	Cities   entities.EntityResult `json:"cities"`
	Meetings entities.EntityResult `json:"meetings"`
	Agendas  entities.EntityResult `json:"agendas"`
	Error    string                `json:"error,omitempty"`
}

// DocumentReport summarizes the document sink's outcome.
type DocumentReport struct {
	Status      entities.BatchStatus  `json:"status"`
	Transcripts entities.EntityResult `json:"transcripts"`
	Summaries   entities.EntityResult `json:"summaries"`
	Error       string                `json:"error,omitempty"`
}

// BuildReport assembles the batch report from the two sink outcomes. The
// overall status is failed when either sink failed outright, success when
// both are clean, and partial for everything in between.
func BuildReport(runID, batchID string, rel entities.RelationalResult, doc entities.DocumentResult, startedAt time.Time, finishedAt time.Time) Report {
	relStatus := sinkStatus(rel.Err, rel.HasErrors())
	docStatus := sinkStatus(doc.Err, doc.HasErrors())

	report := Report{
		RunID:   runID,
		BatchID: batchID,
		Status:  overallStatus(relStatus, docStatus),
		Relational: RelationalReport{
			Status:   relStatus,
			Cities:   rel.Cities,
			Meetings: rel.Meetings,
			Agendas:  rel.Agendas,
		},
		Document: DocumentReport{
			Status:      docStatus,
			Transcripts: doc.Transcripts,
			Summaries:   doc.Summaries,
		},
		StartedAt:  startedAt,
		DurationMS: finishedAt.Sub(startedAt).Milliseconds(),
	}
	if rel.Err != nil {
		report.Relational.Error = rel.Err.Error()
	}
	if doc.Err != nil {
		report.Document.Error = doc.Err.Error()
	}
	report.Errors = append(report.Errors, rel.Failures()...)
	report.Errors = append(report.Errors, doc.Failures()...)
	return report
}

// SkippedReport is produced when the dedupe ledger shows the batch already
// loaded successfully; nothing is written.
func SkippedReport(runID, batchID string, startedAt time.Time) Report {
	return Report{
		RunID:      runID,
		BatchID:    batchID,
		Status:     entities.BatchStatusSkipped,
		Relational: RelationalReport{Status: entities.BatchStatusSkipped},
		Document:   DocumentReport{Status: entities.BatchStatusSkipped},
		StartedAt:  startedAt,
		DurationMS: 0,
	}
}

// sinkStatus classifies one sink's outcome. Cancellation counts as partial
// because earlier chunks have already committed.
func sinkStatus(err error, hasRowErrors bool) entities.BatchStatus {
	switch {
	case err != nil && (errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)):
		return entities.BatchStatusPartial
	case err != nil:
		return entities.BatchStatusFailed
	case hasRowErrors:
		return entities.BatchStatusPartial
	default:
		return entities.BatchStatusSuccess
	}
}

func overallStatus(rel, doc entities.BatchStatus) entities.BatchStatus {
	if rel == entities.BatchStatusFailed || doc == entities.BatchStatusFailed {
		return entities.BatchStatusFailed
	}
	if rel == entities.BatchStatusSuccess && doc == entities.BatchStatusSuccess {
		return entities.BatchStatusSuccess
	}
	return entities.BatchStatusPartial
}
