package presenter

import (
	loaddto "github.com/ashok-rai/meetingbank-pipeline/internal/adapter/dto/load"
	"github.com/ashok-rai/meetingbank-pipeline/internal/domain/entities"
	loadusecase "github.com/ashok-rai/meetingbank-pipeline/internal/usecase/load"
)

// LoadReport maps a batch outcome report to its response shape
func LoadReport(report loadusecase.Report) loaddto.LoadReportResponse {
	return loaddto.LoadReportResponse{
		RunID:   report.RunID,
		BatchID: report.BatchID,
		Status:  string(report.Status),
		Relational: loaddto.RelationalReportResponse{
			Status:   string(report.Relational.Status),
			Cities:   entityCounts(report.Relational.Cities),
			Meetings: entityCounts(report.Relational.Meetings),
			Agendas:  entityCounts(report.Relational.Agendas),
			Error:    report.Relational.Error,
		},
		Document: loaddto.DocumentReportResponse{
			Status:      string(report.Document.Status),
			Transcripts: entityCounts(report.Document.Transcripts),
			Summaries:   entityCounts(report.Document.Summaries),
			Error:       report.Document.Error,
		},
		Errors:     failures(report.Errors),
		StartedAt:  report.StartedAt,
		DurationMS: report.DurationMS,
	}
}

func entityCounts(r entities.EntityResult) loaddto.EntityCountsResponse {
	return loaddto.EntityCountsResponse{
		Inserted: r.Inserted,
		Updated:  r.Updated,
		Skipped:  r.Skipped,
		Rejected: r.Rejected,
		Failed:   r.Failed,
	}
}

func failures(fs []entities.Failure) []loaddto.FailureResponse {
	if len(fs) == 0 {
		return nil
	}
	out := make([]loaddto.FailureResponse, 0, len(fs))
	for _, f := range fs {
		out = append(out, loaddto.FailureResponse{
			Entity:     f.Entity,
			Identifier: f.Identifier,
			Reason:     f.Reason,
		})
	}
	return out
}
