package load

import "time"

// EntityCountsResponse represents per-entity write counts
type EntityCountsResponse struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Rejected int `json:"rejected"`
	Failed   int `json:"failed"`
}

// FailureResponse represents a single rejected or failed record
type FailureResponse struct {
	Entity     string `json:"entity"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

// RelationalReportResponse represents the relational sink's outcome
type RelationalReportResponse struct {
	Status   string               `json:"status"`
	Cities   EntityCountsResponse `json:"cities"`
	Meetings EntityCountsResponse `json:"meetings"`
	Agendas  EntityCountsResponse `json:"agendas"`
	Error    string               `json:"error,omitempty"`
}

// DocumentReportResponse represents the document sink's outcome
type DocumentReportResponse struct {
	Status      string               `json:"status"`
	Transcripts EntityCountsResponse `json:"transcripts"`
	Summaries   EntityCountsResponse `json:"summaries"`
	Error       string               `json:"error,omitempty"`
}

// LoadReportResponse represents the outcome of one load invocation
type LoadReportResponse struct {
	RunID      string                   `json:"run_id"`
	BatchID    string                   `json:"batch_id"`
	Status     string                   `json:"status"`
	Relational RelationalReportResponse `json:"relational"`
	Document   DocumentReportResponse   `json:"document"`
	Errors     []FailureResponse        `json:"errors,omitempty"`
	StartedAt  time.Time                `json:"started_at"`
	DurationMS int64                    `json:"duration_ms"`
}
