package entities

// BatchStatus is the aggregate outcome of one load invocation.
type BatchStatus string

const (
	// BatchStatusSuccess means every sub-loader reported zero failed items.
	BatchStatusSuccess BatchStatus = "success"
	// BatchStatusPartial means at least one sub-loader reported failures
	// alongside successes, or the batch was cancelled mid-way.
	BatchStatusPartial BatchStatus = "partial"
	// BatchStatusFailed means a sub-loader could not connect or execute at
	// all (infrastructure failure, distinct from per-row data failures).
	BatchStatusFailed BatchStatus = "failed"
	// BatchStatusSkipped means the batch was already loaded successfully and
	// the redelivery was deduplicated.
	BatchStatusSkipped BatchStatus = "skipped"
)

// Failure records a single rejected or failed record.
type Failure struct {
	Entity     string `json:"entity"`
	Identifier string `json:"identifier"`
	Reason     string `json:"reason"`
}

// EntityResult aggregates per-entity write counts for one load invocation.
// Rejected counts caller contract violations detected before submission;
// Failed counts storage-level per-row failures.
type EntityResult struct {
	Inserted int `json:"inserted"`
	Updated  int `json:"updated"`
	Skipped  int `json:"skipped"`
	Rejected int `json:"rejected"`
	Failed   int `json:"failed"`

	Failures []Failure `json:"-"`
}

// Reject counts a contract violation for the given identifier.
func (r *EntityResult) Reject(entity, identifier, reason string) {
	r.Rejected++
	r.Failures = append(r.Failures, Failure{Entity: entity, Identifier: identifier, Reason: reason})
}

// Fail counts a storage-level failure for the given identifier.
func (r *EntityResult) Fail(entity, identifier, reason string) {
	r.Failed++
	r.Failures = append(r.Failures, Failure{Entity: entity, Identifier: identifier, Reason: reason})
}

// HasErrors reports whether any record was rejected or failed.
func (r *EntityResult) HasErrors() bool {
	return r.Rejected > 0 || r.Failed > 0
}

// RelationalResult is the relational sink's outcome. Err is set only for
// infrastructure failures; per-row failures live in the entity results.
type RelationalResult struct {
	Cities   EntityResult
	Meetings EntityResult
	Agendas  EntityResult
	Err      error
}

// Failures returns all per-row failures across entity kinds, in load order.
func (r *RelationalResult) Failures() []Failure {
	var out []Failure
	out = append(out, r.Cities.Failures...)
	out = append(out, r.Meetings.Failures...)
	out = append(out, r.Agendas.Failures...)
	return out
}

// HasErrors reports whether any record was rejected or failed.
func (r *RelationalResult) HasErrors() bool {
	return r.Cities.HasErrors() || r.Meetings.HasErrors() || r.Agendas.HasErrors()
}

// DocumentResult is the document sink's outcome.
type DocumentResult struct {
	Transcripts EntityResult
	Summaries   EntityResult
	Err         error
}

// Failures returns all per-document failures across collections.
func (r *DocumentResult) Failures() []Failure {
	var out []Failure
	out = append(out, r.Transcripts.Failures...)
	out = append(out, r.Summaries.Failures...)
	return out
}

// HasErrors reports whether any document was rejected or failed.
func (r *DocumentResult) HasErrors() bool {
	return r.Transcripts.HasErrors() || r.Summaries.HasErrors()
}

// BulkWriteResult is the outcome of one chunked document-store write.
type BulkWriteResult struct {
	Inserted int
	Updated  int
	Failed   []Failure
}
