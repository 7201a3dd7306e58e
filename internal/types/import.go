package types

import "time"

// ImportKind represents the closed set of supported source exports
type ImportKind string

const (
	KindReservations ImportKind = "reservations"
	KindAdSpend      ImportKind = "adspend"
)

// IsValidImportKind reports whether s names a supported import kind
func IsValidImportKind(s string) bool {
	switch ImportKind(s) {
	case KindReservations, KindAdSpend:
		return true
	}
	return false
}

// ImportKinds lists all supported import kinds
var ImportKinds = []ImportKind{KindReservations, KindAdSpend}

// FileType represents supported file types
type FileType string

const (
	FileTypeCSV  FileType = "csv"
	FileTypeXLSX FileType = "xlsx"
)

// RawImportRow is one data row of an uploaded export. Values are keyed by the
// raw header string; duplicate headers keep their values in column order.
type RawImportRow struct {
	LineNumber int                 `json:"lineNumber"` // 1-based, header is line 1
	Values     map[string][]string `json:"values"`
}

// Get returns the first value for a raw header, or "" when absent
func (r RawImportRow) Get(header string) string {
	vals := r.Values[header]
	if len(vals) == 0 {
		return ""
	}
	return vals[0]
}

// IsEmpty reports whether every cell in the row is blank
func (r RawImportRow) IsEmpty() bool {
	for _, vals := range r.Values {
		for _, v := range vals {
			if v != "" {
				return false
			}
		}
	}
	return true
}

// RawImportBatch is one uploaded file, immutable once built
type RawImportBatch struct {
	ID      string         `json:"id"`
	Kind    ImportKind     `json:"kind"`
	Headers []string       `json:"headers"`
	Rows    []RawImportRow `json:"rows"`
}

// RowOutcome is a row's final classification after normalization
type RowOutcome string

const (
	OutcomeAccepted  RowOutcome = "accepted"
	OutcomeCorrected RowOutcome = "corrected"
	OutcomeSkipped   RowOutcome = "skipped"
	OutcomeRejected  RowOutcome = "rejected"
)

// DiagnosticSeverity represents severity levels for row diagnostics
type DiagnosticSeverity string

const (
	SeverityInfo    DiagnosticSeverity = "info"
	SeverityWarning DiagnosticSeverity = "warning"
	SeverityError   DiagnosticSeverity = "error"
)

// RowDiagnostic explains one aspect of a row's fate
type RowDiagnostic struct {
	LineNumber int                `json:"lineNumber"`
	Severity   DiagnosticSeverity `json:"severity"`
	Field      *string            `json:"field,omitempty"`
	Message    string             `json:"message"`
	RawValue   *string            `json:"rawValue,omitempty"`
}

// ImportAuditReport is the per-batch audit summary, the sole contract between
// the pipeline and anything that persists or displays results
type ImportAuditReport struct {
	BatchID     string          `json:"batchId"`
	Kind        ImportKind      `json:"kind"`
	TotalRows   int             `json:"totalRows"`
	Accepted    int             `json:"accepted"`
	Corrected   int             `json:"corrected"`
	Skipped     int             `json:"skipped"`
	Rejected    int             `json:"rejected"`
	Diagnostics []RowDiagnostic `json:"diagnostics"`
	StartedAt   time.Time       `json:"startedAt"`
	FinishedAt  time.Time       `json:"finishedAt"`
}

// StringPtr returns a pointer to the given string
func StringPtr(s string) *string {
	return &s
}

// TimePtr returns a pointer to the given time
func TimePtr(t time.Time) *time.Time {
	return &t
}
