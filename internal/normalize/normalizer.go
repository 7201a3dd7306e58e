package normalize

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridewell/import-service/internal/fields"
	"github.com/ridewell/import-service/internal/mapping"
	"github.com/ridewell/import-service/internal/types"
)

// RowResult is the tagged outcome of normalizing one row: the classification,
// the entities synthesized (empty for skipped/rejected rows), and the
// diagnostics explaining both. Downstream code switches on Outcome and is
// forced to handle every case.
type RowResult struct {
	LineNumber  int
	Outcome     types.RowOutcome
	Entities    types.EntitySet
	Diagnostics []types.RowDiagnostic
}

// Normalizer applies a resolved column mapping to raw rows and synthesizes
// canonical entities. It holds no cross-row state, so rows may be normalized
// concurrently; deduplication runs afterwards over row-ordered results.
type Normalizer struct {
	kind    types.ImportKind
	mapping *mapping.ColumnMapping
	loc     *time.Location
}

// New creates a Normalizer for one batch
func New(kind types.ImportKind, m *mapping.ColumnMapping, loc *time.Location) *Normalizer {
	if loc == nil {
		loc = time.Local
	}
	return &Normalizer{kind: kind, mapping: m, loc: loc}
}

// NormalizeRow produces the RowResult for a single raw row. A bad row never
// propagates an error past this boundary.
func (n *Normalizer) NormalizeRow(row types.RawImportRow) RowResult {
	if row.IsEmpty() {
		return RowResult{
			LineNumber: row.LineNumber,
			Outcome:    types.OutcomeSkipped,
			Diagnostics: []types.RowDiagnostic{{
				LineNumber: row.LineNumber,
				Severity:   types.SeverityInfo,
				Message:    "empty row",
			}},
		}
	}

	st := &rowState{n: n, row: row}

	switch n.kind {
	case types.KindAdSpend:
		n.synthesizeAdSpend(st)
	default:
		n.synthesizeReservation(st)
	}

	return RowResult{
		LineNumber:  row.LineNumber,
		Outcome:     st.outcome(),
		Entities:    st.entities,
		Diagnostics: st.diags,
	}
}

// rowState accumulates per-row parse results and diagnostics
type rowState struct {
	n        *Normalizer
	row      types.RawImportRow
	entities types.EntitySet
	diags    []types.RowDiagnostic

	rejected  bool
	corrected bool
	skipped   bool
}

func (s *rowState) outcome() types.RowOutcome {
	switch {
	case s.rejected:
		return types.OutcomeRejected
	case s.skipped:
		return types.OutcomeSkipped
	case s.corrected:
		return types.OutcomeCorrected
	default:
		return types.OutcomeAccepted
	}
}

// skip marks the row intentionally skipped (void rows, duplicates are handled
// downstream) and discards any entities synthesized so far
func (s *rowState) skip(message string) {
	s.skipped = true
	s.entities = types.EntitySet{}
	s.diags = append(s.diags, types.RowDiagnostic{
		LineNumber: s.row.LineNumber,
		Severity:   types.SeverityInfo,
		Message:    message,
	})
}

// reject records a required-field failure; the row yields no entities
func (s *rowState) reject(field mapping.CanonicalField, raw, message string) {
	s.rejected = true
	s.entities = types.EntitySet{}
	diag := types.RowDiagnostic{
		LineNumber: s.row.LineNumber,
		Severity:   types.SeverityError,
		Field:      types.StringPtr(string(field)),
		Message:    message,
	}
	if raw != "" {
		diag.RawValue = types.StringPtr(raw)
	}
	s.diags = append(s.diags, diag)
}

// correct records an optional-field failure; the field is treated as absent
func (s *rowState) correct(field mapping.CanonicalField, raw, message string) {
	s.corrected = true
	diag := types.RowDiagnostic{
		LineNumber: s.row.LineNumber,
		Severity:   types.SeverityWarning,
		Field:      types.StringPtr(string(field)),
		Message:    message,
	}
	if raw != "" {
		diag.RawValue = types.StringPtr(raw)
	}
	s.diags = append(s.diags, diag)
}

// rawValue fetches the primary cell for a canonical field, "" when unmapped
// or absent
func (s *rowState) rawValue(field mapping.CanonicalField) string {
	header, ok := s.n.mapping.Header(field)
	if !ok {
		return ""
	}
	return s.row.Get(header)
}

// text parses a trimmed string field. Required empties reject the row.
func (s *rowState) text(field mapping.CanonicalField, required bool) string {
	v := fields.ParseString(s.rawValue(field))
	if v == "" && required {
		s.reject(field, "", fmt.Sprintf("%s is required", field))
	}
	return v
}

// money parses a money field. Empty cells are zero amounts by contract.
func (s *rowState) money(field mapping.CanonicalField, required bool) decimal.Decimal {
	raw := s.rawValue(field)
	amount, err := fields.ParseMoney(raw)
	if err != nil {
		if required {
			s.reject(field, raw, fmt.Sprintf("unparseable %s amount", field))
		} else {
			s.correct(field, raw, fmt.Sprintf("unparseable %s amount, treated as absent", field))
		}
		return decimal.Zero
	}
	return amount
}

// moneySum sums a money field across every mapped column and duplicate
// column occurrence. Fee-like columns are routinely split across several
// headers in dispatch exports. An exact-match column is treated as the
// aggregate and supersedes partial columns ("Fees" next to "Airport Fee"),
// since summing both would count the partial amounts twice.
func (s *rowState) moneySum(field mapping.CanonicalField) decimal.Decimal {
	fm, ok := s.n.mapping.Fields[field]
	if !ok {
		return decimal.Zero
	}

	matches := fm.Matches
	if len(matches) > 1 && matches[0].Confidence == 1.0 {
		s.diags = append(s.diags, types.RowDiagnostic{
			LineNumber: s.row.LineNumber,
			Severity:   types.SeverityInfo,
			Field:      types.StringPtr(string(field)),
			Message:    fmt.Sprintf("%s taken from aggregate column %q, itemized columns ignored", field, matches[0].Header),
		})
		matches = matches[:1]
	}

	total := decimal.Zero
	for _, match := range matches {
		for _, raw := range s.row.Values[match.Header] {
			amount, err := fields.ParseMoney(raw)
			if err != nil {
				s.correct(field, raw, fmt.Sprintf("unparseable %s amount, treated as absent", field))
				continue
			}
			total = total.Add(amount)
		}
	}
	return total
}

// integer parses an integer field, zero when absent
func (s *rowState) integer(field mapping.CanonicalField) int64 {
	raw := s.rawValue(field)
	n, err := fields.ParseInteger(raw)
	if err != nil {
		s.correct(field, raw, fmt.Sprintf("unparseable %s, treated as absent", field))
		return 0
	}
	return n
}

// dateTime resolves a possibly-composite date-time field: a whole column, or
// a date column optionally combined with a time-of-day column
func (s *rowState) dateTime(field mapping.CanonicalField, required bool) (time.Time, bool) {
	m := s.n.mapping

	if header, ok := m.PartHeader(field, mapping.PartDate); ok {
		dateRaw := s.row.Get(header)
		timeRaw := ""
		if th, ok := m.PartHeader(field, mapping.PartTime); ok {
			timeRaw = s.row.Get(th)
		}
		if dateRaw == "" && timeRaw == "" {
			return s.missingDateTime(field, required)
		}
		t, err := fields.CombineDateTime(dateRaw, timeRaw, s.n.loc)
		if err != nil {
			return s.badDateTime(field, dateRaw+" "+timeRaw, required)
		}
		return t, true
	}

	if header, ok := m.PartHeader(field, mapping.PartWhole); ok {
		raw := s.row.Get(header)
		if raw == "" {
			return s.missingDateTime(field, required)
		}
		t, err := fields.ParseDateTime(raw, s.n.loc)
		if err != nil {
			return s.badDateTime(field, raw, required)
		}
		return t, true
	}

	return s.missingDateTime(field, required)
}

// date resolves a plain date field
func (s *rowState) date(field mapping.CanonicalField, required bool) (time.Time, bool) {
	raw := s.rawValue(field)
	if raw == "" {
		return s.missingDateTime(field, required)
	}
	t, err := fields.ParseDate(raw, s.n.loc)
	if err != nil {
		return s.badDateTime(field, raw, required)
	}
	return t, true
}

func (s *rowState) missingDateTime(field mapping.CanonicalField, required bool) (time.Time, bool) {
	if required {
		s.reject(field, "", fmt.Sprintf("%s is required", field))
	}
	return time.Time{}, false
}

func (s *rowState) badDateTime(field mapping.CanonicalField, raw string, required bool) (time.Time, bool) {
	if required {
		s.reject(field, raw, fmt.Sprintf("unparseable %s", field))
	} else {
		s.correct(field, raw, fmt.Sprintf("unparseable %s, treated as absent", field))
	}
	return time.Time{}, false
}
