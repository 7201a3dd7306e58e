package mapping

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/rs/zerolog/log"

	"github.com/ridewell/import-service/internal/types"
)

// MinConfidence is the score below which a header is not considered a match
const MinConfidence = 0.5

// containmentPenalty discounts substring matches relative to exact ones
const containmentPenalty = 0.75

// ErrRequiredFieldUnmapped is returned when a required canonical field has no
// resolvable column and no override. This is a configuration error surfaced
// before any row is processed.
var ErrRequiredFieldUnmapped = errors.New("required field has no column mapping")

// HeaderMatch is one raw header considered to satisfy a canonical field
type HeaderMatch struct {
	Header     string    `json:"header"`
	Part       FieldPart `json:"part"`
	Confidence float64   `json:"confidence"`
}

// FieldMapping is the resolved mapping for one canonical field. Matches are
// ordered by confidence; alternates beyond the primary are retained for
// diagnostics.
type FieldMapping struct {
	Field      CanonicalField `json:"field"`
	Matches    []HeaderMatch  `json:"matches"`
	Overridden bool           `json:"overridden,omitempty"`
}

// ColumnMapping maps every canonical field of an import kind to the raw
// headers that supply it. Built once per batch.
type ColumnMapping struct {
	Kind     types.ImportKind                 `json:"kind"`
	Fields   map[CanonicalField]*FieldMapping `json:"fields"`
	Unmapped []CanonicalField                 `json:"unmapped,omitempty"`
}

// IsMapped reports whether a canonical field resolved to at least one header
func (m *ColumnMapping) IsMapped(field CanonicalField) bool {
	fm, ok := m.Fields[field]
	return ok && len(fm.Matches) > 0
}

// Header returns the primary header for a field
func (m *ColumnMapping) Header(field CanonicalField) (string, bool) {
	fm, ok := m.Fields[field]
	if !ok || len(fm.Matches) == 0 {
		return "", false
	}
	return fm.Matches[0].Header, true
}

// PartHeader returns the best-confidence header carrying the given part of a
// composite field
func (m *ColumnMapping) PartHeader(field CanonicalField, part FieldPart) (string, bool) {
	fm, ok := m.Fields[field]
	if !ok {
		return "", false
	}
	for _, match := range fm.Matches {
		if match.Part == part {
			return match.Header, true
		}
	}
	return "", false
}

// Build infers the column mapping for a header row. Overrides always win over
// inference for the same canonical field; an override naming an unknown field
// or a header absent from the file is a configuration error.
func Build(kind types.ImportKind, headers []string, overrides map[CanonicalField]string) (*ColumnMapping, error) {
	result := &ColumnMapping{
		Kind:   kind,
		Fields: make(map[CanonicalField]*FieldMapping),
	}

	known := make(map[CanonicalField]bool)
	for _, fs := range SynonymTable(kind) {
		known[fs.field] = true
	}
	for field := range overrides {
		if !known[field] {
			return nil, fmt.Errorf("override names unknown field %q for kind %s (known fields: %s)",
				field, kind, fieldNames(kind))
		}
	}

	normalized := make([]string, len(headers))
	for i, h := range headers {
		normalized[i] = NormalizeHeader(h)
	}

	for _, fs := range SynonymTable(kind) {
		fm := &FieldMapping{Field: fs.field}

		if override, ok := overrides[fs.field]; ok {
			idx := headerIndex(headers, override)
			if idx < 0 {
				return nil, fmt.Errorf("override for %s names header %q not present in file", fs.field, override)
			}
			fm.Matches = []HeaderMatch{{Header: headers[idx], Part: PartWhole, Confidence: 1.0}}
			fm.Overridden = true
			result.Fields[fs.field] = fm
			continue
		}

		fm.Matches = matchField(fs, headers, normalized)
		result.Fields[fs.field] = fm

		if len(fm.Matches) == 0 {
			result.Unmapped = append(result.Unmapped, fs.field)
		}
	}

	var missing []CanonicalField
	for _, fs := range SynonymTable(kind) {
		if fs.required && !result.IsMapped(fs.field) {
			missing = append(missing, fs.field)
		}
	}
	if len(missing) > 0 {
		names := make([]string, len(missing))
		for i, f := range missing {
			names[i] = string(f)
		}
		return nil, fmt.Errorf("%w: %s", ErrRequiredFieldUnmapped, strings.Join(names, ", "))
	}

	log.Debug().
		Str("kind", string(kind)).
		Int("headers", len(headers)).
		Int("unmapped", len(result.Unmapped)).
		Msg("Column mapping resolved")

	return result, nil
}

// matchField scores every header against one field's synonym list. The result
// is ordered by confidence, tie-broken on header name so the mapping is
// independent of physical column order, and reduced to the best match per
// part so a composite field keeps at most one date and one time column.
func matchField(fs fieldSynonyms, headers, normalized []string) []HeaderMatch {
	var candidates []HeaderMatch

	for i, norm := range normalized {
		if norm == "" {
			continue
		}
		part, confidence := scoreHeader(norm, fs.entries)
		if confidence >= MinConfidence {
			candidates = append(candidates, HeaderMatch{
				Header:     headers[i],
				Part:       part,
				Confidence: confidence,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		if candidates[i].Confidence != candidates[j].Confidence {
			return candidates[i].Confidence > candidates[j].Confidence
		}
		return candidates[i].Header < candidates[j].Header
	})

	// Keep the best candidate per part, alternates after the primaries
	seen := make(map[FieldPart]bool)
	var primaries, alternates []HeaderMatch
	for _, c := range candidates {
		if seen[c.Part] {
			alternates = append(alternates, c)
			continue
		}
		seen[c.Part] = true
		primaries = append(primaries, c)
	}
	return append(primaries, alternates...)
}

// scoreHeader returns the best synonym score for one normalized header
func scoreHeader(norm string, entries []synonym) (FieldPart, float64) {
	part := PartWhole
	best := 0.0

	for _, syn := range entries {
		pattern := NormalizeHeader(syn.pattern)
		var score float64
		switch {
		case norm == pattern:
			score = syn.weight
		case len(pattern) >= 4 && strings.Contains(norm, pattern):
			score = syn.weight * containmentPenalty
		case len(norm) >= 4 && strings.Contains(pattern, norm):
			score = syn.weight * containmentPenalty
		}
		if score > best {
			best = score
			part = syn.part
		}
	}
	return part, best
}

// fieldNames renders the canonical field list of a kind for error messages
func fieldNames(kind types.ImportKind) string {
	fields := Fields(kind)
	names := make([]string, len(fields))
	for i, f := range fields {
		names[i] = string(f)
	}
	return strings.Join(names, ", ")
}

// headerIndex finds a header by exact, then case-insensitive, comparison
func headerIndex(headers []string, name string) int {
	for i, h := range headers {
		if h == name {
			return i
		}
	}
	for i, h := range headers {
		if strings.EqualFold(strings.TrimSpace(h), strings.TrimSpace(name)) {
			return i
		}
	}
	return -1
}
