package fields

import "fmt"

// FieldKind identifies the target type a raw cell failed to convert to
type FieldKind string

const (
	KindMoney    FieldKind = "money"
	KindPercent  FieldKind = "percent"
	KindDate     FieldKind = "date"
	KindPhone    FieldKind = "phone"
	KindEmail    FieldKind = "email"
	KindBoolean  FieldKind = "boolean"
	KindInteger  FieldKind = "integer"
	KindText     FieldKind = "text"
	KindQueryURL FieldKind = "query_url"
)

// ParseError is the typed failure every parser in this package returns.
// It carries the field kind and the offending raw text so callers can
// build a row diagnostic without re-reading the cell.
type ParseError struct {
	Kind FieldKind
	Raw  string
	Err  error
}

func (e *ParseError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("parse %s %q: %v", e.Kind, e.Raw, e.Err)
	}
	return fmt.Sprintf("parse %s %q", e.Kind, e.Raw)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func newParseError(kind FieldKind, raw string, format string, args ...any) *ParseError {
	return &ParseError{Kind: kind, Raw: raw, Err: fmt.Errorf(format, args...)}
}
