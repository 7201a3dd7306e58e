package fields

import (
	"net/url"
	"strings"
	"unicode"
)

const minPhoneDigits = 7

// ParsePhone strips formatting punctuation from a phone number, preserving a
// leading international "+". Length is only checked against a minimum digit
// count; full validation belongs to whoever dials it.
func ParsePhone(value string) (string, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return "", newParseError(KindPhone, value, "empty phone number")
	}

	var b strings.Builder
	for i, r := range s {
		if r == '+' && i == 0 {
			b.WriteRune(r)
			continue
		}
		if unicode.IsDigit(r) {
			b.WriteRune(r)
		}
	}

	digits := strings.TrimPrefix(b.String(), "+")
	if len(digits) < minPhoneDigits {
		return "", newParseError(KindPhone, value, "fewer than %d digits", minPhoneDigits)
	}
	return b.String(), nil
}

// ParseEmail trims and lowercases an email address. Only shape is checked:
// a local part, an "@", and a domain segment containing a dot.
func ParseEmail(value string) (string, error) {
	s := strings.ToLower(strings.TrimSpace(value))
	if s == "" {
		return "", newParseError(KindEmail, value, "empty email")
	}

	at := strings.Index(s, "@")
	if at <= 0 || at == len(s)-1 {
		return "", newParseError(KindEmail, value, "missing local part or domain")
	}
	domain := s[at+1:]
	if !strings.Contains(domain, ".") || strings.HasPrefix(domain, ".") || strings.HasSuffix(domain, ".") {
		return "", newParseError(KindEmail, value, "invalid domain %q", domain)
	}
	return s, nil
}

// ParseBoolean recognizes the usual spreadsheet booleans, case-insensitively
func ParseBoolean(value string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "yes", "true", "1", "y":
		return true, nil
	case "no", "false", "0", "n":
		return false, nil
	}
	return false, newParseError(KindBoolean, value, "unrecognized boolean")
}

// ParseString is identity with trim
func ParseString(value string) string {
	return strings.TrimSpace(value)
}

// ParseQueryParams extracts key/value query parameters from a URL-shaped cell.
// A cell that is not URL-shaped yields an empty map, never an error, because
// attribution data is informational.
func ParseQueryParams(value string) map[string]string {
	params := make(map[string]string)

	s := strings.TrimSpace(value)
	if s == "" {
		return params
	}

	u, err := url.Parse(s)
	if err != nil {
		return params
	}
	// Bare text parses as a URL with an empty query; require one
	if u.RawQuery == "" {
		return params
	}

	for key, vals := range u.Query() {
		if len(vals) > 0 && vals[0] != "" {
			params[key] = vals[0]
		}
	}
	return params
}
