package fields

import (
	"strings"
	"time"
)

var dateLayouts = []string{
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"1/2/2006",
	"01-02-2006",
	"Jan 2, 2006",
	"January 2, 2006",
}

var dateTimeLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"01/02/2006 15:04",
	"01/02/2006 3:04 PM",
	"1/2/2006 3:04 PM",
}

var timeLayouts = []string{
	"3:04 PM",
	"3:04PM",
	"03:04 PM",
	"15:04:05",
	"15:04",
}

// ParseDate parses a calendar date. Accepts ISO 8601 and US MM/DD/YYYY forms.
// The result is midnight in loc.
func ParseDate(value string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, newParseError(KindDate, value, "empty date")
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range dateLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, newParseError(KindDate, value, "unrecognized date format")
}

// ParseDateTime parses a combined date-time string in loc
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	s := strings.TrimSpace(value)
	if s == "" {
		return time.Time{}, newParseError(KindDate, value, "empty date-time")
	}
	if loc == nil {
		loc = time.Local
	}

	for _, layout := range dateTimeLayouts {
		if t, err := time.ParseInLocation(layout, normalizeMeridiem(s), loc); err == nil {
			return t, nil
		}
	}

	// Date-only cell in a date-time column is still usable
	return ParseDate(s, loc)
}

// CombineDateTime combines separate date and time-of-day columns into one
// instant. The time part accepts 12-hour with AM/PM or 24-hour forms; an empty
// time part yields midnight.
func CombineDateTime(dateValue, timeValue string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}

	day, err := ParseDate(dateValue, loc)
	if err != nil {
		return time.Time{}, err
	}

	ts := strings.TrimSpace(timeValue)
	if ts == "" {
		return day, nil
	}

	for _, layout := range timeLayouts {
		if t, perr := time.Parse(layout, normalizeMeridiem(ts)); perr == nil {
			return time.Date(day.Year(), day.Month(), day.Day(),
				t.Hour(), t.Minute(), t.Second(), 0, loc), nil
		}
	}
	return time.Time{}, newParseError(KindDate, timeValue, "unrecognized time format")
}

// normalizeMeridiem upcases am/pm markers so Go's reference layouts match
func normalizeMeridiem(s string) string {
	lower := strings.ToLower(s)
	if strings.HasSuffix(lower, "am") || strings.HasSuffix(lower, "pm") {
		return strings.ToUpper(s)
	}
	return s
}
