package csv

import (
	"strings"
	"unicode/utf8"
)

// Delimiter represents supported CSV delimiters
type Delimiter string

const (
	DelimiterComma     Delimiter = ","
	DelimiterSemicolon Delimiter = ";"
	DelimiterTab       Delimiter = "\t"
)

// DetectDelimiter detects the delimiter by scoring count consistency across
// the first few non-empty lines: the right delimiter appears the same number
// of times on every line.
func DetectDelimiter(content string) Delimiter {
	sample := make([]string, 0, 5)
	for _, line := range strings.Split(content, "\n") {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			sample = append(sample, trimmed)
			if len(sample) >= 5 {
				break
			}
		}
	}
	if len(sample) == 0 {
		return DelimiterComma
	}

	best := DelimiterComma
	bestScore := 0.0

	for _, delim := range []Delimiter{DelimiterComma, DelimiterSemicolon, DelimiterTab} {
		sum := 0
		counts := make([]int, 0, len(sample))
		for _, line := range sample {
			c := strings.Count(line, string(delim))
			counts = append(counts, c)
			sum += c
		}

		avg := float64(sum) / float64(len(counts))
		if avg == 0 {
			continue
		}

		variance := 0.0
		for _, c := range counts {
			diff := float64(c) - avg
			variance += diff * diff
		}
		variance /= float64(len(counts))

		score := avg / (1.0 + variance)
		if score > bestScore {
			bestScore = score
			best = delim
		}
	}
	return best
}

// SplitLine splits one CSV line into fields, honoring quoted fields and
// doubled-quote escapes
func SplitLine(line string, delimiter rune, quote rune) []string {
	fields := make([]string, 0, 10)
	var current strings.Builder
	inQuotes := false

	for i := 0; i < len(line); {
		r, width := utf8.DecodeRuneInString(line[i:])

		if inQuotes {
			if r == quote {
				if next, nw := utf8.DecodeRuneInString(line[i+width:]); next == quote {
					current.WriteRune(quote)
					i += width + nw
					continue
				}
				inQuotes = false
				i += width
				continue
			}
			current.WriteRune(r)
			i += width
			continue
		}

		switch r {
		case quote:
			inQuotes = true
		case delimiter:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteRune(r)
		}
		i += width
	}

	fields = append(fields, current.String())
	return fields
}
