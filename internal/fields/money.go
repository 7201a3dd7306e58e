package fields

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

var currencyCodeRe = regexp.MustCompile(`(?i)^\s*(USD|CAD|EUR|GBP)\s*|\s*(USD|CAD|EUR|GBP)\s*$`)

// ParseMoney parses a money string into a decimal amount.
// Handles "$1,250.00", "1250", "1 299.50", trailing currency codes, and the
// accounting convention of parenthesized negatives: "($125.00)" -> -125.00.
// Empty input is a zero amount, not an error.
func ParseMoney(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	// Accounting negative: (125.00)
	negative := false
	if strings.HasPrefix(cleaned, "(") && strings.HasSuffix(cleaned, ")") {
		negative = true
		cleaned = cleaned[1 : len(cleaned)-1]
	}

	cleaned = currencyCodeRe.ReplaceAllString(cleaned, "")

	// Strip currency symbols, thousands separators and spacing
	cleaned = strings.Map(func(r rune) rune {
		switch r {
		case '$', '€', '£', '¥', ',', ' ', '\u00a0': // incl. non-breaking space
			return -1
		}
		return r
	}, cleaned)

	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return decimal.Zero, newParseError(KindMoney, value, "no numeric value found")
	}

	if strings.HasPrefix(cleaned, "-") {
		negative = !negative
		cleaned = cleaned[1:]
	}

	amount, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, newParseError(KindMoney, value, "invalid amount: %v", err)
	}

	if negative {
		amount = amount.Neg()
	}
	return amount, nil
}

// ParsePercent parses a percentage into a fraction. "20%" -> 0.2, while an
// already-fractional "0.2" passes through unchanged. Empty input is zero.
func ParsePercent(value string) (decimal.Decimal, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return decimal.Zero, nil
	}

	explicit := strings.HasSuffix(cleaned, "%")
	cleaned = strings.TrimSpace(strings.TrimSuffix(cleaned, "%"))

	frac, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, newParseError(KindPercent, value, "invalid percentage: %v", err)
	}

	if explicit {
		frac = frac.Div(decimal.NewFromInt(100))
	}
	return frac, nil
}

// ParseInteger parses an integer with thousands-separator tolerance.
// Empty input is zero.
func ParseInteger(value string) (int64, error) {
	cleaned := strings.TrimSpace(value)
	if cleaned == "" {
		return 0, nil
	}

	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.ReplaceAll(cleaned, " ", "")

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return 0, newParseError(KindInteger, value, "invalid integer: %v", err)
	}
	return n, nil
}
