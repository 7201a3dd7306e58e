package fields

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParseMoney tests money parsing across real export formats
func TestParseMoney(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "Dollar with thousands separator", input: "$1,250.00", expected: "1250"},
		{name: "Plain integer", input: "1250", expected: "1250"},
		{name: "Plain decimal", input: "89.50", expected: "89.5"},
		{name: "Accounting negative", input: "($125.00)", expected: "-125"},
		{name: "Minus sign negative", input: "-42.10", expected: "-42.1"},
		{name: "Empty is zero", input: "", expected: "0"},
		{name: "Whitespace only is zero", input: "   ", expected: "0"},
		{name: "Euro symbol", input: "€99.99", expected: "99.99"},
		{name: "Pound symbol", input: "£10.00", expected: "10"},
		{name: "Space as thousands separator", input: "1 299.50", expected: "1299.5"},
		{name: "Trailing currency code", input: "125.00 USD", expected: "125"},
		{name: "Leading currency code", input: "CAD 125.00", expected: "125"},
		{name: "Symbol inside parens", input: "($1,000.50)", expected: "-1000.5"},
		{name: "Non-numeric", input: "abc", wantErr: true},
		{name: "Symbol only", input: "$", wantErr: true},
		{name: "Double decimal point", input: "1.2.3", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseMoney(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, KindMoney, perr.Kind)
				assert.Equal(t, tt.input, perr.Raw)
				return
			}
			require.NoError(t, err)
			expected, err := decimal.NewFromString(tt.expected)
			require.NoError(t, err)
			assert.True(t, got.Equal(expected), "got %s, want %s", got, expected)
		})
	}
}

// TestParsePercent tests percentage-to-fraction conversion
func TestParsePercent(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "Explicit percent", input: "20%", expected: "0.2"},
		{name: "Fractional passthrough", input: "0.2", expected: "0.2"},
		{name: "Whole number without sign", input: "15", expected: "15"},
		{name: "Percent with space", input: "12.5 %", expected: "0.125"},
		{name: "Empty is zero", input: "", expected: "0"},
		{name: "Garbage", input: "n/a", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePercent(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			expected, err := decimal.NewFromString(tt.expected)
			require.NoError(t, err)
			assert.True(t, got.Equal(expected), "got %s, want %s", got, expected)
		})
	}
}

// TestParseInteger tests integer parsing with separator tolerance
func TestParseInteger(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected int64
		wantErr  bool
	}{
		{name: "Plain", input: "42", expected: 42},
		{name: "Thousands separator", input: "1,234,567", expected: 1234567},
		{name: "Space separator", input: "12 345", expected: 12345},
		{name: "Negative", input: "-7", expected: -7},
		{name: "Empty is zero", input: "", expected: 0},
		{name: "Decimal is not an integer", input: "12.5", wantErr: true},
		{name: "Garbage", input: "many", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseInteger(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				var perr *ParseError
				require.True(t, errors.As(err, &perr))
				assert.Equal(t, KindInteger, perr.Kind)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
