package fields

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestParsePhone tests phone normalization
func TestParsePhone(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "US formatted", input: "(212) 555-0134", expected: "2125550134"},
		{name: "Dashes", input: "212-555-0134", expected: "2125550134"},
		{name: "International plus kept", input: "+1 212 555 0134", expected: "+12125550134"},
		{name: "Dots", input: "212.555.0134", expected: "2125550134"},
		{name: "Too short", input: "555-01", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
		{name: "Letters only", input: "call me", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParsePhone(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestParseEmail tests email shape validation and normalization
func TestParseEmail(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		wantErr  bool
	}{
		{name: "Lowercased", input: "Jane.Doe@Example.COM", expected: "jane.doe@example.com"},
		{name: "Trimmed", input: "  rider@example.com ", expected: "rider@example.com"},
		{name: "Missing at", input: "rider.example.com", wantErr: true},
		{name: "Missing domain dot", input: "rider@localhost", wantErr: true},
		{name: "Missing local part", input: "@example.com", wantErr: true},
		{name: "Trailing dot domain", input: "rider@example.", wantErr: true},
		{name: "Empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseEmail(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

// TestParseBoolean tests spreadsheet boolean forms
func TestParseBoolean(t *testing.T) {
	trueForms := []string{"yes", "YES", "true", "True", "1", "y", " Y "}
	for _, v := range trueForms {
		got, err := ParseBoolean(v)
		require.NoError(t, err, "input %q", v)
		assert.True(t, got, "input %q", v)
	}

	falseForms := []string{"no", "NO", "false", "False", "0", "n"}
	for _, v := range falseForms {
		got, err := ParseBoolean(v)
		require.NoError(t, err, "input %q", v)
		assert.False(t, got, "input %q", v)
	}

	_, err := ParseBoolean("maybe")
	assert.Error(t, err)
	_, err = ParseBoolean("")
	assert.Error(t, err)
}

// TestParseQueryParams tests attribution parameter extraction. Non-URL cells
// must yield an empty map, never an error.
func TestParseQueryParams(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected map[string]string
	}{
		{
			name:  "Full UTM set",
			input: "https://book.example.com/?utm_source=google&utm_medium=cpc&utm_campaign=airport",
			expected: map[string]string{
				"utm_source":   "google",
				"utm_medium":   "cpc",
				"utm_campaign": "airport",
			},
		},
		{
			name:     "Bare text",
			input:    "walk-in",
			expected: map[string]string{},
		},
		{
			name:     "URL without query",
			input:    "https://book.example.com/",
			expected: map[string]string{},
		},
		{
			name:     "Empty",
			input:    "",
			expected: map[string]string{},
		},
		{
			name:     "Empty values dropped",
			input:    "https://x.example.com/?utm_source=&utm_medium=cpc",
			expected: map[string]string{"utm_medium": "cpc"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, ParseQueryParams(tt.input))
		})
	}
}
