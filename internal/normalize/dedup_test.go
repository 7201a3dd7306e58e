package normalize

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBookingKeyStability verifies the key survives cosmetic drift between
// re-exports of the same trip
func TestBookingKeyStability(t *testing.T) {
	pickup := time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)
	fare := decimal.NewFromFloat(125.50)

	base := BookingKey(pickup, "jane@example.com", fare, "123 Main St, Springfield")

	tests := []struct {
		name       string
		pickup     time.Time
		customer   string
		fare       decimal.Decimal
		address    string
		expectSame bool
	}{
		{
			name:   "Identical fields",
			pickup: pickup, customer: "jane@example.com", fare: fare,
			address: "123 Main St, Springfield", expectSame: true,
		},
		{
			name:   "Customer case drift",
			pickup: pickup, customer: "Jane@Example.COM", fare: fare,
			address: "123 Main St, Springfield", expectSame: true,
		},
		{
			name:   "Address whitespace drift",
			pickup: pickup, customer: "jane@example.com", fare: fare,
			address: "  123  Main St,   Springfield ", expectSame: true,
		},
		{
			name:   "Same instant different zone",
			pickup: pickup.In(time.FixedZone("EST", -5*3600)), customer: "jane@example.com", fare: fare,
			address: "123 Main St, Springfield", expectSame: true,
		},
		{
			name:   "Fare trailing zeros",
			pickup: pickup, customer: "jane@example.com", fare: decimal.NewFromFloat(125.5),
			address: "123 Main St, Springfield", expectSame: true,
		},
		{
			name:   "Different fare",
			pickup: pickup, customer: "jane@example.com", fare: decimal.NewFromFloat(126),
			address: "123 Main St, Springfield", expectSame: false,
		},
		{
			name:   "Different pickup instant",
			pickup: pickup.Add(time.Minute), customer: "jane@example.com", fare: fare,
			address: "123 Main St, Springfield", expectSame: false,
		},
		{
			name:   "Different customer",
			pickup: pickup, customer: "john@example.com", fare: fare,
			address: "123 Main St, Springfield", expectSame: false,
		},
		{
			name:   "Different address",
			pickup: pickup, customer: "jane@example.com", fare: fare,
			address: "456 Oak Ave, Springfield", expectSame: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			key := BookingKey(tt.pickup, tt.customer, tt.fare, tt.address)
			assert.Len(t, key, 64)
			if tt.expectSame {
				assert.Equal(t, base, key)
			} else {
				assert.NotEqual(t, base, key)
			}
		})
	}
}

// TestKeyDomainSeparation verifies different entity kinds never collide even
// with overlapping components
func TestKeyDomainSeparation(t *testing.T) {
	bookingKey := "abc123"
	week := "2026-W03"

	contribution := PayoutContributionKey("drv-9", week, bookingKey)
	merged := PayoutKey("drv-9", week)
	affiliate := AffiliateKey("drv-9", bookingKey)

	assert.NotEqual(t, contribution, merged)
	assert.NotEqual(t, contribution, affiliate)
	assert.NotEqual(t, merged, affiliate)
}

// TestAdSpendKey verifies the (platform, campaign, day) identity
func TestAdSpendKey(t *testing.T) {
	day := time.Date(2026, 1, 15, 0, 0, 0, 0, time.UTC)

	base := AdSpendKey("Google Ads", "Airport Transfers", day)
	assert.Equal(t, base, AdSpendKey("google ads", "airport  transfers", day))
	assert.NotEqual(t, base, AdSpendKey("Google Ads", "Airport Transfers", day.AddDate(0, 0, 1)))
	assert.NotEqual(t, base, AdSpendKey("Meta", "Airport Transfers", day))
}

// TestNormalizePlate tests plate canonicalization
func TestNormalizePlate(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"abc-1234", "ABC1234"},
		{"ABC 1234", "ABC1234"},
		{" abc.1234 ", "ABC1234"},
		{"ABC1234", "ABC1234"},
		{"", ""},
		{"--- ", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.expected, NormalizePlate(tt.input), "input %q", tt.input)
	}
}

// TestPayPeriodFor tests ISO week bucketing with Monday boundaries
func TestPayPeriodFor(t *testing.T) {
	tests := []struct {
		name      string
		input     time.Time
		wantWeek  string
		wantStart time.Time
		wantEnd   time.Time
	}{
		{
			name:      "Mid-week Thursday",
			input:     time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC),
			wantWeek:  "2026-W03",
			wantStart: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "Monday is its own week start",
			input:     time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			wantWeek:  "2026-W03",
			wantStart: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "Sunday belongs to the preceding Monday",
			input:     time.Date(2026, 1, 18, 23, 59, 0, 0, time.UTC),
			wantWeek:  "2026-W03",
			wantStart: time.Date(2026, 1, 12, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2026, 1, 18, 0, 0, 0, 0, time.UTC),
		},
		{
			name:      "ISO year differs from calendar year",
			input:     time.Date(2027, 1, 1, 12, 0, 0, 0, time.UTC),
			wantWeek:  "2026-W53",
			wantStart: time.Date(2026, 12, 28, 0, 0, 0, 0, time.UTC),
			wantEnd:   time.Date(2027, 1, 3, 0, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PayPeriodFor(tt.input)
			assert.Equal(t, tt.wantWeek, p.Week)
			require.True(t, p.Start.Equal(tt.wantStart), "start: got %s, want %s", p.Start, tt.wantStart)
			require.True(t, p.End.Equal(tt.wantEnd), "end: got %s, want %s", p.End, tt.wantEnd)
		})
	}
}
