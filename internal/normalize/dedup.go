package normalize

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridewell/import-service/internal/types"
)

// Dedup keys are derived from semantically-stable fields, never from row
// position, so re-exports of overlapping date ranges hash identically.
// Components are joined with a separator and SHA-256 hashed; string
// components are normalized first so cosmetic drift between exports does
// not defeat deduplication.

func keyHash(parts ...string) string {
	var buf bytes.Buffer
	for _, p := range parts {
		buf.WriteString(p)
		buf.WriteByte('|')
	}
	sum := sha256.Sum256(buf.Bytes())
	return hex.EncodeToString(sum[:])
}

// normalizeText lowercases and collapses whitespace for hashing
func normalizeText(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// BookingKey hashes the fields chosen because the source export has no stable
// primary key across re-exports: pickup instant, customer, fare, pickup address
func BookingKey(pickupAt time.Time, customerID string, fare decimal.Decimal, pickupAddress string) string {
	return keyHash(
		"booking",
		pickupAt.UTC().Format(time.RFC3339),
		normalizeText(customerID),
		fare.StringFixed(2),
		normalizeText(pickupAddress),
	)
}

// RevenueLineKey hashes a revenue line's parent, type and recognition date
func RevenueLineKey(bookingKey string, lineType types.RevenueLineType, recognizedOn time.Time) string {
	return keyHash("revenue", bookingKey, string(lineType), recognizedOn.UTC().Format("2006-01-02"))
}

// ReceivableKey hashes payer, due date and amount
func ReceivableKey(payerID string, dueDate time.Time, amount decimal.Decimal) string {
	return keyHash("receivable", normalizeText(payerID), dueDate.UTC().Format("2006-01-02"), amount.StringFixed(2))
}

// PayoutContributionKey hashes one booking's contribution to a driver's
// pay-period bucket. Contributions merge into per-period payouts downstream.
func PayoutContributionKey(driverID, week, bookingKey string) string {
	return keyHash("payout", normalizeText(driverID), week, bookingKey)
}

// PayoutKey identifies the merged per-driver per-period payout
func PayoutKey(driverID, week string) string {
	return keyHash("payout", normalizeText(driverID), week)
}

// AffiliateKey hashes an affiliate payable to its source booking
func AffiliateKey(affiliateID, bookingKey string) string {
	return keyHash("affiliate", normalizeText(affiliateID), bookingKey)
}

// AdSpendKey hashes platform, campaign and spend date
func AdSpendKey(platform, campaign string, spendDate time.Time) string {
	return keyHash("adspend", normalizeText(platform), normalizeText(campaign), spendDate.UTC().Format("2006-01-02"))
}

// NormalizePlate reduces a vehicle plate to its comparable form
func NormalizePlate(plate string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(plate) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		}
	}
	return b.String()
}

// PayPeriodFor buckets a completion instant into its ISO calendar week with
// Monday-start/Sunday-end boundary dates in the instant's location
func PayPeriodFor(t time.Time) types.PayPeriod {
	year, week := t.ISOWeek()

	daysSinceMonday := (int(t.Weekday()) + 6) % 7
	start := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location()).
		AddDate(0, 0, -daysSinceMonday)
	end := start.AddDate(0, 0, 6)

	return types.PayPeriod{
		Week:  fmt.Sprintf("%d-W%02d", year, week),
		Start: start,
		End:   end,
	}
}
