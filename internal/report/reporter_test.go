package report

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ridewell/import-service/internal/normalize"
	"github.com/ridewell/import-service/internal/types"
)

func bookingResult(line int, customer string, fare int64) normalize.RowResult {
	pickup := time.Date(2026, 1, 15, 14, 30, 0, 0, time.UTC)
	amount := decimal.NewFromInt(fare)
	key := normalize.BookingKey(pickup, customer, amount, "123 Main St")

	return normalize.RowResult{
		LineNumber: line,
		Outcome:    types.OutcomeAccepted,
		Entities: types.EntitySet{
			Bookings: []types.Booking{{
				DedupKey:   key,
				PickupAt:   pickup,
				CustomerID: customer,
				Fare:       amount,
				Currency:   "USD",
			}},
			RevenueLines: []types.RevenueLine{{
				DedupKey:     normalize.RevenueLineKey(key, types.RevenueFare, pickup),
				BookingKey:   key,
				Type:         types.RevenueFare,
				Amount:       amount,
				RecognizedOn: pickup,
			}},
		},
	}
}

func payoutResult(line int, driver, week, bookingKey string, gross int64) normalize.RowResult {
	return normalize.RowResult{
		LineNumber: line,
		Outcome:    types.OutcomeAccepted,
		Entities: types.EntitySet{
			DriverPayouts: []types.DriverPayout{{
				DedupKey:    normalize.PayoutContributionKey(driver, week, bookingKey),
				DriverID:    driver,
				Period:      types.PayPeriod{Week: week},
				GrossAmount: decimal.NewFromInt(gross),
				BookingKeys: []string{bookingKey},
			}},
		},
	}
}

// TestReporterWithinBatchDuplicate tests first-occurrence-wins inside a batch
func TestReporterWithinBatchDuplicate(t *testing.T) {
	r := NewReporter("batch-1", types.KindReservations, NewKeySet(nil))

	r.Observe(bookingResult(2, "jane@example.com", 100))
	r.Observe(bookingResult(3, "jane@example.com", 100)) // same trip re-exported
	r.Observe(bookingResult(4, "john@example.com", 100))

	entities, rep := r.Finalize()

	assert.Len(t, entities.Bookings, 2)
	assert.Len(t, entities.RevenueLines, 2)

	assert.Equal(t, 3, rep.TotalRows)
	assert.Equal(t, 2, rep.Accepted)
	assert.Equal(t, 1, rep.Skipped)
	assert.Equal(t, 0, rep.Rejected)

	var dupDiag bool
	for _, d := range rep.Diagnostics {
		if d.LineNumber == 3 && d.Severity == types.SeverityInfo {
			dupDiag = true
		}
	}
	assert.True(t, dupDiag, "duplicate row should carry an info diagnostic")
}

// TestReporterIdempotentReimport tests that replaying a batch against its own
// committed keys yields zero entities
func TestReporterIdempotentReimport(t *testing.T) {
	first := NewReporter("batch-1", types.KindReservations, NewKeySet(nil))
	first.Observe(bookingResult(2, "jane@example.com", 100))
	first.Observe(bookingResult(3, "john@example.com", 250))
	_, firstRep := first.Finalize()
	require.Equal(t, 2, firstRep.Accepted)

	committed := first.Keys().Added()
	require.NotEmpty(t, committed)

	second := NewReporter("batch-2", types.KindReservations, NewKeySet(committed))
	second.Observe(bookingResult(2, "jane@example.com", 100))
	second.Observe(bookingResult(3, "john@example.com", 250))
	entities, rep := second.Finalize()

	assert.Equal(t, 0, entities.Total())
	assert.Equal(t, 2, rep.Skipped)
	assert.Equal(t, 0, rep.Accepted)
	assert.Empty(t, second.Keys().Added(), "a pure replay commits no new keys")
}

// TestReporterCountConservation tests that outcome counts always sum to rows observed
func TestReporterCountConservation(t *testing.T) {
	r := NewReporter("batch-1", types.KindReservations, NewKeySet(nil))

	r.Observe(bookingResult(2, "a@example.com", 10))
	r.Observe(bookingResult(3, "a@example.com", 10)) // duplicate -> skipped
	r.Observe(normalize.RowResult{LineNumber: 4, Outcome: types.OutcomeRejected})
	r.Observe(normalize.RowResult{LineNumber: 5, Outcome: types.OutcomeSkipped})
	res := bookingResult(6, "b@example.com", 20)
	res.Outcome = types.OutcomeCorrected
	r.Observe(res)

	_, rep := r.Finalize()
	assert.Equal(t, 5, rep.TotalRows)
	assert.Equal(t, rep.TotalRows, rep.Accepted+rep.Corrected+rep.Skipped+rep.Rejected)
}

// TestReporterPayoutMerging tests that per-booking contributions fold into one
// payout per driver and week
func TestReporterPayoutMerging(t *testing.T) {
	r := NewReporter("batch-1", types.KindReservations, NewKeySet(nil))

	r.Observe(payoutResult(2, "drv-9", "2026-W03", "bk-1", 100))
	r.Observe(payoutResult(3, "drv-9", "2026-W03", "bk-2", 250))
	r.Observe(payoutResult(4, "drv-9", "2026-W04", "bk-3", 75))
	r.Observe(payoutResult(5, "drv-2", "2026-W03", "bk-4", 60))

	entities, rep := r.Finalize()
	assert.Equal(t, 4, rep.Accepted)

	require.Len(t, entities.DriverPayouts, 3)

	// Sorted by driver then week
	assert.Equal(t, "drv-2", entities.DriverPayouts[0].DriverID)

	merged := entities.DriverPayouts[1]
	assert.Equal(t, "drv-9", merged.DriverID)
	assert.Equal(t, "2026-W03", merged.Period.Week)
	assert.True(t, merged.GrossAmount.Equal(decimal.NewFromInt(350)), "got %s", merged.GrossAmount)
	assert.ElementsMatch(t, []string{"bk-1", "bk-2"}, merged.BookingKeys)
	assert.Equal(t, normalize.PayoutKey("drv-9", "2026-W03"), merged.DedupKey)
}

// TestReporterPayoutContributionDedup tests that replaying a contribution does
// not inflate the merged payout
func TestReporterPayoutContributionDedup(t *testing.T) {
	r := NewReporter("batch-1", types.KindReservations, NewKeySet(nil))

	r.Observe(payoutResult(2, "drv-9", "2026-W03", "bk-1", 100))
	r.Observe(payoutResult(3, "drv-9", "2026-W03", "bk-1", 100)) // same booking again

	entities, rep := r.Finalize()
	assert.Equal(t, 1, rep.Accepted)
	assert.Equal(t, 1, rep.Skipped)

	require.Len(t, entities.DriverPayouts, 1)
	assert.True(t, entities.DriverPayouts[0].GrossAmount.Equal(decimal.NewFromInt(100)))
}

// TestReporterVehicleMerging tests that re-seeing a plate merges quietly
// without downgrading the row
func TestReporterVehicleMerging(t *testing.T) {
	r := NewReporter("batch-1", types.KindReservations, NewKeySet(nil))

	res := bookingResult(2, "a@example.com", 10)
	res.Entities.FleetVehicles = []types.FleetVehicle{{Plate: "ABC1234"}}
	r.Observe(res)

	res = bookingResult(3, "b@example.com", 20)
	res.Entities.FleetVehicles = []types.FleetVehicle{{Plate: "ABC1234", VehicleType: "Sedan"}}
	r.Observe(res)

	entities, rep := r.Finalize()
	assert.Equal(t, 2, rep.Accepted, "vehicle re-sighting is not a duplicate")

	require.Len(t, entities.FleetVehicles, 1)
	assert.Equal(t, "ABC1234", entities.FleetVehicles[0].Plate)
	assert.Equal(t, "Sedan", entities.FleetVehicles[0].VehicleType, "later type fills the blank")
}

// TestKeySet tests the cumulative key set behavior
func TestKeySet(t *testing.T) {
	ks := NewKeySet([]string{"prior-1", "prior-2"})

	assert.False(t, ks.Add("prior-1"))
	assert.True(t, ks.Add("new-b"))
	assert.True(t, ks.Add("new-a"))
	assert.False(t, ks.Add("new-a"))

	assert.True(t, ks.Contains("prior-2"))
	assert.True(t, ks.Contains("new-a"))
	assert.False(t, ks.Contains("unseen"))

	assert.Equal(t, []string{"new-a", "new-b"}, ks.Added(), "added keys are sorted, prior keys excluded")
	assert.Equal(t, 4, ks.Len())
}
