package report

import (
	"sort"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/ridewell/import-service/internal/normalize"
	"github.com/ridewell/import-service/internal/types"
)

// Reporter owns the cross-row state of a batch: the cumulative dedup key set,
// the per-outcome counts, and the ordered diagnostic list. It must observe
// results in original row order, single-threaded, because first-occurrence-
// wins is defined by row order, not completion order.
type Reporter struct {
	batchID string
	kind    types.ImportKind
	keys    *KeySet

	entities types.EntitySet
	payouts  map[string]*types.DriverPayout
	vehicles map[string]*types.FleetVehicle

	totalRows int
	counts    map[types.RowOutcome]int
	diags     []types.RowDiagnostic
	startedAt time.Time
}

// NewReporter creates a Reporter seeded with prior dedup state
func NewReporter(batchID string, kind types.ImportKind, keys *KeySet) *Reporter {
	if keys == nil {
		keys = NewKeySet(nil)
	}
	return &Reporter{
		batchID:   batchID,
		kind:      kind,
		keys:      keys,
		payouts:   make(map[string]*types.DriverPayout),
		vehicles:  make(map[string]*types.FleetVehicle),
		counts:    make(map[types.RowOutcome]int),
		startedAt: time.Now(),
	}
}

// Observe consumes one row's normalization result. Entities whose dedup key
// was already seen are dropped; a row whose entities were all dropped is
// downgraded to skipped with an explanatory diagnostic.
func (r *Reporter) Observe(res normalize.RowResult) {
	r.totalRows++
	outcome := res.Outcome
	r.diags = append(r.diags, res.Diagnostics...)

	kept, dropped := r.admitEntities(res)
	if dropped > 0 && kept == 0 {
		if outcome == types.OutcomeAccepted || outcome == types.OutcomeCorrected {
			outcome = types.OutcomeSkipped
		}
		r.diags = append(r.diags, types.RowDiagnostic{
			LineNumber: res.LineNumber,
			Severity:   types.SeverityInfo,
			Message:    "duplicate of a previously imported record",
		})
	} else if dropped > 0 {
		r.diags = append(r.diags, types.RowDiagnostic{
			LineNumber: res.LineNumber,
			Severity:   types.SeverityInfo,
			Message:    "some records on this row were already imported",
		})
	}

	r.counts[outcome]++
}

// admitEntities moves a row's entities into the output set, suppressing
// duplicates. Returns how many keyed entities were kept and dropped.
func (r *Reporter) admitEntities(res normalize.RowResult) (kept, dropped int) {
	ents := res.Entities

	for _, b := range ents.Bookings {
		if !r.keys.Add(b.DedupKey) {
			dropped++
			continue
		}
		r.entities.Bookings = append(r.entities.Bookings, b)
		kept++
	}
	for _, l := range ents.RevenueLines {
		if !r.keys.Add(l.DedupKey) {
			dropped++
			continue
		}
		r.entities.RevenueLines = append(r.entities.RevenueLines, l)
		kept++
	}
	for _, rc := range ents.Receivables {
		if !r.keys.Add(rc.DedupKey) {
			dropped++
			continue
		}
		r.entities.Receivables = append(r.entities.Receivables, rc)
		kept++
	}
	for _, p := range ents.DriverPayouts {
		if !r.keys.Add(p.DedupKey) {
			dropped++
			continue
		}
		r.mergePayout(p)
		kept++
	}
	for _, a := range ents.AffiliatePayables {
		if !r.keys.Add(a.DedupKey) {
			dropped++
			continue
		}
		r.entities.AffiliatePayables = append(r.entities.AffiliatePayables, a)
		kept++
	}
	for _, sp := range ents.AdSpend {
		if !r.keys.Add(sp.DedupKey) {
			dropped++
			continue
		}
		r.entities.AdSpend = append(r.entities.AdSpend, sp)
		kept++
	}

	// Fleet vehicles merge quietly by plate; they carry no financial value
	// and re-seeing one is expected, not a duplicate record
	for _, v := range ents.FleetVehicles {
		if existing, ok := r.vehicles[v.Plate]; ok {
			if existing.VehicleType == "" && v.VehicleType != "" {
				existing.VehicleType = v.VehicleType
			}
			continue
		}
		vc := v
		r.vehicles[v.Plate] = &vc
	}

	return kept, dropped
}

// mergePayout folds a per-booking payout contribution into the per-driver
// per-period payout
func (r *Reporter) mergePayout(p types.DriverPayout) {
	key := normalize.PayoutKey(p.DriverID, p.Period.Week)
	existing, ok := r.payouts[key]
	if !ok {
		merged := p
		merged.DedupKey = key
		r.payouts[key] = &merged
		return
	}
	existing.GrossAmount = existing.GrossAmount.Add(p.GrossAmount)
	existing.BookingKeys = append(existing.BookingKeys, p.BookingKeys...)
}

// Finalize assembles the entity set and the audit report. The per-outcome
// counts always sum to the number of observed rows.
func (r *Reporter) Finalize() (types.EntitySet, types.ImportAuditReport) {
	out := r.entities

	out.DriverPayouts = make([]types.DriverPayout, 0, len(r.payouts))
	for _, p := range r.payouts {
		out.DriverPayouts = append(out.DriverPayouts, *p)
	}
	sort.Slice(out.DriverPayouts, func(i, j int) bool {
		a, b := out.DriverPayouts[i], out.DriverPayouts[j]
		if a.DriverID != b.DriverID {
			return a.DriverID < b.DriverID
		}
		return a.Period.Week < b.Period.Week
	})

	out.FleetVehicles = make([]types.FleetVehicle, 0, len(r.vehicles))
	for _, v := range r.vehicles {
		out.FleetVehicles = append(out.FleetVehicles, *v)
	}
	sort.Slice(out.FleetVehicles, func(i, j int) bool {
		return out.FleetVehicles[i].Plate < out.FleetVehicles[j].Plate
	})

	rep := types.ImportAuditReport{
		BatchID:     r.batchID,
		Kind:        r.kind,
		TotalRows:   r.totalRows,
		Accepted:    r.counts[types.OutcomeAccepted],
		Corrected:   r.counts[types.OutcomeCorrected],
		Skipped:     r.counts[types.OutcomeSkipped],
		Rejected:    r.counts[types.OutcomeRejected],
		Diagnostics: r.diags,
		StartedAt:   r.startedAt,
		FinishedAt:  time.Now(),
	}

	log.Info().
		Str("batch_id", r.batchID).
		Str("kind", string(r.kind)).
		Int("total", rep.TotalRows).
		Int("accepted", rep.Accepted).
		Int("corrected", rep.Corrected).
		Int("skipped", rep.Skipped).
		Int("rejected", rep.Rejected).
		Msg("Batch report assembled")

	return out, rep
}

// Keys returns the cumulative key set, including keys first seen this batch,
// for the caller to commit as prior state for the next run
func (r *Reporter) Keys() *KeySet {
	return r.keys
}
