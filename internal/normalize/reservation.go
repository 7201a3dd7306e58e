package normalize

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/ridewell/import-service/internal/fields"
	"github.com/ridewell/import-service/internal/mapping"
	"github.com/ridewell/import-service/internal/types"
)

// voidStatuses are source-system statuses that mean the row carries no
// operational or financial record
var voidStatuses = map[string]bool{
	"void":      true,
	"voided":    true,
	"canceled":  true,
	"cancelled": true,
}

// synthesizeReservation builds the canonical entities for one trip-export row:
// a Booking, its RevenueLines, and conditionally a Receivable, a DriverPayout
// contribution, an AffiliatePayable and a FleetVehicle.
func (n *Normalizer) synthesizeReservation(st *rowState) {
	if status := st.text(mapping.FieldTripStatus, false); voidStatuses[strings.ToLower(status)] {
		st.skip("row marked " + strings.ToLower(status) + " by source system")
		return
	}

	// Required fields; any failure rejects the row before synthesis
	pickupAt, pickupOK := st.dateTime(mapping.FieldPickupDateTime, true)
	fare := st.money(mapping.FieldFare, true)
	customerID := st.customerID()
	pickupAddress := st.text(mapping.FieldPickupAddress, true)
	if st.rejected || !pickupOK {
		return
	}

	currency := strings.ToUpper(st.text(mapping.FieldCurrency, false))
	if currency == "" {
		currency = "USD"
	}

	dropoffAt, hasDropoff := st.dateTime(mapping.FieldDropoffDateTime, false)
	completionAt := pickupAt
	if hasDropoff {
		completionAt = dropoffAt
	}

	affiliateID := st.text(mapping.FieldAffiliateID, false)
	if truthy, err := fields.ParseBoolean(affiliateID); err == nil {
		// Some exports flag affiliate trips with yes/no instead of a partner ID
		if !truthy {
			affiliateID = ""
		}
	}

	booking := types.Booking{
		TripID:          st.text(mapping.FieldTripID, false),
		PickupAt:        pickupAt,
		PickupAddress:   pickupAddress,
		DropoffAddress:  st.text(mapping.FieldDropoffAddress, false),
		CustomerID:      customerID,
		VehicleType:     st.text(mapping.FieldVehicleType, false),
		Fare:            fare,
		Currency:        currency,
		AffiliateSource: affiliateID != "",
		Attribution:     st.attribution(),
	}
	if hasDropoff {
		booking.DropoffAt = types.TimePtr(dropoffAt)
	}
	booking.DedupKey = BookingKey(pickupAt, customerID, fare, pickupAddress)
	st.entities.Bookings = append(st.entities.Bookings, booking)

	st.revenueLines(booking, completionAt)
	st.receivable(customerID, completionAt)
	st.driverPayout(booking, completionAt)

	if affiliateID != "" {
		st.entities.AffiliatePayables = append(st.entities.AffiliatePayables, types.AffiliatePayable{
			DedupKey:    AffiliateKey(affiliateID, booking.DedupKey),
			AffiliateID: affiliateID,
			Amount:      fare,
			Period:      PayPeriodFor(completionAt),
		})
	}

	if plate := NormalizePlate(st.text(mapping.FieldVehiclePlate, false)); plate != "" {
		st.entities.FleetVehicles = append(st.entities.FleetVehicles, types.FleetVehicle{
			Plate:       plate,
			VehicleType: booking.VehicleType,
		})
	}
}

// customerID normalizes the customer identifier, lowercasing email-shaped
// values so the dedup key survives case drift between exports
func (s *rowState) customerID() string {
	raw := s.text(mapping.FieldCustomerID, true)
	if strings.Contains(raw, "@") {
		if email, err := fields.ParseEmail(raw); err == nil {
			return email
		}
	}
	return raw
}

// revenueLines emits the booking's signed revenue components. The fare line
// is always present; gratuity, fees, tax and refunds only when non-zero.
func (s *rowState) revenueLines(booking types.Booking, recognizedOn time.Time) {
	add := func(lineType types.RevenueLineType, amount decimal.Decimal) {
		s.entities.RevenueLines = append(s.entities.RevenueLines, types.RevenueLine{
			DedupKey:     RevenueLineKey(booking.DedupKey, lineType, recognizedOn),
			BookingKey:   booking.DedupKey,
			Type:         lineType,
			Amount:       amount,
			RecognizedOn: recognizedOn,
		})
	}

	add(types.RevenueFare, booking.Fare)

	if gratuity := s.money(mapping.FieldGratuity, false); !gratuity.IsZero() {
		add(types.RevenueGratuity, gratuity)
	}
	if fees := s.moneySum(mapping.FieldFees); !fees.IsZero() {
		add(types.RevenueFee, fees)
	}
	if tax := s.money(mapping.FieldTax, false); !tax.IsZero() {
		add(types.RevenueTax, tax)
	}
	if refund := s.money(mapping.FieldRefund, false); !refund.IsZero() {
		// Refunds are recorded negative regardless of how the export signs them
		if refund.IsPositive() {
			refund = refund.Neg()
		}
		add(types.RevenueRefund, refund)
	}
}

// receivable emits an open receivable when the row carries an outstanding
// balance. A missing due date falls back to the completion date.
func (s *rowState) receivable(customerID string, completionAt time.Time) {
	balance := s.money(mapping.FieldBalanceDue, false)
	if !balance.IsPositive() {
		return
	}

	dueDate, ok := s.date(mapping.FieldDueDate, false)
	if !ok {
		dueDate = completionAt
	}

	s.entities.Receivables = append(s.entities.Receivables, types.Receivable{
		DedupKey: ReceivableKey(customerID, dueDate, balance),
		PayerID:  customerID,
		Amount:   balance,
		DueDate:  dueDate,
		Status:   types.ReceivableOpen,
	})
}

// driverPayout emits one pay-period contribution when the row names a driver.
// Contributions for the same driver and week merge during report assembly.
func (s *rowState) driverPayout(booking types.Booking, completionAt time.Time) {
	driverID := s.text(mapping.FieldDriverID, false)
	if driverID == "" {
		return
	}

	period := PayPeriodFor(completionAt)
	s.entities.DriverPayouts = append(s.entities.DriverPayouts, types.DriverPayout{
		DedupKey:    PayoutContributionKey(driverID, period.Week, booking.DedupKey),
		DriverID:    driverID,
		Period:      period,
		GrossAmount: booking.Fare,
		BookingKeys: []string{booking.DedupKey},
	})
}

// attribution extracts UTM parameters from the tracking URL column. Absence
// or parse failure never affects the row outcome; attribution is informational.
func (s *rowState) attribution() *types.Attribution {
	params := fields.ParseQueryParams(s.rawValue(mapping.FieldTrackingURL))
	if len(params) == 0 {
		return nil
	}

	attr := &types.Attribution{
		Source:   params["utm_source"],
		Medium:   params["utm_medium"],
		Campaign: params["utm_campaign"],
		Term:     params["utm_term"],
		Content:  params["utm_content"],
	}
	if *attr == (types.Attribution{}) {
		return nil
	}
	return attr
}
