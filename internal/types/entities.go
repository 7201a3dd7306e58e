package types

import (
	"time"

	"github.com/shopspring/decimal"
)

// RevenueLineType is the closed set of revenue line classifications
type RevenueLineType string

const (
	RevenueFare     RevenueLineType = "fare"
	RevenueGratuity RevenueLineType = "gratuity"
	RevenueFee      RevenueLineType = "fee"
	RevenueTax      RevenueLineType = "tax"
	RevenueRefund   RevenueLineType = "refund"
)

// ReceivableStatus represents settlement state of a receivable
type ReceivableStatus string

const (
	ReceivableOpen    ReceivableStatus = "open"
	ReceivableSettled ReceivableStatus = "settled"
)

// PayPeriod is the ISO calendar week a completed booking's payout settles in
type PayPeriod struct {
	Week  string    `json:"week"` // e.g. "2026-W03"
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}

// Attribution holds UTM parameters extracted from a tracking URL column
type Attribution struct {
	Source   string `json:"source,omitempty"`
	Medium   string `json:"medium,omitempty"`
	Campaign string `json:"campaign,omitempty"`
	Term     string `json:"term,omitempty"`
	Content  string `json:"content,omitempty"`
}

// Booking is a canonical reservation record synthesized from one export row
type Booking struct {
	DedupKey        string          `json:"dedupKey"`
	TripID          string          `json:"tripId,omitempty"`
	PickupAt        time.Time       `json:"pickupAt"`
	DropoffAt       *time.Time      `json:"dropoffAt,omitempty"`
	PickupAddress   string          `json:"pickupAddress"`
	DropoffAddress  string          `json:"dropoffAddress,omitempty"`
	CustomerID      string          `json:"customerId"`
	VehicleType     string          `json:"vehicleType,omitempty"`
	Fare            decimal.Decimal `json:"fare"`
	Currency        string          `json:"currency"`
	AffiliateSource bool            `json:"affiliateSource,omitempty"`
	Attribution     *Attribution    `json:"attribution,omitempty"`
}

// RevenueLine is one signed revenue component of a booking
type RevenueLine struct {
	DedupKey     string          `json:"dedupKey"`
	BookingKey   string          `json:"bookingKey"`
	Type         RevenueLineType `json:"type"`
	Amount       decimal.Decimal `json:"amount"`
	RecognizedOn time.Time       `json:"recognizedOn"`
}

// Receivable is an outstanding customer balance
type Receivable struct {
	DedupKey string           `json:"dedupKey"`
	PayerID  string           `json:"payerId"`
	Amount   decimal.Decimal  `json:"amount"`
	DueDate  time.Time        `json:"dueDate"`
	Status   ReceivableStatus `json:"status"`
}

// DriverPayout buckets a driver's completed bookings into a settlement week.
// The payout rate is business policy applied downstream, not here.
type DriverPayout struct {
	DedupKey    string          `json:"dedupKey"`
	DriverID    string          `json:"driverId"`
	Period      PayPeriod       `json:"period"`
	GrossAmount decimal.Decimal `json:"grossAmount"`
	BookingKeys []string        `json:"bookingKeys"`
}

// AffiliatePayable is an amount owed to a partner for an affiliate-sourced booking
type AffiliatePayable struct {
	DedupKey    string          `json:"dedupKey"`
	AffiliateID string          `json:"affiliateId"`
	Amount      decimal.Decimal `json:"amount"`
	Period      PayPeriod       `json:"period"`
}

// FleetVehicle is an opportunistically discovered vehicle record, merged by plate
type FleetVehicle struct {
	Plate       string `json:"plate"`
	VehicleType string `json:"vehicleType,omitempty"`
}

// AdSpendRecord is one day of spend for one advertising campaign
type AdSpendRecord struct {
	DedupKey    string          `json:"dedupKey"`
	Platform    string          `json:"platform"`
	Campaign    string          `json:"campaign"`
	SpendDate   time.Time       `json:"spendDate"`
	Spend       decimal.Decimal `json:"spend"`
	Clicks      int64           `json:"clicks"`
	Impressions int64           `json:"impressions"`
	Currency    string          `json:"currency"`
}

// EntitySet groups the canonical entities synthesized from one batch
type EntitySet struct {
	Bookings          []Booking          `json:"bookings,omitempty"`
	RevenueLines      []RevenueLine      `json:"revenueLines,omitempty"`
	Receivables       []Receivable       `json:"receivables,omitempty"`
	DriverPayouts     []DriverPayout     `json:"driverPayouts,omitempty"`
	AffiliatePayables []AffiliatePayable `json:"affiliatePayables,omitempty"`
	FleetVehicles     []FleetVehicle     `json:"fleetVehicles,omitempty"`
	AdSpend           []AdSpendRecord    `json:"adSpend,omitempty"`
}

// Total returns the number of entities across all kinds
func (s EntitySet) Total() int {
	return len(s.Bookings) + len(s.RevenueLines) + len(s.Receivables) +
		len(s.DriverPayouts) + len(s.AffiliatePayables) + len(s.FleetVehicles) +
		len(s.AdSpend)
}
