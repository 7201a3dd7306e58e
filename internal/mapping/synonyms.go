package mapping

import "github.com/ridewell/import-service/internal/types"

// CanonicalField is a normalized, system-defined field name, independent of
// whatever header text a given export uses.
type CanonicalField string

// Reservation export fields
const (
	FieldTripID          CanonicalField = "tripId"
	FieldPickupDateTime  CanonicalField = "pickupDateTime"
	FieldDropoffDateTime CanonicalField = "dropoffDateTime"
	FieldPickupAddress   CanonicalField = "pickupAddress"
	FieldDropoffAddress  CanonicalField = "dropoffAddress"
	FieldCustomerID      CanonicalField = "customerId"
	FieldCustomerPhone   CanonicalField = "customerPhone"
	FieldVehicleType     CanonicalField = "vehicleType"
	FieldVehiclePlate    CanonicalField = "vehiclePlate"
	FieldDriverID        CanonicalField = "driverId"
	FieldFare            CanonicalField = "fare"
	FieldGratuity        CanonicalField = "gratuity"
	FieldFees            CanonicalField = "fees"
	FieldTax             CanonicalField = "tax"
	FieldRefund          CanonicalField = "refund"
	FieldBalanceDue      CanonicalField = "balanceDue"
	FieldDueDate         CanonicalField = "dueDate"
	FieldTripStatus      CanonicalField = "tripStatus"
	FieldAffiliateID     CanonicalField = "affiliateId"
	FieldTrackingURL     CanonicalField = "trackingUrl"
	FieldCurrency        CanonicalField = "currency"
)

// Ad-spend export fields
const (
	FieldAdPlatform    CanonicalField = "adPlatform"
	FieldAdCampaign    CanonicalField = "adCampaign"
	FieldAdSpendDate   CanonicalField = "adSpendDate"
	FieldAdSpend       CanonicalField = "adSpend"
	FieldAdClicks      CanonicalField = "adClicks"
	FieldAdImpressions CanonicalField = "adImpressions"
)

// FieldPart marks which part of a composite value a header supplies.
// Most fields are whole; date-time fields may be split across a date
// column and a time-of-day column.
type FieldPart string

const (
	PartWhole FieldPart = "whole"
	PartDate  FieldPart = "date"
	PartTime  FieldPart = "time"
)

// synonym is one normalized header pattern with a confidence weight
type synonym struct {
	pattern string
	part    FieldPart
	weight  float64
}

func whole(pattern string, weight float64) synonym {
	return synonym{pattern: pattern, part: PartWhole, weight: weight}
}

// fieldSynonyms is an ordered list of patterns for one canonical field
type fieldSynonyms struct {
	field    CanonicalField
	required bool
	entries  []synonym
}

// reservationSynonyms is the synonym table for reservation/dispatch exports.
// Patterns are compared after NormalizeHeader on both sides, so spacing,
// case, punctuation and plurals in the literals here are irrelevant.
var reservationSynonyms = []fieldSynonyms{
	{field: FieldTripID, entries: []synonym{
		whole("trip id", 1.0), whole("reservation id", 0.95), whole("conf number", 0.9),
		whole("confirmation", 0.85), whole("res no", 0.85), whole("booking id", 0.95),
	}},
	{field: FieldPickupDateTime, required: true, entries: []synonym{
		{pattern: "pickup date time", part: PartWhole, weight: 1.0},
		{pattern: "pickup datetime", part: PartWhole, weight: 1.0},
		{pattern: "trip start", part: PartWhole, weight: 0.85},
		{pattern: "pickup date", part: PartDate, weight: 0.95},
		{pattern: "pu date", part: PartDate, weight: 0.9},
		{pattern: "service date", part: PartDate, weight: 0.8},
		{pattern: "pickup time", part: PartTime, weight: 0.95},
		{pattern: "pu time", part: PartTime, weight: 0.9},
	}},
	{field: FieldDropoffDateTime, entries: []synonym{
		{pattern: "dropoff date time", part: PartWhole, weight: 1.0},
		{pattern: "trip end", part: PartWhole, weight: 0.85},
		{pattern: "dropoff date", part: PartDate, weight: 0.95},
		{pattern: "do date", part: PartDate, weight: 0.85},
		{pattern: "dropoff time", part: PartTime, weight: 0.95},
		{pattern: "do time", part: PartTime, weight: 0.85},
	}},
	{field: FieldPickupAddress, required: true, entries: []synonym{
		whole("pickup address", 1.0), whole("pu address", 0.9), whole("pickup location", 0.9),
		whole("origin", 0.8), whole("from address", 0.85),
	}},
	{field: FieldDropoffAddress, entries: []synonym{
		whole("dropoff address", 1.0), whole("do address", 0.9), whole("dropoff location", 0.9),
		whole("destination", 0.8), whole("to address", 0.85),
	}},
	{field: FieldCustomerID, required: true, entries: []synonym{
		whole("customer id", 1.0), whole("customer email", 0.95), whole("passenger email", 0.9),
		whole("client id", 0.9), whole("account", 0.7), whole("customer", 0.8),
		whole("passenger name", 0.75),
	}},
	{field: FieldCustomerPhone, entries: []synonym{
		whole("customer phone", 1.0), whole("passenger phone", 0.95), whole("phone", 0.8),
		whole("mobile", 0.75), whole("cell", 0.7),
	}},
	{field: FieldVehicleType, entries: []synonym{
		whole("vehicle type", 1.0), whole("car type", 0.9), whole("service type", 0.75),
		whole("car class", 0.85), whole("vehicle", 0.7),
	}},
	{field: FieldVehiclePlate, entries: []synonym{
		whole("vehicle plate", 1.0), whole("license plate", 0.95), whole("plate", 0.85),
		whole("car number", 0.7), whole("unit number", 0.65),
	}},
	{field: FieldDriverID, entries: []synonym{
		whole("driver id", 1.0), whole("driver", 0.85), whole("chauffeur", 0.85),
		whole("driver name", 0.8), whole("driver number", 0.9),
	}},
	{field: FieldFare, required: true, entries: []synonym{
		whole("fare", 1.0), whole("base fare", 0.95), whole("trip total", 0.85),
		whole("rate", 0.7), whole("flat rate", 0.8), whole("amount", 0.6),
	}},
	{field: FieldGratuity, entries: []synonym{
		whole("gratuity", 1.0), whole("tip", 0.95), whole("driver gratuity", 0.95),
	}},
	{field: FieldFees, entries: []synonym{
		whole("fee", 1.0), whole("surcharge", 0.9), whole("stc", 0.6),
		whole("admin fee", 0.9), whole("airport fee", 0.85), whole("toll", 0.8),
	}},
	{field: FieldTax, entries: []synonym{
		whole("tax", 1.0), whole("sales tax", 0.95), whole("vat", 0.85),
	}},
	{field: FieldRefund, entries: []synonym{
		whole("refund", 1.0), whole("credit", 0.7), whole("adjustment", 0.65),
	}},
	{field: FieldBalanceDue, entries: []synonym{
		whole("balance due", 1.0), whole("balance", 0.9), whole("amount due", 0.95),
		whole("outstanding", 0.85), whole("unpaid", 0.8),
	}},
	{field: FieldDueDate, entries: []synonym{
		whole("due date", 1.0), whole("payment due", 0.9), whole("invoice due", 0.85),
	}},
	{field: FieldTripStatus, entries: []synonym{
		whole("status", 1.0), whole("trip status", 1.0), whole("reservation status", 0.95),
		whole("state", 0.7),
	}},
	{field: FieldAffiliateID, entries: []synonym{
		whole("affiliate", 1.0), whole("affiliate id", 1.0), whole("partner", 0.85),
		whole("farm in", 0.8), whole("farm out", 0.8), whole("network", 0.6),
	}},
	{field: FieldTrackingURL, entries: []synonym{
		whole("tracking url", 1.0), whole("booking url", 0.9), whole("source url", 0.9),
		whole("landing page", 0.8), whole("referrer", 0.75),
	}},
	{field: FieldCurrency, entries: []synonym{
		whole("currency", 1.0), whole("currency code", 1.0),
	}},
}

// adSpendSynonyms is the synonym table for advertising-platform spend exports
var adSpendSynonyms = []fieldSynonyms{
	{field: FieldAdPlatform, entries: []synonym{
		whole("platform", 1.0), whole("source", 0.85), whole("network", 0.8),
		whole("publisher", 0.75), whole("channel", 0.75),
	}},
	{field: FieldAdCampaign, required: true, entries: []synonym{
		whole("campaign", 1.0), whole("campaign name", 1.0), whole("ad group", 0.7),
	}},
	{field: FieldAdSpendDate, required: true, entries: []synonym{
		{pattern: "date", part: PartDate, weight: 0.9},
		{pattern: "day", part: PartDate, weight: 0.85},
		{pattern: "report date", part: PartDate, weight: 0.95},
	}},
	{field: FieldAdSpend, required: true, entries: []synonym{
		whole("spend", 1.0), whole("cost", 0.95), whole("amount spent", 0.95),
		whole("total spend", 0.95),
	}},
	{field: FieldAdClicks, entries: []synonym{
		whole("click", 1.0), whole("link click", 0.9),
	}},
	{field: FieldAdImpressions, entries: []synonym{
		whole("impression", 1.0), whole("impr", 0.85),
	}},
	{field: FieldCurrency, entries: []synonym{
		whole("currency", 1.0), whole("currency code", 1.0),
	}},
}

// SynonymTable returns the synonym table for an import kind
func SynonymTable(kind types.ImportKind) []fieldSynonyms {
	switch kind {
	case types.KindAdSpend:
		return adSpendSynonyms
	default:
		return reservationSynonyms
	}
}

// Fields returns every canonical field an import kind maps, in table order
func Fields(kind types.ImportKind) []CanonicalField {
	table := SynonymTable(kind)
	out := make([]CanonicalField, len(table))
	for i, fs := range table {
		out[i] = fs.field
	}
	return out
}

// RequiredFields returns the canonical fields an import kind cannot proceed without
func RequiredFields(kind types.ImportKind) []CanonicalField {
	var out []CanonicalField
	for _, fs := range SynonymTable(kind) {
		if fs.required {
			out = append(out, fs.field)
		}
	}
	return out
}
