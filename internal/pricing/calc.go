// Package pricing holds the money math shared by bookings, sales orders and
// invoices. Everything here is pure: no I/O, no rounding. Amounts are rounded
// to the currency's minor unit only when a repository stores them.
package pricing

import (
	"time"

	"github.com/shopspring/decimal"
)

var (
	zero    = decimal.Zero
	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

// LineInput carries every field that can influence a line's price.
type LineInput struct {
	Qty               int64
	UnitPrice         decimal.Decimal
	DurationDays      decimal.Decimal
	ExtraHours        int64
	ExtraHourRate     decimal.Decimal
	AdditionalCharges decimal.Decimal
	DiscountPercent   decimal.Decimal
	TaxRates          []decimal.Decimal
}

type LineAmounts struct {
	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}

// ComputeLine turns a line into (subtotal, tax, total).
//
// A zero duration means a day-rate booking with no explicit range and is
// priced as a single day. Extra hours contribute only when the hour count is
// positive, so a stale rate on a line with zero hours never charges anything.
// Taxes apply to the discounted, charge-inclusive subtotal, never to the bare
// base price.
func ComputeLine(in LineInput) LineAmounts {
	duration := in.DurationDays
	if duration.IsZero() {
		duration = one
	}

	base := decimal.NewFromInt(in.Qty).Mul(in.UnitPrice).Mul(duration)

	extra := zero
	if in.ExtraHours > 0 {
		extra = decimal.NewFromInt(in.ExtraHours).Mul(in.ExtraHourRate)
	}

	gross := base.Add(extra).Add(in.AdditionalCharges)

	discounted := gross
	if in.DiscountPercent.GreaterThan(zero) {
		discounted = gross.Mul(hundred.Sub(in.DiscountPercent)).Div(hundred)
	}

	tax := zero
	for _, rate := range in.TaxRates {
		tax = tax.Add(discounted.Mul(rate).Div(hundred))
	}

	return LineAmounts{
		Subtotal: discounted,
		Tax:      tax,
		Total:    discounted.Add(tax),
	}
}

// DurationDays derives a line's duration from its date range: whole days
// between the calendar dates, clamped to zero, and zero when either end is
// missing. An end before start must be rejected at entry before this runs.
// The dates are compared in each timestamp's own location, so a range that
// crosses a local midnight counts the day regardless of the zone offset.
func DurationDays(start, end *time.Time) decimal.Decimal {
	if start == nil || end == nil {
		return zero
	}
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC)
	days := int64(e.Sub(s) / (24 * time.Hour))
	if days < 0 {
		days = 0
	}
	return decimal.NewFromInt(days)
}
