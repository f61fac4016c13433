package pricing

import (
	"carbooking/internal/domain/models"

	"github.com/shopspring/decimal"
)

// FixedVATRate is the legacy booking-level VAT. Line-level taxes are
// configurable and reported separately; the two figures can legitimately
// diverge for the same booking.
var FixedVATRate = decimal.NewFromFloat(0.15)

type BookingTotals struct {
	Untaxed               decimal.Decimal
	VAT                   decimal.Decimal
	GrandTotal            decimal.Decimal
	TotalTax              decimal.Decimal
	ExtraHourTotal        int64
	ExtraHourChargesTotal decimal.Decimal
}

// TaxResolver maps a tax id to its percentage rate. ok=false marks a missing
// definition; its contribution is zero and the caller logs the problem.
type TaxResolver func(taxID int64) (decimal.Decimal, bool)

// LineSubtotal recomputes a booking line's subtotal from its inputs. The
// stored value is never trusted.
func LineSubtotal(line models.BookingLine) decimal.Decimal {
	return ComputeLine(LineInput{
		Qty:           line.Qty,
		UnitPrice:     line.UnitPrice,
		DurationDays:  line.DurationDays,
		ExtraHours:    line.ExtraHours,
		ExtraHourRate: line.ExtraHourRate,
	}).Subtotal
}

// AggregateBooking rolls booking lines up into document totals.
//
// The extra-hour columns only count lines whose hour count is positive: a rate
// left behind on a zero-hour line is stale data, not a charge.
func AggregateBooking(lines []models.BookingLine, miscCharges decimal.Decimal, resolve TaxResolver) BookingTotals {
	totals := BookingTotals{
		Untaxed:               zero,
		TotalTax:              zero,
		ExtraHourChargesTotal: zero,
	}

	for _, line := range lines {
		subtotal := LineSubtotal(line)
		totals.Untaxed = totals.Untaxed.Add(subtotal)

		if line.ExtraHours > 0 {
			totals.ExtraHourTotal += line.ExtraHours
			totals.ExtraHourChargesTotal = totals.ExtraHourChargesTotal.Add(line.ExtraHourRate)
		}

		if resolve != nil {
			for _, taxID := range line.TaxIDs {
				rate, ok := resolve(taxID)
				if !ok {
					continue
				}
				totals.TotalTax = totals.TotalTax.Add(subtotal.Mul(rate).Div(hundred))
			}
		}
	}

	totals.VAT = totals.Untaxed.Mul(FixedVATRate)
	totals.GrandTotal = totals.Untaxed.Mul(one.Add(FixedVATRate)).Add(miscCharges)
	return totals
}
