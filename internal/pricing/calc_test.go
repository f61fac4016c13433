package pricing

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestComputeLineBaseAmount(t *testing.T) {
	got := ComputeLine(LineInput{
		Qty:          2,
		UnitPrice:    dec("100"),
		DurationDays: dec("3"),
	})

	if !got.Subtotal.Equal(dec("600")) {
		t.Fatalf("subtotal = %s, want 600", got.Subtotal)
	}
	if !got.Tax.IsZero() {
		t.Fatalf("tax = %s, want 0", got.Tax)
	}
	if !got.Total.Equal(dec("600")) {
		t.Fatalf("total = %s, want 600", got.Total)
	}
}

func TestComputeLineExtraHours(t *testing.T) {
	got := ComputeLine(LineInput{
		Qty:           2,
		UnitPrice:     dec("100"),
		DurationDays:  dec("3"),
		ExtraHours:    5,
		ExtraHourRate: dec("20"),
	})

	if !got.Subtotal.Equal(dec("700")) {
		t.Fatalf("subtotal = %s, want 700", got.Subtotal)
	}
}

func TestComputeLineZeroHoursIgnoresRate(t *testing.T) {
	with := ComputeLine(LineInput{Qty: 1, UnitPrice: dec("50"), ExtraHours: 0, ExtraHourRate: dec("99")})
	without := ComputeLine(LineInput{Qty: 1, UnitPrice: dec("50")})

	if !with.Subtotal.Equal(without.Subtotal) {
		t.Fatalf("stale extra-hour rate changed subtotal: %s vs %s", with.Subtotal, without.Subtotal)
	}
}

func TestComputeLineZeroDurationMeansOneDay(t *testing.T) {
	got := ComputeLine(LineInput{Qty: 3, UnitPrice: dec("10")})
	if !got.Subtotal.Equal(dec("30")) {
		t.Fatalf("subtotal = %s, want 30 (single-day pricing)", got.Subtotal)
	}
}

func TestComputeLineZeroQty(t *testing.T) {
	got := ComputeLine(LineInput{Qty: 0, UnitPrice: dec("999"), DurationDays: dec("4")})
	if !got.Subtotal.IsZero() {
		t.Fatalf("subtotal = %s, want 0", got.Subtotal)
	}
}

func TestComputeLineDiscountAndTaxes(t *testing.T) {
	// gross = 1*200*1 + 2*25 + 50 = 300; discounted = 300*0.9 = 270
	// tax = 270*0.15 + 270*0.05 = 40.5 + 13.5 = 54
	got := ComputeLine(LineInput{
		Qty:               1,
		UnitPrice:         dec("200"),
		ExtraHours:        2,
		ExtraHourRate:     dec("25"),
		AdditionalCharges: dec("50"),
		DiscountPercent:   dec("10"),
		TaxRates:          []decimal.Decimal{dec("15"), dec("5")},
	})

	if !got.Subtotal.Equal(dec("270")) {
		t.Fatalf("subtotal = %s, want 270", got.Subtotal)
	}
	if !got.Tax.Equal(dec("54")) {
		t.Fatalf("tax = %s, want 54", got.Tax)
	}
	if !got.Total.Equal(dec("324")) {
		t.Fatalf("total = %s, want 324", got.Total)
	}
}

func TestComputeLineTaxOnChargeInclusiveSubtotal(t *testing.T) {
	// Tax must cover the additional charges, not only qty*price.
	got := ComputeLine(LineInput{
		Qty:               1,
		UnitPrice:         dec("100"),
		AdditionalCharges: dec("100"),
		TaxRates:          []decimal.Decimal{dec("15")},
	})
	if !got.Tax.Equal(dec("30")) {
		t.Fatalf("tax = %s, want 30", got.Tax)
	}
}

func TestDurationDays(t *testing.T) {
	day := func(d int) *time.Time {
		ts := time.Date(2025, 6, d, 10, 30, 0, 0, time.UTC)
		return &ts
	}

	if got := DurationDays(day(1), day(4)); !got.Equal(dec("3")) {
		t.Fatalf("duration = %s, want 3", got)
	}
	if got := DurationDays(day(4), day(1)); !got.IsZero() {
		t.Fatalf("reversed range duration = %s, want 0", got)
	}
	if got := DurationDays(nil, day(4)); !got.IsZero() {
		t.Fatalf("missing start duration = %s, want 0", got)
	}
	if got := DurationDays(day(1), nil); !got.IsZero() {
		t.Fatalf("missing end duration = %s, want 0", got)
	}
}

func TestDurationDaysUsesLocalCalendarDates(t *testing.T) {
	// Jakarta-time range spanning two local midnights but only 26 hours:
	// the calendar dates, not elapsed 24-hour periods, decide the duration.
	ict := time.FixedZone("ICT", 7*3600)
	start := time.Date(2025, 6, 1, 23, 0, 0, 0, ict)
	end := time.Date(2025, 6, 3, 1, 0, 0, 0, ict)

	if got := DurationDays(&start, &end); !got.Equal(dec("2")) {
		t.Fatalf("duration = %s, want 2", got)
	}

	// A one-hour range crossing a local midnight still counts one day.
	s2 := time.Date(2025, 6, 1, 23, 30, 0, 0, ict)
	e2 := time.Date(2025, 6, 2, 0, 30, 0, 0, ict)
	if got := DurationDays(&s2, &e2); !got.Equal(dec("1")) {
		t.Fatalf("duration across local midnight = %s, want 1", got)
	}
}
