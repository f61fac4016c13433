package utils

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestParseIDListSkipsMalformedEntries(t *testing.T) {
	got := ParseIDList(" 1, 4,abc, -2 ,7,")
	want := []int64{1, 4, 7}
	if len(got) != len(want) {
		t.Fatalf("ParseIDList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("ParseIDList = %v, want %v", got, want)
		}
	}
}

func TestParseIDListEmpty(t *testing.T) {
	if got := ParseIDList("  "); got != nil {
		t.Fatalf("ParseIDList on blank = %v, want nil", got)
	}
}

func TestJoinIDListRoundTrip(t *testing.T) {
	s := JoinIDList([]int64{1, 4, 7})
	if s != "1,4,7" {
		t.Fatalf("JoinIDList = %q, want 1,4,7", s)
	}
	if got := JoinIDList(nil); got != "" {
		t.Fatalf("JoinIDList(nil) = %q, want empty", got)
	}
}

func TestParseDateTimeLayouts(t *testing.T) {
	for _, in := range []string{
		"2026-03-01T10:30:00Z",
		"2026-03-01 10:30:00",
		"2026-03-01 10:30",
		"2026-03-01",
	} {
		got, err := ParseDateTime(in)
		if err != nil {
			t.Fatalf("ParseDateTime(%q) error: %v", in, err)
		}
		if got == nil {
			t.Fatalf("ParseDateTime(%q) = nil", in)
		}
		if got.Year() != 2026 || got.Month() != 3 || got.Day() != 1 {
			t.Fatalf("ParseDateTime(%q) = %v", in, got)
		}
	}
}

func TestParseDateTimeEmptyAndInvalid(t *testing.T) {
	got, err := ParseDateTime("")
	if err != nil || got != nil {
		t.Fatalf("ParseDateTime(empty) = %v, %v", got, err)
	}
	if _, err := ParseDateTime("not-a-date"); err == nil {
		t.Fatal("ParseDateTime accepted garbage input")
	}
}

func TestRoundMoneyHalfUp(t *testing.T) {
	got := RoundMoney(decimal.RequireFromString("10.005"))
	if got.String() != "10.01" {
		t.Fatalf("RoundMoney(10.005) = %s, want 10.01", got)
	}
}

func TestFormatMoneyFixedDigits(t *testing.T) {
	if s := FormatMoney(decimal.NewFromInt(600)); s != "600.00" {
		t.Fatalf("FormatMoney(600) = %q, want 600.00", s)
	}
}
