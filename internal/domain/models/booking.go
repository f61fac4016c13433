package models

import (
	"time"

	"carbooking/internal/domain"

	"github.com/shopspring/decimal"
)

// Booking is the top-level rental/service request record.
type Booking struct {
	ID            int64
	Reference     string
	BookingType   domain.BookingType
	State         domain.TripStatus
	Reservation   domain.ReservationStatus
	CustomerID    int64
	CustomerName  string
	Mobile        string
	GuestName     string
	GuestPhone    string
	BookingDate   *time.Time
	DateOfService *time.Time
	Notes         string
	MiscCharges   decimal.Decimal

	// Stored aggregates, owned by the aggregator. Never edited directly.
	UntaxedTotal          decimal.Decimal
	VAT                   decimal.Decimal
	GrandTotal            decimal.Decimal
	TotalTax              decimal.Decimal
	ExtraHourTotal        int64
	ExtraHourChargesTotal decimal.Decimal

	// Projection targets (create-or-update, weak from the target's side).
	QuotationID   int64
	InvoiceID     int64
	TripProfileID int64

	Lines []BookingLine
}

// BookingLine is one priced item (vehicle/service/day-range) in a booking.
type BookingLine struct {
	ID            int64
	BookingID     int64
	Name          string
	ServiceTypeID int64
	ProductID     int64
	CarModel      string
	Qty           int64
	UnitPrice     decimal.Decimal
	StartDate     *time.Time
	EndDate       *time.Time
	DurationDays  decimal.Decimal
	ExtraHours    int64
	ExtraHourRate decimal.Decimal
	TaxIDs        []int64
	DriverName    string
	DriverMobile  string
	DriverIDNo    string

	// Derived, recomputed on every input change.
	Subtotal decimal.Decimal
}

// BookingUpdate supports PATCH-style updates via key presence.
type BookingUpdate struct {
	CustomerID  *int64
	Mobile      *string
	GuestName   *string
	GuestPhone  *string
	Notes       *string
	MiscCharges *decimal.Decimal
}
