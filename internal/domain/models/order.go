package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// SalesOrder is the quotation projected from a confirmed booking.
type SalesOrder struct {
	ID           int64
	BookingID    int64
	CustomerID   int64
	OrderDate    *time.Time
	ValidityDate *time.Time
	Note         string

	AmountUntaxed decimal.Decimal
	AmountTax     decimal.Decimal
	AmountTotal   decimal.Decimal

	Lines []OrderLine
}

// OrderLine mirrors the booking line it was projected from. BookingLineID is a
// weak back-reference: lookup only, no cascade.
type OrderLine struct {
	ID                int64
	OrderID           int64
	BookingLineID     int64
	Name              string
	ProductID         int64
	ServiceTypeID     int64
	CarModel          string
	Qty               int64
	UnitPrice         decimal.Decimal
	DateStart         *time.Time
	DateEnd           *time.Time
	DurationDays      decimal.Decimal
	AdditionalCharges decimal.Decimal
	DiscountPercent   decimal.Decimal
	TaxIDs            []int64

	Subtotal decimal.Decimal
	Tax      decimal.Decimal
	Total    decimal.Decimal
}
