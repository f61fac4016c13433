package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Invoice is the customer invoice projected from a booking, either directly or
// through its sales order.
type Invoice struct {
	ID          int64
	BookingID   int64
	CustomerID  int64
	InvoiceDate *time.Time

	AmountUntaxed decimal.Decimal
	AmountTax     decimal.Decimal
	AmountTotal   decimal.Decimal

	Lines []InvoiceLine
}

type InvoiceLine struct {
	ID                int64
	InvoiceID         int64
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
