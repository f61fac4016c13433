package models

import "github.com/shopspring/decimal"

// TaxRate is one configurable percentage a line may reference. The fixed 15%
// booking VAT is a separate legacy figure and deliberately not stored here.
type TaxRate struct {
	ID          int64
	Name        string
	RatePercent decimal.Decimal
}

type ServiceType struct {
	ID   int64
	Name string
}

type ExtraService struct {
	ID   int64
	Name string
}

type Vehicle struct {
	ID          int64
	VehicleCode string
	PlateNumber string
	Model       string
	Year        string
	RentalPrice decimal.Decimal
}
