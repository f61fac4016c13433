package models

import "time"

// TripProfile mirrors a confirmed booking for the operations side. It is a
// create-or-update target: confirming the same booking twice refreshes the
// existing profile instead of creating a second one.
type TripProfile struct {
	ID           int64
	BookingID    int64
	Reference    string
	CustomerID   int64
	CustomerName string
	StartDate    *time.Time
	EndDate      *time.Time

	Lines []TripVehicleLine
}

type TripVehicleLine struct {
	ID            int64
	TripProfileID int64
	BookingLineID int64
	CarModel      string
	ServiceTypeID int64
	DriverName    string
	DriverMobile  string
}
