package domain

// TripStatus is the booking lifecycle state.
type TripStatus string

const (
	TripStatusDraft     TripStatus = "draft"
	TripStatusConfirm   TripStatus = "confirm"
	TripStatusScheduled TripStatus = "scheduled"
	TripStatusDeparted  TripStatus = "departed"
	TripStatusCompleted TripStatus = "completed"
	TripStatusInvoiced  TripStatus = "invoiced"
	TripStatusCancelled TripStatus = "cancelled"
)

// ReservationStatus tracks the commercial side of a booking independently of
// the trip lifecycle.
type ReservationStatus string

const (
	ReservationCreated         ReservationStatus = "created"
	ReservationInvoiceReleased ReservationStatus = "invoice_released"
	ReservationPaid            ReservationStatus = "paid"
	ReservationActive          ReservationStatus = "active"
	ReservationFinished        ReservationStatus = "finished"
	ReservationCancelled       ReservationStatus = "cancelled"
)

type BookingType string

const (
	BookingTypeWithDriver BookingType = "with_driver"
	BookingTypeRental     BookingType = "rental"
)

// DocumentType selects the target of an explicit totals recomputation.
type DocumentType string

const (
	DocumentSalesOrder DocumentType = "sales_order"
	DocumentInvoice    DocumentType = "invoice"
)

func (t TripStatus) Valid() bool {
	switch t {
	case TripStatusDraft, TripStatusConfirm, TripStatusScheduled,
		TripStatusDeparted, TripStatusCompleted, TripStatusInvoiced, TripStatusCancelled:
		return true
	}
	return false
}

func (d DocumentType) Valid() bool {
	return d == DocumentSalesOrder || d == DocumentInvoice
}
