package services

import (
	"context"
	"database/sql"
	"strings"

	intconfig "carbooking/internal/config"
	intdb "carbooking/internal/db"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/pricing"
	"carbooking/internal/repositories"
)

// BookingService owns the booking lifecycle: CRUD, line mutations with inline
// aggregate recomputation, and the trip/reservation state machines.
type BookingService struct {
	BookingRepo  repositories.BookingRepository
	SequenceRepo repositories.SequenceRepository
	TripRepo     repositories.TripRepository
	Totals       TotalsService
	DB           *sql.DB
}

func (s BookingService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s BookingService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s BookingService) sequences() repositories.SequenceRepository {
	if s.SequenceRepo.DB != nil {
		return s.SequenceRepo
	}
	return repositories.SequenceRepository{DB: s.db()}
}

func (s BookingService) trips() repositories.TripRepository {
	if s.TripRepo.DB != nil {
		return s.TripRepo
	}
	return repositories.TripRepository{DB: s.db()}
}

func (s BookingService) totals() TotalsService {
	if s.Totals.DB != nil {
		return s.Totals
	}
	return TotalsService{DB: s.db()}
}

// prepareLine validates a line's inputs and derives its duration and subtotal.
// An end date before the start date is rejected here, before any duration or
// quantity math runs.
func prepareLine(line models.BookingLine) (models.BookingLine, error) {
	if line.Qty < 0 {
		return line, domain.ValidationError{Field: "qty", Msg: "quantity must not be negative"}
	}
	if line.ExtraHours < 0 {
		return line, domain.ValidationError{Field: "extra_hours", Msg: "extra hours must not be negative"}
	}
	if line.StartDate != nil && line.EndDate != nil && line.EndDate.Before(*line.StartDate) {
		return line, domain.ValidationError{Field: "end_date", Msg: "end date must not precede start date"}
	}

	line.Name = strings.TrimSpace(line.Name)
	line.DurationDays = pricing.DurationDays(line.StartDate, line.EndDate)
	line.Subtotal = pricing.LineSubtotal(line)
	return line, nil
}

// normalizeContacts trims contact fields and autofills the guest phone from
// the customer mobile (and the reverse) when only one was entered.
func normalizeContacts(b models.Booking) models.Booking {
	b.CustomerName = strings.TrimSpace(b.CustomerName)
	b.Mobile = strings.TrimSpace(b.Mobile)
	b.GuestName = strings.TrimSpace(b.GuestName)
	b.GuestPhone = strings.TrimSpace(b.GuestPhone)

	if b.GuestPhone == "" {
		b.GuestPhone = b.Mobile
	}
	if b.Mobile == "" {
		b.Mobile = b.GuestPhone
	}
	return b
}

func (s BookingService) CreateBooking(ctx context.Context, b models.Booking) (int64, error) {
	ctx = WithPosting(ctx)
	if !bookingTypeValid(b.BookingType) {
		return 0, domain.ValidationError{Field: "booking_type", Msg: "unknown booking type"}
	}

	b = normalizeContacts(b)
	b.State = domain.TripStatusDraft
	b.Reservation = domain.ReservationCreated
	b.Reference = ""

	for i := range b.Lines {
		line, err := prepareLine(b.Lines[i])
		if err != nil {
			return 0, err
		}
		b.Lines[i] = line
	}

	var id int64
	err := intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		var err error
		id, err = s.bookings().Create(tx, b)
		if err != nil {
			return err
		}
		b.ID = id
		return s.totals().SyncBookingTotals(ctx, tx, b)
	})
	return id, err
}

func bookingTypeValid(t domain.BookingType) bool {
	return t == domain.BookingTypeWithDriver || t == domain.BookingTypeRental
}

func (s BookingService) GetBooking(id int64) (models.Booking, error) {
	return s.bookings().GetByID(nil, id)
}

func (s BookingService) ListBookings(state string) ([]models.Booking, error) {
	if state != "" && !domain.TripStatus(state).Valid() {
		return nil, domain.ValidationError{Field: "state", Msg: "unknown state"}
	}
	return s.bookings().List(nil, state)
}

func (s BookingService) UpdateBooking(ctx context.Context, id int64, upd models.BookingUpdate) error {
	ctx = WithPosting(ctx)
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		if _, err := s.bookings().GetByID(tx, id); err != nil {
			return err
		}
		if err := s.bookings().Update(tx, id, upd); err != nil {
			return err
		}
		booking, err := s.bookings().GetByID(tx, id)
		if err != nil {
			return err
		}
		// The phone autofill applies on update too: a header change that
		// fills only one of the two numbers propagates to the other.
		if fixed := normalizeContacts(booking); fixed.Mobile != booking.Mobile || fixed.GuestPhone != booking.GuestPhone {
			patch := models.BookingUpdate{}
			if fixed.Mobile != booking.Mobile {
				patch.Mobile = &fixed.Mobile
			}
			if fixed.GuestPhone != booking.GuestPhone {
				patch.GuestPhone = &fixed.GuestPhone
			}
			if err := s.bookings().Update(tx, id, patch); err != nil {
				return err
			}
			booking = fixed
		}
		return s.totals().SyncBookingTotals(ctx, tx, booking)
	})
}

func (s BookingService) DeleteBooking(id int64) error {
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		return s.bookings().Delete(tx, id)
	})
}

// AddLine appends a priced line and refreshes the booking aggregates in the
// same transaction.
func (s BookingService) AddLine(ctx context.Context, bookingID int64, line models.BookingLine) (int64, error) {
	ctx = WithPosting(ctx)
	line, err := prepareLine(line)
	if err != nil {
		return 0, err
	}

	var lineID int64
	err = intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		booking, err := s.bookings().GetByID(tx, bookingID)
		if err != nil {
			return err
		}
		line.BookingID = bookingID
		lineID, err = s.bookings().InsertLine(tx, line)
		if err != nil {
			return err
		}
		return s.totals().SyncBookingTotals(ctx, tx, booking)
	})
	return lineID, err
}

func (s BookingService) UpdateLine(ctx context.Context, line models.BookingLine) error {
	ctx = WithPosting(ctx)
	line, err := prepareLine(line)
	if err != nil {
		return err
	}

	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		existing, err := s.bookings().GetLine(tx, line.ID)
		if err != nil {
			return err
		}
		line.BookingID = existing.BookingID
		if err := s.bookings().UpdateLine(tx, line); err != nil {
			return err
		}
		booking, err := s.bookings().GetByID(tx, existing.BookingID)
		if err != nil {
			return err
		}
		return s.totals().SyncBookingTotals(ctx, tx, booking)
	})
}

func (s BookingService) RemoveLine(ctx context.Context, lineID int64) error {
	ctx = WithPosting(ctx)
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		existing, err := s.bookings().GetLine(tx, lineID)
		if err != nil {
			return err
		}
		if err := s.bookings().DeleteLine(tx, lineID); err != nil {
			return err
		}
		booking, err := s.bookings().GetByID(tx, existing.BookingID)
		if err != nil {
			return err
		}
		return s.totals().SyncBookingTotals(ctx, tx, booking)
	})
}

// Confirm moves a draft booking to confirm, assigns its sequential reference
// when it has none, and projects the trip profile used by operations.
func (s BookingService) Confirm(id int64) (models.Booking, error) {
	var out models.Booking
	err := intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		booking, err := s.bookings().GetByID(tx, id)
		if err != nil {
			return err
		}
		if booking.State != domain.TripStatusDraft {
			return domain.ValidationError{Field: "state",
				Msg: "only a draft booking can be confirmed (current: " + string(booking.State) + ")"}
		}

		if booking.Reference == "" {
			ref, err := s.sequences().NextReference(tx, repositories.SequenceCodeFor(booking.BookingType))
			if err != nil {
				return err
			}
			if err := s.bookings().SetReference(tx, id, ref); err != nil {
				return err
			}
			booking.Reference = ref
		}

		if err := s.bookings().SetState(tx, id, domain.TripStatusConfirm, booking.Reservation); err != nil {
			return err
		}
		booking.State = domain.TripStatusConfirm

		if err := s.projectTripProfile(tx, &booking); err != nil {
			return err
		}
		out = booking
		return nil
	})
	return out, err
}

// projectTripProfile creates or refreshes the operations-facing trip record.
// Reconfirming an amended booking updates the existing profile in place.
func (s BookingService) projectTripProfile(x intdb.DBTX, booking *models.Booking) error {
	profile := models.TripProfile{
		BookingID:    booking.ID,
		Reference:    booking.Reference,
		CustomerID:   booking.CustomerID,
		CustomerName: booking.CustomerName,
	}
	for _, line := range booking.Lines {
		if profile.StartDate == nil || (line.StartDate != nil && line.StartDate.Before(*profile.StartDate)) {
			profile.StartDate = line.StartDate
		}
		if profile.EndDate == nil || (line.EndDate != nil && line.EndDate.After(*profile.EndDate)) {
			profile.EndDate = line.EndDate
		}
	}

	profileID := booking.TripProfileID
	if profileID > 0 {
		profile.ID = profileID
		if err := s.trips().UpdateHeader(x, profile); err != nil {
			return err
		}
		if err := s.trips().DeleteLinesForProfile(x, profileID); err != nil {
			return err
		}
	} else {
		var err error
		profileID, err = s.trips().Create(x, profile)
		if err != nil {
			return err
		}
		if err := s.bookings().SetTripProfile(x, booking.ID, profileID); err != nil {
			return err
		}
		booking.TripProfileID = profileID
	}

	for _, line := range booking.Lines {
		_, err := s.trips().InsertLine(x, models.TripVehicleLine{
			TripProfileID: profileID,
			BookingLineID: line.ID,
			CarModel:      line.CarModel,
			ServiceTypeID: line.ServiceTypeID,
			DriverName:    line.DriverName,
			DriverMobile:  line.DriverMobile,
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Cancel is only legal from draft or confirm. It also cancels the
// reservation side.
func (s BookingService) Cancel(id int64) error {
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		booking, err := s.bookings().GetByID(tx, id)
		if err != nil {
			return err
		}
		if booking.State != domain.TripStatusDraft && booking.State != domain.TripStatusConfirm {
			return domain.ValidationError{Field: "state",
				Msg: "cannot cancel a booking in state " + string(booking.State)}
		}
		return s.bookings().SetState(tx, id, domain.TripStatusCancelled, domain.ReservationCancelled)
	})
}

// ResetToDraft reopens a cancelled booking. Any other state keeps its history.
func (s BookingService) ResetToDraft(id int64) error {
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		booking, err := s.bookings().GetByID(tx, id)
		if err != nil {
			return err
		}
		if booking.State != domain.TripStatusCancelled {
			return domain.ValidationError{Field: "state",
				Msg: "only a cancelled booking can return to draft"}
		}
		return s.bookings().SetState(tx, id, domain.TripStatusDraft, domain.ReservationCreated)
	})
}

// tripOrder fixes the forward chain of operational statuses.
var tripOrder = map[domain.TripStatus]domain.TripStatus{
	domain.TripStatusConfirm:   domain.TripStatusScheduled,
	domain.TripStatusScheduled: domain.TripStatusDeparted,
	domain.TripStatusDeparted:  domain.TripStatusCompleted,
	domain.TripStatusCompleted: domain.TripStatusInvoiced,
}

// AdvanceTripStatus moves a confirmed booking one step along
// scheduled→departed→completed→invoiced. Draft entry and cancellation have
// their own guarded operations.
func (s BookingService) AdvanceTripStatus(id int64, next domain.TripStatus) error {
	if !next.Valid() {
		return domain.ValidationError{Field: "state", Msg: "unknown state"}
	}
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		booking, err := s.bookings().GetByID(tx, id)
		if err != nil {
			return err
		}
		if tripOrder[booking.State] != next {
			return domain.ValidationError{Field: "state",
				Msg: "cannot move booking from " + string(booking.State) + " to " + string(next)}
		}
		return s.bookings().SetState(tx, id, next, booking.Reservation)
	})
}

var reservationOrder = map[domain.ReservationStatus]domain.ReservationStatus{
	domain.ReservationCreated:         domain.ReservationInvoiceReleased,
	domain.ReservationInvoiceReleased: domain.ReservationPaid,
	domain.ReservationPaid:            domain.ReservationActive,
	domain.ReservationActive:          domain.ReservationFinished,
}

// AdvanceReservation moves the commercial status one step along
// created→invoice_released→paid→active→finished.
func (s BookingService) AdvanceReservation(id int64, next domain.ReservationStatus) error {
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		booking, err := s.bookings().GetByID(tx, id)
		if err != nil {
			return err
		}
		if reservationOrder[booking.Reservation] != next {
			return domain.ValidationError{Field: "reservation_status",
				Msg: "cannot move reservation from " + string(booking.Reservation) + " to " + string(next)}
		}
		return s.bookings().SetState(tx, id, booking.State, next)
	})
}

// Duplicate creates a fresh draft copy of a booking: header and lines carry
// over, computed state (reference, states, projections, totals) does not.
func (s BookingService) Duplicate(ctx context.Context, id int64) (int64, error) {
	ctx = WithPosting(ctx)
	var newID int64
	err := intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		src, err := s.bookings().GetByID(tx, id)
		if err != nil {
			return err
		}

		copyBooking := models.Booking{
			BookingType:   src.BookingType,
			State:         domain.TripStatusDraft,
			Reservation:   domain.ReservationCreated,
			CustomerID:    src.CustomerID,
			CustomerName:  src.CustomerName,
			Mobile:        src.Mobile,
			GuestName:     src.GuestName,
			GuestPhone:    src.GuestPhone,
			BookingDate:   src.BookingDate,
			DateOfService: src.DateOfService,
			Notes:         src.Notes,
			MiscCharges:   src.MiscCharges,
		}
		for _, line := range src.Lines {
			line.ID = 0
			line.BookingID = 0
			copyBooking.Lines = append(copyBooking.Lines, line)
		}

		newID, err = s.bookings().Create(tx, copyBooking)
		if err != nil {
			return err
		}
		copyBooking.ID = newID
		return s.totals().SyncBookingTotals(ctx, tx, copyBooking)
	})
	return newID, err
}
