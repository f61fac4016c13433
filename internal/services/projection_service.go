package services

import (
	"context"
	"database/sql"
	"time"

	intconfig "carbooking/internal/config"
	intdb "carbooking/internal/db"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/pricing"
	"carbooking/internal/repositories"

	"github.com/shopspring/decimal"
)

// ProjectionService turns bookings into their commercial documents (sales
// order, invoice) and back. Projection is create-or-update keyed by the link
// the booking stores: projecting twice refreshes the same document.
type ProjectionService struct {
	BookingRepo repositories.BookingRepository
	OrderRepo   repositories.OrderRepository
	InvoiceRepo repositories.InvoiceRepository
	TaxRepo     repositories.TaxRepository
	Totals      TotalsService
	DB          *sql.DB
}

func (s ProjectionService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s ProjectionService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s ProjectionService) orders() repositories.OrderRepository {
	if s.OrderRepo.DB != nil {
		return s.OrderRepo
	}
	return repositories.OrderRepository{DB: s.db()}
}

func (s ProjectionService) invoices() repositories.InvoiceRepository {
	if s.InvoiceRepo.DB != nil {
		return s.InvoiceRepo
	}
	return repositories.InvoiceRepository{DB: s.db()}
}

func (s ProjectionService) taxes() repositories.TaxRepository {
	if s.TaxRepo.DB != nil {
		return s.TaxRepo
	}
	return repositories.TaxRepository{DB: s.db()}
}

func (s ProjectionService) totals() TotalsService {
	if s.Totals.DB != nil {
		return s.Totals
	}
	return TotalsService{DB: s.db()}
}

func validateProjectable(b models.Booking) error {
	if len(b.Lines) == 0 {
		return domain.ValidationError{Field: "lines", Msg: "booking has no lines to project"}
	}
	if b.CustomerID == 0 {
		return domain.ValidationError{Field: "customer_id", Msg: "booking has no customer"}
	}
	return nil
}

// projectedCharges folds a booking line's extra-hour pricing into the target
// line's additional-charges field. Zero hours fold nothing, matching the
// aggregator's stale-rate exclusion.
func projectedCharges(line models.BookingLine) decimal.Decimal {
	if line.ExtraHours <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(line.ExtraHours).Mul(line.ExtraHourRate)
}

// CreateQuotation projects a booking into its sales order. An existing linked
// order is rebuilt in place; otherwise a new one is created and linked.
func (s ProjectionService) CreateQuotation(ctx context.Context, bookingID int64) (int64, error) {
	ctx = WithPosting(ctx)
	var orderID int64
	err := intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		booking, err := s.bookings().GetByID(tx, bookingID)
		if err != nil {
			return err
		}
		if err := validateProjectable(booking); err != nil {
			return err
		}

		now := time.Now()
		header := models.SalesOrder{
			BookingID:  booking.ID,
			CustomerID: booking.CustomerID,
			OrderDate:  &now,
			Note:       booking.Notes,
		}

		orderID = booking.QuotationID
		if orderID > 0 {
			if _, err := s.orders().GetByID(tx, orderID); domain.IsNotFound(err) {
				orderID = 0
			} else if err != nil {
				return err
			}
		}

		if orderID > 0 {
			header.ID = orderID
			if err := s.orders().UpdateHeader(tx, header); err != nil {
				return err
			}
			if err := s.orders().DeleteLinesForOrder(tx, orderID); err != nil {
				return err
			}
		} else {
			orderID, err = s.orders().Create(tx, header)
			if err != nil {
				return err
			}
			if err := s.bookings().SetQuotation(tx, bookingID, orderID); err != nil {
				return err
			}
		}

		for _, line := range booking.Lines {
			if _, err := s.orders().InsertLine(tx, models.OrderLine{
				OrderID:           orderID,
				BookingLineID:     line.ID,
				Name:              line.Name,
				ProductID:         line.ProductID,
				ServiceTypeID:     line.ServiceTypeID,
				CarModel:          line.CarModel,
				Qty:               line.Qty,
				UnitPrice:         line.UnitPrice,
				DateStart:         line.StartDate,
				DateEnd:           line.EndDate,
				DurationDays:      line.DurationDays,
				AdditionalCharges: projectedCharges(line),
				TaxIDs:            line.TaxIDs,
			}); err != nil {
				return err
			}
		}

		return s.totals().SyncOrderTotals(ctx, tx, orderID)
	})
	return orderID, err
}

// CreateInvoice projects a booking into its customer invoice and releases the
// reservation for payment.
func (s ProjectionService) CreateInvoice(ctx context.Context, bookingID int64) (int64, error) {
	ctx = WithPosting(ctx)
	var invoiceID int64
	err := intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		booking, err := s.bookings().GetByID(tx, bookingID)
		if err != nil {
			return err
		}
		if err := validateProjectable(booking); err != nil {
			return err
		}

		now := time.Now()
		header := models.Invoice{
			BookingID:   booking.ID,
			CustomerID:  booking.CustomerID,
			InvoiceDate: &now,
		}

		invoiceID = booking.InvoiceID
		if invoiceID > 0 {
			if _, err := s.invoices().GetByID(tx, invoiceID); domain.IsNotFound(err) {
				invoiceID = 0
			} else if err != nil {
				return err
			}
		}

		if invoiceID > 0 {
			header.ID = invoiceID
			if err := s.invoices().UpdateHeader(tx, header); err != nil {
				return err
			}
			if err := s.invoices().DeleteLinesForInvoice(tx, invoiceID); err != nil {
				return err
			}
		} else {
			invoiceID, err = s.invoices().Create(tx, header)
			if err != nil {
				return err
			}
			if err := s.bookings().SetInvoice(tx, bookingID, invoiceID); err != nil {
				return err
			}
		}

		for _, line := range booking.Lines {
			if _, err := s.invoices().InsertLine(tx, models.InvoiceLine{
				InvoiceID:         invoiceID,
				BookingLineID:     line.ID,
				Name:              line.Name,
				ProductID:         line.ProductID,
				ServiceTypeID:     line.ServiceTypeID,
				CarModel:          line.CarModel,
				Qty:               line.Qty,
				UnitPrice:         line.UnitPrice,
				DateStart:         line.StartDate,
				DateEnd:           line.EndDate,
				DurationDays:      line.DurationDays,
				AdditionalCharges: projectedCharges(line),
				TaxIDs:            line.TaxIDs,
			}); err != nil {
				return err
			}
		}

		if err := s.totals().SyncInvoiceTotals(ctx, tx, invoiceID); err != nil {
			return err
		}
		return s.bookings().SetState(tx, bookingID, booking.State, domain.ReservationInvoiceReleased)
	})
	return invoiceID, err
}

// CreateBookingFromOrder is the reverse projection: a wizard takes an
// existing sales order and opens a draft booking pre-filled from its lines,
// linking the two both ways.
func (s ProjectionService) CreateBookingFromOrder(ctx context.Context, orderID int64, bookingType domain.BookingType) (int64, error) {
	if !bookingTypeValid(bookingType) {
		return 0, domain.ValidationError{Field: "booking_type", Msg: "unknown booking type"}
	}
	ctx = WithPosting(ctx)

	var bookingID int64
	err := intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		order, err := s.orders().GetByID(tx, orderID)
		if err != nil {
			return err
		}
		if len(order.Lines) == 0 {
			return domain.ValidationError{Field: "lines", Msg: "order has no lines to book"}
		}

		booking := models.Booking{
			BookingType: bookingType,
			State:       domain.TripStatusDraft,
			Reservation: domain.ReservationCreated,
			CustomerID:  order.CustomerID,
			BookingDate: order.OrderDate,
			Notes:       order.Note,
			QuotationID: orderID,
		}
		for _, line := range order.Lines {
			bl := models.BookingLine{
				Name:          line.Name,
				ServiceTypeID: line.ServiceTypeID,
				ProductID:     line.ProductID,
				CarModel:      line.CarModel,
				Qty:           line.Qty,
				UnitPrice:     line.UnitPrice,
				StartDate:     line.DateStart,
				EndDate:       line.DateEnd,
				DurationDays:  line.DurationDays,
				TaxIDs:        line.TaxIDs,
			}
			bl.Subtotal = pricing.LineSubtotal(bl)
			booking.Lines = append(booking.Lines, bl)
		}

		bookingID, err = s.bookings().Create(tx, booking)
		if err != nil {
			return err
		}
		if err := s.bookings().SetQuotation(tx, bookingID, orderID); err != nil {
			return err
		}
		if err := s.orders().SetBooking(tx, orderID, bookingID); err != nil {
			return err
		}

		booking.ID = bookingID
		return s.totals().SyncBookingTotals(ctx, tx, booking)
	})
	return bookingID, err
}
