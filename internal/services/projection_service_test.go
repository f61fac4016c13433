package services

import (
	"context"
	"testing"

	"carbooking/internal/domain"
	"carbooking/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func newProjectionMock(t *testing.T) (ProjectionService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)

	svc := ProjectionService{
		BookingRepo: repositories.BookingRepository{DB: db},
		OrderRepo:   repositories.OrderRepository{DB: db},
		InvoiceRepo: repositories.InvoiceRepository{DB: db},
		TaxRepo:     repositories.TaxRepository{DB: db},
		Totals: TotalsService{
			BookingRepo: repositories.BookingRepository{DB: db},
			OrderRepo:   repositories.OrderRepository{DB: db},
			InvoiceRepo: repositories.InvoiceRepository{DB: db},
			TaxRepo:     repositories.TaxRepository{DB: db},
			DB:          db,
		},
		DB: db,
	}
	return svc, mock, func() { db.Close() }
}

// Projecting a booking line must reproduce its quantity, unit price, service
// type and car model on the order line exactly.
func TestCreateQuotationCopiesLineIdentity(t *testing.T) {
	svc, mock, closeDB := newProjectionMock(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(1)).
		WillReturnRows(bookingRow(1, "confirm", "DSL/00001"))
	mock.ExpectQuery("FROM booking_lines WHERE booking_id=").WithArgs(int64(1)).
		WillReturnRows(oneLineRows(1))

	mock.ExpectExec("INSERT INTO sales_orders").
		WillReturnResult(sqlmock.NewResult(50, 1))
	mock.ExpectExec("UPDATE bookings SET quotation_id=").WithArgs(int64(50), int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_lines").
		WithArgs(int64(50), int64(11), "Sedan day rate", int64(9), int64(3), "Corolla",
			int64(2), decimal.NewFromInt(100), nil, nil, decimal.NewFromInt(3),
			decimal.Zero, decimal.Zero, "",
			decimal.Zero, decimal.Zero, decimal.Zero).
		WillReturnResult(sqlmock.NewResult(21, 1))

	// Final synchronizer pass fixes the stored amounts.
	mock.ExpectQuery("FROM sales_orders WHERE id=").WithArgs(int64(50)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(50, 1, 7, nil, nil, "", "0", "0", "0"))
	mock.ExpectQuery("FROM order_lines WHERE order_id=").WithArgs(int64(50)).
		WillReturnRows(sqlmock.NewRows(orderLineRowColumns).
			AddRow(21, 50, 11, "Sedan day rate", 9, 3, "Corolla",
				2, "100", nil, nil, "3",
				"0", "0", "", "0", "0", "0"))
	mock.ExpectQuery("FROM taxes ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rate_percent"}))
	mock.ExpectExec("UPDATE order_lines SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sales_orders SET amount_untaxed=").
		WithArgs(decimal.NewFromInt(600), decimal.Zero, decimal.NewFromInt(600), int64(50)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	orderID, err := svc.CreateQuotation(context.Background(), 1)
	if err != nil {
		t.Fatalf("CreateQuotation returned error: %v", err)
	}
	if orderID != 50 {
		t.Fatalf("orderID = %d, want 50", orderID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateQuotationRebuildsLinkedOrder(t *testing.T) {
	svc, mock, closeDB := newProjectionMock(t)
	defer closeDB()

	// Same booking as bookingRow but with the quotation link already set.
	booking := sqlmock.NewRows(bookingRowColumns).AddRow(
		2, "DSL/00002", "rental", "confirm", "created",
		7, "Acme", "0912345678", "", "0912345678",
		nil, nil, "", "0",
		"0", "0", "0", "0",
		0, "0",
		55, 0, 0,
	)

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(2)).
		WillReturnRows(booking)
	mock.ExpectQuery("FROM booking_lines WHERE booking_id=").WithArgs(int64(2)).
		WillReturnRows(oneLineRows(2))

	// Existence probe on the linked order, then in-place rebuild.
	mock.ExpectQuery("FROM sales_orders WHERE id=").WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(55, 2, 7, nil, nil, "", "999", "999", "999"))
	mock.ExpectQuery("FROM order_lines WHERE order_id=").WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows(orderLineRowColumns))
	mock.ExpectExec("UPDATE sales_orders SET customer_id=").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("DELETE FROM order_lines WHERE order_id=").WithArgs(int64(55)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO order_lines").
		WillReturnResult(sqlmock.NewResult(23, 1))

	mock.ExpectQuery("FROM sales_orders WHERE id=").WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(55, 2, 7, nil, nil, "", "999", "999", "999"))
	mock.ExpectQuery("FROM order_lines WHERE order_id=").WithArgs(int64(55)).
		WillReturnRows(sqlmock.NewRows(orderLineRowColumns).
			AddRow(23, 55, 11, "Sedan day rate", 9, 3, "Corolla",
				2, "100", nil, nil, "3",
				"0", "0", "", "0", "0", "0"))
	mock.ExpectQuery("FROM taxes ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rate_percent"}))
	mock.ExpectExec("UPDATE order_lines SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sales_orders SET amount_untaxed=").
		WithArgs(decimal.NewFromInt(600), decimal.Zero, decimal.NewFromInt(600), int64(55)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	orderID, err := svc.CreateQuotation(context.Background(), 2)
	if err != nil {
		t.Fatalf("CreateQuotation returned error: %v", err)
	}
	if orderID != 55 {
		t.Fatalf("orderID = %d, want existing 55", orderID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateInvoiceReleasesReservation(t *testing.T) {
	svc, mock, closeDB := newProjectionMock(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(3)).
		WillReturnRows(bookingRow(3, "confirm", "DSL/00003"))
	mock.ExpectQuery("FROM booking_lines WHERE booking_id=").WithArgs(int64(3)).
		WillReturnRows(oneLineRows(3))

	mock.ExpectExec("INSERT INTO invoices").
		WillReturnResult(sqlmock.NewResult(70, 1))
	mock.ExpectExec("UPDATE bookings SET invoice_id=").WithArgs(int64(70), int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO invoice_lines").
		WillReturnResult(sqlmock.NewResult(31, 1))

	mock.ExpectQuery("FROM invoices WHERE id=").WithArgs(int64(70)).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "booking_id", "customer_id", "invoice_date",
			"amount_untaxed", "amount_tax", "amount_total",
		}).AddRow(70, 3, 7, nil, "0", "0", "0"))
	mock.ExpectQuery("FROM invoice_lines WHERE invoice_id=").WithArgs(int64(70)).
		WillReturnRows(sqlmock.NewRows(orderLineRowColumns).
			AddRow(31, 70, 11, "Sedan day rate", 9, 3, "Corolla",
				2, "100", nil, nil, "3",
				"0", "0", "", "0", "0", "0"))
	mock.ExpectQuery("FROM taxes ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rate_percent"}))
	mock.ExpectExec("UPDATE invoice_lines SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE invoices SET amount_untaxed=").
		WillReturnResult(sqlmock.NewResult(0, 1))

	mock.ExpectExec("UPDATE bookings SET state=").WithArgs("confirm", "invoice_released", int64(3)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	invoiceID, err := svc.CreateInvoice(context.Background(), 3)
	if err != nil {
		t.Fatalf("CreateInvoice returned error: %v", err)
	}
	if invoiceID != 70 {
		t.Fatalf("invoiceID = %d, want 70", invoiceID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestProjectionRequiresLinesAndCustomer(t *testing.T) {
	svc, mock, closeDB := newProjectionMock(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(4)).
		WillReturnRows(bookingRow(4, "confirm", "DSL/00004"))
	mock.ExpectQuery("FROM booking_lines WHERE booking_id=").WithArgs(int64(4)).
		WillReturnRows(sqlmock.NewRows(bookingLineRowColumns))
	mock.ExpectRollback()

	if _, err := svc.CreateQuotation(context.Background(), 4); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for empty booking, got %v", err)
	}

	// Guest-only booking without a customer record.
	mock.ExpectBegin()
	mock.ExpectQuery("FROM bookings WHERE id=").WithArgs(int64(5)).
		WillReturnRows(sqlmock.NewRows(bookingRowColumns).AddRow(
			5, "DSL/00005", "rental", "confirm", "created",
			0, "", "", "Walk-in", "0911222333",
			nil, nil, "", "0",
			"0", "0", "0", "0",
			0, "0",
			0, 0, 0,
		))
	mock.ExpectQuery("FROM booking_lines WHERE booking_id=").WithArgs(int64(5)).
		WillReturnRows(oneLineRows(5))
	mock.ExpectRollback()

	if _, err := svc.CreateInvoice(context.Background(), 5); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError for missing customer, got %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateBookingFromOrderLinksBothWays(t *testing.T) {
	svc, mock, closeDB := newProjectionMock(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM sales_orders WHERE id=").WithArgs(int64(80)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(80, 0, 7, nil, nil, "corporate rate", "600", "0", "600"))
	mock.ExpectQuery("FROM order_lines WHERE order_id=").WithArgs(int64(80)).
		WillReturnRows(sqlmock.NewRows(orderLineRowColumns).
			AddRow(24, 80, 0, "Sedan day rate", 9, 3, "Corolla",
				2, "100", nil, nil, "3",
				"0", "0", "", "600", "0", "600"))

	mock.ExpectExec("INSERT INTO bookings").
		WillReturnResult(sqlmock.NewResult(90, 1))
	mock.ExpectExec("INSERT INTO booking_lines").
		WillReturnResult(sqlmock.NewResult(91, 1))
	mock.ExpectExec("UPDATE bookings SET quotation_id=").WithArgs(int64(80), int64(90)).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sales_orders SET booking_id=").WithArgs(int64(90), int64(80)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	// Aggregate pass on the new booking.
	mock.ExpectQuery("FROM booking_lines WHERE booking_id=").WithArgs(int64(90)).
		WillReturnRows(sqlmock.NewRows(bookingLineRowColumns).
			AddRow(91, 90, "Sedan day rate", 3, 9, "Corolla",
				2, "100", nil, nil, "3",
				0, "0", "",
				"", "", "", "600"))
	mock.ExpectQuery("FROM taxes ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rate_percent"}))
	mock.ExpectExec("UPDATE bookings SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	bookingID, err := svc.CreateBookingFromOrder(context.Background(), 80, domain.BookingTypeRental)
	if err != nil {
		t.Fatalf("CreateBookingFromOrder returned error: %v", err)
	}
	if bookingID != 90 {
		t.Fatalf("bookingID = %d, want 90", bookingID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
