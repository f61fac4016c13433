package services

import (
	"context"
	"testing"

	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

var orderRowColumns = []string{
	"id", "booking_id", "customer_id", "order_date", "validity_date", "note",
	"amount_untaxed", "amount_tax", "amount_total",
}

var orderLineRowColumns = []string{
	"id", "order_id", "booking_line_id", "name", "product_id", "service_type_id", "car_model",
	"qty", "unit_price", "date_start", "date_end", "duration_days",
	"additional_charges", "discount_percent", "tax_ids", "subtotal", "tax", "total",
}

func newTotalsMock(t *testing.T) (TotalsService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)

	svc := TotalsService{
		BookingRepo: repositories.BookingRepository{DB: db},
		OrderRepo:   repositories.OrderRepository{DB: db},
		InvoiceRepo: repositories.InvoiceRepository{DB: db},
		TaxRepo:     repositories.TaxRepository{DB: db},
		DB:          db,
	}
	return svc, mock, func() { db.Close() }
}

// Stored header amounts are garbage on purpose: the synchronizer must
// overwrite them from line inputs, not trust or merge them.
func expectOrderSyncPass(mock sqlmock.Sqlmock, orderID int64) {
	mock.ExpectQuery("FROM sales_orders WHERE id=").WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(orderID, 1, 7, nil, nil, "", "999", "999", "999"))
	mock.ExpectQuery("FROM order_lines WHERE order_id=").WithArgs(orderID).
		WillReturnRows(sqlmock.NewRows(orderLineRowColumns).
			AddRow(21, orderID, 11, "Sedan day rate", 9, 3, "Corolla",
				2, "100", nil, nil, "3",
				"0", "0", "1", "999", "999", "999"))
	mock.ExpectQuery("FROM taxes ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rate_percent"}).
			AddRow(1, "VAT 10%", "10"))
	mock.ExpectExec("UPDATE order_lines SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sales_orders SET amount_untaxed=").
		WithArgs(decimal.NewFromInt(600), decimal.NewFromInt(60), decimal.NewFromInt(660), orderID).
		WillReturnResult(sqlmock.NewResult(0, 1))
}

func TestSyncOrderTotalsOverwritesStoredAmounts(t *testing.T) {
	svc, mock, closeDB := newTotalsMock(t)
	defer closeDB()

	expectOrderSyncPass(mock, 40)

	if err := svc.SyncOrderTotals(context.Background(), svc.DB, 40); err != nil {
		t.Fatalf("SyncOrderTotals returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecomputeTotalsIdempotent(t *testing.T) {
	svc, mock, closeDB := newTotalsMock(t)
	defer closeDB()

	// Two passes over an unchanged document store identical totals.
	mock.ExpectBegin()
	expectOrderSyncPass(mock, 41)
	mock.ExpectCommit()
	mock.ExpectBegin()
	expectOrderSyncPass(mock, 41)
	mock.ExpectCommit()

	ctx := context.Background()
	if err := svc.RecomputeTotals(ctx, 41, domain.DocumentSalesOrder); err != nil {
		t.Fatalf("first recompute returned error: %v", err)
	}
	if err := svc.RecomputeTotals(ctx, 41, domain.DocumentSalesOrder); err != nil {
		t.Fatalf("second recompute returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecomputeTotalsSkippedWhilePosting(t *testing.T) {
	svc, mock, closeDB := newTotalsMock(t)
	defer closeDB()

	if err := svc.RecomputeTotals(WithPosting(context.Background()), 42, domain.DocumentInvoice); err != nil {
		t.Fatalf("guarded recompute returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("guarded recompute touched the database: %v", err)
	}
}

func TestSyncPassStillWritesWhilePosting(t *testing.T) {
	svc, mock, closeDB := newTotalsMock(t)
	defer closeDB()

	expectOrderSyncPass(mock, 44)

	// The posting mark a mutation sets suppresses nested recompute requests,
	// never the synchronizer pass that carries it.
	ctx := WithPosting(context.Background())
	if err := svc.SyncOrderTotals(ctx, svc.DB, 44); err != nil {
		t.Fatalf("SyncOrderTotals returned error: %v", err)
	}
	if err := svc.RecomputeTotals(ctx, 44, domain.DocumentSalesOrder); err != nil {
		t.Fatalf("recompute during posting returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestRecomputeTotalsRejectsUnknownDocumentType(t *testing.T) {
	svc, _, closeDB := newTotalsMock(t)
	defer closeDB()

	err := svc.RecomputeTotals(context.Background(), 1, domain.DocumentType("ledger"))
	if !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestMissingTaxContributesZero(t *testing.T) {
	svc, mock, closeDB := newTotalsMock(t)
	defer closeDB()

	mock.ExpectQuery("FROM sales_orders WHERE id=").WithArgs(int64(43)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(43, 1, 7, nil, nil, "", "0", "0", "0"))
	// Line references tax 7, which no longer exists.
	mock.ExpectQuery("FROM order_lines WHERE order_id=").WithArgs(int64(43)).
		WillReturnRows(sqlmock.NewRows(orderLineRowColumns).
			AddRow(22, 43, 11, "Sedan day rate", 9, 3, "Corolla",
				2, "100", nil, nil, "3",
				"0", "0", "7", "0", "0", "0"))
	mock.ExpectQuery("FROM taxes ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rate_percent"}))
	mock.ExpectExec("UPDATE order_lines SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE sales_orders SET amount_untaxed=").
		WithArgs(decimal.NewFromInt(600), decimal.Zero, decimal.NewFromInt(600), int64(43)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := svc.SyncOrderTotals(context.Background(), svc.DB, 43); err != nil {
		t.Fatalf("SyncOrderTotals returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSyncBookingTotalsRefreshesStaleSubtotal(t *testing.T) {
	svc, mock, closeDB := newTotalsMock(t)
	defer closeDB()

	// Stored subtotal 999 is stale; the sync rewrites it to 600 and stores
	// aggregates derived from line inputs only.
	mock.ExpectQuery("FROM booking_lines WHERE booking_id=").WithArgs(int64(1)).
		WillReturnRows(sqlmock.NewRows(bookingLineRowColumns).
			AddRow(11, 1, "Sedan day rate", 3, 9, "Corolla",
				2, "100", nil, nil, "3",
				0, "0", "",
				"", "", "", "999"))
	mock.ExpectQuery("FROM taxes ORDER BY id").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "rate_percent"}))
	mock.ExpectExec("UPDATE booking_lines SET").
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("UPDATE bookings SET").
		WithArgs(decimal.NewFromInt(600), decimal.NewFromInt(90), decimal.NewFromInt(700),
			decimal.Zero, int64(0), decimal.Zero, int64(1)).
		WillReturnResult(sqlmock.NewResult(0, 1))

	booking := models.Booking{ID: 1, MiscCharges: decimal.NewFromInt(10)}
	if err := svc.SyncBookingTotals(context.Background(), svc.DB, booking); err != nil {
		t.Fatalf("SyncBookingTotals returned error: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
