package services

import (
	"context"
	"testing"

	"carbooking/internal/domain/models"
	"carbooking/internal/repositories"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/shopspring/decimal"
)

func newDocumentMock(t *testing.T) (DocumentService, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	mock.MatchExpectationsInOrder(false)

	svc := DocumentService{
		OrderRepo:   repositories.OrderRepository{DB: db},
		InvoiceRepo: repositories.InvoiceRepository{DB: db},
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

func TestAddOrderLineResyncsHeaderTotals(t *testing.T) {
	svc, mock, closeDB := newDocumentMock(t)
	defer closeDB()

	mock.ExpectBegin()
	mock.ExpectQuery("FROM sales_orders WHERE id=").WithArgs(int64(40)).
		WillReturnRows(sqlmock.NewRows(orderRowColumns).
			AddRow(40, 1, 7, nil, nil, "", "0", "0", "0"))
	mock.ExpectQuery("FROM order_lines WHERE order_id=").WithArgs(int64(40)).
		WillReturnRows(sqlmock.NewRows(orderLineRowColumns))
	mock.ExpectExec("INSERT INTO order_lines").
		WillReturnResult(sqlmock.NewResult(21, 1))

	// The same transaction ends with a full synchronizer pass over the
	// order, so the stored header amounts reflect the new line.
	expectOrderSyncPass(mock, 40)
	mock.ExpectCommit()

	lineID, err := svc.AddOrderLine(context.Background(), 40, models.OrderLine{
		BookingLineID: 11,
		Name:          "Sedan day rate",
		ProductID:     9,
		ServiceTypeID: 3,
		CarModel:      "Corolla",
		Qty:           2,
		UnitPrice:     decimal.NewFromInt(100),
		DurationDays:  decimal.NewFromInt(3),
		TaxIDs:        []int64{1},
	})
	if err != nil {
		t.Fatalf("AddOrderLine returned error: %v", err)
	}
	if lineID != 21 {
		t.Fatalf("line id = %d, want 21", lineID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
