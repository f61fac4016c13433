package repositories

import (
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestNextReferenceUsesConfiguredSequence(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM booking_sequences WHERE code=").WithArgs("car_booking_rental").
		WillReturnRows(sqlmock.NewRows([]string{"prefix", "next_number"}).AddRow("RNT", 42))
	mock.ExpectExec("UPDATE booking_sequences SET next_number=").WithArgs(int64(43), "car_booking_rental").
		WillReturnResult(sqlmock.NewResult(0, 1))

	repo := SequenceRepository{DB: db}
	ref, err := repo.NextReference(nil, SequenceCodeRental)
	if err != nil {
		t.Fatalf("NextReference returned error: %v", err)
	}
	if ref != "RNT/00042" {
		t.Fatalf("reference = %q, want RNT/00042", ref)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNextReferenceFallsBackToFirstNumber(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM booking_sequences WHERE code=").WithArgs("car_booking").
		WillReturnRows(sqlmock.NewRows([]string{"prefix", "next_number"}))
	mock.ExpectQuery("SELECT reference FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"reference"}))

	repo := SequenceRepository{DB: db}
	ref, err := repo.NextReference(nil, SequenceCodeBooking)
	if err != nil {
		t.Fatalf("NextReference returned error: %v", err)
	}
	if ref != "DSL/00001" {
		t.Fatalf("reference = %q, want DSL/00001", ref)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestNextReferenceFallbackScansMaxSuffix(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery("FROM booking_sequences WHERE code=").WithArgs("car_booking").
		WillReturnRows(sqlmock.NewRows([]string{"prefix", "next_number"}))
	// Non-numeric and slash-free references are skipped.
	mock.ExpectQuery("SELECT reference FROM bookings").
		WillReturnRows(sqlmock.NewRows([]string{"reference"}).
			AddRow("DSL/00009").
			AddRow("DSL/00031").
			AddRow("imported-no-slash").
			AddRow("OLD/abc"))

	repo := SequenceRepository{DB: db}
	ref, err := repo.NextReference(nil, SequenceCodeBooking)
	if err != nil {
		t.Fatalf("NextReference returned error: %v", err)
	}
	if ref != "DSL/00032" {
		t.Fatalf("reference = %q, want DSL/00032", ref)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSequenceCodeForBookingTypes(t *testing.T) {
	if got := SequenceCodeFor("with_driver"); got != SequenceCodeWithDriver {
		t.Fatalf("with_driver mapped to %q", got)
	}
	if got := SequenceCodeFor("rental"); got != SequenceCodeRental {
		t.Fatalf("rental mapped to %q", got)
	}
	if got := SequenceCodeFor(""); got != SequenceCodeBooking {
		t.Fatalf("empty type mapped to %q", got)
	}
}
