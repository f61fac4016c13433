package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"carbooking/internal/db"
	"carbooking/internal/domain"
)

// FallbackPrefix is used when no sequence row exists for a booking type and
// the next number has to be derived from the references already issued.
const FallbackPrefix = "DSL"

const (
	SequenceCodeBooking    = "car_booking"
	SequenceCodeWithDriver = "car_booking_with_driver"
	SequenceCodeRental     = "car_booking_rental"
)

type SequenceRepository struct {
	DB *sql.DB
}

func (r SequenceRepository) q(x db.DBTX) db.DBTX {
	if x != nil {
		return x
	}
	return r.DB
}

// SequenceCodeFor maps a booking type to its sequence scope.
func SequenceCodeFor(bookingType domain.BookingType) string {
	switch bookingType {
	case domain.BookingTypeWithDriver:
		return SequenceCodeWithDriver
	case domain.BookingTypeRental:
		return SequenceCodeRental
	default:
		return SequenceCodeBooking
	}
}

// NextReference produces the next booking reference for the given sequence
// code, format PREFIX/NNNNN zero-padded to five digits.
//
// When a configured sequence row exists it is consumed and incremented.
// Otherwise the highest numeric suffix among already-issued references is
// scanned and incremented, starting at DSL/00001 for an empty table. Run this
// inside the confirming transaction so two confirms cannot take the same
// number.
func (r SequenceRepository) NextReference(x db.DBTX, code string) (string, error) {
	q := r.q(x)

	var (
		prefix string
		next   int64
	)
	err := q.QueryRow(`SELECT prefix, next_number FROM booking_sequences WHERE code=? FOR UPDATE`, code).
		Scan(&prefix, &next)
	switch {
	case err == nil:
		if _, err := q.Exec(`UPDATE booking_sequences SET next_number=? WHERE code=?`, next+1, code); err != nil {
			return "", err
		}
		return formatReference(prefix, next), nil
	case errors.Is(err, sql.ErrNoRows):
		return r.nextFromExisting(q)
	default:
		return "", err
	}
}

func (r SequenceRepository) nextFromExisting(q db.DBTX) (string, error) {
	rows, err := q.Query(`SELECT reference FROM bookings WHERE reference <> ''`)
	if err != nil {
		return "", err
	}
	defer rows.Close()

	var max int64
	for rows.Next() {
		var ref string
		if err := rows.Scan(&ref); err != nil {
			return "", err
		}
		idx := strings.LastIndex(ref, "/")
		if idx < 0 {
			continue
		}
		n, err := strconv.ParseInt(ref[idx+1:], 10, 64)
		if err != nil {
			continue
		}
		if n > max {
			max = n
		}
	}
	if err := rows.Err(); err != nil {
		return "", err
	}
	return formatReference(FallbackPrefix, max+1), nil
}

func formatReference(prefix string, n int64) string {
	return fmt.Sprintf("%s/%05d", prefix, n)
}
