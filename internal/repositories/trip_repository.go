package repositories

import (
	"database/sql"
	"errors"

	"carbooking/internal/db"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
)

type TripRepository struct {
	DB *sql.DB
}

func (r TripRepository) q(x db.DBTX) db.DBTX {
	if x != nil {
		return x
	}
	return r.DB
}

func (r TripRepository) GetByID(x db.DBTX, id int64) (models.TripProfile, error) {
	if id <= 0 {
		return models.TripProfile{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	q := r.q(x)

	var (
		p         models.TripProfile
		startDate sql.NullTime
		endDate   sql.NullTime
	)
	err := q.QueryRow(`
		SELECT id, booking_id, reference, customer_id, customer_name, start_date, end_date
		FROM trip_profiles WHERE id=?`, id).
		Scan(&p.ID, &p.BookingID, &p.Reference, &p.CustomerID, &p.CustomerName, &startDate, &endDate)
	if errors.Is(err, sql.ErrNoRows) {
		return models.TripProfile{}, domain.NotFoundError{Resource: "trip profile"}
	}
	if err != nil {
		return models.TripProfile{}, err
	}
	if startDate.Valid {
		t := startDate.Time
		p.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		p.EndDate = &t
	}

	lines, err := r.ListLines(q, id)
	if err != nil {
		return models.TripProfile{}, err
	}
	p.Lines = lines
	return p, nil
}

func (r TripRepository) Create(x db.DBTX, p models.TripProfile) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO trip_profiles (booking_id, reference, customer_id, customer_name, start_date, end_date)
		VALUES (?, ?, ?, ?, ?, ?)`,
		p.BookingID, p.Reference, p.CustomerID, p.CustomerName, p.StartDate, p.EndDate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r TripRepository) UpdateHeader(x db.DBTX, p models.TripProfile) error {
	_, err := r.q(x).Exec(`
		UPDATE trip_profiles SET reference=?, customer_id=?, customer_name=?, start_date=?, end_date=?
		WHERE id=?`,
		p.Reference, p.CustomerID, p.CustomerName, p.StartDate, p.EndDate, p.ID)
	return err
}

func (r TripRepository) ListLines(x db.DBTX, profileID int64) ([]models.TripVehicleLine, error) {
	rows, err := r.q(x).Query(`
		SELECT id, trip_profile_id, booking_line_id, car_model, service_type_id, driver_name, driver_mobile
		FROM trip_vehicle_lines WHERE trip_profile_id=? ORDER BY id`, profileID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.TripVehicleLine{}
	for rows.Next() {
		var l models.TripVehicleLine
		if err := rows.Scan(&l.ID, &l.TripProfileID, &l.BookingLineID, &l.CarModel,
			&l.ServiceTypeID, &l.DriverName, &l.DriverMobile); err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r TripRepository) InsertLine(x db.DBTX, l models.TripVehicleLine) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO trip_vehicle_lines (trip_profile_id, booking_line_id, car_model, service_type_id, driver_name, driver_mobile)
		VALUES (?, ?, ?, ?, ?, ?)`,
		l.TripProfileID, l.BookingLineID, l.CarModel, l.ServiceTypeID, l.DriverName, l.DriverMobile)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

// DeleteLinesForProfile clears vehicle lines before a reconfirmed booking
// re-projects them.
func (r TripRepository) DeleteLinesForProfile(x db.DBTX, profileID int64) error {
	_, err := r.q(x).Exec(`DELETE FROM trip_vehicle_lines WHERE trip_profile_id=?`, profileID)
	return err
}
