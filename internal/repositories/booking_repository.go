package repositories

import (
	"database/sql"
	"errors"
	"strings"

	"carbooking/internal/db"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/pricing"
	"carbooking/internal/utils"
)

type BookingRepository struct {
	DB *sql.DB
}

func (r BookingRepository) q(x db.DBTX) db.DBTX {
	if x != nil {
		return x
	}
	return r.DB
}

const bookingColumns = `
	id, reference, booking_type, state, reservation_status,
	customer_id, customer_name, mobile, guest_name, guest_phone,
	booking_date, date_of_service, COALESCE(notes,''), misc_charges,
	untaxed_total, vat, grand_total, total_tax,
	extra_hour_total, extra_hour_charges_total,
	quotation_id, invoice_id, trip_profile_id`

func scanBooking(row interface{ Scan(...any) error }) (models.Booking, error) {
	var (
		b             models.Booking
		bookingDate   sql.NullTime
		dateOfService sql.NullTime
	)
	err := row.Scan(
		&b.ID, &b.Reference, &b.BookingType, &b.State, &b.Reservation,
		&b.CustomerID, &b.CustomerName, &b.Mobile, &b.GuestName, &b.GuestPhone,
		&bookingDate, &dateOfService, &b.Notes, &b.MiscCharges,
		&b.UntaxedTotal, &b.VAT, &b.GrandTotal, &b.TotalTax,
		&b.ExtraHourTotal, &b.ExtraHourChargesTotal,
		&b.QuotationID, &b.InvoiceID, &b.TripProfileID,
	)
	if err != nil {
		return models.Booking{}, err
	}
	if bookingDate.Valid {
		t := bookingDate.Time
		b.BookingDate = &t
	}
	if dateOfService.Valid {
		t := dateOfService.Time
		b.DateOfService = &t
	}
	return b, nil
}

func (r BookingRepository) GetByID(x db.DBTX, id int64) (models.Booking, error) {
	if id <= 0 {
		return models.Booking{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	q := r.q(x)

	b, err := scanBooking(q.QueryRow(`SELECT`+bookingColumns+` FROM bookings WHERE id=?`, id))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Booking{}, domain.NotFoundError{Resource: "booking"}
	}
	if err != nil {
		return models.Booking{}, err
	}

	lines, err := r.ListLines(q, id)
	if err != nil {
		return models.Booking{}, err
	}
	b.Lines = lines
	return b, nil
}

func (r BookingRepository) List(x db.DBTX, state string) ([]models.Booking, error) {
	query := `SELECT` + bookingColumns + ` FROM bookings`
	args := []any{}
	if state != "" {
		query += ` WHERE state=?`
		args = append(args, state)
	}
	query += ` ORDER BY id DESC`

	rows, err := r.q(x).Query(query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	list := []models.Booking{}
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		list = append(list, b)
	}
	return list, rows.Err()
}

func (r BookingRepository) Create(x db.DBTX, b models.Booking) (int64, error) {
	q := r.q(x)
	res, err := q.Exec(`
		INSERT INTO bookings (
			reference, booking_type, state, reservation_status,
			customer_id, customer_name, mobile, guest_name, guest_phone,
			booking_date, date_of_service, notes, misc_charges
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.Reference, string(b.BookingType), string(b.State), string(b.Reservation),
		b.CustomerID, b.CustomerName, b.Mobile, b.GuestName, b.GuestPhone,
		b.BookingDate, b.DateOfService, db.NullIfEmpty(b.Notes), utils.RoundMoney(b.MiscCharges))
	if err != nil {
		return 0, err
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	for i := range b.Lines {
		b.Lines[i].BookingID = id
		if _, err := r.InsertLine(q, b.Lines[i]); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// Update performs PATCH-style updates based on key presence.
func (r BookingRepository) Update(x db.DBTX, id int64, upd models.BookingUpdate) error {
	if id <= 0 {
		return domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	sets := []string{}
	args := []any{}

	if upd.CustomerID != nil {
		sets = append(sets, "customer_id=?")
		args = append(args, *upd.CustomerID)
	}
	if upd.Mobile != nil {
		sets = append(sets, "mobile=?")
		args = append(args, strings.TrimSpace(*upd.Mobile))
	}
	if upd.GuestName != nil {
		sets = append(sets, "guest_name=?")
		args = append(args, strings.TrimSpace(*upd.GuestName))
	}
	if upd.GuestPhone != nil {
		sets = append(sets, "guest_phone=?")
		args = append(args, strings.TrimSpace(*upd.GuestPhone))
	}
	if upd.Notes != nil {
		sets = append(sets, "notes=?")
		args = append(args, db.NullIfEmpty(*upd.Notes))
	}
	if upd.MiscCharges != nil {
		sets = append(sets, "misc_charges=?")
		args = append(args, utils.RoundMoney(*upd.MiscCharges))
	}
	if len(sets) == 0 {
		return nil
	}

	args = append(args, id)
	_, err := r.q(x).Exec(`UPDATE bookings SET `+strings.Join(sets, ",")+` WHERE id=?`, args...)
	return err
}

func (r BookingRepository) Delete(x db.DBTX, id int64) error {
	res, err := r.q(x).Exec(`DELETE FROM bookings WHERE id=?`, id)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking"}
	}
	return nil
}

func (r BookingRepository) SetState(x db.DBTX, id int64, state domain.TripStatus, reservation domain.ReservationStatus) error {
	_, err := r.q(x).Exec(`UPDATE bookings SET state=?, reservation_status=? WHERE id=?`,
		string(state), string(reservation), id)
	return err
}

func (r BookingRepository) SetReference(x db.DBTX, id int64, reference string) error {
	_, err := r.q(x).Exec(`UPDATE bookings SET reference=? WHERE id=?`, reference, id)
	return err
}

func (r BookingRepository) SetQuotation(x db.DBTX, id, quotationID int64) error {
	_, err := r.q(x).Exec(`UPDATE bookings SET quotation_id=? WHERE id=?`, quotationID, id)
	return err
}

func (r BookingRepository) SetInvoice(x db.DBTX, id, invoiceID int64) error {
	_, err := r.q(x).Exec(`UPDATE bookings SET invoice_id=? WHERE id=?`, invoiceID, id)
	return err
}

func (r BookingRepository) SetTripProfile(x db.DBTX, id, tripProfileID int64) error {
	_, err := r.q(x).Exec(`UPDATE bookings SET trip_profile_id=? WHERE id=?`, tripProfileID, id)
	return err
}

// StoreTotals overwrites the stored aggregates. The aggregator is the only
// caller; totals are rounded here, at the storage boundary.
func (r BookingRepository) StoreTotals(x db.DBTX, id int64, t pricing.BookingTotals) error {
	_, err := r.q(x).Exec(`
		UPDATE bookings SET
			untaxed_total=?, vat=?, grand_total=?, total_tax=?,
			extra_hour_total=?, extra_hour_charges_total=?
		WHERE id=?`,
		utils.RoundMoney(t.Untaxed), utils.RoundMoney(t.VAT), utils.RoundMoney(t.GrandTotal),
		utils.RoundMoney(t.TotalTax), t.ExtraHourTotal, utils.RoundMoney(t.ExtraHourChargesTotal),
		id)
	return err
}

const bookingLineColumns = `
	id, booking_id, name, service_type_id, product_id, car_model,
	qty, unit_price, start_date, end_date, duration_days,
	extra_hours, extra_hour_rate, tax_ids,
	driver_name, driver_mobile, driver_id_no, subtotal`

func scanBookingLine(row interface{ Scan(...any) error }) (models.BookingLine, error) {
	var (
		l         models.BookingLine
		startDate sql.NullTime
		endDate   sql.NullTime
		taxIDs    string
	)
	err := row.Scan(
		&l.ID, &l.BookingID, &l.Name, &l.ServiceTypeID, &l.ProductID, &l.CarModel,
		&l.Qty, &l.UnitPrice, &startDate, &endDate, &l.DurationDays,
		&l.ExtraHours, &l.ExtraHourRate, &taxIDs,
		&l.DriverName, &l.DriverMobile, &l.DriverIDNo, &l.Subtotal,
	)
	if err != nil {
		return models.BookingLine{}, err
	}
	if startDate.Valid {
		t := startDate.Time
		l.StartDate = &t
	}
	if endDate.Valid {
		t := endDate.Time
		l.EndDate = &t
	}
	l.TaxIDs = utils.ParseIDList(taxIDs)
	return l, nil
}

func (r BookingRepository) ListLines(x db.DBTX, bookingID int64) ([]models.BookingLine, error) {
	rows, err := r.q(x).Query(`SELECT`+bookingLineColumns+` FROM booking_lines WHERE booking_id=? ORDER BY id`, bookingID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.BookingLine{}
	for rows.Next() {
		l, err := scanBookingLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r BookingRepository) GetLine(x db.DBTX, lineID int64) (models.BookingLine, error) {
	l, err := scanBookingLine(r.q(x).QueryRow(`SELECT`+bookingLineColumns+` FROM booking_lines WHERE id=?`, lineID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.BookingLine{}, domain.NotFoundError{Resource: "booking line"}
	}
	return l, err
}

func (r BookingRepository) InsertLine(x db.DBTX, l models.BookingLine) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO booking_lines (
			booking_id, name, service_type_id, product_id, car_model,
			qty, unit_price, start_date, end_date, duration_days,
			extra_hours, extra_hour_rate, tax_ids,
			driver_name, driver_mobile, driver_id_no, subtotal
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.BookingID, l.Name, l.ServiceTypeID, l.ProductID, l.CarModel,
		l.Qty, utils.RoundMoney(l.UnitPrice), l.StartDate, l.EndDate, l.DurationDays,
		l.ExtraHours, utils.RoundMoney(l.ExtraHourRate), utils.JoinIDList(l.TaxIDs),
		l.DriverName, l.DriverMobile, l.DriverIDNo, utils.RoundMoney(l.Subtotal))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r BookingRepository) UpdateLine(x db.DBTX, l models.BookingLine) error {
	_, err := r.q(x).Exec(`
		UPDATE booking_lines SET
			name=?, service_type_id=?, product_id=?, car_model=?,
			qty=?, unit_price=?, start_date=?, end_date=?, duration_days=?,
			extra_hours=?, extra_hour_rate=?, tax_ids=?,
			driver_name=?, driver_mobile=?, driver_id_no=?, subtotal=?
		WHERE id=?`,
		l.Name, l.ServiceTypeID, l.ProductID, l.CarModel,
		l.Qty, utils.RoundMoney(l.UnitPrice), l.StartDate, l.EndDate, l.DurationDays,
		l.ExtraHours, utils.RoundMoney(l.ExtraHourRate), utils.JoinIDList(l.TaxIDs),
		l.DriverName, l.DriverMobile, l.DriverIDNo, utils.RoundMoney(l.Subtotal),
		l.ID)
	return err
}

func (r BookingRepository) DeleteLine(x db.DBTX, lineID int64) error {
	res, err := r.q(x).Exec(`DELETE FROM booking_lines WHERE id=?`, lineID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "booking line"}
	}
	return nil
}
