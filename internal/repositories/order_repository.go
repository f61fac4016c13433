package repositories

import (
	"database/sql"
	"errors"

	"carbooking/internal/db"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/utils"

	"github.com/shopspring/decimal"
)

type OrderRepository struct {
	DB *sql.DB
}

func (r OrderRepository) q(x db.DBTX) db.DBTX {
	if x != nil {
		return x
	}
	return r.DB
}

func (r OrderRepository) GetByID(x db.DBTX, id int64) (models.SalesOrder, error) {
	if id <= 0 {
		return models.SalesOrder{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	q := r.q(x)

	var (
		o            models.SalesOrder
		orderDate    sql.NullTime
		validityDate sql.NullTime
	)
	err := q.QueryRow(`
		SELECT id, booking_id, customer_id, order_date, validity_date, COALESCE(note,''),
		       amount_untaxed, amount_tax, amount_total
		FROM sales_orders WHERE id=?`, id).
		Scan(&o.ID, &o.BookingID, &o.CustomerID, &orderDate, &validityDate, &o.Note,
			&o.AmountUntaxed, &o.AmountTax, &o.AmountTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return models.SalesOrder{}, domain.NotFoundError{Resource: "sales order"}
	}
	if err != nil {
		return models.SalesOrder{}, err
	}
	if orderDate.Valid {
		t := orderDate.Time
		o.OrderDate = &t
	}
	if validityDate.Valid {
		t := validityDate.Time
		o.ValidityDate = &t
	}

	lines, err := r.ListLines(q, id)
	if err != nil {
		return models.SalesOrder{}, err
	}
	o.Lines = lines
	return o, nil
}

func (r OrderRepository) Create(x db.DBTX, o models.SalesOrder) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO sales_orders (booking_id, customer_id, order_date, validity_date, note)
		VALUES (?, ?, ?, ?, ?)`,
		o.BookingID, o.CustomerID, o.OrderDate, o.ValidityDate, db.NullIfEmpty(o.Note))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r OrderRepository) UpdateHeader(x db.DBTX, o models.SalesOrder) error {
	_, err := r.q(x).Exec(`
		UPDATE sales_orders SET customer_id=?, order_date=?, validity_date=?, note=?
		WHERE id=?`,
		o.CustomerID, o.OrderDate, o.ValidityDate, db.NullIfEmpty(o.Note), o.ID)
	return err
}

// SetBooking links an order back to the booking generated from it.
func (r OrderRepository) SetBooking(x db.DBTX, orderID, bookingID int64) error {
	_, err := r.q(x).Exec(`UPDATE sales_orders SET booking_id=? WHERE id=?`, bookingID, orderID)
	return err
}

// StoreTotals is the synchronizer's single write point for sales-order
// totals: recompute-and-overwrite, no partial trust of anything already
// stored.
func (r OrderRepository) StoreTotals(x db.DBTX, id int64, untaxed, tax, total decimal.Decimal) error {
	_, err := r.q(x).Exec(`
		UPDATE sales_orders SET amount_untaxed=?, amount_tax=?, amount_total=?
		WHERE id=?`,
		utils.RoundMoney(untaxed), utils.RoundMoney(tax), utils.RoundMoney(total), id)
	return err
}

const orderLineColumns = `
	id, order_id, booking_line_id, name, product_id, service_type_id, car_model,
	qty, unit_price, date_start, date_end, duration_days,
	additional_charges, discount_percent, tax_ids, subtotal, tax, total`

func scanOrderLine(row interface{ Scan(...any) error }) (models.OrderLine, error) {
	var (
		l         models.OrderLine
		dateStart sql.NullTime
		dateEnd   sql.NullTime
		taxIDs    string
	)
	err := row.Scan(
		&l.ID, &l.OrderID, &l.BookingLineID, &l.Name, &l.ProductID, &l.ServiceTypeID, &l.CarModel,
		&l.Qty, &l.UnitPrice, &dateStart, &dateEnd, &l.DurationDays,
		&l.AdditionalCharges, &l.DiscountPercent, &taxIDs, &l.Subtotal, &l.Tax, &l.Total,
	)
	if err != nil {
		return models.OrderLine{}, err
	}
	if dateStart.Valid {
		t := dateStart.Time
		l.DateStart = &t
	}
	if dateEnd.Valid {
		t := dateEnd.Time
		l.DateEnd = &t
	}
	l.TaxIDs = utils.ParseIDList(taxIDs)
	return l, nil
}

func (r OrderRepository) ListLines(x db.DBTX, orderID int64) ([]models.OrderLine, error) {
	rows, err := r.q(x).Query(`SELECT`+orderLineColumns+` FROM order_lines WHERE order_id=? ORDER BY id`, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.OrderLine{}
	for rows.Next() {
		l, err := scanOrderLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r OrderRepository) GetLine(x db.DBTX, lineID int64) (models.OrderLine, error) {
	l, err := scanOrderLine(r.q(x).QueryRow(`SELECT`+orderLineColumns+` FROM order_lines WHERE id=?`, lineID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.OrderLine{}, domain.NotFoundError{Resource: "order line"}
	}
	return l, err
}

func (r OrderRepository) InsertLine(x db.DBTX, l models.OrderLine) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO order_lines (
			order_id, booking_line_id, name, product_id, service_type_id, car_model,
			qty, unit_price, date_start, date_end, duration_days,
			additional_charges, discount_percent, tax_ids, subtotal, tax, total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.OrderID, l.BookingLineID, l.Name, l.ProductID, l.ServiceTypeID, l.CarModel,
		l.Qty, utils.RoundMoney(l.UnitPrice), l.DateStart, l.DateEnd, l.DurationDays,
		utils.RoundMoney(l.AdditionalCharges), l.DiscountPercent, utils.JoinIDList(l.TaxIDs),
		utils.RoundMoney(l.Subtotal), utils.RoundMoney(l.Tax), utils.RoundMoney(l.Total))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r OrderRepository) UpdateLine(x db.DBTX, l models.OrderLine) error {
	_, err := r.q(x).Exec(`
		UPDATE order_lines SET
			booking_line_id=?, name=?, product_id=?, service_type_id=?, car_model=?,
			qty=?, unit_price=?, date_start=?, date_end=?, duration_days=?,
			additional_charges=?, discount_percent=?, tax_ids=?, subtotal=?, tax=?, total=?
		WHERE id=?`,
		l.BookingLineID, l.Name, l.ProductID, l.ServiceTypeID, l.CarModel,
		l.Qty, utils.RoundMoney(l.UnitPrice), l.DateStart, l.DateEnd, l.DurationDays,
		utils.RoundMoney(l.AdditionalCharges), l.DiscountPercent, utils.JoinIDList(l.TaxIDs),
		utils.RoundMoney(l.Subtotal), utils.RoundMoney(l.Tax), utils.RoundMoney(l.Total),
		l.ID)
	return err
}

func (r OrderRepository) DeleteLine(x db.DBTX, lineID int64) error {
	res, err := r.q(x).Exec(`DELETE FROM order_lines WHERE id=?`, lineID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "order line"}
	}
	return nil
}

// DeleteLinesForOrder clears projected lines before the projector rebuilds
// them on a create-or-update pass.
func (r OrderRepository) DeleteLinesForOrder(x db.DBTX, orderID int64) error {
	_, err := r.q(x).Exec(`DELETE FROM order_lines WHERE order_id=?`, orderID)
	return err
}
