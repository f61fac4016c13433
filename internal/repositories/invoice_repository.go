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

type InvoiceRepository struct {
	DB *sql.DB
}

func (r InvoiceRepository) q(x db.DBTX) db.DBTX {
	if x != nil {
		return x
	}
	return r.DB
}

func (r InvoiceRepository) GetByID(x db.DBTX, id int64) (models.Invoice, error) {
	if id <= 0 {
		return models.Invoice{}, domain.ValidationError{Field: "id", Msg: "invalid id"}
	}
	q := r.q(x)

	var (
		inv         models.Invoice
		invoiceDate sql.NullTime
	)
	err := q.QueryRow(`
		SELECT id, booking_id, customer_id, invoice_date,
		       amount_untaxed, amount_tax, amount_total
		FROM invoices WHERE id=?`, id).
		Scan(&inv.ID, &inv.BookingID, &inv.CustomerID, &invoiceDate,
			&inv.AmountUntaxed, &inv.AmountTax, &inv.AmountTotal)
	if errors.Is(err, sql.ErrNoRows) {
		return models.Invoice{}, domain.NotFoundError{Resource: "invoice"}
	}
	if err != nil {
		return models.Invoice{}, err
	}
	if invoiceDate.Valid {
		t := invoiceDate.Time
		inv.InvoiceDate = &t
	}

	lines, err := r.ListLines(q, id)
	if err != nil {
		return models.Invoice{}, err
	}
	inv.Lines = lines
	return inv, nil
}

func (r InvoiceRepository) Create(x db.DBTX, inv models.Invoice) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO invoices (booking_id, customer_id, invoice_date)
		VALUES (?, ?, ?)`,
		inv.BookingID, inv.CustomerID, inv.InvoiceDate)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r InvoiceRepository) UpdateHeader(x db.DBTX, inv models.Invoice) error {
	_, err := r.q(x).Exec(`
		UPDATE invoices SET customer_id=?, invoice_date=? WHERE id=?`,
		inv.CustomerID, inv.InvoiceDate, inv.ID)
	return err
}

func (r InvoiceRepository) StoreTotals(x db.DBTX, id int64, untaxed, tax, total decimal.Decimal) error {
	_, err := r.q(x).Exec(`
		UPDATE invoices SET amount_untaxed=?, amount_tax=?, amount_total=?
		WHERE id=?`,
		utils.RoundMoney(untaxed), utils.RoundMoney(tax), utils.RoundMoney(total), id)
	return err
}

const invoiceLineColumns = `
	id, invoice_id, booking_line_id, name, product_id, service_type_id, car_model,
	qty, unit_price, date_start, date_end, duration_days,
	additional_charges, discount_percent, tax_ids, subtotal, tax, total`

func scanInvoiceLine(row interface{ Scan(...any) error }) (models.InvoiceLine, error) {
	var (
		l         models.InvoiceLine
		dateStart sql.NullTime
		dateEnd   sql.NullTime
		taxIDs    string
	)
	err := row.Scan(
		&l.ID, &l.InvoiceID, &l.BookingLineID, &l.Name, &l.ProductID, &l.ServiceTypeID, &l.CarModel,
		&l.Qty, &l.UnitPrice, &dateStart, &dateEnd, &l.DurationDays,
		&l.AdditionalCharges, &l.DiscountPercent, &taxIDs, &l.Subtotal, &l.Tax, &l.Total,
	)
	if err != nil {
		return models.InvoiceLine{}, err
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

func (r InvoiceRepository) ListLines(x db.DBTX, invoiceID int64) ([]models.InvoiceLine, error) {
	rows, err := r.q(x).Query(`SELECT`+invoiceLineColumns+` FROM invoice_lines WHERE invoice_id=? ORDER BY id`, invoiceID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []models.InvoiceLine{}
	for rows.Next() {
		l, err := scanInvoiceLine(rows)
		if err != nil {
			return nil, err
		}
		lines = append(lines, l)
	}
	return lines, rows.Err()
}

func (r InvoiceRepository) GetLine(x db.DBTX, lineID int64) (models.InvoiceLine, error) {
	l, err := scanInvoiceLine(r.q(x).QueryRow(`SELECT`+invoiceLineColumns+` FROM invoice_lines WHERE id=?`, lineID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.InvoiceLine{}, domain.NotFoundError{Resource: "invoice line"}
	}
	return l, err
}

func (r InvoiceRepository) InsertLine(x db.DBTX, l models.InvoiceLine) (int64, error) {
	res, err := r.q(x).Exec(`
		INSERT INTO invoice_lines (
			invoice_id, booking_line_id, name, product_id, service_type_id, car_model,
			qty, unit_price, date_start, date_end, duration_days,
			additional_charges, discount_percent, tax_ids, subtotal, tax, total
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		l.InvoiceID, l.BookingLineID, l.Name, l.ProductID, l.ServiceTypeID, l.CarModel,
		l.Qty, utils.RoundMoney(l.UnitPrice), l.DateStart, l.DateEnd, l.DurationDays,
		utils.RoundMoney(l.AdditionalCharges), l.DiscountPercent, utils.JoinIDList(l.TaxIDs),
		utils.RoundMoney(l.Subtotal), utils.RoundMoney(l.Tax), utils.RoundMoney(l.Total))
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (r InvoiceRepository) UpdateLine(x db.DBTX, l models.InvoiceLine) error {
	_, err := r.q(x).Exec(`
		UPDATE invoice_lines SET
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

func (r InvoiceRepository) DeleteLine(x db.DBTX, lineID int64) error {
	res, err := r.q(x).Exec(`DELETE FROM invoice_lines WHERE id=?`, lineID)
	if err != nil {
		return err
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return domain.NotFoundError{Resource: "invoice line"}
	}
	return nil
}

func (r InvoiceRepository) DeleteLinesForInvoice(x db.DBTX, invoiceID int64) error {
	_, err := r.q(x).Exec(`DELETE FROM invoice_lines WHERE invoice_id=?`, invoiceID)
	return err
}
