package services

import (
	"context"
	"database/sql"
	"fmt"

	intconfig "carbooking/internal/config"
	intdb "carbooking/internal/db"
	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/pricing"
	"carbooking/internal/repositories"

	"github.com/shopspring/decimal"
)

// postingKey is the context-scoped re-entrancy guard for totals writes. A
// mutation that already holds the guard triggers nested recomputations as
// no-ops instead of stacking overwrites inside one transaction.
type postingKey struct{}

func WithPosting(ctx context.Context) context.Context {
	return context.WithValue(ctx, postingKey{}, true)
}

func isPosting(ctx context.Context) bool {
	v, _ := ctx.Value(postingKey{}).(bool)
	return v
}

// TotalsService is the single final writer for stored document totals. Every
// mutating path ends here; stored amounts are recomputed from line inputs and
// overwritten, never merged with whatever was stored before.
type TotalsService struct {
	BookingRepo repositories.BookingRepository
	OrderRepo   repositories.OrderRepository
	InvoiceRepo repositories.InvoiceRepository
	TaxRepo     repositories.TaxRepository
	DB          *sql.DB
}

func (s TotalsService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s TotalsService) bookings() repositories.BookingRepository {
	if s.BookingRepo.DB != nil {
		return s.BookingRepo
	}
	return repositories.BookingRepository{DB: s.db()}
}

func (s TotalsService) orders() repositories.OrderRepository {
	if s.OrderRepo.DB != nil {
		return s.OrderRepo
	}
	return repositories.OrderRepository{DB: s.db()}
}

func (s TotalsService) invoices() repositories.InvoiceRepository {
	if s.InvoiceRepo.DB != nil {
		return s.InvoiceRepo
	}
	return repositories.InvoiceRepository{DB: s.db()}
}

func (s TotalsService) taxes() repositories.TaxRepository {
	if s.TaxRepo.DB != nil {
		return s.TaxRepo
	}
	return repositories.TaxRepository{DB: s.db()}
}

// RecomputeTotals is the explicit "fix totals" entry point: it recomputes and
// overwrites the named document's stored amounts inside one transaction.
func (s TotalsService) RecomputeTotals(ctx context.Context, documentID int64, documentType domain.DocumentType) error {
	if isPosting(ctx) {
		return nil
	}
	if documentID <= 0 {
		return domain.ValidationError{Field: "document_id", Msg: "invalid id"}
	}
	if !documentType.Valid() {
		return domain.ValidationError{Field: "document_type", Msg: "unknown document type"}
	}

	ctx = WithPosting(ctx)
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		switch documentType {
		case domain.DocumentSalesOrder:
			return s.SyncOrderTotals(ctx, tx, documentID)
		case domain.DocumentInvoice:
			return s.SyncInvoiceTotals(ctx, tx, documentID)
		}
		return nil
	})
}

// SyncOrderTotals recomputes every order line from its inputs, writes the
// corrected line amounts back, and overwrites the header totals with the sums.
// Callers mark ctx with WithPosting before the pass; a recompute request that
// surfaces with that context while the pass runs is skipped, the pass itself
// always writes.
func (s TotalsService) SyncOrderTotals(ctx context.Context, x intdb.DBTX, orderID int64) error {
	order, err := s.orders().GetByID(x, orderID)
	if err != nil {
		return err
	}
	lines := order.Lines
	resolve, err := s.taxes().RateResolver(x)
	if err != nil {
		return err
	}

	untaxed, tax, total := decimal.Zero, decimal.Zero, decimal.Zero
	for _, line := range lines {
		amounts := s.computeDocLine(orderID, line.ID, line.Qty, line.UnitPrice, line.DurationDays,
			line.AdditionalCharges, line.DiscountPercent, line.TaxIDs, resolve)

		line.Subtotal, line.Tax, line.Total = amounts.Subtotal, amounts.Tax, amounts.Total
		if err := s.orders().UpdateLine(x, line); err != nil {
			return err
		}
		untaxed = untaxed.Add(amounts.Subtotal)
		tax = tax.Add(amounts.Tax)
		total = total.Add(amounts.Total)
	}
	return s.orders().StoreTotals(x, orderID, untaxed, tax, total)
}

// SyncInvoiceTotals mirrors SyncOrderTotals for invoices.
func (s TotalsService) SyncInvoiceTotals(ctx context.Context, x intdb.DBTX, invoiceID int64) error {
	invoice, err := s.invoices().GetByID(x, invoiceID)
	if err != nil {
		return err
	}
	lines := invoice.Lines
	resolve, err := s.taxes().RateResolver(x)
	if err != nil {
		return err
	}

	untaxed, tax, total := decimal.Zero, decimal.Zero, decimal.Zero
	for _, line := range lines {
		amounts := s.computeDocLine(invoiceID, line.ID, line.Qty, line.UnitPrice, line.DurationDays,
			line.AdditionalCharges, line.DiscountPercent, line.TaxIDs, resolve)

		line.Subtotal, line.Tax, line.Total = amounts.Subtotal, amounts.Tax, amounts.Total
		if err := s.invoices().UpdateLine(x, line); err != nil {
			return err
		}
		untaxed = untaxed.Add(amounts.Subtotal)
		tax = tax.Add(amounts.Tax)
		total = total.Add(amounts.Total)
	}
	return s.invoices().StoreTotals(x, invoiceID, untaxed, tax, total)
}

// SyncBookingTotals recomputes every booking line subtotal, writes corrected
// lines back, and overwrites the booking's stored aggregates.
func (s TotalsService) SyncBookingTotals(ctx context.Context, x intdb.DBTX, booking models.Booking) error {
	lines, err := s.bookings().ListLines(x, booking.ID)
	if err != nil {
		return err
	}
	resolve, err := s.taxes().RateResolver(x)
	if err != nil {
		return err
	}

	for _, line := range lines {
		subtotal := pricing.LineSubtotal(line)
		if !subtotal.Equal(line.Subtotal) {
			line.Subtotal = subtotal
			if err := s.bookings().UpdateLine(x, line); err != nil {
				return err
			}
		}
	}

	totals := pricing.AggregateBooking(lines, booking.MiscCharges, func(taxID int64) (decimal.Decimal, bool) {
		rate, ok := resolve(taxID)
		if !ok {
			intconfig.LogIntegrityWarning("totals", "SyncBookingTotals",
				map[string]any{"booking_id": booking.ID, "tax_id": taxID},
				fmt.Errorf("tax %d referenced by booking %d is missing", taxID, booking.ID))
		}
		return rate, ok
	})
	return s.bookings().StoreTotals(x, booking.ID, totals)
}

// computeDocLine prices one order/invoice line. A missing tax definition
// contributes zero and is logged; it never aborts the sibling lines.
func (s TotalsService) computeDocLine(docID, lineID, qty int64, unitPrice, duration, charges, discount decimal.Decimal,
	taxIDs []int64, resolve func(int64) (decimal.Decimal, bool)) pricing.LineAmounts {

	rates := make([]decimal.Decimal, 0, len(taxIDs))
	for _, taxID := range taxIDs {
		rate, ok := resolve(taxID)
		if !ok {
			intconfig.LogIntegrityWarning("totals", "computeDocLine",
				map[string]any{"document_id": docID, "line_id": lineID, "tax_id": taxID},
				fmt.Errorf("tax %d referenced by line %d is missing", taxID, lineID))
			continue
		}
		rates = append(rates, rate)
	}

	return pricing.ComputeLine(pricing.LineInput{
		Qty:               qty,
		UnitPrice:         unitPrice,
		DurationDays:      duration,
		AdditionalCharges: charges,
		DiscountPercent:   discount,
		TaxRates:          rates,
	})
}
