package services

import (
	"context"
	"database/sql"

	intconfig "carbooking/internal/config"
	intdb "carbooking/internal/db"
	"carbooking/internal/domain/models"
	"carbooking/internal/repositories"
)

// DocumentService exposes sales orders and invoices to callers. Every line
// mutation ends with a synchronizer pass in the same transaction, so the
// stored header amounts always match the lines. Mutations mark their context
// as posting: an explicit recompute request issued during the pass is a no-op.
type DocumentService struct {
	OrderRepo   repositories.OrderRepository
	InvoiceRepo repositories.InvoiceRepository
	Totals      TotalsService
	DB          *sql.DB
}

func (s DocumentService) db() *sql.DB {
	if s.DB != nil {
		return s.DB
	}
	return intconfig.DB
}

func (s DocumentService) orders() repositories.OrderRepository {
	if s.OrderRepo.DB != nil {
		return s.OrderRepo
	}
	return repositories.OrderRepository{DB: s.db()}
}

func (s DocumentService) invoices() repositories.InvoiceRepository {
	if s.InvoiceRepo.DB != nil {
		return s.InvoiceRepo
	}
	return repositories.InvoiceRepository{DB: s.db()}
}

func (s DocumentService) totals() TotalsService {
	if s.Totals.DB != nil {
		return s.Totals
	}
	return TotalsService{DB: s.db()}
}

func (s DocumentService) GetOrder(id int64) (models.SalesOrder, error) {
	return s.orders().GetByID(nil, id)
}

func (s DocumentService) GetInvoice(id int64) (models.Invoice, error) {
	return s.invoices().GetByID(nil, id)
}

func (s DocumentService) AddOrderLine(ctx context.Context, orderID int64, line models.OrderLine) (int64, error) {
	ctx = WithPosting(ctx)
	var lineID int64
	err := intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		if _, err := s.orders().GetByID(tx, orderID); err != nil {
			return err
		}
		line.OrderID = orderID
		var err error
		lineID, err = s.orders().InsertLine(tx, line)
		if err != nil {
			return err
		}
		return s.totals().SyncOrderTotals(ctx, tx, orderID)
	})
	return lineID, err
}

func (s DocumentService) UpdateOrderLine(ctx context.Context, line models.OrderLine) error {
	ctx = WithPosting(ctx)
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		existing, err := s.orders().GetLine(tx, line.ID)
		if err != nil {
			return err
		}
		line.OrderID = existing.OrderID
		if err := s.orders().UpdateLine(tx, line); err != nil {
			return err
		}
		return s.totals().SyncOrderTotals(ctx, tx, existing.OrderID)
	})
}

func (s DocumentService) DeleteOrderLine(ctx context.Context, lineID int64) error {
	ctx = WithPosting(ctx)
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		existing, err := s.orders().GetLine(tx, lineID)
		if err != nil {
			return err
		}
		if err := s.orders().DeleteLine(tx, lineID); err != nil {
			return err
		}
		return s.totals().SyncOrderTotals(ctx, tx, existing.OrderID)
	})
}

func (s DocumentService) AddInvoiceLine(ctx context.Context, invoiceID int64, line models.InvoiceLine) (int64, error) {
	ctx = WithPosting(ctx)
	var lineID int64
	err := intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		if _, err := s.invoices().GetByID(tx, invoiceID); err != nil {
			return err
		}
		line.InvoiceID = invoiceID
		var err error
		lineID, err = s.invoices().InsertLine(tx, line)
		if err != nil {
			return err
		}
		return s.totals().SyncInvoiceTotals(ctx, tx, invoiceID)
	})
	return lineID, err
}

func (s DocumentService) UpdateInvoiceLine(ctx context.Context, line models.InvoiceLine) error {
	ctx = WithPosting(ctx)
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		existing, err := s.invoices().GetLine(tx, line.ID)
		if err != nil {
			return err
		}
		line.InvoiceID = existing.InvoiceID
		if err := s.invoices().UpdateLine(tx, line); err != nil {
			return err
		}
		return s.totals().SyncInvoiceTotals(ctx, tx, existing.InvoiceID)
	})
}

func (s DocumentService) DeleteInvoiceLine(ctx context.Context, lineID int64) error {
	ctx = WithPosting(ctx)
	return intdb.RunInTx(s.db(), func(tx *sql.Tx) error {
		existing, err := s.invoices().GetLine(tx, lineID)
		if err != nil {
			return err
		}
		if err := s.invoices().DeleteLine(tx, lineID); err != nil {
			return err
		}
		return s.totals().SyncInvoiceTotals(ctx, tx, existing.InvoiceID)
	})
}
