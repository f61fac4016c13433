package handlers

import (
	"net/http"

	"carbooking/internal/domain/models"
	"carbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

type invoiceView struct {
	ID            int64         `json:"id"`
	BookingID     int64         `json:"booking_id"`
	CustomerID    int64         `json:"customer_id"`
	InvoiceDate   string        `json:"invoice_date"`
	AmountUntaxed string        `json:"amount_untaxed"`
	AmountTax     string        `json:"amount_tax"`
	AmountTotal   string        `json:"amount_total"`
	Lines         []docLineView `json:"lines"`
}

func toInvoiceLineView(l models.InvoiceLine) docLineView {
	return docLineView{
		ID:                l.ID,
		BookingLineID:     l.BookingLineID,
		Name:              l.Name,
		ProductID:         l.ProductID,
		ServiceTypeID:     l.ServiceTypeID,
		CarModel:          l.CarModel,
		Qty:               l.Qty,
		UnitPrice:         utils.FormatMoney(l.UnitPrice),
		DateStart:         utils.FormatDateTime(l.DateStart),
		DateEnd:           utils.FormatDateTime(l.DateEnd),
		DurationDays:      l.DurationDays.String(),
		AdditionalCharges: utils.FormatMoney(l.AdditionalCharges),
		DiscountPercent:   l.DiscountPercent.String(),
		TaxIDs:            l.TaxIDs,
		Subtotal:          utils.FormatMoney(l.Subtotal),
		Tax:               utils.FormatMoney(l.Tax),
		Total:             utils.FormatMoney(l.Total),
	}
}

func toInvoiceView(inv models.Invoice) invoiceView {
	view := invoiceView{
		ID:            inv.ID,
		BookingID:     inv.BookingID,
		CustomerID:    inv.CustomerID,
		InvoiceDate:   utils.FormatDateTime(inv.InvoiceDate),
		AmountUntaxed: utils.FormatMoney(inv.AmountUntaxed),
		AmountTax:     utils.FormatMoney(inv.AmountTax),
		AmountTotal:   utils.FormatMoney(inv.AmountTotal),
		Lines:         []docLineView{},
	}
	for _, l := range inv.Lines {
		view.Lines = append(view.Lines, toInvoiceLineView(l))
	}
	return view
}

// GET /api/invoices/:id
func GetInvoice(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	invoice, err := documentService().GetInvoice(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toInvoiceView(invoice))
}

func (p docLinePayload) toInvoiceLine(c *gin.Context) (models.InvoiceLine, bool) {
	orderLine, ok := p.toOrderLine(c)
	if !ok {
		return models.InvoiceLine{}, false
	}
	return models.InvoiceLine{
		BookingLineID:     orderLine.BookingLineID,
		Name:              orderLine.Name,
		ProductID:         orderLine.ProductID,
		ServiceTypeID:     orderLine.ServiceTypeID,
		CarModel:          orderLine.CarModel,
		Qty:               orderLine.Qty,
		UnitPrice:         orderLine.UnitPrice,
		DateStart:         orderLine.DateStart,
		DateEnd:           orderLine.DateEnd,
		DurationDays:      orderLine.DurationDays,
		AdditionalCharges: orderLine.AdditionalCharges,
		DiscountPercent:   orderLine.DiscountPercent,
		TaxIDs:            orderLine.TaxIDs,
	}, true
}

// POST /api/invoices/:id/lines
func AddInvoiceLine(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req docLinePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	line, ok := req.toInvoiceLine(c)
	if !ok {
		return
	}

	lineID, err := documentService().AddInvoiceLine(c.Request.Context(), id, line)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": lineID})
}

// PUT /api/invoices/:id/lines/:line_id
func UpdateInvoiceLine(c *gin.Context) {
	lineID, ok := PathID(c, "line_id")
	if !ok {
		return
	}
	var req docLinePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	line, ok := req.toInvoiceLine(c)
	if !ok {
		return
	}
	line.ID = lineID

	if err := documentService().UpdateInvoiceLine(c.Request.Context(), line); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line updated"})
}

// DELETE /api/invoices/:id/lines/:line_id
func DeleteInvoiceLine(c *gin.Context) {
	lineID, ok := PathID(c, "line_id")
	if !ok {
		return
	}
	if err := documentService().DeleteInvoiceLine(c.Request.Context(), lineID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line removed"})
}
