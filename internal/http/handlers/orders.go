package handlers

import (
	"net/http"

	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/services"
	"carbooking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type docLinePayload struct {
	BookingLineID     int64           `json:"booking_line_id"`
	Name              string          `json:"name"`
	ProductID         int64           `json:"product_id"`
	ServiceTypeID     int64           `json:"service_type_id"`
	CarModel          string          `json:"car_model"`
	Qty               int64           `json:"qty"`
	UnitPrice         decimal.Decimal `json:"unit_price"`
	DateStart         string          `json:"date_start"`
	DateEnd           string          `json:"date_end"`
	DurationDays      decimal.Decimal `json:"duration_days"`
	AdditionalCharges decimal.Decimal `json:"additional_charges"`
	DiscountPercent   decimal.Decimal `json:"discount_percent"`
	TaxIDs            []int64         `json:"tax_ids"`
}

type docLineView struct {
	ID                int64   `json:"id"`
	BookingLineID     int64   `json:"booking_line_id"`
	Name              string  `json:"name"`
	ProductID         int64   `json:"product_id"`
	ServiceTypeID     int64   `json:"service_type_id"`
	CarModel          string  `json:"car_model"`
	Qty               int64   `json:"qty"`
	UnitPrice         string  `json:"unit_price"`
	DateStart         string  `json:"date_start"`
	DateEnd           string  `json:"date_end"`
	DurationDays      string  `json:"duration_days"`
	AdditionalCharges string  `json:"additional_charges"`
	DiscountPercent   string  `json:"discount_percent"`
	TaxIDs            []int64 `json:"tax_ids"`
	Subtotal          string  `json:"subtotal"`
	Tax               string  `json:"tax"`
	Total             string  `json:"total"`
}

type orderView struct {
	ID            int64         `json:"id"`
	BookingID     int64         `json:"booking_id"`
	CustomerID    int64         `json:"customer_id"`
	OrderDate     string        `json:"order_date"`
	ValidityDate  string        `json:"validity_date"`
	Note          string        `json:"note"`
	AmountUntaxed string        `json:"amount_untaxed"`
	AmountTax     string        `json:"amount_tax"`
	AmountTotal   string        `json:"amount_total"`
	Lines         []docLineView `json:"lines"`
}

func toOrderLineView(l models.OrderLine) docLineView {
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

func toOrderView(o models.SalesOrder) orderView {
	view := orderView{
		ID:            o.ID,
		BookingID:     o.BookingID,
		CustomerID:    o.CustomerID,
		OrderDate:     utils.FormatDateTime(o.OrderDate),
		ValidityDate:  utils.FormatDateTime(o.ValidityDate),
		Note:          o.Note,
		AmountUntaxed: utils.FormatMoney(o.AmountUntaxed),
		AmountTax:     utils.FormatMoney(o.AmountTax),
		AmountTotal:   utils.FormatMoney(o.AmountTotal),
		Lines:         []docLineView{},
	}
	for _, l := range o.Lines {
		view.Lines = append(view.Lines, toOrderLineView(l))
	}
	return view
}

func documentService() services.DocumentService { return services.DocumentService{} }

// GET /api/sales-orders/:id
func GetSalesOrder(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	order, err := documentService().GetOrder(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toOrderView(order))
}

func (p docLinePayload) toOrderLine(c *gin.Context) (models.OrderLine, bool) {
	start, err := utils.ParseDateTime(p.DateStart)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid date_start", nil)
		return models.OrderLine{}, false
	}
	end, err := utils.ParseDateTime(p.DateEnd)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid date_end", nil)
		return models.OrderLine{}, false
	}
	return models.OrderLine{
		BookingLineID:     p.BookingLineID,
		Name:              p.Name,
		ProductID:         p.ProductID,
		ServiceTypeID:     p.ServiceTypeID,
		CarModel:          p.CarModel,
		Qty:               p.Qty,
		UnitPrice:         p.UnitPrice,
		DateStart:         start,
		DateEnd:           end,
		DurationDays:      p.DurationDays,
		AdditionalCharges: p.AdditionalCharges,
		DiscountPercent:   p.DiscountPercent,
		TaxIDs:            p.TaxIDs,
	}, true
}

// POST /api/sales-orders/:id/lines
func AddOrderLine(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req docLinePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	line, ok := req.toOrderLine(c)
	if !ok {
		return
	}

	lineID, err := documentService().AddOrderLine(c.Request.Context(), id, line)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": lineID})
}

// PUT /api/sales-orders/:id/lines/:line_id
func UpdateOrderLine(c *gin.Context) {
	lineID, ok := PathID(c, "line_id")
	if !ok {
		return
	}
	var req docLinePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	line, ok := req.toOrderLine(c)
	if !ok {
		return
	}
	line.ID = lineID

	if err := documentService().UpdateOrderLine(c.Request.Context(), line); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line updated"})
}

// DELETE /api/sales-orders/:id/lines/:line_id
func DeleteOrderLine(c *gin.Context) {
	lineID, ok := PathID(c, "line_id")
	if !ok {
		return
	}
	if err := documentService().DeleteOrderLine(c.Request.Context(), lineID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line removed"})
}

type recomputePayload struct {
	DocumentID   int64  `json:"document_id"`
	DocumentType string `json:"document_type"`
}

// POST /api/recompute-totals {document_id, document_type}
func RecomputeTotals(c *gin.Context) {
	var req recomputePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	err := services.TotalsService{}.RecomputeTotals(c.Request.Context(), req.DocumentID, domain.DocumentType(req.DocumentType))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "totals recomputed"})
}
