package handlers

import (
	"net/http"
	"time"

	"carbooking/internal/domain"
	"carbooking/internal/domain/models"
	"carbooking/internal/services"
	"carbooking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

type bookingLinePayload struct {
	Name          string          `json:"name"`
	ServiceTypeID int64           `json:"service_type_id"`
	ProductID     int64           `json:"product_id"`
	CarModel      string          `json:"car_model"`
	Qty           int64           `json:"qty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	StartDate     string          `json:"start_date"`
	EndDate       string          `json:"end_date"`
	ExtraHours    int64           `json:"extra_hours"`
	ExtraHourRate decimal.Decimal `json:"extra_hour_rate"`
	TaxIDs        []int64         `json:"tax_ids"`
	DriverName    string          `json:"driver_name"`
	DriverMobile  string          `json:"driver_mobile"`
	DriverIDNo    string          `json:"driver_id_no"`
}

func (p bookingLinePayload) toModel(c *gin.Context) (models.BookingLine, bool) {
	start, err := utils.ParseDateTime(p.StartDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid start_date", nil)
		return models.BookingLine{}, false
	}
	end, err := utils.ParseDateTime(p.EndDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid end_date", nil)
		return models.BookingLine{}, false
	}
	return models.BookingLine{
		Name:          p.Name,
		ServiceTypeID: p.ServiceTypeID,
		ProductID:     p.ProductID,
		CarModel:      p.CarModel,
		Qty:           p.Qty,
		UnitPrice:     p.UnitPrice,
		StartDate:     start,
		EndDate:       end,
		ExtraHours:    p.ExtraHours,
		ExtraHourRate: p.ExtraHourRate,
		TaxIDs:        p.TaxIDs,
		DriverName:    p.DriverName,
		DriverMobile:  p.DriverMobile,
		DriverIDNo:    p.DriverIDNo,
	}, true
}

type bookingPayload struct {
	BookingType   string               `json:"booking_type"`
	CustomerID    int64                `json:"customer_id"`
	CustomerName  string               `json:"customer_name"`
	Mobile        string               `json:"mobile"`
	GuestName     string               `json:"guest_name"`
	GuestPhone    string               `json:"guest_phone"`
	BookingDate   string               `json:"booking_date"`
	DateOfService string               `json:"date_of_service"`
	Notes         string               `json:"notes"`
	MiscCharges   decimal.Decimal      `json:"misc_charges"`
	Lines         []bookingLinePayload `json:"lines"`
}

type bookingLineView struct {
	ID            int64   `json:"id"`
	Name          string  `json:"name"`
	ServiceTypeID int64   `json:"service_type_id"`
	ProductID     int64   `json:"product_id"`
	CarModel      string  `json:"car_model"`
	Qty           int64   `json:"qty"`
	UnitPrice     string  `json:"unit_price"`
	StartDate     string  `json:"start_date"`
	EndDate       string  `json:"end_date"`
	DurationDays  string  `json:"duration_days"`
	ExtraHours    int64   `json:"extra_hours"`
	ExtraHourRate string  `json:"extra_hour_rate"`
	TaxIDs        []int64 `json:"tax_ids"`
	DriverName    string  `json:"driver_name"`
	DriverMobile  string  `json:"driver_mobile"`
	DriverIDNo    string  `json:"driver_id_no"`
	Subtotal      string  `json:"subtotal"`
}

type bookingView struct {
	ID                    int64             `json:"id"`
	Reference             string            `json:"reference"`
	BookingType           string            `json:"booking_type"`
	State                 string            `json:"state"`
	ReservationStatus     string            `json:"reservation_status"`
	CustomerID            int64             `json:"customer_id"`
	CustomerName          string            `json:"customer_name"`
	Mobile                string            `json:"mobile"`
	GuestName             string            `json:"guest_name"`
	GuestPhone            string            `json:"guest_phone"`
	BookingDate           string            `json:"booking_date"`
	DateOfService         string            `json:"date_of_service"`
	Notes                 string            `json:"notes"`
	MiscCharges           string            `json:"misc_charges"`
	UntaxedTotal          string            `json:"untaxed_total"`
	VAT                   string            `json:"vat"`
	GrandTotal            string            `json:"grand_total"`
	TotalTax              string            `json:"total_tax"`
	ExtraHourTotal        int64             `json:"extra_hour_total"`
	ExtraHourChargesTotal string            `json:"extra_hour_charges_total"`
	QuotationID           int64             `json:"quotation_id"`
	InvoiceID             int64             `json:"invoice_id"`
	TripProfileID         int64             `json:"trip_profile_id"`
	Lines                 []bookingLineView `json:"lines"`
}

func toBookingLineView(l models.BookingLine) bookingLineView {
	return bookingLineView{
		ID:            l.ID,
		Name:          l.Name,
		ServiceTypeID: l.ServiceTypeID,
		ProductID:     l.ProductID,
		CarModel:      l.CarModel,
		Qty:           l.Qty,
		UnitPrice:     utils.FormatMoney(l.UnitPrice),
		StartDate:     utils.FormatDateTime(l.StartDate),
		EndDate:       utils.FormatDateTime(l.EndDate),
		DurationDays:  l.DurationDays.String(),
		ExtraHours:    l.ExtraHours,
		ExtraHourRate: utils.FormatMoney(l.ExtraHourRate),
		TaxIDs:        l.TaxIDs,
		DriverName:    l.DriverName,
		DriverMobile:  l.DriverMobile,
		DriverIDNo:    l.DriverIDNo,
		Subtotal:      utils.FormatMoney(l.Subtotal),
	}
}

func toBookingView(b models.Booking) bookingView {
	view := bookingView{
		ID:                    b.ID,
		Reference:             b.Reference,
		BookingType:           string(b.BookingType),
		State:                 string(b.State),
		ReservationStatus:     string(b.Reservation),
		CustomerID:            b.CustomerID,
		CustomerName:          b.CustomerName,
		Mobile:                b.Mobile,
		GuestName:             b.GuestName,
		GuestPhone:            b.GuestPhone,
		BookingDate:           utils.FormatDateTime(b.BookingDate),
		DateOfService:         utils.FormatDateTime(b.DateOfService),
		Notes:                 b.Notes,
		MiscCharges:           utils.FormatMoney(b.MiscCharges),
		UntaxedTotal:          utils.FormatMoney(b.UntaxedTotal),
		VAT:                   utils.FormatMoney(b.VAT),
		GrandTotal:            utils.FormatMoney(b.GrandTotal),
		TotalTax:              utils.FormatMoney(b.TotalTax),
		ExtraHourTotal:        b.ExtraHourTotal,
		ExtraHourChargesTotal: utils.FormatMoney(b.ExtraHourChargesTotal),
		QuotationID:           b.QuotationID,
		InvoiceID:             b.InvoiceID,
		TripProfileID:         b.TripProfileID,
		Lines:                 []bookingLineView{},
	}
	for _, l := range b.Lines {
		view.Lines = append(view.Lines, toBookingLineView(l))
	}
	return view
}

func bookingService() services.BookingService { return services.BookingService{} }

// POST /api/bookings
func CreateBooking(c *gin.Context) {
	var req bookingPayload
	if !BindJSONOrError(c, &req) {
		return
	}

	bookingDate, err := utils.ParseDateTime(req.BookingDate)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid booking_date", nil)
		return
	}
	serviceDate, err := utils.ParseDateTime(req.DateOfService)
	if err != nil {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid date_of_service", nil)
		return
	}
	if bookingDate == nil {
		now := time.Now()
		bookingDate = &now
	}

	booking := models.Booking{
		BookingType:   domain.BookingType(req.BookingType),
		CustomerID:    req.CustomerID,
		CustomerName:  req.CustomerName,
		Mobile:        req.Mobile,
		GuestName:     req.GuestName,
		GuestPhone:    req.GuestPhone,
		BookingDate:   bookingDate,
		DateOfService: serviceDate,
		Notes:         req.Notes,
		MiscCharges:   req.MiscCharges,
	}
	for _, lp := range req.Lines {
		line, ok := lp.toModel(c)
		if !ok {
			return
		}
		booking.Lines = append(booking.Lines, line)
	}

	id, err := bookingService().CreateBooking(c.Request.Context(), booking)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	created, err := bookingService().GetBooking(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toBookingView(created))
}

// GET /api/bookings?state=
func ListBookings(c *gin.Context) {
	list, err := bookingService().ListBookings(c.Query("state"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]bookingView, 0, len(list))
	for _, b := range list {
		out = append(out, toBookingView(b))
	}
	c.JSON(http.StatusOK, gin.H{"bookings": out})
}

// GET /api/bookings/:id
func GetBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService().GetBooking(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingView(booking))
}

type bookingUpdatePayload struct {
	CustomerID  *int64           `json:"customer_id"`
	Mobile      *string          `json:"mobile"`
	GuestName   *string          `json:"guest_name"`
	GuestPhone  *string          `json:"guest_phone"`
	Notes       *string          `json:"notes"`
	MiscCharges *decimal.Decimal `json:"misc_charges"`
}

// PUT /api/bookings/:id
func UpdateBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req bookingUpdatePayload
	if !BindJSONOrError(c, &req) {
		return
	}

	err := bookingService().UpdateBooking(c.Request.Context(), id, models.BookingUpdate{
		CustomerID:  req.CustomerID,
		Mobile:      req.Mobile,
		GuestName:   req.GuestName,
		GuestPhone:  req.GuestPhone,
		Notes:       req.Notes,
		MiscCharges: req.MiscCharges,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	booking, err := bookingService().GetBooking(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingView(booking))
}

// DELETE /api/bookings/:id
func DeleteBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := bookingService().DeleteBooking(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking deleted"})
}

// POST /api/bookings/:id/lines
func AddBookingLine(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req bookingLinePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	line, ok := req.toModel(c)
	if !ok {
		return
	}

	lineID, err := bookingService().AddLine(c.Request.Context(), id, line)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": lineID})
}

// PUT /api/bookings/:id/lines/:line_id
func UpdateBookingLine(c *gin.Context) {
	lineID, ok := PathID(c, "line_id")
	if !ok {
		return
	}
	var req bookingLinePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	line, ok := req.toModel(c)
	if !ok {
		return
	}
	line.ID = lineID

	if err := bookingService().UpdateLine(c.Request.Context(), line); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line updated"})
}

// DELETE /api/bookings/:id/lines/:line_id
func DeleteBookingLine(c *gin.Context) {
	lineID, ok := PathID(c, "line_id")
	if !ok {
		return
	}
	if err := bookingService().RemoveLine(c.Request.Context(), lineID); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "line removed"})
}

// POST /api/bookings/:id/confirm
func ConfirmBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	booking, err := bookingService().Confirm(id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toBookingView(booking))
}

// POST /api/bookings/:id/cancel
func CancelBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := bookingService().Cancel(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking cancelled"})
}

// POST /api/bookings/:id/reset-draft
func ResetBookingToDraft(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	if err := bookingService().ResetToDraft(id); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "booking reset to draft"})
}

// POST /api/bookings/:id/duplicate
func DuplicateBooking(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	newID, err := bookingService().Duplicate(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": newID})
}

type statusPayload struct {
	State string `json:"state"`
}

// POST /api/bookings/:id/status {state}
func AdvanceBookingStatus(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req statusPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := bookingService().AdvanceTripStatus(id, domain.TripStatus(req.State)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "state updated", "state": req.State})
}

type reservationPayload struct {
	Status string `json:"status"`
}

// POST /api/bookings/:id/reservation {status}
func AdvanceBookingReservation(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req reservationPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if err := bookingService().AdvanceReservation(id, domain.ReservationStatus(req.Status)); err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "reservation updated", "status": req.Status})
}

// POST /api/bookings/:id/quotation
func CreateBookingQuotation(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	orderID, err := services.ProjectionService{}.CreateQuotation(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"order_id": orderID})
}

// POST /api/bookings/:id/invoice
func CreateBookingInvoice(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	invoiceID, err := services.ProjectionService{}.CreateInvoice(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"invoice_id": invoiceID})
}

type bookingFromOrderPayload struct {
	BookingType string `json:"booking_type"`
}

// POST /api/sales-orders/:id/booking
func CreateBookingFromOrder(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	var req bookingFromOrderPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	bookingID, err := services.ProjectionService{}.CreateBookingFromOrder(c.Request.Context(), id, domain.BookingType(req.BookingType))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"booking_id": bookingID})
}
