package handlers

import (
	"net/http"

	intconfig "carbooking/internal/config"
	"carbooking/internal/domain/models"
	"carbooking/internal/repositories"
	"carbooking/internal/utils"

	"github.com/gin-gonic/gin"
)

type tripLineView struct {
	ID            int64  `json:"id"`
	BookingLineID int64  `json:"booking_line_id"`
	CarModel      string `json:"car_model"`
	ServiceTypeID int64  `json:"service_type_id"`
	DriverName    string `json:"driver_name"`
	DriverMobile  string `json:"driver_mobile"`
}

type tripProfileView struct {
	ID           int64          `json:"id"`
	BookingID    int64          `json:"booking_id"`
	Reference    string         `json:"reference"`
	CustomerID   int64          `json:"customer_id"`
	CustomerName string         `json:"customer_name"`
	StartDate    string         `json:"start_date"`
	EndDate      string         `json:"end_date"`
	Lines        []tripLineView `json:"lines"`
}

func toTripProfileView(p models.TripProfile) tripProfileView {
	view := tripProfileView{
		ID:           p.ID,
		BookingID:    p.BookingID,
		Reference:    p.Reference,
		CustomerID:   p.CustomerID,
		CustomerName: p.CustomerName,
		StartDate:    utils.FormatDateTime(p.StartDate),
		EndDate:      utils.FormatDateTime(p.EndDate),
		Lines:        []tripLineView{},
	}
	for _, l := range p.Lines {
		view.Lines = append(view.Lines, tripLineView{
			ID:            l.ID,
			BookingLineID: l.BookingLineID,
			CarModel:      l.CarModel,
			ServiceTypeID: l.ServiceTypeID,
			DriverName:    l.DriverName,
			DriverMobile:  l.DriverMobile,
		})
	}
	return view
}

// GET /api/trip-profiles/:id
func GetTripProfile(c *gin.Context) {
	id, ok := PathID(c, "id")
	if !ok {
		return
	}
	repo := repositories.TripRepository{DB: intconfig.DB}
	profile, err := repo.GetByID(nil, id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTripProfileView(profile))
}
