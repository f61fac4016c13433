package handlers

import (
	"net/http"
	"strings"

	intconfig "carbooking/internal/config"
	"carbooking/internal/domain/models"
	"carbooking/internal/repositories"
	"carbooking/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func catalogRepo() repositories.CatalogRepository {
	return repositories.CatalogRepository{DB: intconfig.DB}
}

func taxRepo() repositories.TaxRepository {
	return repositories.TaxRepository{DB: intconfig.DB}
}

// GET /api/taxes
func ListTaxes(c *gin.Context) {
	taxes, err := taxRepo().List(nil)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]gin.H, 0, len(taxes))
	for _, t := range taxes {
		out = append(out, gin.H{"id": t.ID, "name": t.Name, "rate_percent": t.RatePercent.String()})
	}
	c.JSON(http.StatusOK, gin.H{"taxes": out})
}

type taxPayload struct {
	Name        string          `json:"name"`
	RatePercent decimal.Decimal `json:"rate_percent"`
}

// POST /api/taxes
func CreateTax(c *gin.Context) {
	var req taxPayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}
	id, err := taxRepo().Create(nil, strings.TrimSpace(req.Name), req.RatePercent)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type namePayload struct {
	Name string `json:"name"`
}

// GET /api/service-types
func ListServiceTypes(c *gin.Context) {
	list, err := catalogRepo().ListServiceTypes(nil)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"service_types": list})
}

// POST /api/service-types
func CreateServiceType(c *gin.Context) {
	var req namePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}
	id, err := catalogRepo().CreateServiceType(nil, strings.TrimSpace(req.Name))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// GET /api/extra-services
func ListExtraServices(c *gin.Context) {
	list, err := catalogRepo().ListExtraServices(nil)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"extra_services": list})
}

// POST /api/extra-services
func CreateExtraService(c *gin.Context) {
	var req namePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.Name) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "name is required", nil)
		return
	}
	id, err := catalogRepo().CreateExtraService(nil, strings.TrimSpace(req.Name))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type vehicleView struct {
	ID          int64  `json:"id"`
	VehicleCode string `json:"vehicle_code"`
	PlateNumber string `json:"plate_number"`
	Model       string `json:"model"`
	Year        string `json:"year"`
	RentalPrice string `json:"rental_price"`
}

// GET /api/vehicles?search=
func ListVehicles(c *gin.Context) {
	vehicles, err := catalogRepo().ListVehicles(nil, c.Query("search"))
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	out := make([]vehicleView, 0, len(vehicles))
	for _, v := range vehicles {
		out = append(out, vehicleView{
			ID:          v.ID,
			VehicleCode: v.VehicleCode,
			PlateNumber: v.PlateNumber,
			Model:       v.Model,
			Year:        v.Year,
			RentalPrice: utils.FormatMoney(v.RentalPrice),
		})
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": out})
}

type vehiclePayload struct {
	VehicleCode string          `json:"vehicle_code"`
	PlateNumber string          `json:"plate_number"`
	Model       string          `json:"model"`
	Year        string          `json:"year"`
	RentalPrice decimal.Decimal `json:"rental_price"`
}

// POST /api/vehicles
func CreateVehicle(c *gin.Context) {
	var req vehiclePayload
	if !BindJSONOrError(c, &req) {
		return
	}
	if strings.TrimSpace(req.VehicleCode) == "" || strings.TrimSpace(req.PlateNumber) == "" {
		respondError(c, http.StatusBadRequest, "validation_error", "vehicle_code and plate_number are required", nil)
		return
	}
	id, err := catalogRepo().CreateVehicle(nil, models.Vehicle{
		VehicleCode: strings.TrimSpace(req.VehicleCode),
		PlateNumber: strings.TrimSpace(req.PlateNumber),
		Model:       strings.TrimSpace(req.Model),
		Year:        strings.TrimSpace(req.Year),
		RentalPrice: req.RentalPrice,
	})
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}
