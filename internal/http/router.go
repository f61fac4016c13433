package api

import (
	stdhttp "net/http"

	intconfig "carbooking/internal/config"
	"carbooking/internal/domain/models"
	h "carbooking/internal/http/handlers"
	"carbooking/internal/http/middleware"

	"github.com/gin-gonic/gin"
)

func NewRouter(env intconfig.Env) *gin.Engine {
	middleware.SetJWTSecret(env.JWTSecret)

	r := gin.New()
	r.Use(middleware.RequestID(), middleware.Logger(), gin.Recovery(), middleware.CORS())

	if err := r.SetTrustedProxies(nil); err != nil {
		intconfig.Log().Warnf("failed to set trusted proxies: %v", err)
	}

	r.NoRoute(func(c *gin.Context) {
		c.JSON(stdhttp.StatusNotFound, gin.H{
			"error":  "route not found",
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		})
	})

	api := r.Group("/api")
	{
		api.GET("/health", h.Health)
		api.GET("/db-check", h.DBCheck)

		auth := api.Group("/auth")
		auth.POST("/login", h.Login)
		auth.POST("/register", h.Register)
		auth.GET("/is-operations", middleware.RequireAuth(), h.IsOperations)

		bookings := api.Group("/bookings")
		bookings.POST("", h.CreateBooking)
		bookings.GET("", h.ListBookings)
		bookings.GET("/:id", h.GetBooking)
		bookings.PUT("/:id", h.UpdateBooking)
		bookings.DELETE("/:id", h.DeleteBooking)
		bookings.POST("/:id/lines", h.AddBookingLine)
		bookings.PUT("/:id/lines/:line_id", h.UpdateBookingLine)
		bookings.DELETE("/:id/lines/:line_id", h.DeleteBookingLine)
		bookings.POST("/:id/confirm", h.ConfirmBooking)
		bookings.POST("/:id/cancel", h.CancelBooking)
		bookings.POST("/:id/reset-draft", h.ResetBookingToDraft)
		bookings.POST("/:id/duplicate", h.DuplicateBooking)
		bookings.POST("/:id/status", h.AdvanceBookingStatus)
		bookings.POST("/:id/reservation", h.AdvanceBookingReservation)
		bookings.POST("/:id/quotation", h.CreateBookingQuotation)
		bookings.POST("/:id/invoice",
			middleware.RequireAuth(),
			middleware.RequireRoles(models.RoleOperationsApprover, models.RoleAdmin),
			h.CreateBookingInvoice)

		orders := api.Group("/sales-orders")
		orders.GET("/:id", h.GetSalesOrder)
		orders.POST("/:id/booking", h.CreateBookingFromOrder)
		orders.POST("/:id/lines", h.AddOrderLine)
		orders.PUT("/:id/lines/:line_id", h.UpdateOrderLine)
		orders.DELETE("/:id/lines/:line_id", h.DeleteOrderLine)

		invoices := api.Group("/invoices")
		invoices.GET("/:id", h.GetInvoice)
		invoices.POST("/:id/lines", h.AddInvoiceLine)
		invoices.PUT("/:id/lines/:line_id", h.UpdateInvoiceLine)
		invoices.DELETE("/:id/lines/:line_id", h.DeleteInvoiceLine)

		api.POST("/recompute-totals", h.RecomputeTotals)

		api.GET("/trip-profiles/:id", h.GetTripProfile)

		api.GET("/taxes", h.ListTaxes)
		api.POST("/taxes", h.CreateTax)
		api.GET("/service-types", h.ListServiceTypes)
		api.POST("/service-types", h.CreateServiceType)
		api.GET("/extra-services", h.ListExtraServices)
		api.POST("/extra-services", h.CreateExtraService)
		api.GET("/vehicles", h.ListVehicles)
		api.POST("/vehicles", h.CreateVehicle)
	}

	return r
}
