// internal/api/api.go
package api

import (
	"strings"
	"time"

	"github.com/farmio-app/farmio/internal/api/handlers"
	"github.com/farmio-app/farmio/internal/api/middleware"
	"github.com/farmio-app/farmio/internal/service"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Services struct {
	Inventory   *service.InventoryService
	Medications *service.MedicationService
	Orders      *service.OrderService
	Export      *service.ExportService
}

func NewRouter(services *Services, allowedOrigins []string) *gin.Engine {
	router := gin.New()

	router.Use(middleware.Logger())
	router.Use(middleware.Recovery())

	corsConfig := cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://127.0.0.1:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if len(allowedOrigins) > 0 {
		normalizedOrigins, allowAll := normalizeAllowedOrigins(allowedOrigins)
		if allowAll {
			corsConfig.AllowOrigins = nil
			corsConfig.AllowOriginFunc = func(origin string) bool { return true }
		} else if len(normalizedOrigins) > 0 {
			corsConfig.AllowOrigins = normalizedOrigins
		}
	}
	router.Use(cors.New(corsConfig))

	apiGroup := router.Group("/api/v1")

	dashboardHandler := handlers.NewDashboardHandler(services.Inventory, services.Export)
	apiGroup.GET("/dashboard", dashboardHandler.GetDashboard)
	apiGroup.POST("/inventory/export", dashboardHandler.ExportInventory)

	medicationHandler := handlers.NewMedicationHandler(services.Medications, services.Orders)
	medicationGroup := apiGroup.Group("/medications")
	{
		medicationGroup.GET("", medicationHandler.List)
		medicationGroup.POST("", medicationHandler.Create)
		medicationGroup.GET("/:id", medicationHandler.Get)
		medicationGroup.PUT("/:id", medicationHandler.Update)
		medicationGroup.DELETE("/:id", medicationHandler.Delete)
		medicationGroup.POST("/:id/verify", medicationHandler.VerifyStock)
		medicationGroup.POST("/:id/orders", medicationHandler.CreateOrder)
	}

	orderHandler := handlers.NewOrderHandler(services.Orders)
	orderGroup := apiGroup.Group("/orders")
	{
		orderGroup.GET("", orderHandler.List)
		orderGroup.GET("/:id", orderHandler.Get)
		orderGroup.POST("/:id/confirm", orderHandler.Confirm)
		orderGroup.POST("/:id/receive", orderHandler.Receive)
		orderGroup.POST("/:id/cancel", orderHandler.Cancel)
	}

	return router
}

func normalizeAllowedOrigins(origins []string) ([]string, bool) {
	var (
		parsed   []string
		allowAll bool
	)
	for _, origin := range origins {
		parts := strings.Split(origin, ",")
		for _, part := range parts {
			trimmed := strings.TrimSpace(part)
			if trimmed == "" {
				continue
			}
			if trimmed == "*" {
				allowAll = true
				continue
			}
			parsed = append(parsed, trimmed)
		}
	}
	return parsed, allowAll
}
