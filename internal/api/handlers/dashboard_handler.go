// internal/api/handlers/dashboard_handler.go
package handlers

import (
	"net/http"

	"github.com/farmio-app/farmio/internal/service"
	"github.com/gin-gonic/gin"
)

type DashboardHandler struct {
	inventory *service.InventoryService
	export    *service.ExportService
}

func NewDashboardHandler(inventory *service.InventoryService, export *service.ExportService) *DashboardHandler {
	return &DashboardHandler{inventory: inventory, export: export}
}

// GetDashboard returns medications ranked by urgency plus open orders. Loading
// the dashboard also raises replenishment orders for low-stock medications.
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	dashboard, err := h.inventory.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, dashboard)
}

// ExportInventory uploads a CSV snapshot of the inventory to object storage
func (h *DashboardHandler) ExportInventory(c *gin.Context) {
	key, err := h.export.Export(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"key":     key,
		"message": "inventory snapshot exported",
	})
}
