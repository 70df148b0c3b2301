// internal/api/handlers/order_handler.go
package handlers

import (
	"context"
	"net/http"

	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/service"
	"github.com/gin-gonic/gin"
)

type OrderHandler struct {
	orders *service.OrderService
}

func NewOrderHandler(orders *service.OrderService) *OrderHandler {
	return &OrderHandler{orders: orders}
}

// List returns orders, optionally filtered by status
func (h *OrderHandler) List(c *gin.Context) {
	var statuses []domain.OrderStatus
	if raw := c.Query("status"); raw != "" {
		status, ok := domain.ParseOrderStatus(raw)
		if !ok {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid status value"})
			return
		}
		statuses = append(statuses, status)
	}

	orders, err := h.orders.List(c.Request.Context(), statuses...)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, orders)
}

// Get returns an order by id
func (h *OrderHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := h.orders.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, order)
}

// Confirm moves a requested order to confirmed
func (h *OrderHandler) Confirm(c *gin.Context) {
	h.transition(c, h.orders.Confirm, "order confirmed")
}

// Receive marks an order received and books its quantity into stock
func (h *OrderHandler) Receive(c *gin.Context) {
	h.transition(c, h.orders.Receive, "order received, medication quantity updated")
}

// Cancel cancels an order, reversing stock for received orders
func (h *OrderHandler) Cancel(c *gin.Context) {
	h.transition(c, h.orders.Cancel, "order cancelled, stock has been adjusted")
}

func (h *OrderHandler) transition(c *gin.Context, fn func(ctx context.Context, id int64) (*domain.Order, error), message string) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order id"})
		return
	}

	order, err := fn(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"order":   order,
		"message": message,
	})
}
