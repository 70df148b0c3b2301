// internal/api/handlers/medication_handler.go
package handlers

import (
	"fmt"
	"net/http"

	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/service"
	"github.com/gin-gonic/gin"
)

type MedicationHandler struct {
	medications *service.MedicationService
	orders      *service.OrderService
}

func NewMedicationHandler(medications *service.MedicationService, orders *service.OrderService) *MedicationHandler {
	return &MedicationHandler{medications: medications, orders: orders}
}

// medicationReq carries the add/edit form fields. Typed fields mean a
// non-numeric value fails binding before anything is persisted.
type medicationReq struct {
	Name        string `json:"name"`
	Dosage      string `json:"dosage"`
	Form        string `json:"form"`
	PackSize    int    `json:"pack_size"`
	DailyDose   int    `json:"daily_dose"`
	Quantity    int    `json:"quantity"`
	RestockEase *int   `json:"restock_ease"`
}

func (r medicationReq) toDomain() domain.Medication {
	restockEase := domain.DefaultRestockEase
	if r.RestockEase != nil {
		restockEase = *r.RestockEase
	}
	return domain.Medication{
		Name:        r.Name,
		Dosage:      r.Dosage,
		Form:        r.Form,
		PackSize:    r.PackSize,
		DailyDose:   r.DailyDose,
		Quantity:    r.Quantity,
		RestockEase: restockEase,
	}
}

// List returns all medications
func (h *MedicationHandler) List(c *gin.Context) {
	medications, err := h.medications.List(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, medications)
}

// Create adds a new medication
func (h *MedicationHandler) Create(c *gin.Context) {
	var req medicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide valid numeric values for quantities and the restock index"})
		return
	}

	m, err := h.medications.Create(c.Request.Context(), req.toDomain())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"medication": m,
		"message":    fmt.Sprintf("medication %s added", m.Name),
	})
}

// Get returns a medication with its projection and order history
func (h *MedicationHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medication id"})
		return
	}

	detail, err := h.medications.Get(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Update edits a medication
func (h *MedicationHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medication id"})
		return
	}

	var req medicationReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide valid numeric values for quantities and the restock index"})
		return
	}

	m := req.toDomain()
	m.ID = id
	updated, err := h.medications.Update(c.Request.Context(), m)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"medication": updated,
		"message":    fmt.Sprintf("medication %s updated", updated.Name),
	})
}

// Delete removes a medication and its orders
func (h *MedicationHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medication id"})
		return
	}

	if err := h.medications.Delete(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "medication deleted"})
}

type verifyStockReq struct {
	Quantity int `json:"quantity"`
}

// VerifyStock records a physical stock count
func (h *MedicationHandler) VerifyStock(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medication id"})
		return
	}

	var req verifyStockReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide a valid numeric quantity"})
		return
	}

	m, err := h.medications.VerifyStock(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"medication": m,
		"message":    "stock verified and updated",
	})
}

type createOrderReq struct {
	Quantity int `json:"quantity"`
}

// CreateOrder opens a manual replenishment order for a medication
func (h *MedicationHandler) CreateOrder(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid medication id"})
		return
	}

	var req createOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "please provide a valid numeric quantity"})
		return
	}

	order, err := h.orders.Create(c.Request.Context(), id, req.Quantity)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"order":   order,
		"message": "order created",
	})
}
