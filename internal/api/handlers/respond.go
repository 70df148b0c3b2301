// internal/api/handlers/respond.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/farmio-app/farmio/internal/repository"
	"github.com/farmio-app/farmio/internal/service"
	"github.com/gin-gonic/gin"
)

func parseID(value string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(value), 10, 64)
}

// statusFor maps service-layer errors onto HTTP statuses.
func statusFor(err error) int {
	switch {
	case errors.Is(err, repository.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInput), errors.Is(err, service.ErrUnknownDoseForm):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidState):
		return http.StatusConflict
	case errors.Is(err, service.ErrExportDisabled):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func respondError(c *gin.Context, err error) {
	c.JSON(statusFor(err), gin.H{"error": err.Error()})
}
