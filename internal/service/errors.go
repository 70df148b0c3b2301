// internal/service/errors.go
package service

import "errors"

var (
	// ErrInvalidInput covers out-of-range quantities, rates and indices.
	ErrInvalidInput = errors.New("invalid input")
	// ErrUnknownDoseForm is returned when a medication form is not in the
	// configured set.
	ErrUnknownDoseForm = errors.New("unknown dose form")
	// ErrInvalidState is returned for order transitions not allowed from the
	// order's current status.
	ErrInvalidState = errors.New("invalid state")
	// ErrExportDisabled is returned when no object storage is configured.
	ErrExportDisabled = errors.New("export disabled")
)
