// internal/repository/repository.go
package repository

import (
	"context"
	"errors"

	"github.com/farmio-app/farmio/internal/domain"
)

// ErrNotFound is returned when a referenced medication or order does not exist.
var ErrNotFound = errors.New("not found")

type MedicationRepository interface {
	Create(ctx context.Context, m *domain.Medication) error
	GetByID(ctx context.Context, id int64) (*domain.Medication, error)
	Update(ctx context.Context, m *domain.Medication) error
	// Delete removes the medication and every order that references it.
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]domain.Medication, error)
}

type OrderRepository interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByID(ctx context.Context, id int64) (*domain.Order, error)
	Update(ctx context.Context, o *domain.Order) error
	// ListByMedication returns the medication's orders, newest first.
	ListByMedication(ctx context.Context, medicationID int64) ([]domain.Order, error)
	ListByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error)
	// HasRequested reports whether the medication already has an order in the
	// requested state. The projector uses it as its duplicate-order guard.
	HasRequested(ctx context.Context, medicationID int64) (bool, error)
}

// TxManager runs fn as a single unit of persistence. Status changes and the
// stock adjustments they trigger must commit or roll back together.
type TxManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}
