// internal/service/order_service.go
package service

import (
	"context"

	"github.com/farmio-app/farmio/internal/cache"
	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository"
	"github.com/rs/zerolog/log"
)

// OrderService governs the order lifecycle. Transitions that touch medication
// stock run inside one transaction so status and quantity never diverge.
type OrderService struct {
	meds   repository.MedicationRepository
	orders repository.OrderRepository
	tx     repository.TxManager
	cache  cache.DashboardCache
}

func NewOrderService(meds repository.MedicationRepository, orders repository.OrderRepository, tx repository.TxManager, cacheImpl cache.DashboardCache) *OrderService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	return &OrderService{meds: meds, orders: orders, tx: tx, cache: cacheImpl}
}

// Create opens a new replenishment order in the requested state.
func (s *OrderService) Create(ctx context.Context, medicationID int64, quantity int) (*domain.Order, error) {
	if quantity <= 0 {
		return nil, ErrInvalidInput
	}

	// the medication must exist; orders never outlive their owner
	if _, err := s.meds.GetByID(ctx, medicationID); err != nil {
		return nil, err
	}

	order := domain.Order{
		MedicationID: medicationID,
		Quantity:     quantity,
		Status:       domain.OrderStatusRequested,
	}
	if err := s.orders.Create(ctx, &order); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return &order, nil
}

// Get returns an order by id.
func (s *OrderService) Get(ctx context.Context, id int64) (*domain.Order, error) {
	return s.orders.GetByID(ctx, id)
}

// List returns orders filtered by status, or all orders when no status is given.
func (s *OrderService) List(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	if len(statuses) == 0 {
		statuses = []domain.OrderStatus{
			domain.OrderStatusRequested,
			domain.OrderStatusConfirmed,
			domain.OrderStatusReceived,
			domain.OrderStatusCancelled,
		}
	}
	return s.orders.ListByStatus(ctx, statuses...)
}

// Confirm moves a requested order to confirmed. No stock effect.
func (s *OrderService) Confirm(ctx context.Context, id int64) (*domain.Order, error) {
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status != domain.OrderStatusRequested {
			return ErrInvalidState
		}
		o.Status = domain.OrderStatusConfirmed
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

// Receive marks a requested or confirmed order as received and adds its
// quantity to the owning medication's stock. Receiving from any other state is
// rejected; the unguarded transition would double-count stock on replay.
func (s *OrderService) Receive(ctx context.Context, id int64) (*domain.Order, error) {
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if !o.Status.Open() {
			return ErrInvalidState
		}

		m, err := s.meds.GetByID(ctx, o.MedicationID)
		if err != nil {
			return err
		}
		m.Quantity += o.Quantity
		if err := s.meds.Update(ctx, m); err != nil {
			return err
		}

		o.Status = domain.OrderStatusReceived
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().Int64("order_id", id).Int("quantity", updated.Quantity).Msg("order received, stock updated")
	s.invalidate(ctx)
	return updated, nil
}

// Cancel cancels an order. Cancelling a received order reverses its stock
// effect; cancelling an already cancelled order is rejected so the reversal
// can never be applied twice.
func (s *OrderService) Cancel(ctx context.Context, id int64) (*domain.Order, error) {
	var updated *domain.Order
	err := s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		o, err := s.orders.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if o.Status == domain.OrderStatusCancelled {
			return ErrInvalidState
		}

		if o.Status == domain.OrderStatusReceived {
			m, err := s.meds.GetByID(ctx, o.MedicationID)
			if err != nil {
				return err
			}
			m.Quantity -= o.Quantity
			if err := s.meds.Update(ctx, m); err != nil {
				return err
			}
		}

		o.Status = domain.OrderStatusCancelled
		if err := s.orders.Update(ctx, o); err != nil {
			return err
		}
		updated = o
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return updated, nil
}

func (s *OrderService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("orders: dashboard cache invalidation failed")
	}
}
