package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository"
)

// Store is an in-memory implementation of the repositories and the transaction
// manager. It backs tests and the --memory development mode.
type Store struct {
	mu          sync.RWMutex
	nextMedID   int64
	nextOrderID int64
	medications map[int64]domain.Medication
	orders      map[int64]domain.Order
}

func NewStore() *Store {
	return &Store{
		nextMedID:   1,
		nextOrderID: 1,
		medications: make(map[int64]domain.Medication),
		orders:      make(map[int64]domain.Order),
	}
}

type txKey struct{}

func inTx(ctx context.Context) bool {
	v, ok := ctx.Value(txKey{}).(bool)
	return ok && v
}

func (s *Store) rlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.RLock()
	}
}

func (s *Store) runlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.RUnlock()
	}
}

func (s *Store) wlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.Lock()
	}
}

func (s *Store) wunlock(ctx context.Context) {
	if !inTx(ctx) {
		s.mu.Unlock()
	}
}

// Medications returns the medication repository view of the store.
func (s *Store) Medications() repository.MedicationRepository { return (*medications)(s) }

// Orders returns the order repository view of the store.
func (s *Store) Orders() repository.OrderRepository { return (*orders)(s) }

var _ repository.TxManager = (*Store)(nil)

// WithTransaction emulates a transaction with the store's write lock. The
// context is marked so nested repository calls skip their own locking.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if inTx(ctx) {
		return fn(ctx)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(context.WithValue(ctx, txKey{}, true))
}

type medications Store

func (m *medications) Create(ctx context.Context, med *domain.Medication) error {
	s := (*Store)(m)
	s.wlock(ctx)
	defer s.wunlock(ctx)

	now := time.Now().UTC()
	med.ID = s.nextMedID
	s.nextMedID++
	med.CreatedAt = now
	med.UpdatedAt = now
	s.medications[med.ID] = *med
	return nil
}

func (m *medications) GetByID(ctx context.Context, id int64) (*domain.Medication, error) {
	s := (*Store)(m)
	s.rlock(ctx)
	defer s.runlock(ctx)

	med, ok := s.medications[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := med
	return &cp, nil
}

func (m *medications) Update(ctx context.Context, med *domain.Medication) error {
	s := (*Store)(m)
	s.wlock(ctx)
	defer s.wunlock(ctx)

	if _, ok := s.medications[med.ID]; !ok {
		return repository.ErrNotFound
	}
	med.UpdatedAt = time.Now().UTC()
	s.medications[med.ID] = *med
	return nil
}

func (m *medications) Delete(ctx context.Context, id int64) error {
	s := (*Store)(m)
	s.wlock(ctx)
	defer s.wunlock(ctx)

	if _, ok := s.medications[id]; !ok {
		return repository.ErrNotFound
	}
	delete(s.medications, id)
	// cascade: orders are owned by their medication
	for orderID, o := range s.orders {
		if o.MedicationID == id {
			delete(s.orders, orderID)
		}
	}
	return nil
}

func (m *medications) List(ctx context.Context) ([]domain.Medication, error) {
	s := (*Store)(m)
	s.rlock(ctx)
	defer s.runlock(ctx)

	out := make([]domain.Medication, 0, len(s.medications))
	for _, med := range s.medications {
		out = append(out, med)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

type orders Store

func (o *orders) Create(ctx context.Context, ord *domain.Order) error {
	s := (*Store)(o)
	s.wlock(ctx)
	defer s.wunlock(ctx)

	now := time.Now().UTC()
	ord.ID = s.nextOrderID
	s.nextOrderID++
	ord.CreatedAt = now
	ord.UpdatedAt = now
	s.orders[ord.ID] = *ord
	return nil
}

func (o *orders) GetByID(ctx context.Context, id int64) (*domain.Order, error) {
	s := (*Store)(o)
	s.rlock(ctx)
	defer s.runlock(ctx)

	ord, ok := s.orders[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	cp := ord
	return &cp, nil
}

func (o *orders) Update(ctx context.Context, ord *domain.Order) error {
	s := (*Store)(o)
	s.wlock(ctx)
	defer s.wunlock(ctx)

	if _, ok := s.orders[ord.ID]; !ok {
		return repository.ErrNotFound
	}
	ord.UpdatedAt = time.Now().UTC()
	s.orders[ord.ID] = *ord
	return nil
}

func (o *orders) ListByMedication(ctx context.Context, medicationID int64) ([]domain.Order, error) {
	s := (*Store)(o)
	s.rlock(ctx)
	defer s.runlock(ctx)

	out := make([]domain.Order, 0)
	for _, ord := range s.orders {
		if ord.MedicationID == medicationID {
			out = append(out, ord)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (o *orders) ListByStatus(ctx context.Context, statuses ...domain.OrderStatus) ([]domain.Order, error) {
	s := (*Store)(o)
	s.rlock(ctx)
	defer s.runlock(ctx)

	wanted := make(map[domain.OrderStatus]bool, len(statuses))
	for _, st := range statuses {
		wanted[st] = true
	}

	out := make([]domain.Order, 0)
	for _, ord := range s.orders {
		if wanted[ord.Status] {
			out = append(out, ord)
		}
	}
	sortNewestFirst(out)
	return out, nil
}

func (o *orders) HasRequested(ctx context.Context, medicationID int64) (bool, error) {
	s := (*Store)(o)
	s.rlock(ctx)
	defer s.runlock(ctx)

	for _, ord := range s.orders {
		if ord.MedicationID == medicationID && ord.Status == domain.OrderStatusRequested {
			return true, nil
		}
	}
	return false, nil
}

func sortNewestFirst(orders []domain.Order) {
	sort.Slice(orders, func(i, j int) bool {
		if orders[i].CreatedAt.Equal(orders[j].CreatedAt) {
			return orders[i].ID > orders[j].ID
		}
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
