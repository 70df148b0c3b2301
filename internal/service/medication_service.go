// internal/service/medication_service.go
package service

import (
	"context"
	"time"

	"github.com/farmio-app/farmio/internal/cache"
	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository"
	"github.com/rs/zerolog/log"
)

// MedicationService handles the medication records themselves: creation,
// edits, stock verification and deletion (which cascades to orders).
type MedicationService struct {
	meds   repository.MedicationRepository
	orders repository.OrderRepository
	cache  cache.DashboardCache
	forms  []string
}

func NewMedicationService(meds repository.MedicationRepository, orders repository.OrderRepository, cacheImpl cache.DashboardCache, doseForms []string) *MedicationService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if len(doseForms) == 0 {
		doseForms = domain.DoseForms
	}
	return &MedicationService{meds: meds, orders: orders, cache: cacheImpl, forms: doseForms}
}

func (s *MedicationService) validate(m *domain.Medication) error {
	if m.Name == "" {
		return ErrInvalidInput
	}
	if m.PackSize <= 0 || m.DailyDose < 0 || m.RestockEase < 0 {
		return ErrInvalidInput
	}
	if !domain.ValidDoseForm(m.Form, s.forms) {
		return ErrUnknownDoseForm
	}
	return nil
}

// Create registers a new medication. The stock verification timestamp is
// initialized to now, matching the add form's behavior.
func (s *MedicationService) Create(ctx context.Context, m domain.Medication) (*domain.Medication, error) {
	if err := s.validate(&m); err != nil {
		return nil, err
	}
	m.LastVerifiedAt = time.Now().UTC()

	if err := s.meds.Create(ctx, &m); err != nil {
		return nil, err
	}

	log.Info().Int64("medication_id", m.ID).Str("name", m.Name).Msg("medication added")
	s.invalidate(ctx)
	return &m, nil
}

// Update edits a medication's attributes. The last verification timestamp is
// left alone; only VerifyStock moves it.
func (s *MedicationService) Update(ctx context.Context, m domain.Medication) (*domain.Medication, error) {
	if err := s.validate(&m); err != nil {
		return nil, err
	}

	current, err := s.meds.GetByID(ctx, m.ID)
	if err != nil {
		return nil, err
	}

	current.Name = m.Name
	current.Dosage = m.Dosage
	current.Form = m.Form
	current.PackSize = m.PackSize
	current.DailyDose = m.DailyDose
	current.Quantity = m.Quantity
	current.RestockEase = m.RestockEase

	if err := s.meds.Update(ctx, current); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return current, nil
}

// VerifyStock records a physical stock count: it sets the current quantity and
// stamps the verification time.
func (s *MedicationService) VerifyStock(ctx context.Context, id int64, quantity int) (*domain.Medication, error) {
	m, err := s.meds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	m.Quantity = quantity
	m.LastVerifiedAt = time.Now().UTC()
	if err := s.meds.Update(ctx, m); err != nil {
		return nil, err
	}

	s.invalidate(ctx)
	return m, nil
}

// Get returns the medication detail view: the projection rounded to one
// decimal for display plus the order history, newest first.
func (s *MedicationService) Get(ctx context.Context, id int64) (*domain.MedicationDetail, error) {
	m, err := s.meds.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	orders, err := s.orders.ListByMedication(ctx, id)
	if err != nil {
		return nil, err
	}

	return &domain.MedicationDetail{
		Projection: domain.Projection{
			Medication:    *m,
			DaysRemaining: RoundDays(ProjectSingle(*m)),
		},
		Orders: orders,
	}, nil
}

// List returns all medications without projections.
func (s *MedicationService) List(ctx context.Context) ([]domain.Medication, error) {
	return s.meds.List(ctx)
}

// Delete removes a medication together with its orders.
func (s *MedicationService) Delete(ctx context.Context, id int64) error {
	if err := s.meds.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Int64("medication_id", id).Msg("medication deleted with its orders")
	s.invalidate(ctx)
	return nil
}

func (s *MedicationService) invalidate(ctx context.Context) {
	if err := s.cache.Invalidate(ctx); err != nil {
		log.Warn().Err(err).Msg("medications: dashboard cache invalidation failed")
	}
}
