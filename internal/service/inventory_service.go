// internal/service/inventory_service.go
package service

import (
	"context"
	"math"
	"sort"

	"github.com/farmio-app/farmio/internal/cache"
	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository"
	"github.com/rs/zerolog/log"
)

// InventoryService projects remaining days of stock for every medication and
// raises replenishment orders for the ones running low.
type InventoryService struct {
	meds      repository.MedicationRepository
	orders    repository.OrderRepository
	cache     cache.DashboardCache
	threshold float64
}

func NewInventoryService(meds repository.MedicationRepository, orders repository.OrderRepository, cacheImpl cache.DashboardCache, thresholdDays float64) *InventoryService {
	if cacheImpl == nil {
		cacheImpl = cache.NewNoopDashboardCache()
	}
	if thresholdDays <= 0 {
		thresholdDays = 7
	}
	return &InventoryService{meds: meds, orders: orders, cache: cacheImpl, threshold: thresholdDays}
}

// ProjectSingle computes the estimated days of stock left for one medication.
// A medication with no daily consumption never depletes and projects +Inf.
func ProjectSingle(m domain.Medication) float64 {
	if m.DailyDose > 0 {
		return float64(m.Quantity) / float64(m.DailyDose)
	}
	return math.Inf(1)
}

// RoundDays rounds a projection to one decimal for display. Infinity is
// passed through untouched.
func RoundDays(days float64) float64 {
	if math.IsInf(days, 1) {
		return days
	}
	return math.Round(days*10) / 10
}

// ProjectAndReorder projects every medication and creates a requested order
// (quantity = pack size) for each one with strictly between zero and the
// threshold days of stock left and no request already pending. Repeated calls
// with no intervening state change create no duplicate orders. The result is
// sorted ascending by days remaining; medications that never deplete sort last.
func (s *InventoryService) ProjectAndReorder(ctx context.Context) ([]domain.Projection, error) {
	medications, err := s.meds.List(ctx)
	if err != nil {
		return nil, err
	}

	projections := make([]domain.Projection, 0, len(medications))
	for _, m := range medications {
		days := ProjectSingle(m)

		// A medication already at zero stock is exempt from the automatic
		// path; it sorts first on the dashboard instead.
		if days > 0 && days < s.threshold {
			pending, err := s.orders.HasRequested(ctx, m.ID)
			if err != nil {
				return nil, err
			}
			if !pending {
				order := domain.Order{
					MedicationID: m.ID,
					Quantity:     m.PackSize,
					Status:       domain.OrderStatusRequested,
				}
				if err := s.orders.Create(ctx, &order); err != nil {
					return nil, err
				}
				log.Info().
					Int64("medication_id", m.ID).
					Int("quantity", order.Quantity).
					Float64("days_remaining", days).
					Msg("auto-reorder raised")
			}
		}

		projections = append(projections, domain.Projection{Medication: m, DaysRemaining: days})
	}

	sort.SliceStable(projections, func(i, j int) bool {
		if projections[i].DaysRemaining == projections[j].DaysRemaining {
			return projections[i].ID < projections[j].ID
		}
		return projections[i].DaysRemaining < projections[j].DaysRemaining
	})

	return projections, nil
}

// Dashboard returns the urgency-ranked projections together with the orders
// still in flight. The assembled payload is served from cache while no
// mutation has invalidated it; re-projecting within that window is a no-op by
// the pending-order guard, so the cached copy is observably identical.
func (s *InventoryService) Dashboard(ctx context.Context) (*domain.Dashboard, error) {
	if dashboard, ok, err := s.cache.Get(ctx); err == nil && ok {
		return dashboard, nil
	} else if err != nil {
		log.Warn().Err(err).Msg("dashboard: cache get failed")
	}

	projections, err := s.ProjectAndReorder(ctx)
	if err != nil {
		return nil, err
	}

	openOrders, err := s.orders.ListByStatus(ctx, domain.OrderStatusRequested, domain.OrderStatusConfirmed)
	if err != nil {
		return nil, err
	}

	dashboard := &domain.Dashboard{
		Medications: projections,
		OpenOrders:  openOrders,
	}

	if err := s.cache.Set(ctx, dashboard); err != nil {
		log.Warn().Err(err).Msg("dashboard: cache set failed")
	}

	return dashboard, nil
}
