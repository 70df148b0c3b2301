package service

import (
	"context"
	"math"
	"testing"

	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository/memory"
)

func setupInventory(t *testing.T) (*memory.Store, *InventoryService, *MedicationService) {
	t.Helper()
	store := memory.NewStore()
	inv := NewInventoryService(store.Medications(), store.Orders(), nil, 7)
	meds := NewMedicationService(store.Medications(), store.Orders(), nil, nil)
	return store, inv, meds
}

func addMedication(t *testing.T, meds *MedicationService, name string, packSize, dailyDose, quantity int) *domain.Medication {
	t.Helper()
	m, err := meds.Create(context.Background(), domain.Medication{
		Name:        name,
		Dosage:      "500mg",
		Form:        "tablet",
		PackSize:    packSize,
		DailyDose:   dailyDose,
		Quantity:    quantity,
		RestockEase: domain.DefaultRestockEase,
	})
	if err != nil {
		t.Fatalf("create medication %s: %v", name, err)
	}
	return m
}

func TestProjectSingle(t *testing.T) {
	days := ProjectSingle(domain.Medication{Quantity: 20, DailyDose: 5})
	if days != 4.0 {
		t.Fatalf("expected 4.0 days, got %v", days)
	}

	// real division, not integer truncation
	days = ProjectSingle(domain.Medication{Quantity: 10, DailyDose: 4})
	if days != 2.5 {
		t.Fatalf("expected 2.5 days, got %v", days)
	}

	// zero consumption never depletes
	days = ProjectSingle(domain.Medication{Quantity: 3, DailyDose: 0})
	if !math.IsInf(days, 1) {
		t.Fatalf("expected +Inf days, got %v", days)
	}
}

func TestProjectAndReorder_CreatesRequestedOrder(t *testing.T) {
	ctx := context.Background()
	store, inv, meds := setupInventory(t)

	// 20 units at 5/day = 4 days left, under the 7 day threshold
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	projections, err := inv.ProjectAndReorder(ctx)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if len(projections) != 1 {
		t.Fatalf("expected 1 projection, got %d", len(projections))
	}
	if projections[0].DaysRemaining != 4.0 {
		t.Fatalf("expected 4.0 days, got %v", projections[0].DaysRemaining)
	}

	orders, err := store.Orders().ListByMedication(ctx, m.ID)
	if err != nil {
		t.Fatalf("list orders: %v", err)
	}
	if len(orders) != 1 {
		t.Fatalf("expected 1 auto order, got %d", len(orders))
	}
	if orders[0].Status != domain.OrderStatusRequested {
		t.Fatalf("expected requested status, got %s", orders[0].Status)
	}
	if orders[0].Quantity != 30 {
		t.Fatalf("expected order for a full pack of 30, got %d", orders[0].Quantity)
	}
}

func TestProjectAndReorder_Idempotent(t *testing.T) {
	ctx := context.Background()
	store, inv, meds := setupInventory(t)
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	for i := 0; i < 3; i++ {
		if _, err := inv.ProjectAndReorder(ctx); err != nil {
			t.Fatalf("project %d: %v", i, err)
		}
	}

	orders, _ := store.Orders().ListByMedication(ctx, m.ID)
	if len(orders) != 1 {
		t.Fatalf("expected exactly 1 order after repeated projections, got %d", len(orders))
	}
}

func TestProjectAndReorder_ZeroStockExempt(t *testing.T) {
	ctx := context.Background()
	store, inv, meds := setupInventory(t)

	// zero quantity with positive consumption projects exactly 0 days and
	// stays outside the automatic path
	m := addMedication(t, meds, "Insulin", 10, 2, 0)

	projections, err := inv.ProjectAndReorder(ctx)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if projections[0].DaysRemaining != 0 {
		t.Fatalf("expected 0 days, got %v", projections[0].DaysRemaining)
	}

	orders, _ := store.Orders().ListByMedication(ctx, m.ID)
	if len(orders) != 0 {
		t.Fatalf("zero-stock medication must not auto-reorder, got %d orders", len(orders))
	}
}

func TestProjectAndReorder_AboveThresholdNoOrder(t *testing.T) {
	ctx := context.Background()
	store, inv, meds := setupInventory(t)
	m := addMedication(t, meds, "Paracetamol", 20, 2, 100) // 50 days left

	if _, err := inv.ProjectAndReorder(ctx); err != nil {
		t.Fatalf("project: %v", err)
	}

	orders, _ := store.Orders().ListByMedication(ctx, m.ID)
	if len(orders) != 0 {
		t.Fatalf("healthy stock must not auto-reorder, got %d orders", len(orders))
	}
}

func TestProjectAndReorder_ManualRequestSuppressesAuto(t *testing.T) {
	ctx := context.Background()
	store, inv, meds := setupInventory(t)
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	orderSvc := NewOrderService(store.Medications(), store.Orders(), store, nil)
	if _, err := orderSvc.Create(ctx, m.ID, 15); err != nil {
		t.Fatalf("manual order: %v", err)
	}

	if _, err := inv.ProjectAndReorder(ctx); err != nil {
		t.Fatalf("project: %v", err)
	}

	orders, _ := store.Orders().ListByMedication(ctx, m.ID)
	if len(orders) != 1 {
		t.Fatalf("pending manual request must suppress the auto order, got %d orders", len(orders))
	}
}

func TestProjectAndReorder_SortsByUrgencyInfLast(t *testing.T) {
	ctx := context.Background()
	_, inv, meds := setupInventory(t)

	addMedication(t, meds, "NeverDepletes", 10, 0, 5) // +Inf
	addMedication(t, meds, "TwoDays", 10, 5, 10)      // 2 days
	addMedication(t, meds, "TenDays", 10, 1, 10)      // 10 days

	projections, err := inv.ProjectAndReorder(ctx)
	if err != nil {
		t.Fatalf("project: %v", err)
	}
	if len(projections) != 3 {
		t.Fatalf("expected 3 projections, got %d", len(projections))
	}
	if projections[0].Name != "TwoDays" || projections[1].Name != "TenDays" {
		t.Fatalf("unexpected urgency order: %s, %s, %s",
			projections[0].Name, projections[1].Name, projections[2].Name)
	}
	if !math.IsInf(projections[2].DaysRemaining, 1) {
		t.Fatalf("infinite projection must sort last, got %v", projections[2].DaysRemaining)
	}
}

func TestDashboard_OpenOrdersExcludeClosed(t *testing.T) {
	ctx := context.Background()
	store, inv, meds := setupInventory(t)
	m := addMedication(t, meds, "Paracetamol", 20, 0, 100)

	orderSvc := NewOrderService(store.Medications(), store.Orders(), store, nil)
	requested, _ := orderSvc.Create(ctx, m.ID, 20)
	received, _ := orderSvc.Create(ctx, m.ID, 20)
	cancelled, _ := orderSvc.Create(ctx, m.ID, 20)
	if _, err := orderSvc.Receive(ctx, received.ID); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if _, err := orderSvc.Cancel(ctx, cancelled.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}

	dashboard, err := inv.Dashboard(ctx)
	if err != nil {
		t.Fatalf("dashboard: %v", err)
	}
	if len(dashboard.OpenOrders) != 1 {
		t.Fatalf("expected 1 open order, got %d", len(dashboard.OpenOrders))
	}
	if dashboard.OpenOrders[0].ID != requested.ID {
		t.Fatalf("expected the requested order to remain open")
	}
}

func TestRoundDays(t *testing.T) {
	if got := RoundDays(4.06); got != 4.1 {
		t.Fatalf("expected 4.1, got %v", got)
	}
	if got := RoundDays(math.Inf(1)); !math.IsInf(got, 1) {
		t.Fatalf("expected +Inf passthrough, got %v", got)
	}
}
