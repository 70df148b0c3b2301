package service

import (
	"context"
	"errors"
	"testing"

	"github.com/farmio-app/farmio/internal/domain"
	"github.com/farmio-app/farmio/internal/repository"
	"github.com/farmio-app/farmio/internal/repository/memory"
)

func setupOrders(t *testing.T) (*memory.Store, *MedicationService, *OrderService) {
	t.Helper()
	store := memory.NewStore()
	meds := NewMedicationService(store.Medications(), store.Orders(), nil, nil)
	orders := NewOrderService(store.Medications(), store.Orders(), store, nil)
	return store, meds, orders
}

func TestOrderLifecycle_ReceiveAddsStock(t *testing.T) {
	ctx := context.Background()
	_, meds, orders := setupOrders(t)
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	o, err := orders.Create(ctx, m.ID, 30)
	if err != nil {
		t.Fatalf("create order: %v", err)
	}
	if o.Status != domain.OrderStatusRequested {
		t.Fatalf("new order must start requested, got %s", o.Status)
	}

	o, err = orders.Confirm(ctx, o.ID)
	if err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if o.Status != domain.OrderStatusConfirmed {
		t.Fatalf("expected confirmed, got %s", o.Status)
	}

	o, err = orders.Receive(ctx, o.ID)
	if err != nil {
		t.Fatalf("receive: %v", err)
	}
	if o.Status != domain.OrderStatusReceived {
		t.Fatalf("expected received, got %s", o.Status)
	}

	detail, _ := meds.Get(ctx, m.ID)
	if detail.Quantity != 50 {
		t.Fatalf("expected quantity 20+30=50, got %d", detail.Quantity)
	}
}

func TestOrderLifecycle_ReceiveWithoutConfirm(t *testing.T) {
	ctx := context.Background()
	_, meds, orders := setupOrders(t)
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	o, _ := orders.Create(ctx, m.ID, 10)
	if _, err := orders.Receive(ctx, o.ID); err != nil {
		t.Fatalf("receive straight from requested: %v", err)
	}

	detail, _ := meds.Get(ctx, m.ID)
	if detail.Quantity != 30 {
		t.Fatalf("expected quantity 30, got %d", detail.Quantity)
	}
}

func TestOrderLifecycle_CancelRequestedLeavesStock(t *testing.T) {
	ctx := context.Background()
	_, meds, orders := setupOrders(t)
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	o, _ := orders.Create(ctx, m.ID, 30)
	o, err := orders.Cancel(ctx, o.ID)
	if err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if o.Status != domain.OrderStatusCancelled {
		t.Fatalf("expected cancelled, got %s", o.Status)
	}

	detail, _ := meds.Get(ctx, m.ID)
	if detail.Quantity != 20 {
		t.Fatalf("cancelling a requested order must not touch stock, got %d", detail.Quantity)
	}
}

func TestOrderLifecycle_CancelReceivedReversesStock(t *testing.T) {
	ctx := context.Background()
	_, meds, orders := setupOrders(t)
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	o, _ := orders.Create(ctx, m.ID, 30)
	if _, err := orders.Receive(ctx, o.ID); err != nil {
		t.Fatalf("receive: %v", err)
	}

	detail, _ := meds.Get(ctx, m.ID)
	if detail.Quantity != 50 {
		t.Fatalf("expected 50 after receive, got %d", detail.Quantity)
	}

	if _, err := orders.Cancel(ctx, o.ID); err != nil {
		t.Fatalf("cancel received: %v", err)
	}

	detail, _ = meds.Get(ctx, m.ID)
	if detail.Quantity != 20 {
		t.Fatalf("expected reversal back to 20, got %d", detail.Quantity)
	}
}

func TestOrderLifecycle_InvalidTransitions(t *testing.T) {
	ctx := context.Background()
	_, meds, orders := setupOrders(t)
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	// confirm is only valid from requested
	o, _ := orders.Create(ctx, m.ID, 10)
	if _, err := orders.Confirm(ctx, o.ID); err != nil {
		t.Fatalf("first confirm: %v", err)
	}
	if _, err := orders.Confirm(ctx, o.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state on double confirm, got %v", err)
	}

	// receive is guarded: not valid from received or cancelled
	if _, err := orders.Receive(ctx, o.ID); err != nil {
		t.Fatalf("receive: %v", err)
	}
	if _, err := orders.Receive(ctx, o.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state on double receive, got %v", err)
	}

	cancelled, _ := orders.Create(ctx, m.ID, 10)
	if _, err := orders.Cancel(ctx, cancelled.ID); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if _, err := orders.Receive(ctx, cancelled.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state receiving a cancelled order, got %v", err)
	}
	if _, err := orders.Cancel(ctx, cancelled.ID); !errors.Is(err, ErrInvalidState) {
		t.Fatalf("expected invalid state on double cancel, got %v", err)
	}
}

func TestOrderCreate_Validation(t *testing.T) {
	ctx := context.Background()
	_, meds, orders := setupOrders(t)
	m := addMedication(t, meds, "Amoxicillin", 30, 5, 20)

	if _, err := orders.Create(ctx, m.ID, 0); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for zero quantity, got %v", err)
	}
	if _, err := orders.Create(ctx, m.ID, -5); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected invalid input for negative quantity, got %v", err)
	}
	if _, err := orders.Create(ctx, 999, 10); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found for missing medication, got %v", err)
	}
}

func TestOrderTransitions_NotFound(t *testing.T) {
	ctx := context.Background()
	_, _, orders := setupOrders(t)

	if _, err := orders.Confirm(ctx, 42); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := orders.Receive(ctx, 42); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
	if _, err := orders.Cancel(ctx, 42); !errors.Is(err, repository.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
