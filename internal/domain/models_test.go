package domain

import (
	"encoding/json"
	"math"
	"strings"
	"testing"
)

func TestProjectionMarshal(t *testing.T) {
	p := Projection{Medication: Medication{ID: 1, Name: "Amoxicillin"}, DaysRemaining: 4.0}
	data, err := json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if !strings.Contains(string(data), `"days_remaining":4`) {
		t.Fatalf("expected numeric days_remaining: %s", data)
	}

	p.DaysRemaining = math.Inf(1)
	data, err = json.Marshal(p)
	if err != nil {
		t.Fatalf("marshal inf: %v", err)
	}
	if !strings.Contains(string(data), `"days_remaining":null`) {
		t.Fatalf("expected null days_remaining for +Inf: %s", data)
	}
}

func TestMedicationDetailMarshalKeepsOrders(t *testing.T) {
	d := MedicationDetail{
		Projection: Projection{Medication: Medication{ID: 1, Name: "Amoxicillin"}, DaysRemaining: 4.0},
		Orders:     []Order{{ID: 7, MedicationID: 1, Quantity: 30, Status: OrderStatusRequested}},
	}
	data, err := json.Marshal(d)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal(data, &payload); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	orders, ok := payload["orders"].([]any)
	if !ok || len(orders) != 1 {
		t.Fatalf("detail payload must carry the order history: %s", data)
	}
	if payload["name"] != "Amoxicillin" {
		t.Fatalf("medication fields must stay flattened: %s", data)
	}
}

func TestParseOrderStatus(t *testing.T) {
	for _, label := range []string{"requested", "confirmed", "received", "cancelled"} {
		status, ok := ParseOrderStatus(label)
		if !ok || string(status) != label {
			t.Fatalf("expected %s to parse, got %s ok=%v", label, status, ok)
		}
	}
	if _, ok := ParseOrderStatus("shipped"); ok {
		t.Fatal("unknown label must not parse")
	}
}

func TestOrderStatusOpen(t *testing.T) {
	open := map[OrderStatus]bool{
		OrderStatusRequested: true,
		OrderStatusConfirmed: true,
		OrderStatusReceived:  false,
		OrderStatusCancelled: false,
	}
	for status, want := range open {
		if status.Open() != want {
			t.Fatalf("%s: expected Open()=%v", status, want)
		}
	}
}
