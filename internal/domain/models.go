// internal/domain/models.go
package domain

import (
	"encoding/json"
	"math"
	"time"
)

// DefaultRestockEase is applied when a medication is created without an
// explicit ease-of-restocking index.
const DefaultRestockEase = 2

// Medication is a tracked pharmacy product with stock and consumption attributes.
type Medication struct {
	ID             int64     `json:"id" db:"id"`
	Name           string    `json:"name" db:"name"`
	Dosage         string    `json:"dosage" db:"dosage"`
	Form           string    `json:"form" db:"form"`
	PackSize       int       `json:"pack_size" db:"pack_size"`
	DailyDose      int       `json:"daily_dose" db:"daily_dose"`
	Quantity       int       `json:"quantity" db:"quantity"`
	LastVerifiedAt time.Time `json:"last_verified_at" db:"last_verified_at"`
	RestockEase    int       `json:"restock_ease" db:"restock_ease"`
	CreatedAt      time.Time `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time `json:"updated_at" db:"updated_at"`
}

// Order is a replenishment request for a single medication. MedicationID never
// changes after creation; orders are only removed when their medication is.
type Order struct {
	ID           int64       `json:"id" db:"id"`
	MedicationID int64       `json:"medication_id" db:"medication_id"`
	Quantity     int         `json:"quantity" db:"quantity"`
	Status       OrderStatus `json:"status" db:"status"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// Projection is a medication annotated with its estimated days of stock left.
// DaysRemaining is +Inf when the medication has no daily consumption.
type Projection struct {
	Medication
	DaysRemaining float64 `json:"-"`
}

// MarshalJSON emits days_remaining as null for medications that never deplete,
// since IEEE infinities are not representable in JSON.
func (p Projection) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Medication
		DaysRemaining *float64 `json:"days_remaining"`
	}{p.Medication, finiteDays(p.DaysRemaining)})
}

// Dashboard is the inventory overview payload: medications ranked by urgency
// plus the orders still in flight.
type Dashboard struct {
	Medications []Projection `json:"medications"`
	OpenOrders  []Order      `json:"open_orders"`
}

// MedicationDetail is the single-medication view with its order history,
// newest order first.
type MedicationDetail struct {
	Projection
	Orders []Order `json:"orders"`
}

// MarshalJSON flattens the projection and appends the order history. Without
// this, the embedded projection's marshaler would win and drop the orders.
func (d MedicationDetail) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Medication
		DaysRemaining *float64 `json:"days_remaining"`
		Orders        []Order  `json:"orders"`
	}{d.Medication, finiteDays(d.DaysRemaining), d.Orders})
}

func finiteDays(days float64) *float64 {
	if math.IsInf(days, 1) {
		return nil
	}
	return &days
}
