package domain

import "strings"

// OrderStatus is the lifecycle state of a replenishment order.
type OrderStatus string

const (
	OrderStatusRequested OrderStatus = "requested"
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusReceived  OrderStatus = "received"
	OrderStatusCancelled OrderStatus = "cancelled"
)

var orderStatuses = map[string]OrderStatus{
	"requested": OrderStatusRequested,
	"confirmed": OrderStatusConfirmed,
	"received":  OrderStatusReceived,
	"cancelled": OrderStatusCancelled,
}

// ParseOrderStatus returns the status for a given label (case-insensitive).
func ParseOrderStatus(label string) (OrderStatus, bool) {
	status, ok := orderStatuses[strings.ToLower(strings.TrimSpace(label))]

	return status, ok
}

// Open reports whether the order still needs action: it has been requested or
// confirmed but not yet received or cancelled.
func (s OrderStatus) Open() bool {
	return s == OrderStatusRequested || s == OrderStatusConfirmed
}
