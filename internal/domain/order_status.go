package domain

import (
	"fmt"
	"slices"
)

type OrderStatus string

// remember to add new statuses to the orderStatusRanks map
const (
	OrderStatusPending    OrderStatus = "pending"
	OrderStatusProcessing OrderStatus = "processing"
	OrderStatusShipped    OrderStatus = "shipped"
	OrderStatusDelivered  OrderStatus = "delivered"
	OrderStatusCancelled  OrderStatus = "cancelled"
)

// position along the fulfillment path, cancelled is off the path
var orderStatusRanks = map[OrderStatus]int{
	OrderStatusPending:    0,
	OrderStatusProcessing: 1,
	OrderStatusShipped:    2,
	OrderStatusDelivered:  3,
	OrderStatusCancelled:  4,
}

func ToOrderStatus(s string) (OrderStatus, error) {
	status := OrderStatus(s)
	if _, ok := orderStatusRanks[status]; ok {
		return status, nil
	}

	return "", fmt.Errorf("%q is not one of %v: %w", s, OrderStatuses(), ErrInvalidStatus)
}

func OrderStatuses() []OrderStatus {
	result := make([]OrderStatus, 0, len(orderStatusRanks))
	for status := range orderStatusRanks {
		result = append(result, status)
	}

	slices.SortFunc(result, func(a, b OrderStatus) int {
		return orderStatusRanks[a] - orderStatusRanks[b]
	})

	return result
}

func (s OrderStatus) IsTerminal() bool {
	return s == OrderStatusDelivered || s == OrderStatusCancelled
}

// CanTransitionTo reports whether an order may move from s to next.
// Moves go forward along pending, processing, shipped, delivered (skips allowed).
// Cancellation is possible before shipping. Setting the current status again is allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if s == next {
		return true
	}

	if s.IsTerminal() {
		return false
	}

	if next == OrderStatusCancelled {
		return s == OrderStatusPending || s == OrderStatusProcessing
	}

	return orderStatusRanks[next] > orderStatusRanks[s]
}
