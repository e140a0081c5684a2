package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Sale is the seller side view of one order line.
type Sale struct {
	ID          uuid.UUID
	SellerID    uuid.UUID
	OrderID     uuid.UUID
	OrderLineID uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	CustomerID  uuid.UUID
	Quantity    int64
	UnitPrice   Money
	Total       Money
	Status      OrderStatus

	CreatedAt time.Time
	UpdatedAt time.Time
}

type SellerStats struct {
	SellerID       uuid.UUID
	TotalRevenue   Money
	UnitsSold      int64
	ActiveProducts int64
	PendingSales   int64
	DeliveredSales int64
}

// SalesSummary aggregates the sales of one seller in the store currency.
type SalesSummary struct {
	Revenue        decimal.Decimal
	UnitsSold      int64
	PendingSales   int64
	DeliveredSales int64
}
