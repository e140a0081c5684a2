package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
)

type OrderRepository interface {
	// InsertOrder stores the header, its lines and one sale per line.
	InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error)

	GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error)
	SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error)

	// LockOrderStatus returns the current status and holds the row lock until the transaction ends.
	LockOrderStatus(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, error)
	// UpdateOrderStatus sets the status of the order and of every sale belonging to it.
	UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error

	SearchSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error)
	SellerSalesSummary(ctx context.Context, sellerID uuid.UUID) (domain.SalesSummary, error)
}
