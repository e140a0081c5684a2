package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
)

type ProductRepository interface {
	CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error)
	SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error)

	// LockProducts locks the rows in ascending id order; unknown ids are absent from the result.
	LockProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.Product, error)
	// DecrementStock fails with domain.ErrConflict when the stock is lower than quantity.
	DecrementStock(ctx context.Context, productID uuid.UUID, quantity int64) error

	UpdateProduct(ctx context.Context, productID uuid.UUID, update domain.ProductUpdate) (domain.Product, error)
	CountActiveProducts(ctx context.Context, ownerID uuid.UUID) (int64, error)
}

// ProductCache is a best effort read-through cache, a miss is reported as found == false.
type ProductCache interface {
	Get(ctx context.Context, productID uuid.UUID) (domain.Product, bool)
	Set(ctx context.Context, product domain.Product)
	Invalidate(ctx context.Context, productIDs ...uuid.UUID)
}
