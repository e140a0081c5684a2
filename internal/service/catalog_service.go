package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/nikolayk812/marketplace/internal/policy"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

type CatalogService struct {
	products port.ProductRepository
	tx       port.Transactor
	cache    port.ProductCache
	currency currency.Unit
	logger   *zap.Logger
	tracer   trace.Tracer
}

func NewCatalogService(
	products port.ProductRepository,
	tx port.Transactor,
	cache port.ProductCache,
	storeCurrency currency.Unit,
	logger *zap.Logger,
) *CatalogService {
	return &CatalogService{
		products: products,
		tx:       tx,
		cache:    cache,
		currency: storeCurrency,
		logger:   logger,
		tracer:   otel.Tracer("service/catalog"),
	}
}

func (s *CatalogService) StoreCurrency() currency.Unit {
	return s.currency
}

// CreateProduct lists a product owned by the caller.
func (s *CatalogService) CreateProduct(ctx context.Context, principal domain.Principal, product domain.Product) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.CreateProduct")
	defer span.End()

	if !policy.CanCreateProduct(principal) {
		return domain.Product{}, domain.ErrForbidden
	}

	if product.Price.Currency != s.currency {
		return domain.Product{}, fmt.Errorf("price currency %s, store currency %s: %w", product.Price.Currency, s.currency, domain.ErrInvalidInput)
	}

	product.OwnerID = principal.ID

	created, err := s.products.CreateProduct(ctx, product)
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.products.CreateProduct: %w", err)
	}

	logging.Info(ctx, s.logger, "product created",
		zap.String("product_id", created.ID.String()),
		zap.String("owner_id", created.OwnerID.String()),
	)

	return created, nil
}

// GetProduct hides inactive products from everyone but their owner and admins.
func (s *CatalogService) GetProduct(ctx context.Context, principal domain.Principal, productID uuid.UUID) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product_id", productID.String()))

	product, found := s.cache.Get(ctx, productID)
	span.SetAttributes(attribute.Bool("cache_hit", found))

	if !found {
		var err error
		product, err = s.products.GetProduct(ctx, productID)
		if err != nil {
			return domain.Product{}, fmt.Errorf("s.products.GetProduct: %w", err)
		}

		s.cache.Set(ctx, product)
	}

	if !product.Active && !policy.CanManageProduct(principal, product) {
		return domain.Product{}, fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
	}

	return product, nil
}

// ListProducts shows inactive products to admins only.
func (s *CatalogService) ListProducts(ctx context.Context, principal domain.Principal, filter domain.ProductFilter) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListProducts")
	defer span.End()

	if !principal.IsAdmin() {
		filter.Active = lo.ToPtr(true)
	}

	products, err := s.products.SearchProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.products.SearchProducts: %w", err)
	}

	return products, nil
}

func (s *CatalogService) ListMyProducts(ctx context.Context, principal domain.Principal, page domain.Page) ([]domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.ListMyProducts")
	defer span.End()

	if !policy.CanCreateProduct(principal) {
		return nil, domain.ErrForbidden
	}

	products, err := s.products.SearchProducts(ctx, domain.ProductFilter{
		OwnerIDs: []uuid.UUID{principal.ID},
		Page:     page,
	})
	if err != nil {
		return nil, fmt.Errorf("s.products.SearchProducts: %w", err)
	}

	return products, nil
}

// UpdateProduct checks existence and ownership on the locked row and patches it in the same transaction.
func (s *CatalogService) UpdateProduct(ctx context.Context, principal domain.Principal, productID uuid.UUID, update domain.ProductUpdate) (domain.Product, error) {
	ctx, span := s.tracer.Start(ctx, "CatalogService.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product_id", productID.String()))

	if principal.IsZero() {
		return domain.Product{}, domain.ErrUnauthenticated
	}

	if err := update.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("update.Validate: %w", err)
	}

	if update.Price != nil && update.Price.Currency != s.currency {
		return domain.Product{}, fmt.Errorf("price currency %s, store currency %s: %w", update.Price.Currency, s.currency, domain.ErrInvalidInput)
	}

	var updated domain.Product

	err := s.tx.WithinTx(ctx, func(ctx context.Context, stores port.Stores) error {
		locked, err := stores.Products.LockProducts(ctx, []uuid.UUID{productID})
		if err != nil {
			return fmt.Errorf("stores.Products.LockProducts: %w", err)
		}

		product, ok := locked[productID]
		if !ok {
			return fmt.Errorf("product %s: %w", productID, domain.ErrNotFound)
		}

		if !policy.CanManageProduct(principal, product) {
			return domain.ErrForbidden
		}

		updated, err = stores.Products.UpdateProduct(ctx, productID, update)
		if err != nil {
			return fmt.Errorf("stores.Products.UpdateProduct: %w", err)
		}

		return nil
	})
	if err != nil {
		return domain.Product{}, fmt.Errorf("s.tx.WithinTx: %w", err)
	}

	s.cache.Invalidate(ctx, productID)

	logging.Info(ctx, s.logger, "product updated",
		zap.String("product_id", productID.String()),
		zap.String("user_id", principal.ID.String()),
	)

	return updated, nil
}

// DeactivateProduct hides the product from buyers. Rows are kept so past orders still resolve.
func (s *CatalogService) DeactivateProduct(ctx context.Context, principal domain.Principal, productID uuid.UUID) (domain.Product, error) {
	return s.UpdateProduct(ctx, principal, productID, domain.ProductUpdate{Active: lo.ToPtr(false)})
}
