package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/marketplace/internal/db"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/currency"
)

var ErrProductNotFound = fmt.Errorf("product %w", domain.ErrNotFound)

type productRepository struct {
	q      *db.Queries
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func NewProduct(pool *pgxpool.Pool) port.ProductRepository {
	return &productRepository{
		q:      db.New(pool),
		pool:   pool,
		tracer: otel.Tracer("repository/product"),
	}
}

func NewProductWithTx(tx pgx.Tx) port.ProductRepository {
	return &productRepository{
		q:      db.New(tx),
		pool:   nil, // use provided transaction instead
		tracer: otel.Tracer("repository/product"),
	}
}

func (r *productRepository) CreateProduct(ctx context.Context, product domain.Product) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.CreateProduct")
	defer span.End()

	if err := product.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("product.Validate: %w", err)
	}

	dbProduct, err := r.q.InsertProduct(ctx, db.InsertProductParams{
		OwnerID:       product.OwnerID,
		Name:          product.Name,
		Description:   product.Description,
		PriceAmount:   product.Price.Amount,
		PriceCurrency: product.Price.Currency.String(),
		StockQuantity: product.StockQuantity,
		Active:        product.Active,
	})
	if err != nil {
		span.RecordError(err)
		return domain.Product{}, fmt.Errorf("q.InsertProduct: %w", err)
	}

	return mapDBProductToDomain(dbProduct)
}

func (r *productRepository) GetProduct(ctx context.Context, productID uuid.UUID) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.GetProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product_id", productID.String()))

	dbProduct, err := r.q.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("q.GetProduct: %w", ErrProductNotFound)
		}
		span.RecordError(err)
		return domain.Product{}, fmt.Errorf("q.GetProduct: %w", err)
	}

	return mapDBProductToDomain(dbProduct)
}

func (r *productRepository) SearchProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.SearchProducts")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	limit, offset := filter.Page.LimitOffset()

	var namePattern *string
	if q := strings.TrimSpace(filter.NameQuery); q != "" {
		namePattern = lo.ToPtr("%" + escapeLike(q) + "%")
	}

	dbProducts, err := r.q.SearchProducts(ctx, db.SearchProductsParams{
		OwnerIds:    nilSliceIfEmpty(filter.OwnerIDs),
		Active:      filter.Active,
		NamePattern: namePattern,
		RowLimit:    limit,
		RowOffset:   offset,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("q.SearchProducts: %w", err)
	}

	return mapDBProductsToDomain(dbProducts)
}

func (r *productRepository) LockProducts(ctx context.Context, productIDs []uuid.UUID) (map[uuid.UUID]domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.LockProducts")
	defer span.End()

	span.SetAttributes(attribute.Int("products", len(productIDs)))

	if len(productIDs) == 0 {
		return map[uuid.UUID]domain.Product{}, nil
	}

	dbProducts, err := r.q.LockProducts(ctx, productIDs)
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("q.LockProducts: %w", err)
	}

	products, err := mapDBProductsToDomain(dbProducts)
	if err != nil {
		return nil, fmt.Errorf("mapDBProductsToDomain: %w", err)
	}

	return lo.KeyBy(products, func(p domain.Product) uuid.UUID {
		return p.ID
	}), nil
}

func (r *productRepository) DecrementStock(ctx context.Context, productID uuid.UUID, quantity int64) error {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.DecrementStock")
	defer span.End()

	span.SetAttributes(
		attribute.String("product_id", productID.String()),
		attribute.Int64("quantity", quantity),
	)

	if quantity <= 0 {
		return fmt.Errorf("quantity %d must be positive: %w", quantity, domain.ErrInvalidInput)
	}

	rowsAffected, err := r.q.DecrementStock(ctx, db.DecrementStockParams{
		Quantity: quantity,
		ID:       productID,
	})
	if err != nil {
		span.RecordError(err)
		return fmt.Errorf("q.DecrementStock: %w", err)
	}

	if rowsAffected == 0 {
		return fmt.Errorf("q.DecrementStock: product %s: %w", productID, domain.ErrConflict)
	}

	return nil
}

func (r *productRepository) UpdateProduct(ctx context.Context, productID uuid.UUID, update domain.ProductUpdate) (domain.Product, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.UpdateProduct")
	defer span.End()

	span.SetAttributes(attribute.String("product_id", productID.String()))

	if err := update.Validate(); err != nil {
		return domain.Product{}, fmt.Errorf("update.Validate: %w", err)
	}

	arg := db.UpdateProductParams{
		Name:          update.Name,
		Description:   update.Description,
		StockQuantity: update.StockQuantity,
		Active:        update.Active,
		ID:            productID,
	}
	if update.Price != nil {
		arg.PriceAmount = decimal.NewNullDecimal(update.Price.Amount)
	}

	dbProduct, err := r.q.UpdateProduct(ctx, arg)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Product{}, fmt.Errorf("q.UpdateProduct: %w", ErrProductNotFound)
		}
		span.RecordError(err)
		return domain.Product{}, fmt.Errorf("q.UpdateProduct: %w", err)
	}

	return mapDBProductToDomain(dbProduct)
}

func (r *productRepository) CountActiveProducts(ctx context.Context, ownerID uuid.UUID) (int64, error) {
	ctx, span := r.tracer.Start(ctx, "ProductRepository.CountActiveProducts")
	defer span.End()

	count, err := r.q.CountActiveProducts(ctx, ownerID)
	if err != nil {
		span.RecordError(err)
		return 0, fmt.Errorf("q.CountActiveProducts: %w", err)
	}

	return count, nil
}

func mapDBProductToDomain(row db.Product) (domain.Product, error) {
	price, err := toMoney(row.PriceAmount, row.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("toMoney: %w", err)
	}

	return domain.Product{
		ID:            row.ID,
		OwnerID:       row.OwnerID,
		Name:          row.Name,
		Description:   row.Description,
		Price:         price,
		StockQuantity: row.StockQuantity,
		Active:        row.Active,
		CreatedAt:     row.CreatedAt,
		UpdatedAt:     row.UpdatedAt,
	}, nil
}

func mapDBProductsToDomain(rows []db.Product) ([]domain.Product, error) {
	products := make([]domain.Product, 0, len(rows))

	for _, row := range rows {
		product, err := mapDBProductToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapDBProductToDomain: %w", err)
		}
		products = append(products, product)
	}

	return products, nil
}

func toMoney(amount decimal.Decimal, code string) (domain.Money, error) {
	parsedCurrency, err := currency.ParseISO(code)
	if err != nil {
		return domain.Money{}, fmt.Errorf("currency[%s] is not valid: %w", code, err)
	}

	return domain.Money{Amount: amount, Currency: parsedCurrency}, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
