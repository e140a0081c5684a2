// Package cache keeps recently read products in redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/nikolayk812/marketplace/internal/metrics"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// invalidationFence is how long Set is refused after an Invalidate, so a row read
// before the invalidating commit can not be written back.
const invalidationFence = 5 * time.Second

var setUnlessFencedScript = redis.NewScript(`
if redis.call('EXISTS', KEYS[2]) == 1 then
	return 0
end

redis.call('SET', KEYS[1], ARGV[1], 'PX', ARGV[2])
return 1
`)

type productCache struct {
	client  redis.UniversalClient
	ttl     time.Duration
	cb      *gobreaker.CircuitBreaker
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// NewProductCache wraps every redis call in a circuit breaker. Failures are logged and
// reported as cache misses.
func NewProductCache(client redis.UniversalClient, ttl time.Duration, logger *zap.Logger, m *metrics.Metrics) port.ProductCache {
	settings := gobreaker.Settings{
		Name:        "ProductCache",
		MaxRequests: 3,
		Interval:    5 * time.Second,
		Timeout:     10 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, redis.Nil)
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logger.Warn(
				"Circuit breaker state changed",
				zap.String("name", name),
				zap.String("from", from.String()),
				zap.String("to", to.String()),
			)
		},
	}

	return &productCache{
		client:  client,
		ttl:     ttl,
		cb:      gobreaker.NewCircuitBreaker(settings),
		logger:  logger,
		metrics: m,
	}
}

func (c *productCache) Get(ctx context.Context, productID uuid.UUID) (domain.Product, bool) {
	val, err := executeWithBreaker(c.cb, func() ([]byte, error) {
		return c.client.Get(ctx, productKey(productID)).Bytes()
	})
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.metrics.ObserveCache("miss")
		} else {
			c.metrics.ObserveCache("error")
			logging.Warn(ctx, c.logger, "product cache get failed", zap.String("product_id", productID.String()), zap.Error(err))
		}
		return domain.Product{}, false
	}

	var cached cachedProduct
	if err := json.Unmarshal(val, &cached); err != nil {
		c.metrics.ObserveCache("error")
		logging.Warn(ctx, c.logger, "product cache entry is corrupted", zap.String("product_id", productID.String()), zap.Error(err))
		return domain.Product{}, false
	}

	product, err := cached.toDomain()
	if err != nil {
		c.metrics.ObserveCache("error")
		logging.Warn(ctx, c.logger, "product cache entry is invalid", zap.String("product_id", productID.String()), zap.Error(err))
		return domain.Product{}, false
	}

	c.metrics.ObserveCache("hit")
	return product, true
}

func (c *productCache) Set(ctx context.Context, product domain.Product) {
	data, err := json.Marshal(fromDomain(product))
	if err != nil {
		logging.Warn(ctx, c.logger, "product cache marshal failed", zap.String("product_id", product.ID.String()), zap.Error(err))
		return
	}

	stored, err := executeWithBreaker(c.cb, func() (int64, error) {
		keys := []string{productKey(product.ID), fenceKey(product.ID)}
		return setUnlessFencedScript.Run(ctx, c.client, keys, data, c.ttl.Milliseconds()).Int64()
	})
	if err != nil {
		logging.Warn(ctx, c.logger, "product cache set failed", zap.String("product_id", product.ID.String()), zap.Error(err))
		return
	}

	if stored == 0 {
		logging.Debug(ctx, c.logger, "product cache set skipped, recently invalidated", zap.String("product_id", product.ID.String()))
	}
}

func (c *productCache) Invalidate(ctx context.Context, productIDs ...uuid.UUID) {
	if len(productIDs) == 0 {
		return
	}

	keys := make([]string, 0, len(productIDs))
	for _, id := range productIDs {
		keys = append(keys, productKey(id))
	}

	if _, err := executeWithBreaker(c.cb, func() ([]redis.Cmder, error) {
		return c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Del(ctx, keys...)
			for _, id := range productIDs {
				pipe.Set(ctx, fenceKey(id), 1, invalidationFence)
			}
			return nil
		})
	}); err != nil {
		logging.Warn(ctx, c.logger, "product cache invalidate failed", zap.Strings("keys", keys), zap.Error(err))
	}
}

// Both keys of a product share a hash slot, the set script touches them together.
func productKey(id uuid.UUID) string {
	return fmt.Sprintf("product:{%s}", id)
}

func fenceKey(id uuid.UUID) string {
	return fmt.Sprintf("product:{%s}:fence", id)
}

func executeWithBreaker[T any](cb *gobreaker.CircuitBreaker, fn func() (T, error)) (T, error) {
	res, err := cb.Execute(func() (interface{}, error) {
		return fn()
	})

	if err != nil {
		return *new(T), err
	}

	return res.(T), nil
}

type cachedProduct struct {
	ID            uuid.UUID `json:"id"`
	OwnerID       uuid.UUID `json:"owner_id"`
	Name          string    `json:"name"`
	Description   string    `json:"description"`
	PriceAmount   string    `json:"price_amount"`
	PriceCurrency string    `json:"price_currency"`
	StockQuantity int64     `json:"stock_quantity"`
	Active        bool      `json:"active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

func fromDomain(p domain.Product) cachedProduct {
	return cachedProduct{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Name:          p.Name,
		Description:   p.Description,
		PriceAmount:   p.Price.Amount.String(),
		PriceCurrency: p.Price.Currency.String(),
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

func (c cachedProduct) toDomain() (domain.Product, error) {
	amount, err := decimal.NewFromString(c.PriceAmount)
	if err != nil {
		return domain.Product{}, fmt.Errorf("decimal.NewFromString[%s]: %w", c.PriceAmount, err)
	}

	unit, err := currency.ParseISO(c.PriceCurrency)
	if err != nil {
		return domain.Product{}, fmt.Errorf("currency[%s] is not valid: %w", c.PriceCurrency, err)
	}

	return domain.Product{
		ID:            c.ID,
		OwnerID:       c.OwnerID,
		Name:          c.Name,
		Description:   c.Description,
		Price:         domain.Money{Amount: amount, Currency: unit},
		StockQuantity: c.StockQuantity,
		Active:        c.Active,
		CreatedAt:     c.CreatedAt,
		UpdatedAt:     c.UpdatedAt,
	}, nil
}
