package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/nikolayk812/marketplace/internal/metrics"
	"github.com/nikolayk812/marketplace/internal/policy"
	"github.com/nikolayk812/marketplace/internal/port"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type OrderService struct {
	tx                port.Transactor
	orders            port.OrderRepository
	cache             port.ProductCache
	logger            *zap.Logger
	metrics           *metrics.Metrics
	tracer            trace.Tracer
	strictTransitions bool
}

// NewOrderService builds the order workflow. With strictTransitions false any known
// status may replace any other.
func NewOrderService(
	tx port.Transactor,
	orders port.OrderRepository,
	cache port.ProductCache,
	logger *zap.Logger,
	m *metrics.Metrics,
	strictTransitions bool,
) *OrderService {
	return &OrderService{
		tx:                tx,
		orders:            orders,
		cache:             cache,
		logger:            logger,
		metrics:           m,
		tracer:            otel.Tracer("service/order"),
		strictTransitions: strictTransitions,
	}
}

// PlaceOrder validates the whole cart against locked product rows and then writes the
// order, its lines, one sale per line and the stock decrements in the same transaction.
func (s *OrderService) PlaceOrder(ctx context.Context, principal domain.Principal, cart domain.Cart) (_ domain.Order, err error) {
	started := time.Now()

	ctx, span := s.tracer.Start(ctx, "OrderService.PlaceOrder")
	defer span.End()

	span.SetAttributes(
		attribute.String("user_id", principal.ID.String()),
		attribute.Int("lines", len(cart.Lines)),
	)

	var units int64
	defer func() {
		s.metrics.ObservePlaceOrder(domain.ErrorCode(err), started, units)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, domain.ErrorCode(err))
		}
	}()

	if principal.IsZero() {
		return domain.Order{}, domain.ErrUnauthenticated
	}

	if err := cart.Validate(); err != nil {
		return domain.Order{}, fmt.Errorf("cart.Validate: %w", err)
	}

	productIDs := cart.ProductIDs()
	quantities := cart.Quantities()

	var placed domain.Order

	err = s.tx.WithinTx(ctx, func(ctx context.Context, stores port.Stores) error {
		// rows are locked in id order so concurrent carts can not deadlock
		products, err := stores.Products.LockProducts(ctx, productIDs)
		if err != nil {
			return fmt.Errorf("stores.Products.LockProducts: %w", err)
		}

		order, err := domain.NewOrder(principal.ID, cart, products)
		if err != nil {
			return fmt.Errorf("domain.NewOrder: %w", err)
		}

		placed, err = stores.Orders.InsertOrder(ctx, order)
		if err != nil {
			return fmt.Errorf("stores.Orders.InsertOrder: %w", err)
		}

		for _, productID := range productIDs {
			if err := stores.Products.DecrementStock(ctx, productID, quantities[productID]); err != nil {
				return fmt.Errorf("stores.Products.DecrementStock: %w", err)
			}
		}

		return nil
	})
	if err != nil {
		logFailure(ctx, s.logger, "place order failed", err, zap.String("user_id", principal.ID.String()))
		return domain.Order{}, fmt.Errorf("s.tx.WithinTx: %w", err)
	}

	for _, q := range quantities {
		units += q
	}

	s.cache.Invalidate(ctx, productIDs...)

	logging.Info(ctx, s.logger, "order placed",
		zap.String("order_id", placed.ID.String()),
		zap.String("user_id", principal.ID.String()),
		zap.String("total", placed.Total.String()),
		zap.Int("lines", len(placed.Lines)),
	)

	return placed, nil
}

func (s *OrderService) ListMyOrders(ctx context.Context, principal domain.Principal, page domain.Page) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListMyOrders")
	defer span.End()

	if principal.IsZero() {
		return nil, domain.ErrUnauthenticated
	}

	orders, err := s.orders.SearchOrders(ctx, domain.OrderFilter{
		OwnerIDs: []uuid.UUID{principal.ID},
		Page:     page,
	})
	if err != nil {
		return nil, fmt.Errorf("s.orders.SearchOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) ListAllOrders(ctx context.Context, principal domain.Principal, filter domain.OrderFilter) ([]domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.ListAllOrders")
	defer span.End()

	if !policy.CanListAllOrders(principal) {
		return nil, domain.ErrForbidden
	}

	orders, err := s.orders.SearchOrders(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.orders.SearchOrders: %w", err)
	}

	return orders, nil
}

func (s *OrderService) GetOrder(ctx context.Context, principal domain.Principal, orderID uuid.UUID) (domain.Order, error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.GetOrder")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", orderID.String()))

	if principal.IsZero() {
		return domain.Order{}, domain.ErrUnauthenticated
	}

	order, err := s.orders.GetOrder(ctx, orderID)
	if err != nil {
		return domain.Order{}, fmt.Errorf("s.orders.GetOrder: %w", err)
	}

	if !policy.CanViewOrder(principal, order) {
		return domain.Order{}, domain.ErrForbidden
	}

	return order, nil
}

// UpdateOrderStatus moves the order and all of its sales to the new status together.
func (s *OrderService) UpdateOrderStatus(ctx context.Context, principal domain.Principal, orderID uuid.UUID, newStatus string) (_ domain.Order, err error) {
	ctx, span := s.tracer.Start(ctx, "OrderService.UpdateOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", orderID.String()),
		attribute.String("status", newStatus),
	)

	defer func() {
		s.metrics.ObserveStatusUpdate(newStatus, domain.ErrorCode(err))
		if err != nil {
			span.RecordError(err)
		}
	}()

	if !policy.CanUpdateOrderStatus(principal) {
		return domain.Order{}, domain.ErrForbidden
	}

	status, err := domain.ToOrderStatus(newStatus)
	if err != nil {
		return domain.Order{}, fmt.Errorf("domain.ToOrderStatus: %w", err)
	}

	var updated domain.Order

	err = s.tx.WithinTx(ctx, func(ctx context.Context, stores port.Stores) error {
		current, err := stores.Orders.LockOrderStatus(ctx, orderID)
		if err != nil {
			return fmt.Errorf("stores.Orders.LockOrderStatus: %w", err)
		}

		if s.strictTransitions && !current.CanTransitionTo(status) {
			return fmt.Errorf("%s -> %s: %w", current, status, domain.ErrInvalidTransition)
		}

		if current != status {
			if err := stores.Orders.UpdateOrderStatus(ctx, orderID, status); err != nil {
				return fmt.Errorf("stores.Orders.UpdateOrderStatus: %w", err)
			}
		}

		updated, err = stores.Orders.GetOrder(ctx, orderID)
		if err != nil {
			return fmt.Errorf("stores.Orders.GetOrder: %w", err)
		}

		return nil
	})
	if err != nil {
		logFailure(ctx, s.logger, "update order status failed", err,
			zap.String("order_id", orderID.String()),
			zap.String("status", newStatus),
		)
		return domain.Order{}, fmt.Errorf("s.tx.WithinTx: %w", err)
	}

	logging.Info(ctx, s.logger, "order status updated",
		zap.String("order_id", orderID.String()),
		zap.String("status", string(status)),
		zap.String("admin_id", principal.ID.String()),
	)

	return updated, nil
}

// logFailure logs caller mistakes at warn level and everything else at error level.
func logFailure(ctx context.Context, logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	fields = append(fields, zap.String("code", domain.ErrorCode(err)), zap.Error(err))

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		fields = append(fields, zap.String("product_id", stockErr.ProductID.String()), zap.Int64("available", stockErr.Available))
	}

	if domain.ErrorCode(err) == "internal" {
		logging.Error(ctx, logger, msg, fields...)
		return
	}

	logging.Warn(ctx, logger, msg, fields...)
}
