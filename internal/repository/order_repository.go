package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/marketplace/internal/db"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"github.com/samber/lo"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

var ErrOrderNotFound = fmt.Errorf("order %w", domain.ErrNotFound)

type orderRepository struct {
	q      *db.Queries
	pool   *pgxpool.Pool
	tracer trace.Tracer
}

func NewOrder(pool *pgxpool.Pool) port.OrderRepository {
	return &orderRepository{
		q:      db.New(pool),
		pool:   pool,
		tracer: otel.Tracer("repository/order"),
	}
}

func NewOrderWithTx(tx pgx.Tx) port.OrderRepository {
	return &orderRepository{
		q:      db.New(tx),
		pool:   nil, // use provided transaction instead
		tracer: otel.Tracer("repository/order"),
	}
}

func (r *orderRepository) InsertOrder(ctx context.Context, order domain.Order) (domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.InsertOrder")
	defer span.End()

	if len(order.Lines) == 0 {
		return domain.Order{}, fmt.Errorf("no lines in order: %w", domain.ErrInvalidInput)
	}

	if order.OwnerID == uuid.Nil {
		return domain.Order{}, fmt.Errorf("owner id is empty: %w", domain.ErrInvalidInput)
	}

	if order.Status == "" {
		order.Status = domain.OrderStatusPending
	}

	span.SetAttributes(attribute.Int("lines", len(order.Lines)))

	inserted, err := r.withTxOrder(ctx, func(q *db.Queries) (domain.Order, error) {
		header, err := q.InsertOrder(ctx, db.InsertOrderParams{
			OwnerID:     order.OwnerID,
			TotalAmount: order.Total.Amount,
			Currency:    order.Total.Currency.String(),
			Status:      string(order.Status),
		})
		if err != nil {
			return domain.Order{}, fmt.Errorf("q.InsertOrder: %w", err)
		}

		result := order
		result.ID = header.ID
		result.CreatedAt = header.CreatedAt
		result.UpdatedAt = header.UpdatedAt
		result.Lines = make([]domain.OrderLine, 0, len(order.Lines))

		// TODO: batch lines and sales with pgx.Batch once the order size grows
		for i, line := range order.Lines {
			lineID, err := q.InsertOrderLine(ctx, db.InsertOrderLineParams{
				OrderID:         header.ID,
				Position:        int32(i),
				ProductID:       line.ProductID,
				SellerID:        line.SellerID,
				Quantity:        line.Quantity,
				UnitPriceAmount: line.UnitPrice.Amount,
				SubtotalAmount:  line.Subtotal.Amount,
				Currency:        line.UnitPrice.Currency.String(),
			})
			if err != nil {
				return domain.Order{}, fmt.Errorf("q.InsertOrderLine: %w", err)
			}

			line.ID = lineID
			line.OrderID = header.ID
			result.Lines = append(result.Lines, line)
		}

		for _, sale := range result.Sales() {
			if _, err := q.InsertSale(ctx, db.InsertSaleParams{
				SellerID:        sale.SellerID,
				OrderID:         sale.OrderID,
				OrderLineID:     sale.OrderLineID,
				ProductID:       sale.ProductID,
				Quantity:        sale.Quantity,
				UnitPriceAmount: sale.UnitPrice.Amount,
				TotalAmount:     sale.Total.Amount,
				Currency:        sale.Total.Currency.String(),
				Status:          string(sale.Status),
			}); err != nil {
				return domain.Order{}, fmt.Errorf("q.InsertSale: %w", err)
			}
		}

		return result, nil
	})
	if err != nil {
		span.RecordError(err)
		return domain.Order{}, fmt.Errorf("r.withTxOrder: %w", err)
	}

	return inserted, nil
}

func (r *orderRepository) GetOrder(ctx context.Context, orderID uuid.UUID) (domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.GetOrder")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", orderID.String()))

	var o domain.Order

	order, err := r.withTxOrder(ctx, func(q *db.Queries) (domain.Order, error) {
		dbOrder, err := q.GetOrder(ctx, orderID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return o, fmt.Errorf("q.GetOrder: %w", ErrOrderNotFound)
			}
			return o, fmt.Errorf("q.GetOrder: %w", err)
		}

		dbOrderLines, err := q.GetOrderLines(ctx, []uuid.UUID{orderID})
		if err != nil {
			return o, fmt.Errorf("q.GetOrderLines: %w", err)
		}

		domainOrder, err := mapDBOrderToDomain(dbOrder, dbOrderLines)
		if err != nil {
			return o, fmt.Errorf("mapDBOrderToDomain: %w", err)
		}

		return domainOrder, nil
	})
	if err != nil {
		return o, fmt.Errorf("r.withTxOrder: %w", err)
	}

	return order, nil
}

func mapDomainOrderFilterToDBFilter(filter domain.OrderFilter) db.SearchOrdersParams {
	limit, offset := filter.Page.LimitOffset()

	params := db.SearchOrdersParams{
		Ids:       nilSliceIfEmpty(filter.IDs),
		OwnerIds:  nilSliceIfEmpty(filter.OwnerIDs),
		Statuses:  nilSliceIfEmpty(statusesToStrings(filter.Statuses)),
		RowLimit:  limit,
		RowOffset: offset,
	}

	if filter.CreatedAt != nil {
		params.CreatedAfter = filter.CreatedAt.After
		params.CreatedBefore = filter.CreatedAt.Before
	}

	return params
}

func (r *orderRepository) SearchOrders(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.SearchOrders")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	orders, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) ([]domain.Order, error) {
		dbOrders, err := q.SearchOrders(ctx, mapDomainOrderFilterToDBFilter(filter))
		if err != nil {
			return nil, fmt.Errorf("q.SearchOrders: %w", err)
		}

		if len(dbOrders) == 0 {
			return []domain.Order{}, nil
		}

		orderIDs := lo.Map(dbOrders, func(o db.Order, _ int) uuid.UUID {
			return o.ID
		})

		dbOrderLines, err := q.GetOrderLines(ctx, orderIDs)
		if err != nil {
			return nil, fmt.Errorf("q.GetOrderLines: %w", err)
		}

		linesByOrder := lo.GroupBy(dbOrderLines, func(l db.GetOrderLinesRow) uuid.UUID {
			return l.OrderID
		})

		result := make([]domain.Order, 0, len(dbOrders))
		for _, dbOrder := range dbOrders {
			order, err := mapDBOrderToDomain(dbOrder, linesByOrder[dbOrder.ID])
			if err != nil {
				return nil, fmt.Errorf("mapDBOrderToDomain: %w", err)
			}
			result = append(result, order)
		}

		return result, nil
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("withTx: %w", err)
	}

	return orders, nil
}

func (r *orderRepository) LockOrderStatus(ctx context.Context, orderID uuid.UUID) (domain.OrderStatus, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.LockOrderStatus")
	defer span.End()

	span.SetAttributes(attribute.String("order_id", orderID.String()))

	status, err := r.q.LockOrderStatus(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", fmt.Errorf("q.LockOrderStatus: %w", ErrOrderNotFound)
		}
		span.RecordError(err)
		return "", fmt.Errorf("q.LockOrderStatus: %w", err)
	}

	domainStatus, err := domain.ToOrderStatus(status)
	if err != nil {
		return "", fmt.Errorf("domain.ToOrderStatus[%s]: %w", status, err)
	}

	return domainStatus, nil
}

func (r *orderRepository) UpdateOrderStatus(ctx context.Context, orderID uuid.UUID, status domain.OrderStatus) error {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.UpdateOrderStatus")
	defer span.End()

	span.SetAttributes(
		attribute.String("order_id", orderID.String()),
		attribute.String("status", string(status)),
	)

	if orderID == uuid.Nil {
		return fmt.Errorf("orderID is empty: %w", domain.ErrInvalidInput)
	}

	if err := r.withTx(ctx, func(q *db.Queries) error {
		rowsAffected, err := q.UpdateOrderStatus(ctx, db.UpdateOrderStatusParams{
			Status: string(status),
			ID:     orderID,
		})
		if err != nil {
			return fmt.Errorf("q.UpdateOrderStatus: %w", err)
		}

		if rowsAffected == 0 {
			return fmt.Errorf("q.UpdateOrderStatus: %w", ErrOrderNotFound)
		}

		// sales follow their order, there is no cascade in the schema
		if _, err := q.UpdateSalesStatusByOrder(ctx, db.UpdateSalesStatusByOrderParams{
			Status:  string(status),
			OrderID: orderID,
		}); err != nil {
			return fmt.Errorf("q.UpdateSalesStatusByOrder: %w", err)
		}

		return nil
	}); err != nil {
		span.RecordError(err)
		return fmt.Errorf("r.withTx: %w", err)
	}

	return nil
}

func (r *orderRepository) SearchSales(ctx context.Context, filter domain.SaleFilter) ([]domain.Sale, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.SearchSales")
	defer span.End()

	if err := filter.Validate(); err != nil {
		return nil, fmt.Errorf("filter.Validate: %w", err)
	}

	limit, offset := filter.Page.LimitOffset()

	rows, err := r.q.SearchSales(ctx, db.SearchSalesParams{
		SellerIds: nilSliceIfEmpty(filter.SellerIDs),
		OrderIds:  nilSliceIfEmpty(filter.OrderIDs),
		Statuses:  nilSliceIfEmpty(statusesToStrings(filter.Statuses)),
		RowLimit:  limit,
		RowOffset: offset,
	})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("q.SearchSales: %w", err)
	}

	sales := make([]domain.Sale, 0, len(rows))
	for _, row := range rows {
		sale, err := mapSearchSalesRowToDomain(row)
		if err != nil {
			return nil, fmt.Errorf("mapSearchSalesRowToDomain: %w", err)
		}
		sales = append(sales, sale)
	}

	return sales, nil
}

func (r *orderRepository) SellerSalesSummary(ctx context.Context, sellerID uuid.UUID) (domain.SalesSummary, error) {
	ctx, span := r.tracer.Start(ctx, "OrderRepository.SellerSalesSummary")
	defer span.End()

	span.SetAttributes(attribute.String("seller_id", sellerID.String()))

	row, err := r.q.GetSellerSalesSummary(ctx, sellerID)
	if err != nil {
		span.RecordError(err)
		return domain.SalesSummary{}, fmt.Errorf("q.GetSellerSalesSummary: %w", err)
	}

	return domain.SalesSummary{
		Revenue:        row.TotalRevenue,
		UnitsSold:      row.UnitsSold,
		PendingSales:   row.PendingSales,
		DeliveredSales: row.DeliveredSales,
	}, nil
}

func (r *orderRepository) withTx(ctx context.Context, fn func(q *db.Queries) error) error {
	_, err := withTx(ctx, r.pool, r.q, func(q *db.Queries) (struct{}, error) {
		err := fn(q)
		return struct{}{}, err
	})
	return err
}

func (r *orderRepository) withTxOrder(ctx context.Context, fn func(q *db.Queries) (domain.Order, error)) (domain.Order, error) {
	return withTx(ctx, r.pool, r.q, fn)
}

func mapDBOrderToDomain(dbOrder db.Order, dbOrderLines []db.GetOrderLinesRow) (domain.Order, error) {
	var o domain.Order

	total, err := toMoney(dbOrder.TotalAmount, dbOrder.Currency)
	if err != nil {
		return o, fmt.Errorf("toMoney: %w", err)
	}

	status, err := domain.ToOrderStatus(dbOrder.Status)
	if err != nil {
		return o, fmt.Errorf("domain.ToOrderStatus[%s]: %w", dbOrder.Status, err)
	}

	lines := make([]domain.OrderLine, 0, len(dbOrderLines))
	for _, row := range dbOrderLines {
		line, err := mapGetOrderLinesRowToDomain(row)
		if err != nil {
			return o, fmt.Errorf("mapGetOrderLinesRowToDomain: %w", err)
		}
		lines = append(lines, line)
	}

	return domain.Order{
		ID:        dbOrder.ID,
		OwnerID:   dbOrder.OwnerID,
		Total:     total,
		Status:    status,
		Lines:     lines,
		CreatedAt: dbOrder.CreatedAt,
		UpdatedAt: dbOrder.UpdatedAt,
	}, nil
}

func mapGetOrderLinesRowToDomain(row db.GetOrderLinesRow) (domain.OrderLine, error) {
	unitPrice, err := toMoney(row.UnitPriceAmount, row.Currency)
	if err != nil {
		return domain.OrderLine{}, fmt.Errorf("toMoney: %w", err)
	}

	return domain.OrderLine{
		ID:          row.ID,
		OrderID:     row.OrderID,
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		SellerID:    row.SellerID,
		Quantity:    row.Quantity,
		UnitPrice:   unitPrice,
		Subtotal:    domain.Money{Amount: row.SubtotalAmount, Currency: unitPrice.Currency},
	}, nil
}

func mapSearchSalesRowToDomain(row db.SearchSalesRow) (domain.Sale, error) {
	unitPrice, err := toMoney(row.UnitPriceAmount, row.Currency)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("toMoney: %w", err)
	}

	status, err := domain.ToOrderStatus(row.Status)
	if err != nil {
		return domain.Sale{}, fmt.Errorf("domain.ToOrderStatus[%s]: %w", row.Status, err)
	}

	return domain.Sale{
		ID:          row.ID,
		SellerID:    row.SellerID,
		OrderID:     row.OrderID,
		OrderLineID: row.OrderLineID,
		ProductID:   row.ProductID,
		ProductName: row.ProductName,
		CustomerID:  row.CustomerID,
		Quantity:    row.Quantity,
		UnitPrice:   unitPrice,
		Total:       domain.Money{Amount: row.TotalAmount, Currency: unitPrice.Currency},
		Status:      status,
		CreatedAt:   row.CreatedAt,
		UpdatedAt:   row.UpdatedAt,
	}, nil
}

func statusesToStrings(statuses []domain.OrderStatus) []string {
	return lo.Map(statuses, func(s domain.OrderStatus, _ int) string {
		return string(s)
	})
}
