package domain

import (
	"fmt"
	"math"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// MaxOrderAmount is the largest total or line subtotal the ledger can store.
var MaxOrderAmount = decimal.RequireFromString("999999999999.99")

type Order struct {
	ID      uuid.UUID
	OwnerID uuid.UUID
	Total   Money
	Status  OrderStatus
	Lines   []OrderLine

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderLine keeps the unit price the product had when the order was placed.
type OrderLine struct {
	ID          uuid.UUID
	OrderID     uuid.UUID
	ProductID   uuid.UUID
	ProductName string
	SellerID    uuid.UUID
	Quantity    int64
	UnitPrice   Money
	Subtotal    Money
}

// NewOrder validates every cart line against the locked products and prices the order.
// Lines are checked in input order; the stock check uses the quantity requested so far
// for the same product, so duplicate lines can not jointly exceed the stock.
func NewOrder(ownerID uuid.UUID, cart Cart, products map[uuid.UUID]Product) (Order, error) {
	var o Order

	if ownerID == uuid.Nil {
		return o, fmt.Errorf("owner id is empty: %w", ErrInvalidInput)
	}

	if err := cart.Validate(); err != nil {
		return o, fmt.Errorf("cart.Validate: %w", err)
	}

	requested := make(map[uuid.UUID]int64, len(cart.Lines))
	lines := make([]OrderLine, 0, len(cart.Lines))

	var total Money

	for i, cartLine := range cart.Lines {
		product, ok := products[cartLine.ProductID]
		if !ok {
			return o, fmt.Errorf("product %s: %w", cartLine.ProductID, ErrNotFound)
		}

		if !product.Active {
			return o, fmt.Errorf("product %s: %w", product.ID, ErrUnavailable)
		}

		// compared against the remaining stock so huge quantities can not wrap around
		if cartLine.Quantity > product.StockQuantity-requested[product.ID] {
			return o, &InsufficientStockError{
				ProductID: product.ID,
				Requested: addCapped(requested[product.ID], cartLine.Quantity),
				Available: product.StockQuantity,
			}
		}
		requested[product.ID] += cartLine.Quantity

		subtotal := product.Price.Mul(cartLine.Quantity)
		if subtotal.Amount.GreaterThan(MaxOrderAmount) {
			return o, fmt.Errorf("line %d: subtotal %s exceeds %s: %w", i, subtotal, MaxOrderAmount.StringFixed(2), ErrInvalidInput)
		}

		if i == 0 {
			total = ZeroMoney(product.Price.Currency)
		}

		var err error
		if total, err = total.Add(subtotal); err != nil {
			return o, fmt.Errorf("product %s: %w", product.ID, err)
		}

		if total.Amount.GreaterThan(MaxOrderAmount) {
			return o, fmt.Errorf("order total %s exceeds %s: %w", total, MaxOrderAmount.StringFixed(2), ErrInvalidInput)
		}

		lines = append(lines, OrderLine{
			ProductID:   product.ID,
			ProductName: product.Name,
			SellerID:    product.OwnerID,
			Quantity:    cartLine.Quantity,
			UnitPrice:   product.Price,
			Subtotal:    subtotal,
		})
	}

	return Order{
		OwnerID: ownerID,
		Total:   total,
		Status:  OrderStatusPending,
		Lines:   lines,
	}, nil
}

// Sales derives one sale per line, owned by the seller of the line's product.
func (o Order) Sales() []Sale {
	sales := make([]Sale, 0, len(o.Lines))
	for _, line := range o.Lines {
		sales = append(sales, Sale{
			SellerID:    line.SellerID,
			OrderID:     o.ID,
			OrderLineID: line.ID,
			ProductID:   line.ProductID,
			ProductName: line.ProductName,
			CustomerID:  o.OwnerID,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			Total:       line.Subtotal,
			Status:      o.Status,
		})
	}
	return sales
}

// addCapped adds two non-negative quantities, saturating at math.MaxInt64.
func addCapped(a, b int64) int64 {
	if a > math.MaxInt64-b {
		return math.MaxInt64
	}
	return a + b
}
