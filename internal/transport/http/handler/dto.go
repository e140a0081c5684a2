package handler

import (
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
)

type moneyResponse struct {
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

func toMoneyResponse(m domain.Money) moneyResponse {
	return moneyResponse{
		Amount:   m.Amount.StringFixed(2),
		Currency: m.Currency.String(),
	}
}

type userResponse struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toUserResponse(u domain.User) userResponse {
	return userResponse{
		ID:        u.ID,
		Name:      u.Name,
		Email:     u.Email,
		Role:      string(u.Role),
		Active:    u.Active,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}

type productResponse struct {
	ID            uuid.UUID     `json:"id"`
	OwnerID       uuid.UUID     `json:"owner_id"`
	Name          string        `json:"name"`
	Description   string        `json:"description"`
	Price         moneyResponse `json:"price"`
	StockQuantity int64         `json:"stock_quantity"`
	Active        bool          `json:"active"`
	CreatedAt     time.Time     `json:"created_at"`
	UpdatedAt     time.Time     `json:"updated_at"`
}

func toProductResponse(p domain.Product) productResponse {
	return productResponse{
		ID:            p.ID,
		OwnerID:       p.OwnerID,
		Name:          p.Name,
		Description:   p.Description,
		Price:         toMoneyResponse(p.Price),
		StockQuantity: p.StockQuantity,
		Active:        p.Active,
		CreatedAt:     p.CreatedAt,
		UpdatedAt:     p.UpdatedAt,
	}
}

type orderLineResponse struct {
	ID          uuid.UUID     `json:"id"`
	ProductID   uuid.UUID     `json:"product_id"`
	ProductName string        `json:"product_name"`
	SellerID    uuid.UUID     `json:"seller_id"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   moneyResponse `json:"unit_price"`
	Subtotal    moneyResponse `json:"subtotal"`
}

type orderResponse struct {
	ID        uuid.UUID           `json:"id"`
	OwnerID   uuid.UUID           `json:"owner_id"`
	Status    string              `json:"status"`
	Total     moneyResponse       `json:"total"`
	Lines     []orderLineResponse `json:"lines"`
	CreatedAt time.Time           `json:"created_at"`
	UpdatedAt time.Time           `json:"updated_at"`
}

func toOrderResponse(o domain.Order) orderResponse {
	return orderResponse{
		ID:      o.ID,
		OwnerID: o.OwnerID,
		Status:  string(o.Status),
		Total:   toMoneyResponse(o.Total),
		Lines: lo.Map(o.Lines, func(l domain.OrderLine, _ int) orderLineResponse {
			return orderLineResponse{
				ID:          l.ID,
				ProductID:   l.ProductID,
				ProductName: l.ProductName,
				SellerID:    l.SellerID,
				Quantity:    l.Quantity,
				UnitPrice:   toMoneyResponse(l.UnitPrice),
				Subtotal:    toMoneyResponse(l.Subtotal),
			}
		}),
		CreatedAt: o.CreatedAt,
		UpdatedAt: o.UpdatedAt,
	}
}

type saleResponse struct {
	ID          uuid.UUID     `json:"id"`
	SellerID    uuid.UUID     `json:"seller_id"`
	OrderID     uuid.UUID     `json:"order_id"`
	ProductID   uuid.UUID     `json:"product_id"`
	ProductName string        `json:"product_name"`
	CustomerID  uuid.UUID     `json:"customer_id"`
	Quantity    int64         `json:"quantity"`
	UnitPrice   moneyResponse `json:"unit_price"`
	Total       moneyResponse `json:"total"`
	Status      string        `json:"status"`
	CreatedAt   time.Time     `json:"created_at"`
}

func toSaleResponse(s domain.Sale) saleResponse {
	return saleResponse{
		ID:          s.ID,
		SellerID:    s.SellerID,
		OrderID:     s.OrderID,
		ProductID:   s.ProductID,
		ProductName: s.ProductName,
		CustomerID:  s.CustomerID,
		Quantity:    s.Quantity,
		UnitPrice:   toMoneyResponse(s.UnitPrice),
		Total:       toMoneyResponse(s.Total),
		Status:      string(s.Status),
		CreatedAt:   s.CreatedAt,
	}
}

type statsResponse struct {
	SellerID       uuid.UUID     `json:"seller_id"`
	TotalRevenue   moneyResponse `json:"total_revenue"`
	UnitsSold      int64         `json:"units_sold"`
	ActiveProducts int64         `json:"active_products"`
	PendingSales   int64         `json:"pending_sales"`
	DeliveredSales int64         `json:"delivered_sales"`
}

func toStatsResponse(s domain.SellerStats) statsResponse {
	return statsResponse{
		SellerID:       s.SellerID,
		TotalRevenue:   toMoneyResponse(s.TotalRevenue),
		UnitsSold:      s.UnitsSold,
		ActiveProducts: s.ActiveProducts,
		PendingSales:   s.PendingSales,
		DeliveredSales: s.DeliveredSales,
	}
}

type RegisterInput struct {
	Name     string `json:"name" validate:"required,max=100"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
	Role     string `json:"role" validate:"omitempty,oneof=customer seller admin"`
}

type LoginInput struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type UpdateUserInput struct {
	Name     *string `json:"name"`
	Email    *string `json:"email"`
	Password *string `json:"password"`
	Role     *string `json:"role"`
	Active   *bool   `json:"active"`
}

type CreateProductInput struct {
	Name          string           `json:"name" validate:"required,max=200"`
	Description   string           `json:"description" validate:"max=2000"`
	Price         *decimal.Decimal `json:"price" validate:"required"`
	Currency      string           `json:"currency"`
	StockQuantity int64            `json:"stock_quantity" validate:"gte=0"`
}

type UpdateProductInput struct {
	Name          *string          `json:"name"`
	Description   *string          `json:"description"`
	Price         *decimal.Decimal `json:"price"`
	Currency      string           `json:"currency"`
	StockQuantity *int64           `json:"stock_quantity"`
	Active        *bool            `json:"active"`
}

type CartLineInput struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity" validate:"gt=0,max=1000000"`
}

type PlaceOrderInput struct {
	Lines []CartLineInput `json:"lines" validate:"required,min=1,dive"`
}

type UpdateStatusInput struct {
	Status string `json:"status" validate:"required"`
}
