package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/nikolayk812/marketplace/internal/policy"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type OrderService interface {
	PlaceOrder(ctx context.Context, principal domain.Principal, cart domain.Cart) (domain.Order, error)
	ListMyOrders(ctx context.Context, principal domain.Principal, page domain.Page) ([]domain.Order, error)
	ListAllOrders(ctx context.Context, principal domain.Principal, filter domain.OrderFilter) ([]domain.Order, error)
	GetOrder(ctx context.Context, principal domain.Principal, orderID uuid.UUID) (domain.Order, error)
	UpdateOrderStatus(ctx context.Context, principal domain.Principal, orderID uuid.UUID, newStatus string) (domain.Order, error)
}

type OrderHandler struct {
	orders   OrderService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewOrderHandler(orders OrderService, logger *zap.Logger) *OrderHandler {
	return &OrderHandler{
		orders:   orders,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *OrderHandler) Create(c *fiber.Ctx) error {
	input := new(PlaceOrderInput)
	if err := c.BodyParser(input); err != nil {
		logging.Warn(c.UserContext(), h.logger, "failed to parse order body", zap.Error(err))
		return writeBadRequest(c, "error parsing body")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	cart := domain.Cart{
		Lines: lo.Map(input.Lines, func(l CartLineInput, _ int) domain.CartLine {
			return domain.CartLine{ProductID: l.ProductID, Quantity: l.Quantity}
		}),
	}

	order, err := h.orders.PlaceOrder(c.UserContext(), principalFrom(c), cart)
	if err != nil {
		return WriteError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toOrderResponse(order))
}

func (h *OrderHandler) ListMine(c *fiber.Ctx) error {
	orders, err := h.orders.ListMyOrders(c.UserContext(), principalFrom(c), pageQuery(c))
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toOrderResponses(orders))
}

func (h *OrderHandler) ListAll(c *fiber.Ctx) error {
	filter := domain.OrderFilter{Page: pageQuery(c)}

	var err error

	if filter.OwnerIDs, err = queryUUIDs(c, "owner_id"); err != nil {
		return WriteError(c, err)
	}

	if filter.Statuses, err = queryStatuses(c); err != nil {
		return WriteError(c, err)
	}

	after, err := queryTime(c, "created_after")
	if err != nil {
		return WriteError(c, err)
	}

	before, err := queryTime(c, "created_before")
	if err != nil {
		return WriteError(c, err)
	}

	if after != nil || before != nil {
		filter.CreatedAt = &domain.TimeRange{After: after, Before: before}
	}

	orders, err := h.orders.ListAllOrders(c.UserContext(), principalFrom(c), filter)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toOrderResponses(orders))
}

func (h *OrderHandler) FindByID(c *fiber.Ctx) error {
	orderID, err := pathID(c, "id")
	if err != nil {
		return WriteError(c, err)
	}

	order, err := h.orders.GetOrder(c.UserContext(), principalFrom(c), orderID)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toOrderResponse(order))
}

func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	if !policy.CanUpdateOrderStatus(principalFrom(c)) {
		return WriteError(c, domain.ErrForbidden)
	}

	orderID, err := pathID(c, "id")
	if err != nil {
		return WriteError(c, err)
	}

	input := new(UpdateStatusInput)
	if err := c.BodyParser(input); err != nil {
		logging.Warn(c.UserContext(), h.logger, "failed to parse status body", zap.Error(err))
		return writeBadRequest(c, "error parsing body")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	order, err := h.orders.UpdateOrderStatus(c.UserContext(), principalFrom(c), orderID, input.Status)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toOrderResponse(order))
}

func toOrderResponses(orders []domain.Order) []orderResponse {
	return lo.Map(orders, func(o domain.Order, _ int) orderResponse {
		return toOrderResponse(o)
	})
}
