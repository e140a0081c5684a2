package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/samber/lo"
)

type SaleService interface {
	SellerStatistics(ctx context.Context, principal domain.Principal, sellerID uuid.UUID) (domain.SellerStats, error)
	ListMySales(ctx context.Context, principal domain.Principal, page domain.Page) ([]domain.Sale, error)
	ListAllSales(ctx context.Context, principal domain.Principal, filter domain.SaleFilter) ([]domain.Sale, error)
}

type SaleHandler struct {
	sales SaleService
}

func NewSaleHandler(sales SaleService) *SaleHandler {
	return &SaleHandler{sales: sales}
}

func (h *SaleHandler) ListMine(c *fiber.Ctx) error {
	sales, err := h.sales.ListMySales(c.UserContext(), principalFrom(c), pageQuery(c))
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toSaleResponses(sales))
}

func (h *SaleHandler) ListAll(c *fiber.Ctx) error {
	filter := domain.SaleFilter{Page: pageQuery(c)}

	var err error

	if filter.SellerIDs, err = queryUUIDs(c, "seller_id"); err != nil {
		return WriteError(c, err)
	}

	if filter.OrderIDs, err = queryUUIDs(c, "order_id"); err != nil {
		return WriteError(c, err)
	}

	if filter.Statuses, err = queryStatuses(c); err != nil {
		return WriteError(c, err)
	}

	sales, err := h.sales.ListAllSales(c.UserContext(), principalFrom(c), filter)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toSaleResponses(sales))
}

func (h *SaleHandler) MyStats(c *fiber.Ctx) error {
	stats, err := h.sales.SellerStatistics(c.UserContext(), principalFrom(c), uuid.Nil)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toStatsResponse(stats))
}

func (h *SaleHandler) SellerStats(c *fiber.Ctx) error {
	sellerID, err := pathID(c, "id")
	if err != nil {
		return WriteError(c, err)
	}

	stats, err := h.sales.SellerStatistics(c.UserContext(), principalFrom(c), sellerID)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toStatsResponse(stats))
}

func toSaleResponses(sales []domain.Sale) []saleResponse {
	return lo.Map(sales, func(s domain.Sale, _ int) saleResponse {
		return toSaleResponse(s)
	})
}
