package handler

import (
	"context"
	"fmt"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/samber/lo"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

type CatalogService interface {
	StoreCurrency() currency.Unit
	CreateProduct(ctx context.Context, principal domain.Principal, product domain.Product) (domain.Product, error)
	GetProduct(ctx context.Context, principal domain.Principal, productID uuid.UUID) (domain.Product, error)
	ListProducts(ctx context.Context, principal domain.Principal, filter domain.ProductFilter) ([]domain.Product, error)
	ListMyProducts(ctx context.Context, principal domain.Principal, page domain.Page) ([]domain.Product, error)
	UpdateProduct(ctx context.Context, principal domain.Principal, productID uuid.UUID, update domain.ProductUpdate) (domain.Product, error)
	DeactivateProduct(ctx context.Context, principal domain.Principal, productID uuid.UUID) (domain.Product, error)
}

type ProductHandler struct {
	catalog  CatalogService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewProductHandler(catalog CatalogService, logger *zap.Logger) *ProductHandler {
	return &ProductHandler{
		catalog:  catalog,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *ProductHandler) Create(c *fiber.Ctx) error {
	input := new(CreateProductInput)
	if err := c.BodyParser(input); err != nil {
		logging.Warn(c.UserContext(), h.logger, "failed to parse product body", zap.Error(err))
		return writeBadRequest(c, "error parsing body")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	cur, err := h.currency(input.Currency)
	if err != nil {
		return WriteError(c, err)
	}

	product, err := h.catalog.CreateProduct(c.UserContext(), principalFrom(c), domain.Product{
		Name:          input.Name,
		Description:   input.Description,
		Price:         domain.Money{Amount: *input.Price, Currency: cur},
		StockQuantity: input.StockQuantity,
		Active:        true,
	})
	if err != nil {
		return WriteError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toProductResponse(product))
}

func (h *ProductHandler) FindByID(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return WriteError(c, err)
	}

	product, err := h.catalog.GetProduct(c.UserContext(), principalFrom(c), productID)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toProductResponse(product))
}

func (h *ProductHandler) ListProducts(c *fiber.Ctx) error {
	ownerIDs, err := queryUUIDs(c, "owner_id")
	if err != nil {
		return WriteError(c, err)
	}

	filter := domain.ProductFilter{
		OwnerIDs:  ownerIDs,
		NameQuery: c.Query("q"),
		Page:      pageQuery(c),
	}

	if raw := c.Query("active"); raw != "" {
		active, err := strconv.ParseBool(raw)
		if err != nil {
			return writeBadRequest(c, fmt.Sprintf("active %q is not a boolean", raw))
		}
		filter.Active = &active
	}

	products, err := h.catalog.ListProducts(c.UserContext(), principalFrom(c), filter)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toProductResponses(products))
}

func (h *ProductHandler) ListMine(c *fiber.Ctx) error {
	products, err := h.catalog.ListMyProducts(c.UserContext(), principalFrom(c), pageQuery(c))
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toProductResponses(products))
}

func (h *ProductHandler) Update(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return WriteError(c, err)
	}

	input := new(UpdateProductInput)
	if err := c.BodyParser(input); err != nil {
		logging.Warn(c.UserContext(), h.logger, "failed to parse product update body", zap.Error(err))
		return writeBadRequest(c, "error parsing body")
	}

	update := domain.ProductUpdate{
		Name:          input.Name,
		Description:   input.Description,
		StockQuantity: input.StockQuantity,
		Active:        input.Active,
	}

	if input.Price != nil {
		cur, err := h.currency(input.Currency)
		if err != nil {
			return WriteError(c, err)
		}
		update.Price = &domain.Money{Amount: *input.Price, Currency: cur}
	}

	product, err := h.catalog.UpdateProduct(c.UserContext(), principalFrom(c), productID, update)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toProductResponse(product))
}

func (h *ProductHandler) Deactivate(c *fiber.Ctx) error {
	productID, err := pathID(c, "id")
	if err != nil {
		return WriteError(c, err)
	}

	product, err := h.catalog.DeactivateProduct(c.UserContext(), principalFrom(c), productID)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toProductResponse(product))
}

// currency defaults to the store currency when the client omits it.
func (h *ProductHandler) currency(code string) (currency.Unit, error) {
	if code == "" {
		return h.catalog.StoreCurrency(), nil
	}

	cur, err := currency.ParseISO(code)
	if err != nil {
		return currency.Unit{}, fmt.Errorf("currency %q: %w", code, domain.ErrInvalidInput)
	}

	return cur, nil
}

func toProductResponses(products []domain.Product) []productResponse {
	return lo.Map(products, func(p domain.Product, _ int) productResponse {
		return toProductResponse(p)
	})
}
