package handler

import (
	"context"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/nikolayk812/marketplace/internal/service"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type IdentityService interface {
	Register(ctx context.Context, reg service.Registration) (domain.User, error)
	Login(ctx context.Context, email, password string) (service.Session, error)
	GetUser(ctx context.Context, principal domain.Principal, userID uuid.UUID) (domain.User, error)
	ListUsers(ctx context.Context, principal domain.Principal, page domain.Page) ([]domain.User, error)
	UpdateUser(ctx context.Context, principal domain.Principal, userID uuid.UUID, update domain.UserUpdate) (domain.User, error)
}

type AuthHandler struct {
	identity IdentityService
	validate *validator.Validate
	logger   *zap.Logger
}

func NewAuthHandler(identity IdentityService, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{
		identity: identity,
		validate: validator.New(),
		logger:   logger,
	}
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	input := new(RegisterInput)
	if err := c.BodyParser(input); err != nil {
		logging.Warn(c.UserContext(), h.logger, "failed to parse register body", zap.Error(err))
		return writeBadRequest(c, "error parsing body")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	user, err := h.identity.Register(c.UserContext(), service.Registration{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Role:     domain.Role(input.Role),
	})
	if err != nil {
		return WriteError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(toUserResponse(user))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	input := new(LoginInput)
	if err := c.BodyParser(input); err != nil {
		logging.Warn(c.UserContext(), h.logger, "failed to parse login body", zap.Error(err))
		return writeBadRequest(c, "error parsing body")
	}

	if err := h.validate.Struct(input); err != nil {
		return writeValidationError(c, err)
	}

	session, err := h.identity.Login(c.UserContext(), input.Email, input.Password)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(fiber.Map{
		"access_token": session.Token,
		"token_type":   "Bearer",
		"expires_at":   session.ExpiresAt,
		"user":         toUserResponse(session.User),
	})
}

func (h *AuthHandler) GetMe(c *fiber.Ctx) error {
	p := principalFrom(c)

	user, err := h.identity.GetUser(c.UserContext(), p, p.ID)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toUserResponse(user))
}

func (h *AuthHandler) ListUsers(c *fiber.Ctx) error {
	users, err := h.identity.ListUsers(c.UserContext(), principalFrom(c), pageQuery(c))
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(lo.Map(users, func(u domain.User, _ int) userResponse {
		return toUserResponse(u)
	}))
}

func (h *AuthHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := pathID(c, "id")
	if err != nil {
		return WriteError(c, err)
	}

	input := new(UpdateUserInput)
	if err := c.BodyParser(input); err != nil {
		logging.Warn(c.UserContext(), h.logger, "failed to parse user update body", zap.Error(err))
		return writeBadRequest(c, "error parsing body")
	}

	update := domain.UserUpdate{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
		Active:   input.Active,
	}
	if input.Role != nil {
		update.Role = lo.ToPtr(domain.Role(*input.Role))
	}

	user, err := h.identity.UpdateUser(c.UserContext(), principalFrom(c), userID, update)
	if err != nil {
		return WriteError(c, err)
	}

	return c.JSON(toUserResponse(user))
}
