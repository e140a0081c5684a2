package handler

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/nikolayk812/marketplace/internal/domain"
)

const principalKey = "principal"

func SetPrincipal(c *fiber.Ctx, p domain.Principal) {
	c.Locals(principalKey, p)
}

func principalFrom(c *fiber.Ctx) domain.Principal {
	p, _ := c.Locals(principalKey).(domain.Principal)
	return p
}

// StatusFor maps a domain error to the HTTP status returned to the client.
func StatusFor(err error) int {
	switch domain.ErrorCode(err) {
	case "ok":
		return fiber.StatusOK
	case "not_found":
		return fiber.StatusNotFound
	case "forbidden":
		return fiber.StatusForbidden
	case "unauthenticated":
		return fiber.StatusUnauthorized
	case "invalid_input", "invalid_status":
		return fiber.StatusBadRequest
	case "invalid_transition", "insufficient_stock", "conflict":
		return fiber.StatusConflict
	case "unavailable":
		return fiber.StatusUnprocessableEntity
	default:
		return fiber.StatusInternalServerError
	}
}

// WriteError renders err as {"error", "code"}; internal errors are not echoed to the client.
func WriteError(c *fiber.Ctx, err error) error {
	code := domain.ErrorCode(err)
	status := StatusFor(err)

	body := fiber.Map{
		"code":  code,
		"error": err.Error(),
	}

	if status == fiber.StatusInternalServerError {
		body["error"] = "internal error"
	}

	var stockErr *domain.InsufficientStockError
	if errors.As(err, &stockErr) {
		body["product_id"] = stockErr.ProductID
		body["requested"] = stockErr.Requested
		body["available"] = stockErr.Available
	}

	return c.Status(status).JSON(body)
}

func writeBadRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":  domain.ErrorCode(domain.ErrInvalidInput),
		"error": msg,
	})
}

func writeValidationError(c *fiber.Ctx, err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return writeBadRequest(c, err.Error())
	}

	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"code":   domain.ErrorCode(domain.ErrInvalidInput),
		"error":  "validation failed",
		"fields": FormatValidationError(verrs),
	})
}

func FormatValidationError(verrs validator.ValidationErrors) map[string]string {
	result := make(map[string]string, len(verrs))
	for _, err := range verrs {
		field := strings.ToLower(err.Field())

		switch err.Tag() {
		case "required":
			result[field] = fmt.Sprintf("%s is required", field)
		case "min":
			result[field] = fmt.Sprintf("%s must be at least %s", field, err.Param())
		case "max":
			result[field] = fmt.Sprintf("%s must be at most %s", field, err.Param())
		case "gt":
			result[field] = fmt.Sprintf("%s must be greater than %s", field, err.Param())
		case "gte":
			result[field] = fmt.Sprintf("%s must be greater than or equal to %s", field, err.Param())
		case "email":
			result[field] = fmt.Sprintf("%s must be a valid email", field)
		case "oneof":
			result[field] = fmt.Sprintf("%s must be one of [%s]", field, err.Param())
		default:
			result[field] = fmt.Sprintf("%s is invalid", field)
		}
	}
	return result
}
