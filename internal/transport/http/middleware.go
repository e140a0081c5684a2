package http

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/nikolayk812/marketplace/internal/metrics"
	"github.com/nikolayk812/marketplace/internal/transport/http/handler"
	"go.uber.org/zap"
)

const headerRequestID = "X-Request-ID"

type Authenticator interface {
	Authenticate(ctx context.Context, token string) (domain.Principal, error)
}

// NewAuthMiddleware resolves the bearer token into a principal stored in the request locals.
func NewAuthMiddleware(authenticator Authenticator) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get(fiber.HeaderAuthorization)
		if authHeader == "" {
			return handler.WriteError(c, fmt.Errorf("missing authorization header: %w", domain.ErrUnauthenticated))
		}

		token, ok := strings.CutPrefix(authHeader, "Bearer ")
		if !ok || strings.TrimSpace(token) == "" {
			return handler.WriteError(c, fmt.Errorf("invalid authorization header format: %w", domain.ErrUnauthenticated))
		}

		principal, err := authenticator.Authenticate(c.UserContext(), strings.TrimSpace(token))
		if err != nil {
			return handler.WriteError(c, err)
		}

		handler.SetPrincipal(c, principal)
		return c.Next()
	}
}

// NewRequestIDMiddleware echoes the caller's X-Request-ID or generates a new one.
func NewRequestIDMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		rid := c.Get(headerRequestID)
		if rid == "" {
			rid = uuid.NewString()
		}

		c.Set(headerRequestID, rid)
		c.Locals("request_id", rid)

		return c.Next()
	}
}

// NewAccessLogMiddleware records one log entry and the HTTP metrics per request.
// Route templates are used as metric labels to keep cardinality low.
func NewAccessLogMiddleware(logger *zap.Logger, m *metrics.Metrics) fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		if err := c.Next(); err != nil {
			if herr := c.App().ErrorHandler(c, err); herr != nil {
				_ = c.SendStatus(fiber.StatusInternalServerError)
			}
		}

		elapsed := time.Since(start)
		status := c.Response().StatusCode()
		route := c.Route().Path

		m.ObserveHTTP(c.Method(), route, strconv.Itoa(status), elapsed)

		fields := []zap.Field{
			zap.String("method", c.Method()),
			zap.String("route", route),
			zap.String("path", c.Path()),
			zap.Int("status", status),
			zap.Duration("elapsed", elapsed),
			zap.Any("request_id", c.Locals("request_id")),
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			logging.Error(c.UserContext(), logger, "http request", fields...)
		case status >= fiber.StatusBadRequest:
			logging.Warn(c.UserContext(), logger, "http request", fields...)
		default:
			logging.Debug(c.UserContext(), logger, "http request", fields...)
		}

		return nil
	}
}

// errorHandler renders errors that escape handlers, such as unknown routes.
func errorHandler(c *fiber.Ctx, err error) error {
	var ferr *fiber.Error
	if errors.As(err, &ferr) {
		return c.Status(ferr.Code).JSON(fiber.Map{
			"code":  strings.ReplaceAll(strings.ToLower(utils.StatusMessage(ferr.Code)), " ", "_"),
			"error": ferr.Message,
		})
	}

	return handler.WriteError(c, err)
}
