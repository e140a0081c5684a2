package handler

import (
	"fmt"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/samber/lo"
)

func pathID(c *fiber.Ctx, name string) (uuid.UUID, error) {
	raw := c.Params(name)

	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, fmt.Errorf("%s %q is not a uuid: %w", name, raw, domain.ErrInvalidInput)
	}

	return id, nil
}

func pageQuery(c *fiber.Ctx) domain.Page {
	return domain.Page{
		Limit:  c.QueryInt("limit", 0),
		Offset: c.QueryInt("offset", 0),
	}
}

// queryList splits a comma separated query parameter, dropping blanks.
func queryList(c *fiber.Ctx, name string) []string {
	parts := strings.Split(c.Query(name), ",")

	return lo.FilterMap(parts, func(s string, _ int) (string, bool) {
		s = strings.TrimSpace(s)
		return s, s != ""
	})
}

func queryUUIDs(c *fiber.Ctx, name string) ([]uuid.UUID, error) {
	var result []uuid.UUID
	for _, raw := range queryList(c, name) {
		id, err := uuid.Parse(raw)
		if err != nil {
			return nil, fmt.Errorf("%s %q is not a uuid: %w", name, raw, domain.ErrInvalidInput)
		}
		result = append(result, id)
	}
	return result, nil
}

func queryStatuses(c *fiber.Ctx) ([]domain.OrderStatus, error) {
	var result []domain.OrderStatus
	for _, raw := range queryList(c, "status") {
		status, err := domain.ToOrderStatus(raw)
		if err != nil {
			return nil, err
		}
		result = append(result, status)
	}
	return result, nil
}

func queryTime(c *fiber.Ctx, name string) (*time.Time, error) {
	raw := c.Query(name)
	if raw == "" {
		return nil, nil
	}

	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return nil, fmt.Errorf("%s %q is not RFC3339: %w", name, raw, domain.ErrInvalidInput)
	}

	return &t, nil
}
