package domain

import (
	"fmt"
	"slices"

	"github.com/google/uuid"
)

type CartLine struct {
	ProductID uuid.UUID
	Quantity  int64
}

// Cart is the caller supplied list of lines for a prospective order.
// The same product may appear on several lines.
type Cart struct {
	Lines []CartLine
}

func (c Cart) Validate() error {
	if len(c.Lines) == 0 {
		return fmt.Errorf("cart is empty: %w", ErrInvalidInput)
	}

	for i, line := range c.Lines {
		if line.ProductID == uuid.Nil {
			return fmt.Errorf("line %d: product id is empty: %w", i, ErrInvalidInput)
		}
		if line.Quantity <= 0 {
			return fmt.Errorf("line %d: quantity %d must be positive: %w", i, line.Quantity, ErrInvalidInput)
		}
	}

	return nil
}

// ProductIDs returns the distinct product ids in ascending order.
func (c Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Lines))
	for _, line := range c.Lines {
		ids = append(ids, line.ProductID)
	}

	slices.SortFunc(ids, func(a, b uuid.UUID) int {
		return slices.Compare(a[:], b[:])
	})

	return slices.Compact(ids)
}

// Quantities sums the requested quantity per product, saturating at math.MaxInt64.
func (c Cart) Quantities() map[uuid.UUID]int64 {
	result := make(map[uuid.UUID]int64, len(c.Lines))
	for _, line := range c.Lines {
		result[line.ProductID] = addCapped(result[line.ProductID], line.Quantity)
	}
	return result
}
