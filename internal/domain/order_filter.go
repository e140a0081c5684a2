package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

const (
	DefaultPageLimit = 100
	MaxPageLimit     = 500
)

type Page struct {
	Limit  int
	Offset int
}

func (p Page) Validate() error {
	if p.Limit < 0 || p.Limit > MaxPageLimit {
		return fmt.Errorf("limit %d is out of range [0, %d]: %w", p.Limit, MaxPageLimit, ErrInvalidInput)
	}

	if p.Offset < 0 {
		return fmt.Errorf("offset %d is negative: %w", p.Offset, ErrInvalidInput)
	}

	return nil
}

// LimitOffset returns the page bounds, a zero limit means DefaultPageLimit.
func (p Page) LimitOffset() (int32, int32) {
	limit := p.Limit
	if limit == 0 {
		limit = DefaultPageLimit
	}

	return int32(limit), int32(p.Offset)
}

// OrderFilter has AND semantics across fields, OR semantics within each field slice.
// An empty filter matches every order.
type OrderFilter struct {
	IDs       []uuid.UUID
	OwnerIDs  []uuid.UUID
	Statuses  []OrderStatus
	CreatedAt *TimeRange
	Page      Page
}

func (f OrderFilter) Validate() error {
	if f.CreatedAt != nil {
		if err := f.CreatedAt.Validate(); err != nil {
			return fmt.Errorf("createdAt: %w", err)
		}
	}

	if err := f.Page.Validate(); err != nil {
		return fmt.Errorf("page: %w", err)
	}

	return nil
}

type SaleFilter struct {
	SellerIDs []uuid.UUID
	OrderIDs  []uuid.UUID
	Statuses  []OrderStatus
	Page      Page
}

func (f SaleFilter) Validate() error {
	if err := f.Page.Validate(); err != nil {
		return fmt.Errorf("page: %w", err)
	}

	return nil
}

type ProductFilter struct {
	OwnerIDs []uuid.UUID
	Active   *bool
	// case-insensitive substring of the product name
	NameQuery string
	Page      Page
}

func (f ProductFilter) Validate() error {
	if err := f.Page.Validate(); err != nil {
		return fmt.Errorf("page: %w", err)
	}

	return nil
}

type TimeRange struct {
	Before *time.Time
	After  *time.Time
}

func (t TimeRange) Validate() error {
	if t.Before == nil && t.After == nil {
		return fmt.Errorf("both Before and After are nil: %w", ErrInvalidInput)
	}

	if t.Before != nil && t.After != nil {
		if t.Before.Before(*t.After) {
			return fmt.Errorf("before is before After: %w", ErrInvalidInput)
		}
	}

	return nil
}
