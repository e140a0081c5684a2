package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

type Product struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Name          string
	Description   string
	Price         Money
	StockQuantity int64
	Active        bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (p Product) Validate() error {
	if p.OwnerID == uuid.Nil {
		return fmt.Errorf("owner id is empty: %w", ErrInvalidInput)
	}

	if strings.TrimSpace(p.Name) == "" {
		return fmt.Errorf("name is empty: %w", ErrInvalidInput)
	}

	if err := p.Price.Validate(); err != nil {
		return fmt.Errorf("price: %w", err)
	}

	if p.StockQuantity < 0 {
		return fmt.Errorf("stock quantity %d is negative: %w", p.StockQuantity, ErrInvalidInput)
	}

	return nil
}

// ProductUpdate is a partial update; the owner of a product is never changed.
type ProductUpdate struct {
	Name          *string
	Description   *string
	Price         *Money
	StockQuantity *int64
	Active        *bool
}

func (u ProductUpdate) IsEmpty() bool {
	return u.Name == nil && u.Description == nil && u.Price == nil && u.StockQuantity == nil && u.Active == nil
}

func (u ProductUpdate) Validate() error {
	if u.IsEmpty() {
		return fmt.Errorf("no fields to update: %w", ErrInvalidInput)
	}

	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return fmt.Errorf("name is empty: %w", ErrInvalidInput)
	}

	if u.Price != nil {
		if err := u.Price.Validate(); err != nil {
			return fmt.Errorf("price: %w", err)
		}
	}

	if u.StockQuantity != nil && *u.StockQuantity < 0 {
		return fmt.Errorf("stock quantity %d is negative: %w", *u.StockQuantity, ErrInvalidInput)
	}

	return nil
}
