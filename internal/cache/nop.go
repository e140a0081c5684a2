package cache

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
)

// Nop is used when no redis address is configured.
type Nop struct{}

var _ port.ProductCache = Nop{}

func (Nop) Get(context.Context, uuid.UUID) (domain.Product, bool) { return domain.Product{}, false }

func (Nop) Set(context.Context, domain.Product) {}

func (Nop) Invalidate(context.Context, ...uuid.UUID) {}
