package port

import "context"

// Stores are repositories bound to one database transaction.
type Stores struct {
	Products ProductRepository
	Orders   OrderRepository
}

type Transactor interface {
	// WithinTx commits when fn returns nil and rolls back otherwise.
	WithinTx(ctx context.Context, fn func(ctx context.Context, stores Stores) error) error
}
