package port

import (
	"context"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
)

type UserRepository interface {
	CreateUser(ctx context.Context, user domain.User) (domain.User, error)
	GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	ListUsers(ctx context.Context, page domain.Page) ([]domain.User, error)
	// UpdateUser applies update; passwordHash replaces the stored hash when not nil.
	UpdateUser(ctx context.Context, userID uuid.UUID, update domain.UserUpdate, passwordHash *string) (domain.User, error)
}
