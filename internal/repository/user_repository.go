package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/nikolayk812/marketplace/internal/db"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/port"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
)

const uniqueViolation = "23505"

var (
	ErrUserNotFound = fmt.Errorf("user %w", domain.ErrNotFound)
	ErrEmailTaken   = fmt.Errorf("email already registered: %w", domain.ErrConflict)
)

type userRepository struct {
	q      *db.Queries
	tracer trace.Tracer
}

func NewUser(pool *pgxpool.Pool) port.UserRepository {
	return &userRepository{
		q:      db.New(pool),
		tracer: otel.Tracer("repository/user"),
	}
}

func (r *userRepository) CreateUser(ctx context.Context, user domain.User) (domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.CreateUser")
	defer span.End()

	dbUser, err := r.q.InsertUser(ctx, db.InsertUserParams{
		Name:         user.Name,
		Email:        normalizeEmail(user.Email),
		PasswordHash: user.PasswordHash,
		Role:         string(user.Role),
	})
	if err != nil {
		if isUniqueViolation(err) {
			return domain.User{}, fmt.Errorf("q.InsertUser: %w", ErrEmailTaken)
		}
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("q.InsertUser: %w", err)
	}

	return mapDBUserToDomain(dbUser)
}

func (r *userRepository) GetUser(ctx context.Context, userID uuid.UUID) (domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetUser")
	defer span.End()

	dbUser, err := r.q.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("q.GetUser: %w", ErrUserNotFound)
		}
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("q.GetUser: %w", err)
	}

	return mapDBUserToDomain(dbUser)
}

func (r *userRepository) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.GetUserByEmail")
	defer span.End()

	dbUser, err := r.q.GetUserByEmail(ctx, normalizeEmail(email))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.User{}, fmt.Errorf("q.GetUserByEmail: %w", ErrUserNotFound)
		}
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("q.GetUserByEmail: %w", err)
	}

	return mapDBUserToDomain(dbUser)
}

func (r *userRepository) ListUsers(ctx context.Context, page domain.Page) ([]domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.ListUsers")
	defer span.End()

	if err := page.Validate(); err != nil {
		return nil, fmt.Errorf("page.Validate: %w", err)
	}

	limit, offset := page.LimitOffset()

	dbUsers, err := r.q.ListUsers(ctx, db.ListUsersParams{RowLimit: limit, RowOffset: offset})
	if err != nil {
		span.RecordError(err)
		return nil, fmt.Errorf("q.ListUsers: %w", err)
	}

	users := make([]domain.User, 0, len(dbUsers))
	for _, dbUser := range dbUsers {
		user, err := mapDBUserToDomain(dbUser)
		if err != nil {
			return nil, fmt.Errorf("mapDBUserToDomain: %w", err)
		}
		users = append(users, user)
	}

	return users, nil
}

func (r *userRepository) UpdateUser(ctx context.Context, userID uuid.UUID, update domain.UserUpdate, passwordHash *string) (domain.User, error) {
	ctx, span := r.tracer.Start(ctx, "UserRepository.UpdateUser")
	defer span.End()

	arg := db.UpdateUserParams{
		Name:         update.Name,
		PasswordHash: passwordHash,
		Active:       update.Active,
		ID:           userID,
	}
	if update.Email != nil {
		email := normalizeEmail(*update.Email)
		arg.Email = &email
	}
	if update.Role != nil {
		role := string(*update.Role)
		arg.Role = &role
	}

	dbUser, err := r.q.UpdateUser(ctx, arg)
	if err != nil {
		switch {
		case errors.Is(err, pgx.ErrNoRows):
			return domain.User{}, fmt.Errorf("q.UpdateUser: %w", ErrUserNotFound)
		case isUniqueViolation(err):
			return domain.User{}, fmt.Errorf("q.UpdateUser: %w", ErrEmailTaken)
		}
		span.RecordError(err)
		return domain.User{}, fmt.Errorf("q.UpdateUser: %w", err)
	}

	return mapDBUserToDomain(dbUser)
}

func mapDBUserToDomain(row db.User) (domain.User, error) {
	role, err := domain.ToRole(row.Role)
	if err != nil {
		return domain.User{}, fmt.Errorf("domain.ToRole[%s]: %w", row.Role, err)
	}

	return domain.User{
		ID:           row.ID,
		Name:         row.Name,
		Email:        row.Email,
		PasswordHash: row.PasswordHash,
		Role:         role,
		Active:       row.Active,
		CreatedAt:    row.CreatedAt,
		UpdatedAt:    row.UpdatedAt,
	}, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
