package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/auth"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/logging"
	"github.com/nikolayk812/marketplace/internal/policy"
	"github.com/nikolayk812/marketplace/internal/port"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

var ErrInvalidCredentials = fmt.Errorf("invalid email or password: %w", domain.ErrUnauthenticated)

type Registration struct {
	Name     string
	Email    string
	Password string
	Role     domain.Role
}

type Session struct {
	Token     string
	ExpiresAt time.Time
	User      domain.User
}

type IdentityService struct {
	users  port.UserRepository
	tokens *auth.TokenIssuer
	logger *zap.Logger
	tracer trace.Tracer
}

func NewIdentityService(users port.UserRepository, tokens *auth.TokenIssuer, logger *zap.Logger) *IdentityService {
	return &IdentityService{
		users:  users,
		tokens: tokens,
		logger: logger,
		tracer: otel.Tracer("service/identity"),
	}
}

// Register creates a customer or seller account; admins are only appointed by other admins.
func (s *IdentityService) Register(ctx context.Context, reg Registration) (domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Register")
	defer span.End()

	if reg.Role == "" {
		reg.Role = domain.RoleCustomer
	}

	if reg.Role == domain.RoleAdmin {
		return domain.User{}, fmt.Errorf("self registration as admin: %w", domain.ErrForbidden)
	}

	fields := domain.UserUpdate{
		Name:     &reg.Name,
		Email:    &reg.Email,
		Password: &reg.Password,
		Role:     &reg.Role,
	}
	if err := fields.Validate(); err != nil {
		return domain.User{}, fmt.Errorf("registration: %w", err)
	}

	hash, err := auth.HashPassword(reg.Password)
	if err != nil {
		return domain.User{}, fmt.Errorf("auth.HashPassword: %w", err)
	}

	user, err := s.users.CreateUser(ctx, domain.User{
		Name:         strings.TrimSpace(reg.Name),
		Email:        reg.Email,
		PasswordHash: hash,
		Role:         reg.Role,
	})
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.CreateUser: %w", err)
	}

	logging.Info(ctx, s.logger, "user registered",
		zap.String("user_id", user.ID.String()),
		zap.String("role", string(user.Role)),
	)

	return user, nil
}

func (s *IdentityService) Login(ctx context.Context, email, password string) (Session, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Login")
	defer span.End()

	user, err := s.users.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return Session{}, ErrInvalidCredentials
		}
		return Session{}, fmt.Errorf("s.users.GetUserByEmail: %w", err)
	}

	ok, err := auth.CheckPassword(user.PasswordHash, password)
	if err != nil {
		return Session{}, fmt.Errorf("auth.CheckPassword: %w", err)
	}

	if !ok || !user.Active {
		logging.Warn(ctx, s.logger, "login rejected", zap.String("user_id", user.ID.String()), zap.Bool("active", user.Active))
		return Session{}, ErrInvalidCredentials
	}

	token, expiresAt, err := s.tokens.Issue(user.Principal())
	if err != nil {
		return Session{}, fmt.Errorf("s.tokens.Issue: %w", err)
	}

	return Session{Token: token, ExpiresAt: expiresAt, User: user}, nil
}

// Authenticate resolves a bearer token to the principal of a still active user.
// The role is read from the user row, so a role change applies to existing tokens.
func (s *IdentityService) Authenticate(ctx context.Context, token string) (domain.Principal, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.Authenticate")
	defer span.End()

	claimed, err := s.tokens.Parse(token)
	if err != nil {
		return domain.Principal{}, fmt.Errorf("s.tokens.Parse: %w", err)
	}

	user, err := s.users.GetUser(ctx, claimed.ID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Principal{}, fmt.Errorf("user %s: %w", claimed.ID, domain.ErrUnauthenticated)
		}
		return domain.Principal{}, fmt.Errorf("s.users.GetUser: %w", err)
	}

	if !user.Active {
		return domain.Principal{}, fmt.Errorf("user %s is inactive: %w", user.ID, domain.ErrUnauthenticated)
	}

	return user.Principal(), nil
}

func (s *IdentityService) GetUser(ctx context.Context, principal domain.Principal, userID uuid.UUID) (domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.GetUser")
	defer span.End()

	if principal.IsZero() {
		return domain.User{}, domain.ErrUnauthenticated
	}

	if principal.ID != userID && !policy.CanListUsers(principal) {
		return domain.User{}, domain.ErrForbidden
	}

	user, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.GetUser: %w", err)
	}

	return user, nil
}

func (s *IdentityService) ListUsers(ctx context.Context, principal domain.Principal, page domain.Page) ([]domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.ListUsers")
	defer span.End()

	if !policy.CanListUsers(principal) {
		return nil, domain.ErrForbidden
	}

	users, err := s.users.ListUsers(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("s.users.ListUsers: %w", err)
	}

	return users, nil
}

func (s *IdentityService) UpdateUser(ctx context.Context, principal domain.Principal, userID uuid.UUID, update domain.UserUpdate) (domain.User, error) {
	ctx, span := s.tracer.Start(ctx, "IdentityService.UpdateUser")
	defer span.End()

	if !policy.CanManageUsers(principal) {
		return domain.User{}, domain.ErrForbidden
	}

	if err := update.Validate(); err != nil {
		return domain.User{}, fmt.Errorf("update.Validate: %w", err)
	}

	var passwordHash *string
	if update.Password != nil {
		hash, err := auth.HashPassword(*update.Password)
		if err != nil {
			return domain.User{}, fmt.Errorf("auth.HashPassword: %w", err)
		}
		passwordHash = &hash
	}

	user, err := s.users.UpdateUser(ctx, userID, update, passwordHash)
	if err != nil {
		return domain.User{}, fmt.Errorf("s.users.UpdateUser: %w", err)
	}

	logging.Info(ctx, s.logger, "user updated",
		zap.String("user_id", userID.String()),
		zap.String("admin_id", principal.ID.String()),
	)

	return user, nil
}
