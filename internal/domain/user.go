package domain

import (
	"fmt"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

const MinPasswordLength = 8

type User struct {
	ID           uuid.UUID
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	Active       bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (u User) Principal() Principal {
	return Principal{ID: u.ID, Role: u.Role}
}

// UserUpdate carries only the fields to change; nil fields are left untouched.
type UserUpdate struct {
	Name     *string
	Email    *string
	Password *string
	Role     *Role
	Active   *bool
}

func (u UserUpdate) IsEmpty() bool {
	return u.Name == nil && u.Email == nil && u.Password == nil && u.Role == nil && u.Active == nil
}

func (u UserUpdate) Validate() error {
	if u.IsEmpty() {
		return fmt.Errorf("no fields to update: %w", ErrInvalidInput)
	}

	if u.Name != nil && strings.TrimSpace(*u.Name) == "" {
		return fmt.Errorf("name is empty: %w", ErrInvalidInput)
	}

	if u.Email != nil {
		if err := validate.Var(*u.Email, "required,email"); err != nil {
			return fmt.Errorf("email %q: %w", *u.Email, ErrInvalidInput)
		}
	}

	if u.Password != nil && len(*u.Password) < MinPasswordLength {
		return fmt.Errorf("password is shorter than %d: %w", MinPasswordLength, ErrInvalidInput)
	}

	if u.Role != nil {
		if _, err := ToRole(string(*u.Role)); err != nil {
			return err
		}
	}

	return nil
}
