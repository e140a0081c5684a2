package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type Role string

const (
	RoleCustomer Role = "customer"
	RoleSeller   Role = "seller"
	RoleAdmin    Role = "admin"
)

var validRoles = map[Role]struct{}{
	RoleCustomer: {},
	RoleSeller:   {},
	RoleAdmin:    {},
}

func ToRole(s string) (Role, error) {
	role := Role(s)
	if _, ok := validRoles[role]; ok {
		return role, nil
	}

	return "", fmt.Errorf("role %q: %w", s, ErrInvalidInput)
}

// Principal is the authenticated caller of an operation.
type Principal struct {
	ID   uuid.UUID
	Role Role
}

func (p Principal) IsZero() bool {
	return p.ID == uuid.Nil
}

func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

func (p Principal) IsSeller() bool {
	return p.Role == RoleSeller
}
