package service_test

import (
	"github.com/brianvoe/gofakeit/v7"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/service"
	"github.com/samber/lo"
)

func (suite *serviceSuite) TestRegisterLoginAuthenticate() {
	ctx := suite.T().Context()

	reg := randomRegistration(domain.RoleSeller)

	user, err := suite.identity.Register(ctx, reg)
	suite.Require().NoError(err)
	suite.Equal(domain.RoleSeller, user.Role)
	suite.True(user.Active)
	suite.NotEqual(reg.Password, user.PasswordHash)

	session, err := suite.identity.Login(ctx, reg.Email, reg.Password)
	suite.Require().NoError(err)
	suite.NotEmpty(session.Token)
	suite.Equal(user.ID, session.User.ID)

	p, err := suite.identity.Authenticate(ctx, session.Token)
	suite.Require().NoError(err)
	suite.Equal(user.Principal(), p)

	_, err = suite.identity.Login(ctx, reg.Email, "wrong-password")
	suite.ErrorIs(err, service.ErrInvalidCredentials)

	_, err = suite.identity.Login(ctx, gofakeit.Email(), reg.Password)
	suite.ErrorIs(err, domain.ErrUnauthenticated)

	_, err = suite.identity.Authenticate(ctx, "not-a-token")
	suite.ErrorIs(err, domain.ErrUnauthenticated)

	_, err = suite.identity.Register(ctx, reg)
	suite.ErrorIs(err, domain.ErrConflict)
}

func (suite *serviceSuite) TestRegisterRejects() {
	tests := []struct {
		name    string
		reg     service.Registration
		wantErr error
	}{
		{
			name:    "admin",
			reg:     randomRegistration(domain.RoleAdmin),
			wantErr: domain.ErrForbidden,
		},
		{
			name: "short password",
			reg: func() service.Registration {
				r := randomRegistration(domain.RoleCustomer)
				r.Password = "short"
				return r
			}(),
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "bad email",
			reg: func() service.Registration {
				r := randomRegistration(domain.RoleCustomer)
				r.Email = "nobody"
				return r
			}(),
			wantErr: domain.ErrInvalidInput,
		},
		{
			name: "unknown role",
			reg: func() service.Registration {
				r := randomRegistration(domain.RoleCustomer)
				r.Role = "guest"
				return r
			}(),
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.identity.Register(suite.T().Context(), tt.reg)
			suite.ErrorIs(err, tt.wantErr)
		})
	}
}

func (suite *serviceSuite) TestDeactivatedUserLosesAccess() {
	ctx := suite.T().Context()

	reg := randomRegistration(domain.RoleCustomer)
	user, err := suite.identity.Register(ctx, reg)
	suite.Require().NoError(err)

	session, err := suite.identity.Login(ctx, reg.Email, reg.Password)
	suite.Require().NoError(err)

	admin := principal(domain.RoleAdmin)

	_, err = suite.identity.UpdateUser(ctx, user.Principal(), user.ID, domain.UserUpdate{Active: lo.ToPtr(false)})
	suite.Require().ErrorIs(err, domain.ErrForbidden)

	_, err = suite.identity.UpdateUser(ctx, admin, user.ID, domain.UserUpdate{Active: lo.ToPtr(false)})
	suite.Require().NoError(err)

	_, err = suite.identity.Authenticate(ctx, session.Token)
	suite.ErrorIs(err, domain.ErrUnauthenticated)

	_, err = suite.identity.Login(ctx, reg.Email, reg.Password)
	suite.ErrorIs(err, domain.ErrUnauthenticated)
}

func (suite *serviceSuite) TestUsersAccess() {
	ctx := suite.T().Context()

	user, err := suite.identity.Register(ctx, randomRegistration(domain.RoleCustomer))
	suite.Require().NoError(err)

	self, err := suite.identity.GetUser(ctx, user.Principal(), user.ID)
	suite.Require().NoError(err)
	suite.Equal(user.Email, self.Email)

	_, err = suite.identity.GetUser(ctx, principal(domain.RoleCustomer), user.ID)
	suite.ErrorIs(err, domain.ErrForbidden)

	_, err = suite.identity.GetUser(ctx, principal(domain.RoleAdmin), uuid.New())
	suite.ErrorIs(err, domain.ErrNotFound)

	_, err = suite.identity.ListUsers(ctx, user.Principal(), domain.Page{})
	suite.ErrorIs(err, domain.ErrForbidden)

	users, err := suite.identity.ListUsers(ctx, principal(domain.RoleAdmin), domain.Page{})
	suite.Require().NoError(err)
	suite.Len(users, 1)

	promoted, err := suite.identity.UpdateUser(ctx, principal(domain.RoleAdmin), user.ID, domain.UserUpdate{
		Role:     lo.ToPtr(domain.RoleSeller),
		Password: lo.ToPtr("a-new-password"),
	})
	suite.Require().NoError(err)
	suite.Equal(domain.RoleSeller, promoted.Role)

	_, err = suite.identity.Login(ctx, user.Email, "a-new-password")
	suite.NoError(err)
}

func randomRegistration(role domain.Role) service.Registration {
	return service.Registration{
		Name:     gofakeit.Name(),
		Email:    gofakeit.Email(),
		Password: gofakeit.Password(true, true, true, false, false, 12),
		Role:     role,
	}
}
