package domain_test

import (
	"testing"

	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/currency"
)

func TestMoney(t *testing.T) {
	ten := domain.Money{Amount: decimal.RequireFromString("10.00"), Currency: currency.USD}

	sum, err := ten.Add(ten.Mul(3))
	require.NoError(t, err)
	assert.Equal(t, "40.00 USD", sum.String())

	_, err = ten.Add(domain.ZeroMoney(currency.EUR))
	require.EqualError(t, err, "currency mismatch USD != EUR: invalid input")

	require.NoError(t, ten.Validate())
	assert.ErrorIs(t, domain.Money{Amount: decimal.RequireFromString("-1"), Currency: currency.USD}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.Money{Amount: decimal.RequireFromString("1.001"), Currency: currency.USD}.Validate(), domain.ErrInvalidInput)
}

func TestProductUpdateValidate(t *testing.T) {
	assert.ErrorIs(t, domain.ProductUpdate{}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.ProductUpdate{Name: lo.ToPtr(" ")}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.ProductUpdate{StockQuantity: lo.ToPtr(int64(-1))}.Validate(), domain.ErrInvalidInput)
	assert.NoError(t, domain.ProductUpdate{Active: lo.ToPtr(false)}.Validate())
}

func TestUserUpdateValidate(t *testing.T) {
	assert.ErrorIs(t, domain.UserUpdate{}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.UserUpdate{Email: lo.ToPtr("not-an-email")}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.UserUpdate{Password: lo.ToPtr("short")}.Validate(), domain.ErrInvalidInput)
	assert.ErrorIs(t, domain.UserUpdate{Role: lo.ToPtr(domain.Role("root"))}.Validate(), domain.ErrInvalidInput)
	assert.NoError(t, domain.UserUpdate{Email: lo.ToPtr("a@b.io"), Role: lo.ToPtr(domain.RoleSeller)}.Validate())
}
