package service_test

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/samber/lo"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

func (suite *serviceSuite) TestCreateProduct() {
	ctx := suite.T().Context()

	seller := principal(domain.RoleSeller)
	product := suite.createProduct(seller, "12.34", 7)

	suite.Equal(seller.ID, product.OwnerID)
	suite.NotEqual(uuid.Nil, product.ID)

	got, err := suite.catalog.GetProduct(ctx, seller, product.ID)
	suite.Require().NoError(err)
	suite.Equal(product.Name, got.Name)
	suite.EqualValues(7, got.StockQuantity)

	draft := domain.Product{
		Name:          "lamp",
		Price:         domain.Money{Amount: decimal.RequireFromString("1"), Currency: storeCurrency},
		StockQuantity: 1,
		Active:        true,
	}

	_, err = suite.catalog.CreateProduct(ctx, principal(domain.RoleCustomer), draft)
	suite.ErrorIs(err, domain.ErrForbidden)

	foreign := draft
	foreign.Price.Currency = currency.USD
	_, err = suite.catalog.CreateProduct(ctx, seller, foreign)
	suite.ErrorIs(err, domain.ErrInvalidInput)

	_, err = suite.catalog.GetProduct(ctx, seller, uuid.New())
	suite.ErrorIs(err, domain.ErrNotFound)
}

func (suite *serviceSuite) TestListProducts() {
	ctx := suite.T().Context()

	seller := principal(domain.RoleSeller)
	active := suite.createProduct(seller, "1.00", 1)
	hidden := suite.createProduct(seller, "1.00", 1)

	_, err := suite.catalog.DeactivateProduct(ctx, seller, hidden.ID)
	suite.Require().NoError(err)

	_, err = suite.catalog.GetProduct(ctx, principal(domain.RoleCustomer), hidden.ID)
	suite.ErrorIs(err, domain.ErrNotFound)

	_, err = suite.catalog.GetProduct(ctx, seller, hidden.ID)
	suite.NoError(err)

	listed, err := suite.catalog.ListProducts(ctx, principal(domain.RoleCustomer), domain.ProductFilter{Active: lo.ToPtr(false)})
	suite.Require().NoError(err)
	suite.Require().Len(listed, 1)
	suite.Equal(active.ID, listed[0].ID)

	listed, err = suite.catalog.ListProducts(ctx, principal(domain.RoleAdmin), domain.ProductFilter{})
	suite.Require().NoError(err)
	suite.Len(listed, 2)

	own, err := suite.catalog.ListMyProducts(ctx, seller, domain.Page{})
	suite.Require().NoError(err)
	suite.Len(own, 2)
}

func (suite *serviceSuite) TestUpdateProduct() {
	ctx := suite.T().Context()

	seller := principal(domain.RoleSeller)
	product := suite.createProduct(seller, "1.00", 1)

	updated, err := suite.catalog.UpdateProduct(ctx, seller, product.ID, domain.ProductUpdate{
		Name:          lo.ToPtr("renamed"),
		StockQuantity: lo.ToPtr(int64(42)),
	})
	suite.Require().NoError(err)
	suite.Equal("renamed", updated.Name)
	suite.EqualValues(42, updated.StockQuantity)
	suite.True(product.Price.Amount.Equal(updated.Price.Amount))

	byAdmin, err := suite.catalog.UpdateProduct(ctx, principal(domain.RoleAdmin), product.ID, domain.ProductUpdate{
		Description: lo.ToPtr("curated"),
	})
	suite.Require().NoError(err)
	suite.Equal("curated", byAdmin.Description)

	tests := []struct {
		name      string
		principal domain.Principal
		productID uuid.UUID
		update    domain.ProductUpdate
		wantErr   error
	}{
		{
			name:      "other seller",
			principal: principal(domain.RoleSeller),
			productID: product.ID,
			update:    domain.ProductUpdate{Name: lo.ToPtr("stolen")},
			wantErr:   domain.ErrForbidden,
		},
		{
			name:      "missing product",
			principal: seller,
			productID: uuid.New(),
			update:    domain.ProductUpdate{Name: lo.ToPtr("ghost")},
			wantErr:   domain.ErrNotFound,
		},
		{
			name:      "empty update",
			principal: seller,
			productID: product.ID,
			wantErr:   domain.ErrInvalidInput,
		},
		{
			name:      "negative stock",
			principal: seller,
			productID: product.ID,
			update:    domain.ProductUpdate{StockQuantity: lo.ToPtr(int64(-1))},
			wantErr:   domain.ErrInvalidInput,
		},
		{
			name:      "foreign currency",
			principal: seller,
			productID: product.ID,
			update: domain.ProductUpdate{Price: &domain.Money{
				Amount:   decimal.RequireFromString("3"),
				Currency: currency.JPY,
			}},
			wantErr: domain.ErrInvalidInput,
		},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			_, err := suite.catalog.UpdateProduct(ctx, tt.principal, tt.productID, tt.update)
			suite.ErrorIs(err, tt.wantErr)
		})
	}

	got, err := suite.catalog.GetProduct(ctx, seller, product.ID)
	suite.Require().NoError(err)
	suite.Equal("renamed", got.Name)
}
