package service_test

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/shopspring/decimal"
)

func (suite *serviceSuite) TestSellerStatisticsWithoutSales() {
	seller := principal(domain.RoleSeller)

	stats, err := suite.sales.SellerStatistics(suite.T().Context(), seller, uuid.Nil)
	suite.Require().NoError(err)

	suite.Equal(seller.ID, stats.SellerID)
	suite.True(stats.TotalRevenue.Amount.IsZero())
	suite.Equal(storeCurrency, stats.TotalRevenue.Currency)
	suite.Zero(stats.UnitsSold)
	suite.Zero(stats.ActiveProducts)
	suite.Zero(stats.PendingSales)
	suite.Zero(stats.DeliveredSales)
}

func (suite *serviceSuite) TestSellerStatistics() {
	ctx := suite.T().Context()

	admin := principal(domain.RoleAdmin)
	seller := principal(domain.RoleSeller)
	other := principal(domain.RoleSeller)
	customer := principal(domain.RoleCustomer)

	cheap := suite.createProduct(seller, "2.50", 10)
	pricey := suite.createProduct(seller, "10.00", 10)
	foreign := suite.createProduct(other, "99.00", 10)
	_ = suite.createProduct(seller, "1.00", 10)

	first, err := suite.orders.PlaceOrder(ctx, customer, domain.Cart{Lines: []domain.CartLine{
		{ProductID: cheap.ID, Quantity: 4},
		{ProductID: foreign.ID, Quantity: 1},
	}})
	suite.Require().NoError(err)

	_, err = suite.orders.PlaceOrder(ctx, customer, cartOf(pricey.ID, 2))
	suite.Require().NoError(err)

	_, err = suite.orders.UpdateOrderStatus(ctx, admin, first.ID, "processing")
	suite.Require().NoError(err)
	_, err = suite.orders.UpdateOrderStatus(ctx, admin, first.ID, "shipped")
	suite.Require().NoError(err)
	_, err = suite.orders.UpdateOrderStatus(ctx, admin, first.ID, "delivered")
	suite.Require().NoError(err)

	_, err = suite.catalog.DeactivateProduct(ctx, seller, pricey.ID)
	suite.Require().NoError(err)

	stats, err := suite.sales.SellerStatistics(ctx, seller, uuid.Nil)
	suite.Require().NoError(err)

	suite.True(decimal.RequireFromString("30").Equal(stats.TotalRevenue.Amount), stats.TotalRevenue.String())
	suite.EqualValues(6, stats.UnitsSold)
	suite.EqualValues(2, stats.ActiveProducts)
	suite.EqualValues(1, stats.PendingSales)
	suite.EqualValues(1, stats.DeliveredSales)

	byAdmin, err := suite.sales.SellerStatistics(ctx, admin, seller.ID)
	suite.Require().NoError(err)
	suite.Equal(seller.ID, byAdmin.SellerID)
	suite.True(stats.TotalRevenue.Amount.Equal(byAdmin.TotalRevenue.Amount))
	suite.Equal(stats.UnitsSold, byAdmin.UnitsSold)

	_, err = suite.sales.SellerStatistics(ctx, other, seller.ID)
	suite.ErrorIs(err, domain.ErrForbidden)

	_, err = suite.sales.SellerStatistics(ctx, customer, uuid.Nil)
	suite.ErrorIs(err, domain.ErrForbidden)
}

func (suite *serviceSuite) TestListSales() {
	ctx := suite.T().Context()

	seller := principal(domain.RoleSeller)
	other := principal(domain.RoleSeller)
	customer := principal(domain.RoleCustomer)

	mine := suite.createProduct(seller, "1.00", 10)
	theirs := suite.createProduct(other, "1.00", 10)

	_, err := suite.orders.PlaceOrder(ctx, customer, domain.Cart{Lines: []domain.CartLine{
		{ProductID: mine.ID, Quantity: 1},
		{ProductID: theirs.ID, Quantity: 2},
	}})
	suite.Require().NoError(err)

	own, err := suite.sales.ListMySales(ctx, seller, domain.Page{})
	suite.Require().NoError(err)
	suite.Require().Len(own, 1)
	suite.Equal(mine.ID, own[0].ProductID)
	suite.Equal(mine.Name, own[0].ProductName)

	_, err = suite.sales.ListMySales(ctx, customer, domain.Page{})
	suite.ErrorIs(err, domain.ErrForbidden)

	_, err = suite.sales.ListAllSales(ctx, seller, domain.SaleFilter{})
	suite.ErrorIs(err, domain.ErrForbidden)

	all, err := suite.sales.ListAllSales(ctx, principal(domain.RoleAdmin), domain.SaleFilter{})
	suite.Require().NoError(err)
	suite.Len(all, 2)
}
