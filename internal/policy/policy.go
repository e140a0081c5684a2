// Package policy holds the access rules of the marketplace. Every predicate is pure.
package policy

import (
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
)

// CanViewOrder allows the order owner and admins.
func CanViewOrder(p domain.Principal, order domain.Order) bool {
	return p.IsAdmin() || (!p.IsZero() && p.ID == order.OwnerID)
}

// CanManageProduct allows admins and the seller owning the product.
func CanManageProduct(p domain.Principal, product domain.Product) bool {
	return p.IsAdmin() || (p.IsSeller() && p.ID == product.OwnerID)
}

func CanCreateProduct(p domain.Principal) bool {
	return p.IsAdmin() || p.IsSeller()
}

func CanListAllOrders(p domain.Principal) bool {
	return p.IsAdmin()
}

func CanListAllSales(p domain.Principal) bool {
	return p.IsAdmin()
}

func CanListUsers(p domain.Principal) bool {
	return p.IsAdmin()
}

func CanManageUsers(p domain.Principal) bool {
	return p.IsAdmin()
}

func CanListOwnSales(p domain.Principal) bool {
	return p.IsAdmin() || p.IsSeller()
}

func CanUpdateOrderStatus(p domain.Principal) bool {
	return p.IsAdmin()
}

// CanViewSellerStats lets a seller read their own statistics and an admin read anyone's.
func CanViewSellerStats(p domain.Principal, sellerID uuid.UUID) bool {
	return p.IsAdmin() || (p.IsSeller() && p.ID == sellerID)
}
