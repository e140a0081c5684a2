package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/policy"
	"github.com/nikolayk812/marketplace/internal/port"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/text/currency"
)

type SaleService struct {
	orders   port.OrderRepository
	products port.ProductRepository
	currency currency.Unit
	tracer   trace.Tracer
}

func NewSaleService(orders port.OrderRepository, products port.ProductRepository, storeCurrency currency.Unit) *SaleService {
	return &SaleService{
		orders:   orders,
		products: products,
		currency: storeCurrency,
		tracer:   otel.Tracer("service/sale"),
	}
}

// SellerStatistics aggregates the sales of sellerID; uuid.Nil means the caller.
// A seller without sales gets zero values.
func (s *SaleService) SellerStatistics(ctx context.Context, principal domain.Principal, sellerID uuid.UUID) (domain.SellerStats, error) {
	ctx, span := s.tracer.Start(ctx, "SaleService.SellerStatistics")
	defer span.End()

	if principal.IsZero() {
		return domain.SellerStats{}, domain.ErrUnauthenticated
	}

	if sellerID == uuid.Nil {
		sellerID = principal.ID
	}

	span.SetAttributes(attribute.String("seller_id", sellerID.String()))

	if !policy.CanViewSellerStats(principal, sellerID) {
		return domain.SellerStats{}, domain.ErrForbidden
	}

	summary, err := s.orders.SellerSalesSummary(ctx, sellerID)
	if err != nil {
		return domain.SellerStats{}, fmt.Errorf("s.orders.SellerSalesSummary: %w", err)
	}

	activeProducts, err := s.products.CountActiveProducts(ctx, sellerID)
	if err != nil {
		return domain.SellerStats{}, fmt.Errorf("s.products.CountActiveProducts: %w", err)
	}

	return domain.SellerStats{
		SellerID:       sellerID,
		TotalRevenue:   domain.Money{Amount: summary.Revenue, Currency: s.currency},
		UnitsSold:      summary.UnitsSold,
		ActiveProducts: activeProducts,
		PendingSales:   summary.PendingSales,
		DeliveredSales: summary.DeliveredSales,
	}, nil
}

func (s *SaleService) ListMySales(ctx context.Context, principal domain.Principal, page domain.Page) ([]domain.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "SaleService.ListMySales")
	defer span.End()

	if !policy.CanListOwnSales(principal) {
		return nil, domain.ErrForbidden
	}

	sales, err := s.orders.SearchSales(ctx, domain.SaleFilter{
		SellerIDs: []uuid.UUID{principal.ID},
		Page:      page,
	})
	if err != nil {
		return nil, fmt.Errorf("s.orders.SearchSales: %w", err)
	}

	return sales, nil
}

func (s *SaleService) ListAllSales(ctx context.Context, principal domain.Principal, filter domain.SaleFilter) ([]domain.Sale, error) {
	ctx, span := s.tracer.Start(ctx, "SaleService.ListAllSales")
	defer span.End()

	if !policy.CanListAllSales(principal) {
		return nil, domain.ErrForbidden
	}

	sales, err := s.orders.SearchSales(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("s.orders.SearchSales: %w", err)
	}

	return sales, nil
}
