package http_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/nikolayk812/marketplace/internal/domain"
	"github.com/nikolayk812/marketplace/internal/metrics"
	transport "github.com/nikolayk812/marketplace/internal/transport/http"
	"github.com/nikolayk812/marketplace/internal/transport/http/handler"
	promtestutil "github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

const (
	customerToken = "customer-token"
	adminToken    = "admin-token"
)

var (
	customer = domain.Principal{ID: uuid.New(), Role: domain.RoleCustomer}
	admin    = domain.Principal{ID: uuid.New(), Role: domain.RoleAdmin}
)

type fakeAuthenticator struct{}

func (fakeAuthenticator) Authenticate(_ context.Context, token string) (domain.Principal, error) {
	switch token {
	case customerToken:
		return customer, nil
	case adminToken:
		return admin, nil
	}
	return domain.Principal{}, fmt.Errorf("token: %w", domain.ErrUnauthenticated)
}

type fakePinger struct {
	err error
}

func (p fakePinger) Ping(context.Context) error {
	return p.err
}

type fakeOrders struct {
	handler.OrderService

	placeOrder   func(domain.Principal, domain.Cart) (domain.Order, error)
	updateStatus func(domain.Principal, uuid.UUID, string) (domain.Order, error)
}

func (f *fakeOrders) PlaceOrder(_ context.Context, p domain.Principal, cart domain.Cart) (domain.Order, error) {
	return f.placeOrder(p, cart)
}

func (f *fakeOrders) UpdateOrderStatus(_ context.Context, p domain.Principal, id uuid.UUID, status string) (domain.Order, error) {
	return f.updateStatus(p, id, status)
}

type fakeCatalog struct {
	handler.CatalogService

	getProduct func(domain.Principal, uuid.UUID) (domain.Product, error)
}

func (f *fakeCatalog) GetProduct(_ context.Context, p domain.Principal, id uuid.UUID) (domain.Product, error) {
	return f.getProduct(p, id)
}

func (f *fakeCatalog) StoreCurrency() currency.Unit {
	return currency.EUR
}

type fakeSales struct {
	handler.SaleService

	stats func(domain.Principal, uuid.UUID) (domain.SellerStats, error)
}

func (f *fakeSales) SellerStatistics(_ context.Context, p domain.Principal, sellerID uuid.UUID) (domain.SellerStats, error) {
	return f.stats(p, sellerID)
}

type fakeIdentity struct {
	handler.IdentityService
}

type testApp struct {
	app     *fiber.App
	metrics *metrics.Metrics
	orders  *fakeOrders
	catalog *fakeCatalog
	sales   *fakeSales
	pinger  *fakePinger
}

func newTestApp(t *testing.T) *testApp {
	t.Helper()

	ta := &testApp{
		metrics: metrics.New(),
		orders:  &fakeOrders{},
		catalog: &fakeCatalog{},
		sales:   &fakeSales{},
		pinger:  &fakePinger{},
	}

	logger := zap.NewNop()
	ta.app = transport.NewApp(logger, ta.metrics)

	transport.RegisterRoutes(ta.app, &transport.Handlers{
		Auth:    handler.NewAuthHandler(&fakeIdentity{}, logger),
		Product: handler.NewProductHandler(ta.catalog, logger),
		Order:   handler.NewOrderHandler(ta.orders, logger),
		Sale:    handler.NewSaleHandler(ta.sales),
	}, fakeAuthenticator{}, ta.pinger, ta.metrics)

	return ta
}

func (ta *testApp) do(t *testing.T, method, target, token, body string) (int, map[string]any) {
	t.Helper()

	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}

	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	}
	if token != "" {
		req.Header.Set(fiber.HeaderAuthorization, "Bearer "+token)
	}

	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var decoded map[string]any
	if len(raw) > 0 && raw[0] == '{' {
		require.NoError(t, json.Unmarshal(raw, &decoded), string(raw))
	}

	return resp.StatusCode, decoded
}

func TestHealth(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, nethttp.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	ta.pinger.err = errors.New("connection refused")

	status, _ = ta.do(t, nethttp.MethodGet, "/health", "", "")
	assert.Equal(t, fiber.StatusServiceUnavailable, status)
}

func TestAuthMiddleware(t *testing.T) {
	ta := newTestApp(t)

	tests := []struct {
		name   string
		header string
	}{
		{name: "missing header"},
		{name: "wrong scheme", header: "Basic " + customerToken},
		{name: "unknown token", header: "Bearer nope"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(nethttp.MethodGet, "/api/orders/mine", nil)
			if tt.header != "" {
				req.Header.Set(fiber.HeaderAuthorization, tt.header)
			}

			resp, err := ta.app.Test(req, -1)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
		})
	}
}

func TestPlaceOrder(t *testing.T) {
	ta := newTestApp(t)
	productID := uuid.New()

	t.Run("created", func(t *testing.T) {
		ta.orders.placeOrder = func(p domain.Principal, cart domain.Cart) (domain.Order, error) {
			require.Equal(t, customer, p)
			require.Len(t, cart.Lines, 1)
			assert.Equal(t, productID, cart.Lines[0].ProductID)
			assert.EqualValues(t, 3, cart.Lines[0].Quantity)

			return domain.Order{
				ID:      uuid.New(),
				OwnerID: p.ID,
				Status:  domain.OrderStatusPending,
				Total:   domain.Money{Amount: decimal.RequireFromString("30"), Currency: currency.EUR},
			}, nil
		}

		status, body := ta.do(t, nethttp.MethodPost, "/api/orders", customerToken,
			fmt.Sprintf(`{"lines":[{"product_id":"%s","quantity":3}]}`, productID))
		require.Equal(t, fiber.StatusCreated, status)
		assert.Equal(t, "pending", body["status"])
		assert.Equal(t, map[string]any{"amount": "30.00", "currency": "EUR"}, body["total"])
	})

	t.Run("insufficient stock", func(t *testing.T) {
		ta.orders.placeOrder = func(domain.Principal, domain.Cart) (domain.Order, error) {
			return domain.Order{}, fmt.Errorf("s.tx.WithinTx: %w", &domain.InsufficientStockError{
				ProductID: productID,
				Requested: 4,
				Available: 2,
			})
		}

		status, body := ta.do(t, nethttp.MethodPost, "/api/orders", customerToken,
			fmt.Sprintf(`{"lines":[{"product_id":"%s","quantity":4}]}`, productID))
		require.Equal(t, fiber.StatusConflict, status)
		assert.Equal(t, "insufficient_stock", body["code"])
		assert.EqualValues(t, 2, body["available"])
		assert.EqualValues(t, 4, body["requested"])
		assert.Equal(t, productID.String(), body["product_id"])
	})

	t.Run("validation", func(t *testing.T) {
		status, body := ta.do(t, nethttp.MethodPost, "/api/orders", customerToken, `{"lines":[]}`)
		require.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "invalid_input", body["code"])
		assert.Contains(t, body["fields"], "lines")
	})

	t.Run("quantity above bound", func(t *testing.T) {
		status, body := ta.do(t, nethttp.MethodPost, "/api/orders", customerToken,
			fmt.Sprintf(`{"lines":[{"product_id":"%s","quantity":9223372036854775807}]}`, productID))
		require.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "invalid_input", body["code"])
		assert.Contains(t, body["fields"], "quantity")
	})

	t.Run("malformed body", func(t *testing.T) {
		status, body := ta.do(t, nethttp.MethodPost, "/api/orders", customerToken, `{"lines":`)
		require.Equal(t, fiber.StatusBadRequest, status)
		assert.Equal(t, "invalid_input", body["code"])
	})
}

func TestUpdateOrderStatus(t *testing.T) {
	ta := newTestApp(t)
	orderID := uuid.New()

	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
	}{
		{
			name:       "forbidden",
			err:        domain.ErrForbidden,
			wantStatus: fiber.StatusForbidden,
			wantCode:   "forbidden",
		},
		{
			name:       "invalid status",
			err:        fmt.Errorf("domain.ToOrderStatus: %w", domain.ErrInvalidStatus),
			wantStatus: fiber.StatusBadRequest,
			wantCode:   "invalid_status",
		},
		{
			name:       "invalid transition",
			err:        fmt.Errorf("shipped -> pending: %w", domain.ErrInvalidTransition),
			wantStatus: fiber.StatusConflict,
			wantCode:   "invalid_transition",
		},
		{
			name:       "not found",
			err:        fmt.Errorf("order %w", domain.ErrNotFound),
			wantStatus: fiber.StatusNotFound,
			wantCode:   "not_found",
		},
		{
			name:       "internal",
			err:        errors.New("connection reset"),
			wantStatus: fiber.StatusInternalServerError,
			wantCode:   "internal",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ta.orders.updateStatus = func(_ domain.Principal, id uuid.UUID, status string) (domain.Order, error) {
				assert.Equal(t, orderID, id)
				assert.Equal(t, "shipped", status)
				return domain.Order{}, tt.err
			}

			status, body := ta.do(t, nethttp.MethodPatch, "/api/orders/"+orderID.String()+"/status", adminToken, `{"status":"shipped"}`)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantCode, body["code"])
			if tt.wantStatus == fiber.StatusInternalServerError {
				assert.Equal(t, "internal error", body["error"])
			}
		})
	}

	status, body := ta.do(t, nethttp.MethodPatch, "/api/orders/not-a-uuid/status", adminToken, `{"status":"shipped"}`)
	assert.Equal(t, fiber.StatusBadRequest, status)
	assert.Equal(t, "invalid_input", body["code"])

	ta.orders.updateStatus = func(domain.Principal, uuid.UUID, string) (domain.Order, error) {
		assert.Fail(t, "customer request reached the order service")
		return domain.Order{}, nil
	}

	status, body = ta.do(t, nethttp.MethodPatch, "/api/orders/"+orderID.String()+"/status", customerToken, `{}`)
	assert.Equal(t, fiber.StatusForbidden, status)
	assert.Equal(t, "forbidden", body["code"])
}

func TestGetProduct(t *testing.T) {
	ta := newTestApp(t)
	productID := uuid.New()

	ta.catalog.getProduct = func(_ domain.Principal, id uuid.UUID) (domain.Product, error) {
		if id != productID {
			return domain.Product{}, fmt.Errorf("product %s: %w", id, domain.ErrNotFound)
		}
		return domain.Product{
			ID:            productID,
			Name:          "lamp",
			Price:         domain.Money{Amount: decimal.RequireFromString("12.5"), Currency: currency.EUR},
			StockQuantity: 3,
			Active:        true,
		}, nil
	}

	status, body := ta.do(t, nethttp.MethodGet, "/api/products/"+productID.String(), customerToken, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, "lamp", body["name"])
	assert.Equal(t, map[string]any{"amount": "12.50", "currency": "EUR"}, body["price"])

	status, body = ta.do(t, nethttp.MethodGet, "/api/products/"+uuid.NewString(), customerToken, "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", body["code"])
}

func TestSellerStats(t *testing.T) {
	ta := newTestApp(t)
	sellerID := uuid.New()

	ta.sales.stats = func(p domain.Principal, id uuid.UUID) (domain.SellerStats, error) {
		if !p.IsAdmin() {
			return domain.SellerStats{}, domain.ErrForbidden
		}
		return domain.SellerStats{
			SellerID:     id,
			TotalRevenue: domain.ZeroMoney(currency.EUR),
		}, nil
	}

	status, body := ta.do(t, nethttp.MethodGet, "/api/sellers/"+sellerID.String()+"/stats", adminToken, "")
	require.Equal(t, fiber.StatusOK, status)
	assert.Equal(t, sellerID.String(), body["seller_id"])
	assert.Equal(t, map[string]any{"amount": "0.00", "currency": "EUR"}, body["total_revenue"])
	assert.EqualValues(t, 0, body["units_sold"])

	status, _ = ta.do(t, nethttp.MethodGet, "/api/sellers/"+sellerID.String()+"/stats", customerToken, "")
	assert.Equal(t, fiber.StatusForbidden, status)
}

func TestUnknownRouteAndMetrics(t *testing.T) {
	ta := newTestApp(t)

	status, body := ta.do(t, nethttp.MethodGet, "/nope", "", "")
	assert.Equal(t, fiber.StatusNotFound, status)
	assert.Equal(t, "not_found", body["code"])

	ta.do(t, nethttp.MethodGet, "/health", "", "")

	assert.InDelta(t, 1, promtestutil.ToFloat64(ta.metrics.HTTPRequests.WithLabelValues("GET", "/health", "200")), 0)

	req := httptest.NewRequest(nethttp.MethodGet, "/metrics", nil)
	resp, err := ta.app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Contains(t, string(raw), "marketplace_http_requests_total")
}
