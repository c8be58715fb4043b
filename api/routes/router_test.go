package routes

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"

	"github.com/angelmondragon/sellerbazaar-backend/internal/address"
	"github.com/angelmondragon/sellerbazaar-backend/internal/cart"
	"github.com/angelmondragon/sellerbazaar-backend/internal/checkout"
	"github.com/angelmondragon/sellerbazaar-backend/internal/delivery"
	"github.com/angelmondragon/sellerbazaar-backend/internal/orders"
	pkgAuth "github.com/angelmondragon/sellerbazaar-backend/pkg/auth"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/config"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/db/models"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/enums"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/logger"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/metrics"
	"github.com/angelmondragon/sellerbazaar-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type memoryIdempotency struct {
	mu   sync.Mutex
	data map[string]string
}

func (m *memoryIdempotency) Get(_ context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if v, ok := m.data[key]; ok {
		return v, nil
	}
	return "", redis.Nil
}

func (m *memoryIdempotency) SetNX(_ context.Context, key string, value any, _ time.Duration) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.data[key]; ok {
		return false, nil
	}
	m.data[key] = fmt.Sprint(value)
	return true, nil
}

func (m *memoryIdempotency) Set(_ context.Context, key string, value any, _ time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.data[key] = fmt.Sprint(value)
	return nil
}

func (m *memoryIdempotency) Del(_ context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, key := range keys {
		delete(m.data, key)
	}
	return nil
}

func (m *memoryIdempotency) IdempotencyKey(scope, id string) string {
	return "test:idempotency:" + scope + ":" + id
}

type stubCart struct{}

func (stubCart) view() (*cart.CartView, error) {
	return &cart.CartView{Items: []cart.ItemDTO{}, Total: decimal.Zero}, nil
}

func (s stubCart) Get(context.Context, uuid.UUID) (*cart.CartView, error) { return s.view() }
func (s stubCart) AddItem(context.Context, uuid.UUID, uuid.UUID) (*cart.CartView, error) {
	return s.view()
}
func (s stubCart) UpdateQuantity(context.Context, uuid.UUID, uuid.UUID, int) (*cart.CartView, error) {
	return s.view()
}
func (s stubCart) RemoveItem(context.Context, uuid.UUID, uuid.UUID) (*cart.CartView, error) {
	return s.view()
}
func (s stubCart) Clear(context.Context, uuid.UUID) (*cart.CartView, error) { return s.view() }
func (stubCart) Wishlist(context.Context, uuid.UUID) (*cart.WishlistView, error) {
	return &cart.WishlistView{}, nil
}
func (stubCart) AddToWishlist(context.Context, uuid.UUID, uuid.UUID) (*cart.WishlistView, error) {
	return &cart.WishlistView{}, nil
}
func (stubCart) RemoveFromWishlist(context.Context, uuid.UUID, uuid.UUID) (*cart.WishlistView, error) {
	return &cart.WishlistView{}, nil
}
func (stubCart) Open(context.Context, uuid.UUID) *cart.Store { return nil }

type stubDelivery struct{}

func (stubDelivery) EstimateForProduct(_ context.Context, input delivery.EstimateInput) (*delivery.EstimateView, error) {
	return &delivery.EstimateView{ProductID: input.ProductID}, nil
}

type stubAddresses struct{}

func (stubAddresses) List(context.Context, uuid.UUID) ([]models.SavedAddress, error) {
	return nil, nil
}
func (stubAddresses) Get(context.Context, uuid.UUID, uuid.UUID) (*models.SavedAddress, error) {
	return &models.SavedAddress{}, nil
}
func (stubAddresses) Create(context.Context, uuid.UUID, address.CreateInput) (*models.SavedAddress, error) {
	return &models.SavedAddress{ID: uuid.New()}, nil
}
func (stubAddresses) DefaultPostalCode(context.Context, uuid.UUID) (string, error) {
	return "", nil
}

type stubCheckout struct {
	mu      sync.Mutex
	submits int
}

func (s *stubCheckout) view() (*checkout.SessionView, error) {
	return &checkout.SessionView{Step: enums.CheckoutStepAddress}, nil
}

func (s *stubCheckout) Start(context.Context, uuid.UUID) (*checkout.SessionView, error) {
	return s.view()
}
func (s *stubCheckout) Get(context.Context, uuid.UUID) (*checkout.SessionView, error) {
	return s.view()
}
func (s *stubCheckout) SelectAddress(context.Context, uuid.UUID, checkout.AddressSelection) (*checkout.SessionView, error) {
	return s.view()
}
func (s *stubCheckout) RefreshCharges(context.Context, uuid.UUID) (*checkout.SessionView, error) {
	return s.view()
}
func (s *stubCheckout) ChoosePayment(context.Context, uuid.UUID, enums.PaymentMethod) (*checkout.SessionView, error) {
	return s.view()
}
func (s *stubCheckout) Review(context.Context, uuid.UUID) (*checkout.SessionView, error) {
	return s.view()
}
func (s *stubCheckout) Back(context.Context, uuid.UUID) (*checkout.SessionView, error) {
	return s.view()
}
func (s *stubCheckout) Submit(context.Context, uuid.UUID, checkout.SubmitInput) (*checkout.SubmitResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.submits++
	return &checkout.SubmitResult{OrderID: uuid.New(), OrderNumber: "SB-20261016-0000AAAA", PaymentMethod: enums.PaymentMethodCOD}, nil
}

type stubOrders struct{}

func (stubOrders) List(context.Context, uuid.UUID, pagination.Params) (*orders.OrderList, error) {
	return &orders.OrderList{}, nil
}
func (stubOrders) Get(context.Context, uuid.UUID, uuid.UUID) (*orders.OrderDetail, error) {
	return &orders.OrderDetail{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App:  config.AppConfig{Env: "dev"},
		JWT:  config.JWTConfig{Secret: "test-secret", Issuer: "https://auth.sellerbazaar.test", Audience: "authenticated"},
		CORS: config.CORSConfig{AllowedOrigins: []string{"https://shop.sellerbazaar.test"}},
		Idempotency: config.IdempotencyConfig{
			AddressTTL:  24 * time.Hour,
			CheckoutTTL: 7 * 24 * time.Hour,
			InFlight:    30 * time.Second,
		},
	}
}

type testRouter struct {
	handler  http.Handler
	checkout *stubCheckout
	registry *prometheus.Registry
}

func newTestRouter(cfg *config.Config) testRouter {
	verifier, err := pkgAuth.NewVerifier(cfg.JWT)
	if err != nil {
		panic(err)
	}
	reg := prometheus.NewRegistry()
	checkoutSvc := &stubCheckout{}
	handler := NewRouter(cfg, logger.Nop(), Infra{
		DB:          stubPinger{},
		Redis:       stubPinger{},
		Idempotency: &memoryIdempotency{data: map[string]string{}},
		Tokens:      verifier,
		Gatherer:    reg,
		HTTPMetrics: metrics.NewHTTPMetrics(reg),
	}, Services{
		Cart:      stubCart{},
		Delivery:  stubDelivery{},
		Addresses: stubAddresses{},
		Checkout:  checkoutSvc,
		Orders:    stubOrders{},
	})
	return testRouter{handler: handler, checkout: checkoutSvc, registry: reg}
}

func buildToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now(), uuid.New(), time.Hour)
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestHealthIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, path := range []string{"/health/live", "/health/ready"} {
		resp := httptest.NewRecorder()
		router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, path, nil))
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/api/v1/cart", nil))
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token got %d", resp.Code)
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg)

	for _, path := range []string{"/api/v1/cart", "/api/v1/wishlist", "/api/v1/checkout/session", "/api/v1/orders", "/api/v1/addresses"} {
		req := httptest.NewRequest(http.MethodGet, path, nil)
		req.Header.Set("Authorization", "Bearer "+token)
		resp := httptest.NewRecorder()
		router.handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestCheckoutSubmitIsIdempotent(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	token := buildToken(t, cfg)

	missingKey := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", nil)
	missingKey.Header.Set("Authorization", "Bearer "+token)
	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, missingKey)
	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 without Idempotency-Key got %d", resp.Code)
	}

	var bodies []string
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/checkout", strings.NewReader(`{}`))
		req.Header.Set("Authorization", "Bearer "+token)
		req.Header.Set("Idempotency-Key", "attempt-1")
		resp := httptest.NewRecorder()
		router.handler.ServeHTTP(resp, req)
		if resp.Code != http.StatusCreated {
			t.Fatalf("attempt %d: expected 201 got %d", i, resp.Code)
		}
		bodies = append(bodies, resp.Body.String())
	}
	if router.checkout.submits != 1 {
		t.Fatalf("expected one submit, got %d", router.checkout.submits)
	}
	if bodies[0] != bodies[1] {
		t.Fatalf("replay body differs: %s vs %s", bodies[0], bodies[1])
	}
}

func TestMetricsEndpointExportsHTTPCounters(t *testing.T) {
	router := newTestRouter(testConfig())
	router.handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health/live", nil))

	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if !strings.Contains(resp.Body.String(), `sellerbazaar_http_requests_total{method="GET",route="/health/live",status="200"} 1`) {
		t.Fatalf("expected live request counter in %s", resp.Body.String())
	}
}

func TestCORSPreflight(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/checkout", nil)
	req.Header.Set("Origin", "https://shop.sellerbazaar.test")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization, Idempotency-Key")
	resp := httptest.NewRecorder()
	router.handler.ServeHTTP(resp, req)

	if got := resp.Header().Get("Access-Control-Allow-Origin"); got != "https://shop.sellerbazaar.test" {
		t.Fatalf("expected allowed origin echoed, got %q (status %d)", got, resp.Code)
	}
}

func TestRouteTable(t *testing.T) {
	router := newTestRouter(testConfig())
	mux, ok := router.handler.(chi.Routes)
	if !ok {
		t.Fatalf("expected chi router")
	}

	registered := map[string]bool{}
	err := chi.Walk(mux, func(method, route string, _ http.Handler, _ ...func(http.Handler) http.Handler) error {
		registered[method+" "+strings.TrimSuffix(route, "/")] = true
		return nil
	})
	if err != nil {
		t.Fatalf("walk routes: %v", err)
	}

	want := []string{
		"GET /api/v1/cart",
		"DELETE /api/v1/cart",
		"POST /api/v1/cart/items",
		"PATCH /api/v1/cart/items/{productId}",
		"DELETE /api/v1/cart/items/{productId}",
		"GET /api/v1/wishlist",
		"PUT /api/v1/wishlist/{productId}",
		"DELETE /api/v1/wishlist/{productId}",
		"GET /api/v1/products/{productId}/delivery-estimate",
		"GET /api/v1/addresses",
		"POST /api/v1/addresses",
		"POST /api/v1/checkout",
		"POST /api/v1/checkout/session",
		"GET /api/v1/checkout/session",
		"PUT /api/v1/checkout/session/address",
		"POST /api/v1/checkout/session/charges",
		"PUT /api/v1/checkout/session/payment-method",
		"POST /api/v1/checkout/session/review",
		"POST /api/v1/checkout/session/back",
		"GET /api/v1/orders",
		"GET /api/v1/orders/{orderId}",
		"GET /health/live",
		"GET /health/ready",
		"GET /metrics",
	}
	for _, route := range want {
		if !registered[route] {
			t.Fatalf("route %s not registered", route)
		}
	}
}
