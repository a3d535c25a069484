package api

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/givespark/checkout-api/internal/config"
	"github.com/givespark/checkout-api/internal/domain"
	"github.com/givespark/checkout-api/internal/ratelimit"
	"github.com/givespark/checkout-api/internal/repository"
	apperrors "github.com/givespark/checkout-api/pkg/errors"
)

// In-memory repositories for exercising the full HTTP surface.

type memProducts struct{ products map[uuid.UUID]*domain.Product }

func (m *memProducts) GetByIDs(_ context.Context, ids []uuid.UUID) ([]*domain.Product, error) {
	var out []*domain.Product
	for _, id := range ids {
		if p, ok := m.products[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

func (m *memProducts) Create(_ context.Context, p *domain.Product) error {
	m.products[p.ID] = p
	return nil
}

type memOrders struct{ orders map[uuid.UUID]*domain.Order }

func (m *memOrders) Create(_ context.Context, o *domain.Order) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	now := time.Now()
	o.CreatedAt, o.UpdatedAt = now, now
	m.orders[o.ID] = o
	return nil
}

func (m *memOrders) GetByID(_ context.Context, id uuid.UUID) (*domain.Order, error) {
	if o, ok := m.orders[id]; ok {
		return o, nil
	}
	return nil, &apperrors.ErrNotFound{Resource: "order", ID: id.String()}
}

func (m *memOrders) UpdateStatus(_ context.Context, id uuid.UUID, status domain.OrderStatus) error {
	m.orders[id].Status = status
	return nil
}

func (m *memOrders) UpdatePaymentSession(_ context.Context, id uuid.UUID, sessionID string, status domain.OrderStatus) error {
	m.orders[id].PaymentSessionID = &sessionID
	m.orders[id].Status = status
	return nil
}

type memItems struct{ items map[uuid.UUID][]*domain.OrderItem }

func (m *memItems) CreateBatch(_ context.Context, items []*domain.OrderItem) error {
	for _, item := range items {
		m.items[item.OrderID] = append(m.items[item.OrderID], item)
	}
	return nil
}

func (m *memItems) GetByOrderID(_ context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	return m.items[orderID], nil
}

type memDonors struct{ donors map[string]*domain.Donor }

func (m *memDonors) GetByEmailAndCampaign(_ context.Context, email, campaignID string) (*domain.Donor, error) {
	if d, ok := m.donors[email+"|"+campaignID]; ok {
		return d, nil
	}
	return nil, &apperrors.ErrNotFound{Resource: "donor", ID: email}
}

func (m *memDonors) Create(_ context.Context, d *domain.Donor) error {
	m.donors[d.Email+"|"+d.CampaignID] = d
	return nil
}

func (m *memDonors) Update(_ context.Context, d *domain.Donor) error {
	m.donors[d.Email+"|"+d.CampaignID] = d
	return nil
}

type memIdempotency struct{ records map[string]*domain.IdempotencyKey }

func (m *memIdempotency) Get(_ context.Context, key string) (*domain.IdempotencyKey, error) {
	if r, ok := m.records[key]; ok {
		return r, nil
	}
	return nil, &apperrors.ErrNotFound{Resource: "idempotency key", ID: key}
}

func (m *memIdempotency) Create(_ context.Context, r *domain.IdempotencyKey) error {
	m.records[r.Key] = r
	return nil
}

type testEnv struct {
	router    http.Handler
	orders    *memOrders
	donors    *memDonors
	productID uuid.UUID
}

func newTestEnv(t *testing.T, adminKey string) *testEnv {
	t.Helper()

	stripeServer := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"cs_test_1","url":"https://checkout.stripe.com/c/pay/cs_test_1"}`)
	}))
	t.Cleanup(stripeServer.Close)

	productID := uuid.New()
	products := &memProducts{products: map[uuid.UUID]*domain.Product{
		productID: {ID: productID, Name: "Cookie Dough Tub", Price: 25.00, Cost: 10.00, IsActive: true},
	}}
	orders := &memOrders{orders: make(map[uuid.UUID]*domain.Order)}
	donors := &memDonors{donors: make(map[string]*domain.Donor)}

	repos := &repository.Repositories{
		Product:     products,
		Order:       orders,
		OrderItem:   &memItems{items: make(map[uuid.UUID][]*domain.OrderItem)},
		Donor:       donors,
		Idempotency: &memIdempotency{records: make(map[string]*domain.IdempotencyKey)},
	}

	var adminKeyHash string
	if adminKey != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminKey), bcrypt.MinCost)
		require.NoError(t, err)
		adminKeyHash = string(hash)
	}

	cfg := &config.Config{
		Environment: "test",
		Stripe:      config.StripeConfig{SecretKey: "sk_test_123", APIBaseURL: stripeServer.URL},
		Campaign:    config.CampaignConfig{ID: "camp-1", Currency: "usd"},
		Checkout: config.CheckoutConfig{
			SuccessPath:    "/checkout/success",
			CancelPath:     "/checkout/cancelled",
			FallbackOrigin: "http://localhost:3000",
		},
		Donor: config.DonorConfig{TotalsPolicy: domain.TotalsPolicyInsertOnly},
		API:   config.APIConfig{AdminKeyHash: adminKeyHash},
	}

	limiter := ratelimit.NewMemoryLimiter(10, time.Minute)
	router := NewRouter(cfg, repos, limiter, zap.NewNop())

	return &testEnv{router: router, orders: orders, donors: donors, productID: productID}
}

func (e *testEnv) checkout(body, ip string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest("POST", "/v1/checkout", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if ip != "" {
		req.Header.Set("X-Forwarded-For", ip)
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) validBody() string {
	return fmt.Sprintf(`{"cart":[{"productId":"%s","quantity":2}],"customerInfo":{"email":"a@b.com"}}`, e.productID)
}

func TestCheckout_HappyPath(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.checkout(env.validBody(), "203.0.113.9", map[string]string{"Origin": "https://shop.example.org"})

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"url":"https://checkout.stripe.com/c/pay/cs_test_1"`)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))

	require.Len(t, env.orders.orders, 1)
	for _, order := range env.orders.orders {
		assert.Equal(t, 50.00, order.TotalAmount)
		assert.Equal(t, 30.00, order.ProfitAmount)
		assert.Equal(t, domain.OrderStatusAwaitingCompletion, order.Status)
	}

	donor := env.donors.donors["a@b.com|camp-1"]
	require.NotNil(t, donor)
	assert.Equal(t, 50.00, donor.TotalDonated)
	assert.Equal(t, 1, donor.DonationCount)
}

func TestCheckout_ValidationFailure(t *testing.T) {
	env := newTestEnv(t, "")

	w := env.checkout(`{"cart":[],"customerInfo":{"email":"nope"}}`, "203.0.113.9", nil)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, "cart")
	assert.Contains(t, body, "customerInfo.email")
	assert.Empty(t, env.orders.orders, "validation failures leave no side effects")
}

func TestCheckout_UnknownProductReturns500(t *testing.T) {
	env := newTestEnv(t, "")

	body := fmt.Sprintf(`{"cart":[{"productId":"%s","quantity":1}],"customerInfo":{"email":"a@b.com"}}`, uuid.New())
	w := env.checkout(body, "203.0.113.9", nil)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Empty(t, env.orders.orders)
}

func TestCheckout_RateLimit(t *testing.T) {
	env := newTestEnv(t, "")

	for i := 0; i < 10; i++ {
		w := env.checkout(env.validBody(), "198.51.100.1", nil)
		assert.Equal(t, http.StatusOK, w.Code, "request %d within the window", i+1)
	}

	w := env.checkout(env.validBody(), "198.51.100.1", nil)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.NotEmpty(t, w.Header().Get("Retry-After"))

	// A different client is unaffected.
	w = env.checkout(env.validBody(), "198.51.100.2", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestCheckout_DuplicateSubmissionsCreateDistinctOrders(t *testing.T) {
	env := newTestEnv(t, "")

	assert.Equal(t, http.StatusOK, env.checkout(env.validBody(), "203.0.113.9", nil).Code)
	assert.Equal(t, http.StatusOK, env.checkout(env.validBody(), "203.0.113.9", nil).Code)

	assert.Len(t, env.orders.orders, 2)
}

func TestCheckout_IdempotencyKeyCollapsesRetries(t *testing.T) {
	env := newTestEnv(t, "")
	headers := map[string]string{"Idempotency-Key": "key-1"}

	first := env.checkout(env.validBody(), "203.0.113.9", headers)
	require.Equal(t, http.StatusOK, first.Code)

	second := env.checkout(env.validBody(), "203.0.113.9", headers)
	require.Equal(t, http.StatusOK, second.Code)
	assert.Equal(t, first.Body.String(), second.Body.String())
	assert.Len(t, env.orders.orders, 1, "retry with the same key creates no new order")

	conflicting := env.checkout(
		fmt.Sprintf(`{"cart":[{"productId":"%s","quantity":3}],"customerInfo":{"email":"a@b.com"}}`, env.productID),
		"203.0.113.9", headers)
	assert.Equal(t, http.StatusConflict, conflicting.Code)
}

func TestPreflight(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest("OPTIONS", "/v1/checkout", nil)
	req.Header.Set("Origin", "https://shop.example.org")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Headers"), "content-type")
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
}

func TestAdminOrders_Auth(t *testing.T) {
	env := newTestEnv(t, "admin-secret")

	require.Equal(t, http.StatusOK, env.checkout(env.validBody(), "203.0.113.9", nil).Code)
	var orderID uuid.UUID
	for id := range env.orders.orders {
		orderID = id
	}

	req := httptest.NewRequest("GET", "/v1/admin/orders/"+orderID.String(), nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	req = httptest.NewRequest("GET", "/v1/admin/orders/"+orderID.String(), nil)
	req.Header.Set("Authorization", "Bearer admin-secret")
	w = httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), orderID.String())
	assert.Contains(t, w.Body.String(), `"total_amount":50`)
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t, "")

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
