package http

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
	checkout "github.com/fooddel/client-gateway/internal/checkout/application"
	"github.com/fooddel/client-gateway/internal/marketplace"
	order "github.com/fooddel/client-gateway/internal/order/domain"
	"github.com/fooddel/client-gateway/internal/payment"
	"github.com/fooddel/client-gateway/internal/push"
	"github.com/fooddel/client-gateway/internal/session"
)

// upstream fakes the marketplace with the envelope shape the client
// expects.
type upstream struct {
	mux *http.ServeMux
}

func newUpstream() *upstream {
	return &upstream{mux: http.NewServeMux()}
}

func (u *upstream) respond(pattern string, data any) {
	u.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": data})
	})
}

func (u *upstream) fail(pattern string, status int, message string) {
	u.mux.HandleFunc(pattern, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		json.NewEncoder(w).Encode(map[string]any{"success": false, "message": message})
	})
}

type nullGateway struct{}

func (nullGateway) Charge(context.Context, payment.ChargeRequest) (payment.ChargeResult, error) {
	return payment.ChargeResult{PaymentID: "ch_test"}, nil
}

type memorySnapshots struct {
	mu    sync.Mutex
	carts map[string]cart.Cart
}

func (m *memorySnapshots) Save(_ context.Context, userID string, c cart.Cart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.carts[userID] = c
	return nil
}

func (m *memorySnapshots) Load(_ context.Context, userID string) (cart.Cart, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	c, ok := m.carts[userID]
	if !ok {
		return cart.Empty(), session.ErrNoSnapshot
	}
	return c, nil
}

func (m *memorySnapshots) Delete(_ context.Context, userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.carts, userID)
	return nil
}

type gatewayFixture struct {
	handler http.Handler
	manager *session.Manager
	router  *push.Router
	token   string
}

func newFixture(t *testing.T, up *upstream) *gatewayFixture {
	t.Helper()
	srv := httptest.NewServer(up.mux)
	t.Cleanup(srv.Close)

	log := slog.New(slog.DiscardHandler)
	market := marketplace.NewClient(srv.URL, log)
	router := push.NewRouter(log)
	manager := session.NewManager(router, &memorySnapshots{carts: make(map[string]cart.Cart)}, market, log)
	co := checkout.NewService(market, nullGateway{}, log)
	h := NewHandler(manager, market, co, log)

	return &gatewayFixture{
		handler: h.Routes(testSecret),
		manager: manager,
		router:  router,
		token:   signToken(t, testSecret, "u1"),
	}
}

func (f *gatewayFixture) request(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Authorization", "Bearer "+f.token)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	return rec
}

func decodeData(t *testing.T, rec *httptest.ResponseRecorder, into any) {
	t.Helper()
	var env struct {
		Success bool            `json:"success"`
		Message string          `json:"message"`
		Data    json.RawMessage `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	require.True(t, env.Success, "expected success envelope, got message %q", env.Message)
	if into != nil {
		require.NoError(t, json.Unmarshal(env.Data, into))
	}
}

func addItemBody(productID string, price float64, qty int) addItemRequest {
	return addItemRequest{
		Item:       cart.LineItem{ProductID: productID, Name: "Item " + productID, UnitPrice: price, Quantity: qty},
		Restaurant: cart.RestaurantRef{ID: "r1", Name: "Napoli", DeliveryFee: 25},
	}
}

func TestHealthzOpen(t *testing.T) {
	f := newFixture(t, newUpstream())
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestCartRoutesRequireAuth(t *testing.T) {
	f := newFixture(t, newUpstream())
	req := httptest.NewRequest(http.MethodGet, "/api/cart", nil)
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestCartAddAndQuote(t *testing.T) {
	f := newFixture(t, newUpstream())

	rec := f.request(t, http.MethodPost, "/api/cart/items", addItemBody("m1", 200, 2))
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	decodeData(t, rec, &view)
	assert.Equal(t, 400.0, view.Cart.Total)
	assert.Equal(t, 25.0, view.Quote.DeliveryFee)
	assert.Equal(t, 20.0, view.Quote.Tax)
	assert.Equal(t, 445.0, view.Quote.Total)
}

func TestCartUpdateAndRemove(t *testing.T) {
	f := newFixture(t, newUpstream())
	f.request(t, http.MethodPost, "/api/cart/items", addItemBody("m1", 100, 1))
	f.request(t, http.MethodPost, "/api/cart/items", addItemBody("m2", 50, 1))

	rec := f.request(t, http.MethodPut, "/api/cart/items/0", updateQuantityRequest{Quantity: 3})
	var view cartView
	decodeData(t, rec, &view)
	assert.Equal(t, 350.0, view.Cart.Total)

	rec = f.request(t, http.MethodDelete, "/api/cart/items/1", nil)
	decodeData(t, rec, &view)
	require.Len(t, view.Cart.Items, 1)
	assert.Equal(t, 300.0, view.Cart.Total)
}

func TestCartRejectsBadItem(t *testing.T) {
	f := newFixture(t, newUpstream())
	rec := f.request(t, http.MethodPost, "/api/cart/items", addItemRequest{})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCheckoutClearsCartOnSuccess(t *testing.T) {
	up := newUpstream()
	up.respond("POST /api/orders", map[string]any{
		"order": map[string]any{"id": "o1", "status": "placed", "orderNumber": "ORD1"},
	})
	f := newFixture(t, up)

	f.request(t, http.MethodPost, "/api/cart/items", addItemBody("m1", 200, 1))

	rec := f.request(t, http.MethodPost, "/api/checkout", checkoutRequest{
		Address:       &addressFixture,
		ContactNumber: "9876543210",
		DeliveryType:  "immediate",
		PaymentMethod: "cash_on_delivery",
	})
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = f.request(t, http.MethodGet, "/api/cart", nil)
	var view cartView
	decodeData(t, rec, &view)
	assert.Empty(t, view.Cart.Items, "cart must be cleared after successful checkout")
}

func TestCheckoutKeepsCartOnValidationError(t *testing.T) {
	f := newFixture(t, newUpstream())
	f.request(t, http.MethodPost, "/api/cart/items", addItemBody("m1", 200, 1))

	rec := f.request(t, http.MethodPost, "/api/checkout", checkoutRequest{
		Address:       &addressFixture,
		ContactNumber: "12345",
		DeliveryType:  "immediate",
		PaymentMethod: "cash_on_delivery",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = f.request(t, http.MethodGet, "/api/cart", nil)
	var view cartView
	decodeData(t, rec, &view)
	assert.Len(t, view.Cart.Items, 1, "cart must survive a failed checkout")
}

func TestCancelOrderBlockedLocally(t *testing.T) {
	up := newUpstream()
	up.respond("GET /api/orders/my-orders", []map[string]any{
		{"id": "o1", "status": "preparing", "deliveryPhase": "restaurant_preparing"},
	})
	f := newFixture(t, up)

	f.request(t, http.MethodGet, "/api/orders", nil)

	rec := f.request(t, http.MethodPut, "/api/orders/o1/cancel", cancelOrderRequest{Reason: "too slow"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestCancelOrderRelaysServerRejection(t *testing.T) {
	up := newUpstream()
	up.fail("PUT /api/orders/o2/cancel", http.StatusBadRequest, "Order cannot be cancelled at this stage")
	f := newFixture(t, up)

	rec := f.request(t, http.MethodPut, "/api/orders/o2/cancel", cancelOrderRequest{Reason: "changed my mind"})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var env struct {
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &env))
	assert.Equal(t, "Order cannot be cancelled at this stage", env.Message)
}

func TestListOrdersSeedsProjector(t *testing.T) {
	up := newUpstream()
	up.respond("GET /api/orders/my-orders", []map[string]any{
		{"id": "o1", "status": "placed", "deliveryPhase": "order_placed"},
	})
	f := newFixture(t, up)

	f.request(t, http.MethodGet, "/api/orders", nil)

	f.router.Route(context.Background(), "u1",
		[]byte(`{"type":"order_status_update","data":{"orderId":"o1","status":"confirmed","deliveryPhase":"order_placed"}}`))

	s, ok := f.manager.Get("u1")
	require.True(t, ok)
	got, found := s.Orders.Get("o1")
	require.True(t, found)
	assert.Equal(t, "confirmed", string(got.Status))
}

func TestTimeSlots(t *testing.T) {
	f := newFixture(t, newUpstream())
	rec := f.request(t, http.MethodGet, "/api/checkout/time-slots", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var slots []map[string]string
	decodeData(t, rec, &slots)
	assert.Len(t, slots, 26)
}

func TestFavoriteToggleRollsBackOnUpstreamError(t *testing.T) {
	up := newUpstream()
	up.respond("GET /api/users/favorites/restaurants", []map[string]any{})
	up.fail("PUT /api/users/favorites/restaurants/r9", http.StatusInternalServerError, "boom")
	f := newFixture(t, up)

	f.request(t, http.MethodGet, "/api/favorites/restaurants", nil)
	rec := f.request(t, http.MethodPut, "/api/favorites/restaurants/r9", nil)
	assert.Equal(t, http.StatusInternalServerError, rec.Code)

	s, ok := f.manager.Get("u1")
	require.True(t, ok)
	assert.False(t, s.Favorites.IsFavoriteRestaurant("r9"), "failed toggle must roll back")
}

func TestNotificationsMarkRead(t *testing.T) {
	up := newUpstream()
	up.respond("GET /api/notifications", map[string]any{
		"notifications": []map[string]any{
			{"id": "n1", "title": "A", "isRead": false},
			{"id": "n2", "title": "B", "isRead": false},
		},
		"unreadCount": 2,
	})
	up.respond("PUT /api/notifications/n1/read", nil)
	f := newFixture(t, up)

	f.request(t, http.MethodGet, "/api/notifications", nil)
	rec := f.request(t, http.MethodPut, "/api/notifications/n1/read", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var counts map[string]int
	decodeData(t, rec, &counts)
	assert.Equal(t, 1, counts["unreadCount"])
}

func TestRestaurantProxyRelaysFilters(t *testing.T) {
	up := newUpstream()
	var gotQuery string
	up.mux.HandleFunc("GET /api/restaurants", func(w http.ResponseWriter, r *http.Request) {
		gotQuery = r.URL.RawQuery
		json.NewEncoder(w).Encode(map[string]any{"success": true, "data": []any{}})
	})
	f := newFixture(t, up)

	rec := f.request(t, http.MethodGet, "/api/restaurants?city=Pune&cuisine=Indian", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, gotQuery, "city=Pune")
	assert.Contains(t, gotQuery, "cuisine=Indian")
}

func TestReviewRatingValidated(t *testing.T) {
	f := newFixture(t, newUpstream())
	rec := f.request(t, http.MethodPost, "/api/restaurants/r1/reviews", reviewRequest{Rating: 6})
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAddCartItemValidatesCustomizations(t *testing.T) {
	f := newFixture(t, newUpstream())
	groups := []cart.CustomizationGroup{
		{Name: "Size", Required: true, Options: []cart.CustomizationOption{{Name: "Small"}, {Name: "Large", Price: 40}}},
	}

	body := addItemBody("m1", 200, 1)
	body.CustomizationGroups = groups

	rec := f.request(t, http.MethodPost, "/api/cart/items", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "required group left unchosen")

	body.Item.Customizations = []cart.Customization{{Group: "Size", Option: "Large", Price: 40}}
	rec = f.request(t, http.MethodPost, "/api/cart/items", body)
	require.Equal(t, http.StatusOK, rec.Code)

	var view cartView
	decodeData(t, rec, &view)
	assert.Equal(t, 240.0, view.Cart.Total)

	body.Item.Customizations = []cart.Customization{{Group: "Size", Option: "Mega"}}
	rec = f.request(t, http.MethodPost, "/api/cart/items", body)
	assert.Equal(t, http.StatusBadRequest, rec.Code, "option outside the group")
}

func TestProfileSeedsFavorites(t *testing.T) {
	up := newUpstream()
	up.respond("GET /api/users/profile", map[string]any{
		"id":                  "u1",
		"name":                "Asha",
		"email":               "asha@example.com",
		"role":                "customer",
		"favoriteRestaurants": []string{"r1", "r2"},
		"favoriteMenuItems":   []string{"m5"},
	})
	f := newFixture(t, up)

	rec := f.request(t, http.MethodGet, "/api/users/profile", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var u marketplace.User
	decodeData(t, rec, &u)
	assert.Equal(t, "Asha", u.Name)

	s, ok := f.manager.Get("u1")
	require.True(t, ok)
	assert.True(t, s.Favorites.IsFavoriteRestaurant("r1"))
	assert.True(t, s.Favorites.IsFavoriteMenuItem("m5"))
	assert.False(t, s.Favorites.IsFavoriteRestaurant("r9"))
}

func TestAddAddress(t *testing.T) {
	up := newUpstream()
	up.respond("POST /api/users/addresses", []map[string]any{
		{"id": "a1", "street": "1 MG Road", "city": "Pune", "pincode": "411001"},
	})
	f := newFixture(t, up)

	rec := f.request(t, http.MethodPost, "/api/users/addresses", marketplace.UserAddress{
		Street: "1 MG Road", City: "Pune", Pincode: "411001",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var addresses []marketplace.UserAddress
	decodeData(t, rec, &addresses)
	require.Len(t, addresses, 1)
	assert.Equal(t, "a1", addresses[0].ID)

	rec = f.request(t, http.MethodPost, "/api/users/addresses", marketplace.UserAddress{Street: "1 MG Road"})
	assert.Equal(t, http.StatusBadRequest, rec.Code, "city and pincode required")
}

func TestDisconnectTearsDownSession(t *testing.T) {
	f := newFixture(t, newUpstream())
	f.request(t, http.MethodGet, "/api/cart", nil)

	_, ok := f.manager.Get("u1")
	require.True(t, ok)

	rec := f.request(t, http.MethodPost, "/api/session/disconnect", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	_, ok = f.manager.Get("u1")
	assert.False(t, ok)
}

var addressFixture = order.Address{Street: "1 MG Road", City: "Pune", Pincode: "411001"}
