// Package http is the gateway's HTTP surface: the session-scoped cart,
// checkout and order routes, proxies to the marketplace catalog, and
// the server-sent event stream carrying push updates to the browser.
package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
	checkout "github.com/fooddel/client-gateway/internal/checkout/application"
	"github.com/fooddel/client-gateway/internal/marketplace"
	order "github.com/fooddel/client-gateway/internal/order/domain"
	"github.com/fooddel/client-gateway/internal/session"
)

type Handler struct {
	sessions *session.Manager
	market   *marketplace.Client
	checkout *checkout.Service
	log      *slog.Logger
}

func NewHandler(sessions *session.Manager, market *marketplace.Client, co *checkout.Service, log *slog.Logger) *Handler {
	return &Handler{sessions: sessions, market: market, checkout: co, log: log}
}

// Routes builds the router. Everything except health requires auth.
func (h *Handler) Routes(jwtSecret string) http.Handler {
	r := chi.NewRouter()
	r.Use(RequestID)
	r.Use(Metrics)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	r.Group(func(r chi.Router) {
		r.Use(Auth(jwtSecret))

		r.Route("/api/cart", func(r chi.Router) {
			r.Get("/", h.getCart)
			r.Post("/items", h.addCartItem)
			r.Put("/items/{index}", h.updateCartItem)
			r.Delete("/items/{index}", h.removeCartItem)
			r.Delete("/", h.clearCart)
			r.Get("/quote", h.quoteCart)
		})

		r.Post("/api/checkout", h.placeOrder)
		r.Get("/api/checkout/time-slots", h.timeSlots)

		r.Route("/api/orders", func(r chi.Router) {
			r.Get("/", h.listOrders)
			r.Get("/{id}", h.getOrder)
			r.Put("/{id}/cancel", h.cancelOrder)
			r.Put("/{id}/status", h.updateOrderStatus)
			r.Get("/restaurant/{restaurantId}", h.restaurantOrders)
		})

		r.Route("/api/restaurants", func(r chi.Router) {
			r.Get("/", h.listRestaurants)
			r.Post("/", h.createRestaurant)
			r.Get("/my-restaurant", h.myRestaurant)
			r.Get("/{id}", h.getRestaurant)
			r.Get("/{id}/menu", h.getMenu)
			r.Get("/{id}/stats", h.restaurantStats)
			r.Put("/{id}/toggle-orders", h.toggleOrders)
			r.Get("/{id}/reviews", h.restaurantReviews)
			r.Post("/{id}/reviews", h.createReview)
		})

		r.Route("/api/menu-items", func(r chi.Router) {
			r.Post("/", h.createMenuItem)
			r.Put("/{id}", h.updateMenuItem)
			r.Delete("/{id}", h.deleteMenuItem)
			r.Put("/{id}/toggle-availability", h.toggleAvailability)
		})

		r.Put("/api/reviews/{id}/respond", h.respondToReview)

		r.Route("/api/favorites", func(r chi.Router) {
			r.Get("/restaurants", h.favoriteRestaurants)
			r.Get("/menu-items", h.favoriteMenuItems)
			r.Put("/restaurants/{id}", h.toggleFavoriteRestaurant)
			r.Put("/menu-items/{id}", h.toggleFavoriteMenuItem)
		})

		r.Route("/api/users", func(r chi.Router) {
			r.Get("/profile", h.profile)
			r.Post("/addresses", h.addAddress)
		})

		r.Route("/api/notifications", func(r chi.Router) {
			r.Get("/", h.listNotifications)
			r.Put("/{id}/read", h.markNotificationRead)
			r.Put("/read-all", h.markAllNotificationsRead)
		})

		r.Get("/api/events", h.streamEvents)
		r.Post("/api/session/disconnect", h.disconnect)
	})

	return otelhttp.NewHandler(r, "gateway")
}

// connect returns the caller's session, creating it on first request.
func (h *Handler) connect(w http.ResponseWriter, r *http.Request) (*session.Session, bool) {
	s, err := h.sessions.Connect(r.Context(), UserID(r.Context()))
	if err != nil {
		writeError(w, http.StatusInternalServerError, "session unavailable")
		return nil, false
	}
	return s, true
}

// relayError maps a failed marketplace call onto our response,
// preserving the server's status and message.
func (h *Handler) relayError(w http.ResponseWriter, err error) {
	var apiErr *marketplace.APIError
	if errors.As(err, &apiErr) {
		writeError(w, apiErr.StatusCode, apiErr.Message)
		return
	}
	writeError(w, http.StatusBadGateway, "marketplace unavailable")
}

func decode(w http.ResponseWriter, r *http.Request, into any) bool {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return false
	}
	return true
}

// --- cart ---

func (h *Handler) getCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	state := s.Cart.State()
	writeJSON(w, http.StatusOK, cartView{Cart: state, Quote: h.checkout.Quote(state)})
}

func (h *Handler) addCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	var req addItemRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Item.ProductID == "" || req.Item.Quantity <= 0 || req.Restaurant.ID == "" {
		writeError(w, http.StatusBadRequest, "item and restaurant required")
		return
	}
	if err := cart.ValidateSelection(req.CustomizationGroups, req.Item.Customizations); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state := s.Cart.Add(r.Context(), req.Item, req.Restaurant)
	writeJSON(w, http.StatusOK, cartView{Cart: state, Quote: h.checkout.Quote(state)})
}

func (h *Handler) updateCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item index")
		return
	}
	var req updateQuantityRequest
	if !decode(w, r, &req) {
		return
	}
	state := s.Cart.UpdateQuantity(r.Context(), index, req.Quantity)
	writeJSON(w, http.StatusOK, cartView{Cart: state, Quote: h.checkout.Quote(state)})
}

func (h *Handler) removeCartItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	index, err := strconv.Atoi(chi.URLParam(r, "index"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid item index")
		return
	}
	state := s.Cart.Remove(r.Context(), index)
	writeJSON(w, http.StatusOK, cartView{Cart: state, Quote: h.checkout.Quote(state)})
}

func (h *Handler) clearCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	state := s.Cart.Clear(r.Context())
	writeJSON(w, http.StatusOK, cartView{Cart: state, Quote: h.checkout.Quote(state)})
}

func (h *Handler) quoteCart(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, h.checkout.Quote(s.Cart.State()))
}

// --- checkout ---

func (h *Handler) placeOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	var req checkoutRequest
	if !decode(w, r, &req) {
		return
	}

	placed, err := h.checkout.PlaceOrder(r.Context(), req.input(s.Cart.State()))
	if err != nil {
		h.writeCheckoutError(w, err)
		return
	}

	// The cart is cleared only after the whole flow, payment included,
	// succeeded.
	s.Cart.Clear(r.Context())
	s.Orders.SetCurrentOrder(placed)
	writeJSON(w, http.StatusCreated, placed)
}

func (h *Handler) writeCheckoutError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, checkout.ErrEmptyCart),
		errors.Is(err, checkout.ErrNoAddress),
		errors.Is(err, checkout.ErrInvalidContact),
		errors.Is(err, checkout.ErrMissingSchedule),
		errors.Is(err, checkout.ErrMissingPaymentSource):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, checkout.ErrPaymentDeclined):
		writeError(w, http.StatusPaymentRequired, err.Error())
	case errors.Is(err, checkout.ErrPaymentVerification):
		writeError(w, http.StatusConflict, err.Error())
	default:
		h.relayError(w, err)
	}
}

func (h *Handler) timeSlots(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.checkout.TimeSlots())
}

// --- orders ---

func (h *Handler) listOrders(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	orders, err := h.market.ListOrders(r.Context())
	if err != nil {
		h.relayError(w, err)
		return
	}
	s.Orders.SetOrders(orders)
	writeJSON(w, http.StatusOK, orders)
}

func (h *Handler) getOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	o, err := h.market.GetOrder(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	s.Orders.SetCurrentOrder(o)
	writeJSON(w, http.StatusOK, o)
}

func (h *Handler) cancelOrder(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	if held, found := s.Orders.Get(id); found && !held.Status.CanCancel() {
		writeError(w, http.StatusBadRequest, "order can no longer be cancelled")
		return
	}

	var req cancelOrderRequest
	if !decode(w, r, &req) {
		return
	}
	cancelled, err := h.market.CancelOrder(r.Context(), id, req.Reason)
	if err != nil {
		h.relayError(w, err)
		return
	}
	s.Orders.SetCurrentOrder(cancelled)
	writeJSON(w, http.StatusOK, cancelled)
}

func (h *Handler) updateOrderStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if !decode(w, r, &req) {
		return
	}
	updated, err := h.market.UpdateOrderStatus(r.Context(), chi.URLParam(r, "id"), req.Status)
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) restaurantOrders(w http.ResponseWriter, r *http.Request) {
	status := order.Status(r.URL.Query().Get("status"))
	orders, err := h.market.RestaurantOrders(r.Context(), chi.URLParam(r, "restaurantId"), status)
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, orders)
}

// --- restaurants and menu ---

func (h *Handler) listRestaurants(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	restaurants, err := h.market.ListRestaurants(r.Context(), marketplace.RestaurantFilter{
		City:    q.Get("city"),
		Cuisine: q.Get("cuisine"),
		Search:  q.Get("search"),
		OpenNow: q.Get("isOpen") == "true",
	})
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) getRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.market.GetRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (h *Handler) getMenu(w http.ResponseWriter, r *http.Request) {
	menu, err := h.market.GetMenu(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, menu)
}

func (h *Handler) createRestaurant(w http.ResponseWriter, r *http.Request) {
	var req marketplace.Restaurant
	if !decode(w, r, &req) {
		return
	}
	created, err := h.market.CreateRestaurant(r.Context(), req)
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) myRestaurant(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.market.GetMyRestaurant(r.Context())
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (h *Handler) restaurantStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.market.GetRestaurantStats(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

func (h *Handler) toggleOrders(w http.ResponseWriter, r *http.Request) {
	restaurant, err := h.market.ToggleAcceptingOrders(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, restaurant)
}

func (h *Handler) createMenuItem(w http.ResponseWriter, r *http.Request) {
	var req marketplace.MenuItem
	if !decode(w, r, &req) {
		return
	}
	created, err := h.market.CreateMenuItem(r.Context(), req)
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, created)
}

func (h *Handler) updateMenuItem(w http.ResponseWriter, r *http.Request) {
	var req marketplace.MenuItem
	if !decode(w, r, &req) {
		return
	}
	req.ID = chi.URLParam(r, "id")
	updated, err := h.market.UpdateMenuItem(r.Context(), req)
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (h *Handler) deleteMenuItem(w http.ResponseWriter, r *http.Request) {
	if err := h.market.DeleteMenuItem(r.Context(), chi.URLParam(r, "id")); err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, nil)
}

func (h *Handler) toggleAvailability(w http.ResponseWriter, r *http.Request) {
	item, err := h.market.ToggleItemAvailability(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, item)
}

// --- reviews ---

func (h *Handler) restaurantReviews(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.market.RestaurantReviews(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, reviews)
}

func (h *Handler) createReview(w http.ResponseWriter, r *http.Request) {
	var req reviewRequest
	if !decode(w, r, &req) {
		return
	}
	if req.Rating < 1 || req.Rating > 5 {
		writeError(w, http.StatusBadRequest, "rating must be between 1 and 5")
		return
	}
	review, err := h.market.CreateReview(r.Context(), chi.URLParam(r, "id"), req.Rating, req.Comment)
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, review)
}

func (h *Handler) respondToReview(w http.ResponseWriter, r *http.Request) {
	var req respondRequest
	if !decode(w, r, &req) {
		return
	}
	review, err := h.market.RespondToReview(r.Context(), chi.URLParam(r, "id"), req.Response)
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, review)
}

// --- favorites ---

func (h *Handler) favoriteRestaurants(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	restaurants, err := h.market.FavoriteRestaurants(r.Context())
	if err != nil {
		h.relayError(w, err)
		return
	}
	ids := make([]string, 0, len(restaurants))
	for _, restaurant := range restaurants {
		ids = append(ids, restaurant.ID)
	}
	s.Favorites.SetRestaurants(ids)
	writeJSON(w, http.StatusOK, restaurants)
}

func (h *Handler) favoriteMenuItems(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	items, err := h.market.FavoriteMenuItems(r.Context())
	if err != nil {
		h.relayError(w, err)
		return
	}
	ids := make([]string, 0, len(items))
	for _, item := range items {
		ids = append(ids, item.ID)
	}
	s.Favorites.SetMenuItems(ids)
	writeJSON(w, http.StatusOK, items)
}

func (h *Handler) toggleFavoriteRestaurant(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	favorite, err := s.Favorites.ToggleRestaurant(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isFavorite": favorite})
}

func (h *Handler) toggleFavoriteMenuItem(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	favorite, err := s.Favorites.ToggleMenuItem(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"isFavorite": favorite})
}

// --- users ---

// profile returns the caller's user record and seeds the session's
// favorite sets from it, so toggles start from server state.
func (h *Handler) profile(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	u, err := h.market.Profile(r.Context())
	if err != nil {
		h.relayError(w, err)
		return
	}
	s.Favorites.SetRestaurants(u.FavoriteRestaurants)
	s.Favorites.SetMenuItems(u.FavoriteMenuItems)
	writeJSON(w, http.StatusOK, u)
}

func (h *Handler) addAddress(w http.ResponseWriter, r *http.Request) {
	var req marketplace.UserAddress
	if !decode(w, r, &req) {
		return
	}
	if req.Street == "" || req.City == "" || req.Pincode == "" {
		writeError(w, http.StatusBadRequest, "street, city and pincode required")
		return
	}
	addresses, err := h.market.AddAddress(r.Context(), req)
	if err != nil {
		h.relayError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, addresses)
}

// --- notifications ---

func (h *Handler) listNotifications(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	page, _ := strconv.Atoi(r.URL.Query().Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	if limit < 1 {
		limit = 20
	}
	result, err := h.market.Notifications(r.Context(), page, limit)
	if err != nil {
		h.relayError(w, err)
		return
	}
	if page == 1 {
		s.Notifications.SetAll(result.Notifications, result.UnreadCount)
	}
	writeJSON(w, http.StatusOK, result)
}

func (h *Handler) markNotificationRead(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")
	if err := h.market.MarkNotificationRead(r.Context(), id); err != nil {
		h.relayError(w, err)
		return
	}
	s.Notifications.MarkRead(id)
	writeJSON(w, http.StatusOK, map[string]int{"unreadCount": s.Notifications.Unread()})
}

func (h *Handler) markAllNotificationsRead(w http.ResponseWriter, r *http.Request) {
	s, ok := h.connect(w, r)
	if !ok {
		return
	}
	if err := h.market.MarkAllNotificationsRead(r.Context()); err != nil {
		h.relayError(w, err)
		return
	}
	s.Notifications.MarkAllRead()
	writeJSON(w, http.StatusOK, map[string]int{"unreadCount": 0})
}

// --- session ---

func (h *Handler) disconnect(w http.ResponseWriter, r *http.Request) {
	h.sessions.Disconnect(r.Context(), UserID(r.Context()))
	writeJSON(w, http.StatusOK, nil)
}
