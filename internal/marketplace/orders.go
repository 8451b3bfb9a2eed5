package marketplace

import (
	"context"
	"net/http"
	"net/url"

	order "github.com/fooddel/client-gateway/internal/order/domain"
)

// CreateOrder submits a draft and returns the created order plus, for
// online payment, the payment order to charge against.
func (c *Client) CreateOrder(ctx context.Context, draft order.Draft) (order.Created, error) {
	var created order.Created
	err := c.do(ctx, http.MethodPost, "/api/orders", draft, &created)
	return created, err
}

// VerifyPayment reports the collaborator's charge result so the
// marketplace can mark the order paid.
func (c *Client) VerifyPayment(ctx context.Context, confirmation order.PaymentConfirmation) error {
	return c.do(ctx, http.MethodPost, "/api/orders/verify-payment", confirmation, nil)
}

// ListOrders returns the caller's order history, newest first.
func (c *Client) ListOrders(ctx context.Context) ([]order.Order, error) {
	var orders []order.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/my-orders", nil, &orders)
	return orders, err
}

// GetOrder fetches a single order the caller is allowed to see.
func (c *Client) GetOrder(ctx context.Context, id string) (order.Order, error) {
	var o order.Order
	err := c.do(ctx, http.MethodGet, "/api/orders/"+url.PathEscape(id), nil, &o)
	return o, err
}

// CancelOrder cancels the caller's order with a reason. The server
// enforces the cancellation window; a rejected cancel comes back as an
// APIError.
func (c *Client) CancelOrder(ctx context.Context, id, reason string) (order.Order, error) {
	var o order.Order
	body := map[string]string{"reason": reason}
	err := c.do(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id)+"/cancel", body, &o)
	return o, err
}

// UpdateOrderStatus moves a restaurant order along its lifecycle.
// Owner only.
func (c *Client) UpdateOrderStatus(ctx context.Context, id string, status order.Status) (order.Order, error) {
	var o order.Order
	body := map[string]order.Status{"status": status}
	err := c.do(ctx, http.MethodPut, "/api/orders/"+url.PathEscape(id)+"/status", body, &o)
	return o, err
}

// RestaurantOrders lists incoming orders for the owner's restaurant,
// optionally filtered by status.
func (c *Client) RestaurantOrders(ctx context.Context, restaurantID string, status order.Status) ([]order.Order, error) {
	path := "/api/orders/restaurant/" + url.PathEscape(restaurantID)
	if status != "" {
		path += "?status=" + url.QueryEscape(string(status))
	}
	var orders []order.Order
	err := c.do(ctx, http.MethodGet, path, nil, &orders)
	return orders, err
}
