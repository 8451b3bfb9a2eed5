package marketplace

import (
	"context"
	"net/http"
	"net/url"
)

// RestaurantFilter narrows the restaurant listing. Zero values mean no
// filter.
type RestaurantFilter struct {
	City    string
	Cuisine string
	Search  string
	OpenNow bool
}

func (f RestaurantFilter) query() string {
	q := url.Values{}
	if f.City != "" {
		q.Set("city", f.City)
	}
	if f.Cuisine != "" {
		q.Set("cuisine", f.Cuisine)
	}
	if f.Search != "" {
		q.Set("search", f.Search)
	}
	if f.OpenNow {
		q.Set("isOpen", "true")
	}
	if len(q) == 0 {
		return ""
	}
	return "?" + q.Encode()
}

// ListRestaurants returns the browsable restaurant catalog.
func (c *Client) ListRestaurants(ctx context.Context, filter RestaurantFilter) ([]Restaurant, error) {
	var restaurants []Restaurant
	err := c.do(ctx, http.MethodGet, "/api/restaurants"+filter.query(), nil, &restaurants)
	return restaurants, err
}

// GetRestaurant fetches one restaurant's detail page data.
func (c *Client) GetRestaurant(ctx context.Context, id string) (Restaurant, error) {
	var r Restaurant
	err := c.do(ctx, http.MethodGet, "/api/restaurants/"+url.PathEscape(id), nil, &r)
	return r, err
}

// GetMenu returns a restaurant's menu items, customization groups
// included.
func (c *Client) GetMenu(ctx context.Context, restaurantID string) ([]MenuItem, error) {
	var items []MenuItem
	err := c.do(ctx, http.MethodGet, "/api/restaurants/"+url.PathEscape(restaurantID)+"/menu", nil, &items)
	return items, err
}

// CreateRestaurant registers the caller's restaurant. Owner only.
func (c *Client) CreateRestaurant(ctx context.Context, r Restaurant) (Restaurant, error) {
	var created Restaurant
	err := c.do(ctx, http.MethodPost, "/api/restaurants", r, &created)
	return created, err
}

// GetMyRestaurant returns the restaurant owned by the caller.
func (c *Client) GetMyRestaurant(ctx context.Context) (Restaurant, error) {
	var r Restaurant
	err := c.do(ctx, http.MethodGet, "/api/restaurants/my-restaurant", nil, &r)
	return r, err
}

// GetRestaurantStats returns the owner dashboard summary numbers.
func (c *Client) GetRestaurantStats(ctx context.Context, restaurantID string) (RestaurantStats, error) {
	var stats RestaurantStats
	err := c.do(ctx, http.MethodGet, "/api/restaurants/"+url.PathEscape(restaurantID)+"/stats", nil, &stats)
	return stats, err
}

// ToggleAcceptingOrders flips whether the restaurant takes new orders.
func (c *Client) ToggleAcceptingOrders(ctx context.Context, restaurantID string) (Restaurant, error) {
	var r Restaurant
	err := c.do(ctx, http.MethodPut, "/api/restaurants/"+url.PathEscape(restaurantID)+"/toggle-orders", nil, &r)
	return r, err
}

// CreateMenuItem adds an item to the owner's menu.
func (c *Client) CreateMenuItem(ctx context.Context, item MenuItem) (MenuItem, error) {
	var created MenuItem
	err := c.do(ctx, http.MethodPost, "/api/menu-items", item, &created)
	return created, err
}

// UpdateMenuItem replaces an item's editable fields.
func (c *Client) UpdateMenuItem(ctx context.Context, item MenuItem) (MenuItem, error) {
	var updated MenuItem
	err := c.do(ctx, http.MethodPut, "/api/menu-items/"+url.PathEscape(item.ID), item, &updated)
	return updated, err
}

// DeleteMenuItem removes an item from the owner's menu.
func (c *Client) DeleteMenuItem(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/menu-items/"+url.PathEscape(id), nil, nil)
}

// ToggleItemAvailability flips an item's availability without editing
// the rest of it.
func (c *Client) ToggleItemAvailability(ctx context.Context, id string) (MenuItem, error) {
	var item MenuItem
	err := c.do(ctx, http.MethodPut, "/api/menu-items/"+url.PathEscape(id)+"/toggle-availability", nil, &item)
	return item, err
}
