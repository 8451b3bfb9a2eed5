package marketplace

import (
	"context"
	"net/http"
	"net/url"
)

// FavoriteRestaurants returns the caller's favorite restaurants in
// full, for the favorites page.
func (c *Client) FavoriteRestaurants(ctx context.Context) ([]Restaurant, error) {
	var restaurants []Restaurant
	err := c.do(ctx, http.MethodGet, "/api/users/favorites/restaurants", nil, &restaurants)
	return restaurants, err
}

// FavoriteMenuItems returns the caller's favorite menu items in full.
func (c *Client) FavoriteMenuItems(ctx context.Context) ([]MenuItem, error) {
	var items []MenuItem
	err := c.do(ctx, http.MethodGet, "/api/users/favorites/menu-items", nil, &items)
	return items, err
}

// ToggleFavoriteRestaurant flips a restaurant in the caller's
// favorites and returns nothing; the caller already knows the new
// state.
func (c *Client) ToggleFavoriteRestaurant(ctx context.Context, restaurantID string) error {
	return c.do(ctx, http.MethodPut, "/api/users/favorites/restaurants/"+url.PathEscape(restaurantID), nil, nil)
}

// ToggleFavoriteMenuItem flips a menu item in the caller's favorites.
func (c *Client) ToggleFavoriteMenuItem(ctx context.Context, menuItemID string) error {
	return c.do(ctx, http.MethodPut, "/api/users/favorites/menu-items/"+url.PathEscape(menuItemID), nil, nil)
}
