package marketplace

import (
	"context"
	"net/http"
)

// Profile returns the caller's user record, favorites and addresses
// included. Used at session start to seed local state.
func (c *Client) Profile(ctx context.Context) (User, error) {
	var u User
	err := c.do(ctx, http.MethodGet, "/api/users/profile", nil, &u)
	return u, err
}

// AddAddress saves a delivery address on the caller's profile and
// returns the updated address book.
func (c *Client) AddAddress(ctx context.Context, addr UserAddress) ([]UserAddress, error) {
	var addresses []UserAddress
	err := c.do(ctx, http.MethodPost, "/api/users/addresses", addr, &addresses)
	return addresses, err
}
