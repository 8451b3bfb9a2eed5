package marketplace

import (
	"context"
	"net/http"
	"net/url"
)

// CreateReview posts the caller's review of a restaurant.
func (c *Client) CreateReview(ctx context.Context, restaurantID string, rating int, comment string) (Review, error) {
	var review Review
	body := map[string]any{"rating": rating, "comment": comment}
	err := c.do(ctx, http.MethodPost, "/api/reviews/restaurant/"+url.PathEscape(restaurantID), body, &review)
	return review, err
}

// RestaurantReviews lists a restaurant's reviews, newest first.
func (c *Client) RestaurantReviews(ctx context.Context, restaurantID string) ([]Review, error) {
	var reviews []Review
	err := c.do(ctx, http.MethodGet, "/api/reviews/restaurant/"+url.PathEscape(restaurantID), nil, &reviews)
	return reviews, err
}

// RespondToReview records the owner's public reply on a review.
func (c *Client) RespondToReview(ctx context.Context, reviewID, response string) (Review, error) {
	var review Review
	body := map[string]string{"response": response}
	err := c.do(ctx, http.MethodPut, "/api/reviews/"+url.PathEscape(reviewID)+"/respond", body, &review)
	return review, err
}
