package marketplace

import (
	"time"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
	notification "github.com/fooddel/client-gateway/internal/notification/domain"
)

type Restaurant struct {
	ID              string   `json:"id"`
	Name            string   `json:"name"`
	Description     string   `json:"description,omitempty"`
	CuisineTypes    []string `json:"cuisineTypes,omitempty"`
	City            string   `json:"city,omitempty"`
	ImageURL        string   `json:"imageUrl,omitempty"`
	Rating          float64  `json:"rating"`
	ReviewCount     int      `json:"reviewCount"`
	DeliveryFee     float64  `json:"deliveryFee"`
	MinimumOrder    float64  `json:"minimumOrder,omitempty"`
	DeliveryTimeMin int      `json:"deliveryTimeMin,omitempty"`
	DeliveryTimeMax int      `json:"deliveryTimeMax,omitempty"`
	IsOpen          bool     `json:"isOpen"`
	AcceptingOrders bool     `json:"acceptingOrders"`
}

type MenuItem struct {
	ID                  string                    `json:"id"`
	RestaurantID        string                    `json:"restaurantId"`
	Name                string                    `json:"name"`
	Description         string                    `json:"description,omitempty"`
	Price               float64                   `json:"price"`
	Category            string                    `json:"category,omitempty"`
	ImageURL            string                    `json:"imageUrl,omitempty"`
	IsVegetarian        bool                      `json:"isVegetarian"`
	IsAvailable         bool                      `json:"isAvailable"`
	CustomizationGroups []cart.CustomizationGroup `json:"customizationGroups,omitempty"`
}

type Review struct {
	ID           string     `json:"id"`
	RestaurantID string     `json:"restaurantId"`
	UserName     string     `json:"userName"`
	Rating       int        `json:"rating"`
	Comment      string     `json:"comment,omitempty"`
	Response     string     `json:"response,omitempty"`
	RespondedAt  *time.Time `json:"respondedAt,omitempty"`
	CreatedAt    time.Time  `json:"createdAt"`
}

type UserAddress struct {
	ID        string `json:"id,omitempty"`
	Label     string `json:"label,omitempty"`
	Street    string `json:"street"`
	City      string `json:"city"`
	State     string `json:"state,omitempty"`
	Pincode   string `json:"pincode"`
	Landmark  string `json:"landmark,omitempty"`
	IsDefault bool   `json:"isDefault,omitempty"`
}

type User struct {
	ID                  string        `json:"id"`
	Name                string        `json:"name"`
	Email               string        `json:"email"`
	Phone               string        `json:"phone,omitempty"`
	Role                string        `json:"role"`
	Addresses           []UserAddress `json:"addresses,omitempty"`
	FavoriteRestaurants []string      `json:"favoriteRestaurants,omitempty"`
	FavoriteMenuItems   []string      `json:"favoriteMenuItems,omitempty"`
}

// RestaurantStats is the owner dashboard summary.
type RestaurantStats struct {
	TotalOrders    int     `json:"totalOrders"`
	PendingOrders  int     `json:"pendingOrders"`
	TotalRevenue   float64 `json:"totalRevenue"`
	AverageRating  float64 `json:"averageRating"`
	TotalReviews   int     `json:"totalReviews"`
	TotalMenuItems int     `json:"totalMenuItems"`
}

// NotificationPage is the paged notification listing with the unread
// counter the badge shows.
type NotificationPage struct {
	Notifications []notification.Notification `json:"notifications"`
	UnreadCount   int                         `json:"unreadCount"`
}
