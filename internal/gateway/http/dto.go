package http

import (
	"encoding/json"
	"net/http"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
	checkout "github.com/fooddel/client-gateway/internal/checkout/application"
	checkoutdomain "github.com/fooddel/client-gateway/internal/checkout/domain"
	order "github.com/fooddel/client-gateway/internal/order/domain"
)

// Responses mirror the marketplace's envelope so the browser client
// sees one uniform shape end to end.
type response struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: true, Data: data})
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(response{Success: false, Message: message})
}

// addItemRequest carries the menu item's customization groups so the
// chosen set can be checked before the line enters the cart.
type addItemRequest struct {
	Item                cart.LineItem             `json:"item"`
	Restaurant          cart.RestaurantRef        `json:"restaurant"`
	CustomizationGroups []cart.CustomizationGroup `json:"customizationGroups,omitempty"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

type cancelOrderRequest struct {
	Reason string `json:"reason"`
}

type updateStatusRequest struct {
	Status order.Status `json:"status"`
}

type checkoutRequest struct {
	Address             *order.Address  `json:"address"`
	ContactNumber       string          `json:"contactNumber"`
	DeliveryType        string          `json:"deliveryType"`
	Schedule            *order.Schedule `json:"schedule,omitempty"`
	PaymentMethod       string          `json:"paymentMethod"`
	SpecialInstructions string          `json:"specialInstructions,omitempty"`
	CardToken           string          `json:"cardToken,omitempty"`
}

func (r checkoutRequest) input(c cart.Cart) checkout.PlaceOrderInput {
	return checkout.PlaceOrderInput{
		Cart:                c,
		Address:             r.Address,
		ContactNumber:       r.ContactNumber,
		DeliveryType:        r.DeliveryType,
		Schedule:            r.Schedule,
		PaymentMethod:       r.PaymentMethod,
		SpecialInstructions: r.SpecialInstructions,
		CardToken:           r.CardToken,
	}
}

type cartView struct {
	Cart  cart.Cart            `json:"cart"`
	Quote checkoutdomain.Quote `json:"quote"`
}

type reviewRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type respondRequest struct {
	Response string `json:"response"`
}
