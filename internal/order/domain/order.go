// Package domain models the client-side projection of a marketplace
// order: status, delivery phase and the lifecycle rules the UI needs.
// The server remains the authority; nothing here transitions state on
// its own initiative.
package domain

import (
	"time"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
)

type Status string

const (
	StatusPlaced         Status = "placed"
	StatusConfirmed      Status = "confirmed"
	StatusPreparing      Status = "preparing"
	StatusReady          Status = "ready"
	StatusOutForDelivery Status = "out_for_delivery"
	StatusDelivered      Status = "delivered"
	StatusCancelled      Status = "cancelled"
)

// statusRank orders the non-terminal progression. Cancelled sits
// outside the ordering.
var statusRank = map[Status]int{
	StatusPlaced:         0,
	StatusConfirmed:      1,
	StatusPreparing:      2,
	StatusReady:          3,
	StatusOutForDelivery: 4,
	StatusDelivered:      5,
}

// Rank returns the position of s in the progression and whether s is
// part of it (cancelled and unknown statuses are not).
func (s Status) Rank() (int, bool) {
	r, ok := statusRank[s]
	return r, ok
}

// Terminal reports whether no further transition can happen.
func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

// CanCancel reports whether the customer may still cancel an order in
// this status. Only placed and confirmed orders qualify.
func (s Status) CanCancel() bool {
	return s == StatusPlaced || s == StatusConfirmed
}

// Next returns the statuses the server may move an order to from s.
// Used by the back-office UI to gate its status buttons; the actual
// transition always happens server-side.
func (s Status) Next() []Status {
	var next []Status
	switch s {
	case StatusPlaced:
		next = []Status{StatusConfirmed}
	case StatusConfirmed:
		next = []Status{StatusPreparing}
	case StatusPreparing:
		next = []Status{StatusReady}
	case StatusReady:
		next = []Status{StatusOutForDelivery}
	case StatusOutForDelivery:
		next = []Status{StatusDelivered}
	}
	if !s.Terminal() {
		next = append(next, StatusCancelled)
	}
	return next
}

// DeliveryPhase is the coarser progress bucket the server derives from
// the status and pushes verbatim. The client only uses it for the
// progress display, never to infer status.
type DeliveryPhase string

const (
	PhaseOrderPlaced    DeliveryPhase = "order_placed"
	PhasePreparing      DeliveryPhase = "restaurant_preparing"
	PhaseFoodReady      DeliveryPhase = "food_ready"
	PhaseOutForDelivery DeliveryPhase = "out_for_delivery"
	PhaseDelivered      DeliveryPhase = "delivered"
)

// Phases lists the delivery phases in progress order.
func Phases() []DeliveryPhase {
	return []DeliveryPhase{PhaseOrderPlaced, PhasePreparing, PhaseFoodReady, PhaseOutForDelivery, PhaseDelivered}
}

// Index returns the phase's position in the progress ordering, or -1
// for an unknown phase.
func (p DeliveryPhase) Index() int {
	for i, ph := range Phases() {
		if ph == p {
			return i
		}
	}
	return -1
}

// OrderItem is one ordered line, priced at order time.
type OrderItem struct {
	MenuItemID          string               `json:"menuItem"`
	Name                string               `json:"name"`
	Quantity            int                  `json:"quantity"`
	Price               float64              `json:"price"`
	ItemTotal           float64              `json:"itemTotal"`
	Customizations      []cart.Customization `json:"customizations,omitempty"`
	SpecialInstructions string               `json:"specialInstructions,omitempty"`
}

type Pricing struct {
	Subtotal    float64 `json:"subtotal"`
	DeliveryFee float64 `json:"deliveryFee"`
	Tax         float64 `json:"tax"`
	Total       float64 `json:"total"`
}

type Address struct {
	Street   string `json:"street"`
	City     string `json:"city"`
	State    string `json:"state,omitempty"`
	Pincode  string `json:"pincode"`
	Landmark string `json:"landmark,omitempty"`
}

type Payment struct {
	Method string `json:"method"`
	Status string `json:"status"`
}

type Cancellation struct {
	Reason      string    `json:"reason"`
	CancelledAt time.Time `json:"cancelledAt"`
}

type RestaurantInfo struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	City string `json:"city,omitempty"`
}

// Order is the cached projection of a server-side order. It is never
// deleted locally; push updates overwrite it in place and a later
// fetch reconciles anything missed.
type Order struct {
	ID            string        `json:"id"`
	OrderNumber   string        `json:"orderNumber"`
	Status        Status        `json:"status"`
	DeliveryPhase DeliveryPhase `json:"deliveryPhase"`

	Restaurant      RestaurantInfo `json:"restaurant"`
	Items           []OrderItem    `json:"items"`
	Pricing         Pricing        `json:"pricing"`
	DeliveryAddress Address        `json:"deliveryAddress"`
	ContactNumber   string         `json:"contactNumber"`
	Payment         Payment        `json:"payment"`
	Cancellation    *Cancellation  `json:"cancellation,omitempty"`

	CreatedAt             time.Time  `json:"createdAt"`
	EstimatedDeliveryTime *time.Time `json:"estimatedDeliveryTime,omitempty"`
	ActualDeliveryTime    *time.Time `json:"actualDeliveryTime,omitempty"`
}

// Schedule is the requested slot for a scheduled delivery.
type Schedule struct {
	Date     string   `json:"date"`
	TimeSlot TimeSlot `json:"timeSlot"`
}

type TimeSlot struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// Draft is the client-composed order request sent to the marketplace.
type Draft struct {
	RestaurantID        string      `json:"restaurantId"`
	OrderNumber         string      `json:"orderNumber"`
	Items               []OrderItem `json:"items"`
	DeliveryAddress     Address     `json:"deliveryAddress"`
	DeliveryType        string      `json:"deliveryType"`
	ScheduledFor        *Schedule   `json:"scheduledFor,omitempty"`
	ContactNumber       string      `json:"contactNumber"`
	SpecialInstructions string      `json:"specialInstructions,omitempty"`
	PaymentMethod       string      `json:"paymentMethod"`
}

// PaymentOrder identifies the payment-collaborator order created
// alongside an online-paid marketplace order. Amount is in the
// currency's smallest unit.
type PaymentOrder struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
}

// Created is the order-creation response: the order itself plus, for
// online payment, the collaborator order to charge against.
type Created struct {
	Order        Order         `json:"order"`
	PaymentOrder *PaymentOrder `json:"paymentOrder,omitempty"`
}

// PaymentConfirmation carries the identifiers returned by the payment
// collaborator back to the marketplace for verification.
type PaymentConfirmation struct {
	OrderID        string `json:"orderId"`
	PaymentOrderID string `json:"paymentOrderId"`
	PaymentID      string `json:"paymentId"`
	Signature      string `json:"signature,omitempty"`
}
