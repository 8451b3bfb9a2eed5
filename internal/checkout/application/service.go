// Package application orchestrates checkout: validate locally, create
// the order, charge the payment collaborator and verify the payment
// with the marketplace. Only after verification may the caller clear
// the cart.
package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"strings"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
	"github.com/fooddel/client-gateway/internal/checkout/domain"
	order "github.com/fooddel/client-gateway/internal/order/domain"
	"github.com/fooddel/client-gateway/internal/payment"
)

const (
	DeliveryImmediate = "immediate"
	DeliveryScheduled = "scheduled"

	PaymentOnline         = "online"
	PaymentCashOnDelivery = "cash_on_delivery"
)

// Validation errors surface before any network call.
var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrNoAddress            = errors.New("delivery address required")
	ErrInvalidContact       = errors.New("contact number must be 10 digits")
	ErrMissingSchedule      = errors.New("scheduled delivery needs a date and a valid time slot")
	ErrMissingPaymentSource = errors.New("online payment needs a card token")
)

// ErrPaymentVerification means the charge went through but the
// marketplace could not verify it. The order already exists
// server-side: the user must contact support, not retry, or they risk
// a double charge.
var ErrPaymentVerification = errors.New("payment verification failed")

// ErrPaymentDeclined means the collaborator refused the charge. The
// order exists unpaid server-side; retrying payment is safe.
var ErrPaymentDeclined = errors.New("payment declined")

// PlaceOrderInput is everything the checkout page collects.
type PlaceOrderInput struct {
	Cart                cart.Cart
	Address             *order.Address
	ContactNumber       string
	DeliveryType        string
	Schedule            *order.Schedule
	PaymentMethod       string
	SpecialInstructions string
	CardToken           string
}

type Service struct {
	api      OrderAPI
	payments PaymentGateway
	log      *slog.Logger
	tracer   trace.Tracer
}

func NewService(api OrderAPI, payments PaymentGateway, log *slog.Logger) *Service {
	return &Service{
		api:      api,
		payments: payments,
		log:      log,
		tracer:   otel.Tracer("checkout"),
	}
}

// Validate runs every local check. Nothing is sent to the server when
// it fails.
func (s *Service) Validate(in PlaceOrderInput) error {
	if len(in.Cart.Items) == 0 || in.Cart.Restaurant == nil {
		return ErrEmptyCart
	}
	if in.Address == nil {
		return ErrNoAddress
	}
	if len(cleanPhone(in.ContactNumber)) != 10 {
		return ErrInvalidContact
	}
	if in.DeliveryType == DeliveryScheduled {
		if in.Schedule == nil || in.Schedule.Date == "" || !domain.ValidSlot(in.Schedule.TimeSlot) {
			return ErrMissingSchedule
		}
	}
	if in.PaymentMethod == PaymentOnline && in.CardToken == "" {
		return ErrMissingPaymentSource
	}
	return nil
}

// PlaceOrder creates the order and, for online payment, completes the
// charge-and-verify handshake. The returned order exists server-side
// even when an error comes back; callers must only clear the cart on a
// nil error.
func (s *Service) PlaceOrder(ctx context.Context, in PlaceOrderInput) (order.Order, error) {
	ctx, span := s.tracer.Start(ctx, "PlaceOrder")
	defer span.End()

	if err := s.Validate(in); err != nil {
		return order.Order{}, err
	}

	created, err := s.api.CreateOrder(ctx, s.buildDraft(in))
	if err != nil {
		return order.Order{}, fmt.Errorf("create order: %w", err)
	}
	s.log.InfoContext(ctx, "order created",
		"order_id", created.Order.ID,
		"order_number", created.Order.OrderNumber,
		"payment_method", in.PaymentMethod,
	)

	if in.PaymentMethod != PaymentOnline {
		return created.Order, nil
	}
	if created.PaymentOrder == nil {
		return created.Order, fmt.Errorf("%w: marketplace returned no payment order", ErrPaymentDeclined)
	}

	charged, err := s.payments.Charge(ctx, payment.ChargeRequest{
		PaymentOrderID: created.PaymentOrder.ID,
		Amount:         created.PaymentOrder.Amount,
		Currency:       created.PaymentOrder.Currency,
		SourceToken:    in.CardToken,
		OrderID:        created.Order.ID,
	})
	if err != nil {
		return created.Order, fmt.Errorf("%w: %v", ErrPaymentDeclined, err)
	}

	err = s.api.VerifyPayment(ctx, order.PaymentConfirmation{
		OrderID:        created.Order.ID,
		PaymentOrderID: created.PaymentOrder.ID,
		PaymentID:      charged.PaymentID,
		Signature:      charged.Signature,
	})
	if err != nil {
		s.log.ErrorContext(ctx, "payment verification failed", "order_id", created.Order.ID, "err", err)
		return created.Order, fmt.Errorf("%w: %v", ErrPaymentVerification, err)
	}

	return created.Order, nil
}

// Quote prices the cart for display.
func (s *Service) Quote(c cart.Cart) domain.Quote {
	return domain.QuoteCart(c)
}

// TimeSlots lists the bookable delivery slots for the scheduling
// picker.
func (s *Service) TimeSlots() []order.TimeSlot {
	return domain.TimeSlots()
}

func (s *Service) buildDraft(in PlaceOrderInput) order.Draft {
	items := make([]order.OrderItem, 0, len(in.Cart.Items))
	for _, li := range in.Cart.Items {
		items = append(items, order.OrderItem{
			MenuItemID:          li.ProductID,
			Name:                li.Name,
			Quantity:            li.Quantity,
			Price:               li.UnitPrice,
			ItemTotal:           li.Total(),
			Customizations:      li.Customizations,
			SpecialInstructions: li.SpecialInstructions,
		})
	}

	draft := order.Draft{
		RestaurantID:        in.Cart.Restaurant.ID,
		OrderNumber:         newOrderNumber(),
		Items:               items,
		DeliveryAddress:     *in.Address,
		DeliveryType:        in.DeliveryType,
		ContactNumber:       cleanPhone(in.ContactNumber),
		SpecialInstructions: in.SpecialInstructions,
		PaymentMethod:       in.PaymentMethod,
	}
	if in.DeliveryType == DeliveryScheduled {
		draft.ScheduledFor = in.Schedule
	}
	return draft
}

func newOrderNumber() string {
	return fmt.Sprintf("ORD%d%d", time.Now().UnixMilli(), rand.Intn(1000))
}

func cleanPhone(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
