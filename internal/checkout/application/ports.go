package application

import (
	"context"

	order "github.com/fooddel/client-gateway/internal/order/domain"
	"github.com/fooddel/client-gateway/internal/payment"
)

// OrderAPI is the slice of the marketplace checkout depends on.
type OrderAPI interface {
	CreateOrder(ctx context.Context, draft order.Draft) (order.Created, error)
	VerifyPayment(ctx context.Context, confirmation order.PaymentConfirmation) error
}

// PaymentGateway charges the external payment collaborator.
type PaymentGateway = payment.Gateway
