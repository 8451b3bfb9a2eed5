package payment

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/stripe/stripe-go/v72"
	"github.com/stripe/stripe-go/v72/charge"
)

// StripeGateway charges cards through Stripe using the source token
// collected client-side.
type StripeGateway struct {
	log *slog.Logger
}

func NewStripeGateway(secretKey string, log *slog.Logger) *StripeGateway {
	stripe.Key = secretKey
	return &StripeGateway{log: log}
}

func (g *StripeGateway) Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error) {
	params := &stripe.ChargeParams{
		Amount:   stripe.Int64(req.Amount),
		Currency: stripe.String(req.Currency),
		Source:   &stripe.SourceParams{Token: stripe.String(req.SourceToken)},
	}
	params.Context = ctx
	params.AddMetadata("order_id", req.OrderID)
	params.AddMetadata("payment_order_id", req.PaymentOrderID)

	ch, err := charge.New(params)
	if err != nil {
		return ChargeResult{}, fmt.Errorf("stripe charge: %w", err)
	}

	g.log.InfoContext(ctx, "payment charged", "order_id", req.OrderID, "charge_id", ch.ID, "amount", req.Amount)
	return ChargeResult{PaymentID: ch.ID}, nil
}
