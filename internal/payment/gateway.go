// Package payment abstracts the external payment collaborator. The
// gateway charges against the payment order created by the
// marketplace and hands back the identifiers the marketplace verifies.
package payment

import "context"

// ChargeRequest charges a payment order. Amount is in the currency's
// smallest unit, as issued by the marketplace.
type ChargeRequest struct {
	PaymentOrderID string
	Amount         int64
	Currency       string
	SourceToken    string
	OrderID        string
}

// ChargeResult carries the collaborator's payment identifiers, to be
// forwarded to the verify-payment endpoint.
type ChargeResult struct {
	PaymentID string
	Signature string
}

// Gateway is implemented per payment provider.
type Gateway interface {
	Charge(ctx context.Context, req ChargeRequest) (ChargeResult, error)
}
