// Package push consumes the marketplace's per-user event stream and
// routes each event to the session of its recipient. The stream is the
// only unsolicited channel from the server; everything else is
// request/response.
package push

import "encoding/json"

const (
	EventOrderStatusUpdate = "order_status_update"
	EventNotification      = "notification"
)

// Envelope is the wire shape of one pushed event. The Kafka message
// key carries the recipient's user id; the envelope carries only the
// event itself.
type Envelope struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

// OrderStatusUpdate announces a server-side status transition. The
// delivery phase comes along verbatim; the client never derives it.
type OrderStatusUpdate struct {
	OrderID       string `json:"orderId"`
	Status        string `json:"status"`
	DeliveryPhase string `json:"deliveryPhase"`
}

// NotificationEvent is a pushed notification, shown immediately and
// prepended to the local list.
type NotificationEvent struct {
	ID      string `json:"id"`
	Title   string `json:"title"`
	Message string `json:"message"`
}
