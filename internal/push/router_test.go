package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	updates       []OrderStatusUpdate
	notifications []NotificationEvent
	applyResult   bool
}

func (s *recordingSink) ApplyStatusUpdate(u OrderStatusUpdate) bool {
	s.updates = append(s.updates, u)
	return s.applyResult
}

func (s *recordingSink) AddNotification(e NotificationEvent) {
	s.notifications = append(s.notifications, e)
}

func encode(t *testing.T, typ string, data any) []byte {
	t.Helper()
	raw, err := json.Marshal(data)
	require.NoError(t, err)
	env, err := json.Marshal(Envelope{Type: typ, Data: raw})
	require.NoError(t, err)
	return env
}

func newTestRouter() *Router {
	return NewRouter(slog.New(slog.DiscardHandler))
}

func TestRouteStatusUpdateToJoinedUser(t *testing.T) {
	r := newTestRouter()
	sink := &recordingSink{applyResult: true}
	r.Join("u1", sink)

	r.Route(context.Background(), "u1", encode(t, EventOrderStatusUpdate, OrderStatusUpdate{
		OrderID: "o1", Status: "preparing", DeliveryPhase: "restaurant_preparing",
	}))

	require.Len(t, sink.updates, 1)
	assert.Equal(t, "o1", sink.updates[0].OrderID)
	assert.Equal(t, "preparing", sink.updates[0].Status)
}

func TestRouteDropsUnjoinedRecipient(t *testing.T) {
	r := newTestRouter()
	sink := &recordingSink{}
	r.Join("u1", sink)

	r.Route(context.Background(), "u2", encode(t, EventOrderStatusUpdate, OrderStatusUpdate{OrderID: "o1"}))

	assert.Empty(t, sink.updates, "events for other users must not leak")
}

func TestRouteAfterLeave(t *testing.T) {
	r := newTestRouter()
	sink := &recordingSink{}
	r.Join("u1", sink)
	r.Leave("u1")

	r.Route(context.Background(), "u1", encode(t, EventNotification, NotificationEvent{Title: "hi"}))

	assert.Empty(t, sink.notifications)
}

func TestRouteNotification(t *testing.T) {
	r := newTestRouter()
	sink := &recordingSink{}
	r.Join("u1", sink)

	r.Route(context.Background(), "u1", encode(t, EventNotification, NotificationEvent{
		Title: "Order Confirmed", Message: "Your order is being prepared",
	}))

	require.Len(t, sink.notifications, 1)
	assert.Equal(t, "Order Confirmed", sink.notifications[0].Title)
}

func TestRouteMalformedPayload(t *testing.T) {
	r := newTestRouter()
	sink := &recordingSink{}
	r.Join("u1", sink)

	r.Route(context.Background(), "u1", []byte("not json"))
	r.Route(context.Background(), "u1", encode(t, "unknown_event", map[string]string{"x": "y"}))

	env, _ := json.Marshal(Envelope{Type: EventOrderStatusUpdate, Data: json.RawMessage(`{"orderId":""}`)})
	r.Route(context.Background(), "u1", env)

	assert.Empty(t, sink.updates)
	assert.Empty(t, sink.notifications)
}

func TestJoinReplacesSink(t *testing.T) {
	r := newTestRouter()
	first := &recordingSink{}
	second := &recordingSink{}
	r.Join("u1", first)
	r.Join("u1", second)

	r.Route(context.Background(), "u1", encode(t, EventNotification, NotificationEvent{Title: "hi"}))

	assert.Empty(t, first.notifications)
	require.Len(t, second.notifications, 1)
}
