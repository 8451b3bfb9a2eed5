package push

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/fooddel/client-gateway/pkg/metrics"
)

// Sink receives the events routed to one user. Implemented by the
// session.
type Sink interface {
	// ApplyStatusUpdate reports whether the update was applied to a
	// known order; stale or unknown updates return false.
	ApplyStatusUpdate(update OrderStatusUpdate) bool
	AddNotification(event NotificationEvent)
}

// Router delivers events to connected users. Joining is the handshake
// that opens a user's push channel; events for users who have not
// joined are dropped, the same as a client that is simply offline.
type Router struct {
	mu    sync.RWMutex
	sinks map[string]Sink
	log   *slog.Logger
}

func NewRouter(log *slog.Logger) *Router {
	return &Router{sinks: make(map[string]Sink), log: log}
}

// Join registers the user's sink. A second join for the same user
// replaces the first.
func (r *Router) Join(userID string, sink Sink) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sinks[userID] = sink
}

// Leave closes the user's push channel.
func (r *Router) Leave(userID string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sinks, userID)
}

// Route dispatches one raw event to its recipient, if connected.
func (r *Router) Route(ctx context.Context, userID string, raw []byte) {
	var env Envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		metrics.PushEvents.WithLabelValues("unknown", "invalid").Inc()
		r.log.WarnContext(ctx, "undecodable push event", "user_id", userID, "err", err)
		return
	}

	r.mu.RLock()
	sink, ok := r.sinks[userID]
	r.mu.RUnlock()
	if !ok {
		metrics.PushEvents.WithLabelValues(env.Type, "dropped").Inc()
		return
	}

	switch env.Type {
	case EventOrderStatusUpdate:
		var update OrderStatusUpdate
		if err := json.Unmarshal(env.Data, &update); err != nil || update.OrderID == "" {
			metrics.PushEvents.WithLabelValues(env.Type, "invalid").Inc()
			r.log.WarnContext(ctx, "malformed status update", "user_id", userID, "err", err)
			return
		}
		if sink.ApplyStatusUpdate(update) {
			metrics.PushEvents.WithLabelValues(env.Type, "applied").Inc()
		} else {
			metrics.PushEvents.WithLabelValues(env.Type, "dropped").Inc()
		}

	case EventNotification:
		var event NotificationEvent
		if err := json.Unmarshal(env.Data, &event); err != nil {
			metrics.PushEvents.WithLabelValues(env.Type, "invalid").Inc()
			r.log.WarnContext(ctx, "malformed notification event", "user_id", userID, "err", err)
			return
		}
		sink.AddNotification(event)
		metrics.PushEvents.WithLabelValues(env.Type, "applied").Inc()

	default:
		metrics.PushEvents.WithLabelValues(env.Type, "invalid").Inc()
		r.log.WarnContext(ctx, "unknown push event type", "user_id", userID, "type", env.Type)
	}
}
