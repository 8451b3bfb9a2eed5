package http

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	notifdomain "github.com/fooddel/client-gateway/internal/notification/domain"
	orderapp "github.com/fooddel/client-gateway/internal/order/application"
)

const heartbeatInterval = 25 * time.Second

// streamEvents relays the session's push updates to the browser as
// server-sent events. Opening the stream is what makes the user
// reachable; closing it leaves the session itself alive so a reconnect
// picks up where it left off.
func (h *Handler) streamEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	s, ok := h.connect(w, r)
	if !ok {
		return
	}

	// Buffered so a slow client drops events instead of blocking the
	// push pipeline.
	events := make(chan sseEvent, 64)

	unsubOrders := s.Orders.Subscribe(func(u orderapp.StatusUpdate) {
		select {
		case events <- sseEvent{name: "order_status_update", data: u}:
		default:
		}
	})
	defer unsubOrders()

	unsubNotifs := s.Notifications.Subscribe(func(n notifdomain.Notification) {
		select {
		case events <- sseEvent{name: "notification", data: n}:
		default:
		}
	})
	defer unsubNotifs()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.WriteHeader(http.StatusOK)
	fmt.Fprint(w, ": connected\n\n")
	flusher.Flush()

	heartbeat := time.NewTicker(heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-r.Context().Done():
			return
		case <-heartbeat.C:
			fmt.Fprint(w, ": ping\n\n")
			flusher.Flush()
		case ev := <-events:
			if err := writeSSE(w, ev); err != nil {
				return
			}
			flusher.Flush()
		}
	}
}

type sseEvent struct {
	name string
	data any
}

func writeSSE(w http.ResponseWriter, ev sseEvent) error {
	payload, err := json.Marshal(ev.data)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", ev.name, payload)
	return err
}
