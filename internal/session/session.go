// Package session ties one connected user's local state together: the
// cart store, the order projector, the notification center and the
// favorite sets, plus the push channel feeding them.
package session

import (
	"time"

	"github.com/google/uuid"

	cartapp "github.com/fooddel/client-gateway/internal/cart/application"
	favoriteapp "github.com/fooddel/client-gateway/internal/favorite/application"
	notifapp "github.com/fooddel/client-gateway/internal/notification/application"
	notifdomain "github.com/fooddel/client-gateway/internal/notification/domain"
	orderapp "github.com/fooddel/client-gateway/internal/order/application"
	orderdomain "github.com/fooddel/client-gateway/internal/order/domain"
	"github.com/fooddel/client-gateway/internal/push"
)

// Session is one user's in-memory state while connected. It is the
// push sink for that user: status updates land in the projector,
// notification events in the center.
type Session struct {
	UserID        string
	Cart          *cartapp.Store
	Orders        *orderapp.Projector
	Notifications *notifapp.Center
	Favorites     *favoriteapp.Service
}

// ApplyStatusUpdate feeds a pushed transition to the projector.
func (s *Session) ApplyStatusUpdate(u push.OrderStatusUpdate) bool {
	return s.Orders.Apply(orderapp.StatusUpdate{
		OrderID:       u.OrderID,
		Status:        orderdomain.Status(u.Status),
		DeliveryPhase: orderdomain.DeliveryPhase(u.DeliveryPhase),
	})
}

// AddNotification prepends a pushed notification to the center.
func (s *Session) AddNotification(e push.NotificationEvent) {
	id := e.ID
	if id == "" {
		id = uuid.NewString()
	}
	s.Notifications.Add(notifdomain.Notification{
		ID:        id,
		Title:     e.Title,
		Message:   e.Message,
		CreatedAt: time.Now(),
	})
}
