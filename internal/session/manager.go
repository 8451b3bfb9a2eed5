package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	cartapp "github.com/fooddel/client-gateway/internal/cart/application"
	cart "github.com/fooddel/client-gateway/internal/cart/domain"
	favoriteapp "github.com/fooddel/client-gateway/internal/favorite/application"
	notifapp "github.com/fooddel/client-gateway/internal/notification/application"
	orderapp "github.com/fooddel/client-gateway/internal/order/application"
	"github.com/fooddel/client-gateway/internal/push"
	"github.com/fooddel/client-gateway/pkg/metrics"
)

// Manager owns the live sessions. Connecting a user restores their
// persisted cart, wires cart changes back into the snapshot store and
// joins the push router; disconnecting undoes the wiring. The cart
// snapshot outlives the session so the cart survives a reconnect.
type Manager struct {
	mu       sync.Mutex
	sessions map[string]*managed

	router      *push.Router
	snapshots   SnapshotStore
	favoriteAPI favoriteapp.API
	log         *slog.Logger
}

type managed struct {
	session *Session
	unwatch func()
}

func NewManager(router *push.Router, snapshots SnapshotStore, favoriteAPI favoriteapp.API, log *slog.Logger) *Manager {
	return &Manager{
		sessions:    make(map[string]*managed),
		router:      router,
		snapshots:   snapshots,
		favoriteAPI: favoriteAPI,
		log:         log,
	}
}

// Connect returns the user's session, creating it on first contact.
// Reconnecting reuses the live session so in-flight push updates are
// never lost between two tabs.
func (m *Manager) Connect(ctx context.Context, userID string) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if held, ok := m.sessions[userID]; ok {
		return held.session, nil
	}

	s := &Session{
		UserID:        userID,
		Cart:          cartapp.NewStore(),
		Orders:        orderapp.NewProjector(),
		Notifications: notifapp.NewCenter(),
		Favorites:     favoriteapp.NewService(m.favoriteAPI, m.log),
	}

	restored, err := m.snapshots.Load(ctx, userID)
	switch {
	case err == nil:
		s.Cart.Restore(restored)
	case errors.Is(err, ErrNoSnapshot):
		// First visit or aged-out cart.
	default:
		m.log.WarnContext(ctx, "cart snapshot load failed", "user_id", userID, "err", err)
	}

	unwatch := s.Cart.Subscribe(func(ctx context.Context, c cart.Cart) {
		m.persist(ctx, userID, c)
	})

	m.sessions[userID] = &managed{session: s, unwatch: unwatch}
	m.router.Join(userID, s)
	metrics.ActiveSessions.Inc()
	m.log.InfoContext(ctx, "session connected", "user_id", userID)
	return s, nil
}

// Get returns the live session without creating one.
func (m *Manager) Get(userID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	held, ok := m.sessions[userID]
	if !ok {
		return nil, false
	}
	return held.session, true
}

// Disconnect tears the session down. The cart snapshot stays so the
// next connect restores it.
func (m *Manager) Disconnect(ctx context.Context, userID string) {
	m.mu.Lock()
	held, ok := m.sessions[userID]
	if ok {
		delete(m.sessions, userID)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	m.router.Leave(userID)
	held.unwatch()
	metrics.ActiveSessions.Dec()
	m.log.InfoContext(ctx, "session disconnected", "user_id", userID)
}

// persist mirrors every cart change into the snapshot store under the
// mutating request's context. An empty cart deletes the snapshot
// instead of storing a husk.
func (m *Manager) persist(ctx context.Context, userID string, c cart.Cart) {
	var err error
	if len(c.Items) == 0 {
		err = m.snapshots.Delete(ctx, userID)
	} else {
		err = m.snapshots.Save(ctx, userID, c)
	}
	if err != nil {
		m.log.WarnContext(ctx, "cart snapshot write failed", "user_id", userID, "err", err)
	}
}
