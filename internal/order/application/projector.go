// Package application holds the order status projector: the local
// cache of fetched orders, kept current by server pushes.
package application

import (
	"sync"

	"github.com/fooddel/client-gateway/internal/order/domain"
)

// StatusUpdate is a server-pushed transition for one order.
type StatusUpdate struct {
	OrderID       string               `json:"orderId"`
	Status        domain.Status        `json:"status"`
	DeliveryPhase domain.DeliveryPhase `json:"deliveryPhase"`
}

// Listener receives every update the projector applied.
type Listener func(StatusUpdate)

// Projector caches the currently viewed order and the order list and
// applies pushed status updates to whichever of the two holds the
// order. It never initiates a transition; fetches are the source of
// truth and fully replace what is held.
type Projector struct {
	mu      sync.Mutex
	orders  []domain.Order
	current *domain.Order

	subMu  sync.Mutex
	nextID int
	subs   map[int]Listener
}

func NewProjector() *Projector {
	return &Projector{subs: make(map[int]Listener)}
}

// SetOrders replaces the cached list from a fetch response.
func (p *Projector) SetOrders(list []domain.Order) {
	cp := make([]domain.Order, len(list))
	copy(cp, list)

	p.mu.Lock()
	p.orders = cp
	p.mu.Unlock()
}

// SetCurrentOrder replaces the single-order slot from a fetch response.
func (p *Projector) SetCurrentOrder(o domain.Order) {
	p.mu.Lock()
	cp := o
	p.current = &cp
	p.mu.Unlock()
}

// ClearCurrentOrder empties the single-order slot, e.g. when leaving
// the tracking view.
func (p *Projector) ClearCurrentOrder() {
	p.mu.Lock()
	p.current = nil
	p.mu.Unlock()
}

// Orders returns a copy of the cached list.
func (p *Projector) Orders() []domain.Order {
	p.mu.Lock()
	defer p.mu.Unlock()
	cp := make([]domain.Order, len(p.orders))
	copy(cp, p.orders)
	return cp
}

// CurrentOrder returns the single-order slot, if held.
func (p *Projector) CurrentOrder() (domain.Order, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current == nil {
		return domain.Order{}, false
	}
	return *p.current, true
}

// Get looks the order up by id in either slot, preferring the current
// one.
func (p *Projector) Get(orderID string) (domain.Order, bool) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.current != nil && p.current.ID == orderID {
		return *p.current, true
	}
	for _, o := range p.orders {
		if o.ID == orderID {
			return o, true
		}
	}
	return domain.Order{}, false
}

// Apply overwrites status and delivery phase wherever the order is
// held. An unknown order id is silently dropped: the server stays
// authoritative and a later fetch reconciles. Re-applying the same
// update is a no-op in effect, and an update that would move the
// status backwards in the progression is dropped so a stale push
// cannot regress the display.
func (p *Projector) Apply(u StatusUpdate) bool {
	applied := false

	p.mu.Lock()
	if p.current != nil && p.current.ID == u.OrderID && admissible(p.current.Status, u.Status) {
		p.current.Status = u.Status
		p.current.DeliveryPhase = u.DeliveryPhase
		applied = true
	}
	for i := range p.orders {
		if p.orders[i].ID == u.OrderID && admissible(p.orders[i].Status, u.Status) {
			p.orders[i].Status = u.Status
			p.orders[i].DeliveryPhase = u.DeliveryPhase
			applied = true
		}
	}
	p.mu.Unlock()

	if applied {
		p.notify(u)
	}
	return applied
}

// Subscribe registers a listener for applied updates and returns its
// unsubscribe func.
func (p *Projector) Subscribe(fn Listener) func() {
	p.subMu.Lock()
	id := p.nextID
	p.nextID++
	p.subs[id] = fn
	p.subMu.Unlock()

	return func() {
		p.subMu.Lock()
		delete(p.subs, id)
		p.subMu.Unlock()
	}
}

func (p *Projector) notify(u StatusUpdate) {
	p.subMu.Lock()
	listeners := make([]Listener, 0, len(p.subs))
	for _, fn := range p.subs {
		listeners = append(listeners, fn)
	}
	p.subMu.Unlock()

	for _, fn := range listeners {
		fn(u)
	}
}

// admissible decides whether an incoming status may overwrite the held
// one. Duplicates pass (idempotent overwrite), forward moves pass,
// cancellation passes from anything but delivered, a terminal hold
// accepts nothing else, and a stale earlier status is dropped.
func admissible(held, incoming domain.Status) bool {
	if incoming == held {
		return true
	}
	if incoming == domain.StatusCancelled {
		return held != domain.StatusDelivered
	}
	if held.Terminal() {
		return false
	}
	heldRank, heldOK := held.Rank()
	inRank, inOK := incoming.Rank()
	if !heldOK || !inOK {
		// Unknown statuses pass through on non-terminal holds; the
		// server owns the vocabulary.
		return true
	}
	return inRank >= heldRank
}
