// Package application wraps the cart reducers in a state container:
// mutations run one at a time under a lock and subscribers are told
// about every new state. All I/O stays with the callers.
package application

import (
	"context"
	"sync"

	"github.com/fooddel/client-gateway/internal/cart/domain"
)

// Listener receives the cart state after every applied mutation, along
// with the context of the request that caused it.
type Listener func(context.Context, domain.Cart)

// Store owns one session's cart. Mutations apply a pure reducer to the
// held state and then notify subscribers outside the lock.
type Store struct {
	mu    sync.Mutex
	state domain.Cart

	subMu  sync.Mutex
	nextID int
	subs   map[int]Listener
}

func NewStore() *Store {
	return &Store{state: domain.Empty(), subs: make(map[int]Listener)}
}

// Restore replaces the held state, used when loading a session
// snapshot. Subscribers are not notified.
func (s *Store) Restore(c domain.Cart) {
	s.mu.Lock()
	s.state = c
	s.mu.Unlock()
}

// State returns a copy of the current cart.
func (s *Store) State() domain.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	return copyCart(s.state)
}

func (s *Store) Add(ctx context.Context, item domain.LineItem, restaurant domain.RestaurantRef) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) domain.Cart {
		return domain.Add(c, item, restaurant)
	})
}

func (s *Store) UpdateQuantity(ctx context.Context, index, quantity int) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) domain.Cart {
		return domain.UpdateQuantity(c, index, quantity)
	})
}

func (s *Store) Remove(ctx context.Context, index int) domain.Cart {
	return s.apply(ctx, func(c domain.Cart) domain.Cart {
		return domain.Remove(c, index)
	})
}

func (s *Store) Clear(ctx context.Context) domain.Cart {
	return s.apply(ctx, domain.Clear)
}

// Subscribe registers a listener and returns its unsubscribe func.
func (s *Store) Subscribe(fn Listener) func() {
	s.subMu.Lock()
	id := s.nextID
	s.nextID++
	s.subs[id] = fn
	s.subMu.Unlock()

	return func() {
		s.subMu.Lock()
		delete(s.subs, id)
		s.subMu.Unlock()
	}
}

func (s *Store) apply(ctx context.Context, reduce func(domain.Cart) domain.Cart) domain.Cart {
	s.mu.Lock()
	s.state = reduce(s.state)
	next := copyCart(s.state)
	s.mu.Unlock()

	s.notify(ctx, next)
	return next
}

func (s *Store) notify(ctx context.Context, c domain.Cart) {
	s.subMu.Lock()
	listeners := make([]Listener, 0, len(s.subs))
	for _, fn := range s.subs {
		listeners = append(listeners, fn)
	}
	s.subMu.Unlock()

	for _, fn := range listeners {
		fn(ctx, copyCart(c))
	}
}

func copyCart(c domain.Cart) domain.Cart {
	out := c
	out.Items = make([]domain.LineItem, len(c.Items))
	copy(out.Items, c.Items)
	if c.Restaurant != nil {
		r := *c.Restaurant
		out.Restaurant = &r
	}
	return out
}
