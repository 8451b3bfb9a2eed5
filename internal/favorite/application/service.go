// Package application implements optimistic favorite toggles: the
// local flag flips immediately, the marketplace call runs after, and a
// failure applies the exact inverse flip so nothing is lost.
package application

import (
	"context"
	"log/slog"
	"sync"
)

// API is the slice of the marketplace the service needs.
type API interface {
	ToggleFavoriteRestaurant(ctx context.Context, restaurantID string) error
	ToggleFavoriteMenuItem(ctx context.Context, menuItemID string) error
}

// Service holds one user's favorite sets.
type Service struct {
	mu          sync.Mutex
	restaurants map[string]bool
	menuItems   map[string]bool

	api API
	log *slog.Logger
}

func NewService(api API, log *slog.Logger) *Service {
	return &Service{
		restaurants: make(map[string]bool),
		menuItems:   make(map[string]bool),
		api:         api,
		log:         log,
	}
}

// SetRestaurants replaces the local restaurant set from a fetch.
func (s *Service) SetRestaurants(ids []string) {
	s.mu.Lock()
	s.restaurants = toSet(ids)
	s.mu.Unlock()
}

// SetMenuItems replaces the local menu-item set from a fetch.
func (s *Service) SetMenuItems(ids []string) {
	s.mu.Lock()
	s.menuItems = toSet(ids)
	s.mu.Unlock()
}

// IsFavoriteRestaurant reports the local flag.
func (s *Service) IsFavoriteRestaurant(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.restaurants[id]
}

func (s *Service) IsFavoriteMenuItem(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.menuItems[id]
}

// ToggleRestaurant flips the flag optimistically and reverts it when
// the marketplace call fails. It returns the flag's settled value.
func (s *Service) ToggleRestaurant(ctx context.Context, id string) (bool, error) {
	now := s.flip(s.restaurantSet, id)

	if err := s.api.ToggleFavoriteRestaurant(ctx, id); err != nil {
		reverted := s.flip(s.restaurantSet, id)
		s.log.WarnContext(ctx, "favorite toggle rolled back", "restaurant_id", id, "err", err)
		return reverted, err
	}
	return now, nil
}

// ToggleMenuItem behaves like ToggleRestaurant for menu items.
func (s *Service) ToggleMenuItem(ctx context.Context, id string) (bool, error) {
	now := s.flip(s.menuItemSet, id)

	if err := s.api.ToggleFavoriteMenuItem(ctx, id); err != nil {
		reverted := s.flip(s.menuItemSet, id)
		s.log.WarnContext(ctx, "favorite toggle rolled back", "menu_item_id", id, "err", err)
		return reverted, err
	}
	return now, nil
}

func (s *Service) restaurantSet() map[string]bool { return s.restaurants }
func (s *Service) menuItemSet() map[string]bool   { return s.menuItems }

// flip toggles id in the chosen set and returns the new value. Its own
// inverse: calling it twice restores the set exactly.
func (s *Service) flip(set func() map[string]bool, id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := set()
	if m[id] {
		delete(m, id)
		return false
	}
	m[id] = true
	return true
}

func toSet(ids []string) map[string]bool {
	m := make(map[string]bool, len(ids))
	for _, id := range ids {
		m[id] = true
	}
	return m
}
