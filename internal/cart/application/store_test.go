package application

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fooddel/client-gateway/internal/cart/domain"
)

func TestStoreNotifiesSubscribers(t *testing.T) {
	s := NewStore()
	ctx := context.Background()

	var seen []domain.Cart
	unsub := s.Subscribe(func(_ context.Context, c domain.Cart) { seen = append(seen, c) })

	s.Add(ctx, domain.LineItem{ProductID: "p1", UnitPrice: 100, Quantity: 1}, domain.RestaurantRef{ID: "r1"})
	s.UpdateQuantity(ctx, 0, 3)

	require.Len(t, seen, 2)
	assert.Equal(t, 100.0, seen[0].Total)
	assert.Equal(t, 300.0, seen[1].Total)

	unsub()
	s.Clear(ctx)
	assert.Len(t, seen, 2, "unsubscribed listener must not fire")
}

func TestStorePassesMutationContextToListeners(t *testing.T) {
	s := NewStore()
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "req-7")

	var got any
	s.Subscribe(func(ctx context.Context, _ domain.Cart) { got = ctx.Value(key{}) })

	s.Add(ctx, domain.LineItem{ProductID: "p1", UnitPrice: 10, Quantity: 1}, domain.RestaurantRef{ID: "r1"})
	assert.Equal(t, "req-7", got, "listener must see the caller's context")
}

func TestStoreStateIsACopy(t *testing.T) {
	s := NewStore()
	s.Add(context.Background(), domain.LineItem{ProductID: "p1", UnitPrice: 50, Quantity: 2}, domain.RestaurantRef{ID: "r1"})

	snap := s.State()
	snap.Items[0].Quantity = 99
	snap.Restaurant.ID = "tampered"

	fresh := s.State()
	assert.Equal(t, 2, fresh.Items[0].Quantity)
	assert.Equal(t, "r1", fresh.Restaurant.ID)
}

func TestStoreRestore(t *testing.T) {
	s := NewStore()
	notified := false
	s.Subscribe(func(context.Context, domain.Cart) { notified = true })

	s.Restore(domain.Cart{
		Items:      []domain.LineItem{{ProductID: "p1", UnitPrice: 10, Quantity: 1}},
		Restaurant: &domain.RestaurantRef{ID: "r1"},
		Total:      10,
	})

	assert.False(t, notified)
	assert.Equal(t, 10.0, s.State().Total)
}
