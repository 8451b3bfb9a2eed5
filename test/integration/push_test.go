package integration

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cart "github.com/fooddel/client-gateway/internal/cart/domain"
	order "github.com/fooddel/client-gateway/internal/order/domain"
	"github.com/fooddel/client-gateway/internal/push"
	"github.com/fooddel/client-gateway/internal/session"
)

const pushTopic = "client.push"

func setupEnv(t *testing.T) *Env {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test needs docker")
	}
	env, err := Setup(context.Background())
	require.NoError(t, err)
	t.Cleanup(func() { env.Teardown(context.Background()) })
	return env
}

func TestPushPipelineDeliversStatusUpdate(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	rdb := redis.NewClient(&redis.Options{Addr: env.RedisAddr})
	defer rdb.Close()
	snapshots := session.NewRedisSnapshots(rdb, time.Hour)

	router := push.NewRouter(log)
	manager := session.NewManager(router, snapshots, noopFavoriteAPI{}, log)

	s, err := manager.Connect(ctx, "u1")
	require.NoError(t, err)
	s.Orders.SetOrders([]order.Order{{ID: "o1", Status: order.StatusPlaced, DeliveryPhase: order.PhaseOrderPlaced}})

	consumer := push.NewConsumer(env.Brokers, pushTopic, "it-group", router, log)
	defer consumer.Close()

	runCtx, stop := context.WithCancel(ctx)
	defer stop()
	go func() { _ = consumer.Run(runCtx) }()

	writer := &kafka.Writer{
		Addr:                   kafka.TCP(env.Brokers...),
		Topic:                  pushTopic,
		AllowAutoTopicCreation: true,
	}
	defer writer.Close()

	require.Eventually(t, func() bool {
		err := writer.WriteMessages(ctx, kafka.Message{
			Key:   []byte("u1"),
			Value: []byte(`{"type":"order_status_update","data":{"orderId":"o1","status":"preparing","deliveryPhase":"restaurant_preparing"}}`),
		})
		return err == nil
	}, 30*time.Second, time.Second, "topic should become writable")

	assert.Eventually(t, func() bool {
		got, ok := s.Orders.Get("o1")
		return ok && got.Status == order.StatusPreparing
	}, 30*time.Second, 200*time.Millisecond, "pushed status should reach the projector")
}

func TestCartSnapshotSurvivesReconnect(t *testing.T) {
	env := setupEnv(t)
	ctx := context.Background()
	log := slog.New(slog.DiscardHandler)

	rdb := redis.NewClient(&redis.Options{Addr: env.RedisAddr})
	defer rdb.Close()
	snapshots := session.NewRedisSnapshots(rdb, time.Hour)

	router := push.NewRouter(log)
	manager := session.NewManager(router, snapshots, noopFavoriteAPI{}, log)

	s, err := manager.Connect(ctx, "u2")
	require.NoError(t, err)
	s.Cart.Add(ctx,
		cart.LineItem{ProductID: "m1", Name: "Dal Makhani", UnitPrice: 180, Quantity: 2},
		cart.RestaurantRef{ID: "r1", Name: "Punjab Grill", DeliveryFee: 35},
	)
	manager.Disconnect(ctx, "u2")

	s2, err := manager.Connect(ctx, "u2")
	require.NoError(t, err)
	restored := s2.Cart.State()
	require.Len(t, restored.Items, 1)
	assert.Equal(t, 360.0, restored.Total)
	require.NotNil(t, restored.Restaurant)
	assert.Equal(t, "r1", restored.Restaurant.ID)
}

type noopFavoriteAPI struct{}

func (noopFavoriteAPI) ToggleFavoriteRestaurant(context.Context, string) error { return nil }
func (noopFavoriteAPI) ToggleFavoriteMenuItem(context.Context, string) error   { return nil }
