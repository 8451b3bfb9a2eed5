package main

import (
	"context"
	"net/http"
	"os"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/fooddel/client-gateway/pkg/logging"
	"github.com/fooddel/client-gateway/pkg/metrics"
	"github.com/fooddel/client-gateway/pkg/shutdown"
	"github.com/fooddel/client-gateway/pkg/tracing"

	checkout "github.com/fooddel/client-gateway/internal/checkout/application"
	"github.com/fooddel/client-gateway/internal/config"
	gatewayhttp "github.com/fooddel/client-gateway/internal/gateway/http"
	"github.com/fooddel/client-gateway/internal/marketplace"
	"github.com/fooddel/client-gateway/internal/payment"
	"github.com/fooddel/client-gateway/internal/push"
	"github.com/fooddel/client-gateway/internal/session"
)

func main() {
	log := logging.New("client-gateway")

	ctx, cancel := shutdown.WithSignals(context.Background())
	defer cancel()

	cfg := config.Load()

	tp, err := tracing.Init(ctx, "client-gateway", cfg.OTLPEndpoint, log)
	if err != nil {
		log.Error("otel init failed", "err", err)
		os.Exit(1)
	}
	defer func() { _ = tp.Shutdown(context.Background()) }()

	// Redis for cart snapshots
	rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer rdb.Close()
	if err := rdb.Ping(ctx).Err(); err != nil {
		log.Error("redis connect failed", "err", err)
		os.Exit(1)
	}
	snapshots := session.NewRedisSnapshots(rdb, cfg.SnapshotTTL)

	// Marketplace client and collaborators
	market := marketplace.NewClient(cfg.MarketplaceURL, log)
	gateway := payment.NewStripeGateway(cfg.StripeKey, log)
	co := checkout.NewService(market, gateway, log)

	// Push pipeline
	router := push.NewRouter(log)
	consumer := push.NewConsumer(cfg.KafkaBrokers, cfg.PushTopic, cfg.PushGroup, router, log)
	defer consumer.Close()

	sessions := session.NewManager(router, snapshots, market, log)

	handler := gatewayhttp.NewHandler(sessions, market, co, log)
	srv := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      handler.Routes(cfg.JWTSecret),
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 0, // SSE streams stay open
	}

	metricsSrv := &http.Server{Addr: cfg.MetricsAddr, Handler: metrics.Handler()}

	go func() {
		if err := consumer.Run(ctx); err != nil {
			log.Error("push consumer stopped with error", "err", err)
			cancel()
		}
	}()

	go func() {
		log.Info("metrics listening", "addr", cfg.MetricsAddr)
		if err := metricsSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server error", "err", err)
		}
	}()

	go func() {
		log.Info("http listening", "addr", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("http server error", "err", err)
			cancel()
		}
	}()

	<-ctx.Done()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	_ = srv.Shutdown(shutdownCtx)
	_ = metricsSrv.Shutdown(shutdownCtx)
	log.Info("client-gateway shutdown complete")
}
