package push

import (
	"context"
	"errors"
	"log/slog"

	"github.com/segmentio/kafka-go"

	"github.com/fooddel/client-gateway/pkg/tracing"
)

// Consumer reads the push topic and hands each message to the router.
// Messages are keyed by recipient user id, so one user's events stay
// ordered within a partition.
type Consumer struct {
	reader *kafka.Reader
	router *Router
	log    *slog.Logger
}

func NewConsumer(brokers []string, topic, groupID string, router *Router, log *slog.Logger) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		StartOffset: kafka.LastOffset,
		MinBytes:    1,
		MaxBytes:    10e6,
	})
	return &Consumer{reader: reader, router: router, log: log}
}

// Run consumes until ctx is cancelled. Offsets are committed after
// routing; routing an event is idempotent downstream, so redelivery
// after a crash is harmless.
func (c *Consumer) Run(ctx context.Context) error {
	c.log.InfoContext(ctx, "push consumer started", "topic", c.reader.Config().Topic)
	for {
		msg, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		}

		msgCtx := tracing.ExtractKafkaHeaders(ctx, msg.Headers)
		c.router.Route(msgCtx, string(msg.Key), msg.Value)

		if err := c.reader.CommitMessages(ctx, msg); err != nil {
			c.log.ErrorContext(ctx, "commit failed", "err", err)
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
