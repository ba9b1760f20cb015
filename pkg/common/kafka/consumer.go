package kafka

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
)

// MessageHandler processes one raw message value. Handlers own their error
// reporting; the consumer commits every message once the handler returns.
type MessageHandler func(ctx context.Context, value []byte)

type Consumer struct {
	reader *kafka.Reader
}

// NewConsumer joins groupID on topic. A group that has never committed starts
// at the newest offset so a fresh subscriber does not replay old traffic.
func NewConsumer(brokers []string, topic string, groupID string) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:     brokers,
		Topic:       topic,
		GroupID:     groupID,
		MinBytes:    1,
		MaxBytes:    10e6, // 10MB
		MaxWait:     100 * time.Millisecond,
		StartOffset: kafka.LastOffset,
	})

	return &Consumer{reader: reader}
}

// Consume handles messages one at a time until ctx is done.
func (c *Consumer) Consume(ctx context.Context, handler MessageHandler) error {
	for {
		message, err := c.reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			if errors.Is(err, io.EOF) || errors.Is(err, kafka.ErrGroupClosed) {
				return err
			}
			logger.Log.WithError(err).Error("Failed to fetch message")
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(time.Second):
			}
			continue
		}

		handler(ctx, message.Value)

		if err := c.reader.CommitMessages(ctx, message); err != nil && ctx.Err() == nil {
			logger.Log.WithError(err).WithField("topic", message.Topic).Error("Failed to commit message")
		}
	}
}

func (c *Consumer) Close() error {
	return c.reader.Close()
}
