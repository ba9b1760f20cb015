package kafka

import (
	"context"
	"fmt"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
)

// Producer writes to a single topic and waits for every in-sync replica to
// acknowledge each message.
type Producer struct {
	writer *kafka.Writer
}

func NewProducer(brokers []string, topic string) *Producer {
	writer := &kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.LeastBytes{},
		RequiredAcks:           kafka.RequireAll,
		Async:                  false,
		BatchSize:              1,
		BatchTimeout:           10 * time.Millisecond,
		AllowAutoTopicCreation: true,
	}

	return &Producer{writer: writer}
}

// Publish sends value keyed by key. The key only labels the message for
// tracing: LeastBytes balancing ignores it when picking a partition.
func (p *Producer) Publish(ctx context.Context, key string, value []byte, headers map[string]string) error {
	message := kafka.Message{
		Key:   []byte(key),
		Value: value,
	}
	for k, v := range headers {
		message.Headers = append(message.Headers, kafka.Header{Key: k, Value: []byte(v)})
	}

	if err := p.writer.WriteMessages(ctx, message); err != nil {
		logger.Log.WithError(err).WithFields(map[string]interface{}{
			"key":   key,
			"topic": p.writer.Topic,
		}).Error("Failed to publish message")
		return fmt.Errorf("writing to %s: %w", p.writer.Topic, err)
	}

	logger.Log.WithFields(map[string]interface{}{
		"key":   key,
		"topic": p.writer.Topic,
		"bytes": len(value),
	}).Debug("Message published")

	return nil
}

func (p *Producer) Topic() string {
	return p.writer.Topic
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
