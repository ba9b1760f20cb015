package bus

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/synaptica-ai/twosides-bridge/pkg/common/kafka"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
)

const seedTimeout = 15 * time.Second

// Kafka publishes through one producer per topic, created on first use, and
// runs one consumer per subscription.
type Kafka struct {
	brokers []string
	seed    func(ctx context.Context, brokers []string, topic, group string) error

	mu        sync.Mutex
	producers map[string]*kafka.Producer
	consumers []*kafka.Consumer
	closed    bool
}

func NewKafka(brokers []string) *Kafka {
	return &Kafka{
		brokers:   brokers,
		seed:      kafka.SeedGroupOffsets,
		producers: make(map[string]*kafka.Producer),
	}
}

func (k *Kafka) producer(topic string) (*kafka.Producer, error) {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil, fmt.Errorf("%w: kafka transport closed", ErrTransport)
	}
	if p, ok := k.producers[topic]; ok {
		return p, nil
	}
	p := kafka.NewProducer(k.brokers, topic)
	k.producers[topic] = p
	return p, nil
}

func (k *Kafka) Publish(ctx context.Context, topic string, payload []byte) error {
	p, err := k.producer(topic)
	if err != nil {
		return err
	}
	if err := p.Publish(ctx, uuid.NewString(), payload, nil); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

func (k *Kafka) Subscribe(ctx context.Context, topic, group string, handler Handler) error {
	if group == "" {
		group = "twosides-" + uuid.NewString()
	}

	// The group join finishes in the background after the reader starts.
	// Pinning the start offsets first means nothing published after
	// Subscribe returns can be skipped.
	seedCtx, cancel := context.WithTimeout(ctx, seedTimeout)
	err := k.seed(seedCtx, k.brokers, topic, group)
	cancel()
	if err != nil {
		return fmt.Errorf("%w: subscribing to %s: %v", ErrTransport, topic, err)
	}

	k.mu.Lock()
	if k.closed {
		k.mu.Unlock()
		return fmt.Errorf("%w: kafka transport closed", ErrTransport)
	}
	consumer := kafka.NewConsumer(k.brokers, topic, group)
	k.consumers = append(k.consumers, consumer)
	k.mu.Unlock()

	log := logger.Log.WithFields(map[string]interface{}{"topic": topic, "group": group})
	go func() {
		log.Info("Kafka subscription started")
		err := consumer.Consume(ctx, kafka.MessageHandler(handler))
		log.WithError(err).Info("Kafka subscription stopped")
	}()
	return nil
}

func (k *Kafka) Close() error {
	k.mu.Lock()
	defer k.mu.Unlock()
	if k.closed {
		return nil
	}
	k.closed = true

	var firstErr error
	for _, c := range k.consumers {
		if err := c.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	for _, p := range k.producers {
		if err := p.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
