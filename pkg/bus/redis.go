package bus

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/synaptica-ai/twosides-bridge/pkg/common/logger"
)

// Redis uses Redis pub/sub channels as topics. PUBLISH is acknowledged by the
// server; a message reaches only subscribers connected at that moment.
// Redis channels have no consumer groups, so every subscriber receives every
// message regardless of group.
type Redis struct {
	client *redis.Client
}

func NewRedis(client *redis.Client) *Redis {
	return &Redis{client: client}
}

func (r *Redis) Publish(ctx context.Context, topic string, payload []byte) error {
	if err := r.client.Publish(ctx, topic, payload).Err(); err != nil {
		return fmt.Errorf("%w: %v", ErrTransport, err)
	}
	return nil
}

func (r *Redis) Subscribe(ctx context.Context, topic, group string, handler Handler) error {
	sub := r.client.Subscribe(ctx, topic)
	// Wait for the subscription confirmation so that messages published after
	// Subscribe returns are not missed.
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return fmt.Errorf("%w: subscribing to %s: %v", ErrTransport, topic, err)
	}

	log := logger.Log.WithField("topic", topic)
	go func() {
		defer sub.Close()
		log.Info("Redis subscription started")
		ch := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				log.Info("Redis subscription stopped")
				return
			case msg, ok := <-ch:
				if !ok {
					log.Info("Redis subscription closed")
					return
				}
				handler(ctx, []byte(msg.Payload))
			}
		}
	}()
	return nil
}

func (r *Redis) Close() error {
	return r.client.Close()
}
