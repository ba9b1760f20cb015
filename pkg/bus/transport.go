// Package bus carries opaque payloads over a publish/subscribe broker.
package bus

import (
	"context"
	"errors"
	"fmt"

	"github.com/synaptica-ai/twosides-bridge/pkg/common/config"
	"github.com/synaptica-ai/twosides-bridge/pkg/common/database"
)

// ErrTransport marks a broker failure: unreachable, rejected publish, or a
// transport already closed.
var ErrTransport = errors.New("transport failure")

// Handler receives one payload. Handlers are invoked sequentially per
// subscription and must not retain payload after returning.
type Handler func(ctx context.Context, payload []byte)

type Transport interface {
	// Publish returns once the broker acknowledged the payload.
	Publish(ctx context.Context, topic string, payload []byte) error

	// Subscribe starts a background listener on topic and returns without
	// waiting for traffic. Listeners sharing a non-empty group split the
	// topic between them; an empty group sees every message. The listener
	// stops when ctx is done or the transport is closed.
	Subscribe(ctx context.Context, topic, group string, handler Handler) error

	Close() error
}

// New builds the transport named by cfg.Transport.
func New(cfg *config.Config) (Transport, error) {
	switch cfg.Transport {
	case "kafka":
		return NewKafka(cfg.KafkaBrokers), nil
	case "redis":
		return NewRedis(database.GetRedis(cfg)), nil
	case "memory":
		return NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown transport %q", cfg.Transport)
	}
}
