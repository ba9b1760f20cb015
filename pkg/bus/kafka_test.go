package bus

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type seedCall struct {
	topic string
	group string
}

func TestKafkaSubscribeSeedsOffsetsBeforeReturning(t *testing.T) {
	k := NewKafka([]string{"localhost:9092"})
	var calls []seedCall
	k.seed = func(ctx context.Context, brokers []string, topic, group string) error {
		_, hasDeadline := ctx.Deadline()
		assert.True(t, hasDeadline)
		calls = append(calls, seedCall{topic: topic, group: group})
		return nil
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	defer k.Close()

	require.NoError(t, k.Subscribe(ctx, "twosides.responses", "", func(context.Context, []byte) {}))
	require.NoError(t, k.Subscribe(ctx, "twosides.requests", "responders", func(context.Context, []byte) {}))

	require.Len(t, calls, 2)
	assert.Equal(t, "twosides.responses", calls[0].topic)
	assert.True(t, strings.HasPrefix(calls[0].group, "twosides-"), calls[0].group)
	assert.Equal(t, seedCall{topic: "twosides.requests", group: "responders"}, calls[1])
}

func TestKafkaSubscribeFailsWhenOffsetsCannotBeSeeded(t *testing.T) {
	k := NewKafka([]string{"localhost:9092"})
	k.seed = func(context.Context, []string, string, string) error {
		return errors.New("broker unreachable")
	}
	defer k.Close()

	err := k.Subscribe(context.Background(), "twosides.responses", "", func(context.Context, []byte) {})
	assert.ErrorIs(t, err, ErrTransport)
	assert.Empty(t, k.consumers)
}
