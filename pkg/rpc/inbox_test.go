package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInboxDeliversToMatchingWaiter(t *testing.T) {
	in := NewInbox()
	w := in.Expect("a")
	other := in.Expect("b")

	require.True(t, in.Deliver("a", json.RawMessage(`"hello"`)))

	data, err := w.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, `"hello"`, string(data))
	assert.Equal(t, 1, in.Pending())

	other.Cancel()
	assert.Equal(t, 0, in.Pending())
}

func TestInboxResponseConsumedOnce(t *testing.T) {
	in := NewInbox()
	w := in.Expect("dup")

	assert.True(t, in.Deliver("dup", json.RawMessage(`1`)))
	assert.False(t, in.Deliver("dup", json.RawMessage(`2`)))

	data, err := w.Wait(context.Background(), time.Second)
	require.NoError(t, err)
	assert.Equal(t, "1", string(data))
}

func TestInboxDropsUnsolicited(t *testing.T) {
	in := NewInbox()
	assert.False(t, in.Deliver("nobody", json.RawMessage(`[]`)))
	assert.Equal(t, 0, in.Pending())
}

func TestInboxEarlyResponseIsKept(t *testing.T) {
	in := NewInbox()
	w := in.Expect("early")
	require.True(t, in.Deliver("early", json.RawMessage(`true`)))

	time.Sleep(10 * time.Millisecond)
	data, err := w.Wait(context.Background(), 50*time.Millisecond)
	require.NoError(t, err)
	assert.Equal(t, "true", string(data))
}

func TestInboxConcurrentDistinctIDs(t *testing.T) {
	in := NewInbox()
	const n = 200

	waiters := make([]*Waiter, n)
	for i := range waiters {
		waiters[i] = in.Expect(fmt.Sprintf("id-%d", i))
	}

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			in.Deliver(fmt.Sprintf("id-%d", i), json.RawMessage(fmt.Sprintf("%d", i)))
		}(i)
	}

	for i, w := range waiters {
		data, err := w.Wait(context.Background(), time.Second)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("%d", i), string(data))
	}
	wg.Wait()
	assert.Equal(t, 0, in.Pending())
}

func TestInboxTimeout(t *testing.T) {
	in := NewInbox()
	w := in.Expect("slow")

	timeout := 50 * time.Millisecond
	start := time.Now()
	_, err := w.Wait(context.Background(), timeout)
	elapsed := time.Since(start)

	require.ErrorIs(t, err, ErrRequestTimeout)
	assert.GreaterOrEqual(t, elapsed, timeout)
	assert.Less(t, elapsed, timeout+time.Second)
	assert.Equal(t, 0, in.Pending())
	assert.False(t, in.Deliver("slow", json.RawMessage(`[]`)))
}

func TestInboxContextCancel(t *testing.T) {
	in := NewInbox()
	w := in.Expect("cancelled")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := w.Wait(ctx, time.Minute)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 0, in.Pending())
}
