package rpc

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/synaptica-ai/twosides-bridge/pkg/observability/metrics"
)

// Inbox is the response store shared by the subscription callback and the
// waiting callers. A slot is opened before the request is published and
// removed either by the Deliver that fills it or by the waiter giving up.
// All slot access happens under mu.
type Inbox struct {
	mu    sync.Mutex
	slots map[string]chan json.RawMessage
}

func NewInbox() *Inbox {
	return &Inbox{slots: make(map[string]chan json.RawMessage)}
}

// Waiter is the caller's side of an open slot.
type Waiter struct {
	id    string
	ch    chan json.RawMessage
	inbox *Inbox
}

// Expect opens a slot for id. It must be called before the request leaves so
// that an early response finds somewhere to land.
func (in *Inbox) Expect(id string) *Waiter {
	in.mu.Lock()
	defer in.mu.Unlock()
	ch, ok := in.slots[id]
	if !ok {
		ch = make(chan json.RawMessage, 1)
		in.slots[id] = ch
		metrics.PendingRequests.Add(1)
	}
	return &Waiter{id: id, ch: ch, inbox: in}
}

// Deliver hands data to the waiter for id and closes the slot, so a
// redelivered duplicate finds nothing. It reports false when no slot is open
// for id, which is also the fate of responses addressed to other requesters.
func (in *Inbox) Deliver(id string, data json.RawMessage) bool {
	in.mu.Lock()
	defer in.mu.Unlock()
	ch, ok := in.slots[id]
	if !ok {
		return false
	}
	delete(in.slots, id)
	metrics.PendingRequests.Add(-1)
	ch <- data
	return true
}

// Pending returns the number of open slots.
func (in *Inbox) Pending() int {
	in.mu.Lock()
	defer in.mu.Unlock()
	return len(in.slots)
}

func (in *Inbox) discard(id string, ch chan json.RawMessage) {
	in.mu.Lock()
	defer in.mu.Unlock()
	if current, ok := in.slots[id]; ok && current == ch {
		delete(in.slots, id)
		metrics.PendingRequests.Add(-1)
	}
}

// Wait blocks until the response arrives, timeout elapses or ctx is done.
// The slot is closed afterwards in every case.
func (w *Waiter) Wait(ctx context.Context, timeout time.Duration) (json.RawMessage, error) {
	timer := time.NewTimer(timeout)
	defer timer.Stop()

	select {
	case data := <-w.ch:
		return data, nil
	case <-timer.C:
		return w.finish(fmt.Errorf("%w after %s (request %s)", ErrRequestTimeout, timeout, w.id))
	case <-ctx.Done():
		return w.finish(ctx.Err())
	}
}

// Cancel closes the slot without waiting.
func (w *Waiter) Cancel() {
	w.inbox.discard(w.id, w.ch)
}

// finish closes the slot and still returns a response that raced the
// deadline, if one made it in.
func (w *Waiter) finish(cause error) (json.RawMessage, error) {
	w.Cancel()
	select {
	case data := <-w.ch:
		return data, nil
	default:
		return nil, cause
	}
}
