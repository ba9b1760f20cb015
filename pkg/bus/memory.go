package bus

import (
	"context"
	"fmt"
	"sync"
)

const memoryQueueSize = 256

type memorySub struct {
	topic string
	group string
	queue chan []byte
	done  chan struct{}
}

// Memory is an in-process broker, used by tests and single-process setups
// where requester and responder share one binary.
type Memory struct {
	mu     sync.Mutex
	subs   map[string][]*memorySub
	cursor map[string]int // topic/group -> round robin position
	closed bool
}

func NewMemory() *Memory {
	return &Memory{
		subs:   make(map[string][]*memorySub),
		cursor: make(map[string]int),
	}
}

func (m *Memory) Publish(ctx context.Context, topic string, payload []byte) error {
	msg := append([]byte(nil), payload...)

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("%w: memory transport closed", ErrTransport)
	}
	targets := m.targets(topic)
	m.mu.Unlock()

	for _, sub := range targets {
		select {
		case sub.queue <- msg:
		case <-sub.done:
		case <-ctx.Done():
			return fmt.Errorf("%w: %v", ErrTransport, ctx.Err())
		}
	}
	return nil
}

// targets picks every ungrouped subscriber plus one member per group.
// Callers hold m.mu.
func (m *Memory) targets(topic string) []*memorySub {
	var out []*memorySub
	groups := make(map[string][]*memorySub)
	var order []string
	for _, sub := range m.subs[topic] {
		if sub.group == "" {
			out = append(out, sub)
			continue
		}
		if _, ok := groups[sub.group]; !ok {
			order = append(order, sub.group)
		}
		groups[sub.group] = append(groups[sub.group], sub)
	}
	for _, g := range order {
		members := groups[g]
		key := topic + "/" + g
		out = append(out, members[m.cursor[key]%len(members)])
		m.cursor[key]++
	}
	return out
}

func (m *Memory) Subscribe(ctx context.Context, topic, group string, handler Handler) error {
	sub := &memorySub{
		topic: topic,
		group: group,
		queue: make(chan []byte, memoryQueueSize),
		done:  make(chan struct{}),
	}

	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return fmt.Errorf("%w: memory transport closed", ErrTransport)
	}
	m.subs[topic] = append(m.subs[topic], sub)
	m.mu.Unlock()

	go func() {
		defer m.remove(sub)
		for {
			select {
			case <-ctx.Done():
				return
			case <-sub.done:
				return
			case msg := <-sub.queue:
				handler(ctx, msg)
			}
		}
	}()
	return nil
}

func (m *Memory) remove(sub *memorySub) {
	m.mu.Lock()
	defer m.mu.Unlock()
	subs := m.subs[sub.topic]
	for i, s := range subs {
		if s == sub {
			m.subs[sub.topic] = append(subs[:i:i], subs[i+1:]...)
			break
		}
	}
	select {
	case <-sub.done:
	default:
		close(sub.done)
	}
}

func (m *Memory) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return nil
	}
	m.closed = true
	for _, subs := range m.subs {
		for _, sub := range subs {
			select {
			case <-sub.done:
			default:
				close(sub.done)
			}
		}
	}
	return nil
}
