package conditions

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"
)

// lookupTimeout bounds a shared lookup, which outlives any single caller.
const lookupTimeout = 30 * time.Second

// Cache remembers descriptions for the life of the process. Concurrent
// lookups of the same name share one call to the underlying Describer.
// Failures are not cached.
type Cache struct {
	next  Describer
	group singleflight.Group

	mu      sync.RWMutex
	entries map[string]string
}

func NewCache(next Describer) *Cache {
	return &Cache{next: next, entries: make(map[string]string)}
}

func (c *Cache) Describe(ctx context.Context, name string) (string, error) {
	c.mu.RLock()
	text, ok := c.entries[name]
	c.mu.RUnlock()
	if ok {
		return text, nil
	}

	v, err, _ := c.group.Do(name, func() (interface{}, error) {
		c.mu.RLock()
		text, ok := c.entries[name]
		c.mu.RUnlock()
		if ok {
			return text, nil
		}
		// Callers share this lookup, so one of them going away must not
		// cancel it for the rest.
		lookupCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), lookupTimeout)
		defer cancel()
		text, err := c.next.Describe(lookupCtx, name)
		if err != nil {
			return "", err
		}
		c.mu.Lock()
		c.entries[name] = text
		c.mu.Unlock()
		return text, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// Len returns the number of cached descriptions.
func (c *Cache) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.entries)
}
