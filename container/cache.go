package container

import (
	"errors"
	"io"
	"sync"

	"golang.org/x/sync/singleflight"
)

// ── Instance cache ────────────────────────────────────────────────────────────

// instanceCache is one cache partition: the container's root partition holds
// singletons, each scope holds its own for scoped instances.
//
// getOrBuild guarantees at-most-once construction per key: concurrent first
// requests for a key collapse into one build via singleflight, while distinct
// keys build concurrently without contention.
type instanceCache struct {
	mu     sync.RWMutex
	flight singleflight.Group
	items  map[Key]any
	order  []Key // creation order; teardown runs in reverse
}

func newInstanceCache() *instanceCache {
	return &instanceCache{items: make(map[Key]any)}
}

func (ic *instanceCache) getOrBuild(key Key, build func() (any, error)) (any, error) {
	ic.mu.RLock()
	v, ok := ic.items[key]
	ic.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := ic.flight.Do(key.String(), func() (any, error) {
		ic.mu.RLock()
		v, ok := ic.items[key]
		ic.mu.RUnlock()
		if ok {
			return v, nil
		}
		v, err := build()
		if err != nil {
			// Failed builds are not cached; the next request retries.
			return nil, err
		}
		ic.mu.Lock()
		ic.items[key] = v
		ic.order = append(ic.order, key)
		ic.mu.Unlock()
		return v, nil
	})
	if err != nil {
		return nil, err
	}
	return v, nil
}

// drain empties the partition and closes every cached instance implementing
// io.Closer, in reverse creation order so dependents close before their
// dependencies. Close errors are joined.
func (ic *instanceCache) drain() error {
	ic.mu.Lock()
	items := ic.items
	order := ic.order
	ic.items = make(map[Key]any)
	ic.order = nil
	ic.mu.Unlock()

	var errs []error
	for i := len(order) - 1; i >= 0; i-- {
		if c, ok := items[order[i]].(io.Closer); ok {
			if err := c.Close(); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}
