// Package cache memoizes screening results by answer fingerprint. Screening
// is pure, so any entry stays valid for as long as the rule tables do.
package cache

import (
	"context"
	"fmt"
	"sync"

	"github.com/awmpietro/under5-screening/internal/triage"
)

// ComputeFunc produces the result for a key on a cache miss.
type ComputeFunc func() (triage.Result, error)

// Cache returns the result stored under key, computing it with fn on a miss.
// Returned results are shared and must be treated as read-only.
type Cache interface {
	GetOrCompute(ctx context.Context, key string, fn ComputeFunc) (triage.Result, error)
}

// InMemory is a bounded map. Once full it stops admitting new keys.
// Concurrent misses on one key share a single call to fn.
type InMemory struct {
	mu       sync.Mutex
	max      int
	items    map[string]triage.Result
	inflight map[string]*call
}

type call struct {
	done chan struct{}
	val  triage.Result
	err  error
}

func NewInMemory(max int) *InMemory {
	return &InMemory{
		max:      max,
		items:    make(map[string]triage.Result, max),
		inflight: make(map[string]*call),
	}
}

func (c *InMemory) GetOrCompute(ctx context.Context, key string, fn ComputeFunc) (triage.Result, error) {
	c.mu.Lock()
	if v, ok := c.items[key]; ok {
		c.mu.Unlock()
		return v, nil
	}
	if cl, ok := c.inflight[key]; ok {
		c.mu.Unlock()
		select {
		case <-cl.done:
			return cl.val, cl.err
		case <-ctx.Done():
			return triage.Result{}, ctx.Err()
		}
	}

	cl := &call{done: make(chan struct{})}
	c.inflight[key] = cl
	c.mu.Unlock()

	cl.val, cl.err = run(fn)

	c.mu.Lock()
	delete(c.inflight, key)
	if cl.err == nil && len(c.items) < c.max {
		c.items[key] = cl.val
	}
	c.mu.Unlock()
	close(cl.done)

	return cl.val, cl.err
}

// Len reports how many results are stored.
func (c *InMemory) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.items)
}

func run(fn ComputeFunc) (res triage.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("screening panicked: %v", r)
		}
	}()
	return fn()
}

// Noop computes every time.
type Noop struct{}

func (Noop) GetOrCompute(_ context.Context, _ string, fn ComputeFunc) (triage.Result, error) {
	return run(fn)
}
