package cache

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"
)

// LoadFunc produces the value held by a Memo.
type LoadFunc[T any] func(ctx context.Context) (T, error)

// Memo holds a lazily loaded value for the life of the process.
// The first successful load is kept forever; concurrent callers share one load
// and failed loads are not remembered, so the next caller tries again.
type Memo[T any] struct {
	load  LoadFunc[T]
	group singleflight.Group

	mu     sync.RWMutex
	value  T
	loaded bool
}

// NewMemo creates a Memo around load.
func NewMemo[T any](load LoadFunc[T]) *Memo[T] {
	return &Memo[T]{load: load}
}

// Get returns the memoised value, loading it on first use.
func (m *Memo[T]) Get(ctx context.Context) (T, error) {
	if v, ok := m.Peek(); ok {
		return v, nil
	}

	// The shared load outlives any single caller; each caller only stops waiting.
	ch := m.group.DoChan("value", func() (interface{}, error) {
		if v, ok := m.Peek(); ok {
			return v, nil
		}
		v, err := m.load(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.value = v
		m.loaded = true
		m.mu.Unlock()
		return v, nil
	})

	var zero T
	select {
	case <-ctx.Done():
		return zero, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// Peek returns the value without loading.
func (m *Memo[T]) Peek() (T, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.value, m.loaded
}

// Loaded reports whether a value has been stored.
func (m *Memo[T]) Loaded() bool {
	_, ok := m.Peek()
	return ok
}
