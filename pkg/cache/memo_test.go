package cache

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoLoadsOnce(t *testing.T) {
	var calls atomic.Int32
	m := NewMemo(func(ctx context.Context) ([]int, error) {
		calls.Add(1)
		return []int{1, 2, 3}, nil
	})

	assert.False(t, m.Loaded())
	first, err := m.Get(context.Background())
	require.NoError(t, err)
	second, err := m.Get(context.Background())
	require.NoError(t, err)

	assert.Equal(t, int32(1), calls.Load())
	assert.True(t, m.Loaded())
	assert.Same(t, &first[0], &second[0], "callers must share the cached value")
}

func TestMemoCoalescesConcurrentFirstLoads(t *testing.T) {
	var calls atomic.Int32
	release := make(chan struct{})
	m := NewMemo(func(ctx context.Context) (string, error) {
		calls.Add(1)
		<-release
		return "data", nil
	})

	var wg sync.WaitGroup
	results := make([]string, 8)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			v, err := m.Get(context.Background())
			assert.NoError(t, err)
			results[i] = v
		}(i)
	}
	time.Sleep(20 * time.Millisecond)
	close(release)
	wg.Wait()

	assert.Equal(t, int32(1), calls.Load())
	for _, r := range results {
		assert.Equal(t, "data", r)
	}
}

func TestMemoDoesNotKeepFailures(t *testing.T) {
	var calls atomic.Int32
	m := NewMemo(func(ctx context.Context) (int, error) {
		if calls.Add(1) == 1 {
			return 0, errors.New("network down")
		}
		return 7, nil
	})

	_, err := m.Get(context.Background())
	require.Error(t, err)
	assert.False(t, m.Loaded())

	v, err := m.Get(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 7, v)
	assert.Equal(t, int32(2), calls.Load())
}

func TestMemoLoadSurvivesCancelledFirstCaller(t *testing.T) {
	started := make(chan struct{})
	release := make(chan struct{})
	m := NewMemo(func(ctx context.Context) (string, error) {
		close(started)
		<-release
		if err := ctx.Err(); err != nil {
			return "", err
		}
		return "data", nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	firstErr := make(chan error, 1)
	go func() {
		_, err := m.Get(ctx)
		firstErr <- err
	}()
	<-started

	second := make(chan string, 1)
	go func() {
		v, err := m.Get(context.Background())
		assert.NoError(t, err)
		second <- v
	}()

	cancel()
	require.ErrorIs(t, <-firstErr, context.Canceled)

	close(release)
	assert.Equal(t, "data", <-second)
	assert.True(t, m.Loaded())
}
