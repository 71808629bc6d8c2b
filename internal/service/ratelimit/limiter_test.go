package ratelimit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllowPerKey(t *testing.T) {
	l := New(0.001, 2)

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))

	assert.True(t, l.Allow("b"), "keys have separate buckets")
}

func TestIdleBucketsAreSwept(t *testing.T) {
	clock := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	l := New(1, 1)
	l.now = func() time.Time { return clock }

	for _, k := range []string{"10.0.0.1", "10.0.0.2", "10.0.0.3"} {
		assert.True(t, l.Allow(k))
	}
	require.Equal(t, 3, l.Len())

	clock = clock.Add(DefaultIdle / 2)
	assert.True(t, l.Allow("10.0.0.3"))

	clock = clock.Add(DefaultIdle/2 + time.Second)
	assert.True(t, l.Allow("10.0.0.4"))
	assert.Equal(t, 2, l.Len(), "only buckets used within the idle period survive")
}
