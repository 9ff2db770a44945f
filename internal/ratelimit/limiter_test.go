package ratelimit

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNilLimiterNeverBlocks(t *testing.T) {
	var l *Limiter
	require.NoError(t, l.Wait(context.Background()))
	assert.True(t, l.Allow())
	assert.Equal(t, "", l.Name())
}

func TestNewUnlimited(t *testing.T) {
	l := New("unlimited", 0)
	for i := 0; i < 100; i++ {
		assert.True(t, l.Allow())
	}
}

func TestBurstThenDeny(t *testing.T) {
	l := New("OpenLibrary", 2)
	assert.True(t, l.Allow())
	assert.True(t, l.Allow())
	assert.False(t, l.Allow())
	assert.Equal(t, "OpenLibrary", l.Name())
}

func TestWaitHonoursContext(t *testing.T) {
	l := Every("slow", time.Hour, 1)
	require.True(t, l.Allow())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := l.Wait(ctx)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "rate limit wait for slow")
}
