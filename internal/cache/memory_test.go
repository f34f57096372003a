package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemory_SetGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	_, ok, err := m.Get(ctx, "missing")
	assert.NoError(t, err)
	assert.False(t, ok)

	err = m.Set(ctx, "k", []byte("v"), time.Minute)
	require.NoError(t, err)

	got, ok, err := m.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v"), got)
}

func TestMemory_RejectsNonPositiveTTL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	err := m.Set(ctx, "k", []byte("v"), 0)
	assert.Error(t, err)

	err = m.Set(ctx, "k", []byte("v"), -time.Second)
	assert.Error(t, err)
}

func TestMemory_ExpiryOnRead(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	current := time.Now()
	m.now = func() time.Time { return current }

	require.NoError(t, m.Set(ctx, "k", []byte("v"), 10*time.Second))

	// Still fresh just before the deadline.
	current = current.Add(9 * time.Second)
	_, ok, err := m.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)

	// Gone after the deadline, and the entry is dropped.
	current = current.Add(2 * time.Second)
	_, ok, err = m.Get(ctx, "k")
	assert.NoError(t, err)
	assert.False(t, ok)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_SweepOnWrite(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	current := time.Now()
	m.now = func() time.Time { return current }

	require.NoError(t, m.Set(ctx, "short", []byte("a"), time.Second))
	require.NoError(t, m.Set(ctx, "long", []byte("b"), time.Hour))
	assert.Equal(t, 2, m.Len())

	current = current.Add(2 * time.Second)
	require.NoError(t, m.Set(ctx, "other", []byte("c"), time.Minute))

	// The write swept the expired entry.
	assert.Equal(t, 2, m.Len())
	_, ok, _ := m.Get(ctx, "long")
	assert.True(t, ok)
	_, ok, _ = m.Get(ctx, "other")
	assert.True(t, ok)
}

func TestMemory_OverwriteRefreshesTTL(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	current := time.Now()
	m.now = func() time.Time { return current }

	require.NoError(t, m.Set(ctx, "k", []byte("v1"), 10*time.Second))
	current = current.Add(8 * time.Second)
	require.NoError(t, m.Set(ctx, "k", []byte("v2"), 10*time.Second))

	current = current.Add(5 * time.Second)
	got, ok, err := m.Get(ctx, "k")
	assert.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("v2"), got)
}
