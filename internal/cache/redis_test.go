package cache

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCache(t *testing.T) (*RedisCache, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	c, err := NewRedisCache(mr.Addr(), "", 0, time.Minute)
	require.NoError(t, err)
	t.Cleanup(func() { _ = c.Close() })
	return c, mr
}

func TestRedisCache_Miss(t *testing.T) {
	c, _ := newTestCache(t)

	val, ok, err := c.Get(context.Background(), "regression:html:missing")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Empty(t, val)
}

func TestRedisCache_RoundTrip(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	value := `{"html":"` + strings.Repeat("<div>plot</div>", 200) + `"}`
	require.NoError(t, c.Set(ctx, "regression:html:abc", value))

	stored, err := mr.Get("regression:html:abc")
	require.NoError(t, err)
	assert.Less(t, len(stored), len(value))

	got, ok, err := c.Get(ctx, "regression:html:abc")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, value, got)
}

func TestRedisCache_TTL(t *testing.T) {
	c, mr := newTestCache(t)
	ctx := context.Background()

	require.NoError(t, c.Set(ctx, "k", "v"))
	assert.Equal(t, time.Minute, mr.TTL("k"))

	mr.FastForward(2 * time.Minute)
	_, ok, err := c.Get(ctx, "k")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedisCache_CorruptValue(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, mr.Set("k", "not zstd"))

	_, ok, err := c.Get(context.Background(), "k")
	require.Error(t, err)
	assert.False(t, ok)
}

func TestRedisCache_Ping(t *testing.T) {
	c, mr := newTestCache(t)
	require.NoError(t, c.Ping(context.Background()))

	mr.Close()
	assert.Error(t, c.Ping(context.Background()))
}
