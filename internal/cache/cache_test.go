package cache

import (
	"context"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/laithjmi2019-hash/fintech-terminal-pro/internal/metrics"
)

type sample struct {
	Score  int      `msgpack:"score"`
	Titles []string `msgpack:"titles"`
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	clock := time.Date(2025, 1, 1, 12, 0, 0, 0, time.UTC)
	c := NewMemory()
	c.now = func() time.Time { return clock }

	c.Put(ctx, "AAPL", []byte("x"), time.Hour)
	c.Put(ctx, "forever", []byte("y"), 0)

	v, ok := c.Get(ctx, "AAPL")
	require.True(t, ok)
	assert.Equal(t, []byte("x"), v)

	clock = clock.Add(61 * time.Minute)
	_, ok = c.Get(ctx, "AAPL")
	assert.False(t, ok)
	_, ok = c.Get(ctx, "forever")
	assert.True(t, ok)
	assert.Equal(t, 1, c.Len())
}

func TestMemory_PutCopiesValue(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	buf := []byte("abc")
	c.Put(ctx, "k", buf, time.Minute)
	buf[0] = 'z'

	v, ok := c.Get(ctx, "k")
	require.True(t, ok)
	assert.Equal(t, "abc", string(v))
}

func TestTypedValues(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	require.NoError(t, PutValue(ctx, c, "k", sample{Score: 75, Titles: []string{"a", "b"}}, time.Hour))

	got, ok := GetValue[sample](ctx, c, "k")
	require.True(t, ok)
	assert.Equal(t, 75, got.Score)
	assert.Equal(t, []string{"a", "b"}, got.Titles)

	c.Put(ctx, "junk", []byte{0xc1}, time.Hour)
	_, ok = GetValue[sample](ctx, c, "junk")
	assert.False(t, ok)

	_, ok = GetValue[sample](ctx, nil, "k")
	assert.False(t, ok)
}

func TestRedis_GetPut(t *testing.T) {
	ctx := context.Background()
	client, mock := redismock.NewClientMock()
	r := NewRedisWithClient(client, "ftp:")

	mock.ExpectSet("ftp:AAPL", []byte("payload"), time.Hour).SetVal("OK")
	r.Put(ctx, "AAPL", []byte("payload"), time.Hour)

	mock.ExpectGet("ftp:AAPL").SetVal("payload")
	v, ok := r.Get(ctx, "AAPL")
	require.True(t, ok)
	assert.Equal(t, []byte("payload"), v)

	mock.ExpectGet("ftp:MSFT").RedisNil()
	_, ok = r.Get(ctx, "MSFT")
	assert.False(t, ok)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestInstrumented_CountsLookups(t *testing.T) {
	ctx := context.Background()
	reg := metrics.NewRegistry()
	c := WithMetrics(NewMemory(), "peers", reg)

	_, ok := c.Get(ctx, "AAPL|Technology")
	assert.False(t, ok)
	c.Put(ctx, "AAPL|Technology", []byte("1"), time.Hour)
	_, ok = c.Get(ctx, "AAPL|Technology")
	assert.True(t, ok)

	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheHits.WithLabelValues("peers")))
	assert.Equal(t, 1.0, testutil.ToFloat64(reg.CacheMisses.WithLabelValues("peers")))
}

func TestNew_Backends(t *testing.T) {
	c, err := New(context.Background(), Options{Backend: "memory"}, zerolog.Nop())
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New(context.Background(), Options{Backend: "memcached"}, zerolog.Nop())
	assert.Error(t, err)
}
