package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type profile struct {
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func TestMemory_GetSetJSON(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()

	miss, err := Get[profile](ctx, c, UserKey("u1"))
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, SetJSON(ctx, c, UserKey("u1"), profile{UserID: "u1", Username: "ada"}, time.Minute))

	hit, err := Get[profile](ctx, c, UserKey("u1"))
	require.NoError(t, err)
	require.NotNil(t, hit)
	assert.Equal(t, "ada", hit.Username)
}

func TestMemory_Expiry(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	now := time.Unix(1000, 0)
	c.now = func() time.Time { return now }

	require.NoError(t, c.Set(ctx, "k", []byte("v"), time.Second))
	_, ok, _ := c.Get(ctx, "k")
	assert.True(t, ok)

	now = now.Add(time.Second)
	_, ok, _ = c.Get(ctx, "k")
	assert.False(t, ok)
}

func TestMemory_Del(t *testing.T) {
	ctx := context.Background()
	c := NewMemory()
	require.NoError(t, c.Set(ctx, "a", []byte("1"), 0))
	require.NoError(t, c.Set(ctx, "b", []byte("2"), 0))

	require.NoError(t, c.Del(ctx, "a", "b"))
	_, ok, _ := c.Get(ctx, "a")
	assert.False(t, ok)
}

func TestNew_SelectsBackend(t *testing.T) {
	c, err := New("")
	require.NoError(t, err)
	assert.IsType(t, &Memory{}, c)

	_, err = New("://bad")
	assert.Error(t, err)
}

func TestRedis_RoundTrip(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	c, err := New("redis://" + mr.Addr())
	require.NoError(t, err)
	require.IsType(t, &Redis{}, c)
	rc := c.(*Redis)
	defer rc.Close()

	key := UserKey("u1")
	miss, err := Get[profile](ctx, c, key)
	require.NoError(t, err)
	assert.Nil(t, miss)

	require.NoError(t, SetJSON(ctx, c, key, profile{UserID: "u1", Username: "ada"}, time.Minute))
	assert.True(t, mr.Exists(key))

	got, err := Get[profile](ctx, c, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "ada", got.Username)

	require.NoError(t, c.Del(ctx, key))
	got, err = Get[profile](ctx, c, key)
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRedis_Expiry(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()
	c := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer c.Close()

	require.NoError(t, c.Set(ctx, UsernameKey("ada"), []byte(`{"userId":"u1"}`), time.Minute))
	mr.FastForward(2 * time.Minute)

	_, ok, err := c.Get(ctx, UsernameKey("ada"))
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestRedis_ErrorsAfterClose(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	require.NoError(t, c.Close())

	_, _, err := c.Get(context.Background(), "k")
	assert.ErrorIs(t, err, redis.ErrClosed)
}

func TestRedis_ServerErrorIsNotAMiss(t *testing.T) {
	mr := miniredis.RunT(t)
	c := NewRedis(redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1}))
	defer c.Close()

	mr.SetError("LOADING dataset")
	_, ok, err := c.Get(context.Background(), "k")
	assert.Error(t, err)
	assert.False(t, ok)
}
