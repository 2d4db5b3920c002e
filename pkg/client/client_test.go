package client

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/config"
	"github.com/ahmednagradev/ansnips/pkg/credentials"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setup(t *testing.T) {
	t.Helper()
	require.NoError(t, config.Init(filepath.Join(t.TempDir(), "config.toml")))
	t.Cleanup(Close)
}

func TestOptions_FromConfig(t *testing.T) {
	setup(t)
	config.Set("baas.collections.posts", "posts_v2")
	config.Set("cache.ttl", 60)

	opts, err := Options()
	require.NoError(t, err)
	assert.Equal(t, "ansnips", opts.DatabaseID)
	assert.Equal(t, "media", opts.BucketID)
	assert.Equal(t, "posts_v2", opts.Collections.Posts)
	assert.Equal(t, "chatrooms", opts.Collections.ChatRooms)
	assert.Equal(t, time.Minute, opts.CacheTTL)
	assert.Equal(t, "ansnips", opts.BaaS.Config().Project)
	assert.False(t, opts.CDN.Configured())
}

func TestOptions_BadRedisURL(t *testing.T) {
	setup(t)
	config.Set("cache.redis_url", "::not a url")
	_, err := Options()
	assert.Error(t, err)
}

func TestGet_SignedOut(t *testing.T) {
	setup(t)
	a, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "", a.UserID())

	again, err := Get()
	require.NoError(t, err)
	assert.Same(t, a, again)
}

func TestInit_ResumesSession(t *testing.T) {
	setup(t)
	require.NoError(t, SaveSession(&api.AuthResult{
		Session: &baas.Session{ID: "s1", Secret: "secret", Expire: time.Now().Add(time.Hour)},
		Account: &baas.User{ID: "u1", Email: "ana@example.com"},
		Profile: &api.UserInfo{Username: "ana"},
	}))

	require.NoError(t, Init())
	a, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "u1", a.UserID())
	assert.Equal(t, "secret", a.BaaS().Session())

	creds, err := credentials.Load()
	require.NoError(t, err)
	assert.Equal(t, "ana", creds.Username)
}

func TestInit_SkipsExpiredSession(t *testing.T) {
	setup(t)
	require.NoError(t, credentials.Save(&credentials.Credentials{
		Secret: "old", UserID: "u1", ExpiresAt: time.Now().Add(-time.Hour),
	}))

	require.NoError(t, Init())
	a, err := Get()
	require.NoError(t, err)
	assert.Equal(t, "", a.UserID())
}

func TestClearSession(t *testing.T) {
	setup(t)
	require.NoError(t, credentials.Save(&credentials.Credentials{Secret: "s", UserID: "u1"}))
	require.NoError(t, ClearSession())
	creds, err := credentials.Load()
	require.NoError(t, err)
	assert.Nil(t, creds)
}
