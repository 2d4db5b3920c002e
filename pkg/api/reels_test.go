package api

import (
	"context"
	"testing"

	"github.com/ahmednagradev/ansnips/pkg/cdn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateReel(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	a := env.as("u1")

	reel, err := a.CreateReel(context.Background(), CreateReelRequest{
		VideoPath: writeTempFile(t, "clip.mp4", 256),
		Caption:   "first reel",
	})
	require.NoError(t, err)

	assert.Equal(t, "reels/clip1", reel.PublicID)
	assert.Equal(t, 30.0, reel.Duration)
	assert.Equal(t, "https://cdn.test/demo/video/upload/q_auto,f_auto/reels/clip1.mp4", reel.VideoURL)
	assert.Equal(t, "https://cdn.test/demo/video/upload/so_0,c_fill,w_480,h_854/reels/clip1.jpg", reel.ThumbnailURL)
	assert.Empty(t, env.cdn.DestroyedIDs())
}

func TestCreateReel_TooLong(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.cdn.SetDuration(91)
	a := env.as("u1")

	_, err := a.CreateReel(context.Background(), CreateReelRequest{VideoPath: writeTempFile(t, "long.mp4", 256)})
	assert.ErrorIs(t, err, ErrReelTooLong)
	assert.Equal(t, []string{"reels/clip1"}, env.cdn.DestroyedIDs())
	assert.Equal(t, 0, env.baas.Count("reels"))
}

func TestCreateReel_Validation(t *testing.T) {
	env := newTestEnv(t)
	a := env.as("u1")
	ctx := context.Background()

	_, err := a.CreateReel(ctx, CreateReelRequest{})
	assert.True(t, IsValidationError(err))

	_, err = a.CreateReel(ctx, CreateReelRequest{VideoPath: writeTempFile(t, "clip.avi", 10)})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 0, env.cdn.UploadCount())
}

func TestCreateReel_NoCDN(t *testing.T) {
	env := newTestEnv(t)
	a := New(Options{BaaS: env.api.BaaS(), DatabaseID: "db", BucketID: "media", Collections: DefaultCollections()})
	a.SetUser("u1")

	_, err := a.CreateReel(context.Background(), CreateReelRequest{VideoPath: writeTempFile(t, "clip.mp4", 10)})
	assert.ErrorIs(t, err, cdn.ErrNotConfigured)
}

func TestDeleteReel(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	ctx := context.Background()

	reel, err := env.as("u1").CreateReel(ctx, CreateReelRequest{VideoPath: writeTempFile(t, "clip.mp4", 64)})
	require.NoError(t, err)
	_, err = env.as("u2").Like(ctx, ContentReel, reel.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.as("u2").DeleteReel(ctx, reel.ID), ErrNotOwner)
	assert.Empty(t, env.cdn.DestroyedIDs())

	require.NoError(t, env.as("u1").DeleteReel(ctx, reel.ID))
	assert.Equal(t, []string{reel.PublicID}, env.cdn.DestroyedIDs())
	assert.Equal(t, 0, env.baas.Count("reels"))
	assert.Equal(t, 0, env.baas.Count("likes"))
}
