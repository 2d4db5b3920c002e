package api

import (
	"context"
	"testing"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetUserByUsername(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	ctx := context.Background()

	user, err := env.api.GetUserByUsername(ctx, "@Ana")
	require.NoError(t, err)
	assert.Equal(t, "u1", user.ID)

	_, err = env.api.GetUserByUsername(ctx, "nobody")
	assert.True(t, baas.IsNotFound(err))

	byRef, err := env.api.ResolveUser(ctx, "ana")
	require.NoError(t, err)
	assert.Equal(t, "u1", byRef.ID)
}

func TestSearchUsers(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "andy")
	env.baas.SeedUser("u3", "bob")

	list, err := env.api.SearchUsers(context.Background(), "an", Page{})
	require.NoError(t, err)
	require.Len(t, list.Items, 2)
	assert.Equal(t, "ana", list.Items[0].Username)
	assert.Equal(t, "andy", list.Items[1].Username)

	_, err = env.api.SearchUsers(context.Background(), " ", Page{})
	assert.True(t, IsValidationError(err))
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	a := env.as("u1")
	ctx := context.Background()

	// Prime the cache so the update has something to invalidate.
	_, err := a.GetUser(ctx, "u1")
	require.NoError(t, err)

	bio := "  hello there  "
	user, err := a.UpdateProfile(ctx, ProfileUpdate{Bio: &bio})
	require.NoError(t, err)
	assert.Equal(t, "hello there", user.Bio)

	cached, err := a.GetUser(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "hello there", cached.Bio)

	taken := "bob"
	_, err = a.UpdateProfile(ctx, ProfileUpdate{Username: &taken})
	assert.ErrorIs(t, err, ErrUsernameTaken)

	long := string(make([]rune, MaxBioLength+1))
	_, err = a.UpdateProfile(ctx, ProfileUpdate{Bio: &long})
	assert.True(t, IsValidationError(err))
}

func TestUploadAvatar(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	a := env.as("u1")
	ctx := context.Background()

	first, err := a.UploadAvatar(ctx, writeTempFile(t, "me.jpg", 64))
	require.NoError(t, err)
	assert.True(t, env.baas.HasFile(first.AvatarID))
	assert.Contains(t, first.AvatarURL, "/files/"+first.AvatarID+"/preview")

	second, err := a.UploadAvatar(ctx, writeTempFile(t, "me2.png", 64))
	require.NoError(t, err)
	assert.True(t, env.baas.HasFile(second.AvatarID))
	assert.False(t, env.baas.HasFile(first.AvatarID))

	_, err = a.UploadAvatar(ctx, writeTempFile(t, "me.bmp", 64))
	assert.True(t, IsValidationError(err))
}
