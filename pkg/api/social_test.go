package api

import (
	"context"
	"net/http"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/optimistic"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedPost(env *testEnv, id, owner string) {
	env.baas.Put("posts", id, map[string]interface{}{"userId": owner, "caption": "hi"})
}

func TestLike_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	b := env.as("u2")
	ctx := context.Background()

	first, err := b.Like(ctx, ContentPost, "p1")
	require.NoError(t, err)
	second, err := b.Like(ctx, ContentPost, "p1")
	require.NoError(t, err)

	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 1, env.baas.Count("likes"))
	assert.Equal(t, 1, env.baas.Count("notifications"), "only the first like notifies")

	liked, err := b.IsLiked(ctx, ContentPost, "p1")
	require.NoError(t, err)
	assert.True(t, liked)

	n, err := b.CountLikes(ctx, ContentPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	require.NoError(t, b.Unlike(ctx, ContentPost, "p1"))
	require.NoError(t, b.Unlike(ctx, ContentPost, "p1"))
	assert.Equal(t, 0, env.baas.Count("likes"))
}

func TestLike_OwnContentDoesNotNotify(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")

	_, err := env.as("u1").Like(context.Background(), ContentPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, 0, env.baas.Count("notifications"))
}

func TestLike_Errors(t *testing.T) {
	env := newTestEnv(t)
	b := env.as("u2")
	ctx := context.Background()

	_, err := b.Like(ctx, "story", "p1")
	assert.True(t, IsValidationError(err))

	_, err = b.Like(ctx, ContentPost, "missing")
	assert.True(t, baas.IsNotFound(err))
	assert.Equal(t, 0, env.baas.Count("likes"))
}

func TestSave(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	b := env.as("u2")
	ctx := context.Background()

	_, err := b.Save(ctx, ContentComment, "c1")
	assert.True(t, IsValidationError(err), "comments cannot be saved")

	first, err := b.Save(ctx, ContentPost, "p1")
	require.NoError(t, err)
	second, err := b.Save(ctx, ContentPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Contains(t, first.Permissions, `read("user:u2")`)
	assert.NotContains(t, first.Permissions, `read("any")`)

	saved, err := b.ListSaved(ctx, "", Page{})
	require.NoError(t, err)
	require.Len(t, saved.Items, 1)
	assert.Equal(t, "p1", saved.Items[0].ContentID)

	require.NoError(t, b.Unsave(ctx, ContentPost, "p1"))
	ok, err := b.IsSaved(ctx, ContentPost, "p1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestToggleLike(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	env.baas.Put("likes", "", map[string]interface{}{"userId": "u3", "contentId": "p1", "contentType": ContentPost})
	b := env.as("u2")
	ctx := context.Background()

	state, err := b.ToggleLike(ctx, ContentPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, optimistic.State{Active: true, Count: 2}, state)

	state, err = b.ToggleLike(ctx, ContentPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, optimistic.State{Active: false, Count: 1}, state)
	assert.Equal(t, 1, env.baas.Count("likes"))
}

func TestToggleLike_RollbackOnFailure(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	b := env.as("u2")
	ctx := context.Background()

	env.baas.SetFail(func(r *http.Request) int {
		if r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/collections/likes/") {
			return http.StatusInternalServerError
		}
		return 0
	})

	state, err := b.ToggleLike(ctx, ContentPost, "p1")
	require.Error(t, err)
	assert.True(t, baas.IsServerError(err))
	assert.Equal(t, optimistic.State{Active: false, Count: 0}, state)

	toggle, err := b.LikeToggle(ctx, ContentPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, optimistic.State{Active: false, Count: 0}, toggle.Snapshot())
	assert.False(t, toggle.InFlight())
}

func TestToggleLike_InFlight(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	b := env.as("u2")
	ctx := context.Background()

	toggle, err := b.LikeToggle(ctx, ContentPost, "p1")
	require.NoError(t, err)

	release := make(chan struct{})
	env.baas.SetFail(func(r *http.Request) int {
		if r.Method == http.MethodPost && strings.Contains(r.URL.Path, "/collections/likes/") {
			<-release
		}
		return 0
	})

	var wg sync.WaitGroup
	var first optimistic.State
	var firstErr error
	wg.Add(1)
	go func() {
		defer wg.Done()
		first, firstErr = b.ToggleLike(ctx, ContentPost, "p1")
	}()

	require.Eventually(t, toggle.InFlight, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, optimistic.State{Active: true, Count: 1}, toggle.Snapshot(), "optimistic state shows immediately")

	state, err := b.ToggleLike(ctx, ContentPost, "p1")
	assert.ErrorIs(t, err, optimistic.ErrInFlight)
	assert.Equal(t, optimistic.State{Active: true, Count: 1}, state)

	close(release)
	wg.Wait()
	require.NoError(t, firstErr)
	assert.Equal(t, optimistic.State{Active: true, Count: 1}, first)
	assert.Equal(t, 1, env.baas.Count("likes"))
}

func TestSetSaved(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	b := env.as("u2")
	ctx := context.Background()

	state, err := b.SetSaved(ctx, ContentPost, "p1", true)
	require.NoError(t, err)
	assert.True(t, state.Active)

	state, err = b.SetSaved(ctx, ContentPost, "p1", true)
	require.NoError(t, err)
	assert.True(t, state.Active)
	assert.Equal(t, 1, env.baas.Count("saves"))

	state, err = b.SetSaved(ctx, ContentPost, "p1", false)
	require.NoError(t, err)
	assert.False(t, state.Active)
	assert.Equal(t, 0, env.baas.Count("saves"))
}

func TestFollow(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	a := env.as("u1")
	ctx := context.Background()

	assert.ErrorIs(t, a.Follow(ctx, "u1"), ErrSelfFollow)

	require.NoError(t, a.Follow(ctx, "u2"))
	require.NoError(t, a.Follow(ctx, "u2"))

	assert.Equal(t, []interface{}{"u1"}, env.baas.Doc("users", "u2")["followers"])
	assert.Equal(t, []interface{}{"u2"}, env.baas.Doc("users", "u1")["following"])
	assert.Equal(t, 1, env.baas.Count("notifications"))

	following, err := a.IsFollowing(ctx, "u2")
	require.NoError(t, err)
	assert.True(t, following)

	followers, err := a.Followers(ctx, "u2", Page{})
	require.NoError(t, err)
	require.Len(t, followers.Items, 1)
	assert.Equal(t, "ana", followers.Items[0].Username)

	require.NoError(t, a.Unfollow(ctx, "u2"))
	assert.Empty(t, env.baas.Doc("users", "u2")["followers"])
	assert.Empty(t, env.baas.Doc("users", "u1")["following"])
}

func TestFollow_RollsBackOnSecondWrite(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	a := env.as("u1")

	env.baas.SetFail(func(r *http.Request) int {
		if r.Method == http.MethodPatch && strings.HasSuffix(r.URL.Path, "/collections/users/documents/u1") {
			return http.StatusServiceUnavailable
		}
		return 0
	})

	err := a.Follow(context.Background(), "u2")
	require.Error(t, err)
	assert.Empty(t, env.baas.Doc("users", "u2")["followers"])
	assert.Equal(t, 0, env.baas.Count("notifications"))
}

func TestFollowersPaging(t *testing.T) {
	env := newTestEnv(t)
	followers := []interface{}{}
	for _, id := range []string{"f1", "f2", "f3"} {
		env.baas.SeedUser(id, "user_"+id)
		followers = append(followers, id)
	}
	env.baas.Put("users", "u1", map[string]interface{}{"username": "ana", "followers": followers})
	ctx := context.Background()

	page, err := env.api.Followers(ctx, "u1", Page{Limit: 2})
	require.NoError(t, err)
	require.Len(t, page.Items, 2)
	assert.Equal(t, "f1", page.Items[0].ID)
	assert.Equal(t, "f2", page.NextCursor)

	page, err = env.api.Followers(ctx, "u1", Page{Limit: 2, Cursor: page.NextCursor})
	require.NoError(t, err)
	require.Len(t, page.Items, 1)
	assert.Equal(t, "f3", page.Items[0].ID)
	assert.Empty(t, page.NextCursor)

	// The cursor user unfollowed between pages.
	_, err = env.api.Followers(ctx, "u1", Page{Limit: 2, Cursor: "f9"})
	require.Error(t, err)
	assert.True(t, IsValidationError(err))
}

func TestSetFollowing(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	a := env.as("u1")
	ctx := context.Background()

	_, err := a.SetFollowing(ctx, "u1", true)
	assert.ErrorIs(t, err, ErrSelfFollow)

	state, err := a.SetFollowing(ctx, "u2", true)
	require.NoError(t, err)
	assert.Equal(t, optimistic.State{Active: true, Count: 1}, state)
}
