package seed

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ahmednagradev/ansnips/internal/fakebaas"
	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAPI(t *testing.T) (*api.API, *fakebaas.BaaS) {
	t.Helper()
	fb := fakebaas.New()
	srv := httptest.NewServer(fb)
	t.Cleanup(srv.Close)

	a := api.New(api.Options{
		BaaS:        baas.NewClient(baas.Config{Endpoint: srv.URL + "/v1", Project: "proj", Timeout: 5 * time.Second}),
		DatabaseID:  "db",
		BucketID:    "media",
		Collections: api.DefaultCollections(),
	})
	return a, fb
}

func TestRun_EverythingConnected(t *testing.T) {
	a, fb := newAPI(t)
	opts := DefaultOptions()
	opts.Users = 3
	opts.PostsPerUser = 2
	opts.LikeChance = 1
	opts.CommentChance = 1
	opts.FollowChance = 1
	opts.Seed = 42

	var messages []string
	s := NewSeeder(a, opts)
	s.OnProgress(func(msg string) { messages = append(messages, msg) })

	res, err := s.Run(context.Background())
	require.NoError(t, err)

	require.Len(t, res.Accounts, 3)
	assert.Equal(t, 6, res.Posts)
	// every user reacts to the 4 posts of the other two
	assert.Equal(t, 12, res.Likes)
	assert.Equal(t, 12, res.Comments)
	assert.Equal(t, 6, res.Follows)

	assert.Equal(t, 3, fb.Count("users"))
	assert.Equal(t, 6, fb.Count("posts"))
	assert.Equal(t, 12, fb.Count("likes"))
	assert.Equal(t, 12, fb.Count("comments"))
	assert.NotEmpty(t, messages)

	for _, acc := range res.Accounts {
		require.NoError(t, api.ValidateUsername(acc.Username))
		profile := fb.Doc("users", acc.ID)
		assert.Len(t, profile["followers"], 2)
	}
	assert.Equal(t, "", a.UserID())
}

func TestRun_NoInteractions(t *testing.T) {
	a, fb := newAPI(t)
	opts := DefaultOptions()
	opts.Users = 2
	opts.PostsPerUser = 1
	opts.LikeChance = 0
	opts.CommentChance = 0
	opts.FollowChance = 0

	res, err := NewSeeder(a, opts).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, res.Posts)
	assert.Zero(t, res.Likes+res.Comments+res.Follows)
	assert.Equal(t, 0, fb.Count("likes"))
}

func TestRun_StopsOnFailure(t *testing.T) {
	a, fb := newAPI(t)
	fb.SetFail(func(r *http.Request) int {
		if strings.HasPrefix(r.URL.Path, "/v1/storage/") {
			return http.StatusServiceUnavailable
		}
		return 0
	})

	opts := DefaultOptions()
	opts.Users = 2
	res, err := NewSeeder(a, opts).Run(context.Background())
	require.Error(t, err)
	assert.Len(t, res.Accounts, 1)
	assert.Zero(t, res.Posts)
}
