package api

import (
	"context"
	"sync"

	"github.com/ahmednagradev/ansnips/pkg/optimistic"
)

const (
	toggleLike   = "like"
	toggleSave   = "save"
	toggleFollow = "follow"
)

// toggleRegistry keeps one optimistic toggle per (action, content) so that
// concurrent requests for the same item share the in-flight guard.
type toggleRegistry struct {
	mu      sync.Mutex
	toggles map[string]*optimistic.Toggle
}

func newToggleRegistry() *toggleRegistry {
	return &toggleRegistry{toggles: make(map[string]*optimistic.Toggle)}
}

func toggleKey(action, kind, id string) string {
	return action + "/" + kind + "/" + id
}

// load returns the toggle for key, calling init to seed it on first use
func (r *toggleRegistry) load(ctx context.Context, key string, init func(ctx context.Context) (bool, int, error)) (*optimistic.Toggle, error) {
	r.mu.Lock()
	t, ok := r.toggles[key]
	r.mu.Unlock()
	if ok {
		return t, nil
	}

	active, count, err := init(ctx)
	if err != nil {
		return nil, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.toggles[key]; ok {
		return existing, nil
	}
	t = optimistic.NewToggle(active, count)
	r.toggles[key] = t
	return t, nil
}

func (r *toggleRegistry) forget(kind, id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, action := range []string{toggleLike, toggleSave, toggleFollow} {
		delete(r.toggles, toggleKey(action, kind, id))
	}
}

func (r *toggleRegistry) reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.toggles = make(map[string]*optimistic.Toggle)
}

// LikeToggle returns the shared like toggle for a piece of content, seeded
// from the server the first time it is requested
func (a *API) LikeToggle(ctx context.Context, contentType, contentID string) (*optimistic.Toggle, error) {
	if _, err := a.me(); err != nil {
		return nil, err
	}
	return a.toggles.load(ctx, toggleKey(toggleLike, contentType, contentID), func(ctx context.Context) (bool, int, error) {
		liked, err := a.IsLiked(ctx, contentType, contentID)
		if err != nil {
			return false, 0, err
		}
		count, err := a.CountLikes(ctx, contentType, contentID)
		if err != nil {
			return false, 0, err
		}
		return liked, count, nil
	})
}

// ToggleLike flips the like on a piece of content optimistically
func (a *API) ToggleLike(ctx context.Context, contentType, contentID string) (optimistic.State, error) {
	t, err := a.LikeToggle(ctx, contentType, contentID)
	if err != nil {
		return optimistic.State{}, err
	}
	return t.Flip(ctx, a.commitLike(contentType, contentID))
}

// SetLiked drives the like toggle to liked, doing nothing if it already is
func (a *API) SetLiked(ctx context.Context, contentType, contentID string, liked bool) (optimistic.State, error) {
	t, err := a.LikeToggle(ctx, contentType, contentID)
	if err != nil {
		return optimistic.State{}, err
	}
	if liked {
		return t.Activate(ctx, a.commitLike(contentType, contentID))
	}
	return t.Deactivate(ctx, a.commitLike(contentType, contentID))
}

func (a *API) commitLike(contentType, contentID string) optimistic.CommitFunc {
	return func(ctx context.Context, active bool) error {
		if active {
			_, err := a.Like(ctx, contentType, contentID)
			return err
		}
		return a.Unlike(ctx, contentType, contentID)
	}
}

// SaveToggle returns the shared save toggle for a post or reel
func (a *API) SaveToggle(ctx context.Context, contentType, contentID string) (*optimistic.Toggle, error) {
	if _, err := a.me(); err != nil {
		return nil, err
	}
	return a.toggles.load(ctx, toggleKey(toggleSave, contentType, contentID), func(ctx context.Context) (bool, int, error) {
		saved, err := a.IsSaved(ctx, contentType, contentID)
		return saved, 0, err
	})
}

// SetSaved drives the save toggle to saved
func (a *API) SetSaved(ctx context.Context, contentType, contentID string, saved bool) (optimistic.State, error) {
	t, err := a.SaveToggle(ctx, contentType, contentID)
	if err != nil {
		return optimistic.State{}, err
	}
	commit := func(ctx context.Context, active bool) error {
		if active {
			_, err := a.Save(ctx, contentType, contentID)
			return err
		}
		return a.Unsave(ctx, contentType, contentID)
	}
	if saved {
		return t.Activate(ctx, commit)
	}
	return t.Deactivate(ctx, commit)
}

// FollowToggle returns the shared follow toggle for a user. Its count is the
// user's follower count.
func (a *API) FollowToggle(ctx context.Context, userID string) (*optimistic.Toggle, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	if me == userID {
		return nil, ErrSelfFollow
	}
	return a.toggles.load(ctx, toggleKey(toggleFollow, "user", userID), func(ctx context.Context) (bool, int, error) {
		user, err := a.users.Get(ctx, userID)
		if err != nil {
			return false, 0, err
		}
		return contains(user.Followers, me), len(user.Followers), nil
	})
}

// SetFollowing drives the follow toggle for userID
func (a *API) SetFollowing(ctx context.Context, userID string, following bool) (optimistic.State, error) {
	t, err := a.FollowToggle(ctx, userID)
	if err != nil {
		return optimistic.State{}, err
	}
	commit := func(ctx context.Context, active bool) error {
		if active {
			return a.Follow(ctx, userID)
		}
		return a.Unfollow(ctx, userID)
	}
	if following {
		return t.Activate(ctx, commit)
	}
	return t.Deactivate(ctx, commit)
}

// refresh overwrites a toggle that already exists with server truth. In
// flight toggles keep their optimistic value.
func (r *toggleRegistry) refresh(key string, active bool, count int) {
	r.mu.Lock()
	t, ok := r.toggles[key]
	r.mu.Unlock()
	if ok {
		t.Set(active, count)
	}
}
