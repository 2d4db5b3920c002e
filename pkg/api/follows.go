package api

import (
	"context"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// Follow makes the signed-in user follow userID. Both profiles are updated;
// if the second write fails the first one is reverted.
func (a *API) Follow(ctx context.Context, userID string) error {
	return a.setFollow(ctx, userID, true)
}

// Unfollow reverses Follow
func (a *API) Unfollow(ctx context.Context, userID string) error {
	return a.setFollow(ctx, userID, false)
}

func (a *API) setFollow(ctx context.Context, userID string, follow bool) error {
	me, err := a.me()
	if err != nil {
		return err
	}
	if me == userID {
		return ErrSelfFollow
	}

	target, err := a.users.Get(ctx, userID)
	if err != nil {
		return err
	}
	self, err := a.users.Get(ctx, me)
	if err != nil {
		return err
	}

	var followers, following []string
	if follow {
		if contains(target.Followers, me) && contains(self.Following, userID) {
			return nil
		}
		followers = appendUnique(target.Followers, me)
		following = appendUnique(self.Following, userID)
	} else {
		if !contains(target.Followers, me) && !contains(self.Following, userID) {
			return nil
		}
		followers = without(target.Followers, me)
		following = without(self.Following, userID)
	}

	updatedTarget, err := a.users.Update(ctx, userID, map[string]interface{}{"followers": followers})
	if err != nil {
		return err
	}
	updatedSelf, err := a.users.Update(ctx, me, map[string]interface{}{"following": following})
	if err != nil {
		if _, rbErr := a.users.Update(ctx, userID, map[string]interface{}{"followers": nonNil(target.Followers)}); rbErr != nil {
			logger.Error("Failed to roll back follower list", "user_id", userID, "error", rbErr)
		}
		return err
	}

	a.cacheUser(ctx, updatedTarget)
	a.cacheUser(ctx, updatedSelf)

	if follow {
		a.notify(ctx, userID, NotifyFollow, "user", me, "started following you")
	}
	logger.Debug("Follow updated", "user_id", userID, "follow", follow)
	return nil
}

// IsFollowing reports whether the signed-in user follows userID
func (a *API) IsFollowing(ctx context.Context, userID string) (bool, error) {
	me := a.UserID()
	if me == "" {
		return false, nil
	}
	self, err := a.users.Get(ctx, me)
	if err != nil {
		return false, err
	}
	return contains(self.Following, userID), nil
}

// Followers returns the profiles following userID
func (a *API) Followers(ctx context.Context, userID string, page Page) (*List[UserInfo], error) {
	user, err := a.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.usersByID(ctx, user.Followers, page)
}

// Following returns the profiles userID follows
func (a *API) Following(ctx context.Context, userID string, page Page) (*List[UserInfo], error) {
	user, err := a.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	return a.usersByID(ctx, user.Following, page)
}

// usersByID pages through a list of ids held on a profile. The cursor is
// the last id of the previous page and must still be in the list.
func (a *API) usersByID(ctx context.Context, ids []string, page Page) (*List[UserInfo], error) {
	start := 0
	if page.Cursor != "" {
		start = -1
		for i, id := range ids {
			if id == page.Cursor {
				start = i + 1
				break
			}
		}
		if start < 0 {
			return nil, invalid("cursor", "%q is no longer in this list, start from the first page", page.Cursor)
		}
	}
	end := start + page.size()
	if end > len(ids) {
		end = len(ids)
	}
	window := ids[start:end]

	out := &List[UserInfo]{Items: []UserInfo{}, Total: len(ids)}
	if len(window) == 0 {
		return out, nil
	}
	docs, err := a.users.List(ctx, baas.Equal(baas.AttrID, window...), baas.Limit(len(window)))
	if err != nil {
		return nil, err
	}

	byID := make(map[string]UserInfo, len(docs.Documents))
	for _, u := range docs.Documents {
		byID[u.ID] = u
	}
	for _, id := range window {
		if u, ok := byID[id]; ok {
			out.Items = append(out.Items, u)
		}
	}
	if end < len(ids) {
		out.NextCursor = window[len(window)-1]
	}
	return out, nil
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func appendUnique(list []string, s string) []string {
	out := nonNil(list)
	if contains(out, s) {
		return out
	}
	return append(out, s)
}

func without(list []string, s string) []string {
	out := make([]string, 0, len(list))
	for _, v := range list {
		if v != s {
			out = append(out, v)
		}
	}
	return out
}

func nonNil(list []string) []string {
	out := make([]string, len(list))
	copy(out, list)
	return out
}
