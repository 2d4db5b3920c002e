package api

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/cache"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// GetUser returns the profile of userID, from cache when possible
func (a *API) GetUser(ctx context.Context, userID string) (*UserInfo, error) {
	if cached, err := cache.Get[UserInfo](ctx, a.cache, cache.UserKey(userID)); err != nil {
		logger.Debug("User cache read failed", "user_id", userID, "error", err)
	} else if cached != nil {
		return cached, nil
	}

	user, err := a.users.Get(ctx, userID)
	if err != nil {
		return nil, err
	}
	a.cacheUser(ctx, user)
	return user, nil
}

// GetUserByUsername looks a profile up by username
func (a *API) GetUserByUsername(ctx context.Context, username string) (*UserInfo, error) {
	username = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(username), "@"))

	if cached, err := cache.Get[UserInfo](ctx, a.cache, cache.UsernameKey(username)); err == nil && cached != nil {
		return cached, nil
	}

	user, err := a.users.First(ctx, baas.Equal("username", username))
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, &baas.Error{Message: fmt.Sprintf("user @%s not found", username), Code: 404, Type: "user_not_found", StatusCode: 404}
	}
	a.cacheUser(ctx, user)
	return user, nil
}

// ResolveUser accepts either a user id or an @username
func (a *API) ResolveUser(ctx context.Context, ref string) (*UserInfo, error) {
	if strings.HasPrefix(ref, "@") {
		return a.GetUserByUsername(ctx, ref)
	}
	user, err := a.GetUser(ctx, ref)
	if err != nil && baas.IsNotFound(err) {
		return a.GetUserByUsername(ctx, ref)
	}
	return user, err
}

// Me returns the signed-in user's profile, bypassing the cache
func (a *API) Me(ctx context.Context) (*UserInfo, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	user, err := a.users.Get(ctx, me)
	if err != nil {
		return nil, err
	}
	a.cacheUser(ctx, user)
	return user, nil
}

// SearchUsers finds profiles whose username starts with term
func (a *API) SearchUsers(ctx context.Context, term string, page Page) (*List[UserInfo], error) {
	term = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(term), "@"))
	if term == "" {
		return nil, invalid("search", "term cannot be empty")
	}

	queries := append([]baas.Query{baas.StartsWith("username", term), baas.OrderAsc("username")}, page.queries()...)
	docs, err := a.users.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, func(u UserInfo) string { return u.ID }), nil
}

// ProfileUpdate lists the profile fields to change; nil leaves a field as is
type ProfileUpdate struct {
	Name     *string
	Username *string
	Bio      *string
}

// UpdateProfile validates and applies a profile change
func (a *API) UpdateProfile(ctx context.Context, upd ProfileUpdate) (*UserInfo, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}

	current, err := a.users.Get(ctx, me)
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{}
	if upd.Name != nil {
		name := strings.TrimSpace(*upd.Name)
		if err := ValidateName(name); err != nil {
			return nil, err
		}
		data["name"] = name
	}
	if upd.Bio != nil {
		bio := strings.TrimSpace(*upd.Bio)
		if err := ValidateBio(bio); err != nil {
			return nil, err
		}
		data["bio"] = bio
	}
	if upd.Username != nil {
		username := strings.ToLower(strings.TrimSpace(*upd.Username))
		if err := ValidateUsername(username); err != nil {
			return nil, err
		}
		if username != current.Username {
			taken, err := a.users.First(ctx, baas.Equal("username", username), baas.NotEqual(baas.AttrID, me))
			if err != nil {
				return nil, err
			}
			if taken != nil {
				return nil, ErrUsernameTaken
			}
			data["username"] = username
		}
	}
	if len(data) == 0 {
		return current, nil
	}

	updated, err := a.users.Update(ctx, me, data)
	if err != nil {
		return nil, err
	}
	if name, ok := data["name"].(string); ok {
		if _, err := a.account.UpdateName(ctx, name); err != nil {
			logger.Warn("Failed to sync account name", "error", err)
		}
	}

	a.invalidateUser(ctx, current)
	a.cacheUser(ctx, updated)
	return updated, nil
}

// UploadAvatar stores a new profile picture and removes the previous one
func (a *API) UploadAvatar(ctx context.Context, path string) (*UserInfo, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	if err := ValidateImageFile(path); err != nil {
		return nil, err
	}

	current, err := a.users.Get(ctx, me)
	if err != nil {
		return nil, err
	}

	file, err := a.bucket.Upload(ctx, "", path, baas.OwnedBy(me))
	if err != nil {
		return nil, err
	}

	updated, err := a.users.Update(ctx, me, map[string]interface{}{
		"avatarId":  file.ID,
		"avatarUrl": a.bucket.PreviewURL(file.ID, 320, 320),
	})
	if err != nil {
		if delErr := a.bucket.Delete(ctx, file.ID); delErr != nil {
			logger.Warn("Failed to remove orphaned avatar", "file_id", file.ID, "error", delErr)
		}
		return nil, err
	}

	if current.AvatarID != "" {
		if err := a.bucket.Delete(ctx, current.AvatarID); err != nil && !baas.IsNotFound(err) {
			logger.Warn("Failed to delete previous avatar", "file_id", current.AvatarID, "error", err)
		}
	}

	a.invalidateUser(ctx, current)
	a.cacheUser(ctx, updated)
	return updated, nil
}

func (a *API) cacheUser(ctx context.Context, user *UserInfo) {
	if err := cache.SetJSON(ctx, a.cache, cache.UserKey(user.ID), user, a.cacheTTL); err != nil {
		logger.Debug("User cache write failed", "user_id", user.ID, "error", err)
	}
	if user.Username != "" {
		_ = cache.SetJSON(ctx, a.cache, cache.UsernameKey(user.Username), user, a.cacheTTL)
	}
}

func (a *API) invalidateUser(ctx context.Context, user *UserInfo) {
	keys := []string{cache.UserKey(user.ID)}
	if user.Username != "" {
		keys = append(keys, cache.UsernameKey(user.Username))
	}
	if err := a.cache.Del(ctx, keys...); err != nil {
		logger.Debug("User cache invalidation failed", "user_id", user.ID, "error", err)
	}
}
