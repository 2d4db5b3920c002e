package api

import (
	"context"
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/baas"
)

func likeQueries(userID, contentType, contentID string) []baas.Query {
	return []baas.Query{
		baas.Equal("userId", userID),
		baas.Equal("contentId", contentID),
		baas.Equal("contentType", contentType),
	}
}

// contentOwner returns the author of a post, reel or comment
func (a *API) contentOwner(ctx context.Context, contentType, contentID string) (string, error) {
	switch contentType {
	case ContentPost:
		p, err := a.posts.Get(ctx, contentID)
		if err != nil {
			return "", err
		}
		return p.UserID, nil
	case ContentReel:
		r, err := a.reels.Get(ctx, contentID)
		if err != nil {
			return "", err
		}
		return r.UserID, nil
	case ContentComment:
		c, err := a.comments.Get(ctx, contentID)
		if err != nil {
			return "", err
		}
		return c.UserID, nil
	}
	return "", invalid("contentType", "unknown content type %q", contentType)
}

// Like records a like by the signed-in user. Liking something already liked
// returns the existing like.
func (a *API) Like(ctx context.Context, contentType, contentID string) (*Like, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	if err := ValidateContentType(contentType, true); err != nil {
		return nil, err
	}

	existing, err := a.likes.First(ctx, likeQueries(me, contentType, contentID)...)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	owner, err := a.contentOwner(ctx, contentType, contentID)
	if err != nil {
		return nil, err
	}

	like, err := a.likes.Create(ctx, "", map[string]interface{}{
		"userId":      me,
		"contentId":   contentID,
		"contentType": contentType,
	}, baas.OwnedBy(me))
	if err != nil {
		return nil, err
	}

	a.notify(ctx, owner, NotifyLike, contentType, contentID, fmt.Sprintf("liked your %s", contentType))
	return like, nil
}

// Unlike removes the signed-in user's like. Unliking something not liked
// is a no-op.
func (a *API) Unlike(ctx context.Context, contentType, contentID string) error {
	me, err := a.me()
	if err != nil {
		return err
	}
	existing, err := a.likes.First(ctx, likeQueries(me, contentType, contentID)...)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if err := a.likes.Delete(ctx, existing.ID); err != nil && !baas.IsNotFound(err) {
		return err
	}
	return nil
}

// IsLiked reports whether the signed-in user likes the content
func (a *API) IsLiked(ctx context.Context, contentType, contentID string) (bool, error) {
	me := a.UserID()
	if me == "" {
		return false, nil
	}
	existing, err := a.likes.First(ctx, likeQueries(me, contentType, contentID)...)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

// CountLikes returns how many likes the content has
func (a *API) CountLikes(ctx context.Context, contentType, contentID string) (int, error) {
	return a.likes.Count(ctx, baas.Equal("contentId", contentID), baas.Equal("contentType", contentType))
}

// ListLikes returns who liked the content, newest first
func (a *API) ListLikes(ctx context.Context, contentType, contentID string, page Page) (*List[Like], error) {
	queries := append([]baas.Query{
		baas.Equal("contentId", contentID),
		baas.Equal("contentType", contentType),
		baas.OrderDesc(baas.AttrCreatedAt),
	}, page.queries()...)
	docs, err := a.likes.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, likeID), nil
}
