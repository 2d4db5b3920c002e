package api

import (
	"context"

	"github.com/ahmednagradev/ansnips/pkg/baas"
)

// Save bookmarks a post or reel for the signed-in user. Saving twice
// returns the existing save.
func (a *API) Save(ctx context.Context, contentType, contentID string) (*Save, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	if err := ValidateContentType(contentType, false); err != nil {
		return nil, err
	}

	existing, err := a.saves.First(ctx, likeQueries(me, contentType, contentID)...)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return existing, nil
	}

	// Make sure the target exists before bookmarking it.
	if _, err := a.contentOwner(ctx, contentType, contentID); err != nil {
		return nil, err
	}

	return a.saves.Create(ctx, "", map[string]interface{}{
		"userId":      me,
		"contentId":   contentID,
		"contentType": contentType,
	}, []string{baas.ReadUser(me), baas.UpdateUser(me), baas.DeleteUser(me)})
}

// Unsave removes a bookmark; it is a no-op when nothing was saved
func (a *API) Unsave(ctx context.Context, contentType, contentID string) error {
	me, err := a.me()
	if err != nil {
		return err
	}
	existing, err := a.saves.First(ctx, likeQueries(me, contentType, contentID)...)
	if err != nil {
		return err
	}
	if existing == nil {
		return nil
	}
	if err := a.saves.Delete(ctx, existing.ID); err != nil && !baas.IsNotFound(err) {
		return err
	}
	return nil
}

// IsSaved reports whether the signed-in user saved the content
func (a *API) IsSaved(ctx context.Context, contentType, contentID string) (bool, error) {
	me := a.UserID()
	if me == "" {
		return false, nil
	}
	existing, err := a.saves.First(ctx, likeQueries(me, contentType, contentID)...)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

// ListSaved returns the signed-in user's bookmarks, newest first. An empty
// contentType lists both posts and reels.
func (a *API) ListSaved(ctx context.Context, contentType string, page Page) (*List[Save], error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	queries := []baas.Query{baas.Equal("userId", me), baas.OrderDesc(baas.AttrCreatedAt)}
	if contentType != "" {
		if err := ValidateContentType(contentType, false); err != nil {
			return nil, err
		}
		queries = append(queries, baas.Equal("contentType", contentType))
	}
	docs, err := a.saves.List(ctx, append(queries, page.queries()...)...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, saveID), nil
}
