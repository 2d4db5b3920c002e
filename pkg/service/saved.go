package service

import (
	"context"
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/output"
)

// SavedService lists bookmarked posts and reels
type SavedService struct {
	api *api.API
}

// NewSavedService creates a new saved service
func NewSavedService(a *api.API) *SavedService {
	return &SavedService{api: a}
}

// List displays bookmarks, newest first. Bookmarks whose content was
// deleted are skipped.
func (ss *SavedService) List(ctx context.Context, contentType string, page api.Page) error {
	saves, err := ss.api.ListSaved(ctx, contentKind(contentType), page)
	if err != nil {
		return fmt.Errorf("failed to list saved items: %w", err)
	}

	var (
		posts []api.Post
		reels []api.Reel
	)
	for _, s := range saves.Items {
		switch s.ContentType {
		case api.ContentPost:
			p, err := ss.api.GetPost(ctx, s.ContentID)
			if err != nil {
				ss.skip(s, err)
				continue
			}
			posts = append(posts, *p)
		case api.ContentReel:
			r, err := ss.api.GetReel(ctx, s.ContentID)
			if err != nil {
				ss.skip(s, err)
				continue
			}
			reels = append(reels, *r)
		}
	}

	postViews, err := ss.api.HydratePosts(ctx, posts)
	if err != nil {
		return err
	}
	reelViews, err := ss.api.HydrateReels(ctx, reels)
	if err != nil {
		return err
	}

	if output.IsJSON() {
		return output.Print("saved", map[string]interface{}{"posts": postViews, "reels": reelViews})
	}
	if contentType == "" || contentKind(contentType) == api.ContentPost {
		if err := output.PrintList("Saved posts", formatter.PostColumns, formatter.PostRows(postViews), postViews); err != nil {
			return err
		}
	}
	if contentType == "" || contentKind(contentType) == api.ContentReel {
		if err := output.PrintList("Saved reels", formatter.ReelColumns, formatter.ReelRows(reelViews), reelViews); err != nil {
			return err
		}
	}
	nextPageHint(saves.NextCursor)
	return nil
}

func (ss *SavedService) skip(s api.Save, err error) {
	if baas.IsNotFound(err) {
		logger.Debug("Saved content no longer exists", "content_type", s.ContentType, "content_id", s.ContentID)
		return
	}
	logger.Warn("Failed to load saved content", "content_type", s.ContentType, "content_id", s.ContentID, "error", err)
}
