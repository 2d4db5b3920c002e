package api

import (
	"context"

	"github.com/ahmednagradev/ansnips/pkg/logger"
	"golang.org/x/sync/errgroup"
)

// hydrateLimit bounds the concurrent requests a feed page makes
const hydrateLimit = 8

// viewStats is what the feed shows around a post or reel
type viewStats struct {
	author   *UserInfo
	likes    int
	comments int
	liked    bool
	saved    bool
}

func (a *API) loadStats(ctx context.Context, g *errgroup.Group, contentType, contentID, authorID string, out *viewStats) {
	g.Go(func() error {
		author, err := a.GetUser(ctx, authorID)
		if err != nil {
			// A deleted author should not break the whole page.
			logger.Debug("Author lookup failed", "user_id", authorID, "error", err)
			return nil
		}
		out.author = author
		return nil
	})
	g.Go(func() error {
		n, err := a.CountLikes(ctx, contentType, contentID)
		out.likes = n
		return err
	})
	g.Go(func() error {
		n, err := a.CountComments(ctx, contentType, contentID)
		out.comments = n
		return err
	})
	if a.UserID() == "" {
		return
	}
	g.Go(func() error {
		liked, err := a.IsLiked(ctx, contentType, contentID)
		out.liked = liked
		return err
	})
	g.Go(func() error {
		saved, err := a.IsSaved(ctx, contentType, contentID)
		out.saved = saved
		return err
	})
}

// HydratePosts attaches author, counts and the signed-in user's like and
// save flags to each post. Order is preserved.
func (a *API) HydratePosts(ctx context.Context, posts []Post) ([]PostView, error) {
	stats := make([]viewStats, len(posts))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrateLimit)
	for i := range posts {
		a.loadStats(gctx, g, ContentPost, posts[i].ID, posts[i].UserID, &stats[i])
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]PostView, len(posts))
	for i, p := range posts {
		s := stats[i]
		views[i] = PostView{Post: p, Author: s.author, LikeCount: s.likes, CommentCount: s.comments, Liked: s.liked, Saved: s.saved}
		a.seedToggles(ContentPost, p.ID, s)
	}
	return views, nil
}

// HydrateReels is HydratePosts for reels
func (a *API) HydrateReels(ctx context.Context, reels []Reel) ([]ReelView, error) {
	stats := make([]viewStats, len(reels))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(hydrateLimit)
	for i := range reels {
		a.loadStats(gctx, g, ContentReel, reels[i].ID, reels[i].UserID, &stats[i])
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	views := make([]ReelView, len(reels))
	for i, r := range reels {
		s := stats[i]
		views[i] = ReelView{Reel: r, Author: s.author, LikeCount: s.likes, CommentCount: s.comments, Liked: s.liked, Saved: s.saved}
		a.seedToggles(ContentReel, r.ID, s)
	}
	return views, nil
}

// seedToggles refreshes known toggles with what the server just reported
func (a *API) seedToggles(contentType, contentID string, s viewStats) {
	if a.UserID() == "" {
		return
	}
	a.toggles.refresh(toggleKey(toggleLike, contentType, contentID), s.liked, s.likes)
	a.toggles.refresh(toggleKey(toggleSave, contentType, contentID), s.saved, 0)
}

// Feed returns a hydrated page of posts. With following set only posts by
// followed accounts are included.
func (a *API) Feed(ctx context.Context, following bool, page Page) ([]PostView, string, error) {
	var (
		list *List[Post]
		err  error
	)
	if following {
		list, err = a.ListFollowingPosts(ctx, page)
	} else {
		list, err = a.ListPosts(ctx, page)
	}
	if err != nil {
		return nil, "", err
	}
	views, err := a.HydratePosts(ctx, list.Items)
	if err != nil {
		return nil, "", err
	}
	return views, list.NextCursor, nil
}

// ReelFeed returns a hydrated page of reels
func (a *API) ReelFeed(ctx context.Context, page Page) ([]ReelView, string, error) {
	list, err := a.ListReels(ctx, page)
	if err != nil {
		return nil, "", err
	}
	views, err := a.HydrateReels(ctx, list.Items)
	if err != nil {
		return nil, "", err
	}
	return views, list.NextCursor, nil
}
