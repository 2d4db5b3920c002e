package service

import (
	"context"
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/output"
)

// ReelService provides reel operations
type ReelService struct {
	api *api.API
	reactions
}

// NewReelService creates a new reel service
func NewReelService(a *api.API) *ReelService {
	return &ReelService{api: a, reactions: reactions{api: a, kind: api.ContentReel}}
}

// Create uploads a video to the media CDN and publishes the reel
func (rs *ReelService) Create(ctx context.Context, req api.CreateReelRequest) error {
	logger.Debug("Creating reel", "file", req.VideoPath)

	if err := req.Validate(); err != nil {
		return err
	}

	output.PrintInfo("Uploading video, this can take a while...")
	reel, err := rs.api.CreateReel(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create reel: %w", err)
	}

	output.PrintSuccess("✓ Reel published (%s)", formatter.Duration(reel.Duration))
	return rs.printReel(ctx, reel)
}

// View displays a reel
func (rs *ReelService) View(ctx context.Context, reelID string) error {
	reel, err := rs.api.GetReel(ctx, reelID)
	if err != nil {
		return fmt.Errorf("failed to fetch reel: %w", err)
	}
	return rs.printReel(ctx, reel)
}

func (rs *ReelService) printReel(ctx context.Context, reel *api.Reel) error {
	views, err := rs.api.HydrateReels(ctx, []api.Reel{*reel})
	if err != nil {
		return err
	}
	v := views[0]
	if output.IsJSON() {
		return output.Print("reel", v)
	}
	return output.PrintRecord("Reel", map[string]interface{}{
		"ID":        reel.ID,
		"Author":    formatter.Handle(v.Author, reel.UserID),
		"Caption":   reel.Caption,
		"Length":    formatter.Duration(reel.Duration),
		"Video":     reel.VideoURL,
		"Thumbnail": reel.ThumbnailURL,
		"Likes":     v.LikeCount,
		"Comments":  v.CommentCount,
		"Liked":     v.Liked,
		"Saved":     v.Saved,
		"Posted":    formatter.Ago(reel.CreatedAt),
	})
}

// List displays reels, optionally only those of one user
func (rs *ReelService) List(ctx context.Context, userRef string, page api.Page) error {
	var (
		reels *api.List[api.Reel]
		err   error
		title = "Latest reels"
	)
	if userRef != "" {
		user, uerr := rs.api.ResolveUser(ctx, userRef)
		if uerr != nil {
			return fmt.Errorf("failed to fetch user: %w", uerr)
		}
		title = "Reels by @" + user.Username
		reels, err = rs.api.ListReelsByUser(ctx, user.ID, page)
	} else {
		reels, err = rs.api.ListReels(ctx, page)
	}
	if err != nil {
		return fmt.Errorf("failed to list reels: %w", err)
	}

	views, err := rs.api.HydrateReels(ctx, reels.Items)
	if err != nil {
		return err
	}
	if err := output.PrintList(title, formatter.ReelColumns, formatter.ReelRows(views), views); err != nil {
		return err
	}
	nextPageHint(reels.NextCursor)
	return nil
}

// Feed displays the reel feed
func (rs *ReelService) Feed(ctx context.Context, page api.Page) error {
	views, cursor, err := rs.api.ReelFeed(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to load reels: %w", err)
	}
	if err := output.PrintList("Reels", formatter.ReelColumns, formatter.ReelRows(views), views); err != nil {
		return err
	}
	nextPageHint(cursor)
	return nil
}

// Edit changes a reel caption
func (rs *ReelService) Edit(ctx context.Context, reelID, caption string) error {
	if _, err := rs.api.UpdateReelCaption(ctx, reelID, caption); err != nil {
		return fmt.Errorf("failed to update reel: %w", err)
	}
	output.PrintSuccess("✓ Reel updated")
	return nil
}

// Delete removes a reel from the CDN and the BaaS
func (rs *ReelService) Delete(ctx context.Context, reelID string, force bool) error {
	ok, err := confirm(force, fmt.Sprintf("Delete reel %s?", reelID))
	if err != nil || !ok {
		return err
	}
	if err := rs.api.DeleteReel(ctx, reelID); err != nil {
		return fmt.Errorf("failed to delete reel: %w", err)
	}
	output.PrintSuccess("✓ Reel deleted")
	return nil
}

// Like likes a reel
func (rs *ReelService) Like(ctx context.Context, reelID string) error {
	return rs.like(ctx, reelID, true)
}

// Unlike removes a like from a reel
func (rs *ReelService) Unlike(ctx context.Context, reelID string) error {
	return rs.like(ctx, reelID, false)
}

// Save bookmarks a reel
func (rs *ReelService) Save(ctx context.Context, reelID string) error {
	return rs.save(ctx, reelID, true)
}

// Unsave removes a bookmark
func (rs *ReelService) Unsave(ctx context.Context, reelID string) error {
	return rs.save(ctx, reelID, false)
}
