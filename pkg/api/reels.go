package api

import (
	"context"
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/cdn"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// CreateReelRequest holds a new reel
type CreateReelRequest struct {
	VideoPath string
	Caption   string
}

// Validate checks the request
func (r *CreateReelRequest) Validate() error {
	r.Caption = strings.TrimSpace(r.Caption)
	if err := ValidateVideoFile(r.VideoPath); err != nil {
		return err
	}
	return ValidateCaption(r.Caption)
}

// CreateReel uploads the video to the CDN and stores the reel document. A
// video over the reel length limit is removed from the CDN again.
func (a *API) CreateReel(ctx context.Context, req CreateReelRequest) (*Reel, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}
	if a.cdn == nil {
		return nil, cdn.ErrNotConfigured
	}

	upload, err := a.cdn.UploadVideo(ctx, req.VideoPath, a.cdnFolder)
	if err != nil {
		return nil, err
	}

	if upload.Duration > MaxReelDuration {
		a.destroyVideo(ctx, upload.PublicID)
		return nil, ErrReelTooLong
	}

	data := map[string]interface{}{
		"userId":       me,
		"caption":      req.Caption,
		"videoUrl":     a.cdn.StreamURL(upload.PublicID, ""),
		"publicId":     upload.PublicID,
		"thumbnailUrl": a.cdn.ThumbnailURL(upload.PublicID),
		"duration":     upload.Duration,
	}
	reel, err := a.reels.Create(ctx, "", data, baas.OwnedBy(me))
	if err != nil {
		a.destroyVideo(ctx, upload.PublicID)
		return nil, err
	}

	logger.Info("Reel created", "reel_id", reel.ID, "public_id", upload.PublicID)
	return reel, nil
}

func (a *API) destroyVideo(ctx context.Context, publicID string) {
	if err := a.cdn.Destroy(ctx, publicID); err != nil {
		logger.Warn("Failed to delete video from CDN", "public_id", publicID, "error", err)
	}
}

// GetReel fetches a reel
func (a *API) GetReel(ctx context.Context, reelID string) (*Reel, error) {
	return a.reels.Get(ctx, reelID)
}

// ListReels returns the newest reels from everyone
func (a *API) ListReels(ctx context.Context, page Page) (*List[Reel], error) {
	queries := append([]baas.Query{baas.OrderDesc(baas.AttrCreatedAt)}, page.queries()...)
	docs, err := a.reels.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, reelID), nil
}

// ListReelsByUser returns a user's reels, newest first
func (a *API) ListReelsByUser(ctx context.Context, userID string, page Page) (*List[Reel], error) {
	queries := append([]baas.Query{baas.Equal("userId", userID), baas.OrderDesc(baas.AttrCreatedAt)}, page.queries()...)
	docs, err := a.reels.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, reelID), nil
}

// UpdateReelCaption edits the caption of a reel owned by the signed-in user
func (a *API) UpdateReelCaption(ctx context.Context, reelID, caption string) (*Reel, error) {
	reel, err := a.reels.Get(ctx, reelID)
	if err != nil {
		return nil, err
	}
	if _, err := a.ownedBy(reel.UserID); err != nil {
		return nil, err
	}
	caption = strings.TrimSpace(caption)
	if err := ValidateCaption(caption); err != nil {
		return nil, err
	}
	return a.reels.Update(ctx, reelID, map[string]interface{}{"caption": caption})
}

// DeleteReel deletes a reel owned by the signed-in user, its CDN video and
// everything attached to it
func (a *API) DeleteReel(ctx context.Context, reelID string) error {
	reel, err := a.reels.Get(ctx, reelID)
	if err != nil {
		return err
	}
	if _, err := a.ownedBy(reel.UserID); err != nil {
		return err
	}

	if err := a.reels.Delete(ctx, reelID); err != nil {
		return err
	}
	a.toggles.forget(ContentReel, reelID)

	if reel.PublicID != "" && a.cdn != nil {
		a.destroyVideo(ctx, reel.PublicID)
	}
	a.cascadeContent(ctx, ContentReel, reelID)

	logger.Info("Reel deleted", "reel_id", reelID)
	return nil
}
