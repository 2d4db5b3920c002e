package api

import (
	"context"
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// CreatePostRequest holds a new post
type CreatePostRequest struct {
	ImagePath string
	Caption   string
	Tags      []string
	Location  string
}

// Validate checks the request
func (r *CreatePostRequest) Validate() error {
	r.Caption = strings.TrimSpace(r.Caption)
	r.Location = strings.TrimSpace(r.Location)
	if err := ValidateImageFile(r.ImagePath); err != nil {
		return err
	}
	if err := ValidateCaption(r.Caption); err != nil {
		return err
	}
	r.Tags = normalizeTags(r.Tags)
	return ValidateTags(r.Tags)
}

func normalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(t), "#"))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	return out
}

// CreatePost uploads the image to storage and stores the post document
func (a *API) CreatePost(ctx context.Context, req CreatePostRequest) (*Post, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	if err := req.Validate(); err != nil {
		return nil, err
	}

	file, err := a.bucket.Upload(ctx, "", req.ImagePath, baas.OwnedBy(me))
	if err != nil {
		return nil, err
	}

	data := map[string]interface{}{
		"userId":   me,
		"caption":  req.Caption,
		"imageId":  file.ID,
		"imageUrl": a.bucket.ViewURL(file.ID),
		"tags":     req.Tags,
		"location": req.Location,
	}
	post, err := a.posts.Create(ctx, "", data, baas.OwnedBy(me))
	if err != nil {
		if delErr := a.bucket.Delete(ctx, file.ID); delErr != nil {
			logger.Warn("Failed to remove orphaned image", "file_id", file.ID, "error", delErr)
		}
		return nil, err
	}

	logger.Info("Post created", "post_id", post.ID)
	return post, nil
}

// GetPost fetches a post
func (a *API) GetPost(ctx context.Context, postID string) (*Post, error) {
	return a.posts.Get(ctx, postID)
}

// ListPosts returns the newest posts from everyone
func (a *API) ListPosts(ctx context.Context, page Page) (*List[Post], error) {
	queries := append([]baas.Query{baas.OrderDesc(baas.AttrCreatedAt)}, page.queries()...)
	docs, err := a.posts.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, postID), nil
}

// ListPostsByUser returns a user's posts, newest first
func (a *API) ListPostsByUser(ctx context.Context, userID string, page Page) (*List[Post], error) {
	queries := append([]baas.Query{baas.Equal("userId", userID), baas.OrderDesc(baas.AttrCreatedAt)}, page.queries()...)
	docs, err := a.posts.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, postID), nil
}

// ListFollowingPosts returns posts by the accounts the signed-in user follows
func (a *API) ListFollowingPosts(ctx context.Context, page Page) (*List[Post], error) {
	me, err := a.Me(ctx)
	if err != nil {
		return nil, err
	}
	if len(me.Following) == 0 {
		return &List[Post]{Items: []Post{}}, nil
	}
	queries := append([]baas.Query{baas.Equal("userId", me.Following...), baas.OrderDesc(baas.AttrCreatedAt)}, page.queries()...)
	docs, err := a.posts.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, postID), nil
}

// SearchPosts finds posts by tag
func (a *API) SearchPosts(ctx context.Context, tag string, page Page) (*List[Post], error) {
	tag = strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
	if tag == "" {
		return nil, invalid("tag", "cannot be empty")
	}
	queries := append([]baas.Query{baas.Contains("tags", tag), baas.OrderDesc(baas.AttrCreatedAt)}, page.queries()...)
	docs, err := a.posts.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, postID), nil
}

// UpdatePostRequest lists the editable post fields
type UpdatePostRequest struct {
	Caption  *string
	Tags     []string
	Location *string
}

// UpdatePost edits a post owned by the signed-in user
func (a *API) UpdatePost(ctx context.Context, postID string, req UpdatePostRequest) (*Post, error) {
	post, err := a.posts.Get(ctx, postID)
	if err != nil {
		return nil, err
	}
	if _, err := a.ownedBy(post.UserID); err != nil {
		return nil, err
	}

	data := map[string]interface{}{}
	if req.Caption != nil {
		caption := strings.TrimSpace(*req.Caption)
		if err := ValidateCaption(caption); err != nil {
			return nil, err
		}
		data["caption"] = caption
	}
	if req.Tags != nil {
		tags := normalizeTags(req.Tags)
		if err := ValidateTags(tags); err != nil {
			return nil, err
		}
		data["tags"] = tags
	}
	if req.Location != nil {
		data["location"] = strings.TrimSpace(*req.Location)
	}
	if len(data) == 0 {
		return post, nil
	}
	return a.posts.Update(ctx, postID, data)
}

// DeletePost deletes a post owned by the signed-in user along with its
// image, comments, likes and saves.
func (a *API) DeletePost(ctx context.Context, postID string) error {
	post, err := a.posts.Get(ctx, postID)
	if err != nil {
		return err
	}
	if _, err := a.ownedBy(post.UserID); err != nil {
		return err
	}

	if err := a.posts.Delete(ctx, postID); err != nil {
		return err
	}
	a.toggles.forget(ContentPost, postID)

	if post.ImageID != "" {
		if err := a.bucket.Delete(ctx, post.ImageID); err != nil && !baas.IsNotFound(err) {
			logger.Warn("Failed to delete post image", "file_id", post.ImageID, "error", err)
		}
	}
	a.cascadeContent(ctx, ContentPost, postID)

	logger.Info("Post deleted", "post_id", postID)
	return nil
}

// cascadeContent removes everything hanging off a post or reel
func (a *API) cascadeContent(ctx context.Context, contentType, contentID string) {
	comments := a.deleteCommentsWhere(ctx, baas.Equal("contentId", contentID), baas.Equal("contentType", contentType))
	likes := deleteAll(ctx, a.likes, likeID, baas.Equal("contentId", contentID), baas.Equal("contentType", contentType))
	saves := deleteAll(ctx, a.saves, saveID, baas.Equal("contentId", contentID), baas.Equal("contentType", contentType))
	notes := deleteAll(ctx, a.notifications, notificationID, baas.Equal("contentId", contentID))
	logger.Debug("Cascade complete", "content_type", contentType, "content_id", contentID,
		"comments", comments, "likes", likes, "saves", saves, "notifications", notes)
}

func postID(p Post) string                 { return p.ID }
func reelID(r Reel) string                 { return r.ID }
func commentID(c Comment) string           { return c.ID }
func likeID(l Like) string                 { return l.ID }
func saveID(s Save) string                 { return s.ID }
func notificationID(n Notification) string { return n.ID }
func messageID(m Message) string           { return m.ID }
func roomID(r ChatRoom) string             { return r.ID }
