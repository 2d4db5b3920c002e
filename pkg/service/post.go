package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/output"
)

// PostService provides post-related operations
type PostService struct {
	api *api.API
	reactions
}

// NewPostService creates a new post service
func NewPostService(a *api.API) *PostService {
	return &PostService{api: a, reactions: reactions{api: a, kind: api.ContentPost}}
}

// Create uploads an image and publishes the post
func (ps *PostService) Create(ctx context.Context, req api.CreatePostRequest) error {
	logger.Debug("Creating post", "file", req.ImagePath)

	if err := req.Validate(); err != nil {
		return err
	}

	output.PrintInfo("Uploading image...")
	post, err := ps.api.CreatePost(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to create post: %w", err)
	}

	output.PrintSuccess("✓ Post published")
	return ps.printPost(ctx, post)
}

// View displays a post with its counts and first comments
func (ps *PostService) View(ctx context.Context, postID string) error {
	logger.Debug("Viewing post", "post_id", postID)

	post, err := ps.api.GetPost(ctx, postID)
	if err != nil {
		return fmt.Errorf("failed to fetch post: %w", err)
	}
	return ps.printPost(ctx, post)
}

func (ps *PostService) printPost(ctx context.Context, post *api.Post) error {
	views, err := ps.api.HydratePosts(ctx, []api.Post{*post})
	if err != nil {
		return err
	}
	v := views[0]

	comments, err := ps.api.ListComments(ctx, api.ContentPost, post.ID, api.Page{Limit: 5})
	if err != nil {
		logger.Debug("Failed to load comments", "post_id", post.ID, "error", err)
		comments = &api.List[api.Comment]{}
	}

	if output.IsJSON() {
		return output.Print("post", map[string]interface{}{"post": v, "comments": comments.Items})
	}

	record := map[string]interface{}{
		"ID":       post.ID,
		"Author":   formatter.Handle(v.Author, post.UserID),
		"Caption":  post.Caption,
		"Image":    post.ImageURL,
		"Likes":    v.LikeCount,
		"Comments": v.CommentCount,
		"Liked":    v.Liked,
		"Saved":    v.Saved,
		"Posted":   formatter.Ago(post.CreatedAt),
	}
	if len(post.Tags) > 0 {
		record["Tags"] = "#" + strings.Join(post.Tags, " #")
	}
	if post.Location != "" {
		record["Location"] = post.Location
	}
	if err := output.PrintRecord("Post", record); err != nil {
		return err
	}

	if len(comments.Items) > 0 {
		printf("\n")
		ids := make([]string, len(comments.Items))
		for i, c := range comments.Items {
			ids[i] = c.UserID
		}
		return output.PrintList("Comments", formatter.CommentColumns, formatter.CommentRows(comments.Items, people(ctx, ps.api, ids...)), comments.Items)
	}
	return nil
}

// List displays posts, optionally only those of one user or with one tag
func (ps *PostService) List(ctx context.Context, userRef, tag string, page api.Page) error {
	logger.Debug("Listing posts", "user", userRef, "tag", tag)

	var (
		posts *api.List[api.Post]
		err   error
		title = "Latest posts"
	)
	switch {
	case userRef != "":
		user, uerr := ps.api.ResolveUser(ctx, userRef)
		if uerr != nil {
			return fmt.Errorf("failed to fetch user: %w", uerr)
		}
		title = "Posts by @" + user.Username
		posts, err = ps.api.ListPostsByUser(ctx, user.ID, page)
	case tag != "":
		title = "Posts tagged #" + strings.TrimPrefix(tag, "#")
		posts, err = ps.api.SearchPosts(ctx, tag, page)
	default:
		posts, err = ps.api.ListPosts(ctx, page)
	}
	if err != nil {
		return fmt.Errorf("failed to list posts: %w", err)
	}

	views, err := ps.api.HydratePosts(ctx, posts.Items)
	if err != nil {
		return err
	}
	if err := output.PrintList(title, formatter.PostColumns, formatter.PostRows(views), views); err != nil {
		return err
	}
	nextPageHint(posts.NextCursor)
	return nil
}

// Feed displays the home feed, or only followed users when following is set
func (ps *PostService) Feed(ctx context.Context, following bool, page api.Page) error {
	views, cursor, err := ps.api.Feed(ctx, following, page)
	if err != nil {
		return fmt.Errorf("failed to load feed: %w", err)
	}
	title := "Feed"
	if following {
		title = "Following"
	}
	if err := output.PrintList(title, formatter.PostColumns, formatter.PostRows(views), views); err != nil {
		return err
	}
	nextPageHint(cursor)
	return nil
}

// Edit changes the caption, tags or location of a post
func (ps *PostService) Edit(ctx context.Context, postID string, req api.UpdatePostRequest) error {
	if _, err := ps.api.UpdatePost(ctx, postID, req); err != nil {
		return fmt.Errorf("failed to update post: %w", err)
	}
	output.PrintSuccess("✓ Post updated")
	return nil
}

// Delete deletes a post and everything attached to it
func (ps *PostService) Delete(ctx context.Context, postID string, force bool) error {
	ok, err := confirm(force, fmt.Sprintf("Delete post %s? This removes its comments and likes too.", postID))
	if err != nil || !ok {
		return err
	}
	if err := ps.api.DeletePost(ctx, postID); err != nil {
		return fmt.Errorf("failed to delete post: %w", err)
	}
	output.PrintSuccess("✓ Post deleted")
	return nil
}

// Like likes a post
func (ps *PostService) Like(ctx context.Context, postID string) error {
	return ps.like(ctx, postID, true)
}

// Unlike removes a like from a post
func (ps *PostService) Unlike(ctx context.Context, postID string) error {
	return ps.like(ctx, postID, false)
}

// Save bookmarks a post
func (ps *PostService) Save(ctx context.Context, postID string) error {
	return ps.save(ctx, postID, true)
}

// Unsave removes a bookmark
func (ps *PostService) Unsave(ctx context.Context, postID string) error {
	return ps.save(ctx, postID, false)
}
