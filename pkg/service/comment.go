package service

import (
	"context"
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/ahmednagradev/ansnips/pkg/prompter"
)

// CommentService provides comment operations on posts and reels
type CommentService struct {
	api *api.API
	reactions
}

// NewCommentService creates a new comment service
func NewCommentService(a *api.API) *CommentService {
	return &CommentService{api: a, reactions: reactions{api: a, kind: api.ContentComment}}
}

// Add comments on a post or reel, or replies when parentID is set. An empty
// text is prompted for.
func (cs *CommentService) Add(ctx context.Context, req api.AddCommentRequest) error {
	req.ContentType = contentKind(req.ContentType)
	if req.Text == "" {
		text, err := prompter.PromptString("Comment: ")
		if err != nil {
			return err
		}
		req.Text = text
	}

	comment, err := cs.api.AddComment(ctx, req)
	if err != nil {
		return fmt.Errorf("failed to add comment: %w", err)
	}
	if output.IsJSON() {
		return output.Print("comment", comment)
	}
	output.PrintSuccess("✓ Comment added (%s)", comment.ID)
	return nil
}

// List displays the top-level comments on a post or reel
func (cs *CommentService) List(ctx context.Context, contentType, contentID string, page api.Page) error {
	contentType = contentKind(contentType)
	if err := api.ValidateContentType(contentType, false); err != nil {
		return err
	}
	comments, err := cs.api.ListComments(ctx, contentType, contentID, page)
	if err != nil {
		return fmt.Errorf("failed to list comments: %w", err)
	}
	return cs.print(ctx, fmt.Sprintf("Comments on %s %s", contentType, contentID), comments)
}

// Replies displays the replies to a comment
func (cs *CommentService) Replies(ctx context.Context, commentID string, page api.Page) error {
	replies, err := cs.api.ListReplies(ctx, commentID, page)
	if err != nil {
		return fmt.Errorf("failed to list replies: %w", err)
	}
	return cs.print(ctx, "Replies to "+commentID, replies)
}

func (cs *CommentService) print(ctx context.Context, title string, list *api.List[api.Comment]) error {
	ids := make([]string, len(list.Items))
	for i, c := range list.Items {
		ids[i] = c.UserID
	}
	rows := formatter.CommentRows(list.Items, people(ctx, cs.api, ids...))
	if err := output.PrintList(title, formatter.CommentColumns, rows, list.Items); err != nil {
		return err
	}
	nextPageHint(list.NextCursor)
	return nil
}

// Edit changes the text of a comment
func (cs *CommentService) Edit(ctx context.Context, commentID, text string) error {
	if _, err := cs.api.EditComment(ctx, commentID, text); err != nil {
		return fmt.Errorf("failed to edit comment: %w", err)
	}
	output.PrintSuccess("✓ Comment updated")
	return nil
}

// Delete deletes a comment and its replies
func (cs *CommentService) Delete(ctx context.Context, commentID string, force bool) error {
	ok, err := confirm(force, fmt.Sprintf("Delete comment %s and its replies?", commentID))
	if err != nil || !ok {
		return err
	}
	if err := cs.api.DeleteComment(ctx, commentID); err != nil {
		return fmt.Errorf("failed to delete comment: %w", err)
	}
	output.PrintSuccess("✓ Comment deleted")
	return nil
}

// Like likes a comment
func (cs *CommentService) Like(ctx context.Context, commentID string) error {
	return cs.like(ctx, commentID, true)
}

// Unlike removes a like from a comment
func (cs *CommentService) Unlike(ctx context.Context, commentID string) error {
	return cs.like(ctx, commentID, false)
}
