package api

import (
	"context"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// AddCommentRequest holds a new comment. ParentID makes it a reply.
type AddCommentRequest struct {
	ContentType string
	ContentID   string
	ParentID    string
	Text        string
}

// AddComment comments on a post or reel and notifies its author
func (a *API) AddComment(ctx context.Context, req AddCommentRequest) (*Comment, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	if err := ValidateContentType(req.ContentType, false); err != nil {
		return nil, err
	}
	text, err := ValidateCommentText(req.Text)
	if err != nil {
		return nil, err
	}

	owner, err := a.contentOwner(ctx, req.ContentType, req.ContentID)
	if err != nil {
		return nil, err
	}

	notifyID := owner
	if req.ParentID != "" {
		parent, err := a.comments.Get(ctx, req.ParentID)
		if err != nil {
			return nil, err
		}
		if parent.ContentID != req.ContentID || parent.ContentType != req.ContentType {
			return nil, invalid("parent", "reply must be on the same %s", req.ContentType)
		}
		notifyID = parent.UserID
		// Threads are one level deep; replying to a reply joins its thread.
		if parent.ParentID != "" {
			req.ParentID = parent.ParentID
		}
	}

	comment, err := a.comments.Create(ctx, "", map[string]interface{}{
		"userId":      me,
		"contentId":   req.ContentID,
		"contentType": req.ContentType,
		"parentId":    req.ParentID,
		"text":        text,
		"edited":      false,
	}, baas.OwnedBy(me))
	if err != nil {
		return nil, err
	}

	message := "commented on your " + req.ContentType
	if req.ParentID != "" {
		message = "replied to your comment"
	}
	a.notify(ctx, notifyID, NotifyComment, req.ContentType, req.ContentID, message)
	return comment, nil
}

// GetComment fetches a comment
func (a *API) GetComment(ctx context.Context, commentID string) (*Comment, error) {
	return a.comments.Get(ctx, commentID)
}

// ListComments returns the top-level comments on a post or reel, oldest first
func (a *API) ListComments(ctx context.Context, contentType, contentID string, page Page) (*List[Comment], error) {
	queries := append([]baas.Query{
		baas.Equal("contentId", contentID),
		baas.Equal("contentType", contentType),
		baas.Equal("parentId", ""),
		baas.OrderAsc(baas.AttrCreatedAt),
	}, page.queries()...)
	docs, err := a.comments.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, commentID), nil
}

// ListReplies returns the replies to a comment, oldest first
func (a *API) ListReplies(ctx context.Context, parentID string, page Page) (*List[Comment], error) {
	queries := append([]baas.Query{
		baas.Equal("parentId", parentID),
		baas.OrderAsc(baas.AttrCreatedAt),
	}, page.queries()...)
	docs, err := a.comments.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, commentID), nil
}

// CountComments counts every comment on a post or reel, replies included
func (a *API) CountComments(ctx context.Context, contentType, contentID string) (int, error) {
	return a.comments.Count(ctx, baas.Equal("contentId", contentID), baas.Equal("contentType", contentType))
}

// EditComment changes the text of the signed-in user's comment
func (a *API) EditComment(ctx context.Context, commentID, text string) (*Comment, error) {
	comment, err := a.comments.Get(ctx, commentID)
	if err != nil {
		return nil, err
	}
	if _, err := a.ownedBy(comment.UserID); err != nil {
		return nil, err
	}
	text, err = ValidateCommentText(text)
	if err != nil {
		return nil, err
	}
	if text == comment.Text {
		return comment, nil
	}
	return a.comments.Update(ctx, commentID, map[string]interface{}{"text": text, "edited": true})
}

// DeleteComment deletes the signed-in user's comment with its replies and
// likes
func (a *API) DeleteComment(ctx context.Context, commentID string) error {
	comment, err := a.comments.Get(ctx, commentID)
	if err != nil {
		return err
	}
	if _, err := a.ownedBy(comment.UserID); err != nil {
		return err
	}

	if err := a.comments.Delete(ctx, commentID); err != nil {
		return err
	}
	a.toggles.forget(ContentComment, commentID)

	deleteAll(ctx, a.likes, likeID, baas.Equal("contentId", commentID), baas.Equal("contentType", ContentComment))
	replies := a.deleteCommentsWhere(ctx, baas.Equal("parentId", commentID))
	logger.Debug("Comment deleted", "comment_id", commentID, "replies", replies)
	return nil
}

// deleteCommentsWhere removes the matching comments and the likes on them
func (a *API) deleteCommentsWhere(ctx context.Context, queries ...baas.Query) int {
	deleted := 0
	for {
		list, err := a.comments.List(ctx, append(queries, baas.Limit(MaxPageSize))...)
		if err != nil {
			logger.Warn("Cascade listing failed", "collection", a.comments.ID(), "error", err)
			return deleted
		}
		progressed := false
		for _, c := range list.Documents {
			if err := a.comments.Delete(ctx, c.ID); err != nil && !baas.IsNotFound(err) {
				logger.Warn("Cascade delete failed", "collection", a.comments.ID(), "id", c.ID, "error", err)
				continue
			}
			deleteAll(ctx, a.likes, likeID, baas.Equal("contentId", c.ID), baas.Equal("contentType", ContentComment))
			a.toggles.forget(ContentComment, c.ID)
			deleted++
			progressed = true
		}
		if !progressed || len(list.Documents) < MaxPageSize {
			return deleted
		}
	}
}
