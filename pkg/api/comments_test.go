package api

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddComment(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	b := env.as("u2")
	ctx := context.Background()

	_, err := b.AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", Text: "   "})
	assert.True(t, IsValidationError(err))

	_, err = b.AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", Text: strings.Repeat("a", MaxCommentLength+1)})
	assert.True(t, IsValidationError(err))
	assert.Equal(t, 0, env.baas.Count("comments"))

	c, err := b.AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", Text: "  great shot  "})
	require.NoError(t, err)
	assert.Equal(t, "great shot", c.Text)
	assert.Equal(t, "u2", c.UserID)
	assert.Empty(t, c.ParentID)

	notes, err := env.as("u1").ListNotifications(ctx, false, Page{})
	require.NoError(t, err)
	require.Len(t, notes.Items, 1)
	assert.Equal(t, NotifyComment, notes.Items[0].Type)
	assert.Equal(t, "u2", notes.Items[0].SenderID)
	assert.Equal(t, "p1", notes.Items[0].ContentID)
}

func TestReplies(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	seedPost(env, "p2", "u1")
	ctx := context.Background()

	top, err := env.as("u2").AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", Text: "first"})
	require.NoError(t, err)
	reply, err := env.as("u3").AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", ParentID: top.ID, Text: "reply"})
	require.NoError(t, err)
	nested, err := env.as("u2").AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", ParentID: reply.ID, Text: "nested"})
	require.NoError(t, err)
	assert.Equal(t, top.ID, nested.ParentID, "replies to replies join the thread")

	_, err = env.as("u2").AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p2", ParentID: top.ID, Text: "wrong post"})
	assert.True(t, IsValidationError(err))

	// A reel with the same id as the post is a different thread.
	env.baas.Put("reels", "p1", map[string]interface{}{"userId": "u1", "caption": "clip"})
	_, err = env.as("u2").AddComment(ctx, AddCommentRequest{ContentType: ContentReel, ContentID: "p1", ParentID: top.ID, Text: "wrong kind"})
	assert.True(t, IsValidationError(err))

	comments, err := env.api.ListComments(ctx, ContentPost, "p1", Page{})
	require.NoError(t, err)
	require.Len(t, comments.Items, 1)
	assert.Equal(t, top.ID, comments.Items[0].ID)

	replies, err := env.api.ListReplies(ctx, top.ID, Page{})
	require.NoError(t, err)
	require.Len(t, replies.Items, 2)
	assert.Equal(t, reply.ID, replies.Items[0].ID, "oldest first")

	n, err := env.api.CountComments(ctx, ContentPost, "p1")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}

func TestEditComment(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	ctx := context.Background()

	c, err := env.as("u2").AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", Text: "tpyo"})
	require.NoError(t, err)

	_, err = env.as("u1").EditComment(ctx, c.ID, "rewritten")
	assert.ErrorIs(t, err, ErrNotOwner)

	edited, err := env.as("u2").EditComment(ctx, c.ID, "typo")
	require.NoError(t, err)
	assert.Equal(t, "typo", edited.Text)
	assert.True(t, edited.Edited)
}

func TestDeleteComment(t *testing.T) {
	env := newTestEnv(t)
	seedPost(env, "p1", "u1")
	ctx := context.Background()

	top, err := env.as("u2").AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", Text: "top"})
	require.NoError(t, err)
	reply, err := env.as("u3").AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", ParentID: top.ID, Text: "reply"})
	require.NoError(t, err)
	other, err := env.as("u3").AddComment(ctx, AddCommentRequest{ContentType: ContentPost, ContentID: "p1", Text: "other"})
	require.NoError(t, err)

	_, err = env.as("u1").Like(ctx, ContentComment, top.ID)
	require.NoError(t, err)
	_, err = env.as("u1").Like(ctx, ContentComment, reply.ID)
	require.NoError(t, err)

	assert.ErrorIs(t, env.as("u3").DeleteComment(ctx, top.ID), ErrNotOwner)

	require.NoError(t, env.as("u2").DeleteComment(ctx, top.ID))
	assert.Nil(t, env.baas.Doc("comments", top.ID))
	assert.Nil(t, env.baas.Doc("comments", reply.ID))
	assert.NotNil(t, env.baas.Doc("comments", other.ID))
	assert.Equal(t, 0, env.baas.Count("likes"))
}
