package api

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPairKey(t *testing.T) {
	assert.Equal(t, "a_b", PairKey("a", "b"))
	assert.Equal(t, PairKey("u2", "u1"), PairKey("u1", "u2"))
}

func TestGetOrCreateRoom(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	ctx := context.Background()

	_, err := env.as("u1").GetOrCreateRoom(ctx, "u1")
	assert.ErrorIs(t, err, ErrSelfChat)

	room, err := env.as("u1").GetOrCreateRoom(ctx, "u2")
	require.NoError(t, err)
	assert.Equal(t, []string{"u1", "u2"}, room.Participants)
	assert.Contains(t, room.Permissions, `read("user:u2")`)

	again, err := env.as("u2").GetOrCreateRoom(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, room.ID, again.ID)
	assert.Equal(t, 1, env.baas.Count("chatrooms"))
}

func TestSendMessage(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	ctx := context.Background()

	room, err := env.as("u1").GetOrCreateRoom(ctx, "u2")
	require.NoError(t, err)

	_, err = env.as("u1").SendMessage(ctx, room.ID, "  ")
	assert.True(t, IsValidationError(err))

	_, err = env.as("u1").SendMessage(ctx, room.ID, "hi bob")
	require.NoError(t, err)
	_, err = env.as("u1").SendMessage(ctx, room.ID, "are you there?")
	require.NoError(t, err)

	_, err = env.as("u3").SendMessage(ctx, room.ID, "let me in")
	assert.ErrorIs(t, err, ErrNotParticipant)

	b := env.as("u2")
	updated, err := b.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, "are you there?", updated.LastMessage)
	assert.Equal(t, "u1", updated.LastSenderID)
	assert.False(t, updated.LastMessageAt.IsZero())

	msgs, err := b.ListMessages(ctx, room.ID, Page{})
	require.NoError(t, err)
	require.Len(t, msgs.Items, 2)
	assert.Equal(t, "are you there?", msgs.Items[0].Text, "newest first")

	unread, err := b.UnreadMessages(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, unread)

	marked, err := b.MarkRoomRead(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, marked)

	unread, err = b.UnreadMessages(ctx, room.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, unread)

	notes, err := b.ListNotifications(ctx, false, Page{})
	require.NoError(t, err)
	require.Len(t, notes.Items, 2)
	assert.Equal(t, NotifyMessage, notes.Items[0].Type)

	rooms, err := b.ListRooms(ctx, Page{})
	require.NoError(t, err)
	require.Len(t, rooms.Items, 1)
	assert.Equal(t, "u1", rooms.Items[0].Other("u2"))
}

func TestSendMessage_LongPreview(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	a := env.as("u1")
	ctx := context.Background()

	room, err := a.GetOrCreateRoom(ctx, "u2")
	require.NoError(t, err)
	_, err = a.SendMessage(ctx, room.ID, strings.Repeat("é", 300))
	require.NoError(t, err)

	updated, err := a.GetRoom(ctx, room.ID)
	require.NoError(t, err)
	assert.Len(t, []rune(updated.LastMessage), 100)
}

func TestDeleteMessage(t *testing.T) {
	env := newTestEnv(t)
	env.baas.SeedUser("u1", "ana")
	env.baas.SeedUser("u2", "bob")
	ctx := context.Background()

	room, err := env.as("u1").GetOrCreateRoom(ctx, "u2")
	require.NoError(t, err)
	msg, err := env.as("u1").SendMessage(ctx, room.ID, "oops")
	require.NoError(t, err)

	assert.ErrorIs(t, env.as("u2").DeleteMessage(ctx, msg.ID), ErrNotOwner)
	require.NoError(t, env.as("u1").DeleteMessage(ctx, msg.ID))
	assert.Equal(t, 0, env.baas.Count("messages"))
}
