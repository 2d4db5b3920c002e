package api

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// PairKey identifies the room between two users regardless of who opened it
func PairKey(a, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return strings.Join(pair, "_")
}

// GetOrCreateRoom returns the room between the signed-in user and otherID,
// creating it on first contact
func (a *API) GetOrCreateRoom(ctx context.Context, otherID string) (*ChatRoom, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	if otherID == me {
		return nil, ErrSelfChat
	}

	key := PairKey(me, otherID)
	room, err := a.chatRooms.First(ctx, baas.Equal("pairKey", key))
	if err != nil {
		return nil, err
	}
	if room != nil {
		return room, nil
	}

	if _, err := a.users.Get(ctx, otherID); err != nil {
		return nil, err
	}

	participants := []string{me, otherID}
	sort.Strings(participants)
	room, err = a.chatRooms.Create(ctx, "", map[string]interface{}{
		"participants": participants,
		"pairKey":      key,
		"lastMessage":  "",
		"lastSenderId": "",
	}, roomPermissions(me, otherID))
	if err != nil {
		// Someone else opened the room at the same time.
		if baas.IsConflict(err) {
			if existing, ferr := a.chatRooms.First(ctx, baas.Equal("pairKey", key)); ferr == nil && existing != nil {
				return existing, nil
			}
		}
		return nil, err
	}

	logger.Debug("Chat room created", "room_id", room.ID)
	return room, nil
}

func roomPermissions(a, b string) []string {
	return []string{
		baas.ReadUser(a), baas.ReadUser(b),
		baas.UpdateUser(a), baas.UpdateUser(b),
		baas.DeleteUser(a), baas.DeleteUser(b),
	}
}

// GetRoom fetches a room the signed-in user takes part in
func (a *API) GetRoom(ctx context.Context, roomID string) (*ChatRoom, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	room, err := a.chatRooms.Get(ctx, roomID)
	if err != nil {
		return nil, err
	}
	if !contains(room.Participants, me) {
		return nil, ErrNotParticipant
	}
	return room, nil
}

// ListRooms returns the signed-in user's conversations, most recent first
func (a *API) ListRooms(ctx context.Context, page Page) (*List[ChatRoom], error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	queries := append([]baas.Query{
		baas.Contains("participants", me),
		baas.OrderDesc("lastMessageAt"),
	}, page.queries()...)
	docs, err := a.chatRooms.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, roomID), nil
}

// SendMessage posts text to a room, updates the room preview and notifies
// the other participant
func (a *API) SendMessage(ctx context.Context, roomID, text string) (*Message, error) {
	text, err := ValidateMessageText(text)
	if err != nil {
		return nil, err
	}
	room, err := a.GetRoom(ctx, roomID)
	if err != nil {
		return nil, err
	}
	me := a.UserID()
	other := room.Other(me)

	msg, err := a.messages.Create(ctx, "", map[string]interface{}{
		"roomId":   roomID,
		"senderId": me,
		"text":     text,
		"isRead":   false,
	}, []string{
		baas.ReadUser(me), baas.ReadUser(other),
		baas.UpdateUser(me), baas.UpdateUser(other),
		baas.DeleteUser(me),
	})
	if err != nil {
		return nil, err
	}

	if _, err := a.chatRooms.Update(ctx, roomID, map[string]interface{}{
		"lastMessage":   preview(text),
		"lastSenderId":  me,
		"lastMessageAt": msg.CreatedAt.UTC().Format(time.RFC3339Nano),
	}); err != nil {
		logger.Warn("Failed to update room preview", "room_id", roomID, "error", err)
	}

	a.notify(ctx, other, NotifyMessage, "chat", roomID, "sent you a message")
	return msg, nil
}

func preview(text string) string {
	const max = 100
	r := []rune(text)
	if len(r) <= max {
		return text
	}
	return string(r[:max-1]) + "…"
}

// ListMessages returns a room's messages, newest first
func (a *API) ListMessages(ctx context.Context, roomID string, page Page) (*List[Message], error) {
	if _, err := a.GetRoom(ctx, roomID); err != nil {
		return nil, err
	}
	queries := append([]baas.Query{
		baas.Equal("roomId", roomID),
		baas.OrderDesc(baas.AttrCreatedAt),
	}, page.queries()...)
	docs, err := a.messages.List(ctx, queries...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, messageID), nil
}

// MarkRoomRead marks every message the other participant sent as read and
// returns how many changed
func (a *API) MarkRoomRead(ctx context.Context, roomID string) (int, error) {
	if _, err := a.GetRoom(ctx, roomID); err != nil {
		return 0, err
	}
	me := a.UserID()

	marked := 0
	for {
		docs, err := a.messages.List(ctx,
			baas.Equal("roomId", roomID),
			baas.NotEqual("senderId", me),
			baas.EqualBool("isRead", false),
			baas.Limit(MaxPageSize))
		if err != nil {
			return marked, err
		}
		for _, m := range docs.Documents {
			if _, err := a.messages.Update(ctx, m.ID, map[string]interface{}{"isRead": true}); err != nil {
				return marked, err
			}
			marked++
		}
		if len(docs.Documents) < MaxPageSize {
			return marked, nil
		}
	}
}

// UnreadMessages counts messages in a room waiting for the signed-in user
func (a *API) UnreadMessages(ctx context.Context, roomID string) (int, error) {
	me, err := a.me()
	if err != nil {
		return 0, err
	}
	return a.messages.Count(ctx,
		baas.Equal("roomId", roomID),
		baas.NotEqual("senderId", me),
		baas.EqualBool("isRead", false))
}

// DeleteMessage deletes a message the signed-in user sent
func (a *API) DeleteMessage(ctx context.Context, messageID string) error {
	msg, err := a.messages.Get(ctx, messageID)
	if err != nil {
		return err
	}
	if _, err := a.ownedBy(msg.SenderID); err != nil {
		return err
	}
	return a.messages.Delete(ctx, messageID)
}
