package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/output"
	"github.com/ahmednagradev/ansnips/pkg/prompter"
)

// ChatService handles one-to-one conversations
type ChatService struct {
	api *api.API
}

// NewChatService creates a new chat service
func NewChatService(a *api.API) *ChatService {
	return &ChatService{api: a}
}

// room accepts a room id, a user id or an @username. Users get their room
// with the signed-in user, created on first use.
func (cs *ChatService) room(ctx context.Context, ref string) (*api.ChatRoom, error) {
	if !strings.HasPrefix(ref, "@") {
		room, err := cs.api.GetRoom(ctx, ref)
		if err == nil || !baas.IsNotFound(err) {
			return room, err
		}
	}
	user, err := cs.api.ResolveUser(ctx, ref)
	if err != nil {
		return nil, err
	}
	return cs.api.GetOrCreateRoom(ctx, user.ID)
}

// Rooms lists the signed-in user's conversations, most recent first
func (cs *ChatService) Rooms(ctx context.Context, page api.Page) error {
	rooms, err := cs.api.ListRooms(ctx, page)
	if err != nil {
		return fmt.Errorf("failed to list conversations: %w", err)
	}
	me := cs.api.UserID()
	others := make([]string, len(rooms.Items))
	for i, r := range rooms.Items {
		others[i] = r.Other(me)
	}
	rows := formatter.RoomRows(rooms.Items, me, people(ctx, cs.api, others...))
	if err := output.PrintList("Conversations", formatter.RoomColumns, rows, rooms.Items); err != nil {
		return err
	}
	nextPageHint(rooms.NextCursor)
	return nil
}

// Open starts or finds the conversation with a user and prints its id
func (cs *ChatService) Open(ctx context.Context, userRef string) error {
	user, err := cs.api.ResolveUser(ctx, userRef)
	if err != nil {
		return fmt.Errorf("failed to fetch user: %w", err)
	}
	room, err := cs.api.GetOrCreateRoom(ctx, user.ID)
	if err != nil {
		return fmt.Errorf("failed to open conversation: %w", err)
	}
	if output.IsJSON() {
		return output.Print("room", room)
	}
	output.PrintSuccess("✓ Conversation with @%s: %s", user.Username, room.ID)
	return nil
}

// Send sends a message to a room or user. An empty text is prompted for.
func (cs *ChatService) Send(ctx context.Context, ref, text string) error {
	room, err := cs.room(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to open conversation: %w", err)
	}
	if text == "" {
		if text, err = prompter.PromptString("Message: "); err != nil {
			return err
		}
	}
	msg, err := cs.api.SendMessage(ctx, room.ID, text)
	if err != nil {
		return fmt.Errorf("failed to send message: %w", err)
	}
	if output.IsJSON() {
		return output.Print("message", msg)
	}
	output.PrintSuccess("✓ Sent")
	return nil
}

// History prints a conversation oldest first and marks it read
func (cs *ChatService) History(ctx context.Context, ref string, page api.Page) error {
	room, err := cs.room(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to open conversation: %w", err)
	}
	msgs, err := cs.api.ListMessages(ctx, room.ID, page)
	if err != nil {
		return fmt.Errorf("failed to load messages: %w", err)
	}

	if n, err := cs.api.MarkRoomRead(ctx, room.ID); err != nil {
		logger.Warn("Failed to mark messages read", "room_id", room.ID, "error", err)
	} else if n > 0 {
		logger.Debug("Marked messages read", "room_id", room.ID, "count", n)
	}

	if output.IsJSON() {
		return output.Print("messages", msgs.Items)
	}

	me := cs.api.UserID()
	names := people(ctx, cs.api, room.Participants...)
	formatter.Bold.Fprintf(output.Stdout(), "Conversation with %s\n", formatter.Handle(names[room.Other(me)], room.Other(me)))
	if len(msgs.Items) == 0 {
		printf("  (no messages yet)\n")
		return nil
	}
	for i := len(msgs.Items) - 1; i >= 0; i-- {
		printf("%s\n", formatter.MessageLine(msgs.Items[i], me, names))
	}
	if msgs.NextCursor != "" {
		formatter.Faint.Fprintf(output.Stdout(), "Older: --cursor %s\n", msgs.NextCursor)
	}
	return nil
}

// DeleteMessage deletes one of the signed-in user's messages
func (cs *ChatService) DeleteMessage(ctx context.Context, messageID string) error {
	if err := cs.api.DeleteMessage(ctx, messageID); err != nil {
		return fmt.Errorf("failed to delete message: %w", err)
	}
	output.PrintSuccess("✓ Message deleted")
	return nil
}

// Watch prints new messages in a conversation until ctx is cancelled
func (cs *ChatService) Watch(ctx context.Context, ref string) error {
	room, err := cs.room(ctx, ref)
	if err != nil {
		return fmt.Errorf("failed to open conversation: %w", err)
	}
	me := cs.api.UserID()
	names := people(ctx, cs.api, room.Participants...)

	rt := cs.api.Realtime(cs.api.CollectionIDs().Messages)
	unsubscribe := rt.On(func(ev baas.Event) {
		msg, ok := roomMessage(ev, room.ID)
		if !ok {
			return
		}
		printf("%s\n", formatter.MessageLine(*msg, me, names))
	})
	defer unsubscribe()

	return watch(ctx, rt, fmt.Sprintf("💬 Watching conversation with %s", formatter.Handle(names[room.Other(me)], room.Other(me))))
}

// roomMessage extracts a newly created message of roomID from ev
func roomMessage(ev baas.Event, roomID string) (*api.Message, bool) {
	if !ev.Is("create") {
		return nil, false
	}
	var msg api.Message
	if err := ev.Decode(&msg); err != nil {
		logger.Debug("Undecodable message event", "error", err)
		return nil, false
	}
	if msg.RoomID != roomID {
		return nil, false
	}
	return &msg, true
}

// watch connects rt and blocks until ctx ends or the connection gives up
func watch(ctx context.Context, rt *baas.Realtime, banner string) error {
	if err := rt.Connect(ctx); err != nil {
		return fmt.Errorf("failed to connect to realtime: %w", err)
	}
	defer rt.Close()

	output.PrintInfo(banner)
	printf("Press Ctrl+C to stop\n%s\n", strings.Repeat("─", 60))

	select {
	case <-ctx.Done():
		printf("\n")
		output.PrintSuccess("Stopped watching")
		return nil
	case <-rt.Done():
		return fmt.Errorf("realtime connection closed: %s", rt.Stats().LastError)
	}
}
