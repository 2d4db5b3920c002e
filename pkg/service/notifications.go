package service

import (
	"context"
	"fmt"

	"github.com/ahmednagradev/ansnips/pkg/api"
	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/formatter"
	"github.com/ahmednagradev/ansnips/pkg/logger"
	"github.com/ahmednagradev/ansnips/pkg/output"
)

// NotificationService lists and manages the signed-in user's notifications
type NotificationService struct {
	api *api.API
}

// NewNotificationService creates a new notification service
func NewNotificationService(a *api.API) *NotificationService {
	return &NotificationService{api: a}
}

// List displays notifications, newest first
func (ns *NotificationService) List(ctx context.Context, unreadOnly bool, page api.Page) error {
	notes, err := ns.api.ListNotifications(ctx, unreadOnly, page)
	if err != nil {
		return fmt.Errorf("failed to list notifications: %w", err)
	}
	senders := make([]string, len(notes.Items))
	for i, n := range notes.Items {
		senders[i] = n.SenderID
	}
	title := "Notifications"
	if unreadOnly {
		title = "Unread notifications"
	}
	rows := formatter.NotificationRows(notes.Items, people(ctx, ns.api, senders...))
	if err := output.PrintList(title, formatter.NotificationColumns, rows, notes.Items); err != nil {
		return err
	}
	nextPageHint(notes.NextCursor)
	return nil
}

// Unread prints the unread count
func (ns *NotificationService) Unread(ctx context.Context) error {
	n, err := ns.api.UnreadNotifications(ctx)
	if err != nil {
		return fmt.Errorf("failed to count notifications: %w", err)
	}
	if output.IsJSON() {
		return output.Print("", map[string]int{"unread": n})
	}
	printf("%d unread notification%s\n", n, pluralize(n))
	return nil
}

// Read marks one notification read
func (ns *NotificationService) Read(ctx context.Context, notificationID string) error {
	if _, err := ns.api.MarkNotificationRead(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to mark notification read: %w", err)
	}
	output.PrintSuccess("✓ Marked as read")
	return nil
}

// ReadAll marks every unread notification read
func (ns *NotificationService) ReadAll(ctx context.Context) error {
	n, err := ns.api.MarkAllNotificationsRead(ctx)
	if err != nil {
		return fmt.Errorf("failed to mark notifications read: %w", err)
	}
	output.PrintSuccess("✓ Marked %d notification%s as read", n, pluralize(n))
	return nil
}

// Delete removes a notification
func (ns *NotificationService) Delete(ctx context.Context, notificationID string) error {
	if err := ns.api.DeleteNotification(ctx, notificationID); err != nil {
		return fmt.Errorf("failed to delete notification: %w", err)
	}
	output.PrintSuccess("✓ Notification deleted")
	return nil
}

// Watch prints notifications for the signed-in user as they arrive
func (ns *NotificationService) Watch(ctx context.Context) error {
	me, err := ns.api.Me(ctx)
	if err != nil {
		return err
	}

	rt := ns.api.Realtime(ns.api.CollectionIDs().Notifications)
	unsubscribe := rt.On(func(ev baas.Event) {
		n, ok := incomingNotification(ev, me.ID)
		if !ok {
			return
		}
		sender := people(ctx, ns.api, n.SenderID)[n.SenderID]
		printf("🔔 %s %s %s\n", formatter.Faint.Sprint(n.CreatedAt.Local().Format("15:04")), formatter.Bold.Sprint(formatter.Handle(sender, n.SenderID)), n.Message)
	})
	defer unsubscribe()

	return watch(ctx, rt, "🔔 Watching notifications for @"+me.Username)
}

// incomingNotification extracts a new notification addressed to userID
func incomingNotification(ev baas.Event, userID string) (*api.Notification, bool) {
	if !ev.Is("create") {
		return nil, false
	}
	var n api.Notification
	if err := ev.Decode(&n); err != nil {
		logger.Debug("Undecodable notification event", "error", err)
		return nil, false
	}
	if n.ReceiverID != userID {
		return nil, false
	}
	return &n, true
}
