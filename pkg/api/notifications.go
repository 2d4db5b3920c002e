package api

import (
	"context"

	"github.com/ahmednagradev/ansnips/pkg/baas"
	"github.com/ahmednagradev/ansnips/pkg/logger"
)

// NotificationRequest describes a notification to deliver
type NotificationRequest struct {
	ReceiverID  string
	Type        string
	ContentID   string
	ContentType string
	Message     string
}

// CreateNotification stores a notification from the signed-in user. The
// receiver may read, update and delete it; the sender may delete it.
func (a *API) CreateNotification(ctx context.Context, req NotificationRequest) (*Notification, error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	switch req.Type {
	case NotifyLike, NotifyComment, NotifyFollow, NotifyMessage:
	default:
		return nil, invalid("type", "unknown notification type %q", req.Type)
	}

	return a.notifications.Create(ctx, "", map[string]interface{}{
		"receiverId":  req.ReceiverID,
		"senderId":    me,
		"type":        req.Type,
		"contentId":   req.ContentID,
		"contentType": req.ContentType,
		"message":     req.Message,
		"isRead":      false,
	}, []string{
		baas.ReadUser(req.ReceiverID),
		baas.UpdateUser(req.ReceiverID),
		baas.DeleteUser(req.ReceiverID),
		baas.DeleteUser(me),
	})
}

// notify sends a notification and only logs on failure. Nothing is sent to
// yourself.
func (a *API) notify(ctx context.Context, receiverID, typ, contentType, contentID, message string) {
	if receiverID == "" || receiverID == a.UserID() {
		return
	}
	_, err := a.CreateNotification(ctx, NotificationRequest{
		ReceiverID:  receiverID,
		Type:        typ,
		ContentID:   contentID,
		ContentType: contentType,
		Message:     message,
	})
	if err != nil {
		logger.Warn("Failed to send notification", "receiver", receiverID, "type", typ, "error", err)
	}
}

// ListNotifications returns the signed-in user's notifications, newest first
func (a *API) ListNotifications(ctx context.Context, unreadOnly bool, page Page) (*List[Notification], error) {
	me, err := a.me()
	if err != nil {
		return nil, err
	}
	queries := []baas.Query{baas.Equal("receiverId", me), baas.OrderDesc(baas.AttrCreatedAt)}
	if unreadOnly {
		queries = append(queries, baas.EqualBool("isRead", false))
	}
	docs, err := a.notifications.List(ctx, append(queries, page.queries()...)...)
	if err != nil {
		return nil, err
	}
	return listFrom(docs, page, notificationID), nil
}

// UnreadNotifications counts unread notifications
func (a *API) UnreadNotifications(ctx context.Context) (int, error) {
	me, err := a.me()
	if err != nil {
		return 0, err
	}
	return a.notifications.Count(ctx, baas.Equal("receiverId", me), baas.EqualBool("isRead", false))
}

// MarkNotificationRead marks one notification as read
func (a *API) MarkNotificationRead(ctx context.Context, notificationID string) (*Notification, error) {
	n, err := a.notifications.Get(ctx, notificationID)
	if err != nil {
		return nil, err
	}
	if _, err := a.ownedBy(n.ReceiverID); err != nil {
		return nil, err
	}
	if n.IsRead {
		return n, nil
	}
	return a.notifications.Update(ctx, notificationID, map[string]interface{}{"isRead": true})
}

// MarkAllNotificationsRead marks every unread notification as read and
// returns how many were updated
func (a *API) MarkAllNotificationsRead(ctx context.Context) (int, error) {
	me, err := a.me()
	if err != nil {
		return 0, err
	}

	marked := 0
	for {
		docs, err := a.notifications.List(ctx,
			baas.Equal("receiverId", me),
			baas.EqualBool("isRead", false),
			baas.Limit(MaxPageSize))
		if err != nil {
			return marked, err
		}
		if len(docs.Documents) == 0 {
			return marked, nil
		}
		for _, n := range docs.Documents {
			if _, err := a.notifications.Update(ctx, n.ID, map[string]interface{}{"isRead": true}); err != nil {
				return marked, err
			}
			marked++
		}
		if len(docs.Documents) < MaxPageSize {
			return marked, nil
		}
	}
}

// DeleteNotification removes a notification addressed to the signed-in user
func (a *API) DeleteNotification(ctx context.Context, notificationID string) error {
	n, err := a.notifications.Get(ctx, notificationID)
	if err != nil {
		return err
	}
	if _, err := a.ownedBy(n.ReceiverID); err != nil {
		return err
	}
	return a.notifications.Delete(ctx, notificationID)
}
