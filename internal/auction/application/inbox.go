package application

import (
	"context"
	"fmt"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/google/uuid"
)

const defaultInboxLimit = 50

// Inbox is the read side of notifications: the feed, the unread badge, and
// the exactly-once read flip.
type Inbox struct {
	notifications domain.NotificationRepository
}

func NewInbox(notifications domain.NotificationRepository) *Inbox {
	return &Inbox{notifications: notifications}
}

// List returns the most recent notifications for a recipient, newest first.
func (i *Inbox) List(ctx context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error) {
	if limit <= 0 {
		limit = defaultInboxLimit
	}
	ns, err := i.notifications.ListForRecipient(ctx, recipientID, limit)
	if err != nil {
		return nil, fmt.Errorf("list notifications for %s: %w", recipientID, err)
	}
	return ns, nil
}

// UnreadCount returns the number of unread notifications for a recipient.
func (i *Inbox) UnreadCount(ctx context.Context, recipientID uuid.UUID) (int, error) {
	count, err := i.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, fmt.Errorf("count unread notifications for %s: %w", recipientID, err)
	}
	return count, nil
}

// MarkRead flips the read flag. The flag moves false->true exactly once;
// marking an already-read notification is a no-op and reports false.
func (i *Inbox) MarkRead(ctx context.Context, id uuid.UUID) (bool, error) {
	flipped, err := i.notifications.MarkRead(ctx, id)
	if err != nil {
		return false, fmt.Errorf("mark notification %s read: %w", id, err)
	}
	return flipped, nil
}
