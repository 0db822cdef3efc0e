package domain

import (
	"time"

	"github.com/google/uuid"
)

// RecipientRole identifies which side of the auction a notification targets.
type RecipientRole string

const (
	RoleSeller RecipientRole = "SELLER"
	RoleBidder RecipientRole = "BIDDER"
)

// EventKind enumerates the lot events users are notified about.
type EventKind string

const (
	EventNewBid        EventKind = "NEW_BID"
	EventOutbid        EventKind = "OUTBID"
	EventAuctionEnd    EventKind = "AUCTION_END"
	EventConfirmation  EventKind = "CONFIRMATION"
	EventForumQuestion EventKind = "NEW_FORUM_QUESTION"
	EventForumAnswer   EventKind = "NEW_FORUM_ANSWER"
)

// Notification is a one-way message to a user about a lot event. Immutable
// except for the read flag, which flips false->true exactly once when the
// recipient views it.
type Notification struct {
	ID          uuid.UUID
	RecipientID uuid.UUID
	Role        RecipientRole
	LotID       uuid.UUID
	Kind        EventKind
	Message     string
	Read        bool
	CreatedAt   time.Time
}

// NewNotification creates an unread notification.
func NewNotification(recipientID uuid.UUID, role RecipientRole, lotID uuid.UUID, kind EventKind, message string, at time.Time) *Notification {
	return &Notification{
		ID:          uuid.New(),
		RecipientID: recipientID,
		Role:        role,
		LotID:       lotID,
		Kind:        kind,
		Message:     message,
		CreatedAt:   at,
	}
}
