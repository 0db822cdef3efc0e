package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// LotRepository is the durable lot store. State transitions go through
// UpdateStatus, a compare-and-swap on the status column, so redundant
// closure/confirmation attempts cannot double-apply.
type LotRepository interface {
	Create(ctx context.Context, lot *Lot) error
	GetByID(ctx context.Context, id uuid.UUID) (*Lot, error)
	// UpdateStatus transitions the lot from one status to another and reports
	// whether the swap happened.
	UpdateStatus(ctx context.Context, id uuid.UUID, from, to LotStatus) (bool, error)
	// ListExpired returns AVAILABLE lots whose auction end has passed.
	ListExpired(ctx context.Context, now time.Time) ([]*Lot, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

// BidRepository is the append-only bid store.
type BidRepository interface {
	Insert(ctx context.Context, bid *Bid) error
	// HighestForLot returns the maximum-amount bid for the lot, or nil when
	// the lot has no bids.
	HighestForLot(ctx context.Context, lotID uuid.UUID) (*Bid, error)
	CountDistinctBidders(ctx context.Context, lotID uuid.UUID) (int, error)
	// BidderIDs returns the distinct bidders on a lot.
	BidderIDs(ctx context.Context, lotID uuid.UUID) ([]uuid.UUID, error)
	ExistsForLot(ctx context.Context, lotID uuid.UUID) (bool, error)
}

// NotificationRepository stores notifications; rows are insert-only apart
// from the read flag.
type NotificationRepository interface {
	Insert(ctx context.Context, n *Notification) error
	ListForRecipient(ctx context.Context, recipientID uuid.UUID, limit int) ([]*Notification, error)
	CountUnread(ctx context.Context, recipientID uuid.UUID) (int, error)
	// MarkRead flips the read flag and reports whether this call did the
	// flip. Returns ErrNotificationNotFound for unknown ids.
	MarkRead(ctx context.Context, id uuid.UUID) (bool, error)
}

// AuctionResultRepository stores one result row per closed-with-winner lot.
type AuctionResultRepository interface {
	Create(ctx context.Context, result *AuctionResult) error
	GetByLot(ctx context.Context, lotID uuid.UUID) (*AuctionResult, error)
	// Confirm swaps UNCONFIRMED -> CONFIRMED and reports whether this call
	// did the swap.
	Confirm(ctx context.Context, lotID uuid.UUID, at time.Time) (bool, error)
}

// ForumRepository stores the per-lot Q&A threads.
type ForumRepository interface {
	Insert(ctx context.Context, post *ForumPost) error
	ListForLot(ctx context.Context, lotID uuid.UUID) ([]*ForumPost, error)
}

// Notifier delivers notifications best-effort. Implementations must never
// surface delivery failures to the caller; a failed send is logged and the
// triggering business transaction stands.
type Notifier interface {
	Notify(ctx context.Context, recipientID uuid.UUID, role RecipientRole, lotID uuid.UUID, kind EventKind, message string)
}

// PushSender is an optional external push channel (FCM or similar).
type PushSender interface {
	Push(ctx context.Context, recipientID uuid.UUID, message string) error
}
