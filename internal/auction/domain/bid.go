package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// BidStatus mirrors the legacy data model: every bid that passes validation
// is stored as accepted, there is no separate acceptance step.
type BidStatus string

const BidAccepted BidStatus = "accepted"

// Bid is a monetary offer against a lot. Bids are append-only, never mutated
// or deleted; for a given lot, accepted amounts are strictly increasing.
type Bid struct {
	ID       uuid.UUID
	LotID    uuid.UUID
	BidderID uuid.UUID
	Amount   decimal.Decimal
	Status   BidStatus
	PlacedAt time.Time
}

// NewBid creates an accepted bid.
func NewBid(lotID, bidderID uuid.UUID, amount decimal.Decimal, placedAt time.Time) *Bid {
	return &Bid{
		ID:       uuid.New(),
		LotID:    lotID,
		BidderID: bidderID,
		Amount:   amount,
		Status:   BidAccepted,
		PlacedAt: placedAt,
	}
}
