package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// LotStatus represents the lifecycle state of an auction lot.
//
// PENDING -> AVAILABLE -> AUCTION_ENDED -> SOLD, with a side branch
// PENDING -> DISAPPROVED for listings that fail review. AUCTION_ENDED -> SOLD
// happens only through explicit seller confirmation, never automatically.
type LotStatus string

const (
	StatusPending      LotStatus = "PENDING"
	StatusAvailable    LotStatus = "AVAILABLE"
	StatusAuctionEnded LotStatus = "AUCTION_ENDED"
	StatusSold         LotStatus = "SOLD"
	StatusDisapproved  LotStatus = "DISAPPROVED"
)

// Lot is an auctionable livestock item. AuctionEnd is fixed at creation and
// never extended afterwards.
type Lot struct {
	ID            uuid.UUID
	OwnerID       uuid.UUID
	Category      string
	Breed         string
	Gender        string
	Age           int
	Weight        float64
	Location      string
	StartingPrice decimal.Decimal
	AuctionEnd    time.Time
	Status        LotStatus
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// NewLot builds a lot in PENDING status, validating the listing fields.
func NewLot(ownerID uuid.UUID, category string, startingPrice decimal.Decimal, auctionEnd time.Time, now time.Time) (*Lot, error) {
	if ownerID == uuid.Nil {
		return nil, ErrInvalidLot
	}
	if category == "" {
		return nil, ErrInvalidLot
	}
	if !startingPrice.IsPositive() {
		return nil, ErrInvalidLot
	}
	if !auctionEnd.After(now) {
		return nil, ErrInvalidLot
	}
	return &Lot{
		ID:            uuid.New(),
		OwnerID:       ownerID,
		Category:      category,
		StartingPrice: startingPrice,
		AuctionEnd:    auctionEnd,
		Status:        StatusPending,
		CreatedAt:     now,
		UpdatedAt:     now,
	}, nil
}

// Open reports whether the lot is accepting bids.
func (l *Lot) Open() bool {
	return l.Status == StatusAvailable
}

// Closed reports whether the auction has already ended, sold or not.
func (l *Lot) Closed() bool {
	return l.Status == StatusAuctionEnded || l.Status == StatusSold
}

// Expired reports whether the auction deadline has passed.
func (l *Lot) Expired(now time.Time) bool {
	return !now.Before(l.AuctionEnd)
}

// TimeRemaining returns the duration until the auction ends, clamped at zero.
// Formatting is up to the presentation layer.
func (l *Lot) TimeRemaining(now time.Time) time.Duration {
	remaining := l.AuctionEnd.Sub(now)
	if remaining < 0 {
		return 0
	}
	return remaining
}
