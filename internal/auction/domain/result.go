package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ConfirmationStatus tracks whether the seller has confirmed a closed sale.
type ConfirmationStatus string

const (
	Unconfirmed ConfirmationStatus = "UNCONFIRMED"
	Confirmed   ConfirmationStatus = "CONFIRMED"
)

// AuctionResult records the winner of a closed auction and the seller's
// confirmation. One row per lot, created at closure only when a winning bid
// exists. Transitions UNCONFIRMED -> CONFIRMED exactly once.
type AuctionResult struct {
	LotID         uuid.UUID
	WinnerID      uuid.UUID
	WinningAmount decimal.Decimal
	Status        ConfirmationStatus
	CreatedAt     time.Time
	ConfirmedAt   *time.Time
}
