package application

import "time"

// Lot event kinds published to live subscribers.
const (
	EventBidAccepted   = "bid_accepted"
	EventAuctionClosed = "auction_closed"
	EventSaleConfirmed = "sale_confirmed"
)

// LotEvent is a lightweight change-feed record for one lot, consumed by the
// websocket layer. Delivery is best-effort; the engine's correctness never
// depends on it.
type LotEvent struct {
	LotID    string    `json:"lot_id"`
	Kind     string    `json:"kind"`
	Status   string    `json:"status,omitempty"`
	BidderID string    `json:"bidder_id,omitempty"`
	Amount   string    `json:"amount,omitempty"`
	At       time.Time `json:"at"`
}

// EventSink receives lot events. Implementations must not block.
type EventSink interface {
	Publish(event LotEvent)
}
