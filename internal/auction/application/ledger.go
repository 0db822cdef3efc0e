package application

import (
	"context"
	"fmt"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/agribid/auction-engine/internal/shared/logger"
	userdomain "github.com/agribid/auction-engine/internal/user/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var log = logger.GetLogger()

// Ledger is the single source of truth for the current highest bid on a lot
// and the gatekeeper for admitting new bids. The legacy client duplicated
// this logic across two bid modals; both presentation surfaces now call here.
type Ledger struct {
	lots     domain.LotRepository
	bids     domain.BidRepository
	users    userdomain.UserRepository
	notifier domain.Notifier
	events   EventSink
	locks    *LockTable
	now      NowFunc
}

// NewLedger wires the bid ledger. events may be nil when no live feed is
// attached.
func NewLedger(
	lots domain.LotRepository,
	bids domain.BidRepository,
	users userdomain.UserRepository,
	notifier domain.Notifier,
	events EventSink,
	locks *LockTable,
) *Ledger {
	return &Ledger{
		lots:     lots,
		bids:     bids,
		users:    users,
		notifier: notifier,
		events:   events,
		locks:    locks,
		now:      defaultNow,
	}
}

// HighestBid is the read-side answer for "what is the current state of
// bidding on this lot".
type HighestBid struct {
	Bid         *domain.Bid // nil when the lot has no bids
	BidderCount int
}

// SubmitBid validates a bid against the lot state and the current highest
// bid, records it, and notifies the seller, the displaced highest bidder and
// the new bidder. Validation and insertion run under the lot's mutex;
// notifications are dispatched after the lock is released and never affect
// the outcome.
func (l *Ledger) SubmitBid(ctx context.Context, lotID, bidderID uuid.UUID, amount decimal.Decimal) (*domain.Bid, error) {
	if !amount.IsPositive() {
		return nil, fmt.Errorf("submit bid: %w: amount must be a positive number", domain.ErrInvalidBid)
	}

	ok, err := l.users.Exists(ctx, bidderID)
	if err != nil {
		return nil, fmt.Errorf("submit bid: check bidder %s: %w", bidderID, err)
	}
	if !ok {
		return nil, fmt.Errorf("submit bid: bidder %s: %w", bidderID, userdomain.ErrUserNotFound)
	}

	mu := l.locks.Get(lotID)
	mu.Lock()
	lot, bid, prev, err := l.admit(ctx, lotID, bidderID, amount)
	mu.Unlock()
	if err != nil {
		return nil, err
	}

	l.notifyAccepted(ctx, lot, bid, prev)

	if l.events != nil {
		l.events.Publish(LotEvent{
			LotID:    lotID.String(),
			Kind:     EventBidAccepted,
			BidderID: bidderID.String(),
			Amount:   bid.Amount.String(),
			At:       bid.PlacedAt,
		})
	}

	log.Info("bid accepted",
		zap.String("lotID", lotID.String()),
		zap.String("bidderID", bidderID.String()),
		zap.String("amount", bid.Amount.String()),
	)
	return bid, nil
}

// admit runs the read-validate-insert sequence. Callers must hold the lot's
// mutex.
func (l *Ledger) admit(ctx context.Context, lotID, bidderID uuid.UUID, amount decimal.Decimal) (*domain.Lot, *domain.Bid, *domain.Bid, error) {
	lot, err := l.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("submit bid: get lot %s: %w", lotID, err)
	}
	if !lot.Open() {
		log.Warn("bid rejected: lot not open",
			zap.String("lotID", lotID.String()),
			zap.String("status", string(lot.Status)),
		)
		return nil, nil, nil, fmt.Errorf("submit bid: lot %s: %w", lotID, domain.ErrLotNotAvailable)
	}
	if bidderID == lot.OwnerID {
		log.Warn("bid rejected: self-bid",
			zap.String("lotID", lotID.String()),
			zap.String("bidderID", bidderID.String()),
		)
		return nil, nil, nil, fmt.Errorf("submit bid: lot %s: %w", lotID, domain.ErrSelfBidForbidden)
	}

	prev, err := l.bids.HighestForLot(ctx, lotID)
	if err != nil {
		return nil, nil, nil, fmt.Errorf("submit bid: get highest bid for lot %s: %w", lotID, err)
	}

	// First bid competes against the starting price, later ones against the
	// current highest. Strictly greater in both cases, so ties lose.
	floor := lot.StartingPrice
	if prev != nil {
		floor = prev.Amount
	}
	if !amount.GreaterThan(floor) {
		log.Warn("bid rejected: amount too low",
			zap.String("lotID", lotID.String()),
			zap.String("amount", amount.String()),
			zap.String("currentHighest", floor.String()),
		)
		return nil, nil, nil, fmt.Errorf("submit bid: %w: bid must be higher than the current highest of %s", domain.ErrInvalidBid, formatMoney(floor))
	}

	bid := domain.NewBid(lotID, bidderID, amount, l.now())
	if err := l.bids.Insert(ctx, bid); err != nil {
		return nil, nil, nil, fmt.Errorf("submit bid: insert bid for lot %s: %w", lotID, err)
	}
	return lot, bid, prev, nil
}

// notifyAccepted sends the three best-effort notifications for an accepted
// bid: seller, displaced highest bidder (when there is one and it is not the
// new bidder), and the new bidder.
func (l *Ledger) notifyAccepted(ctx context.Context, lot *domain.Lot, bid *domain.Bid, prev *domain.Bid) {
	l.notifier.Notify(ctx, lot.OwnerID, domain.RoleSeller, lot.ID, domain.EventNewBid, sellerNewBidMessage(bid.Amount))

	if prev != nil && prev.BidderID != bid.BidderID {
		l.notifier.Notify(ctx, prev.BidderID, domain.RoleBidder, lot.ID, domain.EventOutbid, outbidMessage(lot.Category))
	}

	l.notifier.Notify(ctx, bid.BidderID, domain.RoleBidder, lot.ID, domain.EventNewBid, bidderNewBidMessage(bid.Amount))
}

// GetHighestBid returns the current highest accepted bid (nil when none) and
// the distinct bidder count for display.
func (l *Ledger) GetHighestBid(ctx context.Context, lotID uuid.UUID) (*HighestBid, error) {
	if _, err := l.lots.GetByID(ctx, lotID); err != nil {
		return nil, fmt.Errorf("get highest bid: get lot %s: %w", lotID, err)
	}

	bid, err := l.bids.HighestForLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("get highest bid: lot %s: %w", lotID, err)
	}
	count, err := l.bids.CountDistinctBidders(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("get highest bid: count bidders for lot %s: %w", lotID, err)
	}
	return &HighestBid{Bid: bid, BidderCount: count}, nil
}
