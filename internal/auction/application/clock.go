package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/agribid/auction-engine/internal/auction/domain"
	userdomain "github.com/agribid/auction-engine/internal/user/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	maxStoreAttempts = 3
	retryBaseBackoff = 50 * time.Millisecond
)

// Clock owns the closed half of the lot state machine: it performs auction
// closure when the deadline passes and finalizes sales on seller
// confirmation. Both operations run under the same per-lot lock as bid
// admission, and both rely on compare-and-swap status transitions at the
// store, so redundant invocations are harmless.
type Clock struct {
	lots     domain.LotRepository
	bids     domain.BidRepository
	results  domain.AuctionResultRepository
	notifier domain.Notifier
	events   EventSink
	locks    *LockTable
	now      NowFunc
}

func NewClock(
	lots domain.LotRepository,
	bids domain.BidRepository,
	results domain.AuctionResultRepository,
	notifier domain.Notifier,
	events EventSink,
	locks *LockTable,
) *Clock {
	return &Clock{
		lots:     lots,
		bids:     bids,
		results:  results,
		notifier: notifier,
		events:   events,
		locks:    locks,
		now:      defaultNow,
	}
}

// CloseResult reports what a CloseIfExpired call did.
type CloseResult struct {
	LotID  uuid.UUID
	Status domain.LotStatus
	// Result holds the winner record, nil when the auction closed with no
	// bids or has not closed yet.
	Result *domain.AuctionResult
	// Closed is true when this call performed the status transition.
	// Redundant calls return the existing outcome with Closed=false.
	Closed bool
}

// CloseIfExpired transitions an expired AVAILABLE lot to AUCTION_ENDED and
// notifies the winner and seller exactly once. Idempotent: calling it again
// (or concurrently) returns the existing outcome without re-sending
// notifications. Transient store failures are retried a bounded number of
// times; the CAS on the status column is the idempotence guard.
func (c *Clock) CloseIfExpired(ctx context.Context, lotID uuid.UUID) (*CloseResult, error) {
	mu := c.locks.Get(lotID)
	mu.Lock()
	res, lot, winner, err := c.close(ctx, lotID)
	mu.Unlock()
	if err != nil {
		return nil, err
	}
	if !res.Closed {
		return res, nil
	}

	if winner != nil {
		c.notifier.Notify(ctx, winner.BidderID, domain.RoleBidder, lotID, domain.EventAuctionEnd, winnerMessage(winner.Amount))
		c.notifier.Notify(ctx, lot.OwnerID, domain.RoleSeller, lotID, domain.EventAuctionEnd, sellerClosedMessage(winner.Amount))
	} else {
		// The legacy client silently skipped the seller here; the seller now
		// always learns the auction is over.
		c.notifier.Notify(ctx, lot.OwnerID, domain.RoleSeller, lotID, domain.EventAuctionEnd, sellerNoBidsMessage())
	}

	if c.events != nil {
		evt := LotEvent{
			LotID:  lotID.String(),
			Kind:   EventAuctionClosed,
			Status: string(domain.StatusAuctionEnded),
			At:     c.now(),
		}
		if winner != nil {
			evt.BidderID = winner.BidderID.String()
			evt.Amount = winner.Amount.String()
		}
		c.events.Publish(evt)
	}

	log.Info("auction closed",
		zap.String("lotID", lotID.String()),
		zap.Bool("hasWinner", winner != nil),
	)
	return res, nil
}

// close runs the closure critical section. Callers must hold the lot's mutex.
func (c *Clock) close(ctx context.Context, lotID uuid.UUID) (*CloseResult, *domain.Lot, *domain.Bid, error) {
	var lot *domain.Lot
	err := c.withRetry(ctx, func() error {
		var err error
		lot, err = c.lots.GetByID(ctx, lotID)
		return err
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("close lot: get lot %s: %w", lotID, err)
	}

	if lot.Closed() {
		res := &CloseResult{LotID: lotID, Status: lot.Status}
		existing, err := c.results.GetByLot(ctx, lotID)
		if err != nil && !errors.Is(err, domain.ErrResultNotFound) {
			return nil, nil, nil, fmt.Errorf("close lot: get result for lot %s: %w", lotID, err)
		}
		res.Result = existing
		return res, lot, nil, nil
	}
	if lot.Status != domain.StatusAvailable {
		return nil, nil, nil, fmt.Errorf("close lot: lot %s in status %s: %w", lotID, lot.Status, domain.ErrLotNotAvailable)
	}
	if !lot.Expired(c.now()) {
		return &CloseResult{LotID: lotID, Status: lot.Status}, lot, nil, nil
	}

	var winner *domain.Bid
	err = c.withRetry(ctx, func() error {
		var err error
		winner, err = c.bids.HighestForLot(ctx, lotID)
		return err
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("close lot: get highest bid for lot %s: %w", lotID, err)
	}

	var swapped bool
	err = c.withRetry(ctx, func() error {
		var err error
		swapped, err = c.lots.UpdateStatus(ctx, lotID, domain.StatusAvailable, domain.StatusAuctionEnded)
		return err
	})
	if err != nil {
		return nil, nil, nil, fmt.Errorf("close lot: update status for lot %s: %w", lotID, err)
	}
	if !swapped {
		// Someone else closed it between our read and the CAS. Report the
		// existing outcome, send nothing.
		existing, err := c.results.GetByLot(ctx, lotID)
		if err != nil && !errors.Is(err, domain.ErrResultNotFound) {
			return nil, nil, nil, fmt.Errorf("close lot: get result for lot %s: %w", lotID, err)
		}
		return &CloseResult{LotID: lotID, Status: domain.StatusAuctionEnded, Result: existing}, lot, nil, nil
	}

	res := &CloseResult{LotID: lotID, Status: domain.StatusAuctionEnded, Closed: true}
	if winner != nil {
		result := &domain.AuctionResult{
			LotID:         lotID,
			WinnerID:      winner.BidderID,
			WinningAmount: winner.Amount,
			Status:        domain.Unconfirmed,
			CreatedAt:     c.now(),
		}
		err = c.withRetry(ctx, func() error {
			return c.results.Create(ctx, result)
		})
		if err != nil {
			return nil, nil, nil, fmt.Errorf("close lot: create result for lot %s: %w", lotID, err)
		}
		res.Result = result
	}
	return res, lot, winner, nil
}

// ConfirmSale finalizes a closed, won auction: AUCTION_ENDED -> SOLD, result
// UNCONFIRMED -> CONFIRMED, exactly once, owner only. The second attempt
// returns ErrAlreadyConfirmed with no side effects.
func (c *Clock) ConfirmSale(ctx context.Context, lotID, confirmingUserID uuid.UUID) (*domain.AuctionResult, error) {
	mu := c.locks.Get(lotID)
	mu.Lock()
	lot, result, err := c.confirm(ctx, lotID, confirmingUserID)
	mu.Unlock()
	if err != nil {
		return nil, err
	}

	c.notifier.Notify(ctx, result.WinnerID, domain.RoleBidder, lotID, domain.EventConfirmation, winnerConfirmationMessage(lot.Category))
	c.notifier.Notify(ctx, lot.OwnerID, domain.RoleSeller, lotID, domain.EventConfirmation, sellerConfirmationMessage(lot.Category))

	if c.events != nil {
		c.events.Publish(LotEvent{
			LotID:  lotID.String(),
			Kind:   EventSaleConfirmed,
			Status: string(domain.StatusSold),
			At:     c.now(),
		})
	}

	log.Info("sale confirmed",
		zap.String("lotID", lotID.String()),
		zap.String("winnerID", result.WinnerID.String()),
	)
	return result, nil
}

// confirm runs the confirmation critical section. Callers must hold the
// lot's mutex.
func (c *Clock) confirm(ctx context.Context, lotID, confirmingUserID uuid.UUID) (*domain.Lot, *domain.AuctionResult, error) {
	lot, err := c.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, nil, fmt.Errorf("confirm sale: get lot %s: %w", lotID, err)
	}
	if confirmingUserID != lot.OwnerID {
		return nil, nil, fmt.Errorf("confirm sale: user %s on lot %s: %w", confirmingUserID, lotID, domain.ErrUnauthorized)
	}
	if lot.Status == domain.StatusSold {
		return nil, nil, fmt.Errorf("confirm sale: lot %s: %w", lotID, domain.ErrAlreadyConfirmed)
	}
	if lot.Status != domain.StatusAuctionEnded {
		return nil, nil, fmt.Errorf("confirm sale: lot %s in status %s: %w", lotID, lot.Status, domain.ErrLotNotAvailable)
	}

	result, err := c.results.GetByLot(ctx, lotID)
	if err != nil {
		return nil, nil, fmt.Errorf("confirm sale: get result for lot %s: %w", lotID, err)
	}

	confirmedAt := c.now()
	swapped, err := c.results.Confirm(ctx, lotID, confirmedAt)
	if err != nil {
		return nil, nil, fmt.Errorf("confirm sale: confirm result for lot %s: %w", lotID, err)
	}
	if !swapped {
		return nil, nil, fmt.Errorf("confirm sale: lot %s: %w", lotID, domain.ErrAlreadyConfirmed)
	}

	if _, err := c.lots.UpdateStatus(ctx, lotID, domain.StatusAuctionEnded, domain.StatusSold); err != nil {
		return nil, nil, fmt.Errorf("confirm sale: update status for lot %s: %w", lotID, err)
	}

	result.Status = domain.Confirmed
	result.ConfirmedAt = &confirmedAt
	return lot, result, nil
}

// withRetry retries fn on transient store failures with a doubling backoff.
// Validation sentinels are terminal and returned immediately.
func (c *Clock) withRetry(ctx context.Context, fn func() error) error {
	backoff := retryBaseBackoff
	var err error
	for attempt := 1; attempt <= maxStoreAttempts; attempt++ {
		err = fn()
		if err == nil || isTerminal(err) {
			return err
		}
		log.Warn("store operation failed, retrying",
			zap.Int("attempt", attempt),
			zap.Error(err),
		)
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(backoff):
		}
		backoff *= 2
	}
	return err
}

func isTerminal(err error) bool {
	for _, sentinel := range []error{
		domain.ErrLotNotFound,
		domain.ErrLotNotAvailable,
		domain.ErrSelfBidForbidden,
		domain.ErrInvalidBid,
		domain.ErrAlreadyConfirmed,
		domain.ErrUnauthorized,
		domain.ErrResultNotFound,
		userdomain.ErrUserNotFound,
	} {
		if errors.Is(err, sentinel) {
			return true
		}
	}
	return false
}
