package application

import (
	"context"
	"fmt"
	"time"

	"github.com/agribid/auction-engine/internal/auction/domain"
	userdomain "github.com/agribid/auction-engine/internal/user/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Listings covers the posting side of the marketplace: creating a lot,
// moving it through review, and the guarded delete. Bidding never touches
// these paths.
type Listings struct {
	lots  domain.LotRepository
	bids  domain.BidRepository
	users userdomain.UserRepository
	now   NowFunc
}

func NewListings(lots domain.LotRepository, bids domain.BidRepository, users userdomain.UserRepository) *Listings {
	return &Listings{lots: lots, bids: bids, users: users, now: defaultNow}
}

// CreateLotParams carries the listing form fields.
type CreateLotParams struct {
	OwnerID       uuid.UUID
	Category      string
	Breed         string
	Gender        string
	Age           int
	Weight        float64
	Location      string
	StartingPrice decimal.Decimal
	AuctionEnd    time.Time
}

// Create posts a new lot in PENDING status. The auction end is fixed here
// and never changes afterwards.
func (s *Listings) Create(ctx context.Context, p CreateLotParams) (*domain.Lot, error) {
	ok, err := s.users.Exists(ctx, p.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("create lot: check owner %s: %w", p.OwnerID, err)
	}
	if !ok {
		return nil, fmt.Errorf("create lot: owner %s: %w", p.OwnerID, userdomain.ErrUserNotFound)
	}

	lot, err := domain.NewLot(p.OwnerID, p.Category, p.StartingPrice, p.AuctionEnd, s.now())
	if err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}
	lot.Breed = p.Breed
	lot.Gender = p.Gender
	lot.Age = p.Age
	lot.Weight = p.Weight
	lot.Location = p.Location

	if err := s.lots.Create(ctx, lot); err != nil {
		return nil, fmt.Errorf("create lot: %w", err)
	}

	log.Info("lot created",
		zap.String("lotID", lot.ID.String()),
		zap.String("ownerID", p.OwnerID.String()),
		zap.Time("auctionEnd", p.AuctionEnd),
	)
	return lot, nil
}

// Get returns a lot by id.
func (s *Listings) Get(ctx context.Context, lotID uuid.UUID) (*domain.Lot, error) {
	lot, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("get lot %s: %w", lotID, err)
	}
	return lot, nil
}

// Approve opens a reviewed lot for bidding: PENDING -> AVAILABLE.
func (s *Listings) Approve(ctx context.Context, lotID uuid.UUID) error {
	if _, err := s.lots.GetByID(ctx, lotID); err != nil {
		return fmt.Errorf("approve lot %s: %w", lotID, err)
	}
	swapped, err := s.lots.UpdateStatus(ctx, lotID, domain.StatusPending, domain.StatusAvailable)
	if err != nil {
		return fmt.Errorf("approve lot %s: %w", lotID, err)
	}
	if !swapped {
		return fmt.Errorf("approve lot %s: %w", lotID, domain.ErrLotNotAvailable)
	}
	log.Info("lot approved", zap.String("lotID", lotID.String()))
	return nil
}

// Disapprove rejects a lot during review: PENDING -> DISAPPROVED.
func (s *Listings) Disapprove(ctx context.Context, lotID uuid.UUID) error {
	if _, err := s.lots.GetByID(ctx, lotID); err != nil {
		return fmt.Errorf("disapprove lot %s: %w", lotID, err)
	}
	swapped, err := s.lots.UpdateStatus(ctx, lotID, domain.StatusPending, domain.StatusDisapproved)
	if err != nil {
		return fmt.Errorf("disapprove lot %s: %w", lotID, err)
	}
	if !swapped {
		return fmt.Errorf("disapprove lot %s: %w", lotID, domain.ErrLotNotAvailable)
	}
	log.Info("lot disapproved", zap.String("lotID", lotID.String()))
	return nil
}

// Delete removes a lot, owner only, and only while no bids exist. A lot with
// bids can never be deleted; bids are append-only and are not cascaded.
func (s *Listings) Delete(ctx context.Context, lotID, requesterID uuid.UUID) error {
	lot, err := s.lots.GetByID(ctx, lotID)
	if err != nil {
		return fmt.Errorf("delete lot %s: %w", lotID, err)
	}
	if requesterID != lot.OwnerID {
		return fmt.Errorf("delete lot %s: user %s: %w", lotID, requesterID, domain.ErrUnauthorized)
	}

	hasBids, err := s.bids.ExistsForLot(ctx, lotID)
	if err != nil {
		return fmt.Errorf("delete lot %s: check bids: %w", lotID, err)
	}
	if hasBids {
		return fmt.Errorf("delete lot %s: %w", lotID, domain.ErrLotHasBids)
	}

	if err := s.lots.Delete(ctx, lotID); err != nil {
		return fmt.Errorf("delete lot %s: %w", lotID, err)
	}
	log.Info("lot deleted", zap.String("lotID", lotID.String()))
	return nil
}
