package application

import (
	"context"
	"sync"
	"testing"

	"github.com/agribid/auction-engine/internal/auction/domain"
	userdomain "github.com/agribid/auction-engine/internal/user/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitBid_FirstBidAgainstStartingPrice(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")
	ctx := context.Background()

	_, err := f.ledger.SubmitBid(ctx, lot.ID, f.bidderX, dec(t, "500"))
	require.ErrorIs(t, err, domain.ErrInvalidBid)

	// equal to the starting price loses too
	_, err = f.ledger.SubmitBid(ctx, lot.ID, f.bidderX, dec(t, "1000"))
	require.ErrorIs(t, err, domain.ErrInvalidBid)

	bid, err := f.ledger.SubmitBid(ctx, lot.ID, f.bidderX, dec(t, "1500"))
	require.NoError(t, err)
	assert.True(t, bid.Amount.Equal(dec(t, "1500")))
	assert.Equal(t, domain.BidAccepted, bid.Status)

	hb, err := f.ledger.GetHighestBid(ctx, lot.ID)
	require.NoError(t, err)
	require.NotNil(t, hb.Bid)
	assert.True(t, hb.Bid.Amount.Equal(dec(t, "1500")))
	assert.Equal(t, 1, hb.BidderCount)
}

func TestSubmitBid_MustExceedCurrentHighest(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")
	ctx := context.Background()
	f.mustBid(t, lot.ID, f.bidderX, "1500")
	f.notes.reset()

	// a tie is rejected and the rejection names the bar to clear
	_, err := f.ledger.SubmitBid(ctx, lot.ID, f.bidderY, dec(t, "1500"))
	require.ErrorIs(t, err, domain.ErrInvalidBid)
	assert.Contains(t, err.Error(), "₱1,500")

	bid, err := f.ledger.SubmitBid(ctx, lot.ID, f.bidderY, dec(t, "2000"))
	require.NoError(t, err)
	assert.True(t, bid.Amount.Equal(dec(t, "2000")))

	hb, err := f.ledger.GetHighestBid(ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, hb.Bid.Amount.Equal(dec(t, "2000")))
	assert.Equal(t, f.bidderY, hb.Bid.BidderID)
	assert.Equal(t, 2, hb.BidderCount)
}

func TestSubmitBid_NotificationFanOut(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")
	f.mustBid(t, lot.ID, f.bidderX, "1500")

	// first accepted bid: seller and bidder, nobody to outbid
	notes := f.notes.all()
	require.Len(t, notes, 2)
	assert.Empty(t, f.notes.byKind(domain.EventOutbid))

	sellerNotes := f.notes.forRecipient(f.seller)
	require.Len(t, sellerNotes, 1)
	assert.Equal(t, domain.EventNewBid, sellerNotes[0].Kind)
	assert.Equal(t, domain.RoleSeller, sellerNotes[0].Role)
	assert.Equal(t, "A new bid of ₱1,500 has been placed on your livestock!", sellerNotes[0].Message)

	bidderNotes := f.notes.forRecipient(f.bidderX)
	require.Len(t, bidderNotes, 1)
	assert.Equal(t, "You have successfully placed a bid of ₱1,500 on this livestock!", bidderNotes[0].Message)

	f.notes.reset()
	f.mustBid(t, lot.ID, f.bidderY, "2000")

	// second bid displaces X
	outbid := f.notes.byKind(domain.EventOutbid)
	require.Len(t, outbid, 1)
	assert.Equal(t, f.bidderX, outbid[0].RecipientID)
	assert.Equal(t, domain.RoleBidder, outbid[0].Role)
	assert.Contains(t, outbid[0].Message, "outbid")
	require.Len(t, f.notes.all(), 3)
}

func TestSubmitBid_SelfOutbidSkipsOutbidNotice(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")
	f.mustBid(t, lot.ID, f.bidderX, "1500")
	f.notes.reset()

	// raising your own highest bid must not notify you of being outbid
	f.mustBid(t, lot.ID, f.bidderX, "2000")
	assert.Empty(t, f.notes.byKind(domain.EventOutbid))
}

func TestSubmitBid_SelfBidForbidden(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")

	_, err := f.ledger.SubmitBid(context.Background(), lot.ID, f.seller, dec(t, "1000000"))
	require.ErrorIs(t, err, domain.ErrSelfBidForbidden)
	assert.Empty(t, f.notes.all())
}

func TestSubmitBid_Rejections(t *testing.T) {
	f := newFixture(t)
	open := f.openLot(t, "1000")
	pending := f.addLot(t, domain.StatusPending, "1000", open.AuctionEnd)
	ended := f.addLot(t, domain.StatusAuctionEnded, "1000", open.AuctionEnd)
	sold := f.addLot(t, domain.StatusSold, "1000", open.AuctionEnd)
	ctx := context.Background()

	tests := []struct {
		name   string
		lotID  uuid.UUID
		bidder uuid.UUID
		amount decimal.Decimal
		want   error
	}{
		{"unknown lot", uuid.New(), f.bidderX, dec(t, "1500"), domain.ErrLotNotFound},
		{"unknown bidder", open.ID, uuid.New(), dec(t, "1500"), userdomain.ErrUserNotFound},
		{"pending lot", pending.ID, f.bidderX, dec(t, "1500"), domain.ErrLotNotAvailable},
		{"ended lot", ended.ID, f.bidderX, dec(t, "1500"), domain.ErrLotNotAvailable},
		{"sold lot", sold.ID, f.bidderX, dec(t, "1500"), domain.ErrLotNotAvailable},
		{"zero amount", open.ID, f.bidderX, decimal.Zero, domain.ErrInvalidBid},
		{"negative amount", open.ID, f.bidderX, dec(t, "-5"), domain.ErrInvalidBid},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.ledger.SubmitBid(ctx, tc.lotID, tc.bidder, tc.amount)
			require.ErrorIs(t, err, tc.want)
		})
	}
	assert.Empty(t, f.notes.all())
}

func TestSubmitBid_ConcurrentEqualBidsAdmitOne(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")
	f.mustBid(t, lot.ID, f.bidderX, "1500")
	ctx := context.Background()

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, bidder := range []uuid.UUID{f.bidderX, f.bidderY} {
		wg.Add(1)
		go func(i int, bidder uuid.UUID) {
			defer wg.Done()
			_, errs[i] = f.ledger.SubmitBid(ctx, lot.ID, bidder, dec(t, "2000"))
		}(i, bidder)
	}
	wg.Wait()

	accepted := 0
	for _, err := range errs {
		if err == nil {
			accepted++
		} else {
			require.ErrorIs(t, err, domain.ErrInvalidBid)
		}
	}
	assert.Equal(t, 1, accepted)

	hb, err := f.ledger.GetHighestBid(ctx, lot.ID)
	require.NoError(t, err)
	assert.True(t, hb.Bid.Amount.Equal(dec(t, "2000")))
}

func TestSubmitBid_AcceptedAmountsStrictlyIncrease(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1")
	ctx := context.Background()

	var wg sync.WaitGroup
	for i := 2; i <= 21; i++ {
		wg.Add(1)
		go func(amount int64) {
			defer wg.Done()
			bidder := f.bidderX
			if amount%2 == 0 {
				bidder = f.bidderY
			}
			// losers are expected under contention; only the ordering of
			// accepted bids matters here
			_, _ = f.ledger.SubmitBid(ctx, lot.ID, bidder, decimal.NewFromInt(amount))
		}(int64(i))
	}
	wg.Wait()

	bids, err := f.store.Bids().ListForLot(ctx, lot.ID)
	require.NoError(t, err)
	require.NotEmpty(t, bids)
	for i := 1; i < len(bids); i++ {
		assert.True(t, bids[i].Amount.GreaterThan(bids[i-1].Amount),
			"accepted amounts must strictly increase in admission order")
	}
}

func TestGetHighestBid_NoBids(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")

	hb, err := f.ledger.GetHighestBid(context.Background(), lot.ID)
	require.NoError(t, err)
	assert.Nil(t, hb.Bid)
	assert.Equal(t, 0, hb.BidderCount)

	_, err = f.ledger.GetHighestBid(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrLotNotFound)
}

func TestSubmitBid_PublishesLiveEvent(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")
	bid := f.mustBid(t, lot.ID, f.bidderX, "1500")

	events := f.events.all()
	require.Len(t, events, 1)
	assert.Equal(t, EventBidAccepted, events[0].Kind)
	assert.Equal(t, lot.ID.String(), events[0].LotID)
	assert.Equal(t, f.bidderX.String(), events[0].BidderID)
	assert.Equal(t, bid.Amount.String(), events[0].Amount)
}
