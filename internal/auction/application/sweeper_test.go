package application

import (
	"context"
	"testing"
	"time"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSweeper_RunOnceClosesExpiredOnly(t *testing.T) {
	f := newFixture(t)
	expired1 := f.expiredLot(t, "1000")
	expired2 := f.expiredLot(t, "2000")
	active := f.openLot(t, "3000")
	pending := f.addLot(t, domain.StatusPending, "4000", time.Now().UTC().Add(-time.Minute))
	ctx := context.Background()

	sweeper := NewSweeper(f.clock, f.store.Lots(), time.Minute, time.Minute)
	closed, err := sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, closed)

	for _, tc := range []struct {
		lot  *domain.Lot
		want domain.LotStatus
	}{
		{expired1, domain.StatusAuctionEnded},
		{expired2, domain.StatusAuctionEnded},
		{active, domain.StatusAvailable},
		{pending, domain.StatusPending},
	} {
		stored, err := f.store.Lots().GetByID(ctx, tc.lot.ID)
		require.NoError(t, err)
		assert.Equal(t, tc.want, stored.Status)
	}

	// already swept; nothing left to close
	closed, err = sweeper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestSweeper_RunOnceEmptyStore(t *testing.T) {
	f := newFixture(t)
	sweeper := NewSweeper(f.clock, f.store.Lots(), time.Minute, time.Minute)

	closed, err := sweeper.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 0, closed)
}

func TestSweeper_StartClosesInBackground(t *testing.T) {
	f := newFixture(t)
	lot := f.expiredLot(t, "1000")

	sweeper := NewSweeper(f.clock, f.store.Lots(), 10*time.Millisecond, time.Second)
	sweeper.Start()
	defer sweeper.Stop()

	require.Eventually(t, func() bool {
		stored, err := f.store.Lots().GetByID(context.Background(), lot.ID)
		return err == nil && stored.Status == domain.StatusAuctionEnded
	}, 2*time.Second, 10*time.Millisecond)
}

func TestSweeper_StopIsIdempotent(t *testing.T) {
	f := newFixture(t)
	sweeper := NewSweeper(f.clock, f.store.Lots(), 10*time.Millisecond, time.Second)
	sweeper.Start()
	sweeper.Stop()
	sweeper.Stop()
}
