package application

import (
	"context"
	"testing"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInbox_ListAndUnreadCount(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")
	ctx := context.Background()

	// route real traffic through the dispatcher so the feed matches what
	// users would see
	d := NewDispatcher(f.store.Notifications(), nil)
	d.Notify(ctx, f.bidderX, domain.RoleBidder, lot.ID, domain.EventNewBid, "first")
	d.Notify(ctx, f.bidderX, domain.RoleBidder, lot.ID, domain.EventOutbid, "second")
	d.Notify(ctx, f.bidderY, domain.RoleBidder, lot.ID, domain.EventNewBid, "other recipient")
	d.Flush()

	ns, err := f.inbox.List(ctx, f.bidderX, 0)
	require.NoError(t, err)
	assert.Len(t, ns, 2)

	count, err := f.inbox.UnreadCount(ctx, f.bidderX)
	require.NoError(t, err)
	assert.Equal(t, 2, count)

	ns, err = f.inbox.List(ctx, f.bidderX, 1)
	require.NoError(t, err)
	assert.Len(t, ns, 1)
}

func TestInbox_MarkReadFlipsOnce(t *testing.T) {
	f := newFixture(t)
	lot := f.openLot(t, "1000")
	ctx := context.Background()

	d := NewDispatcher(f.store.Notifications(), nil)
	d.Notify(ctx, f.bidderX, domain.RoleBidder, lot.ID, domain.EventNewBid, "hello")
	d.Flush()

	ns, err := f.inbox.List(ctx, f.bidderX, 1)
	require.NoError(t, err)
	require.Len(t, ns, 1)

	flipped, err := f.inbox.MarkRead(ctx, ns[0].ID)
	require.NoError(t, err)
	assert.True(t, flipped)

	flipped, err = f.inbox.MarkRead(ctx, ns[0].ID)
	require.NoError(t, err)
	assert.False(t, flipped)

	count, err := f.inbox.UnreadCount(ctx, f.bidderX)
	require.NoError(t, err)
	assert.Equal(t, 0, count)
}

func TestInbox_MarkReadUnknownID(t *testing.T) {
	f := newFixture(t)
	_, err := f.inbox.MarkRead(context.Background(), uuid.New())
	require.ErrorIs(t, err, domain.ErrNotificationNotFound)
}
