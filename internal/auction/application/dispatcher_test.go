package application

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/agribid/auction-engine/internal/auction/infra/repository/memory"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type failingNotificationRepo struct {
	domain.NotificationRepository
}

func (failingNotificationRepo) Insert(context.Context, *domain.Notification) error {
	return errors.New("store unavailable")
}

type pushSpy struct {
	mu   sync.Mutex
	sent []string
	err  error
}

func (p *pushSpy) Push(_ context.Context, _ uuid.UUID, message string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.sent = append(p.sent, message)
	return p.err
}

func (p *pushSpy) messages() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]string, len(p.sent))
	copy(out, p.sent)
	return out
}

func TestDispatcher_PersistsNotification(t *testing.T) {
	store := memory.NewStore()
	d := NewDispatcher(store.Notifications(), nil)
	recipient, lotID := uuid.New(), uuid.New()

	d.Notify(context.Background(), recipient, domain.RoleSeller, lotID, domain.EventNewBid, "A new bid of ₱1,500 has been placed on your livestock!")
	d.Flush()

	ns, err := store.Notifications().ListForRecipient(context.Background(), recipient, 10)
	require.NoError(t, err)
	require.Len(t, ns, 1)
	assert.Equal(t, domain.RoleSeller, ns[0].Role)
	assert.Equal(t, domain.EventNewBid, ns[0].Kind)
	assert.Equal(t, lotID, ns[0].LotID)
	assert.False(t, ns[0].Read)
}

func TestDispatcher_StoreFailureDoesNotPropagate(t *testing.T) {
	store := memory.NewStore()
	push := &pushSpy{}
	d := NewDispatcher(failingNotificationRepo{store.Notifications()}, push)

	d.Notify(context.Background(), uuid.New(), domain.RoleBidder, uuid.New(), domain.EventOutbid, "outbid")
	d.Flush()

	// the insert failed but push delivery still went out
	assert.Equal(t, []string{"outbid"}, push.messages())
}

func TestDispatcher_PushFailureDoesNotPropagate(t *testing.T) {
	store := memory.NewStore()
	push := &pushSpy{err: errors.New("device unreachable")}
	d := NewDispatcher(store.Notifications(), push)
	recipient := uuid.New()

	d.Notify(context.Background(), recipient, domain.RoleBidder, uuid.New(), domain.EventAuctionEnd, "won")
	d.Flush()

	// persisted despite the push failure
	ns, err := store.Notifications().ListForRecipient(context.Background(), recipient, 10)
	require.NoError(t, err)
	assert.Len(t, ns, 1)
}

func TestDispatcher_CancelledCallerContextStillDelivers(t *testing.T) {
	store := memory.NewStore()
	d := NewDispatcher(store.Notifications(), nil)
	recipient := uuid.New()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	d.Notify(ctx, recipient, domain.RoleSeller, uuid.New(), domain.EventConfirmation, "confirmed")
	d.Flush()

	ns, err := store.Notifications().ListForRecipient(context.Background(), recipient, 10)
	require.NoError(t, err)
	assert.Len(t, ns, 1)
}
