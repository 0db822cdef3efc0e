package application

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/agribid/auction-engine/internal/auction/infra/repository/memory"
	userdomain "github.com/agribid/auction-engine/internal/user/domain"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func dec(t *testing.T, s string) decimal.Decimal {
	t.Helper()
	d, err := decimal.NewFromString(s)
	require.NoError(t, err)
	return d
}

type sentNote struct {
	RecipientID uuid.UUID
	Role        domain.RecipientRole
	LotID       uuid.UUID
	Kind        domain.EventKind
	Message     string
}

// notifierSpy records notifications synchronously so tests can assert on
// fan-out without draining goroutines.
type notifierSpy struct {
	mu    sync.Mutex
	notes []sentNote
}

func (s *notifierSpy) Notify(_ context.Context, recipientID uuid.UUID, role domain.RecipientRole, lotID uuid.UUID, kind domain.EventKind, message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = append(s.notes, sentNote{
		RecipientID: recipientID,
		Role:        role,
		LotID:       lotID,
		Kind:        kind,
		Message:     message,
	})
}

func (s *notifierSpy) all() []sentNote {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]sentNote, len(s.notes))
	copy(out, s.notes)
	return out
}

func (s *notifierSpy) byKind(kind domain.EventKind) []sentNote {
	var out []sentNote
	for _, n := range s.all() {
		if n.Kind == kind {
			out = append(out, n)
		}
	}
	return out
}

func (s *notifierSpy) forRecipient(id uuid.UUID) []sentNote {
	var out []sentNote
	for _, n := range s.all() {
		if n.RecipientID == id {
			out = append(out, n)
		}
	}
	return out
}

func (s *notifierSpy) reset() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notes = nil
}

// eventSpy records published lot events.
type eventSpy struct {
	mu     sync.Mutex
	events []LotEvent
}

func (s *eventSpy) Publish(event LotEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *eventSpy) all() []LotEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]LotEvent, len(s.events))
	copy(out, s.events)
	return out
}

// fixture wires the services over the in-memory store with three seeded
// accounts.
type fixture struct {
	store    *memory.Store
	notes    *notifierSpy
	events   *eventSpy
	ledger   *Ledger
	clock    *Clock
	listings *Listings
	forum    *Forum
	inbox    *Inbox

	seller  uuid.UUID
	bidderX uuid.UUID
	bidderY uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()

	f := &fixture{
		store:   store,
		notes:   &notifierSpy{},
		events:  &eventSpy{},
		seller:  uuid.New(),
		bidderX: uuid.New(),
		bidderY: uuid.New(),
	}
	store.AddUser(userdomain.User{ID: f.seller, Username: "rancher_dan"})
	store.AddUser(userdomain.User{ID: f.bidderX, Username: "bidder_x"})
	store.AddUser(userdomain.User{ID: f.bidderY, Username: "bidder_y"})

	locks := NewLockTable()
	f.ledger = NewLedger(store.Lots(), store.Bids(), store.Users(), f.notes, f.events, locks)
	f.clock = NewClock(store.Lots(), store.Bids(), store.Results(), f.notes, f.events, locks)
	f.listings = NewListings(store.Lots(), store.Bids(), store.Users())
	f.forum = NewForum(store.Forum(), store.Lots(), store.Bids(), f.notes)
	f.inbox = NewInbox(store.Notifications())
	return f
}

// addLot inserts a lot directly into the store so tests can start from any
// status or deadline.
func (f *fixture) addLot(t *testing.T, status domain.LotStatus, startingPrice string, auctionEnd time.Time) *domain.Lot {
	t.Helper()
	now := time.Now().UTC()
	lot := &domain.Lot{
		ID:            uuid.New(),
		OwnerID:       f.seller,
		Category:      "Cattle",
		Breed:         "Brahman",
		Gender:        "Male",
		Age:           3,
		Weight:        420,
		Location:      "Bukidnon",
		StartingPrice: dec(t, startingPrice),
		AuctionEnd:    auctionEnd,
		Status:        status,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	require.NoError(t, f.store.Lots().Create(context.Background(), lot))
	return lot
}

func (f *fixture) openLot(t *testing.T, startingPrice string) *domain.Lot {
	t.Helper()
	return f.addLot(t, domain.StatusAvailable, startingPrice, time.Now().UTC().Add(time.Hour))
}

func (f *fixture) expiredLot(t *testing.T, startingPrice string) *domain.Lot {
	t.Helper()
	return f.addLot(t, domain.StatusAvailable, startingPrice, time.Now().UTC().Add(-time.Minute))
}

// advanceClock shifts the closure clock forward so a lot that took bids while
// open can be treated as expired.
func (f *fixture) advanceClock(d time.Duration) {
	f.clock.now = func() time.Time { return time.Now().UTC().Add(d) }
}

func (f *fixture) mustBid(t *testing.T, lotID, bidderID uuid.UUID, amount string) *domain.Bid {
	t.Helper()
	bid, err := f.ledger.SubmitBid(context.Background(), lotID, bidderID, dec(t, amount))
	require.NoError(t, err)
	return bid
}
