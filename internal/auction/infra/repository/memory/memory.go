// Package memory provides a concurrency-safe in-memory implementation of the
// engine's repositories. It backs local runs (STORE=memory) and the service
// tests; the Postgres repositories are the production store.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/agribid/auction-engine/internal/auction/domain"
	userdomain "github.com/agribid/auction-engine/internal/user/domain"
	"github.com/google/uuid"
)

// Store holds all tables behind one RWMutex. Accessors return per-table
// repository views satisfying the domain interfaces.
type Store struct {
	mu            sync.RWMutex
	lots          map[uuid.UUID]*domain.Lot
	bids          map[uuid.UUID][]*domain.Bid // key: lot id
	notifications []*domain.Notification
	results       map[uuid.UUID]*domain.AuctionResult // key: lot id
	posts         map[uuid.UUID][]*domain.ForumPost   // key: lot id
	users         map[uuid.UUID]*userdomain.User
}

func NewStore() *Store {
	return &Store{
		lots:    make(map[uuid.UUID]*domain.Lot),
		bids:    make(map[uuid.UUID][]*domain.Bid),
		results: make(map[uuid.UUID]*domain.AuctionResult),
		posts:   make(map[uuid.UUID][]*domain.ForumPost),
		users:   make(map[uuid.UUID]*userdomain.User),
	}
}

func (s *Store) Lots() *LotRepo                   { return &LotRepo{s} }
func (s *Store) Bids() *BidRepo                   { return &BidRepo{s} }
func (s *Store) Notifications() *NotificationRepo { return &NotificationRepo{s} }
func (s *Store) Results() *ResultRepo             { return &ResultRepo{s} }
func (s *Store) Forum() *ForumRepo                { return &ForumRepo{s} }
func (s *Store) Users() *UserRepo                 { return &UserRepo{s} }

// AddUser seeds an account. Accounts normally come from the hosted auth
// backend, so there is no full user CRUD here.
func (s *Store) AddUser(u userdomain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = &u
}

// LotRepo implements domain.LotRepository.
type LotRepo struct{ s *Store }

func (r *LotRepo) Create(_ context.Context, lot *domain.Lot) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *lot
	r.s.lots[lot.ID] = &cp
	return nil
}

func (r *LotRepo) GetByID(_ context.Context, id uuid.UUID) (*domain.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	lot, ok := r.s.lots[id]
	if !ok {
		return nil, domain.ErrLotNotFound
	}
	cp := *lot
	return &cp, nil
}

func (r *LotRepo) UpdateStatus(_ context.Context, id uuid.UUID, from, to domain.LotStatus) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	lot, ok := r.s.lots[id]
	if !ok || lot.Status != from {
		return false, nil
	}
	lot.Status = to
	lot.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *LotRepo) ListExpired(_ context.Context, now time.Time) ([]*domain.Lot, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var expired []*domain.Lot
	for _, lot := range r.s.lots {
		if lot.Status == domain.StatusAvailable && !now.Before(lot.AuctionEnd) {
			cp := *lot
			expired = append(expired, &cp)
		}
	}
	sort.Slice(expired, func(i, j int) bool { return expired[i].AuctionEnd.Before(expired[j].AuctionEnd) })
	return expired, nil
}

func (r *LotRepo) Delete(_ context.Context, id uuid.UUID) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.lots[id]; !ok {
		return domain.ErrLotNotFound
	}
	delete(r.s.lots, id)
	return nil
}

// BidRepo implements domain.BidRepository.
type BidRepo struct{ s *Store }

func (r *BidRepo) Insert(_ context.Context, bid *domain.Bid) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *bid
	r.s.bids[bid.LotID] = append(r.s.bids[bid.LotID], &cp)
	return nil
}

func (r *BidRepo) HighestForLot(_ context.Context, lotID uuid.UUID) (*domain.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bids := r.s.bids[lotID]
	if len(bids) == 0 {
		return nil, nil
	}
	highest := bids[0]
	for _, b := range bids[1:] {
		if b.Amount.GreaterThan(highest.Amount) {
			highest = b
		}
	}
	cp := *highest
	return &cp, nil
}

func (r *BidRepo) CountDistinctBidders(_ context.Context, lotID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[uuid.UUID]struct{})
	for _, b := range r.s.bids[lotID] {
		seen[b.BidderID] = struct{}{}
	}
	return len(seen), nil
}

func (r *BidRepo) BidderIDs(_ context.Context, lotID uuid.UUID) ([]uuid.UUID, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	seen := make(map[uuid.UUID]struct{})
	var ids []uuid.UUID
	for _, b := range r.s.bids[lotID] {
		if _, ok := seen[b.BidderID]; ok {
			continue
		}
		seen[b.BidderID] = struct{}{}
		ids = append(ids, b.BidderID)
	}
	return ids, nil
}

// ListForLot returns a lot's bids in insertion order.
func (r *BidRepo) ListForLot(_ context.Context, lotID uuid.UUID) ([]*domain.Bid, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	bids := make([]*domain.Bid, 0, len(r.s.bids[lotID]))
	for _, b := range r.s.bids[lotID] {
		cp := *b
		bids = append(bids, &cp)
	}
	return bids, nil
}

func (r *BidRepo) ExistsForLot(_ context.Context, lotID uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return len(r.s.bids[lotID]) > 0, nil
}

// NotificationRepo implements domain.NotificationRepository.
type NotificationRepo struct{ s *Store }

func (r *NotificationRepo) Insert(_ context.Context, n *domain.Notification) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *n
	r.s.notifications = append(r.s.notifications, &cp)
	return nil
}

func (r *NotificationRepo) ListForRecipient(_ context.Context, recipientID uuid.UUID, limit int) ([]*domain.Notification, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	var ns []*domain.Notification
	// stored in insertion order; walk backwards for newest first
	for i := len(r.s.notifications) - 1; i >= 0 && len(ns) < limit; i-- {
		if r.s.notifications[i].RecipientID == recipientID {
			cp := *r.s.notifications[i]
			ns = append(ns, &cp)
		}
	}
	return ns, nil
}

func (r *NotificationRepo) CountUnread(_ context.Context, recipientID uuid.UUID) (int, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	count := 0
	for _, n := range r.s.notifications {
		if n.RecipientID == recipientID && !n.Read {
			count++
		}
	}
	return count, nil
}

func (r *NotificationRepo) MarkRead(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	for _, n := range r.s.notifications {
		if n.ID == id {
			if n.Read {
				return false, nil
			}
			n.Read = true
			return true, nil
		}
	}
	return false, domain.ErrNotificationNotFound
}

// ResultRepo implements domain.AuctionResultRepository.
type ResultRepo struct{ s *Store }

func (r *ResultRepo) Create(_ context.Context, result *domain.AuctionResult) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *result
	r.s.results[result.LotID] = &cp
	return nil
}

func (r *ResultRepo) GetByLot(_ context.Context, lotID uuid.UUID) (*domain.AuctionResult, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	result, ok := r.s.results[lotID]
	if !ok {
		return nil, domain.ErrResultNotFound
	}
	cp := *result
	return &cp, nil
}

func (r *ResultRepo) Confirm(_ context.Context, lotID uuid.UUID, at time.Time) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	result, ok := r.s.results[lotID]
	if !ok || result.Status != domain.Unconfirmed {
		return false, nil
	}
	result.Status = domain.Confirmed
	result.ConfirmedAt = &at
	return true, nil
}

// ForumRepo implements domain.ForumRepository.
type ForumRepo struct{ s *Store }

func (r *ForumRepo) Insert(_ context.Context, post *domain.ForumPost) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	cp := *post
	r.s.posts[post.LotID] = append(r.s.posts[post.LotID], &cp)
	return nil
}

func (r *ForumRepo) ListForLot(_ context.Context, lotID uuid.UUID) ([]*domain.ForumPost, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	posts := make([]*domain.ForumPost, 0, len(r.s.posts[lotID]))
	for _, p := range r.s.posts[lotID] {
		cp := *p
		posts = append(posts, &cp)
	}
	return posts, nil
}

// UserRepo implements userdomain.UserRepository.
type UserRepo struct{ s *Store }

func (r *UserRepo) GetByID(_ context.Context, id uuid.UUID) (*userdomain.User, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	u, ok := r.s.users[id]
	if !ok {
		return nil, userdomain.ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

func (r *UserRepo) Exists(_ context.Context, id uuid.UUID) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	_, ok := r.s.users[id]
	return ok, nil
}
