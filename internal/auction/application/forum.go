package application

import (
	"context"
	"fmt"
	"strings"

	"github.com/agribid/auction-engine/internal/auction/domain"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Forum handles the per-lot Q&A thread and its notification fan-out: a
// bidder's question notifies the seller, a seller's answer notifies every
// distinct bidder on the lot.
type Forum struct {
	posts    domain.ForumRepository
	lots     domain.LotRepository
	bids     domain.BidRepository
	notifier domain.Notifier
	now      NowFunc
}

func NewForum(posts domain.ForumRepository, lots domain.LotRepository, bids domain.BidRepository, notifier domain.Notifier) *Forum {
	return &Forum{posts: posts, lots: lots, bids: bids, notifier: notifier, now: defaultNow}
}

// PostMessage appends a question or reply to the lot's thread and fans out
// the matching forum notification. Notifications are best-effort as
// everywhere else.
func (f *Forum) PostMessage(ctx context.Context, lotID, authorID uuid.UUID, parentID *uuid.UUID, message string) (*domain.ForumPost, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, fmt.Errorf("post forum message: %w", domain.ErrEmptyMessage)
	}

	lot, err := f.lots.GetByID(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("post forum message: get lot %s: %w", lotID, err)
	}

	post := &domain.ForumPost{
		ID:        uuid.New(),
		LotID:     lotID,
		AuthorID:  authorID,
		ParentID:  parentID,
		Message:   message,
		CreatedAt: f.now(),
	}
	if err := f.posts.Insert(ctx, post); err != nil {
		return nil, fmt.Errorf("post forum message: insert for lot %s: %w", lotID, err)
	}

	if authorID == lot.OwnerID {
		f.notifyBidders(ctx, lot)
	} else {
		f.notifier.Notify(ctx, lot.OwnerID, domain.RoleSeller, lotID, domain.EventForumQuestion, forumQuestionMessage(lot.Category))
	}

	log.Info("forum message posted",
		zap.String("lotID", lotID.String()),
		zap.String("authorID", authorID.String()),
		zap.Bool("fromSeller", authorID == lot.OwnerID),
	)
	return post, nil
}

func (f *Forum) notifyBidders(ctx context.Context, lot *domain.Lot) {
	bidderIDs, err := f.bids.BidderIDs(ctx, lot.ID)
	if err != nil {
		log.Error("failed to list bidders for forum answer",
			zap.String("lotID", lot.ID.String()),
			zap.Error(err),
		)
		return
	}
	for _, bidderID := range bidderIDs {
		f.notifier.Notify(ctx, bidderID, domain.RoleBidder, lot.ID, domain.EventForumAnswer, forumAnswerMessage(lot.Category))
	}
}

// Thread returns all posts on a lot's forum in chronological order.
func (f *Forum) Thread(ctx context.Context, lotID uuid.UUID) ([]*domain.ForumPost, error) {
	if _, err := f.lots.GetByID(ctx, lotID); err != nil {
		return nil, fmt.Errorf("forum thread: get lot %s: %w", lotID, err)
	}
	posts, err := f.posts.ListForLot(ctx, lotID)
	if err != nil {
		return nil, fmt.Errorf("forum thread: lot %s: %w", lotID, err)
	}
	return posts, nil
}
