package httpapi

import (
	"time"

	"github.com/agribid/auction-engine/internal/auction/application"
	"github.com/agribid/auction-engine/internal/auction/domain"
)

type createLotRequest struct {
	OwnerID       string  `json:"owner_id"`
	Category      string  `json:"category"`
	Breed         string  `json:"breed"`
	Gender        string  `json:"gender"`
	Age           int     `json:"age"`
	Weight        float64 `json:"weight"`
	Location      string  `json:"location"`
	StartingPrice string  `json:"starting_price"`
	AuctionEnd    string  `json:"auction_end"` // RFC 3339
}

type submitBidRequest struct {
	BidderID string `json:"bidder_id"`
	Amount   string `json:"amount"`
}

type confirmSaleRequest struct {
	UserID string `json:"user_id"`
}

type deleteLotRequest struct {
	RequesterID string `json:"requester_id"`
}

type forumPostRequest struct {
	AuthorID string  `json:"author_id"`
	ParentID *string `json:"parent_id,omitempty"`
	Message  string  `json:"message"`
}

type bidResponse struct {
	ID       string    `json:"id"`
	LotID    string    `json:"lot_id"`
	BidderID string    `json:"bidder_id"`
	Amount   string    `json:"amount"`
	PlacedAt time.Time `json:"placed_at"`
}

func toBidResponse(b *domain.Bid) bidResponse {
	return bidResponse{
		ID:       b.ID.String(),
		LotID:    b.LotID.String(),
		BidderID: b.BidderID.String(),
		Amount:   b.Amount.String(),
		PlacedAt: b.PlacedAt,
	}
}

type highestBidResponse struct {
	HighestBid  *bidResponse `json:"highest_bid"`
	BidderCount int          `json:"bidder_count"`
}

func toHighestBidResponse(hb *application.HighestBid) highestBidResponse {
	resp := highestBidResponse{BidderCount: hb.BidderCount}
	if hb.Bid != nil {
		b := toBidResponse(hb.Bid)
		resp.HighestBid = &b
	}
	return resp
}

type lotStateResponse struct {
	ID                   string       `json:"id"`
	OwnerID              string       `json:"owner_id"`
	Category             string       `json:"category"`
	Breed                string       `json:"breed,omitempty"`
	Gender               string       `json:"gender,omitempty"`
	Age                  int          `json:"age,omitempty"`
	Weight               float64      `json:"weight,omitempty"`
	Location             string       `json:"location,omitempty"`
	StartingPrice        string       `json:"starting_price"`
	AuctionEnd           time.Time    `json:"auction_end"`
	Status               string       `json:"status"`
	TimeRemainingSeconds int64        `json:"time_remaining_seconds"`
	HighestBid           *bidResponse `json:"highest_bid"`
	BidderCount          int          `json:"bidder_count"`
}

type resultResponse struct {
	LotID         string     `json:"lot_id"`
	WinnerID      string     `json:"winner_id"`
	WinningAmount string     `json:"winning_amount"`
	Status        string     `json:"confirmation_status"`
	ConfirmedAt   *time.Time `json:"confirmed_at,omitempty"`
}

func toResultResponse(r *domain.AuctionResult) resultResponse {
	return resultResponse{
		LotID:         r.LotID.String(),
		WinnerID:      r.WinnerID.String(),
		WinningAmount: r.WinningAmount.String(),
		Status:        string(r.Status),
		ConfirmedAt:   r.ConfirmedAt,
	}
}

type closeResponse struct {
	LotID  string          `json:"lot_id"`
	Status string          `json:"status"`
	Closed bool            `json:"closed"`
	Result *resultResponse `json:"result,omitempty"`
}

type notificationResponse struct {
	ID        string    `json:"id"`
	LotID     string    `json:"lot_id"`
	Role      string    `json:"recipient_role"`
	Kind      string    `json:"notification_type"`
	Message   string    `json:"message"`
	Read      bool      `json:"is_read"`
	CreatedAt time.Time `json:"created_at"`
}

func toNotificationResponse(n *domain.Notification) notificationResponse {
	return notificationResponse{
		ID:        n.ID.String(),
		LotID:     n.LotID.String(),
		Role:      string(n.Role),
		Kind:      string(n.Kind),
		Message:   n.Message,
		Read:      n.Read,
		CreatedAt: n.CreatedAt,
	}
}

type forumPostResponse struct {
	ID        string    `json:"id"`
	LotID     string    `json:"lot_id"`
	AuthorID  string    `json:"author_id"`
	ParentID  *string   `json:"parent_id,omitempty"`
	Message   string    `json:"message"`
	CreatedAt time.Time `json:"created_at"`
}

func toForumPostResponse(p *domain.ForumPost) forumPostResponse {
	resp := forumPostResponse{
		ID:        p.ID.String(),
		LotID:     p.LotID.String(),
		AuthorID:  p.AuthorID.String(),
		Message:   p.Message,
		CreatedAt: p.CreatedAt,
	}
	if p.ParentID != nil {
		s := p.ParentID.String()
		resp.ParentID = &s
	}
	return resp
}
