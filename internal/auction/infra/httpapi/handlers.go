package httpapi

import (
	"errors"
	"time"

	"github.com/agribid/auction-engine/internal/auction/application"
	"github.com/agribid/auction-engine/internal/auction/domain"
	userdomain "github.com/agribid/auction-engine/internal/user/domain"
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Handler exposes the engine to HTTP callers. Handlers are thin: parse,
// delegate, map errors. All business rules live in the application layer.
type Handler struct {
	svc *application.Service
}

func NewHandler(svc *application.Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) Register(app *fiber.App) {
	api := app.Group("/api/v1")

	api.Post("/lots", h.createLot)
	api.Get("/lots/:id", h.getLot)
	api.Post("/lots/:id/approve", h.approveLot)
	api.Post("/lots/:id/disapprove", h.disapproveLot)
	api.Delete("/lots/:id", h.deleteLot)

	api.Post("/lots/:id/bids", h.submitBid)
	api.Get("/lots/:id/bids/highest", h.highestBid)
	api.Post("/lots/:id/close", h.closeLot)
	api.Post("/lots/:id/confirm", h.confirmSale)

	api.Post("/lots/:id/forum", h.postForumMessage)
	api.Get("/lots/:id/forum", h.forumThread)

	api.Get("/users/:id/notifications", h.listNotifications)
	api.Get("/users/:id/notifications/unread-count", h.unreadCount)
	api.Post("/notifications/:id/read", h.markRead)
}

func (h *Handler) createLot(c *fiber.Ctx) error {
	var req createLotRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	ownerID, err := uuid.Parse(req.OwnerID)
	if err != nil {
		return badRequest(c, "invalid owner_id")
	}
	price, err := decimal.NewFromString(req.StartingPrice)
	if err != nil {
		return badRequest(c, "starting_price must be a number")
	}
	auctionEnd, err := time.Parse(time.RFC3339, req.AuctionEnd)
	if err != nil {
		return badRequest(c, "auction_end must be RFC 3339")
	}

	lot, err := h.svc.Listings.Create(c.Context(), application.CreateLotParams{
		OwnerID:       ownerID,
		Category:      req.Category,
		Breed:         req.Breed,
		Gender:        req.Gender,
		Age:           req.Age,
		Weight:        req.Weight,
		Location:      req.Location,
		StartingPrice: price,
		AuctionEnd:    auctionEnd,
	})
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(h.lotState(c, lot))
}

func (h *Handler) getLot(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	lot, err := h.svc.Listings.Get(c.Context(), lotID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(h.lotState(c, lot))
}

// lotState assembles the read model the detail screen needs: the lot, its
// time remaining, and the current bidding state.
func (h *Handler) lotState(c *fiber.Ctx, lot *domain.Lot) lotStateResponse {
	resp := lotStateResponse{
		ID:                   lot.ID.String(),
		OwnerID:              lot.OwnerID.String(),
		Category:             lot.Category,
		Breed:                lot.Breed,
		Gender:               lot.Gender,
		Age:                  lot.Age,
		Weight:               lot.Weight,
		Location:             lot.Location,
		StartingPrice:        lot.StartingPrice.String(),
		AuctionEnd:           lot.AuctionEnd,
		Status:               string(lot.Status),
		TimeRemainingSeconds: int64(lot.TimeRemaining(time.Now().UTC()).Seconds()),
	}
	if hb, err := h.svc.Ledger.GetHighestBid(c.Context(), lot.ID); err == nil {
		if hb.Bid != nil {
			b := toBidResponse(hb.Bid)
			resp.HighestBid = &b
		}
		resp.BidderCount = hb.BidderCount
	}
	return resp
}

func (h *Handler) approveLot(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	if err := h.svc.Listings.Approve(c.Context(), lotID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": string(domain.StatusAvailable)})
}

func (h *Handler) disapproveLot(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	if err := h.svc.Listings.Disapprove(c.Context(), lotID); err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"status": string(domain.StatusDisapproved)})
}

func (h *Handler) deleteLot(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	var req deleteLotRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	requesterID, err := uuid.Parse(req.RequesterID)
	if err != nil {
		return badRequest(c, "invalid requester_id")
	}
	if err := h.svc.Listings.Delete(c.Context(), lotID, requesterID); err != nil {
		return fail(c, err)
	}
	return c.SendStatus(fiber.StatusNoContent)
}

func (h *Handler) submitBid(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	var req submitBidRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	bidderID, err := uuid.Parse(req.BidderID)
	if err != nil {
		return badRequest(c, "invalid bidder_id")
	}
	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		// non-numeric amounts are invalid bids, same as too-low ones
		return fail(c, domain.ErrInvalidBid)
	}

	bid, err := h.svc.Ledger.SubmitBid(c.Context(), lotID, bidderID, amount)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toBidResponse(bid))
}

func (h *Handler) highestBid(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	hb, err := h.svc.Ledger.GetHighestBid(c.Context(), lotID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toHighestBidResponse(hb))
}

// closeLot triggers an immediate closure check. The periodic sweep makes
// this optional; it exists so operators can close a lot without waiting for
// the next tick. Idempotent like the sweep itself.
func (h *Handler) closeLot(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	res, err := h.svc.Clock.CloseIfExpired(c.Context(), lotID)
	if err != nil {
		return fail(c, err)
	}
	resp := closeResponse{
		LotID:  res.LotID.String(),
		Status: string(res.Status),
		Closed: res.Closed,
	}
	if res.Result != nil {
		r := toResultResponse(res.Result)
		resp.Result = &r
	}
	return c.JSON(resp)
}

func (h *Handler) confirmSale(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	var req confirmSaleRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		return badRequest(c, "invalid user_id")
	}
	result, err := h.svc.Clock.ConfirmSale(c.Context(), lotID, userID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(toResultResponse(result))
}

func (h *Handler) postForumMessage(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	var req forumPostRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "invalid request body")
	}
	authorID, err := uuid.Parse(req.AuthorID)
	if err != nil {
		return badRequest(c, "invalid author_id")
	}
	var parentID *uuid.UUID
	if req.ParentID != nil {
		id, err := uuid.Parse(*req.ParentID)
		if err != nil {
			return badRequest(c, "invalid parent_id")
		}
		parentID = &id
	}

	post, err := h.svc.Forum.PostMessage(c.Context(), lotID, authorID, parentID, req.Message)
	if err != nil {
		return fail(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toForumPostResponse(post))
}

func (h *Handler) forumThread(c *fiber.Ctx) error {
	lotID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid lot id")
	}
	posts, err := h.svc.Forum.Thread(c.Context(), lotID)
	if err != nil {
		return fail(c, err)
	}
	resp := make([]forumPostResponse, 0, len(posts))
	for _, p := range posts {
		resp = append(resp, toForumPostResponse(p))
	}
	return c.JSON(resp)
}

func (h *Handler) listNotifications(c *fiber.Ctx) error {
	recipientID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	limit := c.QueryInt("limit")
	ns, err := h.svc.Inbox.List(c.Context(), recipientID, limit)
	if err != nil {
		return fail(c, err)
	}
	resp := make([]notificationResponse, 0, len(ns))
	for _, n := range ns {
		resp = append(resp, toNotificationResponse(n))
	}
	return c.JSON(resp)
}

func (h *Handler) unreadCount(c *fiber.Ctx) error {
	recipientID, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid user id")
	}
	count, err := h.svc.Inbox.UnreadCount(c.Context(), recipientID)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"unread": count})
}

func (h *Handler) markRead(c *fiber.Ctx) error {
	id, err := parseID(c, "id")
	if err != nil {
		return badRequest(c, "invalid notification id")
	}
	flipped, err := h.svc.Inbox.MarkRead(c.Context(), id)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"read": true, "changed": flipped})
}

func parseID(c *fiber.Ctx, param string) (uuid.UUID, error) {
	return uuid.Parse(c.Params(param))
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": msg})
}

// fail maps domain errors to HTTP statuses. Rejected bids keep the current
// highest amount in the error text so the bidder knows what to beat.
func fail(c *fiber.Ctx, err error) error {
	return c.Status(statusFromError(err)).JSON(fiber.Map{"error": err.Error()})
}

func statusFromError(err error) int {
	switch {
	case errors.Is(err, domain.ErrLotNotFound),
		errors.Is(err, domain.ErrResultNotFound),
		errors.Is(err, domain.ErrNotificationNotFound),
		errors.Is(err, userdomain.ErrUserNotFound):
		return fiber.StatusNotFound
	case errors.Is(err, domain.ErrInvalidBid),
		errors.Is(err, domain.ErrInvalidLot),
		errors.Is(err, domain.ErrEmptyMessage):
		return fiber.StatusBadRequest
	case errors.Is(err, domain.ErrSelfBidForbidden),
		errors.Is(err, domain.ErrUnauthorized):
		return fiber.StatusForbidden
	case errors.Is(err, domain.ErrLotNotAvailable),
		errors.Is(err, domain.ErrAlreadyConfirmed),
		errors.Is(err, domain.ErrLotHasBids):
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}
