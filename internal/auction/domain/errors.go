package domain

import "errors"

var (
	ErrLotNotFound          = errors.New("lot not found")
	ErrLotNotAvailable      = errors.New("lot is not open for bidding")
	ErrSelfBidForbidden     = errors.New("owner cannot bid on their own lot")
	ErrInvalidBid           = errors.New("invalid bid")
	ErrAlreadyConfirmed     = errors.New("sale has already been confirmed")
	ErrUnauthorized         = errors.New("user is not allowed to perform this action")
	ErrInvalidLot           = errors.New("invalid lot listing")
	ErrLotHasBids           = errors.New("lot has bids and cannot be deleted")
	ErrResultNotFound       = errors.New("auction result not found")
	ErrNotificationNotFound = errors.New("notification not found")
	ErrEmptyMessage         = errors.New("message cannot be empty")
)
