package application

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Notification texts are kept byte-for-byte compatible with the legacy
// mobile client so existing users see familiar wording.

func sellerNewBidMessage(amount decimal.Decimal) string {
	return fmt.Sprintf("A new bid of %s has been placed on your livestock!", formatMoney(amount))
}

func outbidMessage(category string) string {
	if category == "" {
		category = "this item"
	}
	return fmt.Sprintf("You have been outbid on the auction for %s. Place a higher bid to win!", category)
}

func bidderNewBidMessage(amount decimal.Decimal) string {
	return fmt.Sprintf("You have successfully placed a bid of %s on this livestock!", formatMoney(amount))
}

func winnerMessage(amount decimal.Decimal) string {
	return fmt.Sprintf("Congratulations! You won the auction with a bid of %s.", formatMoney(amount))
}

func sellerClosedMessage(amount decimal.Decimal) string {
	return fmt.Sprintf("Your auction has ended. Winning bid: %s.", formatMoney(amount))
}

func sellerNoBidsMessage() string {
	return "Your auction has ended without receiving any bids."
}

func winnerConfirmationMessage(category string) string {
	if category == "" {
		category = "the item"
	}
	return fmt.Sprintf("Your bid for %s has been confirmed successfully.", category)
}

func sellerConfirmationMessage(category string) string {
	if category == "" {
		category = "the item"
	}
	return fmt.Sprintf("The sale for %s has been confirmed successfully.", category)
}

func forumQuestionMessage(category string) string {
	return fmt.Sprintf("A bidder has posted a question about your %s.", category)
}

func forumAnswerMessage(category string) string {
	return fmt.Sprintf("The seller has responded to your question about %s.", category)
}

// formatMoney renders an amount the way the legacy client did: peso sign,
// thousands separators, cents only when non-zero.
func formatMoney(amount decimal.Decimal) string {
	fixed := amount.StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")
	neg := strings.HasPrefix(intPart, "-")
	intPart = strings.TrimPrefix(intPart, "-")

	var b strings.Builder
	for i, d := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(d)
	}

	out := b.String()
	if fracPart != "00" {
		out += "." + fracPart
	}
	if neg {
		out = "-" + out
	}
	return "₱" + out
}
