package application

// Service bundles the engine's use cases for the transport layer. The
// Sweeper is deliberately not part of it; its lifecycle belongs to main.
type Service struct {
	Ledger   *Ledger
	Clock    *Clock
	Listings *Listings
	Forum    *Forum
	Inbox    *Inbox
}

func NewService(ledger *Ledger, clock *Clock, listings *Listings, forum *Forum, inbox *Inbox) *Service {
	return &Service{
		Ledger:   ledger,
		Clock:    clock,
		Listings: listings,
		Forum:    forum,
		Inbox:    inbox,
	}
}
