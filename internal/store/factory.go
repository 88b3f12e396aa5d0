package store

import (
	"hktplatform.app/api/core/db/sqlc"
)

type Stores struct {
	queries *sqlc.Queries
}

func NewStores(queries *sqlc.Queries) *Stores {
	return &Stores{queries: queries}
}

func (s *Stores) Users() UserStore {
	return newUserStore(s.queries)
}

func (s *Stores) Sessions() SessionStore {
	return newSessionStore(s.queries)
}

func (s *Stores) Properties() PropertyStore {
	return newPropertyStore(s.queries)
}

func (s *Stores) Bookings() BookingStore {
	return newBookingStore(s.queries)
}

func (s *Stores) Investments() InvestmentStore {
	return newInvestmentStore(s.queries)
}

func (s *Stores) Blog() BlogStore {
	return newBlogStore(s.queries)
}

func (s *Stores) Chains() ChainStore {
	return newChainStore(s.queries)
}

func (s *Stores) Wallets() WalletStore {
	return newWalletStore(s.queries)
}

func (s *Stores) Challenges() ChallengeStore {
	return newChallengeStore(s.queries)
}

func (s *Stores) Prices() PriceStore {
	return newPriceStore(s.queries)
}
