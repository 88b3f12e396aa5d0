package service

import (
	"github.com/karlseguin/ccache/v3"

	"hktplatform.app/api/common/llm"
	"hktplatform.app/api/core/config"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/store"
)

// ServicesConfig holds everything the services are built from.
type ServicesConfig struct {
	Stores       *store.Stores
	TxRunner     TxRunner
	Notifier     *Notifier
	Prices       PriceReader
	Balances     BalanceClient
	Assistant    llm.AgentClient // nil disables the assistant
	WorkOS       config.WorkOSConfig
	FrontendURL  string
	SupportEmail string
	MaxTokens    int
}

type Services struct {
	cfg      ServicesConfig
	listings *ccache.Cache[[]model.Property]
}

func NewServices(cfg ServicesConfig) *Services {
	return &Services{
		cfg:      cfg,
		listings: NewListingCache(),
	}
}

func (s *Services) Auth() AuthService {
	return NewAuthService(s.cfg.Stores.Users(), s.cfg.Stores.Sessions(), s.cfg.Notifier, s.cfg.WorkOS)
}

func (s *Services) Users() UserService {
	return NewUserService(s.cfg.Stores.Users(), s.cfg.Stores.Sessions(), s.cfg.Stores.Bookings(), s.cfg.Stores.Investments(), s.cfg.Stores.Wallets())
}

func (s *Services) Properties() PropertyService {
	return NewPropertyService(s.cfg.TxRunner, s.cfg.Stores.Properties(), s.listings)
}

func (s *Services) Bookings() BookingService {
	return NewBookingService(
		s.cfg.TxRunner,
		s.cfg.Stores.Bookings(),
		s.cfg.Stores.Properties(),
		s.cfg.Stores.Users(),
		s.cfg.Notifier,
	)
}

func (s *Services) Investments() InvestmentService {
	return NewInvestmentService(s.cfg.TxRunner, s.cfg.Stores.Investments())
}

func (s *Services) Blog() BlogService {
	return NewBlogService(s.cfg.Stores.Blog())
}

func (s *Services) Chains() ChainService {
	return NewChainService(s.cfg.Stores.Chains())
}

func (s *Services) Wallets() WalletService {
	return NewWalletService(
		s.cfg.TxRunner,
		s.cfg.Stores.Wallets(),
		s.cfg.Stores.Challenges(),
		s.cfg.Stores.Chains(),
		s.cfg.Balances,
		s.cfg.FrontendURL,
	)
}

func (s *Services) Prices() PriceService {
	return NewPriceService(s.cfg.Prices)
}

func (s *Services) Assistant() AssistantService {
	return NewAssistantService(s.cfg.Assistant, s.Properties(), s.Prices(), s.cfg.MaxTokens)
}

func (s *Services) Contact() ContactService {
	return NewContactService(s.cfg.Notifier, s.cfg.SupportEmail)
}

func (s *Services) Admin() AdminService {
	return NewAdminService(
		s.cfg.Stores.Users(),
		s.cfg.Stores.Properties(),
		s.cfg.Stores.Bookings(),
		s.cfg.Stores.Investments(),
		s.cfg.Stores.Blog(),
	)
}
