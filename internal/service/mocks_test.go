package service_test

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"hktplatform.app/api/common/llm"
	"hktplatform.app/api/internal/domain"
	"hktplatform.app/api/internal/ethrpc"
	"hktplatform.app/api/internal/model"
	"hktplatform.app/api/internal/service"
	"hktplatform.app/api/internal/store"
)

type mockUserStore struct {
	getByIDFn        func(ctx context.Context, id int64) (*model.User, error)
	getByEmailFn     func(ctx context.Context, email string) (*model.User, error)
	createFn         func(ctx context.Context, user *model.User) error
	upsertByWorkOSFn func(ctx context.Context, user *model.User) error
	updateProfileFn  func(ctx context.Context, id int64, name string, avatarURL *string) (*model.User, error)
	updatePasswordFn func(ctx context.Context, id int64, hash string) error
	updateAccessFn   func(ctx context.Context, id int64, role model.Role, isActive bool) (*model.User, error)
	touchCalls       int
}

func (m *mockUserStore) GetByID(ctx context.Context, id int64) (*model.User, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	if m.getByEmailFn != nil {
		return m.getByEmailFn(ctx, email)
	}
	return nil, store.ErrNotFound
}

func (m *mockUserStore) Create(ctx context.Context, user *model.User) error {
	if m.createFn != nil {
		return m.createFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) UpsertByWorkOS(ctx context.Context, user *model.User) error {
	if m.upsertByWorkOSFn != nil {
		return m.upsertByWorkOSFn(ctx, user)
	}
	return nil
}

func (m *mockUserStore) UpdateProfile(ctx context.Context, id int64, name string, avatarURL *string) (*model.User, error) {
	if m.updateProfileFn != nil {
		return m.updateProfileFn(ctx, id, name, avatarURL)
	}
	return &model.User{ID: id, Name: name, AvatarURL: avatarURL}, nil
}

func (m *mockUserStore) UpdatePassword(ctx context.Context, id int64, hash string) error {
	if m.updatePasswordFn != nil {
		return m.updatePasswordFn(ctx, id, hash)
	}
	return nil
}

func (m *mockUserStore) TouchLastLogin(context.Context, int64) error {
	m.touchCalls++
	return nil
}

func (m *mockUserStore) UpdateAccess(ctx context.Context, id int64, role model.Role, isActive bool) (*model.User, error) {
	if m.updateAccessFn != nil {
		return m.updateAccessFn(ctx, id, role, isActive)
	}
	return &model.User{ID: id, Role: role, IsActive: isActive}, nil
}

func (m *mockUserStore) List(context.Context, int32, int32) ([]model.User, error) {
	return nil, nil
}

func (m *mockUserStore) Count(context.Context) (int64, error) {
	return 0, nil
}

type mockSessionStore struct {
	getValidFn      func(ctx context.Context, id int64) (*model.Session, error)
	deleteExpiredFn func(ctx context.Context) (int64, error)
	created         []*model.Session
	deleted         []int64
	revokedUsers    []int64
}

func (m *mockSessionStore) GetValid(ctx context.Context, id int64) (*model.Session, error) {
	if m.getValidFn != nil {
		return m.getValidFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockSessionStore) Create(_ context.Context, session *model.Session) error {
	m.created = append(m.created, session)
	return nil
}

func (m *mockSessionStore) Delete(_ context.Context, id int64) error {
	m.deleted = append(m.deleted, id)
	return nil
}

func (m *mockSessionStore) DeleteByUser(_ context.Context, userID int64) error {
	m.revokedUsers = append(m.revokedUsers, userID)
	return nil
}

func (m *mockSessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

type mockPropertyStore struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.Property, error)
	getForUpdateFn func(ctx context.Context, id int64) (*model.Property, error)
	getBySlugFn    func(ctx context.Context, slug string) (*model.Property, error)
	slugExistsFn   func(ctx context.Context, slug string) (bool, error)
	listFn         func(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error)
	createFn       func(ctx context.Context, p *model.Property) error
	updateFn       func(ctx context.Context, p *model.Property) error
	deactivateFn   func(ctx context.Context, id int64) error
	adjustTokensFn func(ctx context.Context, id int64, delta int64) (*model.Property, error)
	listCalls      int
}

func (m *mockPropertyStore) GetByID(ctx context.Context, id int64) (*model.Property, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockPropertyStore) GetForUpdate(ctx context.Context, id int64) (*model.Property, error) {
	if m.getForUpdateFn != nil {
		return m.getForUpdateFn(ctx, id)
	}
	return m.GetByID(ctx, id)
}

func (m *mockPropertyStore) GetBySlug(ctx context.Context, slug string) (*model.Property, error) {
	if m.getBySlugFn != nil {
		return m.getBySlugFn(ctx, slug)
	}
	return nil, store.ErrNotFound
}

func (m *mockPropertyStore) SlugExists(ctx context.Context, slug string) (bool, error) {
	if m.slugExistsFn != nil {
		return m.slugExistsFn(ctx, slug)
	}
	return false, nil
}

func (m *mockPropertyStore) List(ctx context.Context, filter model.PropertyFilter) ([]model.Property, error) {
	m.listCalls++
	if m.listFn != nil {
		return m.listFn(ctx, filter)
	}
	return nil, nil
}

func (m *mockPropertyStore) Create(ctx context.Context, p *model.Property) error {
	if m.createFn != nil {
		return m.createFn(ctx, p)
	}
	return nil
}

func (m *mockPropertyStore) Update(ctx context.Context, p *model.Property) error {
	if m.updateFn != nil {
		return m.updateFn(ctx, p)
	}
	return nil
}

func (m *mockPropertyStore) Deactivate(ctx context.Context, id int64) error {
	if m.deactivateFn != nil {
		return m.deactivateFn(ctx, id)
	}
	return nil
}

func (m *mockPropertyStore) AdjustTokens(ctx context.Context, id int64, delta int64) (*model.Property, error) {
	if m.adjustTokensFn != nil {
		return m.adjustTokensFn(ctx, id, delta)
	}
	return &model.Property{ID: id}, nil
}

func (m *mockPropertyStore) CountActive(context.Context) (int64, error) {
	return 0, nil
}

type mockBookingStore struct {
	getByIDFn          func(ctx context.Context, id int64) (*model.Booking, error)
	createFn           func(ctx context.Context, b *model.Booking) error
	countOverlappingFn func(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (int64, error)
	markPaidFn         func(ctx context.Context, id int64, reference string) (*model.Booking, error)
	cancelFn           func(ctx context.Context, id int64, status model.PaymentStatus, refund decimal.Decimal) (*model.Booking, error)
}

func (m *mockBookingStore) GetByID(ctx context.Context, id int64) (*model.Booking, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockBookingStore) GetForUpdate(ctx context.Context, id int64) (*model.Booking, error) {
	return m.GetByID(ctx, id)
}

func (m *mockBookingStore) Create(ctx context.Context, b *model.Booking) error {
	if m.createFn != nil {
		return m.createFn(ctx, b)
	}
	return nil
}

func (m *mockBookingStore) ListByUser(context.Context, int64) ([]model.Booking, error) {
	return nil, nil
}

func (m *mockBookingStore) List(context.Context, model.BookingFilter) ([]model.Booking, error) {
	return nil, nil
}

func (m *mockBookingStore) CountOverlapping(ctx context.Context, propertyID int64, checkIn, checkOut time.Time) (int64, error) {
	if m.countOverlappingFn != nil {
		return m.countOverlappingFn(ctx, propertyID, checkIn, checkOut)
	}
	return 0, nil
}

func (m *mockBookingStore) MarkPaid(ctx context.Context, id int64, reference string) (*model.Booking, error) {
	if m.markPaidFn != nil {
		return m.markPaidFn(ctx, id, reference)
	}
	return nil, store.ErrNotFound
}

func (m *mockBookingStore) Cancel(ctx context.Context, id int64, status model.PaymentStatus, refund decimal.Decimal) (*model.Booking, error) {
	if m.cancelFn != nil {
		return m.cancelFn(ctx, id, status, refund)
	}
	return nil, store.ErrNotFound
}

func (m *mockBookingStore) CountByStatus(context.Context) (map[model.BookingStatus]int64, error) {
	return map[model.BookingStatus]int64{}, nil
}

func (m *mockBookingStore) PaidRevenue(context.Context) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

func (m *mockBookingStore) UserSpend(context.Context, int64) (decimal.Decimal, error) {
	return decimal.Zero, nil
}

type mockInvestmentStore struct {
	getByIDFn      func(ctx context.Context, id int64) (*model.Investment, error)
	createFn       func(ctx context.Context, inv *model.Investment) error
	updateStatusFn func(ctx context.Context, id int64, status model.InvestmentStatus) (*model.Investment, error)
	totalsFn       func(ctx context.Context, userID *int64) (model.InvestmentTotals, error)
}

func (m *mockInvestmentStore) GetByID(ctx context.Context, id int64) (*model.Investment, error) {
	if m.getByIDFn != nil {
		return m.getByIDFn(ctx, id)
	}
	return nil, store.ErrNotFound
}

func (m *mockInvestmentStore) GetForUpdate(ctx context.Context, id int64) (*model.Investment, error) {
	return m.GetByID(ctx, id)
}

func (m *mockInvestmentStore) Create(ctx context.Context, inv *model.Investment) error {
	if m.createFn != nil {
		return m.createFn(ctx, inv)
	}
	return nil
}

func (m *mockInvestmentStore) ListByUser(context.Context, int64) ([]model.Investment, error) {
	return nil, nil
}

func (m *mockInvestmentStore) UpdateStatus(ctx context.Context, id int64, status model.InvestmentStatus) (*model.Investment, error) {
	if m.updateStatusFn != nil {
		return m.updateStatusFn(ctx, id, status)
	}
	return &model.Investment{ID: id, Status: status}, nil
}

func (m *mockInvestmentStore) Totals(ctx context.Context, userID *int64) (model.InvestmentTotals, error) {
	if m.totalsFn != nil {
		return m.totalsFn(ctx, userID)
	}
	return model.InvestmentTotals{Amount: decimal.Zero}, nil
}

type mockBlogStore struct {
	posts map[int64]*model.BlogPost
	slugs map[string]bool
}

func newMockBlogStore() *mockBlogStore {
	return &mockBlogStore{posts: map[int64]*model.BlogPost{}, slugs: map[string]bool{}}
}

func (m *mockBlogStore) GetByID(_ context.Context, id int64) (*model.BlogPost, error) {
	if p, ok := m.posts[id]; ok {
		return p, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockBlogStore) GetBySlug(_ context.Context, slug string) (*model.BlogPost, error) {
	for _, p := range m.posts {
		if p.Slug == slug {
			return p, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *mockBlogStore) SlugExists(_ context.Context, slug string) (bool, error) {
	return m.slugs[slug], nil
}

func (m *mockBlogStore) List(context.Context, model.BlogFilter) ([]model.BlogPost, error) {
	return nil, nil
}

func (m *mockBlogStore) Create(_ context.Context, post *model.BlogPost) error {
	m.posts[post.ID] = post
	m.slugs[post.Slug] = true
	return nil
}

func (m *mockBlogStore) Update(_ context.Context, post *model.BlogPost) error {
	m.posts[post.ID] = post
	m.slugs[post.Slug] = true
	return nil
}

func (m *mockBlogStore) Deactivate(_ context.Context, id int64) error {
	p, ok := m.posts[id]
	if !ok {
		return store.ErrNotFound
	}
	p.IsActive = false
	return nil
}

func (m *mockBlogStore) CountPublished(context.Context) (int64, error) {
	return 0, nil
}

type mockChainStore struct {
	chains map[int64]*model.SupportedChain
}

func (m *mockChainStore) Get(_ context.Context, chainID int64) (*model.SupportedChain, error) {
	if c, ok := m.chains[chainID]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockChainStore) List(context.Context, bool) ([]model.SupportedChain, error) {
	return nil, nil
}

func (m *mockChainStore) Upsert(_ context.Context, chain *model.SupportedChain) error {
	if m.chains == nil {
		m.chains = map[int64]*model.SupportedChain{}
	}
	m.chains[chain.ChainID] = chain
	return nil
}

type mockWalletStore struct {
	wallets      map[int64]*model.Wallet
	upserted     []*model.Wallet
	promoteCalls int
	clearCalls   int
}

func newMockWalletStore() *mockWalletStore {
	return &mockWalletStore{wallets: map[int64]*model.Wallet{}}
}

func (m *mockWalletStore) GetByID(_ context.Context, id int64) (*model.Wallet, error) {
	if w, ok := m.wallets[id]; ok {
		return w, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockWalletStore) ListByUser(_ context.Context, userID int64) ([]model.Wallet, error) {
	var out []model.Wallet
	for _, w := range m.wallets {
		if w.UserID == userID && w.IsActive {
			out = append(out, *w)
		}
	}
	return out, nil
}

func (m *mockWalletStore) UpsertVerified(_ context.Context, w *model.Wallet) error {
	w.IsActive = true
	m.wallets[w.ID] = w
	m.upserted = append(m.upserted, w)
	return nil
}

func (m *mockWalletStore) CountActive(ctx context.Context, userID int64) (int64, error) {
	ws, _ := m.ListByUser(ctx, userID)
	return int64(len(ws)), nil
}

func (m *mockWalletStore) ClearPrimary(_ context.Context, userID int64) error {
	m.clearCalls++
	for _, w := range m.wallets {
		if w.UserID == userID {
			w.IsPrimary = false
		}
	}
	return nil
}

func (m *mockWalletStore) SetPrimary(_ context.Context, id, userID int64) (*model.Wallet, error) {
	w, ok := m.wallets[id]
	if !ok || w.UserID != userID {
		return nil, store.ErrNotFound
	}
	w.IsPrimary = true
	return w, nil
}

func (m *mockWalletStore) Deactivate(_ context.Context, id, userID int64) error {
	w, ok := m.wallets[id]
	if !ok || w.UserID != userID {
		return store.ErrNotFound
	}
	w.IsActive = false
	w.IsPrimary = false
	return nil
}

func (m *mockWalletStore) PromoteOldest(context.Context, int64) error {
	m.promoteCalls++
	return nil
}

type mockChallengeStore struct {
	challenges      map[int64]*model.VerificationChallenge
	deleteExpiredFn func(ctx context.Context) (int64, error)
}

func newMockChallengeStore() *mockChallengeStore {
	return &mockChallengeStore{challenges: map[int64]*model.VerificationChallenge{}}
}

func (m *mockChallengeStore) GetByID(_ context.Context, id int64) (*model.VerificationChallenge, error) {
	if c, ok := m.challenges[id]; ok {
		return c, nil
	}
	return nil, store.ErrNotFound
}

func (m *mockChallengeStore) Create(_ context.Context, c *model.VerificationChallenge) error {
	m.challenges[c.ID] = c
	return nil
}

func (m *mockChallengeStore) MarkUsed(_ context.Context, id int64) (bool, error) {
	c, ok := m.challenges[id]
	if !ok || c.UsedAt != nil {
		return false, nil
	}
	now := time.Now()
	c.UsedAt = &now
	return true, nil
}

func (m *mockChallengeStore) DeleteExpired(ctx context.Context) (int64, error) {
	if m.deleteExpiredFn != nil {
		return m.deleteExpiredFn(ctx)
	}
	return 0, nil
}

type mockPriceStore struct {
	deleteBeforeFn func(ctx context.Context, before time.Time) (int64, error)
}

func (m *mockPriceStore) Insert(context.Context, *model.PriceSnapshot) error {
	return nil
}

func (m *mockPriceStore) Latest(context.Context, string) (*model.PriceSnapshot, error) {
	return nil, store.ErrNotFound
}

func (m *mockPriceStore) History(context.Context, string, time.Time, int32) ([]model.PriceSnapshot, error) {
	return nil, nil
}

func (m *mockPriceStore) DeleteBefore(ctx context.Context, before time.Time) (int64, error) {
	if m.deleteBeforeFn != nil {
		return m.deleteBeforeFn(ctx, before)
	}
	return 0, nil
}

type mockStoreProvider struct {
	users       store.UserStore
	properties  store.PropertyStore
	bookings    store.BookingStore
	investments store.InvestmentStore
	wallets     store.WalletStore
	challenges  store.ChallengeStore
}

func (m *mockStoreProvider) Users() store.UserStore             { return m.users }
func (m *mockStoreProvider) Properties() store.PropertyStore    { return m.properties }
func (m *mockStoreProvider) Bookings() store.BookingStore       { return m.bookings }
func (m *mockStoreProvider) Investments() store.InvestmentStore { return m.investments }
func (m *mockStoreProvider) Wallets() store.WalletStore         { return m.wallets }
func (m *mockStoreProvider) Challenges() store.ChallengeStore   { return m.challenges }

type mockTxRunner struct {
	stores   *mockStoreProvider
	withTxFn func(ctx context.Context, fn func(stores service.StoreProvider) error) error
	calls    int
}

func (m *mockTxRunner) WithTx(ctx context.Context, fn func(stores service.StoreProvider) error) error {
	m.calls++
	if m.withTxFn != nil {
		return m.withTxFn(ctx, fn)
	}
	if m.stores == nil {
		return fn(&mockStoreProvider{})
	}
	return fn(m.stores)
}

type mockProducer struct {
	jobs       []domain.EmailJob
	enqueueErr error
}

func (m *mockProducer) Enqueue(_ context.Context, job domain.EmailJob) error {
	if m.enqueueErr != nil {
		return m.enqueueErr
	}
	m.jobs = append(m.jobs, job)
	return nil
}

func (m *mockProducer) Close() error {
	return nil
}

func (m *mockProducer) kinds() []domain.EmailKind {
	out := make([]domain.EmailKind, 0, len(m.jobs))
	for _, j := range m.jobs {
		out = append(out, j.Kind)
	}
	return out
}

type mockBalanceClient struct {
	balance ethrpc.Balance
	err     error
	calls   []string
}

func (m *mockBalanceClient) GetBalance(_ context.Context, rpcURL, address string) (ethrpc.Balance, error) {
	m.calls = append(m.calls, rpcURL+" "+address)
	return m.balance, m.err
}

type mockPriceReader struct {
	prices map[string]model.Price
}

func (m *mockPriceReader) Get(_ context.Context, symbol string) (*model.Price, error) {
	p, ok := m.prices[symbol]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &p, nil
}

func (m *mockPriceReader) List(context.Context) ([]model.Price, error) {
	out := make([]model.Price, 0, len(m.prices))
	for _, p := range m.prices {
		out = append(out, p)
	}
	return out, nil
}

func (m *mockPriceReader) History(context.Context, string, time.Time, int32) ([]model.PriceSnapshot, error) {
	return nil, nil
}

type mockAgentClient struct {
	responses []*llm.AgentResponse
	requests  []llm.AgentRequest
	err       error
}

func (m *mockAgentClient) ChatWithTools(_ context.Context, req llm.AgentRequest) (*llm.AgentResponse, error) {
	m.requests = append(m.requests, req)
	if m.err != nil {
		return nil, m.err
	}
	if len(m.responses) == 0 {
		return &llm.AgentResponse{Content: "done", FinishReason: llm.FinishStop}, nil
	}
	resp := m.responses[0]
	m.responses = m.responses[1:]
	return resp, nil
}

func (m *mockAgentClient) Model() string {
	return "test-model"
}
