package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"rentonomic-backend/internal/domain"
	"rentonomic-backend/internal/payment"
	"rentonomic-backend/internal/repository"
)

// mockStore satisfies repository.Store; WithinTx runs the callback against
// the same mocks so transactional expectations read flat.
type mockStore struct {
	listings *mockListingRepo
	rentals  *mockRentalRepo
	threads  *mockThreadRepo
	accounts *mockAccountRepo
}

func newMockStore() *mockStore {
	return &mockStore{
		listings: &mockListingRepo{},
		rentals:  &mockRentalRepo{},
		threads:  &mockThreadRepo{},
		accounts: &mockAccountRepo{},
	}
}

func (s *mockStore) Listings() repository.ListingRepository { return s.listings }
func (s *mockStore) Rentals() repository.RentalRepository   { return s.rentals }
func (s *mockStore) Threads() repository.ThreadRepository   { return s.threads }
func (s *mockStore) Accounts() repository.AccountRepository { return s.accounts }

func (s *mockStore) WithinTx(ctx context.Context, fn func(repository.Store) error) error {
	return fn(s)
}

func (s *mockStore) assertExpectations(t mock.TestingT) {
	s.listings.AssertExpectations(t)
	s.rentals.AssertExpectations(t)
	s.threads.AssertExpectations(t)
	s.accounts.AssertExpectations(t)
}

// MockListingRepo

type mockListingRepo struct {
	mock.Mock
}

func (m *mockListingRepo) Create(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *mockListingRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Listing, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Listing), args.Error(1)
}
func (m *mockListingRepo) List(ctx context.Context) ([]domain.Listing, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *mockListingRepo) ListByOwner(ctx context.Context, ownerEmail string) ([]domain.Listing, error) {
	args := m.Called(ctx, ownerEmail)
	return args.Get(0).([]domain.Listing), args.Error(1)
}
func (m *mockListingRepo) Update(ctx context.Context, listing *domain.Listing) error {
	args := m.Called(ctx, listing)
	return args.Error(0)
}
func (m *mockListingRepo) SoftDelete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// MockRentalRepo

type mockRentalRepo struct {
	mock.Mock
}

func (m *mockRentalRepo) Create(ctx context.Context, rental *domain.Rental) error {
	args := m.Called(ctx, rental)
	return args.Error(0)
}
func (m *mockRentalRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.Rental, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *mockRentalRepo) GetBySessionID(ctx context.Context, sessionID string) (*domain.Rental, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *mockRentalRepo) GetBySessionIDForUpdate(ctx context.Context, sessionID string) (*domain.Rental, error) {
	args := m.Called(ctx, sessionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Rental), args.Error(1)
}
func (m *mockRentalRepo) UpdateStatusIf(ctx context.Context, id uuid.UUID, from, to domain.RentalStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *mockRentalRepo) Decline(ctx context.Context, id uuid.UUID, reason string) (bool, error) {
	args := m.Called(ctx, id, reason)
	return args.Bool(0), args.Error(1)
}
func (m *mockRentalRepo) SetCheckout(ctx context.Context, id uuid.UUID, sessionID string, pricing domain.PricingSnapshot) (bool, error) {
	args := m.Called(ctx, id, sessionID, pricing)
	return args.Bool(0), args.Error(1)
}
func (m *mockRentalRepo) MarkPaid(ctx context.Context, id uuid.UUID, paymentRef string) (bool, error) {
	args := m.Called(ctx, id, paymentRef)
	return args.Bool(0), args.Error(1)
}
func (m *mockRentalRepo) ListByParticipant(ctx context.Context, email, role string) ([]domain.Rental, error) {
	args := m.Called(ctx, email, role)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *mockRentalRepo) ListAll(ctx context.Context) ([]domain.Rental, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Rental), args.Error(1)
}
func (m *mockRentalRepo) ListStalePaymentInitiated(ctx context.Context, olderThan time.Time) ([]domain.Rental, error) {
	args := m.Called(ctx, olderThan)
	return args.Get(0).([]domain.Rental), args.Error(1)
}

// MockThreadRepo

type mockThreadRepo struct {
	mock.Mock
}

func (m *mockThreadRepo) Ensure(ctx context.Context, listingID uuid.UUID, renterEmail, listerEmail string) (*domain.MessageThread, error) {
	args := m.Called(ctx, listingID, renterEmail, listerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageThread), args.Error(1)
}
func (m *mockThreadRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.MessageThread, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MessageThread), args.Error(1)
}
func (m *mockThreadRepo) ListByParticipant(ctx context.Context, email string) ([]domain.MessageThread, error) {
	args := m.Called(ctx, email)
	return args.Get(0).([]domain.MessageThread), args.Error(1)
}
func (m *mockThreadRepo) ListMessages(ctx context.Context, threadID uuid.UUID) ([]domain.Message, error) {
	args := m.Called(ctx, threadID)
	return args.Get(0).([]domain.Message), args.Error(1)
}
func (m *mockThreadRepo) InsertMessage(ctx context.Context, msg *domain.Message) error {
	args := m.Called(ctx, msg)
	return args.Error(0)
}
func (m *mockThreadRepo) DeleteByListing(ctx context.Context, listingID uuid.UUID) error {
	args := m.Called(ctx, listingID)
	return args.Error(0)
}

// MockAccountRepo

type mockAccountRepo struct {
	mock.Mock
}

func (m *mockAccountRepo) GetByEmail(ctx context.Context, listerEmail string) (*domain.ConnectedAccount, error) {
	args := m.Called(ctx, listerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConnectedAccount), args.Error(1)
}
func (m *mockAccountRepo) Upsert(ctx context.Context, account *domain.ConnectedAccount) error {
	args := m.Called(ctx, account)
	return args.Error(0)
}

// MockPaymentClient

type mockPaymentClient struct {
	mock.Mock
}

func (m *mockPaymentClient) CreateConnectedAccount(ctx context.Context, email string) (string, error) {
	args := m.Called(ctx, email)
	return args.String(0), args.Error(1)
}
func (m *mockPaymentClient) GetAccountReadiness(ctx context.Context, accountID string) (payment.Readiness, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(payment.Readiness), args.Error(1)
}
func (m *mockPaymentClient) CreateOnboardingLink(ctx context.Context, accountID, refreshURL, returnURL string) (string, error) {
	args := m.Called(ctx, accountID, refreshURL, returnURL)
	return args.String(0), args.Error(1)
}
func (m *mockPaymentClient) CreateCheckoutSession(ctx context.Context, params payment.CheckoutParams) (payment.CheckoutSession, error) {
	args := m.Called(ctx, params)
	return args.Get(0).(payment.CheckoutSession), args.Error(1)
}
func (m *mockPaymentClient) GetCheckoutSession(ctx context.Context, sessionID string) (payment.SessionState, error) {
	args := m.Called(ctx, sessionID)
	return args.Get(0).(payment.SessionState), args.Error(1)
}
func (m *mockPaymentClient) VerifyWebhook(payload []byte, signatureHeader string) (payment.Event, error) {
	args := m.Called(payload, signatureHeader)
	return args.Get(0).(payment.Event), args.Error(1)
}

// MockAccountService

type mockAccountService struct {
	mock.Mock
}

func (m *mockAccountService) Ready(ctx context.Context, listerEmail string) (*domain.ConnectedAccount, error) {
	args := m.Called(ctx, listerEmail)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ConnectedAccount), args.Error(1)
}
func (m *mockAccountService) OnboardingLink(ctx context.Context, listerEmail string) (string, error) {
	args := m.Called(ctx, listerEmail)
	return args.String(0), args.Error(1)
}

// MockEmailService

type mockEmailService struct {
	mock.Mock
}

func (m *mockEmailService) SendRentalRequestNotification(ctx context.Context, listerEmail, renterEmail, listingName, startDate, endDate string) error {
	args := m.Called(ctx, listerEmail, renterEmail, listingName, startDate, endDate)
	return args.Error(0)
}
func (m *mockEmailService) SendRentalAcceptedNotification(ctx context.Context, renterEmail, listingName, startDate, endDate string) error {
	args := m.Called(ctx, renterEmail, listingName, startDate, endDate)
	return args.Error(0)
}
func (m *mockEmailService) SendRentalDeclinedNotification(ctx context.Context, toEmail, listingName, reason string) error {
	args := m.Called(ctx, toEmail, listingName, reason)
	return args.Error(0)
}
func (m *mockEmailService) SendPaymentConfirmedNotification(ctx context.Context, toEmail, listingName string, renterTotalPence int64) error {
	args := m.Called(ctx, toEmail, listingName, renterTotalPence)
	return args.Error(0)
}
func (m *mockEmailService) SendListingRemovedNotification(ctx context.Context, ownerEmail, listingName string) error {
	args := m.Called(ctx, ownerEmail, listingName)
	return args.Error(0)
}
