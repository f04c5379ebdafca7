package service

import (
	"context"
	"time"

	"skinvault/events"
	"skinvault/models"

	"github.com/stretchr/testify/mock"
)

// MockUserRepository is a mock implementation of UserRepository
type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) GetBySteamID(ctx context.Context, steamID int64) (*models.User, error) {
	args := m.Called(ctx, steamID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) Create(ctx context.Context, steamID int64, username string, initialCrystals int64) (*models.User, error) {
	args := m.Called(ctx, steamID, username, initialCrystals)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func (m *MockUserRepository) SetTradeURL(ctx context.Context, id int64, tradeURL string) error {
	args := m.Called(ctx, id, tradeURL)
	return args.Error(0)
}

func (m *MockUserRepository) CreditCrystals(ctx context.Context, id int64, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

func (m *MockUserRepository) DebitCrystals(ctx context.Context, id int64, amount int64) error {
	args := m.Called(ctx, id, amount)
	return args.Error(0)
}

// MockSkinRepository is a mock implementation of SkinRepository
type MockSkinRepository struct {
	mock.Mock
}

func (m *MockSkinRepository) Create(ctx context.Context, skin *models.Skin) error {
	args := m.Called(ctx, skin)
	return args.Error(0)
}

func (m *MockSkinRepository) GetByID(ctx context.Context, id int64) (*models.Skin, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skin), args.Error(1)
}

func (m *MockSkinRepository) GetByMarketHashName(ctx context.Context, name string) (*models.Skin, error) {
	args := m.Called(ctx, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skin), args.Error(1)
}

// MockInventoryRepository is a mock implementation of InventoryRepository
type MockInventoryRepository struct {
	mock.Mock
}

func (m *MockInventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	args := m.Called(ctx, item)
	return args.Error(0)
}

func (m *MockInventoryRepository) GetByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) GetAvailableByUser(ctx context.Context, userID int64) ([]*models.InventoryItem, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.InventoryItem), args.Error(1)
}

func (m *MockInventoryRepository) UpdateStatus(ctx context.Context, id int64, status models.ItemStatus) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

// MockWithdrawRequestRepository is a mock implementation of WithdrawRequestRepository
type MockWithdrawRequestRepository struct {
	mock.Mock
}

func (m *MockWithdrawRequestRepository) Create(ctx context.Context, req *models.WithdrawRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockWithdrawRequestRepository) GetByID(ctx context.Context, id int64) (*models.WithdrawRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawRequest), args.Error(1)
}

func (m *MockWithdrawRequestRepository) GetByTradeOfferID(ctx context.Context, offerID string) (*models.WithdrawRequest, error) {
	args := m.Called(ctx, offerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawRequest), args.Error(1)
}

func (m *MockWithdrawRequestRepository) Update(ctx context.Context, req *models.WithdrawRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}

func (m *MockWithdrawRequestRepository) GetPending(ctx context.Context, limit int) ([]*models.WithdrawRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawRequest), args.Error(1)
}

func (m *MockWithdrawRequestRepository) GetSent(ctx context.Context) ([]*models.WithdrawRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawRequest), args.Error(1)
}

func (m *MockWithdrawRequestRepository) GetStuckProcessing(ctx context.Context, cutoff time.Time) ([]*models.WithdrawRequest, error) {
	args := m.Called(ctx, cutoff)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawRequest), args.Error(1)
}

func (m *MockWithdrawRequestRepository) GetByUser(ctx context.Context, userID int64) ([]*models.WithdrawRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawRequest), args.Error(1)
}

func (m *MockWithdrawRequestRepository) CountByStatus(ctx context.Context) (*models.WithdrawStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawStats), args.Error(1)
}

// MockEventPublisher is a mock implementation of EventPublisher for testing
type MockEventPublisher struct {
	mock.Mock
}

func (m *MockEventPublisher) Publish(event events.Event) {
	m.Called(event)
}

// MockUnitOfWork is a mock implementation of UnitOfWork
type MockUnitOfWork struct {
	mock.Mock
	userRepo      UserRepository
	skinRepo      SkinRepository
	inventoryRepo InventoryRepository
	withdrawRepo  WithdrawRequestRepository
	eventBus      EventPublisher
}

// SetRepositories configures the repositories returned by the getters. Nil
// arguments leave the corresponding getter returning nil.
func (m *MockUnitOfWork) SetRepositories(userRepo UserRepository, skinRepo SkinRepository, inventoryRepo InventoryRepository, withdrawRepo WithdrawRequestRepository) {
	m.userRepo = userRepo
	m.skinRepo = skinRepo
	m.inventoryRepo = inventoryRepo
	m.withdrawRepo = withdrawRepo
	m.eventBus = &nopPublisher{}
}

// SetEventBus overrides the default no-op event publisher
func (m *MockUnitOfWork) SetEventBus(bus EventPublisher) {
	m.eventBus = bus
}

func (m *MockUnitOfWork) Begin(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *MockUnitOfWork) Commit() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) Rollback() error {
	args := m.Called()
	return args.Error(0)
}

func (m *MockUnitOfWork) UserRepository() UserRepository {
	return m.userRepo
}

func (m *MockUnitOfWork) SkinRepository() SkinRepository {
	return m.skinRepo
}

func (m *MockUnitOfWork) InventoryRepository() InventoryRepository {
	return m.inventoryRepo
}

func (m *MockUnitOfWork) WithdrawRequestRepository() WithdrawRequestRepository {
	return m.withdrawRepo
}

func (m *MockUnitOfWork) EventBus() EventPublisher {
	return m.eventBus
}

// MockUnitOfWorkFactory is a mock implementation of UnitOfWorkFactory
type MockUnitOfWorkFactory struct {
	mock.Mock
}

func (m *MockUnitOfWorkFactory) Create() UnitOfWork {
	args := m.Called()
	return args.Get(0).(UnitOfWork)
}

type nopPublisher struct{}

func (p *nopPublisher) Publish(event events.Event) {}
