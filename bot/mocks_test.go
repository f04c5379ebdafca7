package bot

import (
	"context"
	"time"

	"skinvault/models"
	"skinvault/steam"

	"github.com/stretchr/testify/mock"
)

// mockWithdrawService is a mock implementation of service.WithdrawService
type mockWithdrawService struct {
	mock.Mock
}

func (m *mockWithdrawService) CreateWithdrawRequest(ctx context.Context, userID, inventoryItemID int64) (*models.WithdrawRequest, error) {
	args := m.Called(ctx, userID, inventoryItemID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawRequest), args.Error(1)
}

func (m *mockWithdrawService) CancelWithdrawRequest(ctx context.Context, requestID, userID int64) (*models.WithdrawRequest, error) {
	args := m.Called(ctx, requestID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawRequest), args.Error(1)
}

func (m *mockWithdrawService) GetWithdrawRequestByID(ctx context.Context, requestID int64) (*models.WithdrawRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawRequest), args.Error(1)
}

func (m *mockWithdrawService) GetUserWithdrawRequests(ctx context.Context, userID int64) ([]*models.WithdrawRequest, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawRequest), args.Error(1)
}

func (m *mockWithdrawService) GetWithdrawStats(ctx context.Context) (*models.WithdrawStats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawStats), args.Error(1)
}

func (m *mockWithdrawService) GetSkin(ctx context.Context, skinID int64) (*models.Skin, error) {
	args := m.Called(ctx, skinID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Skin), args.Error(1)
}

func (m *mockWithdrawService) GetPendingBatch(ctx context.Context, limit int) ([]*models.WithdrawRequest, error) {
	args := m.Called(ctx, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawRequest), args.Error(1)
}

func (m *mockWithdrawService) MarkProcessing(ctx context.Context, requestID int64) (*models.WithdrawRequest, error) {
	args := m.Called(ctx, requestID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.WithdrawRequest), args.Error(1)
}

func (m *mockWithdrawService) MarkSent(ctx context.Context, requestID int64, offerID string, holdDays int) error {
	args := m.Called(ctx, requestID, offerID, holdDays)
	return args.Error(0)
}

func (m *mockWithdrawService) MarkSendFailed(ctx context.Context, requestID int64, errMsg string) error {
	args := m.Called(ctx, requestID, errMsg)
	return args.Error(0)
}

func (m *mockWithdrawService) GetSentRequests(ctx context.Context) ([]*models.WithdrawRequest, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.WithdrawRequest), args.Error(1)
}

func (m *mockWithdrawService) ApplyOfferState(ctx context.Context, offerID string, state steam.OfferState) error {
	args := m.Called(ctx, offerID, state)
	return args.Error(0)
}

func (m *mockWithdrawService) RequeueStuckProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	args := m.Called(ctx, olderThan)
	return args.Int(0), args.Error(1)
}

// mockSession is a mock implementation of steam.Session. Handler registration
// is recorded directly so tests can drive the callbacks.
type mockSession struct {
	mock.Mock
	offerChangeHandler   func(change steam.OfferChange)
	incomingOfferHandler func(offerID string)
}

func (m *mockSession) LogOn(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}

func (m *mockSession) FindAsset(ctx context.Context, marketHashName string) (steam.Asset, error) {
	args := m.Called(ctx, marketHashName)
	return args.Get(0).(steam.Asset), args.Error(1)
}

func (m *mockSession) CreateAndSend(ctx context.Context, dest steam.TradeDestination, asset steam.Asset, message string) (steam.SendResult, error) {
	args := m.Called(ctx, dest, asset, message)
	return args.Get(0).(steam.SendResult), args.Error(1)
}

func (m *mockSession) GetOfferState(ctx context.Context, offerID string) (steam.OfferState, error) {
	args := m.Called(ctx, offerID)
	return args.Get(0).(steam.OfferState), args.Error(1)
}

func (m *mockSession) DeclineOffer(ctx context.Context, offerID string) error {
	args := m.Called(ctx, offerID)
	return args.Error(0)
}

func (m *mockSession) OnSentOfferChanged(fn func(change steam.OfferChange)) {
	m.offerChangeHandler = fn
}

func (m *mockSession) OnIncomingOffer(fn func(offerID string)) {
	m.incomingOfferHandler = fn
}

func (m *mockSession) Close() {
	m.Called()
}
