package service

import (
	"context"
	"fmt"
	"time"

	"skinvault/events"
	"skinvault/models"
	"skinvault/steam"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

type withdrawService struct {
	uowFactory  UnitOfWorkFactory
	maxAttempts int
}

// NewWithdrawService creates a new withdraw service. maxAttempts is the
// dispatch attempts ceiling applied to new requests.
func NewWithdrawService(uowFactory UnitOfWorkFactory, maxAttempts int) WithdrawService {
	return &withdrawService{
		uowFactory:  uowFactory,
		maxAttempts: maxAttempts,
	}
}

// CreateWithdrawRequest reserves an available item and creates a pending request
func (s *withdrawService) CreateWithdrawRequest(ctx context.Context, userID, inventoryItemID int64) (*models.WithdrawRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	user, err := uow.UserRepository().GetByID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	if user == nil {
		return nil, models.ErrUserNotFound
	}
	if !user.HasTradeURL() {
		return nil, models.ErrTradeURLNotSet
	}
	if _, err := steam.ParseTradeURL(*user.TradeURL); err != nil {
		return nil, fmt.Errorf("stored trade URL is unusable: %w", err)
	}

	item, err := uow.InventoryRepository().GetByID(ctx, inventoryItemID)
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item: %w", err)
	}
	if item == nil || item.UserID != userID {
		return nil, models.ErrItemNotFound
	}
	if !item.CanBeWithdrawn() {
		return nil, models.ErrItemNotAvailable
	}

	if err := uow.InventoryRepository().UpdateStatus(ctx, item.ID, models.ItemStatusPendingWithdrawal); err != nil {
		return nil, fmt.Errorf("failed to reserve inventory item: %w", err)
	}

	req := &models.WithdrawRequest{
		Reference:       uuid.New(),
		UserID:          userID,
		InventoryItemID: item.ID,
		SkinID:          item.SkinID,
		TradeURL:        *user.TradeURL,
		Status:          models.WithdrawStatusPending,
		MaxAttempts:     s.maxAttempts,
		RequestedAt:     time.Now(),
	}
	if err := uow.WithdrawRequestRepository().Create(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create withdraw request: %w", err)
	}

	uow.EventBus().Publish(events.ItemStatusChangeEvent{
		ItemID:    item.ID,
		UserID:    userID,
		NewStatus: models.ItemStatusPendingWithdrawal,
	})

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Infof("Withdraw request %d created for item %d (user %d)", req.ID, item.ID, userID)
	return req, nil
}

// CancelWithdrawRequest cancels a pending or processing request
func (s *withdrawService) CancelWithdrawRequest(ctx context.Context, requestID, userID int64) (*models.WithdrawRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.WithdrawRequestRepository().GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdraw request: %w", err)
	}
	if req == nil || req.UserID != userID {
		return nil, models.ErrRequestNotFound
	}

	applied, err := s.applyTransition(ctx, uow, req, models.TriggerCancel, nil)
	if err != nil {
		return nil, err
	}
	if !applied {
		return nil, models.ErrNotCancellable
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return req, nil
}

// GetWithdrawRequestByID retrieves a request by ID
func (s *withdrawService) GetWithdrawRequestByID(ctx context.Context, requestID int64) (*models.WithdrawRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.WithdrawRequestRepository().GetByID(ctx, requestID)
}

// GetUserWithdrawRequests returns a user's request history, newest first
func (s *withdrawService) GetUserWithdrawRequests(ctx context.Context, userID int64) ([]*models.WithdrawRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.WithdrawRequestRepository().GetByUser(ctx, userID)
}

// GetWithdrawStats returns request counts per status
func (s *withdrawService) GetWithdrawStats(ctx context.Context) (*models.WithdrawStats, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.WithdrawRequestRepository().CountByStatus(ctx)
}

// GetSkin retrieves the skin referenced by a request
func (s *withdrawService) GetSkin(ctx context.Context, skinID int64) (*models.Skin, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.SkinRepository().GetByID(ctx, skinID)
}

// GetPendingBatch returns up to limit dispatchable requests, oldest first
func (s *withdrawService) GetPendingBatch(ctx context.Context, limit int) ([]*models.WithdrawRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.WithdrawRequestRepository().GetPending(ctx, limit)
}

// MarkProcessing claims a pending request for dispatch
func (s *withdrawService) MarkProcessing(ctx context.Context, requestID int64) (*models.WithdrawRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.WithdrawRequestRepository().GetByID(ctx, requestID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdraw request: %w", err)
	}
	if req == nil {
		return nil, models.ErrRequestNotFound
	}

	applied, err := s.applyTransition(ctx, uow, req, models.TriggerClaim, nil)
	if err != nil {
		return nil, err
	}
	if !applied {
		// Claimed by an earlier run or cancelled in the meantime
		return nil, nil
	}

	if err := uow.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return req, nil
}

// MarkSent records a successful send
func (s *withdrawService) MarkSent(ctx context.Context, requestID int64, offerID string, holdDays int) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.WithdrawRequestRepository().GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get withdraw request: %w", err)
	}
	if req == nil {
		return models.ErrRequestNotFound
	}

	applied, err := s.applyTransition(ctx, uow, req, models.TriggerSendSucceeded, func(r *models.WithdrawRequest) {
		// The offer id is set exactly once and never overwritten
		if r.TradeOfferID == nil {
			r.TradeOfferID = &offerID
		}
		r.TradeHoldDays = holdDays
	})
	if err != nil {
		return err
	}
	if !applied {
		log.Warnf("Request %d not in processing, ignoring sent mark for offer #%s", requestID, offerID)
		return nil
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// MarkSendFailed records a failed send attempt
func (s *withdrawService) MarkSendFailed(ctx context.Context, requestID int64, errMsg string) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.WithdrawRequestRepository().GetByID(ctx, requestID)
	if err != nil {
		return fmt.Errorf("failed to get withdraw request: %w", err)
	}
	if req == nil {
		return models.ErrRequestNotFound
	}

	applied, err := s.applyTransition(ctx, uow, req, models.TriggerSendFailed, func(r *models.WithdrawRequest) {
		r.ErrorMessage = &errMsg
	})
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetSentRequests returns all requests awaiting an external outcome
func (s *withdrawService) GetSentRequests(ctx context.Context) ([]*models.WithdrawRequest, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	return uow.WithdrawRequestRepository().GetSent(ctx)
}

// ApplyOfferState applies an externally reported offer state to the matching
// request. The change-event path and the poll fallback both call this; applying
// the same terminal state twice is a no-op.
func (s *withdrawService) ApplyOfferState(ctx context.Context, offerID string, state steam.OfferState) error {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	req, err := uow.WithdrawRequestRepository().GetByTradeOfferID(ctx, offerID)
	if err != nil {
		return fmt.Errorf("failed to look up request for offer #%s: %w", offerID, err)
	}
	if req == nil {
		log.Warnf("No withdraw request found for offer #%s, ignoring state %s", offerID, state)
		return nil
	}
	if req.IsTerminal() {
		return nil
	}

	var trigger models.Trigger
	var mutate func(*models.WithdrawRequest)
	switch state {
	case steam.OfferStateAccepted:
		trigger = models.TriggerOfferAccepted
	case steam.OfferStateDeclined:
		trigger = models.TriggerOfferDeclined
	case steam.OfferStateExpired, steam.OfferStateCanceled, steam.OfferStateInvalidItems:
		trigger = models.TriggerOfferFailed
		msg := state.String()
		mutate = func(r *models.WithdrawRequest) {
			r.ErrorMessage = &msg
		}
	default:
		// Not actionable; just refresh the state snapshot
		snapshot := int(state)
		req.TradeOfferState = &snapshot
		if err := uow.WithdrawRequestRepository().Update(ctx, req); err != nil {
			return fmt.Errorf("failed to update offer state snapshot: %w", err)
		}
		if err := uow.Commit(); err != nil {
			return fmt.Errorf("failed to commit transaction: %w", err)
		}
		return nil
	}

	snapshot := int(state)
	applied, err := s.applyTransition(ctx, uow, req, trigger, func(r *models.WithdrawRequest) {
		r.TradeOfferState = &snapshot
		if mutate != nil {
			mutate(r)
		}
	})
	if err != nil {
		return err
	}
	if !applied {
		return nil
	}

	if err := uow.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	log.Infof("Withdraw request %d resolved to %s (offer #%s reported %s)", req.ID, req.Status, offerID, state)
	return nil
}

// RequeueStuckProcessing resolves processing requests claimed before olderThan
// ago as send failures. A crash between claim and send leaves the request in
// processing; treating it as a failed attempt requeues it below the attempts
// ceiling and fails it terminally at the ceiling.
func (s *withdrawService) RequeueStuckProcessing(ctx context.Context, olderThan time.Duration) (int, error) {
	uow := s.uowFactory.Create()
	if err := uow.Begin(ctx); err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer uow.Rollback()

	cutoff := time.Now().Add(-olderThan)
	stuck, err := uow.WithdrawRequestRepository().GetStuckProcessing(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to get stuck processing requests: %w", err)
	}

	touched := 0
	for _, req := range stuck {
		applied, err := s.applyTransition(ctx, uow, req, models.TriggerSendFailed, func(r *models.WithdrawRequest) {
			msg := "recovered after interrupted dispatch"
			r.ErrorMessage = &msg
		})
		if err != nil {
			return 0, err
		}
		if applied {
			touched++
		}
	}

	if err := uow.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit transaction: %w", err)
	}

	return touched, nil
}

// applyTransition runs a single state machine step and writes the request and
// its inventory item together, so neither can drift from the other. Returns
// false when the trigger does not apply to the request's current status.
func (s *withdrawService) applyTransition(ctx context.Context, uow UnitOfWork, req *models.WithdrawRequest, trigger models.Trigger, mutate func(*models.WithdrawRequest)) (bool, error) {
	oldStatus := req.Status
	nextStatus, itemStatus, ok := models.NextState(req.Status, trigger, req.Attempts, req.MaxAttempts)
	if !ok {
		return false, nil
	}

	now := time.Now()
	req.Status = nextStatus
	if trigger == models.TriggerClaim {
		req.Attempts++
		req.ProcessedAt = &now
	}
	if models.IsTerminalStatus(nextStatus) {
		req.CompletedAt = &now
	}
	if mutate != nil {
		mutate(req)
	}

	if err := uow.WithdrawRequestRepository().Update(ctx, req); err != nil {
		return false, fmt.Errorf("failed to update withdraw request %d: %w", req.ID, err)
	}
	if err := uow.InventoryRepository().UpdateStatus(ctx, req.InventoryItemID, itemStatus); err != nil {
		return false, fmt.Errorf("failed to update inventory item %d: %w", req.InventoryItemID, err)
	}

	offerID := ""
	if req.TradeOfferID != nil {
		offerID = *req.TradeOfferID
	}
	uow.EventBus().Publish(events.WithdrawStateChangeEvent{
		RequestID:    req.ID,
		UserID:       req.UserID,
		OldStatus:    oldStatus,
		NewStatus:    nextStatus,
		TradeOfferID: offerID,
	})
	uow.EventBus().Publish(events.ItemStatusChangeEvent{
		ItemID:    req.InventoryItemID,
		UserID:    req.UserID,
		NewStatus: itemStatus,
	})

	return true, nil
}
