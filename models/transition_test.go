package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextState_HappyPath(t *testing.T) {
	tests := []struct {
		name           string
		current        WithdrawStatus
		trigger        Trigger
		attempts       int
		wantStatus     WithdrawStatus
		wantItemStatus ItemStatus
	}{
		{
			name:           "claim pending request",
			current:        WithdrawStatusPending,
			trigger:        TriggerClaim,
			wantStatus:     WithdrawStatusProcessing,
			wantItemStatus: ItemStatusPendingWithdrawal,
		},
		{
			name:           "successful send",
			current:        WithdrawStatusProcessing,
			trigger:        TriggerSendSucceeded,
			attempts:       1,
			wantStatus:     WithdrawStatusSent,
			wantItemStatus: ItemStatusPendingWithdrawal,
		},
		{
			name:           "offer accepted",
			current:        WithdrawStatusSent,
			trigger:        TriggerOfferAccepted,
			attempts:       1,
			wantStatus:     WithdrawStatusAccepted,
			wantItemStatus: ItemStatusWithdrawn,
		},
		{
			name:           "offer declined releases item",
			current:        WithdrawStatusSent,
			trigger:        TriggerOfferDeclined,
			attempts:       1,
			wantStatus:     WithdrawStatusDeclined,
			wantItemStatus: ItemStatusAvailable,
		},
		{
			name:           "offer failure releases item",
			current:        WithdrawStatusSent,
			trigger:        TriggerOfferFailed,
			attempts:       1,
			wantStatus:     WithdrawStatusFailed,
			wantItemStatus: ItemStatusAvailable,
		},
		{
			name:           "cancel pending request",
			current:        WithdrawStatusPending,
			trigger:        TriggerCancel,
			wantStatus:     WithdrawStatusCancelled,
			wantItemStatus: ItemStatusAvailable,
		},
		{
			name:           "cancel processing request",
			current:        WithdrawStatusProcessing,
			trigger:        TriggerCancel,
			attempts:       1,
			wantStatus:     WithdrawStatusCancelled,
			wantItemStatus: ItemStatusAvailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, itemStatus, ok := NextState(tt.current, tt.trigger, tt.attempts, 3)
			assert.True(t, ok)
			assert.Equal(t, tt.wantStatus, status)
			assert.Equal(t, tt.wantItemStatus, itemStatus)
		})
	}
}

func TestNextState_SendFailureRetriesUntilCeiling(t *testing.T) {
	// Below the ceiling the request goes back to pending and keeps its item
	status, itemStatus, ok := NextState(WithdrawStatusProcessing, TriggerSendFailed, 1, 3)
	assert.True(t, ok)
	assert.Equal(t, WithdrawStatusPending, status)
	assert.Equal(t, ItemStatusPendingWithdrawal, itemStatus)

	status, itemStatus, ok = NextState(WithdrawStatusProcessing, TriggerSendFailed, 2, 3)
	assert.True(t, ok)
	assert.Equal(t, WithdrawStatusPending, status)
	assert.Equal(t, ItemStatusPendingWithdrawal, itemStatus)

	// At the ceiling the request fails terminally and the item is released
	status, itemStatus, ok = NextState(WithdrawStatusProcessing, TriggerSendFailed, 3, 3)
	assert.True(t, ok)
	assert.Equal(t, WithdrawStatusFailed, status)
	assert.Equal(t, ItemStatusAvailable, itemStatus)
}

func TestNextState_TerminalStatusesAreFinal(t *testing.T) {
	terminals := []WithdrawStatus{
		WithdrawStatusAccepted,
		WithdrawStatusDeclined,
		WithdrawStatusFailed,
		WithdrawStatusCancelled,
	}
	triggers := []Trigger{
		TriggerClaim,
		TriggerSendSucceeded,
		TriggerSendFailed,
		TriggerOfferAccepted,
		TriggerOfferDeclined,
		TriggerOfferFailed,
		TriggerCancel,
	}

	for _, current := range terminals {
		for _, trigger := range triggers {
			status, _, ok := NextState(current, trigger, 1, 3)
			assert.False(t, ok, "trigger %s must not apply to %s", trigger, current)
			assert.Equal(t, current, status)
		}
	}
}

func TestNextState_InvalidTriggersAreNoOps(t *testing.T) {
	tests := []struct {
		name    string
		current WithdrawStatus
		trigger Trigger
	}{
		{"claim a processing request", WithdrawStatusProcessing, TriggerClaim},
		{"claim a sent request", WithdrawStatusSent, TriggerClaim},
		{"send outcome without a claim", WithdrawStatusPending, TriggerSendSucceeded},
		{"send failure without a claim", WithdrawStatusPending, TriggerSendFailed},
		{"offer outcome before send", WithdrawStatusPending, TriggerOfferAccepted},
		{"offer outcome while processing", WithdrawStatusProcessing, TriggerOfferDeclined},
		{"cancel a sent request", WithdrawStatusSent, TriggerCancel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, _, ok := NextState(tt.current, tt.trigger, 1, 3)
			assert.False(t, ok)
			assert.Equal(t, tt.current, status)
		})
	}
}

func TestWithdrawRequest_CanBeCancelled(t *testing.T) {
	req := &WithdrawRequest{Status: WithdrawStatusPending}
	assert.True(t, req.CanBeCancelled())

	req.Status = WithdrawStatusProcessing
	assert.True(t, req.CanBeCancelled())

	req.Status = WithdrawStatusSent
	assert.False(t, req.CanBeCancelled())

	req.Status = WithdrawStatusAccepted
	assert.False(t, req.CanBeCancelled())
}

func TestInventoryItem_CanBeWithdrawn(t *testing.T) {
	item := &InventoryItem{Status: ItemStatusAvailable}
	assert.True(t, item.CanBeWithdrawn())

	item.Status = ItemStatusPendingWithdrawal
	assert.False(t, item.CanBeWithdrawn())

	item.Status = ItemStatusWithdrawn
	assert.False(t, item.CanBeWithdrawn())
}
