package models

import (
	"time"

	"github.com/google/uuid"
)

// WithdrawStatus represents the state of a withdraw request
type WithdrawStatus string

const (
	WithdrawStatusPending    WithdrawStatus = "pending"
	WithdrawStatusProcessing WithdrawStatus = "processing"
	WithdrawStatusSent       WithdrawStatus = "sent"
	WithdrawStatusAccepted   WithdrawStatus = "accepted"
	WithdrawStatusDeclined   WithdrawStatus = "declined"
	WithdrawStatusFailed     WithdrawStatus = "failed"
	WithdrawStatusCancelled  WithdrawStatus = "cancelled"
)

// IsTerminalStatus reports whether a request in this status can never change again
func IsTerminalStatus(status WithdrawStatus) bool {
	switch status {
	case WithdrawStatusAccepted, WithdrawStatusDeclined, WithdrawStatusFailed, WithdrawStatusCancelled:
		return true
	}
	return false
}

// WithdrawRequest represents one attempt to move an inventory item off-platform
// as a trade offer. Terminal records are never deleted; they are kept for audit
// and statistics.
type WithdrawRequest struct {
	ID              int64          `db:"id"`
	Reference       uuid.UUID      `db:"reference"`
	UserID          int64          `db:"user_id"`
	InventoryItemID int64          `db:"inventory_item_id"`
	SkinID          int64          `db:"skin_id"`
	TradeURL        string         `db:"trade_url"`
	Status          WithdrawStatus `db:"status"`
	TradeOfferID    *string        `db:"trade_offer_id"`
	TradeOfferState *int           `db:"trade_offer_state"`
	ErrorMessage    *string        `db:"error_message"`
	Attempts        int            `db:"attempts"`
	MaxAttempts     int            `db:"max_attempts"`
	TradeHoldDays   int            `db:"trade_hold_days"`
	RequestedAt     time.Time      `db:"requested_at"`
	ProcessedAt     *time.Time     `db:"processed_at"`
	CompletedAt     *time.Time     `db:"completed_at"`
}

// IsTerminal reports whether the request has reached a final state
func (r *WithdrawRequest) IsTerminal() bool {
	return IsTerminalStatus(r.Status)
}

// CanRetry checks if the request may be dispatched again after a send failure
func (r *WithdrawRequest) CanRetry() bool {
	return r.Attempts < r.MaxAttempts
}

// CanBeCancelled checks if the user may still cancel the request
func (r *WithdrawRequest) CanBeCancelled() bool {
	return r.Status == WithdrawStatusPending || r.Status == WithdrawStatusProcessing
}
