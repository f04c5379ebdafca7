package models

import "time"

// ItemStatus represents the lifecycle status of an inventory item
type ItemStatus string

const (
	ItemStatusAvailable         ItemStatus = "available"
	ItemStatusPendingWithdrawal ItemStatus = "pending_withdrawal"
	ItemStatusWithdrawn         ItemStatus = "withdrawn"
	ItemStatusFailed            ItemStatus = "failed"
)

// AcquisitionSource records how an item entered a user's inventory
type AcquisitionSource string

const (
	AcquiredFromCaseOpening AcquisitionSource = "case_opening"
	AcquiredFromBonus       AcquisitionSource = "bonus"
	AcquiredFromRefund      AcquisitionSource = "refund"
)

// InventoryItem represents one instance of a skin held by a user
type InventoryItem struct {
	ID           int64             `db:"id"`
	UserID       int64             `db:"user_id"`
	SkinID       int64             `db:"skin_id"`
	AcquiredFrom AcquisitionSource `db:"acquired_from"`
	Status       ItemStatus        `db:"status"`
	AcquiredAt   time.Time         `db:"acquired_at"`
	WithdrawnAt  *time.Time        `db:"withdrawn_at"`
}

// CanBeWithdrawn checks if the item is eligible for a new withdraw request
func (i *InventoryItem) CanBeWithdrawn() bool {
	return i.Status == ItemStatusAvailable
}
