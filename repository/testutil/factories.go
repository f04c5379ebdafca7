package testutil

import (
	"time"

	"skinvault/models"

	"github.com/google/uuid"
)

// TestTradeURL is a well-formed trade URL usable in any test
const TestTradeURL = "https://steamcommunity.com/tradeoffer/new/?partner=12345&token=AbCdEfGh"

// CreateTestSkin creates a test skin with default values
func CreateTestSkin(name string) *models.Skin {
	return &models.Skin{
		Name:           name,
		MarketHashName: name + " (Field-Tested)",
		Rarity:         "classified",
		ImageURL:       "https://example.com/" + name + ".png",
		Price:          12500,
	}
}

// CreateTestInventoryItem creates an available inventory item for a user
func CreateTestInventoryItem(userID, skinID int64) *models.InventoryItem {
	return &models.InventoryItem{
		UserID:       userID,
		SkinID:       skinID,
		AcquiredFrom: models.AcquiredFromCaseOpening,
		Status:       models.ItemStatusAvailable,
	}
}

// CreateTestWithdrawRequest creates a pending withdraw request
func CreateTestWithdrawRequest(userID, itemID, skinID int64) *models.WithdrawRequest {
	return &models.WithdrawRequest{
		Reference:       uuid.New(),
		UserID:          userID,
		InventoryItemID: itemID,
		SkinID:          skinID,
		TradeURL:        TestTradeURL,
		Status:          models.WithdrawStatusPending,
		MaxAttempts:     3,
		RequestedAt:     time.Now(),
	}
}
