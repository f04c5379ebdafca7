package service

import (
	"context"
	"time"

	"skinvault/events"
	"skinvault/models"
	"skinvault/steam"
)

// UserRepository defines the interface for user data access
type UserRepository interface {
	// GetByID retrieves a user by their internal ID
	GetByID(ctx context.Context, id int64) (*models.User, error)

	// GetBySteamID retrieves a user by their SteamID64
	GetBySteamID(ctx context.Context, steamID int64) (*models.User, error)

	// Create creates a new user with the initial crystal balance
	Create(ctx context.Context, steamID int64, username string, initialCrystals int64) (*models.User, error)

	// SetTradeURL stores the user's trade destination
	SetTradeURL(ctx context.Context, id int64, tradeURL string) error

	// CreditCrystals adds to a user's crystal balance atomically
	CreditCrystals(ctx context.Context, id int64, amount int64) error

	// DebitCrystals deducts from a user's crystal balance atomically,
	// failing if the balance would go negative
	DebitCrystals(ctx context.Context, id int64, amount int64) error
}

// SkinRepository defines the interface for skin catalog data access
type SkinRepository interface {
	// Create creates a new skin definition
	Create(ctx context.Context, skin *models.Skin) error

	// GetByID retrieves a skin by its ID
	GetByID(ctx context.Context, id int64) (*models.Skin, error)

	// GetByMarketHashName retrieves a skin by its market hash name
	GetByMarketHashName(ctx context.Context, name string) (*models.Skin, error)
}

// InventoryRepository defines the interface for inventory item data access
type InventoryRepository interface {
	// Create creates a new inventory item
	Create(ctx context.Context, item *models.InventoryItem) error

	// GetByID retrieves an inventory item by its ID
	GetByID(ctx context.Context, id int64) (*models.InventoryItem, error)

	// GetAvailableByUser returns a user's available items, newest first
	GetAvailableByUser(ctx context.Context, userID int64) ([]*models.InventoryItem, error)

	// UpdateStatus updates an item's status. The withdrawn timestamp is
	// stamped when the item enters the withdrawn status.
	UpdateStatus(ctx context.Context, id int64, status models.ItemStatus) error
}

// WithdrawRequestRepository defines the interface for withdraw request data access
type WithdrawRequestRepository interface {
	// Create creates a new withdraw request
	Create(ctx context.Context, req *models.WithdrawRequest) error

	// GetByID retrieves a request by its ID
	GetByID(ctx context.Context, id int64) (*models.WithdrawRequest, error)

	// GetByTradeOfferID retrieves a request by its external offer id
	GetByTradeOfferID(ctx context.Context, offerID string) (*models.WithdrawRequest, error)

	// Update updates a request's status and related fields
	Update(ctx context.Context, req *models.WithdrawRequest) error

	// GetPending returns up to limit pending requests, oldest first
	GetPending(ctx context.Context, limit int) ([]*models.WithdrawRequest, error)

	// GetSent returns all requests awaiting an external outcome
	GetSent(ctx context.Context) ([]*models.WithdrawRequest, error)

	// GetStuckProcessing returns processing requests claimed before the cutoff
	GetStuckProcessing(ctx context.Context, cutoff time.Time) ([]*models.WithdrawRequest, error)

	// GetByUser returns all requests for a user, newest first
	GetByUser(ctx context.Context, userID int64) ([]*models.WithdrawRequest, error)

	// CountByStatus returns request counts per status
	CountByStatus(ctx context.Context) (*models.WithdrawStats, error)
}

// WithdrawService defines the interface for withdraw operations
type WithdrawService interface {
	// CreateWithdrawRequest reserves an available item and creates a pending request
	CreateWithdrawRequest(ctx context.Context, userID, inventoryItemID int64) (*models.WithdrawRequest, error)

	// CancelWithdrawRequest cancels a pending or processing request and releases the item
	CancelWithdrawRequest(ctx context.Context, requestID, userID int64) (*models.WithdrawRequest, error)

	// GetWithdrawRequestByID retrieves a request by ID
	GetWithdrawRequestByID(ctx context.Context, requestID int64) (*models.WithdrawRequest, error)

	// GetUserWithdrawRequests returns a user's request history, newest first
	GetUserWithdrawRequests(ctx context.Context, userID int64) ([]*models.WithdrawRequest, error)

	// GetWithdrawStats returns request counts per status
	GetWithdrawStats(ctx context.Context) (*models.WithdrawStats, error)

	// GetSkin retrieves the skin referenced by a request, for outbound asset matching
	GetSkin(ctx context.Context, skinID int64) (*models.Skin, error)

	// GetPendingBatch returns up to limit dispatchable requests, oldest first
	GetPendingBatch(ctx context.Context, limit int) ([]*models.WithdrawRequest, error)

	// MarkProcessing claims a pending request for dispatch, counting the
	// attempt. Returns nil when the request is no longer claimable.
	MarkProcessing(ctx context.Context, requestID int64) (*models.WithdrawRequest, error)

	// MarkSent records a successful send with the external offer id and hold duration
	MarkSent(ctx context.Context, requestID int64, offerID string, holdDays int) error

	// MarkSendFailed records a failed send: back to pending below the attempts
	// ceiling, terminal failure with item release at the ceiling
	MarkSendFailed(ctx context.Context, requestID int64, errMsg string) error

	// GetSentRequests returns all requests awaiting an external outcome
	GetSentRequests(ctx context.Context) ([]*models.WithdrawRequest, error)

	// ApplyOfferState applies an externally reported offer state to the
	// matching request. Idempotent; both the change-event path and the poll
	// fallback route through it.
	ApplyOfferState(ctx context.Context, offerID string, state steam.OfferState) error

	// RequeueStuckProcessing resolves processing requests claimed before
	// olderThan ago as send failures, so a crash mid-send is recovered on
	// the next start. Returns the number of requests touched.
	RequeueStuckProcessing(ctx context.Context, olderThan time.Duration) (int, error)
}

// EventPublisher defines the interface for publishing events
type EventPublisher interface {
	Publish(event events.Event)
}

// UnitOfWork defines the interface for transactional repository operations
type UnitOfWork interface {
	// Begin starts a new transaction
	Begin(ctx context.Context) error

	// Commit commits the transaction and flushes pending events
	Commit() error

	// Rollback rolls back the transaction
	Rollback() error

	// Repository getters
	UserRepository() UserRepository
	SkinRepository() SkinRepository
	InventoryRepository() InventoryRepository
	WithdrawRequestRepository() WithdrawRequestRepository
	EventBus() EventPublisher
}

// UnitOfWorkFactory defines the interface for creating UnitOfWork instances
type UnitOfWorkFactory interface {
	// Create creates a new UnitOfWork instance
	Create() UnitOfWork
}
