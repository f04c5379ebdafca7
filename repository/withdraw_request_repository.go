package repository

import (
	"context"
	"fmt"
	"time"

	"skinvault/database"
	"skinvault/models"

	"github.com/jackc/pgx/v5"
)

// WithdrawRequestRepository implements the service.WithdrawRequestRepository interface
type WithdrawRequestRepository struct {
	q queryable
}

// NewWithdrawRequestRepository creates a new withdraw request repository
func NewWithdrawRequestRepository(db *database.DB) *WithdrawRequestRepository {
	return &WithdrawRequestRepository{q: db.Pool}
}

func newWithdrawRequestRepositoryWithTx(tx queryable) *WithdrawRequestRepository {
	return &WithdrawRequestRepository{q: tx}
}

const withdrawRequestColumns = `
	id, reference, user_id, inventory_item_id, skin_id, trade_url, status,
	trade_offer_id, trade_offer_state, error_message, attempts, max_attempts,
	trade_hold_days, requested_at, processed_at, completed_at`

func scanWithdrawRequest(row pgx.Row) (*models.WithdrawRequest, error) {
	var req models.WithdrawRequest
	err := row.Scan(
		&req.ID,
		&req.Reference,
		&req.UserID,
		&req.InventoryItemID,
		&req.SkinID,
		&req.TradeURL,
		&req.Status,
		&req.TradeOfferID,
		&req.TradeOfferState,
		&req.ErrorMessage,
		&req.Attempts,
		&req.MaxAttempts,
		&req.TradeHoldDays,
		&req.RequestedAt,
		&req.ProcessedAt,
		&req.CompletedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &req, nil
}

func (r *WithdrawRequestRepository) queryMany(ctx context.Context, query string, args ...any) ([]*models.WithdrawRequest, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []*models.WithdrawRequest
	for rows.Next() {
		req, err := scanWithdrawRequest(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan withdraw request: %w", err)
		}
		reqs = append(reqs, req)
	}
	return reqs, rows.Err()
}

// Create creates a new withdraw request
func (r *WithdrawRequestRepository) Create(ctx context.Context, req *models.WithdrawRequest) error {
	query := `
		INSERT INTO withdraw_requests
			(reference, user_id, inventory_item_id, skin_id, trade_url, status, max_attempts, requested_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`

	err := r.q.QueryRow(ctx, query,
		req.Reference,
		req.UserID,
		req.InventoryItemID,
		req.SkinID,
		req.TradeURL,
		req.Status,
		req.MaxAttempts,
		req.RequestedAt,
	).Scan(&req.ID)
	if err != nil {
		return fmt.Errorf("failed to create withdraw request for item %d: %w", req.InventoryItemID, err)
	}
	return nil
}

// GetByID retrieves a request by its ID
func (r *WithdrawRequestRepository) GetByID(ctx context.Context, id int64) (*models.WithdrawRequest, error) {
	query := `SELECT ` + withdrawRequestColumns + ` FROM withdraw_requests WHERE id = $1`

	req, err := scanWithdrawRequest(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get withdraw request %d: %w", id, err)
	}
	return req, nil
}

// GetByTradeOfferID retrieves a request by its external offer id
func (r *WithdrawRequestRepository) GetByTradeOfferID(ctx context.Context, offerID string) (*models.WithdrawRequest, error) {
	query := `SELECT ` + withdrawRequestColumns + ` FROM withdraw_requests WHERE trade_offer_id = $1`

	req, err := scanWithdrawRequest(r.q.QueryRow(ctx, query, offerID))
	if err != nil {
		return nil, fmt.Errorf("failed to get withdraw request for offer #%s: %w", offerID, err)
	}
	return req, nil
}

// Update updates a request's status and related fields. The identity,
// ownership, and creation fields are immutable.
func (r *WithdrawRequestRepository) Update(ctx context.Context, req *models.WithdrawRequest) error {
	query := `
		UPDATE withdraw_requests
		SET status = $1,
		    trade_offer_id = $2,
		    trade_offer_state = $3,
		    error_message = $4,
		    attempts = $5,
		    trade_hold_days = $6,
		    processed_at = $7,
		    completed_at = $8
		WHERE id = $9
	`

	result, err := r.q.Exec(ctx, query,
		req.Status,
		req.TradeOfferID,
		req.TradeOfferState,
		req.ErrorMessage,
		req.Attempts,
		req.TradeHoldDays,
		req.ProcessedAt,
		req.CompletedAt,
		req.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update withdraw request %d: %w", req.ID, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrRequestNotFound
	}
	return nil
}

// GetPending returns up to limit pending requests, oldest first
func (r *WithdrawRequestRepository) GetPending(ctx context.Context, limit int) ([]*models.WithdrawRequest, error) {
	query := `
		SELECT ` + withdrawRequestColumns + `
		FROM withdraw_requests
		WHERE status = $1
		ORDER BY requested_at ASC
		LIMIT $2
	`

	reqs, err := r.queryMany(ctx, query, models.WithdrawStatusPending, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending withdraw requests: %w", err)
	}
	return reqs, nil
}

// GetSent returns all requests awaiting an external outcome, oldest claim first
func (r *WithdrawRequestRepository) GetSent(ctx context.Context) ([]*models.WithdrawRequest, error) {
	query := `
		SELECT ` + withdrawRequestColumns + `
		FROM withdraw_requests
		WHERE status = $1
		ORDER BY processed_at ASC
	`

	reqs, err := r.queryMany(ctx, query, models.WithdrawStatusSent)
	if err != nil {
		return nil, fmt.Errorf("failed to get sent withdraw requests: %w", err)
	}
	return reqs, nil
}

// GetStuckProcessing returns processing requests claimed before the cutoff
func (r *WithdrawRequestRepository) GetStuckProcessing(ctx context.Context, cutoff time.Time) ([]*models.WithdrawRequest, error) {
	query := `
		SELECT ` + withdrawRequestColumns + `
		FROM withdraw_requests
		WHERE status = $1 AND processed_at < $2
		ORDER BY processed_at ASC
	`

	reqs, err := r.queryMany(ctx, query, models.WithdrawStatusProcessing, cutoff)
	if err != nil {
		return nil, fmt.Errorf("failed to get stuck processing requests: %w", err)
	}
	return reqs, nil
}

// GetByUser returns all requests for a user, newest first
func (r *WithdrawRequestRepository) GetByUser(ctx context.Context, userID int64) ([]*models.WithdrawRequest, error) {
	query := `
		SELECT ` + withdrawRequestColumns + `
		FROM withdraw_requests
		WHERE user_id = $1
		ORDER BY requested_at DESC
	`

	reqs, err := r.queryMany(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to get withdraw requests for user %d: %w", userID, err)
	}
	return reqs, nil
}

// CountByStatus returns request counts per status
func (r *WithdrawRequestRepository) CountByStatus(ctx context.Context) (*models.WithdrawStats, error) {
	query := `SELECT status, COUNT(*) FROM withdraw_requests GROUP BY status`

	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to count withdraw requests: %w", err)
	}
	defer rows.Close()

	var stats models.WithdrawStats
	for rows.Next() {
		var status models.WithdrawStatus
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, fmt.Errorf("failed to scan status count: %w", err)
		}

		switch status {
		case models.WithdrawStatusPending:
			stats.Pending = count
		case models.WithdrawStatusProcessing:
			stats.Processing = count
		case models.WithdrawStatusSent:
			stats.Sent = count
		case models.WithdrawStatusAccepted:
			stats.Accepted = count
		case models.WithdrawStatusDeclined:
			stats.Declined = count
		case models.WithdrawStatusFailed:
			stats.Failed = count
		case models.WithdrawStatusCancelled:
			stats.Cancelled = count
		}
		stats.Total += count
	}
	return &stats, rows.Err()
}
