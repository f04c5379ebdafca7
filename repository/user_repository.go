package repository

import (
	"context"
	"fmt"

	"skinvault/database"
	"skinvault/models"

	"github.com/jackc/pgx/v5"
)

// UserRepository implements the service.UserRepository interface
type UserRepository struct {
	q queryable
}

// NewUserRepository creates a new user repository
func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{q: db.Pool}
}

// newUserRepositoryWithTx creates a new user repository with a transaction
func newUserRepositoryWithTx(tx queryable) *UserRepository {
	return &UserRepository{q: tx}
}

const userColumns = `id, steam_id, username, crystals, trade_url, created_at, updated_at`

func scanUser(row pgx.Row) (*models.User, error) {
	var user models.User
	err := row.Scan(
		&user.ID,
		&user.SteamID,
		&user.Username,
		&user.Crystals,
		&user.TradeURL,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByID retrieves a user by their internal ID
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return user, nil
}

// GetBySteamID retrieves a user by their SteamID64
func (r *UserRepository) GetBySteamID(ctx context.Context, steamID int64) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE steam_id = $1`

	user, err := scanUser(r.q.QueryRow(ctx, query, steamID))
	if err != nil {
		return nil, fmt.Errorf("failed to get user by steam ID %d: %w", steamID, err)
	}
	return user, nil
}

// Create creates a new user with the initial crystal balance
func (r *UserRepository) Create(ctx context.Context, steamID int64, username string, initialCrystals int64) (*models.User, error) {
	query := `
		INSERT INTO users (steam_id, username, crystals)
		VALUES ($1, $2, $3)
		RETURNING ` + userColumns

	user, err := scanUser(r.q.QueryRow(ctx, query, steamID, username, initialCrystals))
	if err != nil {
		return nil, fmt.Errorf("failed to create user with steam ID %d: %w", steamID, err)
	}
	return user, nil
}

// SetTradeURL stores the user's trade destination
func (r *UserRepository) SetTradeURL(ctx context.Context, id int64, tradeURL string) error {
	query := `
		UPDATE users
		SET trade_url = $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, tradeURL, id)
	if err != nil {
		return fmt.Errorf("failed to set trade URL for user %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// CreditCrystals adds to a user's crystal balance atomically
func (r *UserRepository) CreditCrystals(ctx context.Context, id int64, amount int64) error {
	query := `
		UPDATE users
		SET crystals = crystals + $1, updated_at = NOW()
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to credit %d crystals to user %d: %w", amount, id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrUserNotFound
	}
	return nil
}

// DebitCrystals deducts from a user's crystal balance atomically, failing
// if the balance would go negative
func (r *UserRepository) DebitCrystals(ctx context.Context, id int64, amount int64) error {
	query := `
		UPDATE users
		SET crystals = crystals - $1, updated_at = NOW()
		WHERE id = $2 AND crystals >= $1
	`

	result, err := r.q.Exec(ctx, query, amount, id)
	if err != nil {
		return fmt.Errorf("failed to debit %d crystals from user %d: %w", amount, id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrInsufficientCrystals
	}
	return nil
}
