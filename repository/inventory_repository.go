package repository

import (
	"context"
	"fmt"

	"skinvault/database"
	"skinvault/models"

	"github.com/jackc/pgx/v5"
)

// InventoryRepository implements the service.InventoryRepository interface
type InventoryRepository struct {
	q queryable
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *database.DB) *InventoryRepository {
	return &InventoryRepository{q: db.Pool}
}

func newInventoryRepositoryWithTx(tx queryable) *InventoryRepository {
	return &InventoryRepository{q: tx}
}

const inventoryColumns = `id, user_id, skin_id, acquired_from, status, acquired_at, withdrawn_at`

func scanInventoryItem(row pgx.Row) (*models.InventoryItem, error) {
	var item models.InventoryItem
	err := row.Scan(
		&item.ID,
		&item.UserID,
		&item.SkinID,
		&item.AcquiredFrom,
		&item.Status,
		&item.AcquiredAt,
		&item.WithdrawnAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &item, nil
}

// Create creates a new inventory item
func (r *InventoryRepository) Create(ctx context.Context, item *models.InventoryItem) error {
	if item.AcquiredFrom == "" {
		item.AcquiredFrom = models.AcquiredFromCaseOpening
	}
	if item.Status == "" {
		item.Status = models.ItemStatusAvailable
	}

	query := `
		INSERT INTO inventory_items (user_id, skin_id, acquired_from, status)
		VALUES ($1, $2, $3, $4)
		RETURNING id, acquired_at
	`

	err := r.q.QueryRow(ctx, query,
		item.UserID,
		item.SkinID,
		item.AcquiredFrom,
		item.Status,
	).Scan(&item.ID, &item.AcquiredAt)
	if err != nil {
		return fmt.Errorf("failed to create inventory item for user %d: %w", item.UserID, err)
	}
	return nil
}

// GetByID retrieves an inventory item by its ID
func (r *InventoryRepository) GetByID(ctx context.Context, id int64) (*models.InventoryItem, error) {
	query := `SELECT ` + inventoryColumns + ` FROM inventory_items WHERE id = $1`

	item, err := scanInventoryItem(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get inventory item %d: %w", id, err)
	}
	return item, nil
}

// GetAvailableByUser returns a user's available items, newest first
func (r *InventoryRepository) GetAvailableByUser(ctx context.Context, userID int64) ([]*models.InventoryItem, error) {
	query := `
		SELECT ` + inventoryColumns + `
		FROM inventory_items
		WHERE user_id = $1 AND status = $2
		ORDER BY acquired_at DESC
	`

	rows, err := r.q.Query(ctx, query, userID, models.ItemStatusAvailable)
	if err != nil {
		return nil, fmt.Errorf("failed to get available items for user %d: %w", userID, err)
	}
	defer rows.Close()

	var items []*models.InventoryItem
	for rows.Next() {
		item, err := scanInventoryItem(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan inventory item: %w", err)
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

// UpdateStatus updates an item's status. The withdrawn timestamp is stamped
// when the item enters the withdrawn status and never cleared afterwards.
func (r *InventoryRepository) UpdateStatus(ctx context.Context, id int64, status models.ItemStatus) error {
	query := `
		UPDATE inventory_items
		SET status = $1,
		    withdrawn_at = CASE WHEN $1 = 'withdrawn' THEN NOW() ELSE withdrawn_at END
		WHERE id = $2
	`

	result, err := r.q.Exec(ctx, query, status, id)
	if err != nil {
		return fmt.Errorf("failed to update status of inventory item %d: %w", id, err)
	}
	if result.RowsAffected() == 0 {
		return models.ErrItemNotFound
	}
	return nil
}
