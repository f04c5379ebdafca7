package repository

import (
	"context"
	"fmt"

	"skinvault/database"
	"skinvault/models"

	"github.com/jackc/pgx/v5"
)

// SkinRepository implements the service.SkinRepository interface
type SkinRepository struct {
	q queryable
}

// NewSkinRepository creates a new skin repository
func NewSkinRepository(db *database.DB) *SkinRepository {
	return &SkinRepository{q: db.Pool}
}

func newSkinRepositoryWithTx(tx queryable) *SkinRepository {
	return &SkinRepository{q: tx}
}

// Create creates a new skin definition
func (r *SkinRepository) Create(ctx context.Context, skin *models.Skin) error {
	query := `
		INSERT INTO skins (name, market_hash_name, rarity, image_url, price)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id, created_at
	`

	err := r.q.QueryRow(ctx, query,
		skin.Name,
		skin.MarketHashName,
		skin.Rarity,
		skin.ImageURL,
		skin.Price,
	).Scan(&skin.ID, &skin.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create skin %q: %w", skin.MarketHashName, err)
	}
	return nil
}

func (r *SkinRepository) scanOne(row pgx.Row) (*models.Skin, error) {
	var skin models.Skin
	err := row.Scan(
		&skin.ID,
		&skin.Name,
		&skin.MarketHashName,
		&skin.Rarity,
		&skin.ImageURL,
		&skin.Price,
		&skin.CreatedAt,
	)
	if err == pgx.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &skin, nil
}

// GetByID retrieves a skin by its ID
func (r *SkinRepository) GetByID(ctx context.Context, id int64) (*models.Skin, error) {
	query := `
		SELECT id, name, market_hash_name, rarity, image_url, price, created_at
		FROM skins
		WHERE id = $1
	`

	skin, err := r.scanOne(r.q.QueryRow(ctx, query, id))
	if err != nil {
		return nil, fmt.Errorf("failed to get skin %d: %w", id, err)
	}
	return skin, nil
}

// GetByMarketHashName retrieves a skin by its market hash name
func (r *SkinRepository) GetByMarketHashName(ctx context.Context, name string) (*models.Skin, error) {
	query := `
		SELECT id, name, market_hash_name, rarity, image_url, price, created_at
		FROM skins
		WHERE market_hash_name = $1
	`

	skin, err := r.scanOne(r.q.QueryRow(ctx, query, name))
	if err != nil {
		return nil, fmt.Errorf("failed to get skin %q: %w", name, err)
	}
	return skin, nil
}
