package models

import "time"

// Skin represents a collectible item definition
type Skin struct {
	ID             int64     `db:"id"`
	Name           string    `db:"name"`
	MarketHashName string    `db:"market_hash_name"`
	Rarity         string    `db:"rarity"`
	ImageURL       string    `db:"image_url"`
	Price          int64     `db:"price"`
	CreatedAt      time.Time `db:"created_at"`
}
