package models

import "time"

// User represents a platform user and their crystal balance
type User struct {
	ID        int64     `db:"id"`
	SteamID   int64     `db:"steam_id"`
	Username  string    `db:"username"`
	Crystals  int64     `db:"crystals"`
	TradeURL  *string   `db:"trade_url"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}

// HasTradeURL checks whether the user has set a trade destination
func (u *User) HasTradeURL() bool {
	return u.TradeURL != nil && *u.TradeURL != ""
}
