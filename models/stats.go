package models

// WithdrawStats holds request counts per status
type WithdrawStats struct {
	Pending    int64
	Processing int64
	Sent       int64
	Accepted   int64
	Declined   int64
	Failed     int64
	Cancelled  int64
	Total      int64
}
