package bot

import "time"

// Config holds the fulfillment worker tuning
type Config struct {
	// QueuePollInterval is how often the dispatch queue is drained
	QueuePollInterval time.Duration

	// OfferPollInterval is how often sent offers are re-fetched as the
	// fallback for dropped change notifications
	OfferPollInterval time.Duration

	// SendDelay is the pause between successive sends within a batch,
	// to respect external rate limits
	SendDelay time.Duration

	// BatchSize is the maximum number of requests dispatched per run
	BatchSize int
}
