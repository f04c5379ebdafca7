package steam

import (
	"context"
	"errors"
)

// ErrAssetNotFound is returned when the bot holds no asset matching the
// requested skin. Dispatch treats it as an ordinary retryable send failure.
var ErrAssetNotFound = errors.New("no matching asset in bot inventory")

// Asset identifies one tradable item in the bot's own holding
type Asset struct {
	AssetID        string
	AppID          int
	ContextID      int
	MarketHashName string
}

// SendResult is the outcome of a successfully created and sent offer
type SendResult struct {
	OfferID       string
	TradeHoldDays int
}

// OfferChange describes a state transition observed on a sent offer
type OfferChange struct {
	OfferID  string
	OldState OfferState
	NewState OfferState
}

// Session is the narrow capability set the fulfillment engine needs from the
// trading platform. Implementations are treated as unreliable: calls may fail
// or time out, and change notifications may be dropped, duplicated, or arrive
// out of order relative to other offers.
type Session interface {
	// LogOn authenticates the session. The worker must not start on failure.
	LogOn(ctx context.Context) error

	// FindAsset locates an asset in the bot's inventory matching the given
	// market hash name, so the user receives the exact skin they won.
	FindAsset(ctx context.Context, marketHashName string) (Asset, error)

	// CreateAndSend creates a trade offer for the destination and sends it
	CreateAndSend(ctx context.Context, dest TradeDestination, asset Asset, message string) (SendResult, error)

	// GetOfferState fetches the current state of a sent offer by id
	GetOfferState(ctx context.Context, offerID string) (OfferState, error)

	// DeclineOffer declines an incoming offer. The bot only ever sends.
	DeclineOffer(ctx context.Context, offerID string) error

	// OnSentOfferChanged registers a handler for sent offer state changes
	OnSentOfferChanged(fn func(change OfferChange))

	// OnIncomingOffer registers a handler for unsolicited incoming offers
	OnIncomingOffer(fn func(offerID string))

	// Close releases the session and stops change notification delivery
	Close()
}
