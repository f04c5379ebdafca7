package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"

	"skinvault/steam"
)

const handlerTimeout = 30 * time.Second

// handleOfferChange is the push path of reconciliation. It routes through the
// same idempotent apply as the poll fallback, so duplicate delivery is harmless.
func (b *Bot) handleOfferChange(change steam.OfferChange) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := b.withdrawService.ApplyOfferState(ctx, change.OfferID, change.NewState); err != nil {
		log.Errorf("Failed to apply state %s for offer #%s: %v", change.NewState, change.OfferID, err)
	}
}

// handleIncomingOffer declines anything the remote party sends us. The bot
// only ever sends offers.
func (b *Bot) handleIncomingOffer(offerID string) {
	ctx, cancel := context.WithTimeout(context.Background(), handlerTimeout)
	defer cancel()

	if err := b.session.DeclineOffer(ctx, offerID); err != nil {
		log.Errorf("Failed to decline incoming offer #%s: %v", offerID, err)
		return
	}
	log.Infof("Declined incoming offer #%s", offerID)
}

// checkSentOffers is the poll fallback: every sent request has its offer state
// re-fetched and re-applied, so the ledger converges even when change
// notifications are silently dropped.
func (b *Bot) checkSentOffers(ctx context.Context) {
	sent, err := b.withdrawService.GetSentRequests(ctx)
	if err != nil {
		log.Errorf("Error fetching sent withdraw requests: %v", err)
		return
	}

	for _, req := range sent {
		if req.TradeOfferID == nil {
			continue
		}

		state, err := b.session.GetOfferState(ctx, *req.TradeOfferID)
		if err != nil {
			log.Errorf("Failed to fetch offer #%s for request %d: %v", *req.TradeOfferID, req.ID, err)
			continue
		}

		if err := b.withdrawService.ApplyOfferState(ctx, *req.TradeOfferID, state); err != nil {
			log.Errorf("Failed to apply polled state %s for offer #%s: %v", state, *req.TradeOfferID, err)
		}
	}
}
