package bot

import (
	"context"
	"fmt"
	"time"

	"skinvault/models"
	"skinvault/steam"

	log "github.com/sirupsen/logrus"
)

// processQueue drains one batch of pending requests. Non-reentrant: a call
// that finds a prior run still in flight returns immediately.
func (b *Bot) processQueue(ctx context.Context) {
	if !b.dispatching.CompareAndSwap(false, true) {
		return
	}
	defer b.dispatching.Store(false)

	pending, err := b.withdrawService.GetPendingBatch(ctx, b.cfg.BatchSize)
	if err != nil {
		log.Errorf("Error fetching pending withdraw requests: %v", err)
		return
	}
	if len(pending) == 0 {
		return
	}

	log.Infof("Processing %d pending withdraw requests", len(pending))

	for i, req := range pending {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case <-time.After(b.cfg.SendDelay):
			}
		}
		b.dispatchRequest(ctx, req.ID)
	}
}

// dispatchRequest claims one request and attempts the external send. Every
// failure becomes a state transition plus a log record; nothing propagates
// past the batch loop.
func (b *Bot) dispatchRequest(ctx context.Context, requestID int64) {
	req, err := b.withdrawService.MarkProcessing(ctx, requestID)
	if err != nil {
		log.Errorf("Failed to claim withdraw request %d: %v", requestID, err)
		return
	}
	if req == nil {
		// No longer pending: cancelled or picked up elsewhere
		return
	}

	result, err := b.sendOffer(ctx, req)
	if err != nil {
		log.Errorf("Failed to send offer for withdraw request %d (attempt %d/%d): %v",
			req.ID, req.Attempts, req.MaxAttempts, err)
		if err := b.withdrawService.MarkSendFailed(ctx, req.ID, err.Error()); err != nil {
			log.Errorf("Failed to record send failure for request %d: %v", req.ID, err)
		}
		return
	}

	if err := b.withdrawService.MarkSent(ctx, req.ID, result.OfferID, result.TradeHoldDays); err != nil {
		log.Errorf("Failed to record sent offer #%s for request %d: %v", result.OfferID, req.ID, err)
		return
	}

	log.Infof("Withdraw request %d sent as offer #%s (hold %d days)", req.ID, result.OfferID, result.TradeHoldDays)
}

// sendOffer resolves the destination and the exact outbound asset for the
// skin the user won, then creates and sends the offer.
func (b *Bot) sendOffer(ctx context.Context, req *models.WithdrawRequest) (steam.SendResult, error) {
	dest, err := steam.ParseTradeURL(req.TradeURL)
	if err != nil {
		return steam.SendResult{}, err
	}

	skin, err := b.withdrawService.GetSkin(ctx, req.SkinID)
	if err != nil {
		return steam.SendResult{}, err
	}
	if skin == nil {
		return steam.SendResult{}, fmt.Errorf("skin %d not found", req.SkinID)
	}

	asset, err := b.session.FindAsset(ctx, skin.MarketHashName)
	if err != nil {
		return steam.SendResult{}, err
	}

	message := fmt.Sprintf("Withdrawal %s: %s", req.Reference, skin.Name)
	return b.session.CreateAndSend(ctx, dest, asset, message)
}
