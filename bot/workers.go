package bot

import (
	"context"
	"time"

	log "github.com/sirupsen/logrus"
)

// StartDispatchWorker starts the background worker that drains the withdraw
// dispatch queue. Returns a cleanup function to stop the worker gracefully.
func (b *Bot) StartDispatchWorker(ctx context.Context) func() {
	ticker := time.NewTicker(b.cfg.QueuePollInterval)
	stopChan := make(chan struct{})

	go func() {
		log.Info("Withdraw dispatch worker started")

		// Run immediately on startup
		b.processQueue(ctx)

		for {
			select {
			case <-ctx.Done():
				log.Info("Withdraw dispatch worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Withdraw dispatch worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				b.processQueue(ctx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}

// StartOfferPollWorker starts the background worker that re-checks sent
// offers. Returns a cleanup function to stop the worker gracefully.
func (b *Bot) StartOfferPollWorker(ctx context.Context) func() {
	ticker := time.NewTicker(b.cfg.OfferPollInterval)
	stopChan := make(chan struct{})

	go func() {
		log.Info("Offer poll worker started")

		for {
			select {
			case <-ctx.Done():
				log.Info("Offer poll worker shutting down (context cancelled)...")
				return
			case <-stopChan:
				log.Info("Offer poll worker shutting down (stop requested)...")
				return
			case <-ticker.C:
				b.checkSentOffers(ctx)
			}
		}
	}()

	return func() {
		ticker.Stop()
		close(stopChan)
	}
}
