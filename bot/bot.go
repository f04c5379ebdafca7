package bot

import (
	"context"
	"fmt"
	"sync/atomic"

	"skinvault/events"
	"skinvault/models"
	"skinvault/service"
	"skinvault/steam"

	log "github.com/sirupsen/logrus"
)

// Bot drives withdraw fulfillment: it dispatches pending requests as trade
// offers and reconciles externally reported offer outcomes back into the
// ledger. One bot instance is assumed per deployment; the dispatch lease below
// is in-process only.
type Bot struct {
	cfg             Config
	session         steam.Session
	withdrawService service.WithdrawService
	eventBus        *events.Bus

	// dispatching is the single-flight lease for the dispatch loop: a tick
	// that arrives while a batch is in flight is skipped, not queued.
	dispatching atomic.Bool

	cleanups []func()
}

// New authenticates the trade session and wires the reconciliation handlers.
// A session that cannot log on aborts startup; the worker must never run
// half-initialized.
func New(ctx context.Context, cfg Config, session steam.Session, withdrawService service.WithdrawService, eventBus *events.Bus) (*Bot, error) {
	if err := session.LogOn(ctx); err != nil {
		return nil, fmt.Errorf("failed to log on to trade session: %w", err)
	}

	b := &Bot{
		cfg:             cfg,
		session:         session,
		withdrawService: withdrawService,
		eventBus:        eventBus,
	}

	session.OnSentOfferChanged(b.handleOfferChange)
	session.OnIncomingOffer(b.handleIncomingOffer)
	eventBus.Subscribe(events.EventTypeWithdrawStateChange, b.handleWithdrawStateChange)

	return b, nil
}

// Start recovers requests stranded by a previous run and starts the workers
func (b *Bot) Start(ctx context.Context) error {
	touched, err := b.withdrawService.RequeueStuckProcessing(ctx, b.cfg.QueuePollInterval)
	if err != nil {
		return fmt.Errorf("failed to recover stuck processing requests: %w", err)
	}
	if touched > 0 {
		log.Infof("Recovered %d withdraw requests stuck in processing", touched)
	}

	b.cleanups = append(b.cleanups,
		b.StartDispatchWorker(ctx),
		b.StartOfferPollWorker(ctx),
	)
	return nil
}

// Close stops the workers and releases the trade session
func (b *Bot) Close() {
	for _, cleanup := range b.cleanups {
		cleanup()
	}
	b.session.Close()
}

func (b *Bot) handleWithdrawStateChange(ctx context.Context, event events.Event) {
	e, ok := event.(events.WithdrawStateChangeEvent)
	if !ok {
		return
	}
	if models.IsTerminalStatus(e.NewStatus) {
		log.Infof("Withdraw request %d completed: %s -> %s (offer #%s)",
			e.RequestID, e.OldStatus, e.NewStatus, e.TradeOfferID)
	}
}
