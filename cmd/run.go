package cmd

import (
	"context"
	"fmt"
	"log"
	"time"

	"skinvault/bot"
	"skinvault/config"
	"skinvault/database"
	"skinvault/events"
	"skinvault/repository"
	"skinvault/service"
	"skinvault/steam"
)

// Run initializes and starts the application
func Run(ctx context.Context) error {
	log.Println("Starting withdraw fulfillment bot...")

	// Load configuration
	cfg := config.Get()

	// Initialize database connection
	log.Println("Connecting to database...")
	db, err := database.NewConnection(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	log.Println("Database connection established successfully")

	// Initialize event bus
	eventBus := events.NewBus()

	// Initialize unit of work factory
	uowFactory := repository.NewUnitOfWorkFactory(db, eventBus)

	// Initialize services
	withdrawService := service.NewWithdrawService(uowFactory, cfg.MaxSendAttempts)

	// Initialize trade session
	session := steam.NewClient(steam.Config{
		APIKey:      cfg.SteamAPIKey,
		SteamID:     cfg.SteamBotID,
		SessionID:   cfg.SteamSessionID,
		LoginSecure: cfg.SteamLoginSecure,
	})

	// Initialize fulfillment bot; a session that cannot authenticate
	// aborts startup here
	log.Println("Initializing fulfillment bot...")
	botConfig := bot.Config{
		QueuePollInterval: cfg.QueuePollInterval,
		OfferPollInterval: cfg.OfferPollInterval,
		SendDelay:         cfg.SendDelay,
		BatchSize:         cfg.DispatchBatchSize,
	}
	fulfillmentBot, err := bot.New(ctx, botConfig, session, withdrawService, eventBus)
	if err != nil {
		return fmt.Errorf("failed to initialize fulfillment bot: %w", err)
	}
	if err := fulfillmentBot.Start(ctx); err != nil {
		return fmt.Errorf("failed to start fulfillment bot: %w", err)
	}
	log.Println("Fulfillment bot started successfully")

	// Wait for context cancellation
	log.Printf("Bot is running in %s mode...", cfg.Environment)
	<-ctx.Done()

	// Cleanup resources
	log.Println("Shutting down bot...")
	fulfillmentBot.Close()

	// Give cleanup operations time to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	log.Println("Closing database connection...")
	db.Close()

	select {
	case <-shutdownCtx.Done():
		log.Println("Shutdown timeout exceeded")
	case <-time.After(1 * time.Second):
		log.Println("Shutdown completed")
	}

	return nil
}
