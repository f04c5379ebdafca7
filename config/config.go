package config

import (
	"fmt"
	"os"
	"strconv"
	"sync"
	"time"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL string

	// Steam session configuration
	SteamAPIKey      string
	SteamBotID       string // the bot account's SteamID64
	SteamSessionID   string
	SteamLoginSecure string

	// Fulfillment configuration
	QueuePollInterval time.Duration // dispatch queue drain interval
	OfferPollInterval time.Duration // sent-offer poll fallback interval
	SendDelay         time.Duration // delay between sends within a batch
	DispatchBatchSize int           // max requests dispatched per run
	MaxSendAttempts   int           // dispatch attempts ceiling per request

	// Environment
	Environment string // "development" or "production"
}

var (
	instance *Config
	once     sync.Once
)

// Get returns the global configuration instance
func Get() *Config {
	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// Database
		DatabaseURL: os.Getenv("DATABASE_URL"),

		// Steam
		SteamAPIKey:      os.Getenv("STEAM_API_KEY"),
		SteamBotID:       os.Getenv("STEAM_BOT_ID"),
		SteamSessionID:   os.Getenv("STEAM_SESSION_ID"),
		SteamLoginSecure: os.Getenv("STEAM_LOGIN_SECURE"),

		// Fulfillment settings with defaults
		QueuePollInterval: 10 * time.Second,
		OfferPollInterval: 60 * time.Second,
		SendDelay:         2 * time.Second,
		DispatchBatchSize: 5,
		MaxSendAttempts:   3,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if v := os.Getenv("QUEUE_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.QueuePollInterval = d
		}
	}
	if v := os.Getenv("OFFER_POLL_INTERVAL"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.OfferPollInterval = d
		}
	}
	if v := os.Getenv("SEND_DELAY"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			config.SendDelay = d
		}
	}
	if v := os.Getenv("DISPATCH_BATCH_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.DispatchBatchSize = n
		}
	}
	if v := os.Getenv("MAX_SEND_ATTEMPTS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			config.MaxSendAttempts = n
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.SteamAPIKey == "" {
			return nil, fmt.Errorf("STEAM_API_KEY is required")
		}
		if config.SteamBotID == "" {
			return nil, fmt.Errorf("STEAM_BOT_ID is required")
		}
	}

	return config, nil
}
