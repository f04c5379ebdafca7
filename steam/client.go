package steam

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	apiBaseURL       = "https://api.steampowered.com"
	communityBaseURL = "https://steamcommunity.com"

	defaultAppID     = 730
	defaultContextID = 2
)

// Config holds the credentials and tuning for a web trade session
type Config struct {
	APIKey      string
	SteamID     string // the bot account's SteamID64
	SessionID   string // community session cookie
	LoginSecure string // steamLoginSecure cookie
	AppID       int
	ContextID   int

	// HTTPTimeout bounds every platform round trip. Timeouts surface as
	// ordinary send/fetch errors.
	HTTPTimeout time.Duration

	// ChangePollInterval is how often sent offers are diffed to synthesize
	// state-change notifications.
	ChangePollInterval time.Duration
}

// Client implements Session against the platform's web endpoints. State-change
// notifications are synthesized by polling the sent-offer list and diffing it
// against the last observed state per offer.
type Client struct {
	cfg  Config
	http *http.Client

	mu             sync.Mutex
	sentStates     map[string]OfferState
	changeHandlers []func(OfferChange)
	incomingSeen   map[string]bool
	inHandlers     []func(string)

	stopChan chan struct{}
	stopOnce sync.Once
}

// NewClient creates a web trade session client
func NewClient(cfg Config) *Client {
	if cfg.AppID == 0 {
		cfg.AppID = defaultAppID
	}
	if cfg.ContextID == 0 {
		cfg.ContextID = defaultContextID
	}
	if cfg.HTTPTimeout == 0 {
		cfg.HTTPTimeout = 30 * time.Second
	}
	if cfg.ChangePollInterval == 0 {
		cfg.ChangePollInterval = 30 * time.Second
	}

	return &Client{
		cfg:          cfg,
		http:         &http.Client{Timeout: cfg.HTTPTimeout},
		sentStates:   make(map[string]OfferState),
		incomingSeen: make(map[string]bool),
		stopChan:     make(chan struct{}),
	}
}

// LogOn verifies the credentials by listing trade offers, seeds the
// change-detection state, and starts the notification poller.
func (c *Client) LogOn(ctx context.Context) error {
	if c.cfg.APIKey == "" {
		return fmt.Errorf("steam session: API key not configured")
	}
	if c.cfg.SteamID == "" {
		return fmt.Errorf("steam session: bot steam ID not configured")
	}

	offers, err := c.getTradeOffers(ctx)
	if err != nil {
		return fmt.Errorf("steam session: authentication check failed: %w", err)
	}

	c.mu.Lock()
	for _, offer := range offers.Sent {
		c.sentStates[offer.TradeOfferID] = OfferState(offer.State)
	}
	for _, offer := range offers.Received {
		// Pre-existing incoming offers are not re-announced
		c.incomingSeen[offer.TradeOfferID] = true
	}
	c.mu.Unlock()

	go c.pollChanges()

	log.Infof("Steam session established for bot %s (%d sent offers tracked)", c.cfg.SteamID, len(offers.Sent))
	return nil
}

// FindAsset locates an asset matching the market hash name in the bot inventory
func (c *Client) FindAsset(ctx context.Context, marketHashName string) (Asset, error) {
	endpoint := fmt.Sprintf("%s/inventory/%s/%d/%d?l=english&count=5000",
		communityBaseURL, c.cfg.SteamID, c.cfg.AppID, c.cfg.ContextID)

	var payload struct {
		Assets []struct {
			AssetID string `json:"assetid"`
			ClassID string `json:"classid"`
		} `json:"assets"`
		Descriptions []struct {
			ClassID        string `json:"classid"`
			MarketHashName string `json:"market_hash_name"`
			Tradable       int    `json:"tradable"`
		} `json:"descriptions"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return Asset{}, fmt.Errorf("failed to load bot inventory: %w", err)
	}

	wantClass := make(map[string]bool)
	for _, d := range payload.Descriptions {
		if d.MarketHashName == marketHashName && d.Tradable == 1 {
			wantClass[d.ClassID] = true
		}
	}
	for _, a := range payload.Assets {
		if wantClass[a.ClassID] {
			return Asset{
				AssetID:        a.AssetID,
				AppID:          c.cfg.AppID,
				ContextID:      c.cfg.ContextID,
				MarketHashName: marketHashName,
			}, nil
		}
	}

	return Asset{}, fmt.Errorf("%w: %s", ErrAssetNotFound, marketHashName)
}

// CreateAndSend creates a trade offer giving the asset to the destination
// account and sends it.
func (c *Client) CreateAndSend(ctx context.Context, dest TradeDestination, asset Asset, message string) (SendResult, error) {
	holdDays, err := c.getTradeHoldDays(ctx, dest)
	if err != nil {
		// Hold duration is advisory; the send itself decides success
		log.Warnf("Failed to fetch trade hold duration for partner %d: %v", dest.Partner, err)
		holdDays = 0
	}

	tradeOffer := map[string]any{
		"newversion": true,
		"version":    4,
		"me": map[string]any{
			"assets": []map[string]any{{
				"appid":     asset.AppID,
				"contextid": strconv.Itoa(asset.ContextID),
				"amount":    1,
				"assetid":   asset.AssetID,
			}},
			"currency": []any{},
			"ready":    false,
		},
		"them": map[string]any{
			"assets":   []any{},
			"currency": []any{},
			"ready":    false,
		},
	}
	offerJSON, err := json.Marshal(tradeOffer)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to encode trade offer: %w", err)
	}
	createParams, err := json.Marshal(map[string]string{"trade_offer_access_token": dest.Token})
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to encode offer params: %w", err)
	}

	form := url.Values{}
	form.Set("sessionid", c.cfg.SessionID)
	form.Set("serverid", "1")
	form.Set("partner", PartnerToSteamID64(dest.Partner))
	form.Set("tradeoffermessage", message)
	form.Set("json_tradeoffer", string(offerJSON))
	form.Set("trade_offer_create_params", string(createParams))

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		communityBaseURL+"/tradeoffer/new/send", strings.NewReader(form.Encode()))
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to build send request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Referer", fmt.Sprintf("%s/tradeoffer/new/?partner=%d&token=%s",
		communityBaseURL, dest.Partner, url.QueryEscape(dest.Token)))
	c.setCookies(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to send trade offer: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return SendResult{}, fmt.Errorf("failed to read send response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return SendResult{}, fmt.Errorf("trade offer send returned HTTP %d: %s", resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var result struct {
		TradeOfferID string `json:"tradeofferid"`
		StrError     string `json:"strError"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return SendResult{}, fmt.Errorf("failed to decode send response: %w", err)
	}
	if result.StrError != "" {
		return SendResult{}, fmt.Errorf("trade offer rejected: %s", result.StrError)
	}
	if result.TradeOfferID == "" {
		return SendResult{}, fmt.Errorf("trade offer send returned no offer id")
	}

	c.mu.Lock()
	c.sentStates[result.TradeOfferID] = OfferStateActive
	c.mu.Unlock()

	return SendResult{OfferID: result.TradeOfferID, TradeHoldDays: holdDays}, nil
}

// GetOfferState fetches the current state of a sent offer
func (c *Client) GetOfferState(ctx context.Context, offerID string) (OfferState, error) {
	endpoint := fmt.Sprintf("%s/IEconService/GetTradeOffer/v1/?key=%s&tradeofferid=%s",
		apiBaseURL, url.QueryEscape(c.cfg.APIKey), url.QueryEscape(offerID))

	var payload struct {
		Response struct {
			Offer *tradeOfferData `json:"offer"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, fmt.Errorf("failed to fetch offer %s: %w", offerID, err)
	}
	if payload.Response.Offer == nil {
		return 0, fmt.Errorf("offer %s not found", offerID)
	}
	return OfferState(payload.Response.Offer.State), nil
}

// DeclineOffer declines an incoming offer
func (c *Client) DeclineOffer(ctx context.Context, offerID string) error {
	form := url.Values{}
	form.Set("key", c.cfg.APIKey)
	form.Set("tradeofferid", offerID)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost,
		apiBaseURL+"/IEconService/DeclineTradeOffer/v1/", strings.NewReader(form.Encode()))
	if err != nil {
		return fmt.Errorf("failed to build decline request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("failed to decline offer %s: %w", offerID, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("decline offer %s returned HTTP %d", offerID, resp.StatusCode)
	}
	return nil
}

// OnSentOfferChanged registers a handler for sent offer state changes
func (c *Client) OnSentOfferChanged(fn func(OfferChange)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.changeHandlers = append(c.changeHandlers, fn)
}

// OnIncomingOffer registers a handler for unsolicited incoming offers
func (c *Client) OnIncomingOffer(fn func(string)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.inHandlers = append(c.inHandlers, fn)
}

// Close stops the change notification poller
func (c *Client) Close() {
	c.stopOnce.Do(func() {
		close(c.stopChan)
	})
}

type tradeOfferData struct {
	TradeOfferID string `json:"tradeofferid"`
	State        int    `json:"trade_offer_state"`
	IsOurOffer   bool   `json:"is_our_offer"`
}

type tradeOfferList struct {
	Sent     []tradeOfferData
	Received []tradeOfferData
}

func (c *Client) getTradeOffers(ctx context.Context) (*tradeOfferList, error) {
	endpoint := fmt.Sprintf("%s/IEconService/GetTradeOffers/v1/?key=%s&get_sent_offers=1&get_received_offers=1&active_only=0",
		apiBaseURL, url.QueryEscape(c.cfg.APIKey))

	var payload struct {
		Response struct {
			Sent     []tradeOfferData `json:"trade_offers_sent"`
			Received []tradeOfferData `json:"trade_offers_received"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return nil, err
	}
	return &tradeOfferList{Sent: payload.Response.Sent, Received: payload.Response.Received}, nil
}

func (c *Client) getTradeHoldDays(ctx context.Context, dest TradeDestination) (int, error) {
	endpoint := fmt.Sprintf("%s/IEconService/GetTradeHoldDurations/v1/?key=%s&steamid_target=%s&trade_offer_access_token=%s",
		apiBaseURL, url.QueryEscape(c.cfg.APIKey), PartnerToSteamID64(dest.Partner), url.QueryEscape(dest.Token))

	var payload struct {
		Response struct {
			TheirEscrow struct {
				EscrowEndDurationSeconds int64 `json:"escrow_end_duration_seconds"`
			} `json:"their_escrow"`
		} `json:"response"`
	}
	if err := c.getJSON(ctx, endpoint, &payload); err != nil {
		return 0, err
	}

	seconds := payload.Response.TheirEscrow.EscrowEndDurationSeconds
	if seconds <= 0 {
		return 0, nil
	}
	return int((seconds + 86399) / 86400), nil
}

// pollChanges diffs sent offers against the last observed state and invokes
// handlers for every change. New incoming offers are announced once.
func (c *Client) pollChanges() {
	ticker := time.NewTicker(c.cfg.ChangePollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.stopChan:
			return
		case <-ticker.C:
		}

		ctx, cancel := context.WithTimeout(context.Background(), c.cfg.HTTPTimeout)
		offers, err := c.getTradeOffers(ctx)
		cancel()
		if err != nil {
			log.Warnf("Offer change poll failed: %v", err)
			continue
		}

		var changes []OfferChange
		var incoming []string

		c.mu.Lock()
		for _, offer := range offers.Sent {
			newState := OfferState(offer.State)
			oldState, known := c.sentStates[offer.TradeOfferID]
			if known && oldState == newState {
				continue
			}
			c.sentStates[offer.TradeOfferID] = newState
			if known {
				changes = append(changes, OfferChange{
					OfferID:  offer.TradeOfferID,
					OldState: oldState,
					NewState: newState,
				})
			}
		}
		for _, offer := range offers.Received {
			if offer.IsOurOffer || c.incomingSeen[offer.TradeOfferID] {
				continue
			}
			c.incomingSeen[offer.TradeOfferID] = true
			if OfferState(offer.State) == OfferStateActive {
				incoming = append(incoming, offer.TradeOfferID)
			}
		}
		changeHandlers := make([]func(OfferChange), len(c.changeHandlers))
		copy(changeHandlers, c.changeHandlers)
		inHandlers := make([]func(string), len(c.inHandlers))
		copy(inHandlers, c.inHandlers)
		c.mu.Unlock()

		for _, change := range changes {
			log.Infof("Offer #%s changed: %s -> %s", change.OfferID, change.OldState, change.NewState)
			for _, fn := range changeHandlers {
				fn(change)
			}
		}
		for _, offerID := range incoming {
			for _, fn := range inHandlers {
				fn(offerID)
			}
		}
	}
}

func (c *Client) getJSON(ctx context.Context, endpoint string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	c.setCookies(req)

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("HTTP %d from %s", resp.StatusCode, req.URL.Host)
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

func (c *Client) setCookies(req *http.Request) {
	if c.cfg.SessionID != "" {
		req.AddCookie(&http.Cookie{Name: "sessionid", Value: c.cfg.SessionID})
	}
	if c.cfg.LoginSecure != "" {
		req.AddCookie(&http.Cookie{Name: "steamLoginSecure", Value: c.cfg.LoginSecure})
	}
}
