package steam

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"
)

var ErrInvalidTradeURL = errors.New("invalid trade URL: missing partner or token")

// TradeDestination is the parsed form of a user's trade URL
type TradeDestination struct {
	Partner uint32
	Token   string
}

// ParseTradeURL extracts the partner offset and access token from a trade URL.
// Both query parameters are required.
func ParseTradeURL(tradeURL string) (TradeDestination, error) {
	u, err := url.Parse(tradeURL)
	if err != nil {
		return TradeDestination{}, fmt.Errorf("invalid trade URL format: %w", err)
	}

	q := u.Query()
	partner := q.Get("partner")
	token := q.Get("token")
	if partner == "" || token == "" {
		return TradeDestination{}, ErrInvalidTradeURL
	}

	p, err := strconv.ParseUint(partner, 10, 32)
	if err != nil {
		return TradeDestination{}, fmt.Errorf("invalid trade URL partner %q: %w", partner, err)
	}

	return TradeDestination{Partner: uint32(p), Token: token}, nil
}

// PartnerToSteamID64 converts a partner offset to the full SteamID64, as a
// decimal string. The conversion is exact: "7656119" + (partner + 7960265728).
func PartnerToSteamID64(partner uint32) string {
	return "7656119" + strconv.FormatUint(uint64(partner)+7960265728, 10)
}
