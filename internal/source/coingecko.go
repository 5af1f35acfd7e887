package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/httpx"
)

const coingeckoSimpleAPI = "https://api.coingecko.com/api/v3/simple/price"

// coingeckoIDs maps ticker symbols to CoinGecko coin identifiers. Symbols
// missing from the map are tried lower-cased as-is.
var coingeckoIDs = map[string]string{
	"BTC":  "bitcoin",
	"ETH":  "ethereum",
	"SOL":  "solana",
	"BNB":  "binancecoin",
	"XRP":  "ripple",
	"ADA":  "cardano",
	"DOGE": "dogecoin",
	"DOT":  "polkadot",
	"AVAX": "avalanche-2",
	"LINK": "chainlink",
}

// CoinGecko fetches spot prices from the CoinGecko simple price API.
type CoinGecko struct {
	client   *httpx.Client
	baseURL  string
	currency string
}

func NewCoinGecko(client *httpx.Client, currency string) *CoinGecko {
	if currency == "" {
		currency = "usd"
	}
	return &CoinGecko{
		client:   client,
		baseURL:  coingeckoSimpleAPI,
		currency: strings.ToLower(currency),
	}
}

func (c *CoinGecko) Name() string { return "coingecko" }

func (c *CoinGecko) Fetch(ctx context.Context, key string) (*Quote, error) {
	symbol := strings.ToUpper(SpotSymbol(key))
	id, ok := coingeckoIDs[symbol]
	if !ok {
		id = strings.ToLower(symbol)
	}

	url := fmt.Sprintf("%s?ids=%s&vs_currencies=%s", c.baseURL, id, c.currency)

	resp, err := c.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("coingecko API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, &httpx.StatusError{Source: c.Name(), StatusCode: resp.StatusCode}
	}

	var body map[string]map[string]float64
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode coingecko price: %w", err)
	}

	prices, ok := body[id]
	if !ok {
		return nil, fmt.Errorf("coingecko: no data for %q", id)
	}
	price, ok := prices[c.currency]
	if !ok {
		return nil, fmt.Errorf("coingecko: no %s price for %q", c.currency, id)
	}

	return &Quote{
		Key:       key,
		Price:     price,
		Currency:  strings.ToUpper(c.currency),
		Source:    c.Name(),
		Status:    StatusOK,
		FetchedAt: time.Now().UTC(),
	}, nil
}
