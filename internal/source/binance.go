package source

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/httpx"
)

const binanceTickerAPI = "https://api.binance.com/api/v3/ticker/price"

type binanceTickerResp struct {
	Symbol string `json:"symbol"`
	Price  string `json:"price"`
}

// Binance fetches spot prices from the Binance public ticker API.
// Symbols are paired with the configured quote asset (USDT by default).
type Binance struct {
	client     *httpx.Client
	baseURL    string
	quoteAsset string
}

func NewBinance(client *httpx.Client, quoteAsset string) *Binance {
	if quoteAsset == "" {
		quoteAsset = "USDT"
	}
	return &Binance{
		client:     client,
		baseURL:    binanceTickerAPI,
		quoteAsset: quoteAsset,
	}
}

func (b *Binance) Name() string { return "binance" }

func (b *Binance) Fetch(ctx context.Context, key string) (*Quote, error) {
	pair := strings.ToUpper(SpotSymbol(key)) + b.quoteAsset
	url := fmt.Sprintf("%s?symbol=%s", b.baseURL, pair)

	resp, err := b.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("binance API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, &httpx.StatusError{Source: b.Name(), StatusCode: resp.StatusCode}
	}

	var ticker binanceTickerResp
	if err := json.NewDecoder(resp.Body).Decode(&ticker); err != nil {
		return nil, fmt.Errorf("decode binance ticker: %w", err)
	}

	price, err := strconv.ParseFloat(ticker.Price, 64)
	if err != nil {
		return nil, fmt.Errorf("parse binance price %q: %w", ticker.Price, err)
	}

	return &Quote{
		Key:       key,
		Price:     price,
		Currency:  b.quoteAsset,
		Source:    b.Name(),
		Status:    StatusOK,
		FetchedAt: time.Now().UTC(),
	}, nil
}

// SpotSymbol extracts the bare symbol from a "spot:SYM" lookup key.
// Bare symbols are passed through unchanged.
func SpotSymbol(key string) string {
	if rest, ok := strings.CutPrefix(key, "spot:"); ok {
		return rest
	}
	return key
}
