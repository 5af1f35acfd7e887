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

const dexscreenerPairAPI = "https://api.dexscreener.com/latest/dex/pairs"

type dexscreenerResp struct {
	Pair *struct {
		PriceUsd  string `json:"priceUsd"`
		BaseToken struct {
			Symbol string `json:"symbol"`
		} `json:"baseToken"`
	} `json:"pair"`
}

// DexScreener fetches on-chain pair prices from the DexScreener API.
// Keys have the form "dex:<chain>:<pairAddress>".
type DexScreener struct {
	client  *httpx.Client
	baseURL string
}

func NewDexScreener(client *httpx.Client) *DexScreener {
	return &DexScreener{
		client:  client,
		baseURL: dexscreenerPairAPI,
	}
}

func (d *DexScreener) Name() string { return "dexscreener" }

func (d *DexScreener) Fetch(ctx context.Context, key string) (*Quote, error) {
	chain, pair, err := dexPairKey(key)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/%s/%s", d.baseURL, chain, pair)

	resp, err := d.client.Get(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("dexscreener API: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != 200 {
		return nil, &httpx.StatusError{Source: d.Name(), StatusCode: resp.StatusCode}
	}

	var body dexscreenerResp
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return nil, fmt.Errorf("decode dexscreener pair: %w", err)
	}
	if body.Pair == nil {
		return nil, fmt.Errorf("dexscreener: no pair data for %s/%s", chain, pair)
	}

	price, err := strconv.ParseFloat(body.Pair.PriceUsd, 64)
	if err != nil {
		return nil, fmt.Errorf("parse dexscreener price %q: %w", body.Pair.PriceUsd, err)
	}

	return &Quote{
		Key:       key,
		Price:     price,
		Currency:  "USD",
		Source:    d.Name(),
		Status:    StatusOK,
		FetchedAt: time.Now().UTC(),
	}, nil
}

func dexPairKey(key string) (chain, pair string, err error) {
	rest, ok := strings.CutPrefix(key, "dex:")
	if !ok {
		return "", "", fmt.Errorf("dexscreener: key %q must have the form dex:<chain>:<pair>", key)
	}
	parts := strings.SplitN(rest, ":", 2)
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return "", "", fmt.Errorf("dexscreener: key %q must have the form dex:<chain>:<pair>", key)
	}
	return parts[0], parts[1], nil
}
