package source

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/httpx"
)

func TestBinanceFetch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "BTCUSDT", r.URL.Query().Get("symbol"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"64250.50000000"}`))
	}))
	defer srv.Close()

	b := NewBinance(httpx.New(0), "USDT")
	b.baseURL = srv.URL

	q, err := b.Fetch(context.Background(), "spot:BTC")
	require.NoError(t, err)
	assert.Equal(t, "spot:BTC", q.Key)
	assert.Equal(t, 64250.5, q.Price)
	assert.Equal(t, "USDT", q.Currency)
	assert.Equal(t, "binance", q.Source)
	assert.Equal(t, StatusOK, q.Status)
	assert.False(t, q.FetchedAt.IsZero())
}

func TestBinanceFetchNon200(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "teapot", http.StatusTeapot)
	}))
	defer srv.Close()

	b := NewBinance(httpx.New(0), "")
	b.baseURL = srv.URL

	_, err := b.Fetch(context.Background(), "spot:BTC")
	require.Error(t, err)

	var statusErr *httpx.StatusError
	require.True(t, errors.As(err, &statusErr))
	assert.Equal(t, http.StatusTeapot, statusErr.StatusCode)
	assert.Equal(t, "binance", statusErr.Source)
}

func TestBinanceFetchBadPrice(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"symbol":"BTCUSDT","price":"not-a-number"}`))
	}))
	defer srv.Close()

	b := NewBinance(httpx.New(0), "USDT")
	b.baseURL = srv.URL

	_, err := b.Fetch(context.Background(), "spot:BTC")
	assert.Error(t, err)
}

func TestSpotSymbol(t *testing.T) {
	assert.Equal(t, "BTC", SpotSymbol("spot:BTC"))
	assert.Equal(t, "ETH", SpotSymbol("ETH"))
	assert.Equal(t, "", SpotSymbol("spot:"))
}
