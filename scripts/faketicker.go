// Faketicker is a local stand-in for the upstream price APIs. It serves
// Binance-shaped and CoinGecko-shaped endpoints with a random-walk price
// and can inject failures to exercise retry and breaker behavior.
//
// Usage:
//
//	go run faketicker.go -port 9090 -fail-rate 0.2
//
// Point the source base URLs at it and watch the chain degrade and recover.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"math/rand"
	"net/http"
	"strings"
	"sync"
)

type ticker struct {
	mutex  sync.Mutex
	prices map[string]float64
}

func (t *ticker) price(symbol string) float64 {
	t.mutex.Lock()
	defer t.mutex.Unlock()

	p, ok := t.prices[symbol]
	if !ok {
		p = 100 + rand.Float64()*1000
	}
	// random walk, +/-0.5%
	p *= 1 + (rand.Float64()-0.5)/100
	t.prices[symbol] = p
	return p
}

func main() {
	port := flag.Int("port", 9090, "port to listen on")
	failRate := flag.Float64("fail-rate", 0, "fraction of requests answered with 503")
	flag.Parse()

	t := &ticker{prices: map[string]float64{
		"BTCUSDT": 64000,
		"ETHUSDT": 3400,
		"bitcoin": 64000,
	}}

	maybeFail := func(w http.ResponseWriter) bool {
		if rand.Float64() < *failRate {
			http.Error(w, `{"error":"service unavailable"}`, http.StatusServiceUnavailable)
			return true
		}
		return false
	}

	mux := http.NewServeMux()

	// Binance shape: /api/v3/ticker/price?symbol=BTCUSDT
	mux.HandleFunc("/api/v3/ticker/price", func(w http.ResponseWriter, r *http.Request) {
		if maybeFail(w) {
			return
		}
		symbol := r.URL.Query().Get("symbol")
		if symbol == "" {
			http.Error(w, `{"error":"missing symbol"}`, http.StatusBadRequest)
			return
		}
		log.Printf("binance request: symbol=%s from=%s", symbol, r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(map[string]string{
			"symbol": symbol,
			"price":  fmt.Sprintf("%.8f", t.price(symbol)),
		})
	})

	// CoinGecko shape: /api/v3/simple/price?ids=bitcoin&vs_currencies=usd
	mux.HandleFunc("/api/v3/simple/price", func(w http.ResponseWriter, r *http.Request) {
		if maybeFail(w) {
			return
		}
		currency := r.URL.Query().Get("vs_currencies")
		if currency == "" {
			currency = "usd"
		}
		out := make(map[string]map[string]float64)
		for _, id := range strings.Split(r.URL.Query().Get("ids"), ",") {
			if id == "" {
				continue
			}
			out[id] = map[string]float64{currency: t.price(id)}
		}
		log.Printf("coingecko request: ids=%v from=%s", r.URL.Query().Get("ids"), r.RemoteAddr)
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(out)
	})

	mux.HandleFunc("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	addr := fmt.Sprintf(":%d", *port)
	log.Printf("faketicker listening on %s (fail rate %.2f)", addr, *failRate)
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Fatalf("server error: %v", err)
	}
}
