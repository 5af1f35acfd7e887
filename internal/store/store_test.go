package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
)

// The DOWN rejection happens before any database round trip, so a Store
// with no pool exercises it.

func TestSaveQuoteRejectsDown(t *testing.T) {
	s := &Store{}
	err := s.SaveQuote(context.Background(), &source.Quote{
		Key:    "spot:BTC",
		Price:  100,
		Source: "binance",
		Status: source.StatusDown,
	})
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DOWN")
}

func TestSaveQuoteRejectsNil(t *testing.T) {
	s := &Store{}
	err := s.SaveQuote(context.Background(), nil)
	assert.Error(t, err)
}

func TestNullTime(t *testing.T) {
	assert.Nil(t, nullTime(time.Time{}))
	assert.NotNil(t, nullTime(time.Now()))
}
