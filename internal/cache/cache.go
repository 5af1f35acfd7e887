package cache

import (
	"sync"
	"time"

	"github.com/AlpharomeroJL/Crypto-Anaylzer-sub001/internal/source"
)

// entry stores the last good quote for one key with its insertion time.
type entry struct {
	quote    source.Quote
	storedAt time.Time
}

// LastKnownGood remembers the most recent successful quote per key, bounded
// by a max age. Stale entries are ignored rather than proactively evicted;
// they stay dead until overwritten.
type LastKnownGood struct {
	mutex  sync.RWMutex
	maxAge time.Duration
	items  map[string]entry
}

func NewLastKnownGood(maxAge time.Duration) *LastKnownGood {
	return &LastKnownGood{
		maxAge: maxAge,
		items:  make(map[string]entry),
	}
}

// Put unconditionally overwrites the entry for key with a copy of the
// quote and the current time.
func (c *LastKnownGood) Put(key string, quote *source.Quote) {
	if quote == nil {
		return
	}

	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.items[key] = entry{quote: *quote, storedAt: time.Now()}
}

// Get returns a copy of the stored quote only while its age is within the
// max age. Age is measured from insertion, not from the quote's own fetch
// timestamp.
func (c *LastKnownGood) Get(key string) (*source.Quote, bool) {
	c.mutex.RLock()
	defer c.mutex.RUnlock()

	e, ok := c.items[key]
	if !ok {
		return nil, false
	}
	if time.Since(e.storedAt) > c.maxAge {
		return nil, false
	}

	quote := e.quote
	return &quote, true
}

// Len returns the number of tracked keys, fresh or stale.
func (c *LastKnownGood) Len() int {
	c.mutex.RLock()
	defer c.mutex.RUnlock()
	return len(c.items)
}
