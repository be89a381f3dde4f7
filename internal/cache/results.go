package cache

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/ppiankov/neuroloc/internal/model"
)

// Results caches parse results for a given catalog
type Results struct {
	store       Store
	fingerprint string
	ttl         time.Duration
}

// NewResults wraps store for results produced under the catalog identified by fingerprint
func NewResults(store Store, fingerprint string, ttl time.Duration) *Results {
	return &Results{store: store, fingerprint: fingerprint, ttl: ttl}
}

// Get returns the cached result for text, if any
func (r *Results) Get(text string) (model.ParseResult, bool) {
	data, ok := r.store.Get(Key(r.fingerprint, text))
	if !ok {
		return model.ParseResult{}, false
	}

	var result model.ParseResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.ParseResult{}, false
	}
	return result, true
}

// Put stores the result for text
func (r *Results) Put(text string, result model.ParseResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode result: %w", err)
	}
	return r.store.Set(Key(r.fingerprint, text), data, r.ttl)
}
