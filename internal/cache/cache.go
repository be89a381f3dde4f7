// Package cache memoizes parse results. Results are a pure function of the
// catalog and the input text, so entries never go stale until the catalog
// changes, which changes the key.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Store is one byte-oriented cache layer
type Store interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// Key derives the cache key for text parsed under the catalog identified by fingerprint
func Key(fingerprint, text string) string {
	h := sha256.New()
	h.Write([]byte(fingerprint))
	h.Write([]byte{0})
	h.Write([]byte(text))
	return "neuroloc:v1:" + hex.EncodeToString(h.Sum(nil))
}
