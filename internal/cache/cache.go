// Package cache stores expensive intermediate artifacts: extracted document
// text keyed by PDF content, and analysis results keyed by content plus the
// template and model that produced them.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// TextKey generates a cache key for extracted text from PDF content
func TextKey(pdf []byte) string {
	hash := sha256.Sum256(pdf)
	return "conforma:v1:text:" + hex.EncodeToString(hash[:])
}

// ResultKey generates a cache key for an analysis result. The template
// category and model are part of the key so that changing either never
// serves a stale verdict.
func ResultKey(pdf []byte, category, model string) string {
	h := sha256.New()
	h.Write(pdf)
	h.Write([]byte{0})
	h.Write([]byte(category))
	h.Write([]byte{0})
	h.Write([]byte(model))
	return "conforma:v1:result:" + hex.EncodeToString(h.Sum(nil))
}
