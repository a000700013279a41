package localink

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

// HashText computes the SHA-256 hash of the trimmed text.
func HashText(text string) string {
	trimmed := strings.TrimSpace(text)
	hash := sha256.Sum256([]byte(trimmed))
	return hex.EncodeToString(hash[:])
}

// CacheKey generates a translation cache key from a text hash and the
// source/target locale pair. Translations of the same string into different
// locales must never share an entry.
func CacheKey(hash, sourceLocale, targetLocale string) string {
	return hash + ":" + sourceLocale + ":" + targetLocale
}
