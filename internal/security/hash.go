package security

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashToken maps a raw token string to the hex sha256 digest used as its
// storage key. Raw refresh tokens are never persisted; only this digest is.
func HashToken(raw string) string {
	sum := sha256.Sum256([]byte(raw))
	return hex.EncodeToString(sum[:])
}

// SHA256TokenHasher adapts HashToken to the service-layer TokenHasher port.
type SHA256TokenHasher struct{}

func (SHA256TokenHasher) Hash(raw string) string {
	return HashToken(raw)
}
