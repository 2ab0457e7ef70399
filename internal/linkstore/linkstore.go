package linkstore

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"time"
)

// KeyLength is the number of hex characters in a link key.
const KeyLength = 16

// DefaultTTL is how long a stored link stays resolvable.
const DefaultTTL = 24 * time.Hour

// ErrNotFound is returned when a key is unknown or expired.
var ErrNotFound = errors.New("link not found")

// Store maps short keys to audio URLs that do not fit into a button payload.
type Store interface {
	Put(ctx context.Context, url string) (string, error)
	Resolve(ctx context.Context, key string) (string, error)
}

// Key derives the deterministic key for url.
func Key(url string) string {
	sum := sha256.Sum256([]byte(url))
	return hex.EncodeToString(sum[:])[:KeyLength]
}
