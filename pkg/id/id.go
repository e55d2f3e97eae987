// Package id generates run identifiers.
package id

import (
	cryptoRand "crypto/rand"
	"fmt"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

var (
	mu      sync.Mutex
	entropy = ulid.Monotonic(cryptoRand.Reader, 0)
)

// New returns a ULID for a run started now.
func New() string {
	return At(time.Now())
}

// At returns a ULID stamped with t. IDs created within the same millisecond
// still sort in creation order.
func At(t time.Time) string {
	mu.Lock()
	defer mu.Unlock()

	id, err := ulid.New(ulid.Timestamp(t.UTC()), entropy)
	if err != nil {
		// Only reachable when the monotonic entropy overflows or crypto/rand fails.
		panic(err)
	}
	return id.String()
}

// Time extracts the creation time encoded in a run ID.
func Time(s string) (time.Time, error) {
	id, err := ulid.ParseStrict(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse run id %q: %w", s, err)
	}
	return ulid.Time(id.Time()).UTC(), nil
}
