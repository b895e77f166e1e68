package util

import (
	"math/rand"
	"time"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string, used as a per-request correlation ID.
// Each call builds its own entropy source seeded with the current time,
// which is sufficient for request tagging; strict monotonicity across
// concurrent callers is not required here.
func NewULID() string {
	entropy := ulid.Monotonic(rand.New(rand.NewSource(time.Now().UnixNano())), 0)
	return ulid.MustNew(ulid.Timestamp(time.Now()), entropy).String()
}
