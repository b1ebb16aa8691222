package services

import (
	"math/rand"
	"strconv"
	"time"
)

// maxIDAttempts bounds the generate-and-insert loop at checkout.
const maxIDAttempts = 10

// NewOrderID derives a 12-digit order identifier from the current
// millisecond timestamp plus a 6-digit random suffix. Collisions are
// possible; Checkout verifies against the store and the unique index
// backstops the race between check and insert.
func NewOrderID() int64 {
	timestamp := time.Now().UnixMilli()
	randomNum := rand.Intn(900000) + 100000
	s := strconv.FormatInt(timestamp, 10) + strconv.Itoa(randomNum)
	if len(s) > 12 {
		s = s[len(s)-12:]
	}
	id, err := strconv.ParseInt(s, 10, 64)
	if err != nil || id < 1 {
		// The sliced digit string can start with zeros, which only shortens
		// the number; guard the degenerate cases anyway.
		return int64(rand.Intn(900000)+100000) * 1000000
	}
	return id
}
