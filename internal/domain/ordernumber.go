package domain

import (
	"fmt"
	"math/rand"
	"regexp"
	"time"
)

var orderNumberPattern = regexp.MustCompile(`^ORD-\d{6}-\d{3}$`)

// NewOrderNumber produces a human-shareable order number in the form
// ORD-XXXXXX-YYY: the last six digits of the millisecond timestamp plus
// a three-digit random suffix. No store state is consulted, so two
// simultaneous calls can in principle collide; the store's unique index
// on order_number catches that case.
func NewOrderNumber() string {
	ms := time.Now().UnixMilli() % 1000000
	suffix := rand.Intn(1000)
	return fmt.Sprintf("ORD-%06d-%03d", ms, suffix)
}

// ValidOrderNumber reports whether s has the ORD-XXXXXX-YYY shape
// produced by NewOrderNumber.
func ValidOrderNumber(s string) bool {
	return orderNumberPattern.MatchString(s)
}
