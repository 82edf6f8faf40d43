// Package ratelimit implements the per-member fixed-window message limiter
// described in spec.md §4.5. It is adapted from Breeze1203-shophub-back's
// limiter.Strategy interface (limiter/limiter.go), with the Redis-backed
// counter replaced by the room's own MemberState fields: spec.md's
// Non-goals exclude horizontal scaling, so there is no shared store to hit.
package ratelimit

import (
	"time"

	"streamline/internal/models"
)

const window = 5 * time.Second

// Strategy decides whether one more message may be admitted for a member
// right now, given the room's configured limit (nil means disabled).
type Strategy interface {
	Allow(ms *models.MemberState, limit *int, now time.Time) bool
}

// FixedWindow counts sends in a 5-second window per member, resetting the
// counter whenever the window has elapsed. It mutates ms in place.
type FixedWindow struct{}

func (FixedWindow) Allow(ms *models.MemberState, limit *int, now time.Time) bool {
	if limit == nil {
		return true
	}
	if ms.WindowStart.IsZero() || now.Sub(ms.WindowStart) >= window {
		ms.WindowStart = now
		ms.RecentSends = 0
	}
	if ms.RecentSends >= *limit {
		return false
	}
	ms.RecentSends++
	return true
}

// Default is the limiter used throughout the dispatcher.
var Default Strategy = FixedWindow{}
