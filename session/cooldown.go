package session

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Cooldown limits how often a single user may invoke commands. Every user gets
// a token bucket refilling one token per interval, holding at most burst
// tokens.
type Cooldown struct {
	mu       sync.Mutex
	limit    rate.Limit
	burst    int
	limiters map[string]*rate.Limiter
}

// NewCooldown creates a [Cooldown]. An interval of 0 disables limiting.
func NewCooldown(interval time.Duration, burst int) *Cooldown {
	limit := rate.Inf
	if interval > 0 {
		limit = rate.Every(interval)
	}
	if burst < 1 {
		burst = 1
	}

	return &Cooldown{limit: limit, burst: burst, limiters: make(map[string]*rate.Limiter)}
}

// Allow reports whether the user with the given ID may invoke a command now,
// consuming a token if so.
func (c *Cooldown) Allow(uID string) bool {
	return c.allowAt(uID, time.Now())
}

func (c *Cooldown) allowAt(uID string, now time.Time) bool {
	if c == nil || c.limit == rate.Inf {
		return true
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	l, ok := c.limiters[uID]
	if !ok {
		l = rate.NewLimiter(c.limit, c.burst)
		c.limiters[uID] = l
	}

	return l.AllowN(now, 1)
}

// Prune drops limiters of users that have fully recovered their burst.
func (c *Cooldown) Prune() {
	if c == nil {
		return
	}

	now := time.Now()
	c.mu.Lock()
	defer c.mu.Unlock()

	for uID, l := range c.limiters {
		if l.TokensAt(now) >= float64(c.burst) {
			delete(c.limiters, uID)
		}
	}
}
