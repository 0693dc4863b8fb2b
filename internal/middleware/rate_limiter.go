package middleware

import (
	"net/http"
	"sync"
	"time"

	"github.com/st9-8/mouegne/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per client IP in a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

type rateLimiter struct {
	limit  int
	window time.Duration

	mu        sync.Mutex
	entries   map[string]*rateEntry
	lastPurge time.Time
}

const purgeInterval = 5 * time.Minute

// RateLimiter allows limit requests per window per client IP, e.g.
// RateLimiter(200, time.Minute) for the whole API.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{
		limit:     limit,
		window:    window,
		entries:   make(map[string]*rateEntry),
		lastPurge: time.Now(),
	}
	return rl.handle
}

func (rl *rateLimiter) handle(c *gin.Context) {
	now := time.Now()
	ok, retryAt := rl.allow(c.ClientIP(), now)
	if !ok {
		c.Header("Retry-After", retryAt.UTC().Format(http.TimeFormat))
		c.AbortWithStatusJSON(http.StatusTooManyRequests, apierror.New("too many requests, try again shortly"))
		return
	}
	c.Next()
}

func (rl *rateLimiter) allow(ip string, now time.Time) (bool, time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	if now.Sub(rl.lastPurge) >= purgeInterval {
		rl.purge(now)
	}

	e, ok := rl.entries[ip]
	if !ok || now.After(e.windowEnd) {
		e = &rateEntry{windowEnd: now.Add(rl.window)}
		rl.entries[ip] = e
	}
	e.count++
	return e.count <= rl.limit, e.windowEnd
}

// purge drops expired windows so IPs that never return do not accumulate.
// Must be called under rl.mu.
func (rl *rateLimiter) purge(now time.Time) {
	purged := 0
	for ip, e := range rl.entries {
		if now.After(e.windowEnd) {
			delete(rl.entries, ip)
			purged++
		}
	}
	rl.lastPurge = now
	if purged > 0 {
		log.Debug().
			Int("entries_purged", purged).
			Int("entries_remaining", len(rl.entries)).
			Msg("rate limiter purged")
	}
}
