package middleware

import (
	"strconv"
	"sync"
	"time"

	"simplesales/internal/apierror"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// rateEntry tracks request counts per IP within a fixed window.
type rateEntry struct {
	count     int
	windowEnd time.Time
}

type rateLimiter struct {
	mu      sync.Mutex
	entries map[string]*rateEntry
	limit   int
	window  time.Duration
	now     func() time.Time
}

const purgeInterval = 5 * time.Minute

// RateLimiter limits each client IP to limit requests per window. Rejected
// requests get a 429 problem body and a Retry-After header in seconds.
func RateLimiter(limit int, window time.Duration) gin.HandlerFunc {
	rl := &rateLimiter{
		entries: make(map[string]*rateEntry),
		limit:   limit,
		window:  window,
		now:     time.Now,
	}
	go rl.purgeLoop()
	return rl.handle
}

func (rl *rateLimiter) handle(c *gin.Context) {
	allowed, retry := rl.allow(c.ClientIP())
	if !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retry.Seconds())+1))
		WriteProblem(c, apierror.TooManyRequests(c.Request.URL.Path, c.GetString(RequestIDKey)))
		return
	}
	c.Next()
}

// allow counts one request for ip and reports whether it fits the window.
func (rl *rateLimiter) allow(ip string) (bool, time.Duration) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	entry, ok := rl.entries[ip]
	if !ok || now.After(entry.windowEnd) {
		entry = &rateEntry{windowEnd: now.Add(rl.window)}
		rl.entries[ip] = entry
	}
	entry.count++
	if entry.count > rl.limit {
		return false, entry.windowEnd.Sub(now)
	}
	return true, 0
}

// purgeLoop drops expired entries so IPs that never return do not pile up.
func (rl *rateLimiter) purgeLoop() {
	ticker := time.NewTicker(purgeInterval)
	defer ticker.Stop()

	for range ticker.C {
		rl.mu.Lock()
		now := rl.now()
		purged := 0
		for ip, entry := range rl.entries {
			if now.After(entry.windowEnd) {
				delete(rl.entries, ip)
				purged++
			}
		}
		remaining := len(rl.entries)
		rl.mu.Unlock()

		if purged > 0 {
			log.Debug().Int("purged", purged).Int("remaining", remaining).Msg("rate limiter purged")
		}
	}
}
