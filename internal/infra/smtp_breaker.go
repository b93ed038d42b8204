package infra

import (
	"errors"
	"sync"
	"time"

	"simplesales/internal/config"

	"github.com/rs/zerolog/log"
)

// SMTPBreaker stops the notification workers from hammering a relay that keeps
// refusing mail. After SMTP_BREAKER_FAILURES consecutive errors it rejects
// sends for SMTP_BREAKER_COOLDOWN, then lets exactly one trial send through.
// A successful trial resumes sending; a failed one restarts the cooldown.
type SMTPBreaker struct {
	mu        sync.Mutex
	limit     int
	cooldown  time.Duration
	failures  int
	openUntil time.Time // zero while closed
	trial     bool      // a half-open send is in flight
	now       func() time.Time
}

// BreakerState is reported verbatim by /health.
type BreakerState string

const (
	BreakerClosed   BreakerState = "closed"
	BreakerOpen     BreakerState = "open"
	BreakerHalfOpen BreakerState = "half-open"
)

// ErrSMTPBreakerOpen is returned by Do without calling send.
var ErrSMTPBreakerOpen = errors.New("smtp: breaker open, send skipped")

func NewSMTPBreaker(cfg *config.Config) *SMTPBreaker {
	b := &SMTPBreaker{limit: cfg.SMTPBreakerFailures, cooldown: cfg.SMTPBreakerCooldown, now: time.Now}
	if b.limit <= 0 {
		b.limit = 5
	}
	if b.cooldown <= 0 {
		b.cooldown = time.Minute
	}
	return b
}

func (b *SMTPBreaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state()
}

func (b *SMTPBreaker) state() BreakerState {
	switch {
	case b.openUntil.IsZero():
		return BreakerClosed
	case b.now().Before(b.openUntil):
		return BreakerOpen
	default:
		return BreakerHalfOpen
	}
}

// Do runs send unless the relay is cooling down or another goroutine already
// holds the trial slot.
func (b *SMTPBreaker) Do(send func() error) error {
	b.mu.Lock()
	st := b.state()
	if st == BreakerOpen || (st == BreakerHalfOpen && b.trial) {
		b.mu.Unlock()
		return ErrSMTPBreakerOpen
	}
	b.trial = st == BreakerHalfOpen
	b.mu.Unlock()

	err := send()

	b.mu.Lock()
	defer b.mu.Unlock()
	b.trial = false
	if err == nil {
		if st == BreakerHalfOpen {
			log.Info().Msg("smtp breaker: relay recovered, sending resumed")
		}
		b.failures = 0
		b.openUntil = time.Time{}
		return nil
	}

	b.failures++
	if st == BreakerHalfOpen || b.failures >= b.limit {
		b.openUntil = b.now().Add(b.cooldown)
		log.Warn().Err(err).Int("falhas", b.failures).Dur("cooldown", b.cooldown).
			Msg("smtp breaker: open")
	}
	return err
}
