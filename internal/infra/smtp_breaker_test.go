package infra

import (
	"errors"
	"sync"
	"testing"
	"time"

	"simplesales/internal/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errRelay = errors.New("smtp: 421 service not available")

func newTestBreaker() (*SMTPBreaker, *time.Time) {
	b := NewSMTPBreaker(&config.Config{SMTPBreakerFailures: 3, SMTPBreakerCooldown: time.Minute})
	now := time.Date(2024, 9, 1, 12, 0, 0, 0, time.UTC)
	b.now = func() time.Time { return now }
	return b, &now
}

func fail() error { return errRelay }
func ok() error   { return nil }

func TestSMTPBreaker_AbreAposFalhasConsecutivas(t *testing.T) {
	b, _ := newTestBreaker()

	assert.ErrorIs(t, b.Do(fail), errRelay)
	assert.ErrorIs(t, b.Do(fail), errRelay)
	assert.Equal(t, BreakerClosed, b.State())

	assert.ErrorIs(t, b.Do(fail), errRelay)
	assert.Equal(t, BreakerOpen, b.State())

	called := false
	err := b.Do(func() error { called = true; return nil })
	assert.ErrorIs(t, err, ErrSMTPBreakerOpen)
	assert.False(t, called)
}

func TestSMTPBreaker_SucessoZeraContagem(t *testing.T) {
	b, _ := newTestBreaker()
	_ = b.Do(fail)
	_ = b.Do(fail)
	require.NoError(t, b.Do(ok))
	_ = b.Do(fail)
	_ = b.Do(fail)
	assert.Equal(t, BreakerClosed, b.State())
}

func TestSMTPBreaker_EnvioDeTeste(t *testing.T) {
	b, now := newTestBreaker()
	for i := 0; i < 3; i++ {
		_ = b.Do(fail)
	}

	*now = now.Add(59 * time.Second)
	assert.Equal(t, BreakerOpen, b.State())
	*now = now.Add(time.Second)
	assert.Equal(t, BreakerHalfOpen, b.State())

	// A failed trial restarts the full cooldown.
	assert.ErrorIs(t, b.Do(fail), errRelay)
	assert.Equal(t, BreakerOpen, b.State())
	*now = now.Add(30 * time.Second)
	assert.Equal(t, BreakerOpen, b.State())

	*now = now.Add(30 * time.Second)
	require.NoError(t, b.Do(ok))
	assert.Equal(t, BreakerClosed, b.State())
}

func TestSMTPBreaker_UmEnvioDeTestePorVez(t *testing.T) {
	b, now := newTestBreaker()
	for i := 0; i < 3; i++ {
		_ = b.Do(fail)
	}
	*now = now.Add(time.Minute)

	inTrial := make(chan struct{})
	release := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		_ = b.Do(func() error {
			close(inTrial)
			<-release
			return nil
		})
	}()

	<-inTrial
	assert.ErrorIs(t, b.Do(ok), ErrSMTPBreakerOpen)
	close(release)
	wg.Wait()
	assert.Equal(t, BreakerClosed, b.State())
}

func TestNewSMTPBreaker_Padroes(t *testing.T) {
	b := NewSMTPBreaker(&config.Config{})
	assert.Equal(t, 5, b.limit)
	assert.Equal(t, time.Minute, b.cooldown)
}
