// Package backoff provides the adaptive retry delay shared by all Slack API calls.
// The delay doubles on every rate-limit response and halves back down on any
// other outcome, staying within [Initial, Max] for the whole process lifetime.
package backoff

import (
	"time"
)

const (
	defaultInitialDelay = 2 * time.Second
	defaultMaxDelay     = 300 * time.Second
)

// Config represents backoff configuration.
type Config struct {
	Initial time.Duration // Floor of the adaptive delay (default: 2s)
	Max     time.Duration // Cap of the adaptive delay (default: 300s)
}

// Backoff holds the current adaptive delay. It is owned by a single API
// client and mutated by every call outcome; not safe for concurrent use.
type Backoff struct {
	initial time.Duration
	max     time.Duration
	delay   time.Duration
}

// New creates a Backoff starting at the initial delay.
func New(cfg Config) *Backoff {
	// Apply defaults
	if cfg.Initial <= 0 {
		cfg.Initial = defaultInitialDelay
	}
	if cfg.Max <= 0 {
		cfg.Max = defaultMaxDelay
	}
	// The cap can never sit below the floor
	if cfg.Max < cfg.Initial {
		cfg.Max = cfg.Initial
	}

	return &Backoff{
		initial: cfg.Initial,
		max:     cfg.Max,
		delay:   cfg.Initial,
	}
}

// Delay returns the current delay without mutating it.
func (b *Backoff) Delay() time.Duration {
	return b.delay
}

// RateLimited doubles the delay, capped at the maximum, and returns the
// new value to wait before retrying.
func (b *Backoff) RateLimited() time.Duration {
	b.delay *= 2
	if b.delay > b.max {
		b.delay = b.max
	}
	return b.delay
}

// Settled halves the delay after a non-rate-limited outcome, clamped at
// the initial floor.
func (b *Backoff) Settled() {
	b.delay /= 2
	if b.delay < b.initial {
		b.delay = b.initial
	}
}
