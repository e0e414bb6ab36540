package relay

import (
	"errors"
	"sync"
	"time"
)

// Circuit breaker guarding the printer socket (Closed → Open → Half-Open).
// A printer that is out of paper or powered off fails every connection
// after a multi-second timeout; tripping open converts that into an
// immediate error so queued frontends are not stalled behind dial timeouts.

// BreakerState is the current breaker state.
type BreakerState int

const (
	BreakerClosed   BreakerState = iota // normal — jobs flow to the printer
	BreakerOpen                         // tripped — fast-fail all jobs
	BreakerHalfOpen                     // probing — one job allowed through
)

func (s BreakerState) String() string {
	switch s {
	case BreakerClosed:
		return "closed"
	case BreakerOpen:
		return "open"
	case BreakerHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// ErrPrinterUnavailable is returned while the breaker is open.
var ErrPrinterUnavailable = errors.New("relay: la impresora no está disponible")

// BreakerConfig holds the tunable thresholds.
type BreakerConfig struct {
	FailureThreshold int           // consecutive failures to trip open
	SuccessThreshold int           // consecutive successes in half-open to close
	OpenTimeout      time.Duration // how long to stay open before probing
}

// DefaultBreakerConfig returns thresholds sized for a local printer: trip
// after 3 failed jobs, probe again after 30s.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{
		FailureThreshold: 3,
		SuccessThreshold: 1,
		OpenTimeout:      30 * time.Second,
	}
}

// Breaker implements the pattern with thread-safe state transitions.
type Breaker struct {
	mu               sync.Mutex
	state            BreakerState
	failureCount     int
	successCount     int
	lastFailureTime  time.Time
	failureThreshold int
	successThreshold int
	openTimeout      time.Duration
}

// NewBreaker creates a breaker in Closed state.
func NewBreaker(cfg BreakerConfig) *Breaker {
	if cfg.FailureThreshold <= 0 {
		cfg.FailureThreshold = 3
	}
	if cfg.SuccessThreshold <= 0 {
		cfg.SuccessThreshold = 1
	}
	if cfg.OpenTimeout <= 0 {
		cfg.OpenTimeout = 30 * time.Second
	}
	return &Breaker{
		state:            BreakerClosed,
		failureThreshold: cfg.FailureThreshold,
		successThreshold: cfg.SuccessThreshold,
		openTimeout:      cfg.OpenTimeout,
	}
}

// State returns the current state, auto-transitioning open → half-open once
// the open timeout has elapsed.
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == BreakerOpen && time.Since(b.lastFailureTime) >= b.openTimeout {
		b.state = BreakerHalfOpen
		b.successCount = 0
	}
	return b.state
}

// Execute runs fn through the breaker. Returns ErrPrinterUnavailable
// immediately while open.
func (b *Breaker) Execute(fn func() error) error {
	if b.State() == BreakerOpen {
		return ErrPrinterUnavailable
	}

	err := fn()

	b.mu.Lock()
	defer b.mu.Unlock()

	if err != nil {
		b.onFailure()
		return err
	}
	b.onSuccess()
	return nil
}

// onFailure records a failure (must be called under lock).
func (b *Breaker) onFailure() {
	b.failureCount++
	b.lastFailureTime = time.Now()

	switch b.state {
	case BreakerClosed:
		if b.failureCount >= b.failureThreshold {
			b.state = BreakerOpen
			b.successCount = 0
		}
	case BreakerHalfOpen:
		// Probe failed — go back to open
		b.state = BreakerOpen
		b.failureCount = 0
	}
}

// onSuccess records a success (must be called under lock).
func (b *Breaker) onSuccess() {
	switch b.state {
	case BreakerClosed:
		b.failureCount = 0
	case BreakerHalfOpen:
		b.successCount++
		if b.successCount >= b.successThreshold {
			b.state = BreakerClosed
			b.failureCount = 0
			b.successCount = 0
		}
	}
}
