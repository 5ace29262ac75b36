// Package resilience provides the circuit breaker that guards remote
// transliteration lookups.
//
// The breaker is the classic closed -> open -> half-open machine. While open,
// calls fail fast with ErrCircuitOpen so a dead lookup service costs the
// editor nothing; after the cool-down one probe at a time is let through.
package resilience

import (
	"errors"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// ErrCircuitOpen is returned by Execute while the breaker rejects calls.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State is the breaker's operating mode.
type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config tunes a Breaker. Zero fields take defaults.
type Config struct {
	Name string

	// MaxFailures consecutive failures open the breaker. Default 5.
	MaxFailures int

	// Cooldown is how long the breaker stays open. Default 30s.
	Cooldown time.Duration

	// Probes successful half-open calls close it again. Default 1.
	Probes int
}

// Breaker is safe for concurrent use.
type Breaker struct {
	name        string
	maxFailures int
	cooldown    time.Duration
	probes      int
	now         func() time.Time

	mu        sync.Mutex
	state     State
	failures  int
	openedAt  time.Time
	inFlight  bool
	probeWins int
}

// NewBreaker returns a closed breaker.
func NewBreaker(cfg Config) *Breaker {
	if cfg.MaxFailures <= 0 {
		cfg.MaxFailures = 5
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = 30 * time.Second
	}
	if cfg.Probes <= 0 {
		cfg.Probes = 1
	}
	return &Breaker{
		name:        cfg.Name,
		maxFailures: cfg.MaxFailures,
		cooldown:    cfg.Cooldown,
		probes:      cfg.Probes,
		now:         time.Now,
	}
}

// Execute runs fn unless the breaker is open. fn's error is returned as is
// and counted as a failure.
func (b *Breaker) Execute(fn func() error) error {
	probe, err := b.admit()
	if err != nil {
		return err
	}
	err = fn()
	b.record(probe, err)
	return err
}

func (b *Breaker) admit() (probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if b.now().Sub(b.openedAt) < b.cooldown {
			return false, ErrCircuitOpen
		}
		b.state = StateHalfOpen
		b.probeWins = 0
		log.Debug("breaker half-open", "name", b.name)
		fallthrough
	case StateHalfOpen:
		if b.inFlight {
			return false, ErrCircuitOpen
		}
		b.inFlight = true
		return true, nil
	}
	return false, nil
}

func (b *Breaker) record(probe bool, err error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if probe {
		b.inFlight = false
		if err != nil {
			b.trip()
			return
		}
		b.probeWins++
		if b.probeWins >= b.probes {
			b.state = StateClosed
			b.failures = 0
			log.Info("breaker closed", "name", b.name)
		}
		return
	}

	if err == nil {
		b.failures = 0
		return
	}
	b.failures++
	if b.failures >= b.maxFailures {
		b.trip()
	}
}

// trip opens the breaker. Must be called with b.mu held.
func (b *Breaker) trip() {
	b.state = StateOpen
	b.openedAt = b.now()
	log.Warn("breaker opened", "name", b.name, "failures", b.failures)
}

// State reports the current state; an open breaker past its cooldown reads
// as half-open.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		return StateHalfOpen
	}
	return b.state
}

// Reset forces the breaker closed.
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = StateClosed
	b.failures = 0
	b.inFlight = false
	b.probeWins = 0
}
