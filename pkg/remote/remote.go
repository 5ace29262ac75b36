// Package remote defines the boundary to an optional hosted phonetic lookup
// service and the guard that keeps it from ever stalling an editing session.
//
// Transport and auth belong to the implementation behind Lookup. Guarded adds
// the behaviour every caller needs: a hard timeout, a request budget, and a
// circuit breaker, each mapped onto ErrTimeout or ErrUnavailable.
package remote

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bastiangx/tamilserve/internal/resilience"
	"golang.org/x/time/rate"
)

var (
	// ErrTimeout means the lookup did not answer within its deadline.
	ErrTimeout = errors.New("remote lookup timed out")
	// ErrUnavailable means the lookup was refused or failed.
	ErrUnavailable = errors.New("remote lookup unavailable")
)

// DefaultTimeout bounds one remote call.
const DefaultTimeout = 2 * time.Second

// Lookup returns ranked native suggestions for a lowercase Latin token.
type Lookup interface {
	Lookup(ctx context.Context, token string) ([]string, error)
}

// Func adapts a plain function to Lookup.
type Func func(ctx context.Context, token string) ([]string, error)

func (f Func) Lookup(ctx context.Context, token string) ([]string, error) {
	return f(ctx, token)
}

// Options configures Guarded. Zero fields take defaults; a zero Rate
// disables the request budget.
type Options struct {
	Name        string
	Timeout     time.Duration
	Rate        float64
	Burst       int
	MaxFailures int
	Cooldown    time.Duration
}

// Guarded wraps a Lookup with timeout, rate limit and circuit breaker.
type Guarded struct {
	next    Lookup
	timeout time.Duration
	limiter *rate.Limiter
	breaker *resilience.Breaker
}

// NewGuarded wraps next.
func NewGuarded(next Lookup, opts Options) *Guarded {
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	if opts.Name == "" {
		opts.Name = "remote"
	}
	g := &Guarded{
		next:    next,
		timeout: opts.Timeout,
		breaker: resilience.NewBreaker(resilience.Config{
			Name:        opts.Name,
			MaxFailures: opts.MaxFailures,
			Cooldown:    opts.Cooldown,
		}),
	}
	if opts.Rate > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		g.limiter = rate.NewLimiter(rate.Limit(opts.Rate), burst)
	}
	return g
}

// Lookup calls the wrapped lookup. Errors always wrap ErrTimeout or
// ErrUnavailable.
func (g *Guarded) Lookup(ctx context.Context, token string) ([]string, error) {
	if g.limiter != nil && !g.limiter.Allow() {
		return nil, fmt.Errorf("%w: rate limited", ErrUnavailable)
	}

	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	var out []string
	err := g.breaker.Execute(func() error {
		res, err := g.call(ctx, token)
		if err != nil {
			return err
		}
		out = res
		return nil
	})
	switch {
	case err == nil:
		return out, nil
	case errors.Is(err, resilience.ErrCircuitOpen):
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	case errors.Is(err, ErrTimeout), errors.Is(err, context.DeadlineExceeded):
		return nil, fmt.Errorf("%w: %s", ErrTimeout, token)
	case errors.Is(err, ErrUnavailable):
		return nil, err
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
}

// call runs the wrapped lookup but returns as soon as ctx expires, even if
// the implementation ignores its context.
func (g *Guarded) call(ctx context.Context, token string) ([]string, error) {
	type result struct {
		list []string
		err  error
	}
	done := make(chan result, 1)
	go func() {
		list, err := g.next.Lookup(ctx, token)
		done <- result{list, err}
	}()
	select {
	case r := <-done:
		return r.list, r.err
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// State exposes the breaker state for diagnostics.
func (g *Guarded) State() resilience.State { return g.breaker.State() }
