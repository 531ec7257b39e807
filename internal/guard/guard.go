// Package guard bounds the amount of work a single render pass may do.
//
// Every loop iteration in a pass goes through one shared [Guard], which fails the pass
// once the configured iteration ceiling is exceeded, the render deadline passes or the
// caller's context is cancelled. A Guard holds per-pass state and must never be shared
// between passes.
package guard

import (
	"context"
	"errors"
	"fmt"
	"time"
)

var (
	// ErrIterationLimit is returned when a render pass exceeds its iteration budget.
	ErrIterationLimit = errors.New("iteration limit exceeded")

	// ErrTimeout is returned when a render pass runs past its deadline.
	ErrTimeout = errors.New("render time limit exceeded")
)

// Limits are the protection limits applied to a render pass, the zero value
// means unlimited.
type Limits struct {
	// MaxIterations is the maximum number of loop iterations across the whole pass,
	// 0 means no limit.
	MaxIterations int

	// MaxRenderTime is the maximum wall clock time a pass may take, 0 means no limit.
	MaxRenderTime time.Duration
}

// Guard counts iterations for a single render pass.
type Guard struct {
	ctx        context.Context //nolint:containedctx // A guard lives exactly as long as one pass
	deadline   time.Time       // Zero if no MaxRenderTime
	limit      int             // Iteration ceiling, 0 means unlimited
	iterations int             // Iterations so far
}

// New returns a new [Guard] for a render pass starting now.
func New(ctx context.Context, limits Limits) *Guard {
	if ctx == nil {
		ctx = context.Background()
	}

	guard := &Guard{
		ctx:   ctx,
		limit: limits.MaxIterations,
	}

	if limits.MaxRenderTime > 0 {
		guard.deadline = time.Now().Add(limits.MaxRenderTime)
	}

	return guard
}

// Increment records one iteration, returning an error if any of the limits
// have been exceeded or the context is done.
func (g *Guard) Increment() error {
	g.iterations++

	if g.limit > 0 && g.iterations > g.limit {
		return fmt.Errorf("%w: more than %d iterations", ErrIterationLimit, g.limit)
	}

	if !g.deadline.IsZero() && time.Now().After(g.deadline) {
		return ErrTimeout
	}

	if err := g.ctx.Err(); err != nil {
		return fmt.Errorf("render cancelled: %w", err)
	}

	return nil
}

// Iterations returns the number of iterations recorded so far.
func (g *Guard) Iterations() int {
	return g.iterations
}
