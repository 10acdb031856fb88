// Package stress runs timed CPU burns. Each selected core gets a worker
// goroutine spinning a Fibonacci loop; throughput is reported as a score of
// one point per million iterations.
package stress

import (
	"context"
	"math"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"
)

// scoreUnit is the number of Fibonacci steps worth one score point.
const scoreUnit = 1_000_000

// Result describes a finished (or cancelled) burn.
type Result struct {
	Score   uint64
	Elapsed time.Duration
	Cores   int
}

// Runner executes burns. A Runner is reusable; each Run is independent.
type Runner struct {
	// pollInterval controls how often workers check the deadline and stop
	// flag. Kept coarse so the check stays off the hot path.
	pollInterval uint64
}

// NewRunner returns a Runner with default settings.
func NewRunner() *Runner {
	return &Runner{pollInterval: 4096}
}

// Run burns the given number of cores until the duration elapses or ctx is
// cancelled. The partial score is returned either way; on cancellation the
// error is ctx.Err().
func (r *Runner) Run(ctx context.Context, duration time.Duration, cores int) (Result, error) {
	if cores < 1 {
		cores = 1
	}

	var (
		score uint64
		stop  atomic.Bool
	)
	start := time.Now()
	deadline := start.Add(duration)

	g, ctx := errgroup.WithContext(ctx)
	done := ctx.Done()

	for i := 0; i < cores; i++ {
		g.Go(func() error {
			points := burn(deadline, &stop, done, r.pollInterval)
			atomic.AddUint64(&score, points)
			return ctx.Err()
		})
	}

	err := g.Wait()
	res := Result{
		Score:   atomic.LoadUint64(&score),
		Elapsed: time.Since(start),
		Cores:   cores,
	}
	return res, err
}

// burn spins the Fibonacci loop until the deadline passes, the shared stop
// flag is raised, or done is closed. Returns the points earned.
func burn(deadline time.Time, stop *atomic.Bool, done <-chan struct{}, poll uint64) uint64 {
	var (
		a, b       uint64 = 0, 1
		localSteps uint64
		points     uint64
	)

	for steps := uint64(0); ; steps++ {
		if steps%poll == 0 {
			if stop.Load() {
				break
			}
			if time.Now().After(deadline) {
				// First worker past the deadline stops the rest.
				stop.Store(true)
				break
			}
			select {
			case <-done:
				stop.Store(true)
				return points
			default:
			}
		}

		if a > math.MaxUint64-b {
			a, b = 0, 1
		} else {
			a, b = b, a+b
		}

		localSteps++
		if localSteps >= scoreUnit {
			points++
			localSteps = 0
		}
	}

	return points
}
