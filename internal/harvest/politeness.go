package harvest

import (
	"context"
	"math/rand"
	"time"
)

// Pauser abstracts how the pipeline sleeps between requests, so tests
// can run without real delays.
type Pauser interface {
	Pause(ctx context.Context, delay time.Duration)
}

// timerPauser sleeps on a timer but wakes immediately on cancellation.
type timerPauser struct{}

// NewTimerPauser returns the production Pauser.
func NewTimerPauser() Pauser {
	return &timerPauser{}
}

func (p *timerPauser) Pause(ctx context.Context, delay time.Duration) {
	if delay <= 0 {
		return
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
	case <-timer.C:
	}
}

// Jitter returns base plus a uniformly random duration in [0, spread).
// The inter-domain pause is jittered so long runs do not hit the
// archive on a fixed cadence.
func Jitter(rng *rand.Rand, base, spread time.Duration) time.Duration {
	if spread <= 0 {
		return base
	}
	return base + time.Duration(rng.Int63n(int64(spread)))
}
