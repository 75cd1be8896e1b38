package harvest

import (
	"context"
	"math/rand"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestJitterBounds(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	base := 10 * time.Second
	spread := 5 * time.Second
	for i := 0; i < 100; i++ {
		d := Jitter(rng, base, spread)
		assert.GreaterOrEqual(t, d, base)
		assert.Less(t, d, base+spread)
	}
}

func TestJitterZeroSpread(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	assert.Equal(t, 2*time.Second, Jitter(rng, 2*time.Second, 0))
}

func TestTimerPauserCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	NewTimerPauser().Pause(ctx, time.Minute)
	assert.Less(t, time.Since(start), time.Second,
		"a canceled context must wake the pause immediately")
}

func TestTimerPauserZeroDelay(t *testing.T) {
	start := time.Now()
	NewTimerPauser().Pause(context.Background(), 0)
	assert.Less(t, time.Since(start), time.Second)
}
