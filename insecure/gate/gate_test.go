package gate

import (
	"math"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/atomic"
	"pgregory.net/rapid"

	"github.com/onflow/corruptible-validator/utils/unittest"
)

// fixedSource always returns the same value.
type fixedSource uint64

func (f fixedSource) UintN(n uint64) uint64 {
	return uint64(f) % n
}

func TestNew_InvalidPercentage(t *testing.T) {
	for _, p := range []int{-1, 101, 1000} {
		_, err := New(p, fixedSource(0))
		require.ErrorAs(t, err, &InvalidPercentageError{})
	}
}

func TestDecide_Bounds(t *testing.T) {
	never, err := NewRandom(0)
	require.NoError(t, err)
	always, err := NewRandom(100)
	require.NoError(t, err)

	for i := 0; i < 10_000; i++ {
		require.False(t, never.Decide())
		require.True(t, always.Decide())
	}
}

// TestDecide_Threshold checks that a draw below the percentage corrupts and any other draw does not.
func TestDecide_Threshold(t *testing.T) {
	g, err := New(30, fixedSource(29))
	require.NoError(t, err)
	assert.True(t, g.Decide())

	g, err = New(30, fixedSource(30))
	require.NoError(t, err)
	assert.False(t, g.Decide())
}

func TestNewSeeded_Deterministic(t *testing.T) {
	seed := unittest.RandomBytes(32)
	g1, err := NewSeeded(50, seed)
	require.NoError(t, err)
	g2, err := NewSeeded(50, seed)
	require.NoError(t, err)

	for i := 0; i < 1000; i++ {
		require.Equal(t, g1.Decide(), g2.Decide())
	}
}

// TestDecide_Rate checks that the empirical rate converges to the configured percentage within
// six standard deviations of the binomial distribution.
func TestDecide_Rate(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		p := rapid.IntRange(1, 99).Draw(t, "percentage")
		seed := rapid.SliceOfN(rapid.Byte(), 32, 32).Draw(t, "seed")
		g, err := NewSeeded(p, seed)
		require.NoError(t, err)

		const n = 10_000
		hits := 0
		for i := 0; i < n; i++ {
			if g.Decide() {
				hits++
			}
		}

		prob := float64(p) / 100
		mean := n * prob
		stddev := math.Sqrt(n * prob * (1 - prob))
		require.InDelta(t, mean, float64(hits), 6*stddev)
	})
}

func TestDecide_Concurrent(t *testing.T) {
	g, err := NewRandom(50)
	require.NoError(t, err)

	hits := atomic.NewInt64(0)
	var wg sync.WaitGroup
	for w := 0; w < 8; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 5_000; i++ {
				if g.Decide() {
					hits.Inc()
				}
			}
		}()
	}
	wg.Wait()

	// 40k draws, six standard deviations is 600
	assert.InDelta(t, 20_000, hits.Load(), 600)
}
