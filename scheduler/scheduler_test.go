package scheduler

import (
	"math"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sbl8/resonance/core"
)

func TestNextWindowContract(t *testing.T) {
	t.Parallel()
	for now := uint32(0); now < 10000; now++ {
		for r := 0; r < core.ModBase; r++ {
			w := NextWindow(now, uint8(r))

			if w < now {
				t.Fatalf("NextWindow(%d,%d) = %d < now", now, r, w)
			}
			if (w+uint32(r))%core.ModBase != 0 {
				t.Fatalf("NextWindow(%d,%d) = %d not aligned", now, r, w)
			}
			// Minimality: the window is at most one period away, so a
			// smaller aligned value would have to be >= now and < w.
			if w-now >= core.ModBase {
				t.Fatalf("NextWindow(%d,%d) = %d skips a period", now, r, w)
			}
		}
	}
}

func TestNextWindowAlreadyAligned(t *testing.T) {
	t.Parallel()
	for r := 0; r < core.ModBase; r++ {
		now := uint32(5 * core.ModBase)
		aligned := now + ((core.ModBase - uint32(r)) % core.ModBase)
		assert.Equal(t, aligned, NextWindow(aligned, uint8(r)),
			"aligned time must schedule immediately for class %d", r)
	}
}

func TestNextWindowV4MatchesScalar(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(11))
	for trial := 0; trial < 1000; trial++ {
		var now [4]uint32
		var res [4]uint8
		for lane := 0; lane < 4; lane++ {
			now[lane] = rng.Uint32() % 1_000_000
			res[lane] = uint8(rng.Intn(core.ModBase))
		}

		got := NextWindowV4(now, res)
		for lane := 0; lane < 4; lane++ {
			want := NextWindow(now[lane], res[lane])
			require.Equal(t, want, got[lane],
				"lane %d diverges for now=%d r=%d", lane, now[lane], res[lane])
		}
	}
}

func TestComputeHarmonicWindow(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name       string
		now        uint32
		resonance  uint8
		wantLength uint32
	}{
		{"class 0 baseline", 100, 0, 64},
		{"class 10 rounds phi scaling", 0, 10, 80},   // 10*1.618... + 64 = 80.18 -> 80
		{"class 95 near the top", 0, 95, 218},        // 95*1.618... + 64 = 217.71 -> 218
		{"length never below floor", 50, 1, 66},      // 1.618 + 64 = 65.6 -> 66
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ComputeHarmonicWindow(tt.now, tt.resonance, 0)

			assert.Equal(t, NextWindow(tt.now, tt.resonance), w.Start)
			assert.Equal(t, tt.wantLength, w.Length)
			assert.Equal(t, tt.resonance, w.Class)
			assert.Equal(t, uint32(tt.resonance), w.Phase, "phase table is the identity")
			assert.GreaterOrEqual(t, w.Length, uint32(MinWindowLength))
			assert.LessOrEqual(t, w.Length, uint32(MaxWindowLength))
		})
	}
}

func TestComputeHarmonicWindowIgnoresBaseLength(t *testing.T) {
	t.Parallel()
	// Callers depend on baseLength not influencing the descriptor.
	for _, baseLength := range []uint32{0, 1, 512, 1 << 20} {
		w := ComputeHarmonicWindow(1234, 40, baseLength)
		assert.Equal(t, ComputeHarmonicWindow(1234, 40, 0), w,
			"baseLength=%d changed the window", baseLength)
	}
}

func TestIsPhaseLocked(t *testing.T) {
	t.Parallel()
	for r := 0; r < core.ModBase; r++ {
		// The next window itself is always locked for its class.
		w := NextWindow(777, uint8(r))
		assert.True(t, IsPhaseLocked(w, uint8(r)), "next window unlocked for class %d", r)

		if r != 0 {
			assert.False(t, IsPhaseLocked(w+1, uint8(r)),
				"time after the boundary cannot stay locked for class %d", r)
		}
	}
}

func TestOptimalWindow(t *testing.T) {
	t.Parallel()
	// Buffer dominated by class 7.
	data := []byte{7, 7, 7, 7, 1, 2, 3}
	w := OptimalWindow(data, 1000)

	assert.Equal(t, uint8(7), w.Class)
	assert.Equal(t, ComputeHarmonicWindow(1000, 7, uint32(len(data)/4)), w)
}

func TestOptimalWindowEmptyBuffer(t *testing.T) {
	t.Parallel()
	w := OptimalWindow(nil, 0)
	assert.Equal(t, uint8(0), w.Class, "empty buffer falls back to class 0")
	assert.Equal(t, uint32(0), w.Start)
}

func TestHarmonicWindowLengthMonotone(t *testing.T) {
	t.Parallel()
	// The phi scaling is strictly increasing over the class range, so window
	// lengths are non-decreasing in the class id.
	prev := uint32(0)
	for r := 0; r < core.ModBase; r++ {
		w := ComputeHarmonicWindow(0, uint8(r), 0)
		require.GreaterOrEqual(t, w.Length, prev, "length regressed at class %d", r)
		prev = w.Length

		want := uint32(math.Round(float64(r)*PHI + 64))
		require.Equal(t, want, w.Length, "length formula mismatch at class %d", r)
	}
}
