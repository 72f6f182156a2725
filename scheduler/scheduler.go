// Package scheduler computes deterministic, phase-locked processing windows
// aligned to resonance class periods.
//
// A window for class r starts at the smallest time >= now where
// (time + r) mod 96 == 0. The scheduler only computes window metadata; it
// never dispatches work. The one stateful aggregate is BatchScheduler, which
// owns a single arena-partitioned allocation holding three parallel arrays
// and must be destroyed explicitly.
package scheduler

import (
	"math"

	"github.com/sbl8/resonance/classifier"
	"github.com/sbl8/resonance/core"
)

// PHI is the golden ratio constant used by the window length formula and the
// harmonic sequence frequency.
const PHI = 1.618033988749895

// Window length bounds for ComputeHarmonicWindow.
const (
	MinWindowLength = 32
	MaxWindowLength = 4096
)

// ScheduleWindow describes one computed processing window. It is an immutable
// value produced from a (now, class) pair.
type ScheduleWindow struct {
	Start  uint32
	Length uint32
	Class  uint8
	Phase  uint32
}

// phaseTable is the process-wide phase lookup, initialized once at startup.
// The mapping is the identity on class indices; keeping it as a table
// preserves the lookup semantics of the window construction.
var phaseTable [core.ModBase]uint32

func init() {
	for i := range phaseTable {
		phaseTable[i] = uint32(i)
	}
}

// NextWindow returns the smallest time >= now such that
// (result + resonance) mod 96 == 0.
func NextWindow(now uint32, resonance uint8) uint32 {
	return now + ((core.ModBase - ((now + uint32(resonance)) % core.ModBase)) % core.ModBase)
}

// NextWindowV4 computes four independent next windows in one call. The
// result is bit-identical to four scalar NextWindow calls; the unrolled
// lanes exist for vector-friendly batch paths.
func NextWindowV4(now [4]uint32, resonance [4]uint8) [4]uint32 {
	return [4]uint32{
		now[0] + ((core.ModBase - ((now[0] + uint32(resonance[0])) % core.ModBase)) % core.ModBase),
		now[1] + ((core.ModBase - ((now[1] + uint32(resonance[1])) % core.ModBase)) % core.ModBase),
		now[2] + ((core.ModBase - ((now[2] + uint32(resonance[2])) % core.ModBase)) % core.ModBase),
		now[3] + ((core.ModBase - ((now[3] + uint32(resonance[3])) % core.ModBase)) % core.ModBase),
	}
}

// ComputeHarmonicWindow builds the window descriptor for a class at a time.
//
// The length derives from the class alone: clamp(round(r*PHI + 64), 32, 4096).
// baseLength is accepted for callers that size windows from their data but
// does not participate in the length formula; callers depend on that exact
// contract.
func ComputeHarmonicWindow(now uint32, resonance uint8, baseLength uint32) ScheduleWindow {
	_ = baseLength

	length := uint32(math.Round(float64(resonance)*PHI + 64))
	if length < MinWindowLength {
		length = MinWindowLength
	}
	if length > MaxWindowLength {
		length = MaxWindowLength
	}

	return ScheduleWindow{
		Start:  NextWindow(now, resonance),
		Length: length,
		Class:  resonance,
		Phase:  phaseTable[resonance%core.ModBase],
	}
}

// IsPhaseLocked reports whether a time already sits on the class's window
// boundary, i.e. its position mod 96 equals the next window's position mod 96.
func IsPhaseLocked(time uint32, resonance uint8) bool {
	return time%core.ModBase == NextWindow(time, resonance)%core.ModBase
}

// OptimalWindow computes the window for a buffer's dominant class.
func OptimalWindow(data []byte, currentTime uint32) ScheduleWindow {
	dominant := classifier.Dominant(data)
	baseLength := uint32(len(data) / 4)
	return ComputeHarmonicWindow(currentTime, dominant, baseLength)
}
