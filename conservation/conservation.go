// Package conservation implements the C768 conservation checker.
//
// Conserved data exhibits periodic sum-mod-96 closure: any 768 consecutive
// bytes sum to 0 mod 96. The checker verifies that closure plus two
// interleaved periodicities - a 16-page rhythm at 12,288-byte block
// boundaries and a 3-block byte rhythm at 256-byte page boundaries - and
// their phase lock.
//
// Every function here is stateless; each call is a self-contained scan over
// caller-owned data. Checks are pure boolean predicates: a false result is a
// conservation violation for the caller to judge, never an error. Window
// sums accumulate in 64 bits, which cannot overflow for windows up to well
// past 2^24 bytes.
package conservation

import (
	"github.com/sbl8/resonance/classifier"
	"github.com/sbl8/resonance/core"
)

// WindowSum returns the widened sum of the window data[offset : offset+size].
// Windows extending past the end of the data are summed over the available
// bytes only.
func WindowSum(data []byte, offset, size uint64) uint64 {
	n := uint64(len(data))
	if offset >= n {
		return 0
	}
	end := offset + size
	if end > n {
		end = n
	}

	var sum uint64
	for _, b := range data[offset:end] {
		sum += uint64(b)
	}
	return sum
}

// VerifyClosure reports whether the 768-byte window starting at windowStart
// sums to 0 mod 96.
func VerifyClosure(data []byte, windowStart uint64) bool {
	return WindowSum(data, windowStart, core.CycleLength)%core.ModBase == 0
}

// CheckPageRhythm verifies the 16-page rhythm at a scan step. Steps that are
// not 12,288-byte block boundaries pass unconditionally. At a boundary the
// boundary index must land on the 16-block rhythm and the 256-byte window at
// the step must sum to 0 mod 96.
func CheckPageRhythm(data []byte, step uint64) bool {
	if step%core.BlockSize != 0 {
		return true
	}
	// Block boundaries must land on the 16-page marks; the boundary index is
	// the page ordinal of the step.
	boundaryIndex := step / core.PageSize
	if boundaryIndex%16 != 0 {
		return false
	}
	return WindowSum(data, step, core.PageSize)%core.ModBase == 0
}

// CheckByteRhythm verifies the 3-block byte rhythm at a scan step. Steps that
// are not 256-byte page boundaries pass unconditionally, as does every page
// boundary except the third of each triplet (ordinal mod 3 == 2), which
// additionally requires the page window sum to be 0 mod 96.
func CheckByteRhythm(data []byte, step uint64) bool {
	if step%core.PageSize != 0 {
		return true
	}
	ordinal := step / core.PageSize
	if ordinal%3 != 2 {
		return true
	}
	return WindowSum(data, step, core.PageSize)%core.ModBase == 0
}

// NextCyclePoint returns the smallest multiple of 768 that is >= current.
func NextCyclePoint(current uint64) uint64 {
	rem := current % core.CycleLength
	if rem == 0 {
		return current
	}
	return current + core.CycleLength - rem
}

// VerifyAllWindows reports whether all 16 disjoint 768-byte cycles of a
// 12,288-byte block each sum to 0 mod 96.
func VerifyAllWindows(data []byte) bool {
	for i := uint64(0); i < core.CyclesPerBlock; i++ {
		if !VerifyClosure(data, i*core.CycleLength) {
			return false
		}
	}
	return true
}

// ComputeResidueClasses classifies the first 12,288 bytes of data and
// accumulates per-class counts into out. out is zeroed before accumulation;
// buffers shorter than a block are counted as-is.
func ComputeResidueClasses(data []byte, out *[core.ModBase]uint32) {
	for i := range out {
		out[i] = 0
	}
	n := len(data)
	if n > core.BlockSize {
		n = core.BlockSize
	}
	for _, b := range data[:n] {
		out[classifier.Classify(b)]++
	}
}

// VerifyPhaseLock reports whether the page and byte rhythms agree at the
// canonical positions {0, 256, 12288} and the opening 768-byte cycle closes.
func VerifyPhaseLock(data []byte) bool {
	for _, step := range [...]uint64{0, core.PageSize, core.BlockSize} {
		if !CheckPageRhythm(data, step) {
			return false
		}
		if !CheckByteRhythm(data, step) {
			return false
		}
	}
	return VerifyClosure(data, 0)
}
