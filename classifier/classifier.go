// Package classifier provides the mod-96 resonance classification kernels.
//
// This package implements the leaf component of the resonance core: the pure
// byte -> class mapping and the page-granular kernels built on it. All
// operations are total, allocate nothing beyond their return values, and
// write only caller-supplied output buffers.
//
// Vectorization:
//   - Scalar: the reference loop, always correct
//   - 16-lane and 32-lane: unrolled variants for page-sized inputs
//
// The unrolled variants are bit-identical to the scalar loop; that
// equivalence is a tested contract, not an optimization hint.
//
// Available operations:
//   - Classification: Classify, ClassifyPage
//   - Aggregation: HistogramPage, Dominant
//   - Harmonic pairing: Harmonizes, HarmonicConjugate
package classifier

import "github.com/sbl8/resonance/core"

// Classify maps a byte to its resonance class, byte mod 96.
//
// The byte space [0,255] maps non-uniformly: classes 0..63 receive three
// source bytes each, classes 64..95 receive two. That remainder is part of
// the classification contract and must not be "corrected".
func Classify(b byte) uint8 {
	return b % core.ModBase
}

// ClassifyPage classifies src elementwise into dst. The kernel processes
// min(len(dst), len(src)) bytes; for full 256-byte pages it dispatches to the
// widest unrolled variant.
func ClassifyPage(dst, src []byte) {
	n := len(src)
	if len(dst) < n {
		n = len(dst)
	}
	switch {
	case n >= 32:
		classifyPage32(dst[:n], src[:n])
	case n >= 16:
		classifyPage16(dst[:n], src[:n])
	default:
		classifyPageScalar(dst[:n], src[:n])
	}
}

// classifyPageScalar is the reference loop the unrolled variants must match
// bit-for-bit.
func classifyPageScalar(dst, src []byte) {
	for i := range src {
		dst[i] = src[i] % core.ModBase
	}
}

// classifyPage16 processes 16 lanes per iteration with a scalar tail.
func classifyPage16(dst, src []byte) {
	n := len(src)
	i := 0
	for ; i+16 <= n; i += 16 {
		d := dst[i : i+16 : i+16]
		s := src[i : i+16 : i+16]
		d[0] = s[0] % core.ModBase
		d[1] = s[1] % core.ModBase
		d[2] = s[2] % core.ModBase
		d[3] = s[3] % core.ModBase
		d[4] = s[4] % core.ModBase
		d[5] = s[5] % core.ModBase
		d[6] = s[6] % core.ModBase
		d[7] = s[7] % core.ModBase
		d[8] = s[8] % core.ModBase
		d[9] = s[9] % core.ModBase
		d[10] = s[10] % core.ModBase
		d[11] = s[11] % core.ModBase
		d[12] = s[12] % core.ModBase
		d[13] = s[13] % core.ModBase
		d[14] = s[14] % core.ModBase
		d[15] = s[15] % core.ModBase
	}
	for ; i < n; i++ {
		dst[i] = src[i] % core.ModBase
	}
}

// classifyPage32 processes 32 lanes per iteration via two 16-lane halves.
func classifyPage32(dst, src []byte) {
	n := len(src)
	i := 0
	for ; i+32 <= n; i += 32 {
		classifyPage16(dst[i:i+16], src[i:i+16])
		classifyPage16(dst[i+16:i+32], src[i+16:i+32])
	}
	if i < n {
		classifyPage16(dst[i:n], src[i:n])
	}
}

// HistogramPage counts the resonance classes of one 256-byte page. For a
// full page the 96 counters sum to exactly 256. Shorter inputs are counted
// as-is.
func HistogramPage(page []byte) [core.ModBase]uint32 {
	var hist [core.ModBase]uint32
	for _, b := range page {
		hist[b%core.ModBase]++
	}
	return hist
}

// Dominant returns the most frequent resonance class in an arbitrary-length
// buffer. Ties break to the lowest class id; an empty buffer reports class 0.
func Dominant(data []byte) uint8 {
	var counts [core.ModBase]uint32
	for _, b := range data {
		counts[b%core.ModBase]++
	}

	best := uint8(0)
	bestCount := counts[0]
	for c := 1; c < core.ModBase; c++ {
		if counts[c] > bestCount {
			best = uint8(c)
			bestCount = counts[c]
		}
	}
	return best
}

// Harmonizes reports whether two resonance classes form a harmonic pair,
// (r1 + r2) mod 96 == 0. Symmetric and total.
func Harmonizes(r1, r2 uint8) bool {
	return (uint16(r1)+uint16(r2))%core.ModBase == 0
}

// HarmonicConjugate returns the unique class harmonizing with r:
// 0 for class 0, otherwise 96 - r.
func HarmonicConjugate(r uint8) uint8 {
	if r == 0 {
		return 0
	}
	return core.ModBase - r
}
