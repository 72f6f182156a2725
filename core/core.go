// Package core provides the shared constants and memory primitives for the
// resonance engines.
//
// All four engines agree on a single modulus (ModBase = 96) and a fixed page
// granularity (PageSize = 256 bytes). The conservation checker additionally
// works in 768-byte cycles and 12,288-byte blocks; both are exact multiples
// of the page size, which is what makes the interleaved rhythms in the
// conservation package line up.
//
// Key components:
//   - Shared structural constants (ModBase, PageSize, CycleLength, BlockSize)
//   - Memory alignment utilities for cache-friendly backing arrays
//   - PagePool: reusable 256-byte page buffers for scan tools
package core

const (
	// ModBase is the resonance modulus. Every byte maps to a class in
	// [0, ModBase).
	ModBase = 96

	// PageSize is the fixed page granularity in bytes. Histograms and the
	// byte rhythm operate on this unit.
	PageSize = 256

	// CycleLength is the C768 conservation cycle in bytes: 8 full periods
	// of the 96 classes.
	CycleLength = 768

	// BlockSize is one conservation block: 16 cycles, 48 pages.
	BlockSize = 12288

	// CyclesPerBlock is the number of disjoint 768-byte cycles in a block.
	CyclesPerBlock = BlockSize / CycleLength

	// PagesPerBlock is the number of 256-byte pages in a block.
	PagesPerBlock = BlockSize / PageSize
)
