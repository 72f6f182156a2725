package core

import "unsafe"

const (
	// CacheLineSize is a common cache line size, typically 64 bytes.
	// Adjust if targeting specific architectures with different cache line sizes.
	CacheLineSize = 64
)

// IsAligned checks if a pointer (represented as a uintptr) is aligned to a
// cache line boundary.
func IsAligned(addr uintptr) bool {
	return addr%CacheLineSize == 0
}

// AlignedSize calculates the size rounded up to the nearest cache line multiple.
func AlignedSize(size uintptr) uintptr {
	return (size + uintptr(CacheLineSize-1)) & ^uintptr(CacheLineSize-1)
}

// AlignedBytes allocates a byte slice with its underlying array aligned to
// CacheLineSize. Cluster and CSR backing arrays are allocated through this so
// the vectorized kernels read along cache lines.
func AlignedBytes(size int) []byte {
	if size == 0 {
		return nil
	}
	// Allocate extra space to allow for alignment.
	// The extra space needed is at most CacheLineSize - 1.
	buf := make([]byte, size+CacheLineSize-1)

	ptr := uintptr(unsafe.Pointer(&buf[0]))

	// Offset to the next cache line boundary; 0 if already aligned.
	offset := uintptr(0)
	if mod := ptr % CacheLineSize; mod != 0 {
		offset = CacheLineSize - mod
	}

	return buf[offset : offset+uintptr(size)]
}

// AlignedUint32 allocates a uint32 slice whose backing array starts on a
// cache line boundary.
func AlignedUint32(count int) []uint32 {
	if count == 0 {
		return nil
	}
	raw := AlignedBytes(count * 4)
	return unsafe.Slice((*uint32)(unsafe.Pointer(&raw[0])), count)
}

// Align32 rounds n up to the nearest 32-byte boundary.
// This is kept for specific 32-byte alignment needs, separate from cache line alignment.
func Align32(n int) int { return (n + 31) &^ 31 }
