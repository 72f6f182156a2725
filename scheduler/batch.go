package scheduler

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/sbl8/resonance/core"
)

var (
	// ErrBatchFull is returned by Add when the scheduler holds maxWindows
	// entries.
	ErrBatchFull = errors.New("batch scheduler is full")

	// ErrDestroyed is returned by operations on a destroyed aggregate.
	ErrDestroyed = errors.New("aggregate has been destroyed")
)

// batchRegion describes one parallel array's slot in the backing buffer.
type batchRegion struct {
	offset uintptr
	size   uintptr
	name   string
}

// BatchScheduler owns three parallel arrays - window descriptors, time
// offsets, and per-entry results - carved out of a single cache-aligned
// allocation. Capacity is fixed at creation; entries are appended with Add
// and evaluated in place by Process.
//
// A BatchScheduler is exclusively owned by one goroutine for its entire
// lifetime; no operation is internally synchronized.
type BatchScheduler struct {
	buffer     []byte
	maxWindows uint32
	count      uint32

	windowsRegion batchRegion
	timesRegion   batchRegion
	resultsRegion batchRegion

	windows []ScheduleWindow
	times   []uint32
	results []uint8
}

// NewBatchScheduler allocates a scheduler with a fixed capacity. The three
// parallel arrays share one backing buffer, each region aligned to a cache
// line boundary.
func NewBatchScheduler(maxWindows uint32) (*BatchScheduler, error) {
	if maxWindows == 0 {
		return nil, fmt.Errorf("batch scheduler capacity must be positive")
	}

	n := uintptr(maxWindows)
	windowSize := core.AlignedSize(n * unsafe.Sizeof(ScheduleWindow{}))
	timesSize := core.AlignedSize(n * 4)
	resultsSize := core.AlignedSize(n)

	b := &BatchScheduler{
		buffer:     core.AlignedBytes(int(windowSize + timesSize + resultsSize)),
		maxWindows: maxWindows,
	}

	offset := uintptr(0)
	b.windowsRegion = batchRegion{offset: offset, size: windowSize, name: "Windows"}
	offset += windowSize
	b.timesRegion = batchRegion{offset: offset, size: timesSize, name: "Times"}
	offset += timesSize
	b.resultsRegion = batchRegion{offset: offset, size: resultsSize, name: "Results"}

	b.windows = unsafe.Slice(
		(*ScheduleWindow)(unsafe.Pointer(&b.buffer[b.windowsRegion.offset])), maxWindows)
	b.times = unsafe.Slice(
		(*uint32)(unsafe.Pointer(&b.buffer[b.timesRegion.offset])), maxWindows)
	b.results = unsafe.Slice(
		&b.buffer[b.resultsRegion.offset], maxWindows)

	return b, nil
}

// Add appends a window and its time offset at the current count.
func (b *BatchScheduler) Add(window ScheduleWindow, time uint32) error {
	if b.buffer == nil {
		return ErrDestroyed
	}
	if b.count >= b.maxWindows {
		return ErrBatchFull
	}
	b.windows[b.count] = window
	b.times[b.count] = time
	b.count++
	return nil
}

// Process evaluates every entry: it computes the next window for
// baseTime + entry time and the entry's class, then records whether that
// window is phase locked as 0/1 in the results array.
func (b *BatchScheduler) Process(baseTime uint32) error {
	if b.buffer == nil {
		return ErrDestroyed
	}
	for i := uint32(0); i < b.count; i++ {
		next := NextWindow(baseTime+b.times[i], b.windows[i].Class)
		if IsPhaseLocked(next, b.windows[i].Class) {
			b.results[i] = 1
		} else {
			b.results[i] = 0
		}
	}
	return nil
}

// Count returns the number of entries added so far.
func (b *BatchScheduler) Count() uint32 { return b.count }

// Capacity returns the fixed maximum number of entries.
func (b *BatchScheduler) Capacity() uint32 { return b.maxWindows }

// Windows returns the populated window entries.
func (b *BatchScheduler) Windows() []ScheduleWindow {
	if b.buffer == nil {
		return nil
	}
	return b.windows[:b.count]
}

// Times returns the populated time offsets.
func (b *BatchScheduler) Times() []uint32 {
	if b.buffer == nil {
		return nil
	}
	return b.times[:b.count]
}

// Results returns the per-entry 0/1 phase lock results from the last Process.
func (b *BatchScheduler) Results() []uint8 {
	if b.buffer == nil {
		return nil
	}
	return b.results[:b.count]
}

// Destroy releases the backing buffer. Further operations return
// ErrDestroyed; Destroy itself is idempotent.
func (b *BatchScheduler) Destroy() {
	b.buffer = nil
	b.windows = nil
	b.times = nil
	b.results = nil
	b.count = 0
}
