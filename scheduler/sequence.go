package scheduler

import (
	"errors"
	"math"

	"github.com/sbl8/resonance/classifier"
	"github.com/sbl8/resonance/core"
)

// ErrEmptySequence is returned when applying a sequence built from an empty
// buffer: with no recorded classes there is no cycle to repeat.
var ErrEmptySequence = errors.New("harmonic sequence is empty")

// HarmonicSequence records the distinct resonance classes of a buffer in
// first-seen order, at most 96 entries. Its frequency, uniqueCount / PHI,
// spaces out the windows generated by Apply. Immutable after creation;
// destroyed explicitly.
type HarmonicSequence struct {
	resonances []uint8
	frequency  float64
}

// NewHarmonicSequence scans data once and records each class the first time
// it appears.
func NewHarmonicSequence(data []byte) *HarmonicSequence {
	s := &HarmonicSequence{
		resonances: make([]uint8, 0, core.ModBase),
	}

	var marked [core.ModBase]bool
	for _, b := range data {
		c := classifier.Classify(b)
		if !marked[c] {
			marked[c] = true
			s.resonances = append(s.resonances, c)
			if len(s.resonances) == core.ModBase {
				break
			}
		}
	}

	s.frequency = float64(len(s.resonances)) / PHI
	return s
}

// Len returns the number of recorded classes.
func (s *HarmonicSequence) Len() int { return len(s.resonances) }

// Frequency returns uniqueCount / PHI.
func (s *HarmonicSequence) Frequency() float64 { return s.frequency }

// Resonances returns the recorded classes in first-seen order.
func (s *HarmonicSequence) Resonances() []uint8 { return s.resonances }

// Apply generates windowCount windows cycling through the sequence. Window i
// uses class sequence[i mod len], offset round(i*frequency) from baseTime,
// and the standard 512 base length.
func (s *HarmonicSequence) Apply(baseTime uint32, windowCount int) ([]ScheduleWindow, error) {
	if s.resonances == nil {
		return nil, ErrDestroyed
	}
	if len(s.resonances) == 0 {
		return nil, ErrEmptySequence
	}
	if windowCount <= 0 {
		return nil, nil
	}

	windows := make([]ScheduleWindow, windowCount)
	for i := 0; i < windowCount; i++ {
		class := s.resonances[i%len(s.resonances)]
		timeOffset := uint32(math.Round(float64(i) * s.frequency))
		windows[i] = ComputeHarmonicWindow(baseTime+timeOffset, class, 512)
	}
	return windows, nil
}

// Destroy releases the recorded classes. Apply afterwards returns
// ErrDestroyed.
func (s *HarmonicSequence) Destroy() {
	s.resonances = nil
	s.frequency = 0
}
