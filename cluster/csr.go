// Package cluster partitions byte buffers into per-class buckets and sparse
// matrices keyed by resonance class.
//
// Two layouts are provided. CSRMatrix is a compressed-sparse-row view of the
// "hits" of one target class over a virtual rows x cols grid, built with the
// classic two-pass count-then-fill scheme. ResonanceCluster is a growable
// per-class bucket; a ClusterDirectory holds one cluster per class and
// supports merging and derived statistics.
//
// All aggregates here are exclusively owned by their creator and destroyed
// explicitly. None of the operations are internally synchronized.
package cluster

import (
	"errors"
	"fmt"

	"github.com/sbl8/resonance/classifier"
	"github.com/sbl8/resonance/core"
)

var (
	// ErrRowRange is reported by BuildFromResonance when elements fell
	// beyond the matrix's row range. In-range elements are still built.
	ErrRowRange = errors.New("elements beyond matrix row range")

	// ErrDestroyed is returned by operations on a destroyed aggregate.
	ErrDestroyed = errors.New("aggregate has been destroyed")
)

// CSRMatrix is a compressed-sparse-row layout over a fixed rows x cols grid.
// rowPointers always has rows+1 entries, is monotone non-decreasing, starts
// at 0, and ends at the total nonzero count. values and colIndices stay nil
// until the first build.
type CSRMatrix struct {
	rows uint32
	cols uint32

	rowPointers []uint32
	values      []uint8
	colIndices  []uint32
}

// NewCSRMatrix creates an empty matrix with fixed dimensions. cols must be
// positive; it defines the virtual row width (row = index / cols).
func NewCSRMatrix(rows, cols uint32) (*CSRMatrix, error) {
	if cols == 0 {
		return nil, fmt.Errorf("csr matrix needs a positive column count")
	}
	return &CSRMatrix{
		rows:        rows,
		cols:        cols,
		rowPointers: make([]uint32, rows+1),
	}, nil
}

// BuildFromResonance populates the matrix with every element of data whose
// resonance class equals targetClass. Element i lands at row i/cols, column
// i%cols, storing the raw byte as its value.
//
// The build is two-pass: pass one counts matches per row and folds the counts
// into cumulative row pointers, pass two re-scans and writes each (value,
// column) pair at its row's write cursor. Elements whose row falls outside
// the matrix are skipped; if any were skipped the build still succeeds for
// the in-range elements and reports ErrRowRange with the dropped count.
func (m *CSRMatrix) BuildFromResonance(data []byte, targetClass uint8) error {
	if m.rowPointers == nil {
		return ErrDestroyed
	}

	for i := range m.rowPointers {
		m.rowPointers[i] = 0
	}

	// Pass 1: count matches per virtual row.
	dropped := 0
	for i, b := range data {
		if classifier.Classify(b) != targetClass {
			continue
		}
		row := uint32(i) / m.cols
		if row >= m.rows {
			dropped++
			continue
		}
		m.rowPointers[row+1]++
	}

	// Fold counts into cumulative prefix sums.
	for r := uint32(0); r < m.rows; r++ {
		m.rowPointers[r+1] += m.rowPointers[r]
	}

	nnz := m.rowPointers[m.rows]
	m.values = make([]uint8, nnz)
	m.colIndices = core.AlignedUint32(int(nnz))

	// Pass 2: write each match at its row's cursor. The cursor scratch is
	// sized to the row count, not the class modulus.
	cursors := make([]uint32, m.rows)
	copy(cursors, m.rowPointers[:m.rows])

	for i, b := range data {
		if classifier.Classify(b) != targetClass {
			continue
		}
		row := uint32(i) / m.cols
		if row >= m.rows {
			continue
		}
		pos := cursors[row]
		m.values[pos] = b
		m.colIndices[pos] = uint32(i) % m.cols
		cursors[row] = pos + 1
	}

	if dropped > 0 {
		return fmt.Errorf("%w: dropped %d", ErrRowRange, dropped)
	}
	return nil
}

// Rows returns the fixed row count.
func (m *CSRMatrix) Rows() uint32 { return m.rows }

// Cols returns the fixed column count.
func (m *CSRMatrix) Cols() uint32 { return m.cols }

// NNZ returns the total number of stored elements.
func (m *CSRMatrix) NNZ() uint32 {
	if m.rowPointers == nil {
		return 0
	}
	return m.rowPointers[m.rows]
}

// RowSpan returns the half-open [start, end) range of a row's elements in
// Values and ColIndices.
func (m *CSRMatrix) RowSpan(row uint32) (start, end uint32, err error) {
	if m.rowPointers == nil {
		return 0, 0, ErrDestroyed
	}
	if row >= m.rows {
		return 0, 0, fmt.Errorf("%w: row %d of %d", ErrRowRange, row, m.rows)
	}
	return m.rowPointers[row], m.rowPointers[row+1], nil
}

// RowPointers returns the cumulative row offsets, length rows+1.
func (m *CSRMatrix) RowPointers() []uint32 { return m.rowPointers }

// Values returns the stored element values; nil before the first build.
func (m *CSRMatrix) Values() []uint8 { return m.values }

// ColIndices returns the stored column indices; nil before the first build.
func (m *CSRMatrix) ColIndices() []uint32 { return m.colIndices }

// Destroy releases all backing arrays. The matrix cannot be rebuilt.
func (m *CSRMatrix) Destroy() {
	m.rowPointers = nil
	m.values = nil
	m.colIndices = nil
}
