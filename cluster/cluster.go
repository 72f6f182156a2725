package cluster

import (
	"errors"
	"fmt"
	"unsafe"

	"github.com/sbl8/resonance/classifier"
	"github.com/sbl8/resonance/core"
)

var (
	// ErrClassRange is returned for class ids outside [0, 96).
	ErrClassRange = errors.New("resonance class out of range")

	// ErrNilCluster is returned when a merge references an empty directory
	// slot.
	ErrNilCluster = errors.New("cluster slot is empty")

	// ErrMergeConflict is returned when a merge batch references the same
	// slot twice; chained merges must be issued as separate batches.
	ErrMergeConflict = errors.New("cluster referenced twice in merge batch")
)

// DefaultClusterCapacity is the initial capacity used by BuildAllClusters.
const DefaultClusterCapacity = 256

// statDensityScale and statAffinityKnee parameterize ComputeStats:
// density is size/4096, affinity saturates at density 0.75.
const (
	statDensityScale = 4096.0
	statAffinityKnee = 0.75
)

// ResonanceCluster is a growable bucket of (index, value) pairs for one
// resonance class. The two backing arrays grow together, doubling exactly
// when size reaches capacity.
type ResonanceCluster struct {
	class    uint8
	size     uint32
	capacity uint32
	indices  []uint32
	values   []uint8
}

// ClusterStats is the read-only derived view of one cluster.
type ClusterStats struct {
	Count    uint32
	Density  float64
	Affinity float64
}

// NewCluster allocates an empty cluster for a class with the given initial
// capacity.
func NewCluster(class uint8, initialCapacity uint32) (*ResonanceCluster, error) {
	if class >= core.ModBase {
		return nil, fmt.Errorf("%w: %d", ErrClassRange, class)
	}
	if initialCapacity == 0 {
		return nil, fmt.Errorf("cluster capacity must be positive")
	}
	return &ResonanceCluster{
		class:    class,
		capacity: initialCapacity,
		indices:  core.AlignedUint32(int(initialCapacity)),
		values:   core.AlignedBytes(int(initialCapacity)),
	}, nil
}

// Add appends an (index, value) pair, doubling the backing arrays first if
// the cluster is full.
func (c *ResonanceCluster) Add(index uint32, value uint8) error {
	if c.indices == nil {
		return ErrDestroyed
	}
	if c.size == c.capacity {
		c.grow(c.capacity * 2)
	}
	c.indices[c.size] = index
	c.values[c.size] = value
	c.size++
	return nil
}

// grow reallocates both backing arrays to newCapacity, preserving contents.
func (c *ResonanceCluster) grow(newCapacity uint32) {
	indices := core.AlignedUint32(int(newCapacity))
	values := core.AlignedBytes(int(newCapacity))
	copy(indices, c.indices[:c.size])
	copy(values, c.values[:c.size])
	c.indices = indices
	c.values = values
	c.capacity = newCapacity
}

// Class returns the cluster's resonance class.
func (c *ResonanceCluster) Class() uint8 { return c.class }

// Size returns the number of stored pairs.
func (c *ResonanceCluster) Size() uint32 { return c.size }

// Capacity returns the current backing array capacity.
func (c *ResonanceCluster) Capacity() uint32 { return c.capacity }

// Indices returns the stored buffer positions.
func (c *ResonanceCluster) Indices() []uint32 {
	if c.indices == nil {
		return nil
	}
	return c.indices[:c.size]
}

// Values returns the stored byte values.
func (c *ResonanceCluster) Values() []uint8 {
	if c.values == nil {
		return nil
	}
	return c.values[:c.size]
}

// Stats derives the read-only statistics for the cluster.
func (c *ResonanceCluster) Stats() ClusterStats {
	density := float64(c.size) / statDensityScale
	affinity := density / statAffinityKnee
	if affinity > 1.0 {
		affinity = 1.0
	}
	return ClusterStats{Count: c.size, Density: density, Affinity: affinity}
}

// Destroy releases the backing arrays.
func (c *ResonanceCluster) Destroy() {
	c.indices = nil
	c.values = nil
	c.size = 0
	c.capacity = 0
}

// ClusterDirectory holds one cluster per resonance class. Slots may become
// nil after merges; callers must check Get results.
type ClusterDirectory struct {
	clusters [core.ModBase]*ResonanceCluster
}

// BuildAllClusters creates 96 clusters and routes every element of data to
// its class's cluster in one scan.
func BuildAllClusters(data []byte) (*ClusterDirectory, error) {
	dir := &ClusterDirectory{}
	for class := 0; class < core.ModBase; class++ {
		c, err := NewCluster(uint8(class), DefaultClusterCapacity)
		if err != nil {
			return nil, err
		}
		dir.clusters[class] = c
	}

	for i, b := range data {
		c := dir.clusters[classifier.Classify(b)]
		if err := c.Add(uint32(i), b); err != nil {
			return nil, err
		}
	}
	return dir, nil
}

// Get returns the cluster for a class, or nil if the slot was consumed by a
// merge.
func (d *ClusterDirectory) Get(class uint8) *ResonanceCluster {
	if class >= core.ModBase {
		return nil
	}
	return d.clusters[class]
}

// TotalSize sums the sizes of all live clusters.
func (d *ClusterDirectory) TotalSize() uint32 {
	var total uint32
	for _, c := range d.clusters {
		if c != nil {
			total += c.size
		}
	}
	return total
}

// ComputeStats fills stats with the derived view of every slot. Empty slots
// yield zero stats.
func (d *ClusterDirectory) ComputeStats(stats *[core.ModBase]ClusterStats) {
	for i, c := range d.clusters {
		if c == nil {
			stats[i] = ClusterStats{}
			continue
		}
		stats[i] = c.Stats()
	}
}

// MergePair names one merge: source's entries are appended to target and
// source's slot is emptied.
type MergePair struct {
	Source uint8
	Target uint8
}

// BatchMergeClusters applies a batch of merges. The whole batch is validated
// before anything mutates: class ids must be in range, both slots live,
// source distinct from target, and no slot referenced twice across the
// batch. Each merge reallocates the target to exactly sourceSize+targetSize,
// appends the source's entries after the target's in their original order,
// and empties the source slot.
func (d *ClusterDirectory) BatchMergeClusters(pairs []MergePair) error {
	var referenced [core.ModBase]bool
	for _, p := range pairs {
		if p.Source >= core.ModBase || p.Target >= core.ModBase {
			return fmt.Errorf("%w: merge (%d -> %d)", ErrClassRange, p.Source, p.Target)
		}
		if p.Source == p.Target {
			return fmt.Errorf("%w: class %d merged into itself", ErrMergeConflict, p.Source)
		}
		if d.clusters[p.Source] == nil {
			return fmt.Errorf("%w: source class %d", ErrNilCluster, p.Source)
		}
		if d.clusters[p.Target] == nil {
			return fmt.Errorf("%w: target class %d", ErrNilCluster, p.Target)
		}
		if referenced[p.Source] {
			return fmt.Errorf("%w: class %d", ErrMergeConflict, p.Source)
		}
		if referenced[p.Target] {
			return fmt.Errorf("%w: class %d", ErrMergeConflict, p.Target)
		}
		referenced[p.Source] = true
		referenced[p.Target] = true
	}

	for _, p := range pairs {
		source := d.clusters[p.Source]
		target := d.clusters[p.Target]

		merged := source.size + target.size
		if merged > 0 {
			target.grow(merged)
		}
		copy(target.indices[target.size:merged], source.indices[:source.size])
		copy(target.values[target.size:merged], source.values[:source.size])
		target.size = merged

		source.Destroy()
		d.clusters[p.Source] = nil
	}
	return nil
}

// Destroy releases every live cluster and empties the directory.
func (d *ClusterDirectory) Destroy() {
	for i, c := range d.clusters {
		if c != nil {
			c.Destroy()
			d.clusters[i] = nil
		}
	}
}

// Footprint reports the byte footprint of the cluster's backing arrays.
func (c *ResonanceCluster) Footprint() uintptr {
	return uintptr(c.capacity)*unsafe.Sizeof(uint32(0)) + uintptr(c.capacity)
}
