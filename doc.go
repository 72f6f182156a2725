// Package resonance implements a deterministic mod-96 classification core
// for byte streams and the engines built on top of it.
//
// Every byte maps to a "resonance class" (byte mod 96). Three engines consume
// that classification: a conservation checker verifying periodic sum-mod-96
// closure over fixed windows, a phase-locked scheduler computing future
// processing windows aligned to class periods, and a clustering engine that
// partitions buffers into per-class buckets using a compressed-sparse-row
// layout.
//
// # Architecture Overview
//
// The core consists of four components, leaves first:
//
//   - classifier: byte -> class mapping, page kernels, histograms,
//     dominant-class detection, harmonic pairing
//   - conservation: the C768 checker - rolling 768-element closure plus two
//     interleaved periodicities (16-page rhythm, 3-block byte rhythm)
//   - scheduler: next-window arithmetic, batch scheduling over an
//     arena-partitioned allocation, harmonic sequences
//   - cluster: CSR matrices, per-class growable clusters, merge and stats
//
// # Performance Characteristics
//
//   - Zero-allocation hot paths: page kernels write caller-supplied buffers
//   - Vector-friendly loops: unrolled 16/32-lane kernels with scalar tails,
//     bit-identical to the scalar reference
//   - Cache efficiency: aggregate backing arrays are cache-line aligned
//
// # Basic Usage
//
//	data, _ := os.ReadFile("input.bin")
//
//	dom := classifier.Dominant(data)
//	w := scheduler.OptimalWindow(data, uint32(time.Now().Unix()))
//
//	dir, err := cluster.BuildAllClusters(data)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer dir.Destroy()
//
// # Package Structure
//
//   - core: shared constants, alignment utilities, page buffer pool
//   - classifier: mod-96 classification kernels
//   - conservation: C768 conservation checker
//   - scheduler: phase-locked harmonic scheduler
//   - cluster: CSR clustering engine
//   - cmd: command-line tools (resoscan, resoperf)
//
// For more information, see the documentation at https://pkg.go.dev/resonance
// and the project repository at https://github.com/sbl8/resonance
package resonance
