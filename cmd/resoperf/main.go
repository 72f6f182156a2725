// resoperf measures the throughput of the resonance kernels: classification,
// histograms, window arithmetic, and cluster construction.
package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"runtime"
	"time"

	"github.com/sbl8/resonance/classifier"
	"github.com/sbl8/resonance/cluster"
	"github.com/sbl8/resonance/core"
	"github.com/sbl8/resonance/scheduler"
)

var (
	testType = flag.String("test", "all", "Test type: all, classify, histogram, schedule, cluster")
	size     = flag.Int("size", core.BlockSize, "Test data size in bytes")
	iter     = flag.Int("iter", 1000, "Number of iterations")
	verbose  = flag.Bool("verbose", false, "Verbose output")
)

func main() {
	flag.Parse()

	fmt.Printf("Resonance Performance Analysis Tool\n")
	fmt.Printf("===================================\n")
	fmt.Printf("Go Version: %s\n", runtime.Version())
	fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
	fmt.Printf("CPUs: %d\n", runtime.NumCPU())
	fmt.Printf("Test Size: %d bytes\n", *size)
	fmt.Printf("Iterations: %d\n", *iter)
	fmt.Printf("\n")

	switch *testType {
	case "all":
		runClassifyTests()
		runHistogramTests()
		runScheduleTests()
		runClusterTests()
	case "classify":
		runClassifyTests()
	case "histogram":
		runHistogramTests()
	case "schedule":
		runScheduleTests()
	case "cluster":
		runClusterTests()
	default:
		fmt.Printf("Unknown test type: %s\n", *testType)
		os.Exit(1)
	}
}

func bytesPerSecond(duration time.Duration) float64 {
	return float64(*size*(*iter)) / duration.Seconds()
}

func generateBytes(n int) []byte {
	data := make([]byte, n)
	rand.New(rand.NewSource(time.Now().UnixNano())).Read(data)
	return data
}

func runClassifyTests() {
	fmt.Printf("Classification Performance\n")
	fmt.Printf("--------------------------\n")

	data := generateBytes(*size)
	dst := make([]byte, *size)

	start := time.Now()
	for i := 0; i < *iter; i++ {
		classifier.ClassifyPage(dst, data)
	}
	pageTime := time.Since(start)

	start = time.Now()
	for i := 0; i < *iter; i++ {
		_ = classifier.Dominant(data)
	}
	dominantTime := time.Since(start)

	fmt.Printf("Classify (unrolled):         %v (%.2f MB/s)\n",
		pageTime, bytesPerSecond(pageTime)/1e6)
	fmt.Printf("Dominant Class:              %v (%.2f MB/s)\n",
		dominantTime, bytesPerSecond(dominantTime)/1e6)
	fmt.Printf("\n")
}

func runHistogramTests() {
	fmt.Printf("Histogram Performance\n")
	fmt.Printf("---------------------\n")

	data := generateBytes(*size)
	var hist [core.ModBase]uint32

	start := time.Now()
	for i := 0; i < *iter; i++ {
		cluster.HistogramSIMD(data, &hist)
	}
	simdTime := time.Since(start)

	page := data
	if len(page) > core.PageSize {
		page = page[:core.PageSize]
	}
	start = time.Now()
	for i := 0; i < *iter; i++ {
		_ = classifier.HistogramPage(page)
	}
	pageTime := time.Since(start)

	fmt.Printf("Histogram (16-lane):         %v (%.2f MB/s)\n",
		simdTime, bytesPerSecond(simdTime)/1e6)
	fmt.Printf("Histogram (single page):     %v (%d iterations)\n", pageTime, *iter)
	fmt.Printf("\n")
}

func runScheduleTests() {
	fmt.Printf("Scheduler Performance\n")
	fmt.Printf("---------------------\n")

	rng := rand.New(rand.NewSource(1))
	times := make([]uint32, *iter)
	classes := make([]uint8, *iter)
	for i := range times {
		times[i] = rng.Uint32() % 1_000_000
		classes[i] = uint8(rng.Intn(core.ModBase))
	}

	start := time.Now()
	for i := 0; i < *iter; i++ {
		_ = scheduler.NextWindow(times[i], classes[i])
	}
	scalarTime := time.Since(start)

	start = time.Now()
	for i := 0; i+4 <= *iter; i += 4 {
		_ = scheduler.NextWindowV4(
			[4]uint32{times[i], times[i+1], times[i+2], times[i+3]},
			[4]uint8{classes[i], classes[i+1], classes[i+2], classes[i+3]})
	}
	v4Time := time.Since(start)

	windowsPerSecond := func(d time.Duration) float64 {
		return float64(*iter) / d.Seconds()
	}
	fmt.Printf("NextWindow (scalar):         %v (%.2f Mops/s)\n",
		scalarTime, windowsPerSecond(scalarTime)/1e6)
	fmt.Printf("NextWindow (4-wide):         %v (%.2f Mops/s)\n",
		v4Time, windowsPerSecond(v4Time)/1e6)

	if *verbose {
		fmt.Printf("  4-wide speedup: %.2fx\n", float64(scalarTime)/float64(v4Time))
	}
	fmt.Printf("\n")
}

func runClusterTests() {
	fmt.Printf("Cluster Performance\n")
	fmt.Printf("-------------------\n")

	data := generateBytes(*size)

	start := time.Now()
	var footprint uintptr
	builds := *iter / 10
	if builds == 0 {
		builds = 1
	}
	for i := 0; i < builds; i++ {
		dir, err := cluster.BuildAllClusters(data)
		if err != nil {
			fmt.Printf("cluster build failed: %v\n", err)
			os.Exit(1)
		}
		if i == 0 {
			for c := uint8(0); c < core.ModBase; c++ {
				if cl := dir.Get(c); cl != nil {
					footprint += cl.Footprint()
				}
			}
		}
		dir.Destroy()
	}
	buildTime := time.Since(start)

	rows := uint32(*size) / core.PageSize
	if rows == 0 {
		rows = 1
	}
	matrix, err := cluster.NewCSRMatrix(rows, core.PageSize)
	if err != nil {
		fmt.Printf("csr create failed: %v\n", err)
		os.Exit(1)
	}
	defer matrix.Destroy()

	start = time.Now()
	for i := 0; i < builds; i++ {
		if err := matrix.BuildFromResonance(data, 0); err != nil {
			fmt.Printf("csr build failed: %v\n", err)
			os.Exit(1)
		}
	}
	csrTime := time.Since(start)

	perBuild := func(d time.Duration) float64 {
		return float64(*size) * float64(builds) / d.Seconds()
	}
	fmt.Printf("BuildAllClusters:            %v (%.2f MB/s)\n",
		buildTime, perBuild(buildTime)/1e6)
	fmt.Printf("CSR Build:                   %v (%.2f MB/s)\n",
		csrTime, perBuild(csrTime)/1e6)
	fmt.Printf("Cluster Footprint:           %d bytes\n", footprint)
	fmt.Printf("\n")
}
