// resoscan classifies byte streams and reports resonance structure: dominant
// classes, conservation verdicts, schedule windows, and cluster statistics.
package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sbl8/resonance/classifier"
	"github.com/sbl8/resonance/cluster"
	"github.com/sbl8/resonance/conservation"
	"github.com/sbl8/resonance/core"
	"github.com/sbl8/resonance/scheduler"
)

var (
	flagConfig  string
	flagVerbose bool

	logger *zap.Logger
	cfg    scanConfig
)

func main() {
	root := &cobra.Command{
		Use:   "resoscan",
		Short: "Scan byte streams for mod-96 resonance structure",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			zcfg := zap.NewProductionConfig()
			if flagVerbose {
				zcfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			var err error
			logger, err = zcfg.Build()
			if err != nil {
				return err
			}

			cfg = defaultConfig()
			if flagConfig != "" {
				cfg, err = loadConfig(flagConfig)
				if err != nil {
					return err
				}
				logger.Debug("Loaded config", zap.String("path", flagConfig))
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config.toml")
	root.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")

	root.AddCommand(classifyCmd(), verifyCmd(), scheduleCmd(), clusterCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// readInput reads a file argument, or stdin page by page when the argument
// is "-".
func readInput(path string) ([]byte, error) {
	if path != "-" {
		return os.ReadFile(path)
	}

	pool := core.NewPagePool()
	var data []byte
	for {
		page := pool.Get()
		n, err := io.ReadFull(os.Stdin, page)
		data = append(data, page[:n]...)
		pool.Put(page)
		if err == io.EOF || err == io.ErrUnexpectedEOF {
			return data, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func classifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "classify <file|->",
		Short: "Report dominant class and histogram summary",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}
			logger.Debug("Scanning input", zap.Int("bytes", len(data)))

			var hist [core.ModBase]uint32
			cluster.HistogramSIMD(data, &hist)

			dominant := classifier.Dominant(data)
			fmt.Printf("bytes:     %d\n", len(data))
			fmt.Printf("dominant:  class %d (count %d)\n", dominant, hist[dominant])
			fmt.Printf("conjugate: class %d\n", classifier.HarmonicConjugate(dominant))

			type entry struct {
				class uint8
				count uint32
			}
			entries := make([]entry, 0, core.ModBase)
			for c, n := range hist {
				if n > 0 {
					entries = append(entries, entry{uint8(c), n})
				}
			}
			sort.Slice(entries, func(i, j int) bool {
				if entries[i].count != entries[j].count {
					return entries[i].count > entries[j].count
				}
				return entries[i].class < entries[j].class
			})

			fmt.Printf("top %d classes:\n", cfg.TopClasses)
			for i, e := range entries {
				if i >= cfg.TopClasses {
					break
				}
				fmt.Printf("  class %2d: %d\n", e.class, e.count)
			}
			return nil
		},
	}
}

func verifyCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "verify <file|->",
		Short: "Run C768 conservation checks per block",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			blocks := len(data) / core.BlockSize
			if blocks == 0 && len(data) > 0 {
				blocks = 1
			}
			violations := 0

			for b := 0; b < blocks; b++ {
				end := (b + 1) * core.BlockSize
				if end > len(data) {
					end = len(data)
				}
				block := data[b*core.BlockSize : end]

				closed := conservation.VerifyAllWindows(block)
				locked := conservation.VerifyPhaseLock(block)
				if !closed || !locked {
					violations++
				}
				logger.Debug("Block checked",
					zap.Int("block", b),
					zap.Bool("closed", closed),
					zap.Bool("phase_locked", locked))
				fmt.Printf("block %d: closure=%t phase_lock=%t\n", b, closed, locked)
			}

			if violations > 0 {
				fmt.Printf("%d of %d blocks violate conservation\n", violations, blocks)
			} else {
				fmt.Printf("all %d blocks conserved\n", blocks)
			}
			return nil
		},
	}
}

func scheduleCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schedule <file|->",
		Short: "Compute phase-locked windows from the input's harmonic sequence",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			optimal := scheduler.OptimalWindow(data, cfg.BaseTime)
			fmt.Printf("optimal: class=%d start=%d length=%d phase=%d\n",
				optimal.Class, optimal.Start, optimal.Length, optimal.Phase)

			seq := scheduler.NewHarmonicSequence(data)
			defer seq.Destroy()
			logger.Debug("Built harmonic sequence",
				zap.Int("unique_classes", seq.Len()),
				zap.Float64("frequency", seq.Frequency()))

			windows, err := seq.Apply(cfg.BaseTime, cfg.WindowCount)
			if err != nil {
				return err
			}

			batch, err := scheduler.NewBatchScheduler(uint32(len(windows)))
			if err != nil {
				return err
			}
			defer batch.Destroy()
			for i, w := range windows {
				if err := batch.Add(w, uint32(i)); err != nil {
					return err
				}
			}
			if err := batch.Process(cfg.BaseTime); err != nil {
				return err
			}

			results := batch.Results()
			for i, w := range windows {
				fmt.Printf("window %2d: class=%2d start=%d length=%d locked=%d\n",
					i, w.Class, w.Start, w.Length, results[i])
			}
			return nil
		},
	}
}

func clusterCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "cluster <file|->",
		Short: "Partition the input into per-class clusters and report stats",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := readInput(args[0])
			if err != nil {
				return err
			}

			dir, err := cluster.BuildAllClusters(data)
			if err != nil {
				return err
			}
			defer dir.Destroy()

			var stats [core.ModBase]cluster.ClusterStats
			dir.ComputeStats(&stats)
			for c, s := range stats {
				if s.Count == 0 {
					continue
				}
				fmt.Printf("class %2d: count=%d density=%.4f affinity=%.4f\n",
					c, s.Count, s.Density, s.Affinity)
			}

			target := classifier.Dominant(data)
			if cfg.TargetClass >= 0 {
				target = uint8(cfg.TargetClass)
			}

			rows := uint32(len(data)) / cfg.CSRCols
			if uint32(len(data))%cfg.CSRCols != 0 {
				rows++
			}
			if rows == 0 {
				rows = 1
			}
			matrix, err := cluster.NewCSRMatrix(rows, cfg.CSRCols)
			if err != nil {
				return err
			}
			defer matrix.Destroy()

			if err := matrix.BuildFromResonance(data, target); err != nil {
				return err
			}
			fmt.Printf("csr: class=%d rows=%d cols=%d nnz=%d\n",
				target, matrix.Rows(), matrix.Cols(), matrix.NNZ())
			return nil
		},
	}
}
