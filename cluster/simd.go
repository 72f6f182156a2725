package cluster

import (
	"fmt"

	"github.com/sbl8/resonance/classifier"
	"github.com/sbl8/resonance/core"
)

// HistogramSIMD accumulates per-class counts for an arbitrary-length buffer
// into hist. The main loop classifies 16 lanes per iteration with a scalar
// tail; the result is bit-identical to the scalar accumulate-per-byte loop.
//
// hist is not zeroed: callers own the accumulator and may fold several
// buffers into one histogram. Concurrent invocations must not share hist.
func HistogramSIMD(data []byte, hist *[core.ModBase]uint32) {
	n := len(data)
	i := 0
	for ; i+16 <= n; i += 16 {
		s := data[i : i+16 : i+16]
		hist[s[0]%core.ModBase]++
		hist[s[1]%core.ModBase]++
		hist[s[2]%core.ModBase]++
		hist[s[3]%core.ModBase]++
		hist[s[4]%core.ModBase]++
		hist[s[5]%core.ModBase]++
		hist[s[6]%core.ModBase]++
		hist[s[7]%core.ModBase]++
		hist[s[8]%core.ModBase]++
		hist[s[9]%core.ModBase]++
		hist[s[10]%core.ModBase]++
		hist[s[11]%core.ModBase]++
		hist[s[12]%core.ModBase]++
		hist[s[13]%core.ModBase]++
		hist[s[14]%core.ModBase]++
		hist[s[15]%core.ModBase]++
	}
	for ; i < n; i++ {
		hist[data[i]%core.ModBase]++
	}
}

// histogramScalar is the reference accumulate loop HistogramSIMD must match.
func histogramScalar(data []byte, hist *[core.ModBase]uint32) {
	for _, b := range data {
		hist[classifier.Classify(b)]++
	}
}

// BatchProcessPages computes one 96-bin histogram per 256-byte page into the
// caller-supplied results, results[i] for pages[i]. Each result slot is
// overwritten, not accumulated.
func BatchProcessPages(pages [][]byte, results [][core.ModBase]uint32) error {
	if len(results) < len(pages) {
		return fmt.Errorf("results holds %d slots for %d pages", len(results), len(pages))
	}
	for i, page := range pages {
		results[i] = classifier.HistogramPage(page)
	}
	return nil
}
