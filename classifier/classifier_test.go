package classifier

import (
	"bytes"
	"math/rand"
	"testing"

	"github.com/sbl8/resonance/core"
)

func TestClassifyExhaustive(t *testing.T) {
	t.Parallel()
	for b := 0; b < 256; b++ {
		got := Classify(byte(b))
		want := uint8(b % core.ModBase)
		if got != want {
			t.Fatalf("Classify(%d) = %d, want %d", b, got, want)
		}
		if got >= core.ModBase {
			t.Fatalf("Classify(%d) = %d out of range", b, got)
		}
	}
}

func TestClassifyNonUniform(t *testing.T) {
	t.Parallel()
	// 256 mod 96 leaves a 64-byte remainder: classes 0..63 have three
	// preimages, classes 64..95 have two.
	var counts [core.ModBase]int
	for b := 0; b < 256; b++ {
		counts[Classify(byte(b))]++
	}
	for c, n := range counts {
		want := 2
		if c < 64 {
			want = 3
		}
		if n != want {
			t.Errorf("class %d has %d preimages, want %d", c, n, want)
		}
	}
}

func TestClassifyPageMatchesScalar(t *testing.T) {
	t.Parallel()
	rng := rand.New(rand.NewSource(42))

	// Lengths straddling both unroll widths and their tails.
	sizes := []int{0, 1, 7, 15, 16, 17, 31, 32, 33, 100, 255, 256}
	for _, n := range sizes {
		src := make([]byte, n)
		rng.Read(src)

		want := make([]byte, n)
		classifyPageScalar(want, src)

		got16 := make([]byte, n)
		classifyPage16(got16, src)
		if !bytes.Equal(got16, want) {
			t.Errorf("classifyPage16 diverges from scalar for n=%d", n)
		}

		got32 := make([]byte, n)
		classifyPage32(got32, src)
		if !bytes.Equal(got32, want) {
			t.Errorf("classifyPage32 diverges from scalar for n=%d", n)
		}

		got := make([]byte, n)
		ClassifyPage(got, src)
		if !bytes.Equal(got, want) {
			t.Errorf("ClassifyPage diverges from scalar for n=%d", n)
		}
	}
}

func TestClassifyPageShortDst(t *testing.T) {
	t.Parallel()
	src := make([]byte, core.PageSize)
	for i := range src {
		src[i] = byte(i)
	}
	dst := make([]byte, 10)
	ClassifyPage(dst, src)
	for i := 0; i < 10; i++ {
		if dst[i] != src[i]%core.ModBase {
			t.Errorf("dst[%d] = %d, want %d", i, dst[i], src[i]%core.ModBase)
		}
	}
}

func TestHistogramPageSums(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		page func() []byte
	}{
		{
			name: "ramp page",
			page: func() []byte {
				p := make([]byte, core.PageSize)
				for i := range p {
					p[i] = byte(i)
				}
				return p
			},
		},
		{
			name: "constant page",
			page: func() []byte {
				p := make([]byte, core.PageSize)
				for i := range p {
					p[i] = 0xFF
				}
				return p
			},
		},
		{
			name: "random page",
			page: func() []byte {
				p := make([]byte, core.PageSize)
				rand.New(rand.NewSource(7)).Read(p)
				return p
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hist := HistogramPage(tt.page())
			var total uint32
			for _, n := range hist {
				total += n
			}
			if total != core.PageSize {
				t.Errorf("histogram total = %d, want %d", total, core.PageSize)
			}
		})
	}
}

func TestDominant(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		data []byte
		want uint8
	}{
		{"empty buffer", nil, 0},
		{"single byte", []byte{42}, 42},
		{"clear majority", []byte{5, 5, 5, 9, 9, 17}, 5},
		{"wrapped bytes count together", []byte{96, 0, 3}, 0}, // 96 -> class 0
		{"tie breaks to lowest class", []byte{10, 3, 3, 10}, 3},
		{"tie with zero", []byte{0, 50, 50, 0}, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Dominant(tt.data); got != tt.want {
				t.Errorf("Dominant(%v) = %d, want %d", tt.data, got, tt.want)
			}
		})
	}
}

func TestHarmonizesSymmetric(t *testing.T) {
	t.Parallel()
	for r1 := 0; r1 < core.ModBase; r1++ {
		for r2 := 0; r2 < core.ModBase; r2++ {
			a := Harmonizes(uint8(r1), uint8(r2))
			b := Harmonizes(uint8(r2), uint8(r1))
			if a != b {
				t.Fatalf("Harmonizes(%d,%d) != Harmonizes(%d,%d)", r1, r2, r2, r1)
			}
			want := (r1+r2)%core.ModBase == 0
			if a != want {
				t.Fatalf("Harmonizes(%d,%d) = %t, want %t", r1, r2, a, want)
			}
		}
	}
}

func TestHarmonicConjugate(t *testing.T) {
	t.Parallel()
	for r := 0; r < core.ModBase; r++ {
		c := HarmonicConjugate(uint8(r))
		if !Harmonizes(uint8(r), c) {
			t.Errorf("class %d does not harmonize with its conjugate %d", r, c)
		}
		if back := HarmonicConjugate(c); back != uint8(r) {
			t.Errorf("conjugate not involutive for class %d: got %d", r, back)
		}
	}
	if HarmonicConjugate(0) != 0 {
		t.Error("conjugate of 0 must be 0")
	}
}

func BenchmarkClassifyPageScalar(b *testing.B) {
	src := make([]byte, core.PageSize)
	dst := make([]byte, core.PageSize)
	rand.New(rand.NewSource(1)).Read(src)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		classifyPageScalar(dst, src)
	}
}

func BenchmarkClassifyPage32(b *testing.B) {
	src := make([]byte, core.PageSize)
	dst := make([]byte, core.PageSize)
	rand.New(rand.NewSource(1)).Read(src)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		classifyPage32(dst, src)
	}
}

func BenchmarkHistogramPage(b *testing.B) {
	page := make([]byte, core.PageSize)
	rand.New(rand.NewSource(1)).Read(page)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = HistogramPage(page)
	}
}

func BenchmarkDominant(b *testing.B) {
	data := make([]byte, core.BlockSize)
	rand.New(rand.NewSource(1)).Read(data)
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = Dominant(data)
	}
}
