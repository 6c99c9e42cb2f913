package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

// nextPow2 returns the smallest power of two >= n.
func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum returns |X[k]|²/n for k in [0, n/2], where n is len(trace)
// rounded up to a power of two and the padding is zeros.
func PowerSpectrum(trace []float64) []float64 {
	if len(trace) == 0 {
		return nil
	}
	n := nextPow2(len(trace))
	padded := make([]float64, n)
	copy(padded, trace)

	spec := fft.FFTReal(padded)
	ps := make([]float64, n/2+1)
	for k := range ps {
		a := cmplx.Abs(spec[k])
		ps[k] = a * a / float64(n)
	}
	return ps
}

// BinFrequency converts bin k of a spectrum with size bins to cycles per step.
func BinFrequency(k, size int) float64 {
	if size < 2 {
		return 0
	}
	return float64(k) / float64(2*(size-1))
}

// DominantBin returns the strongest bin above DC, or 0 for flat spectra.
func DominantBin(ps []float64) int {
	best := 0
	for k := 1; k < len(ps); k++ {
		if ps[k] > 0 && (best == 0 || ps[k] > ps[best]) {
			best = k
		}
	}
	return best
}

// Peak returns the step and value of the largest |sample|.
func Peak(trace []float64) (int, float64) {
	idx, peak := -1, 0.0
	for i, v := range trace {
		if a := math.Abs(v); idx < 0 || a > peak {
			idx, peak = i, a
		}
	}
	return idx, peak
}

// ArrivalStep returns the first step where |trace| reaches frac of its peak,
// or -1 for an all-zero trace.
func ArrivalStep(trace []float64, frac float64) int {
	_, peak := Peak(trace)
	if peak == 0 {
		return -1
	}
	for i, v := range trace {
		if math.Abs(v) >= frac*peak {
			return i
		}
	}
	return -1
}
