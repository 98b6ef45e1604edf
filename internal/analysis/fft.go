package analysis

import (
	"math"
	"math/cmplx"

	"github.com/mjibson/go-dsp/fft"
)

func nextPow2(n int) int {
	p := 1
	for p < n {
		p <<= 1
	}
	return p
}

// PowerSpectrum removes the mean, zero pads to a power of two and returns
// the magnitudes of the first half of the spectrum.
func PowerSpectrum(data []float64) []float64 {
	if len(data) == 0 {
		return nil
	}
	mean := 0.0
	for _, v := range data {
		mean += v
	}
	mean /= float64(len(data))

	padded := make([]float64, nextPow2(len(data)))
	for i, v := range data {
		padded[i] = v - mean
	}

	spectrum := fft.FFTReal(padded)
	ps := make([]float64, len(spectrum)/2)
	for i := range ps {
		ps[i] = cmplx.Abs(spectrum[i])
	}
	return ps
}

// DominantFrequency returns the strongest frequency in Hz of a series
// sampled every dt seconds, or 0 for a flat series.
func DominantFrequency(data []float64, dt float64) float64 {
	ps := PowerSpectrum(data)
	if len(ps) < 2 || dt <= 0 {
		return 0
	}
	best, peak := 0, 1e-9
	for i := 1; i < len(ps); i++ {
		if ps[i] > peak {
			best, peak = i, ps[i]
		}
	}
	return float64(best) / (float64(len(ps)*2) * dt)
}

// Settle returns the earliest time after which every sample stays within
// band of the final value. ok is false for empty or mismatched input.
func Settle(data, times []float64, band float64) (ts float64, ok bool) {
	if len(data) == 0 || len(data) != len(times) {
		return 0, false
	}
	final := data[len(data)-1]
	for i := len(data) - 2; i >= 0; i-- {
		if math.Abs(data[i]-final) > band {
			return times[i+1], true
		}
	}
	return times[0], true
}
