package modem

import (
	"math/cmplx"

	"gonum.org/v1/gonum/dsp/fourier"
)

// peakThreshold is τ in spec.md §4.4. Magnitudes are normalized to the
// strongest bin and every tone has the same amplitude, so each tone's
// strongest bin normalizes to well above 0.4, while typical spectral
// leakage stays below it.
const peakThreshold = 0.4

// Detect runs an FFT over rawFrame, normalizes the positive-frequency
// half-spectrum, and returns the frequencies of local-maximum bins
// exceeding peakThreshold, in ascending bin order. Bins 0 and N/2-1 are
// never examined as peak candidates since they have only one neighbor.
func Detect(rawFrame []float64, sampleRate float64, fft *fourier.FFT) []float64 {
	n := len(rawFrame)
	coeffs := fft.Coefficients(nil, rawFrame)

	half := n / 2
	magnitudes := make([]float64, half)
	maxMag := 0.0
	for i := 0; i < half; i++ {
		m := cmplx.Abs(coeffs[i])
		magnitudes[i] = m
		if m > maxMag {
			maxMag = m
		}
	}
	if maxMag == 0 {
		return nil
	}
	for i := range magnitudes {
		magnitudes[i] /= maxMag
	}

	var freqs []float64
	for i := 1; i < half-1; i++ {
		m := magnitudes[i]
		if m > peakThreshold && m > magnitudes[i-1] && m > magnitudes[i+1] {
			freqs = append(freqs, float64(i)*sampleRate/float64(n))
		}
	}
	return freqs
}
