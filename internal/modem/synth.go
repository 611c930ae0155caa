package modem

import "math"

const toneAmplitude = 0.5

// Synthesize sums one sine wave per chunk in frame into a single block
// of samplesPerFrame samples. Frame may carry fewer than chunksPerFrame
// symbols for a trailing partial frame; unused chunks contribute no tone.
func Synthesize(frame []uint8, plan FreqPlan, sampleRate float64, samplesPerFrame int) []float64 {
	samples := make([]float64, samplesPerFrame)

	for chunkIdx, value := range frame {
		freq := plan.Freq(value, chunkIdx)
		for n := 0; n < samplesPerFrame; n++ {
			t := float64(n) / sampleRate
			samples[n] += toneAmplitude * math.Sin(2*math.Pi*freq*t)
		}
	}
	return samples
}
