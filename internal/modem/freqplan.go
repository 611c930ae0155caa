// Package modem implements the parallel MFSK modem: the mapping from
// bytes to simultaneous audio tones and back.
package modem

// FreqPlan maps (chunk index, symbol value) pairs to tone frequencies
// and back. Chunk c occupies the disjoint band
// [base+c*valuesPerChunk*delta, base+(c+1)*valuesPerChunk*delta).
type FreqPlan struct {
	BaseFreq       float64
	DeltaFreq      float64
	ValuesPerChunk int
}

// Freq returns the tone frequency for symbol value in the given chunk.
// The caller (the bit packer + facade) guarantees value and chunkIndex
// are in range; this mirrors the teacher's assert-then-compute style
// but panics instead of asserting, since Go has no assert builtin.
func (p FreqPlan) Freq(value uint8, chunkIndex int) float64 {
	if int(value) >= p.ValuesPerChunk {
		panic("modem: symbol value exceeds values_per_chunk")
	}
	return p.BaseFreq + float64(int(value)+p.ValuesPerChunk*chunkIndex)*p.DeltaFreq
}

// Decode recovers the symbol value nearest to freq in the given chunk's
// band, tolerating up to ±delta/2 of FFT bin jitter. It reports a
// corrupt symbol when the nearest value falls outside [0, valuesPerChunk).
func (p FreqPlan) Decode(freq float64, chunkIndex int) (uint8, bool) {
	k := roundHalfAwayFromZero((freq - p.BaseFreq) / p.DeltaFreq)
	value := k - p.ValuesPerChunk*chunkIndex
	if value < 0 || value >= p.ValuesPerChunk {
		return 0, false
	}
	return uint8(value), true
}

func roundHalfAwayFromZero(x float64) int {
	if x >= 0 {
		return int(x + 0.5)
	}
	return -int(-x + 0.5)
}
