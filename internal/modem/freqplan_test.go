package modem

import "testing"

func TestFreqPlanBijection(t *testing.T) {
	plan := FreqPlan{BaseFreq: 1875.0, DeltaFreq: 46.875, ValuesPerChunk: 16}

	for chunk := 0; chunk < 6; chunk++ {
		for value := 0; value < plan.ValuesPerChunk; value++ {
			freq := plan.Freq(uint8(value), chunk)
			got, ok := plan.Decode(freq, chunk)
			if !ok {
				t.Fatalf("chunk %d value %d: Decode reported out of range for freq %.3f", chunk, value, freq)
			}
			if got != uint8(value) {
				t.Errorf("chunk %d value %d: round trip gave %d", chunk, value, got)
			}
		}
	}
}

func TestFreqPlanBandsDisjoint(t *testing.T) {
	plan := FreqPlan{BaseFreq: 1875.0, DeltaFreq: 46.875, ValuesPerChunk: 16}

	seen := make(map[float64]bool)
	for chunk := 0; chunk < 6; chunk++ {
		for value := 0; value < plan.ValuesPerChunk; value++ {
			freq := plan.Freq(uint8(value), chunk)
			if seen[freq] {
				t.Fatalf("frequency %.3f reused across chunks", freq)
			}
			seen[freq] = true
		}
	}
}

func TestFreqPlanDecodeOutOfRange(t *testing.T) {
	plan := FreqPlan{BaseFreq: 1875.0, DeltaFreq: 46.875, ValuesPerChunk: 16}

	// A frequency below chunk 0's band should not decode to a valid value.
	_, ok := plan.Decode(10.0, 0)
	if ok {
		t.Fatal("expected decode failure for out-of-band frequency")
	}
}

func TestFreqPlanPanicsOnInvalidValue(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic for out-of-range symbol value")
		}
	}()
	plan := FreqPlan{BaseFreq: 1875.0, DeltaFreq: 46.875, ValuesPerChunk: 4}
	plan.Freq(4, 0)
}
