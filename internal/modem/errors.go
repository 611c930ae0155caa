package modem

import "fmt"

// CorruptSymbolError reports a frequency that decoded to a symbol value
// outside [0, valuesPerChunk) — spec.md §7 "Frequency decodes to
// out-of-range symbol". Implementations may clamp instead; this modem
// surfaces the error, naming the frame index and offending frequency.
type CorruptSymbolError struct {
	FrameIndex int
	ChunkIndex int
	Freq       float64
}

func (e *CorruptSymbolError) Error() string {
	return fmt.Sprintf("modem: corrupt symbol in frame %d chunk %d: frequency %.3f Hz decodes out of range",
		e.FrameIndex, e.ChunkIndex, e.Freq)
}

// ConfigError reports an invalid modem configuration rejected by
// NewModem (spec.md §7 "Invalid configuration").
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("modem: invalid configuration: %s", e.Reason)
}
