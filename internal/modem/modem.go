package modem

import (
	"fmt"

	"gonum.org/v1/gonum/dsp/fourier"

	"github.com/jeongseonghan/dosr-modem/internal/aead"
)

// Config is the immutable configuration of a Modem instance
// (spec.md §3). Reference defaults are given by DefaultConfig.
type Config struct {
	BaseFreq       float64 // Hz, frequency of symbol 0 in chunk 0
	DeltaFreq      float64 // Hz, spacing between adjacent symbol frequencies
	BitsPerChunk   int     // must divide 8: one of 1, 2, 4, 8
	ChunksPerFrame int     // tones summed per frame
	DurationS      float64 // seconds per frame
	SampleRate     float64 // Hz
}

// DefaultConfig returns the reference configuration from spec.md §6.
func DefaultConfig() Config {
	return Config{
		BaseFreq:       1875.0,
		DeltaFreq:      46.875,
		BitsPerChunk:   4,
		ChunksPerFrame: 6,
		DurationS:      0.1,
		SampleRate:     44100.0,
	}
}

// Modem is a stateless, reentrant encoder/decoder built from a fixed
// Config. It holds no mutable or shared scratch state: *fourier.FFT
// keeps an internal work buffer that is not safe for concurrent use,
// so each Decode call builds its own FFT plan rather than caching one
// on the Modem, the same way the original's perform_fft builds a fresh
// FftPlanner on every call. This keeps concurrent Encode/Decode calls
// on the same Modem safe, per spec.md §5.
type Modem struct {
	cfg             Config
	plan            FreqPlan
	valuesPerChunk  int
	samplesPerFrame int
}

// NewModem validates cfg and builds a reentrant Modem. It rejects
// configurations that violate spec.md §3's invariants.
func NewModem(cfg Config) (*Modem, error) {
	switch cfg.BitsPerChunk {
	case 1, 2, 4, 8:
	default:
		return nil, &ConfigError{Reason: fmt.Sprintf("bits_per_chunk %d must be one of 1, 2, 4, 8", cfg.BitsPerChunk)}
	}
	if cfg.ChunksPerFrame <= 0 {
		return nil, &ConfigError{Reason: "chunks_per_frame must be positive"}
	}
	if cfg.BaseFreq <= 0 || cfg.DeltaFreq <= 0 || cfg.SampleRate <= 0 || cfg.DurationS <= 0 {
		return nil, &ConfigError{Reason: "base_freq, delta_freq, sample_rate, and duration_s must be positive"}
	}

	valuesPerChunk := 1 << uint(cfg.BitsPerChunk)
	samplesPerFrame := int(cfg.SampleRate * cfg.DurationS)
	if samplesPerFrame <= 0 {
		return nil, &ConfigError{Reason: "sample_rate * duration_s rounds down to zero samples per frame"}
	}

	highestFreq := cfg.BaseFreq + float64(cfg.ChunksPerFrame*valuesPerChunk-1)*cfg.DeltaFreq
	if highestFreq >= cfg.SampleRate/2 {
		return nil, &ConfigError{Reason: fmt.Sprintf("highest tone %.3f Hz is not below Nyquist %.3f Hz", highestFreq, cfg.SampleRate/2)}
	}

	return &Modem{
		cfg: cfg,
		plan: FreqPlan{
			BaseFreq:       cfg.BaseFreq,
			DeltaFreq:      cfg.DeltaFreq,
			ValuesPerChunk: valuesPerChunk,
		},
		valuesPerChunk:  valuesPerChunk,
		samplesPerFrame: samplesPerFrame,
	}, nil
}

// SamplesPerFrame returns the derived samples-per-frame for this modem.
func (m *Modem) SamplesPerFrame() int { return m.samplesPerFrame }

// Config returns the modem's configuration.
func (m *Modem) Config() Config { return m.cfg }

// Encode maps payload to a sequence of float32 samples. If cipher is
// non-nil the payload is wrapped in an AEAD envelope first
// (nonce‖ciphertext‖tag), per spec.md §4.5 step 1.
func (m *Modem) Encode(payload []byte, cipher *aead.Cipher) ([]float32, error) {
	data := payload
	if cipher != nil {
		sealed, err := cipher.Seal(payload)
		if err != nil {
			return nil, fmt.Errorf("modem: seal payload: %w", err)
		}
		data = sealed
	}

	symbols := BytesToSymbols(data, m.cfg.BitsPerChunk)

	var samples []float64
	for start := 0; start < len(symbols); start += m.cfg.ChunksPerFrame {
		end := start + m.cfg.ChunksPerFrame
		if end > len(symbols) {
			end = len(symbols)
		}
		frame := Synthesize(symbols[start:end], m.plan, m.cfg.SampleRate, m.samplesPerFrame)
		samples = append(samples, frame...)
	}

	out := make([]float32, len(samples))
	for i, s := range samples {
		out[i] = float32(s)
	}
	return out, nil
}

// Decode recovers the payload from samples. If cipher is non-nil the
// first 12 bytes of the recovered byte stream are treated as the AEAD
// nonce and the remainder is authenticated and decrypted.
func (m *Modem) Decode(samples []float32, cipher *aead.Cipher) ([]byte, error) {
	var symbols []uint8

	fft := fourier.NewFFT(m.samplesPerFrame)

	numFrames := len(samples) / m.samplesPerFrame
	for f := 0; f < numFrames; f++ {
		raw := make([]float64, m.samplesPerFrame)
		for i := 0; i < m.samplesPerFrame; i++ {
			raw[i] = float64(samples[f*m.samplesPerFrame+i])
		}

		freqs := Detect(raw, m.cfg.SampleRate, fft)
		for chunkIdx, freq := range freqs {
			if chunkIdx >= m.cfg.ChunksPerFrame {
				break
			}
			value, ok := m.plan.Decode(freq, chunkIdx)
			if !ok {
				return nil, &CorruptSymbolError{FrameIndex: f, ChunkIndex: chunkIdx, Freq: freq}
			}
			symbols = append(symbols, value)
		}
	}

	payload := SymbolsToBytes(symbols, m.cfg.BitsPerChunk)

	if cipher != nil {
		plaintext, err := cipher.Open(payload)
		if err != nil {
			return nil, err
		}
		return plaintext, nil
	}
	return payload, nil
}

// MaxAmplitude returns the theoretical peak sample magnitude for this
// configuration: 0.5 per summed tone (spec.md §4.3, testable property 8).
func (m *Modem) MaxAmplitude() float64 {
	return 0.5 * float64(m.cfg.ChunksPerFrame)
}
