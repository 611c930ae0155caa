package audio

import (
	"fmt"
	"io"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// wavBitDepth, wavAudioFormat and wavNumChannels select mono 32-bit
// IEEE-float PCM, the format spec.md §3 mandates for encoded/decoded
// signals.
const (
	wavBitDepth    = 32
	wavAudioFormat = 3 // WAVE_FORMAT_IEEE_FLOAT
	wavNumChannels = 1
)

// WriteWAV writes samples as a mono 32-bit float PCM WAV file at path.
func WriteWAV(path string, samples []float32, sampleRate int) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()

	enc := wav.NewEncoder(f, sampleRate, wavBitDepth, wavNumChannels, wavAudioFormat)
	for _, s := range samples {
		if err := enc.WriteFrame(s); err != nil {
			return fmt.Errorf("write frame: %w", err)
		}
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("finalize %s: %w", path, err)
	}
	return nil
}

// ReadWAV reads a mono WAV file and returns its samples as float32,
// downmixing is not performed: the file must already be single-channel.
func ReadWAV(path string) ([]float32, int, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, 0, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return readWAV(f)
}

func readWAV(r io.Reader) ([]float32, int, error) {
	dec := wav.NewDecoder(r)
	dec.ReadInfo()
	if !dec.IsValidFile() {
		return nil, 0, fmt.Errorf("not a valid WAV file")
	}
	if dec.NumChans != 1 {
		return nil, 0, fmt.Errorf("expected mono audio, got %d channels", dec.NumChans)
	}

	buf := &audio.PCMBuffer{
		Format: &audio.Format{
			NumChannels: int(dec.NumChans),
			SampleRate:  int(dec.SampleRate),
		},
		DataType:       audio.DataTypeF64,
		SourceBitDepth: int(dec.BitDepth),
	}
	if _, err := dec.PCMBuffer(buf); err != nil {
		return nil, 0, fmt.Errorf("decode PCM buffer: %w", err)
	}

	floatBuf := buf.AsFloatBuffer()
	samples := make([]float32, len(floatBuf.Data))
	for i, s := range floatBuf.Data {
		samples[i] = float32(s)
	}
	return samples, int(dec.SampleRate), nil
}
