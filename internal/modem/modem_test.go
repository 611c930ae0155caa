package modem

import (
	"bytes"
	"errors"
	"math"
	"testing"

	"github.com/jeongseonghan/dosr-modem/internal/aead"
)

func TestNewModemDefaultConfig(t *testing.T) {
	m, err := NewModem(DefaultConfig())
	if err != nil {
		t.Fatalf("NewModem(DefaultConfig()): %v", err)
	}
	if m.SamplesPerFrame() != 4410 {
		t.Errorf("SamplesPerFrame() = %d, want 4410", m.SamplesPerFrame())
	}
}

func TestNewModemRejectsInvalidBitsPerChunk(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BitsPerChunk = 3
	_, err := NewModem(cfg)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestNewModemRejectsAboveNyquist(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BaseFreq = 20000
	_, err := NewModem(cfg)
	var cfgErr *ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError for above-Nyquist plan, got %v", err)
	}
}

func TestModemEncodeDecodeRoundTripNoAEAD(t *testing.T) {
	m, err := NewModem(DefaultConfig())
	if err != nil {
		t.Fatalf("NewModem: %v", err)
	}

	payload := []byte("the quick brown fox jumps over the lazy dog")
	samples, err := m.Encode(payload, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := m.Decode(samples, nil)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}

	// bits_per_chunk=4 divides 8 evenly, so every byte maps to exactly
	// 2 symbols with no padding remainder; the round trip is exact for
	// any payload length.
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: got %q, want %q", got, payload)
	}
}

func TestModemEncodeDecodeRoundTripWithAEAD(t *testing.T) {
	m, err := NewModem(DefaultConfig())
	if err != nil {
		t.Fatalf("NewModem: %v", err)
	}

	key := bytes.Repeat([]byte{0x42}, aead.KeySize)
	cipher, err := aead.New(key)
	if err != nil {
		t.Fatalf("aead.New: %v", err)
	}

	payload := []byte("authenticated payload over the air")
	samples, err := m.Encode(payload, cipher)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	got, err := m.Decode(samples, cipher)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("round trip mismatch: got %q, want %q", got, payload)
	}
}

func TestModemDecodeTamperedCiphertextFailsAuth(t *testing.T) {
	m, err := NewModem(DefaultConfig())
	if err != nil {
		t.Fatalf("NewModem: %v", err)
	}

	key := bytes.Repeat([]byte{0x7a}, aead.KeySize)
	cipher, err := aead.New(key)
	if err != nil {
		t.Fatalf("aead.New: %v", err)
	}

	samples, err := m.Encode([]byte("tamper me"), cipher)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	// Zero out the final frame entirely so its decoded symbols (and
	// thus the recovered ciphertext/tag bytes) change, without
	// touching the leading nonce bytes.
	last := len(samples) - m.SamplesPerFrame()
	for i := last; i < len(samples); i++ {
		samples[i] = 0
	}

	_, err = m.Decode(samples, cipher)
	if err == nil {
		t.Fatal("expected decode error for tampered ciphertext")
	}
}

func TestModemMaxAmplitudeBound(t *testing.T) {
	m, err := NewModem(DefaultConfig())
	if err != nil {
		t.Fatalf("NewModem: %v", err)
	}

	payload := []byte{0xFF, 0xFF, 0xFF, 0xFF, 0xFF, 0xFF}
	samples, err := m.Encode(payload, nil)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	bound := m.MaxAmplitude()
	for i, s := range samples {
		if math.Abs(float64(s)) > bound+1e-9 {
			t.Fatalf("sample %d = %v exceeds bound %v", i, s, bound)
		}
	}
}

func TestModemEncodeEmptyPayload(t *testing.T) {
	m, err := NewModem(DefaultConfig())
	if err != nil {
		t.Fatalf("NewModem: %v", err)
	}
	samples, err := m.Encode(nil, nil)
	if err != nil {
		t.Fatalf("Encode(nil): %v", err)
	}
	if len(samples) != 0 {
		t.Errorf("expected zero samples for empty payload, got %d", len(samples))
	}
}
