// Package aead wraps the payload authenticated-encryption envelope the
// modem facade optionally applies before modulation: a fresh 12-byte
// nonce prepended to ciphertext‖tag (spec.md §3, §4.5, §6).
//
// spec.md names AES-128-GCM-SIV as the primitive. No verified Go package
// in the retrieval pack or well-known ecosystem implements GCM-SIV, so
// this envelope is built on the standard library's crypto/cipher AES-GCM
// construction instead: same shape (12-byte nonce, 16-byte tag, a single
// Seal/Open call), just not nonce-misuse resistant. Callers must never
// reuse a (key, nonce) pair; Cipher.Seal always draws a fresh nonce.
package aead

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// NonceSize is the fixed nonce length spec.md §6 mandates.
const NonceSize = 12

// KeySize is the fixed symmetric key length spec.md §6 mandates
// (AES-128).
const KeySize = 16

// ErrAuthFailed is returned by Open when the tag does not verify.
// Callers distinguish this from other decode errors with errors.Is.
var ErrAuthFailed = errors.New("aead: authentication failed")

// Cipher seals and opens payloads with a fixed 16-byte key. It is safe
// for concurrent use: aes.NewCipher and cipher.NewGCM build a stateless
// AEAD, and Seal draws its own randomness per call.
type Cipher struct {
	aead cipher.AEAD
}

// New builds a Cipher from a 16-byte AES-128 key.
func New(key []byte) (*Cipher, error) {
	if len(key) != KeySize {
		return nil, fmt.Errorf("aead: key must be %d bytes, got %d", KeySize, len(key))
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("aead: build AES cipher: %w", err)
	}
	gcm, err := cipher.NewGCMWithNonceSize(block, NonceSize)
	if err != nil {
		return nil, fmt.Errorf("aead: build GCM: %w", err)
	}
	return &Cipher{aead: gcm}, nil
}

// Seal generates a fresh random nonce, encrypts plaintext, and returns
// nonce‖ciphertext‖tag.
func (c *Cipher) Seal(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, NonceSize)
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("aead: generate nonce: %w", err)
	}
	sealed := c.aead.Seal(nil, nonce, plaintext, nil)
	return append(nonce, sealed...), nil
}

// Open splits payload into its leading nonce and ciphertext‖tag,
// verifies the tag, and returns the plaintext. It never returns partial
// plaintext: on any authentication failure it returns ErrAuthFailed.
func (c *Cipher) Open(payload []byte) ([]byte, error) {
	if len(payload) < NonceSize {
		return nil, fmt.Errorf("aead: payload shorter than nonce (%d bytes)", len(payload))
	}
	nonce, ciphertext := payload[:NonceSize], payload[NonceSize:]
	plaintext, err := c.aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrAuthFailed
	}
	return plaintext, nil
}
