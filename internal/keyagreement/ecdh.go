// Package keyagreement derives the modem's AEAD key from a secp256k1
// key pair, mirroring the asymmetric encryption path of the original
// command-line tool: ECDH over secp256k1 followed by HKDF-SHA256 with
// an empty salt and info, truncated to a 16-byte AES-128 key.
package keyagreement

import (
	"crypto/sha256"
	"fmt"
	"io"

	"github.com/decred/dcrd/dcrec/secp256k1/v4"
	"golang.org/x/crypto/hkdf"

	"github.com/jeongseonghan/dosr-modem/internal/aead"
)

// PrivateKeySize is the length of a raw secp256k1 private scalar.
const PrivateKeySize = 32

// ParsePrivateKey decodes a raw 32-byte secp256k1 private scalar, as
// read from a private key file.
func ParsePrivateKey(raw []byte) (*secp256k1.PrivateKey, error) {
	if len(raw) != PrivateKeySize {
		return nil, fmt.Errorf("keyagreement: private key must be %d bytes, got %d", PrivateKeySize, len(raw))
	}
	return secp256k1.PrivKeyFromBytes(raw), nil
}

// ParsePublicKey decodes a SEC1-encoded (compressed or uncompressed)
// secp256k1 public key, as read from a public key file.
func ParsePublicKey(raw []byte) (*secp256k1.PublicKey, error) {
	pub, err := secp256k1.ParsePubKey(raw)
	if err != nil {
		return nil, fmt.Errorf("keyagreement: parse public key: %w", err)
	}
	return pub, nil
}

// DeriveKey performs ECDH between priv and pub and runs the result
// through HKDF-SHA256 with an empty salt and info, producing a key
// sized for aead.New.
func DeriveKey(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) ([]byte, error) {
	shared := secp256k1.GenerateSharedSecret(priv, pub)

	kdf := hkdf.New(sha256.New, shared, nil, nil)
	key := make([]byte, aead.KeySize)
	if _, err := io.ReadFull(kdf, key); err != nil {
		return nil, fmt.Errorf("keyagreement: expand key: %w", err)
	}
	return key, nil
}

// NewCipherFromKeyPair derives an AEAD key from priv and pub and
// builds the corresponding Cipher.
func NewCipherFromKeyPair(priv *secp256k1.PrivateKey, pub *secp256k1.PublicKey) (*aead.Cipher, error) {
	key, err := DeriveKey(priv, pub)
	if err != nil {
		return nil, err
	}
	return aead.New(key)
}
