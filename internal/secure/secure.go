// Package secure defines the encryption capability the ledger depends on.
// The ledger never inspects ciphertext; callers inject whichever
// implementation they run with.
package secure

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"errors"
	"fmt"
	"io"
)

// Encryptor seals and opens opaque byte blobs. Implementations must be
// safe for concurrent use.
type Encryptor interface {
	Encrypt(plaintext []byte) ([]byte, error)
	Decrypt(ciphertext []byte) ([]byte, error)
}

// Noop passes data through unchanged. Used when encryption is not
// configured and in tests.
type Noop struct{}

func (Noop) Encrypt(plaintext []byte) ([]byte, error)  { return plaintext, nil }
func (Noop) Decrypt(ciphertext []byte) ([]byte, error) { return ciphertext, nil }

type aesgcm struct {
	aead cipher.AEAD
}

// NewAESGCM returns an Encryptor sealing with AES-GCM under the given
// 16- or 32-byte key. The nonce is prepended to the ciphertext.
func NewAESGCM(key []byte) (Encryptor, error) {
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("create cipher: %w", err)
	}
	aead, err := cipher.NewGCM(block)
	if err != nil {
		return nil, fmt.Errorf("create gcm: %w", err)
	}
	return &aesgcm{aead: aead}, nil
}

func (e *aesgcm) Encrypt(plaintext []byte) ([]byte, error) {
	nonce := make([]byte, e.aead.NonceSize())
	if _, err := io.ReadFull(rand.Reader, nonce); err != nil {
		return nil, fmt.Errorf("generate nonce: %w", err)
	}
	return e.aead.Seal(nonce, nonce, plaintext, nil), nil
}

func (e *aesgcm) Decrypt(ciphertext []byte) ([]byte, error) {
	if len(ciphertext) < e.aead.NonceSize() {
		return nil, errors.New("ciphertext shorter than nonce")
	}
	nonce, sealed := ciphertext[:e.aead.NonceSize()], ciphertext[e.aead.NonceSize():]
	plaintext, err := e.aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, fmt.Errorf("open ciphertext: %w", err)
	}
	return plaintext, nil
}
