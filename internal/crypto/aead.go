package crypto

import (
	"crypto/rand"
	"errors"
	"fmt"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	KeyBytes   = chacha20poly1305.KeySize
	NonceBytes = chacha20poly1305.NonceSize
)

var (
	// ErrDecrypt is returned when authentication fails: wrong key, tampered
	// ciphertext or a nonce that does not belong to it.
	ErrDecrypt = errors.New("decryption failed")

	// ErrNonceSize is returned when a nonce is not NonceBytes long.
	ErrNonceSize = fmt.Errorf("nonce must be %d bytes", NonceBytes)
)

// Seal encrypts plaintext under key with a freshly drawn random nonce.
func Seal(key, plaintext []byte) (nonce, ciphertext []byte, err error) {
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, nil, err
	}
	nonce = make([]byte, NonceBytes)
	if _, err := rand.Read(nonce); err != nil {
		return nil, nil, err
	}
	return nonce, aead.Seal(nil, nonce, plaintext, nil), nil
}

// Open authenticates and decrypts ciphertext. Any authentication failure is
// reported as ErrDecrypt.
func Open(key, nonce, ciphertext []byte) ([]byte, error) {
	if len(nonce) != NonceBytes {
		return nil, ErrNonceSize
	}
	aead, err := chacha20poly1305.New(key)
	if err != nil {
		return nil, err
	}
	pt, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return nil, ErrDecrypt
	}
	return pt, nil
}
