package store

import (
	"encoding/json"
	"errors"
	"fmt"

	"aethos/internal/crypto"
)

// ErrCorruptCache is returned when the cache file exists but is not a
// well-formed envelope. Authentication failures surface as crypto.ErrDecrypt.
var ErrCorruptCache = errors.New("corrupt session cache file")

// encryptedEnvelope is the on-disk JSON structure holding nonce and ciphertext.
type encryptedEnvelope struct {
	NonceB64      string `json:"nonce_b64"`
	CiphertextB64 string `json:"ciphertext_b64"`
}

// sealEnvelope encrypts raw under key and encodes the result.
func sealEnvelope(key, raw []byte) ([]byte, error) {
	nonce, ct, err := crypto.Seal(key, raw)
	if err != nil {
		return nil, fmt.Errorf("encrypt session cache: %w", err)
	}
	return json.MarshalIndent(encryptedEnvelope{
		NonceB64:      crypto.B64(nonce),
		CiphertextB64: crypto.B64(ct),
	}, "", "  ")
}

// openEnvelope decodes b and decrypts it under key.
func openEnvelope(key, b []byte) ([]byte, error) {
	var env encryptedEnvelope
	if err := json.Unmarshal(b, &env); err != nil {
		return nil, fmt.Errorf("%w: parse envelope: %v", ErrCorruptCache, err)
	}
	nonce, err := crypto.FromB64(env.NonceB64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode nonce: %v", ErrCorruptCache, err)
	}
	if len(nonce) != crypto.NonceBytes {
		return nil, fmt.Errorf("%w: nonce had invalid length %d", ErrCorruptCache, len(nonce))
	}
	ct, err := crypto.FromB64(env.CiphertextB64)
	if err != nil {
		return nil, fmt.Errorf("%w: decode ciphertext: %v", ErrCorruptCache, err)
	}
	pt, err := crypto.Open(key, nonce, ct)
	if err != nil {
		return nil, fmt.Errorf("decrypt session cache: %w", err)
	}
	return pt, nil
}
