package crypto

import (
	"encoding/hex"
	"errors"
	"fmt"

	"golang.org/x/crypto/blake2b"
)

var ErrFingerprintKey = errors.New("fingerprint key must be 1 to 64 bytes")

// Fingerprinter derives stable, non-reversible identifiers for client
// addresses using keyed BLAKE2b-256.
type Fingerprinter struct {
	key []byte
}

// NewFingerprinter creates a Fingerprinter keyed with key.
func NewFingerprinter(key string) (*Fingerprinter, error) {
	if len(key) == 0 || len(key) > blake2b.Size {
		return nil, ErrFingerprintKey
	}
	return &Fingerprinter{key: []byte(key)}, nil
}

// Fingerprint returns the hex-encoded keyed hash of value.
func (f *Fingerprinter) Fingerprint(value string) (string, error) {
	h, err := blake2b.New256(f.key)
	if err != nil {
		return "", fmt.Errorf("creating hash: %w", err)
	}
	h.Write([]byte(value))
	return hex.EncodeToString(h.Sum(nil)), nil
}
