// Package domain defines the core cryptographic domain models for envelope encryption.
//
// It implements a two-tier key hierarchy: Master Key → DEK → Payload. Each
// encrypted record carries its own data encryption key, wrapped by a versioned
// master key, so master keys never touch bulk data and can be rotated without
// re-encrypting every payload at once.
package domain

import (
	"crypto/rand"
	"io"
)

// MasterKey is a versioned 256-bit root key used only to wrap and unwrap
// data encryption keys.
//
// Master keys are supplied externally (environment variables or a KMS) and
// identified by a positive integer version. The envelope engine never
// generates, persists, or retains a master key beyond the duration of a
// single encrypt or decrypt call.
type MasterKey struct {
	Version uint64
	Key     []byte
}

// GenerateMasterKey returns a new random 256-bit master key.
//
// Keys come from crypto/rand, which never fails on supported platforms, so
// there are no error conditions. The caller owns the returned buffer and must
// zero it once it is no longer needed.
func GenerateMasterKey() []byte {
	return randomKey()
}

// GenerateDek returns a new random 256-bit data encryption key.
//
// A DEK is record-scoped: generated inside a single encrypt call, never
// reused, never persisted or transmitted in plaintext, and zeroed on every
// exit path once its last use completes.
func GenerateDek() []byte {
	return randomKey()
}

func randomKey() []byte {
	key := make([]byte, KeySize)
	if _, err := io.ReadFull(rand.Reader, key); err != nil {
		// A broken entropy source is not a recoverable condition.
		panic(err)
	}
	return key
}

// Zero securely overwrites a byte slice with zeros to clear sensitive data from memory.
func Zero(b []byte) {
	if b == nil {
		return
	}
	for i := range b {
		b[i] = 0
	}
}
