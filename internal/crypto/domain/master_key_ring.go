package domain

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"sync"
)

// MasterKeyRing manages a collection of versioned master keys with one
// designated as active.
//
// The ring enables key rotation by keeping multiple master key generations
// live simultaneously. New records are encrypted under the active version
// while records wrapped by older versions remain decryptable; the rewrap
// command gradually moves old records onto the active version.
//
// Thread safety: the ring uses sync.Map internally and is safe for
// concurrent readers once loaded.
type MasterKeyRing struct {
	activeVersion uint64
	keys          sync.Map
}

// ActiveVersion returns the version used to encrypt new records.
func (r *MasterKeyRing) ActiveVersion() uint64 {
	return r.activeVersion
}

// Active returns the master key for the active version.
func (r *MasterKeyRing) Active() (MasterKey, bool) {
	return r.Get(r.activeVersion)
}

// Get retrieves a master key from the ring by its version.
//
// Records carry the version that wrapped their DEK, so decryption resolves
// the key through this method even after the active version moves on.
func (r *MasterKeyRing) Get(version uint64) (MasterKey, bool) {
	if masterKey, ok := r.keys.Load(version); ok {
		return *masterKey.(*MasterKey), ok
	}

	return MasterKey{}, false
}

// Close zeroes all key material and resets the ring.
//
// Call during shutdown or before discarding a partially loaded ring so
// sensitive bytes do not linger in memory.
func (r *MasterKeyRing) Close() {
	r.keys.Range(func(_, value any) bool {
		Zero(value.(*MasterKey).Key)
		return true
	})
	r.activeVersion = 0
	r.keys.Clear()
}

// LoadMasterKeyRing builds a ring from a plaintext key specification.
//
// The specification is a comma-separated list of "version:key" entries where
// version is a positive integer and key is the 64-character hex encoding of
// a 32-byte master key, for example:
//
//	keys="1:8b0f...,2:aa91..." activeVersion=2
//
// Key provenance is the caller's concern: configuration reads the
// specification from the environment and injects it here, the ring never
// touches ambient process state itself. On any parse failure the partially
// built ring is closed so no key material survives a failed load.
func LoadMasterKeyRing(keys string, activeVersion uint64) (*MasterKeyRing, error) {
	return loadRing(keys, activeVersion, func(_ uint64, material string) ([]byte, error) {
		key, err := hex.DecodeString(material)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyEncoding, err)
		}
		return key, nil
	})
}

// LoadWrappedMasterKeyRing builds a ring from a KMS-wrapped key specification.
//
// Entries take the same "version:key" form as LoadMasterKeyRing, except that
// each key is the standard base64 encoding of master key material encrypted
// by the configured KMS keeper. Every entry is decrypted through the keeper
// before it enters the ring, so plaintext master keys never appear in the
// environment.
func LoadWrappedMasterKeyRing(
	ctx context.Context,
	keeper KMSKeeper,
	keys string,
	activeVersion uint64,
) (*MasterKeyRing, error) {
	return loadRing(keys, activeVersion, func(version uint64, material string) ([]byte, error) {
		wrapped, err := base64.StdEncoding.DecodeString(material)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidMasterKeyEncoding, err)
		}
		key, err := keeper.Decrypt(ctx, wrapped)
		if err != nil {
			return nil, fmt.Errorf("kms decrypt of master key version %d failed: %w", version, err)
		}
		return key, nil
	})
}

func loadRing(
	keys string,
	activeVersion uint64,
	decode func(version uint64, material string) ([]byte, error),
) (*MasterKeyRing, error) {
	if keys == "" {
		return nil, ErrMasterKeysNotSet
	}
	if activeVersion == 0 {
		return nil, ErrActiveMasterKeyVersionNotSet
	}

	ring := &MasterKeyRing{activeVersion: activeVersion}

	for part := range strings.SplitSeq(keys, ",") {
		p := strings.SplitN(strings.TrimSpace(part), ":", 2)
		if len(p) != 2 {
			ring.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeysFormat, part)
		}
		version, err := strconv.ParseUint(p[0], 10, 64)
		if err != nil || version == 0 {
			ring.Close()
			return nil, fmt.Errorf("%w: %q", ErrInvalidMasterKeyVersion, p[0])
		}
		key, err := decode(version, p[1])
		if err != nil {
			ring.Close()
			return nil, err
		}
		if len(key) != KeySize {
			Zero(key)
			ring.Close()
			return nil, fmt.Errorf(
				"%w: master key version %d must be %d bytes, got %d",
				ErrInvalidKeySize,
				version,
				KeySize,
				len(key),
			)
		}
		ring.keys.Store(version, &MasterKey{Version: version, Key: key})
	}

	if _, ok := ring.Get(activeVersion); !ok {
		ring.Close()
		return nil, fmt.Errorf("%w: version %d", ErrActiveMasterKeyNotFound, activeVersion)
	}

	return ring, nil
}
