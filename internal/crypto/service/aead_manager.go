package service

import (
	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
)

// AEADManagerService implements the AEADManager interface for creating AEAD cipher instances.
type AEADManagerService struct{}

// NewAEADManager creates a new AEADManagerService.
func NewAEADManager() *AEADManagerService {
	return &AEADManagerService{}
}

// CreateCipher creates an AEAD cipher instance for the specified algorithm.
//
// Algorithm selection is closed-world: only AESGCM is accepted, and any other
// identifier, known or unknown, returns ErrUnsupportedAlgorithm. Returns
// ErrInvalidKeySize if the key is not exactly 32 bytes.
func (am *AEADManagerService) CreateCipher(key []byte, alg cryptoDomain.Algorithm) (AEAD, error) {
	if len(key) != cryptoDomain.KeySize {
		return nil, cryptoDomain.ErrInvalidKeySize
	}

	switch alg {
	case cryptoDomain.AESGCM:
		return NewAESGCM(key)
	default:
		return nil, cryptoDomain.ErrUnsupportedAlgorithm
	}
}
