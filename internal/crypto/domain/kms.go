package domain

import (
	"context"
)

// KMSKeeper abstracts a key management service used to wrap and unwrap master
// key material at rest. *secrets.Keeper from gocloud.dev satisfies it.
type KMSKeeper interface {
	Encrypt(ctx context.Context, plaintext []byte) ([]byte, error)
	Decrypt(ctx context.Context, ciphertext []byte) ([]byte, error)
	Close() error
}
