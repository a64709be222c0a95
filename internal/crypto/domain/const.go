package domain

// Algorithm represents the authenticated encryption scheme used for envelope encryption.
//
// Exactly one algorithm is supported. Validation is closed-world: any other
// identifier is rejected, including unknown or forward-compatible values, so a
// record can never be silently accepted under a scheme this service does not
// implement.
type Algorithm string

const (
	// AESGCM represents the AES-256-GCM authenticated encryption algorithm.
	//
	// AES-GCM (Advanced Encryption Standard in Galois/Counter Mode) combines
	// AES encryption with GMAC authentication. It uses a 256-bit key and
	// provides excellent performance on hardware with AES-NI acceleration.
	//
	// Key features:
	//   - 256-bit key size
	//   - 12-byte nonce (96 bits)
	//   - 16-byte authentication tag
	//   - Hardware acceleration on modern CPUs
	AESGCM Algorithm = "aes-gcm"
)

// Sizes shared by every key and AEAD output in the envelope scheme.
const (
	// KeySize is the required length in bytes of master keys and data encryption keys.
	KeySize = 32

	// NonceSize is the required length in bytes of AEAD nonces.
	NonceSize = 12

	// TagSize is the required length in bytes of AEAD authentication tags.
	TagSize = 16
)
