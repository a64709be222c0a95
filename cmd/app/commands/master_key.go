package commands

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"io"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	cryptoService "github.com/allisson/datavault/internal/crypto/service"
)

// RunCreateMasterKey generates a cryptographically secure 32-byte master key
// for envelope encryption and prints the environment variables that register
// it in the key ring. Key material is zeroed from memory before returning.
//
// Without a keeper URL the key is printed as 64 lowercase hex characters,
// ready to paste into MASTER_KEYS. With a keeper URL the key is first
// encrypted through the KMS keeper and printed as base64 ciphertext alongside
// the KMS_KEEPER_URL line.
//
// Output format:
//   - MASTER_KEYS="<version>:<hex key or base64 ciphertext>"
//   - ACTIVE_MASTER_KEY_VERSION="<version>"
//   - KMS_KEEPER_URL="<url>" (KMS mode only)
//
// Security: plaintext mode leaves the master key unprotected in the
// environment. Use a cloud KMS keeper (gcpkms, awskms, azurekeyvault,
// hashivault) in production; localsecrets is for local development only.
func RunCreateMasterKey(
	ctx context.Context,
	kmsService cryptoService.KMSService,
	writer io.Writer,
	keyVersion int64,
	keeperURL string,
) error {
	if keyVersion < 1 {
		return fmt.Errorf("--key-version must be a positive integer")
	}

	// Generate a cryptographically secure 32-byte master key
	masterKey := cryptoDomain.GenerateMasterKey()
	defer cryptoDomain.Zero(masterKey)

	encodedKey := hex.EncodeToString(masterKey)

	if keeperURL != "" {
		keeper, err := kmsService.OpenKeeper(ctx, keeperURL)
		if err != nil {
			return fmt.Errorf("failed to open KMS keeper: %w", err)
		}
		defer func() {
			if closeErr := keeper.Close(); closeErr != nil {
				fmt.Fprintf(writer, "# Warning: failed to close KMS keeper: %v\n", closeErr)
			}
		}()

		// Encrypt master key with KMS
		ciphertext, err := keeper.Encrypt(ctx, masterKey)
		if err != nil {
			return fmt.Errorf("failed to encrypt master key with KMS: %w", err)
		}
		encodedKey = base64.StdEncoding.EncodeToString(ciphertext)

		fmt.Fprintln(writer, "# Master Key Configuration (KMS Mode)")
		fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
		fmt.Fprintln(writer)
		fmt.Fprintf(writer, "KMS_KEEPER_URL=\"%s\"\n", keeperURL)
	} else {
		fmt.Fprintln(writer, "# Master Key Configuration (Plaintext Mode)")
		fmt.Fprintln(writer, "# Copy these environment variables to your .env file or secrets manager")
		fmt.Fprintln(writer)
	}

	fmt.Fprintf(writer, "MASTER_KEYS=\"%d:%s\"\n", keyVersion, encodedKey)
	fmt.Fprintf(writer, "ACTIVE_MASTER_KEY_VERSION=\"%d\"\n", keyVersion)
	fmt.Fprintln(writer)
	fmt.Fprintln(writer, "# For key rotation, append the new entry and bump the active version:")
	fmt.Fprintf(writer, "# MASTER_KEYS=\"%d:%s,%d:<new key>\"\n", keyVersion, encodedKey, keyVersion+1)
	fmt.Fprintf(writer, "# ACTIVE_MASTER_KEY_VERSION=\"%d\"\n", keyVersion+1)

	return nil
}
