package app

import (
	"context"
	"fmt"
	"log/slog"

	cryptoDomain "github.com/allisson/datavault/internal/crypto/domain"
	cryptoService "github.com/allisson/datavault/internal/crypto/service"
)

// KMSService returns the KMS service used to open secrets keepers.
func (c *Container) KMSService() cryptoService.KMSService {
	c.kmsServiceInit.Do(func() {
		c.kmsService = cryptoService.NewKMSService()
	})
	return c.kmsService
}

// MasterKeyRing returns the master key ring loaded from configuration.
func (c *Container) MasterKeyRing() (*cryptoDomain.MasterKeyRing, error) {
	var err error
	c.masterKeyRingInit.Do(func() {
		c.masterKeyRing, err = c.initMasterKeyRing()
		if err != nil {
			c.initErrors["masterKeyRing"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["masterKeyRing"]; exists {
		return nil, storedErr
	}
	return c.masterKeyRing, nil
}

// AEADManager returns the AEAD manager service.
func (c *Container) AEADManager() cryptoService.AEADManager {
	c.aeadManagerInit.Do(func() {
		c.aeadManager = cryptoService.NewAEADManager()
	})
	return c.aeadManager
}

// Envelope returns the envelope encryption service.
func (c *Container) Envelope() cryptoService.Envelope {
	c.envelopeInit.Do(func() {
		c.envelope = cryptoService.NewEnvelope(c.AEADManager())
	})
	return c.envelope
}

// RecordValidator returns the encrypted record validator service.
func (c *Container) RecordValidator() cryptoService.RecordValidator {
	c.recordValidatorInit.Do(func() {
		c.recordValidator = cryptoService.NewRecordValidator()
	})
	return c.recordValidator
}

// initMasterKeyRing loads the master key ring, unwrapping keys through the
// KMS keeper when one is configured.
func (c *Container) initMasterKeyRing() (*cryptoDomain.MasterKeyRing, error) {
	if c.config.KMSKeeperURL == "" {
		ring, err := cryptoDomain.LoadMasterKeyRing(
			c.config.MasterKeys,
			c.config.ActiveMasterKeyVersion,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to load master key ring: %w", err)
		}
		return ring, nil
	}

	ctx := context.Background()

	keeper, err := c.KMSService().OpenKeeper(ctx, c.config.KMSKeeperURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open kms keeper: %w", err)
	}
	defer func() {
		if err := keeper.Close(); err != nil {
			c.Logger().Warn("failed to close kms keeper", slog.Any("error", err))
		}
	}()

	ring, err := cryptoDomain.LoadWrappedMasterKeyRing(
		ctx,
		keeper,
		c.config.MasterKeys,
		c.config.ActiveMasterKeyVersion,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load wrapped master key ring: %w", err)
	}
	return ring, nil
}
