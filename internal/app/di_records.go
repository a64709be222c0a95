package app

import (
	"fmt"

	recordsHTTP "github.com/allisson/datavault/internal/records/http"
	recordsRepository "github.com/allisson/datavault/internal/records/repository"
	recordsUseCase "github.com/allisson/datavault/internal/records/usecase"
)

// RecordRepository returns the record repository for the configured driver.
func (c *Container) RecordRepository() (recordsUseCase.RecordRepository, error) {
	var err error
	c.recordRepoInit.Do(func() {
		c.recordRepo, err = c.initRecordRepository()
		if err != nil {
			c.initErrors["recordRepo"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordRepo"]; exists {
		return nil, storedErr
	}
	return c.recordRepo, nil
}

// RecordUseCase returns the record use case instance.
func (c *Container) RecordUseCase() (recordsUseCase.RecordUseCase, error) {
	var err error
	c.recordUseCaseInit.Do(func() {
		c.recordUseCase, err = c.initRecordUseCase()
		if err != nil {
			c.initErrors["recordUseCase"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordUseCase"]; exists {
		return nil, storedErr
	}
	return c.recordUseCase, nil
}

// RecordHandler returns the record HTTP handler instance.
func (c *Container) RecordHandler() (*recordsHTTP.RecordHandler, error) {
	var err error
	c.recordHandlerInit.Do(func() {
		c.recordHandler, err = c.initRecordHandler()
		if err != nil {
			c.initErrors["recordHandler"] = err
		}
	})
	if err != nil {
		return nil, err
	}
	if storedErr, exists := c.initErrors["recordHandler"]; exists {
		return nil, storedErr
	}
	return c.recordHandler, nil
}

// initRecordRepository creates the record repository based on the database driver.
func (c *Container) initRecordRepository() (recordsUseCase.RecordRepository, error) {
	if c.config.DBDriver == "memory" {
		return recordsRepository.NewMemoryRecordRepository(), nil
	}

	db, err := c.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database for record repository: %w", err)
	}

	switch c.config.DBDriver {
	case "sqlite3":
		return recordsRepository.NewSQLiteRecordRepository(db), nil
	case "postgres":
		return recordsRepository.NewPostgreSQLRecordRepository(db), nil
	case "mysql":
		return recordsRepository.NewMySQLRecordRepository(db), nil
	default:
		return nil, fmt.Errorf("unsupported database driver: %s", c.config.DBDriver)
	}
}

// initRecordUseCase creates the record use case with all its dependencies.
func (c *Container) initRecordUseCase() (recordsUseCase.RecordUseCase, error) {
	txManager, err := c.TxManager()
	if err != nil {
		return nil, fmt.Errorf("failed to get tx manager for record use case: %w", err)
	}

	recordRepo, err := c.RecordRepository()
	if err != nil {
		return nil, fmt.Errorf("failed to get record repository for record use case: %w", err)
	}

	masterKeyRing, err := c.MasterKeyRing()
	if err != nil {
		return nil, fmt.Errorf("failed to get master key ring for record use case: %w", err)
	}

	baseUseCase := recordsUseCase.NewRecordUseCase(
		txManager,
		recordRepo,
		masterKeyRing,
		c.Envelope(),
		c.RecordValidator(),
	)

	// Wrap with metrics if enabled
	if c.config.MetricsEnabled {
		businessMetrics, err := c.BusinessMetrics()
		if err != nil {
			return nil, fmt.Errorf("failed to get business metrics for record use case: %w", err)
		}
		return recordsUseCase.NewRecordUseCaseWithMetrics(baseUseCase, businessMetrics), nil
	}

	return baseUseCase, nil
}

// initRecordHandler creates the record HTTP handler with all its dependencies.
func (c *Container) initRecordHandler() (*recordsHTTP.RecordHandler, error) {
	recordUseCase, err := c.RecordUseCase()
	if err != nil {
		return nil, fmt.Errorf("failed to get record use case for record handler: %w", err)
	}

	return recordsHTTP.NewRecordHandler(recordUseCase, c.Logger()), nil
}
