package main

import (
	"context"
	"fmt"

	"github.com/urfave/cli/v3"

	"github.com/allisson/datavault/cmd/app/commands"
	"github.com/allisson/datavault/internal/app"
	"github.com/allisson/datavault/internal/config"
	cryptoService "github.com/allisson/datavault/internal/crypto/service"
)

func getKeyCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:  "create-master-key",
			Usage: "Generate a new master key for envelope encryption",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "key-version",
					Aliases: []string{"k"},
					Value:   1,
					Usage:   "Version number for the new master key",
				},
				&cli.StringFlag{
					Name:  "kms-keeper-url",
					Value: "",
					Usage: "KMS keeper URL used to wrap the key (e.g., base64key://, gcpkms://projects/.../cryptoKeys/...)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				return commands.RunCreateMasterKey(
					ctx,
					cryptoService.NewKMSService(),
					commands.DefaultIO().Writer,
					cmd.Int("key-version"),
					cmd.String("kms-keeper-url"),
				)
			},
		},
		{
			Name:  "rewrap-records",
			Usage: "Re-encrypt records wrapped with outdated master key versions",
			Flags: []cli.Flag{
				&cli.IntFlag{
					Name:    "batch-size",
					Aliases: []string{"b"},
					Value:   0,
					Usage:   "Number of records to process per batch (defaults to REWRAP_BATCH_SIZE)",
				},
			},
			Action: func(ctx context.Context, cmd *cli.Command) error {
				cfg := config.Load()
				if err := cfg.Validate(); err != nil {
					return fmt.Errorf("invalid configuration: %w", err)
				}

				container := app.NewContainer(cfg)
				defer func() { _ = container.Shutdown(ctx) }()

				recordUseCase, err := container.RecordUseCase()
				if err != nil {
					return err
				}

				batchSize := int(cmd.Int("batch-size"))
				if batchSize <= 0 {
					batchSize = cfg.RewrapBatchSize
				}

				return commands.RunRewrapRecords(
					ctx,
					recordUseCase,
					container.Logger(),
					batchSize,
					cfg.RewrapBatchesPerSec,
				)
			},
		},
	}
}
