// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

// Command gadvi trains and serves game recommendations for casino players.
//
// # Commands
//
//	gadvi prepare                  sample players and write <dataset>_train.tsv / <dataset>_test.tsv
//	gadvi train                    train on the prepared dataset and save the model
//	gadvi evaluate [ARTIFACT]      score a saved model on both partitions
//	gadvi recommend PLAYER [-k N]  print recommendations for one player
//	gadvi serve                    serve the HTTP API, optionally retraining on an interval
//
// # Configuration
//
// Configuration is loaded via Koanf v2 with layered sources (highest priority wins):
//   - Environment variables (DATASET, MODEL_DIMENSIONS, HTTP_PORT, ...)
//   - Config file (--config, CONFIG_PATH, or gadvi.yaml / config.yaml)
//   - Built-in defaults
//
// # Signal Handling
//
// Every command stops on SIGINT and SIGTERM. Training checks for
// cancellation between epochs; serve drains in-flight requests for
// SHUTDOWN_TIMEOUT.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tomtom215/gadvi/internal/config"
	"github.com/tomtom215/gadvi/internal/logging"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		logging.Error().Err(err).Msg("Command failed")
		stop()
		os.Exit(1) //nolint:gocritic // stop already ran
	}
}

// app carries what every subcommand needs.
type app struct {
	configPath string
	cfg        *config.Config
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "gadvi",
		Short:         "game recommendations for casino players",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(*cobra.Command, []string) error {
			return a.init()
		},
	}
	root.PersistentFlags().StringVar(&a.configPath, "config", "", "path to a YAML config file")

	root.AddCommand(
		a.prepareCmd(),
		a.trainCmd(),
		a.evaluateCmd(),
		a.recommendCmd(),
		a.serveCmd(),
	)
	return root
}

// init loads configuration and configures logging.
func (a *app) init() error {
	var err error
	if a.configPath != "" {
		a.cfg, err = config.LoadFile(a.configPath)
	} else {
		a.cfg, err = config.Load()
	}
	if err != nil {
		return err
	}

	logging.Init(logging.Config{
		Level:     a.cfg.Logging.Level,
		Format:    a.cfg.Logging.Format,
		Caller:    a.cfg.Logging.Caller,
		Timestamp: true,
	})
	return nil
}
