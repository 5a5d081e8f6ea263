// GAdvi - Game Recommendation Engine
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/gadvi

package main

import (
	"fmt"
	"io"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/tomtom215/gadvi/internal/logging"
	"github.com/tomtom215/gadvi/internal/recommend"
)

// printJSON writes v as indented JSON.
func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (a *app) prepareCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "prepare",
		Short: "Sample the extract and write the dataset's train and test files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newEnvironment(a.cfg, true)
			if err != nil {
				return err
			}
			defer env.close()

			timer := logging.StartTimer()
			result, err := env.pipeline.Prepare(cmd.Context())
			if err != nil {
				return fmt.Errorf("prepare: %w", err)
			}
			timer.Log(logging.Info().Str("dataset", a.cfg.Data.Dataset), "Prepare finished")
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) trainCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "train",
		Short: "Train a model on the prepared dataset and save it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			env, err := newEnvironment(a.cfg, false)
			if err != nil {
				return err
			}
			defer env.close()

			timer := logging.StartTimer()
			result, err := env.pipeline.Train(cmd.Context())
			if err != nil {
				return fmt.Errorf("train: %w", err)
			}
			timer.Log(logging.Info().Str("artifact", result.Artifact), "Train finished")
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) evaluateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "evaluate [ARTIFACT]",
		Short: "Score a saved model on its training data and the prepared test file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := newEnvironment(a.cfg, false)
			if err != nil {
				return err
			}
			defer env.close()

			artifact := artifactName(a.cfg)
			if len(args) == 1 {
				artifact = args[0]
			}

			result, err := env.pipeline.Evaluate(cmd.Context(), artifact)
			if err != nil {
				return fmt.Errorf("evaluate %s: %w", artifact, err)
			}
			return printJSON(cmd.OutOrStdout(), result)
		},
	}
}

func (a *app) recommendCmd() *cobra.Command {
	var (
		k        int
		artifact string
	)
	cmd := &cobra.Command{
		Use:   "recommend PLAYER",
		Short: "Print the top-k games for a player",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, closeStore, err := openStore(a.cfg)
			if err != nil {
				return fmt.Errorf("open artifact store: %w", err)
			}
			defer closeStore()

			if artifact == "" {
				artifact = artifactName(a.cfg)
			}
			model, err := store.Load(cmd.Context(), artifact)
			if err != nil {
				return fmt.Errorf("load model: %w", err)
			}

			if k <= 0 {
				k = a.cfg.Server.DefaultK
			}
			games, err := recommend.Recommend(model, args[0], k)
			if err != nil {
				return err
			}
			for _, game := range games {
				if _, err := fmt.Fprintln(cmd.OutOrStdout(), game); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&k, "k", "k", 0, "number of games (default: server.default_k)")
	cmd.Flags().StringVar(&artifact, "artifact", "", "artifact to load (default: from the model settings)")
	return cmd
}
