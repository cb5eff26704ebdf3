/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"
)

func newSeedCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Load the demo users and chat boards if absent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(root)
			if err != nil {
				return err
			}
			svc, backend, err := openService(cmd.Context(), cfg, nil)
			if err != nil {
				return err
			}
			defer backend.Close()

			if err := svc.Seed(cmd.Context()); err != nil {
				return err
			}
			users, err := svc.ListUsers(cmd.Context())
			if err != nil {
				return err
			}
			slog.Info("seed complete", "backend", cfg.Backend)
			fmt.Fprintf(cmd.OutOrStdout(), "%d users seeded\n", len(users))
			return nil
		},
	}
}
