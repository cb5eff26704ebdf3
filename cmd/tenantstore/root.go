/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/suparena/tenantstore/datastore"
	"github.com/suparena/tenantstore/datastore/metered"
	"github.com/suparena/tenantstore/internal/backend"
	"github.com/suparena/tenantstore/internal/billing"
	"github.com/suparena/tenantstore/internal/config"
)

// rootOptions holds the global flags.
type rootOptions struct {
	ConfigPath string
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:          "tenantstore",
		Short:        "Multi-tenant billing entity store",
		Long:         "Serves the billing dashboard API over a pluggable key-value backend.",
		SilenceUsage: true,
	}
	cmd.PersistentFlags().StringVar(&opts.ConfigPath, "config", "", "path to a YAML configuration file")

	cmd.AddCommand(newServeCommand(opts))
	cmd.AddCommand(newSeedCommand(opts))
	cmd.AddCommand(newVersionCommand())
	return cmd
}

// loadConfig reads the configuration and installs the default logger.
func loadConfig(opts *rootOptions) (*config.Config, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	level, err := cfg.SlogLevel()
	if err != nil {
		return nil, err
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
	return cfg, nil
}

// openService connects the configured backend and builds the billing
// service on it. The caller closes the returned backend.
func openService(ctx context.Context, cfg *config.Config, reg prometheus.Registerer) (*billing.Service, datastore.Backend, error) {
	var m *metered.Metrics
	if reg != nil {
		var err error
		if m, err = metered.NewMetrics(reg); err != nil {
			return nil, nil, err
		}
	}
	b, err := backend.Open(ctx, cfg, m)
	if err != nil {
		return nil, nil, err
	}
	svc, err := billing.New(b, billing.Options{
		Codec:            cfg.Codec,
		FetchConcurrency: cfg.FetchConcurrency,
		Logger:           slog.Default(),
	})
	if err != nil {
		b.Close()
		return nil, nil, err
	}
	return svc, b, nil
}
