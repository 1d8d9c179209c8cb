package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/pcoptima/channels-collector/db"
	"github.com/pcoptima/channels-collector/internal/registry"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// Operator projections over the local registry, no bot session required.

func newChannelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "channels",
		Short: "Print every distinct recorded channel URL",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printProjection(cmd, func(ctx context.Context, reg *registry.Registry) ([]string, error) {
				return reg.DistinctURLs(ctx)
			})
		},
	}
}

func newNamesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "names",
		Short: "Print every distinct recorded channel name",
		RunE: func(cmd *cobra.Command, args []string) error {
			return printProjection(cmd, func(ctx context.Context, reg *registry.Registry) ([]string, error) {
				return reg.DistinctNames(ctx)
			})
		},
	}
}

func printProjection(cmd *cobra.Command, list func(context.Context, *registry.Registry) ([]string, error)) error {
	cfg := db.DefaultConfig()
	cfg.DSN = viper.GetString("db.dsn")
	gdb, err := db.Open(cfg)
	if err != nil {
		return err
	}
	reg := registry.New(gdb)
	values, err := list(cmd.Context(), reg)
	if err != nil {
		return err
	}
	if len(values) == 0 {
		return nil
	}
	_, err = fmt.Fprintln(cmd.OutOrStdout(), strings.Join(values, "\n"))
	return err
}
