package main

import (
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yigit/unidwh/internal/bootstrap"
	"github.com/yigit/unidwh/internal/config"
)

type rootOptions struct {
	configPath string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:           "dwh",
		Short:         "Academic records warehouse loader and grade-average reports",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", filepath.Join("configs", "config.yaml"), "path to the YAML configuration file")

	cmd.AddCommand(newLoadCmd(opts))
	cmd.AddCommand(newReportCmd(opts))
	cmd.AddCommand(newServeCmd(opts))
	return cmd
}

func (o *rootOptions) load() (*config.Config, zerolog.Logger, error) {
	cfg, lgr, err := bootstrap.LoadConfigAndSetupLogger(o.configPath)
	if err != nil {
		return nil, zerolog.Logger{}, withCode(exitUsage, err)
	}
	return cfg, lgr, nil
}
