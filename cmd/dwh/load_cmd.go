package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/yigit/unidwh/internal/bootstrap"
)

type loadOptions struct {
	dataDir      string
	dedupeGrades bool
	metricsFile  string
}

func newLoadCmd(root *rootOptions) *cobra.Command {
	opts := &loadOptions{}

	cmd := &cobra.Command{
		Use:   "load",
		Short: "Load the export documents into the warehouse in one transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lgr, err := root.load()
			if err != nil {
				return err
			}
			if opts.dataDir != "" {
				cfg.Sources.DataDir = opts.dataDir
			}
			if cmd.Flags().Changed("dedupe-grades") {
				cfg.Load.DedupeGrades = opts.dedupeGrades
			}

			database, err := bootstrap.SetupDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			deps := bootstrap.BuildDependencies(cfg, database, lgr)
			summary, loadErr := deps.IngestService.Load(cmd.Context())

			if err := deps.Metrics.WriteTextfile(opts.metricsFile); err != nil {
				lgr.Warn().Err(err).Str("path", opts.metricsFile).Msg("Failed to write metrics textfile")
			}

			if err := json.NewEncoder(cmd.OutOrStdout()).Encode(summary); err != nil {
				lgr.Warn().Err(err).Msg("Failed to write load summary")
			}
			return loadErr
		},
	}

	cmd.Flags().StringVar(&opts.dataDir, "data-dir", "", "directory holding the export documents (overrides sources.data_dir)")
	cmd.Flags().BoolVar(&opts.dedupeGrades, "dedupe-grades", false, "skip result records already stored for the same student, course, lecturer and date")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	return cmd
}
