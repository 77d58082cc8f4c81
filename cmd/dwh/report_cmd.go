package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/yigit/unidwh/internal/app/report"
	"github.com/yigit/unidwh/internal/bootstrap"
)

const (
	formatTable = "table"
	formatJSONL = "jsonl"
)

type reportOptions struct {
	layout      string
	format      string
	showQuery   bool
	metricsFile string
}

func newReportCmd(root *rootOptions) *cobra.Command {
	opts := &reportOptions{}

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Print the average grade of every student per lecturer",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			layout, err := report.ParseLayout(opts.layout)
			if err != nil {
				return withCode(exitUsage, err)
			}
			if opts.format != formatTable && opts.format != formatJSONL {
				return withCode(exitUsage, fmt.Errorf("unsupported --format %q (expected %s|%s)", opts.format, formatTable, formatJSONL))
			}

			cfg, lgr, err := root.load()
			if err != nil {
				return err
			}

			database, err := bootstrap.SetupDatabase(cfg, lgr)
			if err != nil {
				return err
			}
			defer database.Close()

			deps := bootstrap.BuildDependencies(cfg, database, lgr)
			result, genErr := deps.ReportService.Generate(cmd.Context(), layout)

			if err := deps.Metrics.WriteTextfile(opts.metricsFile); err != nil {
				lgr.Warn().Err(err).Str("path", opts.metricsFile).Msg("Failed to write metrics textfile")
			}
			if genErr != nil {
				return genErr
			}

			if opts.showQuery {
				fmt.Fprintf(cmd.ErrOrStderr(), "%s\n-- args: %v\n", result.Query.SQL, result.Query.Args)
			}

			out := cmd.OutOrStdout()
			if opts.format == formatJSONL {
				return report.WriteJSONLines(out, result.Report)
			}
			return report.WriteTable(out, result.Report)
		},
	}

	cmd.Flags().StringVar(&opts.layout, "layout", string(report.LayoutPivot), "report layout: pivot|long")
	cmd.Flags().StringVar(&opts.format, "format", formatTable, "output format: table|jsonl")
	cmd.Flags().BoolVar(&opts.showQuery, "show-query", false, "print the generated SQL to stderr")
	cmd.Flags().StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	return cmd
}
