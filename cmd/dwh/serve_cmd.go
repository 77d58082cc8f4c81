package main

import (
	"github.com/spf13/cobra"

	"github.com/yigit/unidwh/internal/server"
)

func newServeCmd(root *rootOptions) *cobra.Command {
	var port string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the grade-average report and metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, lgr, err := root.load()
			if err != nil {
				return err
			}
			if port != "" {
				cfg.Server.Port = port
			}

			srv, err := server.NewServer(cfg, lgr)
			if err != nil {
				return err
			}
			return srv.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&port, "port", "", "listen port (overrides server.port)")
	return cmd
}
