package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/vango-dev/spark/internal/preview"
)

func serveCmd(opts *globalOptions) *cobra.Command {
	var (
		port    int
		host    string
		noWatch bool
	)

	cmd := &cobra.Command{
		Use:   "serve <tree.yaml>",
		Short: "Start the live preview server",
		Long: `Start the live preview server for a tree file.

Variables can be changed over HTTP and the page updates in place in every
connected browser. Editing the tree file reloads the page.

Examples:
  spark serve page.yaml
  spark serve page.yaml --port=8080
  curl -X POST localhost:4000/_spark/vars/name -d '{"value":"Spark"}'`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			if port > 0 {
				cfg.Serve.Port = port
			}
			if host != "" {
				cfg.Serve.Host = host
			}
			if noWatch {
				watch := false
				cfg.Serve.Watch = &watch
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			server, err := preview.New(preview.Options{
				TreePath: args[0],
				Config:   cfg,
				Logger:   logger,
			})
			if err != nil {
				return err
			}
			defer server.Close()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			success(cmd.OutOrStdout(), "Previewing %s at http://%s", args[0], cfg.ServeAddress())
			return server.Run(ctx)
		},
	}

	cmd.Flags().IntVarP(&port, "port", "p", 0, "Port to listen on (default from spark.json)")
	cmd.Flags().StringVarP(&host, "host", "H", "", "Host to bind to (default from spark.json)")
	cmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when the tree file changes")

	return cmd
}
