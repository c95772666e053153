package main

import (
	"github.com/spf13/cobra"

	"github.com/vango-dev/spark/internal/publish"
	"github.com/vango-dev/spark/internal/treefile"
)

func publishCmd(opts *globalOptions) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "publish <tree.yaml>",
		Short: "Render a tree file and publish the page",
		Long: `Render a tree file and publish the page to the destination in
spark.json: the S3 bucket when publish.bucket is set, otherwise publish.dir.

Examples:
  spark publish page.yaml
  spark publish pages/about.yaml --name about/index.html`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.load()
			if err != nil {
				return err
			}
			logger := newLogger(cfg, cmd.ErrOrStderr())

			doc, err := treefile.Load(args[0])
			if err != nil {
				return err
			}
			p, err := publish.New(cfg, logger)
			if err != nil {
				return err
			}
			if name == "" {
				name = publish.PageName(args[0])
			}
			if err := publish.Document(cmd.Context(), p, name, doc); err != nil {
				return err
			}
			success(cmd.OutOrStdout(), "Published %s", name)
			return nil
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Page name (default: tree file name with .html)")

	return cmd
}
