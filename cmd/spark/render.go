package main

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/vango-dev/spark/internal/publish"
	"github.com/vango-dev/spark/internal/treefile"
	"github.com/vango-dev/spark/pkg/deps"
	"github.com/vango-dev/spark/pkg/render"
)

func renderCmd(opts *globalOptions) *cobra.Command {
	var (
		output   string
		fragment bool
	)

	cmd := &cobra.Command{
		Use:   "render <tree.yaml>",
		Short: "Render a tree file to HTML",
		Long: `Render a tree file to static HTML using the initial values of its
variables.

Examples:
  spark render page.yaml
  spark render page.yaml --fragment
  spark render page.yaml -o index.html`,
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
			logger.Debug("render: loaded tree", "path", args[0], "components", len(doc.Components), "vars", len(doc.Vars))

			var out []byte
			if fragment {
				out = []byte(render.ToHTML(doc.Bind(deps.New()).Content(), nil))
			} else {
				out, err = publish.RenderDocument(doc)
				if err != nil {
					return err
				}
			}

			if output == "" {
				_, err = cmd.OutOrStdout().Write(out)
				return err
			}
			if err := os.WriteFile(output, out, 0644); err != nil {
				return err
			}
			logger.Info("render: wrote page", "path", output, "bytes", len(out))
			return nil
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", "", "Write to a file instead of stdout")
	cmd.Flags().BoolVar(&fragment, "fragment", false, "Render only the page content, without the document shell")

	return cmd
}
