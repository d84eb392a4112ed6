package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/gravitydb/gravity/database/escaper"
	"github.com/gravitydb/gravity/internal/cli"
	"github.com/gravitydb/gravity/internal/querydoc"
)

var renderTerminator bool

var renderCmd = &cobra.Command{
	Use:   "render <query.yaml>...",
	Short: "Render query documents to SQL",
	Long: `Render each query document to the SQL statement it describes, one
statement per line, in argument order.`,
	Example: `  # Render a single document
  gravity render queries/expire_sessions.yaml

  # Render with PostgreSQL quoting and a trailing semicolon
  gravity render --dialect postgres --terminator queries/*.yaml`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		esc, err := escaper.ForDialect(cfg.Dialect)
		if err != nil {
			return cli.ConfigError("resolving dialect", err)
		}
		terminator := renderTerminator || cfg.Render.Terminator

		for _, path := range args {
			doc, err := querydoc.Load(path)
			if err != nil {
				return cli.QueryDocumentError(fmt.Sprintf("loading %s", path), err)
			}

			sql, err := doc.Render(esc)
			if err != nil {
				// A missing table reference keeps its own exit code.
				return cli.QueryDocumentError(fmt.Sprintf("rendering %s", path), err)
			}
			logger.Debugf("rendered %s statement from %s", doc.Kind, path)

			if terminator {
				sql += ";"
			}
			if _, err := fmt.Fprintln(cmd.OutOrStdout(), sql); err != nil {
				return cli.GeneralError("writing output", err)
			}
		}
		return nil
	},
}

func init() {
	renderCmd.Flags().BoolVar(&renderTerminator, "terminator", false, "append ';' to each statement")
}
