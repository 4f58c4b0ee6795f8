package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/supermodel/internal/gen"
	"github.com/mesh-intelligence/supermodel/pkg/sqlite"
	"github.com/mesh-intelligence/supermodel/pkg/types"
)

func (a *app) newGenCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "gen",
		Short: "Generate Go row types or SQLite tables from the model",
	}
	cmd.AddCommand(a.newGenClassCmd(), a.newGenTableCmd())
	return cmd
}

func (a *app) newGenClassCmd() *cobra.Command {
	var (
		pkg       string
		overwrite bool
	)
	cmd := &cobra.Command{
		Use:   "class <dir>",
		Short: "Write one Go file per entity into dir",
		Long: "Write one Go file per entity into dir. Existing files are left alone\n" +
			"and nothing is written unless --overwrite is given.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if pkg == "" {
				pkg = a.config.GetPackage()
			}
			g := gen.ClassGenerator{Package: pkg, Overwrite: overwrite}
			return a.read(func(m *types.Manager) error {
				written, err := g.Generate(cmd.Context(), m, args[0])
				if err != nil {
					return err
				}
				a.logger.Infow("classes generated", "dir", args[0], "files", len(written))
				if a.flags.jsonMode {
					if written == nil {
						written = []string{}
					}
					return writeJSON(cmd.OutOrStdout(), written)
				}
				for _, path := range written {
					fmt.Fprintln(cmd.OutOrStdout(), path)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&pkg, "package", "", "package clause of the generated files (default from config)")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "replace existing files")
	return cmd
}

// tableResult is the JSON output of gen table.
type tableResult struct {
	Statements []string `json:"statements"`
	Database   string   `json:"database,omitempty"`
	Tables     []string `json:"tables,omitempty"`
}

func (a *app) newGenTableCmd() *cobra.Command {
	var apply bool
	cmd := &cobra.Command{
		Use:   "table",
		Short: "Print the DDL that rebuilds every table, optionally applying it",
		Long: "Print the DROP and CREATE statements that rebuild one table per entity.\n" +
			"With --apply the statements run in one transaction against the configured\n" +
			"SQLite database, replacing the existing tables.",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			var res tableResult
			err := a.read(func(m *types.Manager) error {
				if !apply {
					stmts, err := gen.TableStatements(m)
					res.Statements = stmts
					return err
				}
				applied, err := sqlite.ApplyModel(cmd.Context(), a.logger, a.config, m)
				if err != nil {
					return err
				}
				res = tableResult{Statements: applied.Statements, Database: applied.Database, Tables: applied.Tables}
				return nil
			})
			if err != nil {
				return err
			}
			if res.Statements == nil {
				res.Statements = []string{}
			}

			if a.flags.jsonMode {
				return writeJSON(cmd.OutOrStdout(), res)
			}
			w := cmd.OutOrStdout()
			for _, stmt := range res.Statements {
				fmt.Fprintln(w, stmt)
			}
			if apply {
				fmt.Fprintf(w, "Applied %d statements to %s\n", len(res.Statements), res.Database)
				for _, table := range res.Tables {
					fmt.Fprintf(w, "  %s\n", table)
				}
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&apply, "apply", false, "run the statements against the SQLite database")
	return cmd
}
