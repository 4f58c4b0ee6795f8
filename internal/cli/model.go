package cli

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/supermodel/internal/eventlog"
	"github.com/mesh-intelligence/supermodel/internal/store"
	"github.com/mesh-intelligence/supermodel/pkg/codec"
	"github.com/mesh-intelligence/supermodel/pkg/types"
)

func (a *app) newExportCmd() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the model as entity text, one entity per line",
		Long: "Print the model as entity text, one entity per line. Entities come after\n" +
			"the entities they reference, so the output can be imported as is.",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.read(func(m *types.Manager) error {
				if output != "" {
					if err := store.Save(output, m); err != nil {
						return fmt.Errorf("export model: %w", err)
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Exported %d entities to %s\n", m.Len(), output)
					return nil
				}
				lines := codec.EncodeAll(m)
				if a.flags.jsonMode {
					if lines == nil {
						lines = []string{}
					}
					return writeJSON(cmd.OutOrStdout(), lines)
				}
				for _, line := range lines {
					fmt.Fprintln(cmd.OutOrStdout(), line)
				}
				return nil
			})
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", "", "write to a file instead of stdout")
	return cmd
}

func (a *app) newImportCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "import <file>",
		Short: "Add the entities of a text file to the model",
		Long: "Add the entities of a text file, one entity per line, to the model. Use -\n" +
			"to read standard input. Nothing is imported if any line fails.",
		Args: exactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			var r io.Reader
			if name == "-" {
				name = "stdin"
				r = cmd.InOrStdin()
			} else {
				f, err := os.Open(name)
				if err != nil {
					return usagef("open %s: %s", name, err)
				}
				defer f.Close()
				r = f
			}

			var imported []*types.Entity
			events, err := a.mutate(func(m *types.Manager) error {
				var err error
				imported, err = store.Read(r, name, m)
				return err
			})
			if err != nil {
				return err
			}

			if a.flags.jsonMode {
				res := importResult{Entities: []entityView{}, Events: events}
				if res.Events == nil {
					res.Events = []eventlog.Record{}
				}
				for _, e := range imported {
					res.Entities = append(res.Entities, viewOf(e))
				}
				return writeJSON(cmd.OutOrStdout(), res)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Imported %d entities\n", len(imported))
			return nil
		},
	}
}

// importResult is the JSON output of import.
type importResult struct {
	Entities []entityView      `json:"entities"`
	Events   []eventlog.Record `json:"events"`
}

// typeView is the JSON form of an attribute type.
type typeView struct {
	Name          string `json:"name"`
	CanPrimaryKey bool   `json:"can_primary_key"`
}

func (a *app) newTypesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "types",
		Short: "List the attribute types",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			all := types.AttributeTypes()
			if a.flags.jsonMode {
				views := make([]typeView, 0, len(all))
				for _, t := range all {
					views = append(views, typeView{Name: t.String(), CanPrimaryKey: t.CanBePrimaryKey()})
				}
				return writeJSON(cmd.OutOrStdout(), views)
			}
			for _, t := range all {
				if t.CanBePrimaryKey() {
					fmt.Fprintf(cmd.OutOrStdout(), "%s (primary key)\n", t)
					continue
				}
				fmt.Fprintln(cmd.OutOrStdout(), t)
			}
			return nil
		},
	}
}
