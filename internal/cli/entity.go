package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

func (a *app) newEntityCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "entity",
		Short: "Add, rename, remove and inspect entities",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <name>",
			Short: "Create an entity",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				var e *types.Entity
				events, err := a.mutate(func(m *types.Manager) error {
					var err error
					e, err = types.NewEntity(m, args[0])
					return err
				})
				if err != nil {
					return err
				}
				return a.reportChange(cmd, e, events, "")
			},
		},
		&cobra.Command{
			Use:   "rename <name> <new-name>",
			Short: "Rename an entity; relationships pointing at it follow",
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.editEntity(cmd, args[0], func(_ *types.Manager, e *types.Entity) error {
					return e.Rename(args[1])
				})
			},
		},
		&cobra.Command{
			Use:   "remove <name>",
			Short: "Remove an entity and every relationship targeting it",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				events, err := a.mutate(func(m *types.Manager) error {
					e, err := lookup(m, args[0])
					if err != nil {
						return err
					}
					return m.Remove(e)
				})
				if err != nil {
					return err
				}
				return a.reportChange(cmd, nil, events, fmt.Sprintf("Entity %s removed", args[0]))
			},
		},
		&cobra.Command{
			Use:   "show <name>",
			Short: "Display an entity with its attributes and relationships",
			Args:  exactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.read(func(m *types.Manager) error {
					e, err := lookup(m, args[0])
					if err != nil {
						return err
					}
					if a.flags.jsonMode {
						return writeJSON(cmd.OutOrStdout(), viewOf(e))
					}
					printEntity(cmd, e)
					return nil
				})
			},
		},
		&cobra.Command{
			Use:   "list",
			Short: "List entity names in creation order",
			Args:  exactArgs(0),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.read(func(m *types.Manager) error {
					all := m.All()
					if a.flags.jsonMode {
						views := make([]entityView, 0, len(all))
						for _, e := range all {
							views = append(views, viewOf(e))
						}
						return writeJSON(cmd.OutOrStdout(), views)
					}
					for _, e := range all {
						fmt.Fprintln(cmd.OutOrStdout(), e.Name())
					}
					return nil
				})
			},
		},
	)
	return cmd
}

// printEntity writes the human-readable form of e.
func printEntity(cmd *cobra.Command, e *types.Entity) {
	w := cmd.OutOrStdout()
	fmt.Fprintf(w, "Entity: %s\n", e.Name())

	fmt.Fprintln(w, "Attributes:")
	for _, attr := range e.Attributes() {
		if attr.PrimaryKey {
			fmt.Fprintf(w, "  %s: %s (primary key)\n", attr.Name, attr.Type)
			continue
		}
		fmt.Fprintf(w, "  %s: %s\n", attr.Name, attr.Type)
	}

	fmt.Fprintln(w, "Relationships:")
	for _, r := range e.Relationships() {
		fmt.Fprintf(w, "  %s -> %s\n", r.Name, r.Target)
	}
}
