package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

func (a *app) newRelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "rel",
		Short: "Edit the relationships of an entity",
		Long: "Edit the relationships of an entity. An entity needs a primary key\n" +
			"before it can own relationships.",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add <entity> <name> <target>",
			Short: "Append a relationship to another entity",
			Args:  exactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.editEntity(cmd, args[0], func(m *types.Manager, e *types.Entity) error {
					target, _ := m.Get(args[2])
					return e.AddRelationship(args[1], target)
				})
			},
		},
		&cobra.Command{
			Use:   "rename <entity> <name> <new-name>",
			Short: "Rename a relationship",
			Args:  exactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.editEntity(cmd, args[0], func(_ *types.Manager, e *types.Entity) error {
					return e.UpdateRelationshipName(args[1], args[2])
				})
			},
		},
		&cobra.Command{
			Use:   "retarget <entity> <name> <target>",
			Short: "Point a relationship at another entity",
			Args:  exactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.editEntity(cmd, args[0], func(m *types.Manager, e *types.Entity) error {
					target, _ := m.Get(args[2])
					return e.UpdateRelationshipEntity(args[1], target)
				})
			},
		},
		&cobra.Command{
			Use:   "remove <entity> <name>",
			Short: "Remove a relationship",
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.editEntity(cmd, args[0], func(_ *types.Manager, e *types.Entity) error {
					return e.RemoveRelationship(args[1])
				})
			},
		},
	)
	return cmd
}
