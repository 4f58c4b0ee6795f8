package cli

import (
	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// editEntity looks up the named entity, applies fn to it, saves the model and
// reports the entity's new state.
func (a *app) editEntity(cmd *cobra.Command, name string, fn func(m *types.Manager, e *types.Entity) error) error {
	var e *types.Entity
	events, err := a.mutate(func(m *types.Manager) error {
		var err error
		if e, err = lookup(m, name); err != nil {
			return err
		}
		return fn(m, e)
	})
	if err != nil {
		return err
	}
	return a.reportChange(cmd, e, events, "")
}

func (a *app) newAttrCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "attr",
		Short: "Edit the attributes of an entity",
	}

	var pk bool
	add := &cobra.Command{
		Use:   "add <entity> <name> <type>",
		Short: "Append an attribute",
		Args:  exactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			t, err := types.ParseAttributeType(args[2])
			if err != nil {
				return err
			}
			return a.editEntity(cmd, args[0], func(_ *types.Manager, e *types.Entity) error {
				if err := e.AddAttribute(args[1], t); err != nil {
					return err
				}
				if pk {
					return e.SetPrimaryKey(args[1], true)
				}
				return nil
			})
		},
	}
	add.Flags().BoolVar(&pk, "pk", false, "make the attribute the primary key")

	var unset bool
	setPK := &cobra.Command{
		Use:   "pk <entity> <name>",
		Short: "Make an attribute the primary key, or clear it with --unset",
		Long: "Make an attribute the primary key. Only INTEGER and LONG attributes can be\n" +
			"keys. Clearing the key also removes every relationship of the entity.",
		Args: exactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.editEntity(cmd, args[0], func(_ *types.Manager, e *types.Entity) error {
				return e.SetPrimaryKey(args[1], !unset)
			})
		},
	}
	setPK.Flags().BoolVar(&unset, "unset", false, "clear the primary key flag")

	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "rename <entity> <name> <new-name>",
			Short: "Rename an attribute",
			Args:  exactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.editEntity(cmd, args[0], func(_ *types.Manager, e *types.Entity) error {
					return e.UpdateAttributeName(args[1], args[2])
				})
			},
		},
		&cobra.Command{
			Use:   "type <entity> <name> <type>",
			Short: "Change the type of an attribute",
			Args:  exactArgs(3),
			RunE: func(cmd *cobra.Command, args []string) error {
				t, err := types.ParseAttributeType(args[2])
				if err != nil {
					return err
				}
				return a.editEntity(cmd, args[0], func(_ *types.Manager, e *types.Entity) error {
					return e.UpdateAttributeType(args[1], t)
				})
			},
		},
		setPK,
		&cobra.Command{
			Use:   "remove <entity> <name>",
			Short: "Remove an attribute",
			Args:  exactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return a.editEntity(cmd, args[0], func(_ *types.Manager, e *types.Entity) error {
					return e.RemoveAttribute(args[1])
				})
			},
		},
	)
	return cmd
}
