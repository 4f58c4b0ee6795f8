package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

const modulePath = "github.com/mesh-intelligence/supermodel"

// Version is the supermodel release, overridden at build time with
// -ldflags "-X github.com/mesh-intelligence/supermodel/internal/cli.Version=...".
var Version = "0.1.0"

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the supermodel version",
		Args:  exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "supermodel v%s\nmodule: %s\n", Version, modulePath)
			return nil
		},
	}
}
