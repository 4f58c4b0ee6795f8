package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/supermodel/internal/sqlite"
	"github.com/mesh-intelligence/supermodel/internal/workspace"
)

func (a *app) newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize supermodel storage",
		Long: "Create the configuration and data directories, an empty model file and\n" +
			"the SQLite database. Existing files are kept.",
		Args: exactArgs(0),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := os.MkdirAll(a.configDir, 0o755); err != nil {
				return fmt.Errorf("create config directory: %w", err)
			}
			configPath := filepath.Join(a.configDir, configFileExt)
			wrote, err := writeConfigIfMissing(configPath, a.flags.dataDir)
			if err != nil {
				return fmt.Errorf("write config: %w", err)
			}
			if wrote {
				a.logger.Infow("config written", "path", configPath)
			}

			ws := workspace.NewWorkspace(a.logger)
			if err := ws.Attach(a.config); err != nil {
				return fmt.Errorf("open model: %w", err)
			}
			if _, err := os.Stat(ws.ModelPath()); os.IsNotExist(err) {
				if err := ws.Save(); err != nil {
					ws.Detach()
					return fmt.Errorf("create model: %w", err)
				}
			}
			if err := ws.Detach(); err != nil {
				return err
			}

			backend := sqlite.NewBackend(a.logger)
			if err := backend.Attach(a.config); err != nil {
				return fmt.Errorf("initialize database: %w", err)
			}
			if err := backend.Detach(); err != nil {
				return fmt.Errorf("finalize database: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), "Supermodel initialized successfully")
			return nil
		},
	}
}
