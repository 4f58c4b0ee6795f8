// Package cli implements the supermodel command-line interface.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/supermodel/internal/paths"
	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// Exit codes.
const (
	exitSuccess   = 0
	exitUserError = 1
	exitSysError  = 2
)

// rootFlags holds global flag values accessible to all subcommands.
type rootFlags struct {
	configDir string
	dataDir   string
	jsonMode  bool
	debug     bool
}

// app is the state shared by one command tree: flags, the resolved
// configuration and the logger.
type app struct {
	flags     rootFlags
	configDir string
	config    types.Config
	logger    *zap.SugaredLogger
}

// NewRootCmd creates the top-level "supermodel" command with global flags
// and all subcommands registered.
func NewRootCmd() *cobra.Command {
	a := &app{logger: zap.NewNop().Sugar()}

	root := &cobra.Command{
		Use:   "supermodel",
		Short: "Define entities and generate code and tables from them",
		Long: "Supermodel keeps a model of named entities with typed attributes and\n" +
			"relationships, and generates Go row types and SQLite tables from it.",
		Version: Version,
		// Do not print usage on errors returned by subcommands.
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			_ = a.logger.Sync()
		},
	}

	root.PersistentFlags().StringVar(&a.flags.configDir, "config-dir", "", "configuration directory (default: platform config dir)")
	root.PersistentFlags().StringVar(&a.flags.dataDir, "data-dir", "", "data directory (default: $(CWD)/.supermodel)")
	root.PersistentFlags().BoolVar(&a.flags.jsonMode, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&a.flags.debug, "debug", false, "log debug output to stderr")

	root.AddCommand(newVersionCmd())
	root.AddCommand(a.newInitCmd())
	root.AddCommand(a.newEntityCmd())
	root.AddCommand(a.newAttrCmd())
	root.AddCommand(a.newRelCmd())
	root.AddCommand(a.newExportCmd())
	root.AddCommand(a.newImportCmd())
	root.AddCommand(a.newTypesCmd())
	root.AddCommand(a.newGenCmd())

	return root
}

// Execute runs the root command and exits with the appropriate code.
func Execute() {
	root := NewRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(ExitCode(err))
	}
}

// ExitCode maps a command error to the process exit code: model errors and
// usage errors are the user's, everything else is a system error.
func ExitCode(err error) int {
	var usage *usageError
	switch {
	case err == nil:
		return exitSuccess
	case types.IsUserError(err), errors.As(err, &usage):
		return exitUserError
	default:
		return exitSysError
	}
}

// usageError marks a bad invocation, such as an unknown type token on the
// command line.
type usageError struct {
	msg string
}

func (e *usageError) Error() string { return e.msg }

func usagef(format string, args ...any) error {
	return &usageError{msg: fmt.Sprintf(format, args...)}
}

// setup resolves directories, loads config.yaml and builds the logger.
func (a *app) setup() error {
	logger, err := newLogger(a.flags.debug)
	if err != nil {
		return fmt.Errorf("create logger: %w", err)
	}
	a.logger = logger

	configDir, err := paths.ResolveConfigDir(a.flags.configDir)
	if err != nil {
		return fmt.Errorf("resolve config dir: %w", err)
	}
	v, err := loadConfig(configDir)
	if err != nil {
		return err
	}
	dataDir, err := paths.ResolveDataDir(a.flags.dataDir, v.GetString(cfgKeyDataDir))
	if err != nil {
		return fmt.Errorf("resolve data dir: %w", err)
	}

	a.configDir = configDir
	a.config = types.Config{
		Backend:   v.GetString(cfgKeyBackend),
		DataDir:   dataDir,
		Database:  v.GetString(cfgKeyDatabase),
		ModelFile: v.GetString(cfgKeyModelFile),
		Package:   v.GetString(cfgKeyPackage),
	}
	a.logger.Debugw("configuration resolved",
		"config_dir", configDir,
		"data_dir", dataDir,
		"backend", a.config.Backend,
	)
	return nil
}
