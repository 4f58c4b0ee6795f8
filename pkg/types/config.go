package types

import "errors"

// Config holds the workspace settings used by the CLI and the generators.
type Config struct {
	Backend   string `json:"backend" yaml:"backend"`
	DataDir   string `json:"data_dir" yaml:"data_dir"`
	Database  string `json:"database,omitempty" yaml:"database,omitempty"`
	ModelFile string `json:"model_file,omitempty" yaml:"model_file,omitempty"`
	Package   string `json:"package,omitempty" yaml:"package,omitempty"`
}

// Supported backend names.
const (
	BackendSQLite = "sqlite"
)

// Defaults applied when the matching Config field is empty.
const (
	DefaultDatabase  = "supermodel.db"
	DefaultModelFile = "model.sm"
	DefaultPackage   = "model"
)

// Config validation errors.
var (
	ErrBackendEmpty   = errors.New("backend must not be empty")
	ErrBackendUnknown = errors.New("unknown backend")
)

// Lifecycle errors for attachable resources.
var (
	ErrDetached        = errors.New("backend is detached")
	ErrAlreadyAttached = errors.New("backend is already attached")
)

// knownBackends lists the backends that Validate accepts.
var knownBackends = map[string]bool{
	BackendSQLite: true,
}

// Validate checks that the Config is well-formed. It returns a sentinel error
// from this package on failure.
func (c Config) Validate() error {
	if c.Backend == "" {
		return ErrBackendEmpty
	}
	if !knownBackends[c.Backend] {
		return ErrBackendUnknown
	}
	return nil
}

// GetDatabase returns the database file name, or DefaultDatabase if unset.
func (c Config) GetDatabase() string {
	if c.Database == "" {
		return DefaultDatabase
	}
	return c.Database
}

// GetModelFile returns the model file name, or DefaultModelFile if unset.
func (c Config) GetModelFile() string {
	if c.ModelFile == "" {
		return DefaultModelFile
	}
	return c.ModelFile
}

// GetPackage returns the generated Go package name, or DefaultPackage if unset.
func (c Config) GetPackage() string {
	if c.Package == "" {
		return DefaultPackage
	}
	return c.Package
}
