// Package workspace binds a configuration to a live model: it loads the model
// file into a registry on Attach, records registry events, and saves the
// model back on request.
package workspace

import (
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mesh-intelligence/supermodel/internal/eventlog"
	"github.com/mesh-intelligence/supermodel/internal/store"
	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// Workspace is a session over one model file. It follows the backend
// lifecycle: NewWorkspace, Attach, work, Detach. A Workspace is used by one
// goroutine at a time, like the registry it wraps.
type Workspace struct {
	attached  bool
	config    types.Config
	modelPath string
	manager   *types.Manager
	events    *eventlog.Log
	logger    *zap.SugaredLogger
}

// NewWorkspace returns a detached workspace. A nil logger discards output.
func NewWorkspace(logger *zap.SugaredLogger) *Workspace {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Workspace{logger: logger}
}

// Attach validates config, creates DataDir if needed and loads
// <DataDir>/<ModelFile> into a fresh registry. A missing model file starts an
// empty model. Events raised while loading are not recorded.
// Returns ErrAlreadyAttached if already attached.
func (w *Workspace) Attach(config types.Config) error {
	if w.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	dataDir := config.DataDir
	if dataDir == "" {
		dataDir = "."
	}
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return err
	}

	modelPath := filepath.Join(dataDir, config.GetModelFile())
	m := types.NewManager()
	events := eventlog.New(w.logger)
	m.RegisterForUpdates(events)

	loaded, err := store.Load(modelPath, m)
	if err != nil {
		return err
	}
	events.Reset()

	w.config = config
	w.modelPath = modelPath
	w.manager = m
	w.events = events
	w.attached = true
	w.logger.Infow("workspace attached", "model", modelPath, "entities", len(loaded))
	return nil
}

// Detach drops the in-memory model without saving. Detach is idempotent.
func (w *Workspace) Detach() error {
	if !w.attached {
		return nil
	}
	w.manager.Unregister(w.events)
	w.manager.Clear()
	w.manager = nil
	w.events = nil
	w.attached = false
	w.logger.Infow("workspace detached", "model", w.modelPath)
	return nil
}

// Manager returns the registry of the attached model.
func (w *Workspace) Manager() (*types.Manager, error) {
	if !w.attached {
		return nil, types.ErrDetached
	}
	return w.manager, nil
}

// Config returns the configuration passed to Attach.
func (w *Workspace) Config() types.Config {
	return w.config
}

// ModelPath returns the model file of the attached workspace.
func (w *Workspace) ModelPath() string {
	return w.modelPath
}

// Events returns the registry events recorded since Attach.
func (w *Workspace) Events() []eventlog.Record {
	if !w.attached {
		return nil
	}
	return w.events.Records()
}

// Save writes the model to its file atomically.
func (w *Workspace) Save() error {
	if !w.attached {
		return types.ErrDetached
	}
	if err := store.Save(w.modelPath, w.manager); err != nil {
		return err
	}
	w.logger.Infow("model saved", "model", w.modelPath, "entities", w.manager.Len())
	return nil
}

// Update runs fn against the registry and saves the model if fn succeeds.
// When fn fails nothing is written and its error is returned unchanged.
func (w *Workspace) Update(fn func(m *types.Manager) error) error {
	m, err := w.Manager()
	if err != nil {
		return err
	}
	if err := fn(m); err != nil {
		return err
	}
	return w.Save()
}
