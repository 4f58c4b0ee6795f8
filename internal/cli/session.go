package cli

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/supermodel/internal/eventlog"
	"github.com/mesh-intelligence/supermodel/internal/workspace"
	"github.com/mesh-intelligence/supermodel/pkg/codec"
	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// read attaches a workspace, runs fn and detaches without saving.
func (a *app) read(fn func(m *types.Manager) error) error {
	ws := workspace.NewWorkspace(a.logger)
	if err := ws.Attach(a.config); err != nil {
		return fmt.Errorf("open model: %w", err)
	}
	defer ws.Detach()

	m, err := ws.Manager()
	if err != nil {
		return err
	}
	return fn(m)
}

// mutate attaches a workspace, runs fn and saves the model if fn succeeds.
// It returns the events fn caused.
func (a *app) mutate(fn func(m *types.Manager) error) ([]eventlog.Record, error) {
	ws := workspace.NewWorkspace(a.logger)
	if err := ws.Attach(a.config); err != nil {
		return nil, fmt.Errorf("open model: %w", err)
	}
	defer ws.Detach()

	if err := ws.Update(fn); err != nil {
		return nil, err
	}
	return ws.Events(), nil
}

// lookup returns the named entity or a not-found model error.
func lookup(m *types.Manager, name string) (*types.Entity, error) {
	e, ok := m.Get(name)
	if !ok {
		return nil, types.Errorf(types.ErrNotFound, "Entity %q not found", name)
	}
	return e, nil
}

// exactArgs is cobra.ExactArgs with the error reported as a usage error.
func exactArgs(n int) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if err := cobra.ExactArgs(n)(cmd, args); err != nil {
			return usagef("%s: %s", cmd.CommandPath(), err)
		}
		return nil
	}
}

// attributeView is the JSON form of an attribute.
type attributeView struct {
	Name       string `json:"name"`
	Type       string `json:"type"`
	PrimaryKey bool   `json:"primary_key"`
}

// relationshipView is the JSON form of a relationship.
type relationshipView struct {
	Name   string `json:"name"`
	Target string `json:"target"`
}

// entityView is the JSON form of an entity.
type entityView struct {
	Name          string             `json:"name"`
	Attributes    []attributeView    `json:"attributes"`
	Relationships []relationshipView `json:"relationships"`
	Text          string             `json:"text"`
}

func viewOf(e *types.Entity) entityView {
	v := entityView{
		Name:          e.Name(),
		Attributes:    []attributeView{},
		Relationships: []relationshipView{},
		Text:          codec.Encode(e),
	}
	for _, attr := range e.Attributes() {
		v.Attributes = append(v.Attributes, attributeView{Name: attr.Name, Type: attr.Type.String(), PrimaryKey: attr.PrimaryKey})
	}
	for _, r := range e.Relationships() {
		v.Relationships = append(v.Relationships, relationshipView{Name: r.Name, Target: r.Target})
	}
	return v
}

// writeJSON prints v as indented JSON.
func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal JSON: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// changeResult is the JSON output of a mutating command.
type changeResult struct {
	Entity *entityView       `json:"entity,omitempty"`
	Events []eventlog.Record `json:"events"`
}

// reportChange prints the state of the changed entity: its encoded text, or
// with --json the entity plus the registry events the command caused. A nil
// entity means it was removed and only the message is printed.
func (a *app) reportChange(cmd *cobra.Command, e *types.Entity, events []eventlog.Record, msg string) error {
	if a.flags.jsonMode {
		res := changeResult{Events: events}
		if res.Events == nil {
			res.Events = []eventlog.Record{}
		}
		if e != nil {
			v := viewOf(e)
			res.Entity = &v
		}
		return writeJSON(cmd.OutOrStdout(), res)
	}
	if e != nil {
		fmt.Fprintln(cmd.OutOrStdout(), codec.Encode(e))
		return nil
	}
	fmt.Fprintln(cmd.OutOrStdout(), msg)
	return nil
}
