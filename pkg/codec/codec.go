// Package codec converts entities to and from their single-line text form:
//
//	entity_text := NAME "$" attr_list "$" rel_list
//	attr_list   := (attr "#")*
//	rel_list    := (rel "#")*
//	attr        := ATTRNAME ":" TYPENAME ["_PRIMARY_KEY"]
//	rel         := RELNAME ":" TARGET_ENTITY_NAME
//
// For example "Pokemon$id:INTEGER_PRIMARY_KEY#name:STRING#$owner:Trainer#".
//
// Decoding registers the result with a types.Manager. A decode either
// registers everything it was given or nothing: the text is first replayed
// against a scratch registry that mirrors the target's entity names, and only
// a clean replay is repeated against the real one.
package codec

import (
	"errors"
	"fmt"
	"strings"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// Grammar delimiters.
const (
	sectionSep       = "$"
	itemSep          = "#"
	fieldSep         = ":"
	primaryKeySuffix = "_PRIMARY_KEY"
)

// Encode returns the text form of e. Attributes and relationships keep their
// order.
func Encode(e *types.Entity) string {
	var b strings.Builder
	b.WriteString(e.Name())
	b.WriteString(sectionSep)
	for _, a := range e.Attributes() {
		b.WriteString(a.Name)
		b.WriteString(fieldSep)
		b.WriteString(a.Type.String())
		if a.PrimaryKey {
			b.WriteString(primaryKeySuffix)
		}
		b.WriteString(itemSep)
	}
	b.WriteString(sectionSep)
	for _, r := range e.Relationships() {
		b.WriteString(r.Name)
		b.WriteString(fieldSep)
		b.WriteString(r.Target)
		b.WriteString(itemSep)
	}
	return b.String()
}

// EncodeAll encodes every entity in m, targets before the entities that
// point at them (see DependencyOrder).
func EncodeAll(m *types.Manager) []string {
	order := DependencyOrder(m)
	out := make([]string, 0, len(order))
	for _, e := range order {
		out = append(out, Encode(e))
	}
	return out
}

// Decode parses text, creates the entity in m with its attributes and
// relationships, and returns it. Relationship targets must already be
// registered in m, except for the decoded entity itself.
//
// Errors carry a types kind: ErrMalformedText for grammar violations,
// ErrUnknownType for an unknown type token, ErrInvalidTarget for a missing
// target, and the usual entity kinds (ErrName, ErrDuplicateName,
// ErrPrimaryKey) for model violations. On error m is unchanged and no
// listener is notified.
func Decode(m *types.Manager, text string) (*types.Entity, error) {
	entities, err := DecodeAll(m, []string{text})
	if err != nil {
		var be *BatchError
		if errors.As(err, &be) {
			return nil, be.Err
		}
		return nil, err
	}
	return entities[0], nil
}

// DecodeAll decodes a batch of entity texts in two passes: every entity is
// created with its attributes first, and relationships are linked second.
// Texts may therefore appear in any order and may reference each other in
// cycles. The batch is all-or-nothing, like Decode. The returned entities
// follow the order of texts. A rejected text is reported as a *BatchError.
func DecodeAll(m *types.Manager, texts []string) ([]*types.Entity, error) {
	parsed := make([]entityText, 0, len(texts))
	for i, text := range texts {
		p, err := parse(text)
		if err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
		parsed = append(parsed, p)
	}

	// Dry run against a registry holding stand-ins for every existing name,
	// so name clashes and target lookups behave exactly as they will in m.
	scratch := types.NewManager()
	for _, e := range m.All() {
		if _, err := types.NewEntity(scratch, e.Name()); err != nil {
			return nil, err
		}
	}
	if _, err := replay(scratch, parsed); err != nil {
		return nil, err
	}

	return replay(m, parsed)
}

// replay applies parsed entities to m: entities and attributes first, then
// relationships.
func replay(m *types.Manager, parsed []entityText) ([]*types.Entity, error) {
	created := make([]*types.Entity, 0, len(parsed))
	for i, p := range parsed {
		e, err := p.create(m)
		if err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
		created = append(created, e)
	}
	for i, p := range parsed {
		if err := p.link(m, created[i]); err != nil {
			return nil, &BatchError{Index: i, Err: err}
		}
	}
	return created, nil
}

// BatchError identifies the text of a DecodeAll batch that was rejected.
// Index is zero-based.
type BatchError struct {
	Index int
	Err   error
}

func (e *BatchError) Error() string {
	return fmt.Sprintf("entity text %d: %v", e.Index+1, e.Err)
}

func (e *BatchError) Unwrap() error {
	return e.Err
}
