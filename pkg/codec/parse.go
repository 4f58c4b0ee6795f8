package codec

import (
	"strings"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// entityText is the syntactic content of one entity text. Names are not yet
// validated; the entity methods do that when the text is replayed.
type entityText struct {
	name          string
	attributes    []types.Attribute
	relationships []types.Relationship
}

// parse splits text into its three sections and each section into items.
// Only grammar and type tokens are checked here.
func parse(text string) (entityText, error) {
	sections := strings.Split(text, sectionSep)
	if len(sections) != 3 {
		return entityText{}, types.Errorf(types.ErrMalformedText, "Entity malformed")
	}

	p := entityText{name: sections[0]}

	for _, chunk := range items(sections[1]) {
		name, token, ok := splitItem(chunk)
		if !ok {
			return entityText{}, types.Errorf(types.ErrMalformedText, "Attribute malformed: %q", chunk)
		}
		isKey := strings.HasSuffix(token, primaryKeySuffix)
		if isKey {
			token = strings.TrimSuffix(token, primaryKeySuffix)
		}
		t, err := types.ParseAttributeType(token)
		if err != nil {
			return entityText{}, err
		}
		p.attributes = append(p.attributes, types.Attribute{Name: name, Type: t, PrimaryKey: isKey})
	}

	for _, chunk := range items(sections[2]) {
		name, target, ok := splitItem(chunk)
		if !ok {
			return entityText{}, types.Errorf(types.ErrMalformedText, "Relationship malformed: %q", chunk)
		}
		p.relationships = append(p.relationships, types.Relationship{Name: name, Target: target})
	}

	return p, nil
}

// items splits a section on "#", trims each chunk and drops empty ones.
func items(section string) []string {
	var out []string
	for _, chunk := range strings.Split(section, itemSep) {
		chunk = strings.TrimSpace(chunk)
		if chunk != "" {
			out = append(out, chunk)
		}
	}
	return out
}

// splitItem splits "left:right". It fails unless there is exactly one ":".
func splitItem(chunk string) (string, string, bool) {
	if strings.Count(chunk, fieldSep) != 1 {
		return "", "", false
	}
	left, right, _ := strings.Cut(chunk, fieldSep)
	return left, right, true
}

// create registers the entity with its attributes and primary key.
func (p entityText) create(m *types.Manager) (*types.Entity, error) {
	e, err := types.NewEntity(m, p.name)
	if err != nil {
		return nil, err
	}
	for _, a := range p.attributes {
		if err := e.AddAttribute(a.Name, a.Type); err != nil {
			return nil, err
		}
		if a.PrimaryKey {
			if err := e.SetPrimaryKey(a.Name, true); err != nil {
				return nil, err
			}
		}
	}
	return e, nil
}

// link adds the relationships once every entity of the batch exists.
func (p entityText) link(m *types.Manager, e *types.Entity) error {
	for _, r := range p.relationships {
		target, ok := m.Get(r.Target)
		if !ok {
			return types.Errorf(types.ErrInvalidTarget, "target entity %q does not exist", r.Target)
		}
		if err := e.AddRelationship(r.Name, target); err != nil {
			return err
		}
	}
	return nil
}
