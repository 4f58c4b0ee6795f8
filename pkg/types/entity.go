package types

import "fmt"

// Entity is a named schema definition, analogous to a table. It owns an
// ordered list of attributes and an ordered list of relationships and
// enforces their invariants:
//
//   - attribute names are unique within the entity, as are relationship names;
//   - at most one attribute is the primary key;
//   - relationships exist only while the entity has a primary key.
//
// Entities compare equal by name (see Equal).
type Entity struct {
	name          string
	attributes    []Attribute
	relationships []Relationship
	manager       *Manager
}

// NewEntity creates an entity and registers it with m, which notifies m's
// listeners with EntityAdded. Returns ErrName for an invalid name and
// ErrDuplicateName if m already holds an entity with that name.
func NewEntity(m *Manager, name string) (*Entity, error) {
	if m == nil {
		return nil, fmt.Errorf("new entity %q: nil manager", name)
	}
	if err := ValidateName(name, RoleEntity); err != nil {
		return nil, err
	}
	e := &Entity{name: name}
	if err := m.Register(e); err != nil {
		return nil, err
	}
	return e, nil
}

// Name returns the entity name.
func (e *Entity) Name() string {
	return e.name
}

// String returns the entity name.
func (e *Entity) String() string {
	return e.name
}

// Manager returns the registry the entity belongs to, or nil once the entity
// has been removed or the registry cleared.
func (e *Entity) Manager() *Manager {
	return e.manager
}

// Equal reports whether other has the same name as e.
func (e *Entity) Equal(other *Entity) bool {
	if e == nil || other == nil {
		return e == other
	}
	return e.name == other.name
}

// Rename changes the entity name through the registry, which enforces global
// uniqueness and notifies listeners. See Manager.UpdateName.
func (e *Entity) Rename(newName string) error {
	if e.manager == nil {
		return newError(ErrNotFound, msgEntityNotRegistered)
	}
	return e.manager.UpdateName(e, newName)
}

// Attributes returns a copy of the attributes in insertion order.
func (e *Entity) Attributes() []Attribute {
	out := make([]Attribute, len(e.attributes))
	copy(out, e.attributes)
	return out
}

// Attribute returns the attribute with the given name.
func (e *Entity) Attribute(name string) (Attribute, bool) {
	if i := e.attributeIndex(name); i >= 0 {
		return e.attributes[i], true
	}
	return Attribute{}, false
}

// PrimaryKey returns the primary key attribute, if any.
func (e *Entity) PrimaryKey() (Attribute, bool) {
	if i := e.primaryKeyIndex(); i >= 0 {
		return e.attributes[i], true
	}
	return Attribute{}, false
}

// AddAttribute appends a new, non-key attribute.
// Returns ErrName for an invalid name, ErrUnknownType for a type outside the
// enum and ErrDuplicateName if the entity already has an attribute so named.
func (e *Entity) AddAttribute(name string, t AttributeType) error {
	if err := ValidateName(name, RoleAttribute); err != nil {
		return err
	}
	if err := checkType(t); err != nil {
		return err
	}
	if e.attributeIndex(name) >= 0 {
		return newError(ErrDuplicateName, msgAttributeInUse)
	}
	e.attributes = append(e.attributes, Attribute{Name: name, Type: t})
	return nil
}

// UpdateAttributeName renames an attribute in place. Renaming an attribute to
// its current name succeeds without change.
// Returns ErrNotFound if oldName is absent, ErrName if newName is invalid and
// ErrDuplicateName if another attribute already uses newName.
func (e *Entity) UpdateAttributeName(oldName, newName string) error {
	i := e.attributeIndex(oldName)
	if i < 0 {
		return newError(ErrNotFound, msgAttributeNotFound)
	}
	if err := ValidateName(newName, RoleAttribute); err != nil {
		return err
	}
	if newName == oldName {
		return nil
	}
	if e.attributeIndex(newName) >= 0 {
		return newError(ErrDuplicateName, msgAttributeInUse)
	}
	e.attributes[i].Name = newName
	return nil
}

// UpdateAttributeType changes an attribute's type. If the attribute was the
// primary key and the new type cannot be one, the flag is cleared, which in
// turn clears the entity's relationships.
// Returns ErrNotFound if the attribute is absent.
func (e *Entity) UpdateAttributeType(name string, t AttributeType) error {
	i := e.attributeIndex(name)
	if i < 0 {
		return newError(ErrNotFound, msgAttributeNotFound)
	}
	if err := checkType(t); err != nil {
		return err
	}

	lostKey := e.attributes[i].PrimaryKey && !t.CanBePrimaryKey()
	e.attributes[i].Type = t
	if lostKey {
		e.attributes[i].PrimaryKey = false
		e.clearRelationships()
	}
	return nil
}

// SetPrimaryKey sets or clears the primary key flag on an attribute. Clearing
// the flag on the current key clears the entity's relationships.
// Returns ErrNotFound if the attribute is absent, and ErrPrimaryKey if another
// attribute is already the key or the attribute type cannot be a key.
func (e *Entity) SetPrimaryKey(name string, isPrimaryKey bool) error {
	i := e.attributeIndex(name)
	if i < 0 {
		return newError(ErrNotFound, msgAttributeNotFound)
	}

	if !isPrimaryKey {
		if e.attributes[i].PrimaryKey {
			e.attributes[i].PrimaryKey = false
			e.clearRelationships()
		}
		return nil
	}

	if pk := e.primaryKeyIndex(); pk >= 0 && pk != i {
		return newError(ErrPrimaryKey, msgAlreadyPrimaryKey)
	}
	if !e.attributes[i].Type.CanBePrimaryKey() {
		return newError(ErrPrimaryKey, msgTypeNotPrimaryKey)
	}
	e.attributes[i].PrimaryKey = true
	return nil
}

// RemoveAttribute drops an attribute. Removing the primary key also drops
// every relationship; listeners then receive a single EntityUpdated with an
// UpdateRelationshipsCleared payload, after both changes are applied.
// Returns ErrNotFound if the attribute is absent.
func (e *Entity) RemoveAttribute(name string) error {
	i := e.attributeIndex(name)
	if i < 0 {
		return newError(ErrNotFound, msgAttributeRemove)
	}

	wasKey := e.attributes[i].PrimaryKey
	e.attributes = append(e.attributes[:i], e.attributes[i+1:]...)
	if wasKey {
		e.clearRelationships()
	}
	return nil
}

// Relationships returns a copy of the relationships in insertion order.
func (e *Entity) Relationships() []Relationship {
	out := make([]Relationship, len(e.relationships))
	copy(out, e.relationships)
	return out
}

// Relationship returns the relationship with the given name.
func (e *Entity) Relationship(name string) (Relationship, bool) {
	if i := e.relationshipIndex(name); i >= 0 {
		return e.relationships[i], true
	}
	return Relationship{}, false
}

// AddRelationship appends a relationship to target.
// Returns ErrPrimaryKey if the entity has no primary key, ErrName for an
// invalid name, ErrInvalidTarget if target is nil or not registered with the
// entity's registry, and ErrDuplicateName if the name is taken.
func (e *Entity) AddRelationship(name string, target *Entity) error {
	if e.primaryKeyIndex() < 0 {
		return newError(ErrPrimaryKey, msgPrimaryKeyRequired)
	}
	if err := ValidateName(name, RoleRelationship); err != nil {
		return err
	}
	if !e.knows(target) {
		return newError(ErrInvalidTarget, msgInvalidEntity)
	}
	if e.relationshipIndex(name) >= 0 {
		return newError(ErrDuplicateName, msgRelationshipInUse)
	}
	e.relationships = append(e.relationships, Relationship{Name: name, Target: target.name})
	return nil
}

// UpdateRelationshipName renames a relationship in place. Renaming to the
// current name succeeds without change.
// Returns ErrNotFound, ErrName or ErrDuplicateName like UpdateAttributeName.
func (e *Entity) UpdateRelationshipName(oldName, newName string) error {
	i := e.relationshipIndex(oldName)
	if i < 0 {
		return newError(ErrNotFound, msgRelationshipNotFound)
	}
	if err := ValidateName(newName, RoleRelationship); err != nil {
		return err
	}
	if newName == oldName {
		return nil
	}
	if e.relationshipIndex(newName) >= 0 {
		return newError(ErrDuplicateName, msgRelationshipInUse)
	}
	e.relationships[i].Name = newName
	return nil
}

// UpdateRelationshipEntity points an existing relationship at a new target.
// Returns ErrNotFound if the relationship is absent and ErrInvalidTarget if
// target is nil or not registered.
func (e *Entity) UpdateRelationshipEntity(name string, target *Entity) error {
	i := e.relationshipIndex(name)
	if i < 0 {
		return newError(ErrNotFound, msgRelationshipNotFound)
	}
	if !e.knows(target) {
		return newError(ErrInvalidTarget, msgInvalidEntity)
	}
	e.relationships[i].Target = target.name
	return nil
}

// RemoveRelationship drops a relationship.
// Returns ErrNotFound if it is absent.
func (e *Entity) RemoveRelationship(name string) error {
	i := e.relationshipIndex(name)
	if i < 0 {
		return newError(ErrNotFound, msgRelationshipNotFound)
	}
	e.relationships = append(e.relationships[:i], e.relationships[i+1:]...)
	return nil
}

// clearRelationships drops every relationship after the entity lost its
// primary key and tells listeners about it.
func (e *Entity) clearRelationships() {
	e.relationships = nil
	if e.manager != nil {
		e.manager.Publish(Event{
			Kind:   EventUpdated,
			Entity: e,
			Info:   UpdateInfo{Kind: UpdateRelationshipsCleared},
		})
	}
}

// dropRelationshipsTo removes relationships targeting the named entity
// without notification; the registry reports the removal itself.
func (e *Entity) dropRelationshipsTo(target string) {
	kept := e.relationships[:0]
	for _, r := range e.relationships {
		if r.Target != target {
			kept = append(kept, r)
		}
	}
	e.relationships = kept
}

// knows reports whether target is registered with the entity's registry.
func (e *Entity) knows(target *Entity) bool {
	return target != nil && e.manager != nil && e.manager.Contains(target)
}

func (e *Entity) attributeIndex(name string) int {
	for i, a := range e.attributes {
		if a.Name == name {
			return i
		}
	}
	return -1
}

func (e *Entity) primaryKeyIndex() int {
	for i, a := range e.attributes {
		if a.PrimaryKey {
			return i
		}
	}
	return -1
}

func (e *Entity) relationshipIndex(name string) int {
	for i, r := range e.relationships {
		if r.Name == name {
			return i
		}
	}
	return -1
}

// checkType rejects values outside the AttributeType enum.
func checkType(t AttributeType) error {
	if _, ok := attributeTypeNames[t]; !ok {
		return newError(ErrUnknownType, fmt.Sprintf("Unknown attribute type %s", t))
	}
	return nil
}
