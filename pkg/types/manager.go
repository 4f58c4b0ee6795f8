package types

import "reflect"

// Manager is the registry of live entities. It guarantees entity name
// uniqueness, mediates renames and removals, and fans out change
// notifications to registered listeners.
//
// The zero value is not usable; create one with NewManager. A Manager is
// owned by a single goroutine; callers sharing one must serialize access.
type Manager struct {
	entities  []*Entity
	byName    map[string]*Entity
	listeners []Listener
}

// NewManager returns an empty registry with no listeners.
func NewManager() *Manager {
	return &Manager{
		byName: make(map[string]*Entity),
	}
}

// Register adds e to the registry and notifies listeners with EntityAdded.
// Returns an ErrDuplicateName error if an entity with the same name is
// already registered, and ErrInvalidTarget if e belongs to another Manager.
// NewEntity calls Register; callers rarely need to.
func (m *Manager) Register(e *Entity) error {
	if e == nil {
		return newError(ErrInvalidTarget, msgInvalidEntity)
	}
	if e.manager != nil && e.manager != m {
		return newError(ErrInvalidTarget, msgEntityElsewhere)
	}
	if err := ValidateName(e.name, RoleEntity); err != nil {
		return err
	}
	if _, ok := m.byName[e.name]; ok {
		return newError(ErrDuplicateName, msgEntityRegistered)
	}

	e.manager = m
	m.entities = append(m.entities, e)
	m.byName[e.name] = e

	m.Publish(Event{Kind: EventAdded, Entity: e})
	return nil
}

// UpdateName renames a registered entity. Relationships on any entity that
// target the old name are rewritten to the new one, then listeners receive
// EntityUpdated with an UpdateName payload. Renaming to the current name is a
// no-op.
//
// Returns ErrNotFound if e is not registered here, ErrName if newName is
// invalid and ErrDuplicateName if another entity already uses it.
func (m *Manager) UpdateName(e *Entity, newName string) error {
	if !m.owns(e) {
		return newError(ErrNotFound, msgEntityNotRegistered)
	}
	if err := ValidateName(newName, RoleEntity); err != nil {
		return err
	}
	oldName := e.name
	if newName == oldName {
		return nil
	}
	if _, ok := m.byName[newName]; ok {
		return newError(ErrDuplicateName, msgEntityRegistered)
	}

	delete(m.byName, oldName)
	m.byName[newName] = e
	e.name = newName
	for _, other := range m.entities {
		for i := range other.relationships {
			if other.relationships[i].Target == oldName {
				other.relationships[i].Target = newName
			}
		}
	}

	m.Publish(Event{
		Kind:   EventUpdated,
		Entity: e,
		Info:   UpdateInfo{Kind: UpdateName, Old: oldName, New: newName},
	})
	return nil
}

// Remove unregisters e. Every relationship on another entity that targets e
// is dropped first; only a single EntityRemoved notification is sent. The
// removed entity keeps its attributes and relationships but is detached:
// operations that need the registry fail on it afterwards.
//
// Returns ErrNotFound if e is not registered here.
func (m *Manager) Remove(e *Entity) error {
	if !m.owns(e) {
		return newError(ErrNotFound, msgEntityNotRegistered)
	}

	for _, other := range m.entities {
		if other == e {
			continue
		}
		other.dropRelationshipsTo(e.name)
	}

	for i, stored := range m.entities {
		if stored == e {
			m.entities = append(m.entities[:i], m.entities[i+1:]...)
			break
		}
	}
	delete(m.byName, e.name)
	e.manager = nil

	m.Publish(Event{Kind: EventRemoved, Entity: e})
	return nil
}

// Contains reports whether an entity with e's name is registered.
// Entities are equal by name, so this mirrors Entity.Equal.
func (m *Manager) Contains(e *Entity) bool {
	if e == nil {
		return false
	}
	return m.ContainsName(e.name)
}

// ContainsName reports whether an entity with the given name is registered.
func (m *Manager) ContainsName(name string) bool {
	_, ok := m.byName[name]
	return ok
}

// Get returns the entity registered under name.
func (m *Manager) Get(name string) (*Entity, bool) {
	e, ok := m.byName[name]
	return e, ok
}

// All returns the registered entities in insertion order. The slice is a
// copy; modifying it does not affect the registry.
func (m *Manager) All() []*Entity {
	out := make([]*Entity, len(m.entities))
	copy(out, m.entities)
	return out
}

// Len returns the number of registered entities.
func (m *Manager) Len() int {
	return len(m.entities)
}

// Clear removes every entity without notifying listeners. Listeners stay
// registered.
func (m *Manager) Clear() {
	for _, e := range m.entities {
		e.manager = nil
	}
	m.entities = nil
	m.byName = make(map[string]*Entity)
}

// RegisterForUpdates appends l to the listener list. Registering the same
// listener twice has no effect.
func (m *Manager) RegisterForUpdates(l Listener) {
	if l == nil || m.listening(l) >= 0 {
		return
	}
	m.listeners = append(m.listeners, l)
}

// Unregister removes l from the listener list. Unknown listeners are ignored.
func (m *Manager) Unregister(l Listener) {
	if i := m.listening(l); i >= 0 {
		m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
	}
}

// Listeners returns a copy of the listener list in registration order.
func (m *Manager) Listeners() []Listener {
	out := make([]Listener, len(m.listeners))
	copy(out, m.listeners)
	return out
}

// Publish delivers ev to every listener registered when Publish is called,
// in registration order, and returns after the last callback returns.
func (m *Manager) Publish(ev Event) {
	snapshot := m.Listeners()
	for _, l := range snapshot {
		ev.deliver(l)
	}
}

// owns reports whether e is the very entity registered under its name.
func (m *Manager) owns(e *Entity) bool {
	if e == nil {
		return false
	}
	stored, ok := m.byName[e.name]
	return ok && stored == e
}

// listening returns the index of l in the listener list or -1.
func (m *Manager) listening(l Listener) int {
	for i, existing := range m.listeners {
		if sameListener(existing, l) {
			return i
		}
	}
	return -1
}

// sameListener compares listeners by identity. Listeners whose dynamic type
// is not comparable never match, which keeps == from panicking.
func sameListener(a, b Listener) bool {
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || ta == nil || !ta.Comparable() {
		return false
	}
	return a == b
}
