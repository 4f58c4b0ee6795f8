package types

// UpdateKind tags the payload of an EntityUpdated notification.
type UpdateKind string

// Update kinds.
const (
	UpdateName                 UpdateKind = "name"
	UpdateRelationshipsCleared UpdateKind = "relationships-cleared"
)

// UpdateInfo describes what changed on an updated entity. Old and New are set
// only for UpdateName.
type UpdateInfo struct {
	Kind UpdateKind
	Old  string
	New  string
}

// Listener receives registry notifications. Callbacks run synchronously on
// the goroutine performing the mutation, in registration order, after the
// mutation has been applied. A callback may read the model and may register
// or unregister listeners; such changes take effect from the next event.
type Listener interface {
	EntityAdded(e *Entity)
	EntityUpdated(e *Entity, info UpdateInfo)
	EntityRemoved(e *Entity)
}

// ListenerFuncs adapts plain functions to Listener. Nil fields are skipped.
// Register a pointer (&ListenerFuncs{...}) so Unregister can find it again.
type ListenerFuncs struct {
	Added   func(e *Entity)
	Updated func(e *Entity, info UpdateInfo)
	Removed func(e *Entity)
}

// EntityAdded calls Added if set.
func (f *ListenerFuncs) EntityAdded(e *Entity) {
	if f.Added != nil {
		f.Added(e)
	}
}

// EntityUpdated calls Updated if set.
func (f *ListenerFuncs) EntityUpdated(e *Entity, info UpdateInfo) {
	if f.Updated != nil {
		f.Updated(e, info)
	}
}

// EntityRemoved calls Removed if set.
func (f *ListenerFuncs) EntityRemoved(e *Entity) {
	if f.Removed != nil {
		f.Removed(e)
	}
}

// EventKind identifies which Listener callback an Event maps to.
type EventKind string

// Event kinds.
const (
	EventAdded   EventKind = "added"
	EventUpdated EventKind = "updated"
	EventRemoved EventKind = "removed"
)

// Event is a single registry notification.
type Event struct {
	Kind   EventKind
	Entity *Entity
	Info   UpdateInfo // set for EventUpdated only
}

// deliver invokes the callback on l that matches the event kind.
func (ev Event) deliver(l Listener) {
	switch ev.Kind {
	case EventAdded:
		l.EntityAdded(ev.Entity)
	case EventUpdated:
		l.EntityUpdated(ev.Entity, ev.Info)
	case EventRemoved:
		l.EntityRemoved(ev.Entity)
	}
}
