// Package eventlog records registry notifications. A Log is a types.Listener
// that writes each event to a zap logger at debug level and keeps it in
// memory so callers can report what a command changed.
package eventlog

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// Record is one logged notification.
type Record struct {
	ID     string           `json:"id"`
	Kind   types.EventKind  `json:"kind"`
	Entity string           `json:"entity"`
	Update types.UpdateKind `json:"update,omitempty"`
	Old    string           `json:"old,omitempty"`
	New    string           `json:"new,omitempty"`
}

// Log implements types.Listener.
type Log struct {
	logger  *zap.SugaredLogger
	records []Record
}

// New returns a Log writing to logger. A nil logger discards output.
func New(logger *zap.SugaredLogger) *Log {
	if logger == nil {
		logger = zap.NewNop().Sugar()
	}
	return &Log{logger: logger}
}

// EntityAdded records an added event.
func (l *Log) EntityAdded(e *types.Entity) {
	l.record(Record{Kind: types.EventAdded, Entity: e.Name()})
}

// EntityUpdated records an updated event with its payload.
func (l *Log) EntityUpdated(e *types.Entity, info types.UpdateInfo) {
	l.record(Record{
		Kind:   types.EventUpdated,
		Entity: e.Name(),
		Update: info.Kind,
		Old:    info.Old,
		New:    info.New,
	})
}

// EntityRemoved records a removed event.
func (l *Log) EntityRemoved(e *types.Entity) {
	l.record(Record{Kind: types.EventRemoved, Entity: e.Name()})
}

// Records returns a copy of everything logged so far, oldest first.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.records))
	copy(out, l.records)
	return out
}

// Reset forgets the recorded events.
func (l *Log) Reset() {
	l.records = nil
}

func (l *Log) record(r Record) {
	r.ID = newEventID()
	l.records = append(l.records, r)

	fields := []any{"event_id", r.ID, "entity", r.Entity, "kind", string(r.Kind)}
	if r.Update != "" {
		fields = append(fields, "update", string(r.Update))
	}
	if r.Update == types.UpdateName {
		fields = append(fields, "old", r.Old, "new", r.New)
	}
	l.logger.Debugw("entity event", fields...)
}

// newEventID returns a UUID v7 so ids sort by creation time.
func newEventID() string {
	id, err := uuid.NewV7()
	if err != nil {
		// Fallback to UUID v4 if v7 generation fails
		return uuid.New().String()
	}
	return id.String()
}
