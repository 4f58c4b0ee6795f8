package eventlog

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

func TestLogRecordsEveryEvent(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := New(zap.New(core).Sugar())

	m := types.NewManager()
	m.RegisterForUpdates(l)

	trainer, err := types.NewEntity(m, "Trainer")
	require.NoError(t, err)
	require.NoError(t, trainer.AddAttribute("id", types.TypeInteger))
	require.NoError(t, trainer.SetPrimaryKey("id", true))
	require.NoError(t, trainer.Rename("Ash"))
	require.NoError(t, trainer.RemoveAttribute("id"))
	require.NoError(t, m.Remove(trainer))

	records := l.Records()
	require.Len(t, records, 4)

	assert.Equal(t, types.EventAdded, records[0].Kind)
	assert.Equal(t, "Trainer", records[0].Entity)

	assert.Equal(t, types.EventUpdated, records[1].Kind)
	assert.Equal(t, types.UpdateName, records[1].Update)
	assert.Equal(t, "Trainer", records[1].Old)
	assert.Equal(t, "Ash", records[1].New)

	assert.Equal(t, types.EventUpdated, records[2].Kind)
	assert.Equal(t, types.UpdateRelationshipsCleared, records[2].Update)

	assert.Equal(t, types.EventRemoved, records[3].Kind)
	assert.Equal(t, "Ash", records[3].Entity)

	seen := make(map[string]bool)
	for _, r := range records {
		id, err := uuid.Parse(r.ID)
		require.NoError(t, err)
		assert.Equal(t, uuid.Version(7), id.Version())
		assert.False(t, seen[r.ID], "event ids are unique")
		seen[r.ID] = true
	}

	entries := logs.All()
	require.Len(t, entries, 4)
	for _, entry := range entries {
		assert.Equal(t, zapcore.DebugLevel, entry.Level)
		assert.Equal(t, "entity event", entry.Message)
	}
	rename := entries[1].ContextMap()
	assert.Equal(t, "Trainer", rename["entity"])
	assert.Equal(t, "updated", rename["kind"])
	assert.Equal(t, "name", rename["update"])
	assert.Equal(t, "Trainer", rename["old"])
	assert.Equal(t, "Ash", rename["new"])
	assert.Equal(t, records[1].ID, rename["event_id"])

	added := entries[0].ContextMap()
	assert.NotContains(t, added, "old")
	assert.NotContains(t, added, "update")
}

func TestLogReset(t *testing.T) {
	l := New(nil)
	m := types.NewManager()
	m.RegisterForUpdates(l)

	_, err := types.NewEntity(m, "Pokemon")
	require.NoError(t, err)
	require.Len(t, l.Records(), 1)

	l.Reset()
	assert.Empty(t, l.Records())

	_, err = types.NewEntity(m, "Trainer")
	require.NoError(t, err)
	assert.Len(t, l.Records(), 1)
}

func TestLogRecordsAreCopies(t *testing.T) {
	l := New(nil)
	l.EntityAdded(mustDetached(t))
	got := l.Records()
	got[0].Entity = "changed"
	assert.Equal(t, "Pokemon", l.Records()[0].Entity)
}

func mustDetached(t *testing.T) *types.Entity {
	t.Helper()
	m := types.NewManager()
	e, err := types.NewEntity(m, "Pokemon")
	require.NoError(t, err)
	m.Clear()
	return e
}
