package store

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

func buildModel(t *testing.T) *types.Manager {
	t.Helper()
	m := types.NewManager()

	pokemon, err := types.NewEntity(m, "Pokemon")
	require.NoError(t, err)
	require.NoError(t, pokemon.AddAttribute("id", types.TypeInteger))
	require.NoError(t, pokemon.SetPrimaryKey("id", true))
	require.NoError(t, pokemon.AddAttribute("name", types.TypeString))
	require.NoError(t, pokemon.AddAttribute("weight", types.TypeDouble))

	trainer, err := types.NewEntity(m, "Trainer")
	require.NoError(t, err)
	require.NoError(t, trainer.AddAttribute("id", types.TypeLong))
	require.NoError(t, trainer.SetPrimaryKey("id", true))

	require.NoError(t, pokemon.AddRelationship("owner", trainer))
	return m
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "model.sm")
	src := buildModel(t)

	require.NoError(t, Save(path, src))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t,
		"Trainer$id:LONG_PRIMARY_KEY#$\n"+
			"Pokemon$id:INTEGER_PRIMARY_KEY#name:STRING#weight:DOUBLE#$owner:Trainer#\n",
		string(data))

	dst := types.NewManager()
	loaded, err := Load(path, dst)
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	for _, want := range src.All() {
		got, ok := dst.Get(want.Name())
		require.True(t, ok)
		assert.Equal(t, want.Attributes(), got.Attributes(), "attribute order survives")
		assert.Equal(t, want.Relationships(), got.Relationships())
	}
}

func TestLoadMissingFile(t *testing.T) {
	m := types.NewManager()
	loaded, err := Load(filepath.Join(t.TempDir(), "absent.sm"), m)
	require.NoError(t, err)
	assert.Empty(t, loaded)
	assert.Zero(t, m.Len())
}

func TestLoadSkipsBlankLines(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.sm")
	content := "\nTrainer$id:INTEGER_PRIMARY_KEY#$\n\n   \nPokemon$$\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m := types.NewManager()
	loaded, err := Load(path, m)
	require.NoError(t, err)
	assert.Len(t, loaded, 2)
}

func TestLoadReportsLine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "model.sm")
	content := "Trainer$id:INTEGER_PRIMARY_KEY#$\n\nPokemon$id:INTEGER#$owner:Trainer#\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	m := types.NewManager()
	_, err := Load(path, m)
	require.Error(t, err)
	assert.ErrorIs(t, err, types.ErrPrimaryKey)
	assert.True(t, types.IsUserError(err))
	assert.True(t, strings.HasSuffix(err.Error(), ":3: Must have a primary key Attribute to add Relationships"), err.Error())
	assert.Zero(t, m.Len(), "failed load leaves the registry empty")
}

func TestSaveReplacesAtomically(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "model.sm")
	require.NoError(t, os.WriteFile(path, []byte("stale\n"), 0o644))

	require.NoError(t, Save(path, types.NewManager()))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Empty(t, data)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "no temp files left behind")
	assert.Equal(t, "model.sm", entries[0].Name())
}

func TestReadIntoPopulatedModel(t *testing.T) {
	m := buildModel(t)

	loaded, err := Read(strings.NewReader("Badge$id:INTEGER_PRIMARY_KEY#$holder:Trainer#\n"), "stdin", m)
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, 3, m.Len())

	_, err = Read(strings.NewReader("Badge$$\n"), "stdin", m)
	assert.ErrorIs(t, err, types.ErrDuplicateName)
	assert.True(t, strings.HasPrefix(err.Error(), "stdin:1: "), err.Error())
}
