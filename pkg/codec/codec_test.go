package codec

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// counter counts listener callbacks.
type counter struct {
	added, updated, removed int
}

func (c *counter) EntityAdded(*types.Entity)                     { c.added++ }
func (c *counter) EntityUpdated(*types.Entity, types.UpdateInfo) { c.updated++ }
func (c *counter) EntityRemoved(*types.Entity)                   { c.removed++ }

func (c *counter) total() int { return c.added + c.updated + c.removed }

func keyed(t *testing.T, m *types.Manager, name string) *types.Entity {
	t.Helper()
	e, err := types.NewEntity(m, name)
	require.NoError(t, err)
	require.NoError(t, e.AddAttribute("id", types.TypeInteger))
	require.NoError(t, e.SetPrimaryKey("id", true))
	return e
}

func TestEncode(t *testing.T) {
	m := types.NewManager()
	trainer := keyed(t, m, "Trainer")

	pokemon, err := types.NewEntity(m, "Pokemon")
	require.NoError(t, err)
	require.NoError(t, pokemon.AddAttribute("id", types.TypeInteger))
	require.NoError(t, pokemon.SetPrimaryKey("id", true))
	assert.Equal(t, "Pokemon$id:INTEGER_PRIMARY_KEY#$", Encode(pokemon))

	require.NoError(t, pokemon.AddAttribute("name", types.TypeString))
	require.NoError(t, pokemon.AddAttribute("caught", types.TypeDate))
	require.NoError(t, pokemon.AddRelationship("owner", trainer))
	assert.Equal(t,
		"Pokemon$id:INTEGER_PRIMARY_KEY#name:STRING#caught:DATE#$owner:Trainer#",
		Encode(pokemon))

	empty, err := types.NewEntity(m, "Empty")
	require.NoError(t, err)
	assert.Equal(t, "Empty$$", Encode(empty))
}

func TestDecodeRequiresExistingTarget(t *testing.T) {
	m := types.NewManager()
	rec := &counter{}
	m.RegisterForUpdates(rec)

	const text = "Pokemon$id:INTEGER_PRIMARY_KEY#$owner:Trainer#"

	_, err := Decode(m, text)
	assert.ErrorIs(t, err, types.ErrInvalidTarget)
	assert.Zero(t, m.Len(), "failed decode registers nothing")
	assert.Zero(t, rec.total(), "failed decode notifies nobody")

	_, err = Decode(m, "Trainer$id:LONG_PRIMARY_KEY#$")
	require.NoError(t, err)

	pokemon, err := Decode(m, text)
	require.NoError(t, err)
	assert.Equal(t, []types.Relationship{{Name: "owner", Target: "Trainer"}}, pokemon.Relationships())
	assert.Equal(t, 2, rec.added)
	assert.Equal(t, text, Encode(pokemon))
}

func TestDecodeRelationshipWithoutKey(t *testing.T) {
	m := types.NewManager()
	const text = "Pokemon$$owner:Trainer#"

	_, err := Decode(m, text)
	assert.ErrorIs(t, err, types.ErrInvalidTarget, "missing target is reported first")

	keyed(t, m, "Trainer")
	_, err = Decode(m, text)
	assert.ErrorIs(t, err, types.ErrPrimaryKey)
	assert.EqualError(t, err, "Must have a primary key Attribute to add Relationships")
	assert.False(t, m.ContainsName("Pokemon"))
	assert.Equal(t, 1, m.Len())
}

func TestDecodeRoundTrip(t *testing.T) {
	src := types.NewManager()
	trainer := keyed(t, src, "Trainer")
	require.NoError(t, trainer.AddAttribute("badges", types.TypeLong))
	pokemon := keyed(t, src, "Pokemon")
	for _, a := range []struct {
		name string
		typ  types.AttributeType
	}{
		{"sprite", types.TypeBlob},
		{"shiny", types.TypeBoolean},
		{"weight", types.TypeDouble},
		{"height", types.TypeFloat},
		{"nickname", types.TypeString},
		{"misc", types.TypeUndefined},
	} {
		require.NoError(t, pokemon.AddAttribute(a.name, a.typ))
	}
	require.NoError(t, pokemon.AddRelationship("owner", trainer))
	require.NoError(t, pokemon.AddRelationship("evolvesFrom", pokemon))

	dst := types.NewManager()
	for _, text := range EncodeAll(src) {
		_, err := Decode(dst, text)
		require.NoError(t, err, text)
	}

	for _, want := range src.All() {
		got, ok := dst.Get(want.Name())
		require.True(t, ok, want.Name())
		assert.Equal(t, want.Attributes(), got.Attributes())
		assert.Equal(t, want.Relationships(), got.Relationships())
		assert.Equal(t, Encode(want), Encode(got))
	}
}

func TestDecodeSelfRelationship(t *testing.T) {
	m := types.NewManager()
	e, err := Decode(m, "Node$id:INTEGER_PRIMARY_KEY#$parent:Node#")
	require.NoError(t, err)
	assert.Equal(t, []types.Relationship{{Name: "parent", Target: "Node"}}, e.Relationships())
}

func TestDecodeTrimsAndSkipsEmptyItems(t *testing.T) {
	m := types.NewManager()
	e, err := Decode(m, "Pokemon$ id:INTEGER_PRIMARY_KEY # #name:STRING$")
	require.NoError(t, err)
	assert.Equal(t, []types.Attribute{
		{Name: "id", Type: types.TypeInteger, PrimaryKey: true},
		{Name: "name", Type: types.TypeString},
	}, e.Attributes())
}

func TestDecodeErrors(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		wantErr error
	}{
		{name: "one separator", text: "Pokemon$", wantErr: types.ErrMalformedText},
		{name: "no separator", text: "Pokemon", wantErr: types.ErrMalformedText},
		{name: "too many separators", text: "Pokemon$$$", wantErr: types.ErrMalformedText},
		{name: "missing entity name", text: "$id:INTEGER_PRIMARY_KEY#$", wantErr: types.ErrName},
		{name: "entity name with digit first", text: "1Pokemon$$", wantErr: types.ErrName},
		{name: "attribute without name", text: "Pokemon$INTEGER_PRIMARY_KEY#$", wantErr: types.ErrMalformedText},
		{name: "attribute with two colons", text: "Pokemon$id:INTEGER:LONG#$", wantErr: types.ErrMalformedText},
		{name: "empty attribute name", text: "Pokemon$:INTEGER#$", wantErr: types.ErrName},
		{name: "unknown type", text: "Pokemon$id:NUMBER#$", wantErr: types.ErrUnknownType},
		{name: "lowercase type", text: "Pokemon$id:integer#$", wantErr: types.ErrUnknownType},
		{name: "string primary key", text: "Pokemon$id:STRING_PRIMARY_KEY#$", wantErr: types.ErrPrimaryKey},
		{name: "two primary keys", text: "Pokemon$a:INTEGER_PRIMARY_KEY#b:LONG_PRIMARY_KEY#$", wantErr: types.ErrPrimaryKey},
		{name: "duplicate attribute", text: "Pokemon$id:INTEGER#id:LONG#$", wantErr: types.ErrDuplicateName},
		{name: "relationship without target", text: "Pokemon$id:INTEGER_PRIMARY_KEY#$:TRAINER#", wantErr: types.ErrInvalidTarget},
		{name: "relationship without separator", text: "Pokemon$id:INTEGER_PRIMARY_KEY#$owner#", wantErr: types.ErrMalformedText},
		{name: "relationship without primary key", text: "Pokemon$id:INTEGER#$self:Pokemon#", wantErr: types.ErrPrimaryKey},
		{name: "duplicate relationship", text: "Pokemon$id:INTEGER_PRIMARY_KEY#$a:Pokemon#a:Pokemon#", wantErr: types.ErrDuplicateName},
		{name: "duplicate entity", text: "Trainer$$", wantErr: types.ErrDuplicateName},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := types.NewManager()
			keyed(t, m, "Trainer")
			rec := &counter{}
			m.RegisterForUpdates(rec)

			e, err := Decode(m, tt.text)
			assert.Nil(t, e)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, types.IsUserError(err))
			assert.Equal(t, 1, m.Len())
			assert.Zero(t, rec.total())
		})
	}
}

func TestDecodeAllResolvesCycles(t *testing.T) {
	m := types.NewManager()
	rec := &counter{}
	m.RegisterForUpdates(rec)

	got, err := DecodeAll(m, []string{
		"Pokemon$id:INTEGER_PRIMARY_KEY#$owner:Trainer#",
		"Trainer$id:INTEGER_PRIMARY_KEY#$favorite:Pokemon#",
	})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "Pokemon", got[0].Name())
	assert.Equal(t, "Trainer", got[1].Name())
	assert.Equal(t, "Trainer", got[0].Relationships()[0].Target)
	assert.Equal(t, "Pokemon", got[1].Relationships()[0].Target)
	assert.Equal(t, 2, rec.added)
}

func TestDecodeAllIsAtomic(t *testing.T) {
	m := types.NewManager()
	rec := &counter{}
	m.RegisterForUpdates(rec)

	_, err := DecodeAll(m, []string{
		"Trainer$id:INTEGER_PRIMARY_KEY#$",
		"Pokemon$id:INTEGER_PRIMARY_KEY#$owner:Gym#",
	})
	assert.ErrorIs(t, err, types.ErrInvalidTarget)
	assert.Zero(t, m.Len())
	assert.Zero(t, rec.total())

	_, err = DecodeAll(m, []string{"Trainer$$", "Trainer$$"})
	assert.ErrorIs(t, err, types.ErrDuplicateName)
	assert.Zero(t, m.Len())
}

func TestDependencyOrder(t *testing.T) {
	m := types.NewManager()
	pokemon := keyed(t, m, "Pokemon")
	move := keyed(t, m, "Move")
	trainer := keyed(t, m, "Trainer")
	gym := keyed(t, m, "Gym")
	require.NoError(t, pokemon.AddRelationship("owner", trainer))
	require.NoError(t, pokemon.AddRelationship("knows", move))
	require.NoError(t, trainer.AddRelationship("home", gym))
	require.NoError(t, gym.AddRelationship("leader", trainer))

	got := DependencyOrder(m)
	names := make([]string, 0, len(got))
	for _, e := range got {
		names = append(names, e.Name())
	}
	assert.Equal(t, []string{"Gym", "Trainer", "Move", "Pokemon"}, names)
}

func TestEncodeAllDecodesInOrder(t *testing.T) {
	m := types.NewManager()
	pokemon := keyed(t, m, "Pokemon")
	trainer := keyed(t, m, "Trainer")
	require.NoError(t, pokemon.AddRelationship("owner", trainer))

	texts := EncodeAll(m)
	assert.Equal(t, []string{
		"Trainer$id:INTEGER_PRIMARY_KEY#$",
		"Pokemon$id:INTEGER_PRIMARY_KEY#$owner:Trainer#",
	}, texts)
}

func TestDecodeAllReportsIndex(t *testing.T) {
	m := types.NewManager()
	_, err := DecodeAll(m, []string{
		"Trainer$id:INTEGER_PRIMARY_KEY#$",
		"Pokemon$id:INTEGER_PRIMARY_KEY#$",
		"Gym$id:TEXT#$",
	})
	var be *BatchError
	require.ErrorAs(t, err, &be)
	assert.Equal(t, 2, be.Index)
	assert.ErrorIs(t, err, types.ErrUnknownType)
	assert.EqualError(t, err, `entity text 3: Unknown attribute type "TEXT"`)

	_, err = Decode(m, "Gym$id:TEXT#$")
	assert.EqualError(t, err, `Unknown attribute type "TEXT"`, "Decode returns the bare error")
}
