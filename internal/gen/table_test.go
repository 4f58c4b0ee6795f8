package gen

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// pokedex builds Pokemon(id, name, weight, misc) with owner -> Trainer and
// Trainer(id LONG, badges).
func pokedex(t *testing.T) (*types.Manager, *types.Entity, *types.Entity) {
	t.Helper()
	m := types.NewManager()

	pokemon, err := types.NewEntity(m, "Pokemon")
	require.NoError(t, err)
	require.NoError(t, pokemon.AddAttribute("id", types.TypeInteger))
	require.NoError(t, pokemon.SetPrimaryKey("id", true))
	require.NoError(t, pokemon.AddAttribute("name", types.TypeString))
	require.NoError(t, pokemon.AddAttribute("weight", types.TypeDouble))
	require.NoError(t, pokemon.AddAttribute("misc", types.TypeUndefined))

	trainer, err := types.NewEntity(m, "Trainer")
	require.NoError(t, err)
	require.NoError(t, trainer.AddAttribute("id", types.TypeLong))
	require.NoError(t, trainer.SetPrimaryKey("id", true))
	require.NoError(t, trainer.AddAttribute("badges", types.TypeInteger))

	require.NoError(t, pokemon.AddRelationship("owner", trainer))
	return m, pokemon, trainer
}

func TestSQLType(t *testing.T) {
	tests := []struct {
		typ  types.AttributeType
		want string
	}{
		{types.TypeBlob, "BLOB"},
		{types.TypeBoolean, "INTEGER"},
		{types.TypeDate, "TEXT"},
		{types.TypeDouble, "REAL"},
		{types.TypeFloat, "REAL"},
		{types.TypeInteger, "INTEGER"},
		{types.TypeLong, "INTEGER"},
		{types.TypeString, "TEXT"},
		{types.TypeUndefined, ""},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			assert.Equal(t, tt.want, SQLType(tt.typ))
		})
	}
}

func TestForeignKeyColumn(t *testing.T) {
	m := types.NewManager()
	pokemon, err := types.NewEntity(m, "Pokemon")
	require.NoError(t, err)

	_, err = ForeignKeyColumn(pokemon)
	assert.ErrorIs(t, err, types.ErrPrimaryKey)

	require.NoError(t, pokemon.AddAttribute("id", types.TypeInteger))
	require.NoError(t, pokemon.SetPrimaryKey("id", true))
	col, err := ForeignKeyColumn(pokemon)
	require.NoError(t, err)
	assert.Equal(t, "pokemonId", col)

	require.NoError(t, pokemon.UpdateAttributeName("id", "dexNumber"))
	col, err = ForeignKeyColumn(pokemon)
	require.NoError(t, err)
	assert.Equal(t, "pokemonDexNumber", col)
}

func TestCreateTable(t *testing.T) {
	m, pokemon, trainer := pokedex(t)

	stmt, err := CreateTable(m, pokemon)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "Pokemon" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "name" TEXT,
    "weight" REAL,
    "misc"
);`, stmt)

	stmt, err = CreateTable(m, trainer)
	require.NoError(t, err)
	assert.Equal(t, `CREATE TABLE "Trainer" (
    "id" INTEGER PRIMARY KEY AUTOINCREMENT,
    "badges" INTEGER,
    "pokemonId" INTEGER,
    FOREIGN KEY ("pokemonId") REFERENCES "Pokemon"("id")
);`, stmt)
}

func TestCreateTableOneColumnPerOwner(t *testing.T) {
	m, pokemon, trainer := pokedex(t)
	require.NoError(t, pokemon.AddRelationship("originalOwner", trainer))

	stmt, err := CreateTable(m, trainer)
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(stmt, `"pokemonId" INTEGER`))
	assert.Equal(t, 1, strings.Count(stmt, "FOREIGN KEY"))
}

func TestCreateTableColumnClash(t *testing.T) {
	m, _, trainer := pokedex(t)
	require.NoError(t, trainer.AddAttribute("pokemonId", types.TypeInteger))

	_, err := CreateTable(m, trainer)
	assert.ErrorIs(t, err, types.ErrDuplicateName)
}

func TestCreateTableNoColumns(t *testing.T) {
	m := types.NewManager()
	empty, err := types.NewEntity(m, "Empty")
	require.NoError(t, err)

	_, err = CreateTable(m, empty)
	assert.ErrorIs(t, err, ErrNoColumns)
}

func TestTableStatements(t *testing.T) {
	m, _, _ := pokedex(t)

	stmts, err := TableStatements(m)
	require.NoError(t, err)
	require.Len(t, stmts, 4)
	assert.Equal(t, `DROP TABLE IF EXISTS "Trainer";`, stmts[0])
	assert.Equal(t, `DROP TABLE IF EXISTS "Pokemon";`, stmts[1])
	assert.Contains(t, stmts[2], `CREATE TABLE "Pokemon"`)
	assert.Contains(t, stmts[3], `CREATE TABLE "Trainer"`)
}

func TestTableStatementsEmptyModel(t *testing.T) {
	stmts, err := TableStatements(types.NewManager())
	require.NoError(t, err)
	assert.Empty(t, stmts)
}
