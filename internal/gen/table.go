package gen

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-openapi/inflect"

	"github.com/mesh-intelligence/supermodel/pkg/codec"
	"github.com/mesh-intelligence/supermodel/pkg/types"
)

// ErrNoColumns is returned for an entity with no attributes and no incoming
// relationships, which SQLite cannot represent as a table.
var ErrNoColumns = errors.New("table has no columns")

// primaryKeyColumnType is the column definition of every primary key.
const primaryKeyColumnType = "INTEGER PRIMARY KEY AUTOINCREMENT"

// SQLType returns the SQLite column type of an attribute type. UNDEFINED maps
// to the empty string, a column without declared affinity.
func SQLType(t types.AttributeType) string {
	switch t {
	case types.TypeInteger, types.TypeLong, types.TypeBoolean:
		return "INTEGER"
	case types.TypeDouble, types.TypeFloat:
		return "REAL"
	case types.TypeString, types.TypeDate:
		return "TEXT"
	case types.TypeBlob:
		return "BLOB"
	default:
		return ""
	}
}

// ForeignKeyColumn returns the name of the column that references owner's
// primary key: the owner name lower-cased followed by the key name in
// PascalCase, so Pokemon with key id yields pokemonId.
func ForeignKeyColumn(owner *types.Entity) (string, error) {
	pk, ok := owner.PrimaryKey()
	if !ok {
		return "", types.Errorf(types.ErrPrimaryKey, "%s has no primary key to reference", owner.Name())
	}
	return strings.ToLower(owner.Name()) + inflect.Camelize(pk.Name), nil
}

// foreignKey is a column added to a dependent table.
type foreignKey struct {
	column  string
	owner   string
	ownerPK string
}

// foreignKeys returns the columns table gains: one per entity holding a
// relationship that targets it, in registry order.
func foreignKeys(m *types.Manager, table *types.Entity) ([]foreignKey, error) {
	var fks []foreignKey
	for _, owner := range m.All() {
		for _, r := range owner.Relationships() {
			if r.Target != table.Name() {
				continue
			}
			col, err := ForeignKeyColumn(owner)
			if err != nil {
				return nil, err
			}
			pk, _ := owner.PrimaryKey()
			fks = append(fks, foreignKey{column: col, owner: owner.Name(), ownerPK: pk.Name})
			break
		}
	}
	return fks, nil
}

// CreateTable returns the CREATE TABLE statement for e. Foreign key columns
// come from relationships in m that target e, including e's own.
func CreateTable(m *types.Manager, e *types.Entity) (string, error) {
	fks, err := foreignKeys(m, e)
	if err != nil {
		return "", err
	}

	var defs []string
	columns := make(map[string]bool)
	for _, a := range e.Attributes() {
		columns[strings.ToLower(a.Name)] = true
		switch {
		case a.PrimaryKey:
			defs = append(defs, quote(a.Name)+" "+primaryKeyColumnType)
		case SQLType(a.Type) == "":
			defs = append(defs, quote(a.Name))
		default:
			defs = append(defs, quote(a.Name)+" "+SQLType(a.Type))
		}
	}
	for _, fk := range fks {
		if columns[strings.ToLower(fk.column)] {
			return "", types.Errorf(types.ErrDuplicateName,
				"Foreign key column %s for %s clashes with a column of %s", fk.column, fk.owner, e.Name())
		}
		columns[strings.ToLower(fk.column)] = true
		defs = append(defs, quote(fk.column)+" INTEGER")
	}
	for _, fk := range fks {
		defs = append(defs, fmt.Sprintf("FOREIGN KEY (%s) REFERENCES %s(%s)",
			quote(fk.column), quote(fk.owner), quote(fk.ownerPK)))
	}

	if len(defs) == 0 {
		return "", fmt.Errorf("table %s: %w", e.Name(), ErrNoColumns)
	}

	var b strings.Builder
	b.WriteString("CREATE TABLE ")
	b.WriteString(quote(e.Name()))
	b.WriteString(" (")
	for i, d := range defs {
		if i > 0 {
			b.WriteString(",")
		}
		b.WriteString("\n    ")
		b.WriteString(d)
	}
	b.WriteString("\n);")
	return b.String(), nil
}

// DropTable returns the DROP TABLE IF EXISTS statement for e.
func DropTable(e *types.Entity) string {
	return "DROP TABLE IF EXISTS " + quote(e.Name()) + ";"
}

// TableStatements returns the DDL that rebuilds the whole model: every DROP,
// referencing tables first, then every CREATE, referenced tables first.
//
// A relationship owner.r -> target puts the foreign key in target's table, so
// target references owner and the SQL order is the reverse of
// codec.DependencyOrder.
func TableStatements(m *types.Manager) ([]string, error) {
	order := codec.DependencyOrder(m)
	stmts := make([]string, 0, 2*len(order))
	for _, e := range order {
		stmts = append(stmts, DropTable(e))
	}
	for i := len(order) - 1; i >= 0; i-- {
		stmt, err := CreateTable(m, order[i])
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

// quote returns name as an SQLite identifier. Names are word characters only,
// so no escaping is needed.
func quote(name string) string {
	return `"` + name + `"`
}
