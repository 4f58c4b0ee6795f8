package types

import "fmt"

// AttributeType is the storage type of an attribute.
type AttributeType int

// Attribute types, in the order UIs should list them.
const (
	TypeBlob AttributeType = iota
	TypeBoolean
	TypeDate
	TypeDouble
	TypeFloat
	TypeInteger
	TypeLong
	TypeString
	TypeUndefined
)

// attributeTypeNames maps each type to its serialized token.
var attributeTypeNames = map[AttributeType]string{
	TypeBlob:      "BLOB",
	TypeBoolean:   "BOOLEAN",
	TypeDate:      "DATE",
	TypeDouble:    "DOUBLE",
	TypeFloat:     "FLOAT",
	TypeInteger:   "INTEGER",
	TypeLong:      "LONG",
	TypeString:    "STRING",
	TypeUndefined: "UNDEFINED",
}

// AttributeTypes returns every attribute type in declaration order.
func AttributeTypes() []AttributeType {
	return []AttributeType{
		TypeBlob,
		TypeBoolean,
		TypeDate,
		TypeDouble,
		TypeFloat,
		TypeInteger,
		TypeLong,
		TypeString,
		TypeUndefined,
	}
}

// String returns the upper-case token used in entity text, e.g. "INTEGER".
func (t AttributeType) String() string {
	if s, ok := attributeTypeNames[t]; ok {
		return s
	}
	return fmt.Sprintf("AttributeType(%d)", int(t))
}

// CanBePrimaryKey reports whether attributes of this type may be flagged as
// primary key. Only INTEGER and LONG qualify.
func (t AttributeType) CanBePrimaryKey() bool {
	return t == TypeInteger || t == TypeLong
}

// ParseAttributeType returns the type for an exact, case-sensitive token.
// Returns an ErrUnknownType error for anything else.
func ParseAttributeType(token string) (AttributeType, error) {
	for t, s := range attributeTypeNames {
		if s == token {
			return t, nil
		}
	}
	return TypeUndefined, newError(ErrUnknownType, fmt.Sprintf("Unknown attribute type %q", token))
}

// Attribute is a typed field of an entity. Values handed out by Entity are
// copies; change them through the owning entity.
type Attribute struct {
	Name       string
	Type       AttributeType
	PrimaryKey bool
}
