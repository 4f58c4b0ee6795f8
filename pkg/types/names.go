package types

import "fmt"

// Name roles used in validation messages.
const (
	RoleEntity       = "Entity"
	RoleAttribute    = "Attribute"
	RoleRelationship = "Relationship"
)

// ValidateName checks an identifier against the naming rules shared by
// entities, attributes and relationships. Rules are checked in order and the
// first failure is returned as an ErrName error:
//
//	empty name                        "<role> name not specified"
//	character outside [A-Za-z0-9_]    "Invalid characters in <role> name"
//	leading digit                     "<role> name can't start with a number"
func ValidateName(name, role string) error {
	if name == "" {
		return newError(ErrName, fmt.Sprintf("%s name not specified", role))
	}
	for i := 0; i < len(name); i++ {
		if !isWordByte(name[i]) {
			return newError(ErrName, fmt.Sprintf("Invalid characters in %s name", role))
		}
	}
	if name[0] >= '0' && name[0] <= '9' {
		return newError(ErrName, fmt.Sprintf("%s name can't start with a number", role))
	}
	return nil
}

// isWordByte reports whether b is an ASCII letter, digit or underscore.
// Multi-byte UTF-8 sequences never match, so non-ASCII names are rejected.
func isWordByte(b byte) bool {
	switch {
	case b >= 'a' && b <= 'z', b >= 'A' && b <= 'Z', b >= '0' && b <= '9', b == '_':
		return true
	}
	return false
}
