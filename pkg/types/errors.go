package types

import (
	"errors"
	"fmt"
)

// Error kinds. Every model failure wraps exactly one of these, so callers
// match with errors.Is(err, ErrPrimaryKey) and show err.Error() to users.
var (
	ErrName          = errors.New("invalid name")
	ErrDuplicateName = errors.New("duplicate name")
	ErrNotFound      = errors.New("not found")
	ErrInvalidTarget = errors.New("invalid relationship target")
	ErrPrimaryKey    = errors.New("invalid primary key state")
	ErrMalformedText = errors.New("malformed entity text")
	ErrUnknownType   = errors.New("unknown attribute type")
)

// Error is a model failure carrying a user-facing message and its kind.
type Error struct {
	Kind    error
	Message string
}

// Error returns the user-facing message.
func (e *Error) Error() string {
	return e.Message
}

// Is reports whether target is the kind of this error.
func (e *Error) Is(target error) bool {
	return e.Kind == target
}

// Unwrap returns the error kind.
func (e *Error) Unwrap() error {
	return e.Kind
}

func newError(kind error, msg string) error {
	return &Error{Kind: kind, Message: msg}
}

// Errorf returns an *Error of the given kind with a formatted message.
func Errorf(kind error, format string, args ...any) error {
	return newError(kind, fmt.Sprintf(format, args...))
}

// userErrorKinds lists the kinds that IsUserError accepts.
var userErrorKinds = []error{
	ErrName,
	ErrDuplicateName,
	ErrNotFound,
	ErrInvalidTarget,
	ErrPrimaryKey,
	ErrMalformedText,
	ErrUnknownType,
}

// IsUserError reports whether err is one of the model error kinds, that is a
// rejected edit rather than an environment failure.
func IsUserError(err error) bool {
	for _, kind := range userErrorKinds {
		if errors.Is(err, kind) {
			return true
		}
	}
	return false
}

// Messages shared between the entity and manager code paths.
const (
	msgEntityRegistered     = "Entity already registered"
	msgEntityNotRegistered  = "Entity not registered"
	msgEntityElsewhere      = "Entity registered with another Manager"
	msgAttributeInUse       = "Attribute name in use"
	msgAttributeNotFound    = "Requested Attribute not found"
	msgAttributeRemove      = "Attribute not found"
	msgRelationshipInUse    = "Relationship name in use"
	msgRelationshipNotFound = "Relationship not found"
	msgInvalidEntity        = "Invalid Entity provided"
	msgAlreadyPrimaryKey    = "Already has a primary key"
	msgTypeNotPrimaryKey    = "Specified Attribute Type cannot be Primary Key"
	msgPrimaryKeyRequired   = "Must have a primary key Attribute to add Relationships"
)
