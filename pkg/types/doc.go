// Package types defines the entity model for supermodel: attributes,
// relationships, entities and the Manager registry that owns them, together
// with the listener protocol and the standard error types.
//
// A Manager is the single authority for entity existence and naming. Entities
// are created through NewEntity, which registers them with the Manager passed
// in; they are destroyed through Manager.Remove. All operations run
// synchronously on the calling goroutine and either apply fully or leave the
// model unchanged. A Manager is not safe for concurrent use.
package types
