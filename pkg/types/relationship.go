package types

// Relationship is a named, directed edge from its owning entity to a target
// entity. Target holds the target's registry name rather than a pointer; the
// Manager rewrites it when the target is renamed and drops the relationship
// when the target is removed.
type Relationship struct {
	Name   string
	Target string
}
