package codec

import "github.com/mesh-intelligence/supermodel/pkg/types"

// DependencyOrder returns the entities of m so that every relationship target
// comes before the entity declaring it. Ties keep registry insertion order.
// Entities on a cycle cannot all satisfy that; the first one reached keeps
// its place and the cycle is left for DecodeAll's second pass to resolve.
func DependencyOrder(m *types.Manager) []*types.Entity {
	const (
		unvisited = iota
		visiting
		done
	)

	all := m.All()
	state := make(map[string]int, len(all))
	out := make([]*types.Entity, 0, len(all))

	var visit func(e *types.Entity)
	visit = func(e *types.Entity) {
		if state[e.Name()] != unvisited {
			return
		}
		state[e.Name()] = visiting
		for _, r := range e.Relationships() {
			if target, ok := m.Get(r.Target); ok {
				visit(target)
			}
		}
		state[e.Name()] = done
		out = append(out, e)
	}

	for _, e := range all {
		visit(e)
	}
	return out
}
