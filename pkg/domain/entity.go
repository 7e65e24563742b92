package domain

import "fmt"

// Entity carries an identifier that is fixed once assigned.
type Entity[ID fmt.Stringer] struct {
	id ID
}

// NewEntity binds an identifier to a new entity.
func NewEntity[ID fmt.Stringer](id ID) Entity[ID] {
	return Entity[ID]{id: id}
}

func (e Entity[ID]) ID() ID {
	return e.id
}

// Flatten merges the identifier and props into one map keyed by "id" plus
// each property name. props is not modified. A prop named "id" is overwritten.
func (e Entity[ID]) Flatten(props map[string]any) map[string]any {
	return Flatten(e.id.String(), props)
}

// Flatten is the canonical flat representation of an entity.
func Flatten(id string, props map[string]any) map[string]any {
	out := make(map[string]any, len(props)+1)
	for k, v := range props {
		out[k] = v
	}
	out["id"] = id
	return out
}
