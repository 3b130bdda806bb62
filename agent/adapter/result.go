package adapter

// Entity is an external-system record mirrored as a flat key/value mapping.
// The "id" key is the only stable reference for follow-up operations; the
// natural key (name, email) is what existence checks use.
type Entity map[string]any

func (e Entity) ID() string {
	id, _ := e["id"].(string)
	return id
}

func (e Entity) clone() Entity {
	out := make(Entity, len(e))
	for k, v := range e {
		out[k] = v
	}
	return out
}

// SearchResult is the outcome of an adapter read. A miss is a valid
// negative result, not an error.
type SearchResult struct {
	Found  bool
	Entity Entity
}

// WriteResult is the outcome of an adapter write. Reason is set only when
// Created is false.
type WriteResult struct {
	Created bool
	Entity  Entity
	Reason  string
}
