// Package ecs provides the component store the battle systems share.
//
// Entities are opaque ids and each component type lives in its own typed
// Store. A World ties the stores together with creation-ordered iteration.
// Systems receive the World explicitly; there is no package-level state.
package ecs

// Entity is an opaque entity identifier. Zero is never issued.
type Entity uint32

// Store is a container for one component type T.
// Components are held by pointer so systems mutate them in place.
type Store[T any] struct {
	components map[Entity]*T
	entities   []Entity // insertion order
}

// NewStore creates a new component store for type T.
func NewStore[T any]() *Store[T] {
	return &Store[T]{
		components: make(map[Entity]*T),
		entities:   make([]Entity, 0, 64),
	}
}

// Set inserts or replaces the component for e and returns a pointer to it.
func (s *Store[T]) Set(e Entity, val T) *T {
	if c, exists := s.components[e]; exists {
		*c = val
		return c
	}
	c := &val
	s.components[e] = c
	s.entities = append(s.entities, e)
	return c
}

// Get returns the component for e, or nil if e has none.
func (s *Store[T]) Get(e Entity) *T {
	return s.components[e]
}

// Has reports whether e has this component.
func (s *Store[T]) Has(e Entity) bool {
	_, ok := s.components[e]
	return ok
}

// Remove deletes the component from e. Removing a missing component is a no-op.
func (s *Store[T]) Remove(e Entity) {
	if _, exists := s.components[e]; !exists {
		return
	}
	delete(s.components, e)
	for i, other := range s.entities {
		if other == e {
			s.entities = append(s.entities[:i], s.entities[i+1:]...)
			break
		}
	}
}

// Len returns the number of entities with this component.
func (s *Store[T]) Len() int {
	return len(s.entities)
}

// Entities returns a copy of the entities holding this component, in insertion order.
func (s *Store[T]) Entities() []Entity {
	out := make([]Entity, len(s.entities))
	copy(out, s.entities)
	return out
}

// Clear removes all components.
func (s *Store[T]) Clear() {
	s.components = make(map[Entity]*T)
	s.entities = s.entities[:0]
}

// componentSet is the type-erased view World uses for deletion and queries.
type componentSet interface {
	Has(e Entity) bool
	Remove(e Entity)
	Clear()
}
