// Package topology holds the static dependency structure between named
// modules and answers structural questions about it, such as which modules
// sit on a dependency cycle.
//
// The store is write-once-read-many: it is populated from module
// declarations, then queried. It carries no activation state; whether a
// module has been loaded or set up is tracked by the registry.
//
// Edges follow the "from must come before to" convention:
//
//	s.AddDependency("db", "api") // api depends on db
package topology

import (
	"fmt"
)

// Store is an in-memory directed graph keyed by module name. Node order is
// insertion order, which keeps every query deterministic.
type Store struct {
	order []string
	index map[string]int
	deps  map[string][]string // Key: node, Value: nodes it depends on, in insertion order.
}

// New creates a new, empty topology store.
func New() *Store {
	return &Store{
		index: make(map[string]int),
		deps:  make(map[string][]string),
	}
}

// AddNode adds a node. Adding the same node twice is a no-op.
func (s *Store) AddNode(name string) {
	if _, exists := s.index[name]; exists {
		return
	}
	s.index[name] = len(s.order)
	s.order = append(s.order, name)
}

// AddDependency records that 'to' depends on 'from'. Both nodes must exist.
func (s *Store) AddDependency(from, to string) error {
	if _, exists := s.index[from]; !exists {
		return fmt.Errorf("dependency source node '%s' not found in topology", from)
	}
	if _, exists := s.index[to]; !exists {
		return fmt.Errorf("dependency target node '%s' not found in topology", to)
	}

	for _, existing := range s.deps[to] {
		if existing == from {
			return nil
		}
	}
	s.deps[to] = append(s.deps[to], from)
	return nil
}

// HasNode reports whether the node exists.
func (s *Store) HasNode(name string) bool {
	_, ok := s.index[name]
	return ok
}
