package topology

import "sort"

// Cycles returns every group of nodes that depend on each other, directly or
// transitively. A node that depends on itself forms a group of one. Members
// of a group, and the groups themselves, are in insertion order.
func (s *Store) Cycles() [][]string {
	t := &tarjan{
		store:   s,
		indices: make(map[string]int),
		lowlink: make(map[string]int),
		onStack: make(map[string]bool),
	}
	for _, name := range s.order {
		if _, visited := t.indices[name]; !visited {
			t.connect(name)
		}
	}

	var cycles [][]string
	for _, comp := range t.components {
		if len(comp) == 1 && !s.dependsOnSelf(comp[0]) {
			continue
		}
		sort.Slice(comp, func(i, j int) bool { return s.index[comp[i]] < s.index[comp[j]] })
		cycles = append(cycles, comp)
	}
	sort.Slice(cycles, func(i, j int) bool { return s.index[cycles[i][0]] < s.index[cycles[j][0]] })
	return cycles
}

func (s *Store) dependsOnSelf(name string) bool {
	for _, dep := range s.deps[name] {
		if dep == name {
			return true
		}
	}
	return false
}

// tarjan holds the bookkeeping for Tarjan's strongly connected components.
type tarjan struct {
	store      *Store
	next       int
	indices    map[string]int
	lowlink    map[string]int
	onStack    map[string]bool
	stack      []string
	components [][]string
}

func (t *tarjan) connect(v string) {
	t.indices[v] = t.next
	t.lowlink[v] = t.next
	t.next++
	t.stack = append(t.stack, v)
	t.onStack[v] = true

	for _, w := range t.store.deps[v] {
		if _, visited := t.indices[w]; !visited {
			t.connect(w)
			t.lowlink[v] = min(t.lowlink[v], t.lowlink[w])
		} else if t.onStack[w] {
			t.lowlink[v] = min(t.lowlink[v], t.indices[w])
		}
	}

	if t.lowlink[v] != t.indices[v] {
		return
	}

	var comp []string
	for {
		w := t.stack[len(t.stack)-1]
		t.stack = t.stack[:len(t.stack)-1]
		t.onStack[w] = false
		comp = append(comp, w)
		if w == v {
			break
		}
	}
	t.components = append(t.components, comp)
}
