package topology

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddNodeIsIdempotent(t *testing.T) {
	s := New()
	s.AddNode("a")
	s.AddNode("b")
	s.AddNode("a")

	assert.True(t, s.HasNode("a"))
	assert.True(t, s.HasNode("b"))
	assert.False(t, s.HasNode("c"))
}

func TestDependencies(t *testing.T) {
	s := New()
	s.AddNode("a")
	s.AddNode("b")

	// b depends on a; repeating an edge is a no-op
	require.NoError(t, s.AddDependency("a", "b"))
	require.NoError(t, s.AddDependency("a", "b"))
	assert.Empty(t, s.Cycles())

	require.NoError(t, s.AddDependency("b", "a"))
	assert.Equal(t, [][]string{{"a", "b"}}, s.Cycles())
}

func TestAddDependencyRequiresNodes(t *testing.T) {
	s := New()
	s.AddNode("a")

	assert.ErrorContains(t, s.AddDependency("ghost", "a"), "source node 'ghost'")
	assert.ErrorContains(t, s.AddDependency("a", "ghost"), "target node 'ghost'")
}

func TestCycles(t *testing.T) {
	s := New()
	for _, n := range []string{"root", "a", "b", "c", "self", "tail"} {
		s.AddNode(n)
	}
	// a -> b -> c -> a, self -> self, tail -> a, a -> root
	require.NoError(t, s.AddDependency("b", "a"))
	require.NoError(t, s.AddDependency("c", "b"))
	require.NoError(t, s.AddDependency("a", "c"))
	require.NoError(t, s.AddDependency("root", "a"))
	require.NoError(t, s.AddDependency("self", "self"))
	require.NoError(t, s.AddDependency("a", "tail"))

	assert.Equal(t, [][]string{{"a", "b", "c"}, {"self"}}, s.Cycles())
}

func TestAcyclicGraphHasNoCycles(t *testing.T) {
	s := New()
	for _, n := range []string{"a", "b", "c"} {
		s.AddNode(n)
	}
	require.NoError(t, s.AddDependency("a", "b"))
	require.NoError(t, s.AddDependency("b", "c"))
	require.NoError(t, s.AddDependency("a", "c"))

	assert.Empty(t, s.Cycles())
}
