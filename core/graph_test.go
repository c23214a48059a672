package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func indexOf(list []string, s string) int {
	for i, v := range list {
		if v == s {
			return i
		}
	}
	return -1
}

func TestDependencyGraphDiamond(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("A", "B", "C")
	g.AddNode("B", "D")
	g.AddNode("C", "D")
	g.AddNode("D")

	order, err := g.Resolve([]string{"A"})
	require.NoError(t, err)

	assert.Len(t, order, 4)
	assert.Equal(t, 1, countOccurrences(order, "D"))
	assert.Less(t, indexOf(order, "D"), indexOf(order, "B"))
	assert.Less(t, indexOf(order, "D"), indexOf(order, "C"))
	assert.Less(t, indexOf(order, "B"), indexOf(order, "A"))
	assert.Less(t, indexOf(order, "C"), indexOf(order, "A"))
}

func TestDependencyGraphSelfCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("A", "A")

	_, err := g.Resolve([]string{"A"})
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"A", "A"}, cycleErr.Chain)
}

func TestDependencyGraphTransitiveCycle(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("A", "B")
	g.AddNode("B", "C")
	g.AddNode("C", "A")

	_, err := g.Resolve([]string{"A"})
	require.Error(t, err)

	var cycleErr *CycleError
	require.ErrorAs(t, err, &cycleErr)
	assert.Equal(t, []string{"A", "B", "C", "A"}, cycleErr.Chain)
	assert.Contains(t, err.Error(), "A -> B -> C -> A")
}

func TestDependencyGraphMultipleRoots(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("A", "shared")
	g.AddNode("B", "shared")
	g.AddNode("shared")

	order, err := g.Resolve([]string{"A", "B"})
	require.NoError(t, err)

	assert.Equal(t, []string{"shared", "A", "B"}, order)
}

func TestDependencyGraphUnknownDependencyIsLeaf(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("A", "fabric-api")

	order, err := g.Resolve([]string{"A"})
	require.NoError(t, err)

	assert.Equal(t, []string{"fabric-api", "A"}, order)
}

func TestDependencyGraphMergesRepeatedNodes(t *testing.T) {
	g := NewDependencyGraph()
	g.AddNode("A", "B")
	g.AddNode("A", "C")
	g.AddNode("B")
	g.AddNode("C")

	node, ok := g.Node("A")
	require.True(t, ok)
	assert.Equal(t, []string{"B", "C"}, node.Dependencies)

	order, err := g.ResolveAll()
	require.NoError(t, err)
	assert.Len(t, order, 3)
}

func countOccurrences(list []string, s string) int {
	n := 0
	for _, v := range list {
		if v == s {
			n++
		}
	}
	return n
}
