package core

// DependencyNode is one project in the dependency graph, identified by its
// plan key or platform project ID.
type DependencyNode struct {
	ID           string
	Dependencies []string
}

// DependencyGraph accumulates resolved nodes and computes a build-safe
// processing order. Not safe for concurrent mutation.
type DependencyGraph struct {
	nodes map[string]*DependencyNode
	order []string
}

func NewDependencyGraph() *DependencyGraph {
	return &DependencyGraph{nodes: make(map[string]*DependencyNode)}
}

// AddNode records a node and its direct dependencies. Adding the same ID
// again merges the dependency lists.
func (g *DependencyGraph) AddNode(id string, dependencies ...string) {
	node, ok := g.nodes[id]
	if !ok {
		node = &DependencyNode{ID: id}
		g.nodes[id] = node
		g.order = append(g.order, id)
	}
	for _, dep := range dependencies {
		if !containsString(node.Dependencies, dep) {
			node.Dependencies = append(node.Dependencies, dep)
		}
	}
}

func (g *DependencyGraph) Node(id string) (*DependencyNode, bool) {
	node, ok := g.nodes[id]
	return node, ok
}

const (
	colorWhite = iota // unvisited
	colorGray         // in progress
	colorBlack        // done
)

// Resolve walks the graph depth-first from each root and returns every
// reachable node in dependency-before-dependent order, each node exactly
// once. A node reachable while still in progress means the plan depends on
// itself; the returned CycleError names the offending chain.
//
// Dependencies naming nodes that were never added are kept in the output as
// leaves, so callers still see externally-sourced projects in the set.
func (g *DependencyGraph) Resolve(roots []string) ([]string, error) {
	color := make(map[string]int)
	var sorted []string
	var stack []string

	var visit func(id string) error
	visit = func(id string) error {
		switch color[id] {
		case colorBlack:
			return nil
		case colorGray:
			return &CycleError{Chain: cycleChain(stack, id)}
		}
		color[id] = colorGray
		stack = append(stack, id)

		if node, ok := g.nodes[id]; ok {
			for _, dep := range node.Dependencies {
				if err := visit(dep); err != nil {
					return err
				}
			}
		}

		stack = stack[:len(stack)-1]
		color[id] = colorBlack
		sorted = append(sorted, id)
		return nil
	}

	for _, root := range roots {
		if err := visit(root); err != nil {
			return nil, err
		}
	}
	return sorted, nil
}

// ResolveAll resolves from every node in insertion order.
func (g *DependencyGraph) ResolveAll() ([]string, error) {
	return g.Resolve(g.order)
}

// cycleChain trims the traversal stack to the cycle itself, repeating the
// entry node at the end so the loop reads back to its start.
func cycleChain(stack []string, repeated string) []string {
	start := 0
	for i, id := range stack {
		if id == repeated {
			start = i
			break
		}
	}
	chain := append([]string(nil), stack[start:]...)
	return append(chain, repeated)
}

func containsString(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}
