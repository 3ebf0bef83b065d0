package solve

import (
	"slices"

	"typesolve/database"
	"typesolve/typecheck"
)

// ComponentDescriptor is one connected component of the constraint
// graph: the constraints that mention at least one shared free type
// variable, plus the variables themselves. Index numbers components in
// the order ConnectedComponents discovered them, which is the order
// their first constraint appears in the active list — stable across
// calls as long as the active list itself is built deterministically.
type ComponentDescriptor struct {
	Index         int
	Constraints   []typecheck.Constraint
	TypeVariables []database.Node
}

// Graph is the constraint/type-variable adjacency the SplitterStep
// consumes. The step machine only calls ConnectedComponents and
// OrphanedConstraints — it never inspects adjacency directly.
type Graph interface {
	ConnectedComponents(solver *typecheck.Solver, active []typecheck.Constraint) []ComponentDescriptor
	SetOrphanedConstraints(constraints []typecheck.Constraint)
	OrphanedConstraints() []typecheck.Constraint
	AddConstraint(constraint typecheck.Constraint)
	RemoveConstraint(constraint typecheck.Constraint)
}

// unionFindGraph is the default Graph: a hand-written union-find over
// constraint/type-variable incidence, re-keyed from the same
// merge-by-node pattern typecheck's groups.go uses for type unification.
// No example repo in the corpus imports a graph or union-find library,
// so this stays on the standard library by design, not by default.
type unionFindGraph struct {
	orphaned []typecheck.Constraint
}

// NewGraph returns the default constraint-graph implementation.
func NewGraph() Graph {
	return &unionFindGraph{}
}

func (g *unionFindGraph) SetOrphanedConstraints(constraints []typecheck.Constraint) {
	g.orphaned = constraints
}

func (g *unionFindGraph) OrphanedConstraints() []typecheck.Constraint {
	return g.orphaned
}

func (g *unionFindGraph) AddConstraint(constraint typecheck.Constraint) {}

func (g *unionFindGraph) RemoveConstraint(constraint typecheck.Constraint) {}

// ConnectedComponents partitions active into components joined by a
// shared free type variable. A constraint with no free type variables
// (fully resolved already, or one that never referenced one, such as a
// disjunction whose every choice has collapsed to ground constraints) is
// reported through SetOrphanedConstraints instead of becoming its own
// component — SplitterStep re-validates those once per merged solution
// tuple rather than solving them as an independent component.
func (g *unionFindGraph) ConnectedComponents(solver *typecheck.Solver, active []typecheck.Constraint) []ComponentDescriptor {
	parent := map[database.Node]database.Node{}

	var find func(node database.Node) database.Node
	find = func(node database.Node) database.Node {
		root, ok := parent[node]
		if !ok {
			parent[node] = node
			return node
		}

		if root == node {
			return node
		}

		root = find(root)
		parent[node] = root
		return root
	}

	union := func(a, b database.Node) {
		rootA, rootB := find(a), find(b)
		if rootA != rootB {
			parent[rootA] = rootB
		}
	}

	freeByConstraint := make([][]database.Node, len(active))
	var orphans []typecheck.Constraint
	var withVariables []int

	for i, constraint := range active {
		free := constraint.FreeTypeVariables(solver)
		freeByConstraint[i] = free

		if len(free) == 0 {
			orphans = append(orphans, constraint)
			continue
		}

		withVariables = append(withVariables, i)

		for _, node := range free {
			find(node)
		}

		for j := 1; j < len(free); j++ {
			union(free[0], free[j])
		}
	}

	g.SetOrphanedConstraints(orphans)

	componentIndex := map[database.Node]int{}
	var components []ComponentDescriptor

	for _, i := range withVariables {
		constraint := active[i]
		root := find(freeByConstraint[i][0])

		idx, ok := componentIndex[root]
		if !ok {
			idx = len(components)
			componentIndex[root] = idx
			components = append(components, ComponentDescriptor{Index: idx})
		}

		components[idx].Constraints = append(components[idx].Constraints, constraint)

		for _, node := range freeByConstraint[i] {
			if !slices.Contains(components[idx].TypeVariables, node) {
				components[idx].TypeVariables = append(components[idx].TypeVariables, node)
			}
		}
	}

	return components
}
