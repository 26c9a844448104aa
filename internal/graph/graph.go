// Package graph builds the prerequisite dependency graph over a scanned
// object map and answers the two questions the workflow engine needs:
// is the tree acyclic, and is a given task unblocked.
//
// The graph is rebuilt from a fresh scan on every call and never persisted,
// so it is always consistent with the filesystem source of truth.
package graph

import (
	"fmt"

	"github.com/trellisdev/trellis/internal/ids"
	"github.com/trellisdev/trellis/internal/types"
)

// Graph is a directed prerequisite graph. Edges point from a dependent
// object to each of its prerequisites.
type Graph struct {
	edges map[string][]string
	nodes map[string]bool
}

// Build constructs the graph from an object map keyed by normalized id.
// Prerequisite references are normalized (any kind prefix stripped) during
// edge construction.
func Build(objects map[string]*types.Object) *Graph {
	g := &Graph{
		edges: make(map[string][]string, len(objects)),
		nodes: make(map[string]bool, len(objects)),
	}
	for id, obj := range objects {
		g.nodes[id] = true
		for _, raw := range obj.Prerequisites {
			ref := ids.NormalizeRef(raw)
			if ref == "" {
				continue
			}
			g.edges[id] = append(g.edges[id], ref)
		}
	}
	return g
}

type visitState uint8

const (
	stateVisiting visitState = iota + 1
	stateDone
)

// HasCycle reports whether any prerequisite chain loops back on itself.
// Self-loops count. References to ids absent from the graph are unresolved
// edges, not cycle evidence; they are skipped here and handled by blocking.
func (g *Graph) HasCycle() bool {
	return len(g.FindCycle()) > 0
}

// FindCycle returns the members of the first cycle found, or nil when the
// graph is a DAG. Depth-first with three-color marking: a back-edge to a
// node still being visited closes a cycle.
func (g *Graph) FindCycle() []string {
	states := make(map[string]visitState, len(g.nodes))

	var stack []string
	var cycle []string

	var visit func(id string) bool
	visit = func(id string) bool {
		switch states[id] {
		case stateVisiting:
			// Back-edge: everything on the stack from id onward is the cycle.
			for i := len(stack) - 1; i >= 0; i-- {
				cycle = append([]string{stack[i]}, cycle...)
				if stack[i] == id {
					break
				}
			}
			if len(cycle) == 0 {
				cycle = []string{id}
			}
			return true
		case stateDone:
			return false
		}

		if !g.nodes[id] {
			// Missing prerequisite: unresolved edge, ignored for cycle purposes.
			return false
		}

		states[id] = stateVisiting
		stack = append(stack, id)
		for _, next := range g.edges[id] {
			if visit(next) {
				return true
			}
		}
		stack = stack[:len(stack)-1]
		states[id] = stateDone
		return false
	}

	for id := range g.nodes {
		if states[id] == 0 && visit(id) {
			return cycle
		}
	}
	return nil
}

// IsUnblocked reports whether every prerequisite of the object resolves to a
// present object whose status is exactly done. Missing prerequisites block;
// so does any non-done status, review included. No prerequisites means
// trivially unblocked.
func IsUnblocked(obj *types.Object, objects map[string]*types.Object) bool {
	for _, raw := range obj.Prerequisites {
		ref := ids.NormalizeRef(raw)
		if ref == "" {
			continue
		}
		prereq, ok := objects[ref]
		if !ok {
			return false
		}
		if prereq.Status != types.StatusDone {
			return false
		}
	}
	return true
}

// Blocking returns the prerequisite ids currently holding the object back,
// for operator diagnosis. Empty result means unblocked.
func Blocking(obj *types.Object, objects map[string]*types.Object) []string {
	var blocking []string
	for _, raw := range obj.Prerequisites {
		ref := ids.NormalizeRef(raw)
		if ref == "" {
			continue
		}
		prereq, ok := objects[ref]
		if !ok || prereq.Status != types.StatusDone {
			blocking = append(blocking, ref)
		}
	}
	return blocking
}

// ValidateAcyclic checks the whole tree for prerequisite cycles. A cycle is
// structural corruption, surfaced as ErrCircularDependency naming the members
// so the operator can cut it.
func ValidateAcyclic(objects map[string]*types.Object) error {
	if cycle := Build(objects).FindCycle(); len(cycle) > 0 {
		return fmt.Errorf("%w: %v", types.ErrCircularDependency, cycle)
	}
	return nil
}
