// Package divergence finds the parallel (AND) or alternative (OR) structure
// a node belongs to and reports whether all of its branches are still open.
package divergence

import (
	"grafed/core"
)

// Kind is the type of a divergence structure.
type Kind string

const (
	KindNone Kind = ""
	KindAND  Kind = "AND"
	KindOR   Kind = "OR"
)

// Branch is one outgoing branch of a divergence.
type Branch struct {
	Start *core.Node
	Tip   *core.Node
	// Open is true when the branch ends in a node with no outgoing
	// connection, false when it reaches a convergence or loops.
	Open bool
}

// Result describes the nearest divergence above a node.
type Result struct {
	IsOpen     bool
	Type       Kind
	Start      *core.Node
	BranchTips []*core.Node
	Branches   []Branch
}

// FindNearestOpenDivergence walks upward from startID to the nearest
// divergence root, then down each of its branches. The structure is open
// only when every branch still dangles. A node with no divergence above it
// yields the zero Result.
func FindNearestOpenDivergence(startID string, elements []core.Element) Result {
	idx := core.NewIndex(elements)

	root, kind := findRoot(idx, startID)
	if root == nil {
		return Result{}
	}

	res := Result{Type: kind, Start: root}
	for _, c := range idx.Outgoing(root.ID) {
		start := idx.Node(c.TargetID)
		if start == nil || !isBranchStart(start, kind) {
			continue
		}
		b := walkBranch(idx, root, start, kind)
		res.Branches = append(res.Branches, b)
		res.BranchTips = append(res.BranchTips, b.Tip)
	}

	res.IsOpen = len(res.Branches) > 0
	for _, b := range res.Branches {
		if !b.Open {
			res.IsOpen = false
			break
		}
	}
	return res
}

// findRoot searches breadth-first over incoming connections, starting with
// the node itself.
func findRoot(idx *core.Index, startID string) (*core.Node, Kind) {
	start := idx.Node(startID)
	if start == nil {
		return nil, KindNone
	}

	visited := map[string]bool{start.ID: true}
	queue := []*core.Node{start}
	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]

		if kind := rootKind(idx, n); kind != KindNone {
			return n, kind
		}
		for _, c := range idx.Incoming(n.ID) {
			if visited[c.SourceID] {
				continue
			}
			visited[c.SourceID] = true
			if src := idx.Node(c.SourceID); src != nil {
				queue = append(queue, src)
			}
		}
	}
	return nil, KindNone
}

func rootKind(idx *core.Index, n *core.Node) Kind {
	switch {
	case n.IsStep() && len(idx.Outgoing(n.ID)) > 1:
		return KindOR
	case n.IsGate() && n.GateMode == core.GateDivergence:
		if n.Type == core.TypeAndGate {
			return KindAND
		}
		return KindOR
	}
	return KindNone
}

func isBranchStart(n *core.Node, kind Kind) bool {
	if kind == KindAND {
		return n.IsStep() || n.IsTransition()
	}
	return n.IsTransition()
}

func isConvergence(idx *core.Index, n *core.Node, kind Kind) bool {
	if n.IsGate() && n.GateMode == core.GateConvergence {
		return true
	}
	return kind == KindOR && n.IsStep() && len(idx.Incoming(n.ID)) > 1
}

// walkBranch follows outgoing connections from start until a dead end or a
// convergence. The root is never re-entered, so a branch that loops back
// runs out of nodes and counts as closed.
func walkBranch(idx *core.Index, root, start *core.Node, kind Kind) Branch {
	visited := map[string]bool{root.ID: true, start.ID: true}
	queue := []*core.Node{start}
	var last *core.Node

	for len(queue) > 0 {
		n := queue[0]
		queue = queue[1:]
		last = n

		out := idx.Outgoing(n.ID)
		if len(out) == 0 {
			return Branch{Start: start, Tip: n, Open: true}
		}
		for _, c := range out {
			next := idx.Node(c.TargetID)
			if next == nil {
				continue
			}
			if isConvergence(idx, next, kind) {
				return Branch{Start: start, Tip: n}
			}
			if !visited[next.ID] {
				visited[next.ID] = true
				queue = append(queue, next)
			}
		}
	}
	return Branch{Start: start, Tip: last}
}
