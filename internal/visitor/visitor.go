// Package visitor implements the generic DAG traversal spec §4.3
// describes, grounded on gegl-visitor.h's discovered/visited marking
// scheme: a node is "discovered" when first reached and "visited" once
// its visit function has run; seeing discovered-but-not-visited again
// means a cycle slipped through connect-time rejection, which is fatal.
package visitor

import (
	"fmt"

	"github.com/smilemakc/gegraph/internal/domain"
)

type mark int

const (
	unseen mark = iota
	discovered
	visited
)

// DependenciesFunc returns a node's dependencies for traversal purposes.
// It is typically a node's connected source nodes. ReverseDFS (the
// prepare/have/compute phases) and TopDown (need-region propagation)
// both take one: TopDown visits a node before its dependencies rather
// than after them.
type DependenciesFunc func(n *domain.Node) []*domain.Node

// VisitFunc is invoked once per node, after its dependencies (in
// reverse-DFS) or before them (in top-down).
type VisitFunc func(n *domain.Node) error

// Visitor drives one full traversal over a DAG rooted at a given node.
type Visitor struct {
	marks map[*domain.Node]mark
}

func New() *Visitor {
	return &Visitor{marks: make(map[*domain.Node]mark)}
}

// ReverseDFS visits dependencies before a node (bottom-up). Used by the
// prepare, have-rect and compute phases.
func (v *Visitor) ReverseDFS(root *domain.Node, deps DependenciesFunc, visit VisitFunc) error {
	return v.dfs(root, deps, visit)
}

func (v *Visitor) dfs(n *domain.Node, deps DependenciesFunc, visit VisitFunc) error {
	switch v.marks[n] {
	case visited:
		return nil
	case discovered:
		return fmt.Errorf("cycle detected at node %s", n.ID())
	}
	v.marks[n] = discovered
	for _, d := range deps(n) {
		if err := v.dfs(d, deps, visit); err != nil {
			return err
		}
	}
	v.marks[n] = visited
	return visit(n)
}

// ConsumersFunc returns the nodes that consume a node's output. Neither
// traversal in this package takes one; TopDown walks a DependenciesFunc.
type ConsumersFunc func(n *domain.Node) []*domain.Node

// TopDown visits a node before recursing into its producers (spec §4.3:
// "visit consumers before producers... used by need-region propagation,
// starting from the sink"). Unlike ReverseDFS this does not stop at an
// already-visited node — need-region unions every consumer's request
// into the shared producer context before recursing, so a producer with
// two consumers must be revisited once per consumer edge that reaches
// it. Cycle protection still applies via a set of the nodes on the
// current recursion stack (the discovered/visited marks are not used).
func (v *Visitor) TopDown(root *domain.Node, deps DependenciesFunc, visit VisitFunc) error {
	return v.topDown(root, deps, visit, make(map[*domain.Node]bool))
}

func (v *Visitor) topDown(n *domain.Node, deps DependenciesFunc, visit VisitFunc, onStack map[*domain.Node]bool) error {
	if onStack[n] {
		return fmt.Errorf("cycle detected at node %s", n.ID())
	}
	onStack[n] = true
	defer delete(onStack, n)

	if err := visit(n); err != nil {
		return err
	}
	for _, d := range deps(n) {
		if err := v.topDown(d, deps, visit, onStack); err != nil {
			return err
		}
	}
	return nil
}
