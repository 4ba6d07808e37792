package visitor_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/visitor"
)

func mustNode(t *testing.T, id string) *domain.Node {
	t.Helper()
	n, err := domain.New(id, nil)
	require.NoError(t, err)
	return n
}

func TestReverseDFS_VisitsDependenciesFirst(t *testing.T) {
	a := mustNode(t, "a")
	b := mustNode(t, "b")
	c := mustNode(t, "c")

	// c depends on b, b depends on a.
	deps := map[*domain.Node][]*domain.Node{c: {b}, b: {a}, a: nil}

	var order []string
	v := visitor.New()
	err := v.ReverseDFS(c, func(n *domain.Node) []*domain.Node { return deps[n] }, func(n *domain.Node) error {
		order = append(order, n.ID())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, order)
}

func TestReverseDFS_VisitsSharedDependencyOnce(t *testing.T) {
	a := mustNode(t, "a")
	b := mustNode(t, "b")
	c := mustNode(t, "c")
	d := mustNode(t, "d")

	// d depends on both b and c, each of which depends on a.
	deps := map[*domain.Node][]*domain.Node{d: {b, c}, b: {a}, c: {a}, a: nil}

	count := map[string]int{}
	v := visitor.New()
	err := v.ReverseDFS(d, func(n *domain.Node) []*domain.Node { return deps[n] }, func(n *domain.Node) error {
		count[n.ID()]++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, count["a"])
	assert.Equal(t, 1, count["d"])
}

func TestReverseDFS_DetectsCycle(t *testing.T) {
	a := mustNode(t, "a")
	b := mustNode(t, "b")
	deps := map[*domain.Node][]*domain.Node{a: {b}, b: {a}}

	v := visitor.New()
	err := v.ReverseDFS(a, func(n *domain.Node) []*domain.Node { return deps[n] }, func(n *domain.Node) error { return nil })
	assert.Error(t, err)
}

func TestTopDown_VisitsNodeBeforeDependencies(t *testing.T) {
	a := mustNode(t, "a")
	b := mustNode(t, "b")
	c := mustNode(t, "c")
	deps := map[*domain.Node][]*domain.Node{c: {b}, b: {a}, a: nil}

	var order []string
	v := visitor.New()
	err := v.TopDown(c, func(n *domain.Node) []*domain.Node { return deps[n] }, func(n *domain.Node) error {
		order = append(order, n.ID())
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"c", "b", "a"}, order)
}
