package engine

import (
	"context"

	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/visitor"
)

// HaveRect runs operation.GetDefinedRegion() on every node reachable
// from sink, in reverse-DFS order, storing the result as have_rect (spec
// §4.5). Must run after Prepare and before NeedRect/Compute.
func (m *Manager) HaveRect(ctx context.Context, sink *domain.Node) error {
	v := visitor.New()
	deps := func(n *domain.Node) []*domain.Node { return n.Sources() }
	visit := func(n *domain.Node) error {
		op := n.Operation()
		if op == nil {
			n.SetHaveRect(domain.Empty)
			return nil
		}
		n.SetHaveRect(op.GetDefinedRegion())
		return nil
	}
	if err := v.ReverseDFS(sink, deps, visit); err != nil {
		return domain.NewDomainError(domain.ErrCodeStructural, "have-rect traversal failed", err)
	}
	return nil
}
