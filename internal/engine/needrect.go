package engine

import (
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/visitor"
)

// NeedRect propagates roi backward from sink to every source, top-down
//. The sink's own context need_rect is seeded with roi
// before traversal starts; each subsequent node's need_rect is the
// bounding box of every consumer's compute_input_request result, so two
// consumers of the same producer yield the union of their requests.
func (m *Manager) NeedRect(sink *domain.Node, evalID string, roi domain.Rectangle) error {
	sinkCtx, ok := sink.Context(evalID)
	if !ok {
		sinkCtx = sink.NewContext(evalID)
	}
	sinkCtx.SetNeedRect(roi)

	v := visitor.New()
	deps := func(n *domain.Node) []*domain.Node {
		nCtx, ok := n.Context(evalID)
		if !ok {
			nCtx = n.NewContext(evalID)
		}
		seen := make(map[*domain.Node]bool)
		var out []*domain.Node
		for _, p := range n.Pads() {
			if !p.IsInput() {
				continue
			}
			src, _, ok := n.Producer(p.Name())
			if !ok {
				continue
			}
			req := nCtx.NeedRect()
			if op := n.Operation(); op != nil {
				req = op.ComputeInputRequest(p.Name(), nCtx.NeedRect())
			}
			srcCtx, ok := src.Context(evalID)
			if !ok {
				srcCtx = src.NewContext(evalID)
			}
			srcCtx.UnionNeedRect(req)
			if !seen[src] {
				seen[src] = true
				out = append(out, src)
			}
		}
		return out
	}
	visit := func(n *domain.Node) error { return nil }
	if err := v.TopDown(sink, deps, visit); err != nil {
		return domain.NewDomainError(domain.ErrCodeStructural, "need-rect traversal failed", err)
	}
	return nil
}
