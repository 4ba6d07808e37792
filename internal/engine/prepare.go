package engine

import (
	"context"

	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/visitor"
)

// Prepare runs operation.Prepare() on every node reachable from sink, in
// reverse-DFS order, so each operation can negotiate its output format
// from its already-prepared inputs. Once an operation has published its
// pad formats, each is checked against the format service; an operation
// that publishes a format the service does not recognize aborts the
// evaluation with a Preparation error, per spec §7's "unknown format"
// case.
func (m *Manager) Prepare(ctx context.Context, sink *domain.Node) error {
	v := visitor.New()
	deps := func(n *domain.Node) []*domain.Node { return n.Sources() }
	visit := func(n *domain.Node) error {
		op := n.Operation()
		if op == nil {
			return nil
		}
		if err := op.Prepare(ctx); err != nil {
			return domain.NewDomainError(domain.ErrCodePreparation, "prepare failed on node "+n.ID(), err)
		}
		if m.formatSvc == nil {
			return nil
		}
		for _, p := range n.Pads() {
			f := p.Format()
			if f == "" {
				continue
			}
			if _, err := m.formatSvc.ByName(f); err != nil {
				return domain.NewDomainError(domain.ErrCodePreparation,
					"node "+n.ID()+" pad "+p.Name()+" declared unknown pixel format "+f, err)
			}
		}
		return nil
	}
	if err := v.ReverseDFS(sink, deps, visit); err != nil {
		return domain.NewDomainError(domain.ErrCodePreparation, "prepare traversal failed", err)
	}
	return nil
}
