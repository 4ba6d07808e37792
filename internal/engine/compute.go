package engine

import (
	"context"
	"fmt"
	"time"

	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/visitor"
)

// operationTypeName derives a metrics/trace label from an operation's Go
// type, since the core operation registry is the only place a name
// string is otherwise attached to an operation instance.
func operationTypeName(op domain.Operation) string {
	return fmt.Sprintf("%T", op)
}

// Compute runs process() on every node reachable from sink, reverse-DFS,
// and returns the sink's produced output buffer. evalID must
// already have need_rect populated on every node (by NeedRect) and
// have_rect populated (by HaveRect).
func (m *Manager) Compute(ctx context.Context, sink *domain.Node, evalID string) (domain.Buffer, error) {
	v := visitor.New()
	deps := func(n *domain.Node) []*domain.Node { return n.Sources() }

	visit := func(n *domain.Node) error {
		select {
		case <-ctx.Done():
			return domain.NewDomainError(domain.ErrCodeCancelled, "evaluation cancelled", ctx.Err())
		default:
		}

		nCtx, ok := n.Context(evalID)
		if !ok {
			nCtx = n.NewContext(evalID)
		}
		have, _ := n.HaveRect()
		result := domain.Intersect(nCtx.NeedRect(), have)
		nCtx.SetResultRect(result)

		outFormat := ""
		if op := n.Pad("output"); op != nil {
			outFormat = op.Format()
		}

		if result.IsEmpty() {
			nCtx.SetSlot("output", m.bufSvc.Create(outFormat, domain.Empty))
			return nil
		}

		// Wire this node's input slots from its producers' already
		// computed output (producers are earlier in reverse-DFS order).
		for _, p := range n.Pads() {
			if !p.IsInput() {
				continue
			}
			src, srcPad, ok := n.Producer(p.Name())
			if !ok {
				continue
			}
			srcCtx, ok := src.Context(evalID)
			if !ok {
				continue
			}
			if b, ok := srcCtx.Slot(srcPad); ok {
				nCtx.SetSlot(p.Name(), b)
			}
		}

		op := n.Operation()
		if op == nil {
			return nil
		}

		var c domain.Cache
		if !n.Enabled() {
			// A disabled node passes its input through unchanged.
			if in, ok := nCtx.Slot("input"); ok {
				nCtx.SetSlot("output", in)
				n.Computed(result)
				return nil
			}
		}
		if m.cacheNew != nil {
			c = n.Cache(m.cacheNew)
		}
		opType := operationTypeName(op)
		if c != nil && !c.DontCache() {
			if b, hit := c.Get(result, outFormat); hit {
				nCtx.SetSlot("output", b)
				n.Computed(result)
				if m.observer != nil {
					m.observer.OnCacheHit(evalID, n, result)
				}
				if m.metrics != nil {
					m.metrics.RecordCacheHit(n.ID(), opType)
				}
				return nil
			}
			if m.observer != nil {
				m.observer.OnCacheMiss(evalID, n, result)
			}
			if m.metrics != nil {
				m.metrics.RecordCacheMiss(n.ID(), opType)
			}
		}

		if m.observer != nil {
			m.observer.OnNodeProcessStarted(evalID, n)
		}
		processStart := time.Now()
		ok2 := op.Process(ctx, nCtx, "output")
		processDuration := time.Since(processStart)
		if m.metrics != nil {
			m.metrics.RecordNodeProcess(n.ID(), opType, processDuration, ok2)
		}
		if !ok2 {
			if m.observer != nil {
				m.observer.OnNodeProcessFailed(evalID, n, domain.NewDomainError(domain.ErrCodeRuntime, "process failed", nil), processDuration)
			}
			return domain.NewDomainError(domain.ErrCodeRuntime, "process failed on node "+n.ID(), nil)
		}
		if m.observer != nil {
			m.observer.OnNodeProcessCompleted(evalID, n, result, processDuration)
		}

		if c != nil && !c.DontCache() {
			if b, ok := nCtx.Slot("output"); ok {
				c.Put(result, outFormat, b)
			}
		}
		n.Computed(result)
		return nil
	}

	if err := v.ReverseDFS(sink, deps, visit); err != nil {
		if de, ok := err.(*domain.DomainError); ok {
			return nil, de
		}
		return nil, domain.NewDomainError(domain.ErrCodeRuntime, "compute traversal failed", err)
	}

	sinkCtx, ok := sink.Context(evalID)
	if !ok {
		return nil, domain.NewDomainError(domain.ErrCodeRuntime, "sink has no evaluation context", nil)
	}
	buf, _ := sinkCtx.Slot("output")
	if buf != nil {
		// The caller receives its own reference; FreeContexts (called by
		// the processor right after Compute returns) releases the
		// context's copy, so the buffer must outlive that release.
		buf = buf.Retain()
	}
	return buf, nil
}

// FreeContexts tears down every node-context for evalID reachable from
// sink. Called once all consumers have finished or on
// cancellation.
func (m *Manager) FreeContexts(sink *domain.Node, evalID string) {
	seen := make(map[*domain.Node]bool)
	var walk func(n *domain.Node)
	walk = func(n *domain.Node) {
		if seen[n] {
			return
		}
		seen[n] = true
		n.FreeContext(evalID)
		for _, s := range n.Sources() {
			walk(s)
		}
	}
	walk(sink)
}
