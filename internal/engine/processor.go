package engine

import (
	"context"

	"github.com/smilemakc/gegraph/internal/domain"
)

type step int

const (
	stepPrepare step = iota
	stepHaveRect
	stepNeedRect
	stepCompute
	stepDone
)

// Processor is the incremental entry point spec §5/§6 describes
// (new_processor(node, roi) -> work(progress) -> bool): each call to
// Work performs exactly one phase, so an outer scheduler can interleave
// several evaluations instead of blocking on a single one.
type Processor struct {
	mgr    *Manager
	sink   *domain.Node
	roi    domain.Rectangle
	evalID string

	cur      step
	result   domain.Buffer
	err      error
	finished bool
}

// NewProcessor starts a new evaluation against sink for region roi.
func (m *Manager) NewProcessor(sink *domain.Node, roi domain.Rectangle) *Processor {
	return &Processor{mgr: m, sink: sink, roi: roi, evalID: m.newEvalID(), cur: stepPrepare}
}

// Work performs one traversal step. It returns true once the evaluation
// has finished (successfully or not); callers should stop calling Work
// and inspect Result() at that point. Work takes no progress argument;
// each call advances exactly one phase.
func (p *Processor) Work(ctx context.Context) (bool, error) {
	if p.finished {
		return true, p.err
	}
	select {
	case <-ctx.Done():
		p.err = domain.NewDomainError(domain.ErrCodeCancelled, "evaluation cancelled", ctx.Err())
		p.finished = true
		p.mgr.FreeContexts(p.sink, p.evalID)
		return true, p.err
	default:
	}

	var stepErr error
	switch p.cur {
	case stepPrepare:
		stepErr = p.mgr.Prepare(ctx, p.sink)
	case stepHaveRect:
		stepErr = p.mgr.HaveRect(ctx, p.sink)
	case stepNeedRect:
		stepErr = p.mgr.NeedRect(p.sink, p.evalID, p.roi)
	case stepCompute:
		p.result, stepErr = p.mgr.Compute(ctx, p.sink, p.evalID)
	}

	if stepErr != nil {
		p.err = stepErr
		p.finished = true
		p.mgr.FreeContexts(p.sink, p.evalID)
		return true, stepErr
	}

	p.cur++
	if p.cur >= stepDone {
		p.finished = true
		p.mgr.incEvalCount()
		p.mgr.FreeContexts(p.sink, p.evalID)
		return true, nil
	}
	return false, nil
}

func (p *Processor) Result() (domain.Buffer, error) {
	return p.result, p.err
}

func (p *Processor) Done() bool { return p.finished }
