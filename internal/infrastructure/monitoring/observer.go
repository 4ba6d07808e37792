package monitoring

import (
	"time"

	"github.com/smilemakc/gegraph/internal/domain"
)

// EvaluationObserver defines the interface for observing eval manager
// activity: the invalidated/computed signals, generalized to the full
// four-phase lifecycle. Implementations can use this to monitor,
// log, or react to evaluation events without the eval manager itself
// depending on any particular sink.
type EvaluationObserver interface {
	// OnEvaluationStarted is called when a new evaluation (processor)
	// begins against sink for roi.
	OnEvaluationStarted(sinkID, evalID string, roi domain.Rectangle)

	// OnEvaluationCompleted is called when an evaluation finishes
	// successfully and produced result describes the buffer's region.
	OnEvaluationCompleted(sinkID, evalID string, result domain.Rectangle, duration time.Duration)

	// OnEvaluationFailed is called when an evaluation fails at any
	// phase (prepare, have-rect, need-rect, compute).
	OnEvaluationFailed(sinkID, evalID string, err error, duration time.Duration)

	// OnNodeProcessStarted is called immediately before a node's
	// operation.Process is invoked during the compute phase.
	OnNodeProcessStarted(evalID string, node *domain.Node)

	// OnNodeProcessCompleted is called when a node's process call
	// returns successfully, with the region it actually produced.
	OnNodeProcessCompleted(evalID string, node *domain.Node, resultRect domain.Rectangle, duration time.Duration)

	// OnNodeProcessFailed is called when a node's process call returns
	// false.
	OnNodeProcessFailed(evalID string, node *domain.Node, err error, duration time.Duration)

	// OnCacheHit/OnCacheMiss are called by the compute phase around its
	// cache lookup for a node.
	OnCacheHit(evalID string, node *domain.Node, region domain.Rectangle)
	OnCacheMiss(evalID string, node *domain.Node, region domain.Rectangle)
}

// ObserverManager fans a single call out to multiple registered
// observers, so the eval manager itself only ever calls one thing.
type ObserverManager struct {
	observers []EvaluationObserver
}

func NewObserverManager() *ObserverManager {
	return &ObserverManager{observers: make([]EvaluationObserver, 0)}
}

func (m *ObserverManager) Register(o EvaluationObserver) {
	m.observers = append(m.observers, o)
}

func (m *ObserverManager) OnEvaluationStarted(sinkID, evalID string, roi domain.Rectangle) {
	for _, o := range m.observers {
		o.OnEvaluationStarted(sinkID, evalID, roi)
	}
}

func (m *ObserverManager) OnEvaluationCompleted(sinkID, evalID string, result domain.Rectangle, duration time.Duration) {
	for _, o := range m.observers {
		o.OnEvaluationCompleted(sinkID, evalID, result, duration)
	}
}

func (m *ObserverManager) OnEvaluationFailed(sinkID, evalID string, err error, duration time.Duration) {
	for _, o := range m.observers {
		o.OnEvaluationFailed(sinkID, evalID, err, duration)
	}
}

func (m *ObserverManager) OnNodeProcessStarted(evalID string, node *domain.Node) {
	for _, o := range m.observers {
		o.OnNodeProcessStarted(evalID, node)
	}
}

func (m *ObserverManager) OnNodeProcessCompleted(evalID string, node *domain.Node, resultRect domain.Rectangle, duration time.Duration) {
	for _, o := range m.observers {
		o.OnNodeProcessCompleted(evalID, node, resultRect, duration)
	}
}

func (m *ObserverManager) OnNodeProcessFailed(evalID string, node *domain.Node, err error, duration time.Duration) {
	for _, o := range m.observers {
		o.OnNodeProcessFailed(evalID, node, err, duration)
	}
}

func (m *ObserverManager) OnCacheHit(evalID string, node *domain.Node, region domain.Rectangle) {
	for _, o := range m.observers {
		o.OnCacheHit(evalID, node, region)
	}
}

func (m *ObserverManager) OnCacheMiss(evalID string, node *domain.Node, region domain.Rectangle) {
	for _, o := range m.observers {
		o.OnCacheMiss(evalID, node, region)
	}
}
