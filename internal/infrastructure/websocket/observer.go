package websocket

import (
	"time"

	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/infrastructure/monitoring"
)

var _ monitoring.EvaluationObserver = (*SocketObserver)(nil)

// SocketObserver implements monitoring.EvaluationObserver and relays
// invalidated/computed signals to WebSocket clients through the
// Broadcaster interface, plus the process-phase events the eval
// manager's observer hook exposes.
type SocketObserver struct {
	hub Broadcaster
}

func NewSocketObserver(hub Broadcaster) *SocketObserver {
	return &SocketObserver{hub: hub}
}

func (so *SocketObserver) OnEvaluationStarted(sinkID, evalID string, roi domain.Rectangle) {
	event := NewWSEvent(EventInvalidated, "", sinkID)
	setRegion(event, roi)
	so.hub.Broadcast("", sinkID, event)
}

func (so *SocketObserver) OnEvaluationCompleted(sinkID, evalID string, result domain.Rectangle, duration time.Duration) {
	event := NewWSEvent(EventComputed, "", sinkID)
	event.DurationMs = duration.Milliseconds()
	setRegion(event, result)
	so.hub.Broadcast("", sinkID, event)
}

func (so *SocketObserver) OnEvaluationFailed(sinkID, evalID string, err error, duration time.Duration) {
	event := NewWSEvent(EventComputed, "", sinkID)
	event.DurationMs = duration.Milliseconds()
	if err != nil {
		event.Error = err.Error()
	}
	so.hub.Broadcast("", sinkID, event)
}

func (so *SocketObserver) OnNodeProcessStarted(evalID string, node *domain.Node) {
	// No signal of its own; process start is implied by the evaluation
	// that is already in flight.
}

func (so *SocketObserver) OnNodeProcessCompleted(evalID string, node *domain.Node, resultRect domain.Rectangle, duration time.Duration) {
	event := NewWSEvent(EventComputed, "", node.ID())
	event.DurationMs = duration.Milliseconds()
	setRegion(event, resultRect)
	so.hub.Broadcast("", node.ID(), event)
}

func (so *SocketObserver) OnNodeProcessFailed(evalID string, node *domain.Node, err error, duration time.Duration) {
	event := NewWSEvent(EventComputed, "", node.ID())
	event.DurationMs = duration.Milliseconds()
	if err != nil {
		event.Error = err.Error()
	}
	so.hub.Broadcast("", node.ID(), event)
}

func (so *SocketObserver) OnCacheHit(evalID string, node *domain.Node, region domain.Rectangle) {}

func (so *SocketObserver) OnCacheMiss(evalID string, node *domain.Node, region domain.Rectangle) {}

func setRegion(event *WSEvent, r domain.Rectangle) {
	event.RegionX, event.RegionY = r.X, r.Y
	event.RegionWidth, event.RegionHeight = r.Width, r.Height
}
