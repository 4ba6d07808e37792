package monitoring

import (
	"fmt"
	"sync"
	"time"
)

// EvaluationTrace is an ordered log of events for one evaluation,
// useful for debugging why a particular blit produced what it did.
type EvaluationTrace struct {
	EvalID string
	SinkID string
	Events []*TraceEvent
	mu     sync.Mutex
}

// TraceEvent represents a single event in the evaluation trace.
type TraceEvent struct {
	Timestamp time.Time
	EventType string
	NodeID    string
	Message   string
	Data      map[string]any
	Error     error
}

// NewEvaluationTrace creates a new EvaluationTrace.
func NewEvaluationTrace(evalID, sinkID string) *EvaluationTrace {
	return &EvaluationTrace{
		EvalID: evalID,
		SinkID: sinkID,
		Events: make([]*TraceEvent, 0),
	}
}

// AddEvent adds an event to the trace.
func (t *EvaluationTrace) AddEvent(eventType, nodeID, message string, data map[string]any, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.Events = append(t.Events, &TraceEvent{
		Timestamp: time.Now(),
		EventType: eventType,
		NodeID:    nodeID,
		Message:   message,
		Data:      data,
		Error:     err,
	})
}

// GetEvents returns all events in the trace.
func (t *EvaluationTrace) GetEvents() []*TraceEvent {
	t.mu.Lock()
	defer t.mu.Unlock()

	events := make([]*TraceEvent, len(t.Events))
	copy(events, t.Events)
	return events
}

// String returns a human-readable rendering of the trace.
func (t *EvaluationTrace) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	result := fmt.Sprintf("Evaluation Trace [%s]\n", t.EvalID)
	result += fmt.Sprintf("Sink: %s\n", t.SinkID)
	result += fmt.Sprintf("Events: %d\n\n", len(t.Events))

	for i, event := range t.Events {
		result += fmt.Sprintf("%d. [%s] %s", i+1, event.Timestamp.Format("15:04:05.000"), event.EventType)
		if event.NodeID != "" {
			result += fmt.Sprintf(" node=%s", event.NodeID)
		}
		if event.Message != "" {
			result += fmt.Sprintf(" - %s", event.Message)
		}
		if event.Error != nil {
			result += fmt.Sprintf(" [ERROR: %v]", event.Error)
		}
		result += "\n"
	}

	return result
}
