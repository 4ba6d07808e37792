package builtin

import (
	"context"
	"sync"

	"github.com/smilemakc/gegraph/internal/buffer"
	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/operation"
)

// CaptureSink is a Sink operation: it consumes its input and writes it
// externally (here, into an in-memory slot callers can read back), per
// spec §4.7 ("Sink: consume input; produce no buffer; may write
// externally").
type CaptureSink struct {
	operation.Sink

	mu   sync.Mutex
	last *buffer.MemBuffer
}

func NewCaptureSinkFactory() operation.Factory {
	return func() domain.Operation { return &CaptureSink{} }
}

func (c *CaptureSink) Prepare(ctx context.Context) error { return nil }

func (c *CaptureSink) Process(ctx context.Context, evalCtx *domain.NodeContext, outputPad string) bool {
	if in, ok := evalCtx.Slot("input"); ok {
		if b, ok := in.(*buffer.MemBuffer); ok {
			c.mu.Lock()
			c.last = b
			c.mu.Unlock()
		}
	}
	return true
}

// Last returns the most recently captured buffer, or nil.
func (c *CaptureSink) Last() *buffer.MemBuffer {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.last
}
