package domain

import "sync"

// NodeContext is the per-(node, evaluation) scratch state spec §3
// describes: the region requested of this node, the region it will
// actually produce, and a named slot map used to pass buffers between
// an operation's inputs and its own output during the compute phase.
type NodeContext struct {
	EvalID string
	Node   *Node

	mu         sync.Mutex
	needRect   Rectangle
	resultRect Rectangle
	slots      map[string]Buffer
}

func newNodeContext(evalID string, n *Node) *NodeContext {
	return &NodeContext{
		EvalID: evalID,
		Node:   n,
		slots:  make(map[string]Buffer),
	}
}

func (c *NodeContext) NeedRect() Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.needRect
}

func (c *NodeContext) SetNeedRect(r Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.needRect = r
}

// UnionNeedRect widens need_rect to the bounding box of its current value
// and r. Spec §4.6: two consumers of the same producer get the bounding
// box of both requests.
func (c *NodeContext) UnionNeedRect(r Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.needRect = BoundingBox(c.needRect, r)
}

func (c *NodeContext) ResultRect() Rectangle {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.resultRect
}

func (c *NodeContext) SetResultRect(r Rectangle) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.resultRect = r
}

func (c *NodeContext) SetSlot(name string, b Buffer) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.slots[name] = b
}

func (c *NodeContext) Slot(name string) (Buffer, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	b, ok := c.slots[name]
	return b, ok
}

// release drops references held by this context's slots. Called when the
// eval manager frees the context after all consumers have finished.
func (c *NodeContext) release() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for name, b := range c.slots {
		if b != nil {
			b.Release()
		}
		delete(c.slots, name)
	}
}
