package domain

import "sync"

// InvalidatedFunc and ComputedFunc are the two signals spec §6 requires.
// A Node fires InvalidatedFunc synchronously when a property or upstream
// region change makes part of its output stale, and ComputedFunc after a
// compute phase has produced a region for it.
type InvalidatedFunc func(region Rectangle)
type ComputedFunc func(region Rectangle)

// Node owns an operation instance, its pads, its incoming/outgoing
// connections, an optional cache, and (for graph-composition nodes) child
// nodes. Spec §3.
type Node struct {
	mu sync.Mutex

	id        string
	operation Operation

	pads     []*Pad
	padIndex map[string]*Pad

	incoming map[string]*Connection // keyed by sink pad name (at most one source)
	outgoing []*Connection

	haveRect      Rectangle
	validHaveRect bool

	enabled bool

	isGraph  bool
	children []*Node
	parent   *Node

	cache Cache

	contexts map[string]*NodeContext

	invalidatedSubs []InvalidatedFunc
	computedSubs    []ComputedFunc

	// sourceUnsub holds, per sink pad name, the unsubscribe handle
	// registered with the connected source's invalidated signal.
	sourceUnsub map[string]func()
}

// New creates a standalone node wrapping operation op. If op is non-nil,
// op.Attach is invoked immediately so its pads exist before the caller
// does anything else.
func New(id string, op Operation) (*Node, error) {
	n := &Node{
		id:          id,
		operation:   op,
		padIndex:    make(map[string]*Pad),
		incoming:    make(map[string]*Connection),
		enabled:     true,
		contexts:    make(map[string]*NodeContext),
		sourceUnsub: make(map[string]func()),
	}
	if op != nil {
		if err := op.Attach(n); err != nil {
			return nil, err
		}
	}
	return n, nil
}

func (n *Node) ID() string          { return n.id }
func (n *Node) Operation() Operation { return n.operation }
func (n *Node) IsGraph() bool       { return n.isGraph }
func (n *Node) Parent() *Node       { return n.parent }
func (n *Node) Children() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*Node, len(n.children))
	copy(out, n.children)
	return out
}

func (n *Node) Enabled() bool {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.enabled
}

func (n *Node) SetEnabled(e bool) {
	n.mu.Lock()
	n.enabled = e
	prev := n.haveRect
	n.mu.Unlock()
	n.Invalidate(prev)
}

// HaveRect returns the cached defined region. Valid only between a
// successful have-rect pass and the next property/edge change.
func (n *Node) HaveRect() (Rectangle, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.haveRect, n.validHaveRect
}

func (n *Node) SetHaveRect(r Rectangle) {
	n.mu.Lock()
	n.haveRect = r
	n.validHaveRect = true
	n.mu.Unlock()
}

func (n *Node) InvalidateHaveRect() {
	n.mu.Lock()
	n.validHaveRect = false
	n.mu.Unlock()
}

// Cache lazily creates the node's cache using factory on first access, so
// nodes that are never blitted from never pay for one.
func (n *Node) Cache(factory func() Cache) Cache {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.cache == nil && factory != nil {
		n.cache = factory()
	}
	return n.cache
}

// --- pads -------------------------------------------------------------

// AddPad is a no-op if a pad with that name already exists.
func (n *Node) AddPad(dir Direction, name string) *Pad {
	n.mu.Lock()
	defer n.mu.Unlock()
	if p, ok := n.padIndex[name]; ok {
		return p
	}
	p := newPad(n, dir, name)
	n.pads = append(n.pads, p)
	n.padIndex[name] = p
	return p
}

// RemovePad disconnects any connection through the pad first, then drops
// it. No-op if the pad does not exist.
func (n *Node) RemovePad(name string) {
	n.mu.Lock()
	p, ok := n.padIndex[name]
	n.mu.Unlock()
	if !ok {
		return
	}
	if p.IsInput() {
		n.Disconnect(name)
	} else {
		for _, c := range n.Consumers(name) {
			c.SinkNode.Disconnect(c.SinkPad)
		}
	}
	n.mu.Lock()
	defer n.mu.Unlock()
	delete(n.padIndex, name)
	for i, pp := range n.pads {
		if pp == p {
			n.pads = append(n.pads[:i], n.pads[i+1:]...)
			break
		}
	}
}

func (n *Node) Pad(name string) *Pad {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.padIndex[name]
}

func (n *Node) Pads() []*Pad {
	n.mu.Lock()
	defer n.mu.Unlock()
	out := make([]*Pad, len(n.pads))
	copy(out, n.pads)
	return out
}

// --- connections --------------------------------------------------------

// Connect wires source's sourcePad (an output) to n's sinkPad (an input).
// If sinkPad already has an incoming connection it is disconnected first.
// Rejects structural errors and any attempt that would introduce a cycle.
func (n *Node) Connect(sinkPad string, source *Node, sourcePad string) error {
	sp := n.Pad(sinkPad)
	if sp == nil || !sp.IsInput() {
		return NewDomainError(ErrCodeStructural, "sink pad does not exist or is not an input: "+sinkPad, nil)
	}
	op := source.Pad(sourcePad)
	if op == nil || !op.IsOutput() {
		return NewDomainError(ErrCodeStructural, "source pad does not exist or is not an output: "+sourcePad, nil)
	}
	if wouldCycle(source, n) {
		return NewDomainError(ErrCodeStructural, "connect would introduce a cycle", nil)
	}
	n.Disconnect(sinkPad)

	conn := &Connection{SourceNode: source, SourcePad: sourcePad, SinkNode: n, SinkPad: sinkPad}

	n.mu.Lock()
	n.incoming[sinkPad] = conn
	n.mu.Unlock()

	source.mu.Lock()
	source.outgoing = append(source.outgoing, conn)
	source.mu.Unlock()

	unsub := source.onInvalidated(func(region Rectangle) {
		affected := region
		if n.operation != nil {
			affected = n.operation.ComputeAffectedRegion(sinkPad, region)
		}
		n.invalidateCacheRegion(affected)
		n.Invalidate(affected)
	})
	n.mu.Lock()
	n.sourceUnsub[sinkPad] = unsub
	n.mu.Unlock()

	n.InvalidateHaveRect()
	have, _ := n.HaveRect()
	n.Invalidate(have)
	return nil
}

// Disconnect removes the connection feeding sinkPad, if any.
func (n *Node) Disconnect(sinkPad string) {
	n.mu.Lock()
	conn, ok := n.incoming[sinkPad]
	if ok {
		delete(n.incoming, sinkPad)
	}
	unsub, hasUnsub := n.sourceUnsub[sinkPad]
	if hasUnsub {
		delete(n.sourceUnsub, sinkPad)
	}
	n.mu.Unlock()
	if !ok {
		return
	}
	if hasUnsub && unsub != nil {
		unsub()
	}
	src := conn.SourceNode
	src.mu.Lock()
	for i, c := range src.outgoing {
		if c == conn {
			src.outgoing = append(src.outgoing[:i], src.outgoing[i+1:]...)
			break
		}
	}
	src.mu.Unlock()
}

// Producer returns the node+pad feeding the given input pad, if any.
func (n *Node) Producer(padName string) (*Node, string, bool) {
	n.mu.Lock()
	conn, ok := n.incoming[padName]
	n.mu.Unlock()
	if !ok {
		return nil, "", false
	}
	return conn.SourceNode, conn.SourcePad, true
}

// Consumers returns every (node, pad) pair whose input is fed from the
// given output pad.
func (n *Node) Consumers(outPad string) []*Connection {
	n.mu.Lock()
	defer n.mu.Unlock()
	var out []*Connection
	for _, c := range n.outgoing {
		if c.SourcePad == outPad {
			out = append(out, c)
		}
	}
	return out
}

func (n *Node) Sources() []*Node {
	n.mu.Lock()
	defer n.mu.Unlock()
	seen := make(map[*Node]bool)
	var out []*Node
	for _, c := range n.incoming {
		if !seen[c.SourceNode] {
			seen[c.SourceNode] = true
			out = append(out, c.SourceNode)
		}
	}
	return out
}

// wouldCycle reports whether connecting source -> sink would create a
// cycle, via a DFS from source back toward sink.
func wouldCycle(source, sink *Node) bool {
	if source == sink {
		return true
	}
	visited := make(map[*Node]bool)
	var dfs func(cur *Node) bool
	dfs = func(cur *Node) bool {
		if cur == sink {
			return true
		}
		if visited[cur] {
			return false
		}
		visited[cur] = true
		for _, s := range cur.Sources() {
			if dfs(s) {
				return true
			}
		}
		return false
	}
	return dfs(source)
}

// --- properties & invalidation -----------------------------------------

// onInvalidated subscribes fn to this node's invalidated signal and
// returns an unsubscribe function. Mirrors gegl_node.c's
// g_signal_connect(source, "invalidated", source_invalidated, sink_pad).
func (n *Node) onInvalidated(fn InvalidatedFunc) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.invalidatedSubs = append(n.invalidatedSubs, fn)
	idx := len(n.invalidatedSubs) - 1
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if idx < len(n.invalidatedSubs) {
			n.invalidatedSubs[idx] = nil
		}
	}
}

// OnInvalidated registers an external subscriber (e.g. a UI, a websocket
// broadcaster) to this node's invalidated signal.
func (n *Node) OnInvalidated(fn InvalidatedFunc) func() { return n.onInvalidated(fn) }

// OnComputed registers an external subscriber to this node's computed
// signal.
func (n *Node) OnComputed(fn ComputedFunc) func() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.computedSubs = append(n.computedSubs, fn)
	idx := len(n.computedSubs) - 1
	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		if idx < len(n.computedSubs) {
			n.computedSubs[idx] = nil
		}
	}
}

// Invalidate fires the invalidated signal for region, synchronously
// notifying subscribers (downstream sink pads and external observers
// alike) before returning, per spec §5's synchronous-delivery guarantee.
func (n *Node) Invalidate(region Rectangle) {
	n.mu.Lock()
	subs := make([]InvalidatedFunc, len(n.invalidatedSubs))
	copy(subs, n.invalidatedSubs)
	n.mu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(region)
		}
	}
}

// Computed fires the computed signal for region.
func (n *Node) Computed(region Rectangle) {
	n.mu.Lock()
	subs := make([]ComputedFunc, len(n.computedSubs))
	copy(subs, n.computedSubs)
	n.mu.Unlock()
	for _, fn := range subs {
		if fn != nil {
			fn(region)
		}
	}
}

func (n *Node) invalidateCacheRegion(region Rectangle) {
	n.mu.Lock()
	c := n.cache
	n.mu.Unlock()
	if c != nil {
		c.Invalidate(region)
	}
}

// InvalidateProperty emits "invalidated" for the union of the node's
// previous and new defined region, so downstream caches are purged (spec
// §4.1 set_property).
func (n *Node) InvalidateProperty(previous Rectangle) {
	n.InvalidateHaveRect()
	current := previous
	if n.operation != nil {
		current = n.operation.GetDefinedRegion()
	}
	affected := BoundingBox(previous, current)
	n.invalidateCacheRegion(affected)
	n.Invalidate(affected)
}

// --- per-evaluation contexts --------------------------------------------

func (n *Node) NewContext(evalID string) *NodeContext {
	n.mu.Lock()
	defer n.mu.Unlock()
	ctx := newNodeContext(evalID, n)
	n.contexts[evalID] = ctx
	return ctx
}

func (n *Node) Context(evalID string) (*NodeContext, bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	c, ok := n.contexts[evalID]
	return c, ok
}

func (n *Node) FreeContext(evalID string) {
	n.mu.Lock()
	c, ok := n.contexts[evalID]
	delete(n.contexts, evalID)
	n.mu.Unlock()
	if ok {
		c.release()
	}
}

// --- graph composition ---------------------------------------------------

// addChild makes child owned by this graph node (sets its parent and
// appends it to children). It does not check n.isGraph; callers must
// ensure MakeGraph was called first.
func (n *Node) addChild(child *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	child.parent = n
	n.children = append(n.children, child)
}

func (n *Node) removeChild(child *Node) {
	n.mu.Lock()
	defer n.mu.Unlock()
	for i, c := range n.children {
		if c == child {
			n.children = append(n.children[:i], n.children[i+1:]...)
			break
		}
	}
}

// MakeGraph marks n as a graph-composition node. Children are
// added with Graph.AddChildOp.
func (n *Node) MakeGraph() { n.mu.Lock(); n.isGraph = true; n.mu.Unlock() }
