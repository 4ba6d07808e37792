package domain

import "context"

// nopOperation is the pass-through plumbing spec §4.2 calls a
// "proxynop": a Filter-variant operation whose output is exactly its
// input, used to expose a graph-composition node's child pads as if they
// belonged to a single node. It is not a user-facing operation and is
// never registered.
type nopOperation struct {
	node *Node
}

func (o *nopOperation) Variant() Variant { return VariantFilter }

func (o *nopOperation) Attach(n *Node) error {
	o.node = n
	n.AddPad(Input, "input")
	n.AddPad(Output, "output")
	return nil
}

func (o *nopOperation) Prepare(ctx context.Context) error {
	if src, srcPad, ok := o.node.Producer("input"); ok {
		if sp := src.Pad(srcPad); sp != nil {
			o.node.Pad("output").setFormat(sp.Format())
		}
	}
	return nil
}

func (o *nopOperation) GetDefinedRegion() Rectangle {
	if src, _, ok := o.node.Producer("input"); ok {
		r, _ := src.HaveRect()
		return r
	}
	return Empty
}

func (o *nopOperation) ComputeAffectedRegion(_ string, region Rectangle) Rectangle {
	return region
}

func (o *nopOperation) ComputeInputRequest(_ string, roi Rectangle) Rectangle {
	return roi
}

func (o *nopOperation) Detect(x, y int) *Node { return nil }

func (o *nopOperation) Process(ctx context.Context, evalCtx *NodeContext, outputPad string) bool {
	if b, ok := evalCtx.Slot("input"); ok {
		evalCtx.SetSlot(outputPad, b)
		return true
	}
	return true
}

// newProxy creates an unregistered pass-through node used as an input or
// output proxy for a graph-composition node.
func newProxy(id string) *Node {
	n, _ := New(id, &nopOperation{})
	return n
}

// Graph wraps a Node marked is_graph and manages its proxy children
//.
type Graph struct {
	*Node
	inputProxies  map[string]*Node
	outputProxies map[string]*Node
}

// NewGraph creates a graph-composition node with no pads of its own yet;
// pads are added lazily as callers request input/output proxies.
func NewGraph(id string) *Graph {
	n, _ := New(id, nil)
	n.MakeGraph()
	g := &Graph{Node: n, inputProxies: make(map[string]*Node), outputProxies: make(map[string]*Node)}
	return g
}

// AddChildOp creates a node wrapping op, owns it as a child of g, and
// returns it. The child's own connect/disconnect calls are unaffected by
// being a child; only invalidation propagation out of the graph is
// special-cased (via the output proxy).
func (g *Graph) AddChildOp(id string, op Operation) (*Node, error) {
	child, err := New(id, op)
	if err != nil {
		return nil, err
	}
	g.addChild(child)
	return child, nil
}

func (g *Graph) RemoveChild(child *Node) {
	g.removeChild(child)
}

// GetInputProxy returns (creating if necessary) the pass-through node
// that external connections to the graph's named input pad attach to.
func (g *Graph) GetInputProxy(padName string) *Node {
	if p, ok := g.inputProxies[padName]; ok {
		return p
	}
	proxy := newProxy("proxynop-input-" + padName)
	g.addChild(proxy)
	g.inputProxies[padName] = proxy
	g.AddPad(Input, padName)
	return proxy
}

// GetOutputProxy returns (creating if necessary) the pass-through node
// whose output is the graph's exposed output pad. Graph.Producer and the
// graph node's invalidated signal go through this node. The graph node
// itself has no operation, so defined-region, affected-region,
// input-request and process queries are not forwarded to it: the engine's
// have-rect phase gives the graph node an empty region and its compute
// phase skips it.
func (g *Graph) GetOutputProxy(padName string) *Node {
	if p, ok := g.outputProxies[padName]; ok {
		return p
	}
	proxy := newProxy("proxynop-output-" + padName)
	g.addChild(proxy)
	g.outputProxies[padName] = proxy
	g.AddPad(Output, padName)

	// Forward the proxy's invalidated signal out through the graph node
	// itself, matching gegl-node.c's graph_source_invalidated wiring.
	proxy.OnInvalidated(func(region Rectangle) {
		g.invalidateCacheRegion(region)
		g.Invalidate(region)
	})
	return proxy
}

// Producer overrides Node.Producer for graph pads: it traverses
// transparently into the subgraph through the matching output proxy.
func (g *Graph) Producer(padName string) (*Node, string, bool) {
	proxy, ok := g.outputProxies[padName]
	if !ok {
		return nil, "", false
	}
	if src, srcPad, ok := proxy.Producer("input"); ok {
		return src, srcPad, true
	}
	return proxy, "input", true
}
