package domain

// Connection binds a source node's output pad to a sink node's input pad.
// Both pads must exist on their stated nodes for the lifetime of the
// connection; the connection appears exactly once in the source's
// outgoing list and the sink's incoming list.
type Connection struct {
	SourceNode *Node
	SourcePad  string
	SinkNode   *Node
	SinkPad    string
}
