package storage

import "time"

// GraphRecordBuilder is a fluent constructor for GraphRecord.
type GraphRecordBuilder struct {
	rec GraphRecord
}

func NewGraphRecordBuilder() *GraphRecordBuilder {
	return &GraphRecordBuilder{rec: GraphRecord{CreatedAt: time.Now()}}
}
func (b *GraphRecordBuilder) ID(id string) *GraphRecordBuilder         { b.rec.ID = id; return b }
func (b *GraphRecordBuilder) Name(name string) *GraphRecordBuilder     { b.rec.Name = name; return b }
func (b *GraphRecordBuilder) CreatedAt(t time.Time) *GraphRecordBuilder {
	b.rec.CreatedAt = t
	return b
}
func (b *GraphRecordBuilder) Build() GraphRecord { return b.rec }

// NodeRecordBuilder is a fluent constructor for NodeRecord.
type NodeRecordBuilder struct {
	rec NodeRecord
}

func NewNodeRecordBuilder() *NodeRecordBuilder {
	return &NodeRecordBuilder{rec: NodeRecord{Properties: map[string]any{}, Enabled: true}}
}
func (b *NodeRecordBuilder) ID(id string) *NodeRecordBuilder             { b.rec.ID = id; return b }
func (b *NodeRecordBuilder) GraphID(id string) *NodeRecordBuilder        { b.rec.GraphID = id; return b }
func (b *NodeRecordBuilder) OperationType(t string) *NodeRecordBuilder   { b.rec.OperationType = t; return b }
func (b *NodeRecordBuilder) Enabled(e bool) *NodeRecordBuilder           { b.rec.Enabled = e; return b }
func (b *NodeRecordBuilder) Property(k string, v any) *NodeRecordBuilder {
	if b.rec.Properties == nil {
		b.rec.Properties = map[string]any{}
	}
	b.rec.Properties[k] = v
	return b
}
func (b *NodeRecordBuilder) Build() NodeRecord { return b.rec }

// ConnectionRecordBuilder is a fluent constructor for ConnectionRecord.
type ConnectionRecordBuilder struct {
	rec ConnectionRecord
}

func NewConnectionRecordBuilder() *ConnectionRecordBuilder {
	return &ConnectionRecordBuilder{}
}
func (b *ConnectionRecordBuilder) ID(id string) *ConnectionRecordBuilder      { b.rec.ID = id; return b }
func (b *ConnectionRecordBuilder) GraphID(id string) *ConnectionRecordBuilder { b.rec.GraphID = id; return b }
func (b *ConnectionRecordBuilder) Source(nodeID, pad string) *ConnectionRecordBuilder {
	b.rec.SourceNodeID, b.rec.SourcePad = nodeID, pad
	return b
}
func (b *ConnectionRecordBuilder) Sink(nodeID, pad string) *ConnectionRecordBuilder {
	b.rec.SinkNodeID, b.rec.SinkPad = nodeID, pad
	return b
}
func (b *ConnectionRecordBuilder) Build() ConnectionRecord { return b.rec }

// CacheTileRecordBuilder is a fluent constructor for CacheTileRecord.
type CacheTileRecordBuilder struct {
	rec CacheTileRecord
}

func NewCacheTileRecordBuilder() *CacheTileRecordBuilder {
	return &CacheTileRecordBuilder{rec: CacheTileRecord{UpdatedAt: time.Now()}}
}
func (b *CacheTileRecordBuilder) ID(id string) *CacheTileRecordBuilder     { b.rec.ID = id; return b }
func (b *CacheTileRecordBuilder) NodeID(id string) *CacheTileRecordBuilder { b.rec.NodeID = id; return b }
func (b *CacheTileRecordBuilder) Region(x, y, w, h int) *CacheTileRecordBuilder {
	b.rec.X, b.rec.Y, b.rec.Width, b.rec.Height = x, y, w, h
	return b
}
func (b *CacheTileRecordBuilder) Format(f string) *CacheTileRecordBuilder { b.rec.Format = f; return b }
func (b *CacheTileRecordBuilder) UpdatedAt(t time.Time) *CacheTileRecordBuilder {
	b.rec.UpdatedAt = t
	return b
}
func (b *CacheTileRecordBuilder) Build() CacheTileRecord { return b.rec }
