package storage

import (
	"time"

	"github.com/uptrace/bun"
)

// GraphRecord is a persisted snapshot of one composed graph's identity.
// Topology lives in NodeRecord/ConnectionRecord; pixels never touch this
// store at all.
type GraphRecord struct {
	bun.BaseModel `bun:"table:graphs,alias:g"`

	ID        string    `bun:"id,pk"`
	Name      string    `bun:"name"`
	CreatedAt time.Time `bun:"created_at"`
}

// NodeRecord captures enough of one node to reconstruct it against the
// operation registry: which operation type built it, the properties it
// was constructed with, and whether it was disabled at snapshot time.
// Properties is an opaque property bag the caller supplies; this store
// never introspects operation internals.
type NodeRecord struct {
	bun.BaseModel `bun:"table:nodes,alias:n"`

	ID            string         `bun:"id,pk"`
	GraphID       string         `bun:"graph_id"`
	OperationType string         `bun:"operation_type"`
	Properties    map[string]any `bun:"properties,type:jsonb"`
	Enabled       bool           `bun:"enabled"`
}

// ConnectionRecord is one pad-to-pad wire between two nodes in the same
// graph.
type ConnectionRecord struct {
	bun.BaseModel `bun:"table:connections,alias:c"`

	ID           string `bun:"id,pk"`
	GraphID      string `bun:"graph_id"`
	SourceNodeID string `bun:"source_node_id"`
	SourcePad    string `bun:"source_pad"`
	SinkNodeID   string `bun:"sink_node_id"`
	SinkPad      string `bun:"sink_pad"`
}

// CacheTileRecord indexes one valid cached region for one node, so a
// process restarting can tell which regions still need recomputing
// before touching any pixel data.
type CacheTileRecord struct {
	bun.BaseModel `bun:"table:cache_tiles,alias:ct"`

	ID        string    `bun:"id,pk"`
	NodeID    string    `bun:"node_id"`
	X         int       `bun:"x"`
	Y         int       `bun:"y"`
	Width     int       `bun:"width"`
	Height    int       `bun:"height"`
	Format    string    `bun:"format"`
	UpdatedAt time.Time `bun:"updated_at"`
}
