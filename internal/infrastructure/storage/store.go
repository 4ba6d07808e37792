package storage

import "context"

// Store is the persistence contract both BunStore and MemoryStore
// satisfy: graph topology snapshots plus the cache region index. It
// intentionally never touches buffer pixel data.
type Store interface {
	SaveGraph(ctx context.Context, graph GraphRecord, nodes []NodeRecord, conns []ConnectionRecord) error
	LoadGraph(ctx context.Context, graphID string) (GraphRecord, []NodeRecord, []ConnectionRecord, error)
	ListGraphs(ctx context.Context) ([]GraphRecord, error)
	DeleteGraph(ctx context.Context, graphID string) error

	SaveCacheTile(ctx context.Context, tile CacheTileRecord) error
	ListCacheTiles(ctx context.Context, nodeID string) ([]CacheTileRecord, error)
	InvalidateCacheTiles(ctx context.Context, nodeID string) error

	Ping(ctx context.Context) error
	Close() error
}
