package storage

import (
	"context"
	"sync"

	"github.com/smilemakc/gegraph/internal/domain"
)

// MemoryStore is the in-process Store, used in tests and for small
// single-process deployments where a Postgres instance is overkill. It
// holds graph topology rather than workflow/execution/trigger entities.
type MemoryStore struct {
	mu     sync.RWMutex
	graphs map[string]GraphRecord
	nodes  map[string][]NodeRecord // graphID -> nodes
	conns  map[string][]ConnectionRecord
	tiles  map[string][]CacheTileRecord // nodeID -> tiles
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		graphs: make(map[string]GraphRecord),
		nodes:  make(map[string][]NodeRecord),
		conns:  make(map[string][]ConnectionRecord),
		tiles:  make(map[string][]CacheTileRecord),
	}
}

func (s *MemoryStore) SaveGraph(ctx context.Context, graph GraphRecord, nodes []NodeRecord, conns []ConnectionRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.graphs[graph.ID] = graph
	s.nodes[graph.ID] = append([]NodeRecord(nil), nodes...)
	s.conns[graph.ID] = append([]ConnectionRecord(nil), conns...)
	return nil
}

func (s *MemoryStore) LoadGraph(ctx context.Context, graphID string) (GraphRecord, []NodeRecord, []ConnectionRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	graph, ok := s.graphs[graphID]
	if !ok {
		return GraphRecord{}, nil, nil, domain.NewDomainError(domain.ErrCodeStructural, "graph not found: "+graphID, nil)
	}
	return graph, s.nodes[graphID], s.conns[graphID], nil
}

func (s *MemoryStore) ListGraphs(ctx context.Context) ([]GraphRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]GraphRecord, 0, len(s.graphs))
	for _, g := range s.graphs {
		out = append(out, g)
	}
	return out, nil
}

func (s *MemoryStore) DeleteGraph(ctx context.Context, graphID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.graphs, graphID)
	delete(s.nodes, graphID)
	delete(s.conns, graphID)
	return nil
}

func (s *MemoryStore) SaveCacheTile(ctx context.Context, tile CacheTileRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	tiles := s.tiles[tile.NodeID]
	for i, t := range tiles {
		if t.ID == tile.ID {
			tiles[i] = tile
			return nil
		}
	}
	s.tiles[tile.NodeID] = append(tiles, tile)
	return nil
}

func (s *MemoryStore) ListCacheTiles(ctx context.Context, nodeID string) ([]CacheTileRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]CacheTileRecord(nil), s.tiles[nodeID]...), nil
}

func (s *MemoryStore) InvalidateCacheTiles(ctx context.Context, nodeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.tiles, nodeID)
	return nil
}

func (s *MemoryStore) Ping(ctx context.Context) error { return nil }

func (s *MemoryStore) Close() error { return nil }
