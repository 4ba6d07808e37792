package storage_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smilemakc/gegraph/internal/infrastructure/storage"
)

func TestMemoryStore_GraphRoundTrip(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()

	graphID := uuid.NewString()
	sourceID := uuid.NewString()
	filterID := uuid.NewString()

	graph := storage.NewGraphRecordBuilder().ID(graphID).Name("translate-demo").Build()
	nodes := []storage.NodeRecord{
		storage.NewNodeRecordBuilder().ID(sourceID).GraphID(graphID).OperationType("solid").
			Property("width", 128).Property("height", 128).Build(),
		storage.NewNodeRecordBuilder().ID(filterID).GraphID(graphID).OperationType("translate").
			Property("dx", 10).Property("dy", -5).Build(),
	}
	conns := []storage.ConnectionRecord{
		storage.NewConnectionRecordBuilder().ID(uuid.NewString()).GraphID(graphID).
			Source(sourceID, "output").Sink(filterID, "input").Build(),
	}

	require.NoError(t, store.SaveGraph(ctx, graph, nodes, conns))

	loadedGraph, loadedNodes, loadedConns, err := store.LoadGraph(ctx, graphID)
	require.NoError(t, err)
	assert.Equal(t, "translate-demo", loadedGraph.Name)
	assert.Len(t, loadedNodes, 2)
	assert.Len(t, loadedConns, 1)
	assert.Equal(t, sourceID, loadedConns[0].SourceNodeID)
	assert.Equal(t, filterID, loadedConns[0].SinkNodeID)

	graphs, err := store.ListGraphs(ctx)
	require.NoError(t, err)
	assert.Len(t, graphs, 1)

	require.NoError(t, store.DeleteGraph(ctx, graphID))
	_, _, _, err = store.LoadGraph(ctx, graphID)
	assert.Error(t, err)
}

func TestMemoryStore_GraphNotFound(t *testing.T) {
	store := storage.NewMemoryStore()
	_, _, _, err := store.LoadGraph(context.Background(), "missing")
	assert.Error(t, err)
}

func TestMemoryStore_CacheTiles(t *testing.T) {
	store := storage.NewMemoryStore()
	ctx := context.Background()
	nodeID := uuid.NewString()

	tile := storage.NewCacheTileRecordBuilder().ID(uuid.NewString()).NodeID(nodeID).
		Region(0, 0, 32, 32).Format("RGBA float").Build()
	require.NoError(t, store.SaveCacheTile(ctx, tile))

	// Saving a tile with the same ID again updates in place, not append.
	updated := tile
	updated.Width = 64
	require.NoError(t, store.SaveCacheTile(ctx, updated))

	tiles, err := store.ListCacheTiles(ctx, nodeID)
	require.NoError(t, err)
	require.Len(t, tiles, 1)
	assert.Equal(t, 64, tiles[0].Width)

	require.NoError(t, store.InvalidateCacheTiles(ctx, nodeID))
	tiles, err = store.ListCacheTiles(ctx, nodeID)
	require.NoError(t, err)
	assert.Empty(t, tiles)
}

func TestMemoryStore_Ping(t *testing.T) {
	store := storage.NewMemoryStore()
	assert.NoError(t, store.Ping(context.Background()))
	assert.NoError(t, store.Close())
}
