package storage

import (
	"context"
	"database/sql"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"
)

// BunStore persists graph topology snapshots and the cache region index
// to Postgres via bun, following an InitSchema-then-RunInTx shape.
type BunStore struct {
	db *bun.DB
}

func NewBunStore(dsn string) *BunStore {
	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(dsn)))
	db := bun.NewDB(sqldb, pgdialect.New())
	return &BunStore{db: db}
}

func (s *BunStore) InitSchema(ctx context.Context) error {
	models := []any{
		(*GraphRecord)(nil),
		(*NodeRecord)(nil),
		(*ConnectionRecord)(nil),
		(*CacheTileRecord)(nil),
	}
	for _, model := range models {
		if _, err := s.db.NewCreateTable().Model(model).IfNotExists().Exec(ctx); err != nil {
			return err
		}
	}
	return nil
}

// SaveGraph replaces graph's nodes and connections atomically: the
// topology is always written whole, via a delete-children-then-reinsert
// pattern rather than diffing.
func (s *BunStore) SaveGraph(ctx context.Context, graph GraphRecord, nodes []NodeRecord, conns []ConnectionRecord) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(&graph).On("CONFLICT (id) DO UPDATE").Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*NodeRecord)(nil)).Where("graph_id = ?", graph.ID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*ConnectionRecord)(nil)).Where("graph_id = ?", graph.ID).Exec(ctx); err != nil {
			return err
		}
		if len(nodes) > 0 {
			if _, err := tx.NewInsert().Model(&nodes).Exec(ctx); err != nil {
				return err
			}
		}
		if len(conns) > 0 {
			if _, err := tx.NewInsert().Model(&conns).Exec(ctx); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *BunStore) LoadGraph(ctx context.Context, graphID string) (GraphRecord, []NodeRecord, []ConnectionRecord, error) {
	var graph GraphRecord
	if err := s.db.NewSelect().Model(&graph).Where("id = ?", graphID).Scan(ctx); err != nil {
		return GraphRecord{}, nil, nil, err
	}
	var nodes []NodeRecord
	if err := s.db.NewSelect().Model(&nodes).Where("graph_id = ?", graphID).Scan(ctx); err != nil {
		return GraphRecord{}, nil, nil, err
	}
	var conns []ConnectionRecord
	if err := s.db.NewSelect().Model(&conns).Where("graph_id = ?", graphID).Scan(ctx); err != nil {
		return GraphRecord{}, nil, nil, err
	}
	return graph, nodes, conns, nil
}

func (s *BunStore) ListGraphs(ctx context.Context) ([]GraphRecord, error) {
	var graphs []GraphRecord
	err := s.db.NewSelect().Model(&graphs).Order("created_at DESC").Scan(ctx)
	return graphs, err
}

func (s *BunStore) DeleteGraph(ctx context.Context, graphID string) error {
	return s.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewDelete().Model((*GraphRecord)(nil)).Where("id = ?", graphID).Exec(ctx); err != nil {
			return err
		}
		if _, err := tx.NewDelete().Model((*NodeRecord)(nil)).Where("graph_id = ?", graphID).Exec(ctx); err != nil {
			return err
		}
		_, err := tx.NewDelete().Model((*ConnectionRecord)(nil)).Where("graph_id = ?", graphID).Exec(ctx)
		return err
	})
}

func (s *BunStore) SaveCacheTile(ctx context.Context, tile CacheTileRecord) error {
	_, err := s.db.NewInsert().Model(&tile).On("CONFLICT (id) DO UPDATE").Exec(ctx)
	return err
}

func (s *BunStore) ListCacheTiles(ctx context.Context, nodeID string) ([]CacheTileRecord, error) {
	var tiles []CacheTileRecord
	err := s.db.NewSelect().Model(&tiles).Where("node_id = ?", nodeID).Scan(ctx)
	return tiles, err
}

func (s *BunStore) InvalidateCacheTiles(ctx context.Context, nodeID string) error {
	_, err := s.db.NewDelete().Model((*CacheTileRecord)(nil)).Where("node_id = ?", nodeID).Exec(ctx)
	return err
}

func (s *BunStore) Ping(ctx context.Context) error { return s.db.PingContext(ctx) }

func (s *BunStore) Close() error { return s.db.Close() }
