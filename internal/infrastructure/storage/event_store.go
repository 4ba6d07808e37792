package storage

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"

	"github.com/smilemakc/gegraph/internal/domain"
)

// SignalEventType distinguishes the two signals a node ever fires (spec
// §6).
type SignalEventType string

const (
	SignalInvalidated SignalEventType = "invalidated"
	SignalComputed    SignalEventType = "computed"
)

// SignalEvent is a durable record of one invalidated/computed signal,
// logged against (graphID, nodeID) rather than a workflow/execution
// lifecycle.
type SignalEvent struct {
	ID       uuid.UUID
	GraphID  string
	NodeID   string
	EvalID   string
	Type     SignalEventType
	Region   domain.Rectangle
	Sequence int64
	At       time.Time
}

// SignalEventStore is the append/query contract both the in-memory and
// Postgres-backed implementations satisfy.
type SignalEventStore interface {
	Append(ctx context.Context, ev SignalEvent) error
	AppendBatch(ctx context.Context, evs []SignalEvent) error
	ListByNode(ctx context.Context, nodeID string) ([]SignalEvent, error)
	ListByGraph(ctx context.Context, graphID string) ([]SignalEvent, error)
	ListSince(ctx context.Context, nodeID string, sequence int64) ([]SignalEvent, error)
	Count(ctx context.Context, nodeID string) (int64, error)
}

// MemorySignalEventStore is an in-process SignalEventStore, the default
// for development and tests.
type MemorySignalEventStore struct {
	mu     sync.RWMutex
	byNode map[string][]SignalEvent
	seq    int64
}

func NewMemorySignalEventStore() *MemorySignalEventStore {
	return &MemorySignalEventStore{byNode: make(map[string][]SignalEvent)}
}

func (s *MemorySignalEventStore) Append(ctx context.Context, ev SignalEvent) error {
	return s.AppendBatch(ctx, []SignalEvent{ev})
}

func (s *MemorySignalEventStore) AppendBatch(ctx context.Context, evs []SignalEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ev := range evs {
		s.seq++
		ev.Sequence = s.seq
		if ev.At.IsZero() {
			ev.At = time.Now()
		}
		s.byNode[ev.NodeID] = append(s.byNode[ev.NodeID], ev)
	}
	return nil
}

func (s *MemorySignalEventStore) ListByNode(ctx context.Context, nodeID string) ([]SignalEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]SignalEvent(nil), s.byNode[nodeID]...), nil
}

func (s *MemorySignalEventStore) ListByGraph(ctx context.Context, graphID string) ([]SignalEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SignalEvent
	for _, evs := range s.byNode {
		for _, ev := range evs {
			if ev.GraphID == graphID {
				out = append(out, ev)
			}
		}
	}
	return out, nil
}

func (s *MemorySignalEventStore) ListSince(ctx context.Context, nodeID string, sequence int64) ([]SignalEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []SignalEvent
	for _, ev := range s.byNode[nodeID] {
		if ev.Sequence > sequence {
			out = append(out, ev)
		}
	}
	return out, nil
}

func (s *MemorySignalEventStore) Count(ctx context.Context, nodeID string) (int64, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return int64(len(s.byNode[nodeID])), nil
}

// signalEventRecord is the bun-mapped row for SignalEvent.
type signalEventRecord struct {
	bun.BaseModel `bun:"table:signal_events,alias:se"`

	ID       uuid.UUID `bun:"id,pk"`
	GraphID  string    `bun:"graph_id"`
	NodeID   string    `bun:"node_id"`
	EvalID   string    `bun:"eval_id"`
	Type     string    `bun:"type"`
	X        int       `bun:"x"`
	Y        int       `bun:"y"`
	Width    int        `bun:"width"`
	Height   int        `bun:"height"`
	Sequence int64     `bun:"sequence"`
	At       time.Time `bun:"at"`
}

func toRecord(ev SignalEvent) *signalEventRecord {
	return &signalEventRecord{
		ID: ev.ID, GraphID: ev.GraphID, NodeID: ev.NodeID, EvalID: ev.EvalID,
		Type: string(ev.Type), X: ev.Region.X, Y: ev.Region.Y,
		Width: ev.Region.Width, Height: ev.Region.Height,
		Sequence: ev.Sequence, At: ev.At,
	}
}

func (r *signalEventRecord) toEvent() SignalEvent {
	return SignalEvent{
		ID: r.ID, GraphID: r.GraphID, NodeID: r.NodeID, EvalID: r.EvalID,
		Type:     SignalEventType(r.Type),
		Region:   domain.Rectangle{X: r.X, Y: r.Y, Width: r.Width, Height: r.Height},
		Sequence: r.Sequence, At: r.At,
	}
}

// PostgresSignalEventStore is the bun/Postgres-backed SignalEventStore,
// used alongside BunStore in production deployments.
type PostgresSignalEventStore struct {
	db  *bun.DB
	seq int64
	mu  sync.Mutex
}

func NewPostgresSignalEventStore(db *bun.DB) *PostgresSignalEventStore {
	return &PostgresSignalEventStore{db: db}
}

func (s *PostgresSignalEventStore) InitSchema(ctx context.Context) error {
	_, err := s.db.NewCreateTable().Model((*signalEventRecord)(nil)).IfNotExists().Exec(ctx)
	return err
}

func (s *PostgresSignalEventStore) nextSequence(ctx context.Context, nodeID string) (int64, error) {
	count, err := s.db.NewSelect().Model((*signalEventRecord)(nil)).Where("node_id = ?", nodeID).Count(ctx)
	return int64(count) + 1, err
}

func (s *PostgresSignalEventStore) Append(ctx context.Context, ev SignalEvent) error {
	return s.AppendBatch(ctx, []SignalEvent{ev})
}

func (s *PostgresSignalEventStore) AppendBatch(ctx context.Context, evs []SignalEvent) error {
	if len(evs) == 0 {
		return nil
	}
	records := make([]*signalEventRecord, len(evs))
	for i, ev := range evs {
		if ev.ID == uuid.Nil {
			ev.ID = uuid.New()
		}
		if ev.At.IsZero() {
			ev.At = time.Now()
		}
		seq, err := s.nextSequence(ctx, ev.NodeID)
		if err != nil {
			return err
		}
		ev.Sequence = seq
		records[i] = toRecord(ev)
	}
	_, err := s.db.NewInsert().Model(&records).Exec(ctx)
	return err
}

func (s *PostgresSignalEventStore) ListByNode(ctx context.Context, nodeID string) ([]SignalEvent, error) {
	var records []signalEventRecord
	if err := s.db.NewSelect().Model(&records).Where("node_id = ?", nodeID).Order("sequence ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]SignalEvent, len(records))
	for i, r := range records {
		out[i] = r.toEvent()
	}
	return out, nil
}

func (s *PostgresSignalEventStore) ListByGraph(ctx context.Context, graphID string) ([]SignalEvent, error) {
	var records []signalEventRecord
	if err := s.db.NewSelect().Model(&records).Where("graph_id = ?", graphID).Order("at ASC").Scan(ctx); err != nil {
		return nil, err
	}
	out := make([]SignalEvent, len(records))
	for i, r := range records {
		out[i] = r.toEvent()
	}
	return out, nil
}

func (s *PostgresSignalEventStore) ListSince(ctx context.Context, nodeID string, sequence int64) ([]SignalEvent, error) {
	var records []signalEventRecord
	err := s.db.NewSelect().Model(&records).
		Where("node_id = ?", nodeID).
		Where("sequence > ?", sequence).
		Order("sequence ASC").
		Scan(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]SignalEvent, len(records))
	for i, r := range records {
		out[i] = r.toEvent()
	}
	return out, nil
}

func (s *PostgresSignalEventStore) Count(ctx context.Context, nodeID string) (int64, error) {
	count, err := s.db.NewSelect().Model((*signalEventRecord)(nil)).Where("node_id = ?", nodeID).Count(ctx)
	return int64(count), err
}

// SnapshotStore persists periodic snapshots of one node's cache tile
// index (its CacheTileRecords), tagged with the node's event count at
// snapshot time, and returns the latest one per node.
type SnapshotStore interface {
	SaveSnapshot(ctx context.Context, nodeID string, sequence int64, tiles []CacheTileRecord) error
	GetLatestSnapshot(ctx context.Context, nodeID string) (int64, []CacheTileRecord, error)
}

// SignalEventStoreWithSnapshots wraps a SignalEventStore and periodically
// snapshots a node's cache tile index every snapshotInterval events.
type SignalEventStoreWithSnapshots struct {
	SignalEventStore
	snapshots        SnapshotStore
	snapshotInterval int64
	tileSource       func(nodeID string) []CacheTileRecord
}

func NewSignalEventStoreWithSnapshots(store SignalEventStore, snapshots SnapshotStore, interval int64, tileSource func(nodeID string) []CacheTileRecord) *SignalEventStoreWithSnapshots {
	return &SignalEventStoreWithSnapshots{
		SignalEventStore: store, snapshots: snapshots,
		snapshotInterval: interval, tileSource: tileSource,
	}
}

func (s *SignalEventStoreWithSnapshots) Append(ctx context.Context, ev SignalEvent) error {
	if err := s.SignalEventStore.Append(ctx, ev); err != nil {
		return err
	}
	return s.maybeSnapshot(ctx, ev.NodeID)
}

func (s *SignalEventStoreWithSnapshots) AppendBatch(ctx context.Context, evs []SignalEvent) error {
	if err := s.SignalEventStore.AppendBatch(ctx, evs); err != nil {
		return err
	}
	touched := make(map[string]bool)
	for _, ev := range evs {
		touched[ev.NodeID] = true
	}
	for nodeID := range touched {
		if err := s.maybeSnapshot(ctx, nodeID); err != nil {
			return err
		}
	}
	return nil
}

func (s *SignalEventStoreWithSnapshots) maybeSnapshot(ctx context.Context, nodeID string) error {
	if s.snapshotInterval <= 0 || s.tileSource == nil {
		return nil
	}
	count, err := s.Count(ctx, nodeID)
	if err != nil {
		return err
	}
	if count%s.snapshotInterval != 0 {
		return nil
	}
	return s.snapshots.SaveSnapshot(ctx, nodeID, count, s.tileSource(nodeID))
}

// MemorySnapshotStore is the in-process SnapshotStore.
type MemorySnapshotStore struct {
	mu    sync.RWMutex
	latest map[string]struct {
		sequence int64
		tiles    []CacheTileRecord
	}
}

func NewMemorySnapshotStore() *MemorySnapshotStore {
	return &MemorySnapshotStore{latest: make(map[string]struct {
		sequence int64
		tiles    []CacheTileRecord
	})}
}

func (ss *MemorySnapshotStore) SaveSnapshot(ctx context.Context, nodeID string, sequence int64, tiles []CacheTileRecord) error {
	ss.mu.Lock()
	defer ss.mu.Unlock()
	ss.latest[nodeID] = struct {
		sequence int64
		tiles    []CacheTileRecord
	}{sequence, append([]CacheTileRecord(nil), tiles...)}
	return nil
}

func (ss *MemorySnapshotStore) GetLatestSnapshot(ctx context.Context, nodeID string) (int64, []CacheTileRecord, error) {
	ss.mu.RLock()
	defer ss.mu.RUnlock()
	snap, ok := ss.latest[nodeID]
	if !ok {
		return 0, nil, nil
	}
	return snap.sequence, snap.tiles, nil
}
