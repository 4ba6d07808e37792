// Package engine orchestrates the four-phase evaluation pipeline spec §4
// describes (prepare, have-rect, need-rect, compute) on top of the
// generic traversal in internal/visitor, and implements the public
// blit/new_processor/get_bounding_box surface from spec §6.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/smilemakc/gegraph/internal/domain"
	"github.com/smilemakc/gegraph/internal/format"
	"github.com/smilemakc/gegraph/internal/infrastructure/monitoring"
)

// BlitFlag selects the cache interaction spec §6/§9(b) describes.
type BlitFlag int

const (
	BlitDefault BlitFlag = iota // direct: scale != 1 is rejected
	BlitCache                   // cache-backed: scale != 1 is accepted
	BlitDirty                   // like BlitCache, but first drops roi from the sink node's own cache
)

// Manager is the eval manager spec §2/§5 describes: it drives the four
// phases in order, enforces that ordering, and exposes the incremental
// work(progress) entry point an outer scheduler can interleave.
type Manager struct {
	bufSvc    domain.BufferService
	formatSvc domain.FormatService
	cacheNew  func() domain.Cache
	log       zerolog.Logger
	observer  monitoring.EvaluationObserver
	metrics   *monitoring.MetricsCollector

	mu        sync.Mutex
	evalCount int64
}

// Option configures a Manager at construction.
type Option func(*Manager)

func WithCacheFactory(f func() domain.Cache) Option {
	return func(m *Manager) { m.cacheNew = f }
}

func WithLogger(l zerolog.Logger) Option {
	return func(m *Manager) { m.log = l }
}

// WithObserver registers an observer (e.g. a websocket broadcaster) that
// is notified when each evaluation this manager drives starts, completes
// or fails, and of each node's process and cache outcome during compute.
func WithObserver(o monitoring.EvaluationObserver) Option {
	return func(m *Manager) { m.observer = o }
}

// WithMetrics attaches a metrics collector that tallies evaluation and
// per-node process/cache outcomes.
func WithMetrics(c *monitoring.MetricsCollector) Option {
	return func(m *Manager) { m.metrics = c }
}

// WithFormatService overrides the pixel format negotiation/conversion
// collaborator Prepare and Blit use. Defaults to format.NewService().
func WithFormatService(f domain.FormatService) Option {
	return func(m *Manager) { m.formatSvc = f }
}

func New(bufSvc domain.BufferService, opts ...Option) *Manager {
	m := &Manager{bufSvc: bufSvc, formatSvc: format.NewService(), log: zerolog.Nop()}
	for _, o := range opts {
		o(m)
	}
	return m
}

// GetBoundingBox runs the prepare-then-have visitor pair on sink and
// returns its resulting have_rect.
func (m *Manager) GetBoundingBox(ctx context.Context, sink *domain.Node) (domain.Rectangle, error) {
	if err := m.Prepare(ctx, sink); err != nil {
		return domain.Empty, err
	}
	if err := m.HaveRect(ctx, sink); err != nil {
		return domain.Empty, err
	}
	r, _ := sink.HaveRect()
	return r, nil
}

// newEvalID mints a fresh evaluation id.
func (m *Manager) newEvalID() string {
	return uuid.NewString()
}

// Evaluate runs all four phases for roi against sink and returns the
// produced output buffer. This is the synchronous equivalent of
// new_processor(...).work(1.0) run to completion.
func (m *Manager) Evaluate(ctx context.Context, sink *domain.Node, roi domain.Rectangle) (domain.Buffer, error) {
	p := m.NewProcessor(sink, roi)
	start := time.Now()
	if m.observer != nil {
		m.observer.OnEvaluationStarted(sink.ID(), p.evalID, roi)
	}
	for {
		done, err := p.Work(ctx)
		if err != nil {
			m.recordEvaluationOutcome(sink.ID(), time.Since(start), false)
			if m.observer != nil {
				m.observer.OnEvaluationFailed(sink.ID(), p.evalID, err, time.Since(start))
			}
			return nil, err
		}
		if done {
			break
		}
	}
	buf, err := p.Result()
	m.recordEvaluationOutcome(sink.ID(), time.Since(start), err == nil)
	if m.observer != nil {
		result := domain.Empty
		if buf != nil {
			result = buf.Region()
		}
		m.observer.OnEvaluationCompleted(sink.ID(), p.evalID, result, time.Since(start))
	}
	return buf, err
}

func (m *Manager) recordEvaluationOutcome(sinkID string, duration time.Duration, success bool) {
	if m.metrics != nil {
		m.metrics.RecordEvaluation(sinkID, duration, success)
	}
}

// Blit is the top-level "render this region" call. flags
// select direct vs cache-backed vs dirty-cache mode: BlitDefault with
// scale != 1 fails with a structural error; BlitCache and BlitDirty
// accept any scale. Blit does not check that a cache exists, and roi is
// always evaluated at scale 1 whatever scale is passed. Whether results
// are cached depends on WithCacheFactory, not on flags. The returned buffer is
// delivered in wantFormat: if the graph's own working format differs,
// the result is converted through the format service before returning.
func (m *Manager) Blit(ctx context.Context, sink *domain.Node, scale float64, roi domain.Rectangle, wantFormat string, flags BlitFlag) (domain.Buffer, error) {
	if scale != 1.0 && flags == BlitDefault {
		return nil, domain.NewDomainError(domain.ErrCodeStructural, "scale != 1 requires BlitCache or BlitDirty", nil)
	}
	if flags == BlitDirty {
		if c := sink.Cache(nil); c != nil {
			c.Invalidate(roi)
		}
	}
	buf, err := m.Evaluate(ctx, sink, roi)
	if err != nil {
		return nil, err
	}
	if buf == nil || wantFormat == "" || buf.Format() == wantFormat {
		return buf, nil
	}
	converted, cerr := m.deliverFormat(buf, wantFormat)
	buf.Release()
	if cerr != nil {
		return nil, cerr
	}
	return converted, nil
}

// deliverFormat converts buf, already produced in the graph's own working
// format, into wantFormat by round-tripping it through BufferService.Get
// (which itself calls FormatService.Convert) and BufferService.Decode, so
// spec §6's format negotiation actually runs the returned pixels through
// the format service rather than handing back whatever format the
// producing operation happened to compute in.
func (m *Manager) deliverFormat(buf domain.Buffer, wantFormat string) (domain.Buffer, error) {
	region := buf.Region()
	pf, err := m.formatSvc.ByName(wantFormat)
	if err != nil {
		return nil, err
	}
	if region.IsEmpty() {
		return m.bufSvc.Create(wantFormat, region), nil
	}
	rowBytes := region.Width * pf.BytesPerPixel()
	raw := make([]byte, rowBytes*region.Height)
	if err := m.bufSvc.Get(buf, 1.0, region, wantFormat, raw, rowBytes); err != nil {
		return nil, err
	}
	return m.bufSvc.Decode(wantFormat, region, raw, rowBytes)
}

func (m *Manager) incEvalCount() {
	m.mu.Lock()
	m.evalCount++
	m.mu.Unlock()
}

func (m *Manager) logPhase(phase string, evalID string, start time.Time) {
	m.log.Debug().Str("phase", phase).Str("eval_id", evalID).Dur("elapsed", time.Since(start)).Msg("phase complete")
}
