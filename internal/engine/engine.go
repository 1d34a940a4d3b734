package engine

import (
	"context"
	"encoding/json"
	"hash/fnv"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/MikeSquared-Agency/Compass/internal/config"
	"github.com/MikeSquared-Agency/Compass/internal/events"
	"github.com/MikeSquared-Agency/Compass/internal/insight"
	"github.com/MikeSquared-Agency/Compass/internal/scoring"
	"github.com/MikeSquared-Agency/Compass/internal/store"
)

// Engine keeps rankings fresh: analyses marked dirty by change events or
// the periodic sweep are rescored and the results published. Results are
// never written back to the store.
type Engine struct {
	store   store.Store
	events  events.Client
	insight insight.Client
	scorer  *scoring.Scorer
	cfg     *config.Config
	logger  *slog.Logger

	dirtyMu sync.Mutex
	dirty   map[uuid.UUID]bool

	// fingerprints dedupes publishes: an analysis whose snapshot hash is
	// unchanged since the last run is skipped.
	fingerprints map[uuid.UUID]uint64

	lastSweep time.Time

	stopOnce sync.Once
	stopCh   chan struct{}
	wg       sync.WaitGroup
}

func New(s store.Store, ev events.Client, ins insight.Client, cfg *config.Config, logger *slog.Logger) *Engine {
	sc := scoring.NewScorer(cfg.Policy(), cfg.Scoring.FrontierEnabled, logger)

	return &Engine{
		store:        s,
		events:       ev,
		insight:      ins,
		scorer:       sc,
		cfg:          cfg,
		logger:       logger,
		dirty:        make(map[uuid.UUID]bool),
		fingerprints: make(map[uuid.UUID]uint64),
		lastSweep:    time.Now(),
		stopCh:       make(chan struct{}),
	}
}

func (e *Engine) Start(ctx context.Context) {
	e.wg.Add(1)
	go e.sweepLoop(ctx)
}

func (e *Engine) Stop() {
	e.stopOnce.Do(func() { close(e.stopCh) })
	e.wg.Wait()
}

// MarkDirty queues an analysis for rescoring on the next sweep.
func (e *Engine) MarkDirty(id uuid.UUID) {
	e.dirtyMu.Lock()
	e.dirty[id] = true
	e.dirtyMu.Unlock()
}

func (e *Engine) sweepLoop(ctx context.Context) {
	defer e.wg.Done()
	ticker := time.NewTicker(e.cfg.SweepInterval())
	defer ticker.Stop()

	for {
		select {
		case <-e.stopCh:
			return
		case <-ctx.Done():
			return
		case <-ticker.C:
			e.sweep(ctx)
		}
	}
}

// sweep merges explicitly dirtied analyses with anything updated in the
// store since the last pass, then rescores the union.
func (e *Engine) sweep(ctx context.Context) {
	since := e.lastSweep
	e.lastSweep = time.Now()

	pending := e.takeDirty()

	ids, err := e.store.ListUpdatedSince(ctx, since)
	if err != nil {
		e.logger.Error("failed to list updated analyses", "error", err)
	}
	for _, id := range ids {
		pending[id] = true
	}

	if len(pending) == 0 {
		return
	}

	e.logger.Info("rescoring analyses", "count", len(pending))
	for id := range pending {
		if err := e.Rescore(ctx, id); err != nil {
			e.logger.Warn("rescore failed", "analysis_id", id, "error", err)
		}
	}

	e.publishStats(ctx)
}

// publishStats broadcasts service totals after a sweep that did work, so
// dashboards track the data the rescores were computed from.
func (e *Engine) publishStats(ctx context.Context) {
	if e.events == nil {
		return
	}
	stats, err := e.store.GetStats(ctx)
	if err != nil {
		e.logger.Warn("failed to fetch service stats", "error", err)
		return
	}
	if stats == nil {
		return
	}
	_ = e.events.Publish(events.SubjectScoreStats, events.StatsEvent{
		Draft:      stats.TotalDraft,
		Active:     stats.TotalActive,
		Archived:   stats.TotalArchived,
		TotalItems: stats.TotalItems,
		Timestamp:  time.Now(),
	})
}

func (e *Engine) takeDirty() map[uuid.UUID]bool {
	e.dirtyMu.Lock()
	defer e.dirtyMu.Unlock()
	pending := e.dirty
	e.dirty = make(map[uuid.UUID]bool)
	return pending
}

// Rescore recomputes one analysis and publishes the result. A snapshot
// identical to the previous run is skipped; an analysis with no options
// scores to nil and is skipped too.
func (e *Engine) Rescore(ctx context.Context, id uuid.UUID) error {
	snap, err := e.store.GetSnapshot(ctx, id)
	if err != nil {
		return err
	}
	if snap == nil {
		delete(e.fingerprints, id)
		return nil
	}

	fp := fingerprint(snap)
	if e.fingerprints[id] == fp {
		return nil
	}

	result := e.scorer.Evaluate(snap)
	if result == nil {
		e.fingerprints[id] = fp
		return nil
	}

	if e.insight != nil {
		if remarks, err := e.insight.Enrich(ctx, result); err != nil {
			e.logger.Warn("insight enrichment failed", "analysis_id", id, "error", err)
		} else if len(remarks) > 0 {
			result.Reasoning = append(result.Reasoning, remarks...)
		}
	}

	e.fingerprints[id] = fp

	if e.events != nil {
		_ = e.events.Publish(events.SubjectScoreUpdated(id.String()), events.ScoreUpdatedEvent{
			AnalysisID: id.String(),
			Result:     result,
			ComputedAt: time.Now(),
		})
	}

	e.logger.Info("analysis rescored",
		"analysis_id", id,
		"top_choice", result.TopChoice,
		"options", len(result.Options),
		"decisive", result.Decisive,
	)
	return nil
}

// SetupSubscriptions registers NATS subscriptions that dirty analyses
// when their rows or items change.
func (e *Engine) SetupSubscriptions() {
	if e.events == nil {
		return
	}

	markFromSubject := func(subject string, _ []byte) {
		parts := splitSubject(subject)
		if len(parts) < 3 {
			return
		}
		id, err := uuid.Parse(parts[2])
		if err != nil {
			e.logger.Warn("unparseable analysis id in subject", "subject", subject)
			return
		}
		e.MarkDirty(id)
	}

	_ = e.events.Subscribe("compass.analysis.*.created", markFromSubject)
	_ = e.events.Subscribe("compass.analysis.*.updated", markFromSubject)
	_ = e.events.Subscribe("compass.item.*.added", markFromSubject)
	_ = e.events.Subscribe("compass.item.*.updated", markFromSubject)
	_ = e.events.Subscribe("compass.item.*.removed", markFromSubject)

	// Deleted analyses go through the same dirty path: the next sweep
	// finds no snapshot and drops the stale fingerprint.
	_ = e.events.Subscribe("compass.analysis.*.deleted", markFromSubject)
}

// fingerprint hashes the JSON form of a snapshot. Marshal errors yield
// hash zero, which only ever forces an extra rescore.
func fingerprint(snap *scoring.Snapshot) uint64 {
	data, err := json.Marshal(snap)
	if err != nil {
		return 0
	}
	h := fnv.New64a()
	_, _ = h.Write(data)
	return h.Sum64()
}

func splitSubject(subject string) []string {
	var parts []string
	start := 0
	for i := 0; i < len(subject); i++ {
		if subject[i] == '.' {
			parts = append(parts, subject[start:i])
			start = i + 1
		}
	}
	parts = append(parts, subject[start:])
	return parts
}
