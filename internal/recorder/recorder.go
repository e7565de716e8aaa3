package recorder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-tangra/go-tangra-displays/internal/collector"
	"github.com/go-tangra/go-tangra-displays/internal/convert"
	"github.com/go-tangra/go-tangra-displays/internal/logger"
	"github.com/go-tangra/go-tangra-displays/internal/store"
)

// Collector takes display inventories.
type Collector interface {
	Collect(ctx context.Context) (*collector.Inventory, error)
	CollectPhysical(ctx context.Context) (*collector.Inventory, error)
}

// Store persists snapshots.
type Store interface {
	Insert(ctx context.Context, rec *store.SnapshotRecord) (string, time.Time, error)
	Purge(ctx context.Context, olderThan time.Duration) (int64, error)
}

// Config holds recorder settings.
type Config struct {
	Interval        time.Duration
	RetentionDays   int
	PurgeInterval   time.Duration
	IncludePhysical bool
}

// Recorder periodically stores display snapshots.
type Recorder struct {
	cfg       Config
	collector Collector
	store     Store
}

// New returns a Recorder.
func New(cfg Config, c Collector, s Store) *Recorder {
	return &Recorder{cfg: cfg, collector: c, store: s}
}

// Run stores an initial snapshot, then one per interval, and purges
// expired snapshots when retention is enabled. It returns when ctx is
// cancelled.
func (r *Recorder) Run(ctx context.Context) error {
	if r.cfg.Interval <= 0 {
		return fmt.Errorf("interval must be positive, got %s", r.cfg.Interval)
	}

	if _, err := r.Snapshot(ctx); err != nil {
		return fmt.Errorf("initial snapshot: %w", err)
	}
	logger.Info("Initial snapshot stored; entering recorder mode", "interval", r.cfg.Interval)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		r.snapshotLoop(gctx)
		return nil
	})
	if r.cfg.RetentionDays > 0 && r.cfg.PurgeInterval > 0 {
		g.Go(func() error {
			r.purgeLoop(gctx)
			return nil
		})
	}

	err := g.Wait()
	logger.Info("Recorder shutting down")
	return err
}

// Snapshot collects and stores one inventory. A partial collection is
// stored and logged; only a store failure is returned.
func (r *Recorder) Snapshot(ctx context.Context) (string, error) {
	collect := r.collector.Collect
	if r.cfg.IncludePhysical {
		collect = r.collector.CollectPhysical
	}

	inv, err := collect(ctx)
	if err != nil {
		logger.Warn("Snapshot is partial", "err", err)
	}
	if inv == nil {
		return "", errors.Join(errors.New("no inventory collected"), err)
	}

	rec, err := convert.InventoryToRecord(inv)
	if err != nil {
		return "", err
	}

	id, _, err := r.store.Insert(ctx, rec)
	if err != nil {
		return "", err
	}
	logger.Debug("Snapshot stored", "id", id, "displays", len(inv.Displays))
	return id, nil
}

func (r *Recorder) snapshotLoop(ctx context.Context) {
	ticker := time.NewTicker(r.cfg.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := r.Snapshot(ctx); err != nil && ctx.Err() == nil {
				logger.Error("Snapshot failed", "err", err)
			}
		}
	}
}

func (r *Recorder) purgeLoop(ctx context.Context) {
	r.purge(ctx)

	ticker := time.NewTicker(r.cfg.PurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.purge(ctx)
		}
	}
}

func (r *Recorder) purge(ctx context.Context) {
	retention := time.Duration(r.cfg.RetentionDays) * 24 * time.Hour
	n, err := r.store.Purge(ctx, retention)
	if err != nil {
		if ctx.Err() == nil {
			logger.Error("Purge failed", "err", err)
		}
		return
	}
	if n > 0 {
		logger.Info("Purged expired snapshots", "count", n, "retention_days", r.cfg.RetentionDays)
	}
}
