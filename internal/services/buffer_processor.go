package services

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/domain"
	"github.com/fastygo/tracker/internal/infrastructure/buffer"
)

// ConnectionHealth abstracts the connection monitor functionality.
type ConnectionHealth interface {
	IsOnline() bool
}

// Replayer re-executes a buffered write. usecase.Dispatcher satisfies it.
type Replayer interface {
	Replay(ctx context.Context, entity, operation string, payload []byte) error
}

// ProcessorConfig controls how frequently the buffer is drained and pruned.
type ProcessorConfig struct {
	Interval        time.Duration
	CleanupInterval time.Duration
	Retention       time.Duration
	BatchSize       int
	MaxRetries      int
}

// BufferProcessor replays buffered writes once the document store is reachable again.
type BufferProcessor struct {
	store    *buffer.Store
	monitor  ConnectionHealth
	replayer Replayer
	logger   *zap.Logger
	cron     *cron.Cron
	cfg      ProcessorConfig
	now      func() time.Time
}

func NewBufferProcessor(
	store *buffer.Store,
	monitor ConnectionHealth,
	replayer Replayer,
	logger *zap.Logger,
	cfg ProcessorConfig,
) *BufferProcessor {
	if cfg.Interval <= 0 {
		cfg.Interval = 30 * time.Second
	}
	if cfg.CleanupInterval <= 0 {
		cfg.CleanupInterval = time.Hour
	}
	if cfg.Retention <= 0 {
		cfg.Retention = 72 * time.Hour
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 50
	}
	if cfg.MaxRetries <= 0 {
		cfg.MaxRetries = 3
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	bp := &BufferProcessor{
		store:    store,
		monitor:  monitor,
		replayer: replayer,
		logger:   logger,
		cfg:      cfg,
		cron:     cron.New(cron.WithSeconds()),
		now:      time.Now,
	}

	_, _ = bp.cron.AddFunc(every(cfg.Interval), func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Interval)
		defer cancel()
		if err := bp.Drain(ctx); err != nil {
			bp.logger.Error("buffer drain failed", zap.Error(err))
		}
	})
	_, _ = bp.cron.AddFunc(every(cfg.CleanupInterval), func() {
		if _, err := bp.Cleanup(); err != nil {
			bp.logger.Error("buffer cleanup failed", zap.Error(err))
		}
	})

	return bp
}

func every(d time.Duration) string {
	seconds := int(d.Seconds())
	if seconds < 1 {
		seconds = 1
	}
	return fmt.Sprintf("@every %ds", seconds)
}

// Start launches the cron scheduler.
func (bp *BufferProcessor) Start() {
	if bp == nil || bp.cron == nil {
		return
	}
	bp.cron.Start()
	bp.logger.Info("buffer processor started",
		zap.Duration("interval", bp.cfg.Interval),
		zap.Duration("retention", bp.cfg.Retention))
}

// Stop waits for running jobs or for ctx to expire.
func (bp *BufferProcessor) Stop(ctx context.Context) {
	if bp == nil || bp.cron == nil {
		return
	}
	stopCtx := bp.cron.Stop()
	select {
	case <-stopCtx.Done():
	case <-ctx.Done():
	}
	bp.logger.Info("buffer processor stopped")
}

// Drain replays one batch. It does nothing while the store is offline.
// Items that keep failing are dropped after MaxRetries attempts.
func (bp *BufferProcessor) Drain(ctx context.Context) error {
	if bp == nil || bp.store == nil {
		return nil
	}
	if bp.monitor != nil && !bp.monitor.IsOnline() {
		bp.logger.Debug("skipping buffer drain (offline)")
		return nil
	}

	items, err := bp.store.GetBatch(bp.cfg.BatchSize)
	if err != nil {
		return err
	}

	for _, item := range items {
		if err := ctx.Err(); err != nil {
			return err
		}
		log := bp.logger.With(
			zap.String("item_id", item.ID),
			zap.String("command", item.Entity+"."+item.Operation))

		if err := bp.replayer.Replay(ctx, item.Entity, item.Operation, item.Data); err != nil {
			item.Retries++
			if item.Retries >= bp.cfg.MaxRetries {
				log.Warn("dropping buffer item (max retries reached)", zap.Error(err))
				if err := bp.store.Remove(item.ID); err != nil {
					log.Warn("failed to remove buffer item", zap.Error(err))
				}
				continue
			}
			log.Error("failed to replay buffer item", zap.Int("retries", item.Retries), zap.Error(err))
			if err := bp.store.Requeue(item); err != nil {
				log.Error("failed to requeue buffer item", zap.Error(err))
			}
			continue
		}

		if err := bp.store.Remove(item.ID); err != nil {
			log.Warn("failed to purge replayed buffer item", zap.Error(err))
			continue
		}
		log.Info("buffer item replayed")
	}
	return nil
}

// Cleanup drops items older than the retention window.
func (bp *BufferProcessor) Cleanup() (int, error) {
	if bp == nil || bp.store == nil {
		return 0, nil
	}
	removed, err := bp.store.Cleanup(bp.now().Add(-bp.cfg.Retention))
	if err != nil {
		return 0, err
	}
	if removed > 0 {
		bp.logger.Warn("expired buffer items dropped", zap.Int("count", removed))
	}
	return removed, nil
}

// BufferOperation persists a write the document store rejected as unavailable.
func (bp *BufferProcessor) BufferOperation(ctx context.Context, item buffer.Item) error {
	if bp == nil || bp.store == nil {
		return domain.Unavailable("buffer processor not configured", nil)
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return bp.store.Enqueue(item)
}

// Size returns the number of buffered items.
func (bp *BufferProcessor) Size() int {
	if bp == nil || bp.store == nil {
		return 0
	}
	size, err := bp.store.Size()
	if err != nil {
		return 0
	}
	return size
}
