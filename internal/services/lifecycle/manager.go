package lifecycle

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"slices"
	"sync"
	"syscall"
	"time"

	"go.uber.org/multierr"
	"go.uber.org/zap"
)

// Stage groups components that stop together. Lower stages stop first.
type Stage int

const (
	// StageIngress stops accepting requests.
	StageIngress Stage = iota
	// StageWorkers drains background loops such as the buffer processor and the monitor.
	StageWorkers
	// StageStorage closes the buffer file, the cache client and the document store.
	StageStorage
)

func (s Stage) String() string {
	switch s {
	case StageIngress:
		return "ingress"
	case StageWorkers:
		return "workers"
	case StageStorage:
		return "storage"
	default:
		return fmt.Sprintf("stage(%d)", int(s))
	}
}

// Closer releases one component within the shutdown deadline.
type Closer func(ctx context.Context) error

type component struct {
	name  string
	stage Stage
	seq   int
	close Closer
}

// Manager tears the server down stage by stage once a termination signal arrives.
type Manager struct {
	grace   time.Duration
	signals []os.Signal
	logger  *zap.Logger

	mu         sync.Mutex
	components []component
	done       bool
}

// New returns a manager whose whole shutdown must finish within grace.
// Without explicit signals it reacts to SIGINT and SIGTERM.
func New(grace time.Duration, logger *zap.Logger, signals ...os.Signal) *Manager {
	if grace <= 0 {
		grace = 15 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(signals) == 0 {
		signals = []os.Signal{syscall.SIGINT, syscall.SIGTERM}
	}
	return &Manager{grace: grace, signals: signals, logger: logger}
}

// Add registers a component. Within a stage, later registrations close first.
func (m *Manager) Add(stage Stage, name string, fn Closer) {
	if fn == nil {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.components = append(m.components, component{
		name:  name,
		stage: stage,
		seq:   len(m.components),
		close: fn,
	})
}

// Watch returns a context cancelled on the first termination signal or when parent ends.
// The cause of a signal cancellation names the signal.
func (m *Manager) Watch(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancelCause(parent)
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, m.signals...)

	go func() {
		defer signal.Stop(sigCh)
		select {
		case sig := <-sigCh:
			m.logger.Info("shutdown signal received", zap.Stringer("signal", sig))
			cancel(fmt.Errorf("lifecycle: received %s", sig))
		case <-ctx.Done():
		}
	}()
	return ctx, func() { cancel(context.Canceled) }
}

// Shutdown closes every component, ingress first and storage last, and keeps going
// past failures. Only the first call does any work.
func (m *Manager) Shutdown(ctx context.Context) error {
	m.mu.Lock()
	if m.done {
		m.mu.Unlock()
		return nil
	}
	m.done = true
	order := slices.Clone(m.components)
	m.mu.Unlock()

	slices.SortFunc(order, func(a, b component) int {
		if a.stage != b.stage {
			return int(a.stage) - int(b.stage)
		}
		return b.seq - a.seq
	})

	ctx, cancel := context.WithTimeout(ctx, m.grace)
	defer cancel()

	started := time.Now()
	var result error
	for _, c := range order {
		begin := time.Now()
		err := c.close(ctx)
		fields := []zap.Field{
			zap.String("component", c.name),
			zap.Stringer("stage", c.stage),
			zap.Duration("took", time.Since(begin)),
		}
		if err != nil {
			m.logger.Error("component stop failed", append(fields, zap.Error(err))...)
			result = multierr.Append(result, fmt.Errorf("%s: %w", c.name, err))
			continue
		}
		m.logger.Info("component stopped", fields...)
	}
	m.logger.Info("shutdown finished",
		zap.Int("components", len(order)),
		zap.Int("failed", len(multierr.Errors(result))),
		zap.Duration("took", time.Since(started)))
	return result
}
