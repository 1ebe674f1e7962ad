package monitor

import (
	"context"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// Pinger is any backing service that can report reachability.
type Pinger interface {
	Ping(ctx context.Context) error
}

// BufferProbe reports on the local write buffer.
type BufferProbe interface {
	Ping() error
	Size() (int, error)
}

// Targets lists what the monitor checks. Cache and Buffer are optional.
type Targets struct {
	Store       Pinger
	StoreDriver string
	Cache       Pinger
	Buffer      BufferProbe
}

type Monitor struct {
	targets Targets

	status   Status
	mu       sync.RWMutex
	interval time.Duration
	stopCh   chan struct{}
	stopOnce sync.Once
	logger   *zap.Logger
}

func New(targets Targets, interval time.Duration, logger *zap.Logger) *Monitor {
	if interval <= 0 {
		interval = 10 * time.Second
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		targets:  targets,
		interval: interval,
		stopCh:   make(chan struct{}),
		logger:   logger,
	}
}

func (m *Monitor) Start() {
	go m.loop()
}

func (m *Monitor) Stop() {
	m.stopOnce.Do(func() { close(m.stopCh) })
}

// IsOnline reports whether the document store answered the last check.
// The cache is not required; reads fall through to the store without it.
func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Store
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

func (m *Monitor) loop() {
	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()

	m.Refresh(context.Background())
	for {
		select {
		case <-ticker.C:
			m.Refresh(context.Background())
		case <-m.stopCh:
			return
		}
	}
}

// Refresh runs every check concurrently and publishes the result.
func (m *Monitor) Refresh(ctx context.Context) Status {
	status := Status{StoreDriver: m.targets.StoreDriver}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		status.Store = m.ping(gctx, "store", m.targets.Store, 3*time.Second)
		return nil
	})
	if m.targets.Cache != nil {
		g.Go(func() error {
			ok := m.ping(gctx, "redis", m.targets.Cache, 2*time.Second)
			status.Redis = &ok
			return nil
		})
	}
	g.Go(func() error {
		status.Buffer, status.BufferSize = m.checkBuffer()
		return nil
	})
	_ = g.Wait()
	status.LastCheck = time.Now()

	m.mu.Lock()
	previous := m.status
	m.status = status
	m.mu.Unlock()

	if !previous.LastCheck.IsZero() && previous.Store != status.Store {
		if status.Store {
			m.logger.Info("document store back online", zap.String("driver", status.StoreDriver))
		} else {
			m.logger.Warn("document store offline", zap.String("driver", status.StoreDriver))
		}
	}
	return status
}

func (m *Monitor) ping(ctx context.Context, name string, target Pinger, timeout time.Duration) bool {
	if target == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := target.Ping(ctx); err != nil {
		m.logger.Debug("health check failed", zap.String("target", name), zap.Error(err))
		return false
	}
	return true
}

func (m *Monitor) checkBuffer() (bool, int) {
	if m.targets.Buffer == nil {
		return false, 0
	}
	if err := m.targets.Buffer.Ping(); err != nil {
		m.logger.Warn("buffer check failed", zap.Error(err))
		return false, 0
	}
	size, err := m.targets.Buffer.Size()
	if err != nil {
		m.logger.Warn("buffer size check failed", zap.Error(err))
		return false, size
	}
	return true, size
}
