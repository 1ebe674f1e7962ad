package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"github.com/fastygo/tracker/internal/config"
	"github.com/fastygo/tracker/repository/docstore/pgstore"
)

// NewPool creates and validates a pgx connection pool.
func NewPool(ctx context.Context, cfg config.DatabaseConfig, logger *zap.Logger) (*pgxpool.Pool, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	pgxCfg, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, err
	}

	if cfg.MaxOpenConns > 0 {
		pgxCfg.MaxConns = int32(cfg.MaxOpenConns)
	}
	if cfg.MaxIdleConns > 0 {
		pgxCfg.MinConns = int32(cfg.MaxIdleConns)
	}
	if cfg.MaxConnLifetime > 0 {
		pgxCfg.MaxConnLifetime = cfg.MaxConnLifetime
	}

	pool, err := pgxpool.NewWithConfig(ctx, pgxCfg)
	if err != nil {
		return nil, err
	}

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}

	logger.Info("connected to postgres",
		zap.String("host", pgxCfg.ConnConfig.Host),
		zap.String("db", pgxCfg.ConnConfig.Database),
		zap.Int32("max_conns", pgxCfg.MaxConns))
	return pool, nil
}

// OpenStore applies pending migrations and returns the JSONB document store.
func OpenStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*pgstore.Database, error) {
	if err := RunMigrations(cfg, logger); err != nil {
		return nil, err
	}
	pool, err := NewPool(ctx, cfg.Database, logger)
	if err != nil {
		return nil, err
	}
	return pgstore.New(pool), nil
}
