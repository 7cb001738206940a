package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/lazypower/widgetry/internal/config"
	"github.com/lazypower/widgetry/internal/kv"
	kvredis "github.com/lazypower/widgetry/internal/kv/redis"
	"github.com/lazypower/widgetry/internal/store"
)

// openStore builds the configured persistence backend. The returned close
// func is never nil. where describes the backend for status lines.
func openStore(ctx context.Context, cfg config.Config) (s kv.Store, closeFn func() error, where string, err error) {
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return kv.NewMemory(), func() error { return nil }, "memory", nil

	case config.BackendRedis:
		rs := kvredis.New(cfg.Store.RedisAddr, cfg.Store.RedisPassword, cfg.Store.RedisDB,
			kvredis.WithPrefix(cfg.Store.Prefix))
		pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
		defer cancel()
		if err := rs.Ping(pingCtx); err != nil {
			rs.Close()
			return nil, nil, "", fmt.Errorf("connect redis %s: %w", cfg.Store.RedisAddr, err)
		}
		return rs, rs.Close, "redis://" + cfg.Store.RedisAddr, nil

	default:
		dbPath := cfg.Store.Path
		if dbPath == "" {
			dbPath, err = store.DefaultDBPath()
			if err != nil {
				return nil, nil, "", fmt.Errorf("resolve db path: %w", err)
			}
		}
		db, err := store.Open(dbPath)
		if err != nil {
			return nil, nil, "", fmt.Errorf("open database: %w", err)
		}
		return db, db.Close, dbPath, nil
	}
}
