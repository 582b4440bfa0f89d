package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/verte-zerg/quizgem/internal/model"
)

// Backend names accepted by OpenBackend.
const (
	BackendSQLite = "sqlite"
	BackendRedis  = "redis"
	BackendMemory = "memory"
)

// OpenBackend opens the configured backend, sealing it when encryption is on.
func OpenBackend(ctx context.Context, cfg model.StorageConfig) (KV, error) {
	var (
		kv  KV
		err error
	)
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "", BackendSQLite:
		kv, err = Open(cfg.Path)
		if err != nil {
			return nil, fmt.Errorf("failed to open db: %w", err)
		}
	case BackendRedis:
		kv, err = OpenRedis(ctx, cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			return nil, fmt.Errorf("failed to connect to redis at %s: %w", cfg.RedisAddr, err)
		}
	case BackendMemory:
		kv = NewMemoryStore()
	default:
		return nil, fmt.Errorf("unknown storage backend %q (want sqlite, redis or memory)", cfg.Backend)
	}

	if !cfg.Encrypt {
		return kv, nil
	}
	key, err := LoadOrCreateKey(cfg.KeyPath)
	if err != nil {
		if cerr := kv.Close(); cerr != nil {
			// Best-effort close when the key is unusable.
			_ = cerr
		}
		return nil, err
	}
	return NewSealed(kv, key), nil
}
