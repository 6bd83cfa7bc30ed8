package cache

import (
	"cmp"
	"context"
	"fmt"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/dimgraph/pkg/config"
)

// Open builds the backend selected by cfg. The file backend uses
// defaultDir when cfg.Dir is empty.
func Open(ctx context.Context, cfg config.Cache, defaultDir string, logger *log.Logger) (Cache, error) {
	if logger == nil {
		logger = log.Default()
	}
	switch cfg.Backend {
	case config.BackendNone:
		return NewNullCache(), nil
	case "", config.BackendFile:
		dir := cmp.Or(cfg.Dir, defaultDir)
		if dir == "" {
			logger.Warn("no cache directory, caching disabled")
			return NewNullCache(), nil
		}
		logger.Debug("file cache", "dir", dir)
		return nonNil(NewFileCache(dir))
	case config.BackendRedis:
		logger.Debug("redis cache")
		return nonNil(NewRedisCache(ctx, cfg.RedisURL))
	case config.BackendMongo:
		logger.Debug("mongo cache", "database", cfg.MongoDatabase, "collection", cfg.MongoCollection)
		return nonNil(NewMongoCache(ctx, cfg.MongoURI, cfg.MongoDatabase, cfg.MongoCollection))
	default:
		return nil, fmt.Errorf("unknown cache backend %q", cfg.Backend)
	}
}

// nonNil converts a typed constructor result so that a failed constructor
// yields a nil interface rather than a typed nil.
func nonNil[C Cache](c C, err error) (Cache, error) {
	if err != nil {
		return nil, err
	}
	return c, nil
}
