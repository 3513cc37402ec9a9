package app

import (
	"context"
	"database/sql"
	"time"

	"github.com/mygitvirtual012322/instaspy/internal/config"
	"github.com/mygitvirtual012322/instaspy/internal/logger"

	_ "github.com/lib/pq"
	goredis "github.com/redis/go-redis/v9"
)

// Infra holds the optional external backing services. Either field may
// be nil: the service falls back to the file ledger and the in-memory
// session store.
type Infra struct {
	DB    *sql.DB
	Redis *goredis.Client
}

func setupInfra(ctx context.Context, cfg config.Config) (*Infra, error) {
	infra := &Infra{}

	if cfg.DatabaseDSN != "" {
		sqlDB, err := sql.Open("postgres", cfg.DatabaseDSN)
		if err != nil {
			return nil, err
		}
		if err := sqlDB.PingContext(ctx); err != nil {
			return nil, err
		}
		infra.DB = sqlDB
		logger.Info("database ready", nil)
	}

	if cfg.RedisAddr != "" {
		client := goredis.NewClient(&goredis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})

		pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			return nil, err
		}
		infra.Redis = client
		logger.Info("redis ready", nil)
	}

	return infra, nil
}

func (i *Infra) close() error {
	var firstErr error
	if i.Redis != nil {
		if err := i.Redis.Close(); err != nil {
			firstErr = err
		}
	}
	if i.DB != nil {
		if err := i.DB.Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}
