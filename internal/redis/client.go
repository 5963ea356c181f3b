package redisclient

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pegasus-health/hospital-booking/internal/config"
)

// NewRedisClient connects with the shared configuration and verifies the
// server answers before handing the client out. The pool has to cover one
// connection per in-flight booking lock, so its size is configured
// (REDIS_POOL_SIZE) alongside the pgx pool ceiling.
func NewRedisClient(cfg config.Config) (*redis.Client, error) {
	poolSize := cfg.RedisPoolSize
	if poolSize < 1 {
		poolSize = 1
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		Username:     cfg.RedisUsername,
		Password:     cfg.RedisPassword,
		DB:           0,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
		PoolSize:     poolSize,
		MinIdleConns: 1,
	})

	pingCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	return rdb, nil
}
