package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"shopfront/internal/config"
)

// NewRedisClient connects the client that backs guest carts, the category
// cache and the event stream. name shows up in CLIENT LIST so api and
// worker connections can be told apart.
func NewRedisClient(ctx context.Context, name string, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:       cfg.Addr,
		Password:   cfg.Password,
		DB:         cfg.DB,
		ClientName: name,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping %s as %s: %w", cfg.Addr, name, err)
	}

	return client, nil
}
