// Package redis opens the BFF's session-store connection. The browser
// sessions (backend token pairs keyed by sadi_sid) live here, so the web
// process refuses to start if the store is unreachable.
package redis

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/accesosen/sadi-client/internal/infrastructure/config"
)

// pingTimeout bounds the startup reachability check only. Per-command
// deadlines afterwards come from the request contexts.
const pingTimeout = 5 * time.Second

// Connect dials the session store and verifies it answers before the BFF
// accepts traffic.
func Connect(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr: cfg.Addr,
		DB:   cfg.DB,
	})

	pingCtx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("session store ping %s: %w", cfg.Addr, err)
	}

	return client, nil
}
