package redis

import (
	"context"
	"testing"
	"time"

	"github.com/accesosen/sadi-client/internal/infrastructure/config"
)

func TestConnect_UnreachableStore(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := Connect(ctx, config.RedisConfig{Addr: "127.0.0.1:1", DB: 0})
	if err == nil {
		t.Fatal("expected an error dialing an unreachable session store")
	}
}
