package tokenstore

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Redis keeps a browser session's backend tokens server-side, scoped by the
// opaque session ID the BFF issues in its cookie. Both keys are written in
// one MSET and removed in one DEL so the pair always moves together.
type Redis struct {
	client *redis.Client
	sid    string
	ttl    time.Duration
}

func NewRedis(client *redis.Client, sessionID string, ttl time.Duration) *Redis {
	return &Redis{client: client, sid: sessionID, ttl: ttl}
}

func (r *Redis) Save(ctx context.Context, access, refresh string) error {
	pipe := r.client.TxPipeline()
	pipe.Set(ctx, r.key("access"), access, r.ttl)
	pipe.Set(ctx, r.key("refresh"), refresh, r.ttl)
	_, err := pipe.Exec(ctx)
	if err != nil {
		return fmt.Errorf("token save: %w", err)
	}
	return nil
}

func (r *Redis) Access(ctx context.Context) string {
	return r.get(ctx, "access")
}

func (r *Redis) Refresh(ctx context.Context) string {
	return r.get(ctx, "refresh")
}

func (r *Redis) Clear(ctx context.Context) error {
	return r.client.Del(ctx, r.key("access"), r.key("refresh")).Err()
}

func (r *Redis) get(ctx context.Context, which string) string {
	v, err := r.client.Get(ctx, r.key(which)).Result()
	if err != nil {
		return ""
	}
	return v
}

func (r *Redis) key(which string) string {
	return fmt.Sprintf("sadi:sess:%s:%s", r.sid, which)
}
