package redisstate

import (
	"MindProfile/internal/domain/repository"
	"MindProfile/internal/domain/schema"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const DefaultTTL = 24 * time.Hour

type SessionStateRepo struct {
	client *redis.Client
	ttl    time.Duration
}

var _ repository.SessionStateRepository = (*SessionStateRepo)(nil)

func NewSessionStateRepo(client *redis.Client, ttl time.Duration) *SessionStateRepo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SessionStateRepo{client: client, ttl: ttl}
}

func (r *SessionStateRepo) Get(ctx context.Context, id string) (schema.Session, bool, error) {
	v, err := r.client.Get(ctx, sessionKey(id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return schema.Session{}, false, nil
	}
	if err != nil {
		return schema.Session{}, false, err
	}

	var state schema.Session
	if err := json.Unmarshal(v, &state); err != nil {
		return schema.Session{}, false, fmt.Errorf("decode session %s: %w", id, err)
	}
	return state, true, nil
}

// Set stores the whole session and refreshes its TTL.
func (r *SessionStateRepo) Set(ctx context.Context, state schema.Session) error {
	b, err := json.Marshal(state)
	if err != nil {
		return err
	}
	return r.client.Set(ctx, sessionKey(state.ID), b, r.ttl).Err()
}

func (r *SessionStateRepo) Delete(ctx context.Context, id string) error {
	return r.client.Del(ctx, sessionKey(id)).Err()
}

func sessionKey(id string) string {
	return fmt.Sprintf("session:%s", id)
}
