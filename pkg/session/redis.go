// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package session

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/AccelByte/extend-churn-dashboard/pkg/dashboard"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"
)

const (
	// KeyPrefix is the prefix for all dashboard session keys
	KeyPrefix = "churn_dashboard:session:"

	// maxUpdateAttempts bounds optimistic retries when concurrent updates collide.
	maxUpdateAttempts = 10
)

// RedisStore implements Store using Redis, one JSON snapshot per key.
type RedisStore struct {
	client *redis.Client
	cfg    RedisStoreConfig
}

type RedisStoreConfig struct {
	TTL time.Duration
}

// NewRedisStore creates a new Redis-backed session store.
func NewRedisStore(client *redis.Client, cfg RedisStoreConfig) *RedisStore {
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}

	return &RedisStore{
		client: client,
		cfg:    cfg,
	}
}

// Ping checks that Redis answers within pingTimeout.
func (r *RedisStore) Ping(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	if err := r.client.Ping(ctx).Err(); err != nil {
		logrus.Errorf("Redis health check failed: %v", err)
		return fmt.Errorf("session store unavailable: %w", err)
	}

	logrus.Debugf("Redis health check passed")
	return nil
}

// stringGetter is satisfied by both the client and a watched transaction.
type stringGetter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

// makeKey creates a Redis key for a session
func makeKey(id string) string {
	return fmt.Sprintf("%s%s", KeyPrefix, id)
}

func (r *RedisStore) Create(ctx context.Context) (string, dashboard.State, error) {
	id := newID()
	state := dashboard.NewState()

	data, err := json.Marshal(state)
	if err != nil {
		return "", dashboard.State{}, fmt.Errorf("failed to marshal session: %w", err)
	}

	ok, err := r.client.SetNX(ctx, makeKey(id), data, r.cfg.TTL).Result()
	if err != nil {
		logrus.Errorf("failed to create session %s: %v", id, err)
		return "", dashboard.State{}, fmt.Errorf("failed to create session: %w", err)
	}
	if !ok {
		return "", dashboard.State{}, fmt.Errorf("session %s already exists", id)
	}

	logrus.Infof("created session %s with TTL %v", id, r.cfg.TTL)
	return id, state, nil
}

func (r *RedisStore) Get(ctx context.Context, id string) (dashboard.State, error) {
	return r.read(ctx, r.client, id)
}

func (r *RedisStore) Update(ctx context.Context, id string, fn UpdateFunc) (dashboard.State, error) {
	key := makeKey(id)

	var next dashboard.State
	txf := func(tx *redis.Tx) error {
		current, err := r.read(ctx, tx, id)
		if err != nil {
			return err
		}

		next, err = fn(current)
		if err != nil {
			return err
		}

		data, err := json.Marshal(next)
		if err != nil {
			return fmt.Errorf("failed to marshal session: %w", err)
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, key, data, r.cfg.TTL)
			return nil
		})
		return err
	}

	for attempt := 1; attempt <= maxUpdateAttempts; attempt++ {
		err := r.client.Watch(ctx, txf, key)
		if err == nil {
			return next, nil
		}
		if !errors.Is(err, redis.TxFailedErr) {
			return dashboard.State{}, err
		}
		logrus.Debugf("session %s changed concurrently, retrying update (attempt %d/%d)", id, attempt, maxUpdateAttempts)
	}

	return dashboard.State{}, fmt.Errorf("failed to update session %s: too many concurrent updates", id)
}

func (r *RedisStore) Delete(ctx context.Context, id string) error {
	if err := r.client.Del(ctx, makeKey(id)).Err(); err != nil {
		logrus.Errorf("failed to delete session %s: %v", id, err)
		return fmt.Errorf("failed to delete session: %w", err)
	}

	logrus.Infof("deleted session %s", id)
	return nil
}

func (r *RedisStore) read(ctx context.Context, getter stringGetter, id string) (dashboard.State, error) {
	data, err := getter.Get(ctx, makeKey(id)).Result()
	if err == redis.Nil {
		return dashboard.State{}, ErrNotFound
	}
	if err != nil {
		logrus.Errorf("failed to get session %s: %v", id, err)
		return dashboard.State{}, fmt.Errorf("failed to get session: %w", err)
	}

	var state dashboard.State
	if err := json.Unmarshal([]byte(data), &state); err != nil {
		logrus.Errorf("failed to unmarshal session %s: %v", id, err)
		return dashboard.State{}, fmt.Errorf("failed to unmarshal session: %w", err)
	}

	return state, nil
}
