package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Vodeneev/raceodds/internal/pkg/config"
	"github.com/Vodeneev/raceodds/internal/pkg/enums"
	"github.com/Vodeneev/raceodds/internal/pkg/models"
	"github.com/Vodeneev/raceodds/internal/pkg/performance"
	"github.com/Vodeneev/raceodds/internal/pkg/validation"
)

var _ SnapshotCache = (*RedisSnapshotCache)(nil)

const snapshotKeyPrefix = "raceodds:latest:"

// RedisSnapshotCache stores the latest snapshot per series as JSON with a TTL
type RedisSnapshotCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSnapshotCache(cfg *config.RedisConfig) (*RedisSnapshotCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	// Check connection
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	return NewRedisSnapshotCacheWithClient(client, cfg.TTL), nil
}

// NewRedisSnapshotCacheWithClient wraps an existing client. ttl <= 0 means no expiry.
func NewRedisSnapshotCacheWithClient(client *redis.Client, ttl time.Duration) *RedisSnapshotCache {
	if ttl < 0 {
		ttl = 0
	}
	return &RedisSnapshotCache{client: client, ttl: ttl}
}

func snapshotKey(series enums.Series) string {
	return snapshotKeyPrefix + string(series)
}

// PutSnapshot caches snap under raceodds:latest:<series>. Empty snapshots never overwrite good data.
func (r *RedisSnapshotCache) PutSnapshot(ctx context.Context, snap *models.RaceOddsSnapshot) error {
	if snap.Empty() {
		return nil
	}
	if err := validation.ValidateSnapshot(snap); err != nil {
		return fmt.Errorf("refusing to cache %s snapshot: %w", snap.Series, err)
	}

	start := time.Now()
	err := r.put(ctx, snap)
	performance.GetTracker().RecordStoreOperation("redis", "store", snap.Series, time.Since(start), err)
	return err
}

func (r *RedisSnapshotCache) put(ctx context.Context, snap *models.RaceOddsSnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	if err := r.client.Set(ctx, snapshotKey(snap.Series), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache snapshot for %s: %w", snap.Series, err)
	}
	return nil
}

// Latest returns the cached snapshot for series, or nil if it is missing or expired
func (r *RedisSnapshotCache) Latest(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error) {
	start := time.Now()
	snap, err := r.latest(ctx, series)
	performance.GetTracker().RecordStoreOperation("redis", "latest", series, time.Since(start), err)
	return snap, err
}

func (r *RedisSnapshotCache) latest(ctx context.Context, series enums.Series) (*models.RaceOddsSnapshot, error) {
	data, err := r.client.Get(ctx, snapshotKey(series)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read cached snapshot for %s: %w", series, err)
	}

	var snap models.RaceOddsSnapshot
	if err := json.Unmarshal(data, &snap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal cached snapshot for %s: %w", series, err)
	}
	return &snap, nil
}

// Delete removes the cached snapshot of series
func (r *RedisSnapshotCache) Delete(ctx context.Context, series enums.Series) error {
	start := time.Now()
	err := r.client.Del(ctx, snapshotKey(series)).Err()
	if err != nil {
		err = fmt.Errorf("failed to delete cached snapshot for %s: %w", series, err)
	}
	performance.GetTracker().RecordStoreOperation("redis", "delete", series, time.Since(start), err)
	return err
}

// Ping checks the Redis connection
func (r *RedisSnapshotCache) Ping(ctx context.Context) error {
	return r.client.Ping(ctx).Err()
}

// Close closes connection to Redis
func (r *RedisSnapshotCache) Close() error {
	return r.client.Close()
}
