package snapshot

import (
	"context"
	"fmt"
	"log"
	"strconv"

	"github.com/redis/go-redis/v9"

	"intervalTimerService/internal/clock"
)

// Key is the Redis hash holding the interval timer snapshot
const Key = "intervalTimer:snapshot"

// Hash fields
const (
	FieldKind           = "kind"
	FieldMinutes        = "time-minutes"
	FieldSeconds        = "time-seconds"
	FieldIntervalsTotal = "intervals-total"
	FieldIntervalsSet   = "intervals-set"
)

// RedisStore persists snapshots in a Redis hash
type RedisStore struct {
	client *redis.Client
	key    string
}

// NewRedisStore connects to Redis at addr
func NewRedisStore(ctx context.Context, addr string) (*RedisStore, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: "", // no password set
		DB:       0,  // use default DB
	})

	if _, err := client.Ping(ctx).Result(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}

	log.Printf("✅ Connected to Redis at %s", addr)
	return NewRedisStoreFromClient(client), nil
}

// NewRedisStoreFromClient wraps an existing client
func NewRedisStoreFromClient(client *redis.Client) *RedisStore {
	return &RedisStore{client: client, key: Key}
}

// Client exposes the underlying client so other components can share the connection
func (rs *RedisStore) Client() *redis.Client {
	return rs.client
}

// Close closes the Redis connection
func (rs *RedisStore) Close() error {
	return rs.client.Close()
}

// Save writes the snapshot
func (rs *RedisStore) Save(ctx context.Context, s clock.Snapshot) error {
	if err := rs.client.HSet(ctx, rs.key, Encode(s)).Err(); err != nil {
		return fmt.Errorf("failed to save snapshot to Redis: %w", err)
	}
	return nil
}

// Load reads the snapshot. ok is false when nothing usable is stored.
func (rs *RedisStore) Load(ctx context.Context) (s clock.Snapshot, ok bool, err error) {
	fields, err := rs.client.HGetAll(ctx, rs.key).Result()
	if err != nil {
		return clock.Snapshot{}, false, fmt.Errorf("failed to load snapshot from Redis: %w", err)
	}
	if len(fields) == 0 {
		return clock.Snapshot{}, false, nil
	}

	s, ok = Decode(fields)
	if !ok {
		log.Printf("⚠️ Ignoring invalid snapshot in Redis: %v", fields)
	}
	return s, ok, nil
}

// Clear deletes the snapshot
func (rs *RedisStore) Clear(ctx context.Context) error {
	return rs.client.Del(ctx, rs.key).Err()
}

// Encode flattens a snapshot into hash fields
func Encode(s clock.Snapshot) map[string]interface{} {
	return map[string]interface{}{
		FieldKind:           string(s.Kind),
		FieldMinutes:        int(s.Minutes),
		FieldSeconds:        int(s.Seconds),
		FieldIntervalsTotal: s.FocusIntervals.Total,
		FieldIntervalsSet:   s.FocusIntervals.Set,
	}
}

// Decode rebuilds a snapshot from hash fields. Any missing or invalid field
// makes the whole snapshot unusable.
func Decode(fields map[string]string) (clock.Snapshot, bool) {
	kind, err := clock.ParseIntervalKind(fields[FieldKind])
	if err != nil {
		return clock.Snapshot{}, false
	}

	var values [4]int
	for i, name := range []string{FieldMinutes, FieldSeconds, FieldIntervalsTotal, FieldIntervalsSet} {
		raw, present := fields[name]
		if !present {
			return clock.Snapshot{}, false
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return clock.Snapshot{}, false
		}
		values[i] = n
	}

	s := clock.Snapshot{
		Kind:           kind,
		Minutes:        clock.Minutes(values[0]),
		Seconds:        clock.Seconds(values[1]),
		FocusIntervals: clock.FocusIntervals{Total: values[2], Set: values[3]},
	}
	if err := s.Validate(); err != nil {
		return clock.Snapshot{}, false
	}
	return s, true
}
