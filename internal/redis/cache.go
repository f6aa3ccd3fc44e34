package redisclient

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

var ErrCacheMiss = errors.New("cache miss")

// AvailabilityCache stores computed free slot lists. Keys carry the snapshot
// version, so entries for stale data are never read and simply expire.
type AvailabilityCache struct {
	client *redis.Client
	ttl    time.Duration
}

func NewAvailabilityCache(client *redis.Client, ttl time.Duration) *AvailabilityCache {
	return &AvailabilityCache{client: client, ttl: ttl}
}

// AvailabilityKey identifies one doctor's free slots on a date for a given
// snapshot version and slot length.
func AvailabilityKey(version uint64, doctorID uuid.UUID, date string, slot time.Duration) string {
	return fmt.Sprintf("avail:%016x:%s:%s:%d", version, doctorID.String(), date, int(slot/time.Minute))
}

func (c *AvailabilityCache) Get(ctx context.Context, key string) ([]time.Time, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrCacheMiss
	}
	if err != nil {
		return nil, fmt.Errorf("get %s: %w", key, err)
	}
	slots, err := decodeSlots(raw)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return slots, nil
}

func (c *AvailabilityCache) Set(ctx context.Context, key string, slots []time.Time) error {
	raw, err := encodeSlots(slots)
	if err != nil {
		return err
	}
	if err := c.client.Set(ctx, key, raw, c.ttl).Err(); err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}

func encodeSlots(slots []time.Time) ([]byte, error) {
	if slots == nil {
		slots = []time.Time{}
	}
	return json.Marshal(slots)
}

func decodeSlots(raw []byte) ([]time.Time, error) {
	var slots []time.Time
	if err := json.Unmarshal(raw, &slots); err != nil {
		return nil, err
	}
	return slots, nil
}
