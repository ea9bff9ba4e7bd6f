// Package cache keeps computed slot lists in Redis. Entries are advisory:
// booking always re-checks occupancy against the store.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// SlotCache stores slot lists per barber, date and duration. Every barber and
// date carries a generation; Invalidate bumps it, so a list computed under an
// older generation is never returned again.
type SlotCache interface {
	// Get looks up the list under the current generation and returns that
	// generation for a follow-up Set.
	Get(ctx context.Context, barberID, date string, durationMinutes int) ([]string, int64, bool, error)
	// Set stores slots under the generation Get reported before they were computed.
	Set(ctx context.Context, barberID, date string, generation int64, durationMinutes int, slots []string) error
	// Invalidate drops every cached duration for the barber's date.
	Invalidate(ctx context.Context, barberID, date string) error
}

type redisSlotCache struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

func NewRedisSlotCache(client *redis.Client, ttl time.Duration) SlotCache {
	return &redisSlotCache{client: client, ttl: ttl, prefix: "slots"}
}

func (c *redisSlotCache) entryKey(barberID, date string, generation int64, durationMinutes int) string {
	return fmt.Sprintf("%s:%s:%s:g%d:%d", c.prefix, barberID, date, generation, durationMinutes)
}

func (c *redisSlotCache) generationKey(barberID, date string) string {
	return fmt.Sprintf("%s:%s:%s:gen", c.prefix, barberID, date)
}

// generationTTL outlives every entry written under the generation.
func (c *redisSlotCache) generationTTL() time.Duration {
	return 2 * c.ttl
}

func (c *redisSlotCache) generation(ctx context.Context, barberID, date string) (int64, error) {
	gen, err := c.client.Get(ctx, c.generationKey(barberID, date)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

func (c *redisSlotCache) Get(ctx context.Context, barberID, date string, durationMinutes int) ([]string, int64, bool, error) {
	gen, err := c.generation(ctx, barberID, date)
	if err != nil {
		return nil, 0, false, err
	}

	data, err := c.client.Get(ctx, c.entryKey(barberID, date, gen, durationMinutes)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false, nil
	}
	if err != nil {
		return nil, gen, false, err
	}

	var slots []string
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, gen, false, err
	}
	return slots, gen, true, nil
}

func (c *redisSlotCache) Set(ctx context.Context, barberID, date string, generation int64, durationMinutes int, slots []string) error {
	if slots == nil {
		slots = []string{}
	}
	data, err := json.Marshal(slots)
	if err != nil {
		return err
	}

	_, err = c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, c.entryKey(barberID, date, generation, durationMinutes), data, c.ttl)
		// No-op when the generation was never bumped.
		pipe.Expire(ctx, c.generationKey(barberID, date), c.generationTTL())
		return nil
	})
	return err
}

func (c *redisSlotCache) Invalidate(ctx context.Context, barberID, date string) error {
	key := c.generationKey(barberID, date)
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, key)
		pipe.Expire(ctx, key, c.generationTTL())
		return nil
	})
	return err
}

type noopSlotCache struct{}

// NewNoopSlotCache is used when the service runs without Redis.
func NewNoopSlotCache() SlotCache {
	return noopSlotCache{}
}

func (noopSlotCache) Get(context.Context, string, string, int) ([]string, int64, bool, error) {
	return nil, 0, false, nil
}

func (noopSlotCache) Set(context.Context, string, string, int64, int, []string) error { return nil }

func (noopSlotCache) Invalidate(context.Context, string, string) error { return nil }
