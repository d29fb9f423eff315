// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go provides a Valkey-backed cache of public listing responses.
// Each distinct set of listing parameters maps to one JSON document, stored
// under the listing generation that was current when the read began. Any
// post or category mutation bumps the generation, so pages computed before
// it are never served again even if they land in Valkey after the purge.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix is the Valkey key prefix for cached listing pages.
	listKeyPrefix = "posts:"

	// GenerationKey holds the listing generation counter. It lives outside
	// listKeyPrefix so the page sweep never resets it.
	GenerationKey = "listgen:posts"

	// DefaultListTTL is how long a listing page stays cached.
	DefaultListTTL = 2 * time.Minute
)

// ListCache stores serialized listing results in Valkey. A nil *ListCache
// is valid and behaves as a cache that never hits.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a listing cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl == 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

// Key returns the full Valkey key for a listing cache key at generation gen.
func Key(gen int64, listKey string) string {
	return listKeyPrefix + strconv.FormatInt(gen, 10) + ":" + listKey
}

// Generation returns the current listing generation. ok is false when the
// counter cannot be read; the caller must then neither read nor write pages.
func (lc *ListCache) Generation(ctx context.Context) (gen int64, ok bool) {
	if lc == nil {
		return 0, false
	}
	gen, err := lc.client.Get(ctx, GenerationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, true
	}
	if err != nil {
		slog.Warn("list cache generation read error", "error", err)
		return 0, false
	}
	return gen, true
}

// Get returns the cached JSON for a listing key at generation gen. Errors
// count as misses.
func (lc *ListCache) Get(ctx context.Context, gen int64, key string) ([]byte, bool) {
	if lc == nil {
		return nil, false
	}
	val, err := lc.client.Get(ctx, Key(gen, key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		slog.Warn("list cache get error", "key", key, "generation", gen, "error", err)
		return nil, false
	}
	slog.Debug("list cache hit", "key", key, "generation", gen)
	return val, true
}

// SetJSON marshals v and stores it under key at generation gen with the
// configured TTL. The encoded bytes are returned so callers can write the
// same document they cached.
func (lc *ListCache) SetJSON(ctx context.Context, gen int64, key string, v any) ([]byte, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("marshal list cache entry: %w", err)
	}
	if lc == nil {
		return data, nil
	}
	if err := lc.client.Set(ctx, Key(gen, key), data, lc.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "key", key, "generation", gen, "error", err)
	}
	return data, nil
}

// InvalidateAll advances the listing generation and then sweeps every page
// stored under the prefix. A failed bump still attempts the sweep.
func (lc *ListCache) InvalidateAll(ctx context.Context) {
	if lc == nil {
		return
	}
	gen, err := lc.client.Incr(ctx, GenerationKey).Result()
	if err != nil {
		slog.Warn("list cache generation bump error", "error", err)
	}

	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := lc.client.Scan(ctx, cursor, listKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("list cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := lc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("list cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	slog.Info("list cache cleared", "generation", gen, "deleted", deleted)
}
