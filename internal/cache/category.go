// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// category.go caches resolved category sets (a category plus all of its
// descendants) in Valkey so listing requests skip the tree walk. Sets are
// stored as JSON arrays of UUIDs under a generation-prefixed key. Any
// category write bumps the generation, since one edit can change the
// closure of all its ancestors; entries from older generations are never
// read again and expire with their TTL.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"servicedir/internal/models"
)

const (
	// categoryKeyPrefix is the Valkey key prefix for cached category sets.
	categoryKeyPrefix = "catset:"

	// categoryVersionKey holds the current generation. A missing key is
	// generation 0.
	categoryVersionKey = categoryKeyPrefix + "version"

	// DefaultCategoryTTL is how long a resolved set stays cached.
	DefaultCategoryTTL = 10 * time.Minute
)

// CategoryCache manages resolved category sets in Valkey.
type CategoryCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCategoryCache creates a category-set cache backed by the given client.
func NewCategoryCache(client *redis.Client, ttl time.Duration) *CategoryCache {
	if ttl == 0 {
		ttl = DefaultCategoryTTL
	}
	return &CategoryCache{client: client, ttl: ttl}
}

// CategoryKey returns the cache key for a category's resolved set in the
// given generation.
func CategoryKey(version int64, id uuid.UUID) string {
	return categoryKeyPrefix + strconv.FormatInt(version, 10) + ":" + id.String()
}

// Version returns the current generation, or -1 when it cannot be read.
func (cc *CategoryCache) Version(ctx context.Context) int64 {
	v, err := cc.client.Get(ctx, categoryVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0
	}
	if err != nil {
		slog.Warn("category cache version error", "error", err)
		return -1
	}
	return v
}

// Get returns the cached set for a category along with the generation it
// was looked up in. The generation is passed back to Set so a set resolved
// before an invalidation is stored where nobody reads it. Errors count as
// misses.
func (cc *CategoryCache) Get(ctx context.Context, id uuid.UUID) (models.CategorySet, int64, bool) {
	version := cc.Version(ctx)
	if version < 0 {
		return nil, version, false
	}

	val, err := cc.client.Get(ctx, CategoryKey(version, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, version, false
	}
	if err != nil {
		slog.Warn("category cache get error", "category_id", id, "error", err)
		return nil, version, false
	}

	var ids []uuid.UUID
	if err := json.Unmarshal(val, &ids); err != nil {
		slog.Warn("category cache decode error", "category_id", id, "error", err)
		return nil, version, false
	}
	slog.Debug("category cache hit", "category_id", id, "version", version, "size", len(ids))
	return models.NewCategorySet(ids...), version, true
}

// Set stores a resolved set under the given generation with the configured
// TTL. A negative version is ignored.
func (cc *CategoryCache) Set(ctx context.Context, id uuid.UUID, version int64, set models.CategorySet) {
	if version < 0 {
		return
	}
	data, err := json.Marshal(set.IDs())
	if err != nil {
		slog.Warn("category cache encode error", "category_id", id, "error", err)
		return
	}
	if err := cc.client.Set(ctx, CategoryKey(version, id), data, cc.ttl).Err(); err != nil {
		slog.Warn("category cache set error", "category_id", id, "error", err)
	}
}

// InvalidateAll moves the cache to a new generation with a single INCR, so
// no stale set stays readable. If the INCR fails the old entries are
// deleted by scanning instead.
func (cc *CategoryCache) InvalidateAll(ctx context.Context) {
	version, err := cc.client.Incr(ctx, categoryVersionKey).Result()
	if err == nil {
		slog.Info("category cache invalidated", "version", version)
		return
	}
	slog.Warn("category cache version bump failed, deleting entries", "error", err)
	cc.purge(ctx)
}

// purge deletes every cached set by scanning for the prefix. The version
// key itself is kept.
func (cc *CategoryCache) purge(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, nextCursor, err := cc.client.Scan(ctx, cursor, categoryKeyPrefix+"[0-9]*", 100).Result()
		if err != nil {
			slog.Error("category cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := cc.client.Del(ctx, keys...).Err(); err != nil {
				slog.Error("category cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = nextCursor
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("category cache cleared", "deleted", deleted)
	}
}
