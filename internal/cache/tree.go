// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// tree.go provides a Valkey-backed cache of built series trees. The flat
// rows in PostgreSQL stay authoritative: every tree mutation invalidates
// the cached JSON, and readers fall back to rebuilding from the database
// on a miss. The cache only ever short-circuits the read path.
package cache

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

const (
	// treeKeyPrefix is the Valkey key prefix for cached series trees.
	treeKeyPrefix = "seriestree:"

	// DefaultTreeTTL is how long a built tree stays cached. Short on
	// purpose: invalidation covers mutations through this process, the
	// TTL covers everything else.
	DefaultTreeTTL = 5 * time.Minute
)

// TreeCache stores the JSON encoding of a built series tree per series.
type TreeCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewTreeCache creates a tree cache backed by the given Valkey client.
func NewTreeCache(client *redis.Client, ttl time.Duration) *TreeCache {
	if ttl == 0 {
		ttl = DefaultTreeTTL
	}
	return &TreeCache{client: client, ttl: ttl}
}

// key returns the Valkey key for one series tree.
func key(seriesID uuid.UUID) string {
	return treeKeyPrefix + seriesID.String()
}

// Get retrieves the cached tree JSON for a series. Returns false on miss.
func (tc *TreeCache) Get(ctx context.Context, seriesID uuid.UUID) ([]byte, bool) {
	val, err := tc.client.Get(ctx, key(seriesID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("tree cache get error", "series_id", seriesID, "error", err)
		return nil, false
	}
	slog.Debug("tree cache hit", "series_id", seriesID)
	return val, true
}

// Set stores the tree JSON for a series with the configured TTL.
func (tc *TreeCache) Set(ctx context.Context, seriesID uuid.UUID, treeJSON []byte) {
	if err := tc.client.Set(ctx, key(seriesID), treeJSON, tc.ttl).Err(); err != nil {
		slog.Warn("tree cache set error", "series_id", seriesID, "error", err)
	}
}

// Invalidate removes the cached tree for a series. Called after every
// node mutation so the next read rebuilds from the flat rows.
func (tc *TreeCache) Invalidate(ctx context.Context, seriesID uuid.UUID) {
	if err := tc.client.Del(ctx, key(seriesID)).Err(); err != nil {
		slog.Warn("tree cache invalidate error", "series_id", seriesID, "error", err)
	}
	slog.Debug("tree cache invalidated", "series_id", seriesID)
}
