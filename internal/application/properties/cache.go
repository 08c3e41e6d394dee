package properties

import (
	"context"
	"crypto/md5"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"auraestate-backend/internal/domain"
	"auraestate-backend/internal/pkg/listquery"

	"github.com/redis/go-redis/v9"
)

const (
	listCachePrefix     = "properties:list"
	listCacheVersionKey = "properties:list:version"
	DefaultListCacheTTL = 30 * time.Second
)

// ListCache stores anonymous listing pages in Redis. Keys embed a version
// counter; any listing write bumps the counter so older pages become unreachable
// and simply expire.
type ListCache struct {
	Rdb *redis.Client
	TTL time.Duration
}

type cachedPage struct {
	Properties []domain.Property `json:"properties"`
	Total      int64             `json:"total"`
}

// Key returns the cache key for q under the current version.
func (c *ListCache) Key(ctx context.Context, q listquery.Query) (string, error) {
	version, err := c.Rdb.Get(ctx, listCacheVersionKey).Int64()
	if err != nil && err != redis.Nil {
		return "", err
	}
	return queryCacheKey(fmt.Sprintf("%s:v%d", listCachePrefix, version), q), nil
}

// queryCacheKey hashes the canonical encoding of q. url.Values.Encode sorts by key.
func queryCacheKey(prefix string, q listquery.Query) string {
	sum := md5.Sum([]byte(q.Values().Encode()))
	return prefix + ":" + hex.EncodeToString(sum[:])
}

func (c *ListCache) get(ctx context.Context, key string) (*cachedPage, bool, error) {
	data, err := c.Rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var page cachedPage
	if err := json.Unmarshal(data, &page); err != nil {
		return nil, false, err
	}
	return &page, true, nil
}

func (c *ListCache) set(ctx context.Context, key string, page *cachedPage) error {
	data, err := json.Marshal(page)
	if err != nil {
		return err
	}
	ttl := c.TTL
	if ttl <= 0 {
		ttl = DefaultListCacheTTL
	}
	return c.Rdb.Set(ctx, key, data, ttl).Err()
}

// Invalidate makes every cached page stale.
func (c *ListCache) Invalidate(ctx context.Context) error {
	return c.Rdb.Incr(ctx, listCacheVersionKey).Err()
}
