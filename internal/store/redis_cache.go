package store

import (
	"context"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Johndevils/Url-shorter-bot/internal/shortlink"
)

// LinkCache wraps a shortlink.Repository with Redis caching for reads.
// Redirects dominate the traffic by orders of magnitude, so the hot path
// should rarely touch Postgres.
type LinkCache struct {
	store  shortlink.Repository
	client *redis.Client
	prefix string
	ttl    time.Duration
}

// NewLinkCache creates a new Redis-cached repository decorator.
func NewLinkCache(store shortlink.Repository, client *redis.Client, ttl time.Duration) *LinkCache {
	return &LinkCache{
		store:  store,
		client: client,
		prefix: "link:",
		ttl:    ttl,
	}
}

// Save stores a link in the underlying store and updates the cache.
// Nothing is cached when the store rejects the write, so ErrCodeTaken from
// a concurrent insert cannot leave a stale entry behind.
func (c *LinkCache) Save(ctx context.Context, link *shortlink.ShortLink) error {
	if err := c.store.Save(ctx, link); err != nil {
		return err
	}

	c.cacheLink(ctx, link)

	return nil
}

// GetByCode retrieves a link by its code, checking the cache first.
func (c *LinkCache) GetByCode(ctx context.Context, code string) (*shortlink.ShortLink, error) {
	if link, err := c.getFromCache(ctx, code); err == nil {
		return link, nil
	}

	link, err := c.store.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}

	c.cacheLink(ctx, link)

	return link, nil
}

func (c *LinkCache) getFromCache(ctx context.Context, code string) (*shortlink.ShortLink, error) {
	result, err := c.client.HGetAll(ctx, c.prefix+code).Result()
	if err != nil {
		return nil, err
	}

	if len(result) == 0 {
		return nil, shortlink.ErrNotFound
	}

	var createdAt time.Time

	if ts, ok := result["created_at"]; ok {
		if nanos, err := strconv.ParseInt(ts, 10, 64); err == nil {
			createdAt = time.Unix(0, nanos)
		}
	}

	return &shortlink.ShortLink{
		Code:      result["code"],
		TargetURL: result["target_url"],
		CreatedAt: createdAt,
	}, nil
}

// cacheLink is best-effort: a failed cache write costs one extra store read
// later, nothing more.
func (c *LinkCache) cacheLink(ctx context.Context, link *shortlink.ShortLink) {
	pipe := c.client.Pipeline()
	key := c.prefix + link.Code

	pipe.HSet(ctx, key, map[string]interface{}{
		"code":       link.Code,
		"target_url": link.TargetURL,
		"created_at": link.CreatedAt.UnixNano(),
	})

	if c.ttl > 0 {
		pipe.Expire(ctx, key, c.ttl)
	}

	_, _ = pipe.Exec(ctx)
}

// Compile-time check.
var _ shortlink.Repository = (*LinkCache)(nil)
