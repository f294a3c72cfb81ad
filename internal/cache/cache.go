package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const categoriesKey = "map:categories"

// ErrMiss is returned when the requested entry is not cached.
var ErrMiss = errors.New("cache miss")

// Client is a thin wrapper around redis used to cache the distinct category
// list served by the map endpoints. All operations are best-effort; callers
// fall back to the database on any error.
type Client struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(ctx context.Context, addr, password string, db int, ttl time.Duration) (*Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		rdb.Close()
		return nil, err
	}

	return &Client{rdb: rdb, ttl: ttl}, nil
}

func (c *Client) GetCategories(ctx context.Context) ([]string, error) {
	raw, err := c.rdb.Get(ctx, categoriesKey).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrMiss
		}
		return nil, err
	}

	var categories []string
	if err := json.Unmarshal(raw, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) SetCategories(ctx context.Context, categories []string) error {
	raw, err := json.Marshal(categories)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, categoriesKey, raw, c.ttl).Err()
}

func (c *Client) Close() error {
	return c.rdb.Close()
}
