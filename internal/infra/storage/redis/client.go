// Package redis keeps provider data that never changes once produced, such as
// block timestamps, in Redis so repeated queries spend less provider quota.
package redis

import (
	"context"
	"fmt"
	"time"

	redis "github.com/redis/go-redis/v9"
)

type client struct {
	conn *redis.Client
}

// Close releases the connection pool.
func (c *client) Close() error {
	return c.conn.Close()
}

type config struct {
	username    string
	password    string
	db          int
	dialTimeout time.Duration
}

// Option configures the Redis connection.
type Option func(*config)

// WithCredentials authenticates with an ACL user. An empty username uses the
// default user.
func WithCredentials(username, password string) Option {
	return func(c *config) {
		c.username = username
		c.password = password
	}
}

// WithDB selects the logical database.
func WithDB(db int) Option {
	return func(c *config) {
		c.db = db
	}
}

// WithDialTimeout bounds establishing a new connection.
func WithDialTimeout(d time.Duration) Option {
	return func(c *config) {
		c.dialTimeout = d
	}
}

// NewClient connects to the Redis server at addr and checks it answers a PING.
func NewClient(ctx context.Context, addr string, opts ...Option) (*client, error) {
	cfg := config{
		dialTimeout: 5 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	conn := redis.NewClient(&redis.Options{
		Addr:        addr,
		Username:    cfg.username,
		Password:    cfg.password,
		DB:          cfg.db,
		DialTimeout: cfg.dialTimeout,
	})

	if err := conn.Ping(ctx).Err(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("ping redis at %s: %w", addr, err)
	}

	return &client{conn: conn}, nil
}
