package redis

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/gabapcia/blockscan/internal/blocktime"

	"github.com/redis/go-redis/v9"
)

// blocktimeKeyPrefix namespaces every key written by the timestamp cache.
const blocktimeKeyPrefix = "blocktime"

// blockTimestampKey builds the key holding the timestamp of one block:
//
//	"blocktime:timestamp:<network>:<number>"
func blockTimestampKey(network string, number uint64) string {
	return fmt.Sprintf("%s:timestamp:%s:%d", blocktimeKeyPrefix, network, number)
}

// timestampCache stores fetched block timestamps for one network.
type timestampCache struct {
	client  *client
	network string
	ttl     time.Duration
}

var _ blocktime.TimestampCache = (*timestampCache)(nil)

// NewTimestampCache returns a blocktime.TimestampCache keyed by network. A zero
// ttl keeps entries forever.
func (c *client) NewTimestampCache(network string, ttl time.Duration) *timestampCache {
	return &timestampCache{
		client:  c,
		network: network,
		ttl:     ttl,
	}
}

// Get returns the cached timestamp of block number. found is false when the
// block was never stored.
func (tc *timestampCache) Get(ctx context.Context, number uint64) (int64, bool, error) {
	val, err := tc.client.conn.Get(ctx, blockTimestampKey(tc.network, number)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, false, nil
		}
		return 0, false, err
	}

	ts, err := strconv.ParseInt(val, 10, 64)
	if err != nil {
		return 0, false, fmt.Errorf("decode cached timestamp of block %d: %w", number, err)
	}

	return ts, true, nil
}

// Set stores the timestamp of block number.
func (tc *timestampCache) Set(ctx context.Context, number uint64, timestamp int64) error {
	key := blockTimestampKey(tc.network, number)
	return tc.client.conn.Set(ctx, key, strconv.FormatInt(timestamp, 10), tc.ttl).Err()
}
