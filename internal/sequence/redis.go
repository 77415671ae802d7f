// internal/sequence/redis.go
package sequence

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lacra/agritrace-backend/internal/batchcode"
	"github.com/lacra/agritrace-backend/internal/errs"
)

// Refuses to go past the limit instead of incrementing and rolling back, so
// an exhausted key never shows a value above the limit.
var allocateScript = redis.NewScript(`
local current = tonumber(redis.call('GET', KEYS[1]) or '0')
if current >= tonumber(ARGV[1]) then
	return -1
end
local value = redis.call('INCR', KEYS[1])
if tonumber(ARGV[2]) > 0 then
	redis.call('EXPIRE', KEYS[1], ARGV[2])
end
return value
`)

type RedisAllocator struct {
	client    redis.Scripter
	keyPrefix string
	retention time.Duration
	limit     int
	now       func() time.Time
}

// NewRedisAllocator stores one counter per composite key. retention <= 0
// keeps counters forever. With a positive retention a counter lives until
// its harvest day plus retention, and keys past that window are refused so
// an expired counter is never restarted.
func NewRedisAllocator(client redis.Scripter, keyPrefix string, retention time.Duration, limit int) *RedisAllocator {
	if keyPrefix == "" {
		keyPrefix = "agritrace:batchseq:"
	}
	return &RedisAllocator{
		client:    client,
		keyPrefix: keyPrefix,
		retention: retention,
		limit:     limitOrDefault(limit),
		now:       time.Now,
	}
}

func (a *RedisAllocator) Next(ctx context.Context, key batchcode.Key) (int, error) {
	ttl, err := a.ttl(key)
	if err != nil {
		return 0, err
	}
	value, err := allocateScript.Run(ctx, a.client, []string{a.keyPrefix + key.String()}, a.limit, ttl).Int64()
	if err != nil {
		return 0, errs.Unavailable("redis sequence store unreachable", err)
	}
	if value < 0 {
		return 0, exhausted(key, a.limit)
	}
	return int(value), nil
}

// ttl returns the expiry in seconds for key, 0 for none.
func (a *RedisAllocator) ttl(key batchcode.Key) (int64, error) {
	if a.retention <= 0 {
		return 0, nil
	}
	day, err := key.Date()
	if err != nil {
		return 0, errs.Validation("harvest_date", fmt.Sprintf("invalid date stamp %q", key.DateStamp))
	}
	remaining := day.Add(a.retention).Sub(a.now())
	if remaining < time.Second {
		return 0, errs.Validation("harvest_date",
			fmt.Sprintf("harvest date %s is outside the %d day sequence retention window", key.DateStamp, int(a.retention.Hours()/24)))
	}
	return int64(remaining / time.Second), nil
}
