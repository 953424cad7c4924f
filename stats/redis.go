package stats

import (
	"context"
	"fmt"
	"strconv"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const keyPrefix = "lom:stats:"

// RedisCounter stores one hash per record and month under
// lom:stats:<id>:<YYYY-MM> with view and download fields. The months of a
// record are tracked in the set lom:stats:<id>:months.
type RedisCounter struct {
	rdb *goredis.Client
}

// NewRedisCounter connects to addr and pings it.
func NewRedisCounter(ctx context.Context, addr string) (*RedisCounter, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		DialTimeout: 5 * time.Second,
	})
	pctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(pctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return &RedisCounter{rdb: rdb}, nil
}

// NewRedisCounterFromClient wraps an existing client.
func NewRedisCounterFromClient(rdb *goredis.Client) *RedisCounter {
	return &RedisCounter{rdb: rdb}
}

// Close closes the client.
func (c *RedisCounter) Close() error {
	return c.rdb.Close()
}

func bucketKey(recordID, month string) string {
	return keyPrefix + recordID + ":" + month
}

func monthsKey(recordID string) string {
	return keyPrefix + recordID + ":months"
}

// Record implements Counter.
func (c *RedisCounter) Record(ctx context.Context, e Event) error {
	if err := validate(e); err != nil {
		return err
	}
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	month := Month(e.Time)
	_, err := c.rdb.TxPipelined(ctx, func(pipe goredis.Pipeliner) error {
		pipe.HIncrBy(ctx, bucketKey(e.RecordID, month), string(e.Type), 1)
		pipe.SAdd(ctx, monthsKey(e.RecordID), month)
		return nil
	})
	if err != nil {
		return fmt.Errorf("recording %s of %s: %w", e.Type, e.RecordID, err)
	}
	return nil
}

// Get implements Counter.
func (c *RedisCounter) Get(ctx context.Context, recordID string) (Stats, error) {
	buckets, err := c.Months(ctx, recordID)
	if err != nil {
		return Stats{}, err
	}
	return total(buckets), nil
}

// Months implements Counter.
func (c *RedisCounter) Months(ctx context.Context, recordID string) ([]Bucket, error) {
	months, err := c.rdb.SMembers(ctx, monthsKey(recordID)).Result()
	if err != nil {
		return nil, fmt.Errorf("reading months of %s: %w", recordID, err)
	}
	if len(months) == 0 {
		return nil, nil
	}

	cmds := make([]*goredis.MapStringStringCmd, len(months))
	_, err = c.rdb.Pipelined(ctx, func(pipe goredis.Pipeliner) error {
		for i, month := range months {
			cmds[i] = pipe.HGetAll(ctx, bucketKey(recordID, month))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("reading stats of %s: %w", recordID, err)
	}

	out := make([]Bucket, 0, len(months))
	for i, month := range months {
		fields := cmds[i].Val()
		b := Bucket{Month: month}
		b.Views, _ = strconv.ParseInt(fields[string(View)], 10, 64)
		b.Downloads, _ = strconv.ParseInt(fields[string(Download)], 10, 64)
		out = append(out, b)
	}
	sortBuckets(out)
	return out, nil
}
