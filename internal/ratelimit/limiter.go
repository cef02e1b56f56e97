// Package ratelimit counts hits per key in fixed windows kept in Redis, so every API instance
// shares one budget.
package ratelimit

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// Options configures a Limiter.
type Options struct {
	Addr     string
	Password string
	// Namespace prefixes every counter key. Defaults to "studio:ratelimit".
	Namespace string
	// Limit is the number of hits allowed per key in one Window.
	Limit  int
	Window time.Duration
}

// Limiter allows Limit hits per key per Window.
type Limiter struct {
	rdb  *redis.Client
	opts Options
	now  func() time.Time
}

// New validates opts and returns a limiter. It does not contact Redis; see Ping.
func New(opts Options) (*Limiter, error) {
	switch {
	case opts.Addr == "":
		return nil, errors.New("ratelimit: redis address is required")
	case opts.Limit < 1:
		return nil, errors.New("ratelimit: limit must be at least 1")
	case opts.Window < time.Millisecond:
		return nil, errors.New("ratelimit: window must be at least 1ms")
	}
	if opts.Namespace == "" {
		opts.Namespace = "studio:ratelimit"
	}
	return &Limiter{
		rdb:  redis.NewClient(&redis.Options{Addr: opts.Addr, Password: opts.Password}),
		opts: opts,
		now:  time.Now,
	}, nil
}

func (l *Limiter) Ping(ctx context.Context) error { return l.rdb.Ping(ctx).Err() }

func (l *Limiter) Close() error { return l.rdb.Close() }

// Allow records a hit for key and reports whether it is within the window's budget.
// When Redis cannot be reached the hit is refused and the error returned.
func (l *Limiter) Allow(ctx context.Context, key string) (bool, error) {
	if key == "" {
		key = "anonymous"
	}
	window := l.opts.Window.Milliseconds()
	bucket := l.now().UnixMilli() / window
	counter := l.opts.Namespace + ":" + key + ":" + strconv.FormatInt(bucket, 10)

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	var hits *redis.IntCmd
	_, err := l.rdb.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		hits = pipe.Incr(ctx, counter)
		pipe.PExpire(ctx, counter, l.opts.Window)
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("ratelimit %s: %w", key, err)
	}
	return hits.Val() <= int64(l.opts.Limit), nil
}
