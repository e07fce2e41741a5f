package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisURL = "redis://localhost:6379/0"
	popTimeout      = 5 * time.Second
)

// sidekiqJob is the subset of a Sidekiq payload the worker reads.
type sidekiqJob struct {
	Class string            `json:"class"`
	Args  []json.RawMessage `json:"args"`
	Queue string            `json:"queue"`
	JID   string            `json:"jid"`
}

// queuePopper is the part of *redis.Client the worker needs.
type queuePopper interface {
	BRPop(ctx context.Context, timeout time.Duration, keys ...string) *redis.StringSliceCmd
}

func parseRedisURL(raw string) (*redis.Options, error) {
	if raw == "" {
		raw = defaultRedisURL
	}
	opts, err := redis.ParseURL(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_URL: %w", err)
	}
	return opts, nil
}

// popJobPayload waits up to popTimeout for the next payload on queue.
// A timeout returns an empty payload and no error.
func popJobPayload(ctx context.Context, q queuePopper, queue string) (string, error) {
	res, err := q.BRPop(ctx, popTimeout, queue).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if len(res) != 2 {
		return "", fmt.Errorf("unexpected BRPOP reply of %d elements", len(res))
	}
	return res[1], nil
}
