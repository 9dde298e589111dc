package ratelimit

import (
	"context"
	"fmt"
	"time"
)

// Decision is the outcome of a limiter check. RetryAfter is only meaningful
// when Allowed is false and is surfaced verbatim to the caller.
type Decision struct {
	Allowed    bool
	RetryAfter time.Duration
}

// Limiter throttles per-actor operations.
type Limiter interface {
	CheckLimit(ctx context.Context, actorKey string) (Decision, error)
}

type windowStore interface {
	FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, time.Duration, error)
}

// FixedWindowLimiter applies a redis fixed-window policy per actor key.
type FixedWindowLimiter struct {
	store  windowStore
	scope  string
	limit  int64
	window time.Duration
}

// NewFixedWindowLimiter builds a limiter for the named scope.
func NewFixedWindowLimiter(store windowStore, scope string, limit int64, window time.Duration) (*FixedWindowLimiter, error) {
	if store == nil {
		return nil, fmt.Errorf("window store required")
	}
	if scope == "" {
		return nil, fmt.Errorf("scope required")
	}
	if limit <= 0 || window <= 0 {
		return nil, fmt.Errorf("limit and window must be positive")
	}
	return &FixedWindowLimiter{store: store, scope: scope, limit: limit, window: window}, nil
}

func (l *FixedWindowLimiter) CheckLimit(ctx context.Context, actorKey string) (Decision, error) {
	if actorKey == "" {
		return Decision{Allowed: true}, nil
	}
	allowed, retryAfter, err := l.store.FixedWindowAllow(ctx, l.scope+":"+actorKey, l.limit, l.window)
	if err != nil {
		return Decision{}, err
	}
	return Decision{Allowed: allowed, RetryAfter: retryAfter}, nil
}
