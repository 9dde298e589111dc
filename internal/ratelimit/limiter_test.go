package ratelimit

import (
	"context"
	"testing"
	"time"
)

type fakeWindowStore struct {
	calls      []string
	allowed    bool
	retryAfter time.Duration
	err        error
}

func (f *fakeWindowStore) FixedWindowAllow(ctx context.Context, scope string, limit int64, window time.Duration) (bool, time.Duration, error) {
	f.calls = append(f.calls, scope)
	return f.allowed, f.retryAfter, f.err
}

func TestNewFixedWindowLimiterValidation(t *testing.T) {
	t.Parallel()

	store := &fakeWindowStore{}
	if _, err := NewFixedWindowLimiter(nil, "rto", 10, time.Minute); err == nil {
		t.Fatal("expected error for nil store")
	}
	if _, err := NewFixedWindowLimiter(store, "", 10, time.Minute); err == nil {
		t.Fatal("expected error for empty scope")
	}
	if _, err := NewFixedWindowLimiter(store, "rto", 0, time.Minute); err == nil {
		t.Fatal("expected error for zero limit")
	}
	if _, err := NewFixedWindowLimiter(store, "rto", 10, 0); err == nil {
		t.Fatal("expected error for zero window")
	}
}

func TestCheckLimitScopesByActor(t *testing.T) {
	t.Parallel()

	store := &fakeWindowStore{allowed: true}
	limiter, err := NewFixedWindowLimiter(store, "rto-trigger", 30, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	decision, err := limiter.CheckLimit(context.Background(), "company-1")
	if err != nil {
		t.Fatalf("check limit: %v", err)
	}
	if !decision.Allowed {
		t.Fatal("expected allowed")
	}
	if len(store.calls) != 1 || store.calls[0] != "rto-trigger:company-1" {
		t.Fatalf("unexpected store calls: %v", store.calls)
	}
}

func TestCheckLimitDenied(t *testing.T) {
	t.Parallel()

	store := &fakeWindowStore{allowed: false, retryAfter: 42 * time.Second}
	limiter, err := NewFixedWindowLimiter(store, "rto-trigger", 30, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	decision, err := limiter.CheckLimit(context.Background(), "company-1")
	if err != nil {
		t.Fatalf("check limit: %v", err)
	}
	if decision.Allowed || decision.RetryAfter != 42*time.Second {
		t.Fatalf("unexpected decision: %+v", decision)
	}
}

func TestCheckLimitEmptyActorPasses(t *testing.T) {
	t.Parallel()

	store := &fakeWindowStore{}
	limiter, err := NewFixedWindowLimiter(store, "rto-trigger", 30, time.Minute)
	if err != nil {
		t.Fatalf("new limiter: %v", err)
	}

	decision, err := limiter.CheckLimit(context.Background(), "")
	if err != nil || !decision.Allowed {
		t.Fatalf("decision = %+v, err = %v", decision, err)
	}
	if len(store.calls) != 0 {
		t.Fatal("store should not be consulted for empty actor")
	}
}
