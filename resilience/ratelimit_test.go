package resilience

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jonwraymond/sturdy/fault"
)

func TestNewTokenBucket_Validation(t *testing.T) {
	if _, err := NewTokenBucket(TokenBucketConfig{Capacity: 0, RefillRate: 1}); !fault.IsCategory(err, fault.CategoryValidation) {
		t.Errorf("zero capacity error = %v, want validation fault", err)
	}
	if _, err := NewTokenBucket(TokenBucketConfig{Capacity: 10, RefillRate: -1}); !fault.IsCategory(err, fault.CategoryValidation) {
		t.Errorf("negative rate error = %v, want validation fault", err)
	}
	if _, err := NewTokenBucket(TokenBucketConfig{Capacity: 10, RefillRate: 1}); err != nil {
		t.Errorf("valid config error = %v", err)
	}
}

func TestTokenBucket_StartsFull(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 5, RefillRate: 1})

	for i := 0; i < 5; i++ {
		if !tb.Allow() {
			t.Fatalf("Allow() call %d = false, want full bucket to permit burst", i+1)
		}
	}
	if tb.Allow() {
		t.Error("Allow() = true on a drained bucket")
	}
}

func TestTokenBucket_AllowN_Validation(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 5, RefillRate: 1})

	if _, err := tb.AllowN(0); !fault.IsCategory(err, fault.CategoryValidation) {
		t.Errorf("AllowN(0) error = %v, want validation fault", err)
	}
	if _, err := tb.AllowN(6); !fault.IsCategory(err, fault.CategoryValidation) {
		t.Errorf("AllowN(6) error = %v, want validation fault for n > capacity", err)
	}
}

func TestTokenBucket_LazyRefill(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 2, RefillRate: 100})

	for i := 0; i < 2; i++ {
		tb.Allow()
	}
	if tb.Allow() {
		t.Fatal("bucket not drained")
	}

	// 100 tokens/s: a token accrues after 10ms.
	time.Sleep(30 * time.Millisecond)
	if !tb.Allow() {
		t.Error("Allow() = false after refill interval")
	}
}

func TestTokenBucket_ClampsToCapacity(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 3, RefillRate: 1000})

	time.Sleep(20 * time.Millisecond)
	if got := tb.Tokens(); got > 3 {
		t.Errorf("Tokens() = %f, want clamp at capacity 3", got)
	}
}

func TestTokenBucket_NonBlockingRejection(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 1, RefillRate: 0.001})

	if err := tb.Consume(context.Background(), 1); err != nil {
		t.Fatalf("first Consume() error = %v", err)
	}
	err := tb.Consume(context.Background(), 1)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("drained Consume() = %v, want ErrRateLimited", err)
	}
	assertNotRetryable(t, err)
}

func TestTokenBucket_BlockingWait(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 1, RefillRate: 100, WaitOnLimit: true})

	_ = tb.Consume(context.Background(), 1)

	start := time.Now()
	if err := tb.Consume(context.Background(), 1); err != nil {
		t.Fatalf("blocking Consume() error = %v", err)
	}
	if elapsed := time.Since(start); elapsed < 5*time.Millisecond {
		t.Errorf("blocking Consume() returned after %v, want a wait near 10ms", elapsed)
	}
}

func TestTokenBucket_WaitHonorsMaxWait(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{
		Capacity:    1,
		RefillRate:  0.1, // 10s per token
		WaitOnLimit: true,
		MaxWait:     20 * time.Millisecond,
	})

	_ = tb.Consume(context.Background(), 1)

	err := tb.Consume(context.Background(), 1)
	if !errors.Is(err, ErrRateLimited) {
		t.Errorf("Consume() past MaxWait = %v, want ErrRateLimited", err)
	}
}

func TestTokenBucket_WaitCancelled(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 1, RefillRate: 0.1, WaitOnLimit: true})

	_ = tb.Consume(context.Background(), 1)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	err := tb.Consume(ctx, 1)
	if !IsAborted(err) {
		t.Errorf("cancelled Consume() = %v, want abort fault", err)
	}
}

func TestTokenBucket_NeverExceedsRefilledCapacity(t *testing.T) {
	const (
		capacity = 5.0
		rate     = 200.0
	)
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: capacity, RefillRate: rate})

	start := time.Now()
	consumed := 0.0
	deadline := start.Add(100 * time.Millisecond)
	for time.Now().Before(deadline) {
		if tb.Allow() {
			consumed++
		}
	}

	elapsed := time.Since(start).Seconds()
	budget := capacity + rate*elapsed
	if consumed > budget {
		t.Errorf("consumed %f tokens, want at most %f", consumed, budget)
	}
}

func TestTokenBucket_Execute(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 1, RefillRate: 0.001})

	ran := 0
	op := func(ctx context.Context) error {
		ran++
		return nil
	}

	if err := tb.Execute(context.Background(), op); err != nil {
		t.Errorf("Execute() error = %v", err)
	}
	if err := tb.Execute(context.Background(), op); !errors.Is(err, ErrRateLimited) {
		t.Errorf("drained Execute() = %v, want ErrRateLimited", err)
	}
	if ran != 1 {
		t.Errorf("op ran %d times, want 1", ran)
	}
}

func TestTokenBucket_Reset(t *testing.T) {
	tb, _ := NewTokenBucket(TokenBucketConfig{Capacity: 2, RefillRate: 0.001})

	tb.Allow()
	tb.Allow()
	tb.Reset()

	if got := tb.Tokens(); got < 2 {
		t.Errorf("Tokens() after Reset = %f, want capacity", got)
	}
}
