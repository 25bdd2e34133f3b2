package providers

import (
	"context"
	"testing"
	"time"
)

func TestRateLimiterTryConsume(t *testing.T) {
	rl := NewRateLimiter(3)

	for i := 0; i < 3; i++ {
		if !rl.TryConsume() {
			t.Errorf("expected token %d to be available", i)
		}
	}
	if rl.TryConsume() {
		t.Error("expected bucket to be empty")
	}
}

func TestRateLimiterWait(t *testing.T) {
	rl := NewRateLimiter(60)

	ctx := context.Background()
	if err := rl.Wait(ctx); err != nil {
		t.Fatalf("Wait failed: %v", err)
	}
}

func TestRateLimiterWaitCancelled(t *testing.T) {
	rl := NewRateLimiter(1)

	// Drain the bucket so Wait must block.
	if !rl.TryConsume() {
		t.Fatal("expected initial token")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if err := rl.Wait(ctx); err == nil {
		t.Error("expected context error")
	}
}

func TestRateLimiterRefill(t *testing.T) {
	rl := NewRateLimiter(6000) // 100 tokens/sec

	for rl.TryConsume() {
	}

	time.Sleep(50 * time.Millisecond)

	if !rl.TryConsume() {
		t.Error("expected refill after elapsed time")
	}
}
